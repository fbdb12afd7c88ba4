// Package core defines domain models for the warehouse robot simulation.
package core

import (
	"fmt"
	"strings"
)

// Mode is who drives the robot.
type Mode int

const (
	ModeAuto     Mode = iota // Autonomous pickup/delivery loop
	ModeManual               // Operator moves the robot
	ModeCharging             // Docked, recharging
)

func (m Mode) String() string {
	return [...]string{"auto", "manual", "charging"}[m]
}

// ParseMode converts "auto", "manual" or "charging" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return ModeAuto, nil
	case "manual":
		return ModeManual, nil
	case "charging":
		return ModeCharging, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// State is what the robot is currently doing.
type State int

const (
	StateIdle State = iota
	StateMoving
	StateCharging
	StatePicking
	StateDelivering
)

func (s State) String() string {
	return [...]string{"idle", "moving", "charging", "picking", "delivering"}[s]
}

// Active reports whether the robot draws power in this state.
func (s State) Active() bool {
	return s != StateIdle && s != StateCharging
}

// Direction is a manual movement command.
type Direction int

const (
	DirStop Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	return [...]string{"stop", "up", "down", "left", "right"}[d]
}

// Delta returns the unit displacement for the direction in screen coordinates
// (y grows downwards).
func (d Direction) Delta() (dx, dy float64) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// ParseDirection converts "up", "down", "left", "right" or "stop".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	case "stop":
		return DirStop, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// Priority classifies package urgency.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityHigh
)

func (p Priority) String() string {
	return [...]string{"NORMAL", "HIGH"}[p]
}

// SpeedLevel is the operator-facing speed setting (1-5).
type SpeedLevel int

const (
	MinSpeedLevel SpeedLevel = 1
	MaxSpeedLevel SpeedLevel = 5
)

// Speed returns the movement speed in units per tick for a level.
func (l SpeedLevel) Speed() float64 {
	return float64(l) * 2
}

// Clamp limits the level to 1-5.
func (l SpeedLevel) Clamp() SpeedLevel {
	if l < MinSpeedLevel {
		return MinSpeedLevel
	}
	if l > MaxSpeedLevel {
		return MaxSpeedLevel
	}
	return l
}

// Label returns the dashboard name of the level.
func (l SpeedLevel) Label() string {
	switch l.Clamp() {
	case 1:
		return "Slow"
	case 2:
		return "Medium"
	case 3:
		return "Normal"
	case 4:
		return "Fast"
	default:
		return "Turbo"
	}
}
