package sim

import (
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
)

type EventType int

const (
	EventStarted EventType = iota + 1
	EventPaused
	EventReset
	EventPackageAdded
	EventEmergencyStop
	EventResumed
	EventModeChanged
	EventSpeedChanged
	EventResized
	EventPickedUp
	EventDelivered
	EventDocked
	EventCharged
	EventLowBattery
)

func (t EventType) String() string {
	names := [...]string{
		"unknown",
		"started",
		"paused",
		"reset",
		"package-added",
		"emergency-stop",
		"resumed",
		"mode-changed",
		"speed-changed",
		"resized",
		"picked-up",
		"delivered",
		"docked",
		"charged",
		"low-battery",
	}
	if int(t) < 0 || int(t) >= len(names) {
		return "unknown"
	}
	return names[t]
}

// --- Event payloads ---

type PackageEvent struct {
	PackageID   string
	Priority    core.Priority
	Weight      int
	Destination string
}

type ModeChangedEvent struct {
	Mode core.Mode
}

type SpeedChangedEvent struct {
	Level core.SpeedLevel
	Speed float64
	Label string
}

type ResizedEvent struct {
	Width, Height float64
}

type RobotEvent struct {
	Pos       core.Pos
	Battery   float64
	PackageID string
}

func packageEvent(p *core.Package) PackageEvent {
	return PackageEvent{
		PackageID:   p.ID,
		Priority:    p.Priority,
		Weight:      p.Weight,
		Destination: p.Destination.Name,
	}
}
