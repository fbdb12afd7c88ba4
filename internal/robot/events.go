package robot

import (
	"math"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
)

// EventKind identifies a robot event.
type EventKind int

const (
	EventPickedUp EventKind = iota
	EventDelivered
	EventDocked
	EventCharged
	EventLowBattery
)

func (k EventKind) String() string {
	return [...]string{"picked-up", "delivered", "docked", "charged", "low-battery"}[k]
}

// Event is emitted on notable behaviour changes.
type Event struct {
	Kind    EventKind
	Package *core.Package // set for picked-up and delivered
	Pos     core.Pos
	Battery float64
}

// Observer receives robot events synchronously from Update.
type Observer func(Event)

func (r *Robot) emit(e Event) {
	if r.observer != nil {
		r.observer(e)
	}
}

// Statistics is a snapshot of the robot's counters.
type Statistics struct {
	Battery    float64
	Speed      float64
	SpeedLevel core.SpeedLevel
	Distance   float64 // rounded to whole units
	Energy     float64
	Delivered  int
	State      core.State
	Mode       core.Mode
	Carrying   string // package ID, empty when not carrying
}

// Statistics returns the current counters.
func (r *Robot) Statistics() Statistics {
	s := Statistics{
		Battery:    r.battery,
		Speed:      r.speed,
		SpeedLevel: r.speedLevel,
		Distance:   math.Round(r.distance),
		Energy:     r.energy,
		Delivered:  r.delivered,
		State:      r.state,
		Mode:       r.mode,
	}
	if r.carrying != nil {
		s.Carrying = r.carrying.ID
	}
	return s
}
