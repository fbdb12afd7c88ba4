// Package robot implements the warehouse robot: position, battery, carried
// package and the per-tick behaviour loop that shuttles packages from shelves
// to delivery points and detours to a charging station when the battery runs
// low.
package robot

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/looplab/fsm"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/clock"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/sched"
)

// SpatialQuery is the read side of the warehouse the robot navigates.
type SpatialQuery interface {
	Bounds() core.Rect
	IsPositionOccupied(p core.Pos, radius float64) bool
	ClosestPackage(p core.Pos) *core.Package
	ClosestChargingStation(p core.Pos) (core.ChargingStation, bool)
}

// PackageStore is the write side: the robot takes packages out of the pool.
type PackageStore interface {
	PackageCount() int
	RemovePackage(id string)
}

// World combines both capabilities.
type World interface {
	SpatialQuery
	PackageStore
}

// Deferrer schedules a one-shot callback after a delay.
type Deferrer interface {
	After(delay time.Duration, name string, fn func())
}

// Params holds the robot's tunable constants.
type Params struct {
	Size          float64       // Footprint edge (square)
	InitialSpeed  float64       // Units per tick before any speed level is set
	SensorRange   float64       // Drawn around the robot while moving
	LowBattery    float64       // Percent below which the robot heads to a charger
	DrainRate     float64       // Percent per second at speed 3
	EnergyRate    float64       // Energy units per second per unit of speed
	ChargeRate    float64       // Percent per second while charging
	PickupRange   float64       // Distance at which a package is grabbed
	DeliveryRange float64       // Distance at which a delivery completes
	DockRange     float64       // Distance to the station center that starts charging
	PathSteps     int           // Intermediate points generated per path
	Jitter        float64       // Max offset applied to blocked path points
	WaypointReach float64       // Distance at which a path point counts as reached
	BoundsMargin  float64       // Distance kept from the floor edge
	HandlingDelay time.Duration // Time spent in picking/delivering
}

// DefaultParams returns the standard robot constants.
func DefaultParams() Params {
	return Params{
		Size:          40,
		InitialSpeed:  3,
		SensorRange:   100,
		LowBattery:    20,
		DrainRate:     0.05,
		EnergyRate:    0.001,
		ChargeRate:    20,
		PickupRange:   30,
		DeliveryRange: 40,
		DockRange:     30,
		PathSteps:     50,
		Jitter:        20,
		WaypointReach: 5,
		BoundsMargin:  20,
		HandlingDelay: time.Second,
	}
}

// Robot is a single warehouse robot.
type Robot struct {
	params Params
	world  World
	rng    *rand.Rand
	log    *slog.Logger

	pos         core.Pos
	speed       float64
	speedLevel  core.SpeedLevel
	battery     float64
	mode        core.Mode
	modes       *fsm.FSM
	state       core.State
	carrying    *core.Package
	destination *core.Pos
	path        []core.Pos

	distance  float64
	energy    float64
	delivered int

	lowBatteryNotified bool
	lastUpdate         time.Time

	deferrer Deferrer
	pending  *sched.Queue // used when no deferrer is injected
	observer Observer
}

// Option configures a Robot.
type Option func(*Robot)

// WithParams overrides the default constants.
func WithParams(p Params) Option {
	return func(r *Robot) { r.params = p }
}

// WithRand sets the random source used for path jitter.
func WithRand(rng *rand.Rand) Option {
	return func(r *Robot) { r.rng = rng }
}

// WithLogger sets the logger for state changes.
func WithLogger(l *slog.Logger) Option {
	return func(r *Robot) { r.log = l }
}

// WithDeferrer routes delayed transitions to an external queue.
func WithDeferrer(d Deferrer) Option {
	return func(r *Robot) { r.deferrer = d }
}

// WithObserver registers a callback for robot events.
func WithObserver(o Observer) Option {
	return func(r *Robot) { r.observer = o }
}

// WithStartTime sets the reference time for the first Update.
func WithStartTime(t time.Time) Option {
	return func(r *Robot) { r.lastUpdate = t }
}

// New creates a robot at pos, idle in auto mode with a full battery.
func New(pos core.Pos, world World, opts ...Option) *Robot {
	r := &Robot{
		params:  DefaultParams(),
		world:   world,
		pos:     pos,
		battery: 100,
		mode:    core.ModeAuto,
		state:   core.StateIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.speed = r.params.InitialSpeed
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	if r.deferrer == nil {
		r.pending = sched.New(clock.Func(func() time.Time { return r.lastUpdate }))
		r.deferrer = r.pending
	}
	r.modes = newModeMachine(r)
	return r
}

// Update advances the robot to now.
func (r *Robot) Update(now time.Time) {
	if r.lastUpdate.IsZero() {
		r.lastUpdate = now
	}
	dt := now.Sub(r.lastUpdate).Seconds()
	if dt < 0 {
		dt = 0
	}
	r.lastUpdate = now

	if r.pending != nil {
		r.pending.RunDue(now)
	}

	if r.state.Active() {
		r.drain(dt)
	}

	if r.state == core.StateCharging {
		r.charge(dt)
	}

	if r.mode == core.ModeAuto && r.state != core.StateCharging {
		r.autoBehavior()
	}

	if r.state == core.StateMoving && len(r.path) > 0 {
		r.followPath()
	}

	r.pos = r.world.Bounds().Clamp(r.pos, r.params.BoundsMargin)

	if r.state == core.StateMoving {
		r.distance += r.speed * dt
	}
}

// Resync moves the update reference to now so that time spent paused does
// not count as elapsed on the next Update.
func (r *Robot) Resync(now time.Time) {
	r.lastUpdate = now
}

func (r *Robot) drain(dt float64) {
	r.battery -= r.params.DrainRate * (r.speed / 3) * dt
	r.battery = math.Max(0, math.Min(100, r.battery))
	r.energy += r.params.EnergyRate * r.speed * dt

	if r.battery < r.params.LowBattery && !r.lowBatteryNotified {
		r.lowBatteryNotified = true
		r.emit(Event{Kind: EventLowBattery, Pos: r.pos, Battery: r.battery})
	}
}

func (r *Robot) charge(dt float64) {
	r.battery += r.params.ChargeRate * dt
	if r.battery < 100 {
		return
	}
	r.battery = 100
	r.lowBatteryNotified = false
	r.setState(core.StateIdle)
	r.setMode(core.ModeAuto)
	r.emit(Event{Kind: EventCharged, Pos: r.pos, Battery: r.battery})
}

func (r *Robot) setState(s core.State) {
	if r.state == s {
		return
	}
	r.log.Debug("robot state changed", "from", r.state, "to", s)
	r.state = s
}

// setMode is for mode changes the robot makes itself (docking, full
// charge); operator commands go through apply.
func (r *Robot) setMode(m core.Mode) {
	r.modes.SetState(m.String())
	r.recordMode(m)
}

func (r *Robot) recordMode(m core.Mode) {
	if r.mode == m {
		return
	}
	r.log.Debug("robot mode changed", "from", r.mode, "to", m)
	r.mode = m
}

func (r *Robot) defer1(name string, fn func()) {
	r.deferrer.After(r.params.HandlingDelay, name, fn)
}

// Pos returns the robot center.
func (r *Robot) Pos() core.Pos { return r.pos }

// Size returns the footprint edge length.
func (r *Robot) Size() float64 { return r.params.Size }

// SensorRange returns the sensor radius.
func (r *Robot) SensorRange() float64 { return r.params.SensorRange }

// Battery returns the charge level in percent.
func (r *Robot) Battery() float64 { return r.battery }

// Speed returns the movement speed in units per tick.
func (r *Robot) Speed() float64 { return r.speed }

// SpeedLevel returns the last speed level set, or 0 before any was set.
func (r *Robot) SpeedLevel() core.SpeedLevel { return r.speedLevel }

// Mode returns the control mode.
func (r *Robot) Mode() core.Mode { return r.mode }

// State returns the behaviour state.
func (r *Robot) State() core.State { return r.state }

// Carrying returns the carried package or nil.
func (r *Robot) Carrying() *core.Package { return r.carrying }

// Destination returns the current target point.
func (r *Robot) Destination() (core.Pos, bool) {
	if r.destination == nil {
		return core.Pos{}, false
	}
	return *r.destination, true
}

// Path returns a copy of the remaining path points.
func (r *Robot) Path() []core.Pos {
	out := make([]core.Pos, len(r.path))
	copy(out, r.path)
	return out
}

// Delivered returns the number of packages delivered.
func (r *Robot) Delivered() int { return r.delivered }
