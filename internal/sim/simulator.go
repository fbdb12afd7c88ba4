// Package sim drives the warehouse simulation: it owns one warehouse and one
// robot, advances them once per frame, paints the scene onto a render
// surface and exposes the operator commands (start, pause, reset, emergency
// stop, speed, mode, manual moves, resize).
//
// Every public method serialises on a single mutex. Delayed transitions
// (robot picking/delivering, emergency-stop resume) run from an epoch-keyed
// queue that Frame pumps; Reset and EmergencyStop advance the epoch so that
// callbacks scheduled against the previous state never fire.
package sim

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/clock"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/render"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/robot"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/sched"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/warehouse"
)

// DefaultSpeedLevel is applied to every new robot.
const DefaultSpeedLevel core.SpeedLevel = 3

// DefaultResumeDelay is how long an emergency stop holds the simulation.
const DefaultResumeDelay = 2 * time.Second

const resumeEventName = "emergency-resume"

// Simulation is the frame-driven simulation driver.
type Simulation struct {
	mu sync.Mutex

	target render.Surface
	width  float64
	height float64

	clock       clock.Clock
	queue       *sched.Queue
	rng         *rand.Rand
	log         *slog.Logger
	bus         *EventBus
	params      robot.Params
	speedLevel  core.SpeedLevel
	mode        core.Mode
	resumeDelay time.Duration
	newID       func() string

	warehouse *warehouse.Warehouse
	robot     *robot.Robot

	running      bool
	runningSince time.Time
	operational  time.Duration
	frames       uint64

	outbox []Event
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithClock sets the time source. Defaults to the wall clock.
func WithClock(c clock.Clock) Option {
	return func(s *Simulation) { s.clock = c }
}

// WithRand sets the random source shared by the warehouse and robot.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulation) { s.rng = rng }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

// WithRobotParams overrides the robot constants.
func WithRobotParams(p robot.Params) Option {
	return func(s *Simulation) { s.params = p }
}

// WithSpeedLevel sets the speed level applied after construction and reset.
func WithSpeedLevel(l core.SpeedLevel) Option {
	return func(s *Simulation) { s.speedLevel = l.Clamp() }
}

// WithMode sets the robot mode applied after construction and reset.
func WithMode(m core.Mode) Option {
	return func(s *Simulation) { s.mode = m }
}

// WithResumeDelay sets the emergency-stop hold time.
func WithResumeDelay(d time.Duration) Option {
	return func(s *Simulation) { s.resumeDelay = d }
}

// WithIDGenerator sets the package identifier generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Simulation) { s.newID = fn }
}

// New creates a simulation of the given floor size drawing onto target, and
// starts it.
func New(target render.Surface, width, height float64, opts ...Option) *Simulation {
	s := &Simulation{
		target:      target,
		width:       width,
		height:      height,
		clock:       clock.Real{},
		params:      robot.DefaultParams(),
		speedLevel:  DefaultSpeedLevel,
		resumeDelay: DefaultResumeDelay,
		bus:         NewEventBus(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.target == nil {
		s.target = render.Discard
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.queue = sched.New(s.clock)

	s.do(func() {
		s.build()
		s.start()
	})
	return s
}

// do runs fn under the lock, then publishes whatever events fn queued.
func (s *Simulation) do(fn func()) {
	s.mu.Lock()
	fn()
	out := s.outbox
	s.outbox = nil
	s.mu.Unlock()

	for _, e := range out {
		s.bus.Emit(e)
	}
}

func (s *Simulation) emit(t EventType, payload any) {
	e := Event{Type: t, Timestamp: s.clock.Now(), Payload: payload}
	s.log.Debug("simulation event", "type", t, "payload", payload)
	s.outbox = append(s.outbox, e)
}

// build creates a fresh warehouse and a robot at the floor center.
func (s *Simulation) build() {
	whOpts := []warehouse.Option{warehouse.WithRand(s.rng)}
	if s.newID != nil {
		whOpts = append(whOpts, warehouse.WithIDGenerator(s.newID))
	}
	s.warehouse = warehouse.New(s.width, s.height, whOpts...)

	s.robot = robot.New(core.Pos{X: s.width / 2, Y: s.height / 2}, s.warehouse,
		robot.WithParams(s.params),
		robot.WithRand(s.rng),
		robot.WithLogger(s.log),
		robot.WithDeferrer(s.queue),
		robot.WithObserver(s.onRobotEvent),
		robot.WithStartTime(s.clock.Now()),
	)
	s.robot.SetSpeedLevel(s.speedLevel)
	if s.mode != core.ModeAuto {
		s.robot.SetMode(s.mode)
	}
}

func (s *Simulation) onRobotEvent(e robot.Event) {
	payload := RobotEvent{Pos: e.Pos, Battery: e.Battery}
	if e.Package != nil {
		payload.PackageID = e.Package.ID
	}

	switch e.Kind {
	case robot.EventPickedUp:
		s.emit(EventPickedUp, payload)
	case robot.EventDelivered:
		s.emit(EventDelivered, payload)
	case robot.EventDocked:
		s.emit(EventDocked, payload)
	case robot.EventCharged:
		s.emit(EventCharged, payload)
	case robot.EventLowBattery:
		s.emit(EventLowBattery, payload)
	}
}

func (s *Simulation) start() bool {
	if s.running {
		return false
	}
	now := s.clock.Now()
	s.running = true
	s.runningSince = now
	s.robot.Resync(now)
	return true
}

func (s *Simulation) pause() bool {
	if !s.running {
		return false
	}
	s.running = false
	s.operational += s.clock.Now().Sub(s.runningSince)
	return true
}

// Start resumes the frame loop. It is a no-op when already running.
func (s *Simulation) Start() {
	s.do(func() {
		if s.start() {
			s.emit(EventStarted, nil)
		}
	})
}

// Pause stops advancing the simulation. Deferred events keep being pumped
// by Frame.
func (s *Simulation) Pause() {
	s.do(func() {
		if s.pause() {
			s.emit(EventPaused, nil)
		}
	})
}

// Reset discards the warehouse and robot, builds fresh ones and restarts.
func (s *Simulation) Reset() {
	s.do(func() {
		s.pause()
		s.operational = 0
		s.queue.AdvanceEpoch()
		s.build()
		s.start()
		s.emit(EventReset, nil)
	})
}

// Frame advances one animation frame at the current clock time. It reports
// whether the simulation was running and painted the frame.
func (s *Simulation) Frame() bool {
	painted := false
	s.do(func() { painted = s.frame() })
	return painted
}

func (s *Simulation) frame() bool {
	now := s.clock.Now()
	s.queue.RunDue(now)

	if !s.running {
		return false
	}
	s.frames++

	s.target.Clear(render.ColorBackground)
	render.DrawWarehouse(s.target, s.warehouse)
	s.robot.Update(now)
	render.DrawRobot(s.target, s.robot)
	render.DrawStatus(s.target, s.status())
	return true
}

// Paint draws the current scene without advancing it. Retained-mode
// surfaces that must repaint while paused call this.
func (s *Simulation) Paint() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.target.Clear(render.ColorBackground)
	render.DrawWarehouse(s.target, s.warehouse)
	render.DrawRobot(s.target, s.robot)
	render.DrawStatus(s.target, s.status())
}

func (s *Simulation) status() render.Status {
	st := render.Status{
		State:    s.robot.State(),
		Mode:     s.robot.Mode(),
		Battery:  s.robot.Battery(),
		Packages: s.warehouse.PackageCount(),
	}
	if pkg := s.robot.Carrying(); pkg != nil {
		st.Carrying = pkg.ID
	}
	return st
}

// AddRandomPackage places a package on a free shelf. It returns false when
// every shelf is taken.
func (s *Simulation) AddRandomPackage() bool {
	added := false
	s.do(func() {
		pkg := s.warehouse.AddRandomPackage()
		if pkg == nil {
			return
		}
		added = true
		s.emit(EventPackageAdded, packageEvent(pkg))
	})
	return added
}

// SetRobotSpeed sets the robot speed level (1-5).
func (s *Simulation) SetRobotSpeed(level core.SpeedLevel) {
	s.do(func() {
		s.robot.SetSpeedLevel(level)
		l := s.robot.SpeedLevel()
		s.emit(EventSpeedChanged, SpeedChangedEvent{Level: l, Speed: s.robot.Speed(), Label: SpeedLabel(l)})
	})
}

// SetRobotMode switches the robot control mode.
func (s *Simulation) SetRobotMode(m core.Mode) {
	s.do(func() {
		s.robot.SetMode(m)
		s.emit(EventModeChanged, ModeChangedEvent{Mode: s.robot.Mode()})
	})
}

// MoveRobot issues a manual move. Ignored unless the robot is in manual mode.
func (s *Simulation) MoveRobot(d core.Direction) {
	s.do(func() {
		s.robot.Move(d)
	})
}

// EmergencyStop halts the robot, hands control to the operator and pauses
// the simulation. After the resume delay the simulation restarts unless the
// robot has been put into charging mode meanwhile.
func (s *Simulation) EmergencyStop() {
	s.do(func() {
		s.robot.EmergencyStop()
		s.pause()
		s.queue.AdvanceEpoch()
		s.queue.After(s.resumeDelay, resumeEventName, s.resumeAfterStop)
		s.emit(EventEmergencyStop, nil)
	})
}

func (s *Simulation) resumeAfterStop() {
	if s.robot.Mode() == core.ModeCharging {
		return
	}
	if s.start() {
		s.emit(EventResumed, nil)
	}
}

// Resize changes the floor size. Static fixtures keep their coordinates.
func (s *Simulation) Resize(width, height float64) {
	s.do(func() {
		s.width = width
		s.height = height
		s.warehouse.Resize(width, height)
		s.emit(EventResized, ResizedEvent{Width: width, Height: height})
	})
}

// Running reports whether frames currently advance the simulation.
func (s *Simulation) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Size returns the floor size.
func (s *Simulation) Size() (width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Subscribe registers fn for every simulation event.
func (s *Simulation) Subscribe(fn func(Event)) SubscriberID {
	return s.bus.Subscribe(fn)
}

// SubscribeTypes registers fn for the listed event types only.
func (s *Simulation) SubscribeTypes(fn func(Event), types ...EventType) SubscriberID {
	return s.bus.SubscribeTypes(fn, types...)
}

// Unsubscribe removes a subscription.
func (s *Simulation) Unsubscribe(id SubscriberID) {
	s.bus.Unsubscribe(id)
}

// View runs fn with the warehouse and robot under the simulation lock. fn
// must not retain either pointer or call back into the Simulation.
func (s *Simulation) View(fn func(w *warehouse.Warehouse, r *robot.Robot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.warehouse, s.robot)
}
