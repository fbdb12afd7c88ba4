package robot

import (
	"context"
	"errors"
	"slices"

	"github.com/looplab/fsm"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
)

// Command is an operator instruction that changes the robot's mode.
type Command int

const (
	CmdAuto Command = iota
	CmdManual
	CmdCharging
	CmdEmergencyStop
)

func (c Command) String() string {
	return [...]string{"auto", "manual", "charging", "emergency-stop"}[c]
}

// Transition is the outcome of applying a Command in some mode.
type Transition struct {
	Mode      core.Mode
	State     core.State
	KeepState bool // leave the behaviour state untouched
	ClearPath bool
}

// effect is the behaviour-state half of a transition.
type effect struct {
	state     core.State
	keepState bool
	clearPath bool
}

var allModes = []string{
	core.ModeAuto.String(),
	core.ModeManual.String(),
	core.ModeCharging.String(),
}

// modeEvents is the mode half of the transition table. Operator commands are
// accepted from every mode.
var modeEvents = fsm.Events{
	{Name: CmdAuto.String(), Src: allModes, Dst: core.ModeAuto.String()},
	{Name: CmdManual.String(), Src: allModes, Dst: core.ModeManual.String()},
	{Name: CmdCharging.String(), Src: allModes, Dst: core.ModeCharging.String()},
	{Name: CmdEmergencyStop.String(), Src: allModes, Dst: core.ModeManual.String()},
}

var effects = map[Command]effect{
	CmdAuto:          {keepState: true},
	CmdManual:        {state: core.StateIdle, clearPath: true},
	CmdCharging:      {state: core.StateCharging},
	CmdEmergencyStop: {state: core.StateIdle, clearPath: true},
}

// Lookup returns the transition for cmd issued in mode.
func Lookup(mode core.Mode, cmd Command) (Transition, bool) {
	eff, ok := effects[cmd]
	if !ok {
		return Transition{}, false
	}
	for _, ev := range modeEvents {
		if ev.Name != cmd.String() || !slices.Contains(ev.Src, mode.String()) {
			continue
		}
		dst, err := core.ParseMode(ev.Dst)
		if err != nil {
			return Transition{}, false
		}
		return Transition{Mode: dst, State: eff.state, KeepState: eff.keepState, ClearPath: eff.clearPath}, true
	}
	return Transition{}, false
}

func commandFor(m core.Mode) Command {
	switch m {
	case core.ModeManual:
		return CmdManual
	case core.ModeCharging:
		return CmdCharging
	default:
		return CmdAuto
	}
}

func parseCommand(name string) (Command, bool) {
	for c := CmdAuto; c <= CmdEmergencyStop; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// newModeMachine builds the per-robot mode machine. Its callback runs for
// self-transitions too, so re-issuing the current mode still applies the
// state effect.
func newModeMachine(r *Robot) *fsm.FSM {
	return fsm.NewFSM(
		r.mode.String(),
		modeEvents,
		fsm.Callbacks{
			"after_event": func(_ context.Context, e *fsm.Event) {
				r.onModeEvent(e.Event, e.Src)
			},
		},
	)
}

func (r *Robot) onModeEvent(event, src string) {
	cmd, ok := parseCommand(event)
	if !ok {
		return
	}
	from, err := core.ParseMode(src)
	if err != nil {
		return
	}
	tr, ok := Lookup(from, cmd)
	if !ok {
		return
	}

	r.recordMode(tr.Mode)
	if !tr.KeepState {
		r.setState(tr.State)
	}
	if tr.ClearPath {
		r.path = nil
	}
}

func (r *Robot) apply(cmd Command) {
	err := r.modes.Event(context.Background(), cmd.String())
	var same fsm.NoTransitionError
	if err != nil && !errors.As(err, &same) {
		r.log.Warn("robot command rejected", "command", cmd, "mode", r.mode, "err", err)
	}
}

// SetMode switches the control mode.
func (r *Robot) SetMode(m core.Mode) {
	r.apply(commandFor(m))
}

// EmergencyStop halts the robot and hands control to the operator.
func (r *Robot) EmergencyStop() {
	r.apply(CmdEmergencyStop)
}

// SetSpeedLevel sets speed to level*2. Levels outside 1-5 are clamped.
func (r *Robot) SetSpeedLevel(level core.SpeedLevel) {
	level = level.Clamp()
	r.speedLevel = level
	r.speed = level.Speed()
}

// Move shifts the robot one speed step in dir. Only honoured in manual mode.
// A move that would overlap a shelf or obstacle is rolled back.
func (r *Robot) Move(dir core.Direction) {
	if r.mode != core.ModeManual {
		return
	}

	if dir == core.DirStop {
		r.setState(core.StateIdle)
		return
	}

	r.setState(core.StateMoving)
	prev := r.pos
	dx, dy := dir.Delta()
	r.pos.X += dx * r.speed
	r.pos.Y += dy * r.speed

	if r.world.IsPositionOccupied(r.pos, r.params.Size/2) {
		r.pos = prev
	}
}
