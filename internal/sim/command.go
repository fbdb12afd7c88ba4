package sim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
)

// ErrUnknownCommand is wrapped when Exec does not recognise a command.
var ErrUnknownCommand = errors.New("unknown command")

// Exec runs one operator command line such as "move left", "mode manual",
// "speed 4", "start", "pause", "reset", "estop" or "package". Blank lines
// are ignored.
func (s *Simulation) Exec(line string) error {
	parts := strings.Fields(strings.ToLower(line))
	if len(parts) == 0 {
		return nil
	}
	name, args := parts[0], parts[1:]

	switch name {
	case "start":
		s.Start()
	case "pause":
		s.Pause()
	case "reset":
		s.Reset()
	case "estop", "stop":
		s.EmergencyStop()
	case "package":
		if !s.AddRandomPackage() {
			return errors.New("package: every shelf is taken")
		}

	case "move":
		if len(args) != 1 {
			return fmt.Errorf("move: want one direction, got %d args", len(args))
		}
		d, err := core.ParseDirection(args[0])
		if err != nil {
			return fmt.Errorf("move: %w", err)
		}
		s.MoveRobot(d)

	case "mode":
		if len(args) != 1 {
			return fmt.Errorf("mode: want one mode, got %d args", len(args))
		}
		m, err := core.ParseMode(args[0])
		if err != nil {
			return fmt.Errorf("mode: %w", err)
		}
		s.SetRobotMode(m)

	case "speed":
		if len(args) != 1 {
			return fmt.Errorf("speed: want one level, got %d args", len(args))
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < int(core.MinSpeedLevel) || n > int(core.MaxSpeedLevel) {
			return fmt.Errorf("speed: level %q outside 1-5", args[0])
		}
		s.SetRobotSpeed(core.SpeedLevel(n))

	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}
	return nil
}
