package sim

import (
	"context"
	"log/slog"
	"time"
)

// Run calls Frame on every tick of interval until ctx is cancelled. It
// returns ctx.Err().
func (s *Simulation) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("simulation loop started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("simulation loop stopping", "frames", s.Statistics().Frames)
			return ctx.Err()

		case <-ticker.C:
			s.Frame()
		}
	}
}

// RunFor advances the simulation for d of clock time in steps of frame,
// calling advance before each Frame. Headless soak runs pass a fake clock's
// Advance so that no wall time elapses. A non-positive frame runs nothing.
func (s *Simulation) RunFor(d, frame time.Duration, advance func(time.Duration)) uint64 {
	if frame <= 0 {
		s.log.Warn("simulation run skipped", slog.Duration("frame", frame))
		return 0
	}
	var n uint64
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		advance(frame)
		s.Frame()
		n++
	}
	s.log.Debug("simulation run finished", slog.Duration("simulated", d), slog.Uint64("frames", n))
	return n
}
