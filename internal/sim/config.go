package sim

import (
	"math/rand"
	"time"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/config"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/render"
)

// NewFromConfig builds a Simulation from loaded settings. opts are applied
// after the config-derived options, so callers may override the clock or
// logger. Extra packages from the config are placed before returning.
func NewFromConfig(target render.Surface, cfg config.Config, opts ...Option) *Simulation {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	base := []Option{
		WithRand(rand.New(rand.NewSource(seed))),
		WithRobotParams(cfg.Params()),
		WithSpeedLevel(core.SpeedLevel(cfg.SpeedLevel)),
		WithMode(cfg.Mode()),
		WithResumeDelay(cfg.ResumeDelay),
	}
	s := New(target, cfg.Canvas.Width, cfg.Canvas.Height, append(base, opts...)...)

	for i := 0; i < cfg.ExtraPackages; i++ {
		if !s.AddRandomPackage() {
			break
		}
	}
	return s
}
