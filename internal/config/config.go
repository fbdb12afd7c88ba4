package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/robot"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "WAREHOUSESIM_CONFIG"

// DefaultPath is used when neither a flag nor the environment names a file.
const DefaultPath = "warehousesim.yaml"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings for a simulation run.
type Config struct {
	Name string `yaml:"name"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // text or json

	// Floor
	Canvas CanvasConfig `yaml:"canvas"`

	// Loop
	FrameInterval time.Duration `yaml:"frame_interval"`
	Duration      time.Duration `yaml:"duration"` // headless only, 0 runs until interrupted
	StatsInterval time.Duration `yaml:"stats_interval"`

	Seed          int64         `yaml:"seed"` // 0 picks a time-based seed
	SpeedLevel    int           `yaml:"speed_level"`
	InitialMode   string        `yaml:"initial_mode"` // auto, manual or charging
	ResumeDelay   time.Duration `yaml:"emergency_resume_delay"`
	ExtraPackages int           `yaml:"extra_packages"` // added on top of the initial three

	Robot RobotConfig `yaml:"robot"`
}

// CanvasConfig is the floor size in pixels.
type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// RobotConfig mirrors robot.Params.
type RobotConfig struct {
	LowBattery    float64       `yaml:"low_battery"`
	DrainRate     float64       `yaml:"drain_rate"`
	EnergyRate    float64       `yaml:"energy_rate"`
	ChargeRate    float64       `yaml:"charge_rate"`
	PickupRange   float64       `yaml:"pickup_range"`
	DeliveryRange float64       `yaml:"delivery_range"`
	DockRange     float64       `yaml:"dock_range"`
	PathSteps     int           `yaml:"path_steps"`
	Jitter        float64       `yaml:"jitter"`
	SensorRange   float64       `yaml:"sensor_range"`
	HandlingDelay time.Duration `yaml:"handling_delay"`
}

// Default returns Config with the stock simulation settings.
func Default() Config {
	p := robot.DefaultParams()
	return Config{
		Name:          "default",
		LogLevel:      "info",
		LogFormat:     "text",
		Canvas:        CanvasConfig{Width: 800, Height: 500},
		FrameInterval: 16 * time.Millisecond,
		StatsInterval: 5 * time.Second,
		SpeedLevel:    3,
		InitialMode:   "auto",
		ResumeDelay:   2 * time.Second,
		Robot: RobotConfig{
			LowBattery:    p.LowBattery,
			DrainRate:     p.DrainRate,
			EnergyRate:    p.EnergyRate,
			ChargeRate:    p.ChargeRate,
			PickupRange:   p.PickupRange,
			DeliveryRange: p.DeliveryRange,
			DockRange:     p.DockRange,
			PathSteps:     p.PathSteps,
			Jitter:        p.Jitter,
			SensorRange:   p.SensorRange,
			HandlingDelay: p.HandlingDelay,
		},
	}
}

// Path resolves the config file path: the flag value if set, then the
// environment, then DefaultPath.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	return DefaultPath
}

// Load loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Validate checks ranges.
func (c Config) Validate() error {
	switch {
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return fmt.Errorf("%w: canvas size %vx%v", ErrInvalid, c.Canvas.Width, c.Canvas.Height)
	case c.FrameInterval <= 0:
		return fmt.Errorf("%w: frame_interval must be positive", ErrInvalid)
	case c.SpeedLevel < int(core.MinSpeedLevel) || c.SpeedLevel > int(core.MaxSpeedLevel):
		return fmt.Errorf("%w: speed_level %d outside 1-5", ErrInvalid, c.SpeedLevel)
	case c.ResumeDelay < 0 || c.Duration < 0 || c.StatsInterval < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalid)
	case c.ExtraPackages < 0:
		return fmt.Errorf("%w: extra_packages must not be negative", ErrInvalid)
	case c.Robot.PathSteps <= 0:
		return fmt.Errorf("%w: robot.path_steps must be positive", ErrInvalid)
	case c.Robot.LowBattery < 0 || c.Robot.LowBattery >= 100:
		return fmt.Errorf("%w: robot.low_battery %v outside [0,100)", ErrInvalid, c.Robot.LowBattery)
	case c.Robot.ChargeRate <= 0:
		return fmt.Errorf("%w: robot.charge_rate must be positive", ErrInvalid)
	case c.Robot.DrainRate < 0 || c.Robot.EnergyRate < 0:
		return fmt.Errorf("%w: robot drain_rate and energy_rate must not be negative", ErrInvalid)
	case c.Robot.PickupRange < 0 || c.Robot.DeliveryRange < 0 || c.Robot.DockRange < 0 || c.Robot.SensorRange < 0:
		return fmt.Errorf("%w: robot ranges must not be negative", ErrInvalid)
	case c.Robot.Jitter < 0:
		return fmt.Errorf("%w: robot.jitter must not be negative", ErrInvalid)
	case c.Robot.HandlingDelay < 0:
		return fmt.Errorf("%w: robot.handling_delay must not be negative", ErrInvalid)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format %q", ErrInvalid, c.LogFormat)
	}
	if _, err := core.ParseMode(c.InitialMode); err != nil {
		return fmt.Errorf("%w: initial_mode: %v", ErrInvalid, err)
	}
	return nil
}

// Mode returns the parsed initial robot mode, auto if it does not parse.
func (c Config) Mode() core.Mode {
	m, err := core.ParseMode(c.InitialMode)
	if err != nil {
		return core.ModeAuto
	}
	return m
}

// Params converts the robot section to robot.Params.
func (c Config) Params() robot.Params {
	p := robot.DefaultParams()
	p.LowBattery = c.Robot.LowBattery
	p.DrainRate = c.Robot.DrainRate
	p.EnergyRate = c.Robot.EnergyRate
	p.ChargeRate = c.Robot.ChargeRate
	p.PickupRange = c.Robot.PickupRange
	p.DeliveryRange = c.Robot.DeliveryRange
	p.DockRange = c.Robot.DockRange
	p.PathSteps = c.Robot.PathSteps
	p.Jitter = c.Robot.Jitter
	p.SensorRange = c.Robot.SensorRange
	p.HandlingDelay = c.Robot.HandlingDelay
	return p
}
