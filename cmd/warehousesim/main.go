// Command warehousesim runs the warehouse robot simulation without a window
// and logs its statistics.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/config"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/logging"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/render"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/robot"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/sim"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/warehouse"
)

func main() {
	configPath := flag.String("config", "", "config file (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	duration := flag.Duration("duration", 0, "stop after this long (overrides config, 0 = until interrupted)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	mode := flag.String("mode", "", "initial robot mode override (auto, manual, charging)")
	console := flag.Bool("console", false, "read operator commands from stdin (move up, mode manual, speed 4, estop, ...)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := options{
		configPath: *configPath,
		duration:   *duration,
		logLevel:   *logLevel,
		mode:       *mode,
	}
	if *console {
		opts.commands = os.Stdin
	}

	if err := run(ctx, opts); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	duration   time.Duration
	logLevel   string
	mode       string
	commands   io.Reader // nil disables the console
}

func run(ctx context.Context, opts options) error {
	path := config.Path(opts.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.duration > 0 {
		cfg.Duration = opts.duration
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.mode != "" {
		if _, err := core.ParseMode(opts.mode); err != nil {
			return fmt.Errorf("-mode: %w", err)
		}
		cfg.InitialMode = opts.mode
	}

	log := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	log.Info("config loaded",
		"path", path,
		"scenario", cfg.Name,
		"canvas", fmt.Sprintf("%.0fx%.0f", cfg.Canvas.Width, cfg.Canvas.Height),
		"frame_interval", cfg.FrameInterval,
		"duration", cfg.Duration,
	)

	s := sim.NewFromConfig(render.Discard, cfg, sim.WithLogger(log))
	logLayout(log, s)
	s.SubscribeTypes(func(e sim.Event) {
		log.Info("robot event", "type", e.Type, "payload", e.Payload)
	}, sim.EventPickedUp, sim.EventDelivered, sim.EventDocked, sim.EventCharged, sim.EventLowBattery)

	if cfg.Duration > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, cfg.Duration)
		defer stop()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.Run(gctx, cfg.FrameInterval)
	})

	if cfg.StatsInterval > 0 {
		g.Go(func() error {
			return reportStats(gctx, log, s, cfg.StatsInterval)
		})
	}

	if opts.commands != nil {
		g.Go(func() error {
			return runConsole(gctx, log, s, opts.commands)
		})
	}

	err = g.Wait()
	logStats(log, "final statistics", s.Statistics())

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func logLayout(log *slog.Logger, s *sim.Simulation) {
	s.View(func(w *warehouse.Warehouse, r *robot.Robot) {
		log.Info("warehouse ready",
			"shelves", len(w.Shelves()),
			"stations", len(w.ChargingStations()),
			"obstacles", len(w.Obstacles()),
			"waypoints", len(w.Waypoints()),
			"robot", r.Pos(),
		)
	})
}

// runConsole executes one command per input line until ctx ends. Bad
// commands are logged and skipped. End of input leaves the simulation running.
func runConsole(ctx context.Context, log *slog.Logger, s *sim.Simulation, r io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				log.Info("console closed")
				return nil
			}
			if err := s.Exec(line); err != nil {
				log.Warn("console command rejected", "line", line, "err", err)
				continue
			}
			log.Debug("console command", "line", line)
		}
	}
}

func reportStats(ctx context.Context, log *slog.Logger, s *sim.Simulation, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			logStats(log, "statistics", s.Statistics())
		}
	}
}

func logStats(log *slog.Logger, msg string, st sim.Statistics) {
	log.Info(msg,
		"packages", st.PackageCount,
		"battery", fmt.Sprintf("%.1f%%", st.BatteryPercent),
		"delivered", st.DeliveredCount,
		"distance", st.DistanceTraveled,
		"energy_kwh", fmt.Sprintf("%.4f", st.EnergyUsedKWh),
		"speed", st.SpeedLevel.Label(),
		"state", st.State,
		"mode", st.Mode,
		"uptime", st.OperationalTime.Truncate(time.Second),
		"frames", st.Frames,
		"pending_events", st.PendingEvents,
	)
}
