// Package main runs scenario configs headless on a fake clock and collects
// delivery and energy metrics.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/clock"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/config"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/logging"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/render"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/sim"
)

// epoch is where every fake clock starts, so runs are reproducible.
var epoch = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

// SoakResult stores the outcome of a single scenario run.
type SoakResult struct {
	Timestamp    string  `json:"timestamp"`
	CommitHash   string  `json:"commit_hash"`
	GoVersion    string  `json:"go_version"`
	OS           string  `json:"os"`
	Arch         string  `json:"arch"`
	Scenario     string  `json:"scenario"`
	Seed         int64   `json:"seed"`
	Canvas       string  `json:"canvas"`
	SpeedLevel   int     `json:"speed_level"`
	SimulatedS   float64 `json:"simulated_s"`
	Frames       uint64  `json:"frames"`
	RuntimeMs    float64 `json:"runtime_ms"`
	PickedUp     int     `json:"picked_up"`
	Delivered    int     `json:"delivered"`
	Docked       int     `json:"docked"`
	LowBattery   int     `json:"low_battery"`
	PackagesLeft int     `json:"packages_left"`
	FinalBattery float64 `json:"final_battery"`
	Distance     float64 `json:"distance"`
	EnergyKWh    float64 `json:"energy_kwh"`
	DrawOps      int     `json:"draw_ops"` // draw calls in the last painted frame
	TextOps      int     `json:"text_ops"`
	Stuck        bool    `json:"stuck"` // packages remained and nothing was delivered
}

func getGitCommit() string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

// scenarioTiming resolves the simulated duration and frame step for cfg.
// Zero flag values fall back to the scenario, then to five minutes and the
// default frame interval.
func scenarioTiming(cfg config.Config, simFlag, frameFlag time.Duration) (d, step time.Duration) {
	d = simFlag
	if d <= 0 {
		d = cfg.Duration
	}
	if d <= 0 {
		d = 5 * time.Minute
	}
	step = frameFlag
	if step <= 0 {
		step = cfg.FrameInterval
	}
	if step <= 0 {
		step = config.Default().FrameInterval
	}
	return d, step
}

// runScenario simulates cfg for simulated time d in steps of frame.
func runScenario(cfg config.Config, d, frame time.Duration, log *slog.Logger) *SoakResult {
	result := &SoakResult{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Scenario:   cfg.Name,
		Seed:       cfg.Seed,
		Canvas:     fmt.Sprintf("%.0fx%.0f", cfg.Canvas.Width, cfg.Canvas.Height),
		SpeedLevel: cfg.SpeedLevel,
		SimulatedS: d.Seconds(),
	}

	clk := clock.NewFake(epoch)
	rec := render.NewRecorder()
	s := sim.NewFromConfig(rec, cfg, sim.WithClock(clk), sim.WithLogger(log))

	var picked, delivered, docked, low atomic.Int64
	s.SubscribeTypes(func(e sim.Event) {
		switch e.Type {
		case sim.EventPickedUp:
			picked.Add(1)
		case sim.EventDelivered:
			delivered.Add(1)
		case sim.EventDocked:
			docked.Add(1)
		case sim.EventLowBattery:
			low.Add(1)
		}
	}, sim.EventPickedUp, sim.EventDelivered, sim.EventDocked, sim.EventLowBattery)

	start := time.Now()
	result.Frames = s.RunFor(d, frame, clk.Advance)
	result.RuntimeMs = float64(time.Since(start).Microseconds()) / 1000.0

	st := s.Statistics()
	result.PickedUp = int(picked.Load())
	result.Delivered = int(delivered.Load())
	result.Docked = int(docked.Load())
	result.LowBattery = int(low.Load())
	result.PackagesLeft = st.PackageCount
	result.FinalBattery = st.BatteryPercent
	result.Distance = st.DistanceTraveled
	result.EnergyKWh = st.EnergyUsedKWh
	result.DrawOps = len(rec.Ops())
	result.TextOps = rec.Count(render.OpText)
	result.Stuck = st.PackageCount > 0 && result.Delivered == 0

	return result
}

func loadScenarios(dir string) ([]config.Config, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("finding scenario files: %w", err)
	}
	sort.Strings(files)

	var cfgs []config.Config
	for _, file := range files {
		cfg, err := config.Load(file)
		if err != nil {
			return nil, err
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}

func writeCSV(results []*SoakResult, w io.Writer) error {
	writer := csv.NewWriter(w)

	header := []string{
		"timestamp", "commit_hash", "go_version", "os", "arch",
		"scenario", "seed", "canvas", "speed_level", "simulated_s", "frames", "runtime_ms",
		"picked_up", "delivered", "docked", "low_battery", "packages_left",
		"final_battery", "distance", "energy_kwh", "draw_ops", "text_ops", "stuck",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.Timestamp, r.CommitHash, r.GoVersion, r.OS, r.Arch,
			r.Scenario, fmt.Sprintf("%d", r.Seed), r.Canvas, fmt.Sprintf("%d", r.SpeedLevel),
			fmt.Sprintf("%.1f", r.SimulatedS), fmt.Sprintf("%d", r.Frames), fmt.Sprintf("%.3f", r.RuntimeMs),
			fmt.Sprintf("%d", r.PickedUp), fmt.Sprintf("%d", r.Delivered), fmt.Sprintf("%d", r.Docked),
			fmt.Sprintf("%d", r.LowBattery), fmt.Sprintf("%d", r.PackagesLeft),
			fmt.Sprintf("%.2f", r.FinalBattery), fmt.Sprintf("%.0f", r.Distance),
			fmt.Sprintf("%.5f", r.EnergyKWh), fmt.Sprintf("%d", r.DrawOps), fmt.Sprintf("%d", r.TextOps),
			fmt.Sprintf("%t", r.Stuck),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

func printSummary(w io.Writer, results []*SoakResult) {
	fmt.Fprintln(w, "\n=== SOAK SUMMARY ===")
	fmt.Fprintf(w, "%-32s %6s %8s %9s %8s %9s %8s\n",
		"Scenario", "Speed", "Frames", "Delivered", "Docked", "Battery%", "Stuck")
	fmt.Fprintln(w, strings.Repeat("-", 86))

	totalDelivered := 0
	stuck := 0
	for _, r := range results {
		fmt.Fprintf(w, "%-32s %6d %8d %9d %8d %8.1f%% %8t\n",
			r.Scenario, r.SpeedLevel, r.Frames, r.Delivered, r.Docked, r.FinalBattery, r.Stuck)
		totalDelivered += r.Delivered
		if r.Stuck {
			stuck++
		}
	}
	fmt.Fprintf(w, "\n%d scenarios, %d packages delivered, %d stuck\n", len(results), totalDelivered, stuck)
}

func main() {
	inputDir := flag.String("dir", "scenarios", "Directory containing scenario YAML files")
	simDuration := flag.Duration("sim", 0, "Simulated time per scenario (0 = scenario duration, else 5m)")
	frame := flag.Duration("frame", 0, "Frame step (0 = scenario frame_interval)")
	csvFile := flag.String("csv", "", "Output CSV file")
	jsonFile := flag.String("json", "", "Output JSON file")
	parallel := flag.Int("parallel", runtime.NumCPU(), "Scenarios run concurrently")
	logLevel := flag.String("log-level", "warn", "Log level for simulation output")

	flag.Parse()

	if *frame < 0 || *simDuration < 0 {
		fmt.Fprintf(os.Stderr, "-frame and -sim must not be negative\n")
		os.Exit(2)
	}

	log := logging.NewLogger(*logLevel, "text")
	slog.SetDefault(log)

	cfgs, err := loadScenarios(*inputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenarios: %v\n", err)
		os.Exit(1)
	}
	if len(cfgs) == 0 {
		fmt.Fprintf(os.Stderr, "No scenario files found in %s\n", *inputDir)
		fmt.Fprintf(os.Stderr, "Run gen_configs first: go run ./tools/gen_configs -out %s\n", *inputDir)
		os.Exit(1)
	}

	fmt.Printf("Running %d scenarios (%d in parallel)\n", len(cfgs), *parallel)

	commit := getGitCommit()
	results := make([]*SoakResult, len(cfgs))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(1, *parallel))

	for i, cfg := range cfgs {
		i, cfg := i, cfg
		d, step := scenarioTiming(cfg, *simDuration, *frame)

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := runScenario(cfg, d, step, log.With("scenario", cfg.Name))
			r.CommitHash = commit
			results[i] = r
			log.Info("scenario finished", "scenario", cfg.Name, "delivered", r.Delivered, "runtime_ms", r.RuntimeMs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running scenarios: %v\n", err)
		os.Exit(1)
	}

	if *csvFile != "" {
		if err := writeFile(*csvFile, func(w io.Writer) error { return writeCSV(results, w) }); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Results written to: %s\n", *csvFile)
	}

	if *jsonFile != "" {
		err := writeFile(*jsonFile, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Results written to: %s\n", *jsonFile)
	}

	printSummary(os.Stdout, results)
}
