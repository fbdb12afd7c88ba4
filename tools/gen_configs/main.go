// Package main writes seeded YAML scenario configs for soak runs.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/config"
)

// ScenarioParams bounds the randomised settings.
type ScenarioParams struct {
	Seed          int64
	Width, Height float64
	Duration      time.Duration
	MaxExtra      int
}

// canvasSizes is the floor size ladder used with -scaling.
var canvasSizes = [][2]float64{
	{800, 500},
	{1200, 700},
	{1600, 900},
	{2000, 1200},
}

// generateConfig derives scenario i from params. The same params and index
// always produce the same config.
func generateConfig(params ScenarioParams, i int) config.Config {
	rng := rand.New(rand.NewSource(params.Seed + int64(i)*7919))

	cfg := config.Default()
	cfg.Name = fmt.Sprintf("scenario_%02d_%.0fx%.0f_%d", i, params.Width, params.Height, params.Seed)
	cfg.Canvas.Width = params.Width
	cfg.Canvas.Height = params.Height
	cfg.Seed = rng.Int63n(1<<31-1) + 1
	cfg.Duration = params.Duration
	cfg.SpeedLevel = 1 + rng.Intn(5)
	if params.MaxExtra > 0 {
		cfg.ExtraPackages = rng.Intn(params.MaxExtra + 1)
	}
	cfg.Robot.LowBattery = float64(15 + rng.Intn(16))
	cfg.Robot.DrainRate = 0.03 + rng.Float64()*0.07
	cfg.LogLevel = "warn"
	return cfg
}

func main() {
	seed := flag.Int64("seed", 1, "Random seed for deterministic generation")
	n := flag.Int("n", 5, "Number of scenarios per floor size")
	width := flag.Float64("width", 800, "Floor width")
	height := flag.Float64("height", 500, "Floor height")
	duration := flag.Duration("duration", 5*time.Minute, "Simulated duration per scenario")
	maxExtra := flag.Int("extra", 8, "Maximum extra packages per scenario")
	outputDir := flag.String("out", "scenarios", "Output directory")
	scalingMode := flag.Bool("scaling", false, "Generate n scenarios for each floor size in the scaling ladder")

	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	sizes := [][2]float64{{*width, *height}}
	if *scalingMode {
		sizes = canvasSizes
	}

	for _, size := range sizes {
		params := ScenarioParams{
			Seed:     *seed,
			Width:    size[0],
			Height:   size[1],
			Duration: *duration,
			MaxExtra: *maxExtra,
		}

		for i := 0; i < *n; i++ {
			cfg := generateConfig(params, i)
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(os.Stderr, "Error in scenario %s: %v\n", cfg.Name, err)
				continue
			}

			filename := filepath.Join(*outputDir, cfg.Name+".yaml")
			if err := config.Save(filename, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing scenario: %v\n", err)
				continue
			}

			fmt.Printf("Generated: %s (speed %d, +%d packages, low battery %.0f%%)\n",
				filename, cfg.SpeedLevel, cfg.ExtraPackages, cfg.Robot.LowBattery)
		}
	}
}
