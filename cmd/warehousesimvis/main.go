// Command warehousesimvis shows the warehouse robot simulation in a window.
package main

import (
	"flag"
	"log/slog"
	"os"

	"gioui.org/app"
	"gioui.org/unit"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/config"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/logging"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/vis"
)

func main() {
	configPath := flag.String("config", "", "config file (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	flag.Parse()

	path := config.Path(*configPath)
	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(1)
	}
	log := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	go func() {
		window := new(app.Window)
		window.Option(
			app.Title("Warehouse Robot Simulator"),
			app.Size(unit.Dp(1200), unit.Dp(700)),
		)

		application := vis.NewApp(cfg, log)
		if err := application.Run(window); err != nil {
			log.Error("window", "err", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
}
