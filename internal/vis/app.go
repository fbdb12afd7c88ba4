// Package vis implements the Gio window for the warehouse simulation.
package vis

import (
	"log/slog"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/config"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/render"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/sim"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/vis/draw"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/vis/interact"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/vis/widgets"
)

// App is the main visualization application.
type App struct {
	sim       *sim.Simulation
	ctl       widgets.Controls
	theme     *material.Theme
	camera    *interact.Camera
	workspace *widgets.Workspace
	toolbar   *widgets.Toolbar
	stats     *widgets.StatsPanel
	log       *slog.Logger
}

// NewApp creates the window contents for a simulation built from cfg.
func NewApp(cfg config.Config, log *slog.Logger) *App {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))

	camera := interact.NewCamera()
	canvas := draw.NewCanvas(th, camera)
	s := sim.NewFromConfig(canvas, cfg, sim.WithLogger(log))

	a := &App{
		sim:       s,
		ctl:       s,
		theme:     th,
		camera:    camera,
		workspace: widgets.NewWorkspace(s, canvas, camera),
		toolbar:   widgets.NewToolbar(s),
		stats:     widgets.NewStatsPanel(s.Statistics),
		log:       log,
	}
	s.Subscribe(a.stats.Record)
	return a
}

// Simulation returns the simulation driven by the window.
func (a *App) Simulation() *sim.Simulation {
	return a.sim
}

// Run starts the application event loop.
func (a *App) Run(w *app.Window) error {
	var ops op.Ops

	// Event filters for keyboard input
	tag := new(int)
	focused := false

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			a.log.Info("window closed", "frames", a.sim.Statistics().Frames)
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			for {
				ev, ok := gtx.Event(key.Filter{Focus: tag})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					a.handleKey(ke.Name)
				}
			}

			event.Op(gtx.Ops, tag)
			if !focused {
				gtx.Execute(key.FocusCmd{Tag: tag})
				focused = true
			}

			a.layout(gtx)
			e.Frame(gtx.Ops)

			// Frames drive the simulation, including the deferred resume
			// after an emergency stop, so redraw continuously.
			w.Invalidate()
		}
	}
}

// handleKey maps a key press to a simulation control.
func (a *App) handleKey(name key.Name) {
	switch name {
	case key.NameUpArrow, "W":
		a.ctl.MoveRobot(core.DirUp)
	case key.NameDownArrow, "S":
		a.ctl.MoveRobot(core.DirDown)
	case key.NameLeftArrow, "A":
		a.ctl.MoveRobot(core.DirLeft)
	case key.NameRightArrow, "D":
		a.ctl.MoveRobot(core.DirRight)
	case key.NameSpace:
		a.ctl.MoveRobot(core.DirStop)

	case "M":
		if a.ctl.Statistics().Mode == core.ModeManual {
			a.ctl.SetRobotMode(core.ModeAuto)
		} else {
			a.ctl.SetRobotMode(core.ModeManual)
		}
	case "C":
		a.ctl.SetRobotMode(core.ModeCharging)

	case "P":
		a.ctl.AddRandomPackage()
	case "E":
		a.ctl.EmergencyStop()
	case "R":
		a.ctl.Reset()
	case "1", "2", "3", "4", "5":
		a.ctl.SetRobotSpeed(core.SpeedLevel(name[0] - '0'))
	case key.NameReturn, key.NameEnter:
		if a.ctl.Running() {
			a.ctl.Pause()
		} else {
			a.ctl.Start()
		}
	case key.NameHome:
		a.camera.Reset()
	case "F":
		a.workspace.FitFloor()
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, render.ColorBackground)

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.toolbar.Layout(gtx, a.theme)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return a.workspace.Layout(gtx)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return a.stats.Layout(gtx, a.theme)
				}),
			)
		}),
	)
}
