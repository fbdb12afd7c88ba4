package widgets

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/sim"
)

// Controls is the simulation surface the toolbar and keyboard act on.
type Controls interface {
	Start()
	Pause()
	Reset()
	EmergencyStop()
	AddRandomPackage() bool
	SetRobotMode(core.Mode)
	SetRobotSpeed(core.SpeedLevel)
	MoveRobot(core.Direction)
	Running() bool
	Statistics() sim.Statistics
}

var (
	colorToolbar   = color.NRGBA{R: 40, G: 43, B: 48, A: 255}
	colorButton    = color.NRGBA{R: 55, G: 58, B: 65, A: 255}
	colorActive    = color.NRGBA{R: 80, G: 130, B: 180, A: 255}
	colorDanger    = color.NRGBA{R: 0xef, G: 0x47, B: 0x6f, A: 255}
	colorSeparator = color.NRGBA{R: 60, G: 65, B: 70, A: 255}
	colorLabel     = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
)

// Toolbar provides control buttons.
type Toolbar struct {
	ctl Controls

	startBtn  widget.Clickable
	pauseBtn  widget.Clickable
	resetBtn  widget.Clickable
	estopBtn  widget.Clickable
	addPkgBtn widget.Clickable

	autoBtn     widget.Clickable
	manualBtn   widget.Clickable
	chargingBtn widget.Clickable

	speedDownBtn widget.Clickable
	speedUpBtn   widget.Clickable
}

// NewToolbar creates a new toolbar.
func NewToolbar(ctl Controls) *Toolbar {
	return &Toolbar{ctl: ctl}
}

// Layout renders the toolbar.
func (t *Toolbar) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	height := gtx.Dp(unit.Dp(48))

	rect := image.Rect(0, 0, gtx.Constraints.Max.X, height)
	paint.FillShape(gtx.Ops, colorToolbar, clip.Rect(rect).Op())

	t.handleClicks(gtx)
	stats := t.ctl.Statistics()

	return layout.Inset{Left: unit.Dp(10), Right: unit.Dp(10), Top: unit.Dp(8), Bottom: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.layoutRunControls(gtx, th, stats)
			}),
			layout.Rigid(t.layoutSeparator),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.layoutModeControls(gtx, th, stats.Mode)
			}),
			layout.Rigid(t.layoutSeparator),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.layoutSpeedControls(gtx, th, stats.SpeedLevel)
			}),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return layout.Dimensions{}
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.button(gtx, th, &t.estopBtn, "EMERGENCY STOP", colorDanger)
			}),
		)
	})
}

func (t *Toolbar) layoutRunControls(gtx layout.Context, th *material.Theme, stats sim.Statistics) layout.Dimensions {
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if stats.Running {
				return t.button(gtx, th, &t.pauseBtn, "Pause", colorButton)
			}
			return t.button(gtx, th, &t.startBtn, "Start", colorActive)
		}),
		layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.button(gtx, th, &t.resetBtn, "Reset", colorButton)
		}),
		layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.button(gtx, th, &t.addPkgBtn, "+ Package", colorButton)
		}),
	)
}

func (t *Toolbar) layoutModeControls(gtx layout.Context, th *material.Theme, mode core.Mode) layout.Dimensions {
	modeBtn := func(btn *widget.Clickable, label string, m core.Mode) layout.Widget {
		return func(gtx layout.Context) layout.Dimensions {
			bg := colorButton
			if mode == m {
				bg = colorActive
			}
			return t.button(gtx, th, btn, label, bg)
		}
	}
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Rigid(modeBtn(&t.autoBtn, "Auto", core.ModeAuto)),
		layout.Rigid(layout.Spacer{Width: unit.Dp(2)}.Layout),
		layout.Rigid(modeBtn(&t.manualBtn, "Manual", core.ModeManual)),
		layout.Rigid(layout.Spacer{Width: unit.Dp(2)}.Layout),
		layout.Rigid(modeBtn(&t.chargingBtn, "Charge", core.ModeCharging)),
	)
}

func (t *Toolbar) layoutSpeedControls(gtx layout.Context, th *material.Theme, level core.SpeedLevel) layout.Dimensions {
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.button(gtx, th, &t.speedDownBtn, "-", colorButton)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Left: unit.Dp(6), Right: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				lbl := material.Label(th, 12, "Speed: "+level.Label())
				lbl.Color = colorLabel
				return lbl.Layout(gtx)
			})
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.button(gtx, th, &t.speedUpBtn, "+", colorButton)
		}),
	)
}

func (t *Toolbar) layoutSeparator(gtx layout.Context) layout.Dimensions {
	return layout.Inset{Left: unit.Dp(8), Right: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		rect := image.Rect(0, 0, 1, 24)
		paint.FillShape(gtx.Ops, colorSeparator, clip.Rect(rect).Op())
		return layout.Dimensions{Size: image.Point{X: 1, Y: 24}}
	})
}

func (t *Toolbar) button(gtx layout.Context, th *material.Theme, btn *widget.Clickable, text string, bg color.NRGBA) layout.Dimensions {
	if btn.Hovered() {
		bg.R = minU8(bg.R, 240) + 15
		bg.G = minU8(bg.G, 240) + 15
		bg.B = minU8(bg.B, 240) + 15
	}

	return btn.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Background{}.Layout(gtx,
			func(gtx layout.Context) layout.Dimensions {
				rect := image.Rect(0, 0, gtx.Constraints.Min.X, gtx.Constraints.Min.Y)
				paint.FillShape(gtx.Ops, bg, clip.Rect(rect).Op())
				return layout.Dimensions{Size: gtx.Constraints.Min}
			},
			func(gtx layout.Context) layout.Dimensions {
				return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					label := material.Label(th, 12, text)
					label.Color = colorLabel
					return label.Layout(gtx)
				})
			},
		)
	})
}

func (t *Toolbar) handleClicks(gtx layout.Context) {
	for t.startBtn.Clicked(gtx) {
		t.ctl.Start()
	}
	for t.pauseBtn.Clicked(gtx) {
		t.ctl.Pause()
	}
	for t.resetBtn.Clicked(gtx) {
		t.ctl.Reset()
	}
	for t.estopBtn.Clicked(gtx) {
		t.ctl.EmergencyStop()
	}
	for t.addPkgBtn.Clicked(gtx) {
		t.ctl.AddRandomPackage()
	}

	for t.autoBtn.Clicked(gtx) {
		t.ctl.SetRobotMode(core.ModeAuto)
	}
	for t.manualBtn.Clicked(gtx) {
		t.ctl.SetRobotMode(core.ModeManual)
	}
	for t.chargingBtn.Clicked(gtx) {
		t.ctl.SetRobotMode(core.ModeCharging)
	}

	for t.speedDownBtn.Clicked(gtx) {
		t.ctl.SetRobotSpeed(t.ctl.Statistics().SpeedLevel - 1)
	}
	for t.speedUpBtn.Clicked(gtx) {
		t.ctl.SetRobotSpeed(t.ctl.Statistics().SpeedLevel + 1)
	}
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}
