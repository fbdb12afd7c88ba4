package widgets

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/sim"
)

// logLines is how many recent events the panel keeps.
const logLines = 12

var (
	colorPanel = color.NRGBA{R: 35, G: 38, B: 42, A: 255}
	colorMuted = color.NRGBA{R: 150, G: 155, B: 160, A: 255}
)

// StatsPanel shows the dashboard counters and a short system log fed by
// the simulation event bus.
type StatsPanel struct {
	stats func() sim.Statistics

	mu    sync.Mutex
	lines []string
}

// NewStatsPanel creates the panel.
func NewStatsPanel(stats func() sim.Statistics) *StatsPanel {
	return &StatsPanel{stats: stats}
}

// Record appends a bus event to the log. It is safe to subscribe directly.
func (p *StatsPanel) Record(e sim.Event) {
	line := fmt.Sprintf("%s %s", e.Timestamp.Format("15:04:05"), describe(e))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = append(p.lines, line)
	if len(p.lines) > logLines {
		p.lines = p.lines[len(p.lines)-logLines:]
	}
}

// Lines returns the log, oldest first.
func (p *StatsPanel) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.lines...)
}

func describe(e sim.Event) string {
	switch pl := e.Payload.(type) {
	case sim.PackageEvent:
		return fmt.Sprintf("%s %s (%s, %dkg)", e.Type, pl.PackageID, pl.Priority, pl.Weight)
	case sim.ModeChangedEvent:
		return fmt.Sprintf("%s: %s", e.Type, pl.Mode)
	case sim.SpeedChangedEvent:
		return fmt.Sprintf("%s: %s", e.Type, pl.Label)
	case sim.RobotEvent:
		if pl.PackageID != "" {
			return fmt.Sprintf("%s %s", e.Type, pl.PackageID)
		}
		return fmt.Sprintf("%s at %.0f%%", e.Type, pl.Battery)
	default:
		return e.Type.String()
	}
}

// StatRows formats the counters shown in the panel.
func StatRows(s sim.Statistics) [][2]string {
	rows := [][2]string{
		{"Packages", fmt.Sprint(s.PackageCount)},
		{"Battery", fmt.Sprintf("%.0f%%", s.BatteryPercent)},
		{"Delivered", fmt.Sprint(s.DeliveredCount)},
		{"Distance", fmt.Sprintf("%.0f px", s.DistanceTraveled)},
		{"Energy", fmt.Sprintf("%.3f kWh", s.EnergyUsedKWh)},
		{"Speed", s.SpeedLevel.Label()},
		{"State", s.State.String()},
		{"Mode", s.Mode.String()},
		{"Uptime", s.OperationalTime.Truncate(time.Second).String()},
	}
	if s.ResumeIn > 0 {
		rows = append(rows, [2]string{"Resume in", fmt.Sprintf("%.1fs", s.ResumeIn.Seconds())})
	}
	return rows
}

// Layout renders the panel at a fixed width.
func (p *StatsPanel) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	width := gtx.Dp(unit.Dp(260))
	gtx.Constraints.Min.X = width
	gtx.Constraints.Max.X = width

	rect := image.Rect(0, 0, width, gtx.Constraints.Max.Y)
	paint.FillShape(gtx.Ops, colorPanel, clip.Rect(rect).Op())

	var children []layout.FlexChild
	children = append(children, layout.Rigid(heading(th, "Statistics")))
	for _, row := range StatRows(p.stats()) {
		children = append(children, layout.Rigid(statRow(th, row[0], row[1])))
	}
	children = append(children,
		layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
		layout.Rigid(heading(th, "System log")),
	)
	for _, line := range p.Lines() {
		line := line
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			lbl := material.Label(th, 11, line)
			lbl.Color = colorMuted
			lbl.MaxLines = 1
			return lbl.Layout(gtx)
		}))
	}

	layout.UniformInset(unit.Dp(10)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
	return layout.Dimensions{Size: image.Pt(width, gtx.Constraints.Max.Y)}
}

func heading(th *material.Theme, text string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			lbl := material.Label(th, 14, text)
			lbl.Color = colorLabel
			return lbl.Layout(gtx)
		})
	}
}

func statRow(th *material.Theme, name, value string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				lbl := material.Label(th, 12, name)
				lbl.Color = colorMuted
				return lbl.Layout(gtx)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				lbl := material.Label(th, 12, value)
				lbl.Color = colorLabel
				return lbl.Layout(gtx)
			}),
		)
	}
}
