package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/robot"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/warehouse"
)

// Scene colors
var (
	ColorBackground  = color.NRGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 255}
	ColorGrid        = color.NRGBA{R: 255, G: 255, B: 255, A: 26}
	ColorWhite       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	ColorDestination = color.NRGBA{R: 0x11, G: 0x8a, B: 0xb2, A: 255}
	ColorHighFlag    = color.NRGBA{R: 0xff, G: 0x59, B: 0x5e, A: 255}

	ColorRobotBody    = color.NRGBA{R: 0x72, G: 0x09, B: 0xb7, A: 255}
	ColorPath         = color.NRGBA{R: 76, G: 201, B: 240, A: 128}
	ColorSensor       = color.NRGBA{R: 76, G: 201, B: 240, A: 51}
	ColorTarget       = color.NRGBA{R: 0x38, G: 0xb0, B: 0x00, A: 255}
	ColorBatteryOK    = color.NRGBA{R: 0x38, G: 0xb0, B: 0x00, A: 255}
	ColorBatteryLow   = color.NRGBA{R: 0xf7, G: 0x25, B: 0x85, A: 255}
	ColorStatusCarry  = color.NRGBA{R: 0x4c, G: 0xc9, B: 0xf0, A: 255}
	ColorStatusPkgCnt = color.NRGBA{R: 0xff, G: 0xca, B: 0x3a, A: 255}
)

// StateColor returns the LED color for a robot state.
func StateColor(s core.State) color.NRGBA {
	switch s {
	case core.StateIdle:
		return color.NRGBA{R: 0xf9, G: 0xc7, B: 0x4f, A: 255}
	case core.StateMoving:
		return color.NRGBA{R: 0x4c, G: 0xc9, B: 0xf0, A: 255}
	case core.StateCharging:
		return color.NRGBA{R: 0x38, G: 0xb0, B: 0x00, A: 255}
	case core.StatePicking:
		return color.NRGBA{R: 0xff, G: 0x59, B: 0x5e, A: 255}
	case core.StateDelivering:
		return color.NRGBA{R: 0x8a, G: 0xc9, B: 0x26, A: 255}
	default:
		return ColorWhite
	}
}

// destinationLabels are the short names painted on the floor markers.
var destinationLabels = map[string]string{
	"Shipping Dock A":   "Dock A",
	"Shipping Dock B":   "Dock B",
	"Processing Center": "Processing",
}

// DrawWarehouse paints the floor grid, static fixtures, packages and
// delivery markers.
func DrawWarehouse(s Surface, w *warehouse.Warehouse) {
	width, height := w.Width(), w.Height()

	for x := 0.0; x < width; x += warehouse.GridSize {
		s.Line(core.Pos{X: x}, core.Pos{X: x, Y: height}, ColorGrid, 1)
	}
	for y := 0.0; y < height; y += warehouse.GridSize {
		s.Line(core.Pos{Y: y}, core.Pos{X: width, Y: y}, ColorGrid, 1)
	}

	for _, shelf := range w.Shelves() {
		s.FillRect(shelf.Rect, shelf.Color)
		c := shelf.Rect.Center()
		s.Text(core.Pos{X: c.X, Y: c.Y + 3}, "SHELF", 10, ColorWhite, AlignCenter)
	}

	for _, st := range w.ChargingStations() {
		s.FillRect(st.Rect, st.Color)
		c := st.Rect.Center()
		s.Text(core.Pos{X: c.X, Y: c.Y + 7}, "⚡", 20, ColorWhite, AlignCenter)
		s.Text(core.Pos{X: c.X, Y: c.Y + 20}, "CHARGER", 10, ColorWhite, AlignCenter)
	}

	for _, ob := range w.Obstacles() {
		s.FillRect(ob.Rect, ob.Color)
		c := ob.Rect.Center()
		s.Text(core.Pos{X: c.X, Y: c.Y + 7}, "⚠", 20, ColorWhite, AlignCenter)
	}

	for _, pkg := range w.Packages() {
		box := pkg.Box()
		s.FillRect(box, pkg.Color)
		s.StrokeRect(box, ColorWhite, 2)
		c := box.Center()
		s.Text(core.Pos{X: c.X, Y: c.Y + 3}, fmt.Sprintf("%dkg", pkg.Weight), 10, ColorWhite, AlignCenter)
		if pkg.IsHighPriority() {
			s.FillCircle(core.Pos{X: box.X + box.Width - 5, Y: box.Y + 5}, 4, ColorHighFlag)
		}
	}

	for _, d := range w.Destinations() {
		s.FillCircle(d.Pos, 25, ColorDestination)
		label, ok := destinationLabels[d.Name]
		if !ok {
			label = d.Name
		}
		s.Text(core.Pos{X: d.Pos.X, Y: d.Pos.Y + 4}, label, 12, ColorWhite, AlignCenter)
	}
}

// DrawRobot paints the robot body, state LED, carried package, battery
// gauge, remaining path, destination marker and, while moving, the sensor
// range.
func DrawRobot(s Surface, r *robot.Robot) {
	p := r.Pos()
	size := r.Size()
	body := core.Rect{X: p.X - size/2, Y: p.Y - size/2, Width: size, Height: size}

	s.FillRect(body, ColorRobotBody)
	s.StrokeRect(body, ColorWhite, 2)
	s.FillCircle(core.Pos{X: p.X, Y: p.Y - 15}, 5, StateColor(r.State()))
	s.FillCircle(core.Pos{X: p.X - 8, Y: p.Y + 5}, 4, ColorWhite)
	s.FillCircle(core.Pos{X: p.X + 8, Y: p.Y + 5}, 4, ColorWhite)

	if pkg := r.Carrying(); pkg != nil {
		s.FillCircle(core.Pos{X: p.X, Y: p.Y - 25}, 8, pkg.Color)
	}

	drawBattery(s, p, r.Battery())

	if path := r.Path(); len(path) > 0 {
		pts := make([]core.Pos, 0, len(path)+1)
		pts = append(pts, p)
		pts = append(pts, path...)
		s.Polyline(pts, ColorPath, 2)
	}

	if dest, ok := r.Destination(); ok {
		s.StrokeCircle(dest, 20, ColorTarget, 2, true)
	}

	if r.State() == core.StateMoving {
		s.StrokeCircle(p, r.SensorRange(), ColorSensor, 1, false)
	}
}

func drawBattery(s Surface, p core.Pos, battery float64) {
	const w, h = 30.0, 10.0
	outline := core.Rect{X: p.X - w/2, Y: p.Y + 20, Width: w, Height: h}
	s.FillRect(outline, ColorWhite)

	col := ColorBatteryOK
	if battery <= 20 {
		col = ColorBatteryLow
	}
	level := core.Rect{
		X:      outline.X + 2,
		Y:      outline.Y + 2,
		Width:  (w - 4) * math.Max(0, math.Min(100, battery)) / 100,
		Height: h - 4,
	}
	s.FillRect(level, col)
}

// Status is the text overlay shown in the top-left corner.
type Status struct {
	State    core.State
	Mode     core.Mode
	Battery  float64
	Carrying string
	Packages int
}

// DrawStatus paints the status overlay.
func DrawStatus(s Surface, st Status) {
	s.Text(core.Pos{X: 20, Y: 30}, "Robot: "+strings.ToUpper(st.State.String()), 14, ColorWhite, AlignLeft)
	s.Text(core.Pos{X: 20, Y: 50}, "Mode: "+strings.ToUpper(st.Mode.String()), 14, ColorWhite, AlignLeft)
	s.Text(core.Pos{X: 20, Y: 70}, fmt.Sprintf("Battery: %d%%", int(math.Round(st.Battery))), 14, ColorWhite, AlignLeft)
	if st.Carrying != "" {
		s.Text(core.Pos{X: 20, Y: 90}, "Carrying: "+st.Carrying, 14, ColorStatusCarry, AlignLeft)
	}
	s.Text(core.Pos{X: 20, Y: 110}, fmt.Sprintf("Packages in warehouse: %d", st.Packages), 14, ColorStatusPkgCnt, AlignLeft)
}
