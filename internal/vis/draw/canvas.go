// Package draw paints the simulation with Gio operations.
package draw

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/render"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/vis/interact"
)

// centeredTextWidth is the box, in pixels, that centered labels are laid
// out in.
const centeredTextWidth = 200

// Canvas is a render.Surface backed by the ops of the current frame. Calls
// made while no frame is bound are dropped.
type Canvas struct {
	theme  *material.Theme
	camera *interact.Camera
	gtx    layout.Context
	bound  bool
}

var _ render.Surface = (*Canvas)(nil)

// NewCanvas creates a canvas drawing through camera.
func NewCanvas(th *material.Theme, camera *interact.Camera) *Canvas {
	return &Canvas{theme: th, camera: camera}
}

// Bind attaches the canvas to a frame. It stays bound until Unbind.
func (c *Canvas) Bind(gtx layout.Context) {
	c.gtx = gtx
	c.bound = true
}

// Unbind detaches the canvas from the frame.
func (c *Canvas) Unbind() {
	c.gtx = layout.Context{}
	c.bound = false
}

func (c *Canvas) ops() *op.Ops {
	if !c.bound {
		return nil
	}
	return c.gtx.Ops
}

func (c *Canvas) width(w float64) float32 {
	return max(1, c.camera.Scale(w))
}

// Clear fills the whole frame with col.
func (c *Canvas) Clear(col color.NRGBA) {
	if ops := c.ops(); ops != nil {
		paint.Fill(ops, col)
	}
}

// FillRect paints a solid rectangle.
func (c *Canvas) FillRect(r core.Rect, col color.NRGBA) {
	if ops := c.ops(); ops != nil {
		drawRect(ops, c.camera.WorldToScreen(core.Pos{X: r.X, Y: r.Y}),
			c.camera.WorldToScreen(core.Pos{X: r.X + r.Width, Y: r.Y + r.Height}), col)
	}
}

// StrokeRect paints a rectangle outline.
func (c *Canvas) StrokeRect(r core.Rect, col color.NRGBA, width float64) {
	if ops := c.ops(); ops != nil {
		drawRectOutline(ops, c.camera.WorldToScreen(core.Pos{X: r.X, Y: r.Y}),
			c.camera.WorldToScreen(core.Pos{X: r.X + r.Width, Y: r.Y + r.Height}), c.width(width), col)
	}
}

// FillCircle paints a solid disc.
func (c *Canvas) FillCircle(center core.Pos, radius float64, col color.NRGBA) {
	if ops := c.ops(); ops != nil {
		drawFilledCircle(ops, c.camera.WorldToScreen(center), c.camera.Scale(radius), col)
	}
}

// StrokeCircle paints a ring, dashed if requested.
func (c *Canvas) StrokeCircle(center core.Pos, radius float64, col color.NRGBA, width float64, dashed bool) {
	if ops := c.ops(); ops != nil {
		drawRing(ops, c.camera.WorldToScreen(center), c.camera.Scale(radius), c.width(width), col, dashed)
	}
}

// Line paints one segment.
func (c *Canvas) Line(from, to core.Pos, col color.NRGBA, width float64) {
	if ops := c.ops(); ops != nil {
		drawPathSegment(ops, c.camera.WorldToScreen(from), c.camera.WorldToScreen(to), c.width(width), col)
	}
}

// Polyline paints connected segments through points.
func (c *Canvas) Polyline(points []core.Pos, col color.NRGBA, width float64) {
	ops := c.ops()
	if ops == nil || len(points) < 2 {
		return
	}
	w := c.width(width)
	prev := c.camera.WorldToScreen(points[0])
	for _, p := range points[1:] {
		next := c.camera.WorldToScreen(p)
		drawPathSegment(ops, prev, next, w, col)
		prev = next
	}
}

// Text lays out a single line with its baseline near at.
func (c *Canvas) Text(at core.Pos, s string, size float64, col color.NRGBA, align render.Align) {
	ops := c.ops()
	if ops == nil {
		return
	}

	px := c.camera.Scale(size)
	pt := c.camera.WorldToScreen(at)

	lbl := material.Label(c.theme, unit.Sp(px/max(c.gtx.Metric.PxPerSp, 1e-3)), s)
	lbl.Color = col
	lbl.MaxLines = 1

	gtx := c.gtx
	gtx.Constraints = layout.Constraints{Max: image.Pt(gtx.Constraints.Max.X, int(px*2)+1)}

	origin := f32.Pt(pt.X, pt.Y-px)
	if align == render.AlignCenter {
		lbl.Alignment = text.Middle
		gtx.Constraints.Min.X = centeredTextWidth
		gtx.Constraints.Max.X = centeredTextWidth
		origin.X -= centeredTextWidth / 2
	}

	defer op.Offset(origin.Round()).Push(ops).Pop()
	lbl.Layout(gtx)
}
