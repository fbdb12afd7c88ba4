// Package interact handles pan and zoom of the floor view.
package interact

import (
	"gioui.org/f32"
	"gioui.org/io/pointer"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
)

const (
	minZoom    = 0.25
	maxZoom    = 8
	zoomFactor = 1.1
)

// Camera maps floor coordinates to window pixels.
type Camera struct {
	OffsetX float32 // Pan offset in screen pixels
	OffsetY float32
	Zoom    float32 // 1.0 = one floor unit per pixel

	// Moved is set once the user pans or zooms. Until then the floor
	// follows the window size.
	Moved bool

	dragging bool
	lastX    float32
	lastY    float32
}

// NewCamera creates an identity camera.
func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

// Reset returns to the identity view.
func (c *Camera) Reset() {
	c.OffsetX = 0
	c.OffsetY = 0
	c.Zoom = 1
	c.Moved = false
	c.dragging = false
}

// WorldToScreen converts floor coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p core.Pos) f32.Point {
	return f32.Pt(float32(p.X)*c.Zoom+c.OffsetX, float32(p.Y)*c.Zoom+c.OffsetY)
}

// ScreenToWorld converts screen coordinates to floor coordinates.
func (c *Camera) ScreenToWorld(pt f32.Point) core.Pos {
	return core.Pos{
		X: float64((pt.X - c.OffsetX) / c.Zoom),
		Y: float64((pt.Y - c.OffsetY) / c.Zoom),
	}
}

// Scale converts a floor length to pixels.
func (c *Camera) Scale(v float64) float32 {
	return float32(v) * c.Zoom
}

// HandleEvent pans on secondary/tertiary drag and zooms on scroll,
// keeping the floor point under the cursor fixed.
func (c *Camera) HandleEvent(ev pointer.Event) {
	switch ev.Kind {
	case pointer.Press:
		if ev.Buttons.Contain(pointer.ButtonSecondary) || ev.Buttons.Contain(pointer.ButtonTertiary) {
			c.dragging = true
		}
		c.lastX = ev.Position.X
		c.lastY = ev.Position.Y

	case pointer.Drag:
		if c.dragging {
			c.Pan(ev.Position.X-c.lastX, ev.Position.Y-c.lastY)
		}
		c.lastX = ev.Position.X
		c.lastY = ev.Position.Y

	case pointer.Release, pointer.Cancel:
		c.dragging = false

	case pointer.Scroll:
		switch {
		case ev.Scroll.Y > 0:
			c.ZoomBy(1/zoomFactor, ev.Position)
		case ev.Scroll.Y < 0:
			c.ZoomBy(zoomFactor, ev.Position)
		}
	}
}

// Pan moves the view by a screen delta.
func (c *Camera) Pan(dx, dy float32) {
	c.OffsetX += dx
	c.OffsetY += dy
	c.Moved = true
}

// ZoomBy zooms by factor around the screen point center.
func (c *Camera) ZoomBy(factor float32, center f32.Point) {
	world := c.ScreenToWorld(center)
	c.Zoom = clampZoom(c.Zoom * factor)

	after := c.WorldToScreen(world)
	c.OffsetX += center.X - after.X
	c.OffsetY += center.Y - after.Y
	c.Moved = true
}

// CenterOn centers the view on a floor position.
func (c *Camera) CenterOn(p core.Pos, screenW, screenH float32) {
	c.OffsetX = screenW/2 - float32(p.X)*c.Zoom
	c.OffsetY = screenH/2 - float32(p.Y)*c.Zoom
}

// FitRect zooms and centers so r fills the screen minus margin.
func (c *Camera) FitRect(r core.Rect, screenW, screenH, margin float32) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	zoomX := (screenW - 2*margin) / float32(r.Width)
	zoomY := (screenH - 2*margin) / float32(r.Height)
	c.Zoom = clampZoom(min(zoomX, zoomY))
	c.CenterOn(r.Center(), screenW, screenH)
	c.Moved = true
}

func clampZoom(z float32) float32 {
	return max(minZoom, min(maxZoom, z))
}
