// Package widgets provides Gio UI widgets for the simulator window.
package widgets

import (
	"image"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/vis/draw"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/vis/interact"
)

// Floor is the part of the simulation the floor view drives.
type Floor interface {
	Frame() bool
	Paint()
	Resize(width, height float64)
	Size() (width, height float64)
}

// Workspace is the floor view. Each layout advances the simulation by one
// frame and paints it through the canvas.
type Workspace struct {
	floor  Floor
	canvas *draw.Canvas
	camera *interact.Camera
	view   image.Point // size of the last layout
}

const fitMargin = 20

// NewWorkspace creates the floor view.
func NewWorkspace(floor Floor, canvas *draw.Canvas, camera *interact.Camera) *Workspace {
	return &Workspace{floor: floor, canvas: canvas, camera: camera}
}

// Layout renders the workspace.
func (w *Workspace) Layout(gtx layout.Context) layout.Dimensions {
	bounds := gtx.Constraints.Max
	w.view = bounds
	defer clip.Rect(image.Rect(0, 0, bounds.X, bounds.Y)).Push(gtx.Ops).Pop()

	w.handlePointerEvents(gtx)

	// The floor tracks the widget size until the user takes over the camera.
	if !w.camera.Moved && bounds.X > 0 && bounds.Y > 0 {
		fw, fh := w.floor.Size()
		if fw != float64(bounds.X) || fh != float64(bounds.Y) {
			w.floor.Resize(float64(bounds.X), float64(bounds.Y))
		}
	}

	w.canvas.Bind(gtx)
	if !w.floor.Frame() {
		w.floor.Paint()
	}
	w.canvas.Unbind()

	return layout.Dimensions{Size: bounds}
}

// FitFloor zooms and pans so the whole floor fits the view with a margin.
// It does nothing before the first layout.
func (w *Workspace) FitFloor() {
	if w.view.X <= 0 || w.view.Y <= 0 {
		return
	}
	fw, fh := w.floor.Size()
	w.camera.FitRect(core.Rect{Width: fw, Height: fh}, float32(w.view.X), float32(w.view.Y), fitMargin)
}

func (w *Workspace) handlePointerEvents(gtx layout.Context) {
	event.Op(gtx.Ops, w)

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  w,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll | pointer.Cancel,
			ScrollY: pointer.ScrollRange{Min: -100, Max: 100},
		})
		if !ok {
			break
		}
		if pe, ok := ev.(pointer.Event); ok {
			w.camera.HandleEvent(pe)
		}
	}
}
