// Package render draws the simulation onto an abstract 2D surface. The Gio
// window supplies one implementation; Recorder captures draw calls for
// headless runs and tests.
package render

import (
	"image/color"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
)

// Surface is a minimal immediate-mode 2D canvas in floor coordinates.
type Surface interface {
	Clear(col color.NRGBA)
	FillRect(r core.Rect, col color.NRGBA)
	StrokeRect(r core.Rect, col color.NRGBA, width float64)
	FillCircle(center core.Pos, radius float64, col color.NRGBA)
	StrokeCircle(center core.Pos, radius float64, col color.NRGBA, width float64, dashed bool)
	Line(from, to core.Pos, col color.NRGBA, width float64)
	Polyline(points []core.Pos, col color.NRGBA, width float64)
	Text(at core.Pos, text string, size float64, col color.NRGBA, align Align)
}

// Align is horizontal text alignment relative to the anchor point.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

func (a Align) String() string {
	return [...]string{"left", "center"}[a]
}

// Discard is a Surface that draws nothing.
var Discard Surface = discard{}

type discard struct{}

func (discard) Clear(color.NRGBA)                                          {}
func (discard) FillRect(core.Rect, color.NRGBA)                            {}
func (discard) StrokeRect(core.Rect, color.NRGBA, float64)                 {}
func (discard) FillCircle(core.Pos, float64, color.NRGBA)                  {}
func (discard) StrokeCircle(core.Pos, float64, color.NRGBA, float64, bool) {}
func (discard) Line(core.Pos, core.Pos, color.NRGBA, float64)              {}
func (discard) Polyline([]core.Pos, color.NRGBA, float64)                  {}
func (discard) Text(core.Pos, string, float64, color.NRGBA, Align)         {}
