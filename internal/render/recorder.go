package render

import (
	"image/color"
	"sync"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
)

// OpKind identifies a recorded draw call.
type OpKind int

const (
	OpClear OpKind = iota
	OpFillRect
	OpStrokeRect
	OpFillCircle
	OpStrokeCircle
	OpLine
	OpPolyline
	OpText
)

func (k OpKind) String() string {
	return [...]string{"clear", "fill-rect", "stroke-rect", "fill-circle", "stroke-circle", "line", "polyline", "text"}[k]
}

// Op is one recorded draw call. Only the fields relevant to Kind are set.
type Op struct {
	Kind   OpKind
	Rect   core.Rect
	Pos    core.Pos
	To     core.Pos
	Points []core.Pos
	Radius float64
	Width  float64
	Dashed bool
	Text   string
	Size   float64
	Align  Align
	Color  color.NRGBA
}

// Recorder is a Surface that keeps the draw calls of the current frame.
// Clear starts a new frame.
type Recorder struct {
	mu     sync.Mutex
	ops    []Op
	frames int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(op Op) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
}

// Clear drops the recorded ops and starts a new frame.
func (r *Recorder) Clear(col color.NRGBA) {
	r.mu.Lock()
	r.ops = append(r.ops[:0:0], Op{Kind: OpClear, Color: col})
	r.frames++
	r.mu.Unlock()
}

// FillRect records an OpFillRect.
func (r *Recorder) FillRect(rect core.Rect, col color.NRGBA) {
	r.add(Op{Kind: OpFillRect, Rect: rect, Color: col})
}

// StrokeRect records an OpStrokeRect.
func (r *Recorder) StrokeRect(rect core.Rect, col color.NRGBA, width float64) {
	r.add(Op{Kind: OpStrokeRect, Rect: rect, Color: col, Width: width})
}

// FillCircle records an OpFillCircle.
func (r *Recorder) FillCircle(center core.Pos, radius float64, col color.NRGBA) {
	r.add(Op{Kind: OpFillCircle, Pos: center, Radius: radius, Color: col})
}

// StrokeCircle records an OpStrokeCircle.
func (r *Recorder) StrokeCircle(center core.Pos, radius float64, col color.NRGBA, width float64, dashed bool) {
	r.add(Op{Kind: OpStrokeCircle, Pos: center, Radius: radius, Color: col, Width: width, Dashed: dashed})
}

// Line records an OpLine.
func (r *Recorder) Line(from, to core.Pos, col color.NRGBA, width float64) {
	r.add(Op{Kind: OpLine, Pos: from, To: to, Color: col, Width: width})
}

// Polyline records an OpPolyline with a copy of points.
func (r *Recorder) Polyline(points []core.Pos, col color.NRGBA, width float64) {
	pts := make([]core.Pos, len(points))
	copy(pts, points)
	r.add(Op{Kind: OpPolyline, Points: pts, Color: col, Width: width})
}

// Text records an OpText.
func (r *Recorder) Text(at core.Pos, text string, size float64, col color.NRGBA, align Align) {
	r.add(Op{Kind: OpText, Pos: at, Text: text, Size: size, Color: col, Align: align})
}

// Ops returns a copy of the current frame's draw calls.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Frames returns how many times Clear was called.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Count returns the number of ops of kind k in the current frame.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.Ops() {
		if op.Kind == k {
			n++
		}
	}
	return n
}
