package draw

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
)

const circleSegments = 32

func drawPathSegment(ops *op.Ops, a, b f32.Point, width float32, col color.NRGBA) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 0.1 {
		return
	}

	dx /= length
	dy /= length
	px := -dy * width / 2
	py := dx * width / 2

	var path clip.Path
	path.Begin(ops)
	path.MoveTo(f32.Pt(a.X+px, a.Y+py))
	path.LineTo(f32.Pt(b.X+px, b.Y+py))
	path.LineTo(f32.Pt(b.X-px, b.Y-py))
	path.LineTo(f32.Pt(a.X-px, a.Y-py))
	path.Close()

	paint.FillShape(ops, col, clip.Outline{Path: path.End()}.Op())
}

func drawFilledCircle(ops *op.Ops, c f32.Point, radius float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(ops)
	path.MoveTo(f32.Pt(c.X+radius, c.Y))
	for i := 1; i <= circleSegments; i++ {
		angle := float64(i) * 2 * math.Pi / circleSegments
		path.LineTo(f32.Pt(
			c.X+radius*float32(math.Cos(angle)),
			c.Y+radius*float32(math.Sin(angle)),
		))
	}
	path.Close()

	paint.FillShape(ops, col, clip.Outline{Path: path.End()}.Op())
}

// drawRing strokes a circle. Dashed rings skip every other segment.
func drawRing(ops *op.Ops, c f32.Point, radius, width float32, col color.NRGBA, dashed bool) {
	prev := f32.Pt(c.X+radius, c.Y)
	for i := 1; i <= circleSegments; i++ {
		angle := float64(i) * 2 * math.Pi / circleSegments
		next := f32.Pt(
			c.X+radius*float32(math.Cos(angle)),
			c.Y+radius*float32(math.Sin(angle)),
		)
		if !dashed || i%2 == 1 {
			drawPathSegment(ops, prev, next, width, col)
		}
		prev = next
	}
}

func drawRect(ops *op.Ops, min, max f32.Point, col color.NRGBA) {
	var path clip.Path
	path.Begin(ops)
	path.MoveTo(min)
	path.LineTo(f32.Pt(max.X, min.Y))
	path.LineTo(max)
	path.LineTo(f32.Pt(min.X, max.Y))
	path.Close()

	paint.FillShape(ops, col, clip.Outline{Path: path.End()}.Op())
}

func drawRectOutline(ops *op.Ops, min, max f32.Point, width float32, col color.NRGBA) {
	tr := f32.Pt(max.X, min.Y)
	bl := f32.Pt(min.X, max.Y)
	drawPathSegment(ops, min, tr, width, col)
	drawPathSegment(ops, tr, max, width, col)
	drawPathSegment(ops, max, bl, width, col)
	drawPathSegment(ops, bl, min, width, col)
}
