package core

import "math"

// Pos represents a 2D position on the warehouse floor (pixels, y down).
type Pos struct {
	X, Y float64
}

// Dist returns the Euclidean distance between two positions.
func (p Pos) Dist(q Pos) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Lerp returns the point a fraction t of the way from p to q.
func (p Pos) Lerp(q Pos, t float64) Pos {
	return Pos{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Center returns the rectangle center.
func (r Rect) Center() Pos {
	return Pos{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Overlaps reports whether a square of half-size radius around p overlaps r.
// Edges touching exactly do not count.
func (r Rect) Overlaps(p Pos, radius float64) bool {
	return p.X+radius > r.X && p.X-radius < r.X+r.Width &&
		p.Y+radius > r.Y && p.Y-radius < r.Y+r.Height
}

// Clamp limits p to the rectangle shrunk by margin on every side.
func (r Rect) Clamp(p Pos, margin float64) Pos {
	return Pos{
		X: math.Max(r.X+margin, math.Min(r.X+r.Width-margin, p.X)),
		Y: math.Max(r.Y+margin, math.Min(r.Y+r.Height-margin, p.Y)),
	}
}
