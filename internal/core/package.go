package core

import "image/color"

// PackageSize is the edge length of a package box.
const PackageSize = 20

// Destination is a named delivery point.
type Destination struct {
	Name string
	Pos  Pos
}

// Package is a parcel waiting on a shelf or carried by the robot.
type Package struct {
	ID          string
	Pos         Pos // Top-left corner of the box
	Size        float64
	Color       color.NRGBA
	Weight      int // kg, 1-10
	Priority    Priority
	Destination Destination
}

// Box returns the package footprint.
func (p *Package) Box() Rect {
	return Rect{X: p.Pos.X, Y: p.Pos.Y, Width: p.Size, Height: p.Size}
}

// IsHighPriority returns true for HIGH priority packages.
func (p *Package) IsHighPriority() bool {
	return p.Priority == PriorityHigh
}
