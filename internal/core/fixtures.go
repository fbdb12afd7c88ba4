package core

import "image/color"

// Shelf is a storage rack; packages are placed just above it.
type Shelf struct {
	ID    string
	Rect  Rect
	Color color.NRGBA
}

// ChargingStation is a dock where the robot recharges.
type ChargingStation struct {
	Rect  Rect
	Color color.NRGBA
}

// Dock returns the point the robot must reach to start charging.
func (c ChargingStation) Dock() Pos {
	return c.Rect.Center()
}

// Obstacle is a static blocked area.
type Obstacle struct {
	Rect  Rect
	Color color.NRGBA
}

// Waypoint is a clear grid point. It is informational only; the path
// generator does not consume it.
type Waypoint struct {
	Pos Pos
}
