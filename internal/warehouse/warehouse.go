// Package warehouse models the warehouse floor: static layout (shelves,
// charging stations, obstacles, delivery destinations) and the pool of
// packages waiting to be picked up.
package warehouse

import (
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
)

// GridSize is the floor grid cell edge in pixels.
const GridSize = 40

// InitialPackages is the number of packages seeded at construction.
const InitialPackages = 3

// Layout colors
var (
	ColorShelf    = color.NRGBA{R: 0x4a, G: 0x4e, B: 0x69, A: 255}
	ColorCharger  = color.NRGBA{R: 0x38, G: 0xb0, B: 0x00, A: 255}
	ColorObstacle = color.NRGBA{R: 0x6a, G: 0x04, B: 0x0f, A: 255}
)

// PackagePalette holds the colors a new package is drawn from.
var PackagePalette = []color.NRGBA{
	{R: 0xff, G: 0x59, B: 0x5e, A: 255}, // Red
	{R: 0xff, G: 0xca, B: 0x3a, A: 255}, // Yellow
	{R: 0x8a, G: 0xc9, B: 0x26, A: 255}, // Green
	{R: 0x19, G: 0x82, B: 0xc4, A: 255}, // Blue
	{R: 0x6a, G: 0x4c, B: 0x93, A: 255}, // Purple
}

// Warehouse owns the static layout and the dynamic package pool.
type Warehouse struct {
	width, height float64

	shelves   []core.Shelf
	stations  []core.ChargingStation
	obstacles []core.Obstacle
	waypoints []core.Waypoint
	packages  []*core.Package

	rng   *rand.Rand
	newID func() string
}

// Option configures a Warehouse.
type Option func(*Warehouse)

// WithRand sets the random source used for package placement and attributes.
func WithRand(rng *rand.Rand) Option {
	return func(w *Warehouse) { w.rng = rng }
}

// WithIDGenerator replaces the package identifier generator.
func WithIDGenerator(fn func() string) Option {
	return func(w *Warehouse) { w.newID = fn }
}

// New creates a warehouse of the given size and seeds it with packages.
func New(width, height float64, opts ...Option) *Warehouse {
	w := &Warehouse{
		width:  width,
		height: height,
		newID:  func() string { return "PKG_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	w.buildLayout()
	w.createWaypoints()
	for i := 0; i < InitialPackages; i++ {
		w.AddRandomPackage()
	}
	return w
}

func (w *Warehouse) buildLayout() {
	// Shelves on every third grid cell, leaving a two-cell margin
	for x := 2; float64(x) < w.width/GridSize-2; x += 3 {
		for y := 2; float64(y) < w.height/GridSize-2; y += 3 {
			w.shelves = append(w.shelves, core.Shelf{
				ID: shelfID(x, y),
				Rect: core.Rect{
					X:      float64(x * GridSize),
					Y:      float64(y * GridSize),
					Width:  GridSize * 2,
					Height: GridSize,
				},
				Color: ColorShelf,
			})
		}
	}

	w.stations = []core.ChargingStation{
		{Rect: core.Rect{X: 50, Y: 50, Width: 60, Height: 40}, Color: ColorCharger},
		{Rect: core.Rect{X: w.width - 110, Y: w.height - 90, Width: 60, Height: 40}, Color: ColorCharger},
	}

	w.obstacles = []core.Obstacle{
		{Rect: core.Rect{X: 200, Y: 300, Width: 60, Height: 60}, Color: ColorObstacle},
		{Rect: core.Rect{X: 400, Y: 150, Width: 80, Height: 40}, Color: ColorObstacle},
		{Rect: core.Rect{X: 600, Y: 400, Width: 40, Height: 80}, Color: ColorObstacle},
	}
}

// createWaypoints rebuilds the informational waypoint grid: every other cell
// center that is not blocked.
func (w *Warehouse) createWaypoints() {
	w.waypoints = nil
	cols := int(w.width / GridSize)
	rows := int(w.height / GridSize)

	for x := 0; x < cols; x += 2 {
		for y := 0; y < rows; y += 2 {
			p := core.Pos{X: float64(x*GridSize + GridSize/2), Y: float64(y*GridSize + GridSize/2)}
			if !w.IsPositionOccupied(p, 10) {
				w.waypoints = append(w.waypoints, core.Waypoint{Pos: p})
			}
		}
	}
}

// Resize updates the floor bounds and regenerates waypoints. Shelves,
// stations, obstacles and packages keep their coordinates.
func (w *Warehouse) Resize(width, height float64) {
	w.width = width
	w.height = height
	w.createWaypoints()
}

// Width returns the floor width.
func (w *Warehouse) Width() float64 { return w.width }

// Height returns the floor height.
func (w *Warehouse) Height() float64 { return w.height }

// Bounds returns the floor rectangle.
func (w *Warehouse) Bounds() core.Rect {
	return core.Rect{Width: w.width, Height: w.height}
}

// Shelves returns the shelf layout.
func (w *Warehouse) Shelves() []core.Shelf { return w.shelves }

// ChargingStations returns the charging docks.
func (w *Warehouse) ChargingStations() []core.ChargingStation { return w.stations }

// Obstacles returns the static obstacles.
func (w *Warehouse) Obstacles() []core.Obstacle { return w.obstacles }

// Waypoints returns the current waypoint grid.
func (w *Warehouse) Waypoints() []core.Waypoint { return w.waypoints }

// Destinations returns the delivery points for the current floor size.
func (w *Warehouse) Destinations() []core.Destination {
	return []core.Destination{
		{Name: "Shipping Dock A", Pos: core.Pos{X: 100, Y: w.height - 100}},
		{Name: "Shipping Dock B", Pos: core.Pos{X: w.width - 150, Y: 100}},
		{Name: "Processing Center", Pos: core.Pos{X: w.width / 2, Y: w.height - 50}},
	}
}

func shelfID(x, y int) string {
	return fmt.Sprintf("SHELF_%d_%d", x, y)
}
