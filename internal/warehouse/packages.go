package warehouse

import (
	"math"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
)

// Package slot offset relative to the shelf origin.
const (
	slotOffsetX = 10
	slotOffsetY = -core.PackageSize
	// slotTolerance is the half-size of the box around a slot in which an
	// existing package marks the shelf as occupied.
	slotTolerance = 20
)

// HighPriorityChance is the probability that a new package is HIGH priority.
const HighPriorityChance = 0.3

// slot returns where a package sits on the given shelf.
func slot(s core.Shelf) core.Pos {
	return core.Pos{X: s.Rect.X + slotOffsetX, Y: s.Rect.Y + slotOffsetY}
}

func (w *Warehouse) shelfOccupied(s core.Shelf) bool {
	at := slot(s)
	for _, pkg := range w.packages {
		if math.Abs(pkg.Pos.X-at.X) < slotTolerance && math.Abs(pkg.Pos.Y-at.Y) < slotTolerance {
			return true
		}
	}
	return false
}

// AddRandomPackage places a new package on a random free shelf. It returns
// nil and adds nothing when every shelf is occupied.
func (w *Warehouse) AddRandomPackage() *core.Package {
	var free []core.Shelf
	for _, s := range w.shelves {
		if !w.shelfOccupied(s) {
			free = append(free, s)
		}
	}
	if len(free) == 0 {
		return nil
	}

	shelf := free[w.rng.Intn(len(free))]
	dests := w.Destinations()

	priority := core.PriorityNormal
	if w.rng.Float64() < HighPriorityChance {
		priority = core.PriorityHigh
	}

	pkg := &core.Package{
		ID:          w.newID(),
		Pos:         slot(shelf),
		Size:        core.PackageSize,
		Color:       PackagePalette[w.rng.Intn(len(PackagePalette))],
		Weight:      w.rng.Intn(10) + 1,
		Priority:    priority,
		Destination: dests[w.rng.Intn(len(dests))],
	}
	w.packages = append(w.packages, pkg)
	return pkg
}

// RemovePackage drops a package by identifier. Unknown identifiers are ignored.
func (w *Warehouse) RemovePackage(id string) {
	for i, pkg := range w.packages {
		if pkg.ID == id {
			w.packages = append(w.packages[:i:i], w.packages[i+1:]...)
			return
		}
	}
}

// Packages returns a snapshot of the packages waiting on shelves.
func (w *Warehouse) Packages() []*core.Package {
	out := make([]*core.Package, len(w.packages))
	copy(out, w.packages)
	return out
}

// PackageCount returns the number of packages waiting on shelves.
func (w *Warehouse) PackageCount() int {
	return len(w.packages)
}

// ClosestPackage returns the package nearest to p, or nil if there are none.
// Ties go to the earliest added package.
func (w *Warehouse) ClosestPackage(p core.Pos) *core.Package {
	var closest *core.Package
	best := math.Inf(1)
	for _, pkg := range w.packages {
		if d := p.Dist(pkg.Pos); d < best {
			best = d
			closest = pkg
		}
	}
	return closest
}

// ClosestChargingStation returns the station whose origin is nearest to p.
// The boolean is false only for a layout without stations.
func (w *Warehouse) ClosestChargingStation(p core.Pos) (core.ChargingStation, bool) {
	var closest core.ChargingStation
	found := false
	best := math.Inf(1)
	for _, s := range w.stations {
		origin := core.Pos{X: s.Rect.X, Y: s.Rect.Y}
		if d := p.Dist(origin); d < best {
			best = d
			closest = s
			found = true
		}
	}
	return closest, found
}

// IsPositionOccupied reports whether a square of half-size radius around p
// overlaps an obstacle or shelf. Charging stations and packages never block.
func (w *Warehouse) IsPositionOccupied(p core.Pos, radius float64) bool {
	for _, o := range w.obstacles {
		if o.Rect.Overlaps(p, radius) {
			return true
		}
	}
	for _, s := range w.shelves {
		if s.Rect.Overlaps(p, radius) {
			return true
		}
	}
	return false
}
