package warehouse

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
)

func newTestWarehouse(t *testing.T, width, height float64) *Warehouse {
	t.Helper()
	n := 0
	return New(width, height,
		WithRand(rand.New(rand.NewSource(7))),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("PKG_%d", n)
		}),
	)
}

func TestNew_Layout800x500(t *testing.T) {
	w := newTestWarehouse(t, 800, 500)

	assert.Len(t, w.Shelves(), 18, "6 columns x 3 rows of shelves")
	assert.Len(t, w.ChargingStations(), 2)
	assert.Len(t, w.Obstacles(), 3)
	assert.NotEmpty(t, w.Waypoints())

	second := w.ChargingStations()[1]
	assert.Equal(t, core.Rect{X: 690, Y: 410, Width: 60, Height: 40}, second.Rect)
	assert.Equal(t, "SHELF_2_2", w.Shelves()[0].ID)
}

func TestNew_SeedsThreePackagesOnDistinctShelves(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		w := New(800, 500, WithRand(rand.New(rand.NewSource(seed))))
		pkgs := w.Packages()
		require.Len(t, pkgs, InitialPackages, "seed %d", seed)

		seen := make(map[core.Pos]bool)
		for _, pkg := range pkgs {
			assert.False(t, seen[pkg.Pos], "seed %d: two packages on one shelf", seed)
			seen[pkg.Pos] = true

			onShelf := false
			for _, s := range w.Shelves() {
				if slot(s) == pkg.Pos {
					onShelf = true
				}
			}
			assert.True(t, onShelf, "package %s not on a shelf slot", pkg.ID)
		}
	}
}

func TestAddRandomPackage_Attributes(t *testing.T) {
	w := newTestWarehouse(t, 800, 500)
	names := map[string]bool{}
	for _, d := range w.Destinations() {
		names[d.Name] = true
	}

	for w.AddRandomPackage() != nil {
	}

	for _, pkg := range w.Packages() {
		assert.GreaterOrEqual(t, pkg.Weight, 1)
		assert.LessOrEqual(t, pkg.Weight, 10)
		assert.Contains(t, PackagePalette, pkg.Color)
		assert.True(t, names[pkg.Destination.Name], "unknown destination %q", pkg.Destination.Name)
		assert.Equal(t, float64(core.PackageSize), pkg.Size)
	}
}

func TestAddRandomPackage_NoOpWhenFull(t *testing.T) {
	w := newTestWarehouse(t, 800, 500)

	added := 0
	for w.AddRandomPackage() != nil {
		added++
	}
	assert.Equal(t, len(w.Shelves()), w.PackageCount())
	assert.Equal(t, len(w.Shelves())-InitialPackages, added)

	assert.Nil(t, w.AddRandomPackage())
	assert.Equal(t, len(w.Shelves()), w.PackageCount())
}

func TestRemovePackage_Idempotent(t *testing.T) {
	w := newTestWarehouse(t, 800, 500)
	id := w.Packages()[0].ID

	w.RemovePackage(id)
	assert.Equal(t, 2, w.PackageCount())
	for _, pkg := range w.Packages() {
		assert.NotEqual(t, id, pkg.ID)
	}

	w.RemovePackage(id)
	w.RemovePackage("PKG_missing")
	assert.Equal(t, 2, w.PackageCount())
}

func TestRemovePackage_FreesShelf(t *testing.T) {
	w := newTestWarehouse(t, 800, 500)
	for w.AddRandomPackage() != nil {
	}
	victim := w.Packages()[4]
	w.RemovePackage(victim.ID)

	pkg := w.AddRandomPackage()
	require.NotNil(t, pkg)
	assert.Equal(t, victim.Pos, pkg.Pos)
}

func TestPackages_ReturnsSnapshot(t *testing.T) {
	w := newTestWarehouse(t, 800, 500)
	snap := w.Packages()
	w.RemovePackage(snap[0].ID)
	assert.Len(t, snap, 3)
	assert.Equal(t, 2, w.PackageCount())
}

func TestClosestPackage(t *testing.T) {
	w := newTestWarehouse(t, 800, 500)
	for _, pkg := range w.Packages() {
		w.RemovePackage(pkg.ID)
	}
	assert.Nil(t, w.ClosestPackage(core.Pos{X: 10, Y: 10}))

	for w.AddRandomPackage() != nil {
	}
	target := w.Packages()[5]
	got := w.ClosestPackage(core.Pos{X: target.Pos.X + 1, Y: target.Pos.Y + 1})
	require.NotNil(t, got)
	assert.Equal(t, target.ID, got.ID)
}

func TestClosestChargingStation(t *testing.T) {
	w := newTestWarehouse(t, 800, 500)

	s, ok := w.ClosestChargingStation(core.Pos{X: 0, Y: 0})
	require.True(t, ok)
	assert.Equal(t, 50.0, s.Rect.X)

	s, ok = w.ClosestChargingStation(core.Pos{X: 790, Y: 490})
	require.True(t, ok)
	assert.Equal(t, 690.0, s.Rect.X)
	assert.Equal(t, core.Pos{X: 720, Y: 430}, s.Dock())
}

func TestIsPositionOccupied(t *testing.T) {
	w := newTestWarehouse(t, 800, 500)

	tests := []struct {
		name   string
		p      core.Pos
		radius float64
		want   bool
	}{
		{"obstacle center", core.Pos{X: 230, Y: 330}, 0, true},
		{"shelf center", core.Pos{X: 120, Y: 100}, 0, true},
		{"charging station ignored", core.Pos{X: 80, Y: 70}, 0, false},
		{"open floor", core.Pos{X: 40, Y: 450}, 0, false},
		{"near obstacle with radius", core.Pos{X: 190, Y: 330}, 20, true},
		{"near obstacle without radius", core.Pos{X: 190, Y: 330}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.IsPositionOccupied(tt.p, tt.radius))
		})
	}
}

func TestResize_KeepsLayoutRegeneratesWaypoints(t *testing.T) {
	w := newTestWarehouse(t, 800, 500)
	shelves := len(w.Shelves())
	stations := w.ChargingStations()
	before := len(w.Waypoints())

	w.Resize(400, 300)

	assert.Equal(t, 400.0, w.Width())
	assert.Equal(t, 300.0, w.Height())
	assert.Len(t, w.Shelves(), shelves)
	assert.Equal(t, stations, w.ChargingStations())
	assert.Less(t, len(w.Waypoints()), before)
	for _, wp := range w.Waypoints() {
		assert.Less(t, wp.Pos.X, 400.0)
		assert.Less(t, wp.Pos.Y, 300.0)
		assert.False(t, w.IsPositionOccupied(wp.Pos, 10))
	}

	dests := w.Destinations()
	assert.Equal(t, core.Pos{X: 250, Y: 100}, dests[1].Pos)
}
