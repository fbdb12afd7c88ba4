package robot

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/warehouse"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// stubWorld is a hand-built floor for exercising the robot in isolation.
type stubWorld struct {
	bounds   core.Rect
	blocked  []core.Rect
	packages []*core.Package
	stations []core.ChargingStation
}

func newStubWorld() *stubWorld {
	return &stubWorld{bounds: core.Rect{Width: 800, Height: 500}}
}

func (w *stubWorld) Bounds() core.Rect { return w.bounds }

func (w *stubWorld) IsPositionOccupied(p core.Pos, radius float64) bool {
	for _, b := range w.blocked {
		if b.Overlaps(p, radius) {
			return true
		}
	}
	return false
}

func (w *stubWorld) ClosestPackage(p core.Pos) *core.Package {
	var best *core.Package
	for _, pkg := range w.packages {
		if best == nil || p.Dist(pkg.Pos) < p.Dist(best.Pos) {
			best = pkg
		}
	}
	return best
}

func (w *stubWorld) ClosestChargingStation(p core.Pos) (core.ChargingStation, bool) {
	if len(w.stations) == 0 {
		return core.ChargingStation{}, false
	}
	best := w.stations[0]
	for _, s := range w.stations[1:] {
		if p.Dist(s.Dock()) < p.Dist(best.Dock()) {
			best = s
		}
	}
	return best, true
}

func (w *stubWorld) PackageCount() int { return len(w.packages) }

func (w *stubWorld) RemovePackage(id string) {
	for i, pkg := range w.packages {
		if pkg.ID == id {
			w.packages = append(w.packages[:i], w.packages[i+1:]...)
			return
		}
	}
}

func newTestRobot(pos core.Pos, w World, opts ...Option) *Robot {
	opts = append([]Option{
		WithRand(rand.New(rand.NewSource(1))),
		WithStartTime(t0),
	}, opts...)
	return New(pos, w, opts...)
}

// tick runs n updates spaced step apart starting after from and returns the
// time of the last one.
func tick(r *Robot, from time.Time, step time.Duration, n int) time.Time {
	now := from
	for i := 0; i < n; i++ {
		now = now.Add(step)
		r.Update(now)
	}
	return now
}

func testPackage(id string, pos, dest core.Pos) *core.Package {
	return &core.Package{
		ID:          id,
		Pos:         pos,
		Size:        core.PackageSize,
		Weight:      1,
		Destination: core.Destination{Name: "Dock", Pos: dest},
	}
}

func TestNew_Defaults(t *testing.T) {
	r := newTestRobot(core.Pos{X: 100, Y: 100}, newStubWorld())

	assert.Equal(t, 100.0, r.Battery())
	assert.Equal(t, 3.0, r.Speed())
	assert.Equal(t, core.ModeAuto, r.Mode())
	assert.Equal(t, core.StateIdle, r.State())
	assert.Nil(t, r.Carrying())
	assert.Empty(t, r.Path())
	_, ok := r.Destination()
	assert.False(t, ok)
}

func TestUpdate_IdleWithoutPackages(t *testing.T) {
	r := newTestRobot(core.Pos{X: 100, Y: 100}, newStubWorld())
	tick(r, t0, 100*time.Millisecond, 10)

	assert.Equal(t, core.StateIdle, r.State())
	assert.Equal(t, 100.0, r.Battery(), "idle robot must not drain")
	assert.Zero(t, r.Statistics().Energy)
}

func TestUpdate_BatteryDecreasesWhileActive(t *testing.T) {
	w := newStubWorld()
	w.packages = []*core.Package{testPackage("far", core.Pos{X: 700, Y: 400}, core.Pos{X: 100, Y: 100})}
	r := newTestRobot(core.Pos{X: 50, Y: 50}, w)
	r.SetSpeedLevel(5)

	prev := r.Battery()
	now := t0
	r.Update(now)
	activeTicks := 0
	for i := 0; i < 200; i++ {
		wasActive := r.State().Active()
		now = now.Add(50 * time.Millisecond)
		r.Update(now)

		// A delivering robot whose pause ends this tick goes idle before
		// the drain step, so only ticks active on both sides must drain.
		if wasActive && r.State().Active() {
			activeTicks++
			assert.Less(t, r.Battery(), prev, "tick %d", i)
		} else {
			assert.LessOrEqual(t, r.Battery(), prev, "tick %d", i)
		}
		assert.GreaterOrEqual(t, r.Battery(), 0.0)
		prev = r.Battery()
	}
	assert.Positive(t, activeTicks)
	assert.Less(t, r.Battery(), 100.0)
	assert.Greater(t, r.Statistics().Energy, 0.0)
}

func TestUpdate_BatteryClampsAtZero(t *testing.T) {
	r := newTestRobot(core.Pos{X: 100, Y: 100}, newStubWorld())
	r.SetMode(core.ModeManual)
	r.Move(core.DirRight)
	r.battery = 0.01

	r.Update(t0.Add(time.Hour))
	assert.Equal(t, 0.0, r.Battery())
}

func TestUpdate_BatteryNeverExceedsFull(t *testing.T) {
	p := DefaultParams()
	p.DrainRate = -5
	r := newTestRobot(core.Pos{X: 100, Y: 100}, newStubWorld(), WithParams(p))
	r.SetMode(core.ModeManual)
	r.Move(core.DirRight)
	require.True(t, r.State().Active())

	now := t0
	for i := 0; i < 100; i++ {
		now = now.Add(200 * time.Millisecond)
		r.Update(now)
		assert.LessOrEqual(t, r.Battery(), 100.0)
	}
	assert.Equal(t, 100.0, r.Battery())
}

func TestUpdate_ChargingConvergesToFull(t *testing.T) {
	r := newTestRobot(core.Pos{X: 100, Y: 100}, newStubWorld())
	r.battery = 50
	r.SetMode(core.ModeCharging)
	require.Equal(t, core.StateCharging, r.State())

	now := t0
	for i := 0; i < 30; i++ {
		now = now.Add(100 * time.Millisecond)
		r.Update(now)
		assert.LessOrEqual(t, r.Battery(), 100.0)
	}

	assert.Equal(t, 100.0, r.Battery())
	assert.Equal(t, core.StateIdle, r.State())
	assert.Equal(t, core.ModeAuto, r.Mode())
}

func TestUpdate_ClampsToBounds(t *testing.T) {
	r := newTestRobot(core.Pos{X: -50, Y: 900}, newStubWorld())
	r.Update(t0.Add(time.Millisecond))

	assert.Equal(t, core.Pos{X: 20, Y: 480}, r.Pos())
}

func TestUpdate_BoundsHoldOnRealWarehouse(t *testing.T) {
	wh := warehouse.New(800, 500, warehouse.WithRand(rand.New(rand.NewSource(3))))
	r := newTestRobot(core.Pos{X: 100, Y: 100}, wh)
	r.SetSpeedLevel(5)

	now := t0
	for i := 0; i < 3000; i++ {
		now = now.Add(20 * time.Millisecond)
		r.Update(now)
		p := r.Pos()
		require.True(t, p.X >= 20 && p.X <= 780 && p.Y >= 20 && p.Y <= 480, "tick %d: %+v", i, p)
	}
}

func TestPickup_RemovesPackageSameTick(t *testing.T) {
	w := newStubWorld()
	pkg := testPackage("PKG_1", core.Pos{X: 110, Y: 100}, core.Pos{X: 600, Y: 400})
	w.packages = []*core.Package{pkg}
	r := newTestRobot(core.Pos{X: 100, Y: 100}, w)

	r.Update(t0.Add(10 * time.Millisecond))

	require.NotNil(t, r.Carrying())
	assert.Equal(t, "PKG_1", r.Carrying().ID)
	assert.Zero(t, w.PackageCount())
	assert.Equal(t, core.StatePicking, r.State())
	dest, ok := r.Destination()
	require.True(t, ok)
	assert.Equal(t, pkg.Destination.Pos, dest)
	assert.Len(t, r.Path(), 50)
}

func TestPickup_MovesAfterHandlingDelay(t *testing.T) {
	w := newStubWorld()
	w.packages = []*core.Package{testPackage("PKG_1", core.Pos{X: 110, Y: 100}, core.Pos{X: 600, Y: 400})}
	r := newTestRobot(core.Pos{X: 100, Y: 100}, w)

	r.Update(t0.Add(10 * time.Millisecond))
	require.Equal(t, core.StatePicking, r.State())

	r.Update(t0.Add(500 * time.Millisecond))
	assert.Equal(t, core.StatePicking, r.State())

	r.Update(t0.Add(1010 * time.Millisecond))
	assert.Equal(t, core.StateMoving, r.State())
}

func TestPickup_ApproachesDistantPackage(t *testing.T) {
	w := newStubWorld()
	w.packages = []*core.Package{testPackage("PKG_1", core.Pos{X: 300, Y: 100}, core.Pos{X: 600, Y: 400})}
	r := newTestRobot(core.Pos{X: 100, Y: 100}, w)
	r.SetSpeedLevel(3)

	tick(r, t0, 20*time.Millisecond, 60)

	assert.Zero(t, w.PackageCount(), "robot should reach the package")
	assert.NotNil(t, r.Carrying())
}

func TestAtMostOneCarriedPackage(t *testing.T) {
	w := newStubWorld()
	w.packages = []*core.Package{
		testPackage("A", core.Pos{X: 105, Y: 100}, core.Pos{X: 700, Y: 400}),
		testPackage("B", core.Pos{X: 100, Y: 105}, core.Pos{X: 700, Y: 400}),
	}
	r := newTestRobot(core.Pos{X: 100, Y: 100}, w)

	now := t0
	for i := 0; i < 20; i++ {
		now = now.Add(20 * time.Millisecond)
		r.Update(now)
		if r.Carrying() != nil {
			assert.Contains(t, []core.State{core.StateMoving, core.StatePicking}, r.State())
		}
	}
	assert.Equal(t, 1, w.PackageCount(), "second package must stay on the floor")
}

func TestDelivery_SameTickWithinRange(t *testing.T) {
	w := newStubWorld()
	w.packages = []*core.Package{testPackage("PKG_1", core.Pos{X: 110, Y: 100}, core.Pos{X: 130, Y: 110})}
	r := newTestRobot(core.Pos{X: 100, Y: 100}, w)

	r.Update(t0.Add(10 * time.Millisecond))
	require.NotNil(t, r.Carrying())

	r.Update(t0.Add(20 * time.Millisecond))
	assert.Equal(t, 1, r.Delivered())
	assert.Nil(t, r.Carrying())
	assert.Equal(t, core.StateDelivering, r.State())
	assert.Empty(t, r.Path())

	r.Update(t0.Add(1100 * time.Millisecond))
	assert.Equal(t, core.StateIdle, r.State())
	assert.Equal(t, 1, r.Delivered())
}

func TestDelivery_ResumesAfterChargingDetour(t *testing.T) {
	w := newStubWorld()
	w.stations = []core.ChargingStation{{Rect: core.Rect{X: 70, Y: 80, Width: 60, Height: 40}}}
	r := newTestRobot(core.Pos{X: 100, Y: 100}, w)
	r.carrying = testPackage("PKG_1", core.Pos{}, core.Pos{X: 600, Y: 400})
	r.battery = 10

	r.Update(t0.Add(10 * time.Millisecond))
	require.Equal(t, core.StateCharging, r.State())

	tick(r, t0.Add(10*time.Millisecond), 100*time.Millisecond, 50)

	assert.Equal(t, core.ModeAuto, r.Mode())
	assert.Equal(t, core.StateMoving, r.State())
	dest, ok := r.Destination()
	require.True(t, ok)
	assert.Equal(t, core.Pos{X: 600, Y: 400}, dest)
}

func TestLowBattery_HeadsToNearestStation(t *testing.T) {
	w := newStubWorld()
	w.stations = []core.ChargingStation{
		{Rect: core.Rect{X: 50, Y: 50, Width: 60, Height: 40}},
		{Rect: core.Rect{X: 690, Y: 410, Width: 60, Height: 40}},
	}
	w.packages = []*core.Package{testPackage("PKG_1", core.Pos{X: 400, Y: 300}, core.Pos{X: 100, Y: 400})}
	r := newTestRobot(core.Pos{X: 600, Y: 350}, w)
	r.battery = 15

	r.Update(t0.Add(10 * time.Millisecond))

	dest, ok := r.Destination()
	require.True(t, ok)
	assert.Equal(t, core.Pos{X: 720, Y: 430}, dest)
	assert.Equal(t, core.StateMoving, r.State())
	assert.Equal(t, 1, w.PackageCount(), "low battery wins over pickup")
}

func TestLowBattery_DocksWithinRange(t *testing.T) {
	w := newStubWorld()
	w.stations = []core.ChargingStation{{Rect: core.Rect{X: 50, Y: 50, Width: 60, Height: 40}}}
	r := newTestRobot(core.Pos{X: 90, Y: 75}, w)
	r.battery = 15

	var events []EventKind
	r.observer = func(e Event) { events = append(events, e.Kind) }

	r.Update(t0.Add(10 * time.Millisecond))

	assert.Equal(t, core.StateCharging, r.State())
	assert.Equal(t, core.ModeCharging, r.Mode())
	assert.Equal(t, []EventKind{EventDocked}, events)
}

func TestCalculatePath_StraightLine(t *testing.T) {
	r := newTestRobot(core.Pos{X: 100, Y: 100}, newStubWorld())
	dest := core.Pos{X: 600, Y: 100}
	r.destination = &dest
	r.calculatePath()

	path := r.Path()
	require.Len(t, path, 50)
	assert.InDelta(t, 110, path[0].X, 1e-9)
	assert.InDelta(t, 600, path[49].X, 1e-9)
	for _, p := range path {
		assert.Equal(t, 100.0, p.Y)
	}
}

func TestCalculatePath_JittersBlockedPoints(t *testing.T) {
	w := newStubWorld()
	w.blocked = []core.Rect{{X: 300, Y: 80, Width: 40, Height: 40}}
	r := newTestRobot(core.Pos{X: 100, Y: 100}, w)
	dest := core.Pos{X: 600, Y: 100}
	r.destination = &dest
	r.calculatePath()

	path := r.Path()
	require.Len(t, path, 50)
	moved := 0
	for i, p := range path {
		straight := core.Pos{X: 100 + 10*float64(i+1), Y: 100}
		assert.InDelta(t, straight.X, p.X, 20)
		assert.InDelta(t, straight.Y, p.Y, 20)
		if p != straight {
			moved++
		}
	}
	assert.Positive(t, moved)
}

func TestCalculatePath_NoDestination(t *testing.T) {
	r := newTestRobot(core.Pos{X: 100, Y: 100}, newStubWorld())
	r.path = []core.Pos{{X: 1, Y: 1}}
	r.calculatePath()
	assert.Empty(t, r.Path())
}

func TestFollowPath(t *testing.T) {
	r := newTestRobot(core.Pos{X: 100, Y: 100}, newStubWorld())
	r.SetSpeedLevel(3)
	r.state = core.StateMoving
	r.path = []core.Pos{{X: 102, Y: 100}, {X: 103, Y: 100}, {X: 150, Y: 100}}

	r.followPath()
	assert.Equal(t, []core.Pos{{X: 150, Y: 100}}, r.Path(), "points within reach are dropped")
	assert.InDelta(t, 106, r.Pos().X, 1e-9)

	r.pos = core.Pos{X: 148, Y: 100}
	r.followPath()
	assert.Empty(t, r.Path())
	assert.Equal(t, core.StateIdle, r.State())
}
