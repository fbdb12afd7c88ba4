package robot

import (
	"math"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
)

// autoBehavior picks the highest-priority goal for this tick:
// low battery, then delivery, then pickup, else idle.
func (r *Robot) autoBehavior() {
	switch {
	case r.battery < r.params.LowBattery && r.state != core.StateCharging:
		r.goToChargingStation()
	case r.carrying != nil:
		r.deliverPackage()
	case r.world.PackageCount() > 0:
		r.pickupPackage()
	default:
		r.setState(core.StateIdle)
	}
}

func (r *Robot) headTo(dest core.Pos) {
	r.destination = &dest
	r.calculatePath()
	r.setState(core.StateMoving)
}

func (r *Robot) pickupPackage() {
	nearest := r.world.ClosestPackage(r.pos)
	if nearest == nil {
		return
	}

	r.headTo(nearest.Pos)

	if r.pos.Dist(nearest.Pos) >= r.params.PickupRange {
		return
	}

	pkg := nearest
	r.carrying = pkg
	r.world.RemovePackage(pkg.ID)
	r.headTo(pkg.Destination.Pos)
	r.setState(core.StatePicking)
	r.emit(Event{Kind: EventPickedUp, Package: pkg, Pos: r.pos, Battery: r.battery})

	r.defer1("picking-done", func() {
		if r.state == core.StatePicking {
			r.setState(core.StateMoving)
		}
	})
}

func (r *Robot) deliverPackage() {
	pkg := r.carrying
	dest := pkg.Destination.Pos

	if r.pos.Dist(dest) < r.params.DeliveryRange {
		r.delivered++
		r.carrying = nil
		r.destination = nil
		r.path = nil
		r.setState(core.StateDelivering)
		r.emit(Event{Kind: EventDelivered, Package: pkg, Pos: r.pos, Battery: r.battery})

		r.defer1("delivering-done", func() {
			if r.state == core.StateDelivering {
				r.setState(core.StateIdle)
			}
		})
		return
	}

	// Resume the delivery leg after a charging detour or an exhausted path.
	if r.state == core.StateIdle || r.destination == nil || *r.destination != dest {
		r.headTo(dest)
	}
}

func (r *Robot) goToChargingStation() {
	station, ok := r.world.ClosestChargingStation(r.pos)
	if !ok {
		return
	}

	dock := station.Dock()
	r.headTo(dock)

	if r.pos.Dist(dock) < r.params.DockRange {
		r.setState(core.StateCharging)
		r.setMode(core.ModeCharging)
		r.emit(Event{Kind: EventDocked, Pos: r.pos, Battery: r.battery})
	}
}

// calculatePath fills the path with evenly spaced points toward the
// destination. Points that land on a shelf or obstacle are nudged by a random
// offset and kept as-is, so a path may still clip a corner.
func (r *Robot) calculatePath() {
	r.path = nil
	if r.destination == nil {
		return
	}

	steps := r.params.PathSteps
	if steps <= 0 {
		return
	}
	dest := *r.destination
	radius := r.params.Size / 2

	r.path = make([]core.Pos, 0, steps)
	for i := 1; i <= steps; i++ {
		p := r.pos.Lerp(dest, float64(i)/float64(steps))
		if r.world.IsPositionOccupied(p, radius) {
			p.X += r.jitter()
			p.Y += r.jitter()
		}
		r.path = append(r.path, p)
	}
}

func (r *Robot) jitter() float64 {
	return (r.rng.Float64()*2 - 1) * r.params.Jitter
}

// followPath drops every leading point already within reach, then advances
// one speed step toward the next.
func (r *Robot) followPath() {
	for len(r.path) > 0 && r.pos.Dist(r.path[0]) < r.params.WaypointReach {
		r.path = r.path[1:]
	}
	if len(r.path) == 0 {
		r.setState(core.StateIdle)
		return
	}

	target := r.path[0]
	dx := target.X - r.pos.X
	dy := target.Y - r.pos.Y
	d := math.Hypot(dx, dy)
	r.pos.X += dx / d * r.speed
	r.pos.Y += dy / d * r.speed
}
