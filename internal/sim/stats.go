package sim

import (
	"time"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
)

// Statistics is the snapshot shown on the dashboard.
type Statistics struct {
	PackageCount     int             `json:"package_count"`
	BatteryPercent   float64         `json:"battery_percent"`
	DeliveredCount   int             `json:"delivered_count"`
	DistanceTraveled float64         `json:"distance_traveled"`
	EnergyUsedKWh    float64         `json:"energy_used_kwh"`
	SpeedLevel       core.SpeedLevel `json:"speed_level"`
	Speed            float64         `json:"speed"`
	State            core.State      `json:"-"`
	Mode             core.Mode       `json:"-"`
	Running          bool            `json:"running"`
	OperationalTime  time.Duration   `json:"operational_time_ns"`
	Frames           uint64          `json:"frames"`
	PendingEvents    int             `json:"pending_events"`
	// ResumeIn is the time left before an emergency stop lifts, zero when
	// no resume is scheduled.
	ResumeIn time.Duration `json:"resume_in_ns"`
}

// Statistics returns the current counters.
func (s *Simulation) Statistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs := s.robot.Statistics()
	op := s.operational
	if s.running {
		op += s.clock.Now().Sub(s.runningSince)
	}
	var resumeIn time.Duration
	if next, ok := s.queue.Next(); ok && next.Name == resumeEventName {
		resumeIn = max(0, next.Due.Sub(s.clock.Now()))
	}

	return Statistics{
		PackageCount:     s.warehouse.PackageCount(),
		BatteryPercent:   rs.Battery,
		DeliveredCount:   rs.Delivered,
		DistanceTraveled: rs.Distance,
		EnergyUsedKWh:    rs.Energy / 1000,
		SpeedLevel:       rs.SpeedLevel,
		Speed:            rs.Speed,
		State:            rs.State,
		Mode:             rs.Mode,
		Running:          s.running,
		OperationalTime:  op,
		Frames:           s.frames,
		PendingEvents:    s.queue.Pending(),
		ResumeIn:         resumeIn,
	}
}

// SpeedLabel returns the dashboard name of a speed level.
func SpeedLabel(l core.SpeedLevel) string {
	return l.Label()
}
