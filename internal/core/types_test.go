package core

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"auto", ModeAuto, false},
		{"MANUAL", ModeManual, false},
		{" charging ", ModeCharging, false},
		{"turbo", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{DirStop, DirUp, DirDown, DirLeft, DirRight} {
		got, err := ParseDirection(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestDirectionDelta(t *testing.T) {
	dx, dy := DirUp.Delta()
	if dx != 0 || dy != -1 {
		t.Errorf("up delta = (%v,%v), want (0,-1)", dx, dy)
	}
	dx, dy = DirStop.Delta()
	if dx != 0 || dy != 0 {
		t.Errorf("stop delta = (%v,%v), want (0,0)", dx, dy)
	}
}

func TestStateActive(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateIdle, false},
		{StateCharging, false},
		{StateMoving, true},
		{StatePicking, true},
		{StateDelivering, true},
	}

	for _, tt := range tests {
		if got := tt.state.Active(); got != tt.want {
			t.Errorf("%v.Active() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestSpeedLevel(t *testing.T) {
	tests := []struct {
		level SpeedLevel
		speed float64
		label string
	}{
		{1, 2, "Slow"},
		{2, 4, "Medium"},
		{3, 6, "Normal"},
		{4, 8, "Fast"},
		{5, 10, "Turbo"},
	}

	for _, tt := range tests {
		if got := tt.level.Speed(); got != tt.speed {
			t.Errorf("level %d speed = %v, want %v", tt.level, got, tt.speed)
		}
		if got := tt.level.Label(); got != tt.label {
			t.Errorf("level %d label = %q, want %q", tt.level, got, tt.label)
		}
	}

	if SpeedLevel(0).Clamp() != 1 || SpeedLevel(9).Clamp() != 5 {
		t.Error("Clamp should limit level to 1-5")
	}
}

func TestRectOverlaps(t *testing.T) {
	r := Rect{X: 100, Y: 100, Width: 40, Height: 20}

	tests := []struct {
		name   string
		p      Pos
		radius float64
		want   bool
	}{
		{"inside", Pos{X: 120, Y: 110}, 0, true},
		{"outside", Pos{X: 50, Y: 50}, 0, false},
		{"touching edge", Pos{X: 100, Y: 110}, 0, false},
		{"reached by radius", Pos{X: 90, Y: 110}, 11, true},
		{"just short of radius", Pos{X: 90, Y: 110}, 10, false},
	}

	for _, tt := range tests {
		if got := r.Overlaps(tt.p, tt.radius); got != tt.want {
			t.Errorf("%s: Overlaps(%v, %v) = %v, want %v", tt.name, tt.p, tt.radius, got, tt.want)
		}
	}
}

func TestRectClamp(t *testing.T) {
	floor := Rect{Width: 800, Height: 500}

	got := floor.Clamp(Pos{X: -5, Y: 900}, 20)
	if got.X != 20 || got.Y != 480 {
		t.Errorf("Clamp = %v, want (20,480)", got)
	}

	got = floor.Clamp(Pos{X: 300, Y: 200}, 20)
	if got.X != 300 || got.Y != 200 {
		t.Errorf("Clamp moved an in-bounds point: %v", got)
	}
}

func TestPosDistLerp(t *testing.T) {
	a := Pos{X: 0, Y: 0}
	b := Pos{X: 3, Y: 4}
	if a.Dist(b) != 5 {
		t.Errorf("Dist = %v, want 5", a.Dist(b))
	}
	mid := a.Lerp(b, 0.5)
	if mid.X != 1.5 || mid.Y != 2 {
		t.Errorf("Lerp = %v, want (1.5,2)", mid)
	}
}
