package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/robot"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/warehouse"
)

func TestExec_ManualSession(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.sim.Exec("mode manual"))
	require.NoError(t, h.sim.Exec("  SPEED 5 "))
	require.NoError(t, h.sim.Exec("move down"))

	var pos core.Pos
	h.sim.View(func(_ *warehouse.Warehouse, r *robot.Robot) { pos = r.Pos() })
	assert.Equal(t, core.Pos{X: 400, Y: 260}, pos)

	stats := h.sim.Statistics()
	assert.Equal(t, core.ModeManual, stats.Mode)
	assert.Equal(t, core.SpeedLevel(5), stats.SpeedLevel)
	assert.Equal(t, core.StateMoving, stats.State)

	require.NoError(t, h.sim.Exec("move stop"))
	assert.Equal(t, core.StateIdle, h.sim.Statistics().State)
}

func TestExec_Lifecycle(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.sim.Exec("pause"))
	assert.False(t, h.sim.Running())
	require.NoError(t, h.sim.Exec("start"))
	assert.True(t, h.sim.Running())

	require.NoError(t, h.sim.Exec("package"))
	assert.Equal(t, 4, h.sim.Statistics().PackageCount)

	require.NoError(t, h.sim.Exec("estop"))
	assert.False(t, h.sim.Running())

	require.NoError(t, h.sim.Exec("reset"))
	assert.True(t, h.sim.Running())
	assert.Equal(t, 3, h.sim.Statistics().PackageCount)

	assert.NoError(t, h.sim.Exec("   "))
}

func TestExec_Errors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"fly", "unknown command"},
		{"move", "move: want one direction"},
		{"move sideways", `unknown direction "sideways"`},
		{"mode turbo", `unknown mode "turbo"`},
		{"speed 9", "outside 1-5"},
		{"speed fast", "outside 1-5"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			h := newHarness(t)
			err := h.sim.Exec(tt.line)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	h := newHarness(t)
	assert.ErrorIs(t, h.sim.Exec("fly"), ErrUnknownCommand)
}
