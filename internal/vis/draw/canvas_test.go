package draw

import (
	"image"
	"math/rand"
	"testing"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/stretchr/testify/assert"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/render"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/robot"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/vis/interact"
	"github.com/elektrokombinacija/warehouse-robot-sim/internal/warehouse"
)

func newTestCanvas() (*Canvas, layout.Context) {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	gtx := layout.Context{
		Ops:         new(op.Ops),
		Metric:      unit.Metric{PxPerDp: 1, PxPerSp: 1},
		Constraints: layout.Exact(image.Pt(800, 500)),
	}
	return NewCanvas(th, interact.NewCamera()), gtx
}

func TestCanvas_UnboundDropsCalls(t *testing.T) {
	c, _ := newTestCanvas()
	assert.NotPanics(t, func() {
		c.Clear(render.ColorBackground)
		c.FillRect(core.Rect{Width: 10, Height: 10}, render.ColorWhite)
		c.Text(core.Pos{X: 5, Y: 5}, "SHELF", 10, render.ColorWhite, render.AlignCenter)
	})
}

func TestCanvas_PaintsScene(t *testing.T) {
	c, gtx := newTestCanvas()
	rng := rand.New(rand.NewSource(1))
	wh := warehouse.New(800, 500, warehouse.WithRand(rng))
	r := robot.New(core.Pos{X: 400, Y: 250}, wh, robot.WithRand(rng))

	c.Bind(gtx)
	assert.NotPanics(t, func() {
		c.Clear(render.ColorBackground)
		render.DrawWarehouse(c, wh)
		render.DrawRobot(c, r)
		c.StrokeCircle(core.Pos{X: 100, Y: 100}, 20, render.ColorWhite, 2, true)
		c.Polyline([]core.Pos{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 0}}, render.ColorWhite, 2)
		c.Line(core.Pos{}, core.Pos{}, render.ColorWhite, 1)
		c.Text(core.Pos{X: 10, Y: 20}, "Robot: idle", 14, render.ColorWhite, render.AlignLeft)
	})
	c.Unbind()
	assert.Nil(t, c.ops())
}

func TestCanvas_WidthHasFloor(t *testing.T) {
	c, _ := newTestCanvas()
	c.camera.Zoom = 0.25
	assert.Equal(t, float32(1), c.width(2))
	c.camera.Zoom = 2
	assert.Equal(t, float32(6), c.width(3))
}
