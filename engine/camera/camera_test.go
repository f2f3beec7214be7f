package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	x, y, z := c.Position()
	assert.Equal(t, [3]float32{0, 0, 5}, [3]float32{x, y, z})

	view := c.ViewMatrix()
	assert.InDelta(t, -5, view[14], 1e-6)

	proj := c.ProjectionMatrix()
	assert.InDelta(t, -1, proj[11], 1e-6)
	assert.InDelta(t, proj[0], proj[5], 1e-6)
}

func TestSetViewportUpdatesProjection(t *testing.T) {
	c := NewCamera()
	before := c.ProjectionMatrix()
	c.SetViewport(1600, 800)
	assert.InDelta(t, 2, c.Aspect(), 1e-6)
	after := c.ProjectionMatrix()
	assert.InDelta(t, before[0]/2, after[0], 1e-6)

	c.SetViewport(100, 0)
	assert.InDelta(t, 2, c.Aspect(), 1e-6)
}

func TestOrbitKeepsDistance(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 4), WithTarget(0, 0, 0))
	c.Orbit(common.DegToRad(90), 0)
	x, y, z := c.Position()
	assert.InDelta(t, 4, x, 1e-5)
	assert.InDelta(t, 0, y, 1e-5)
	assert.InDelta(t, 0, z, 1e-5)

	c.Orbit(0, 10)
	_, y, _ = c.Position()
	assert.Less(t, y, float32(4))
	assert.Greater(t, y, float32(3.9))
}

func TestZoomStopsShortOfTarget(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 2))
	c.Zoom(1)
	_, _, z := c.Position()
	assert.InDelta(t, 1, z, 1e-6)

	c.Zoom(5)
	_, _, z = c.Position()
	assert.InDelta(t, minDistance, z, 1e-6)
}

func TestPanMovesPositionAndTarget(t *testing.T) {
	c := NewCamera()
	c.Pan(1, 2)
	px, py, pz := c.Position()
	tx, ty, tz := c.Target()
	assert.InDeltaSlice(t, []float32{1, 2, 5}, []float32{px, py, pz}, 1e-6)
	assert.InDeltaSlice(t, []float32{1, 2, 0}, []float32{tx, ty, tz}, 1e-6)
}

func TestViewProjectionIsProduct(t *testing.T) {
	c := NewCamera(WithPosition(3, 2, 1), WithTarget(0, 1, 0), WithFov(common.DegToRad(60)), WithNear(0.5), WithFar(50))
	view, proj := c.ViewMatrix(), c.ProjectionMatrix()
	var want [16]float32
	common.Mul4(want[:], proj[:], view[:])
	vp := c.ViewProjectionMatrix()
	assert.InDeltaSlice(t, want[:], vp[:], 1e-6)
}
