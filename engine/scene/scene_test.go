package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl/gltest"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, options ...SceneBuilderOption) (*gltest.Recorder, Scene, model.Model) {
	t.Helper()
	rec := gltest.NewRecorder()
	r := renderer.NewRenderer(rec, renderer.WithViewport(640, 480), renderer.WithErrorChecks(true))
	s, err := NewScene("test", camera.NewCamera(), r, options...)
	require.NoError(t, err)
	cube, err := model.NewModel(r, model.Cube(2, [6][3]float32{}))
	require.NoError(t, err)
	return rec, s, cube
}

func TestMeshProgramSource(t *testing.T) {
	_, s, _ := setup(t)
	vs := s.Program().Source(shader.StageVertex)
	assert.Contains(t, vs, "uniform mat4 model;")
	assert.Contains(t, vs, "uniform mat4 projection;")
	assert.Contains(t, vs, "in vec3 position;")
}

func TestRegistry(t *testing.T) {
	_, s, cube := setup(t)

	a := s.Add(game_object.NewGameObject(game_object.WithModel(cube)))
	b := s.Add(game_object.NewGameObject(game_object.WithModel(cube), game_object.WithID(10)))
	c := s.Add(game_object.NewGameObject(game_object.WithModel(cube)))
	assert.Equal(t, uint64(1), a)
	assert.Equal(t, uint64(10), b)
	assert.Equal(t, uint64(11), c)
	assert.Equal(t, 3, s.Count())

	s.Remove(b)
	s.Remove(b)
	assert.Nil(t, s.Get(b))
	assert.Equal(t, 2, s.Count())

	s.Clear()
	assert.Zero(t, s.Count())

	assert.Panics(t, func() { s.Add(game_object.NewGameObject()) })
}

func TestDrawCullsOutsideDepthRange(t *testing.T) {
	rec, s, cube := setup(t)
	s.Add(game_object.NewGameObject(game_object.WithModel(cube)))
	s.Add(game_object.NewGameObject(game_object.WithModel(cube), game_object.WithPosition(0, 0, 10)))
	s.Add(game_object.NewGameObject(game_object.WithModel(cube), game_object.WithPosition(0, 0, -200)))
	s.Add(game_object.NewGameObject(game_object.WithModel(cube), game_object.WithEnabled(false)))
	rec.Reset()

	assert.Equal(t, 1, s.Draw())
	draws := rec.Named("DrawArrays")
	require.Len(t, draws, 1)
	assert.Equal(t, int32(36), draws[0].Args[2])
	assert.Equal(t, 1, rec.Count("Enable"))
	assert.Equal(t, 1, rec.Count("Disable"))

	s.SetCullingDisabled(true)
	assert.Equal(t, 3, s.Draw())
	assert.Equal(t, 1, rec.Count("UseProgram"), "the mesh program stays active across draws")
}

func TestUpdateSkipsDisabled(t *testing.T) {
	_, s, cube := setup(t)
	on := game_object.NewGameObject(game_object.WithModel(cube), game_object.WithRotationSpeed(0, 1, 0))
	off := game_object.NewGameObject(game_object.WithModel(cube), game_object.WithRotationSpeed(0, 1, 0), game_object.WithEnabled(false))
	s.Add(on)
	s.Add(off)

	s.Update(0.5)
	_, ry, _ := on.Rotation()
	assert.InDelta(t, 0.5, ry, 1e-6)
	_, ry, _ = off.Rotation()
	assert.Zero(t, ry)
}
