package game_object

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	obj := NewGameObject()
	assert.True(t, obj.Enabled())
	assert.Nil(t, obj.Model())

	sx, sy, sz := obj.Scale()
	assert.Equal(t, []float32{1, 1, 1}, []float32{sx, sy, sz})

	m := obj.ModelMatrix()
	for i := 0; i < 16; i++ {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		assert.InDelta(t, want, m[i], 1e-6, "m[%d]", i)
	}
}

func TestModelMatrixTranslationAndScale(t *testing.T) {
	obj := NewGameObject(WithPosition(1, 2, 3), WithScale(2, 3, 4))
	m := obj.ModelMatrix()
	assert.Equal(t, float32(2), m[0])
	assert.Equal(t, float32(3), m[5])
	assert.Equal(t, float32(4), m[10])
	assert.Equal(t, []float32{1, 2, 3, 1}, m[12:16])
}

func TestUpdateAppliesRotationSpeed(t *testing.T) {
	obj := NewGameObject(WithRotation(0, 1, 0), WithRotationSpeed(0.5, 2, 0))
	obj.Update(0.5)

	rx, ry, rz := obj.Rotation()
	assert.InDelta(t, 0.25, rx, 1e-6)
	assert.InDelta(t, 2.0, ry, 1e-6)
	assert.Zero(t, rz)
}
