package program

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl/gltest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutStrideAndOffsets(t *testing.T) {
	var l Layout
	for _, a := range []struct {
		name       string
		components int
	}{{"position", 2}, {"uv", 2}, {"color", 4}} {
		_, err := l.Declare(a.name, a.components)
		require.NoError(t, err)
	}

	assert.Equal(t, 32, l.Stride())
	assert.Equal(t, 8, l.Elements())
	slots := l.Slots()
	require.Len(t, slots, 3)
	assert.Equal(t, []int{0, 8, 16}, []int{slots[0].Offset, slots[1].Offset, slots[2].Offset})
	assert.Equal(t, []int{0, 2, 4}, []int{slots[0].SourceOffset, slots[1].SourceOffset, slots[2].SourceOffset})
	assert.Equal(t, int32(-1), slots[0].Location)
}

func TestLayoutElementTypes(t *testing.T) {
	var l Layout
	normal, err := l.Declare("normal", 4, WithElementType(HalfFloat))
	require.NoError(t, err)
	assert.Equal(t, 8, normal.ByteLength())

	color, err := l.Declare("color", 4, WithElementType(Uint8), WithNormalize())
	require.NoError(t, err)
	assert.Equal(t, 8, color.Offset)
	assert.True(t, color.Normalize)
	assert.Equal(t, uint32(gl.UnsignedByte), color.ElementType.GLType())

	weight, err := l.Declare("weight", 1, WithElementType(Int16))
	require.NoError(t, err)
	assert.Equal(t, 12, weight.Offset)
	assert.Equal(t, 14, l.Stride())
	assert.Equal(t, 9, l.Elements())
}

func TestLayoutSourceOffsetAndErrors(t *testing.T) {
	var l Layout
	_, err := l.Declare("position", 3)
	require.NoError(t, err)
	uv, err := l.Declare("uv", 2, WithSourceOffset(6), WithDivisor(1))
	require.NoError(t, err)
	assert.Equal(t, 6, uv.SourceOffset)
	assert.Equal(t, 1, uv.Divisor)

	_, err = l.Declare("bad", 0)
	assert.ErrorIs(t, err, ErrComponentCount)
	_, err = l.Declare("bad", 5)
	assert.ErrorIs(t, err, ErrComponentCount)
	_, err = l.Declare("position", 3)
	assert.ErrorIs(t, err, shader.ErrDuplicateVariable)
	_, err = l.Declare("weight", 1, WithSourceOffset(-4))
	assert.ErrorIs(t, err, ErrSourceOffset)
	assert.Equal(t, 2, l.Len())

	// uv reads values 6 and 7 of a 5-value vertex
	assert.ErrorIs(t, l.Validate(), ErrSourceOffset)
}

func TestLayoutValidateAcceptsReorderedSources(t *testing.T) {
	var l Layout
	_, err := l.Declare("position", 3, WithSourceOffset(4))
	require.NoError(t, err)
	_, err = l.Declare("color", 4, WithSourceOffset(0))
	require.NoError(t, err)
	assert.NoError(t, l.Validate())
}

func TestLayoutEmitVertexProvokingLast(t *testing.T) {
	rec := gltest.NewRecorder()
	var l Layout
	_, _ = l.Declare("position", 2)
	_, _ = l.Declare("color", 3)
	_, _ = l.Declare("unused", 1)
	l.setLocation(0, 0)
	l.setLocation(1, 1)

	l.emitVertex(rec, []float32{1, 2, 0.1, 0.2, 0.3, 9})
	require.Len(t, rec.Calls, 2)
	assert.Equal(t, gltest.Call{Name: "VertexAttrib3f", Args: []any{uint32(1), float32(0.1), float32(0.2), float32(0.3)}}, rec.Calls[0])
	assert.Equal(t, gltest.Call{Name: "VertexAttrib2f", Args: []any{uint32(0), float32(1), float32(2)}}, rec.Calls[1])
}

func TestLayoutBufferedBinding(t *testing.T) {
	rec := gltest.NewRecorder()
	var l Layout
	_, _ = l.Declare("position", 3)
	_, _ = l.Declare("offset", 2, WithDivisor(1))
	l.setLocation(0, 0)
	l.setLocation(1, 4)

	l.bindBuffered(rec)
	assert.Equal(t, []string{
		"VertexAttribPointer", "EnableVertexAttribArray",
		"VertexAttribPointer", "EnableVertexAttribArray", "VertexAttribDivisor",
	}, rec.Names())
	assert.Equal(t, []any{uint32(4), int32(2), uint32(gl.Float), false, int32(20), uintptr(12)}, rec.Named("VertexAttribPointer")[1].Args)

	rec.Reset()
	l.unbindBuffered(rec)
	assert.Equal(t, []string{"DisableVertexAttribArray", "VertexAttribDivisor", "DisableVertexAttribArray"}, rec.Names())
	assert.Equal(t, []any{uint32(4), uint32(0)}, rec.Named("VertexAttribDivisor")[0].Args)
}
