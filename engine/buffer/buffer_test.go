package buffer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl/gltest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadGrowsThenReuses(t *testing.T) {
	rec := gltest.NewRecorder()
	r := renderer.NewRenderer(rec, renderer.WithErrorChecks(true))
	rec.Reset()

	b := NewVertexBuffer(r, WithUsage(gl.DynamicDraw))
	require.NoError(t, b.Upload(make([]float32, 8)))
	assert.Equal(t, 8, b.Len())

	data := rec.Named("BufferData")
	require.Len(t, data, 1)
	assert.Equal(t, []any{uint32(gl.ArrayBuffer), 32, uint32(gl.DynamicDraw)}, data[0].Args)

	rec.Reset()
	require.NoError(t, b.Upload(make([]float32, 4)))
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, []string{"BindBuffer", "BufferData", "BufferSubData", "GetError"}, rec.Names()[:4])
	assert.Equal(t, []any{uint32(gl.ArrayBuffer), 0, 16}, rec.Named("BufferSubData")[0].Args)
	assert.Equal(t, 32, rec.Named("BufferData")[0].Args[1])
}

func TestCapacityPreallocates(t *testing.T) {
	rec := gltest.NewRecorder()
	r := renderer.NewRenderer(rec)
	rec.Reset()

	b := NewVertexBuffer(r, WithCapacity(100))
	assert.Equal(t, 400, rec.Named("BufferData")[0].Args[1])

	require.NoError(t, b.Upload(make([]float32, 50)))
	assert.Equal(t, 1, rec.Count("BufferSubData"))
}

func TestUploadEmpty(t *testing.T) {
	rec := gltest.NewRecorder()
	r := renderer.NewRenderer(rec)
	rec.Reset()

	b := NewVertexBuffer(r)
	require.NoError(t, b.Upload(nil))
	assert.Zero(t, b.Len())
	assert.Zero(t, rec.Count("BufferData"))
}

func TestDispose(t *testing.T) {
	rec := gltest.NewRecorder()
	r := renderer.NewRenderer(rec)

	b := NewVertexBuffer(r)
	h := b.Handle()
	b.Dispose()
	b.Dispose()
	assert.Zero(t, b.Handle())
	assert.Equal(t, 1, rec.Count("DeleteBuffers"))
	assert.Equal(t, []any{[]uint32{h}}, rec.Named("DeleteBuffers")[0].Args)
}
