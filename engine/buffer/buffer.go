package buffer

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
)

// vertexBuffer is the implementation of the VertexBuffer interface.
type vertexBuffer struct {
	r        renderer.Renderer
	handle   uint32
	usage    uint32
	length   int
	capacity int
}

// VertexBuffer is a GL array buffer holding interleaved float32 vertex data.
type VertexBuffer interface {
	// Upload replaces the buffer contents. The GL store is only reallocated when data
	// outgrows the current capacity; otherwise it is orphaned and refilled at the same size.
	//
	// Parameters:
	//   - data: the vertex data
	//
	// Returns:
	//   - error: a GL error when error checks are enabled
	Upload(data []float32) error

	// Bind binds the buffer to the array buffer target.
	Bind()

	// Unbind clears the array buffer binding.
	Unbind()

	// Len returns the number of floats last uploaded.
	//
	// Returns:
	//   - int: the float count
	Len() int

	// Handle returns the GL buffer name.
	//
	// Returns:
	//   - uint32: the buffer handle (0 after Dispose)
	Handle() uint32

	// Dispose deletes the GL buffer.
	Dispose()
}

var _ VertexBuffer = &vertexBuffer{}

// NewVertexBuffer creates an empty array buffer.
//
// Parameters:
//   - r: the renderer owning the GL context
//   - options: functional options (WithUsage, WithCapacity)
//
// Returns:
//   - VertexBuffer: the new buffer
func NewVertexBuffer(r renderer.Renderer, options ...BufferBuilderOption) VertexBuffer {
	b := &vertexBuffer{
		r:     r,
		usage: gl.StreamDraw,
	}
	for _, opt := range options {
		opt(b)
	}
	r.GL().GenBuffers(1, &b.handle)
	if b.capacity > 0 {
		b.Bind()
		r.GL().BufferData(gl.ArrayBuffer, b.capacity*4, nil, b.usage)
	}
	return b
}

func (b *vertexBuffer) Upload(data []float32) error {
	g := b.r.GL()
	b.Bind()
	b.length = len(data)
	if len(data) == 0 {
		return nil
	}
	ptr := unsafe.Pointer(&data[0])
	if len(data) > b.capacity {
		b.capacity = len(data)
		g.BufferData(gl.ArrayBuffer, len(data)*4, ptr, b.usage)
	} else {
		g.BufferData(gl.ArrayBuffer, b.capacity*4, nil, b.usage)
		g.BufferSubData(gl.ArrayBuffer, 0, len(data)*4, ptr)
	}
	return b.r.Check("BufferData")
}

func (b *vertexBuffer) Bind() {
	b.r.GL().BindBuffer(gl.ArrayBuffer, b.handle)
}

func (b *vertexBuffer) Unbind() {
	b.r.GL().BindBuffer(gl.ArrayBuffer, 0)
}

func (b *vertexBuffer) Len() int {
	return b.length
}

func (b *vertexBuffer) Handle() uint32 {
	return b.handle
}

func (b *vertexBuffer) Dispose() {
	if b.handle == 0 {
		return
	}
	b.r.GL().DeleteBuffers(1, &b.handle)
	b.handle = 0
	b.length, b.capacity = 0, 0
}
