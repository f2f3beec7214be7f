package buffer

// BufferBuilderOption is a functional option applied to a buffer during construction.
type BufferBuilderOption func(*vertexBuffer)

// WithUsage sets the usage hint passed to BufferData.
//
// Parameters:
//   - usage: gl.StreamDraw, gl.DynamicDraw or gl.StaticDraw
//
// Returns:
//   - BufferBuilderOption: a function that applies the usage option to a buffer
func WithUsage(usage uint32) BufferBuilderOption {
	return func(b *vertexBuffer) {
		b.usage = usage
	}
}

// WithCapacity preallocates storage for a number of floats.
//
// Parameters:
//   - floats: the initial capacity in floats
//
// Returns:
//   - BufferBuilderOption: a function that applies the capacity option to a buffer
func WithCapacity(floats int) BufferBuilderOption {
	return func(b *vertexBuffer) {
		b.capacity = floats
	}
}
