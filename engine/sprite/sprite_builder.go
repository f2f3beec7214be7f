package sprite

// BatchBuilderOption is a functional option applied to a batch during construction via NewBatch.
type BatchBuilderOption func(*batch)

// WithImmediate draws each sprite with immediate-mode vertex calls instead of a vertex
// buffer. Only legacy contexts support it.
//
// Returns:
//   - BatchBuilderOption: a function that enables immediate mode on a batch
func WithImmediate() BatchBuilderOption {
	return func(b *batch) {
		b.immediate = true
	}
}

// WithCapacity sets how many sprites a buffered batch holds before it flushes.
//
// Parameters:
//   - sprites: the batch capacity in sprites
//
// Returns:
//   - BatchBuilderOption: a function that applies the capacity to a batch
func WithCapacity(sprites int) BatchBuilderOption {
	return func(b *batch) {
		if sprites > 0 {
			b.capacity = sprites
		}
	}
}
