package texture

// TextureBuilderOption is a functional option applied to a texture during construction.
type TextureBuilderOption func(*glTexture)

// WithFilter sets both the minification and magnification filter.
//
// Parameters:
//   - filter: gl.Linear or gl.Nearest
//
// Returns:
//   - TextureBuilderOption: a function that applies the filter option to a texture
func WithFilter(filter int32) TextureBuilderOption {
	return func(t *glTexture) {
		t.minFilter = filter
		t.magFilter = filter
	}
}

// WithWrap sets the wrap mode for both texture coordinates.
//
// Parameters:
//   - wrap: gl.ClampToEdge or gl.Repeat
//
// Returns:
//   - TextureBuilderOption: a function that applies the wrap option to a texture
func WithWrap(wrap int32) TextureBuilderOption {
	return func(t *glTexture) {
		t.wrap = wrap
	}
}

// WithMaxSize scales images whose width or height exceeds size down before upload.
//
// Parameters:
//   - size: the largest allowed dimension in pixels (0 disables scaling)
//
// Returns:
//   - TextureBuilderOption: a function that applies the size limit to a texture
func WithMaxSize(size int) TextureBuilderOption {
	return func(t *glTexture) {
		t.maxSize = size
	}
}
