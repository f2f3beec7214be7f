package window

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithMaxWidth sets the maximum allowed window width. Zero leaves it unlimited.
//
// Parameters:
//   - maxWidth: maximum width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxWidth(maxWidth int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth = maxWidth
	}
}

// WithMaxHeight sets the maximum allowed window height. Zero leaves it unlimited.
//
// Parameters:
//   - maxHeight: maximum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxHeight(maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxHeight = maxHeight
	}
}

// WithMinWidth sets the minimum allowed window width.
//
// Parameters:
//   - minWidth: minimum width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinWidth(minWidth int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = minWidth
	}
}

// WithMinHeight sets the minimum allowed window height.
//
// Parameters:
//   - minHeight: minimum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinHeight(minHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minHeight = minHeight
	}
}

// WithWidth sets the initial window width.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithGeneration selects the context requested from the platform: a 2.1 context for
// shader.GenerationLegacy, a 3.3 core profile context for shader.GenerationCore.
//
// Parameters:
//   - gen: the shading-language generation
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithGeneration(gen shader.Generation) WindowBuilderOption {
	return func(w *engineWindow) {
		w.generation = gen
	}
}

// WithVSync enables or disables waiting for vertical sync on SwapBuffers.
//
// Parameters:
//   - enabled: true for a swap interval of 1
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithVSync(enabled bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.vsync = enabled
	}
}

// WithConfig applies the window section and generation of a loaded config.
// Zero fields keep the current values; an unparseable generation is ignored.
//
// Parameters:
//   - c: the loaded configuration
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithConfig(c config.Config) WindowBuilderOption {
	return func(w *engineWindow) {
		if c.Window.Title != "" {
			w.title = c.Window.Title
		}
		if c.Window.Width > 0 {
			w.width = c.Window.Width
		}
		if c.Window.Height > 0 {
			w.height = c.Window.Height
		}
		w.vsync = c.Window.VSync
		if c.Generation != "" {
			if gen, err := shader.ParseGeneration(c.Generation); err == nil {
				w.generation = gen
			}
		}
	}
}
