package renderer

import (
	"log"

	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithGeneration forces the shading-language generation instead of detecting it from
// the context version.
//
// Parameters:
//   - gen: GenerationCore or GenerationLegacy
//
// Returns:
//   - RendererBuilderOption: a function that applies the generation option to a renderer
func WithGeneration(gen shader.Generation) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingGeneration = &gen
	}
}

// WithErrorChecks enables or disables post-operation GL error checks. Disabling them
// removes every GetError round trip, trading diagnostics for speed.
//
// Parameters:
//   - enabled: true to check for GL errors after each operation
//
// Returns:
//   - RendererBuilderOption: a function that applies the error check option to a renderer
func WithErrorChecks(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.checkErrors = enabled
	}
}

// WithFragColorName sets the fragment output identifier used by generated shaders.
//
// Parameters:
//   - name: the output identifier
//
// Returns:
//   - RendererBuilderOption: a function that applies the fragment output option to a renderer
func WithFragColorName(name string) RendererBuilderOption {
	return func(r *renderer) {
		if name != "" {
			r.fragColorName = name
		}
	}
}

// WithViewport sets the initial viewport size.
//
// Parameters:
//   - width: the framebuffer width in pixels
//   - height: the framebuffer height in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the viewport option to a renderer
func WithViewport(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width, r.height = width, height
	}
}

// WithConfig applies the renderer settings of a loaded config. An unknown generation
// name is logged and left to detection.
//
// Parameters:
//   - c: the loaded configuration
//
// Returns:
//   - RendererBuilderOption: a function that applies the configuration to a renderer
func WithConfig(c config.Config) RendererBuilderOption {
	return func(r *renderer) {
		if c.Generation != "" {
			gen, err := shader.ParseGeneration(c.Generation)
			if err != nil {
				log.Printf("[Renderer] ignoring config generation: %v", err)
			} else {
				r.pendingGeneration = &gen
			}
		}
		if c.CheckErrors != nil {
			r.checkErrors = *c.CheckErrors
		}
		WithFragColorName(c.FragColorName)(r)
		if c.Window.Width > 0 && c.Window.Height > 0 {
			r.width, r.height = c.Window.Width, c.Window.Height
		}
	}
}
