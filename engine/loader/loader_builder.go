package loader

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithDefaultColor sets the vertex color used when a primitive has neither COLOR_0 nor
// a material base color. Defaults to white.
//
// Parameters:
//   - rgb: the fallback color
//
// Returns:
//   - LoaderBuilderOption: a function that applies the color option to a loader
func WithDefaultColor(rgb [3]float32) LoaderBuilderOption {
	return func(l *loader) {
		l.defaultColor = rgb
	}
}

// WithModelOptions sets options applied to every Model the Loader creates.
//
// Parameters:
//   - options: model builder options, e.g. model.WithUsage
//
// Returns:
//   - LoaderBuilderOption: a function that applies the options to a loader
func WithModelOptions(options ...model.ModelBuilderOption) LoaderBuilderOption {
	return func(l *loader) {
		l.usage = append(l.usage, options...)
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - m: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, m model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = m
	}
}
