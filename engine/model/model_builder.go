package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithUsage is an option builder that sets the buffer usage hint (gl.StaticDraw by default).
//
// Parameters:
//   - usage: gl.StaticDraw, gl.DynamicDraw or gl.StreamDraw
//
// Returns:
//   - ModelBuilderOption: a function that applies the usage option to a model
func WithUsage(usage uint32) ModelBuilderOption {
	return func(m *model) {
		m.usage = usage
	}
}
