package shader

// BuilderOption is a functional option applied to a builder during construction via NewBuilder.
type BuilderOption func(*builder)

// WithTwoD puts the builder in 2D mode: it declares the ResolutionUniform vec2 and, on
// the vertex stage, rewrites the body's gl_Position assignment from pixel space to
// clip space so 2D draws need no projection matrix.
//
// Returns:
//   - BuilderOption: a function that enables 2D mode on a builder
func WithTwoD() BuilderOption {
	return func(b *builder) {
		if b.twoD {
			return
		}
		b.twoD = true
		b.names[kindUniform][ResolutionUniform] = struct{}{}
		b.uniforms = append(b.uniforms, Variable{Name: ResolutionUniform, Type: Vec2})
	}
}

// WithInterface re-declares the varyings of a producing stage on this builder.
// Varyings already present on the builder are skipped.
//
// Parameters:
//   - iface: the producing stage's interface, from Builder.Interface
//
// Returns:
//   - BuilderOption: a function that applies the interface to a builder
func WithInterface(iface StageInterface) BuilderOption {
	return func(b *builder) {
		for _, v := range iface.Varyings {
			if _, ok := b.names[kindVarying][v.Name]; ok {
				continue
			}
			b.names[kindVarying][v.Name] = struct{}{}
			b.varyings = append(b.varyings, v)
		}
	}
}

// WithGeneration selects the shading-language generation. Apply it before any option
// that declares variables so extension requirements are evaluated for the right target.
//
// Parameters:
//   - gen: GenerationCore or GenerationLegacy
//
// Returns:
//   - BuilderOption: a function that sets the generation on a builder
func WithGeneration(gen Generation) BuilderOption {
	return func(b *builder) {
		b.generation = gen
	}
}

// WithFragColorName sets the identifier the fragment body writes its color to. The core
// generation declares it as an output; the legacy generation rewrites it to gl_FragColor.
//
// Parameters:
//   - name: the output identifier; empty keeps DefaultFragColorName
//
// Returns:
//   - BuilderOption: a function that sets the fragment output name on a builder
func WithFragColorName(name string) BuilderOption {
	return func(b *builder) {
		if name != "" {
			b.fragColor = name
		}
	}
}
