package shader

import (
	"fmt"
	"strings"
)

// varKind separates the identifier namespaces checked for duplicates.
type varKind int

const (
	kindUniform varKind = iota
	kindAttribute
	kindVarying
)

func (k varKind) String() string {
	switch k {
	case kindUniform:
		return "uniform"
	case kindAttribute:
		return "attribute"
	}
	return "varying"
}

// builder is the implementation of the Builder interface.
type builder struct {
	stage      Stage
	generation Generation
	twoD       bool
	fragColor  string

	uniforms   []Variable
	attributes []Variable
	varyings   []Variable
	names      map[varKind]map[string]struct{}
	extensions []string

	body      string
	generated string
	frozen    bool
}

// Builder accumulates the uniforms, attributes and varyings of one shader stage and
// generates version-specific GLSL source from them plus a caller-supplied body.
//
// Declaration order is preserved in the generated source. Once Generate succeeds the
// builder is frozen and further declarations fail with ErrFrozen.
type Builder interface {
	// Stage returns the stage this builder generates source for.
	//
	// Returns:
	//   - Stage: StageVertex or StageFragment
	Stage() Stage

	// Generation returns the shading-language generation targeted by Generate.
	//
	// Returns:
	//   - Generation: GenerationCore or GenerationLegacy
	Generation() Generation

	// TwoD reports whether the builder was created in 2D mode. 2D builders declare the
	// ResolutionUniform and, on the vertex stage, rewrite the gl_Position assignment
	// into a pixel-to-clip conversion.
	//
	// Returns:
	//   - bool: true for 2D builders
	TwoD() bool

	// FragColorName returns the identifier the fragment body writes its color to.
	//
	// Returns:
	//   - string: the configured output identifier
	FragColorName() string

	// AddUniform declares a uniform. Sampler types that need a language extension under
	// the target generation record it for emission.
	//
	// Parameters:
	//   - typ: the uniform's type
	//   - name: the uniform identifier, unique among this stage's uniforms
	//
	// Returns:
	//   - error: ErrDuplicateVariable, ErrInvalidName or ErrFrozen
	AddUniform(typ VarType, name string) error

	// AddAttribute declares a per-vertex input. Only valid on the vertex stage.
	//
	// Parameters:
	//   - typ: the attribute's type (Float through Vec4)
	//   - name: the attribute identifier, unique among this stage's attributes
	//
	// Returns:
	//   - error: ErrAttributeStage, ErrDuplicateVariable, ErrInvalidName or ErrFrozen
	AddAttribute(typ VarType, name string) error

	// AddVarying declares a value interpolated from the vertex to the fragment stage.
	//
	// Parameters:
	//   - typ: the varying's type
	//   - name: the varying identifier, unique among this stage's varyings
	//
	// Returns:
	//   - error: ErrDuplicateVariable, ErrInvalidName or ErrFrozen
	AddVarying(typ VarType, name string) error

	// SetBody sets the function-body text, which must contain a main entry point.
	//
	// Parameters:
	//   - body: GLSL text following the declarations
	SetBody(body string)

	// Body returns the body as supplied, before any rewrite.
	//
	// Returns:
	//   - string: the body text
	Body() string

	// Uniforms returns the declared uniforms in declaration order.
	//
	// Returns:
	//   - []Variable: a copy of the uniform list
	Uniforms() []Variable

	// Attributes returns the declared attributes in declaration order.
	//
	// Returns:
	//   - []Variable: a copy of the attribute list
	Attributes() []Variable

	// Varyings returns the declared varyings in declaration order, including those
	// inherited through WithInterface.
	//
	// Returns:
	//   - []Variable: a copy of the varying list
	Varyings() []Variable

	// Extensions returns the language extensions the generated source enables.
	//
	// Returns:
	//   - []string: extension names in the order they were first needed
	Extensions() []string

	// Interface returns the stage interface this builder exports to its consumer.
	//
	// Returns:
	//   - StageInterface: the builder's varyings
	Interface() StageInterface

	// Generate emits the complete source: version header, extensions, precision
	// qualifier (core), uniforms, attributes, varyings, fragment output (core fragment)
	// and the rewritten body. The builder is frozen afterwards; calling Generate again
	// returns the same text.
	//
	// Returns:
	//   - string: the generated source
	//   - error: ErrMissingMain or ErrClipAssignment when the body cannot be rewritten
	Generate() (string, error)
}

var _ Builder = &builder{}

// NewBuilder creates a Builder for one stage with all options applied.
// The defaults target GenerationCore with DefaultFragColorName as the fragment output.
//
// Parameters:
//   - stage: the stage to generate source for
//   - options: functional options (WithTwoD, WithInterface, WithGeneration, ...)
//
// Returns:
//   - Builder: the new builder
func NewBuilder(stage Stage, options ...BuilderOption) Builder {
	b := &builder{
		stage:      stage,
		generation: GenerationCore,
		fragColor:  DefaultFragColorName,
		names: map[varKind]map[string]struct{}{
			kindUniform:   {},
			kindAttribute: {},
			kindVarying:   {},
		},
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *builder) Stage() Stage {
	return b.stage
}

func (b *builder) Generation() Generation {
	return b.generation
}

func (b *builder) TwoD() bool {
	return b.twoD
}

func (b *builder) FragColorName() string {
	return b.fragColor
}

func (b *builder) AddUniform(typ VarType, name string) error {
	if err := b.declare(kindUniform, name); err != nil {
		return err
	}
	b.uniforms = append(b.uniforms, Variable{Name: name, Type: typ})
	if ext := typ.extension(b.generation); ext != "" {
		b.addExtension(ext)
	}
	return nil
}

func (b *builder) AddAttribute(typ VarType, name string) error {
	if b.stage != StageVertex {
		return fmt.Errorf("%w: %s on %s stage", ErrAttributeStage, name, b.stage)
	}
	if err := b.declare(kindAttribute, name); err != nil {
		return err
	}
	b.attributes = append(b.attributes, Variable{Name: name, Type: typ})
	return nil
}

func (b *builder) AddVarying(typ VarType, name string) error {
	if err := b.declare(kindVarying, name); err != nil {
		return err
	}
	b.varyings = append(b.varyings, Variable{Name: name, Type: typ})
	return nil
}

func (b *builder) SetBody(body string) {
	b.body = body
}

func (b *builder) Body() string {
	return b.body
}

func (b *builder) Uniforms() []Variable {
	return append([]Variable(nil), b.uniforms...)
}

func (b *builder) Attributes() []Variable {
	return append([]Variable(nil), b.attributes...)
}

func (b *builder) Varyings() []Variable {
	return append([]Variable(nil), b.varyings...)
}

func (b *builder) Extensions() []string {
	return append([]string(nil), b.extensions...)
}

func (b *builder) Interface() StageInterface {
	return StageInterface{Varyings: b.Varyings()}
}

func (b *builder) Generate() (string, error) {
	if b.frozen {
		return b.generated, nil
	}
	body, err := b.rewriteBody()
	if err != nil {
		return "", fmt.Errorf("%s stage: %w", b.stage, err)
	}

	var sb strings.Builder
	sb.WriteString(b.generation.versionDirective())
	sb.WriteByte('\n')
	for _, ext := range b.extensions {
		fmt.Fprintf(&sb, "#extension %s : enable\n", ext)
	}
	if b.generation == GenerationCore {
		sb.WriteString("precision highp float;\n")
	}
	for _, u := range b.uniforms {
		fmt.Fprintf(&sb, "uniform %s %s;\n", u.Type, u.Name)
	}
	for _, a := range b.attributes {
		fmt.Fprintf(&sb, "%s %s %s;\n", b.attributeQualifier(), a.Type, a.Name)
	}
	for _, v := range b.varyings {
		fmt.Fprintf(&sb, "%s %s %s;\n", b.varyingQualifier(), v.Type, v.Name)
	}
	if b.generation == GenerationCore && b.stage == StageFragment {
		fmt.Fprintf(&sb, "out vec4 %s;\n", b.fragColor)
	}
	if b.twoD && b.stage == StageVertex {
		fmt.Fprintf(&sb, "vec2 %s;\n", Position2DVariable)
	}
	sb.WriteByte('\n')
	sb.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		sb.WriteByte('\n')
	}

	b.generated = sb.String()
	b.frozen = true
	return b.generated, nil
}

// declare reserves name in the namespace of the given kind.
func (b *builder) declare(kind varKind, name string) error {
	if b.frozen {
		return fmt.Errorf("%w: cannot declare %s %s", ErrFrozen, kind, name)
	}
	if !identPattern.MatchString(name) || strings.HasPrefix(name, "gl_") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if _, ok := b.names[kind][name]; ok {
		return fmt.Errorf("%w: %s %s on %s stage", ErrDuplicateVariable, kind, name, b.stage)
	}
	b.names[kind][name] = struct{}{}
	return nil
}

func (b *builder) addExtension(ext string) {
	for _, e := range b.extensions {
		if e == ext {
			return
		}
	}
	b.extensions = append(b.extensions, ext)
}

func (b *builder) attributeQualifier() string {
	if b.generation == GenerationLegacy {
		return "attribute"
	}
	return "in"
}

func (b *builder) varyingQualifier() string {
	switch {
	case b.generation == GenerationLegacy:
		return "varying"
	case b.stage == StageVertex:
		return "out"
	}
	return "in"
}

// rewriteBody applies the generation- and stage-specific textual rewrites.
func (b *builder) rewriteBody() (string, error) {
	body := b.body
	if !hasMain(body) {
		return "", ErrMissingMain
	}
	if b.stage == StageFragment {
		if b.generation == GenerationCore {
			body = normalizeTextureCalls(body)
		} else {
			body = replaceIdentifier(body, b.fragColor, LegacyFragColor)
		}
	}
	if b.twoD && b.stage == StageVertex {
		return rewriteTwoD(body)
	}
	return body, nil
}
