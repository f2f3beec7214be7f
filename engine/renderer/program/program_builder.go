package program

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// ProgramBuilderOption is a functional option applied to a program during construction via NewProgram.
type ProgramBuilderOption func(*program)

type declaration struct {
	stage shader.Stage
	typ   shader.VarType
	name  string
}

type attributeDeclaration struct {
	name       string
	components int
	options    []AttributeOption
}

// WithKind sets the program kind. The default is BaseKind.
//
// Parameters:
//   - kind: the kind whose hooks specialize the program
//
// Returns:
//   - ProgramBuilderOption: a function that applies the kind option to a program
func WithKind(kind Kind) ProgramBuilderOption {
	return func(p *program) {
		p.kind = kind
	}
}

// WithVertexBody sets the vertex stage body. It must contain a main entry point.
//
// Parameters:
//   - body: the vertex shader body
//
// Returns:
//   - ProgramBuilderOption: a function that applies the body option to a program
func WithVertexBody(body string) ProgramBuilderOption {
	return func(p *program) {
		p.vertexBody = body
	}
}

// WithFragmentBody sets the fragment stage body. It must contain a main entry point and
// write the fragment color through the configured output name.
//
// Parameters:
//   - body: the fragment shader body
//
// Returns:
//   - ProgramBuilderOption: a function that applies the body option to a program
func WithFragmentBody(body string) ProgramBuilderOption {
	return func(p *program) {
		p.fragmentBody = body
	}
}

// WithVertexUniform declares a uniform on the vertex stage.
//
// Parameters:
//   - typ: the uniform type
//   - name: the uniform identifier
//
// Returns:
//   - ProgramBuilderOption: a function that applies the uniform option to a program
func WithVertexUniform(typ shader.VarType, name string) ProgramBuilderOption {
	return func(p *program) {
		p.uniformDecls = append(p.uniformDecls, declaration{stage: shader.StageVertex, typ: typ, name: name})
	}
}

// WithFragmentUniform declares a uniform on the fragment stage. Sampler uniforms are
// assigned a texture unit when the program is created.
//
// Parameters:
//   - typ: the uniform type
//   - name: the uniform identifier
//
// Returns:
//   - ProgramBuilderOption: a function that applies the uniform option to a program
func WithFragmentUniform(typ shader.VarType, name string) ProgramBuilderOption {
	return func(p *program) {
		p.uniformDecls = append(p.uniformDecls, declaration{stage: shader.StageFragment, typ: typ, name: name})
	}
}

// WithAttribute declares a vertex attribute of 1 to 4 float components. Attributes are
// laid out in the order they are declared.
//
// Parameters:
//   - name: the attribute identifier
//   - components: values per vertex
//   - options: layout options (WithDivisor, WithSourceOffset, WithElementType, WithNormalize)
//
// Returns:
//   - ProgramBuilderOption: a function that applies the attribute option to a program
func WithAttribute(name string, components int, options ...AttributeOption) ProgramBuilderOption {
	return func(p *program) {
		p.attributeDecls = append(p.attributeDecls, attributeDeclaration{name: name, components: components, options: options})
	}
}

// WithVarying declares a varying written by the vertex stage and read by the fragment stage.
//
// Parameters:
//   - typ: the varying type
//   - name: the varying identifier
//
// Returns:
//   - ProgramBuilderOption: a function that applies the varying option to a program
func WithVarying(typ shader.VarType, name string) ProgramBuilderOption {
	return func(p *program) {
		p.varyingDecls = append(p.varyingDecls, declaration{stage: shader.StageVertex, typ: typ, name: name})
	}
}

// WithTopology sets the primitive topology used by Begin and RenderRange. The default
// is gl.Triangles.
//
// Parameters:
//   - topology: a GL primitive constant
//
// Returns:
//   - ProgramBuilderOption: a function that applies the topology option to a program
func WithTopology(topology uint32) ProgramBuilderOption {
	return func(p *program) {
		p.topology = topology
	}
}

// WithFragColorName overrides the fragment output identifier, which defaults to the
// renderer's.
//
// Parameters:
//   - name: the identifier the fragment body writes its color to
//
// Returns:
//   - ProgramBuilderOption: a function that applies the output name option to a program
func WithFragColorName(name string) ProgramBuilderOption {
	return func(p *program) {
		p.fragColorName = name
	}
}
