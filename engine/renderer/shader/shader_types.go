package shader

import (
	"errors"
	"fmt"
	"strings"
)

// Stage identifies which pipeline stage a Builder generates source for.
type Stage int

const (
	// StageVertex is the vertex stage; it is the only stage that may declare attributes.
	StageVertex Stage = iota

	// StageFragment is the fragment stage, consuming the varyings of the vertex stage.
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Generation selects the shading-language generation the generated source targets.
type Generation int

const (
	// GenerationCore targets GLSL 3.30 core: in/out qualifiers, a declared fragment
	// output and the unified texture() sampling call.
	GenerationCore Generation = iota

	// GenerationLegacy targets GLSL 1.20: attribute/varying qualifiers and gl_FragColor.
	GenerationLegacy
)

func (g Generation) String() string {
	switch g {
	case GenerationCore:
		return "core"
	case GenerationLegacy:
		return "legacy"
	}
	return fmt.Sprintf("Generation(%d)", int(g))
}

// versionDirective returns the #version line for the generation.
func (g Generation) versionDirective() string {
	if g == GenerationLegacy {
		return "#version 120"
	}
	return "#version 330 core"
}

// ParseGeneration parses "core" or "legacy" (case-insensitive).
//
// Parameters:
//   - s: the generation name
//
// Returns:
//   - Generation: the parsed generation
//   - error: an error if s names no known generation
func ParseGeneration(s string) (Generation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "core":
		return GenerationCore, nil
	case "legacy":
		return GenerationLegacy, nil
	}
	return GenerationCore, fmt.Errorf("shader: unknown generation %q", s)
}

// VarType is the semantic type of a declared shader variable.
type VarType int

const (
	Float VarType = iota
	Vec2
	Vec3
	Vec4
	Mat4
	Sampler2D
	SamplerCube
	Sampler2DArray
)

// String returns the GLSL type keyword.
func (t VarType) String() string {
	switch t {
	case Float:
		return "float"
	case Vec2:
		return "vec2"
	case Vec3:
		return "vec3"
	case Vec4:
		return "vec4"
	case Mat4:
		return "mat4"
	case Sampler2D:
		return "sampler2D"
	case SamplerCube:
		return "samplerCube"
	case Sampler2DArray:
		return "sampler2DArray"
	}
	return fmt.Sprintf("VarType(%d)", int(t))
}

// IsSampler reports whether the type is bound through a texture unit.
func (t VarType) IsSampler() bool {
	return t == Sampler2D || t == SamplerCube || t == Sampler2DArray
}

// Components returns the number of float components of a non-sampler type.
func (t VarType) Components() int {
	switch t {
	case Float:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	case Mat4:
		return 16
	}
	return 0
}

// VectorType returns the float type holding the given number of components (1-4).
//
// Parameters:
//   - components: the component count
//
// Returns:
//   - VarType: Float, Vec2, Vec3 or Vec4
//   - bool: false if components is outside 1-4
func VectorType(components int) (VarType, bool) {
	switch components {
	case 1:
		return Float, true
	case 2:
		return Vec2, true
	case 3:
		return Vec3, true
	case 4:
		return Vec4, true
	}
	return Float, false
}

// extension returns the GLSL extension the type needs under the generation, if any.
func (t VarType) extension(g Generation) string {
	if t == Sampler2DArray && g == GenerationLegacy {
		return "GL_EXT_texture_array"
	}
	return ""
}

// Variable is a declared uniform, attribute or varying.
type Variable struct {
	Name string
	Type VarType
}

// StageInterface is what a producing stage exports to the stage that consumes it.
// Passing a vertex builder's Interface to the fragment builder re-declares its varyings
// there without the caller repeating them.
type StageInterface struct {
	Varyings []Variable
}

// Names used by the generated source.
const (
	// ResolutionUniform is the vec2 uniform declared by 2D builders, in pixels.
	ResolutionUniform = "screenResolution"

	// Position2DVariable receives the pixel-space position written by a 2D vertex body.
	Position2DVariable = "oxy_Position2D"

	// ClipPositionVariable is the clip-space output of the vertex stage.
	ClipPositionVariable = "gl_Position"

	// DefaultFragColorName is the fragment output identifier used when none is configured.
	DefaultFragColorName = "fragColor"

	// LegacyFragColor is the built-in fragment output of the legacy generation.
	LegacyFragColor = "gl_FragColor"
)

var (
	// ErrDuplicateVariable is returned when an identifier is declared twice for the same
	// stage and kind (uniform, attribute or varying).
	ErrDuplicateVariable = errors.New("shader: duplicate variable")

	// ErrAttributeStage is returned when an attribute is declared on a non-vertex stage.
	ErrAttributeStage = errors.New("shader: attributes can only be declared on the vertex stage")

	// ErrClipAssignment is returned when a 2D vertex body does not contain exactly one
	// assignment to gl_Position.
	ErrClipAssignment = errors.New("shader: 2D vertex body needs exactly one gl_Position assignment")

	// ErrMissingMain is returned when the body has no main entry point.
	ErrMissingMain = errors.New("shader: body has no main entry point")

	// ErrFrozen is returned when declaring on a builder whose source was already generated.
	ErrFrozen = errors.New("shader: builder is frozen after Generate")

	// ErrInvalidName is returned for identifiers that are not valid GLSL identifiers.
	ErrInvalidName = errors.New("shader: invalid identifier")
)
