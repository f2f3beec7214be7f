package program

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// Kind specializes a program. Its construction hooks run once, before source
// generation; OnCreate runs once after linking; OnBegin and OnEnd bracket every draw.
type Kind interface {
	// TwoD reports whether the vertex stage is built in 2D mode, drawing in pixel space.
	//
	// Returns:
	//   - bool: true for 2D programs
	TwoD() bool

	// ConstructVertexShader lets the kind declare vertex-stage variables.
	//
	// Parameters:
	//   - b: the vertex stage builder
	//
	// Returns:
	//   - error: a declaration error, which aborts program creation
	ConstructVertexShader(b shader.Builder) error

	// ConstructFragmentShader lets the kind declare fragment-stage variables.
	//
	// Parameters:
	//   - b: the fragment stage builder
	//
	// Returns:
	//   - error: a declaration error, which aborts program creation
	ConstructFragmentShader(b shader.Builder) error

	// OnCreate runs once the program is linked and its tables are populated.
	//
	// Parameters:
	//   - p: the linked program
	//
	// Returns:
	//   - error: an error, which aborts program creation
	OnCreate(p Program) error

	// OnBegin runs after the program is activated by Begin, before any vertex is issued.
	//
	// Parameters:
	//   - p: the program being drawn
	OnBegin(p Program)

	// OnEnd runs when End tears down the draw.
	//
	// Parameters:
	//   - p: the program being drawn
	OnEnd(p Program)
}

// BaseKind implements every Kind hook as a no-op. Embed it to override only the hooks
// a kind needs.
type BaseKind struct{}

var _ Kind = BaseKind{}

func (BaseKind) TwoD() bool                                   { return false }
func (BaseKind) ConstructVertexShader(shader.Builder) error   { return nil }
func (BaseKind) ConstructFragmentShader(shader.Builder) error { return nil }
func (BaseKind) OnCreate(Program) error                       { return nil }
func (BaseKind) OnBegin(Program)                              {}
func (BaseKind) OnEnd(Program)                                {}

// Kind2D draws in pixel coordinates: the vertex body assigns gl_Position a vec2 in
// pixels and the program maps it to clip space using screenResolution, refreshed from
// the renderer viewport on every Begin.
type Kind2D struct {
	BaseKind
}

var _ Kind = Kind2D{}

func (Kind2D) TwoD() bool {
	return true
}

func (Kind2D) OnBegin(p Program) {
	w, h := p.Renderer().Viewport()
	p.SetVec2(shader.ResolutionUniform, float32(w), float32(h))
}

// Uniform names declared by CameraKind on the vertex stage.
const (
	ProjectionUniform     = "projection"
	ViewUniform           = "view"
	CameraPositionUniform = "cameraPosition"
)

// CameraSource supplies the matrices and eye position a CameraKind uploads.
// camera.Camera satisfies it.
type CameraSource interface {
	ProjectionMatrix() [16]float32
	ViewMatrix() [16]float32
	Position() (x, y, z float32)
}

// CameraKind is a 3D program kind. It declares the projection and view matrices and
// the camera position on the vertex stage and uploads them from Camera on every Begin.
type CameraKind struct {
	BaseKind
	Camera CameraSource
}

var _ Kind = CameraKind{}

func (k CameraKind) ConstructVertexShader(b shader.Builder) error {
	if err := b.AddUniform(shader.Mat4, ProjectionUniform); err != nil {
		return err
	}
	if err := b.AddUniform(shader.Mat4, ViewUniform); err != nil {
		return err
	}
	return b.AddUniform(shader.Vec3, CameraPositionUniform)
}

func (k CameraKind) OnBegin(p Program) {
	if k.Camera == nil {
		return
	}
	p.SetMat4(ProjectionUniform, k.Camera.ProjectionMatrix())
	p.SetMat4(ViewUniform, k.Camera.ViewMatrix())
	x, y, z := k.Camera.Position()
	p.SetVec3(CameraPositionUniform, x, y, z)
}
