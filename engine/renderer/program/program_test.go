package program

import (
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl/gltest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spriteVertex = `void main() {
	vUV = uv;
	vColor = color;
	gl_Position = position;
}`

const spriteFragment = `void main() {
	fragColor = texture2D(tex, vUV) * vColor;
}`

const flatVertex = `void main() {
	gl_Position = vec4(position, 1.0);
}`

const flatFragment = `void main() {
	fragColor = tint;
}`

func newTestRenderer(options ...renderer.RendererBuilderOption) (*gltest.Recorder, renderer.Renderer) {
	rec := gltest.NewRecorder()
	options = append([]renderer.RendererBuilderOption{renderer.WithErrorChecks(true), renderer.WithViewport(800, 600)}, options...)
	return rec, renderer.NewRenderer(rec, options...)
}

func spriteOptions(extra ...ProgramBuilderOption) []ProgramBuilderOption {
	return append([]ProgramBuilderOption{
		WithKind(Kind2D{}),
		WithAttribute("position", 2),
		WithAttribute("uv", 2),
		WithAttribute("color", 4),
		WithVarying(shader.Vec2, "vUV"),
		WithVarying(shader.Vec4, "vColor"),
		WithFragmentUniform(shader.Sampler2D, "tex"),
		WithVertexBody(spriteVertex),
		WithFragmentBody(spriteFragment),
	}, extra...)
}

func flatOptions(extra ...ProgramBuilderOption) []ProgramBuilderOption {
	return append([]ProgramBuilderOption{
		WithAttribute("position", 3),
		WithFragmentUniform(shader.Vec4, "tint"),
		WithVertexBody(flatVertex),
		WithFragmentBody(flatFragment),
	}, extra...)
}

func TestNewProgramGeneratesAndLinks(t *testing.T) {
	rec, r := newTestRenderer()
	p, err := NewProgram(r, spriteOptions()...)
	require.NoError(t, err)

	vs := p.Source(shader.StageVertex)
	assert.Contains(t, vs, "#version 330 core\n")
	assert.Contains(t, vs, "uniform vec2 screenResolution;\n")
	assert.Contains(t, vs, "in vec2 position;\nin vec2 uv;\nin vec4 color;\n")
	assert.Contains(t, vs, "out vec2 vUV;\nout vec4 vColor;\n")
	assert.Contains(t, vs, "oxy_Position2D = position;")

	fs := p.Source(shader.StageFragment)
	assert.Contains(t, fs, "uniform sampler2D tex;\n")
	assert.Contains(t, fs, "in vec2 vUV;\nin vec4 vColor;\n")
	assert.Contains(t, fs, "out vec4 fragColor;\n")
	assert.Contains(t, fs, "texture(tex, vUV)")

	assert.Equal(t, 32, p.Stride())
	assert.Equal(t, 0, rec.LiveShaders())
	assert.Equal(t, 1, rec.LivePrograms())

	attrs := p.Attributes()
	require.Len(t, attrs, 3)
	assert.Equal(t, []int32{0, 1, 2}, []int32{attrs[0].Location, attrs[1].Location, attrs[2].Location})

	textures := p.Textures()
	require.Len(t, textures, 1)
	assert.Equal(t, TextureBinding{Name: "tex", Location: 1, Unit: 0}, textures[0])
	assert.Equal(t, []any{int32(1), int32(0)}, rec.Named("Uniform1i")[0].Args)
	assert.Equal(t, int32(0), p.UniformLocation(shader.ResolutionUniform))
}

func TestNewProgramLegacy(t *testing.T) {
	rec, r := newTestRenderer(renderer.WithGeneration(shader.GenerationLegacy))
	p, err := NewProgram(r, spriteOptions()...)
	require.NoError(t, err)

	vs := p.Source(shader.StageVertex)
	assert.Contains(t, vs, "#version 120\n")
	assert.Contains(t, vs, "attribute vec2 position;\n")
	assert.Contains(t, vs, "varying vec2 vUV;\n")

	fs := p.Source(shader.StageFragment)
	assert.Contains(t, fs, "gl_FragColor = texture2D(tex, vUV) * vColor;")
	assert.NotContains(t, fs, "precision")
	assert.Equal(t, fs, rec.Named("ShaderSource")[1].Args[1])
}

func TestBeginEndActivatesOnce(t *testing.T) {
	rec, r := newTestRenderer()
	p, err := NewProgram(r, flatOptions()...)
	require.NoError(t, err)
	rec.Reset()

	for i := 0; i < 2; i++ {
		p.Begin(false)
		p.RenderRange(0, 3)
		p.End()
	}
	assert.Equal(t, 1, rec.Count("UseProgram"))
	assert.Equal(t, 2, rec.Count("DrawArrays"))
	assert.Equal(t, []any{uint32(0), int32(3), uint32(gl.Float), false, int32(12), uintptr(0)}, rec.Named("VertexAttribPointer")[0].Args)
	assert.Equal(t, 2, rec.Count("EnableVertexAttribArray"))
	assert.Equal(t, 2, rec.Count("DisableVertexAttribArray"))
	assert.Equal(t, 2, r.Stats().DrawCalls)
}

func TestBeginReactivatesAfterOtherProgram(t *testing.T) {
	rec, r := newTestRenderer()
	a, err := NewProgram(r, flatOptions()...)
	require.NoError(t, err)
	b, err := NewProgram(r, flatOptions()...)
	require.NoError(t, err)
	rec.Reset()

	a.Begin(false)
	a.End()
	b.Begin(false)
	b.End()
	a.Begin(false)
	a.End()
	assert.Equal(t, 3, rec.Count("UseProgram"))
}

func TestImmediateRenderIssuesLocationZeroLast(t *testing.T) {
	rec, r := newTestRenderer()
	rec.AttribLocations = map[string]int32{"color": 0, "position": 1, "uv": 2}
	p, err := NewProgram(r, spriteOptions()...)
	require.NoError(t, err)
	rec.Reset()

	p.Begin(true)
	assert.Equal(t, []any{int32(0), float32(800), float32(600)}, rec.Named("Uniform2f")[0].Args)
	assert.Equal(t, "Begin", rec.Names()[len(rec.Calls)-1])
	assert.Equal(t, []any{uint32(gl.Triangles)}, rec.Named("Begin")[0].Args)

	rec.Reset()
	require.NoError(t, p.Render([]float32{10, 20, 0.5, 1, 1, 0, 0, 1}))
	assert.Equal(t, []gltest.Call{
		{Name: "VertexAttrib2f", Args: []any{uint32(1), float32(10), float32(20)}},
		{Name: "VertexAttrib2f", Args: []any{uint32(2), float32(0.5), float32(1)}},
		{Name: "VertexAttrib4f", Args: []any{uint32(0), float32(1), float32(0), float32(0), float32(1)}},
	}, rec.Calls)

	p.End()
	assert.Equal(t, 1, rec.Count("End"))
	assert.False(t, p.Drawing())
}

func TestRenderPartialVertexIssuesNothing(t *testing.T) {
	rec, r := newTestRenderer()
	p, err := NewProgram(r, spriteOptions()...)
	require.NoError(t, err)

	p.Begin(true)
	rec.Reset()
	err = p.Render(make([]float32, 12))
	assert.ErrorIs(t, err, ErrPartialVertex)
	assert.Empty(t, rec.Calls)

	require.NoError(t, p.Render(make([]float32, 16)))
	assert.Equal(t, 2, rec.Count("VertexAttrib4f"))
	p.End()
}

func TestDrawProtocolPanics(t *testing.T) {
	_, r := newTestRenderer()
	p, err := NewProgram(r, spriteOptions()...)
	require.NoError(t, err)

	assert.PanicsWithValue(t, ErrNotDrawing, func() { _ = p.Render(nil) })
	assert.PanicsWithValue(t, ErrNotDrawing, func() { p.RenderRange(0, 3) })
	assert.PanicsWithValue(t, ErrNotDrawing, func() { p.End() })

	p.Begin(false)
	assert.PanicsWithValue(t, ErrAlreadyDrawing, func() { p.Begin(true) })
	assert.PanicsWithValue(t, ErrModeMismatch, func() { _ = p.Render(make([]float32, 8)) })
	p.End()

	p.Begin(true)
	assert.PanicsWithValue(t, ErrModeMismatch, func() { p.RenderRange(0, 3) })
	p.End()

	p.Dispose()
	assert.PanicsWithValue(t, ErrDisposed, func() { p.Begin(true) })
	assert.PanicsWithValue(t, ErrDisposed, func() { p.SetFloat("x", 1) })
}

func TestDrawTimeGLErrorPanics(t *testing.T) {
	rec, r := newTestRenderer()
	p, err := NewProgram(r, flatOptions()...)
	require.NoError(t, err)

	p.Begin(false)
	rec.Errors = []uint32{gl.InvalidOperation}
	assert.PanicsWithError(t, "renderer: DrawArrays: GL_INVALID_OPERATION (0x0502)", func() { p.RenderRange(0, 3) })
}

func TestSetTextureMidImmediateSuspendsBatch(t *testing.T) {
	rec, r := newTestRenderer()
	p, err := NewProgram(r, spriteOptions()...)
	require.NoError(t, err)
	a, err := texture.NewWhite(r)
	require.NoError(t, err)
	b, err := texture.NewWhite(r)
	require.NoError(t, err)

	require.NoError(t, p.SetTexture("tex", a))
	p.Begin(true)
	assert.Equal(t, a.Handle(), r.BoundTexture(0))

	rec.Reset()
	require.NoError(t, p.SetTexture("tex", b))
	assert.Equal(t, []string{"End", "BindTexture", "Begin"}, rec.Names())
	assert.Equal(t, b.Handle(), r.BoundTexture(0))

	rec.Reset()
	require.NoError(t, p.SetTexture("tex", b))
	assert.Empty(t, rec.Calls)
	p.End()

	err = p.SetTexture("missing", a)
	assert.ErrorIs(t, err, ErrUnknownSampler)
}

func TestSetTextureBufferedBindsDirectly(t *testing.T) {
	rec, r := newTestRenderer()
	p, err := NewProgram(r, spriteOptions()...)
	require.NoError(t, err)
	a, err := texture.NewWhite(r)
	require.NoError(t, err)
	b, err := texture.NewWhite(r)
	require.NoError(t, err)
	require.NoError(t, p.SetTexture("tex", a))

	p.Begin(false)
	rec.Reset()
	require.NoError(t, p.SetTexture("tex", b))
	assert.Equal(t, []string{"BindTexture"}, rec.Names())
	p.End()
}

func TestSetUniformInactiveLocationIsIgnored(t *testing.T) {
	rec, r := newTestRenderer()
	rec.OptimizedOut["tint"] = true
	p, err := NewProgram(r, flatOptions()...)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), p.UniformLocation("tint"))

	rec.Reset()
	p.SetVec4("tint", 1, 1, 1, 1)
	require.NoError(t, p.SetUniform("tint", [4]float32{1, 0, 0, 1}))
	assert.Empty(t, rec.Calls)
}

func TestSetUniformDispatch(t *testing.T) {
	rec, r := newTestRenderer()
	p, err := NewProgram(r, flatOptions()...)
	require.NoError(t, err)
	rec.Reset()

	require.NoError(t, p.SetUniform("tint", []float32{1, 0.5, 0.25, 1}))
	assert.Equal(t, []any{int32(0), float32(1), float32(0.5), float32(0.25), float32(1)}, rec.Named("Uniform4f")[0].Args)

	require.NoError(t, p.SetUniform("scale", 2.0))
	require.NoError(t, p.SetUniform("enabled", true))
	assert.Equal(t, 1, rec.Count("Uniform1f"))
	assert.Equal(t, []any{int32(2), int32(1)}, rec.Named("Uniform1i")[0].Args)

	var m [16]float32
	m[0], m[15] = 1, 1
	require.NoError(t, p.SetUniform("model", m))
	assert.Equal(t, []any{int32(3), int32(1), false, m[:]}, rec.Named("UniformMatrix4fv")[0].Args)

	err = p.SetUniform("tint", "red")
	assert.ErrorIs(t, err, ErrUnsupportedValue)
	err = p.SetUniform("tint", []float32{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestSetUniformMidImmediateSuspendsBatch(t *testing.T) {
	rec, r := newTestRenderer()
	p, err := NewProgram(r, flatOptions()...)
	require.NoError(t, err)

	p.Begin(true)
	rec.Reset()
	p.SetVec4("tint", 0, 0, 0, 1)
	assert.Equal(t, []string{"End", "Uniform4f", "Begin"}, rec.Names())
	p.End()
}

func TestCompileErrorFreesHandles(t *testing.T) {
	rec, r := newTestRenderer()
	rec.FailCompile = gl.FragmentShader
	rec.CompileLog = "0:3(2): error: `tint' undeclared\n"

	p, err := NewProgram(r, flatOptions()...)
	assert.Nil(t, p)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, shader.StageFragment, compileErr.Stage)
	assert.Contains(t, compileErr.Error(), "undeclared")
	assert.Contains(t, compileErr.Source, "out vec4 fragColor;")
	assert.Zero(t, rec.LiveShaders())
	assert.Zero(t, rec.Count("CreateProgram"))
}

func TestLinkErrorFreesHandles(t *testing.T) {
	rec, r := newTestRenderer()
	rec.FailLink = true
	rec.LinkLog = "error: vertex shader output vUV not read"

	_, err := NewProgram(r, spriteOptions()...)
	var linkErr *LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, "program: link failed: error: vertex shader output vUV not read", linkErr.Error())
	assert.Zero(t, rec.LiveShaders())
	assert.Zero(t, rec.LivePrograms())
}

func TestDeclarationErrorsAbortBeforeGL(t *testing.T) {
	rec, r := newTestRenderer()
	rec.Reset()

	_, err := NewProgram(r, WithKind(Kind2D{}), WithAttribute("position", 2),
		WithVertexBody("void main() {}"), WithFragmentBody("void main() { fragColor = vec4(1.0); }"))
	assert.ErrorIs(t, err, shader.ErrClipAssignment)

	_, err = NewProgram(r, append(flatOptions(), WithFragmentUniform(shader.Vec4, "tint"))...)
	assert.ErrorIs(t, err, shader.ErrDuplicateVariable)

	_, err = NewProgram(r, append(flatOptions(), WithAttribute("position", 3))...)
	assert.ErrorIs(t, err, shader.ErrDuplicateVariable)

	_, err = NewProgram(r, append(flatOptions(), WithAttribute("color", 4, WithSourceOffset(5)))...)
	assert.ErrorIs(t, err, ErrSourceOffset)

	assert.Zero(t, rec.Count("CreateShader"))
}

func TestSamplerExhaustionAbortsCreation(t *testing.T) {
	rec, r := newTestRenderer()
	options := flatOptions()
	for i := 0; i <= renderer.MaxTextureUnits; i++ {
		options = append(options, WithFragmentUniform(shader.Sampler2D, fmt.Sprintf("tex%d", i)))
	}

	_, err := NewProgram(r, options...)
	assert.ErrorIs(t, err, ErrTextureUnitsExhausted)
	assert.Zero(t, rec.LivePrograms())
}

type fixedCamera struct{}

func (fixedCamera) ProjectionMatrix() [16]float32 {
	return [16]float32{0: 2, 5: 2, 10: -1, 11: -1}
}

func (fixedCamera) ViewMatrix() [16]float32 {
	return [16]float32{0: 1, 5: 1, 10: 1, 14: -5, 15: 1}
}

func (fixedCamera) Position() (x, y, z float32) {
	return 0, 0, 5
}

func TestCameraKindRefreshesOnBegin(t *testing.T) {
	rec, r := newTestRenderer()
	p, err := NewProgram(r,
		WithKind(CameraKind{Camera: fixedCamera{}}),
		WithAttribute("position", 3),
		WithVertexBody("void main() {\n\tgl_Position = projection * view * vec4(position, 1.0);\n}"),
		WithFragmentBody("void main() {\n\tfragColor = vec4(1.0);\n}"),
	)
	require.NoError(t, err)
	vs := p.Source(shader.StageVertex)
	assert.Contains(t, vs, "uniform mat4 projection;\nuniform mat4 view;\nuniform vec3 cameraPosition;\n")

	rec.Reset()
	p.Begin(false)
	p.End()
	p.Begin(false)
	p.End()
	mats := rec.Named("UniformMatrix4fv")
	require.Len(t, mats, 4)
	proj := fixedCamera{}.ProjectionMatrix()
	assert.Equal(t, proj[:], mats[0].Args[3])
	assert.Equal(t, []any{int32(2), float32(0), float32(0), float32(5)}, rec.Named("Uniform3f")[0].Args)
}

func TestDisposeEndsDrawAndDeletes(t *testing.T) {
	rec, r := newTestRenderer()
	p, err := NewProgram(r, flatOptions()...)
	require.NoError(t, err)
	h := p.Handle()

	p.Begin(true)
	p.Dispose()
	p.Dispose()
	assert.True(t, p.Disposed())
	assert.False(t, p.Drawing())
	assert.Equal(t, 1, rec.Count("End"))
	assert.Equal(t, []any{h}, rec.Named("DeleteProgram")[0].Args)
	assert.Zero(t, r.ActiveProgram())
	assert.Zero(t, rec.LivePrograms())
}

func TestUniformWhileOtherProgramDrawsIsDeferred(t *testing.T) {
	rec, r := newTestRenderer()
	a, err := NewProgram(r, flatOptions()...)
	require.NoError(t, err)
	b, err := NewProgram(r, flatOptions()...)
	require.NoError(t, err)
	rec.Reset()

	a.Begin(true)
	assert.Equal(t, a.Handle(), r.DrawingProgram())
	rec.Reset()
	b.SetVec4("tint", 1, 0, 0, 1)
	assert.Empty(t, rec.Calls)
	assert.Equal(t, a.Handle(), r.ActiveProgram())

	require.NoError(t, a.Render([]float32{0, 0, 0}))
	assert.Equal(t, []string{"VertexAttrib3f"}, rec.Names())
	assert.PanicsWithValue(t, ErrProgramBusy, func() { b.Begin(false) })
	a.End()
	assert.Zero(t, r.DrawingProgram())

	rec.Reset()
	b.Begin(false)
	names := rec.Names()
	require.GreaterOrEqual(t, len(names), 2)
	assert.Equal(t, []string{"UseProgram", "Uniform4f"}, names[:2])
	assert.Equal(t, b.Handle(), r.ActiveProgram())
	b.End()

	rec.Reset()
	b.Begin(false)
	assert.Zero(t, rec.Count("Uniform4f"))
	b.End()
}

func TestBeginGLErrorLeavesProgramIdle(t *testing.T) {
	for _, immediate := range []bool{true, false} {
		t.Run(fmt.Sprintf("immediate=%t", immediate), func(t *testing.T) {
			rec, r := newTestRenderer()
			p, err := NewProgram(r, flatOptions()...)
			require.NoError(t, err)
			rec.Reset()

			rec.Errors = []uint32{gl.InvalidOperation}
			assert.PanicsWithError(t, "renderer: Begin: GL_INVALID_OPERATION (0x0502)", func() { p.Begin(immediate) })
			assert.False(t, p.Drawing())
			assert.Zero(t, r.DrawingProgram())
			assert.Zero(t, rec.Count("Begin"))
			assert.Equal(t, rec.Count("EnableVertexAttribArray"), rec.Count("DisableVertexAttribArray"))

			assert.NotPanics(t, func() { p.Begin(immediate) })
			assert.True(t, p.Drawing())
			p.End()
		})
	}
}

func TestSetTextureNilMidDrawUnbindsUnit(t *testing.T) {
	rec, r := newTestRenderer()
	p, err := NewProgram(r, spriteOptions()...)
	require.NoError(t, err)
	tex, err := texture.NewWhite(r)
	require.NoError(t, err)
	require.NoError(t, p.SetTexture("tex", tex))

	p.Begin(true)
	assert.Equal(t, tex.Handle(), r.BoundTexture(0))
	rec.Reset()
	require.NoError(t, p.SetTexture("tex", nil))
	assert.Equal(t, []string{"End", "BindTexture", "Begin"}, rec.Names())
	assert.Equal(t, []any{uint32(gl.Texture2D), uint32(0)}, rec.Named("BindTexture")[0].Args)
	assert.Zero(t, r.BoundTexture(0))
	p.End()

	rec.Reset()
	p.Begin(false)
	assert.Zero(t, rec.Count("BindTexture"))
	p.End()
}
