package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl/gltest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectGeneration(t *testing.T) {
	tests := map[string]shader.Generation{
		"2.1 Mesa 23.0":               shader.GenerationLegacy,
		"3.3.0 Core Profile":          shader.GenerationCore,
		"4.6.0 NVIDIA 535.54":         shader.GenerationCore,
		"OpenGL ES 2.0 (ANGLE 2.1.0)": shader.GenerationLegacy,
		"OpenGL ES 3.0 Mesa":          shader.GenerationCore,
		"":                            shader.GenerationCore,
		"garbage":                     shader.GenerationCore,
	}
	for version, want := range tests {
		assert.Equal(t, want, DetectGeneration(version), version)
	}
}

func TestNewRendererCoreBindsVertexArray(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRenderer(rec, WithViewport(640, 480))

	assert.Equal(t, shader.GenerationCore, r.Generation())
	assert.Equal(t, 1, rec.Count("GenVertexArrays"))
	assert.Equal(t, 1, rec.Count("BindVertexArray"))
	assert.Equal(t, []any{int32(0), int32(0), int32(640), int32(480)}, rec.Named("Viewport")[0].Args)
	assert.Equal(t, "oxy-gl test recorder", r.Vendor())

	r.Dispose()
	assert.Equal(t, 1, rec.Count("DeleteVertexArrays"))
}

func TestNewRendererLegacy(t *testing.T) {
	rec := gltest.NewRecorder()
	rec.Strings[gl.Version] = "2.1 Mesa"
	r := NewRenderer(rec)
	assert.Equal(t, shader.GenerationLegacy, r.Generation())
	assert.Zero(t, rec.Count("GenVertexArrays"))

	forced := NewRenderer(rec, WithGeneration(shader.GenerationCore))
	assert.Equal(t, shader.GenerationCore, forced.Generation())
}

func TestUseProgramDeduplicates(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRenderer(rec)

	assert.True(t, r.UseProgram(3))
	assert.False(t, r.UseProgram(3))
	assert.True(t, r.UseProgram(4))
	assert.Equal(t, uint32(4), r.ActiveProgram())
	assert.Equal(t, 2, rec.Count("UseProgram"))
	assert.Equal(t, 2, r.Stats().ProgramSwitches)

	r.ForgetProgram(3)
	assert.Equal(t, uint32(4), r.ActiveProgram())
	r.ForgetProgram(4)
	assert.Zero(t, r.ActiveProgram())
	assert.True(t, r.UseProgram(4))

	r.SetDrawingProgram(4)
	assert.Equal(t, uint32(4), r.DrawingProgram())
	r.ForgetProgram(4)
	assert.Zero(t, r.DrawingProgram())
}

func TestBindTextureTracksUnits(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRenderer(rec)
	rec.Reset()

	assert.True(t, r.BindTexture(0, gl.Texture2D, 7))
	assert.False(t, r.BindTexture(0, gl.Texture2D, 7))
	assert.True(t, r.BindTexture(2, gl.Texture2D, 7))
	assert.True(t, r.BindTexture(2, gl.Texture2D, 8))

	// unit 0 is active by default, so the first bind needs no ActiveTexture
	assert.Equal(t, []string{"BindTexture", "ActiveTexture", "BindTexture", "BindTexture"}, rec.Names())
	assert.Equal(t, []any{uint32(gl.Texture0 + 2)}, rec.Named("ActiveTexture")[0].Args)
	assert.Equal(t, uint32(8), r.BoundTexture(2))
	assert.Equal(t, 3, r.Stats().TextureBinds)

	r.ForgetTexture(7)
	assert.Zero(t, r.BoundTexture(0))
	assert.Equal(t, uint32(8), r.BoundTexture(2))

	assert.Panics(t, func() { r.BindTexture(MaxTextureUnits, gl.Texture2D, 1) })
}

func TestCheckAnnotatesOperation(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRenderer(rec, WithErrorChecks(true))

	require.NoError(t, r.Check("noop"))

	rec.Errors = []uint32{gl.InvalidOperation, gl.InvalidValue}
	err := r.Check("UseProgram")
	var glErr *GLError
	require.ErrorAs(t, err, &glErr)
	assert.Equal(t, "UseProgram", glErr.Op)
	assert.Equal(t, uint32(gl.InvalidOperation), glErr.Code)
	assert.Contains(t, err.Error(), "GL_INVALID_OPERATION")
	assert.Empty(t, rec.Errors, "older flags are drained")

	rec.Errors = []uint32{gl.OutOfMemory}
	assert.Panics(t, func() { r.MustCheck("BufferData") })
}

func TestCheckDisabledSkipsGL(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRenderer(rec, WithErrorChecks(false))
	rec.Errors = []uint32{gl.InvalidEnum}
	rec.Reset()

	assert.NoError(t, r.Check("anything"))
	assert.NotPanics(t, func() { r.MustCheck("anything") })
	assert.Zero(t, rec.Count("GetError"))
	assert.False(t, r.ErrorChecks())
}

func TestWithConfig(t *testing.T) {
	off := false
	c := config.Default()
	c.Generation = "legacy"
	c.CheckErrors = &off
	c.FragColorName = "outColor"

	rec := gltest.NewRecorder()
	r := NewRenderer(rec, WithConfig(c))
	assert.Equal(t, shader.GenerationLegacy, r.Generation())
	assert.False(t, r.ErrorChecks())
	assert.Equal(t, "outColor", r.FragColorName())
	w, h := r.Viewport()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)

	c.Generation = "vulkan"
	r = NewRenderer(rec, WithConfig(c))
	assert.Equal(t, shader.GenerationCore, r.Generation())
}

func TestStats(t *testing.T) {
	r := NewRenderer(gltest.NewRecorder())
	r.CountDraw(6)
	r.CountDraw(4)
	assert.Equal(t, Stats{DrawCalls: 2, Vertices: 10}, r.Stats())
	r.ResetStats()
	assert.Equal(t, Stats{}, r.Stats())
}
