package renderer

import (
	"log"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// MaxTextureUnits is the number of texture units tracked per renderer.
const MaxTextureUnits = 16

// Stats counts the GL work issued through a Renderer since the last ResetStats.
type Stats struct {
	// ProgramSwitches counts UseProgram calls actually issued.
	ProgramSwitches int
	// TextureBinds counts BindTexture calls actually issued.
	TextureBinds int
	// DrawCalls counts DrawArrays calls and immediate-mode batches.
	DrawCalls int
	// Vertices counts submitted vertices.
	Vertices int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	gl gl.OpenGL

	generation    shader.Generation
	fragColorName string
	checkErrors   bool

	width, height int
	vendor        string
	version       string
	vertexArray   uint32

	activeProgram  uint32
	drawingProgram uint32
	activeUnit     int
	boundTextures [MaxTextureUnits]uint32
	stats         Stats

	// pending* collect builder options that must be resolved against the context.
	pendingGeneration *shader.Generation
}

// Renderer is the render-context object. It owns the GL bindings for one context and
// the state shared by every program drawing on it: the active program, the texture
// bound on each unit, error-check configuration and draw statistics.
//
// The trackers exist to skip redundant UseProgram and BindTexture calls; they are only
// correct if every program and texture change goes through the Renderer.
type Renderer interface {
	// GL returns the underlying GL bindings.
	//
	// Returns:
	//   - gl.OpenGL: the bindings this renderer issues calls through
	GL() gl.OpenGL

	// Generation returns the shading-language generation programs are generated for.
	//
	// Returns:
	//   - shader.Generation: GenerationCore or GenerationLegacy
	Generation() shader.Generation

	// FragColorName returns the fragment output identifier used by generated shaders.
	//
	// Returns:
	//   - string: the fragment output identifier
	FragColorName() string

	// UseProgram makes handle the active program unless it already is.
	//
	// Parameters:
	//   - handle: the program handle (0 unbinds)
	//
	// Returns:
	//   - bool: true if a UseProgram call was issued
	UseProgram(handle uint32) bool

	// ActiveProgram returns the handle of the active program, or 0.
	//
	// Returns:
	//   - uint32: the active program handle
	ActiveProgram() uint32

	// SetDrawingProgram records the program between Begin and End, or 0 once it ends.
	// While it is set no other program may be activated.
	//
	// Parameters:
	//   - handle: the drawing program handle, or 0
	SetDrawingProgram(handle uint32)

	// DrawingProgram returns the handle of the program between Begin and End, or 0.
	//
	// Returns:
	//   - uint32: the drawing program handle
	DrawingProgram() uint32

	// ForgetProgram clears the active-program tracker if it refers to handle.
	// Called when a program is deleted so a recycled handle is activated again.
	//
	// Parameters:
	//   - handle: the deleted program handle
	ForgetProgram(handle uint32)

	// BindTexture binds a texture on a unit unless that unit already holds it.
	//
	// Parameters:
	//   - unit: the texture unit (0 to MaxTextureUnits-1)
	//   - target: the texture target (gl.Texture2D, gl.TextureCubeMap, ...)
	//   - handle: the texture handle
	//
	// Returns:
	//   - bool: true if a BindTexture call was issued
	BindTexture(unit int, target, handle uint32) bool

	// BoundTexture returns the texture handle bound on a unit, or 0.
	//
	// Parameters:
	//   - unit: the texture unit
	//
	// Returns:
	//   - uint32: the bound texture handle
	BoundTexture(unit int) uint32

	// ForgetTexture clears every unit tracker holding handle.
	//
	// Parameters:
	//   - handle: the deleted texture handle
	ForgetTexture(handle uint32)

	// ErrorChecks reports whether Check queries GL for errors.
	//
	// Returns:
	//   - bool: true when post-operation checks are enabled
	ErrorChecks() bool

	// Check returns the pending GL error annotated with op, draining the error queue.
	// It returns nil without touching GL when error checks are disabled.
	//
	// Parameters:
	//   - op: the name of the operation just performed
	//
	// Returns:
	//   - error: a *GLError, or nil
	Check(op string) error

	// MustCheck is Check for draw paths: a pending GL error panics.
	//
	// Parameters:
	//   - op: the name of the operation just performed
	MustCheck(op string)

	// SetViewport sets the GL viewport and the size reported to 2D programs.
	//
	// Parameters:
	//   - width: the framebuffer width in pixels
	//   - height: the framebuffer height in pixels
	SetViewport(width, height int)

	// Viewport returns the size set by SetViewport.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Viewport() (width, height int)

	// Vendor returns the GL vendor string queried at creation.
	//
	// Returns:
	//   - string: the vendor string
	Vendor() string

	// Version returns the GL version string queried at creation.
	//
	// Returns:
	//   - string: the version string
	Version() string

	// CountDraw records a draw submission in the statistics.
	//
	// Parameters:
	//   - vertices: the number of vertices submitted
	CountDraw(vertices int)

	// Stats returns the statistics gathered since the last ResetStats.
	//
	// Returns:
	//   - Stats: a copy of the counters
	Stats() Stats

	// ResetStats zeroes the statistics.
	ResetStats()

	// Dispose releases the renderer's own GL objects and clears its trackers.
	Dispose()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the GL context that is current on the calling
// thread. The generation defaults to the one detected from the context version. Core
// contexts get a default vertex array object bound, since attribute pointers need one.
//
// Parameters:
//   - g: the GL bindings for the current context
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the new renderer
func NewRenderer(g gl.OpenGL, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		gl:            g,
		fragColorName: shader.DefaultFragColorName,
		checkErrors:   defaultErrorChecks,
	}
	for _, opt := range options {
		opt(r)
	}

	r.vendor = g.GetString(gl.Vendor)
	r.version = g.GetString(gl.Version)
	if r.pendingGeneration != nil {
		r.generation = *r.pendingGeneration
	} else {
		r.generation = DetectGeneration(r.version)
	}

	if r.generation == shader.GenerationCore {
		g.GenVertexArrays(1, &r.vertexArray)
		g.BindVertexArray(r.vertexArray)
	}
	if r.width > 0 && r.height > 0 {
		g.Viewport(0, 0, int32(r.width), int32(r.height))
	}

	log.Printf("[Renderer] %s | %s | generation: %s | error checks: %t", r.vendor, r.version, r.generation, r.checkErrors)
	return r
}

// DetectGeneration picks the shading-language generation for a GL version string such
// as "3.3.0 Core Profile" or "OpenGL ES 2.0". Contexts older than 3.0 get the legacy
// generation; anything unparseable is assumed to be core.
//
// Parameters:
//   - version: the GL_VERSION string
//
// Returns:
//   - shader.Generation: the generation to generate for
func DetectGeneration(version string) shader.Generation {
	v := strings.TrimSpace(version)
	v = strings.TrimPrefix(v, "OpenGL ES ")
	major, _, ok := strings.Cut(v, ".")
	if !ok {
		return shader.GenerationCore
	}
	n, err := strconv.Atoi(major)
	if err != nil {
		return shader.GenerationCore
	}
	if n < 3 {
		return shader.GenerationLegacy
	}
	return shader.GenerationCore
}

func (r *renderer) GL() gl.OpenGL {
	return r.gl
}

func (r *renderer) Generation() shader.Generation {
	return r.generation
}

func (r *renderer) FragColorName() string {
	return r.fragColorName
}

func (r *renderer) UseProgram(handle uint32) bool {
	if r.activeProgram == handle {
		return false
	}
	r.gl.UseProgram(handle)
	r.activeProgram = handle
	r.stats.ProgramSwitches++
	return true
}

func (r *renderer) ActiveProgram() uint32 {
	return r.activeProgram
}

func (r *renderer) SetDrawingProgram(handle uint32) {
	r.drawingProgram = handle
}

func (r *renderer) DrawingProgram() uint32 {
	return r.drawingProgram
}

func (r *renderer) ForgetProgram(handle uint32) {
	if r.activeProgram == handle {
		r.activeProgram = 0
	}
	if r.drawingProgram == handle {
		r.drawingProgram = 0
	}
}

func (r *renderer) BindTexture(unit int, target, handle uint32) bool {
	if unit < 0 || unit >= MaxTextureUnits {
		panic("renderer: texture unit " + strconv.Itoa(unit) + " out of range")
	}
	if r.boundTextures[unit] == handle {
		return false
	}
	if r.activeUnit != unit {
		r.gl.ActiveTexture(gl.Texture0 + uint32(unit))
		r.activeUnit = unit
	}
	r.gl.BindTexture(target, handle)
	r.boundTextures[unit] = handle
	r.stats.TextureBinds++
	return true
}

func (r *renderer) BoundTexture(unit int) uint32 {
	if unit < 0 || unit >= MaxTextureUnits {
		return 0
	}
	return r.boundTextures[unit]
}

func (r *renderer) ForgetTexture(handle uint32) {
	for i, h := range r.boundTextures {
		if h == handle {
			r.boundTextures[i] = 0
		}
	}
}

func (r *renderer) ErrorChecks() bool {
	return r.checkErrors
}

func (r *renderer) Check(op string) error {
	if !r.checkErrors {
		return nil
	}
	code := r.gl.GetError()
	if code == gl.NoError {
		return nil
	}
	// drain older flags so the next check reports only its own operation
	for i := 0; i < maxDrainedErrors; i++ {
		if r.gl.GetError() == gl.NoError {
			break
		}
	}
	return &GLError{Op: op, Code: code}
}

func (r *renderer) MustCheck(op string) {
	if err := r.Check(op); err != nil {
		panic(err)
	}
}

func (r *renderer) SetViewport(width, height int) {
	r.width, r.height = width, height
	r.gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *renderer) Viewport() (width, height int) {
	return r.width, r.height
}

func (r *renderer) Vendor() string {
	return r.vendor
}

func (r *renderer) Version() string {
	return r.version
}

func (r *renderer) CountDraw(vertices int) {
	r.stats.DrawCalls++
	r.stats.Vertices += vertices
}

func (r *renderer) Stats() Stats {
	return r.stats
}

func (r *renderer) ResetStats() {
	r.stats = Stats{}
}

func (r *renderer) Dispose() {
	if r.vertexArray != 0 {
		r.gl.BindVertexArray(0)
		r.gl.DeleteVertexArrays(1, &r.vertexArray)
		r.vertexArray = 0
	}
	if r.activeProgram != 0 {
		r.gl.UseProgram(0)
		r.activeProgram = 0
	}
	r.boundTextures = [MaxTextureUnits]uint32{}
}
