// Package gltest provides a recording implementation of gl.OpenGL for tests that need
// to observe the GL calls a component issues without a real context.
package gltest

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
)

// Call is a single recorded GL call.
type Call struct {
	Name string
	Args []any
}

type recordedShader struct {
	xtype  uint32
	source string
}

type recordedProgram struct {
	shaders  []uint32
	uniforms map[string]int32
	attribs  map[string]int32
}

// Recorder records every call made through the gl.OpenGL interface and answers
// queries with configurable, deterministic results.
//
// Uniform locations are handed out sequentially per program in query order unless the
// name is listed in OptimizedOut. Attribute locations are handed out the same way
// unless overridden in AttribLocations.
type Recorder struct {
	// Calls holds every recorded call in issue order.
	Calls []Call

	// FailCompile makes CompileShader report failure for shaders of this type (0 = never).
	FailCompile uint32
	// CompileLog is returned by GetShaderInfoLog for failing shaders.
	CompileLog string
	// FailLink makes LinkProgram report failure.
	FailLink bool
	// LinkLog is returned by GetProgramInfoLog when linking fails.
	LinkLog string

	// OptimizedOut lists uniform names whose location is reported as -1.
	OptimizedOut map[string]bool
	// AttribLocations overrides the location reported for an attribute name.
	AttribLocations map[string]int32

	// Errors is drained front to back by GetError.
	Errors []uint32
	// Strings answers GetString queries.
	Strings map[uint32]string

	nextHandle uint32
	shaders    map[uint32]*recordedShader
	programs   map[uint32]*recordedProgram
	compiled   map[uint32]bool
	linked     map[uint32]bool
}

var _ gl.OpenGL = &Recorder{}

// NewRecorder creates an empty Recorder that compiles and links successfully and
// reports a 3.3 core context.
func NewRecorder() *Recorder {
	return &Recorder{
		OptimizedOut:    map[string]bool{},
		AttribLocations: map[string]int32{},
		Strings: map[uint32]string{
			gl.Vendor:  "oxy-gl test recorder",
			gl.Version: "3.3.0 Core Profile",
		},
		shaders:  map[uint32]*recordedShader{},
		programs: map[uint32]*recordedProgram{},
		compiled: map[uint32]bool{},
		linked:   map[uint32]bool{},
	}
}

// Count returns how many times the named call was issued.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Named returns every recorded call with the given name, in order.
func (r *Recorder) Named(name string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the names of every recorded call, in order.
func (r *Recorder) Names() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Name
	}
	return out
}

// Reset discards the recorded calls but keeps GL object state.
func (r *Recorder) Reset() {
	r.Calls = nil
}

// ShaderSourceOf returns the source last uploaded to a shader handle.
func (r *Recorder) ShaderSourceOf(shader uint32) string {
	if s, ok := r.shaders[shader]; ok {
		return s.source
	}
	return ""
}

// LiveShaders returns the number of shader objects not yet deleted.
func (r *Recorder) LiveShaders() int { return len(r.shaders) }

// LivePrograms returns the number of program objects not yet deleted.
func (r *Recorder) LivePrograms() int { return len(r.programs) }

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) handle() uint32 {
	r.nextHandle++
	return r.nextHandle
}

func (r *Recorder) GetError() uint32 {
	r.record("GetError")
	if len(r.Errors) == 0 {
		return gl.NoError
	}
	code := r.Errors[0]
	r.Errors = r.Errors[1:]
	return code
}

func (r *Recorder) GetString(name uint32) string {
	r.record("GetString", name)
	return r.Strings[name]
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport", x, y, width, height)
}

func (r *Recorder) ClearColor(cr, cg, cb, ca float32) { r.record("ClearColor", cr, cg, cb, ca) }
func (r *Recorder) Clear(mask uint32)                 { r.record("Clear", mask) }
func (r *Recorder) Enable(capability uint32)          { r.record("Enable", capability) }
func (r *Recorder) Disable(capability uint32)         { r.record("Disable", capability) }
func (r *Recorder) BlendFunc(sfactor, dfactor uint32) { r.record("BlendFunc", sfactor, dfactor) }

func (r *Recorder) CreateShader(xtype uint32) uint32 {
	h := r.handle()
	r.shaders[h] = &recordedShader{xtype: xtype}
	r.record("CreateShader", xtype, h)
	return h
}

func (r *Recorder) ShaderSource(shader uint32, source string) {
	if s, ok := r.shaders[shader]; ok {
		s.source = source
	}
	r.record("ShaderSource", shader, source)
}

func (r *Recorder) CompileShader(shader uint32) {
	s, ok := r.shaders[shader]
	r.compiled[shader] = ok && (r.FailCompile == 0 || s.xtype != r.FailCompile)
	r.record("CompileShader", shader)
}

func (r *Recorder) GetShaderiv(shader uint32, pname uint32, params *int32) {
	r.record("GetShaderiv", shader, pname)
	switch pname {
	case gl.CompileStatus:
		*params = gl.False
		if r.compiled[shader] {
			*params = gl.True
		}
	case gl.InfoLogLength:
		*params = int32(len(r.GetShaderInfoLog(shader)) + 1)
	}
}

func (r *Recorder) GetShaderInfoLog(shader uint32) string {
	if r.compiled[shader] {
		return ""
	}
	return r.CompileLog
}

func (r *Recorder) DeleteShader(shader uint32) {
	delete(r.shaders, shader)
	r.record("DeleteShader", shader)
}

func (r *Recorder) CreateProgram() uint32 {
	h := r.handle()
	r.programs[h] = &recordedProgram{uniforms: map[string]int32{}, attribs: map[string]int32{}}
	r.record("CreateProgram", h)
	return h
}

func (r *Recorder) AttachShader(program, shader uint32) {
	if p, ok := r.programs[program]; ok {
		p.shaders = append(p.shaders, shader)
	}
	r.record("AttachShader", program, shader)
}

func (r *Recorder) DetachShader(program, shader uint32) { r.record("DetachShader", program, shader) }

func (r *Recorder) LinkProgram(program uint32) {
	r.linked[program] = !r.FailLink
	r.record("LinkProgram", program)
}

func (r *Recorder) GetProgramiv(program uint32, pname uint32, params *int32) {
	r.record("GetProgramiv", program, pname)
	switch pname {
	case gl.LinkStatus:
		*params = gl.False
		if r.linked[program] {
			*params = gl.True
		}
	case gl.InfoLogLength:
		*params = int32(len(r.GetProgramInfoLog(program)) + 1)
	}
}

func (r *Recorder) GetProgramInfoLog(program uint32) string {
	if r.linked[program] {
		return ""
	}
	return r.LinkLog
}

func (r *Recorder) UseProgram(program uint32) { r.record("UseProgram", program) }

func (r *Recorder) DeleteProgram(program uint32) {
	delete(r.programs, program)
	r.record("DeleteProgram", program)
}

func (r *Recorder) GetUniformLocation(program uint32, name string) int32 {
	r.record("GetUniformLocation", program, name)
	p, ok := r.programs[program]
	if !ok || r.OptimizedOut[name] {
		return -1
	}
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := int32(len(p.uniforms))
	p.uniforms[name] = loc
	return loc
}

func (r *Recorder) GetAttribLocation(program uint32, name string) int32 {
	r.record("GetAttribLocation", program, name)
	if loc, ok := r.AttribLocations[name]; ok {
		return loc
	}
	p, ok := r.programs[program]
	if !ok {
		return -1
	}
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	loc := int32(len(p.attribs))
	p.attribs[name] = loc
	return loc
}

func (r *Recorder) Uniform1i(location int32, v0 int32)   { r.record("Uniform1i", location, v0) }
func (r *Recorder) Uniform1f(location int32, v0 float32) { r.record("Uniform1f", location, v0) }

func (r *Recorder) Uniform2f(location int32, v0, v1 float32) {
	r.record("Uniform2f", location, v0, v1)
}

func (r *Recorder) Uniform3f(location int32, v0, v1, v2 float32) {
	r.record("Uniform3f", location, v0, v1, v2)
}

func (r *Recorder) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	r.record("Uniform4f", location, v0, v1, v2, v3)
}

func (r *Recorder) UniformMatrix4fv(location int32, count int32, transpose bool, value *float32) {
	m := make([]float32, 16*count)
	copy(m, unsafe.Slice(value, 16*count))
	r.record("UniformMatrix4fv", location, count, transpose, m)
}

func (r *Recorder) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	r.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset)
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.record("EnableVertexAttribArray", index)
}

func (r *Recorder) DisableVertexAttribArray(index uint32) {
	r.record("DisableVertexAttribArray", index)
}

func (r *Recorder) VertexAttribDivisor(index, divisor uint32) {
	r.record("VertexAttribDivisor", index, divisor)
}

func (r *Recorder) Begin(mode uint32) { r.record("Begin", mode) }
func (r *Recorder) End()              { r.record("End") }

func (r *Recorder) VertexAttrib1f(index uint32, x float32) { r.record("VertexAttrib1f", index, x) }

func (r *Recorder) VertexAttrib2f(index uint32, x, y float32) {
	r.record("VertexAttrib2f", index, x, y)
}

func (r *Recorder) VertexAttrib3f(index uint32, x, y, z float32) {
	r.record("VertexAttrib3f", index, x, y, z)
}

func (r *Recorder) VertexAttrib4f(index uint32, x, y, z, w float32) {
	r.record("VertexAttrib4f", index, x, y, z, w)
}

func (r *Recorder) DrawArrays(mode uint32, first int32, count int32) {
	r.record("DrawArrays", mode, first, count)
}

func (r *Recorder) ActiveTexture(texture uint32)       { r.record("ActiveTexture", texture) }
func (r *Recorder) BindTexture(target, texture uint32) { r.record("BindTexture", target, texture) }

func (r *Recorder) GenTextures(n int32, textures *uint32) {
	ts := unsafe.Slice(textures, n)
	for i := range ts {
		ts[i] = r.handle()
	}
	r.record("GenTextures", n)
}

func (r *Recorder) DeleteTextures(n int32, textures *uint32) {
	r.record("DeleteTextures", append([]uint32(nil), unsafe.Slice(textures, n)...))
}

func (r *Recorder) TexImage2D(target uint32, level, internalformat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer) {
	r.record("TexImage2D", target, level, internalformat, width, height, border, format, xtype)
}

func (r *Recorder) TexParameteri(target, pname uint32, param int32) {
	r.record("TexParameteri", target, pname, param)
}

func (r *Recorder) PixelStorei(pname uint32, param int32) { r.record("PixelStorei", pname, param) }

func (r *Recorder) GenBuffers(n int32, buffers *uint32) {
	bs := unsafe.Slice(buffers, n)
	for i := range bs {
		bs[i] = r.handle()
	}
	r.record("GenBuffers", n)
}

func (r *Recorder) DeleteBuffers(n int32, buffers *uint32) {
	r.record("DeleteBuffers", append([]uint32(nil), unsafe.Slice(buffers, n)...))
}

func (r *Recorder) BindBuffer(target uint32, buffer uint32) { r.record("BindBuffer", target, buffer) }

func (r *Recorder) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	r.record("BufferData", target, size, usage)
}

func (r *Recorder) BufferSubData(target uint32, offset int, size int, data unsafe.Pointer) {
	r.record("BufferSubData", target, offset, size)
}

func (r *Recorder) GenVertexArrays(n int32, arrays *uint32) {
	as := unsafe.Slice(arrays, n)
	for i := range as {
		as[i] = r.handle()
	}
	r.record("GenVertexArrays", n)
}

func (r *Recorder) DeleteVertexArrays(n int32, arrays *uint32) {
	r.record("DeleteVertexArrays", append([]uint32(nil), unsafe.Slice(arrays, n)...))
}

func (r *Recorder) BindVertexArray(array uint32) { r.record("BindVertexArray", array) }
