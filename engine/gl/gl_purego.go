package gl

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ProcAddressFunc resolves a GL entry point by name for the current context,
// returning nil when the entry point is not available.
type ProcAddressFunc func(name string) unsafe.Pointer

// puregoGL is the purego-backed implementation of the OpenGL interface.
// Function fields are registered against the addresses returned by a ProcAddressFunc.
type puregoGL struct {
	glGetError   func() uint32
	glGetString  func(name uint32) *byte
	glViewport   func(x, y, width, height int32)
	glClearColor func(r, g, b, a float32)
	glClear      func(mask uint32)
	glEnable     func(capability uint32)
	glDisable    func(capability uint32)
	glBlendFunc  func(sfactor, dfactor uint32)

	glCreateShader     func(xtype uint32) uint32
	glShaderSource     func(shader uint32, count int32, sources **byte, lengths *int32)
	glCompileShader    func(shader uint32)
	glGetShaderiv      func(shader uint32, pname uint32, params *int32)
	glGetShaderInfoLog func(shader uint32, bufSize int32, length *int32, infoLog *byte)
	glDeleteShader     func(shader uint32)

	glCreateProgram     func() uint32
	glAttachShader      func(program, shader uint32)
	glDetachShader      func(program, shader uint32)
	glLinkProgram       func(program uint32)
	glGetProgramiv      func(program uint32, pname uint32, params *int32)
	glGetProgramInfoLog func(program uint32, bufSize int32, length *int32, infoLog *byte)
	glUseProgram        func(program uint32)
	glDeleteProgram     func(program uint32)

	glGetUniformLocation func(program uint32, name *byte) int32
	glGetAttribLocation  func(program uint32, name *byte) int32
	glUniform1i          func(location int32, v0 int32)
	glUniform1f          func(location int32, v0 float32)
	glUniform2f          func(location int32, v0, v1 float32)
	glUniform3f          func(location int32, v0, v1, v2 float32)
	glUniform4f          func(location int32, v0, v1, v2, v3 float32)
	glUniformMatrix4fv   func(location int32, count int32, transpose bool, value *float32)

	glVertexAttribPointer      func(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	glEnableVertexAttribArray  func(index uint32)
	glDisableVertexAttribArray func(index uint32)
	glVertexAttribDivisor      func(index, divisor uint32)

	glBegin          func(mode uint32)
	glEnd            func()
	glVertexAttrib1f func(index uint32, x float32)
	glVertexAttrib2f func(index uint32, x, y float32)
	glVertexAttrib3f func(index uint32, x, y, z float32)
	glVertexAttrib4f func(index uint32, x, y, z, w float32)

	glDrawArrays func(mode uint32, first int32, count int32)

	glActiveTexture  func(texture uint32)
	glBindTexture    func(target, texture uint32)
	glGenTextures    func(n int32, textures *uint32)
	glDeleteTextures func(n int32, textures *uint32)
	glTexImage2D     func(target uint32, level, internalformat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer)
	glTexParameteri  func(target, pname uint32, param int32)
	glPixelStorei    func(pname uint32, param int32)

	glGenBuffers    func(n int32, buffers *uint32)
	glDeleteBuffers func(n int32, buffers *uint32)
	glBindBuffer    func(target uint32, buffer uint32)
	glBufferData    func(target uint32, size int, data unsafe.Pointer, usage uint32)
	glBufferSubData func(target uint32, offset int, size int, data unsafe.Pointer)

	glGenVertexArrays    func(n int32, arrays *uint32)
	glDeleteVertexArrays func(n int32, arrays *uint32)
	glBindVertexArray    func(array uint32)
}

var _ OpenGL = &puregoGL{}

// entryPoint pairs a GL symbol name with the function field it is registered into.
// Optional entry points are missing on some context versions (glBegin on core profiles,
// vertex array objects and divisors on 2.1) and are left nil when unresolved.
type entryPoint struct {
	name     string
	fptr     any
	optional bool
}

// Load resolves every GL entry point used by this module through getProcAddress and
// returns an OpenGL bound to the context that is current on the calling thread.
//
// Parameters:
//   - getProcAddress: the context's symbol resolver (e.g. glfw.GetProcAddress)
//
// Returns:
//   - OpenGL: the loaded bindings
//   - error: an error naming the first required entry point that could not be resolved
func Load(getProcAddress ProcAddressFunc) (OpenGL, error) {
	g := &puregoGL{}
	for _, ep := range g.entryPoints() {
		addr := getProcAddress(ep.name)
		if addr == nil {
			if ep.optional {
				continue
			}
			return nil, fmt.Errorf("gl: required entry point %s not found", ep.name)
		}
		purego.RegisterFunc(ep.fptr, uintptr(addr))
	}
	return g, nil
}

func (g *puregoGL) entryPoints() []entryPoint {
	return []entryPoint{
		{"glGetError", &g.glGetError, false},
		{"glGetString", &g.glGetString, false},
		{"glViewport", &g.glViewport, false},
		{"glClearColor", &g.glClearColor, false},
		{"glClear", &g.glClear, false},
		{"glEnable", &g.glEnable, false},
		{"glDisable", &g.glDisable, false},
		{"glBlendFunc", &g.glBlendFunc, false},
		{"glCreateShader", &g.glCreateShader, false},
		{"glShaderSource", &g.glShaderSource, false},
		{"glCompileShader", &g.glCompileShader, false},
		{"glGetShaderiv", &g.glGetShaderiv, false},
		{"glGetShaderInfoLog", &g.glGetShaderInfoLog, false},
		{"glDeleteShader", &g.glDeleteShader, false},
		{"glCreateProgram", &g.glCreateProgram, false},
		{"glAttachShader", &g.glAttachShader, false},
		{"glDetachShader", &g.glDetachShader, false},
		{"glLinkProgram", &g.glLinkProgram, false},
		{"glGetProgramiv", &g.glGetProgramiv, false},
		{"glGetProgramInfoLog", &g.glGetProgramInfoLog, false},
		{"glUseProgram", &g.glUseProgram, false},
		{"glDeleteProgram", &g.glDeleteProgram, false},
		{"glGetUniformLocation", &g.glGetUniformLocation, false},
		{"glGetAttribLocation", &g.glGetAttribLocation, false},
		{"glUniform1i", &g.glUniform1i, false},
		{"glUniform1f", &g.glUniform1f, false},
		{"glUniform2f", &g.glUniform2f, false},
		{"glUniform3f", &g.glUniform3f, false},
		{"glUniform4f", &g.glUniform4f, false},
		{"glUniformMatrix4fv", &g.glUniformMatrix4fv, false},
		{"glVertexAttribPointer", &g.glVertexAttribPointer, false},
		{"glEnableVertexAttribArray", &g.glEnableVertexAttribArray, false},
		{"glDisableVertexAttribArray", &g.glDisableVertexAttribArray, false},
		{"glVertexAttribDivisor", &g.glVertexAttribDivisor, true},
		{"glBegin", &g.glBegin, true},
		{"glEnd", &g.glEnd, true},
		{"glVertexAttrib1f", &g.glVertexAttrib1f, false},
		{"glVertexAttrib2f", &g.glVertexAttrib2f, false},
		{"glVertexAttrib3f", &g.glVertexAttrib3f, false},
		{"glVertexAttrib4f", &g.glVertexAttrib4f, false},
		{"glDrawArrays", &g.glDrawArrays, false},
		{"glActiveTexture", &g.glActiveTexture, false},
		{"glBindTexture", &g.glBindTexture, false},
		{"glGenTextures", &g.glGenTextures, false},
		{"glDeleteTextures", &g.glDeleteTextures, false},
		{"glTexImage2D", &g.glTexImage2D, false},
		{"glTexParameteri", &g.glTexParameteri, false},
		{"glPixelStorei", &g.glPixelStorei, false},
		{"glGenBuffers", &g.glGenBuffers, false},
		{"glDeleteBuffers", &g.glDeleteBuffers, false},
		{"glBindBuffer", &g.glBindBuffer, false},
		{"glBufferData", &g.glBufferData, false},
		{"glBufferSubData", &g.glBufferSubData, false},
		{"glGenVertexArrays", &g.glGenVertexArrays, true},
		{"glDeleteVertexArrays", &g.glDeleteVertexArrays, true},
		{"glBindVertexArray", &g.glBindVertexArray, true},
	}
}

// cstring returns a NUL-terminated copy of s. The caller must keep the slice alive
// for the duration of the GL call.
func cstring(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

func (g *puregoGL) GetError() uint32 { return g.glGetError() }

func (g *puregoGL) GetString(name uint32) string { return gostring(g.glGetString(name)) }

func (g *puregoGL) Viewport(x, y, width, height int32) { g.glViewport(x, y, width, height) }

func (g *puregoGL) ClearColor(r, gr, b, a float32) { g.glClearColor(r, gr, b, a) }

func (g *puregoGL) Clear(mask uint32) { g.glClear(mask) }

func (g *puregoGL) Enable(capability uint32) { g.glEnable(capability) }

func (g *puregoGL) Disable(capability uint32) { g.glDisable(capability) }

func (g *puregoGL) BlendFunc(sfactor, dfactor uint32) { g.glBlendFunc(sfactor, dfactor) }

func (g *puregoGL) CreateShader(xtype uint32) uint32 { return g.glCreateShader(xtype) }

func (g *puregoGL) ShaderSource(shader uint32, source string) {
	src := cstring(source)
	ptr := &src[0]
	length := int32(len(source))
	g.glShaderSource(shader, 1, &ptr, &length)
	runtime.KeepAlive(src)
}

func (g *puregoGL) CompileShader(shader uint32) { g.glCompileShader(shader) }

func (g *puregoGL) GetShaderiv(shader uint32, pname uint32, params *int32) {
	g.glGetShaderiv(shader, pname, params)
}

func (g *puregoGL) GetShaderInfoLog(shader uint32) string {
	var n int32
	g.glGetShaderiv(shader, InfoLogLength, &n)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	g.glGetShaderInfoLog(shader, n, nil, &buf[0])
	return gostring(&buf[0])
}

func (g *puregoGL) DeleteShader(shader uint32) { g.glDeleteShader(shader) }

func (g *puregoGL) CreateProgram() uint32 { return g.glCreateProgram() }

func (g *puregoGL) AttachShader(program, shader uint32) { g.glAttachShader(program, shader) }

func (g *puregoGL) DetachShader(program, shader uint32) { g.glDetachShader(program, shader) }

func (g *puregoGL) LinkProgram(program uint32) { g.glLinkProgram(program) }

func (g *puregoGL) GetProgramiv(program uint32, pname uint32, params *int32) {
	g.glGetProgramiv(program, pname, params)
}

func (g *puregoGL) GetProgramInfoLog(program uint32) string {
	var n int32
	g.glGetProgramiv(program, InfoLogLength, &n)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	g.glGetProgramInfoLog(program, n, nil, &buf[0])
	return gostring(&buf[0])
}

func (g *puregoGL) UseProgram(program uint32) { g.glUseProgram(program) }

func (g *puregoGL) DeleteProgram(program uint32) { g.glDeleteProgram(program) }

func (g *puregoGL) GetUniformLocation(program uint32, name string) int32 {
	cs := cstring(name)
	loc := g.glGetUniformLocation(program, &cs[0])
	runtime.KeepAlive(cs)
	return loc
}

func (g *puregoGL) GetAttribLocation(program uint32, name string) int32 {
	cs := cstring(name)
	loc := g.glGetAttribLocation(program, &cs[0])
	runtime.KeepAlive(cs)
	return loc
}

func (g *puregoGL) Uniform1i(location int32, v0 int32) { g.glUniform1i(location, v0) }

func (g *puregoGL) Uniform1f(location int32, v0 float32) { g.glUniform1f(location, v0) }

func (g *puregoGL) Uniform2f(location int32, v0, v1 float32) { g.glUniform2f(location, v0, v1) }

func (g *puregoGL) Uniform3f(location int32, v0, v1, v2 float32) {
	g.glUniform3f(location, v0, v1, v2)
}

func (g *puregoGL) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	g.glUniform4f(location, v0, v1, v2, v3)
}

func (g *puregoGL) UniformMatrix4fv(location int32, count int32, transpose bool, value *float32) {
	g.glUniformMatrix4fv(location, count, transpose, value)
}

func (g *puregoGL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	g.glVertexAttribPointer(index, size, xtype, normalized, stride, offset)
}

func (g *puregoGL) EnableVertexAttribArray(index uint32) { g.glEnableVertexAttribArray(index) }

func (g *puregoGL) DisableVertexAttribArray(index uint32) { g.glDisableVertexAttribArray(index) }

func (g *puregoGL) VertexAttribDivisor(index, divisor uint32) {
	if g.glVertexAttribDivisor == nil {
		panic("gl: glVertexAttribDivisor is not available on this context")
	}
	g.glVertexAttribDivisor(index, divisor)
}

func (g *puregoGL) Begin(mode uint32) {
	if g.glBegin == nil {
		panic("gl: glBegin is not available on this context; immediate mode needs a legacy context")
	}
	g.glBegin(mode)
}

func (g *puregoGL) End() {
	if g.glEnd == nil {
		panic("gl: glEnd is not available on this context; immediate mode needs a legacy context")
	}
	g.glEnd()
}

func (g *puregoGL) VertexAttrib1f(index uint32, x float32) { g.glVertexAttrib1f(index, x) }

func (g *puregoGL) VertexAttrib2f(index uint32, x, y float32) { g.glVertexAttrib2f(index, x, y) }

func (g *puregoGL) VertexAttrib3f(index uint32, x, y, z float32) {
	g.glVertexAttrib3f(index, x, y, z)
}

func (g *puregoGL) VertexAttrib4f(index uint32, x, y, z, w float32) {
	g.glVertexAttrib4f(index, x, y, z, w)
}

func (g *puregoGL) DrawArrays(mode uint32, first int32, count int32) {
	g.glDrawArrays(mode, first, count)
}

func (g *puregoGL) ActiveTexture(texture uint32) { g.glActiveTexture(texture) }

func (g *puregoGL) BindTexture(target, texture uint32) { g.glBindTexture(target, texture) }

func (g *puregoGL) GenTextures(n int32, textures *uint32) { g.glGenTextures(n, textures) }

func (g *puregoGL) DeleteTextures(n int32, textures *uint32) { g.glDeleteTextures(n, textures) }

func (g *puregoGL) TexImage2D(target uint32, level, internalformat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer) {
	g.glTexImage2D(target, level, internalformat, width, height, border, format, xtype, pixels)
}

func (g *puregoGL) TexParameteri(target, pname uint32, param int32) {
	g.glTexParameteri(target, pname, param)
}

func (g *puregoGL) PixelStorei(pname uint32, param int32) { g.glPixelStorei(pname, param) }

func (g *puregoGL) GenBuffers(n int32, buffers *uint32) { g.glGenBuffers(n, buffers) }

func (g *puregoGL) DeleteBuffers(n int32, buffers *uint32) { g.glDeleteBuffers(n, buffers) }

func (g *puregoGL) BindBuffer(target uint32, buffer uint32) { g.glBindBuffer(target, buffer) }

func (g *puregoGL) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	g.glBufferData(target, size, data, usage)
}

func (g *puregoGL) BufferSubData(target uint32, offset int, size int, data unsafe.Pointer) {
	g.glBufferSubData(target, offset, size, data)
}

func (g *puregoGL) GenVertexArrays(n int32, arrays *uint32) {
	if g.glGenVertexArrays == nil {
		return
	}
	g.glGenVertexArrays(n, arrays)
}

func (g *puregoGL) DeleteVertexArrays(n int32, arrays *uint32) {
	if g.glDeleteVertexArrays == nil {
		return
	}
	g.glDeleteVertexArrays(n, arrays)
}

func (g *puregoGL) BindVertexArray(array uint32) {
	if g.glBindVertexArray == nil {
		return
	}
	g.glBindVertexArray(array)
}
