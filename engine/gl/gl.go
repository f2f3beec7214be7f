// Package gl describes the subset of the OpenGL API used by the renderer and provides
// a purego-backed loader for it. All calls operate on the GL context that is current
// on the calling thread.
package gl

import "unsafe"

const (
	// NoError is returned by GetError when no error flag is set.
	NoError = 0
	// InvalidEnum, InvalidValue, InvalidOperation and OutOfMemory are GetError codes.
	InvalidEnum                 = 0x0500
	InvalidValue                = 0x0501
	InvalidOperation            = 0x0502
	OutOfMemory                 = 0x0505
	InvalidFramebufferOperation = 0x0506

	// Primitive topologies.
	Points        = 0x0000
	Lines         = 0x0001
	LineLoop      = 0x0002
	LineStrip     = 0x0003
	Triangles     = 0x0004
	TriangleStrip = 0x0005
	TriangleFan   = 0x0006
	// Quads is only valid with a legacy (compatibility) context.
	Quads = 0x0007

	// Component types.
	Byte          = 0x1400
	UnsignedByte  = 0x1401
	Short         = 0x1402
	UnsignedShort = 0x1403
	Int           = 0x1404
	UnsignedInt   = 0x1405
	Float         = 0x1406
	HalfFloat     = 0x140B

	// Shader types
	VertexShader   = 0x8B31
	FragmentShader = 0x8B30

	// Shader/Program status
	CompileStatus = 0x8B81
	LinkStatus    = 0x8B82
	InfoLogLength = 0x8B84

	// Texture targets and units.
	Texture2D      = 0x0DE1
	TextureCubeMap = 0x8513
	Texture2DArray = 0x8C1A
	Texture0       = 0x84C0

	// Texture parameters.
	TextureMinFilter = 0x2801
	TextureMagFilter = 0x2800
	TextureWrapS     = 0x2802
	TextureWrapT     = 0x2803
	Nearest          = 0x2600
	Linear           = 0x2601
	Repeat           = 0x2901
	ClampToEdge      = 0x812F
	UnpackAlignment  = 0x0CF5

	// Pixel formats.
	RGBA  = 0x1908
	RGBA8 = 0x8058

	// Buffers.
	ArrayBuffer = 0x8892
	StreamDraw  = 0x88E0
	StaticDraw  = 0x88E4
	DynamicDraw = 0x88E8

	// Capabilities, blending and clearing.
	Blend            = 0x0BE2
	DepthTest        = 0x0B71
	SrcAlpha         = 0x0302
	OneMinusSrcAlpha = 0x0303
	ColorBufferBit   = 0x00004000
	DepthBufferBit   = 0x00000100

	// GetString parameters.
	Vendor                 = 0x1F00
	Renderer               = 0x1F01
	Version                = 0x1F02
	ShadingLanguageVersion = 0x8B8C

	// True and False are the GL boolean values returned through integer queries.
	True  = 1
	False = 0
)

// OpenGL describes the GL entry points used by this module.
//
// Implementations typically wrap platform-specific GL bindings. The immediate-mode
// entry points (Begin, End, VertexAttrib*) are only meaningful on a legacy context.
type OpenGL interface {
	// GetError returns and clears the oldest error flag, or NoError.
	GetError() uint32

	// GetString returns a string describing a GL property (Vendor, Version, ...).
	GetString(name uint32) string

	// Viewport sets the window-space rectangle the clip space is mapped to.
	Viewport(x, y, width, height int32)

	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Enable(capability uint32)
	Disable(capability uint32)
	BlendFunc(sfactor, dfactor uint32)

	// Shader operations
	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32, params *int32)
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	// Program operations
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname uint32, params *int32)
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// Uniform operations
	GetUniformLocation(program uint32, name string) int32
	GetAttribLocation(program uint32, name string) int32
	Uniform1i(location int32, v0 int32)
	Uniform1f(location int32, v0 float32)
	Uniform2f(location int32, v0, v1 float32)
	Uniform3f(location int32, v0, v1, v2 float32)
	Uniform4f(location int32, v0, v1, v2, v3 float32)
	UniformMatrix4fv(location int32, count int32, transpose bool, value *float32)

	// Vertex attribute configuration. Offset is a byte offset into the bound ArrayBuffer.
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)
	VertexAttribDivisor(index, divisor uint32)

	// Immediate mode
	Begin(mode uint32)
	End()
	VertexAttrib1f(index uint32, x float32)
	VertexAttrib2f(index uint32, x, y float32)
	VertexAttrib3f(index uint32, x, y, z float32)
	VertexAttrib4f(index uint32, x, y, z, w float32)

	// Drawing
	DrawArrays(mode uint32, first int32, count int32)

	// Texture operations
	ActiveTexture(texture uint32)
	BindTexture(target, texture uint32)
	GenTextures(n int32, textures *uint32)
	DeleteTextures(n int32, textures *uint32)
	TexImage2D(target uint32, level, internalformat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer)
	TexParameteri(target, pname uint32, param int32)
	PixelStorei(pname uint32, param int32)

	// Buffer operations
	GenBuffers(n int32, buffers *uint32)
	DeleteBuffers(n int32, buffers *uint32)
	BindBuffer(target uint32, buffer uint32)
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)
	BufferSubData(target uint32, offset int, size int, data unsafe.Pointer)

	// Vertex Array Object operations
	GenVertexArrays(n int32, arrays *uint32)
	DeleteVertexArrays(n int32, arrays *uint32)
	BindVertexArray(array uint32)
}

// TypeSize returns the byte size of a single component of the given GL component type,
// or 0 for unknown types.
func TypeSize(xtype uint32) int {
	switch xtype {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort, HalfFloat:
		return 2
	case Int, UnsignedInt, Float:
		return 4
	}
	return 0
}

// ErrorString returns the symbolic name of a GetError code.
func ErrorString(code uint32) string {
	switch code {
	case NoError:
		return "GL_NO_ERROR"
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	}
	return "GL_UNKNOWN_ERROR"
}

func gostring(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	var bytes []byte
	for p := ptr; *p != 0; p = (*byte)(unsafe.Add(unsafe.Pointer(p), 1)) {
		bytes = append(bytes, *p)
	}
	return string(bytes)
}
