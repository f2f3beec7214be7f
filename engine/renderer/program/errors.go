package program

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// Usage errors. The draw protocol panics with these; they are never returned.
var (
	ErrNotDrawing     = errors.New("program: not drawing, call Begin first")
	ErrAlreadyDrawing = errors.New("program: already drawing, call End first")
	ErrProgramBusy    = errors.New("program: another program is drawing, call its End first")
	ErrModeMismatch   = errors.New("program: draw call does not match the Begin binding mode")
	ErrDisposed       = errors.New("program: program is disposed")
)

var (
	// ErrPartialVertex is returned by Render when the data length is not a whole number of vertices.
	ErrPartialVertex = errors.New("program: vertex data ends in a partial vertex")
	// ErrUnknownSampler is returned by SetTexture for a name that is not a declared sampler uniform.
	ErrUnknownSampler = errors.New("program: unknown sampler uniform")
	// ErrUnsupportedValue is returned by SetUniform for a value type it cannot upload.
	ErrUnsupportedValue = errors.New("program: unsupported uniform value")
)

// CompileError reports a shader stage that failed to compile.
type CompileError struct {
	Stage  shader.Stage
	Log    string
	Source string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("program: %s shader failed to compile: %s", e.Stage, strings.TrimSpace(e.Log))
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "program: link failed: " + strings.TrimSpace(e.Log)
}
