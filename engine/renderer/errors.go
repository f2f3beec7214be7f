package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
)

// maxDrainedErrors bounds the GetError loop in Check; without a current context some
// drivers report an error forever.
const maxDrainedErrors = 16

// GLError is a GL error flag observed after an operation.
type GLError struct {
	// Op names the operation after which the error was observed.
	Op string
	// Code is the GetError code.
	Code uint32
}

func (e *GLError) Error() string {
	return fmt.Sprintf("renderer: %s: %s (0x%04X)", e.Op, gl.ErrorString(e.Code), e.Code)
}
