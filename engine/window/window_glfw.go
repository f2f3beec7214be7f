package window

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool
}

// contextHints returns the window hints requesting a context for gen: 2.1 for the
// legacy generation, 3.3 core profile with forward compatibility otherwise.
//
// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
func contextHints(gen shader.Generation) []contextHint {
	hints := []contextHint{{int(glfw.ClientAPI), glfw.OpenGLAPI}}
	if gen == shader.GenerationLegacy {
		return append(hints,
			contextHint{int(glfw.ContextVersionMajor), 2},
			contextHint{int(glfw.ContextVersionMinor), 1},
		)
	}
	return append(hints,
		contextHint{int(glfw.ContextVersionMajor), 3},
		contextHint{int(glfw.ContextVersionMinor), 3},
		contextHint{int(glfw.OpenGLProfile), glfw.OpenGLCoreProfile},
		contextHint{int(glfw.OpenGLForwardCompatible), glfw.True},
	)
}

// sizeLimits maps unset (zero) limits to glfw.DontCare.
func sizeLimits(w *engineWindow) (minW, minH, maxW, maxH int) {
	orDontCare := func(v int) int {
		if v <= 0 {
			return glfw.DontCare
		}
		return v
	}
	return orDontCare(w.minWidth), orDontCare(w.minHeight), orDontCare(w.maxWidth), orDontCare(w.maxHeight)
}

// newPlatformWindow creates the GLFW window with an OpenGL context and input callbacks,
// makes the context current and stores the window as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	// GL contexts are bound to the thread that made them current.
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	glfw.DefaultWindowHints()
	for _, h := range contextHints(w.generation) {
		glfw.WindowHint(glfw.Hint(h.Hint), h.Value)
	}

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %v", err)
	}

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	win.SetSizeLimits(sizeLimits(w))
	win.MakeContextCurrent()
	if w.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.running = false
			win.SetShouldClose(true)
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			w.keyEvent(uint32(key), true)
		case glfw.Release:
			w.keyEvent(uint32(key), false)
		}
	})

	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(float32(yoff))
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonMiddle {
			return
		}
		xpos, ypos := win.GetCursorPos()
		switch action {
		case glfw.Press:
			if w.onMiddleMouseDown != nil {
				w.onMiddleMouseDown(int32(xpos), int32(ypos))
			}
		case glfw.Release:
			if w.onMiddleMouseUp != nil {
				w.onMiddleMouseUp(int32(xpos), int32(ypos))
			}
		}
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if w.onMouseMove != nil {
			w.onMouseMove(int32(xpos), int32(ypos))
		}
	})

	// Framebuffer size, not window size: they differ on high-DPI displays and the
	// viewport is in pixels.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resized(width, height)
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	return nil
}

func platformMakeCurrent(w *engineWindow) {
	if w.internalWindow == nil {
		return
	}
	w.internalWindow.(*glfwWindow).window.MakeContextCurrent()
}

// platformProcAddress resolves a GL symbol for the current context.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#GetProcAddress
func platformProcAddress(w *engineWindow, name string) unsafe.Pointer {
	if w.internalWindow == nil {
		return nil
	}
	return glfw.GetProcAddress(name)
}

func platformSwapBuffers(w *engineWindow) {
	if w.internalWindow == nil {
		return
	}
	w.internalWindow.(*glfwWindow).window.SwapBuffers()
}

// platformIsRunningCheck returns whether the GLFW window is still active.
// Returns false if the internal window is nil, the running flag is cleared, or GLFW reports ShouldClose.
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
