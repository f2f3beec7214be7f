package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hintValue(hints []contextHint, h glfw.Hint) (int, bool) {
	for _, ch := range hints {
		if ch.Hint == int(h) {
			return ch.Value, true
		}
	}
	return 0, false
}

func TestContextHintsCore(t *testing.T) {
	hints := contextHints(shader.GenerationCore)

	major, ok := hintValue(hints, glfw.ContextVersionMajor)
	require.True(t, ok)
	minor, _ := hintValue(hints, glfw.ContextVersionMinor)
	profile, ok := hintValue(hints, glfw.OpenGLProfile)
	require.True(t, ok)

	assert.Equal(t, 3, major)
	assert.Equal(t, 3, minor)
	assert.Equal(t, glfw.OpenGLCoreProfile, profile)
}

func TestContextHintsLegacy(t *testing.T) {
	hints := contextHints(shader.GenerationLegacy)

	major, _ := hintValue(hints, glfw.ContextVersionMajor)
	minor, _ := hintValue(hints, glfw.ContextVersionMinor)
	assert.Equal(t, 2, major)
	assert.Equal(t, 1, minor)

	_, ok := hintValue(hints, glfw.OpenGLProfile)
	assert.False(t, ok, "2.1 contexts have no profile")
}

func TestOptions(t *testing.T) {
	w := newEngineWindow(
		WithTitle("sprites"),
		WithWidth(800),
		WithHeight(600),
		WithMaxWidth(1024),
		WithGeneration(shader.GenerationLegacy),
		WithVSync(false),
	)

	assert.Equal(t, "sprites", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.Equal(t, shader.GenerationLegacy, w.Generation())
	assert.False(t, w.vsync)

	minW, minH, maxW, maxH := sizeLimits(w)
	assert.Equal(t, 320, minW)
	assert.Equal(t, 200, minH)
	assert.Equal(t, 1024, maxW)
	assert.Equal(t, glfw.DontCare, maxH)
}

func TestWithConfig(t *testing.T) {
	c := config.Default()
	c.Generation = "legacy"
	c.Window.Title = "from config"
	c.Window.VSync = false

	w := newEngineWindow(WithConfig(c))
	assert.Equal(t, "from config", w.title)
	assert.Equal(t, 1280, w.Width())
	assert.Equal(t, shader.GenerationLegacy, w.Generation())
	assert.False(t, w.vsync)

	c.Generation = "vulkan"
	w = newEngineWindow(WithConfig(c))
	assert.Equal(t, shader.GenerationCore, w.Generation())
}

func TestEventRouting(t *testing.T) {
	w := newEngineWindow()

	var resized [][2]int
	w.SetResizeCallback(func(width, height int) { resized = append(resized, [2]int{width, height}) })
	w.resized(0, 0)
	w.resized(640, 360)
	assert.Equal(t, [][2]int{{640, 360}}, resized)
	assert.Equal(t, 640, w.Width())

	var down, up []uint32
	w.SetKeyDownCallback(func(k uint32) { down = append(down, k) })
	w.SetKeyUpCallback(func(k uint32) { up = append(up, k) })
	w.keyEvent(87, true)
	w.keyEvent(87, false)
	assert.Equal(t, []uint32{87}, down)
	assert.Equal(t, []uint32{87}, up)
}

func TestUnspawnedWindow(t *testing.T) {
	w := newEngineWindow()
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.ProcAddress("glDrawArrays"))
	assert.Error(t, w.Close())
}
