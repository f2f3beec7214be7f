package engine

import (
	"bytes"
	"errors"
	"log"
	"testing"
	"time"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl/gltest"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs the update callback a fixed number of times.
type fakeWindow struct {
	frames   int
	closed   bool
	swaps    int
	onUpdate func()
	onResize func(width, height int)
}

func (w *fakeWindow) SetUpdateCallback(callback func())                   { w.onUpdate = callback }
func (w *fakeWindow) SetResizeCallback(callback func(width, height int))  { w.onResize = callback }
func (w *fakeWindow) SetScrollCallback(callback func(delta float32))      {}
func (w *fakeWindow) SetKeyDownCallback(callback func(keyCode uint32))    {}
func (w *fakeWindow) SetKeyUpCallback(callback func(keyCode uint32))      {}
func (w *fakeWindow) SetMiddleMouseDownCallback(callback func(x, y int32)) {}
func (w *fakeWindow) SetMiddleMouseUpCallback(callback func(x, y int32))   {}
func (w *fakeWindow) SetMouseMoveCallback(callback func(x, y int32))       {}
func (w *fakeWindow) Generation() shader.Generation                       { return shader.GenerationCore }
func (w *fakeWindow) MakeCurrent()                                        {}
func (w *fakeWindow) ProcAddress(name string) unsafe.Pointer              { return nil }
func (w *fakeWindow) SwapBuffers()                                        { w.swaps++ }
func (w *fakeWindow) IsRunning() bool                                     { return !w.closed }
func (w *fakeWindow) Width() int                                          { return 800 }
func (w *fakeWindow) Height() int                                         { return 600 }

func (w *fakeWindow) Close() error {
	if w.closed {
		return errors.New("already closed")
	}
	w.closed = true
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.frames && w.IsRunning(); i++ {
		w.onUpdate()
	}
}

func newTestEngine(t *testing.T, frames int, options ...EngineBuilderOption) (*engine, *fakeWindow, *gltest.Recorder) {
	t.Helper()
	win := &fakeWindow{frames: frames}
	rec := gltest.NewRecorder()
	e, err := NewEngine(append([]EngineBuilderOption{WithWindow(win), WithGL(rec)}, options...)...)
	require.NoError(t, err)

	eng := e.(*engine)
	clock := time.Unix(0, 0)
	eng.now = func() time.Time {
		clock = clock.Add(10 * time.Millisecond)
		return clock
	}
	return eng, win, rec
}

func TestRunFrameOrder(t *testing.T) {
	e, win, rec := newTestEngine(t, 3)

	var rendered []float32
	e.SetRenderCallback(func(dt float32) {
		rendered = append(rendered, dt)
		names := rec.Names()
		assert.Equal(t, "Clear", names[len(names)-1])
	})

	require.NoError(t, e.Run())
	assert.Len(t, rendered, 3)
	assert.InDelta(t, 0.01, rendered[0], 1e-6)
	assert.Equal(t, 3, win.swaps)
	assert.Equal(t, 3, rec.Count("Clear"))
	assert.True(t, win.closed)
}

func TestTickRunsAtFixedRate(t *testing.T) {
	e, _, _ := newTestEngine(t, 0, WithTickRate(50))

	var ticks []float32
	e.SetTickCallback(func(dt float32) { ticks = append(ticks, dt) })

	e.tick(10 * time.Millisecond)
	assert.Empty(t, ticks)
	e.tick(35 * time.Millisecond)
	assert.Len(t, ticks, 2)
	assert.InDelta(t, 0.02, ticks[0], 1e-6)

	ticks = nil
	e.tick(time.Second)
	assert.Len(t, ticks, maxTicksPerFrame)
	assert.Zero(t, e.accumulator)
}

func TestResizeUpdatesViewport(t *testing.T) {
	e, win, rec := newTestEngine(t, 0)

	w, h := e.Renderer().Viewport()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	win.onResize(1024, 768)
	w, h = e.Renderer().Viewport()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
	viewports := rec.Named("Viewport")
	assert.Equal(t, []any{int32(0), int32(0), int32(1024), int32(768)}, viewports[len(viewports)-1].Args)
}

func TestQuitStopsLoop(t *testing.T) {
	e, win, _ := newTestEngine(t, 10)

	frames := 0
	e.SetRenderCallback(func(float32) {
		frames++
		if frames == 2 {
			e.Quit()
		}
	})

	require.NoError(t, e.Run())
	assert.Equal(t, 2, frames)
	assert.True(t, win.closed)
}

func TestRenderPanicIsReturned(t *testing.T) {
	e, win, _ := newTestEngine(t, 5)

	boom := errors.New("boom")
	e.SetRenderCallback(func(float32) { panic(boom) })

	err := e.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, win.closed)
}

func TestStatsResetEachFrame(t *testing.T) {
	c := config.Default()
	c.Profiling = true
	e, _, _ := newTestEngine(t, 2, WithConfig(c))
	assert.True(t, e.profilingEnabled)

	e.SetRenderCallback(func(float32) {
		assert.Zero(t, e.Renderer().Stats().DrawCalls)
		e.Renderer().CountDraw(6)
	})
	require.NoError(t, e.Run())
	assert.Zero(t, e.Renderer().Stats().DrawCalls)
}

func TestActiveScenesDrawnInOrder(t *testing.T) {
	e, win, rec := newTestEngine(t, 1)

	cube, err := model.NewModel(e.Renderer(), model.Cube(1, [6][3]float32{}))
	require.NoError(t, err)
	spinner := game_object.NewGameObject(game_object.WithModel(cube), game_object.WithRotationSpeed(0, 1, 0))

	front, err := scene.NewScene("front", camera.NewCamera(), e.Renderer(), scene.WithActive(true), scene.WithObjects(spinner))
	require.NoError(t, err)
	hidden, err := scene.NewScene("hidden", camera.NewCamera(), e.Renderer(),
		scene.WithObjects(game_object.NewGameObject(game_object.WithModel(cube))))
	require.NoError(t, err)
	e.AddScene(1, front)
	e.AddScene(0, hidden)
	assert.Len(t, e.Scenes(), 2)
	assert.Equal(t, hidden, e.Scene(0))

	e.SetTickRate(100)
	rec.Reset()
	require.NoError(t, e.Run())

	assert.Equal(t, 1, rec.Count("DrawArrays"))
	_, ry, _ := spinner.Rotation()
	assert.InDelta(t, 0.01, ry, 1e-6)

	win.onResize(400, 100)
	assert.Equal(t, float32(4), front.Camera().Aspect())

	e.RemoveScene(0)
	assert.Nil(t, e.Scene(0))
}

func TestShutdownCallbackRunsBeforeRelease(t *testing.T) {
	e, win, _ := newTestEngine(t, 2)

	frames := 0
	e.SetRenderCallback(func(float32) { frames++ })

	called := false
	e.SetShutdownCallback(func() {
		called = true
		assert.Equal(t, 2, frames)
		assert.False(t, win.closed)
	})
	require.NoError(t, e.Run())
	assert.True(t, called)
}

func TestGLLoadFailureClosesWindow(t *testing.T) {
	win := &fakeWindow{}
	_, err := NewEngine(WithWindow(win))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine: failed to load GL")
	assert.True(t, win.closed)

	var buf bytes.Buffer
	out := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(out)
	_, err = NewEngine(WithWindow(win))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "[Engine] failed to close window: already closed")
}
