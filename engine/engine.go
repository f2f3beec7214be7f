package engine

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

// maxTicksPerFrame bounds the fixed-rate catch-up after a long frame.
const maxTicksPerFrame = 5

// engine implements the Engine interface.
// Runs the tick and render steps on the thread that owns the GL context.
type engine struct {
	running bool
	quit    bool
	err     error

	config   config.Config
	window   window.Window
	gl       gl.OpenGL
	renderer renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate   time.Duration
	tickCallback     func(deltaTime float32)
	renderCallback   func(deltaTime float32)
	shutdownCallback func()

	scenes map[int]scene.Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	clearColor       [4]float32

	now         func() time.Time
	lastFrame   time.Time
	accumulator time.Duration
}

// Engine is the main entry point for the engine.
// It owns the window, its GL context and the Renderer, and drives the frame loop.
// Every method must be called from the thread that created the engine.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the render context programs are created against.
	//
	// Returns:
	//   - renderer.Renderer: the renderer for the window's context
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for game logic, input processing and camera updates.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the fixed tick length in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame, after the
	// active scenes are drawn and before the buffers are swapped.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetShutdownCallback registers the function called once the loop ends, while the GL
	// context is still current. Release programs, textures and buffers there.
	//
	// Parameters:
	//   - callback: function to call before the renderer and window are released
	SetShutdownCallback(callback func())

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// SetClearColor sets the color the framebuffer is cleared to each frame.
	//
	// Parameters:
	//   - r, g, b, a: color components in [0, 1]
	SetClearColor(r, g, b, a float32)

	// AddScene registers a scene at the given z-index key.
	// Active scenes are updated each tick and drawn in ascending key order each frame.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Run runs the frame loop on the calling thread until the window closes or Quit is
	// called, then releases the renderer and window. A panic raised by a callback stops
	// the loop and is returned as an error.
	//
	// Returns:
	//   - error: the recovered panic, or nil
	Run() error

	// Quit stops the frame loop after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Unless a window is supplied it creates one from the config, makes its context
// current and loads the GL bindings through it. The renderer is created last, against
// that context.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if the GL bindings cannot be loaded
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		config:         config.Default(),
		profiler:       profiler.NewProfiler(),
		engineTickRate: time.Second / 60,
		clearColor:     [4]float32{0, 0, 0, 1},
		scenes:         make(map[int]scene.Scene),
		now:            time.Now,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.config.Profiling {
		e.profilingEnabled = true
	}

	if e.window == nil {
		e.window = window.NewWindow(window.WithConfig(e.config))
	}
	if e.gl == nil {
		e.window.MakeCurrent()
		g, err := gl.Load(e.window.ProcAddress)
		if err != nil {
			if cerr := e.window.Close(); cerr != nil {
				log.Printf("[Engine] failed to close window: %v", cerr)
			}
			return nil, fmt.Errorf("engine: failed to load GL: %w", err)
		}
		e.gl = g
	}

	e.renderer = renderer.NewRenderer(e.gl,
		renderer.WithConfig(e.config),
		renderer.WithViewport(e.window.Width(), e.window.Height()),
	)

	e.window.SetResizeCallback(func(width, height int) {
		e.renderer.SetViewport(width, height)
		for _, s := range e.scenes {
			if c := s.Camera(); c != nil {
				c.SetViewport(width, height)
			}
		}
	})

	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run() error {
	e.running = true
	e.lastFrame = e.now()
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
	e.running = false

	if e.shutdownCallback != nil {
		e.shutdownCallback()
	}
	e.renderer.Dispose()
	if e.window.IsRunning() {
		if err := e.window.Close(); err != nil {
			log.Printf("[Engine] failed to close window: %v", err)
		}
	}
	return e.err
}

func (e *engine) Quit() {
	e.quit = true
}

// frame runs one iteration of the loop: due ticks, clear, render callback, swap.
// A panic inside the callbacks is recovered and ends the loop.
func (e *engine) frame() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] frame recovered from panic: %v", r)
			if err, ok := r.(error); ok {
				e.err = fmt.Errorf("engine: frame panicked: %w", err)
			} else {
				e.err = fmt.Errorf("engine: frame panicked: %v", r)
			}
			e.stop()
		}
	}()

	if e.quit {
		e.stop()
		return
	}

	start := e.now()
	elapsed := start.Sub(e.lastFrame)
	e.lastFrame = start

	e.tick(elapsed)

	e.gl.ClearColor(e.clearColor[0], e.clearColor[1], e.clearColor[2], e.clearColor[3])
	e.gl.Clear(gl.ColorBufferBit | gl.DepthBufferBit)
	for _, s := range e.activeScenes() {
		s.Draw()
	}
	if e.renderCallback != nil {
		e.renderCallback(float32(elapsed.Seconds()))
	}
	e.window.SwapBuffers()

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(e.renderer.Stats())
	}
	e.renderer.ResetStats()

	if e.quit {
		e.stop()
		return
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// tick fires the tick callback once per whole tick period accumulated, at most
// maxTicksPerFrame times; any excess is dropped.
func (e *engine) tick(elapsed time.Duration) {
	e.accumulator += elapsed
	steps := 0
	for e.accumulator >= e.engineTickRate {
		e.accumulator -= e.engineTickRate
		steps++
		if steps > maxTicksPerFrame {
			e.accumulator = 0
			break
		}
		dt := float32(e.engineTickRate.Seconds())
		for _, s := range e.activeScenes() {
			s.Update(dt)
		}
		if e.tickCallback != nil {
			e.tickCallback(dt)
		}
	}
}

// activeScenes returns the active scenes in ascending z-index order.
func (e *engine) activeScenes() []scene.Scene {
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	active := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			active = append(active, s)
		}
	}
	return active
}

// stop closes the window so ProcessMessages returns.
func (e *engine) stop() {
	e.quit = true
	if e.window.IsRunning() {
		if err := e.window.Close(); err != nil {
			log.Printf("[Engine] failed to close window: %v", err)
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	e.engineTickRate = time.Duration(float64(time.Second) / fps)
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetShutdownCallback(callback func()) {
	e.shutdownCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) SetClearColor(r, g, b, a float32) {
	e.clearColor = [4]float32{r, g, b, a}
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}
