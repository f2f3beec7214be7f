package scene

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/chewxy/math32"
)

// ModelUniform is the vertex-stage mat4 uniform holding each object's model matrix.
const ModelUniform = "model"

const meshVertexBody = `void main() {
	vColor = color;
	gl_Position = projection * view * model * vec4(position, 1.0);
}
`

const meshFragmentBody = `void main() {
	fragColor = vec4(vColor, 1.0);
}
`

// Scene manages a registry of GameObjects drawn with a shared camera-aware mesh program.
// Scenes can be hot-swapped via the Active flag to switch between different views or levels.
// Like the Renderer it is bound to, a Scene is used from the context thread only.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Program returns the mesh program objects are drawn with.
	Program() program.Program

	// CullingDisabled reports whether objects outside the camera's depth range are still drawn.
	CullingDisabled() bool

	// SetCullingDisabled enables or disables depth-range culling.
	SetCullingDisabled(disabled bool)

	// Count returns the number of GameObjects in the scene's registry.
	//
	// Returns:
	//   - int: count of registered GameObjects
	Count() int

	// Add registers a GameObject and assigns it an ID if it has none.
	//
	// Panics if the object has no Model.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the assigned object ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a GameObject by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove removes a GameObject from the registry by ID. Its Model is not disposed.
	//
	// Parameters:
	//   - id: the object's unique ID
	Remove(id uint64)

	// Clear removes all objects from the scene.
	// Does not release GPU resources.
	Clear()

	// Update advances every enabled object.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Update(deltaTime float32)

	// Draw draws every enabled, unculled object in insertion order with depth testing.
	//
	// Returns:
	//   - int: the number of objects drawn
	Draw() int

	// Dispose releases the mesh program. Models are owned by the caller.
	Dispose()
}

type scene struct {
	name   string
	active bool

	registry map[uint64]game_object.GameObject
	order    []uint64
	nextID   uint64

	cam camera.Camera
	r   renderer.Renderer
	p   program.Program

	cullingDisabled bool
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene drawing through cam on r. NewScene panics if either is
// nil; building the mesh program may fail with a compile or link error.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
//   - error: an error building the mesh program
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) (Scene, error) {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		name:     name,
		cam:      cam,
		r:        r,
		registry: make(map[uint64]game_object.GameObject),
		nextID:   1,
	}

	p, err := program.NewProgram(r,
		program.WithKind(program.CameraKind{Camera: cam}),
		program.WithAttribute("position", 3),
		program.WithAttribute("color", 3),
		program.WithVarying(shader.Vec3, "vColor"),
		program.WithVertexUniform(shader.Mat4, ModelUniform),
		program.WithVertexBody(meshVertexBody),
		program.WithFragmentBody(meshFragmentBody),
		program.WithTopology(gl.Triangles),
	)
	if err != nil {
		return nil, err
	}
	s.p = p

	for _, option := range options {
		option(s)
	}
	return s, nil
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) SetName(name string) {
	s.name = name
}

func (s *scene) Active() bool {
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Program() program.Program {
	return s.p
}

func (s *scene) CullingDisabled() bool {
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.cullingDisabled = disabled
}

func (s *scene) Count() int {
	return len(s.registry)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	if obj.Model() == nil {
		panic("scene: Add requires a GameObject with a Model")
	}
	if obj.ID() == 0 {
		obj.SetID(s.nextID)
		s.nextID++
	} else if obj.ID() >= s.nextID {
		s.nextID = obj.ID() + 1
	}
	if _, exists := s.registry[obj.ID()]; !exists {
		s.order = append(s.order, obj.ID())
	}
	s.registry[obj.ID()] = obj
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	if _, exists := s.registry[id]; !exists {
		return
	}
	delete(s.registry, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *scene) Clear() {
	s.registry = make(map[uint64]game_object.GameObject)
	s.order = nil
}

func (s *scene) Update(deltaTime float32) {
	for _, id := range s.order {
		if obj := s.registry[id]; obj.Enabled() {
			obj.Update(deltaTime)
		}
	}
}

func (s *scene) Draw() int {
	view := s.cam.ViewMatrix()
	near, far := s.cam.Near(), s.cam.Far()

	g := s.r.GL()
	g.Enable(gl.DepthTest)
	defer g.Disable(gl.DepthTest)

	drawn := 0
	for _, id := range s.order {
		obj := s.registry[id]
		if !obj.Enabled() {
			continue
		}
		if !s.cullingDisabled && !inDepthRange(view, near, far, obj) {
			continue
		}
		mdl := obj.Model()
		s.p.SetMat4(ModelUniform, obj.ModelMatrix())
		mdl.Buffer().Bind()
		s.p.Begin(false)
		s.p.RenderRange(0, mdl.VertexCount())
		s.p.End()
		drawn++
	}
	return drawn
}

func (s *scene) Dispose() {
	s.p.Dispose()
}

// inDepthRange reports whether the object's bounding sphere overlaps the slab between
// the near and far planes in view space.
func inDepthRange(view [16]float32, near, far float32, obj game_object.GameObject) bool {
	x, y, z := obj.Position()
	sx, sy, sz := obj.Scale()
	radius := obj.Model().BoundingRadius() * max(math32.Abs(sx), math32.Abs(sy), math32.Abs(sz))
	depth := -(view[2]*x + view[6]*y + view[10]*z + view[14])
	return depth+radius >= near && depth-radius <= far
}
