package program

import (
	"fmt"
	"log"
	"sort"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/texture"
)

// program is the implementation of the Program interface.
type program struct {
	r        renderer.Renderer
	kind     Kind
	topology uint32

	fragColorName  string
	vertexBody     string
	fragmentBody   string
	uniformDecls   []declaration
	attributeDecls []attributeDeclaration
	varyingDecls   []declaration

	handle   uint32
	sources  [2]string
	layout   Layout
	units    TextureUnits
	uniforms map[string]int32
	types    map[string]shader.VarType
	textures map[string]*TextureBinding

	// deferred holds uniform writes made while another program was drawing.
	deferred []func(g gl.OpenGL)

	drawing   bool
	immediate bool
	batchOpen bool
	disposed  bool
}

// Program is a linked vertex and fragment shader pair together with its attribute
// layout, uniform cache and sampler bindings.
//
// Drawing follows Begin, any number of Render or RenderRange calls, then End. Begin
// selects the binding mode: immediate mode issues per-vertex attribute calls from a
// float slice, buffered mode points the attributes into the array buffer bound by the
// caller. Protocol violations panic with ErrNotDrawing, ErrAlreadyDrawing,
// ErrProgramBusy, ErrModeMismatch or ErrDisposed. Uniforms set while another program is
// drawing are applied by this program's next Begin.
type Program interface {
	// Begin activates the program, binds its textures and sets up the attribute binding mode.
	//
	// Parameters:
	//   - immediate: true for immediate mode, false for buffered mode
	Begin(immediate bool)

	// Render issues immediate-mode vertices. data holds whole vertices of Layout().Elements()
	// floats each, in declaration order unless attributes were given source offsets.
	//
	// Parameters:
	//   - data: interleaved vertex values
	//
	// Returns:
	//   - error: ErrPartialVertex if data ends in a partial vertex, in which case nothing is issued
	Render(data []float32) error

	// RenderRange draws count vertices starting at first from the bound array buffer.
	//
	// Parameters:
	//   - first: index of the first vertex
	//   - count: number of vertices
	RenderRange(first, count int)

	// End finishes the draw and tears down the binding mode.
	End()

	// SetFloat sets a float uniform. Unknown or inactive uniforms are ignored.
	SetFloat(name string, v float32)

	// SetVec2 sets a vec2 uniform. Unknown or inactive uniforms are ignored.
	SetVec2(name string, x, y float32)

	// SetVec3 sets a vec3 uniform. Unknown or inactive uniforms are ignored.
	SetVec3(name string, x, y, z float32)

	// SetVec4 sets a vec4 uniform. Unknown or inactive uniforms are ignored.
	SetVec4(name string, x, y, z, w float32)

	// SetMat4 sets a column-major mat4 uniform. Unknown or inactive uniforms are ignored.
	SetMat4(name string, m [16]float32)

	// SetInt sets an int uniform. Unknown or inactive uniforms are ignored.
	SetInt(name string, v int32)

	// SetUniform sets a uniform from a Go value, dispatching on its type. Textures are
	// routed to SetTexture.
	//
	// Parameters:
	//   - name: the uniform identifier
	//   - value: float32, float64, int, int32, bool, [2]float32, [3]float32, [4]float32,
	//     [16]float32, a []float32 of length 1 to 4 or 16, or a texture.Texture
	//
	// Returns:
	//   - error: ErrUnsupportedValue for other types
	SetUniform(name string, value any) error

	// SetTexture sets the texture sampled through a sampler uniform. While drawing it is
	// bound at once, suspending an open immediate-mode batch around the bind; otherwise
	// it is bound by the next Begin.
	//
	// Parameters:
	//   - name: the sampler uniform identifier
	//   - tex: the texture, or nil to clear the binding
	//
	// Returns:
	//   - error: ErrUnknownSampler if name is not a declared sampler
	SetTexture(name string, tex texture.Texture) error

	// Dispose ends a pending draw and deletes the GL program. Further use panics with ErrDisposed.
	Dispose()

	// Renderer returns the renderer the program was created on.
	Renderer() renderer.Renderer

	// Handle returns the GL program name.
	Handle() uint32

	// Stride returns the byte size of one vertex in buffered mode.
	Stride() int

	// Layout returns the attribute layout.
	Layout() *Layout

	// Attributes returns the attribute slots in declaration order.
	Attributes() []AttributeSlot

	// Textures returns the sampler bindings ordered by unit.
	Textures() []TextureBinding

	// UniformLocation returns the cached location of a uniform, -1 if it is inactive or unknown.
	UniformLocation(name string) int32

	// Source returns the generated source of a stage.
	Source(stage shader.Stage) string

	// Topology returns the primitive topology.
	Topology() uint32

	// Drawing reports whether the program is between Begin and End.
	Drawing() bool

	// Immediate reports whether the current or last draw used immediate mode.
	Immediate() bool

	// Disposed reports whether Dispose has been called.
	Disposed() bool
}

var _ Program = &program{}

// NewProgram generates, compiles and links a program on r. Kind construction hooks run
// before the sources are generated and OnCreate runs once the program is linked. Any
// failure deletes the GL objects created so far.
//
// Parameters:
//   - r: the renderer owning the GL context
//   - options: functional options describing the program
//
// Returns:
//   - Program: the linked program
//   - error: a declaration error, *CompileError, *LinkError or *renderer.GLError
func NewProgram(r renderer.Renderer, options ...ProgramBuilderOption) (Program, error) {
	p := &program{
		r:        r,
		kind:     BaseKind{},
		topology: gl.Triangles,
		uniforms: make(map[string]int32),
		types:    make(map[string]shader.VarType),
		textures: make(map[string]*TextureBinding),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.fragColorName == "" {
		p.fragColorName = r.FragColorName()
	}

	vs, fs, err := p.construct()
	if err != nil {
		return nil, err
	}
	if err := p.link(); err != nil {
		return nil, err
	}
	if err := p.populate(vs, fs); err != nil {
		p.release()
		return nil, err
	}
	if err := p.kind.OnCreate(p); err != nil {
		p.release()
		return nil, fmt.Errorf("program: kind OnCreate: %w", err)
	}

	log.Printf("[Program] linked program %d (%s): %d attributes, stride %d, %d samplers",
		p.handle, r.Generation(), p.layout.Len(), p.layout.Stride(), len(p.textures))
	return p, nil
}

// construct builds both stages and generates their sources.
func (p *program) construct() (vs, fs shader.Builder, err error) {
	gen := p.r.Generation()
	shared := []shader.BuilderOption{shader.WithGeneration(gen), shader.WithFragColorName(p.fragColorName)}

	vertexOptions := shared
	if p.kind.TwoD() {
		vertexOptions = append(vertexOptions[:len(vertexOptions):len(vertexOptions)], shader.WithTwoD())
	}
	vs = shader.NewBuilder(shader.StageVertex, vertexOptions...)
	for _, a := range p.attributeDecls {
		if _, err := p.layout.Declare(a.name, a.components, a.options...); err != nil {
			return nil, nil, err
		}
		typ, _ := shader.VectorType(a.components)
		if err := vs.AddAttribute(typ, a.name); err != nil {
			return nil, nil, err
		}
	}
	if err := p.layout.Validate(); err != nil {
		return nil, nil, err
	}
	for _, v := range p.varyingDecls {
		if err := vs.AddVarying(v.typ, v.name); err != nil {
			return nil, nil, err
		}
	}
	if err := p.declareUniforms(vs); err != nil {
		return nil, nil, err
	}
	if err := p.kind.ConstructVertexShader(vs); err != nil {
		return nil, nil, fmt.Errorf("program: kind vertex construction: %w", err)
	}
	vs.SetBody(p.vertexBody)

	fs = shader.NewBuilder(shader.StageFragment, append(shared[:len(shared):len(shared)], shader.WithInterface(vs.Interface()))...)
	if err := p.declareUniforms(fs); err != nil {
		return nil, nil, err
	}
	if err := p.kind.ConstructFragmentShader(fs); err != nil {
		return nil, nil, fmt.Errorf("program: kind fragment construction: %w", err)
	}
	fs.SetBody(p.fragmentBody)

	if p.sources[shader.StageVertex], err = vs.Generate(); err != nil {
		return nil, nil, err
	}
	if p.sources[shader.StageFragment], err = fs.Generate(); err != nil {
		return nil, nil, err
	}
	return vs, fs, nil
}

func (p *program) declareUniforms(b shader.Builder) error {
	for _, u := range p.uniformDecls {
		if u.stage != b.Stage() {
			continue
		}
		if err := b.AddUniform(u.typ, u.name); err != nil {
			return err
		}
	}
	return nil
}

// link compiles both stages and links them. The shader objects are deleted once linked.
func (p *program) link() error {
	g := p.r.GL()
	vertex, err := p.compile(shader.StageVertex)
	if err != nil {
		return err
	}
	fragment, err := p.compile(shader.StageFragment)
	if err != nil {
		g.DeleteShader(vertex)
		return err
	}

	p.handle = g.CreateProgram()
	g.AttachShader(p.handle, vertex)
	g.AttachShader(p.handle, fragment)
	g.LinkProgram(p.handle)

	var status int32
	g.GetProgramiv(p.handle, gl.LinkStatus, &status)
	var linkErr error
	if status == gl.False {
		info := g.GetProgramInfoLog(p.handle)
		log.Printf("[Program] link failed: %s", info)
		linkErr = &LinkError{Log: info}
	} else {
		linkErr = p.r.Check("LinkProgram")
	}

	g.DetachShader(p.handle, vertex)
	g.DetachShader(p.handle, fragment)
	g.DeleteShader(vertex)
	g.DeleteShader(fragment)
	if linkErr != nil {
		g.DeleteProgram(p.handle)
		p.handle = 0
		return linkErr
	}
	return nil
}

func (p *program) compile(stage shader.Stage) (uint32, error) {
	g := p.r.GL()
	xtype := uint32(gl.VertexShader)
	if stage == shader.StageFragment {
		xtype = gl.FragmentShader
	}
	source := p.sources[stage]

	s := g.CreateShader(xtype)
	g.ShaderSource(s, source)
	g.CompileShader(s)

	var status int32
	g.GetShaderiv(s, gl.CompileStatus, &status)
	if status == gl.False {
		info := g.GetShaderInfoLog(s)
		g.DeleteShader(s)
		log.Printf("[Program] %s shader compile failed: %s", stage, info)
		return 0, &CompileError{Stage: stage, Log: info, Source: source}
	}
	if err := p.r.Check("CompileShader"); err != nil {
		g.DeleteShader(s)
		return 0, err
	}
	return s, nil
}

// populate fetches attribute locations and sorts the declared uniforms into sampler
// bindings and the plain location cache. Each sampler's unit is written once here.
func (p *program) populate(vs, fs shader.Builder) error {
	g := p.r.GL()
	for i, s := range p.layout.slots {
		p.layout.setLocation(i, g.GetAttribLocation(p.handle, s.Name))
	}

	for _, b := range []shader.Builder{vs, fs} {
		for _, u := range b.Uniforms() {
			if _, ok := p.types[u.Name]; ok {
				continue
			}
			p.types[u.Name] = u.Type
			loc := g.GetUniformLocation(p.handle, u.Name)
			if !u.Type.IsSampler() {
				p.uniforms[u.Name] = loc
				continue
			}
			unit, err := p.units.Assign(u.Name)
			if err != nil {
				return err
			}
			p.textures[u.Name] = &TextureBinding{Name: u.Name, Location: loc, Unit: unit}
			if loc >= 0 {
				p.r.UseProgram(p.handle)
				g.Uniform1i(loc, int32(unit))
			}
		}
	}
	return p.r.Check("populate uniforms")
}

// release deletes the GL program without the draw protocol checks of Dispose.
func (p *program) release() {
	if p.handle == 0 {
		return
	}
	if p.r.ActiveProgram() == p.handle {
		p.r.UseProgram(0)
	}
	p.r.ForgetProgram(p.handle)
	p.r.GL().DeleteProgram(p.handle)
	p.handle = 0
}

func (p *program) mustBeLive() {
	if p.disposed {
		panic(ErrDisposed)
	}
}

func (p *program) Begin(immediate bool) {
	p.mustBeLive()
	if p.drawing {
		panic(ErrAlreadyDrawing)
	}
	if other := p.r.DrawingProgram(); other != 0 && other != p.handle {
		panic(ErrProgramBusy)
	}
	g := p.r.GL()
	p.r.UseProgram(p.handle)
	for _, b := range p.textures {
		if b.Texture != nil {
			b.Texture.Bind(b.Unit)
		}
	}
	for _, fn := range p.deferred {
		fn(g)
	}
	p.deferred = nil
	p.immediate = immediate
	p.kind.OnBegin(p)

	if !immediate {
		p.layout.bindBuffered(g)
	}
	// GetError is invalid inside a primitive batch, so check before opening it
	if err := p.r.Check("Begin"); err != nil {
		if !immediate {
			p.layout.unbindBuffered(g)
		}
		panic(err)
	}
	p.drawing = true
	p.r.SetDrawingProgram(p.handle)
	if immediate {
		g.Begin(p.topology)
		p.batchOpen = true
	}
}

func (p *program) Render(data []float32) error {
	p.mustBeLive()
	if !p.drawing {
		panic(ErrNotDrawing)
	}
	if !p.immediate {
		panic(ErrModeMismatch)
	}
	n := p.layout.Elements()
	if n == 0 || len(data)%n != 0 {
		return fmt.Errorf("%w: %d values, %d per vertex", ErrPartialVertex, len(data), n)
	}
	g := p.r.GL()
	for v := 0; v < len(data); v += n {
		p.layout.emitVertex(g, data[v:v+n])
	}
	p.r.CountDraw(len(data) / n)
	return nil
}

func (p *program) RenderRange(first, count int) {
	p.mustBeLive()
	if !p.drawing {
		panic(ErrNotDrawing)
	}
	if p.immediate {
		panic(ErrModeMismatch)
	}
	p.r.GL().DrawArrays(p.topology, int32(first), int32(count))
	p.r.CountDraw(count)
	p.r.MustCheck("DrawArrays")
}

func (p *program) End() {
	p.mustBeLive()
	if !p.drawing {
		panic(ErrNotDrawing)
	}
	if p.immediate {
		p.r.GL().End()
		p.batchOpen = false
	} else {
		p.layout.unbindBuffered(p.r.GL())
	}
	p.kind.OnEnd(p)
	p.drawing = false
	p.r.SetDrawingProgram(0)
	p.r.MustCheck("End")
}

// state runs fn with the program active and no primitive batch open, reopening a
// suspended immediate-mode batch afterwards. While another program is drawing, fn is
// deferred to the next Begin.
func (p *program) state(fn func(g gl.OpenGL)) {
	if other := p.r.DrawingProgram(); other != 0 && other != p.handle {
		p.deferred = append(p.deferred, fn)
		return
	}
	g := p.r.GL()
	suspended := p.batchOpen
	if suspended {
		g.End()
		p.batchOpen = false
	}
	p.r.UseProgram(p.handle)
	fn(g)
	if suspended {
		g.Begin(p.topology)
		p.batchOpen = true
	}
}

// location returns the cached uniform location, querying GL once for undeclared names.
// Sampler uniforms report -1: their units are fixed at creation.
func (p *program) location(name string) int32 {
	p.mustBeLive()
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	if _, ok := p.textures[name]; ok {
		return -1
	}
	loc := p.r.GL().GetUniformLocation(p.handle, name)
	p.uniforms[name] = loc
	return loc
}

func (p *program) SetFloat(name string, v float32) {
	if loc := p.location(name); loc >= 0 {
		p.state(func(g gl.OpenGL) { g.Uniform1f(loc, v) })
	}
}

func (p *program) SetVec2(name string, x, y float32) {
	if loc := p.location(name); loc >= 0 {
		p.state(func(g gl.OpenGL) { g.Uniform2f(loc, x, y) })
	}
}

func (p *program) SetVec3(name string, x, y, z float32) {
	if loc := p.location(name); loc >= 0 {
		p.state(func(g gl.OpenGL) { g.Uniform3f(loc, x, y, z) })
	}
}

func (p *program) SetVec4(name string, x, y, z, w float32) {
	if loc := p.location(name); loc >= 0 {
		p.state(func(g gl.OpenGL) { g.Uniform4f(loc, x, y, z, w) })
	}
}

func (p *program) SetMat4(name string, m [16]float32) {
	if loc := p.location(name); loc >= 0 {
		p.state(func(g gl.OpenGL) { g.UniformMatrix4fv(loc, 1, false, &m[0]) })
	}
}

func (p *program) SetInt(name string, v int32) {
	if loc := p.location(name); loc >= 0 {
		p.state(func(g gl.OpenGL) { g.Uniform1i(loc, v) })
	}
}

func (p *program) SetUniform(name string, value any) error {
	switch v := value.(type) {
	case float32:
		p.SetFloat(name, v)
	case float64:
		p.SetFloat(name, float32(v))
	case int:
		p.SetInt(name, int32(v))
	case int32:
		p.SetInt(name, v)
	case bool:
		b := int32(0)
		if v {
			b = 1
		}
		p.SetInt(name, b)
	case [2]float32:
		p.SetVec2(name, v[0], v[1])
	case [3]float32:
		p.SetVec3(name, v[0], v[1], v[2])
	case [4]float32:
		p.SetVec4(name, v[0], v[1], v[2], v[3])
	case [16]float32:
		p.SetMat4(name, v)
	case []float32:
		return p.setSlice(name, v)
	case texture.Texture:
		return p.SetTexture(name, v)
	default:
		return fmt.Errorf("%w: %T for %q", ErrUnsupportedValue, value, name)
	}
	return nil
}

func (p *program) setSlice(name string, v []float32) error {
	switch len(v) {
	case 1:
		p.SetFloat(name, v[0])
	case 2:
		p.SetVec2(name, v[0], v[1])
	case 3:
		p.SetVec3(name, v[0], v[1], v[2])
	case 4:
		p.SetVec4(name, v[0], v[1], v[2], v[3])
	case 16:
		p.SetMat4(name, [16]float32(v))
	default:
		return fmt.Errorf("%w: []float32 of length %d for %q", ErrUnsupportedValue, len(v), name)
	}
	return nil
}

func (p *program) SetTexture(name string, tex texture.Texture) error {
	p.mustBeLive()
	b, ok := p.textures[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSampler, name)
	}
	previous := b.Texture
	b.Texture = tex
	if !p.drawing {
		return nil
	}
	if tex == nil {
		if previous != nil && p.r.BoundTexture(b.Unit) == previous.Handle() {
			p.state(func(gl.OpenGL) { p.r.BindTexture(b.Unit, previous.Target(), 0) })
		}
		return nil
	}
	if p.r.BoundTexture(b.Unit) == tex.Handle() {
		return nil
	}
	p.state(func(gl.OpenGL) { tex.Bind(b.Unit) })
	return nil
}

func (p *program) Dispose() {
	if p.disposed {
		return
	}
	if p.drawing {
		p.End()
	}
	for name := range p.textures {
		p.units.Release(name)
	}
	log.Printf("[Program] disposing program %d", p.handle)
	p.release()
	p.disposed = true
}

func (p *program) Renderer() renderer.Renderer {
	return p.r
}

func (p *program) Handle() uint32 {
	return p.handle
}

func (p *program) Stride() int {
	return p.layout.Stride()
}

func (p *program) Layout() *Layout {
	return &p.layout
}

func (p *program) Attributes() []AttributeSlot {
	return p.layout.Slots()
}

func (p *program) Textures() []TextureBinding {
	out := make([]TextureBinding, 0, len(p.textures))
	for _, b := range p.textures {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Unit < out[j].Unit })
	return out
}

func (p *program) UniformLocation(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (p *program) Source(stage shader.Stage) string {
	if stage != shader.StageVertex && stage != shader.StageFragment {
		return ""
	}
	return p.sources[stage]
}

func (p *program) Topology() uint32 {
	return p.topology
}

func (p *program) Drawing() bool {
	return p.drawing
}

func (p *program) Immediate() bool {
	return p.immediate
}

func (p *program) Disposed() bool {
	return p.disposed
}
