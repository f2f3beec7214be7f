package sprite

import (
	"errors"
	"image/color"

	"github.com/Carmen-Shannon/oxy-gl/engine/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/texture"
)

// Batch protocol errors, raised as panics.
var (
	ErrNotBegun     = errors.New("sprite: Draw or End called outside Begin/End")
	ErrAlreadyBegun = errors.New("sprite: Begin called twice")
)

const (
	floatsPerVertex = 8
	verticesPerQuad = 6
	floatsPerSprite = floatsPerVertex * verticesPerQuad

	samplerName = "tex"
)

const vertexBody = `void main() {
	vUV = uv;
	vColor = color;
	gl_Position = position;
}
`

const fragmentBody = `void main() {
	fragColor = texture2D(tex, vUV) * vColor;
}
`

// Rect is an axis-aligned rectangle. Destination rectangles are in pixels with the
// origin at the top left; source rectangles are in texture coordinates.
type Rect struct {
	X, Y, W, H float32
}

// FullUV covers a whole texture.
var FullUV = Rect{X: 0, Y: 0, W: 1, H: 1}

type batch struct {
	r       renderer.Renderer
	program program.Program
	vbo     buffer.VertexBuffer
	white   texture.Texture

	immediate bool
	capacity  int

	begun    bool
	current  texture.Texture
	vertices []float32
	flushes  int
}

// Batch draws textured, tinted quads in pixel coordinates through a 2D program.
// Consecutive sprites sharing a texture are drawn together; a texture change or a full
// batch flushes.
type Batch interface {
	// Begin starts a batch.
	Begin()

	// Draw queues one sprite.
	//
	// Parameters:
	//   - tex: the texture to sample, or nil for a solid quad
	//   - dst: the destination rectangle in pixels
	//   - uv: the source rectangle in texture coordinates, usually FullUV
	//   - tint: multiplied with the sampled color
	//
	// Returns:
	//   - error: an error from uploading or issuing the vertices
	Draw(tex texture.Texture, dst, uv Rect, tint color.Color) error

	// End flushes the remaining sprites and finishes the batch.
	//
	// Returns:
	//   - error: an error from the final flush
	End() error

	// Flushes returns the number of flushes since the batch was created.
	Flushes() int

	// Program returns the 2D program the batch draws with.
	Program() program.Program

	// Dispose releases the program, buffer and fallback texture.
	Dispose()
}

var _ Batch = &batch{}

// NewBatch creates a sprite batch on r.
//
// Parameters:
//   - r: the renderer owning the GL context
//   - options: functional options (WithImmediate, WithCapacity)
//
// Returns:
//   - Batch: the new batch
//   - error: an error creating the program or fallback texture
func NewBatch(r renderer.Renderer, options ...BatchBuilderOption) (Batch, error) {
	b := &batch{
		r:        r,
		capacity: 1000,
	}
	for _, opt := range options {
		opt(b)
	}

	p, err := program.NewProgram(r,
		program.WithKind(program.Kind2D{}),
		program.WithAttribute("position", 2),
		program.WithAttribute("uv", 2),
		program.WithAttribute("color", 4),
		program.WithVarying(shader.Vec2, "vUV"),
		program.WithVarying(shader.Vec4, "vColor"),
		program.WithFragmentUniform(shader.Sampler2D, samplerName),
		program.WithVertexBody(vertexBody),
		program.WithFragmentBody(fragmentBody),
		program.WithTopology(gl.Triangles),
	)
	if err != nil {
		return nil, err
	}
	b.program = p

	if b.white, err = texture.NewWhite(r); err != nil {
		p.Dispose()
		return nil, err
	}
	if !b.immediate {
		b.vbo = buffer.NewVertexBuffer(r, buffer.WithUsage(gl.StreamDraw), buffer.WithCapacity(b.capacity*floatsPerSprite))
		b.vertices = make([]float32, 0, b.capacity*floatsPerSprite)
	} else {
		b.vertices = make([]float32, 0, floatsPerSprite)
	}
	return b, nil
}

func (b *batch) Begin() {
	if b.begun {
		panic(ErrAlreadyBegun)
	}
	b.begun = true
	b.current = nil
	if b.immediate {
		b.program.Begin(true)
	}
}

func (b *batch) Draw(tex texture.Texture, dst, uv Rect, tint color.Color) error {
	if !b.begun {
		panic(ErrNotBegun)
	}
	if tex == nil {
		tex = b.white
	}
	if tex != b.current {
		if err := b.switchTexture(tex); err != nil {
			return err
		}
	}
	if !b.immediate && len(b.vertices)+floatsPerSprite > cap(b.vertices) {
		if err := b.flush(); err != nil {
			return err
		}
	}

	b.vertices = appendQuad(b.vertices, dst, uv, tint)
	if b.immediate {
		err := b.program.Render(b.vertices)
		b.vertices = b.vertices[:0]
		return err
	}
	return nil
}

func (b *batch) switchTexture(tex texture.Texture) error {
	if b.immediate {
		b.current = tex
		return b.program.SetTexture(samplerName, tex)
	}
	if err := b.flush(); err != nil {
		return err
	}
	b.current = tex
	return nil
}

// flush draws the queued vertices in buffered mode.
func (b *batch) flush() error {
	if len(b.vertices) == 0 {
		return nil
	}
	if err := b.vbo.Upload(b.vertices); err != nil {
		return err
	}
	if err := b.program.SetTexture(samplerName, b.current); err != nil {
		return err
	}
	b.vbo.Bind()
	b.program.Begin(false)
	b.program.RenderRange(0, len(b.vertices)/floatsPerVertex)
	b.program.End()
	b.vertices = b.vertices[:0]
	b.flushes++
	return nil
}

func (b *batch) End() error {
	if !b.begun {
		panic(ErrNotBegun)
	}
	b.begun = false
	if b.immediate {
		b.program.End()
		b.flushes++
		return nil
	}
	return b.flush()
}

func (b *batch) Flushes() int {
	return b.flushes
}

func (b *batch) Program() program.Program {
	return b.program
}

func (b *batch) Dispose() {
	if b.program.Drawing() {
		b.program.End()
	}
	b.begun = false
	b.program.Dispose()
	b.white.Dispose()
	if b.vbo != nil {
		b.vbo.Dispose()
	}
}

// appendQuad appends two triangles covering dst, each vertex laid out as
// position (2), uv (2), color (4).
func appendQuad(out []float32, dst, uv Rect, tint color.Color) []float32 {
	cr, cg, cb, ca := normalizedColor(tint)
	x0, y0, x1, y1 := dst.X, dst.Y, dst.X+dst.W, dst.Y+dst.H
	u0, v0, u1, v1 := uv.X, uv.Y, uv.X+uv.W, uv.Y+uv.H
	return append(out,
		x0, y0, u0, v0, cr, cg, cb, ca,
		x1, y0, u1, v0, cr, cg, cb, ca,
		x1, y1, u1, v1, cr, cg, cb, ca,
		x0, y0, u0, v0, cr, cg, cb, ca,
		x1, y1, u1, v1, cr, cg, cb, ca,
		x0, y1, u0, v1, cr, cg, cb, ca,
	)
}

// normalizedColor returns c as non-premultiplied components in [0, 1]; a nil color is white.
func normalizedColor(c color.Color) (r, g, b, a float32) {
	if c == nil {
		return 1, 1, 1, 1
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return float32(n.R) / 255, float32(n.G) / 255, float32(n.B) / 255, float32(n.A) / 255
}
