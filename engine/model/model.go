package model

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/chewxy/math32"
)

// model is the implementation of the Model interface.
type model struct {
	name           string
	usage          uint32
	vbo            buffer.VertexBuffer
	vertexCount    int
	boundingRadius float32
}

// Model is a triangle mesh resident in a GL array buffer, laid out as position (3) and
// color (3) per vertex.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// VertexCount returns the number of vertices in the mesh.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// BoundingRadius returns the distance from the origin to the farthest vertex.
	//
	// Returns:
	//   - float32: the bounding sphere radius in model space
	BoundingRadius() float32

	// Buffer returns the array buffer holding the interleaved vertices.
	//
	// Returns:
	//   - buffer.VertexBuffer: the vertex buffer
	Buffer() buffer.VertexBuffer

	// Dispose deletes the vertex buffer.
	Dispose()
}

var _ Model = &model{}

// NewModel uploads vertices into a new array buffer.
//
// Parameters:
//   - r: the renderer owning the GL context
//   - vertices: a triangle list
//   - options: functional options (WithName, WithUsage)
//
// Returns:
//   - Model: the uploaded model
//   - error: ErrEmptyMesh, ErrIncompleteTriangle or a GL error from the upload
func NewModel(r renderer.Renderer, vertices []Vertex, options ...ModelBuilderOption) (Model, error) {
	if len(vertices) == 0 {
		return nil, ErrEmptyMesh
	}
	if len(vertices)%3 != 0 {
		return nil, ErrIncompleteTriangle
	}
	m := &model{
		name:        "mesh",
		usage:       gl.StaticDraw,
		vertexCount: len(vertices),
	}
	for _, opt := range options {
		opt(m)
	}

	for _, v := range vertices {
		d := math32.Sqrt(v.Position[0]*v.Position[0] + v.Position[1]*v.Position[1] + v.Position[2]*v.Position[2])
		m.boundingRadius = max(m.boundingRadius, d)
	}

	data := Interleave(vertices)
	m.vbo = buffer.NewVertexBuffer(r, buffer.WithUsage(m.usage), buffer.WithCapacity(len(data)))
	if err := m.vbo.Upload(data); err != nil {
		m.vbo.Dispose()
		return nil, err
	}
	return m, nil
}

func (m *model) Name() string {
	return m.name
}

func (m *model) VertexCount() int {
	return m.vertexCount
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) Buffer() buffer.VertexBuffer {
	return m.vbo
}

func (m *model) Dispose() {
	m.vbo.Dispose()
}
