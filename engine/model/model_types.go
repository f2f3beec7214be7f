package model

import "errors"

// FloatsPerVertex is the interleaved layout of a mesh vertex: position (3), color (3).
const FloatsPerVertex = 6

// ErrEmptyMesh is returned by NewModel when no vertices are given.
var ErrEmptyMesh = errors.New("model: mesh has no vertices")

// ErrIncompleteTriangle is returned by NewModel when the vertex count is not a multiple of three.
var ErrIncompleteTriangle = errors.New("model: vertex count is not a multiple of 3")

// Vertex is a single mesh vertex.
type Vertex struct {
	// Position is the model-space position.
	Position [3]float32

	// Color is the linear RGB color in [0, 1].
	Color [3]float32
}

// Interleave packs vertices into the FloatsPerVertex layout.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []float32: position and color of each vertex in order
func Interleave(vertices []Vertex) []float32 {
	out := make([]float32, 0, len(vertices)*FloatsPerVertex)
	for _, v := range vertices {
		out = append(out, v.Position[0], v.Position[1], v.Position[2], v.Color[0], v.Color[1], v.Color[2])
	}
	return out
}

// Cube returns the 36 vertices of an axis-aligned cube of edge size centered on the
// origin, wound counter-clockwise, one color per face in the order +X, -X, +Y, -Y, +Z, -Z.
//
// Parameters:
//   - size: the edge length
//   - faces: the face colors
//
// Returns:
//   - []Vertex: the triangle list
func Cube(size float32, faces [6][3]float32) []Vertex {
	h := size / 2
	corners := [8][3]float32{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	quads := [6][4]int{
		{1, 2, 6, 5}, // +X
		{0, 4, 7, 3}, // -X
		{3, 7, 6, 2}, // +Y
		{0, 1, 5, 4}, // -Y
		{4, 5, 6, 7}, // +Z
		{0, 3, 2, 1}, // -Z
	}
	out := make([]Vertex, 0, 36)
	for f, q := range quads {
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			out = append(out, Vertex{Position: corners[q[i]], Color: faces[f]})
		}
	}
	return out
}
