package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
)

// loaderBackend imports triangle-list vertices from a model file format.
type loaderBackend interface {
	// Import reads the vertices of a model file.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - []model.Vertex: the triangle list
	//   - error: error if loading fails
	Import(path string) ([]model.Vertex, error)

	// ImportReader reads the vertices of a model from a stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - binary: true if the reader provides the binary container of the format
	//
	// Returns:
	//   - []model.Vertex: the triangle list
	//   - error: error if loading fails
	ImportReader(r io.Reader, binary bool) ([]model.Vertex, error)
}

// gltfLoaderBackend imports glTF 2.0 (.gltf) and GLB (.glb) files.
type gltfLoaderBackend struct {
	defaultColor [3]float32
}

var _ loaderBackend = &gltfLoaderBackend{}

func (b *gltfLoaderBackend) Import(path string) ([]model.Vertex, error) {
	p := &gltfParser{}
	if err := p.parseFile(path); err != nil {
		return nil, err
	}
	return p.extractVertices(b.defaultColor)
}

func (b *gltfLoaderBackend) ImportReader(r io.Reader, binary bool) ([]model.Vertex, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := &gltfParser{}
	if err := p.parse(data, binary); err != nil {
		return nil, err
	}
	return p.extractVertices(b.defaultColor)
}
