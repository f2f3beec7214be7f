package loader

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
)

// ErrUnsupportedFormat is returned for file extensions no backend handles.
var ErrUnsupportedFormat = errors.New("loader: unsupported model format")

// loader is the implementation of the Loader interface.
type loader struct {
	renderer     renderer.Renderer
	modelCache   map[string]model.Model
	defaultColor [3]float32
	usage        []model.ModelBuilderOption
}

// Loader imports model files into GL-resident Models and caches them by path or name.
// Only glTF 2.0 (.gltf, .glb) is supported; the triangle primitives of every mesh are
// merged into one Model.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: ErrUnsupportedFormat, a parse error or an upload error
	Load(path string) (model.Model, error)

	// LoadReader imports a glTF model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: a parse error or an upload error
	LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model

	// Dispose releases every cached model and empties the cache.
	Dispose()
}

var _ Loader = &loader{}

// NewLoader creates a Loader uploading models on r.
//
// Parameters:
//   - r: the renderer owning the GL context
//   - options: functional options (WithDefaultColor, WithModel)
//
// Returns:
//   - Loader: the new loader
func NewLoader(r renderer.Renderer, options ...LoaderBuilderOption) Loader {
	l := &loader{
		renderer:     r,
		modelCache:   make(map[string]model.Model),
		defaultColor: [3]float32{1, 1, 1},
	}
	for _, option := range options {
		option(l)
	}
	return l
}

// backendFor picks the backend for a file extension.
func (l *loader) backendFor(path string) (loaderBackend, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return &gltfLoaderBackend{defaultColor: l.defaultColor}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

func (l *loader) Load(path string) (model.Model, error) {
	if m, ok := l.modelCache[path]; ok {
		return m, nil
	}
	backend, err := l.backendFor(path)
	if err != nil {
		return nil, err
	}
	vertices, err := backend.Import(path)
	if err != nil {
		return nil, err
	}
	return l.upload(path, vertices)
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error) {
	if m, ok := l.modelCache[name]; ok {
		return m, nil
	}
	backend := &gltfLoaderBackend{defaultColor: l.defaultColor}
	vertices, err := backend.ImportReader(r, isGLB)
	if err != nil {
		return nil, err
	}
	return l.upload(name, vertices)
}

func (l *loader) upload(name string, vertices []model.Vertex) (model.Model, error) {
	m, err := model.NewModel(l.renderer, vertices, append([]model.ModelBuilderOption{model.WithName(name)}, l.usage...)...)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", name, err)
	}
	l.modelCache[name] = m
	log.Printf("[Loader] loaded %s: %d vertices", name, m.VertexCount())
	return m, nil
}

func (l *loader) Get(name string) model.Model {
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	cp := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		cp[k] = v
	}
	return cp
}

func (l *loader) Dispose() {
	for _, m := range l.modelCache {
		m.Dispose()
	}
	l.modelCache = make(map[string]model.Model)
}
