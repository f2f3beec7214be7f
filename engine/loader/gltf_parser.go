package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

var (
	errInvalidGLTFVersion = errors.New("loader: invalid glTF version: must be 2.0")
	errInvalidGLBMagic    = errors.New("loader: invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("loader: invalid GLB version: must be 2")
	errMissingJSONChunk   = errors.New("loader: GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("loader: invalid buffer URI")
	errBufferSizeMismatch = errors.New("loader: buffer size mismatch")
	errAccessorOutOfRange = errors.New("loader: accessor reads past its buffer")
)

// gltfParser loads a glTF or GLB document with its buffers and reads accessors as
// float32 components.
type gltfParser struct {
	baseDir  string
	document *gltfDocument
	glbChunk []byte
}

// parseFile loads and parses a .gltf or .glb file; GLB is detected by extension or magic.
func (p *gltfParser) parseFile(path string) error {
	p.baseDir = filepath.Dir(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loader: failed to read %s: %w", path, err)
	}
	isGLB := strings.EqualFold(filepath.Ext(path), ".glb") ||
		(len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic)
	return p.parse(data, isGLB)
}

func (p *gltfParser) parse(data []byte, isGLB bool) error {
	jsonData := data
	if isGLB {
		var err error
		if jsonData, p.glbChunk, err = splitGLB(data); err != nil {
			return err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("loader: failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if err := p.loadBuffers(&doc); err != nil {
		return err
	}
	p.document = &doc
	return nil
}

// splitGLB returns the JSON and BIN chunks of a GLB container.
func splitGLB(data []byte) (jsonChunk, binChunk []byte, err error) {
	r := bytes.NewReader(data)
	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, fmt.Errorf("loader: failed to read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return nil, nil, errInvalidGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return nil, nil, errInvalidGLBVersion
	}

	for {
		var chunk gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, fmt.Errorf("loader: failed to read GLB chunk header: %w", err)
		}
		body := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, nil, fmt.Errorf("loader: failed to read GLB chunk: %w", err)
		}
		switch chunk.ChunkType {
		case gltfGLBChunkJSON:
			jsonChunk = body
		case gltfGLBChunkBIN:
			binChunk = body
		}
	}
	if jsonChunk == nil {
		return nil, nil, errMissingJSONChunk
	}
	return jsonChunk, binChunk, nil
}

// loadBuffers resolves every buffer from the GLB binary chunk, a data URI or a file
// relative to the document.
func (p *gltfParser) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && p.glbChunk != nil:
			buf.Data = p.glbChunk
		case buf.URI == "":
			return fmt.Errorf("loader: buffer %d has no URI and no GLB binary chunk", i)
		case strings.HasPrefix(buf.URI, "data:"):
			data, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		default:
			data, err := os.ReadFile(filepath.Join(p.baseDir, buf.URI))
			if err != nil {
				return fmt.Errorf("loader: failed to load buffer file %q: %w", buf.URI, err)
			}
			buf.Data = data
		}
		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// decodeDataURI decodes data:[<mediatype>];base64,<data>.
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return nil, errInvalidBufferURI
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("loader: unsupported data URI encoding: %s", header)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to decode base64: %w", err)
	}
	return data, nil
}

// componentCount returns the number of components of an accessor type.
func componentCount(accessorType string) int {
	switch accessorType {
	case "SCALAR":
		return 1
	case "VEC2":
		return 2
	case "VEC3":
		return 3
	case "VEC4", "MAT2":
		return 4
	case "MAT3":
		return 9
	case "MAT4":
		return 16
	}
	return 0
}

func componentSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	}
	return 0
}

// accessorView locates an accessor's elements in its buffer.
type accessorView struct {
	acc    *gltfAccessor
	data   []byte
	base   int
	stride int
	n      int
	size   int
}

func (v accessorView) component(i, c int) []byte {
	return v.data[v.base+i*v.stride+c*v.size:]
}

func (p *gltfParser) view(index int) (accessorView, error) {
	doc := p.document
	if index < 0 || index >= len(doc.Accessors) {
		return accessorView{}, fmt.Errorf("loader: accessor index %d out of range", index)
	}
	acc := &doc.Accessors[index]
	if acc.Sparse != nil {
		return accessorView{}, errors.New("loader: sparse accessors are not supported")
	}
	if acc.BufferView == nil {
		return accessorView{}, errors.New("loader: accessor has no bufferView")
	}

	v := accessorView{acc: acc, n: componentCount(acc.Type), size: componentSize(acc.ComponentType)}
	if v.n == 0 || v.size == 0 {
		return accessorView{}, fmt.Errorf("loader: unsupported accessor %s/%d", acc.Type, acc.ComponentType)
	}
	bv := &doc.BufferViews[*acc.BufferView]
	v.data = doc.Buffers[bv.Buffer].Data
	v.stride = v.n * v.size
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		v.stride = *bv.ByteStride
	}
	v.base = bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 && v.base+(acc.Count-1)*v.stride+v.n*v.size > len(v.data) {
		return accessorView{}, errAccessorOutOfRange
	}
	return v, nil
}

// readAccessor returns the accessor's elements as float32 components. Normalized
// integer components are mapped to [0, 1] or [-1, 1]; other integers convert as-is.
func (p *gltfParser) readAccessor(index int) ([][]float32, error) {
	v, err := p.view(index)
	if err != nil {
		return nil, err
	}
	out := make([][]float32, v.acc.Count)
	for i := range out {
		elem := make([]float32, v.n)
		for c := range elem {
			elem[c] = decodeComponent(v.component(i, c), v.acc.ComponentType, v.acc.Normalized)
		}
		out[i] = elem
	}
	return out, nil
}

func decodeComponent(b []byte, componentType int, normalized bool) float32 {
	le := binary.LittleEndian
	switch componentType {
	case gltfComponentTypeFloat:
		return math.Float32frombits(le.Uint32(b))
	case gltfComponentTypeUnsignedByte:
		if normalized {
			return float32(b[0]) / 255
		}
		return float32(b[0])
	case gltfComponentTypeByte:
		if normalized {
			return max(float32(int8(b[0]))/127, -1)
		}
		return float32(int8(b[0]))
	case gltfComponentTypeUnsignedShort:
		if normalized {
			return float32(le.Uint16(b)) / 65535
		}
		return float32(le.Uint16(b))
	case gltfComponentTypeShort:
		if normalized {
			return max(float32(int16(le.Uint16(b)))/32767, -1)
		}
		return float32(int16(le.Uint16(b)))
	case gltfComponentTypeUnsignedInt:
		return float32(le.Uint32(b))
	}
	return 0
}

// readIndices reads an unsigned SCALAR accessor as uint32 values.
func (p *gltfParser) readIndices(index int) ([]uint32, error) {
	v, err := p.view(index)
	if err != nil {
		return nil, err
	}
	if v.n != 1 {
		return nil, fmt.Errorf("loader: index accessor is %s", v.acc.Type)
	}
	le := binary.LittleEndian
	out := make([]uint32, v.acc.Count)
	for i := range out {
		b := v.component(i, 0)
		switch v.acc.ComponentType {
		case gltfComponentTypeUnsignedByte:
			out[i] = uint32(b[0])
		case gltfComponentTypeUnsignedShort:
			out[i] = uint32(le.Uint16(b))
		case gltfComponentTypeUnsignedInt:
			out[i] = le.Uint32(b)
		default:
			return nil, fmt.Errorf("loader: unsupported index component type: %d", v.acc.ComponentType)
		}
	}
	return out, nil
}
