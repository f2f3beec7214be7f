package loader

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
)

// extractVertices flattens every triangle primitive of every mesh into one triangle
// list. Vertex colors come from COLOR_0, then the material's base color factor, then
// defaultColor. Node transforms are not applied; meshes keep their own space.
func (p *gltfParser) extractVertices(defaultColor [3]float32) ([]model.Vertex, error) {
	var out []model.Vertex
	for mi, mesh := range p.document.Meshes {
		for pi := range mesh.Primitives {
			prim := &mesh.Primitives[pi]
			if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
				log.Printf("[Loader] skipping mesh %d (%s) primitive %d: mode %d is not TRIANGLES", mi, mesh.Name, pi, *prim.Mode)
				continue
			}
			vs, err := p.extractPrimitive(prim, defaultColor)
			if err != nil {
				return nil, fmt.Errorf("loader: mesh %d (%s) primitive %d: %w", mi, mesh.Name, pi, err)
			}
			out = append(out, vs...)
		}
	}
	return out, nil
}

func (p *gltfParser) extractPrimitive(prim *gltfPrimitive, defaultColor [3]float32) ([]model.Vertex, error) {
	posIndex, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := p.readAccessor(posIndex)
	if err != nil {
		return nil, err
	}
	if len(positions) > 0 && len(positions[0]) != 3 {
		return nil, fmt.Errorf("POSITION is not VEC3")
	}

	base := p.materialColor(prim.Material, defaultColor)
	var colors [][]float32
	if colorIndex, ok := prim.Attributes["COLOR_0"]; ok {
		if colors, err = p.readAccessor(colorIndex); err != nil {
			return nil, err
		}
		if len(colors) != len(positions) {
			return nil, fmt.Errorf("COLOR_0 has %d elements for %d positions", len(colors), len(positions))
		}
	}

	vertex := func(i uint32) model.Vertex {
		pos := positions[i]
		v := model.Vertex{Position: [3]float32{pos[0], pos[1], pos[2]}, Color: base}
		if colors != nil {
			c := colors[i]
			v.Color = [3]float32{c[0], c[1], c[2]}
		}
		return v
	}

	if prim.Indices == nil {
		out := make([]model.Vertex, len(positions))
		for i := range positions {
			out[i] = vertex(uint32(i))
		}
		return out, nil
	}

	indices, err := p.readIndices(*prim.Indices)
	if err != nil {
		return nil, err
	}
	out := make([]model.Vertex, len(indices))
	for i, idx := range indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("index %d out of range for %d positions", idx, len(positions))
		}
		out[i] = vertex(idx)
	}
	return out, nil
}

// materialColor returns the RGB of a material's base color factor, or fallback.
func (p *gltfParser) materialColor(material *int, fallback [3]float32) [3]float32 {
	if material == nil || *material < 0 || *material >= len(p.document.Materials) {
		return fallback
	}
	pbr := p.document.Materials[*material].PbrMetallicRoughness
	if pbr == nil || len(pbr.BaseColorFactor) < 3 {
		return fallback
	}
	f := pbr.BaseColorFactor
	return [3]float32{f[0], f[1], f[2]}
}
