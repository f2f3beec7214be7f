package program

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// ErrComponentCount is returned when an attribute is declared with fewer than 1 or more than 4 components.
var ErrComponentCount = errors.New("program: attribute component count must be 1 to 4")

// ErrSourceOffset is returned for an attribute whose source offset does not fit within
// one vertex of immediate-mode data.
var ErrSourceOffset = errors.New("program: attribute source offset outside the vertex")

// ElementType is the storage type of one attribute component in a vertex buffer.
type ElementType int

const (
	Float32 ElementType = iota
	HalfFloat
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
)

// GLType returns the GL component type constant for the element type.
func (t ElementType) GLType() uint32 {
	switch t {
	case HalfFloat:
		return gl.HalfFloat
	case Int8:
		return gl.Byte
	case Uint8:
		return gl.UnsignedByte
	case Int16:
		return gl.Short
	case Uint16:
		return gl.UnsignedShort
	case Int32:
		return gl.Int
	case Uint32:
		return gl.UnsignedInt
	default:
		return gl.Float
	}
}

// Size returns the byte size of one component.
func (t ElementType) Size() int {
	return gl.TypeSize(t.GLType())
}

// AttributeSlot is the planned placement of one vertex attribute.
type AttributeSlot struct {
	// Name is the attribute identifier in the vertex shader.
	Name string
	// Components is the number of values per vertex, 1 to 4.
	Components int
	// Offset is the byte offset of the attribute within one vertex.
	Offset int
	// Divisor is the instancing divisor; 0 advances the attribute per vertex.
	Divisor int
	// SourceOffset is the index of the attribute's first value within one vertex of
	// immediate-mode float data.
	SourceOffset int
	// ElementType is the component storage type in buffered mode.
	ElementType ElementType
	// Normalize maps integer components to [0,1] or [-1,1] in buffered mode.
	Normalize bool
	// Location is the attribute location in the linked program, -1 if inactive.
	Location int32
}

// ByteLength returns the number of bytes the slot occupies in one vertex.
func (s AttributeSlot) ByteLength() int {
	return s.Components * s.ElementType.Size()
}

// AttributeOption is a functional option applied to an attribute slot during Layout.Declare.
type AttributeOption func(*AttributeSlot)

// WithDivisor sets the instancing divisor of the attribute.
func WithDivisor(divisor int) AttributeOption {
	return func(s *AttributeSlot) {
		s.Divisor = divisor
	}
}

// WithSourceOffset reads the attribute from a fixed position within each vertex of
// immediate-mode data instead of its declaration-order position.
func WithSourceOffset(offset int) AttributeOption {
	return func(s *AttributeSlot) {
		s.SourceOffset = offset
	}
}

// WithElementType sets the component storage type used in buffered mode.
func WithElementType(t ElementType) AttributeOption {
	return func(s *AttributeSlot) {
		s.ElementType = t
	}
}

// WithNormalize makes GL normalize integer components in buffered mode.
func WithNormalize() AttributeOption {
	return func(s *AttributeSlot) {
		s.Normalize = true
	}
}

// Layout plans the interleaved memory layout of a program's vertex attributes.
// Declaration order fixes both the byte layout and the default value order of
// immediate-mode data. The zero value is an empty layout.
type Layout struct {
	slots    []AttributeSlot
	stride   int
	elements int
}

// Declare appends an attribute to the layout. Its byte offset is the stride so far and,
// unless WithSourceOffset is given, its source offset is the element count so far.
//
// Parameters:
//   - name: the attribute identifier
//   - components: values per vertex, 1 to 4
//   - options: functional options (WithDivisor, WithSourceOffset, WithElementType, WithNormalize)
//
// Returns:
//   - AttributeSlot: the planned slot
//   - error: ErrComponentCount, ErrSourceOffset or a duplicate-name error
func (l *Layout) Declare(name string, components int, options ...AttributeOption) (AttributeSlot, error) {
	if components < 1 || components > 4 {
		return AttributeSlot{}, fmt.Errorf("%w: %q has %d", ErrComponentCount, name, components)
	}
	if _, ok := l.Slot(name); ok {
		return AttributeSlot{}, fmt.Errorf("%w: attribute %q", shader.ErrDuplicateVariable, name)
	}
	s := AttributeSlot{
		Name:         name,
		Components:   components,
		Offset:       l.stride,
		SourceOffset: -1,
		Location:     -1,
	}
	for _, opt := range options {
		opt(&s)
	}
	if s.SourceOffset < -1 {
		return AttributeSlot{}, fmt.Errorf("%w: %q at %d", ErrSourceOffset, name, s.SourceOffset)
	}
	if s.SourceOffset < 0 {
		s.SourceOffset = l.elements
	}
	l.stride += s.ByteLength()
	l.elements += components
	l.slots = append(l.slots, s)
	return s, nil
}

// Validate checks that every slot reads inside one vertex of immediate-mode data.
// Explicit source offsets can only be checked once every attribute is declared.
//
// Returns:
//   - error: ErrSourceOffset naming the first slot that reads past the vertex
func (l *Layout) Validate() error {
	for _, s := range l.slots {
		if s.SourceOffset+s.Components > l.elements {
			return fmt.Errorf("%w: %q reads values %d to %d of %d", ErrSourceOffset,
				s.Name, s.SourceOffset, s.SourceOffset+s.Components-1, l.elements)
		}
	}
	return nil
}

// Slots returns a copy of the planned slots in declaration order.
func (l *Layout) Slots() []AttributeSlot {
	return append([]AttributeSlot(nil), l.slots...)
}

// Slot returns the slot declared under name.
func (l *Layout) Slot(name string) (AttributeSlot, bool) {
	for _, s := range l.slots {
		if s.Name == name {
			return s, true
		}
	}
	return AttributeSlot{}, false
}

// Stride returns the byte size of one vertex.
func (l *Layout) Stride() int {
	return l.stride
}

// Elements returns the number of float values per vertex in immediate-mode data.
func (l *Layout) Elements() int {
	return l.elements
}

// Len returns the number of declared attributes.
func (l *Layout) Len() int {
	return len(l.slots)
}

func (l *Layout) setLocation(i int, loc int32) {
	l.slots[i].Location = loc
}

// bindBuffered points every active attribute into the bound array buffer.
func (l *Layout) bindBuffered(g gl.OpenGL) {
	for _, s := range l.slots {
		if s.Location < 0 {
			continue
		}
		loc := uint32(s.Location)
		g.VertexAttribPointer(loc, int32(s.Components), s.ElementType.GLType(), s.Normalize, int32(l.stride), uintptr(s.Offset))
		g.EnableVertexAttribArray(loc)
		if s.Divisor > 0 {
			g.VertexAttribDivisor(loc, uint32(s.Divisor))
		}
	}
}

func (l *Layout) unbindBuffered(g gl.OpenGL) {
	for _, s := range l.slots {
		if s.Location < 0 {
			continue
		}
		loc := uint32(s.Location)
		if s.Divisor > 0 {
			g.VertexAttribDivisor(loc, 0)
		}
		g.DisableVertexAttribArray(loc)
	}
}

// emitVertex issues one vertex of immediate-mode data. The attribute at location 0
// provokes the vertex, so it goes last.
func (l *Layout) emitVertex(g gl.OpenGL, vertex []float32) {
	provoking := -1
	for i, s := range l.slots {
		switch {
		case s.Location < 0:
		case s.Location == 0:
			provoking = i
		default:
			emitAttribute(g, s, vertex)
		}
	}
	if provoking >= 0 {
		emitAttribute(g, l.slots[provoking], vertex)
	}
}

func emitAttribute(g gl.OpenGL, s AttributeSlot, vertex []float32) {
	v := vertex[s.SourceOffset : s.SourceOffset+s.Components]
	loc := uint32(s.Location)
	switch s.Components {
	case 1:
		g.VertexAttrib1f(loc, v[0])
	case 2:
		g.VertexAttrib2f(loc, v[0], v[1])
	case 3:
		g.VertexAttrib3f(loc, v[0], v[1], v[2])
	case 4:
		g.VertexAttrib4f(loc, v[0], v[1], v[2], v[3])
	}
}
