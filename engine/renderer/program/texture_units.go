package program

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/texture"
)

// ErrTextureUnitsExhausted is returned when every texture unit already holds a live sampler.
var ErrTextureUnitsExhausted = errors.New("program: texture units exhausted")

// TextureBinding ties a sampler uniform to its texture unit and current texture.
type TextureBinding struct {
	Name     string
	Location int32
	Unit     int
	Texture  texture.Texture
}

// TextureUnits hands out texture units to sampler names, lowest free unit first.
// The zero value is ready to use.
type TextureUnits struct {
	byName map[string]int
	used   [renderer.MaxTextureUnits]bool
}

// Assign returns the unit held by name, assigning the lowest free unit on first use.
//
// Parameters:
//   - name: the sampler uniform name
//
// Returns:
//   - int: the texture unit
//   - error: ErrTextureUnitsExhausted when no unit is free
func (u *TextureUnits) Assign(name string) (int, error) {
	if unit, ok := u.byName[name]; ok {
		return unit, nil
	}
	for unit, used := range u.used {
		if used {
			continue
		}
		if u.byName == nil {
			u.byName = make(map[string]int)
		}
		u.used[unit] = true
		u.byName[name] = unit
		return unit, nil
	}
	return -1, fmt.Errorf("%w: cannot assign %q, all %d units are live", ErrTextureUnitsExhausted, name, renderer.MaxTextureUnits)
}

// Release frees the unit held by name.
func (u *TextureUnits) Release(name string) {
	unit, ok := u.byName[name]
	if !ok {
		return
	}
	u.used[unit] = false
	delete(u.byName, name)
}

// Unit returns the unit held by name.
func (u *TextureUnits) Unit(name string) (int, bool) {
	unit, ok := u.byName[name]
	return unit, ok
}

// Len returns the number of live assignments.
func (u *TextureUnits) Len() int {
	return len(u.byName)
}
