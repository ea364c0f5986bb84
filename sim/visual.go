package sim

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// scale darkens the color by factor (0..1), clamping below.
func (c Color) scale(factor float64) Color {
	if factor < 0 {
		factor = 0
	}
	return Color{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
	}
}

// Rect is an axis-aligned footprint in world coordinates (meters).
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// RectAround returns a rect of the given size centered at (x, y).
func RectAround(x, y, sizeX, sizeY float64) Rect {
	return Rect{
		MinX: x - sizeX/2, MinY: y - sizeY/2,
		MaxX: x + sizeX/2, MaxY: y + sizeY/2,
	}
}

// Contains reports whether the point lies inside the footprint.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Visual is a flat-colored axis-aligned slab: a footprint at a height
// above the ground plane. It implements render.Visual.
//
// Rendered color is the base material color unless a "color" shader
// parameter has been set, in which case the override wins. Thread-safe:
// SetShaderParam runs on the render goroutine while readers (other render
// passes, stats) may run elsewhere.
type Visual struct {
	name        string
	rect        Rect
	height      float64
	castShadows bool

	mu       sync.RWMutex
	base     Color
	override *Color
	params   map[string]string // non-color uniforms, stored verbatim
}

// NewVisual creates a slab visual. height is meters above ground;
// castShadows marks it as an occluder for the directional light.
func NewVisual(name string, rect Rect, height float64, color Color, castShadows bool) *Visual {
	return &Visual{
		name:        name,
		rect:        rect,
		height:      height,
		base:        color,
		castShadows: castShadows,
	}
}

// Name returns the scoped visual name.
func (v *Visual) Name() string { return v.name }

// Height returns the slab height above ground, in meters.
func (v *Visual) Height() float64 { return v.height }

// CastShadows reports whether the slab occludes the directional light.
func (v *Visual) CastShadows() bool { return v.castShadows }

// Color returns the rendered color: the shader override if set, else the
// base material color.
func (v *Visual) Color() Color {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.override != nil {
		return *v.override
	}
	return v.base
}

// SetShaderParam sets a named shader uniform (implements render.Visual).
//
// The host is permissive, like the simulators this package stands in
// for: unknown parameter names are accepted and stored verbatim, and only
// "color" affects rendered output. A color value is a space-delimited
// vector of at least 3 floats in [0, 1] (alpha, if present, is ignored).
func (v *Visual) SetShaderParam(name, shaderType, value string) error {
	if shaderType != "vertex" && shaderType != "fragment" {
		return fmt.Errorf("sim: unknown shader type %q (want vertex or fragment)", shaderType)
	}

	if name != "color" {
		v.mu.Lock()
		if v.params == nil {
			v.params = make(map[string]string)
		}
		v.params[name] = value
		v.mu.Unlock()
		return nil
	}

	c, err := parseColorParam(value)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.override = &c
	v.mu.Unlock()
	return nil
}

// ShaderParam returns a stored non-color uniform value.
func (v *Visual) ShaderParam(name string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	value, ok := v.params[name]
	return value, ok
}

// parseColorParam decodes the host's string encoding of a color uniform:
// "r g b" or "r g b a" with components in [0, 1].
func parseColorParam(value string) (Color, error) {
	fields := strings.Fields(value)
	if len(fields) < 3 {
		return Color{}, fmt.Errorf("sim: color param %q: want at least 3 components", value)
	}

	var rgb [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return Color{}, fmt.Errorf("sim: color param %q: component %d: %w", value, i, err)
		}
		if f < 0 || f > 1 {
			return Color{}, fmt.Errorf("sim: color param %q: component %d out of range [0,1]", value, i)
		}
		rgb[i] = f
	}

	return Color{
		R: uint8(rgb[0]*255 + 0.5),
		G: uint8(rgb[1]*255 + 0.5),
		B: uint8(rgb[2]*255 + 0.5),
	}, nil
}
