package sim

import (
	"fmt"
	"sync"

	"github.com/e7canasta/framecheck/render"
)

// defaultShadowAttenuation is the brightness multiplier applied to
// shadowed ground pixels when a world does not configure one.
const defaultShadowAttenuation = 0.5

// Scene is the visual state of a world: named slab visuals over a ground
// plane, lit by one directional top-down light. Implements
// render.SceneLookup.
//
// Thread-safety: visual registration happens during world construction
// and model spawning; rendering reads under RLock. Individual visuals
// guard their own mutable state.
type Scene struct {
	mu                sync.RWMutex
	ground            Color
	shadowAttenuation float64
	visuals           map[string]*Visual
	order             []string // insertion order, for deterministic iteration
}

// NewScene creates a scene with the given ground color and the default
// shadow attenuation.
func NewScene(ground Color) *Scene {
	return &Scene{
		ground:            ground,
		shadowAttenuation: defaultShadowAttenuation,
		visuals:           make(map[string]*Visual),
	}
}

// SetShadowAttenuation sets the brightness multiplier for shadowed ground
// pixels. Must be in [0, 1].
func (s *Scene) SetShadowAttenuation(factor float64) error {
	if factor < 0 || factor > 1 {
		return fmt.Errorf("sim: shadow attenuation %.3f out of range [0,1]", factor)
	}
	s.mu.Lock()
	s.shadowAttenuation = factor
	s.mu.Unlock()
	return nil
}

// AddVisual registers a visual. Names are unique within a scene.
func (s *Scene) AddVisual(v *Visual) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.visuals[v.Name()]; exists {
		return fmt.Errorf("sim: visual %q already in scene", v.Name())
	}
	s.visuals[v.Name()] = v
	s.order = append(s.order, v.Name())
	return nil
}

// VisualByName resolves a visual (implements render.SceneLookup).
func (s *Scene) VisualByName(name string) (render.Visual, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.visuals[name]
	if !ok {
		return nil, false
	}
	return v, true
}

// visualCount returns the number of registered visuals.
func (s *Scene) visualCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.visuals)
}

// colorAt returns the color seen looking straight down at world point
// (x, y) from eyeHeight.
//
// Surface resolution: the topmost visual below the eye whose footprint
// covers the point, else the ground plane. The surface is shadowed when
// any shadow-casting visual strictly above it covers the point (the
// light is directional, straight down), in which case its color is
// scaled by the shadow attenuation.
func (s *Scene) colorAt(x, y, eyeHeight float64) Color {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var top *Visual
	for _, name := range s.order {
		v := s.visuals[name]
		if v.height >= eyeHeight || !v.rect.Contains(x, y) {
			continue
		}
		if top == nil || v.height > top.height {
			top = v
		}
	}

	surfaceHeight := 0.0
	color := s.ground
	if top != nil {
		surfaceHeight = top.height
		color = top.Color()
	}

	for _, name := range s.order {
		v := s.visuals[name]
		if v.castShadows && v.height > surfaceHeight && v.rect.Contains(x, y) {
			return color.scale(s.shadowAttenuation)
		}
	}
	return color
}
