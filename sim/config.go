package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WorldConfig is the YAML world description.
type WorldConfig struct {
	Name              string         `yaml:"name"`
	TickRateHz        float64        `yaml:"tick_rate_hz"`       // default 50
	MetersPerPixel    float64        `yaml:"meters_per_pixel"`   // default 0.01
	EyeHeight         float64        `yaml:"eye_height"`         // default 1.0
	ShadowAttenuation *float64       `yaml:"shadow_attenuation"` // default 0.5
	Ground            GroundConfig   `yaml:"ground"`
	Models            []ModelConfig  `yaml:"models"`
	Cameras           []CameraConfig `yaml:"cameras"`
	Plugins           []PluginConfig `yaml:"plugins"`
}

// GroundConfig describes the ground plane.
type GroundConfig struct {
	Color []int `yaml:"color"` // [r, g, b], 0-255
}

// ModelConfig describes one slab model and its visual.
type ModelConfig struct {
	Name string `yaml:"name"`
	// Visual is the scoped visual name; defaults to
	// "<name>::link::visual".
	Visual      string     `yaml:"visual"`
	Center      [2]float64 `yaml:"center"` // footprint center [x, y], meters
	Size        [2]float64 `yaml:"size"`   // footprint size [x, y], meters
	Height      float64    `yaml:"height"` // meters above ground
	Color       []int      `yaml:"color"`  // [r, g, b], 0-255
	CastShadows bool       `yaml:"cast_shadows"`
}

// CameraConfig describes one camera sensor.
type CameraConfig struct {
	Model    string     `yaml:"model"`
	Sensor   string     `yaml:"sensor"`
	Position [2]float64 `yaml:"position"` // [x, y], meters
	Width    int        `yaml:"width"`
	Height   int        `yaml:"height"`
}

// PluginConfig names a registered world plugin and carries its
// parameters.
type PluginConfig struct {
	Name   string        `yaml:"name"`
	Visual string        `yaml:"visual"` // target visual, plugin-specific
	Params []PluginParam `yaml:"params"`
}

// PluginParam is one shader parameter entry: name, shader type, value
// string. The value "TIME" is reserved - plugins that honor it bind the
// parameter to sim time.
type PluginParam struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

// LoadWorld reads a YAML world file and builds a ready-to-start world.
func LoadWorld(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sim: read world file: %w", err)
	}
	w, err := LoadWorldConfig(data)
	if err != nil {
		return nil, fmt.Errorf("sim: world file %s: %w", path, err)
	}
	return w, nil
}

// LoadWorldConfig builds a world from YAML bytes. Validation is
// fail-fast: the first invalid field aborts the load.
func LoadWorldConfig(data []byte) (*World, error) {
	var cfg WorldConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return buildWorld(cfg)
}

func buildWorld(cfg WorldConfig) (*World, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("world name is required")
	}

	w := NewWorld(cfg.Name)

	if cfg.TickRateHz != 0 {
		if err := w.SetTickRate(cfg.TickRateHz); err != nil {
			return nil, err
		}
	}
	if cfg.MetersPerPixel != 0 {
		if cfg.MetersPerPixel < 0 {
			return nil, fmt.Errorf("meters_per_pixel must be positive")
		}
		w.metersPerPixel = cfg.MetersPerPixel
	}
	if cfg.EyeHeight != 0 {
		if cfg.EyeHeight < 0 {
			return nil, fmt.Errorf("eye_height must be positive")
		}
		w.eyeHeight = cfg.EyeHeight
	}

	if len(cfg.Ground.Color) != 0 {
		ground, err := parseColorTriple(cfg.Ground.Color)
		if err != nil {
			return nil, fmt.Errorf("ground: %w", err)
		}
		w.scene.ground = ground
	}
	if cfg.ShadowAttenuation != nil {
		if err := w.scene.SetShadowAttenuation(*cfg.ShadowAttenuation); err != nil {
			return nil, err
		}
	}

	for _, m := range cfg.Models {
		if m.Name == "" {
			return nil, fmt.Errorf("model name is required")
		}
		if m.Size[0] <= 0 || m.Size[1] <= 0 {
			return nil, fmt.Errorf("model %q: size must be positive", m.Name)
		}
		color, err := parseColorTriple(m.Color)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", m.Name, err)
		}
		visualName := m.Visual
		if visualName == "" {
			visualName = m.Name + "::link::visual"
		}
		v := NewVisual(visualName,
			RectAround(m.Center[0], m.Center[1], m.Size[0], m.Size[1]),
			m.Height, color, m.CastShadows)
		if err := w.scene.AddVisual(v); err != nil {
			return nil, err
		}
	}

	for _, c := range cfg.Cameras {
		if _, err := w.SpawnCamera(c.Model, c.Sensor, c.Position[0], c.Position[1], c.Width, c.Height); err != nil {
			return nil, err
		}
	}

	for _, p := range cfg.Plugins {
		factory, ok := lookupPlugin(p.Name)
		if !ok {
			return nil, fmt.Errorf("unknown plugin %q (is its package imported?)", p.Name)
		}
		plugin := factory()
		if err := plugin.Load(w, p); err != nil {
			return nil, fmt.Errorf("plugin %q: %w", p.Name, err)
		}
		w.plugins = append(w.plugins, plugin)
	}

	return w, nil
}

func parseColorTriple(rgb []int) (Color, error) {
	if len(rgb) != 3 {
		return Color{}, fmt.Errorf("color must have 3 components, got %d", len(rgb))
	}
	for _, c := range rgb {
		if c < 0 || c > 255 {
			return Color{}, fmt.Errorf("color component %d out of range 0-255", c)
		}
	}
	return Color{R: uint8(rgb[0]), G: uint8(rgb[1]), B: uint8(rgb[2])}, nil
}
