// Package shaderparam is a world plugin that sets shader parameters on a
// visual at load time.
//
// Plugin parameters (world file):
//
//	plugins:
//	  - name: shader_param
//	    visual: box::link::visual
//	    params:
//	      - name: color
//	        type: fragment
//	        value: "1 0 0 1"
//	      - name: time
//	        type: vertex
//	        value: TIME
//
// The value string can be an int, a float, or a space-delimited float
// vector. The reserved value TIME binds the parameter to sim time: it is
// refreshed on every pre-render tick until the plugin is closed.
package shaderparam

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/e7canasta/framecheck/render"
	"github.com/e7canasta/framecheck/sim"
)

// PluginName is the name the plugin registers under.
const PluginName = "shader_param"

// timeValue is the reserved param value bound to sim time.
const timeValue = "TIME"

func init() {
	sim.RegisterWorldPlugin(PluginName, func() sim.WorldPlugin {
		return &Plugin{}
	})
}

// Plugin applies configured shader parameters to one visual. Static
// values are applied once at load; TIME-bound parameters are refreshed
// every pre-render tick through a persistent connection.
type Plugin struct {
	world  *sim.World
	visual render.Visual

	// timeParams are (name, shaderType) pairs bound to sim time.
	timeParams [][2]string

	mu   sync.Mutex
	conn *render.Connection
}

// Load implements sim.WorldPlugin.
func (p *Plugin) Load(w *sim.World, cfg sim.PluginConfig) error {
	if cfg.Visual == "" {
		return fmt.Errorf("shaderparam: target visual is required")
	}
	if len(cfg.Params) == 0 {
		return fmt.Errorf("shaderparam: no params specified")
	}

	visual, ok := w.Scene().VisualByName(cfg.Visual)
	if !ok {
		return fmt.Errorf("shaderparam: visual %q not in scene", cfg.Visual)
	}
	p.world = w
	p.visual = visual

	for _, param := range cfg.Params {
		if param.Name == "" || param.Type == "" || param.Value == "" {
			return fmt.Errorf("shaderparam: param must have name, type and value")
		}
		if param.Value == timeValue {
			p.timeParams = append(p.timeParams, [2]string{param.Name, param.Type})
			continue
		}
		if err := visual.SetShaderParam(param.Name, param.Type, param.Value); err != nil {
			return fmt.Errorf("shaderparam: %w", err)
		}
	}

	// Only hook the render tick if something actually tracks time.
	if len(p.timeParams) > 0 {
		p.mu.Lock()
		p.conn = w.ConnectPreRender(p.update)
		p.mu.Unlock()
	}
	return nil
}

// update refreshes TIME-bound parameters. Runs on the render goroutine.
func (p *Plugin) update() {
	seconds := p.world.SimTime().Seconds()
	value := strconv.FormatFloat(seconds, 'f', -1, 64)
	for _, tp := range p.timeParams {
		// Lookup errors cannot occur here: the value is a plain float.
		_ = p.visual.SetShaderParam(tp[0], tp[1], value)
	}
}

// Close releases the pre-render connection, if any. Blocks until an
// in-flight update returns.
func (p *Plugin) Close() {
	p.mu.Lock()
	conn := p.conn
	p.conn = nil
	p.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}
