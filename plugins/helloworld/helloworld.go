// Package helloworld is a minimal world plugin demonstrating the
// registration mechanism. Import it for its side effect:
//
//	import _ "github.com/e7canasta/framecheck/plugins/helloworld"
//
// and reference it from a world file:
//
//	plugins:
//	  - name: hello_world
package helloworld

import (
	"log/slog"

	"github.com/e7canasta/framecheck/sim"
)

// PluginName is the name the plugin registers under.
const PluginName = "hello_world"

func init() {
	sim.RegisterWorldPlugin(PluginName, func() sim.WorldPlugin {
		return &plugin{}
	})
}

type plugin struct{}

func (p *plugin) Load(w *sim.World, cfg sim.PluginConfig) error {
	slog.Info("hello world", "world", w.Name())
	return nil
}
