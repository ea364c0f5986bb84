package sim

import (
	"fmt"
	"sort"
	"sync"
)

// WorldPlugin extends a world at load time. Implementations are
// instantiated by name from the world file's plugins section.
type WorldPlugin interface {
	// Load is called once, after the scene and cameras are built and
	// before the render loop starts.
	Load(w *World, cfg PluginConfig) error
}

// WorldPluginFactory builds a fresh plugin instance per world.
type WorldPluginFactory func() WorldPlugin

var (
	pluginMu  sync.RWMutex
	pluginReg = make(map[string]WorldPluginFactory)
)

// RegisterWorldPlugin makes a plugin available to world files under the
// given name. Typically called from a plugin package's init. Panics on
// duplicate registration, driver-style.
func RegisterWorldPlugin(name string, factory WorldPluginFactory) {
	pluginMu.Lock()
	defer pluginMu.Unlock()

	if factory == nil {
		panic("sim: RegisterWorldPlugin with nil factory")
	}
	if _, dup := pluginReg[name]; dup {
		panic(fmt.Sprintf("sim: RegisterWorldPlugin called twice for %q", name))
	}
	pluginReg[name] = factory
}

// RegisteredPlugins returns the sorted names of all registered plugins.
func RegisteredPlugins() []string {
	pluginMu.RLock()
	defer pluginMu.RUnlock()

	names := make([]string, 0, len(pluginReg))
	for name := range pluginReg {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupPlugin(name string) (WorldPluginFactory, bool) {
	pluginMu.RLock()
	defer pluginMu.RUnlock()
	factory, ok := pluginReg[name]
	return factory, ok
}
