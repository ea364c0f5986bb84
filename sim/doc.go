// Package sim implements a deterministic, pure-Go render host for
// exercising the framecheck harness end to end.
//
// # Model
//
// A World owns a Scene and a set of camera sensors, driven by a single
// render loop goroutine. Each tick fires the pre-render event, then
// renders every camera and delivers its frame to the registered handlers.
//
// The scene is deliberately simple: flat-colored axis-aligned slabs over
// a ground plane, lit by one directional top-down light. Cameras project
// orthographically straight down at a fixed meters-per-pixel scale. A
// ground point covered by a shadow-casting slab renders darkened by the
// scene's shadow attenuation. Same scene, same bytes - every render is
// reproducible, which is what makes pixel-exact assertions viable.
//
// # Worlds
//
// Worlds are described in YAML (ground color, shadow attenuation, models,
// cameras, plugins) and loaded with LoadWorld, or assembled in code with
// NewWorld, Scene.AddVisual and World.SpawnCamera. World plugins register
// through RegisterWorldPlugin and are instantiated by name during world
// loading.
//
// Lifecycle follows New → Start(ctx) → Stop; Stop is idempotent and
// blocks until the render loop exits.
package sim
