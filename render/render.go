// Package render defines the contracts between a rendering host and its
// consumers: frame delivery events, the pre-render tick, and scene lookup
// for runtime shader parameter changes.
//
// A host (real or simulated) implements Dispatcher and SceneLookup and
// exposes one FrameEvent per camera sensor. Consumers never touch the
// host's scene graph directly; mutations go through the pre-render tick,
// which is the only execution context where scene objects are safely
// mutable.
package render

// FrameHandler receives one rendered frame as a flat pixel buffer.
//
// Contract:
//   - data is valid only for the duration of the call; handlers that need
//     the pixels afterwards must copy them (the host may reuse the buffer).
//   - data holds width*height*depth bytes, row-major, channel-interleaved.
type FrameHandler func(data []byte, width, height, depth int)

// Visual is a named scene object whose shader parameters can be changed
// at runtime.
type Visual interface {
	// Name returns the scoped visual name (e.g. "box::link::visual").
	Name() string

	// SetShaderParam sets a named shader uniform. shaderType is "vertex"
	// or "fragment". value uses the host's string encoding: an int, a
	// float, or a space-delimited float vector.
	//
	// Must only be called from the pre-render tick (see Dispatcher).
	SetShaderParam(name, shaderType, value string) error
}

// SceneLookup resolves visuals by name.
//
// A lookup miss is not an error at this layer: visuals appear and
// disappear as models are spawned and removed, so callers decide whether
// absence is fatal.
type SceneLookup interface {
	VisualByName(name string) (Visual, bool)
}

// Dispatcher exposes the host's pre-render tick, fired once per render
// cycle before any camera draws.
type Dispatcher interface {
	// ConnectPreRender registers fn to run on every pre-render tick until
	// the returned connection is closed.
	ConnectPreRender(fn func()) *Connection

	// ConnectPreRenderOnce registers fn to run on the next pre-render tick
	// only. The connection is released by the host after the single
	// invocation; closing it early cancels the pending invocation.
	ConnectPreRenderOnce(fn func()) *Connection
}
