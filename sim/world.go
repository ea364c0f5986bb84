package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/e7canasta/framecheck/render"
)

// defaultTickRate is the render loop frequency when a world does not
// configure one. High enough that a 20-frame acquisition round completes
// well inside typical test timeouts.
const defaultTickRate = 50.0

// defaultMetersPerPixel fixes camera footprints when a world does not
// configure a scale. 320x240 frames cover 3.2m x 2.4m.
const defaultMetersPerPixel = 0.01

// World owns a scene and a set of camera sensors, driven by one render
// loop goroutine. Implements render.Dispatcher.
//
// Lifecycle mirrors the usual supplier pattern:
//  1. w := NewWorld("name") or LoadWorld(path)
//  2. w.Start(ctx) - spawns the render loop
//  3. connect sinks, wait, assert
//  4. w.Stop() - blocks until the loop exits; idempotent
type World struct {
	name           string
	scene          *Scene
	tickRate       float64
	metersPerPixel float64
	eyeHeight      float64

	preRender render.Event

	camMu    sync.Mutex
	cameras  map[string]*Camera
	camOrder []string

	// plugins loaded from the world file, closed on Stop.
	plugins []WorldPlugin

	ticks atomic.Uint64 // render ticks completed, drives sim time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	startedMu sync.Mutex
	started   bool
	stopped   bool
}

// NewWorld creates an empty world with a gray ground plane and default
// tick rate, scale and camera eye height.
func NewWorld(name string) *World {
	return &World{
		name:           name,
		scene:          NewScene(Color{R: 200, G: 200, B: 200}),
		tickRate:       defaultTickRate,
		metersPerPixel: defaultMetersPerPixel,
		eyeHeight:      defaultEyeHeight,
		cameras:        make(map[string]*Camera),
	}
}

// Name returns the world name.
func (w *World) Name() string { return w.name }

// Scene returns the world's scene graph.
func (w *World) Scene() *Scene { return w.scene }

// TickRate returns the render loop frequency in Hz.
func (w *World) TickRate() float64 { return w.tickRate }

// SetTickRate overrides the render loop frequency. Must be called before
// Start. Valid range is 0.1 to 1000 Hz.
func (w *World) SetTickRate(hz float64) error {
	if hz < 0.1 || hz > 1000 {
		return fmt.Errorf("sim: tick rate %.2f Hz out of range (0.1-1000)", hz)
	}
	w.tickRate = hz
	return nil
}

// SimTime returns the simulated time elapsed: ticks completed divided by
// the tick rate. Deterministic, unlike wall-clock time.
func (w *World) SimTime() time.Duration {
	ticks := w.ticks.Load()
	return time.Duration(float64(ticks) / w.tickRate * float64(time.Second))
}

// ConnectPreRender registers fn to run at the start of every render tick
// (implements render.Dispatcher).
func (w *World) ConnectPreRender(fn func()) *render.Connection {
	return w.preRender.Connect(fn)
}

// ConnectPreRenderOnce registers fn to run at the start of the next
// render tick only (implements render.Dispatcher).
func (w *World) ConnectPreRenderOnce(fn func()) *render.Connection {
	return w.preRender.ConnectOnce(fn)
}

// SpawnCamera adds a camera sensor at ground position (x, y), looking
// straight down from the world's eye height. Safe to call while the
// render loop runs; the camera starts rendering on the next tick.
//
// Sensor names are unique within a world.
func (w *World) SpawnCamera(modelName, sensorName string, x, y float64, width, height int) (*Camera, error) {
	if sensorName == "" {
		return nil, fmt.Errorf("sim: sensor name is required")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("sim: invalid camera geometry %dx%d", width, height)
	}

	cam := newCamera(modelName, sensorName, x, y, w.eyeHeight, width, height, w.metersPerPixel)

	w.camMu.Lock()
	defer w.camMu.Unlock()
	if _, exists := w.cameras[sensorName]; exists {
		return nil, fmt.Errorf("sim: camera sensor %q already spawned", sensorName)
	}
	w.cameras[sensorName] = cam
	w.camOrder = append(w.camOrder, sensorName)

	slog.Debug("camera spawned",
		"world", w.name,
		"model", modelName,
		"sensor", sensorName,
		"geometry", fmt.Sprintf("%dx%d", width, height),
	)
	return cam, nil
}

// CameraBySensor returns a spawned camera by sensor name.
func (w *World) CameraBySensor(sensorName string) (*Camera, bool) {
	w.camMu.Lock()
	defer w.camMu.Unlock()
	cam, ok := w.cameras[sensorName]
	return cam, ok
}

// Cameras returns the spawned cameras in spawn order.
func (w *World) Cameras() []*Camera {
	w.camMu.Lock()
	defer w.camMu.Unlock()
	out := make([]*Camera, 0, len(w.camOrder))
	for _, name := range w.camOrder {
		out = append(out, w.cameras[name])
	}
	return out
}

// Start spawns the render loop. Returns an error if already started.
func (w *World) Start(ctx context.Context) error {
	w.startedMu.Lock()
	defer w.startedMu.Unlock()

	if w.started {
		return fmt.Errorf("sim: world %q already started", w.name)
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.started = true

	w.wg.Add(1)
	go w.renderLoop()

	slog.Info("world started",
		"world", w.name,
		"tick_rate_hz", w.tickRate,
		"visuals", w.scene.visualCount(),
		"cameras", len(w.Cameras()),
	)
	return nil
}

// Stop shuts down the render loop and blocks until it exits. Idempotent.
func (w *World) Stop() error {
	w.startedMu.Lock()
	if !w.started || w.stopped {
		w.startedMu.Unlock()
		return nil
	}
	w.stopped = true
	w.startedMu.Unlock()

	w.cancel()
	w.wg.Wait()

	// Release plugin hooks after the loop exits; Close on a pre-render
	// connection excludes in-flight ticks, so this cannot race a render.
	for _, p := range w.plugins {
		if c, ok := p.(interface{ Close() }); ok {
			c.Close()
		}
	}

	slog.Info("world stopped", "world", w.name, "ticks", w.ticks.Load())
	return nil
}

// Step runs a single render tick synchronously: pre-render event, then
// every camera. Intended for deterministic tests that do not want the
// render loop goroutine. Must not be called while the world is started.
func (w *World) Step() {
	w.renderOnce()
}

func (w *World) renderLoop() {
	defer w.wg.Done()

	interval := time.Duration(float64(time.Second) / w.tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.renderOnce()
		}
	}
}

// renderOnce is one render cycle: the pre-render tick (the only context
// where scene mutation is safe), then every camera in spawn order.
func (w *World) renderOnce() {
	w.preRender.Fire()
	for _, cam := range w.Cameras() {
		cam.renderFrame(w.scene)
	}
	w.ticks.Add(1)
}
