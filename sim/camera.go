package sim

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/e7canasta/framecheck/render"
)

// frameDepth is bytes per pixel. Cameras always deliver RGB.
const frameDepth = 3

// defaultEyeHeight is the camera eye height above ground when a world
// does not configure one. Slabs above it occlude nothing the camera
// sees; slabs below it are visible surfaces.
const defaultEyeHeight = 1.0

// CameraStats is a snapshot of a camera's delivery state.
type CameraStats struct {
	// Sensor is the camera's sensor name.
	Sensor string
	// Frames is the total number of frames rendered since Start.
	Frames uint64
	// LastRenderAt is the wall-clock time of the last render.
	LastRenderAt time.Time
	// LastTraceID identifies the last rendered frame.
	LastTraceID string
}

// Camera is an orthographic top-down camera sensor. Each render-loop
// tick it rasterizes its footprint of the scene and delivers the frame
// to all connected handlers.
type Camera struct {
	model  string
	sensor string
	x, y   float64
	eyeZ   float64
	width  int
	height int
	// metersPerPixel fixes the footprint: width*m × height*m centered
	// at (x, y).
	metersPerPixel float64

	frames render.FrameEvent

	mu           sync.Mutex
	buf          []byte // render target, reused across ticks
	frameCount   uint64
	lastRenderAt time.Time
	lastTraceID  string
}

func newCamera(model, sensor string, x, y, eyeZ float64, width, height int, metersPerPixel float64) *Camera {
	return &Camera{
		model:          model,
		sensor:         sensor,
		x:              x,
		y:              y,
		eyeZ:           eyeZ,
		width:          width,
		height:         height,
		metersPerPixel: metersPerPixel,
		buf:            make([]byte, width*height*frameDepth),
	}
}

// Model returns the owning model name.
func (c *Camera) Model() string { return c.model }

// Sensor returns the sensor name, unique within a world.
func (c *Camera) Sensor() string { return c.sensor }

// ImageWidth returns the frame width in pixels.
func (c *Camera) ImageWidth() int { return c.width }

// ImageHeight returns the frame height in pixels.
func (c *Camera) ImageHeight() int { return c.height }

// ConnectNewFrame registers a handler for every frame this camera
// renders. Close the returned connection to stop delivery; Close blocks
// until any in-flight delivery returns, after which the handler's
// destination buffer is safe to read or free.
func (c *Camera) ConnectNewFrame(fn render.FrameHandler) *render.Connection {
	return c.frames.Connect(fn)
}

// Stats returns a snapshot of the camera's delivery state.
func (c *Camera) Stats() CameraStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CameraStats{
		Sensor:       c.sensor,
		Frames:       c.frameCount,
		LastRenderAt: c.lastRenderAt,
		LastTraceID:  c.lastTraceID,
	}
}

// renderFrame rasterizes the scene into the camera's buffer and fires
// the frame event. Called by the world's render loop; handlers run on
// the loop goroutine and must copy pixels they keep (the buffer is
// reused next tick).
func (c *Camera) renderFrame(scene *Scene) {
	c.mu.Lock()

	halfW := float64(c.width) / 2
	halfH := float64(c.height) / 2
	i := 0
	for py := 0; py < c.height; py++ {
		wy := c.y + (float64(py)+0.5-halfH)*c.metersPerPixel
		for px := 0; px < c.width; px++ {
			wx := c.x + (float64(px)+0.5-halfW)*c.metersPerPixel
			col := scene.colorAt(wx, wy, c.eyeZ)
			c.buf[i] = col.R
			c.buf[i+1] = col.G
			c.buf[i+2] = col.B
			i += frameDepth
		}
	}

	c.frameCount++
	c.lastRenderAt = time.Now()
	c.lastTraceID = uuid.NewString()
	buf := c.buf
	c.mu.Unlock()

	c.frames.Fire(buf, c.width, c.height, frameDepth)
}
