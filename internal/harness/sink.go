package harness

import (
	"fmt"
	"sync"

	"github.com/e7canasta/framecheck/render"
)

// Sink receives frames pushed by a producer callback and makes them
// available to a consumer without tearing or loss.
//
// Design:
//   - Destination buffer preallocated at construction (width*height*depth)
//   - Buffer copy and counter increment happen under ONE lock acquisition,
//     so a counter value of N always corresponds to the Nth buffer write
//   - Consumer reads the buffer only after the producer connection is
//     closed (render.Connection.Close excludes in-flight deliveries)
//
// Thread-safety: all methods safe for concurrent use. An acquisition
// round is: Reset → connect Handler → WaitFor → close connection → read.
type Sink struct {
	width  int
	height int
	depth  int

	mu    sync.Mutex
	buf   []byte
	count int
	err   error // first delivery error observed by Handler
}

// NewSink preallocates a destination buffer for frames of the given
// dimensions. depth is bytes per pixel (3 for RGB).
func NewSink(width, height, depth int) *Sink {
	return &Sink{
		width:  width,
		height: height,
		depth:  depth,
		buf:    make([]byte, width*height*depth),
	}
}

// OnFrame copies one delivered frame into the owned buffer and increments
// the frame counter.
//
// Returns ErrBufferSizeMismatch (wrapped, with both geometries) if the
// delivered dimensions or payload length disagree with the preallocated
// buffer; in that case no bytes are copied and the counter is unchanged.
func (s *Sink) OnFrame(data []byte, width, height, depth int) error {
	if width != s.width || height != s.height || depth != s.depth {
		return fmt.Errorf("%w: got %dx%dx%d, want %dx%dx%d",
			ErrBufferSizeMismatch, width, height, depth, s.width, s.height, s.depth)
	}
	if len(data) != len(s.buf) {
		return fmt.Errorf("%w: payload %d bytes, want %d",
			ErrBufferSizeMismatch, len(data), len(s.buf))
	}

	// Copy + increment under a single critical section: an observer that
	// reads count == N is guaranteed the buffer holds the Nth frame.
	s.mu.Lock()
	copy(s.buf, data)
	s.count++
	s.mu.Unlock()

	return nil
}

// Handler adapts the sink to the host's frame callback signature. A
// delivery that fails (size mismatch) is recorded and retrievable via
// Err; it is never silently dropped.
func (s *Sink) Handler() render.FrameHandler {
	return func(data []byte, width, height, depth int) {
		if err := s.OnFrame(data, width, height, depth); err != nil {
			s.mu.Lock()
			if s.err == nil {
				s.err = err
			}
			s.mu.Unlock()
		}
	}
}

// Count returns the number of frames received since the last Reset.
func (s *Sink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Err returns the first delivery error recorded by Handler, if any.
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Reset zeroes the frame counter, starting a new acquisition round. The
// buffer contents are left as-is (the next delivery overwrites them).
func (s *Sink) Reset() {
	s.mu.Lock()
	s.count = 0
	s.err = nil
	s.mu.Unlock()
}

// Snapshot returns a copy of the destination buffer. Safe to call while
// deliveries are in flight.
func (s *Sink) Snapshot() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.buf))
	copy(out, s.buf)
	return out
}

// Bytes returns the owned destination buffer without copying.
//
// Contract: only call after the producer connection is closed. While a
// connection is live, use Snapshot instead.
func (s *Sink) Bytes() []byte {
	return s.buf
}

// Width returns the expected frame width in pixels.
func (s *Sink) Width() int { return s.width }

// Height returns the expected frame height in pixels.
func (s *Sink) Height() int { return s.height }

// Depth returns the expected bytes per pixel.
func (s *Sink) Depth() int { return s.depth }
