package render

import (
	"sync"

	"github.com/google/uuid"
)

// Connection is the handle returned by event registration.
//
// Close semantics (the shutdown-safety contract of this package):
//   - Idempotent: safe to call multiple times.
//   - Excludes in-flight invocations: Close blocks until a currently
//     running callback returns, and no invocation starts after Close
//     returns. A consumer may therefore free the resources its callback
//     writes to (e.g. a destination pixel buffer) immediately after Close.
type Connection struct {
	id     string
	once   bool
	detach func(id string)

	mu     sync.Mutex // serializes invocation against Close
	closed bool
	fired  bool // one-shot claim, meaningful only when once
}

// ID returns the unique connection identifier.
func (c *Connection) ID() string { return c.id }

// Close releases the connection. See the type doc for the exclusion
// guarantee. Must not be called from inside the connection's own callback
// (one-shot connections are released by the event instead).
func (c *Connection) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.detach(c.id)
}

// guard runs f under the connection lock if the connection is still live.
// For one-shot connections the first successful invocation claims the
// connection; later fires are no-ops. Reports whether f ran.
func (c *Connection) guard(f func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	if c.once {
		if c.fired {
			return false
		}
		c.fired = true
	}

	f()
	return true
}

// Event is a registry of parameterless callbacks, used for the
// pre-render tick. The zero value is ready to use.
//
// Thread-safety: Connect, ConnectOnce and Fire are safe for concurrent
// use. Fire invokes callbacks sequentially on the calling goroutine
// (the host's render loop).
type Event struct {
	mu    sync.Mutex
	conns map[string]*eventEntry
}

type eventEntry struct {
	conn *Connection
	fn   func()
}

// Connect registers fn to run on every Fire until the connection is closed.
func (e *Event) Connect(fn func()) *Connection {
	return e.connect(fn, false)
}

// ConnectOnce registers fn to run on the next Fire only. The event
// removes the connection after the single invocation.
func (e *Event) ConnectOnce(fn func()) *Connection {
	return e.connect(fn, true)
}

func (e *Event) connect(fn func(), once bool) *Connection {
	conn := &Connection{
		id:     uuid.NewString(),
		once:   once,
		detach: e.remove,
	}

	e.mu.Lock()
	if e.conns == nil {
		e.conns = make(map[string]*eventEntry)
	}
	e.conns[conn.id] = &eventEntry{conn: conn, fn: fn}
	e.mu.Unlock()

	return conn
}

func (e *Event) remove(id string) {
	e.mu.Lock()
	delete(e.conns, id)
	e.mu.Unlock()
}

// Fire invokes all registered callbacks. One-shot connections that ran
// are removed before Fire returns.
func (e *Event) Fire() {
	for _, entry := range e.snapshot() {
		ran := entry.conn.guard(entry.fn)
		if ran && entry.conn.once {
			e.remove(entry.conn.id)
		}
	}
}

// snapshot copies the registry so callbacks can register or close
// connections without holding the event lock.
func (e *Event) snapshot() []*eventEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := make([]*eventEntry, 0, len(e.conns))
	for _, entry := range e.conns {
		entries = append(entries, entry)
	}
	return entries
}

// FrameEvent is a registry of FrameHandler callbacks, one per camera
// sensor. Same lifecycle and exclusion semantics as Event.
type FrameEvent struct {
	mu    sync.Mutex
	conns map[string]*frameEntry
}

type frameEntry struct {
	conn *Connection
	fn   FrameHandler
}

// Connect registers fn to receive every delivered frame until the
// connection is closed.
func (e *FrameEvent) Connect(fn FrameHandler) *Connection {
	conn := &Connection{
		id:     uuid.NewString(),
		detach: e.remove,
	}

	e.mu.Lock()
	if e.conns == nil {
		e.conns = make(map[string]*frameEntry)
	}
	e.conns[conn.id] = &frameEntry{conn: conn, fn: fn}
	e.mu.Unlock()

	return conn
}

func (e *FrameEvent) remove(id string) {
	e.mu.Lock()
	delete(e.conns, id)
	e.mu.Unlock()
}

// Fire delivers one frame to all registered handlers, sequentially on the
// calling goroutine.
func (e *FrameEvent) Fire(data []byte, width, height, depth int) {
	e.mu.Lock()
	entries := make([]*frameEntry, 0, len(e.conns))
	for _, entry := range e.conns {
		entries = append(entries, entry)
	}
	e.mu.Unlock()

	for _, entry := range entries {
		entry.conn.guard(func() {
			entry.fn(data, width, height, depth)
		})
	}
}

// HandlerCount returns the number of live frame connections.
func (e *FrameEvent) HandlerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.conns)
}
