package harness_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/e7canasta/framecheck/internal/harness"
	"github.com/e7canasta/framecheck/render"
)

// fakeHost is a minimal render host: a pre-render tick fired manually
// and a fixed set of visuals.
type fakeHost struct {
	tick    render.Event
	visuals map[string]*fakeVisual
}

func (h *fakeHost) ConnectPreRender(fn func()) *render.Connection {
	return h.tick.Connect(fn)
}

func (h *fakeHost) ConnectPreRenderOnce(fn func()) *render.Connection {
	return h.tick.ConnectOnce(fn)
}

func (h *fakeHost) VisualByName(name string) (render.Visual, bool) {
	v, ok := h.visuals[name]
	if !ok {
		return nil, false
	}
	return v, true
}

type fakeVisual struct {
	mu    sync.Mutex
	name  string
	calls []string // "param/type/value" per SetShaderParam call
}

func (v *fakeVisual) Name() string { return v.name }

func (v *fakeVisual) SetShaderParam(name, shaderType, value string) error {
	v.mu.Lock()
	v.calls = append(v.calls, name+"/"+shaderType+"/"+value)
	v.mu.Unlock()
	return nil
}

func (v *fakeVisual) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.calls)
}

// TestScheduleShaderParamOneShot validates the mutation applies on the
// first tick only: later ticks must not reapply it.
func TestScheduleShaderParamOneShot(t *testing.T) {
	box := &fakeVisual{name: "box::link::visual"}
	host := &fakeHost{visuals: map[string]*fakeVisual{box.name: box}}

	m := harness.ScheduleShaderParam(host, host,
		"box::link::visual", "color", "fragment", "0 1 0 1")

	if m.Applied() {
		t.Fatal("Applied() = true before any tick")
	}

	host.tick.Fire()

	if !m.Applied() {
		t.Fatal("Applied() = false after tick")
	}
	if err := m.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
	if got := box.callCount(); got != 1 {
		t.Errorf("SetShaderParam called %d times, want 1", got)
	}

	// Connection must have been released: further ticks are no-ops.
	host.tick.Fire()
	host.tick.Fire()
	if got := box.callCount(); got != 1 {
		t.Errorf("SetShaderParam called %d times after extra ticks, want 1", got)
	}
}

// TestScheduleShaderParamObjectNotFound validates the single execution
// attempt on a missing visual: mutation dropped, flag stays false, error
// recorded, no retry on later ticks.
func TestScheduleShaderParamObjectNotFound(t *testing.T) {
	host := &fakeHost{visuals: map[string]*fakeVisual{}}

	m := harness.ScheduleShaderParam(host, host,
		"missing::visual", "color", "fragment", "0 1 0 1")

	host.tick.Fire()

	if m.Applied() {
		t.Error("Applied() = true for missing visual")
	}
	if err := m.Err(); !errors.Is(err, harness.ErrObjectNotFound) {
		t.Errorf("Err() = %v, want ErrObjectNotFound", err)
	}

	// Spawning the visual afterwards must not resurrect the mutation.
	late := &fakeVisual{name: "missing::visual"}
	host.visuals[late.name] = late
	host.tick.Fire()

	if m.Applied() || late.callCount() != 0 {
		t.Error("dropped mutation was retried on a later tick")
	}
}

// TestWaitApplied validates the completion wait used by test drivers.
func TestWaitApplied(t *testing.T) {
	box := &fakeVisual{name: "box"}
	host := &fakeHost{visuals: map[string]*fakeVisual{box.name: box}}

	m := harness.ScheduleShaderParam(host, host, "box", "color", "fragment", "1 1 1")

	go func() {
		time.Sleep(20 * time.Millisecond)
		host.tick.Fire()
	}()

	if !m.WaitApplied(context.Background(), time.Second) {
		t.Fatal("WaitApplied() = false, want true")
	}

	// A mutation that never runs times out softly.
	m2 := harness.ScheduleShaderParam(host, host, "box", "color", "fragment", "1 1 1")
	if m2.WaitApplied(context.Background(), 50*time.Millisecond) {
		t.Error("WaitApplied() = true without a tick")
	}
}
