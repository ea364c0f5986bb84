package harness

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/e7canasta/framecheck/render"
)

// Mutation is the completion record of a one-shot scene change scheduled
// onto the host's pre-render tick.
//
// Applied flips to true exactly once, when the change has been applied on
// the render thread. If the target visual is missing when the tick fires,
// the mutation is dropped: Applied stays false, Err reports
// ErrObjectNotFound, and no retry happens (a caller waiting on Applied
// times out and fails loudly).
type Mutation struct {
	mu      sync.Mutex
	applied bool
	err     error
}

// Applied reports whether the mutation has been applied.
func (m *Mutation) Applied() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied
}

// Err returns the failure recorded by the single execution attempt, if any.
func (m *Mutation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// WaitApplied blocks until the mutation has been applied or the timeout
// elapses. Reports whether it was applied (soft timeout, caller asserts).
func (m *Mutation) WaitApplied(ctx context.Context, timeout time.Duration) bool {
	return WaitForCondition(ctx, m.Applied, timeout)
}

func (m *Mutation) fail(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

func (m *Mutation) markApplied() {
	m.mu.Lock()
	m.applied = true
	m.mu.Unlock()
}

// ScheduleShaderParam schedules a one-shot shader parameter change for
// the named visual on the next pre-render tick.
//
// The callback runs in the host's render context, the only place scene
// objects are safely mutable. The dispatcher releases the connection
// after the single invocation, so the change is never reapplied on later
// ticks. Lookup and application outcomes are recorded on the returned
// Mutation.
func ScheduleShaderParam(d render.Dispatcher, scene render.SceneLookup,
	visualName, paramName, shaderType, value string) *Mutation {

	m := &Mutation{}
	d.ConnectPreRenderOnce(func() {
		visual, ok := scene.VisualByName(visualName)
		if !ok {
			m.fail(fmt.Errorf("%w: visual %q", ErrObjectNotFound, visualName))
			return
		}
		if err := visual.SetShaderParam(paramName, shaderType, value); err != nil {
			m.fail(fmt.Errorf("framecheck: set shader param %q on %q: %w",
				paramName, visualName, err))
			return
		}
		m.markApplied()
	})
	return m
}
