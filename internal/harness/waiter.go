package harness

import (
	"context"
	"time"
)

// pollInterval bounds CPU usage of the wait loops. 10ms matches the
// delivery cadence of typical camera sensors (tens of frames per second)
// while keeping wakeup latency negligible against test timeouts.
const pollInterval = 10 * time.Millisecond

// WaitForCount blocks until count() reaches target, the timeout elapses,
// or ctx is cancelled, and returns the final counter value.
//
// Timeout is a soft condition, not an error: the caller asserts on the
// returned value and decides what constitutes failure. The loop
// sleep-polls (no busy spin) and returns as soon as the target is seen.
func WaitForCount(ctx context.Context, count func() int, target int, timeout time.Duration) int {
	deadline := time.Now().Add(timeout)
	for {
		n := count()
		if n >= target {
			return n
		}
		if !time.Now().Before(deadline) {
			return n
		}
		select {
		case <-ctx.Done():
			return count()
		case <-time.After(pollInterval):
		}
	}
}

// WaitForCondition blocks until cond() is true, the timeout elapses, or
// ctx is cancelled. Reports whether the condition was observed true.
// Same soft-timeout and sleep-poll semantics as WaitForCount.
func WaitForCondition(ctx context.Context, cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return cond()
		case <-time.After(pollInterval):
		}
	}
}

// WaitFor blocks until the sink has received target frames since its last
// Reset, or the timeout elapses. Returns the final frame count.
func (s *Sink) WaitFor(ctx context.Context, target int, timeout time.Duration) int {
	return WaitForCount(ctx, s.Count, target, timeout)
}
