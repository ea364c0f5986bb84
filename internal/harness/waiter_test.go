package harness_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/e7canasta/framecheck/internal/harness"
)

// TestWaitForCountReachesTarget validates the wait returns promptly once
// the counter reaches the target, well before the timeout.
func TestWaitForCountReachesTarget(t *testing.T) {
	var counter atomic.Int64
	go func() {
		for i := 0; i < 5; i++ {
			time.Sleep(5 * time.Millisecond)
			counter.Add(1)
		}
	}()

	start := time.Now()
	got := harness.WaitForCount(context.Background(),
		func() int { return int(counter.Load()) }, 5, 5*time.Second)
	elapsed := time.Since(start)

	if got < 5 {
		t.Errorf("WaitForCount() = %d, want >= 5", got)
	}
	if elapsed > time.Second {
		t.Errorf("WaitForCount() took %v, expected well under the 5s timeout", elapsed)
	}
}

// TestWaitForCountSoftTimeout validates the monotonic deadline property:
// with an unreachable target the wait holds until the timeout elapses,
// then reports the under-target value instead of failing.
func TestWaitForCountSoftTimeout(t *testing.T) {
	timeout := 100 * time.Millisecond

	start := time.Now()
	got := harness.WaitForCount(context.Background(),
		func() int { return 3 }, 10, timeout)
	elapsed := time.Since(start)

	if got != 3 {
		t.Errorf("WaitForCount() = %d, want final counter value 3", got)
	}
	if elapsed < timeout {
		t.Errorf("returned after %v, before the %v timeout", elapsed, timeout)
	}
}

// TestWaitForCountImmediate validates a target already reached returns
// without sleeping.
func TestWaitForCountImmediate(t *testing.T) {
	start := time.Now()
	got := harness.WaitForCount(context.Background(),
		func() int { return 20 }, 20, 5*time.Second)

	if got != 20 {
		t.Errorf("WaitForCount() = %d, want 20", got)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("immediate wait took %v", elapsed)
	}
}

// TestWaitForCountContextCancel validates cancellation unblocks the wait
// before the timeout.
func TestWaitForCountContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	got := harness.WaitForCount(ctx, func() int { return 0 }, 1, 5*time.Second)
	elapsed := time.Since(start)

	if got != 0 {
		t.Errorf("WaitForCount() = %d, want 0", got)
	}
	if elapsed > time.Second {
		t.Errorf("cancelled wait took %v", elapsed)
	}
}

// TestWaitForCondition validates the boolean variant used for mutation
// completion flags.
func TestWaitForCondition(t *testing.T) {
	var flag atomic.Bool
	go func() {
		time.Sleep(20 * time.Millisecond)
		flag.Store(true)
	}()

	if !harness.WaitForCondition(context.Background(), flag.Load, time.Second) {
		t.Error("WaitForCondition() = false, want true")
	}

	if harness.WaitForCondition(context.Background(),
		func() bool { return false }, 50*time.Millisecond) {
		t.Error("WaitForCondition() = true for never-true condition")
	}
}
