package framecheck

import (
	"context"
	"time"

	"github.com/e7canasta/framecheck/internal/harness"
	"github.com/e7canasta/framecheck/render"
)

// Sink is re-exported from the internal package. See internal/harness
// for implementation notes on the copy+increment critical section.
type Sink = harness.Sink

// Mutation is the completion record of a scheduled one-shot scene change.
type Mutation = harness.Mutation

// Harness errors, matched with errors.Is.
var (
	ErrBufferSizeMismatch   = harness.ErrBufferSizeMismatch
	ErrObjectNotFound       = harness.ErrObjectNotFound
	ErrDegenerateComparison = harness.ErrDegenerateComparison
)

// NewSink preallocates a destination buffer for frames of the given
// dimensions. depth is bytes per pixel (3 for RGB).
func NewSink(width, height, depth int) *Sink {
	return harness.NewSink(width, height, depth)
}

// WaitForCount blocks until count() reaches target or the timeout
// elapses, and returns the final counter value (soft timeout).
func WaitForCount(ctx context.Context, count func() int, target int, timeout time.Duration) int {
	return harness.WaitForCount(ctx, count, target, timeout)
}

// WaitForCondition blocks until cond() is true or the timeout elapses.
func WaitForCondition(ctx context.Context, cond func() bool, timeout time.Duration) bool {
	return harness.WaitForCondition(ctx, cond, timeout)
}

// ScheduleShaderParam schedules a one-shot shader parameter change for
// the named visual on the host's next pre-render tick.
func ScheduleShaderParam(d render.Dispatcher, scene render.SceneLookup,
	visualName, paramName, shaderType, value string) *Mutation {
	return harness.ScheduleShaderParam(d, scene, visualName, paramName, shaderType, value)
}

// SumChannels returns the unsigned sum of all three color channels
// across every pixel of an RGB buffer.
func SumChannels(buf []byte, width, height int) uint64 {
	return harness.SumChannels(buf, width, height)
}

// RelativeDifference returns (sumB - sumA) / sumB; a zero baseline
// returns ErrDegenerateComparison.
func RelativeDifference(sumA, sumB uint64) (float64, error) {
	return harness.RelativeDifference(sumA, sumB)
}

// CheckUniformColor verifies every pixel of an RGB buffer equals the
// expected triple exactly.
func CheckUniformColor(buf []byte, width, height int, r, g, b byte) error {
	return harness.CheckUniformColor(buf, width, height, r, g, b)
}
