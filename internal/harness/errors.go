package harness

import "errors"

// Harness errors. Matched with errors.Is; all wrapped variants carry
// context about the offending dimensions or object name.
var (
	// ErrBufferSizeMismatch reports a delivered frame whose dimensions
	// disagree with the sink's preallocated buffer. The copy is aborted
	// rather than truncated or overrun.
	ErrBufferSizeMismatch = errors.New("framecheck: frame dimensions do not match sink buffer")

	// ErrObjectNotFound reports a scheduled mutation whose target visual
	// was absent from the scene when the pre-render tick fired. The
	// mutation is dropped, never retried.
	ErrObjectNotFound = errors.New("framecheck: scene object not found")

	// ErrDegenerateComparison reports a relative-difference baseline of
	// zero. This is a precondition failure in the test scenario (an all
	// black reference image), not a harness bug.
	ErrDegenerateComparison = errors.New("framecheck: comparison baseline sum is zero")
)
