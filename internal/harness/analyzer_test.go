package harness_test

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/e7canasta/framecheck/internal/harness"
)

// TestSumChannelsOrderIndependent validates the aggregate is invariant
// under pixel permutation but sensitive to any channel change.
func TestSumChannelsOrderIndependent(t *testing.T) {
	const width, height = 16, 8
	rng := rand.New(rand.NewSource(42))

	buf := make([]byte, width*height*3)
	rng.Read(buf)
	sum := harness.SumChannels(buf, width, height)

	// Permute whole pixels.
	shuffled := make([]byte, len(buf))
	copy(shuffled, buf)
	pixels := width * height
	for i := pixels - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		for c := 0; c < 3; c++ {
			shuffled[i*3+c], shuffled[j*3+c] = shuffled[j*3+c], shuffled[i*3+c]
		}
	}
	if got := harness.SumChannels(shuffled, width, height); got != sum {
		t.Errorf("sum changed under permutation: %d != %d", got, sum)
	}

	// Any single channel change must move the sum.
	shuffled[17]++
	if got := harness.SumChannels(shuffled, width, height); got == sum {
		t.Error("sum insensitive to channel change")
	}
}

// TestRelativeDifference validates the ratio semantics: zero for equal
// sums, positive when the baseline is brighter, degenerate on zero
// baseline.
func TestRelativeDifference(t *testing.T) {
	if d, err := harness.RelativeDifference(100, 100); err != nil || d != 0 {
		t.Errorf("RelativeDifference(100, 100) = %v, %v, want 0, nil", d, err)
	}

	d, err := harness.RelativeDifference(50, 100)
	if err != nil {
		t.Fatalf("RelativeDifference(50, 100) failed: %v", err)
	}
	if math.Abs(d-0.5) > 1e-9 {
		t.Errorf("RelativeDifference(50, 100) = %v, want 0.5", d)
	}
	if d <= 0 {
		t.Errorf("darker image must yield positive ratio, got %v", d)
	}

	if _, err := harness.RelativeDifference(10, 0); !errors.Is(err, harness.ErrDegenerateComparison) {
		t.Errorf("zero baseline error = %v, want ErrDegenerateComparison", err)
	}
}

// TestCheckUniformColor validates exact per-pixel comparison and the
// first-offender diagnostics.
func TestCheckUniformColor(t *testing.T) {
	const width, height = 4, 4
	buf := rgbFrame(width, height, 255, 0, 0)

	if err := harness.CheckUniformColor(buf, width, height, 255, 0, 0); err != nil {
		t.Errorf("uniform red buffer rejected: %v", err)
	}

	if err := harness.CheckUniformColor(buf, width, height, 0, 255, 0); err == nil {
		t.Error("red buffer accepted as green")
	}

	// One deviant pixel at (2, 1).
	i := (1*width + 2) * 3
	buf[i+1] = 7
	err := harness.CheckUniformColor(buf, width, height, 255, 0, 0)
	if err == nil {
		t.Fatal("deviant pixel not detected")
	}
	want := "pixel (2,1)"
	if got := err.Error(); !strings.Contains(got, want) {
		t.Errorf("error %q does not name %s", got, want)
	}
}
