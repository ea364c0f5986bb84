package harness

import "fmt"

// SumChannels returns the unsigned sum of all three color channels across
// every pixel of an RGB buffer (3 bytes per pixel, row-major).
// Deterministic and order-independent: any permutation of the pixels
// yields the same sum.
func SumChannels(buf []byte, width, height int) uint64 {
	var sum uint64
	n := width * height * 3
	for i := 0; i < n; i++ {
		sum += uint64(buf[i])
	}
	return sum
}

// RelativeDifference returns (sumB - sumA) / sumB as a ratio: 0 when the
// sums are equal, positive when B is brighter than A. Used to assert one
// image is a defined fraction darker than another.
//
// A zero baseline returns ErrDegenerateComparison.
func RelativeDifference(sumA, sumB uint64) (float64, error) {
	if sumB == 0 {
		return 0, ErrDegenerateComparison
	}
	return (float64(sumB) - float64(sumA)) / float64(sumB), nil
}

// CheckUniformColor verifies every pixel of an RGB buffer equals the
// expected triple exactly. The returned error names the first offending
// pixel and its value.
func CheckUniformColor(buf []byte, width, height int, r, g, b byte) error {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			if buf[i] != r || buf[i+1] != g || buf[i+2] != b {
				return fmt.Errorf(
					"framecheck: pixel (%d,%d) = (%d,%d,%d), want (%d,%d,%d)",
					x, y, buf[i], buf[i+1], buf[i+2], r, g, b)
			}
		}
	}
	return nil
}
