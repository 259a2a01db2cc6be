//go:build !fastmath

package effects

import "math"

// softClipSample bounds x to (-1, 1) using tanh from the standard library.
func softClipSample(x float64) float64 {
	return math.Tanh(x)
}
