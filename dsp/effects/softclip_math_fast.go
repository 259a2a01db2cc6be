//go:build fastmath

package effects

import (
	"github.com/meko-christian/algo-approx"
)

// softClipLimit is the magnitude above which tanh is 1 to double precision.
const softClipLimit = 19.0

// softClipSample bounds x to (-1, 1) using a fast exponential.
// Uses the identity: tanh(x) = 1 - 2/(e^(2x) + 1)
func softClipSample(x float64) float64 {
	if x > softClipLimit {
		return 1
	}
	if x < -softClipLimit {
		return -1
	}
	return 1 - 2/(approx.FastExp(2*x)+1)
}
