package testutil

import (
	"math"
	"math/rand"
)

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// EchoTrain returns the ideal response of a recirculating delay to a unit
// impulse at index 0: zero everywhere except gain*ratio^(k-1) at every
// multiple k*period, k >= 1.
func EchoTrain(length, period int, gain, ratio float64) []float64 {
	out := make([]float64, length)
	if period <= 0 {
		return out
	}
	for k := 1; k*period < length; k++ {
		out[k*period] = gain * math.Pow(ratio, float64(k-1))
	}
	return out
}
