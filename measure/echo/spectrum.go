package echo

import (
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-delay/dsp/core"
)

// Spectrum returns the magnitude response of ir for bins 0 through
// fftSize/2. The response is truncated or zero padded to fftSize samples.
func Spectrum(ir []float64, fftSize int) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, ErrInvalidFFTSize
	}

	in := make([]complex128, fftSize)
	for i := 0; i < min(len(ir), fftSize); i++ {
		in[i] = complex(ir[i], 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, err
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, err
	}

	mag := make([]float64, fftSize/2+1)
	for i := range mag {
		mag[i] = cmplx.Abs(out[i])
	}

	return mag, nil
}

// SpectrumDB is Spectrum in decibels. Zero magnitudes map to -Inf.
func SpectrumDB(ir []float64, fftSize int) ([]float64, error) {
	mag, err := Spectrum(ir, fftSize)
	if err != nil {
		return nil, err
	}

	for i, m := range mag {
		mag[i] = core.LinearToDB(m)
	}

	return mag, nil
}
