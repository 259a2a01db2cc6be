package echo

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/delay"
	"github.com/cwbudde/algo-delay/dsp/effects"
	"github.com/cwbudde/algo-delay/dsp/params"
)

// Errors returned by echo measurement functions.
var (
	ErrEmptyIR           = errors.New("echo: impulse response is empty")
	ErrInvalidSampleRate = errors.New("echo: sample rate must be positive")
	ErrInvalidFFTSize    = errors.New("echo: FFT size must be a power of two >= 2")
	ErrNoEcho            = errors.New("echo: no echo above threshold")
)

// maxLoopSamples matches the largest delay line FeedbackDelay allocates.
const maxLoopSamples = 1 << 27

// DefaultThresholdDB is the level, relative to the strongest echo, below
// which a sample is not counted as an echo tap.
const DefaultThresholdDB = -120.0

// Metrics describes an echo pattern.
type Metrics struct {
	DelaySamples  int     // loop length: distance from the direct tap to the first echo
	Delay         float64 // DelaySamples in seconds
	DirectGain    float64 // output at sample 0
	FirstEchoGain float64 // output at DelaySamples
	DecayRatio    float64 // gain of each echo relative to the previous one
	DecayTime60   float64 // seconds until echoes fall 60 dB below the first; +Inf if they never do
	Echoes        int     // echo taps found by Analyze; zero for Predict
}

// Predict returns the echo metrics of the mixed feedback formula for snap
// at sampleRate. The loop length is rounded and clamped like the delay
// line does, except that no maximum delay applies.
func Predict(snap params.Snapshot, sampleRate float64) Metrics {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return Metrics{}
	}

	l := delay.ActiveLength(snap.DelayTime, sampleRate, maxLoopSamples)

	return Metrics{
		DelaySamples:  l,
		Delay:         float64(l) / sampleRate,
		DirectGain:    snap.Dry * snap.Amplitude,
		FirstEchoGain: snap.Wet * snap.Feedback * snap.Amplitude,
		DecayRatio:    snap.Feedback,
		DecayTime60:   decayTime60(snap.Feedback, l, sampleRate),
	}
}

// ImpulseResponse runs a unit impulse followed by length-1 zeros through a
// fresh FeedbackDelay sized for snap's delay time.
func ImpulseResponse(snap params.Snapshot, sampleRate float64, length int) ([]float64, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, ErrInvalidSampleRate
	}
	if length <= 0 {
		return nil, fmt.Errorf("%w: length %d", ErrEmptyIR, length)
	}

	l := delay.ActiveLength(snap.DelayTime, sampleRate, maxLoopSamples)

	fd, err := effects.NewFeedbackDelay(
		core.WithSampleRate(sampleRate),
		core.WithMaxDelay(float64(l)/sampleRate),
	)
	if err != nil {
		return nil, err
	}

	ir := make([]float64, length)
	ir[0] = 1
	fd.ProcessInPlace(ir, snap)

	return ir, nil
}

// Analyzer recovers echo metrics from a measured impulse response.
type Analyzer struct {
	SampleRate float64

	// ThresholdDB is the tap detection level relative to the strongest
	// echo. Zero selects DefaultThresholdDB.
	ThresholdDB float64
}

// NewAnalyzer creates an analyzer with the default detection threshold.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate, ThresholdDB: DefaultThresholdDB}
}

// Analyze finds the first echo after sample 0 and follows its repeats at
// integer multiples of the loop length. The decay ratio is the geometric
// mean over all visible repeats and is zero when only one echo is visible.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if len(ir) == 0 {
		return Metrics{}, ErrEmptyIR
	}
	if !(a.SampleRate > 0) || math.IsInf(a.SampleRate, 0) {
		return Metrics{}, ErrInvalidSampleRate
	}

	peak := 0.0
	for _, v := range ir[1:] {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 || !core.IsFinite(peak) {
		return Metrics{}, ErrNoEcho
	}

	thresholdDB := a.ThresholdDB
	if thresholdDB == 0 {
		thresholdDB = DefaultThresholdDB
	}
	threshold := peak * core.DBToLinear(thresholdDB)

	l := 0
	for i := 1; i < len(ir); i++ {
		if math.Abs(ir[i]) > threshold {
			l = i
			break
		}
	}
	if l == 0 {
		return Metrics{}, ErrNoEcho
	}

	m := Metrics{
		DelaySamples:  l,
		Delay:         float64(l) / a.SampleRate,
		DirectGain:    ir[0],
		FirstEchoGain: ir[l],
		Echoes:        1,
	}

	last := l
	for i := 2 * l; i < len(ir); i += l {
		if math.Abs(ir[i]) <= threshold {
			break
		}
		last = i
		m.Echoes++
	}

	if m.Echoes > 1 {
		ratio := math.Pow(math.Abs(ir[last]/ir[l]), 1/float64(m.Echoes-1))
		if ir[2*l]*ir[l] < 0 {
			ratio = -ratio
		}
		m.DecayRatio = ratio
	}
	m.DecayTime60 = decayTime60(m.DecayRatio, l, a.SampleRate)

	return m, nil
}

// decayTime60 is the time for a geometric echo train with the given ratio
// to fall 60 dB below its first echo.
func decayTime60(ratio float64, loop int, sampleRate float64) float64 {
	r := math.Abs(ratio)
	switch {
	case r == 0:
		return 0
	case r >= 1 || math.IsNaN(r):
		return math.Inf(1)
	}

	repeats := -3 / math.Log10(r)
	return repeats * float64(loop) / sampleRate
}
