package plugin

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/params"
)

// Parameter indices as seen by the host.
const (
	ParamAmplitude = iota
	ParamFeedback
	ParamDelayTime
	ParamWet
	ParamDry

	NumParams
)

var paramNames = [NumParams]string{
	ParamAmplitude: "Amplitude",
	ParamFeedback:  "Feedback",
	ParamDelayTime: "Delay Time",
	ParamWet:       "Wet",
	ParamDry:       "Dry",
}

var paramLabels = [NumParams]string{
	ParamAmplitude: "dB",
	ParamFeedback:  "%",
	ParamDelayTime: "s",
	ParamWet:       "%",
	ParamDry:       "%",
}

// Parameters is the indexed control surface over a params.Store.
//
// Host values are normalized to [0, 1]. The delay time control is scaled by
// the maximum delay before it is stored, so a host value of 0.1 with a 10 s
// maximum stores 1 s. No value is clamped here; out-of-range indices are
// ignored.
type Parameters struct {
	store    *params.Store
	maxDelay float64
}

func newParameters(store *params.Store, maxDelay float64) *Parameters {
	return &Parameters{store: store, maxDelay: maxDelay}
}

// Count returns the number of parameters.
func (p *Parameters) Count() int { return NumParams }

// Scale returns the factor applied to the host value before storing it.
func (p *Parameters) Scale(index int) float64 {
	if index == ParamDelayTime {
		return p.maxDelay
	}
	return 1
}

// Get returns the normalized host value of a parameter, or 0 for an
// unknown index.
func (p *Parameters) Get(index int) float64 {
	if index < 0 || index >= NumParams {
		return 0
	}
	return p.Plain(index) / p.Scale(index)
}

// Set stores a normalized host value. The delay time is scaled to seconds.
func (p *Parameters) Set(index int, value float64) {
	v := value * p.Scale(index)
	switch index {
	case ParamAmplitude:
		p.store.SetAmplitude(v)
	case ParamFeedback:
		p.store.SetFeedback(v)
	case ParamDelayTime:
		p.store.SetDelayTime(v)
	case ParamWet:
		p.store.SetWet(v)
	case ParamDry:
		p.store.SetDry(v)
	}
}

// Plain returns the stored value of a parameter: a gain, or seconds for
// the delay time.
func (p *Parameters) Plain(index int) float64 {
	switch index {
	case ParamAmplitude:
		return p.store.Amplitude()
	case ParamFeedback:
		return p.store.Feedback()
	case ParamDelayTime:
		return p.store.DelayTime()
	case ParamWet:
		return p.store.Wet()
	case ParamDry:
		return p.store.Dry()
	default:
		return 0
	}
}

// Name returns the display name of a parameter.
func (p *Parameters) Name(index int) string {
	if index < 0 || index >= NumParams {
		return ""
	}
	return paramNames[index]
}

// Label returns the unit shown next to a parameter value.
func (p *Parameters) Label(index int) string {
	if index < 0 || index >= NumParams {
		return ""
	}
	return paramLabels[index]
}

// DisplayText formats the current value of a parameter for the host UI.
func (p *Parameters) DisplayText(index int) string {
	if index < 0 || index >= NumParams {
		return ""
	}

	v := p.Plain(index)
	switch index {
	case ParamAmplitude:
		return formatGain(v)
	case ParamDelayTime:
		return formatSeconds(v)
	default:
		return formatPercent(v)
	}
}

func formatGain(linear float64) string {
	if linear <= 0 {
		return "-inf dB"
	}
	return fmt.Sprintf("%.1f dB", core.LinearToDB(linear))
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func formatSeconds(s float64) string {
	if math.Abs(s) < 1 {
		return fmt.Sprintf("%.1f ms", s*1000)
	}
	return fmt.Sprintf("%.2f s", s)
}
