package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/delay"
	"github.com/cwbudde/algo-delay/dsp/params"
	"github.com/cwbudde/algo-vecmath"
)

// maxDelayCapacity bounds the delay line allocation (1 GiB of float64).
const maxDelayCapacity = 1 << 27

// FeedbackDelay is a single-line feedback delay with separate wet, dry,
// feedback and output gains.
//
// The delay line is sized once for the configured maximum delay. The delay
// time of each call only selects how much of it is used, so the time can
// change on every block without allocation. Parameters are passed in as a
// params.Snapshot and are never validated; the derived loop length is
// clamped instead.
//
// A FeedbackDelay is owned by one audio goroutine and is not safe for
// concurrent use.
type FeedbackDelay struct {
	sampleRate float64
	formula    Formula
	softClip   bool

	line *delay.Line

	feedBuf []float64
	wetBuf  []float64
}

// NewFeedbackDelay creates a delay with capacity for cfg.MaxDelaySeconds at
// cfg.SampleRate. cfg.BlockSize sizes the scratch used by ProcessBlock;
// larger blocks are processed in several passes.
func NewFeedbackDelay(opts ...core.ProcessorOption) (*FeedbackDelay, error) {
	cfg := core.ApplyProcessorOptions(opts...)
	if !core.IsFinite(cfg.SampleRate) {
		return nil, fmt.Errorf("delay sample rate must be finite: %f", cfg.SampleRate)
	}
	if !core.IsFinite(cfg.MaxDelaySeconds) {
		return nil, fmt.Errorf("delay max time must be finite: %f", cfg.MaxDelaySeconds)
	}

	capacity := math.Round(cfg.MaxDelaySeconds * cfg.SampleRate)
	if capacity < 1 || capacity > maxDelayCapacity {
		return nil, fmt.Errorf("delay capacity must be in [1, %d] samples: %.0f",
			maxDelayCapacity, capacity)
	}

	line, err := delay.New(int(capacity))
	if err != nil {
		return nil, err
	}

	return &FeedbackDelay{
		sampleRate: cfg.SampleRate,
		formula:    FeedbackMixed,
		line:       line,
		feedBuf:    make([]float64, cfg.BlockSize),
		wetBuf:     make([]float64, cfg.BlockSize),
	}, nil
}

// SetFormula selects the feedback formula.
func (d *FeedbackDelay) SetFormula(f Formula) error {
	if !f.valid() {
		return fmt.Errorf("delay formula is invalid: %v", f)
	}
	d.formula = f
	return nil
}

// SetSoftClip enables a tanh stage on the feedback path. It keeps the loop
// bounded when feedback is at or above unity; off by default.
func (d *FeedbackDelay) SetSoftClip(enabled bool) {
	d.softClip = enabled
}

// Reset clears the delay line and rewinds the cursor.
func (d *FeedbackDelay) Reset() {
	d.line.Reset()
}

// ProcessSample processes one sample using the controls in snap.
func (d *FeedbackDelay) ProcessSample(input float64, snap params.Snapshot) float64 {
	d.line.SetActive(delay.ActiveLength(snap.DelayTime, d.sampleRate, d.line.Len()))

	delayed := d.line.Read()
	out := (input*snap.Dry + delayed*snap.Wet) * snap.Amplitude
	d.line.Write(d.shape(d.formula.feed(input, delayed, snap.Feedback)))

	return out
}

// ProcessBlock processes min(len(dst), len(src)) samples from src into dst.
// The result equals calling ProcessSample for each sample with the same
// snapshot. dst and src may be the same slice.
func (d *FeedbackDelay) ProcessBlock(dst, src []float64, snap params.Snapshot) {
	n := min(len(dst), len(src))
	d.line.SetActive(delay.ActiveLength(snap.DelayTime, d.sampleRate, d.line.Len()))

	for done := 0; done < n; {
		// A segment never wraps, so none of its samples is read after
		// being overwritten in the same pass.
		seg := d.line.Segment(min(n-done, len(d.feedBuf)))
		k := len(seg)
		d.mixSegment(dst[done:done+k], src[done:done+k], seg, snap)
		d.line.Advance(k)
		done += k
	}
}

// ProcessInPlace applies the delay to buf in place.
func (d *FeedbackDelay) ProcessInPlace(buf []float64, snap params.Snapshot) {
	d.ProcessBlock(buf, buf, snap)
}

// mixSegment computes outputs for one contiguous run of the delay line and
// overwrites the run with the new feedback values.
func (d *FeedbackDelay) mixSegment(dst, src, seg []float64, snap params.Snapshot) {
	k := len(seg)
	feed := d.feedBuf[:k]
	wet := d.wetBuf[:k]

	switch d.formula {
	case FeedbackInput:
		vecmath.ScaleBlock(feed, src, snap.Feedback)
	case FeedbackOffsetProduct:
		vecmath.MulBlock(feed, seg, src)
		for i := range feed {
			feed[i] += snap.Feedback
		}
	default:
		copy(wet, src)
		vecmath.AddBlockInPlace(wet, seg)
		vecmath.ScaleBlock(feed, wet, snap.Feedback)
	}

	// seg is free once the feedback values are computed; reuse it for the
	// dry term so dst may alias src.
	vecmath.ScaleBlock(wet, seg, snap.Wet)
	vecmath.ScaleBlock(seg, src, snap.Dry)
	vecmath.AddBlockInPlace(seg, wet)
	vecmath.ScaleBlock(dst, seg, snap.Amplitude)

	for i, v := range feed {
		seg[i] = d.shape(v)
	}
}

func (d *FeedbackDelay) shape(v float64) float64 {
	if d.softClip {
		v = softClipSample(v)
	}
	return core.FlushDenormals(v)
}

// SampleRate returns sample rate in Hz.
func (d *FeedbackDelay) SampleRate() float64 { return d.sampleRate }

// Capacity returns the delay line size in samples.
func (d *FeedbackDelay) Capacity() int { return d.line.Len() }

// MaxDelay returns the longest representable delay in seconds.
func (d *FeedbackDelay) MaxDelay() float64 { return float64(d.line.Len()) / d.sampleRate }

// ActiveLength returns the loop length used by the last processed sample.
func (d *FeedbackDelay) ActiveLength() int { return d.line.Active() }

// WriteIndex returns the delay line cursor.
func (d *FeedbackDelay) WriteIndex() int { return d.line.WritePos() }

// Formula returns the feedback formula.
func (d *FeedbackDelay) Formula() Formula { return d.formula }

// SoftClip reports whether the feedback soft clip is enabled.
func (d *FeedbackDelay) SoftClip() bool { return d.softClip }
