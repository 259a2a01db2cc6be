package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/params"
	"github.com/cwbudde/algo-delay/internal/testutil"
)

const testSampleRate = 1000.0

func newTestDelay(t *testing.T, opts ...core.ProcessorOption) *FeedbackDelay {
	t.Helper()

	base := []core.ProcessorOption{
		core.WithSampleRate(testSampleRate),
		core.WithMaxDelay(1),
		core.WithBlockSize(64),
	}

	d, err := NewFeedbackDelay(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewFeedbackDelay() error = %v", err)
	}
	return d
}

// wetOnly isolates the delayed path: no dry signal, unity output gain.
func wetOnly(delaySeconds, feedback float64) params.Snapshot {
	return params.Snapshot{
		Amplitude: 1,
		DelayTime: delaySeconds,
		Wet:       1,
		Dry:       0,
		Feedback:  feedback,
	}
}

func processSamples(d *FeedbackDelay, in []float64, snap params.Snapshot) []float64 {
	out := make([]float64, len(in))
	for i := range in {
		out[i] = d.ProcessSample(in[i], snap)
	}
	return out
}

func TestNewFeedbackDelayDefaults(t *testing.T) {
	d, err := NewFeedbackDelay()
	if err != nil {
		t.Fatalf("NewFeedbackDelay() error = %v", err)
	}

	if d.Capacity() != 441000 {
		t.Fatalf("Capacity() = %d, want 441000", d.Capacity())
	}
	if d.SampleRate() != 44100 {
		t.Fatalf("SampleRate() = %v, want 44100", d.SampleRate())
	}
	if math.Abs(d.MaxDelay()-10) > 1e-12 {
		t.Fatalf("MaxDelay() = %v, want 10", d.MaxDelay())
	}
	if d.WriteIndex() != 0 {
		t.Fatalf("WriteIndex() = %d, want 0", d.WriteIndex())
	}
	if d.Formula() != FeedbackMixed {
		t.Fatalf("Formula() = %v, want %v", d.Formula(), FeedbackMixed)
	}
	if d.SoftClip() {
		t.Fatal("soft clip enabled by default")
	}
}

func TestNewFeedbackDelayValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []core.ProcessorOption
	}{
		{name: "inf sample rate", opts: []core.ProcessorOption{core.WithSampleRate(math.Inf(1))}},
		{name: "inf max delay", opts: []core.ProcessorOption{core.WithMaxDelay(math.Inf(1))}},
		{name: "too short", opts: []core.ProcessorOption{core.WithSampleRate(10), core.WithMaxDelay(0.01)}},
		{name: "too long", opts: []core.ProcessorOption{core.WithSampleRate(1e9), core.WithMaxDelay(1e3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFeedbackDelay(tt.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSetFormulaValidation(t *testing.T) {
	d := newTestDelay(t)

	if err := d.SetFormula(Formula(42)); err == nil {
		t.Fatal("expected error for unknown formula")
	}
	if err := d.SetFormula(FeedbackInput); err != nil {
		t.Fatalf("SetFormula() error = %v", err)
	}
	if d.Formula() != FeedbackInput {
		t.Fatalf("Formula() = %v, want %v", d.Formula(), FeedbackInput)
	}
}

func TestImpulseResponseEchoTrain(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		feedback float64
	}{
		{name: "10 samples half feedback", seconds: 0.01, feedback: 0.5},
		{name: "7 samples strong feedback", seconds: 0.007, feedback: 0.9},
		{name: "single sample", seconds: 0.001, feedback: 0.3},
		{name: "no feedback", seconds: 0.02, feedback: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDelay(t)
			period := int(math.Round(tt.seconds * testSampleRate))

			in := testutil.Impulse(200, 0)
			got := processSamples(d, in, wetOnly(tt.seconds, tt.feedback))

			want := testutil.EchoTrain(len(in), period, tt.feedback, tt.feedback)
			testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
		})
	}
}

func TestMixFormula(t *testing.T) {
	d := newTestDelay(t)
	snap := params.Snapshot{Amplitude: 0.8, DelayTime: 0.002, Wet: 0.25, Dry: 0.5, Feedback: 0.5}

	// Loop length 2: outputs at n depend on the value stored at n-2.
	in := []float64{1, -1, 0.5, 0.25, 0}
	got := processSamples(d, in, snap)

	stored0 := (1 + 0) * 0.5
	stored1 := (-1 + 0) * 0.5
	stored2 := (0.5 + stored0) * 0.5
	want := []float64{
		(1 * 0.5) * 0.8,
		(-1 * 0.5) * 0.8,
		(0.5*0.5 + stored0*0.25) * 0.8,
		(0.25*0.5 + stored1*0.25) * 0.8,
		(0*0.5 + stored2*0.25) * 0.8,
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestFormulaVariants(t *testing.T) {
	in := []float64{1, 0, 0, 0}

	tests := []struct {
		formula Formula
		want    []float64
	}{
		{formula: FeedbackMixed, want: []float64{0, 0.5, 0.25, 0.125}},
		{formula: FeedbackInput, want: []float64{0, 0.5, 0, 0}},
		{formula: FeedbackOffsetProduct, want: []float64{0, 0.5, 0.5, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.formula.String(), func(t *testing.T) {
			d := newTestDelay(t)
			if err := d.SetFormula(tt.formula); err != nil {
				t.Fatal(err)
			}

			got := processSamples(d, in, wetOnly(0.001, 0.5))
			testutil.RequireSliceNearlyEqual(t, got, tt.want, 1e-15)
		})
	}
}

func TestSilenceStaysSilent(t *testing.T) {
	for _, f := range []Formula{FeedbackMixed, FeedbackInput} {
		t.Run(f.String(), func(t *testing.T) {
			d := newTestDelay(t)
			if err := d.SetFormula(f); err != nil {
				t.Fatal(err)
			}

			snap := params.Snapshot{Amplitude: 1, DelayTime: 0.05, Wet: 1, Dry: 1, Feedback: 0.95}
			in := make([]float64, 3000)

			testutil.RequireAllZero(t, processSamples(d, in, snap))

			out := make([]float64, len(in))
			d.ProcessBlock(out, in, snap)
			testutil.RequireAllZero(t, out)
		})
	}
}

func TestDeterminism(t *testing.T) {
	in := testutil.DeterministicNoise(7, 1, 2048)
	snap := params.Snapshot{Amplitude: 0.9, DelayTime: 0.123, Wet: 0.6, Dry: 0.4, Feedback: 0.7}

	a := processSamples(newTestDelay(t), in, snap)
	b := processSamples(newTestDelay(t), in, snap)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestProcessBlockMatchesSample(t *testing.T) {
	tests := []struct {
		name      string
		blockSize int
		seconds   float64
		formula   Formula
	}{
		{name: "block shorter than loop", blockSize: 16, seconds: 0.05, formula: FeedbackMixed},
		{name: "block longer than loop", blockSize: 256, seconds: 0.013, formula: FeedbackMixed},
		{name: "tiny scratch", blockSize: 3, seconds: 0.011, formula: FeedbackMixed},
		{name: "single sample loop", blockSize: 64, seconds: 0, formula: FeedbackMixed},
		{name: "input formula", blockSize: 32, seconds: 0.009, formula: FeedbackInput},
		{name: "offset product formula", blockSize: 32, seconds: 0.009, formula: FeedbackOffsetProduct},
	}

	input := testutil.DeterministicNoise(11, 0.5, 1500)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := params.Snapshot{Amplitude: 0.7, DelayTime: tt.seconds, Wet: 0.5, Dry: 0.8, Feedback: 0.6}

			d1 := newTestDelay(t, core.WithBlockSize(tt.blockSize))
			d2 := newTestDelay(t, core.WithBlockSize(tt.blockSize))
			if err := d1.SetFormula(tt.formula); err != nil {
				t.Fatal(err)
			}
			if err := d2.SetFormula(tt.formula); err != nil {
				t.Fatal(err)
			}

			want := processSamples(d1, input, snap)

			got := make([]float64, len(input))
			copy(got, input)
			// Host blocks of uneven size, processed in place.
			for start, size := 0, 1; start < len(got); start, size = start+size, size*2%97+1 {
				end := min(start+size, len(got))
				d2.ProcessInPlace(got[start:end], snap)
			}

			testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
			if d1.WriteIndex() != d2.WriteIndex() {
				t.Fatalf("cursor mismatch: %d vs %d", d1.WriteIndex(), d2.WriteIndex())
			}
		})
	}
}

func TestProcessBlockUsesShorterSlice(t *testing.T) {
	d := newTestDelay(t)

	src := []float64{1, 1, 1, 1}
	dst := make([]float64, 2)
	d.ProcessBlock(dst, src, wetOnly(0.5, 0.5))

	if d.WriteIndex() != 2 {
		t.Fatalf("WriteIndex() = %d, want 2", d.WriteIndex())
	}
}

func TestCursorStaysInBoundsUnderChangingDelay(t *testing.T) {
	d := newTestDelay(t, core.WithBlockSize(8))
	times := testutil.DeterministicNoise(3, 1.5, 400) // includes negative and > max
	in := testutil.DeterministicNoise(5, 1, 37)
	out := make([]float64, len(in))

	for i, seconds := range times {
		snap := params.Snapshot{Amplitude: 1, DelayTime: seconds, Wet: 0.5, Dry: 0.5, Feedback: 0.5}
		if i%2 == 0 {
			d.ProcessBlock(out, in, snap)
		} else {
			for _, x := range in {
				d.ProcessSample(x, snap)
			}
		}

		active := d.ActiveLength()
		if active < 1 || active > d.Capacity() {
			t.Fatalf("active length %d outside [1, %d]", active, d.Capacity())
		}
		if d.WriteIndex() < 0 || d.WriteIndex() >= active {
			t.Fatalf("cursor %d outside [0, %d)", d.WriteIndex(), active)
		}
	}
}

func TestShrinkingDelayWrapsCursor(t *testing.T) {
	d := newTestDelay(t)

	for i := 0; i < 40; i++ {
		d.ProcessSample(0, wetOnly(0.05, 0))
	}
	if d.WriteIndex() != 40 {
		t.Fatalf("WriteIndex() = %d, want 40", d.WriteIndex())
	}

	// New loop of 10 samples: cursor wraps to 0, is read, then advances.
	d.ProcessSample(0, wetOnly(0.01, 0))
	if d.WriteIndex() != 1 {
		t.Fatalf("WriteIndex() = %d, want 1", d.WriteIndex())
	}
}

func TestDelayTimeAtOrAboveMaxClampsToCapacity(t *testing.T) {
	for _, seconds := range []float64{1, 1.5, 1e9, math.Inf(1)} {
		d := newTestDelay(t)
		d.ProcessSample(1, wetOnly(seconds, 0.5))

		if d.ActiveLength() != d.Capacity() {
			t.Fatalf("delay %v: ActiveLength() = %d, want %d", seconds, d.ActiveLength(), d.Capacity())
		}
	}
}

func TestInvalidDelayTimeUsesSingleSample(t *testing.T) {
	for _, seconds := range []float64{0, -1, math.NaN(), math.Inf(-1)} {
		d := newTestDelay(t)
		out := processSamples(d, []float64{1, 0, 0}, wetOnly(seconds, 0.5))

		if d.ActiveLength() != 1 {
			t.Fatalf("delay %v: ActiveLength() = %d, want 1", seconds, d.ActiveLength())
		}
		testutil.RequireSliceNearlyEqual(t, out, []float64{0, 0.5, 0.25}, 1e-15)
	}
}

func TestUnityFeedbackDivergesWithoutSoftClip(t *testing.T) {
	snap := wetOnly(0.001, 1.5)
	in := testutil.DC(1, 200)

	d := newTestDelay(t)
	out := processSamples(d, in, snap)
	if out[len(out)-1] < 1e6 {
		t.Fatalf("expected unbounded growth, got %v", out[len(out)-1])
	}

	clipped := newTestDelay(t)
	clipped.SetSoftClip(true)
	out = processSamples(clipped, in, snap)
	testutil.RequireFinite(t, out)
	for i, v := range out {
		if math.Abs(v) > 1 {
			t.Fatalf("sample %d = %v exceeds soft clip bound", i, v)
		}
	}
}

func TestDenormalsFlushedToZero(t *testing.T) {
	d := newTestDelay(t)
	out := processSamples(d, testutil.Impulse(60, 0), wetOnly(0.001, 0.1))

	// 0.1^k drops below the flush threshold well before sample 40.
	testutil.RequireAllZero(t, out[40:])
	if out[20] == 0 {
		t.Fatal("echo flushed too early")
	}
}

func TestResetRestoresState(t *testing.T) {
	d := newTestDelay(t)
	snap := params.Snapshot{Amplitude: 1, DelayTime: 0.01, Wet: 0.5, Dry: 0.5, Feedback: 0.5}
	in := testutil.Impulse(96, 0)

	out1 := processSamples(d, in, snap)
	d.Reset()
	out2 := processSamples(d, in, snap)

	testutil.RequireSliceNearlyEqual(t, out2, out1, 0)
}

func TestParseFormula(t *testing.T) {
	for _, f := range []Formula{FeedbackMixed, FeedbackInput, FeedbackOffsetProduct} {
		got, err := ParseFormula(f.String())
		if err != nil || got != f {
			t.Fatalf("ParseFormula(%q) = %v, %v", f.String(), got, err)
		}
	}
	if _, err := ParseFormula("tape"); err == nil {
		t.Fatal("expected error for unknown name")
	}
	if s := Formula(9).String(); s != "Formula(9)" {
		t.Fatalf("String() = %q", s)
	}
}
