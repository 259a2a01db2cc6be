// Package echo measures the echo pattern of a feedback delay.
//
// A feedback delay with loop length L samples turns a unit impulse into a
// direct tap followed by echoes at L, 2L, 3L and so on, each scaled by the
// feedback gain relative to the one before it. The package provides:
//
//   - ImpulseResponse: run a unit impulse through a FeedbackDelay
//   - Predict: closed-form echo metrics for a parameter snapshot
//   - Analyzer: recover the same metrics from a measured response
//   - Spectrum: magnitude response of the resulting comb filter
//
// # Usage
//
//	snap := params.Snapshot{Amplitude: 1, DelayTime: 0.25, Wet: 0.5, Dry: 1, Feedback: 0.4}
//	ir, err := echo.ImpulseResponse(snap, 48000, 48000)
//	m, err := echo.NewAnalyzer(48000).Analyze(ir)
//	fmt.Printf("delay %.0f ms, RT60 %.2f s\n", m.Delay*1000, m.DecayTime60)
package echo
