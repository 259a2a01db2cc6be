// Package plugin exposes the feedback delay the way an audio host sees it:
// descriptive metadata, channel negotiation, a per-block processing
// callback and an indexed parameter surface.
//
// Two goroutines are expected. The audio goroutine calls Process or
// ProcessInterleaved; these read one parameter snapshot per call and never
// allocate, lock, log or fail. Any other goroutine may call
// Parameters().Set at any time. Configuration calls such as
// SetChannelCount and Reset must not overlap with processing.
//
//	p, err := plugin.New(plugin.WithSampleRate(48000))
//	if err != nil {
//		return err
//	}
//	p.Parameters().Set(plugin.ParamDelayTime, 0.025) // 250 ms of a 10 s range
//	p.Process(inputs, outputs)
package plugin
