// Package params holds the tunable controls of the feedback delay.
//
// A Store is shared between a control context (host automation, UI) that
// writes values at arbitrary times and the audio context that reads them
// once per processed block. Every control is an independent atomic float64,
// so neither side ever blocks the other and no value is observed torn.
//
// Values are stored exactly as written. Range checks belong to whoever
// derives buffer positions from them; see [github.com/cwbudde/algo-delay/dsp/delay.ActiveLength].
package params
