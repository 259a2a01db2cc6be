// Package effects provides the feedback delay processing engine.
//
// FeedbackDelay mixes the live signal with a delayed copy read from a
// fixed-capacity circular buffer:
//
//	out    = (in*dry + delayed*wet) * amplitude
//	stored = (in + delayed) * feedback
//
// The stored value can be computed with one of several Formula variants.
// Feedback at or above unity lets the loop grow without bound; SetSoftClip
// adds an optional tanh stage on the feedback path. Build with the fastmath
// tag to compute it with a fast exponential approximation.
//
// Processing never allocates and never fails. Delay times are clamped to
// the buffer capacity when the loop length is derived.
package effects
