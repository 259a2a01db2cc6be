package params

import (
	"math"
	"sync/atomic"
)

// Default control values.
const (
	DefaultAmplitude = 0.5
	DefaultDelayTime = 1.0 // seconds
	DefaultWet       = 0.5
	DefaultDry       = 0.5
	DefaultFeedback  = 0.3
)

// atomicFloat is a float64 stored as its IEEE 754 bit pattern.
type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// Snapshot is a plain copy of all controls taken at one point in time.
type Snapshot struct {
	Amplitude float64 // post-mix output gain
	DelayTime float64 // seconds
	Wet       float64 // gain of the delayed signal
	Dry       float64 // gain of the live signal
	Feedback  float64 // fraction re-injected into the delay line
}

// DefaultSnapshot returns the default control values.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Amplitude: DefaultAmplitude,
		DelayTime: DefaultDelayTime,
		Wet:       DefaultWet,
		Dry:       DefaultDry,
		Feedback:  DefaultFeedback,
	}
}

// Store is the lock-free parameter state shared between control and audio
// goroutines. The zero value is not ready for use; call NewStore.
type Store struct {
	amplitude atomicFloat
	delayTime atomicFloat
	wet       atomicFloat
	dry       atomicFloat
	feedback  atomicFloat
}

// NewStore returns a Store initialized with the default values.
func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// NewStoreFrom returns a Store initialized from snap.
func NewStoreFrom(snap Snapshot) *Store {
	s := &Store{}
	s.Apply(snap)
	return s
}

// Reset restores every control to its default.
func (s *Store) Reset() {
	s.Apply(DefaultSnapshot())
}

// Apply writes all fields of snap. Fields are stored one by one, so a
// concurrent reader may see a mix of old and new values.
func (s *Store) Apply(snap Snapshot) {
	s.amplitude.Store(snap.Amplitude)
	s.delayTime.Store(snap.DelayTime)
	s.wet.Store(snap.Wet)
	s.dry.Store(snap.Dry)
	s.feedback.Store(snap.Feedback)
}

// Snapshot loads every control once.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Amplitude: s.amplitude.Load(),
		DelayTime: s.delayTime.Load(),
		Wet:       s.wet.Load(),
		Dry:       s.dry.Load(),
		Feedback:  s.feedback.Load(),
	}
}

// Amplitude returns the post-mix output gain.
func (s *Store) Amplitude() float64 { return s.amplitude.Load() }

// SetAmplitude sets the post-mix output gain.
func (s *Store) SetAmplitude(v float64) { s.amplitude.Store(v) }

// DelayTime returns the delay time in seconds.
func (s *Store) DelayTime() float64 { return s.delayTime.Load() }

// SetDelayTime sets the delay time in seconds.
func (s *Store) SetDelayTime(seconds float64) { s.delayTime.Store(seconds) }

// Wet returns the gain applied to the delayed signal.
func (s *Store) Wet() float64 { return s.wet.Load() }

// SetWet sets the gain applied to the delayed signal.
func (s *Store) SetWet(v float64) { s.wet.Store(v) }

// Dry returns the gain applied to the live signal.
func (s *Store) Dry() float64 { return s.dry.Load() }

// SetDry sets the gain applied to the live signal.
func (s *Store) SetDry(v float64) { s.dry.Store(v) }

// Feedback returns the fraction of signal fed back into the delay line.
func (s *Store) Feedback() float64 { return s.feedback.Load() }

// SetFeedback sets the fraction of signal fed back into the delay line.
func (s *Store) SetFeedback(v float64) { s.feedback.Store(v) }
