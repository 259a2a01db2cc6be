package plugin

import (
	"log/slog"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/effects"
	"github.com/cwbudde/algo-delay/dsp/params"
)

// MaxChannels is the largest channel count accepted by New and SetChannelCount.
const MaxChannels = 32

// ChannelMode selects how delay lines are assigned to channels.
type ChannelMode int

const (
	// Independent gives every channel its own delay line and cursor.
	Independent ChannelMode = iota

	// Shared runs all channels through one delay line and cursor, one
	// channel after the other within each block. Channels bleed into each
	// other's echoes.
	Shared
)

// String returns the mode name.
func (m ChannelMode) String() string {
	switch m {
	case Independent:
		return "independent"
	case Shared:
		return "shared"
	default:
		return "unknown"
	}
}

type config struct {
	proc     core.ProcessorConfig
	channels int
	mode     ChannelMode
	formula  effects.Formula
	softClip bool
	initial  params.Snapshot
	logger   *slog.Logger
}

func defaultConfig() config {
	return config{
		proc:     core.DefaultProcessorConfig(),
		channels: 2,
		mode:     Independent,
		formula:  effects.FeedbackMixed,
		initial:  params.DefaultSnapshot(),
		logger:   slog.New(slog.DiscardHandler),
	}
}

// Option configures a Plugin.
type Option func(*config)

// WithSampleRate sets the sample rate in Hz. Non-positive values are ignored.
func WithSampleRate(sampleRate float64) Option {
	return func(c *config) { core.WithSampleRate(sampleRate)(&c.proc) }
}

// WithMaxDelay sets the longest supported delay in seconds. It sizes every
// delay line and scales the delay time control.
func WithMaxDelay(seconds float64) Option {
	return func(c *config) { core.WithMaxDelay(seconds)(&c.proc) }
}

// WithBlockSize sets the expected host block size.
func WithBlockSize(blockSize int) Option {
	return func(c *config) { core.WithBlockSize(blockSize)(&c.proc) }
}

// WithChannels sets the initial input and output channel count.
func WithChannels(n int) Option {
	return func(c *config) { c.channels = n }
}

// WithChannelMode selects independent or shared delay lines.
func WithChannelMode(mode ChannelMode) Option {
	return func(c *config) { c.mode = mode }
}

// WithFormula selects the feedback formula.
func WithFormula(f effects.Formula) Option {
	return func(c *config) { c.formula = f }
}

// WithSoftClip enables the tanh stage on the feedback path.
func WithSoftClip(enabled bool) Option {
	return func(c *config) { c.softClip = enabled }
}

// WithParameters sets the initial control values.
func WithParameters(snap params.Snapshot) Option {
	return func(c *config) { c.initial = snap }
}

// WithLogger sets the logger used for lifecycle events. Nothing is logged
// from the processing path.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
