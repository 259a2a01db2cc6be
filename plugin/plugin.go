package plugin

import (
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/effects"
	"github.com/cwbudde/algo-delay/dsp/params"
	"github.com/go-audio/audio"
)

// Plugin is one host instance of the feedback delay.
type Plugin struct {
	cfg      config
	info     Info
	store    *params.Store
	params   *Parameters
	engines  []*effects.FeedbackDelay
	channels int

	// scratch holds one de-interleaved channel chunk.
	scratch []float64
}

// New creates a plugin with every delay line allocated and zeroed.
func New(opts ...Option) (*Plugin, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := checkChannels(cfg.channels, cfg.channels); err != nil {
		cfg.logger.Error("rejected channel count", "channels", cfg.channels, "error", err)
		return nil, err
	}
	if cfg.mode != Independent && cfg.mode != Shared {
		return nil, fmt.Errorf("plugin: unknown channel mode %d", int(cfg.mode))
	}

	store := params.NewStoreFrom(cfg.initial)
	p := &Plugin{
		cfg:     cfg,
		store:   store,
		scratch: make([]float64, cfg.proc.BlockSize),
	}

	if err := p.allocate(cfg.channels); err != nil {
		cfg.logger.Error("delay allocation failed", "error", err)
		return nil, err
	}
	p.params = newParameters(store, cfg.proc.MaxDelaySeconds)
	p.channels = cfg.channels
	p.info = defaultInfo(cfg.channels)

	cfg.logger.Debug("feedback delay created",
		"sample_rate", cfg.proc.SampleRate,
		"capacity", p.engines[0].Capacity(),
		"channels", cfg.channels,
		"mode", cfg.mode.String(),
		"formula", cfg.formula.String(),
		"soft_clip", cfg.softClip)

	return p, nil
}

func checkChannels(inputs, outputs int) error {
	if inputs != outputs {
		return fmt.Errorf("%w: %d in, %d out", ErrChannelMismatch, inputs, outputs)
	}
	if inputs < 1 || inputs > MaxChannels {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidChannelCount, inputs, MaxChannels)
	}
	return nil
}

// allocate makes sure an engine exists for each of n channels. Existing
// engines keep their state.
func (p *Plugin) allocate(n int) error {
	want := n
	if p.cfg.mode == Shared {
		want = 1
	}

	for len(p.engines) < want {
		e, err := effects.NewFeedbackDelay(
			core.WithSampleRate(p.cfg.proc.SampleRate),
			core.WithMaxDelay(p.cfg.proc.MaxDelaySeconds),
			core.WithBlockSize(p.cfg.proc.BlockSize),
		)
		if err != nil {
			return err
		}
		if err := e.SetFormula(p.cfg.formula); err != nil {
			return err
		}
		e.SetSoftClip(p.cfg.softClip)
		p.engines = append(p.engines, e)
	}
	p.engines = p.engines[:want]

	return nil
}

// Info returns the plugin metadata.
func (p *Plugin) Info() Info { return p.info }

// Parameters returns the indexed parameter surface.
func (p *Plugin) Parameters() *Parameters { return p.params }

// Store returns the shared parameter store.
func (p *Plugin) Store() *params.Store { return p.store }

// Channels returns the negotiated channel count.
func (p *Plugin) Channels() int { return p.channels }

// ChannelMode returns how delay lines are assigned to channels.
func (p *Plugin) ChannelMode() ChannelMode { return p.cfg.mode }

// SampleRate returns the processing sample rate in Hz.
func (p *Plugin) SampleRate() float64 { return p.cfg.proc.SampleRate }

// Engine returns the delay engine processing channel ch, or nil when ch is
// outside the negotiated channel count.
func (p *Plugin) Engine(ch int) *effects.FeedbackDelay {
	if ch < 0 || ch >= p.channels {
		return nil
	}
	if p.cfg.mode == Shared {
		return p.engines[0]
	}
	return p.engines[ch]
}

// SetChannelCount negotiates the channel layout. Only matching input and
// output counts are supported. Delay lines are allocated for new channels;
// existing channels keep their echoes.
func (p *Plugin) SetChannelCount(inputs, outputs int) error {
	if err := checkChannels(inputs, outputs); err != nil {
		p.cfg.logger.Warn("rejected channel layout", "inputs", inputs, "outputs", outputs, "error", err)
		return err
	}
	if inputs == p.channels {
		return nil
	}

	if err := p.allocate(inputs); err != nil {
		return err
	}
	p.cfg.logger.Info("channel layout changed", "from", p.channels, "to", inputs)
	p.channels = inputs
	p.info.Inputs = inputs
	p.info.Outputs = outputs

	return nil
}

// Reset clears every delay line.
func (p *Plugin) Reset() {
	for _, e := range p.engines {
		e.Reset()
	}
}

// Process is the per-block audio callback. inputs[ch] is processed into
// outputs[ch] for every channel present in both; each channel covers the
// shorter of its two slices. Channels beyond the negotiated count are
// copied through unchanged.
func (p *Plugin) Process(inputs, outputs [][]float64) {
	snap := p.store.Snapshot()

	n := min(len(inputs), len(outputs))
	for ch := 0; ch < n; ch++ {
		e := p.Engine(ch)
		if e == nil {
			copy(outputs[ch], inputs[ch])
			continue
		}
		e.ProcessBlock(outputs[ch], inputs[ch], snap)
	}
}

// ProcessInterleaved processes an interleaved go-audio buffer in place.
// Channels are handled one after another, as in Process, so both entry
// points produce the same output.
func (p *Plugin) ProcessInterleaved(buf *audio.FloatBuffer) error {
	if buf == nil || buf.Format == nil {
		return ErrNilBuffer
	}

	nch := buf.Format.NumChannels
	if nch != p.channels {
		return fmt.Errorf("%w: buffer has %d channels, plugin has %d",
			ErrInvalidChannelCount, nch, p.channels)
	}
	if len(buf.Data)%nch != 0 {
		return fmt.Errorf("%w: %d samples for %d channels", ErrPartialFrame, len(buf.Data), nch)
	}

	snap := p.store.Snapshot()
	frames := len(buf.Data) / nch

	for ch := 0; ch < nch; ch++ {
		e := p.Engine(ch)
		for start := 0; start < frames; start += len(p.scratch) {
			chunk := p.scratch[:min(len(p.scratch), frames-start)]
			for i := range chunk {
				chunk[i] = buf.Data[(start+i)*nch+ch]
			}
			e.ProcessInPlace(chunk, snap)
			for i, v := range chunk {
				buf.Data[(start+i)*nch+ch] = v
			}
		}
	}

	return nil
}
