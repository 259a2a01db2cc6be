package core

// ProcessorConfig defines common DSP processing settings.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int

	// MaxDelaySeconds is the longest delay a processor reserves memory for.
	MaxDelaySeconds float64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the defaults used by the delay effect:
// 44.1 kHz, 1024-sample blocks and a 10 second delay ceiling.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:      44100,
		BlockSize:       1024,
		MaxDelaySeconds: 10,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithMaxDelay sets the maximum delay time in seconds.
func WithMaxDelay(seconds float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if seconds > 0 {
			cfg.MaxDelaySeconds = seconds
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
