package loudness

import "github.com/arqu-audio/r128meter/dsp/core"

// defaultMode enables the measurements most callers want without paying
// for true-peak oversampling or histogram quantization.
const defaultMode = ModeI | ModeLRA | ModeSamplePeak

// MeterConfig defines configuration for the loudness meter.
type MeterConfig struct {
	core.ProcessorConfig
	Channels     int
	Mode         Mode
	ChannelRoles []ChannelRole
}

// MeterOption mutates a MeterConfig.
type MeterOption func(*MeterConfig)

// DefaultMeterConfig returns sensible defaults: stereo at 48 kHz with
// integrated loudness, LRA, and sample-peak tracking enabled.
func DefaultMeterConfig() MeterConfig {
	return MeterConfig{
		ProcessorConfig: core.DefaultProcessorConfig(),
		Channels:        2,
		Mode:            defaultMode,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) MeterOption {
	return func(cfg *MeterConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithChannels sets the number of input channels.
func WithChannels(channels int) MeterOption {
	return func(cfg *MeterConfig) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// WithMode sets the requested measurement mode flags, replacing the default.
func WithMode(mode Mode) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.Mode = mode
	}
}

// WithChannelRoles overrides the default channel map. Roles beyond the
// configured channel count are ignored; channels without an explicit
// role fall back to the default map.
func WithChannelRoles(roles ...ChannelRole) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.ChannelRoles = roles
	}
}

// ApplyMeterOptions applies zero or more options to the default config.
func ApplyMeterOptions(opts ...MeterOption) MeterConfig {
	cfg := DefaultMeterConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
