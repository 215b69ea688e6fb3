package audio

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/dgnsrekt/voicegen/voice"
)

// Config contains rendering and playback settings. It is read from the
// environment by LoadConfig.
type Config struct {
	// SampleRate is the output rate in Hz; 44100 or 48000.
	SampleRate int `env:"VOICEGEN_AUDIO_SAMPLE_RATE" envDefault:"44100"`
	// Volume is the peak amplitude of talking ticks, 0.0 to 1.0.
	Volume float64 `env:"VOICEGEN_AUDIO_VOLUME" envDefault:"0.5"`
	// Threshold separates pitch samples from background noise in Hz.
	Threshold float64 `env:"VOICEGEN_AUDIO_THRESHOLD" envDefault:"60"`
	// NoiseLevel is the peak amplitude of the hiss played for silent ticks.
	NoiseLevel float64 `env:"VOICEGEN_AUDIO_NOISE_LEVEL" envDefault:"0.02"`
	// BufferSize is the device buffer in bytes.
	BufferSize int `env:"VOICEGEN_AUDIO_BUFFER_SIZE" envDefault:"4096"`
}

// DefaultConfig returns the default audio configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		Volume:     0.5,
		Threshold:  voice.DefaultThreshold,
		NoiseLevel: 0.02,
		BufferSize: 4096,
	}
}

// LoadConfig reads the configuration from VOICEGEN_AUDIO_* variables.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("error parsing audio config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	// oto only supports these rates reliably
	if c.SampleRate != 44100 && c.SampleRate != 48000 {
		return fmt.Errorf("sample rate must be 44100 or 48000 Hz, got %d", c.SampleRate)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", c.Volume)
	}
	if c.NoiseLevel < 0 || c.NoiseLevel > 1 {
		return fmt.Errorf("noise level must be between 0.0 and 1.0, got %f", c.NoiseLevel)
	}
	if c.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive, got %f", c.Threshold)
	}
	if c.BufferSize <= 0 {
		return errors.New("buffer size must be positive")
	}
	return nil
}
