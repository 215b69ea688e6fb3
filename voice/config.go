package voice

import (
	"fmt"
	"time"
)

// Tick is the duration of a single sample.
const Tick = 100 * time.Millisecond

// Config contains the synthesizer settings.
type Config struct {
	// Duration is the track length in ticks.
	Duration int
	Category Category
	// Noise is the amplitude of the background noise in silent segments.
	Noise float64
	// TunePitch and TunePitchSD shift the category's base distribution.
	TunePitch   float64
	TunePitchSD float64
	// Verbose writes one record per segment to the trace writer.
	Verbose bool
	// Seed makes the track reproducible. Zero means a random seed.
	Seed uint64
}

// DefaultConfig returns a Config with the default settings.
func DefaultConfig() Config {
	return Config{
		Duration: 300,
		Category: Male,
		Noise:    40,
	}
}

// PitchMean returns the effective pitch mean in Hz.
func (c Config) PitchMean() float64 {
	return c.Category.BasePitchMean() + c.TunePitch
}

// PitchSD returns the effective pitch standard deviation in Hz.
func (c Config) PitchSD() float64 {
	return c.Category.BasePitchSD() + c.TunePitchSD
}

// Length returns the track duration as wall-clock time.
func (c Config) Length() time.Duration {
	if c.Duration <= 0 {
		return 0
	}
	return time.Duration(c.Duration) * Tick
}

// Validate checks user supplied values before a Synthesizer is built.
func (c Config) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("%w: %w, got %d", ErrInvalidConfig, ErrInvalidDuration, c.Duration)
	}
	if c.Noise < 0 {
		return fmt.Errorf("%w: %w, got %g", ErrInvalidConfig, ErrInvalidNoise, c.Noise)
	}
	if sd := c.PitchSD(); sd < 0 {
		return fmt.Errorf("%w: %w, got %g", ErrInvalidConfig, ErrInvalidPitchSD, sd)
	}
	return nil
}
