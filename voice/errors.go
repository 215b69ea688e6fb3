package voice

import "errors"

// Configuration errors. They are only returned by Config.Validate; the
// Synthesizer itself accepts any configuration.
var (
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrInvalidDuration = errors.New("duration must not be negative")
	ErrInvalidNoise    = errors.New("noise amplitude must not be negative")
	ErrInvalidPitchSD  = errors.New("pitch standard deviation must not be negative")
)
