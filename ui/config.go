package ui

// Config contains TUI-specific configuration.
type Config struct {
	// Speed multiplies the playback rate. Values <= 0 play in real time.
	Speed float64 `env:"VOICEGEN_WATCH_SPEED" envDefault:"1"`
	// Loop restarts the track when it ends.
	Loop bool `env:"VOICEGEN_WATCH_LOOP"`
}
