package audio

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		expectErr bool
	}{
		{"default", func(*Config) {}, false},
		{"48000Hz", func(c *Config) { c.SampleRate = 48000 }, false},
		{"invalid sample rate", func(c *Config) { c.SampleRate = 22050 }, true},
		{"volume too high", func(c *Config) { c.Volume = 1.5 }, true},
		{"negative noise", func(c *Config) { c.NoiseLevel = -0.1 }, true},
		{"zero threshold", func(c *Config) { c.Threshold = 0 }, true},
		{"invalid buffer size", func(c *Config) { c.BufferSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.expectErr && err == nil {
				t.Errorf("Validate() expected error but got none")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("expected defaults %+v, got %+v", DefaultConfig(), cfg)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("VOICEGEN_AUDIO_SAMPLE_RATE", "48000")
	t.Setenv("VOICEGEN_AUDIO_VOLUME", "0.25")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.SampleRate != 48000 {
		t.Errorf("expected sample rate 48000, got %d", cfg.SampleRate)
	}
	if cfg.Volume != 0.25 {
		t.Errorf("expected volume 0.25, got %v", cfg.Volume)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("VOICEGEN_AUDIO_SAMPLE_RATE", "8000")
	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for unsupported sample rate")
	}
}
