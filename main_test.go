package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgnsrekt/voicegen/internal/export"
	"github.com/dgnsrekt/voicegen/voice"
	"github.com/spf13/viper"
)

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		name string
		want voice.Category
	}{
		{"male", voice.Male},
		{"M", voice.Male},
		{"man", voice.Male},
		{"female", voice.Female},
		{"woman", voice.Female},
		{"mael", voice.Female},
		{"", voice.Female},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveCategory(tt.name); got != tt.want {
				t.Errorf("resolveCategory(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	if got := expandPath("/tmp/track.csv"); got != "/tmp/track.csv" {
		t.Errorf("expandPath() = %q, want unchanged", got)
	}
	if got := expandPath("~/track.csv"); strings.HasPrefix(got, "~") {
		t.Errorf("expandPath() = %q, home not expanded", got)
	}
}

// setViper overrides a config key for the duration of the test. Overrides
// take precedence over flags, so commands under test read keys set here.
func setViper(t *testing.T, key string, value any) {
	t.Helper()
	old := viper.Get(key)
	viper.Set(key, value)
	t.Cleanup(func() { viper.Set(key, old) })
}

func TestTrackConfig(t *testing.T) {
	setViper(t, "duration", 42)
	setViper(t, "category", "f")
	setViper(t, "noise", 12.5)
	setViper(t, "tune_pitch", 10.0)
	setViper(t, "tune_pitch_sd", -5.0)
	setViper(t, "seed", uint64(9))

	cfg, err := trackConfig()
	if err != nil {
		t.Fatalf("trackConfig() error = %v", err)
	}
	if cfg.Duration != 42 || cfg.Category != voice.Female || cfg.Noise != 12.5 {
		t.Errorf("trackConfig() = %+v", cfg)
	}
	if cfg.PitchMean() != 200 || cfg.PitchSD() != 75 {
		t.Errorf("pitch = %v ± %v, want 200 ± 75", cfg.PitchMean(), cfg.PitchSD())
	}
	if cfg.Seed != 9 {
		t.Errorf("Seed = %d, want 9", cfg.Seed)
	}
}

func TestTrackConfigInvalid(t *testing.T) {
	setViper(t, "duration", -1)

	if _, err := trackConfig(); err == nil {
		t.Error("trackConfig() expected error for negative duration")
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, voice.Stats{Ticks: 1200, TalkingSegments: 3, TalkingRatio: 0.5, PitchMean: 110})

	out := buf.String()
	for _, want := range []string{"1,200", "talking segments", "50%", "110.0 Hz"} {
		if !strings.Contains(out, want) {
			t.Errorf("printStats() output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "take.json")
	t.Cleanup(func() {
		generateOutput = ""
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"generate", "-o", path})
	setViper(t, "duration", 80)
	setViper(t, "seed", uint64(3))
	setViper(t, "verbose", false)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("output %q does not mention %s", out.String(), path)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("track file not written: %v", err)
	}
	samples, err := export.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(samples) != 80 {
		t.Errorf("len(samples) = %d, want 80", len(samples))
	}
}

func TestPlotOptions(t *testing.T) {
	cfg := voice.DefaultConfig()

	generated := plotOptions(cfg, "", true)
	if len(generated.Info) == 0 || generated.Max != 440 {
		t.Errorf("expected generated tracks labelled from flags, got %+v", generated)
	}

	file := plotOptions(cfg, "/tmp/tracks/take.csv", true)
	if file.Info != nil {
		t.Errorf("expected no settings for a file, got %v", file.Info)
	}
	if file.Title != "Voice Frequency: take.csv" {
		t.Errorf("expected the file name in the title, got %q", file.Title)
	}
	if file.Min != 0 || file.Max != 0 {
		t.Errorf("expected the range to follow the data, got %v..%v", file.Min, file.Max)
	}
}

func TestFlagDefaults(t *testing.T) {
	usage := rootCmd.PersistentFlags().Lookup("category").Usage
	if !strings.Contains(usage, "male or female") {
		t.Errorf("expected category choices in %q", usage)
	}
	if got := batchCmd.Flags().Lookup("ext").DefValue; got != ".csv" {
		t.Errorf("expected .csv as default batch extension, got %q", got)
	}
}

func TestReportInputCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "take.csv")
	samples := []voice.Sample{{Tick: 0, Value: 2}, {Tick: 1, Value: 130}, {Tick: 2, Value: 125}, {Tick: 3, Value: 9}}
	if _, err := export.WriteFile(path, samples); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		reportInput = ""
		reportRaw = false
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"report", "--raw", "--input", path})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"# Voice track: take.csv", "| Talking segments | 1 |", "| Silent segments | 2 |"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("report missing %q:\n%s", want, out.String())
		}
	}
}
