package voice

import (
	"bufio"
	"bytes"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"testing"
)

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func TestTrackLength(t *testing.T) {
	tests := []struct {
		name     string
		duration int
	}{
		{"empty", 0},
		{"single tick", 1},
		{"one second", 10},
		{"default", 300},
		{"long", 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Duration = tt.duration
			s := New(cfg, WithRand(testRand(42)))

			samples := s.Samples()
			if len(samples) != tt.duration {
				t.Fatalf("expected %d samples, got %d", tt.duration, len(samples))
			}
			if s.Len() != tt.duration {
				t.Errorf("expected Len() %d, got %d", tt.duration, s.Len())
			}
			for i, smp := range samples {
				if smp.Tick != i {
					t.Fatalf("sample %d has tick %d", i, smp.Tick)
				}
			}
		})
	}
}

func TestNegativeDurationIsEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Duration = -5
	cfg.Verbose = true

	var trace bytes.Buffer
	s := New(cfg, WithRand(testRand(1)), WithTraceWriter(&trace))

	if s.Len() != 0 {
		t.Errorf("expected empty track, got %d samples", s.Len())
	}
	if len(s.Segments()) != 0 {
		t.Errorf("expected no segments, got %d", len(s.Segments()))
	}
	if trace.Len() != 0 {
		t.Errorf("expected no trace output, got %q", trace.String())
	}
}

func TestSegmentsCoverTrack(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		cfg := DefaultConfig()
		cfg.Duration = 1000
		s := New(cfg, WithRand(testRand(seed)))
		segs := s.Segments()

		if len(segs) == 0 {
			t.Fatalf("seed %d: no segments", seed)
		}

		next := 0
		for i, seg := range segs {
			if seg.Start != next {
				t.Fatalf("seed %d: segment %d starts at %d, expected %d", seed, i, seg.Start, next)
			}
			if seg.Length <= 0 {
				t.Fatalf("seed %d: segment %d has length %d", seed, i, seg.Length)
			}
			if i > 0 && seg.State == segs[i-1].State {
				t.Fatalf("seed %d: segments %d and %d share state %s", seed, i-1, i, seg.State)
			}

			upper, lower := silenceMin+silenceSpread, silenceMin
			if seg.Talking() {
				upper, lower = talkMin+talkSpread, talkMin
			}
			if seg.Length > upper {
				t.Errorf("seed %d: %s segment of %d ticks exceeds %d", seed, seg.State, seg.Length, upper)
			}
			// only the final segment may be cut short
			if i < len(segs)-1 && seg.Length < lower {
				t.Errorf("seed %d: %s segment of %d ticks below %d", seed, seg.State, seg.Length, lower)
			}
			next = seg.End()
		}

		if next != cfg.Duration {
			t.Errorf("seed %d: segments cover %d ticks, expected %d", seed, next, cfg.Duration)
		}
	}
}

func TestSilenceBoundedByNoise(t *testing.T) {
	tests := []struct {
		name  string
		noise float64
	}{
		{"no noise", 0},
		{"default noise", 40},
		{"loud noise", 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Duration = 2000
			cfg.Noise = tt.noise
			s := New(cfg, WithRand(testRand(7)))
			samples := s.Samples()

			for _, seg := range s.Segments() {
				if seg.Talking() {
					continue
				}
				for _, smp := range samples[seg.Start:seg.End()] {
					if smp.Value < 0 || smp.Value > tt.noise {
						t.Fatalf("silent sample %v outside [0, %v]", smp.Value, tt.noise)
					}
					if smp.Value != math.Trunc(smp.Value) {
						t.Fatalf("silent sample %v is not a whole number", smp.Value)
					}
				}
			}
		})
	}
}

func TestTalkingClustersAroundPitchMean(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		tune     float64
		tuneSD   float64
	}{
		{"male", Male, 0, 0},
		{"female", Female, 0, 0},
		{"tuned male", Male, 30, -20},
		{"tuned female", Female, -40, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Duration = 40000
			cfg.Category = tt.category
			cfg.TunePitch = tt.tune
			cfg.TunePitchSD = tt.tuneSD
			s := New(cfg, WithRand(testRand(99)))
			st := Summarize(s)

			if math.Abs(st.PitchMean-s.PitchMean()) > 5 {
				t.Errorf("expected pitch mean near %v, got %v", s.PitchMean(), st.PitchMean)
			}
			if math.Abs(st.PitchSD-s.PitchSD()) > 5 {
				t.Errorf("expected pitch sd near %v, got %v", s.PitchSD(), st.PitchSD)
			}
		})
	}
}

func TestTalkingSegmentsLongerThanSilence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Duration = 50000
	st := Summarize(New(cfg, WithRand(testRand(3))))

	if st.MeanTalkingLength <= st.MeanSilentLength {
		t.Errorf("expected talking segments (%.1f) to outlast silences (%.1f)",
			st.MeanTalkingLength, st.MeanSilentLength)
	}
	if st.TalkingRatio <= 0.5 {
		t.Errorf("expected talking ratio above 0.5, got %.2f", st.TalkingRatio)
	}
}

func TestSeedReproducibility(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 1234

	a := New(cfg).Samples()
	b := New(cfg).Samples()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at tick %d: %v != %v", i, a[i], b[i])
		}
	}

	cfg.Seed = 4321
	c := New(cfg).Samples()
	if len(c) != len(a) {
		t.Fatalf("expected equal lengths, got %d and %d", len(a), len(c))
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different seeds to produce different values")
	}
}

func TestVerboseTrace(t *testing.T) {
	cfg := Config{Duration: 10, Category: Female, Noise: 0, Verbose: true}

	for seed := uint64(0); seed < 10; seed++ {
		var trace bytes.Buffer
		s := New(cfg, WithRand(testRand(seed)), WithTraceWriter(&trace))

		if s.Len() != 10 {
			t.Fatalf("expected 10 samples, got %d", s.Len())
		}

		var total float64
		lines := 0
		sc := bufio.NewScanner(&trace)
		for sc.Scan() {
			line := sc.Text()
			lines++
			if !strings.HasPrefix(line, "female ") {
				t.Errorf("unexpected record %q", line)
			}
			fields := strings.Fields(line)
			secs, err := strconv.ParseFloat(fields[len(fields)-2], 64)
			if err != nil {
				t.Fatalf("unable to parse record %q: %v", line, err)
			}
			total += secs
		}

		if lines != len(s.Segments()) {
			t.Errorf("expected %d records, got %d", len(s.Segments()), lines)
		}
		if math.Abs(total-1.0) > 1e-9 {
			t.Errorf("expected records to sum to 1.0 seconds, got %v", total)
		}
	}
}

func TestQuietByDefault(t *testing.T) {
	var trace bytes.Buffer
	New(DefaultConfig(), WithRand(testRand(5)), WithTraceWriter(&trace))
	if trace.Len() != 0 {
		t.Errorf("expected no trace output, got %q", trace.String())
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := New(DefaultConfig(), WithRand(testRand(8)))

	samples := s.Samples()
	samples[0].Value = -1
	if s.Samples()[0].Value == -1 {
		t.Error("mutating Samples() result changed the track")
	}

	segs := s.Segments()
	segs[0].Length = 0
	if s.Segments()[0].Length == 0 {
		t.Error("mutating Segments() result changed the track")
	}
}

func TestConcurrentSynthesizers(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			cfg := DefaultConfig()
			cfg.Seed = seed
			if n := New(cfg).Len(); n != cfg.Duration {
				t.Errorf("expected %d samples, got %d", cfg.Duration, n)
			}
		}(uint64(i + 1))
	}
	wg.Wait()
}
