package voice

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	samples := []Sample{
		{0, 3}, {1, 0},
		{2, 100}, {3, 120}, {4, 140}, {5, 120},
		{6, 7},
	}
	segments := []Segment{
		{Start: 0, Length: 2, State: StateSilent},
		{Start: 2, Length: 4, State: StateTalking},
		{Start: 6, Length: 1, State: StateSilent},
	}

	st := summarize(samples, segments)

	if st.Ticks != 7 {
		t.Errorf("expected 7 ticks, got %d", st.Ticks)
	}
	if st.TalkingSegments != 1 || st.SilentSegments != 2 {
		t.Errorf("expected 1 talking and 2 silent segments, got %d and %d", st.TalkingSegments, st.SilentSegments)
	}
	if st.MeanTalkingLength != 4 {
		t.Errorf("expected mean talking length 4, got %v", st.MeanTalkingLength)
	}
	if st.MeanSilentLength != 1.5 {
		t.Errorf("expected mean silent length 1.5, got %v", st.MeanSilentLength)
	}
	if math.Abs(st.TalkingRatio-4.0/7.0) > 1e-12 {
		t.Errorf("expected talking ratio 4/7, got %v", st.TalkingRatio)
	}
	if st.PitchMean != 120 {
		t.Errorf("expected pitch mean 120, got %v", st.PitchMean)
	}
	if math.Abs(st.PitchSD-math.Sqrt(200)) > 1e-9 {
		t.Errorf("expected pitch sd %v, got %v", math.Sqrt(200), st.PitchSD)
	}
	if st.MaxNoise != 7 {
		t.Errorf("expected max noise 7, got %v", st.MaxNoise)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Duration = 0
	st := Summarize(New(cfg))

	if st != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", st)
	}
}

func TestSegmentsFromSamples(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []Segment
	}{
		{"empty", nil, nil},
		{"all silent", []float64{0, 12, 40}, []Segment{{Start: 0, Length: 3, State: StateSilent}}},
		{
			"alternating",
			[]float64{3, 0, 100, 60, 140, 7},
			[]Segment{
				{Start: 0, Length: 2, State: StateSilent},
				{Start: 2, Length: 3, State: StateTalking},
				{Start: 5, Length: 1, State: StateSilent},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := make([]Sample, len(tt.values))
			for i, v := range tt.values {
				samples[i] = Sample{Tick: i, Value: v}
			}
			got := SegmentsFromSamples(samples, DefaultThreshold)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d segments, got %v", len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestSegmentsFromGeneratedTrack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Duration = 600
	cfg.Seed = 21
	s := New(cfg)

	segments := SegmentsFromSamples(s.Samples(), DefaultThreshold)
	total := 0
	for _, seg := range segments {
		total += seg.Length
	}
	if total != s.Len() {
		t.Errorf("expected segments to cover %d ticks, got %d", s.Len(), total)
	}

	st := SummarizeTrack(s.Samples(), segments)
	if st.Ticks != s.Len() || st.TalkingSegments == 0 || st.SilentSegments == 0 {
		t.Errorf("expected both kinds of segments over %d ticks, got %+v", s.Len(), st)
	}
}
