package voice

import "math"

// Stats summarises a generated track.
type Stats struct {
	Ticks           int
	TalkingSegments int
	SilentSegments  int

	// Mean segment lengths in ticks.
	MeanTalkingLength float64
	MeanSilentLength  float64

	// TalkingRatio is the fraction of ticks spent talking.
	TalkingRatio float64

	// Pitch statistics over talking samples.
	PitchMean float64
	PitchSD   float64

	// MaxNoise is the largest absolute value in silent segments.
	MaxNoise float64
}

// Summarize computes statistics for the track held by s.
func Summarize(s *Synthesizer) Stats {
	return summarize(s.samples, s.segments)
}

// SummarizeTrack computes statistics for samples split into segments, as
// returned by SegmentsFromSamples.
func SummarizeTrack(samples []Sample, segments []Segment) Stats {
	return summarize(samples, segments)
}

func summarize(samples []Sample, segments []Segment) Stats {
	st := Stats{Ticks: len(samples)}

	var talkTicks, silentTicks int
	var sum, sumSq float64
	for _, seg := range segments {
		if seg.Talking() {
			st.TalkingSegments++
			talkTicks += seg.Length
			for _, smp := range samples[seg.Start:seg.End()] {
				sum += smp.Value
				sumSq += smp.Value * smp.Value
			}
			continue
		}
		st.SilentSegments++
		silentTicks += seg.Length
		for _, smp := range samples[seg.Start:seg.End()] {
			st.MaxNoise = math.Max(st.MaxNoise, math.Abs(smp.Value))
		}
	}

	if st.TalkingSegments > 0 {
		st.MeanTalkingLength = float64(talkTicks) / float64(st.TalkingSegments)
	}
	if st.SilentSegments > 0 {
		st.MeanSilentLength = float64(silentTicks) / float64(st.SilentSegments)
	}
	if st.Ticks > 0 {
		st.TalkingRatio = float64(talkTicks) / float64(st.Ticks)
	}
	if talkTicks > 0 {
		n := float64(talkTicks)
		st.PitchMean = sum / n
		st.PitchSD = math.Sqrt(math.Max(sumSq/n-st.PitchMean*st.PitchMean, 0))
	}
	return st
}
