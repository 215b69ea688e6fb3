package voice

import "time"

// Sample is a single tick of a track.
type Sample struct {
	Tick  int     `json:"tick" yaml:"tick"`
	Value float64 `json:"value" yaml:"value"`
}

// Segment is a maximal run of ticks sharing the same state.
type Segment struct {
	Start  int
	Length int
	State  State
}

// Talking reports whether the segment holds pitch samples.
func (s Segment) Talking() bool {
	return s.State == StateTalking
}

// End returns the tick index just past the segment.
func (s Segment) End() int {
	return s.Start + s.Length
}

// Elapsed returns the segment length as wall-clock time.
func (s Segment) Elapsed() time.Duration {
	return time.Duration(s.Length) * Tick
}

// DefaultThreshold separates pitch from background noise in Hz. It is the
// lowest untuned category mean minus one standard deviation, and above the
// default noise amplitude.
const DefaultThreshold = 60

// SegmentsFromSamples recovers segments from a track whose generation
// history is unknown, such as one read from a file. Ticks at or above
// threshold count as talking.
func SegmentsFromSamples(samples []Sample, threshold float64) []Segment {
	var segments []Segment
	for i, s := range samples {
		state := StateSilent
		if s.Value >= threshold {
			state = StateTalking
		}
		if n := len(segments); n > 0 && segments[n-1].State == state {
			segments[n-1].Length++
			continue
		}
		segments = append(segments, Segment{Start: i, Length: 1, State: state})
	}
	return segments
}

// Values extracts the sample values of a track.
func Values(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}
