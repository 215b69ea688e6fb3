package voice

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"slices"
	"strconv"
)

// Segment length distributions in ticks. Talking segments last at least a
// second, silences at least half a second.
const (
	talkMin       = 10
	talkSpread    = 90
	silenceMin    = 5
	silenceSpread = 55
)

// Synthesizer generates a pitch track from a Config. The track is built
// once in New; all accessors return copies.
type Synthesizer struct {
	cfg   Config
	rng   *rand.Rand
	trace io.Writer

	samples  []Sample
	segments []Segment
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithRand sets the random source used for every draw. It takes precedence
// over Config.Seed.
func WithRand(r *rand.Rand) Option {
	return func(s *Synthesizer) {
		s.rng = r
	}
}

// WithTraceWriter sets where verbose records are written. Defaults to
// os.Stdout.
func WithTraceWriter(w io.Writer) Option {
	return func(s *Synthesizer) {
		s.trace = w
	}
}

// New builds the synthesizer and generates its track.
func New(cfg Config, opts ...Option) *Synthesizer {
	cfg.Category = cfg.Category.normalize()

	s := &Synthesizer{
		cfg:   cfg,
		trace: os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = newRand(cfg.Seed)
	}
	if s.trace == nil {
		s.trace = io.Discard
	}

	s.generate()
	return s
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Config returns the configuration the track was generated with.
func (s *Synthesizer) Config() Config {
	return s.cfg
}

// PitchMean returns the effective pitch mean in Hz.
func (s *Synthesizer) PitchMean() float64 {
	return s.cfg.PitchMean()
}

// PitchSD returns the effective pitch standard deviation in Hz.
func (s *Synthesizer) PitchSD() float64 {
	return s.cfg.PitchSD()
}

// Len returns the number of samples in the track.
func (s *Synthesizer) Len() int {
	return len(s.samples)
}

// Samples returns the (tick, value) pairs of the track.
func (s *Synthesizer) Samples() []Sample {
	return slices.Clone(s.samples)
}

// Segments returns the talking and silent segments in order.
func (s *Synthesizer) Segments() []Segment {
	return slices.Clone(s.segments)
}

func (s *Synthesizer) generate() {
	remaining := max(s.cfg.Duration, 0)
	values := make([]float64, 0, remaining)

	state := StateSilent
	if s.rng.Float64() > 0.5 {
		state = StateTalking
	}

	for remaining > 0 {
		length := s.segmentLength(state, remaining)
		if length > 0 {
			seg := Segment{Start: len(values), Length: length, State: state}
			if state == StateTalking {
				values = s.sentence(values, length)
			} else {
				values = s.silence(values, length)
			}
			s.segments = append(s.segments, seg)
			remaining -= length

			if s.cfg.Verbose {
				s.record(seg)
			}
		}
		state = state.Toggle()
	}

	s.samples = make([]Sample, len(values))
	for i, v := range values {
		s.samples[i] = Sample{Tick: i, Value: v}
	}
}

// segmentLength draws a segment length and clamps it into [0, remaining].
func (s *Synthesizer) segmentLength(state State, remaining int) int {
	var n float64
	if state == StateTalking {
		n = s.rng.Float64()*talkSpread + talkMin
	} else {
		n = s.rng.Float64()*silenceSpread + silenceMin
	}
	return clamp(round(n), 0, remaining)
}

// sentence appends a talking segment made of syllables of one or two ticks.
func (s *Synthesizer) sentence(values []float64, length int) []float64 {
	for length > 0 {
		n := clamp(round((s.rng.Float64()+0.5)*1.5), 1, length)
		values = s.syllable(values, n)
		length -= n
	}
	return values
}

func (s *Synthesizer) syllable(values []float64, length int) []float64 {
	mean, sd := s.cfg.PitchMean(), s.cfg.PitchSD()
	for range length {
		values = append(values, s.rng.NormFloat64()*sd+mean)
	}
	return values
}

func (s *Synthesizer) silence(values []float64, length int) []float64 {
	for range length {
		values = append(values, math.RoundToEven(s.rng.Float64()*s.cfg.Noise))
	}
	return values
}

// record writes a human readable line describing seg.
func (s *Synthesizer) record(seg Segment) {
	secs := strconv.FormatFloat(seg.Elapsed().Seconds(), 'f', -1, 64)
	_, _ = fmt.Fprintf(s.trace, "%s %s for %s seconds\n", s.cfg.Category, seg.State.verb(), secs)
}

func round(f float64) int {
	return int(math.RoundToEven(f))
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}
