// Package report summarises a pitch track as a markdown document.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/dgnsrekt/voicegen/voice"
	"github.com/dustin/go-humanize"
)

// Options controls what the markdown document contains.
type Options struct {
	// MaxSegments limits the segment table. Zero lists every segment.
	MaxSegments int
}

// Track is what a report describes. Config is nil for tracks read from a
// file, whose settings are unknown; their segments come from Threshold.
type Track struct {
	Name      string
	Config    *voice.Config
	Threshold float64
	Samples   []voice.Sample
	Segments  []voice.Segment
}

// FromSynthesizer describes a freshly generated track.
func FromSynthesizer(s *voice.Synthesizer) Track {
	cfg := s.Config()
	return Track{
		Name:     cfg.Category.String(),
		Config:   &cfg,
		Samples:  s.Samples(),
		Segments: s.Segments(),
	}
}

// FromSamples describes a track read from name, splitting it into
// segments at threshold.
func FromSamples(name string, samples []voice.Sample, threshold float64) Track {
	return Track{
		Name:      name,
		Threshold: threshold,
		Samples:   samples,
		Segments:  voice.SegmentsFromSamples(samples, threshold),
	}
}

// Markdown builds the report for t.
func Markdown(t Track, opts Options) string {
	st := voice.SummarizeTrack(t.Samples, t.Segments)
	length := time.Duration(len(t.Samples)) * voice.Tick

	var b strings.Builder
	fmt.Fprintf(&b, "# Voice track: %s\n\n", t.Name)

	if cfg := t.Config; cfg != nil {
		b.WriteString("## Configuration\n\n")
		b.WriteString("| Setting | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Duration | %s ticks (%s) |\n", humanize.Comma(int64(cfg.Duration)), cfg.Length())
		fmt.Fprintf(&b, "| Category | %s |\n", cfg.Category)
		fmt.Fprintf(&b, "| Noise | %s |\n", num(cfg.Noise))
		fmt.Fprintf(&b, "| Pitch mean | %s Hz (tuned %+g) |\n", num(cfg.PitchMean()), cfg.TunePitch)
		fmt.Fprintf(&b, "| Pitch SD | %s Hz (tuned %+g) |\n", num(cfg.PitchSD()), cfg.TunePitchSD)
		if cfg.Seed != 0 {
			fmt.Fprintf(&b, "| Seed | %d |\n", cfg.Seed)
		}
	} else {
		b.WriteString("## Source\n\n")
		b.WriteString("| Setting | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| File | %s |\n", t.Name)
		fmt.Fprintf(&b, "| Duration | %s ticks (%s) |\n", humanize.Comma(int64(len(t.Samples))), length)
		fmt.Fprintf(&b, "| Talking threshold | %s Hz |\n", num(t.Threshold))
	}

	b.WriteString("\n## Statistics\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Talking segments | %d |\n", st.TalkingSegments)
	fmt.Fprintf(&b, "| Silent segments | %d |\n", st.SilentSegments)
	fmt.Fprintf(&b, "| Mean talking length | %.1f ticks |\n", st.MeanTalkingLength)
	fmt.Fprintf(&b, "| Mean silent length | %.1f ticks |\n", st.MeanSilentLength)
	fmt.Fprintf(&b, "| Talking ratio | %.0f%% |\n", st.TalkingRatio*100)
	fmt.Fprintf(&b, "| Observed pitch mean | %.1f Hz |\n", st.PitchMean)
	fmt.Fprintf(&b, "| Observed pitch SD | %.1f Hz |\n", st.PitchSD)
	fmt.Fprintf(&b, "| Max noise | %s |\n", num(st.MaxNoise))

	segs := t.Segments
	if len(segs) == 0 {
		return b.String()
	}

	b.WriteString("\n## Segments\n\n")
	b.WriteString("| # | Start | Length | State |\n|---|---|---|---|\n")
	shown := segs
	if opts.MaxSegments > 0 && len(segs) > opts.MaxSegments {
		shown = segs[:opts.MaxSegments]
	}
	for i, seg := range shown {
		fmt.Fprintf(&b, "| %d | %d | %s | %s |\n", i+1, seg.Start, seg.Elapsed(), seg.State)
	}
	if len(shown) < len(segs) {
		fmt.Fprintf(&b, "\n_%d more segments omitted._\n", len(segs)-len(shown))
	}
	return b.String()
}

// Render renders markdown for the terminal. style is a glamour style name
// or the path of a JSON style file; "auto" picks one for the terminal.
func Render(md string, width int, style string) (string, error) {
	opt := glamour.WithStylePath(style)
	if style == "" || style == styles.AutoStyle {
		opt = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("unable to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("unable to render markdown: %w", err)
	}
	return out, nil
}

// ValidStyle reports whether style names a built-in glamour style.
func ValidStyle(style string) bool {
	return style == styles.AutoStyle || styles.DefaultStyles[style] != nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
