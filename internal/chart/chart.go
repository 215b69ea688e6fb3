// Package chart draws pitch tracks as terminal bar charts.
package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/voicegen/voice"
	"github.com/muesli/reflow/truncate"
)

const (
	DefaultWidth  = 72
	DefaultHeight = 12

	// reflectScale sets the y range of reflected charts in multiples of the
	// pitch mean.
	reflectScale = 4

	labelWidth = 8
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	upStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAFF"))
	downStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8800"))
)

// Options controls chart layout.
type Options struct {
	Width  int
	Height int

	// Reflect negates every other sample so the track is drawn
	// symmetrically around zero.
	Reflect bool

	// Min and Max fix the y range. When Min >= Max the range is derived
	// from the data.
	Min, Max float64

	Title  string
	Info   []string
	XLabel string
	YLabel string
}

// ForConfig returns chart options labelled with the track configuration.
func ForConfig(cfg voice.Config, reflect bool) Options {
	mean := cfg.PitchMean()
	opts := Options{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Reflect: reflect,
		Title:   "Voice Frequency",
		Info: []string{
			"Category: " + cfg.Category.String(),
			"Pitch Mean: " + strconv.FormatFloat(mean, 'f', -1, 64),
			"Pitch SD: " + strconv.FormatFloat(cfg.PitchSD(), 'f', -1, 64),
		},
		XLabel: "Time (1/10 seconds)",
		YLabel: "Pitch (Hz)",
	}
	if reflect && mean > 0 {
		opts.Min, opts.Max = -mean*reflectScale, mean*reflectScale
	}
	return opts
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// Reflect returns a copy of values with every even-indexed value negated.
func Reflect(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if i%2 == 0 {
			v = -v
		}
		out[i] = v
	}
	return out
}

// span is the range covered by one chart column, always including zero.
type span struct {
	lo, hi float64
}

// columns buckets values into at most width spans.
func columns(values []float64, width int) []span {
	n := len(values)
	if n == 0 || width <= 0 {
		return nil
	}
	w := min(width, n)
	cols := make([]span, w)
	for i := range cols {
		start, end := i*n/w, (i+1)*n/w
		var c span
		for _, v := range values[start:end] {
			c.lo = min(c.lo, v)
			c.hi = max(c.hi, v)
		}
		cols[i] = c
	}
	return cols
}

func bounds(values []float64) (lo, hi float64) {
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo == hi {
		hi = lo + 1
	}
	return lo, hi
}

// Render draws values as a bar chart.
func Render(values []float64, opts Options) string {
	opts = opts.withDefaults()
	if opts.Reflect {
		values = Reflect(values)
	}

	lo, hi := opts.Min, opts.Max
	if lo >= hi {
		lo, hi = bounds(values)
	}
	cols := columns(values, opts.Width)
	step := (hi - lo) / float64(opts.Height)

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(titleStyle.Render(opts.Title))
		b.WriteByte('\n')
	}
	for _, line := range opts.Info {
		b.WriteString(infoStyle.Render(truncate.StringWithTail(line, uint(opts.Width), "…"))) //nolint:gosec
		b.WriteByte('\n')
	}
	if opts.YLabel != "" {
		b.WriteString(axisStyle.Render(opts.YLabel))
		b.WriteByte('\n')
	}

	for r := opts.Height - 1; r >= 0; r-- {
		bottom := lo + float64(r)*step
		center := bottom + step/2
		axis := bottom <= 0 && 0 < bottom+step

		label := ""
		switch r {
		case opts.Height - 1:
			label = formatValue(hi)
		case 0:
			label = formatValue(lo)
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s │", labelWidth, label)))

		for _, c := range cols {
			switch {
			case center >= 0 && center <= c.hi:
				b.WriteString(upStyle.Render("█"))
			case center < 0 && center >= c.lo:
				b.WriteString(downStyle.Render("█"))
			case axis:
				b.WriteString(axisStyle.Render("─"))
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString(axisStyle.Render(strings.Repeat(" ", labelWidth+1) + "└" + strings.Repeat("─", len(cols))))
	b.WriteByte('\n')
	footer := fmt.Sprintf("%*s 0%*d", labelWidth, "", max(len(cols)-1, 1), len(values))
	if opts.XLabel != "" {
		footer += "  " + opts.XLabel
	}
	b.WriteString(axisStyle.Render(footer))
	b.WriteByte('\n')
	return b.String()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
