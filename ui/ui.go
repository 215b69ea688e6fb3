// Package ui provides a live terminal view of a pitch track.
package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/voicegen/internal/audio"
	"github.com/dgnsrekt/voicegen/internal/chart"
	"github.com/dgnsrekt/voicegen/voice"
)

const (
	// seekTicks is how far the seek keys move.
	seekTicks = 10

	historyHeight = 8
	minWidth      = 20
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	talkingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	silentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

// Option configures the program.
type Option func(*model)

// WithAudio plays pcm, rendered at sampleRate, on player in step with the
// view. Playback position drives the view and Config.Speed is ignored.
func WithAudio(player audio.Transport, pcm []byte, sampleRate int) Option {
	return func(m *model) {
		m.player = player
		m.pcm = pcm
		m.sampleRate = sampleRate
	}
}

// NewProgram returns a new Tea program that plays back the track of s.
func NewProgram(cfg Config, s *voice.Synthesizer, opts ...Option) *tea.Program {
	m := newModel(cfg, s, opts...)
	log.Debug("Starting watch", "ticks", s.Len(), "speed", cfg.Speed, "loop", cfg.Loop, "audio", m.player != nil)
	return tea.NewProgram(m, tea.WithAltScreen())
}

// tickMsg advances playback. gen ties a tick to the chain that scheduled it
// so pausing and resuming never runs two chains at once.
type tickMsg struct{ gen int }

type audioErrMsg struct{ err error }

type model struct {
	cfg      Config
	track    voice.Config
	samples  []voice.Sample
	segments []voice.Segment

	pos      int
	paused   bool
	finished bool
	gen      int

	// optional audio; base is the tick playback was last started from
	player     audio.Transport
	pcm        []byte
	sampleRate int
	base       int
	audioErr   error

	width  int
	height int

	gauge progress.Model
	help  help.Model
}

func newModel(cfg Config, s *voice.Synthesizer, opts ...Option) model {
	m := model{
		cfg:      cfg,
		track:    s.Config(),
		samples:  s.Samples(),
		segments: s.Segments(),
		width:    chart.DefaultWidth,
		gauge:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m model) interval() time.Duration {
	if m.player != nil || m.cfg.Speed <= 0 {
		return voice.Tick
	}
	return time.Duration(float64(voice.Tick) / m.cfg.Speed)
}

func (m model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval(), func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func audioErr(err error) tea.Cmd {
	return func() tea.Msg { return audioErrMsg{err} }
}

func (m model) Init() tea.Cmd {
	if len(m.samples) == 0 {
		return nil
	}
	if m.player != nil {
		if err := m.player.Play(m.pcm); err != nil {
			return tea.Batch(audioErr(err), m.tick())
		}
	}
	return m.tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = max(msg.Width-2, minWidth)
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case audioErrMsg:
		log.Debug("Audio failed, continuing without sound", "err", msg.err)
		m.audioErr = msg.err
		m.player = nil
		return m, nil

	case tickMsg:
		if msg.gen != m.gen || m.paused || m.finished {
			return m, nil
		}
		if m.player != nil {
			return m.follow()
		}
		return m.advance()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if m.player != nil {
			_ = m.player.Stop()
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Pause):
		if m.finished {
			return m, nil
		}
		return m.togglePause()

	case key.Matches(msg, keys.Restart):
		m.paused = false
		m.finished = false
		return m.seek(0)

	case key.Matches(msg, keys.Back):
		m.finished = false
		return m.seek(max(m.current()-seekTicks, 0))

	case key.Matches(msg, keys.Forward):
		if m.finished {
			return m, nil
		}
		return m.seek(min(m.current()+seekTicks, max(len(m.samples)-1, 0)))

	case key.Matches(msg, keys.ShowHelp):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m model) togglePause() (tea.Model, tea.Cmd) {
	m.paused = !m.paused
	m.gen++
	if m.paused {
		if m.player != nil {
			m.pos = m.current()
			if err := m.player.Pause(); err != nil {
				return m, audioErr(err)
			}
		}
		return m, nil
	}
	if m.player != nil {
		if err := m.player.Resume(); err != nil {
			return m, tea.Batch(audioErr(err), m.tick())
		}
	}
	return m, m.tick()
}

// seek moves playback to tick. Audio restarts from there and stays paused
// if the view is paused.
func (m model) seek(tick int) (tea.Model, tea.Cmd) {
	m.pos = tick
	m.gen++
	if m.player != nil && len(m.samples) > 0 {
		m.base = tick
		if err := m.player.Play(m.pcm[audio.TickOffset(tick, m.sampleRate):]); err != nil {
			return m, tea.Batch(audioErr(err), m.tick())
		}
		if m.paused {
			if err := m.player.Pause(); err != nil {
				return m, audioErr(err)
			}
		}
	}
	if m.paused || m.finished {
		return m, nil
	}
	return m, m.tick()
}

// current returns the playing tick, read from the audio position when
// there is a player.
func (m model) current() int {
	if m.player == nil {
		return m.pos
	}
	pos := m.base + int(m.player.Position()/voice.Tick)
	return min(pos, max(len(m.samples)-1, 0))
}

func (m model) advance() (tea.Model, tea.Cmd) {
	if m.pos+1 < len(m.samples) {
		m.pos++
		return m, m.tick()
	}
	return m.end()
}

// follow moves the view to the audio position.
func (m model) follow() (tea.Model, tea.Cmd) {
	if !m.player.IsPlaying() && m.player.State() != audio.StatePaused {
		m.pos = len(m.samples) - 1
		return m.end()
	}
	m.pos = m.current()
	return m, m.tick()
}

func (m model) end() (tea.Model, tea.Cmd) {
	if m.cfg.Loop {
		return m.seek(0)
	}
	m.finished = true
	return m, nil
}

// segmentAt returns the index of the segment covering tick, or -1.
func segmentAt(segments []voice.Segment, tick int) int {
	i := sort.Search(len(segments), func(i int) bool {
		return segments[i].End() > tick
	})
	if i < len(segments) && segments[i].Start <= tick {
		return i
	}
	return -1
}

// level maps a sample value onto the gauge. Full scale is four standard
// deviations above the mean.
func level(v, mean, sd float64) float64 {
	top := mean + 4*sd
	if top <= 0 {
		return 0
	}
	return min(max(v/top, 0), 1)
}

func (m model) View() string {
	if len(m.samples) == 0 {
		return "empty track\n"
	}

	var b strings.Builder
	sample := m.samples[m.pos]

	fmt.Fprintf(&b, "%s  %s\n\n", titleStyle.Render("Voice Frequency"),
		faintStyle.Render(fmt.Sprintf("%s · mean %g Hz · sd %g Hz",
			m.track.Category, m.track.PitchMean(), m.track.PitchSD())))

	m.gauge.Width = max(m.width-12, minWidth)
	fmt.Fprintf(&b, "%s %6.1f Hz\n", m.gauge.ViewAs(level(sample.Value, m.track.PitchMean(), m.track.PitchSD())), sample.Value)

	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	// the chart spends labelWidth+2 columns on its axis
	histWidth := max(m.width-10, minWidth)
	lo := max(m.pos+1-histWidth, 0)
	opts := chart.ForConfig(m.track, false)
	opts.Title = ""
	opts.Info = nil
	opts.YLabel = ""
	opts.Width = histWidth
	opts.Height = historyHeight
	opts.Min, opts.Max = 0, m.track.PitchMean()+4*m.track.PitchSD()
	b.WriteString(chart.Render(voice.Values(m.samples[lo:m.pos+1]), opts))
	b.WriteString("\n")

	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m model) statusLine() string {
	var state string
	seg := segmentAt(m.segments, m.pos)
	switch {
	case m.finished:
		state = faintStyle.Render("■ done")
	case m.paused:
		state = pausedStyle.Render("⏸ paused")
	case seg >= 0 && m.segments[seg].Talking():
		state = talkingStyle.Render("▶ talking")
	default:
		state = silentStyle.Render("▶ silent")
	}

	elapsed := time.Duration(m.pos+1) * voice.Tick
	total := time.Duration(len(m.samples)) * voice.Tick
	status := fmt.Sprintf("%s  %s / %s", state, elapsed, total)
	if seg >= 0 {
		status += faintStyle.Render(fmt.Sprintf("  segment %d/%d", seg+1, len(m.segments)))
	}
	switch {
	case m.player != nil:
		status += faintStyle.Render("  ♪ " + m.player.State().String())
	case m.audioErr != nil:
		status += errorStyle.Render("  ♪ off")
	}
	return status
}
