//go:build cgo

package device

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgnsrekt/voicegen/internal/audio"
	"github.com/ebitengine/oto/v3"
)

var _ audio.Transport = (*Player)(nil)

// Player plays PCM through the system audio device using oto.
type Player struct {
	context *oto.Context
	player  *oto.Player

	// data keeps the PCM alive while oto reads from it
	data []byte

	state atomic.Int32

	startTime  time.Time
	pausedAt   time.Duration
	totalPause time.Duration
	duration   time.Duration

	mu      sync.RWMutex
	stateMu sync.Mutex

	sampleRate int
}

// New opens the audio device. oto allows a single context per
// process, so create one Player and reuse it.
func New(cfg audio.Config) (*Player, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   audio.Duration(cfg.BufferSize, cfg.SampleRate),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	p := &Player{
		context:    ctx,
		sampleRate: cfg.SampleRate,
	}
	p.state.Store(int32(audio.StateStopped))
	return p, nil
}

// Play starts playback of pcm, stopping anything already playing.
func (p *Player) Play(pcm []byte) error {
	if len(pcm) == 0 {
		return audio.ErrEmptyAudio
	}

	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	if audio.PlayerState(p.state.Load()) == audio.StateClosed {
		return audio.ErrPlayerClosed
	}
	p.stopInternal()

	data := make([]byte, len(pcm))
	copy(data, pcm)

	p.mu.Lock()
	p.data = data
	p.player = p.context.NewPlayer(bytes.NewReader(data))
	p.player.SetVolume(1)
	p.startTime = time.Now()
	p.pausedAt = 0
	p.totalPause = 0
	p.duration = audio.Duration(len(data), p.sampleRate)
	p.player.Play()
	p.mu.Unlock()

	p.state.Store(int32(audio.StatePlaying))
	return nil
}

// Pause pauses the current playback.
func (p *Player) Pause() error {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	if s := audio.PlayerState(p.state.Load()); s != audio.StatePlaying {
		return fmt.Errorf("cannot pause: player is %s", s)
	}

	p.mu.Lock()
	p.player.Pause()
	p.pausedAt = p.positionLocked()
	p.mu.Unlock()

	p.state.Store(int32(audio.StatePaused))
	return nil
}

// Resume resumes paused playback.
func (p *Player) Resume() error {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	if s := audio.PlayerState(p.state.Load()); s != audio.StatePaused {
		return fmt.Errorf("cannot resume: player is %s", s)
	}

	p.mu.Lock()
	p.totalPause += time.Since(p.startTime.Add(p.totalPause + p.pausedAt))
	p.player.Play()
	p.mu.Unlock()

	p.state.Store(int32(audio.StatePlaying))
	return nil
}

// Stop stops playback and releases the stream.
func (p *Player) Stop() error {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	p.stopInternal()
	return nil
}

func (p *Player) stopInternal() {
	s := audio.PlayerState(p.state.Load())
	if s == audio.StateStopped || s == audio.StateClosed {
		return
	}

	p.mu.Lock()
	if p.player != nil {
		p.player.Pause()
		_ = p.player.Close()
		p.player = nil
	}
	p.data = nil
	p.pausedAt = 0
	p.totalPause = 0
	p.mu.Unlock()

	p.state.Store(int32(audio.StateStopped))
}

// IsPlaying reports whether audio is still being played.
func (p *Player) IsPlaying() bool {
	if audio.PlayerState(p.state.Load()) != audio.StatePlaying {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.player != nil && p.player.IsPlaying()
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.positionLocked()
}

func (p *Player) positionLocked() time.Duration {
	switch audio.PlayerState(p.state.Load()) {
	case audio.StatePlaying:
		return min(time.Since(p.startTime)-p.totalPause, p.duration)
	case audio.StatePaused:
		return p.pausedAt
	default:
		return 0
	}
}

// State returns the current player state.
func (p *Player) State() audio.PlayerState {
	return audio.PlayerState(p.state.Load())
}

// Close stops playback and releases the device.
func (p *Player) Close() error {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	p.stopInternal()

	p.mu.Lock()
	// oto.Context has no Close method in v3
	p.context = nil
	p.mu.Unlock()

	p.state.Store(int32(audio.StateClosed))
	return nil
}
