//go:build !cgo

package device

import (
	"time"

	"github.com/dgnsrekt/voicegen/internal/audio"
)

var _ audio.Transport = (*Player)(nil)

// Player is a stub for builds without cgo.
type Player struct{}

// New always fails without cgo.
func New(audio.Config) (*Player, error) {
	return nil, ErrUnavailable
}

func (p *Player) Play([]byte) error { return ErrUnavailable }

func (p *Player) Pause() error { return ErrUnavailable }

func (p *Player) Resume() error { return ErrUnavailable }

func (p *Player) Stop() error { return nil }

func (p *Player) Close() error { return nil }

func (p *Player) IsPlaying() bool { return false }

func (p *Player) Position() time.Duration { return 0 }

func (p *Player) State() audio.PlayerState { return audio.StateClosed }
