package audio

import (
	"context"
	"errors"
	"time"
)

// Player errors.
var (
	ErrPlayerClosed = errors.New("player is closed")
	ErrEmptyAudio   = errors.New("audio data is empty")
)

// PlayerState represents the current state of a player.
type PlayerState int32

const (
	StateStopped PlayerState = iota
	StatePlaying
	StatePaused
	StateClosed
)

// String returns the string representation of the state.
func (s PlayerState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Device plays raw PCM. device.Player and MockPlayer implement it.
type Device interface {
	Play(pcm []byte) error
	IsPlaying() bool
	Stop() error
	Close() error
}

// Transport is a Device that can be paused and reports its position.
type Transport interface {
	Device
	Pause() error
	Resume() error
	Position() time.Duration
	State() PlayerState
}

// pollInterval is how often PlayTrack checks for the end of playback.
const pollInterval = 20 * time.Millisecond

// PlayTrack plays pcm on dev and blocks until playback ends or ctx is
// done, in which case playback is stopped and the context error returned.
func PlayTrack(ctx context.Context, dev Device, pcm []byte) error {
	if len(pcm) == 0 {
		return ErrEmptyTrack
	}
	if err := dev.Play(pcm); err != nil {
		return err
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = dev.Stop()
			return ctx.Err()
		case <-ticker.C:
			if !dev.IsPlaying() {
				return nil
			}
		}
	}
}
