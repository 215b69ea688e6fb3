package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var _ Transport = (*MockPlayer)(nil)

// MockPlayer implements Transport without producing sound. Playback time is
// simulated and can be sped up for tests.
type MockPlayer struct {
	mu    sync.Mutex
	state PlayerState

	sampleRate int
	speed      float64

	duration  time.Duration
	offset    time.Duration // position when playback (re)started
	startTime time.Time
	timer     *time.Timer
	gen       int // invalidates timers from earlier playbacks

	callbacks MockCallbacks
	playErr   error

	playCount   atomic.Int64
	pauseCount  atomic.Int64
	resumeCount atomic.Int64
	stopCount   atomic.Int64
}

// MockCallbacks provides hooks for testing.
type MockCallbacks struct {
	OnPlay   func(pcm []byte)
	OnPause  func()
	OnResume func()
	OnStop   func()
	OnFinish func()
}

// MockPlayerMetrics counts calls made on a MockPlayer.
type MockPlayerMetrics struct {
	PlayCount   int64
	PauseCount  int64
	ResumeCount int64
	StopCount   int64
}

// NewMockPlayer creates a mock player for PCM at sampleRate. speed scales
// simulated time: 10 plays ten times faster than real time.
func NewMockPlayer(sampleRate int, speed float64) *MockPlayer {
	if speed <= 0 {
		speed = 1
	}
	return &MockPlayer{
		state:      StateStopped,
		sampleRate: sampleRate,
		speed:      speed,
	}
}

// SetCallbacks installs test hooks.
func (mp *MockPlayer) SetCallbacks(cb MockCallbacks) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.callbacks = cb
}

// SetPlayError makes the next calls to Play fail with err.
func (mp *MockPlayer) SetPlayError(err error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.playErr = err
}

// Play starts simulated playback of pcm.
func (mp *MockPlayer) Play(pcm []byte) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.state == StateClosed {
		return ErrPlayerClosed
	}
	if mp.playErr != nil {
		return mp.playErr
	}
	if len(pcm) == 0 {
		return ErrEmptyAudio
	}

	mp.stopTimer()
	mp.duration = Duration(len(pcm), mp.sampleRate)
	mp.offset = 0
	mp.start()
	mp.playCount.Add(1)

	if mp.callbacks.OnPlay != nil {
		mp.callbacks.OnPlay(pcm)
	}
	return nil
}

// start schedules the end of playback. Callers hold mu.
func (mp *MockPlayer) start() {
	mp.state = StatePlaying
	mp.startTime = time.Now()
	mp.gen++
	gen := mp.gen
	remaining := time.Duration(float64(mp.duration-mp.offset) / mp.speed)
	mp.timer = time.AfterFunc(remaining, func() { mp.finish(gen) })
}

func (mp *MockPlayer) finish(gen int) {
	mp.mu.Lock()
	if gen != mp.gen || mp.state != StatePlaying {
		mp.mu.Unlock()
		return
	}
	mp.state = StateStopped
	mp.offset = mp.duration
	cb := mp.callbacks.OnFinish
	mp.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (mp *MockPlayer) stopTimer() {
	if mp.timer != nil {
		mp.timer.Stop()
		mp.timer = nil
	}
	mp.gen++
}

// Pause pauses simulated playback.
func (mp *MockPlayer) Pause() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.state != StatePlaying {
		return fmt.Errorf("cannot pause: player is %s", mp.state)
	}
	mp.offset = mp.positionLocked()
	mp.stopTimer()
	mp.state = StatePaused
	mp.pauseCount.Add(1)

	if mp.callbacks.OnPause != nil {
		mp.callbacks.OnPause()
	}
	return nil
}

// Resume continues paused playback.
func (mp *MockPlayer) Resume() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.state != StatePaused {
		return fmt.Errorf("cannot resume: player is %s", mp.state)
	}
	mp.start()
	mp.resumeCount.Add(1)

	if mp.callbacks.OnResume != nil {
		mp.callbacks.OnResume()
	}
	return nil
}

// Stop halts playback and resets the position.
func (mp *MockPlayer) Stop() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.state != StatePlaying && mp.state != StatePaused {
		return nil
	}
	mp.stopTimer()
	mp.state = StateStopped
	mp.offset = 0
	mp.stopCount.Add(1)

	if mp.callbacks.OnStop != nil {
		mp.callbacks.OnStop()
	}
	return nil
}

// Close stops playback; further calls to Play fail.
func (mp *MockPlayer) Close() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.stopTimer()
	mp.state = StateClosed
	return nil
}

// IsPlaying reports whether simulated playback is running.
func (mp *MockPlayer) IsPlaying() bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.state == StatePlaying
}

// State returns the current player state.
func (mp *MockPlayer) State() PlayerState {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.state
}

// Position returns the simulated playback position.
func (mp *MockPlayer) Position() time.Duration {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.positionLocked()
}

func (mp *MockPlayer) positionLocked() time.Duration {
	if mp.state != StatePlaying {
		return mp.offset
	}
	elapsed := time.Duration(float64(time.Since(mp.startTime)) * mp.speed)
	return min(mp.offset+elapsed, mp.duration)
}

// Metrics returns call counts.
func (mp *MockPlayer) Metrics() MockPlayerMetrics {
	return MockPlayerMetrics{
		PlayCount:   mp.playCount.Load(),
		PauseCount:  mp.pauseCount.Load(),
		ResumeCount: mp.resumeCount.Load(),
		StopCount:   mp.stopCount.Load(),
	}
}
