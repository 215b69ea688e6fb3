package audio

import (
	"encoding/binary"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/dgnsrekt/voicegen/voice"
)

const (
	channels       = 1
	bytesPerSample = 2
)

// ErrEmptyTrack is returned when there is nothing to play.
var ErrEmptyTrack = errors.New("track has no samples")

// FramesPerTick returns the number of PCM frames covering one tick.
func FramesPerTick(sampleRate int) int {
	return int(int64(sampleRate) * int64(voice.Tick) / int64(time.Second))
}

// TickOffset returns the byte offset of tick in PCM rendered at
// sampleRate.
func TickOffset(tick, sampleRate int) int {
	return tick * FramesPerTick(sampleRate) * bytesPerSample * channels
}

// Render converts a track to 16-bit little-endian mono PCM. Ticks at or
// above the threshold become a sine at the sampled pitch with continuous
// phase; the rest become hiss scaled by value/threshold.
func Render(samples []voice.Sample, cfg Config) []byte {
	frames := FramesPerTick(cfg.SampleRate)
	out := make([]byte, len(samples)*frames*bytesPerSample*channels)

	// fixed seed so the same track always sounds the same
	rng := rand.New(rand.NewPCG(1, 2))
	var phase float64
	pos := 0
	for _, s := range samples {
		talking := s.Value >= cfg.Threshold
		step := 2 * math.Pi * math.Abs(s.Value) / float64(cfg.SampleRate)
		hiss := cfg.NoiseLevel * math.Min(math.Abs(s.Value)/cfg.Threshold, 1)

		for range frames {
			var v float64
			if talking {
				v = cfg.Volume * math.Sin(phase)
				phase = math.Mod(phase+step, 2*math.Pi)
			} else {
				v = hiss * (rng.Float64()*2 - 1)
			}
			binary.LittleEndian.PutUint16(out[pos:], uint16(toInt16(v)))
			pos += bytesPerSample
		}
	}
	return out
}

func toInt16(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(math.Round(v * math.MaxInt16))
}

// Duration returns the playback length of n bytes of PCM.
func Duration(n, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	frames := n / (bytesPerSample * channels)
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
