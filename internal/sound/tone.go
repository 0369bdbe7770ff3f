// Package sound provides audio feedback for stopwatch cues.
// It supports cross-platform playback via OS-native audio commands.
package sound

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/wav"
	"github.com/patrickmn/go-cache"
)

const (
	sampleRate = beep.SampleRate(44100)
	amplitude  = 0.4

	// Fade applied to both ends of a tone to avoid clicks.
	fadeDuration = 5 * time.Millisecond
)

// toneFormat is mono 16-bit PCM.
var toneFormat = beep.Format{SampleRate: sampleRate, NumChannels: 1, Precision: 2}

// tones caches rendered WAV buffers keyed by frequency and duration.
// A stopwatch only ever asks for a handful of distinct tones.
var tones = cache.New(30*time.Minute, time.Hour)

// ToneWAV returns a mono 16-bit PCM WAV file containing a sine tone.
// The returned slice is shared and must not be modified.
func ToneWAV(freqHz int, d time.Duration) ([]byte, error) {
	key := fmt.Sprintf("%d:%d", freqHz, d)
	if cached, ok := tones.Get(key); ok {
		return cached.([]byte), nil
	}

	data, err := renderWAV(freqHz, d)
	if err != nil {
		return nil, err
	}
	tones.Set(key, data, cache.DefaultExpiration)
	return data, nil
}

// samples converts d to a whole number of frames, truncating.
func samples(d time.Duration) int {
	return int(int64(d) * int64(sampleRate) / int64(time.Second))
}

func renderWAV(freqHz int, d time.Duration) ([]byte, error) {
	if freqHz <= 0 || freqHz >= int(sampleRate)/2 {
		return nil, fmt.Errorf("tone frequency %d Hz out of range", freqHz)
	}
	sine, err := generators.SinTone(sampleRate, freqHz)
	if err != nil {
		return nil, fmt.Errorf("generating %d Hz tone: %w", freqHz, err)
	}

	total := samples(d)
	tone := &effects.Volume{
		Streamer: fade(beep.Take(total, sine), total, samples(fadeDuration)),
		Base:     2,
		Volume:   math.Log2(amplitude),
	}

	var out seekBuffer
	if err := wav.Encode(&out, tone, toneFormat); err != nil {
		return nil, fmt.Errorf("encoding tone: %w", err)
	}
	return out.buf, nil
}

// fade ramps the first and last fadeN of total samples linearly from and to silence.
func fade(s beep.Streamer, total, fadeN int) beep.Streamer {
	if fadeN*2 > total {
		fadeN = total / 2
	}
	pos := 0
	return beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		n, ok := s.Stream(buf)
		for i := range buf[:n] {
			gain := 1.0
			switch {
			case pos < fadeN:
				gain = float64(pos) / float64(fadeN)
			case pos >= total-fadeN:
				gain = float64(total-1-pos) / float64(fadeN)
			}
			buf[i][0] *= gain
			buf[i][1] *= gain
			pos++
		}
		return n, ok
	})
}

// seekBuffer is an in-memory io.WriteSeeker; wav.Encode seeks back to
// patch the header sizes.
type seekBuffer struct {
	buf []byte
	off int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if end := b.off + len(p); end > len(b.buf) {
		b.buf = append(b.buf, make([]byte, end-len(b.buf))...)
	}
	n := copy(b.buf[b.off:], p)
	b.off += n
	return n, nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.off) + offset
	case io.SeekEnd:
		abs = int64(len(b.buf)) + offset
	default:
		return 0, errors.New("seek: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("seek: negative position")
	}
	b.off = int(abs)
	return abs, nil
}
