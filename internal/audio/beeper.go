package audio

import "sync"

const (
	// DefaultSampleRate is the host playback rate of the beeper stream.
	DefaultSampleRate = 44100

	amplitude = 8192 // out of 32767, keeps the square wave comfortable
)

// Beeper turns the pattern buffer into a continuous 16-bit stereo PCM
// stream. It implements io.Reader so an audio player can pull samples
// from it; Read is called from the player's goroutine, so the emulation
// thread publishes state through Update under a mutex. While the sound
// timer is zero the stream produces silence.
type Beeper struct {
	mu         sync.Mutex
	pattern    Pattern
	active     bool
	sampleRate int
	phase      float64
	recorder   *WavRecorder
}

// NewBeeper creates a beeper producing samples at the given rate.
func NewBeeper(sampleRate int) *Beeper {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Beeper{
		sampleRate: sampleRate,
		pattern:    Pattern{pitch: DefaultPitch, data: DefaultTone()},
	}
}

// SampleRate returns the host playback rate.
func (b *Beeper) SampleRate() int {
	return b.sampleRate
}

// Update publishes the current waveform and sound-timer activity. Called
// once per controller tick from the emulation thread.
func (b *Beeper) Update(pattern Pattern, active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pattern = pattern
	if active && !b.active {
		b.phase = 0
	}
	b.active = active
}

// SetRecorder tees everything the beeper produces into a WAV recorder.
func (b *Beeper) SetRecorder(r *WavRecorder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recorder = r
}

// Read fills buf with interleaved 16-bit little-endian stereo samples.
// It never returns io.EOF; the stream is infinite.
func (b *Beeper) Read(buf []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// 4 bytes per frame: left and right 16-bit samples
	frames := len(buf) / 4
	step := b.pattern.PlaybackRate() / float64(b.sampleRate)
	mono := make([]int, frames)

	for i := 0; i < frames; i++ {
		var sample int16
		if b.active {
			if b.pattern.Bit(int(b.phase)) {
				sample = amplitude
			} else {
				sample = -amplitude
			}
			b.phase += step
			if b.phase >= PatternBits {
				b.phase -= PatternBits
			}
		}
		mono[i] = int(sample)
		buf[i*4] = byte(sample)
		buf[i*4+1] = byte(uint16(sample) >> 8)
		buf[i*4+2] = byte(sample)
		buf[i*4+3] = byte(uint16(sample) >> 8)
	}

	if b.recorder != nil && frames > 0 {
		if err := b.recorder.AppendSamples(mono); err != nil {
			return frames * 4, err
		}
	}
	return frames * 4, nil
}
