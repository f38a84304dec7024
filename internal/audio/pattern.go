// Package audio implements the XO-CHIP pattern buffer and sample generation.
package audio

import "math"

const (
	// PatternBytes is the size of the audio pattern buffer.
	PatternBytes = 16
	// PatternBits is the number of 1-bit samples in the buffer.
	PatternBits = PatternBytes * 8

	// DefaultPitch is the pitch register reset value, yielding the
	// 4000 Hz base playback rate.
	DefaultPitch = 64

	basePlaybackRate = 4000.0
)

// Pattern is the 128-bit waveform plus the playback pitch register. It is
// a pure sample generator with no threading concerns; the host samples it
// on demand while the sound timer is nonzero.
type Pattern struct {
	data  [PatternBytes]uint8
	pitch uint8
}

// NewPattern returns a pattern with the reset pitch and a buzzer-like
// default waveform, so variants without the audio opcode still beep.
func NewPattern() *Pattern {
	p := &Pattern{pitch: DefaultPitch}
	p.data = DefaultTone()
	return p
}

// DefaultTone is the fixed square wave substituted on CHIP-8 and
// Super-CHIP8, which have no pattern buffer opcode. At the base playback
// rate it produces a 250 Hz tone.
func DefaultTone() [PatternBytes]uint8 {
	var d [PatternBytes]uint8
	for i := range d {
		if i%2 == 0 {
			d[i] = 0xFF
		}
	}
	return d
}

// Load replaces the waveform with 16 bytes from memory.
func (p *Pattern) Load(data [PatternBytes]uint8) {
	p.data = data
}

// Bytes returns a copy of the waveform.
func (p *Pattern) Bytes() [PatternBytes]uint8 {
	return p.data
}

// SetPitch sets the playback pitch register.
func (p *Pattern) SetPitch(v uint8) {
	p.pitch = v
}

// Pitch returns the playback pitch register.
func (p *Pattern) Pitch() uint8 {
	return p.pitch
}

// PlaybackRate returns the 1-bit sample rate in Hz derived from the
// pitch register: 4000 * 2^((pitch-64)/48).
func (p *Pattern) PlaybackRate() float64 {
	return basePlaybackRate * math.Pow(2, (float64(p.pitch)-DefaultPitch)/48)
}

// Bit returns the 1-bit sample at the given index, reading the buffer
// circularly.
func (p *Pattern) Bit(i int) bool {
	i = ((i % PatternBits) + PatternBits) % PatternBits
	return (p.data[i/8]>>(7-uint(i%8)))&1 == 1
}

// SampleAt returns the amplitude in [-1, 1] at time t seconds after the
// start of playback.
func (p *Pattern) SampleAt(t float64) float64 {
	if p.Bit(int(t * p.PlaybackRate())) {
		return 1.0
	}
	return -1.0
}
