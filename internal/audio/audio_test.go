package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestPlaybackRate(t *testing.T) {
	tests := []struct {
		pitch uint8
		want  float64
	}{
		{64, 4000},
		{112, 8000}, // +48 doubles
		{16, 2000},  // -48 halves
		{0, 4000 * math.Pow(2, -64.0/48)},
		{255, 4000 * math.Pow(2, 191.0/48)},
	}
	for _, tt := range tests {
		p := NewPattern()
		p.SetPitch(tt.pitch)
		got := p.PlaybackRate()
		if math.Abs(got-tt.want) > 0.01 {
			t.Errorf("PlaybackRate(pitch=%d) = %.2f, want %.2f", tt.pitch, got, tt.want)
		}
	}
}

func TestPatternBitsCircular(t *testing.T) {
	p := NewPattern()
	var data [PatternBytes]uint8
	data[0] = 0x80
	p.Load(data)

	if !p.Bit(0) {
		t.Error("bit 0 should be set")
	}
	if p.Bit(1) {
		t.Error("bit 1 should be clear")
	}
	if !p.Bit(PatternBits) {
		t.Error("reads past the end wrap to bit 0")
	}
	if !p.Bit(-PatternBits) {
		t.Error("negative indices wrap too")
	}
}

func TestDefaultToneAlternates(t *testing.T) {
	p := NewPattern()
	// byte 0 all set, byte 1 all clear
	for i := 0; i < 8; i++ {
		if !p.Bit(i) {
			t.Errorf("bit %d should be set in the default tone", i)
		}
		if p.Bit(8 + i) {
			t.Errorf("bit %d should be clear in the default tone", 8+i)
		}
	}
	if p.SampleAt(0) != 1.0 {
		t.Error("sample at t=0 should be positive")
	}
}

func TestBeeperProducesSilenceWhenInactive(t *testing.T) {
	b := NewBeeper(DefaultSampleRate)
	b.Update(*NewPattern(), false)

	buf := make([]byte, 64)
	n, err := b.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 64, n)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("byte %d = %d, want silence", i, v)
		}
	}
}

func TestBeeperProducesSquareWaveWhenActive(t *testing.T) {
	b := NewBeeper(DefaultSampleRate)
	b.Update(*NewPattern(), true)

	buf := make([]byte, 4096)
	n, err := b.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, len(buf), n)

	var positive, negative bool
	for i := 0; i < n; i += 4 {
		sample := int16(uint16(buf[i]) | uint16(buf[i+1])<<8)
		switch {
		case sample > 0:
			positive = true
		case sample < 0:
			negative = true
		}
		// stereo frames carry the same sample on both channels
		right := int16(uint16(buf[i+2]) | uint16(buf[i+3])<<8)
		if right != sample {
			t.Fatalf("frame %d: left %d != right %d", i/4, sample, right)
		}
	}
	if !positive || !negative {
		t.Error("active beeper should produce both half-waves")
	}
}

func TestWavRecorderWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")

	rec, err := NewWavRecorder(path, DefaultSampleRate)
	assert.NoError(t, err)

	b := NewBeeper(DefaultSampleRate)
	b.SetRecorder(rec)
	b.Update(*NewPattern(), true)

	buf := make([]byte, 1024)
	_, err = b.Read(buf)
	assert.NoError(t, err)
	assert.NoError(t, rec.Close())

	// a RIFF header plus 256 16-bit samples
	info, err := os.Stat(path)
	assert.NoError(t, err)
	if info.Size() < 44+512 {
		t.Errorf("wav file size = %d, want at least %d", info.Size(), 44+512)
	}
}
