package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WavRecorder captures the beeper output to a mono WAV file so a headless
// run can be inspected afterwards. Samples are streamed to the encoder as
// they arrive; Close finalizes the RIFF header.
type WavRecorder struct {
	file   *os.File
	enc    *wav.Encoder
	format *goaudio.Format
}

// NewWavRecorder creates the output file and WAV encoder.
func NewWavRecorder(path string, sampleRate int) (*WavRecorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating wav file: %w", err)
	}
	return &WavRecorder{
		file: f,
		enc:  wav.NewEncoder(f, sampleRate, 16, 1, 1),
		format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
	}, nil
}

// AppendSamples writes a block of 16-bit mono samples.
func (r *WavRecorder) AppendSamples(samples []int) error {
	buf := &goaudio.IntBuffer{
		Format:         r.format,
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := r.enc.Write(buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	return nil
}

// Close finalizes the encoder and closes the file.
func (r *WavRecorder) Close() error {
	if err := r.enc.Close(); err != nil {
		r.file.Close()
		return fmt.Errorf("finalizing wav file: %w", err)
	}
	return r.file.Close()
}
