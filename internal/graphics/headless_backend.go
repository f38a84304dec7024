package graphics

import (
	"errors"
	"time"

	"goch8/internal/cpu"
)

// headlessFrameTime is the fixed per-frame step for headless runs; real
// time does not matter without a window, only determinism does.
const headlessFrameTime = time.Second / 60

// HeadlessBackend implements Backend without any window. It drives the
// loop at a fixed 60 Hz virtual cadence with no keys pressed, which
// keeps headless runs fully deterministic.
type HeadlessBackend struct {
	initialized bool
	config      Config
}

// NewHeadlessBackend creates a new headless graphics backend.
func NewHeadlessBackend() Backend {
	return &HeadlessBackend{}
}

// Initialize initializes the headless backend.
func (b *HeadlessBackend) Initialize(config Config) error {
	if b.initialized {
		return errors.New("headless backend already initialized")
	}
	b.config = config
	b.initialized = true
	return nil
}

// Run steps the loop for the configured number of frames, or until the
// loop reports done. The last rendered frame is optionally dumped as a
// PPM image.
func (b *HeadlessBackend) Run(loop Loop) error {
	if !b.initialized {
		return errors.New("backend not initialized")
	}

	var lastFrame *Frame
	for frame := 0; b.config.Frames <= 0 || frame < b.config.Frames; frame++ {
		if loop.Done() {
			break
		}
		rendered, err := loop.Tick(headlessFrameTime, cpu.Keys{})
		if err != nil {
			return err
		}
		if rendered != nil {
			lastFrame = rendered
		}
	}

	if b.config.DumpPath != "" && lastFrame != nil {
		return WritePPMFile(b.config.DumpPath, lastFrame)
	}
	return nil
}

// IsHeadless returns true.
func (b *HeadlessBackend) IsHeadless() bool { return true }

// Name returns the backend name.
func (b *HeadlessBackend) Name() string { return "Headless" }
