// Package graphics provides an abstraction layer for different rendering
// backends (Ebitengine window, headless, terminal).
package graphics

import (
	"fmt"
	"time"

	"goch8/internal/cpu"
	"goch8/internal/input"
)

// Frame is one rendered display buffer in packed 0x00RRGGBB pixels.
type Frame struct {
	Pixels []uint32
	Width  int
	Height int
}

// Loop is the emulation side of a backend: the backend calls Tick once
// per host frame with the elapsed time and the current key snapshot, and
// receives the frame to present (nil when no redraw is needed).
type Loop interface {
	Tick(elapsed time.Duration, keys cpu.Keys) (*Frame, error)

	// Done reports that emulation finished and the backend should stop.
	Done() bool
}

// Backend drives a Loop and presents its frames.
type Backend interface {
	// Initialize prepares the backend; must be called before Run.
	Initialize(config Config) error

	// Run blocks until the loop is done, the user quits or an error
	// stops emulation.
	Run(loop Loop) error

	// IsHeadless returns true if the backend renders no window.
	IsHeadless() bool

	// Name returns the backend name for identification.
	Name() string
}

// Config contains configuration for graphics backends.
type Config struct {
	WindowTitle string
	// Scale multiplies the 128x64 logical canvas for the window size.
	Scale int
	// Colors is the 4-entry palette, used by the terminal backend to
	// map pixels back to intensity.
	Colors [4]uint32
	// Keymap binds keypad keys 0..F to host key names.
	Keymap [input.NumKeys]string

	// Frames bounds a headless run; 0 runs until the loop is done.
	Frames int
	// DumpPath, when set, makes the headless backend write the final
	// frame as a PPM image.
	DumpPath string
}

// BackendType selects a graphics backend implementation.
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
	BackendTerminal   BackendType = "terminal"
)

// CreateBackend creates a graphics backend of the specified type.
func CreateBackend(backendType BackendType) (Backend, error) {
	switch backendType {
	case BackendEbitengine, "":
		return NewEbitengineBackend(), nil
	case BackendHeadless:
		return NewHeadlessBackend(), nil
	case BackendTerminal:
		return NewTerminalBackend(), nil
	default:
		return nil, fmt.Errorf("unknown graphics backend %q", backendType)
	}
}
