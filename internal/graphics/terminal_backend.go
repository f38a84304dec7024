package graphics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"goch8/internal/cpu"
)

// TerminalBackend implements Backend by drawing the display as block
// characters on stdout. It takes no input; programs that wait for a key
// will sit in their wait state.
type TerminalBackend struct {
	initialized bool
	config      Config
	shade       map[uint32]rune
}

// NewTerminalBackend creates a new terminal graphics backend.
func NewTerminalBackend() Backend {
	return &TerminalBackend{}
}

// Initialize builds the palette-to-character mapping.
func (b *TerminalBackend) Initialize(config Config) error {
	if b.initialized {
		return errors.New("terminal backend already initialized")
	}
	b.config = config
	b.shade = map[uint32]rune{
		config.Colors[0]: ' ',
		config.Colors[1]: '█',
		config.Colors[2]: '▒',
		config.Colors[3]: '▓',
	}
	b.initialized = true
	return nil
}

// Run paces the loop at 60 Hz wall-clock and redraws the terminal
// whenever the loop produces a frame.
func (b *TerminalBackend) Run(loop Loop) error {
	if !b.initialized {
		return errors.New("backend not initialized")
	}
	fmt.Printf("\033]0;%s\007", b.config.WindowTitle)

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	last := time.Now()
	for range ticker.C {
		if loop.Done() {
			return nil
		}
		now := time.Now()
		frame, err := loop.Tick(now.Sub(last), cpu.Keys{})
		last = now
		if err != nil {
			return err
		}
		if frame != nil {
			b.render(frame)
		}
	}
	return nil
}

func (b *TerminalBackend) render(frame *Frame) {
	var sb strings.Builder
	sb.WriteString("\033[2J\033[H")
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			ch, ok := b.shade[frame.Pixels[y*frame.Width+x]]
			if !ok {
				ch = '█'
			}
			sb.WriteRune(ch)
		}
		sb.WriteByte('\n')
	}
	fmt.Print(sb.String())
}

// IsHeadless returns false, the terminal has visible output.
func (b *TerminalBackend) IsHeadless() bool { return false }

// Name returns the backend name.
func (b *TerminalBackend) Name() string { return "Terminal" }
