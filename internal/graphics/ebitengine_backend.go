package graphics

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"goch8/internal/cpu"
	"goch8/internal/display"
	"goch8/internal/input"
)

// elapsed time per host frame is clamped so a paused or dragged window
// does not build up a huge instruction debt.
const maxFrameElapsed = 100 * time.Millisecond

// EbitengineBackend implements Backend on an Ebitengine window.
type EbitengineBackend struct {
	initialized bool
	config      Config
	keymap      [input.NumKeys]ebiten.Key
}

// NewEbitengineBackend creates a new Ebitengine graphics backend.
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

// Initialize validates the key map and sizes the window.
func (b *EbitengineBackend) Initialize(config Config) error {
	if b.initialized {
		return errors.New("ebitengine backend already initialized")
	}
	for i, name := range config.Keymap {
		key, err := lookupKey(name)
		if err != nil {
			return fmt.Errorf("keypad key %X: %w", i, err)
		}
		b.keymap[i] = key
	}

	scale := config.Scale
	if scale <= 0 {
		scale = 8
	}
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowSize(display.HiresWidth*scale, display.HiresHeight*scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	b.config = config
	b.initialized = true
	return nil
}

// Run starts the Ebitengine game loop and blocks until it ends.
func (b *EbitengineBackend) Run(loop Loop) error {
	if !b.initialized {
		return errors.New("backend not initialized")
	}
	game := &ebitengineGame{
		loop:   loop,
		keymap: b.keymap,
	}
	err := ebiten.RunGame(game)
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return game.loopErr
}

// IsHeadless returns false, this backend renders a window.
func (b *EbitengineBackend) IsHeadless() bool { return false }

// Name returns the backend name.
func (b *EbitengineBackend) Name() string { return "Ebitengine" }

// ebitengineGame implements ebiten.Game around a Loop.
type ebitengineGame struct {
	loop    Loop
	keymap  [input.NumKeys]ebiten.Key
	loopErr error

	lastTick   time.Time
	frame      *Frame
	frameImage *ebiten.Image
	pixelBuf   []byte
}

// Update implements ebiten.Game.
func (g *ebitengineGame) Update() error {
	now := time.Now()
	elapsed := time.Duration(0)
	if !g.lastTick.IsZero() {
		elapsed = now.Sub(g.lastTick)
		if elapsed > maxFrameElapsed {
			elapsed = maxFrameElapsed
		}
	}
	g.lastTick = now

	var keys cpu.Keys
	for i, key := range g.keymap {
		keys[i] = ebiten.IsKeyPressed(key)
	}

	frame, err := g.loop.Tick(elapsed, keys)
	if err != nil {
		g.loopErr = err
		return ebiten.Termination
	}
	if frame != nil {
		g.frame = frame
	}
	if g.loop.Done() || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game. The frame image is recreated when the
// display switches between lores and hires resolutions.
func (g *ebitengineGame) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		return
	}
	w, h := g.frame.Width, g.frame.Height
	if g.frameImage == nil || !g.frameImage.Bounds().Eq(imageRect(w, h)) {
		g.frameImage = ebiten.NewImage(w, h)
		g.pixelBuf = make([]byte, w*h*4)
	}
	for i, pixel := range g.frame.Pixels {
		g.pixelBuf[i*4+0] = uint8(pixel >> 16)
		g.pixelBuf[i*4+1] = uint8(pixel >> 8)
		g.pixelBuf[i*4+2] = uint8(pixel)
		g.pixelBuf[i*4+3] = 0xFF
	}
	g.frameImage.WritePixels(g.pixelBuf)

	bounds := screen.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(bounds.Dx())/float64(w), float64(bounds.Dy())/float64(h))
	screen.DrawImage(g.frameImage, op)
}

// Layout implements ebiten.Game.
func (g *ebitengineGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
