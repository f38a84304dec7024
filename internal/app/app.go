package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	eaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/retroenv/retrogolib/log"

	"goch8/internal/audio"
	"goch8/internal/cpu"
	"goch8/internal/display"
	"goch8/internal/graphics"
	"goch8/internal/memory"
	"goch8/internal/runner"
)

// Application wires the interpreter core to a graphics backend and the
// audio output. It implements graphics.Loop: the backend calls Tick once
// per host frame.
type Application struct {
	logger *log.Logger
	config *Config

	mem     *memory.Memory
	disp    *display.Display
	pattern *audio.Pattern
	cpu     *cpu.CPU
	runner  *runner.Controller

	beeper   *audio.Beeper
	recorder *audio.WavRecorder
	player   *eaudio.Player
	audioBuf []byte

	backend graphics.Backend
	palette [4]uint32
	romPath string

	ctx      context.Context
	perfTime time.Duration
	done     bool
	haltErr  error
}

// ApplicationError represents application-specific errors.
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("%s error during %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// NewApplication builds the interpreter core and the configured backend.
func NewApplication(ctx context.Context, config *Config, logger *log.Logger) (*Application, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	variant := config.Variant()
	quirks := config.Quirks()

	mem := memory.New(variant.MemorySize(), quirks.WrapMemory)
	disp := display.New(quirks.ClipSprites)
	pattern := audio.NewPattern()
	core := cpu.New(mem, disp, pattern, cpu.Config{
		Variant:    variant,
		Quirks:     quirks,
		StackDepth: config.Emulation.StackDepth,
	})
	control := runner.New(core, disp, runner.Config{
		IPSLimit:   config.Emulation.IPSLimit,
		IPFLimit:   config.Emulation.IPFLimit,
		FPSLimit:   config.Video.FPSLimit,
		SkipFrames: config.Video.SkipFrames,
	})

	app := &Application{
		logger:  logger,
		config:  config,
		mem:     mem,
		disp:    disp,
		pattern: pattern,
		cpu:     core,
		runner:  control,
		palette: config.Palette(),
		ctx:     ctx,
	}

	if err := app.initializeBackend(); err != nil {
		return nil, &ApplicationError{Component: "graphics", Operation: "initialization", Err: err}
	}
	if err := app.initializeAudio(); err != nil {
		return nil, &ApplicationError{Component: "audio", Operation: "initialization", Err: err}
	}
	return app, nil
}

func (app *Application) initializeBackend() error {
	backend, err := graphics.CreateBackend(graphics.BackendType(app.config.Video.Backend))
	if err != nil {
		return err
	}
	app.backend = backend

	return backend.Initialize(graphics.Config{
		WindowTitle: "goch8",
		Scale:       app.config.Video.Scale,
		Colors:      app.palette,
		Keymap:      app.config.Keymap(),
		Frames:      app.config.Debug.HeadlessFrames,
		DumpPath:    app.config.Debug.DumpFrame,
	})
}

func (app *Application) initializeAudio() error {
	if !app.config.Audio.Enabled {
		return nil
	}
	app.beeper = audio.NewBeeper(app.config.Audio.SampleRate)

	if path := app.config.Audio.RecordWav; path != "" {
		recorder, err := audio.NewWavRecorder(path, app.beeper.SampleRate())
		if err != nil {
			return err
		}
		app.recorder = recorder
		app.beeper.SetRecorder(recorder)
	}

	if app.backend.IsHeadless() {
		// no player; Tick pumps the beeper so a WAV recording still
		// captures the run
		app.audioBuf = make([]byte, 4096)
		return nil
	}

	ctx := eaudio.CurrentContext()
	if ctx == nil {
		ctx = eaudio.NewContext(app.beeper.SampleRate())
	}
	player, err := ctx.NewPlayer(app.beeper)
	if err != nil {
		return err
	}
	player.SetVolume(app.config.Audio.Volume)
	player.Play()
	app.player = player
	return nil
}

// LoadROM reads a program image and loads it at the program origin.
func (app *Application) LoadROM(romPath string) error {
	data, err := os.ReadFile(romPath)
	if err != nil {
		return &ApplicationError{Component: "rom", Operation: "read", Err: err}
	}
	if err := app.mem.LoadROM(data); err != nil {
		return &ApplicationError{Component: "rom", Operation: "load", Err: err}
	}
	app.romPath = romPath

	app.logger.Info("ROM loaded",
		log.String("file", filepath.Base(romPath)),
		log.String("variant", app.cpu.Variant().String()),
		log.Int("size", len(data)),
	)
	return nil
}

// Run drives the backend until the program exits, faults or the context
// is cancelled.
func (app *Application) Run() error {
	if app.romPath == "" {
		return &ApplicationError{Component: "rom", Operation: "run", Err: fmt.Errorf("no ROM loaded")}
	}
	app.logger.Debug("starting emulation", log.String("backend", app.backend.Name()))

	err := app.backend.Run(app)
	if closeErr := app.closeAudio(); err == nil {
		err = closeErr
	}
	return err
}

// Tick implements graphics.Loop.
func (app *Application) Tick(elapsed time.Duration, keys cpu.Keys) (*graphics.Frame, error) {
	if app.ctx != nil && app.ctx.Err() != nil {
		app.done = true
		return nil, nil
	}

	res, err := app.runner.Tick(elapsed, keys)
	if err != nil {
		app.haltErr = err
		app.done = true
		return nil, &ApplicationError{Component: "cpu", Operation: "execution", Err: err}
	}
	if app.cpu.Exited() {
		app.done = true
	}

	app.updateAudio(elapsed)
	app.logPerf(elapsed)

	if !res.Redraw {
		return nil, nil
	}
	return &graphics.Frame{
		Pixels: app.disp.Buffer(app.palette),
		Width:  app.disp.Width(),
		Height: app.disp.Height(),
	}, nil
}

// Done implements graphics.Loop.
func (app *Application) Done() bool {
	return app.done
}

func (app *Application) updateAudio(elapsed time.Duration) {
	if app.beeper == nil {
		return
	}
	app.beeper.Update(*app.pattern, app.cpu.SoundActive())

	if app.player == nil && app.recorder != nil {
		// headless: pull the frames a player would have pulled
		want := int(float64(app.beeper.SampleRate())*elapsed.Seconds()) * 4
		for want > 0 {
			n := len(app.audioBuf)
			if n > want {
				n = want
			}
			read, err := app.beeper.Read(app.audioBuf[:n])
			if err != nil || read == 0 {
				return
			}
			want -= read
		}
	}
}

func (app *Application) closeAudio() error {
	if app.player != nil {
		app.player.Close()
	}
	if app.recorder != nil {
		if err := app.recorder.Close(); err != nil {
			return &ApplicationError{Component: "audio", Operation: "recording close", Err: err}
		}
	}
	return nil
}

func (app *Application) logPerf(elapsed time.Duration) {
	if !app.config.Debug.ShowPerf {
		return
	}
	app.perfTime += elapsed
	if app.perfTime < time.Second {
		return
	}
	app.perfTime = 0
	stats := app.runner.Stats()
	app.logger.Info("performance",
		log.String("ips", fmt.Sprintf("%.0f", stats.IPS)),
		log.Uint64("steps", stats.Steps),
		log.Uint64("timer_ticks", stats.TimerTicks),
	)
}
