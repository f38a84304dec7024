// Package main implements the goch8 CHIP-8 interpreter executable.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	retroapp "github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"goch8/internal/app"
	"goch8/internal/version"
)

type flags struct {
	rom        string
	variant    string
	configFile string

	nogui       bool
	frames      int
	dumpFrame   string
	ips         float64
	ipf         int
	fps         float64
	noSkip      bool
	colors      string
	recordWav   string
	debug       bool
	quiet       bool
	showPerf    bool
	showVersion bool
}

func main() {
	f := parseFlags()

	if f.showVersion {
		fmt.Println(version.GetDetailedVersion())
		return
	}

	logger := app.CreateLogger(f.debug, f.quiet)

	config := app.NewConfig()
	if f.configFile != "" {
		if err := config.LoadFromFile(f.configFile); err != nil {
			logger.Fatal("Loading configuration failed", log.Err(err))
		}
	}
	if err := applyFlags(config, f); err != nil {
		logger.Fatal("Invalid flags", log.Err(err))
	}

	if f.rom == "" {
		printUsage()
		os.Exit(1)
	}

	ctx := retroapp.Context()

	application, err := app.NewApplication(ctx, config, logger)
	if err != nil {
		logger.Fatal("Creating application failed", log.Err(err))
	}
	if err := application.LoadROM(f.rom); err != nil {
		logger.Fatal("Loading ROM failed", log.Err(err))
	}

	if err := application.Run(); err != nil {
		logger.Error("Emulation stopped", log.Err(err))
		os.Exit(1)
	}
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.rom, "rom", "", "path to the ROM file to run")
	flag.StringVar(&f.variant, "variant", "", "instruction set: chip8, schip or xochip")
	flag.StringVar(&f.configFile, "config", "", "path to configuration file")
	flag.BoolVar(&f.nogui, "nogui", false, "run without a window (headless mode)")
	flag.IntVar(&f.frames, "frames", 0, "headless mode: number of 60 Hz frames to run (0 = until exit)")
	flag.StringVar(&f.dumpFrame, "dump-frame", "", "headless mode: write the final frame as a PPM image")
	flag.Float64Var(&f.ips, "ips", -1, "instructions per second limit (0 = unlimited)")
	flag.IntVar(&f.ipf, "ipf", -1, "instructions per frame limit (0 = unlimited)")
	flag.Float64Var(&f.fps, "fps", -1, "redraw rate limit (0 = every host frame)")
	flag.BoolVar(&f.noSkip, "no-skip-frames", false, "redraw even when the display did not change")
	flag.StringVar(&f.colors, "colors", "", "four comma separated RRGGBB palette colors")
	flag.StringVar(&f.recordWav, "record-wav", "", "capture audio output to a WAV file")
	flag.BoolVar(&f.debug, "debug", false, "enable debug logging")
	flag.BoolVar(&f.quiet, "quiet", false, "only log errors")
	flag.BoolVar(&f.showPerf, "perf", false, "log instruction rate counters")
	flag.BoolVar(&f.showVersion, "version", false, "show version information")
	flag.Usage = printUsage
	flag.Parse()

	if f.rom == "" && flag.NArg() > 0 {
		f.rom = flag.Arg(0)
	}
	return f
}

// applyFlags layers command line flags over the file configuration.
func applyFlags(config *app.Config, f flags) error {
	if f.variant != "" {
		config.Emulation.Variant = f.variant
	}
	if f.ips >= 0 {
		config.Emulation.IPSLimit = f.ips
	}
	if f.ipf >= 0 {
		config.Emulation.IPFLimit = f.ipf
	}
	if f.fps >= 0 {
		config.Video.FPSLimit = f.fps
	}
	if f.noSkip {
		config.Video.SkipFrames = false
	}
	if f.nogui {
		config.Video.Backend = "headless"
	}
	if f.frames > 0 {
		config.Debug.HeadlessFrames = f.frames
	}
	if f.dumpFrame != "" {
		config.Debug.DumpFrame = f.dumpFrame
	}
	if f.recordWav != "" {
		config.Audio.Enabled = true
		config.Audio.RecordWav = f.recordWav
	}
	if f.colors != "" {
		parts := strings.Split(f.colors, ",")
		if len(parts) != 4 {
			return fmt.Errorf("-colors needs 4 comma separated values, got %d", len(parts))
		}
		for i, p := range parts {
			config.Video.Colors[i] = strings.TrimSpace(p)
		}
	}
	config.Debug.Debug = f.debug
	config.Debug.Quiet = f.quiet
	config.Debug.ShowPerf = f.showPerf

	return config.Validate()
}

func printUsage() {
	fmt.Println("goch8 - CHIP-8, Super-CHIP8 and XO-CHIP interpreter")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  goch8 -rom <file> [options]")
	fmt.Println("  goch8 -nogui -rom <file> [options]   # run headless")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  goch8 -rom pong.ch8                       # classic CHIP-8")
	fmt.Println("  goch8 -rom game.xo8 -variant xochip       # XO-CHIP with 64K memory")
	fmt.Println("  goch8 -rom test.ch8 -ips 700              # limit execution rate")
	fmt.Println("  goch8 -nogui -rom test.ch8 -frames 120 -dump-frame out.ppm")
	fmt.Println()
	fmt.Println("CONTROLS (default layout):")
	fmt.Println("  1 2 3 4        1 2 3 C")
	fmt.Println("  Q W E R   ->   4 5 6 D")
	fmt.Println("  A S D F        7 8 9 E")
	fmt.Println("  Z X C V        A 0 B F")
	fmt.Println("  Escape quits.")
}
