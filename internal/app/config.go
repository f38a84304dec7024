// Package app wires the interpreter core to a graphics backend, audio
// output and configuration.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"goch8/internal/audio"
	"goch8/internal/cpu"
	"goch8/internal/input"
)

// Config holds all application configuration.
type Config struct {
	Video     VideoConfig     `json:"video"`
	Audio     AudioConfig     `json:"audio"`
	Input     InputConfig     `json:"input"`
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`

	configPath string
	loaded     bool
}

// VideoConfig contains video rendering configuration.
type VideoConfig struct {
	// Backend selects the renderer: "ebitengine", "headless", "terminal".
	Backend string `json:"backend"`
	// Scale multiplies the 128x64 logical canvas for the window size.
	Scale int `json:"scale"`
	// Colors is the 4-entry palette as RRGGBB hex strings, indexed by
	// plane bits: background, plane 1, plane 2, both planes.
	Colors [4]string `json:"colors"`
	// FPSLimit paces redraws; 0 redraws on every host frame.
	FPSLimit float64 `json:"fps_limit"`
	// SkipFrames suppresses redraws while the display is unchanged.
	SkipFrames bool `json:"skip_frames"`
}

// AudioConfig contains audio configuration.
type AudioConfig struct {
	Enabled    bool    `json:"enabled"`
	SampleRate int     `json:"sample_rate"`
	Volume     float64 `json:"volume"`
	// RecordWav, when set, captures the beeper output to a WAV file.
	RecordWav string `json:"record_wav"`
}

// InputConfig contains the keypad key bindings.
type InputConfig struct {
	// Keys binds keypad keys 0..F to host key names.
	Keys []string `json:"keys"`
}

// QuirkOverrides optionally override individual variant default quirks.
// Unset fields keep the default.
type QuirkOverrides struct {
	ShiftUsesVY          *bool `json:"shift_uses_vy,omitempty"`
	LoadStoreIncrementsI *bool `json:"load_store_increments_i,omitempty"`
	JumpOffsetUsesVX     *bool `json:"jump_offset_uses_vx,omitempty"`
	ClipSprites          *bool `json:"clip_sprites,omitempty"`
	ResetVFOnLogic       *bool `json:"reset_vf_on_logic,omitempty"`
	WrapMemory           *bool `json:"wrap_memory,omitempty"`
}

// Apply layers the overrides over a default quirk set.
func (o QuirkOverrides) Apply(q cpu.Quirks) cpu.Quirks {
	if o.ShiftUsesVY != nil {
		q.ShiftUsesVY = *o.ShiftUsesVY
	}
	if o.LoadStoreIncrementsI != nil {
		q.LoadStoreIncrementsI = *o.LoadStoreIncrementsI
	}
	if o.JumpOffsetUsesVX != nil {
		q.JumpOffsetUsesVX = *o.JumpOffsetUsesVX
	}
	if o.ClipSprites != nil {
		q.ClipSprites = *o.ClipSprites
	}
	if o.ResetVFOnLogic != nil {
		q.ResetVFOnLogic = *o.ResetVFOnLogic
	}
	if o.WrapMemory != nil {
		q.WrapMemory = *o.WrapMemory
	}
	return q
}

// EmulationConfig contains interpreter settings.
type EmulationConfig struct {
	// Variant selects the instruction set: "chip8", "schip", "xochip".
	Variant string `json:"variant"`
	// IPSLimit caps instructions per second; 0 means unlimited.
	IPSLimit float64 `json:"ips_limit"`
	// IPFLimit caps instructions per host frame; 0 means unlimited.
	IPFLimit int `json:"ipf_limit"`
	// StackDepth bounds the call stack; 0 uses the default of 16.
	StackDepth int            `json:"stack_depth"`
	Quirks     QuirkOverrides `json:"quirks"`
}

// DebugConfig contains debugging and development options.
type DebugConfig struct {
	Debug bool `json:"debug"`
	Quiet bool `json:"quiet"`
	// ShowPerf logs instruction-rate counters once per second.
	ShowPerf bool `json:"show_perf"`
	// HeadlessFrames bounds a headless run; 0 runs until exit.
	HeadlessFrames int `json:"headless_frames"`
	// DumpFrame writes the final headless frame as a PPM image.
	DumpFrame string `json:"dump_frame"`
}

// NewConfig creates a configuration with default values.
func NewConfig() *Config {
	layout := input.DefaultLayout()
	return &Config{
		Video: VideoConfig{
			Backend:    "ebitengine",
			Scale:      8,
			Colors:     [4]string{"AA4400", "FFAA00", "AAAAAA", "000000"},
			FPSLimit:   60,
			SkipFrames: true,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: audio.DefaultSampleRate,
			Volume:     0.8,
		},
		Input: InputConfig{
			Keys: layout[:],
		},
		Emulation: EmulationConfig{
			Variant:  "chip8",
			IPSLimit: 1000,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. A missing file is
// created with the current (default) values.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}

	c.loaded = true
	return nil
}

// SaveToFile saves the configuration to a JSON file.
func (c *Config) SaveToFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	c.configPath = path
	return nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if _, err := cpu.ParseVariant(c.Emulation.Variant); err != nil {
		return &ConfigError{Field: "emulation.variant", Value: c.Emulation.Variant, Err: err}
	}
	if c.Emulation.IPSLimit < 0 {
		return &ConfigError{Field: "emulation.ips_limit", Value: c.Emulation.IPSLimit,
			Err: fmt.Errorf("must not be negative")}
	}
	if c.Emulation.IPFLimit < 0 {
		return &ConfigError{Field: "emulation.ipf_limit", Value: c.Emulation.IPFLimit,
			Err: fmt.Errorf("must not be negative")}
	}
	if c.Emulation.StackDepth < 0 {
		return &ConfigError{Field: "emulation.stack_depth", Value: c.Emulation.StackDepth,
			Err: fmt.Errorf("must not be negative")}
	}
	if c.Video.Scale < 1 || c.Video.Scale > 32 {
		return &ConfigError{Field: "video.scale", Value: c.Video.Scale,
			Err: fmt.Errorf("must be between 1 and 32")}
	}
	for i, s := range c.Video.Colors {
		if _, err := ParseColor(s); err != nil {
			return &ConfigError{Field: fmt.Sprintf("video.colors[%d]", i), Value: s, Err: err}
		}
	}
	if c.Audio.SampleRate < 0 {
		return &ConfigError{Field: "audio.sample_rate", Value: c.Audio.SampleRate,
			Err: fmt.Errorf("must not be negative")}
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return &ConfigError{Field: "audio.volume", Value: c.Audio.Volume,
			Err: fmt.Errorf("must be between 0.0 and 1.0")}
	}
	if len(c.Input.Keys) > 0 {
		if _, err := input.ParseLayout(c.Input.Keys); err != nil {
			return &ConfigError{Field: "input.keys", Value: c.Input.Keys, Err: err}
		}
	}
	return nil
}

// Variant returns the parsed variant. Validate must have accepted the
// configuration first.
func (c *Config) Variant() cpu.Variant {
	v, _ := cpu.ParseVariant(c.Emulation.Variant)
	return v
}

// Quirks returns the effective quirk set: variant defaults with the
// configured overrides applied.
func (c *Config) Quirks() cpu.Quirks {
	return c.Emulation.Quirks.Apply(cpu.DefaultQuirks(c.Variant()))
}

// Palette returns the parsed display colors.
func (c *Config) Palette() [4]uint32 {
	var colors [4]uint32
	for i, s := range c.Video.Colors {
		colors[i], _ = ParseColor(s)
	}
	return colors
}

// Keymap returns the validated keypad layout.
func (c *Config) Keymap() [input.NumKeys]string {
	if len(c.Input.Keys) == 0 {
		return input.DefaultLayout()
	}
	layout, err := input.ParseLayout(c.Input.Keys)
	if err != nil {
		return input.DefaultLayout()
	}
	return layout
}

// IsLoaded returns whether the configuration was loaded from a file.
func (c *Config) IsLoaded() bool {
	return c.loaded
}

// ParseColor parses an RRGGBB hex string into a packed 0x00RRGGBB value.
// An optional leading "#" or "0x" is accepted.
func ParseColor(s string) (uint32, error) {
	t := strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x")
	if len(t) != 6 {
		return 0, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(t, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field '%s' with value '%v': %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
