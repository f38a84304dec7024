package app

import (
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"goch8/internal/cpu"
)

func TestDefaultConfigIsValid(t *testing.T) {
	config := NewConfig()
	assert.NoError(t, config.Validate())
	assert.Equal(t, cpu.Chip8, config.Variant())
}

func TestConfigRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goch8.json")

	config := NewConfig()
	config.Emulation.Variant = "xochip"
	config.Emulation.IPSLimit = 50000
	config.Video.Colors[0] = "123456"
	assert.NoError(t, config.SaveToFile(path))

	loaded := NewConfig()
	assert.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "xochip", loaded.Emulation.Variant)
	assert.Equal(t, 50000.0, loaded.Emulation.IPSLimit)
	assert.Equal(t, "123456", loaded.Video.Colors[0])
	assert.Equal(t, true, loaded.IsLoaded())
}

func TestLoadMissingFileCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.json")

	config := NewConfig()
	assert.NoError(t, config.LoadFromFile(path))

	// file now exists and loads cleanly
	again := NewConfig()
	assert.NoError(t, again.LoadFromFile(path))
	assert.Equal(t, true, again.IsLoaded())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown variant", func(c *Config) { c.Emulation.Variant = "chip16" }},
		{"negative ips", func(c *Config) { c.Emulation.IPSLimit = -1 }},
		{"negative stack depth", func(c *Config) { c.Emulation.StackDepth = -4 }},
		{"bad color", func(c *Config) { c.Video.Colors[2] = "red" }},
		{"excessive scale", func(c *Config) { c.Video.Scale = 100 }},
		{"zero scale", func(c *Config) { c.Video.Scale = 0 }},
		{"volume above 1", func(c *Config) { c.Audio.Volume = 1.5 }},
		{"short keymap", func(c *Config) { c.Input.Keys = []string{"A", "B"} }},
		{"duplicate keys", func(c *Config) {
			c.Input.Keys[0] = "Q"
			c.Input.Keys[4] = "Q"
		}},
	}
	for _, tt := range tests {
		config := NewConfig()
		tt.mutate(config)
		if err := config.Validate(); err == nil {
			t.Errorf("%s: Validate should fail", tt.name)
		}
	}
}

func TestQuirkOverrides(t *testing.T) {
	config := NewConfig()
	config.Emulation.Variant = "schip"
	off := false
	on := true
	config.Emulation.Quirks.ClipSprites = &off
	config.Emulation.Quirks.ShiftUsesVY = &on

	quirks := config.Quirks()
	assert.Equal(t, false, quirks.ClipSprites)
	assert.Equal(t, true, quirks.ShiftUsesVY)
	// untouched fields keep the schip defaults
	assert.Equal(t, true, quirks.JumpOffsetUsesVX)
	assert.Equal(t, false, quirks.LoadStoreIncrementsI)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input string
		want  uint32
		err   bool
	}{
		{"AA4400", 0x00AA4400, false},
		{"#FFAA00", 0x00FFAA00, false},
		{"0x000000", 0, false},
		{"aaaaaa", 0x00AAAAAA, false},
		{"12345", 0, true},
		{"GGGGGG", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("ParseColor(%q) should fail", tt.input)
			}
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestPalette(t *testing.T) {
	config := NewConfig()
	colors := config.Palette()
	assert.Equal(t, uint32(0x00AA4400), colors[0])
	assert.Equal(t, uint32(0x00FFAA00), colors[1])
	assert.Equal(t, uint32(0x00AAAAAA), colors[2])
	assert.Equal(t, uint32(0x00000000), colors[3])
}
