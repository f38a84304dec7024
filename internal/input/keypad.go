// Package input models the 16-key hexadecimal keypad.
package input

import (
	"fmt"
	"strings"

	"goch8/internal/cpu"
)

// NumKeys is the size of the hexadecimal keypad.
const NumKeys = 16

// Keypad tracks the held state of the 16 keys. Backends write into it
// once per host frame and the CPU reads an immutable snapshot.
type Keypad struct {
	keys cpu.Keys
}

// New creates a released keypad.
func New() *Keypad {
	return &Keypad{}
}

// Set marks a single key as held or released.
func (k *Keypad) Set(key uint8, held bool) {
	k.keys[key&0xF] = held
}

// SetAll replaces the whole keypad state.
func (k *Keypad) SetAll(keys cpu.Keys) {
	k.keys = keys
}

// Snapshot returns the current key state by value.
func (k *Keypad) Snapshot() cpu.Keys {
	return k.keys
}

// Reset releases every key.
func (k *Keypad) Reset() {
	k.keys = cpu.Keys{}
}

// DefaultLayout maps keypad keys 0..F to host key names, using the
// classic 4x4 block on the left of a QWERTY keyboard:
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
func DefaultLayout() [NumKeys]string {
	return [NumKeys]string{
		0x0: "X",
		0x1: "1",
		0x2: "2",
		0x3: "3",
		0x4: "Q",
		0x5: "W",
		0x6: "E",
		0x7: "A",
		0x8: "S",
		0x9: "D",
		0xA: "Z",
		0xB: "C",
		0xC: "4",
		0xD: "R",
		0xE: "F",
		0xF: "V",
	}
}

// ParseLayout validates a 16-entry key name list from the configuration.
// Names are single characters A-Z or 0-9, compared case-insensitively.
func ParseLayout(names []string) ([NumKeys]string, error) {
	var layout [NumKeys]string
	if len(names) != NumKeys {
		return layout, fmt.Errorf("keypad layout needs %d keys, got %d", NumKeys, len(names))
	}
	seen := map[string]int{}
	for i, name := range names {
		n := strings.ToUpper(strings.TrimSpace(name))
		if len(n) != 1 || !(n[0] >= 'A' && n[0] <= 'Z' || n[0] >= '0' && n[0] <= '9') {
			return layout, fmt.Errorf("keypad key %X: invalid key name %q", i, name)
		}
		if prev, dup := seen[n]; dup {
			return layout, fmt.Errorf("keypad key %X: key %q already bound to %X", i, n, prev)
		}
		seen[n] = i
		layout[i] = n
	}
	return layout, nil
}
