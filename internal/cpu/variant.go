package cpu

import (
	"fmt"
	"strings"

	"goch8/internal/memory"
)

// Variant identifies which member of the CHIP-8 family is emulated. It
// determines the available opcodes, the memory size and the default
// quirk configuration. The constants are ordered so that later variants
// are supersets of earlier ones.
type Variant int

const (
	Chip8 Variant = iota
	SuperChip8
	XOChip
)

func (v Variant) String() string {
	switch v {
	case Chip8:
		return "chip8"
	case SuperChip8:
		return "schip"
	case XOChip:
		return "xochip"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant maps a user-facing name to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "chip8", "chip-8":
		return Chip8, nil
	case "schip", "schip8", "superchip", "super-chip8":
		return SuperChip8, nil
	case "xochip", "xo-chip", "xo":
		return XOChip, nil
	default:
		return Chip8, fmt.Errorf("unknown variant %q (want chip8, schip or xochip)", s)
	}
}

// MemorySize returns the addressable memory size for the variant.
func (v Variant) MemorySize() int {
	if v == XOChip {
		return memory.Size64K
	}
	return memory.Size4K
}

// Quirks groups the documented behavioral divergences between historical
// interpreters. The set is built once at load time from the variant
// defaults plus explicit overrides and never changes while a ROM runs.
type Quirks struct {
	// ShiftUsesVY makes 8xy6/8xyE read VY instead of VX.
	ShiftUsesVY bool
	// LoadStoreIncrementsI makes Fx55/Fx65 leave I past the range.
	LoadStoreIncrementsI bool
	// JumpOffsetUsesVX makes Bnnn index with VX instead of V0.
	JumpOffsetUsesVX bool
	// ClipSprites drops sprite pixels past the edge instead of wrapping.
	ClipSprites bool
	// ResetVFOnLogic zeroes VF after 8xy1/8xy2/8xy3.
	ResetVFOnLogic bool
	// WrapMemory takes I-relative addresses modulo the memory size
	// instead of faulting.
	WrapMemory bool
}

// DefaultQuirks returns the quirk set historical programs for the given
// variant expect.
func DefaultQuirks(v Variant) Quirks {
	switch v {
	case SuperChip8:
		return Quirks{
			ShiftUsesVY:          false,
			LoadStoreIncrementsI: false,
			JumpOffsetUsesVX:     true,
			ClipSprites:          true,
			ResetVFOnLogic:       false,
			WrapMemory:           true,
		}
	case XOChip:
		return Quirks{
			ShiftUsesVY:          true,
			LoadStoreIncrementsI: true,
			JumpOffsetUsesVX:     false,
			ClipSprites:          false,
			ResetVFOnLogic:       false,
			WrapMemory:           true,
		}
	default: // Chip8
		return Quirks{
			ShiftUsesVY:          true,
			LoadStoreIncrementsI: true,
			JumpOffsetUsesVX:     false,
			ClipSprites:          true,
			ResetVFOnLogic:       true,
			WrapMemory:           true,
		}
	}
}
