package cpu

import (
	"errors"
	"testing"
)

func TestDecodeOperandFields(t *testing.T) {
	in, err := Decode(0xD123, SuperChip8)
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != OpDraw {
		t.Errorf("op = %d, want OpDraw", in.Op)
	}
	if in.X != 1 || in.Y != 2 || in.N != 3 {
		t.Errorf("X,Y,N = %d,%d,%d, want 1,2,3", in.X, in.Y, in.N)
	}
	if in.NN != 0x23 || in.NNN != 0x123 || in.Word != 0xD123 {
		t.Errorf("NN,NNN,Word = 0x%02X,0x%03X,0x%04X", in.NN, in.NNN, in.Word)
	}
}

func TestDecodeVariantGating(t *testing.T) {
	tests := []struct {
		name    string
		word    uint16
		variant Variant
		op      Op
		illegal bool
	}{
		{"clear on chip8", 0x00E0, Chip8, OpClear, false},
		{"scroll down needs schip", 0x00C4, Chip8, 0, true},
		{"scroll down on schip", 0x00C4, SuperChip8, OpScrollDown, false},
		{"scroll up needs xochip", 0x00D4, SuperChip8, 0, true},
		{"scroll up on xochip", 0x00D4, XOChip, OpScrollUp, false},
		{"exit needs schip", 0x00FD, Chip8, 0, true},
		{"exit on schip", 0x00FD, SuperChip8, OpExit, false},
		{"hires on schip", 0x00FF, SuperChip8, OpHiresMode, false},
		{"16x16 draw illegal on chip8", 0xD120, Chip8, 0, true},
		{"16x16 draw on schip", 0xD120, SuperChip8, OpDraw, false},
		{"save range needs xochip", 0x5122, SuperChip8, 0, true},
		{"save range on xochip", 0x5122, XOChip, OpSaveRange, false},
		{"load range on xochip", 0x5123, XOChip, OpLoadRange, false},
		{"long load-i needs xochip", 0xF000, SuperChip8, 0, true},
		{"long load-i on xochip", 0xF000, XOChip, OpLoadILong, false},
		{"select planes on xochip", 0xF101, XOChip, OpSelectPlanes, false},
		{"audio pattern on xochip", 0xF002, XOChip, OpLoadAudioPattern, false},
		{"pitch needs xochip", 0xF13A, SuperChip8, 0, true},
		{"pitch on xochip", 0xF13A, XOChip, OpSetPitch, false},
		{"big font needs schip", 0xF130, Chip8, 0, true},
		{"store flags on schip", 0xF175, SuperChip8, OpStoreFlags, false},
		{"load flags on schip", 0xF185, SuperChip8, OpLoadFlags, false},
		{"unknown 8xyF", 0x812F, XOChip, 0, true},
		{"unknown 5xy1", 0x5121, XOChip, 0, true},
		{"unknown E pattern", 0xE1FF, XOChip, 0, true},
		{"skip key pressed", 0xE19E, Chip8, OpSkipKeyPressed, false},
		{"bcd", 0xF533, Chip8, OpStoreBCD, false},
	}

	for _, tt := range tests {
		in, err := Decode(tt.word, tt.variant)
		if tt.illegal {
			var illegal *IllegalOpcode
			if !errors.As(err, &illegal) {
				t.Errorf("%s: Decode(0x%04X, %s) err = %v, want *IllegalOpcode",
					tt.name, tt.word, tt.variant, err)
				continue
			}
			if illegal.Opcode != tt.word || illegal.Variant != tt.variant {
				t.Errorf("%s: error carries opcode 0x%04X variant %s",
					tt.name, illegal.Opcode, illegal.Variant)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: Decode(0x%04X, %s): %v", tt.name, tt.word, tt.variant, err)
			continue
		}
		if in.Op != tt.op {
			t.Errorf("%s: op = %d, want %d", tt.name, in.Op, tt.op)
		}
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		input string
		want  Variant
		err   bool
	}{
		{"chip8", Chip8, false},
		{"CHIP-8", Chip8, false},
		{"schip", SuperChip8, false},
		{"superchip", SuperChip8, false},
		{"xochip", XOChip, false},
		{"XO-CHIP", XOChip, false},
		{"nochip", Chip8, true},
	}
	for _, tt := range tests {
		got, err := ParseVariant(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("ParseVariant(%q) should fail", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVariant(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVariant(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestDefaultQuirks(t *testing.T) {
	c8 := DefaultQuirks(Chip8)
	if !c8.ShiftUsesVY || !c8.LoadStoreIncrementsI || !c8.ClipSprites || !c8.ResetVFOnLogic {
		t.Errorf("chip8 defaults wrong: %+v", c8)
	}
	sc := DefaultQuirks(SuperChip8)
	if sc.ShiftUsesVY || sc.LoadStoreIncrementsI || !sc.JumpOffsetUsesVX || !sc.ClipSprites {
		t.Errorf("schip defaults wrong: %+v", sc)
	}
	xo := DefaultQuirks(XOChip)
	if !xo.ShiftUsesVY || !xo.LoadStoreIncrementsI || xo.ClipSprites || xo.ResetVFOnLogic {
		t.Errorf("xochip defaults wrong: %+v", xo)
	}
}
