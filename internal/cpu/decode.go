package cpu

// Op enumerates every instruction variant the execute switch handles.
// Decode maps a raw 16-bit word to exactly one Op with its operand
// fields extracted, so execution never re-parses bit patterns.
type Op int

const (
	OpClear Op = iota
	OpReturn
	OpScrollDown
	OpScrollUp
	OpScrollRight
	OpScrollLeft
	OpExit
	OpLoresMode
	OpHiresMode
	OpJump
	OpCall
	OpSkipEqImm
	OpSkipNeImm
	OpSkipEqReg
	OpSkipNeReg
	OpSaveRange
	OpLoadRange
	OpLoadImm
	OpAddImm
	OpMove
	OpOr
	OpAnd
	OpXor
	OpAdd
	OpSub
	OpShiftRight
	OpSubN
	OpShiftLeft
	OpLoadI
	OpJumpOffset
	OpRandom
	OpDraw
	OpSkipKeyPressed
	OpSkipKeyNotPressed
	OpLoadILong
	OpSelectPlanes
	OpLoadAudioPattern
	OpReadDelay
	OpWaitKey
	OpSetDelay
	OpSetSound
	OpAddI
	OpFontChar
	OpBigFontChar
	OpStoreBCD
	OpStoreRegs
	OpLoadRegs
	OpStoreFlags
	OpLoadFlags
	OpSetPitch
)

// Instruction is a decoded opcode with its operand fields.
type Instruction struct {
	Op   Op
	X    uint8  // second nibble, usually a register index
	Y    uint8  // third nibble, usually a register index
	N    uint8  // fourth nibble
	NN   uint8  // low byte
	NNN  uint16 // low 12 bits
	Word uint16 // the raw opcode, kept for error reporting
}

// Decode maps a raw big-endian word to an instruction for the given
// variant. Patterns outside the variant's instruction set decode to an
// *IllegalOpcode error (with the PC left for the caller to fill in).
func Decode(word uint16, v Variant) (Instruction, error) {
	in := Instruction{
		X:    uint8(word >> 8 & 0xF),
		Y:    uint8(word >> 4 & 0xF),
		N:    uint8(word & 0xF),
		NN:   uint8(word & 0xFF),
		NNN:  word & 0xFFF,
		Word: word,
	}

	illegal := func() (Instruction, error) {
		return in, &IllegalOpcode{Opcode: word, Variant: v}
	}
	requires := func(op Op, min Variant) (Instruction, error) {
		if v < min {
			return illegal()
		}
		in.Op = op
		return in, nil
	}
	ok := func(op Op) (Instruction, error) {
		in.Op = op
		return in, nil
	}

	switch word >> 12 {
	case 0x0:
		switch {
		case word == 0x00E0:
			return ok(OpClear)
		case word == 0x00EE:
			return ok(OpReturn)
		case word&0xFFF0 == 0x00C0:
			return requires(OpScrollDown, SuperChip8)
		case word&0xFFF0 == 0x00D0:
			return requires(OpScrollUp, XOChip)
		case word == 0x00FB:
			return requires(OpScrollRight, SuperChip8)
		case word == 0x00FC:
			return requires(OpScrollLeft, SuperChip8)
		case word == 0x00FD:
			return requires(OpExit, SuperChip8)
		case word == 0x00FE:
			return requires(OpLoresMode, SuperChip8)
		case word == 0x00FF:
			return requires(OpHiresMode, SuperChip8)
		}
	case 0x1:
		return ok(OpJump)
	case 0x2:
		return ok(OpCall)
	case 0x3:
		return ok(OpSkipEqImm)
	case 0x4:
		return ok(OpSkipNeImm)
	case 0x5:
		switch in.N {
		case 0x0:
			return ok(OpSkipEqReg)
		case 0x2:
			return requires(OpSaveRange, XOChip)
		case 0x3:
			return requires(OpLoadRange, XOChip)
		}
	case 0x6:
		return ok(OpLoadImm)
	case 0x7:
		return ok(OpAddImm)
	case 0x8:
		switch in.N {
		case 0x0:
			return ok(OpMove)
		case 0x1:
			return ok(OpOr)
		case 0x2:
			return ok(OpAnd)
		case 0x3:
			return ok(OpXor)
		case 0x4:
			return ok(OpAdd)
		case 0x5:
			return ok(OpSub)
		case 0x6:
			return ok(OpShiftRight)
		case 0x7:
			return ok(OpSubN)
		case 0xE:
			return ok(OpShiftLeft)
		}
	case 0x9:
		if in.N == 0x0 {
			return ok(OpSkipNeReg)
		}
	case 0xA:
		return ok(OpLoadI)
	case 0xB:
		return ok(OpJumpOffset)
	case 0xC:
		return ok(OpRandom)
	case 0xD:
		if in.N == 0 && v == Chip8 {
			// 16x16 sprites need Super-CHIP8 or later
			return illegal()
		}
		return ok(OpDraw)
	case 0xE:
		switch in.NN {
		case 0x9E:
			return ok(OpSkipKeyPressed)
		case 0xA1:
			return ok(OpSkipKeyNotPressed)
		}
	case 0xF:
		switch in.NN {
		case 0x00:
			if word == 0xF000 {
				return requires(OpLoadILong, XOChip)
			}
		case 0x01:
			return requires(OpSelectPlanes, XOChip)
		case 0x02:
			if word == 0xF002 {
				return requires(OpLoadAudioPattern, XOChip)
			}
		case 0x07:
			return ok(OpReadDelay)
		case 0x0A:
			return ok(OpWaitKey)
		case 0x15:
			return ok(OpSetDelay)
		case 0x18:
			return ok(OpSetSound)
		case 0x1E:
			return ok(OpAddI)
		case 0x29:
			return ok(OpFontChar)
		case 0x30:
			return requires(OpBigFontChar, SuperChip8)
		case 0x33:
			return ok(OpStoreBCD)
		case 0x3A:
			return requires(OpSetPitch, XOChip)
		case 0x55:
			return ok(OpStoreRegs)
		case 0x65:
			return ok(OpLoadRegs)
		case 0x75:
			return requires(OpStoreFlags, SuperChip8)
		case 0x85:
			return requires(OpLoadFlags, SuperChip8)
		}
	}
	return illegal()
}
