// Package cpu implements the fetch-decode-execute engine for the CHIP-8
// family of interpreters (CHIP-8, Super-CHIP8, XO-CHIP).
package cpu

import (
	"errors"
	"fmt"
	"math/bits"
	"math/rand"
	"time"

	"goch8/internal/audio"
	"goch8/internal/display"
	"goch8/internal/memory"
)

// Keys is a snapshot of the 16-key pad; true means held down.
type Keys [16]bool

// DefaultStackDepth is the classical call stack limit. XO-CHIP programs
// may rely on deeper stacks, so the depth is configurable.
const DefaultStackDepth = 16

// Config selects the variant and behavior of a CPU. It is consumed once
// at construction; quirks never change while a ROM runs.
type Config struct {
	Variant    Variant
	Quirks     Quirks
	StackDepth int
	// Seed fixes the random number stream; 0 seeds from the clock.
	Seed int64
}

// CPU holds the register file and drives Memory, Display and the audio
// Pattern through the opcode semantics of the configured variant.
//
// The CPU is not safe for concurrent use: the execution-rate controller
// is its sole caller, and the controller is also the only authority that
// decays the delay and sound timers.
type CPU struct {
	mem     *memory.Memory
	disp    *display.Display
	pattern *audio.Pattern

	variant Variant
	quirks  Quirks

	v     [16]uint8
	i     uint16
	pc    uint16
	stack []uint16
	dt    uint8
	st    uint8

	// flags are the persistent user-flag registers (Fx75/Fx85).
	flags [16]uint8

	// waiting marks the suspended AwaitingKeypress state: the CPU does
	// not fetch until a key-released edge stores the key in waitReg.
	waiting  bool
	waitReg  uint8
	prevKeys Keys

	exited     bool
	steps      uint64
	stackDepth int
	rng        *rand.Rand
}

// New creates a CPU over the given memory, display and audio pattern.
func New(mem *memory.Memory, disp *display.Display, pattern *audio.Pattern, cfg Config) *CPU {
	depth := cfg.StackDepth
	if depth <= 0 {
		depth = DefaultStackDepth
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &CPU{
		mem:        mem,
		disp:       disp,
		pattern:    pattern,
		variant:    cfg.Variant,
		quirks:     cfg.Quirks,
		pc:         memory.ProgramStart,
		stack:      make([]uint16, 0, depth),
		stackDepth: depth,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Reset returns the register file to its power-up state. Memory and
// display contents are left alone; the application reloads those.
func (c *CPU) Reset() {
	c.v = [16]uint8{}
	c.i = 0
	c.pc = memory.ProgramStart
	c.stack = c.stack[:0]
	c.dt = 0
	c.st = 0
	c.waiting = false
	c.exited = false
	c.steps = 0
}

// Variant returns the active variant tag.
func (c *CPU) Variant() Variant { return c.variant }

// Waiting reports whether the CPU is suspended in AwaitingKeypress.
func (c *CPU) Waiting() bool { return c.waiting }

// Exited reports whether the program executed the exit opcode.
func (c *CPU) Exited() bool { return c.exited }

// Steps returns the number of instructions executed.
func (c *CPU) Steps() uint64 { return c.steps }

// PC returns the current program counter.
func (c *CPU) PC() uint16 { return c.pc }

// DelayTimer returns the delay timer register.
func (c *CPU) DelayTimer() uint8 { return c.dt }

// SoundTimer returns the sound timer register.
func (c *CPU) SoundTimer() uint8 { return c.st }

// SoundActive reports whether audio output should be playing.
func (c *CPU) SoundActive() bool { return c.st > 0 }

// TickTimers decrements the delay and sound timers by n 60 Hz ticks,
// saturating at zero. Only the execution-rate controller calls this.
func (c *CPU) TickTimers(n int) {
	if n <= 0 {
		return
	}
	if int(c.dt) <= n {
		c.dt = 0
	} else {
		c.dt -= uint8(n)
	}
	if int(c.st) <= n {
		c.st = 0
	} else {
		c.st -= uint8(n)
	}
}

// Step fetches, decodes and executes one instruction. In the
// AwaitingKeypress state it only watches for a key-released edge and
// otherwise leaves all state untouched. Errors report the fault and
// leave the CPU as of just before the faulting instruction, so the
// caller may halt, reset, or continue past it.
func (c *CPU) Step(keys Keys) error {
	if c.exited {
		return nil
	}
	if c.waiting {
		c.deliverKey(keys)
		return nil
	}

	word, err := c.mem.FetchWord(c.pc)
	if err != nil {
		return err
	}
	in, err := Decode(word, c.variant)
	if err != nil {
		var illegal *IllegalOpcode
		if errors.As(err, &illegal) {
			illegal.PC = c.pc
		}
		return err
	}
	if err := c.execute(in, keys); err != nil {
		return err
	}
	c.prevKeys = keys
	c.steps++
	return nil
}

// deliverKey finishes a wait-for-key: the first key observed going from
// down to up is stored in the target register and execution resumes.
func (c *CPU) deliverKey(keys Keys) {
	for k := 0; k < 16; k++ {
		if c.prevKeys[k] && !keys[k] {
			c.v[c.waitReg] = uint8(k)
			c.waiting = false
			break
		}
	}
	c.prevKeys = keys
}

// skipTarget returns the address after skipping one instruction starting
// at addr. On XO-CHIP the four-byte long load-I counts as one
// instruction.
func (c *CPU) skipTarget(addr uint16) uint16 {
	if c.variant == XOChip {
		if w, err := c.mem.FetchWord(addr); err == nil && w == 0xF000 {
			return addr + 4
		}
	}
	return addr + 2
}

func (c *CPU) execute(in Instruction, keys Keys) error {
	x, y := in.X, in.Y
	next := c.pc + 2

	switch in.Op {
	case OpClear:
		c.disp.Clear()

	case OpReturn:
		if len(c.stack) == 0 {
			return &StackUnderflow{PC: c.pc}
		}
		next = c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]

	case OpScrollDown:
		c.disp.ScrollDown(in.N)
	case OpScrollUp:
		c.disp.ScrollUp(in.N)
	case OpScrollRight:
		c.disp.ScrollRight()
	case OpScrollLeft:
		c.disp.ScrollLeft()

	case OpExit:
		c.exited = true

	case OpLoresMode:
		c.disp.SetHires(false)
	case OpHiresMode:
		c.disp.SetHires(true)

	case OpJump:
		next = in.NNN

	case OpCall:
		if len(c.stack) >= c.stackDepth {
			return &StackOverflow{PC: c.pc, Depth: c.stackDepth}
		}
		c.stack = append(c.stack, c.pc+2)
		next = in.NNN

	case OpSkipEqImm:
		if c.v[x] == in.NN {
			next = c.skipTarget(next)
		}
	case OpSkipNeImm:
		if c.v[x] != in.NN {
			next = c.skipTarget(next)
		}
	case OpSkipEqReg:
		if c.v[x] == c.v[y] {
			next = c.skipTarget(next)
		}
	case OpSkipNeReg:
		if c.v[x] != c.v[y] {
			next = c.skipTarget(next)
		}

	case OpSaveRange:
		block := make([]uint8, 0, 16)
		for _, r := range rangeRegs(x, y) {
			block = append(block, c.v[r])
		}
		if err := c.mem.WriteBlock(uint32(c.i), block); err != nil {
			return err
		}
	case OpLoadRange:
		regs := rangeRegs(x, y)
		block, err := c.mem.ReadBlock(uint32(c.i), len(regs))
		if err != nil {
			return err
		}
		for i, r := range regs {
			c.v[r] = block[i]
		}

	case OpLoadImm:
		c.v[x] = in.NN
	case OpAddImm:
		c.v[x] += in.NN

	case OpMove:
		c.v[x] = c.v[y]
	case OpOr:
		c.v[x] |= c.v[y]
		c.resetVFOnLogic()
	case OpAnd:
		c.v[x] &= c.v[y]
		c.resetVFOnLogic()
	case OpXor:
		c.v[x] ^= c.v[y]
		c.resetVFOnLogic()

	case OpAdd:
		sum := uint16(c.v[x]) + uint16(c.v[y])
		c.v[x] = uint8(sum)
		c.v[0xF] = b2i(sum > 0xFF)
	case OpSub:
		noBorrow := c.v[x] >= c.v[y]
		c.v[x] -= c.v[y]
		c.v[0xF] = b2i(noBorrow)
	case OpSubN:
		noBorrow := c.v[y] >= c.v[x]
		c.v[x] = c.v[y] - c.v[x]
		c.v[0xF] = b2i(noBorrow)

	case OpShiftRight:
		src := c.shiftSource(x, y)
		bit := src & 0x1
		c.v[x] = src >> 1
		c.v[0xF] = bit
	case OpShiftLeft:
		src := c.shiftSource(x, y)
		bit := src >> 7
		c.v[x] = src << 1
		c.v[0xF] = bit

	case OpLoadI:
		c.i = in.NNN

	case OpJumpOffset:
		if c.quirks.JumpOffsetUsesVX {
			next = in.NNN + uint16(c.v[x])
		} else {
			next = in.NNN + uint16(c.v[0])
		}

	case OpRandom:
		c.v[x] = uint8(c.rng.Intn(256)) & in.NN

	case OpDraw:
		if err := c.draw(in); err != nil {
			return err
		}

	case OpSkipKeyPressed:
		if keys[c.v[x]&0xF] {
			next = c.skipTarget(next)
		}
	case OpSkipKeyNotPressed:
		if !keys[c.v[x]&0xF] {
			next = c.skipTarget(next)
		}

	case OpLoadILong:
		operand, err := c.mem.FetchWord(c.pc + 2)
		if err != nil {
			return err
		}
		c.i = operand
		next = c.pc + 4

	case OpSelectPlanes:
		c.disp.SelectPlanes(x)

	case OpLoadAudioPattern:
		block, err := c.mem.ReadBlock(uint32(c.i), audio.PatternBytes)
		if err != nil {
			return err
		}
		var data [audio.PatternBytes]uint8
		copy(data[:], block)
		c.pattern.Load(data)

	case OpReadDelay:
		c.v[x] = c.dt

	case OpWaitKey:
		c.waiting = true
		c.waitReg = x

	case OpSetDelay:
		c.dt = c.v[x]
	case OpSetSound:
		c.st = c.v[x]

	case OpAddI:
		c.i += uint16(c.v[x])

	case OpFontChar:
		c.i = c.mem.SmallFontAddr(c.v[x])
	case OpBigFontChar:
		c.i = c.mem.BigFontAddr(c.v[x])

	case OpStoreBCD:
		vx := c.v[x]
		bcd := []uint8{vx / 100, vx / 10 % 10, vx % 10}
		if err := c.mem.WriteBlock(uint32(c.i), bcd); err != nil {
			return err
		}

	case OpStoreRegs:
		if err := c.mem.WriteBlock(uint32(c.i), c.v[:int(x)+1]); err != nil {
			return err
		}
		if c.quirks.LoadStoreIncrementsI {
			c.i += uint16(x) + 1
		}
	case OpLoadRegs:
		block, err := c.mem.ReadBlock(uint32(c.i), int(x)+1)
		if err != nil {
			return err
		}
		copy(c.v[:int(x)+1], block)
		if c.quirks.LoadStoreIncrementsI {
			c.i += uint16(x) + 1
		}

	case OpStoreFlags:
		copy(c.flags[:int(x)+1], c.v[:int(x)+1])
	case OpLoadFlags:
		copy(c.v[:int(x)+1], c.flags[:int(x)+1])

	case OpSetPitch:
		c.pattern.SetPitch(c.v[x])

	default:
		return fmt.Errorf("unhandled instruction %d (opcode 0x%04X)", in.Op, in.Word)
	}

	c.pc = next
	return nil
}

// draw reads the sprite bytes at I and XORs them onto the display. When
// both planes are selected the sprite data doubles, one copy per plane.
func (c *CPU) draw(in Instruction) error {
	planes := bits.OnesCount8(c.disp.ActivePlanes())
	var collided bool
	if in.N == 0 {
		sprite, err := c.mem.ReadBlock(uint32(c.i), 32*planes)
		if err != nil {
			return err
		}
		collided = c.disp.DrawSprite16(sprite, c.v[in.X], c.v[in.Y])
	} else {
		sprite, err := c.mem.ReadBlock(uint32(c.i), int(in.N)*planes)
		if err != nil {
			return err
		}
		collided = c.disp.DrawSprite(sprite, c.v[in.X], c.v[in.Y])
	}
	c.v[0xF] = b2i(collided)
	return nil
}

func (c *CPU) shiftSource(x, y uint8) uint8 {
	if c.quirks.ShiftUsesVY {
		return c.v[y]
	}
	return c.v[x]
}

func (c *CPU) resetVFOnLogic() {
	if c.quirks.ResetVFOnLogic {
		c.v[0xF] = 0
	}
}

// rangeRegs lists the registers of a 5xy2/5xy3 range in storage order;
// a descending range (x > y) stores in descending order.
func rangeRegs(x, y uint8) []int {
	regs := make([]int, 0, 16)
	if x <= y {
		for r := int(x); r <= int(y); r++ {
			regs = append(regs, r)
		}
	} else {
		for r := int(x); r >= int(y); r-- {
			regs = append(regs, r)
		}
	}
	return regs
}

func b2i(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
