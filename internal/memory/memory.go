// Package memory implements the flat addressable store for the CHIP-8 family.
package memory

import "fmt"

// Memory layout constants
const (
	// ProgramStart is the address where program images are loaded
	ProgramStart = 0x200
	// SmallFontStart is the base address of the hexadecimal glyph sprites
	SmallFontStart = 0x000
	// BigFontStart is the base address of the Super-CHIP8 large glyph sprites
	BigFontStart = 0x050
	// SmallFontHeight is the height in bytes of one small glyph
	SmallFontHeight = 5
	// BigFontHeight is the height in bytes of one large glyph
	BigFontHeight = 10

	// Size4K is the classic CHIP-8 / Super-CHIP8 memory size
	Size4K = 4096
	// Size64K is the XO-CHIP extended memory size
	Size64K = 65536
)

// Fault represents an out-of-range memory access under a non-wrapping
// configuration. It carries the offending address for error reporting.
type Fault struct {
	Address uint32
	Size    int
}

func (e *Fault) Error() string {
	return fmt.Sprintf("memory fault: address 0x%04X out of range (size %d)", e.Address, e.Size)
}

// InvalidROM indicates a program image that does not fit into the
// addressable memory above the program origin.
type InvalidROM struct {
	ROMSize int
	MaxSize int
}

func (e *InvalidROM) Error() string {
	return fmt.Sprintf("invalid ROM: %d bytes exceed the %d bytes available at 0x%03X", e.ROMSize, e.MaxSize, ProgramStart)
}

// Memory represents the flat byte store shared by the CPU, the display
// opcodes and the audio pattern opcode. Addresses are taken modulo the
// configured size when wrapping is enabled, otherwise out-of-range
// accesses return a *Fault.
type Memory struct {
	data []uint8
	wrap bool
}

// New creates a memory of the given size with the font sprites installed.
// The size must be a power of two (4096 or 65536 for the known variants).
func New(size int, wrap bool) *Memory {
	m := &Memory{
		data: make([]uint8, size),
		wrap: wrap,
	}
	copy(m.data[SmallFontStart:], smallFont[:])
	copy(m.data[BigFontStart:], bigFont[:])
	return m
}

// Size returns the addressable memory size in bytes.
func (m *Memory) Size() int {
	return len(m.data)
}

// resolve applies the wrap policy to an address. The address is 32-bit so
// that callers can pass unreduced sums (I + offset) without overflow.
func (m *Memory) resolve(addr uint32) (int, error) {
	if int(addr) < len(m.data) {
		return int(addr), nil
	}
	if m.wrap {
		return int(addr) % len(m.data), nil
	}
	return 0, &Fault{Address: addr, Size: len(m.data)}
}

// Read reads a single byte.
func (m *Memory) Read(addr uint32) (uint8, error) {
	i, err := m.resolve(addr)
	if err != nil {
		return 0, err
	}
	return m.data[i], nil
}

// Write writes a single byte.
func (m *Memory) Write(addr uint32, value uint8) error {
	i, err := m.resolve(addr)
	if err != nil {
		return err
	}
	m.data[i] = value
	return nil
}

// ReadWord reads two bytes big-endian, as the CPU fetch does.
func (m *Memory) ReadWord(addr uint32) (uint16, error) {
	hi, err := m.Read(addr)
	if err != nil {
		return 0, err
	}
	lo, err := m.Read(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// FetchWord reads the two instruction bytes at the program counter.
// Unlike ReadWord it never wraps: a program counter past the end of
// memory is a fatal fault regardless of the wrap policy.
func (m *Memory) FetchWord(pc uint16) (uint16, error) {
	if int(pc)+1 >= len(m.data) {
		return 0, &Fault{Address: uint32(pc), Size: len(m.data)}
	}
	return uint16(m.data[pc])<<8 | uint16(m.data[pc+1]), nil
}

// ReadBlock reads n bytes starting at addr into a fresh slice.
func (m *Memory) ReadBlock(addr uint32, n int) ([]uint8, error) {
	block := make([]uint8, n)
	for i := 0; i < n; i++ {
		b, err := m.Read(addr + uint32(i))
		if err != nil {
			return nil, err
		}
		block[i] = b
	}
	return block, nil
}

// WriteBlock writes the given bytes starting at addr.
func (m *Memory) WriteBlock(addr uint32, block []uint8) error {
	// Validate the whole range first so a fault leaves memory untouched.
	if !m.wrap && int(addr)+len(block) > len(m.data) {
		return &Fault{Address: addr + uint32(len(block)) - 1, Size: len(m.data)}
	}
	for i, b := range block {
		if err := m.Write(addr+uint32(i), b); err != nil {
			return err
		}
	}
	return nil
}

// LoadROM writes a program image at the program origin. Images that do
// not fit into memory are rejected and memory is left unchanged.
func (m *Memory) LoadROM(rom []uint8) error {
	maxSize := len(m.data) - ProgramStart
	if len(rom) > maxSize {
		return &InvalidROM{ROMSize: len(rom), MaxSize: maxSize}
	}
	copy(m.data[ProgramStart:], rom)
	return nil
}

// SmallFontAddr returns the address of the 5-byte sprite for a hex digit.
func (m *Memory) SmallFontAddr(digit uint8) uint16 {
	return SmallFontStart + uint16(digit&0xF)*SmallFontHeight
}

// BigFontAddr returns the address of the 10-byte Super-CHIP8 sprite for a
// decimal digit. The big font only has glyphs 0-9, so larger values are
// reduced modulo 10 to keep the address inside the table.
func (m *Memory) BigFontAddr(digit uint8) uint16 {
	return BigFontStart + uint16(digit%10)*BigFontHeight
}
