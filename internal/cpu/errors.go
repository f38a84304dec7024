package cpu

import "fmt"

// IllegalOpcode reports a bit pattern the decoder does not recognize for
// the active variant. The engine never silently skips one; the caller
// decides whether to halt or continue.
type IllegalOpcode struct {
	Opcode  uint16
	PC      uint16
	Variant Variant
}

func (e *IllegalOpcode) Error() string {
	return fmt.Sprintf("illegal opcode 0x%04X at 0x%04X (%s)", e.Opcode, e.PC, e.Variant)
}

// StackOverflow reports a CALL past the configured stack depth.
type StackOverflow struct {
	PC    uint16
	Depth int
}

func (e *StackOverflow) Error() string {
	return fmt.Sprintf("stack overflow at 0x%04X (depth %d)", e.PC, e.Depth)
}

// StackUnderflow reports a RET with no frame to return to.
type StackUnderflow struct {
	PC uint16
}

func (e *StackUnderflow) Error() string {
	return fmt.Sprintf("stack underflow at 0x%04X", e.PC)
}
