// Package disassemble formats the instruction at a given PC as a
// human-readable line, for the monitor TUI and debug logging. It never
// follows control flow (a JMP target is shown, not chased) and reads
// through the same opcode table cpu.Step dispatches from via
// cpu.Lookup, so its output can never drift from what actually
// executes.
package disassemble

import (
	"fmt"

	"github.com/domenicomuti/dom6502/cpu"
	"github.com/domenicomuti/dom6502/memory"
)

// Step disassembles the instruction at pc and returns its text plus the
// byte count the caller should advance by to reach the next
// instruction. For every defined opcode it reads the two bytes after pc,
// whatever the instruction's length; those addresses wrap at 0xFFFF.
func Step(mem memory.Bank, pc uint16) (string, int) {
	op := mem.Read(pc)
	desc := cpu.Lookup(op)
	if desc.Undefined() {
		return fmt.Sprintf("%.4X %.2X      HLT", pc, op), 1
	}

	o1 := mem.Read(pc + 1)
	o2 := mem.Read(pc + 2)

	var operand string
	switch desc.Mode {
	case cpu.ModeAccumulator:
		operand = "A"
	case cpu.ModeImplied:
		operand = ""
	case cpu.ModeImmediate:
		operand = fmt.Sprintf("#$%.2X", o1)
	case cpu.ModeZeroPage:
		operand = fmt.Sprintf("$%.2X", o1)
	case cpu.ModeZeroPageX:
		operand = fmt.Sprintf("$%.2X,X", o1)
	case cpu.ModeZeroPageY:
		operand = fmt.Sprintf("$%.2X,Y", o1)
	case cpu.ModeAbsolute:
		operand = fmt.Sprintf("$%.2X%.2X", o2, o1)
	case cpu.ModeAbsoluteX:
		operand = fmt.Sprintf("$%.2X%.2X,X", o2, o1)
	case cpu.ModeAbsoluteY:
		operand = fmt.Sprintf("$%.2X%.2X,Y", o2, o1)
	case cpu.ModeIndirect:
		operand = fmt.Sprintf("($%.2X%.2X)", o2, o1)
	case cpu.ModeIndirectX:
		operand = fmt.Sprintf("($%.2X,X)", o1)
	case cpu.ModeIndirectY:
		operand = fmt.Sprintf("($%.2X),Y", o1)
	case cpu.ModeRelative:
		target := uint16(int32(pc) + 2 + int32(int8(o1)))
		operand = fmt.Sprintf("$%.2X ($%.4X)", o1, target)
	}

	raw := fmt.Sprintf("%.2X", op)
	for i := uint8(1); i < desc.Bytes; i++ {
		raw += fmt.Sprintf(" %.2X", mem.Read(pc+uint16(i)))
	}

	line := fmt.Sprintf("%.4X %-8s %s %s", pc, raw, desc.Mnemonic, operand)
	return line, int(desc.Bytes)
}
