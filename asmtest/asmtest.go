// Package asmtest is a small in-memory assembler used only by tests: it
// writes opcode bytes directly into a memory.Bank the way
// original_source/test/dom6502_test.h's write_ram/a_* helpers build a
// test program, but driven by cpu.Encode instead of a hand-maintained
// per-mnemonic opcode switch.
package asmtest

import (
	"fmt"

	"github.com/domenicomuti/dom6502/cpu"
	"github.com/domenicomuti/dom6502/irq"
	"github.com/domenicomuti/dom6502/memory"
)

// Program is a write cursor over a fresh 64 KiB bank, starting at the
// same 0xC000 load address original_source's test harness uses.
type Program struct {
	Mem *memory.FlatRAM
	pc  uint16
}

// StartAddress is where assembled programs are written and where the
// reset vector points once Build runs.
const StartAddress = uint16(0xC000)

// New returns an empty Program positioned at StartAddress.
func New() *Program {
	return &Program{Mem: memory.NewFlatRAM(nil), pc: StartAddress}
}

// Emit appends one instruction. operand must have zero, one, or two
// bytes depending on the mnemonic/mode's encoded width; a mismatch
// panics immediately since this only ever runs inside test code.
func (p *Program) Emit(mnemonic string, mode cpu.Mode, operand ...uint8) *Program {
	opcode, bytes, ok := cpu.Encode(mnemonic, mode)
	if !ok {
		panic(fmt.Sprintf("asmtest: no opcode for %s/%s", mnemonic, mode))
	}
	if len(operand) != int(bytes)-1 {
		panic(fmt.Sprintf("asmtest: %s/%s wants %d operand byte(s), got %d", mnemonic, mode, bytes-1, len(operand)))
	}
	p.Mem.Write(p.pc, opcode)
	for i, b := range operand {
		p.Mem.Write(p.pc+1+uint16(i), b)
	}
	p.pc += uint16(bytes)
	return p
}

// Word appends a little-endian two-byte operand split, a convenience
// for Emit calls against Absolute/AbsoluteX/AbsoluteY/Indirect modes.
func Word(w uint16) []uint8 {
	return []uint8{uint8(w), uint8(w >> 8)}
}

// Byte sets a single raw byte directly at addr, for poking zero-page
// operands or expected results into memory before a run.
func (p *Program) Byte(addr uint16, val uint8) *Program {
	p.Mem.Write(addr, val)
	return p
}

// Build finalizes the program: writes the reset vector at 0xFFFC to
// point at StartAddress and returns a powered-on Chip ready to Step.
// irqSrc may be nil.
func (p *Program) Build(irqSrc irq.Sender) *cpu.Chip {
	p.Mem.Write(0xFFFC, uint8(StartAddress&0xFF))
	p.Mem.Write(0xFFFD, uint8(StartAddress>>8))
	c, err := cpu.Init(p.Mem, irqSrc)
	if err != nil {
		panic(err)
	}
	return c
}
