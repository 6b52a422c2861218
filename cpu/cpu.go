// Package cpu implements the MOS 6502 fetch-decode-execute engine: the
// register file, the ten addressing modes, the documented instruction
// set (including BCD ADC/SBC), the stack discipline, and the IRQ
// latch-and-service protocol. It reads and mutates a flat 64 KiB
// memory.Bank and steps one instruction per Step call, accruing the
// cycle count the pacer needs to keep execution honest to wall clock.
package cpu

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/domenicomuti/dom6502/irq"
	"github.com/domenicomuti/dom6502/memory"
)

// Status register bit masks, named after the 6502 datasheet and kept
// under the same P_ prefix convention as the teacher this core is
// descended from.
const (
	P_NEGATIVE  = uint8(0x80) // N
	P_OVERFLOW  = uint8(0x40) // V
	P_S1        = uint8(0x20) // Unused, always set on this core.
	P_B         = uint8(0x10) // Break. Not relied on by this core.
	P_DECIMAL   = uint8(0x8)  // D
	P_INTERRUPT = uint8(0x4)  // I
	P_ZERO      = uint8(0x2)  // Z
	P_CARRY     = uint8(0x1)  // C
)

// Vectors read at reset and interrupt time.
const (
	RESET_VECTOR = uint16(0xFFFC)
	IRQ_VECTOR   = uint16(0xFFFE)
)

const stackBase = uint16(0x0100)

// Chip is a single 6502 core: the six registers plus the memory.Bank and
// irq.Sender it's wired to. All mutation happens through Step/Run; there
// is no other way to advance the machine.
type Chip struct {
	A  uint8  // Accumulator
	X  uint8  // X index register
	Y  uint8  // Y index register
	SP uint8  // Stack pointer (stack lives at 0x0100+SP)
	P  uint8  // Processor status
	PC uint16 // Program counter

	ram memory.Bank
	irq irq.Sender

	halted     bool
	haltOpcode uint8
}

// InvalidCPUState reports a precondition violation the caller is
// responsible for (bad initialization, not an emulated program fault).
type InvalidCPUState struct {
	Reason string
}

// Error implements error.
func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// HaltOpcode is returned by Step when it fetches an opcode with no
// instruction table entry. Per spec.md §7 this is the only abnormal
// termination the core recognizes; the register file is left exactly
// as it was at the moment of the fetch for post-mortem inspection.
type HaltOpcode struct {
	Opcode uint8
}

// Error implements error.
func (e HaltOpcode) Error() string {
	return fmt.Sprintf("HALT(0x%.2X) executed", e.Opcode)
}

// Brk is returned by Step when opcode 0x00 (BRK) is fetched. This core
// treats BRK as the normal end-of-program signal rather than a software
// interrupt (spec.md §4.3/§9); no stack frame is pushed for it.
type Brk struct{}

// Error implements error.
func (e Brk) Error() string {
	return "BRK executed"
}

// Init creates a new Chip wired to the given memory.Bank and optional
// IRQ source, powers the chip on (see PowerOn), and bootstraps PC from
// the reset vector. The bank's contents are left untouched: ram must
// already contain the program and a valid reset
// vector at 0xFFFC/0xFFFD — loading that image is the caller's job
// (spec.md §1/§6 explicitly keep ROM loading out of the core's scope).
func Init(ram memory.Bank, irqSrc irq.Sender) (*Chip, error) {
	if ram == nil {
		return nil, InvalidCPUState{"ram must not be nil"}
	}
	c := &Chip{ram: ram, irq: irqSrc}
	c.PowerOn()
	return c, nil
}

// PowerOn resets the chip to its documented startup state: P=0x32,
// SP=0xFF, A/X/Y undefined (randomized, matching real hardware), and PC
// loaded from the reset vector.
func (p *Chip) PowerOn() {
	rand.Seed(time.Now().UnixNano())
	p.A = uint8(rand.Intn(256))
	p.X = uint8(rand.Intn(256))
	p.Y = uint8(rand.Intn(256))
	p.SP = 0xFF
	p.P = 0x32
	p.halted = false
	p.haltOpcode = 0
	p.PC = memory.ReadWord(p.ram, RESET_VECTOR)
}

// Halted reports whether the last Step halted on an undefined opcode.
func (p *Chip) Halted() bool {
	return p.halted
}

// pushByte pushes val onto the stack and decrements SP, wrapping modulo
// 256 with no overflow detection — spec.md §7 states this is
// intentional, matching hardware.
func (p *Chip) pushByte(val uint8) {
	p.ram.Write(stackBase+uint16(p.SP), val)
	p.SP--
}

// pullByte increments SP and returns the byte now on top of stack.
func (p *Chip) pullByte() uint8 {
	p.SP++
	return p.ram.Read(stackBase + uint16(p.SP))
}

// pushWord pushes a 16-bit value high-byte-first, as JSR and the IRQ
// sequence both require.
func (p *Chip) pushWord(val uint16) {
	p.pushByte(uint8(val >> 8))
	p.pushByte(uint8(val))
}

// pullWord pulls a 16-bit value low-byte-first (the inverse of pushWord).
func (p *Chip) pullWord() uint16 {
	lo := p.pullByte()
	hi := p.pullByte()
	return uint16(hi)<<8 | uint16(lo)
}

// setFlag sets or clears the bits in mask depending on cond.
func (p *Chip) setFlag(mask uint8, cond bool) {
	if cond {
		p.P |= mask
	} else {
		p.P &^= mask
	}
}

// setZeroNegative updates Z/N from val, the pattern almost every
// register/memory-mutating instruction ends with.
func (p *Chip) setZeroNegative(val uint8) {
	p.setFlag(P_ZERO, val == 0)
	p.setFlag(P_NEGATIVE, val&0x80 != 0)
}

// Step executes exactly one instruction: fetch, decode, dispatch,
// advance PC (or have the handler set it explicitly for
// branches/jumps/calls/returns), and return the number of cycles it
// took. Undefined opcodes return HaltOpcode without mutating PC past
// the fetch; BRK (0x00) returns Brk after the handler runs.
func (p *Chip) Step() (int, error) {
	op := p.ram.Read(p.PC)
	desc := opcodeTable[op]
	if desc.Undefined() {
		p.halted = true
		p.haltOpcode = op
		return 0, HaltOpcode{op}
	}
	cycles := int(desc.Cycles)
	if err := desc.fn(p, desc, &cycles); err != nil {
		return cycles, err
	}
	if op == 0x00 {
		return cycles, Brk{}
	}
	return cycles, nil
}

// serviceIRQ pushes PC and P and vectors through IRQ_VECTOR, matching
// spec.md §4.5 step 6: push PC-high, PC-low, P (three decrements of
// SP), PC <- word at (0xFFFE, 0xFFFF). The caller (Run) is responsible
// for checking irq.Raised() && P.I == 0 and clearing the source.
func (p *Chip) serviceIRQ() {
	p.pushWord(p.PC)
	p.pushByte(p.P)
	p.setFlag(P_INTERRUPT, true)
	p.PC = memory.ReadWord(p.ram, IRQ_VECTOR)
}

// irqClearer is implemented by IRQ sources that support being cleared
// once serviced, such as irq.Latch. Sources that only implement Raised
// are still accepted by Run; they simply won't be auto-cleared (a
// level-triggered source is expected to manage that itself).
type irqClearer interface {
	Clear()
}

// Run drives the cycle-paced execution loop of spec.md §4.5: Step until
// BRK or an undefined opcode, pacing each instruction against pacer (if
// non-nil) and servicing a pending, unmasked IRQ after every
// instruction. It returns nil on a normal BRK-terminated run and the
// Step error otherwise (HaltOpcode).
func (p *Chip) Run(pacer Pacer) error {
	for {
		start := time.Now()
		cycles, err := p.Step()
		if pacer != nil {
			pacer.Pace(cycles, time.Since(start))
		}
		if p.irq != nil && p.irq.Raised() && p.P&P_INTERRUPT == 0 {
			if c, ok := p.irq.(irqClearer); ok {
				c.Clear()
			}
			p.serviceIRQ()
		}
		if err != nil {
			if _, brk := err.(Brk); brk {
				return nil
			}
			return err
		}
	}
}
