// Package memory defines the basic interfaces for working with a 6502
// family memory map. The core only ever addresses a single flat 64 KiB
// image, but the interface is kept separate from the implementation so
// test harnesses can substitute their own backing store (fixed fill
// values, instrumented read/write, etc).
package memory

import (
	"math/rand"
	"time"
)

// Bank is the interface the cpu package depends on for all memory
// access. There is exactly one implementation in this repo (FlatRAM)
// but the interface/implementation split (and the Parent/DatabusVal
// chain) is kept so a host embedding this core can substitute a
// differently backed Bank without touching cpu.
type Bank interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) uint8
	// Write updates addr with the new value.
	Write(addr uint16, val uint8)
	// PowerOn (re)initializes the bank's contents.
	PowerOn()
	// Parent holds a reference (if non-nil) to an outer memory
	// controller. Chained banks can use this to find the outermost one
	// and inspect databus state across the whole chain.
	Parent() Bank
	// DatabusVal returns the last value seen to go across on the data bus.
	DatabusVal() uint8
}

// LatestDatabusVal hunts up a chain of Banks until it finds the
// outermost one and returns the DatabusVal from it.
func LatestDatabusVal(b Bank) uint8 {
	if b.Parent() != nil {
		return LatestDatabusVal(b.Parent())
	}
	return b.DatabusVal()
}

// FlatRAM implements Bank as a single 65536-byte linear array — the
// "flat 64 KiB memory image" spec.md's data model requires. Address
// wrap is automatic since addr is already a uint16.
type FlatRAM struct {
	ram        [65536]uint8
	parent     Bank
	databusVal uint8
}

// NewFlatRAM creates a fresh 64 KiB RAM bank. If parent is non-nil it is
// recorded so LatestDatabusVal can walk the chain; this core never
// needs more than one level but the hook is kept for embedding.
func NewFlatRAM(parent Bank) *FlatRAM {
	return &FlatRAM{parent: parent}
}

// Read implements Bank.
func (r *FlatRAM) Read(addr uint16) uint8 {
	val := r.ram[addr]
	r.databusVal = val
	return val
}

// Write implements Bank.
func (r *FlatRAM) Write(addr uint16, val uint8) {
	r.databusVal = val
	r.ram[addr] = val
}

// PowerOn implements Bank and randomizes RAM contents, matching real
// hardware power-on state (undefined, not zeroed). Callers that need a
// deterministic start (tests, ROM loads) overwrite via Write/LoadImage
// afterwards.
func (r *FlatRAM) PowerOn() {
	rand.Seed(time.Now().UnixNano())
	for i := range r.ram {
		r.ram[i] = uint8(rand.Intn(256))
	}
}

// Parent implements Bank.
func (r *FlatRAM) Parent() Bank {
	return r.parent
}

// DatabusVal implements Bank.
func (r *FlatRAM) DatabusVal() uint8 {
	return r.databusVal
}

// LoadImage copies img into RAM starting at offset, wrapping addresses
// modulo 65536 like every other address computation in this core. This
// is the one piece of "program loading" the core itself provides;
// assembling the image's contents remains the host's job per spec.md.
func (r *FlatRAM) LoadImage(offset uint16, img []uint8) {
	for i, b := range img {
		r.ram[uint16(int(offset)+i)] = b
	}
}

// ReadWord reads a little-endian 16-bit word at addr, addr+1 (wrapping
// within the bank). Used by the core to read reset/IRQ vectors and by
// callers inspecting memory for debugging.
func ReadWord(b Bank, addr uint16) uint16 {
	lo := b.Read(addr)
	hi := b.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}
