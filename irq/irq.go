// Package irq defines the basic interfaces for working
// with a 6502 family interrupt. A source of interrupts (IRQ/NMI)
// implements Sender so that the receiver (the cpu) can poll its state
// without cross coupling component logic.
// NOTE: Even though chips make a distinction between level and edge type interrupts
//       the interfaces here don't matter and assume implementors simply account for
//       this in clock cycle management.
package irq

import "sync/atomic"

// Sender defines the interface for an IRQ source.
type Sender interface {
	// Raised indicates whether the interrupt is currently held high.
	Raised() bool
}

// Latch is a Sender backed by a single atomic flag. Spec.md's §5
// requires external collaborators to set the pending flag atomically
// at the byte level since the cpu loop reads it once per iteration and
// clears it before dispatching the interrupt — Latch gives callers that
// for free instead of requiring them to roll their own synchronization.
type Latch struct {
	raised int32
}

// Set raises the interrupt line.
func (l *Latch) Set() {
	atomic.StoreInt32(&l.raised, 1)
}

// Clear lowers the interrupt line. The cpu package calls this once it
// has latched the interrupt and begun servicing it.
func (l *Latch) Clear() {
	atomic.StoreInt32(&l.raised, 0)
}

// Raised implements Sender.
func (l *Latch) Raised() bool {
	return atomic.LoadInt32(&l.raised) != 0
}
