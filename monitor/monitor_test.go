package monitor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domenicomuti/dom6502/asmtest"
	"github.com/domenicomuti/dom6502/cpu"
)

func TestStepKeyAdvancesChip(t *testing.T) {
	p := asmtest.New()
	p.Emit("LDA", cpu.ModeImmediate, 0x42)
	p.Emit("BRK", cpu.ModeImplied)
	chip := p.Build(nil)

	m := New(chip, p.Mem)
	startPC := chip.PC

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m2 := updated.(model)

	require.NotEqual(t, startPC, chip.PC, "Step should have advanced PC")
	assert.Equal(t, uint8(0x42), chip.A)
	assert.Len(t, m2.history, 1)
}

func TestQuitKeySetsQuit(t *testing.T) {
	p := asmtest.New()
	p.Emit("NOP", cpu.ModeImplied)
	p.Emit("BRK", cpu.ModeImplied)
	chip := p.Build(nil)

	m := New(chip, p.Mem)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m2 := updated.(model)

	assert.True(t, m2.quit)
	require.NotNil(t, cmd)
}

func TestUndefinedOpcodeSurfacesAsErr(t *testing.T) {
	p := asmtest.New()
	p.Byte(asmtest.StartAddress, 0x02) // no descriptor
	chip := p.Build(nil)

	m := New(chip, p.Mem)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m2 := updated.(model)

	require.Error(t, m2.err)
	_, ok := m2.err.(cpu.HaltOpcode)
	assert.True(t, ok)
}
