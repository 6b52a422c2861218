// Package monitor implements an interactive single-step debugger for a
// cpu.Chip: a bubbletea TUI that renders registers, flags, and a slice
// of memory around PC, advancing one instruction per keypress. Grounded
// on hejops-gone's cpu.Debug, which builds the same kind of live
// register/memory view for its own 6502 core; this is a caller/driver
// concern layered on top of cpu.Chip without cpu depending on it.
package monitor

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/domenicomuti/dom6502/cpu"
	"github.com/domenicomuti/dom6502/disassemble"
	"github.com/domenicomuti/dom6502/memory"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	pcStyle     = lipgloss.NewStyle().Reverse(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const pageRows = 16

// model is the bubbletea model driving the debugger. It owns no state
// cpu.Chip doesn't already have; everything it renders is read straight
// off the Chip/Bank each View.
type model struct {
	chip *cpu.Chip
	mem  memory.Bank

	history []string // last disassembled lines, most recent last
	err     error
	quit    bool
}

// New builds a debugger model for chip/mem. chip must already be
// powered on (cpu.Init does this); the monitor never mutates it except
// by calling Step in response to a keypress.
func New(chip *cpu.Chip, mem memory.Bank) model {
	return model{chip: chip, mem: mem}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model: space/n single-steps, q quits.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		case " ", "n":
			if m.err != nil || m.quit {
				return m, nil
			}
			line, _ := disassemble.Step(m.mem, m.chip.PC)
			m.history = append(m.history, line)
			if len(m.history) > instructionBuffer {
				m.history = m.history[len(m.history)-instructionBuffer:]
			}
			if _, err := m.chip.Step(); err != nil {
				m.err = err
			}
		}
	}
	return m, nil
}

// instructionBuffer caps how many disassembled lines the history pane
// keeps, mirroring the teacher's debugger fixed-size scrollback.
const instructionBuffer = 20

// registers renders the six-register/flag snapshot.
func (m model) registers() string {
	flagBit := func(mask uint8, label string) string {
		if m.chip.P&mask != 0 {
			return label
		}
		return strings.ToLower(label)
	}
	flags := fmt.Sprintf("%s%s %s%s%s%s",
		flagBit(cpu.P_NEGATIVE, "N"), flagBit(cpu.P_OVERFLOW, "V"),
		flagBit(cpu.P_DECIMAL, "D"), flagBit(cpu.P_INTERRUPT, "I"),
		flagBit(cpu.P_ZERO, "Z"), flagBit(cpu.P_CARRY, "C"))
	return fmt.Sprintf(
		"%s\nPC: %04X  SP: %02X\nA:  %02X    X: %02X   Y: %02X\nP:  %02X (%s)",
		headerStyle.Render("registers"), m.chip.PC, m.chip.SP, m.chip.A, m.chip.X, m.chip.Y, m.chip.P, flags)
}

// memoryPage renders pageRows rows of 16 bytes each, starting at the
// page PC currently lives in, with the byte at PC highlighted.
func (m model) memoryPage() string {
	base := m.chip.PC &^ 0xFF
	var b strings.Builder
	b.WriteString(headerStyle.Render("memory") + "\n")
	for row := 0; row < pageRows; row++ {
		addr := base + uint16(row*16)
		fmt.Fprintf(&b, "%04X |", addr)
		for col := 0; col < 16; col++ {
			a := addr + uint16(col)
			v := fmt.Sprintf(" %02X", m.mem.Read(a))
			if a == m.chip.PC {
				v = pcStyle.Render(v)
			}
			b.WriteString(v)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) historyPane() string {
	return headerStyle.Render("history") + "\n" + strings.Join(m.history, "\n")
}

// View implements tea.Model.
func (m model) View() string {
	top := lipgloss.JoinHorizontal(lipgloss.Top, m.registers(), "   ", m.memoryPage())
	body := lipgloss.JoinVertical(lipgloss.Left, top, "", m.historyPane())
	if m.err != nil {
		body += "\n" + errStyle.Render(m.err.Error())
	}
	body += "\n\n[space/n] step   [q] quit"
	return body
}

// Run starts the interactive debugger over chip/mem and blocks until
// the user quits. The final error (if the run ended on an undefined
// opcode) is returned to the caller for post-mortem reporting.
func Run(chip *cpu.Chip, mem memory.Bank) error {
	p := tea.NewProgram(New(chip, mem))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := finalModel.(model); ok {
		return fm.err
	}
	return nil
}
