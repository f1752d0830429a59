package cpu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/ScottAndre/spinv-emulator/disasm"
	"github.com/ScottAndre/spinv-emulator/interrupt"
	"github.com/ScottAndre/spinv-emulator/mem"
	"github.com/ScottAndre/spinv-emulator/ports"
)

type model struct {
	cpu        *Cpu
	mem        *mem.Memory
	bank       *ports.Bank
	interrupts *interrupt.Latch

	offset uint16 // only for drawing pageTable
	prevPC uint16
	error  error
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m model) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit

		case " ", "j":
			m.prevPC = m.cpu.PC
			if _, err := m.cpu.Step(m.mem, m.bank, m.interrupts); err != nil {
				m.error = err
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// renderPage renders a single page as a line. The current PC is highlighted.
func (m model) renderPage(start uint16) string {
	if start%16 != 0 {
		panic("start must be a multiple of 16")
	}
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		addr := start + i
		b := m.mem.Read(addr)
		if addr == m.cpu.PC {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) status() string {
	var flags string
	for _, flag := range []bool{
		m.cpu.Flags.S,
		m.cpu.Flags.Z,
		m.cpu.Flags.AC,
		m.cpu.Flags.P,
		m.cpu.Flags.CY,
	} {
		if flag {
			flags += "/ "
		} else {
			flags += "  "
		}
	}
	return fmt.Sprintf(`
PC: %04x (%04x)
SP: %04x
 A: %02x
 B: %02x  C: %02x
 D: %02x  E: %02x
 H: %02x  L: %02x
S Z A P C
`,
		m.cpu.PC,
		m.prevPC,
		m.cpu.SP,
		m.cpu.A,
		m.cpu.B, m.cpu.C,
		m.cpu.D, m.cpu.E,
		m.cpu.H, m.cpu.L,
	) + flags
}

func (m model) pageTable() string {
	header := "page | "
	for b := range 16 {
		header += fmt.Sprintf("  %01x  ", b)
	}

	pages := []string{header}

	base := m.cpu.PC &^ 0x0f
	offsets := []int{
		0, 16, 32, 48, 64,
		int(base),
		int(base + 16*1),
		int(base + 16*2),
		int(base + 16*3),
		int(base + 16*4),
	}
	for _, i := range offsets {
		pages = append(pages, m.renderPage(uint16(i)))
	}
	return strings.Join(pages, "\n")
}

func (m model) currentInstruction() string {
	var op [3]byte
	op[0] = m.mem.Read(m.cpu.PC)
	op[1] = m.mem.Read(m.cpu.PC + 1)
	op[2] = m.mem.Read(m.cpu.PC + 2)
	return disasm.Disassemble(op)
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		m.currentInstruction(),
		spew.Sdump(m.cpu.Flags),
	)
}

// Debug starts an interactive TUI against an already-initialized Cpu, mem
// and port bank. Unlike the driver's Run loop, it never paces instructions
// against the wall clock — this is a single-stepping debugger, not the
// real-time driver loop.
func Debug(c *Cpu, m *mem.Memory, bank *ports.Bank, interrupts *interrupt.Latch) error {
	result, err := tea.NewProgram(model{
		cpu:        c,
		mem:        m,
		bank:       bank,
		interrupts: interrupts,
	}).Run()
	if err != nil {
		return err
	}
	if x, ok := result.(model); ok && x.error != nil {
		return x.error
	}
	return nil
}
