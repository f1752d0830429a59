// Package tui is the terminal front-end: it renders the VRAM framebuffer
// as a block-character grid, translates keyboard events into control-panel
// state, and drives the hblank/vblank ticker that stands in for the
// original board's CRT scan timing. None of this is part of the emulator
// core — it is an external collaborator, same as original_source/display.c
// and original_source/controls.c are external to cpu8080.c.
package tui

import (
	"fmt"
	"math/bits"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ScottAndre/spinv-emulator/controls"
	"github.com/ScottAndre/spinv-emulator/interrupt"
	"github.com/ScottAndre/spinv-emulator/mem"
)

const (
	vramWidth  = 256 // pixel rows in the original (pre-rotation) orientation
	vramHeight = 224 // addressable columns, original_source/display.c DISPLAY_WIDTH
	groupsPerX = vramWidth / 8 // bytes per column; 0x2400-0x3fff is exactly vramHeight*groupsPerX bytes
)

// keyReleaseDelay is how long a key press is held "down" in the control
// panel before tui synthesizes a release. Terminals deliver key-down
// events only (no key-up), so a held arrow key is recognized by its
// repeat cadence re-arming this timer; keyReleaseDelay just needs to be
// longer than one terminal key-repeat interval and shorter than a frame
// or two of feeling unresponsive.
const keyReleaseDelay = 120 * time.Millisecond

// fillGlyphs approximates a byte's 8 vertical pixels (MSB at the bottom of
// the column, per the original addressing) as a single terminal cell,
// since no terminal can usefully address 256x224 pixels 1:1.
var fillGlyphs = []rune(" ▁▂▃▄▅▆▇█")

// Model is the bubbletea model for the emulator's display and input.
type Model struct {
	Mem        *mem.Memory
	Panel      *controls.Panel
	Interrupts *interrupt.Latch

	hblankNext bool
}

// New returns a Model ready to be handed to tea.NewProgram.
func New(m *mem.Memory, panel *controls.Panel, interrupts *interrupt.Latch) Model {
	return Model{Mem: m, Panel: panel, Interrupts: interrupts, hblankNext: true}
}

type tickMsg struct{}

type releaseMsg struct {
	set func(bool)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/120, func(time.Time) tea.Msg { return tickMsg{} })
}

func releaseCmd(set func(bool)) tea.Cmd {
	return tea.Tick(keyReleaseDelay, func(time.Time) tea.Msg { return releaseMsg{set} })
}

// Init starts the hblank/vblank ticker; the CPU's driver loop runs on its
// own goroutine entirely outside bubbletea's event loop.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles keyboard input (control panel) and the display ticker
// (interrupt injection).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		if set := m.bindingFor(msg.String()); set != nil {
			set(true)
			return m, releaseCmd(set)
		}

	case releaseMsg:
		msg.set(false)

	case tickMsg:
		if m.hblankNext {
			m.Interrupts.TriggerHBlank()
		} else {
			m.Interrupts.TriggerVBlank()
		}
		m.hblankNext = !m.hblankNext
		return m, tickCmd()
	}
	return m, nil
}

// bindingFor maps a terminal key string to the control-panel setter it
// drives. P1 uses the cabinet's natural layout (enter/space/arrows); P2 is
// remapped to a distinct secondary chord (2/f/j/l) since a terminal can't
// tell numpad keys apart from the main row the way the original GTK
// front-end's keycodes could.
func (m Model) bindingFor(key string) func(bool) {
	switch key {
	case "c":
		return m.Panel.SetCredit
	case "enter":
		return m.Panel.SetP1Start
	case " ":
		return m.Panel.SetP1Fire
	case "left":
		return m.Panel.SetP1Left
	case "right":
		return m.Panel.SetP1Right
	case "2":
		return m.Panel.SetP2Start
	case "f":
		return m.Panel.SetP2Fire
	case "j":
		return m.Panel.SetP2Left
	case "l":
		return m.Panel.SetP2Right
	default:
		return nil
	}
}

// render rotates VRAM 90° CCW (expressed directly as the iteration order,
// rather than a separate transform step) and folds each byte's 8 vertical
// pixels into one block-element glyph per terminal cell. Addressing matches
// original_source/display.c: column j in [0,vramHeight) at byte offset
// j*groupsPerX+i, i in [0,groupsPerX).
func render(vram []byte) string {
	var b strings.Builder
	for x := vramHeight - 1; x >= 0; x-- {
		for g := 0; g < groupsPerX; g++ {
			b.WriteRune(fillGlyphs[bits.OnesCount8(vram[x*groupsPerX+g])])
		}
		b.WriteRune('\n')
	}
	return b.String()
}

// View renders the current frame plus a one-line status footer.
func (m Model) View() string {
	footer := fmt.Sprintf("credit:%v  p1:%+v  p2:%+v  (q to quit)",
		m.Panel.Credit(), m.Panel.Player1(), m.Panel.Player2())
	return lipgloss.JoinVertical(
		lipgloss.Left,
		render(m.Mem.VRAM()),
		footer,
	)
}

// Run starts the interactive terminal front-end. It blocks until the user
// quits or an error occurs; the CPU/driver loop must already be running on
// its own goroutine before Run is called.
func Run(m *mem.Memory, panel *controls.Panel, interrupts *interrupt.Latch) error {
	_, err := tea.NewProgram(New(m, panel, interrupts), tea.WithAltScreen()).Run()
	return err
}
