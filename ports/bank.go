// Package ports implements the cabinet's eight-bit I/O space: the three
// input ports wired to the control panel and the hardware shift register
// used for sprite scrolling, plus the sound/watchdog output ports the core
// accepts but does not act on. See spec.md §5 and
// original_source/ports.c.
package ports

import (
	"log/slog"

	"github.com/ScottAndre/spinv-emulator/controls"
	"github.com/ScottAndre/spinv-emulator/mask"
)

// A Bank owns the shift register and a reference to the control panel it
// reads button state from. The zero value is not usable; construct with
// New.
type Bank struct {
	panel *controls.Panel

	shiftContents uint16
	shiftOffset   uint8

	log *slog.Logger
}

// New returns a Bank reading button state from panel.
func New(panel *controls.Panel, log *slog.Logger) *Bank {
	if log == nil {
		log = slog.Default()
	}
	return &Bank{panel: panel, log: log}
}

// Read dispatches an IN instruction to the appropriate input port.
// Unmapped ports log a warning and read as 0, matching the original
// firmware's fallback.
func (b *Bank) Read(port byte) byte {
	switch port {
	case 0:
		return b.readInput0()
	case 1:
		return b.readInput1()
	case 2:
		return b.readInput2()
	case 3:
		return b.readShiftRegister()
	default:
		b.log.Warn("read from unavailable input port", "port", port)
		return 0
	}
}

// Write dispatches an OUT instruction to the appropriate output port.
// Unmapped ports log a warning and are otherwise ignored.
func (b *Bank) Write(port byte, data byte) {
	switch port {
	case 2:
		b.shiftOffset = data & 0x07
	case 3, 5, 6:
		// Sound and watchdog outputs. The original firmware leaves these
		// unimplemented; there is no audio device or watchdog here either.
	case 4:
		b.shiftContents = (b.shiftContents >> 8) | (uint16(data) << 8)
	default:
		b.log.Warn("write to unavailable output port", "port", port)
	}
}

// readInput0 is unused by Space Invaders proper; bits 1-3 are always set
// and the rest come from nothing in particular.
func (b *Bank) readInput0() byte {
	return 0x0e
}

// readInput1 bit positions, 1-indexed MSB-first per mask's convention:
// pos2=0x40 P1 right, pos3=0x20 P1 left, pos4=0x10 P1 fire, pos5=0x08
// (always set), pos6=0x04 P1 start, pos7=0x02 P2 start, pos8=0x01 credit.
func (b *Bank) readInput1() byte {
	status := mask.Set(0, mask.I5, 1)
	if b.panel.Credit() {
		status = mask.Set(status, mask.I8, 1)
	}
	p1 := b.panel.Player1()
	p2 := b.panel.Player2()
	if p2.Start {
		status = mask.Set(status, mask.I7, 1)
	}
	if p1.Start {
		status = mask.Set(status, mask.I6, 1)
	}
	if p1.Fire {
		status = mask.Set(status, mask.I4, 1)
	}
	if p1.Left {
		status = mask.Set(status, mask.I3, 1)
	}
	if p1.Right {
		status = mask.Set(status, mask.I2, 1)
	}
	return status
}

// readInput2 bit positions, same convention: pos2=0x40 P2 right, pos3=0x20
// P2 left, pos4=0x10 P2 fire.
func (b *Bank) readInput2() byte {
	var status byte
	p2 := b.panel.Player2()
	if p2.Fire {
		status = mask.Set(status, mask.I4, 1)
	}
	if p2.Left {
		status = mask.Set(status, mask.I3, 1)
	}
	if p2.Right {
		status = mask.Set(status, mask.I2, 1)
	}
	return status
}

func (b *Bank) readShiftRegister() byte {
	return byte(b.shiftContents >> (8 - b.shiftOffset))
}
