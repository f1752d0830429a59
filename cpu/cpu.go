// Package cpu implements the Intel 8080 microprocessor as wired into the
// 1978 Space Invaders arcade board: the register file, the five condition
// flags, the fetch/decode/execute loop, and the interrupt-acknowledge
// sequence the driver uses to inject RST 1/RST 2 between instructions.
package cpu

import (
	"fmt"

	"github.com/ScottAndre/spinv-emulator/interrupt"
	"github.com/ScottAndre/spinv-emulator/mask"
	"github.com/ScottAndre/spinv-emulator/mem"
	"github.com/ScottAndre/spinv-emulator/ports"
)

// A Cpu holds the full 8080 register file. There is no cache of decoded
// instructions and no pipeline: Step does one complete
// fetch-decode-execute pass per call, exactly as the hardware's
// microcode would, just not cycle-by-cycle.
type Cpu struct {
	B, C, D, E, H, L, A byte
	SP, PC              uint16
	Flags               Flags

	// Halted is set by HLT and cleared only by the driver, when it stages
	// an interrupt. While set, Step returns a NOP's cycle count without
	// fetching anything or advancing PC.
	Halted bool

	hasInterrupt     bool
	interruptBuf     [3]byte
	cycleOverride    byte
	cycleOverrideSet bool
}

// New returns a Cpu with every register and flag zeroed, PC at 0 and SP at
// 0 — the same "zero and let the program set it up" stance the original
// firmware takes, since a real ROM always sets SP for itself before it
// matters.
func New() *Cpu {
	return &Cpu{}
}

// StageInterrupt arms the Cpu to execute the three-byte instruction in buf
// on the next Step instead of fetching from memory. The driver is
// responsible for building buf (see the interrupt package) and for only
// calling StageInterrupt when interrupts are actually enabled.
func (c *Cpu) StageInterrupt(buf [3]byte) {
	c.interruptBuf = buf
	c.hasInterrupt = true
}

// regPairLowHigh returns pointers to the low and high bytes of a register
// pair, for the instructions that treat BC/DE/HL as a 16-bit unit.
func (c *Cpu) regPairLowHigh(p RegPair) (low, high *byte) {
	switch p {
	case PairBC:
		return &c.C, &c.B
	case PairDE:
		return &c.E, &c.D
	case PairHL:
		return &c.L, &c.H
	default:
		panic(fmt.Sprintf("regPairLowHigh: not a byte pair: %d", p))
	}
}

func (c *Cpu) regPairWord(p RegPair) uint16 {
	if p == PairSP {
		return c.SP
	}
	low, high := c.regPairLowHigh(p)
	return mask.Word(*low, *high)
}

func (c *Cpu) setRegPairWord(p RegPair, w uint16) {
	if p == PairSP {
		c.SP = w
		return
	}
	low, high := c.regPairLowHigh(p)
	*low, *high = mask.Split(w)
}

// hl returns the address formed by the H and L registers, used by every
// instruction that addresses memory through the M pseudo-register.
func (c *Cpu) hl() uint16 {
	return mask.Word(c.L, c.H)
}

func (c *Cpu) reg(id RegID, m *mem.Memory) byte {
	switch id {
	case RegB:
		return c.B
	case RegC:
		return c.C
	case RegD:
		return c.D
	case RegE:
		return c.E
	case RegH:
		return c.H
	case RegL:
		return c.L
	case RegM:
		return m.Read(c.hl())
	case RegA:
		return c.A
	}
	panic(fmt.Sprintf("reg: bad RegID %d", id))
}

func (c *Cpu) setReg(id RegID, m *mem.Memory, v byte) {
	switch id {
	case RegB:
		c.B = v
	case RegC:
		c.C = v
	case RegD:
		c.D = v
	case RegE:
		c.E = v
	case RegH:
		c.H = v
	case RegL:
		c.L = v
	case RegM:
		m.Write(c.hl(), v)
	case RegA:
		c.A = v
	default:
		panic(fmt.Sprintf("setReg: bad RegID %d", id))
	}
}

func (c *Cpu) push(m *mem.Memory, high, low byte) {
	m.Write(c.SP-1, high)
	m.Write(c.SP-2, low)
	c.SP -= 2
}

func (c *Cpu) pop(m *mem.Memory) (low, high byte) {
	low = m.Read(c.SP)
	high = m.Read(c.SP + 1)
	c.SP += 2
	return low, high
}

func (c *Cpu) call(m *mem.Memory, addr uint16) {
	low, high := mask.Split(c.PC)
	c.push(m, high, low)
	c.PC = addr
}

func (c *Cpu) ret(m *mem.Memory) {
	low, high := c.pop(m)
	c.PC = mask.Word(low, high)
}

// Step executes exactly one instruction — or, if an interrupt has been
// staged via StageInterrupt, the staged RST — and returns the number of
// cycles it took. A Halted Cpu consumes a NOP's worth of cycles and
// otherwise does nothing, until the driver clears Halted.
func (c *Cpu) Step(m *mem.Memory, bank *ports.Bank, interrupts *interrupt.Latch) (cycles byte, err error) {
	if c.Halted {
		return opCycles[0x00], nil
	}

	c.cycleOverrideSet = false

	var op [3]byte
	if c.hasInterrupt {
		op = c.interruptBuf
		c.hasInterrupt = false
	} else {
		pc := c.PC
		op[0] = m.Read(pc)
		length := opLengths[op[0]]
		for i := byte(1); i < length; i++ {
			op[i] = m.Read(pc + uint16(i))
		}
		c.PC += uint16(length)
	}

	if err := c.execute(m, bank, interrupts, op); err != nil {
		return 0, err
	}

	cycles = opCycles[op[0]]
	if c.cycleOverrideSet {
		cycles = c.cycleOverride
	}
	return cycles, nil
}
