package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ScottAndre/spinv-emulator/controls"
	"github.com/ScottAndre/spinv-emulator/interrupt"
	"github.com/ScottAndre/spinv-emulator/mem"
	"github.com/ScottAndre/spinv-emulator/ports"
)

func newHarness() (*Cpu, *mem.Memory, *ports.Bank, *interrupt.Latch) {
	return New(), mem.New(), ports.New(controls.New(), nil), interrupt.New()
}

func TestNOP(t *testing.T) {
	c, m, bank, ints := newHarness()
	m.Write(0, 0x00)
	cycles, err := c.Step(m, bank, ints)
	assert.NoError(t, err)
	assert.Equal(t, byte(4), cycles)
	assert.Equal(t, uint16(1), c.PC)
}

func TestMVIAndMOV(t *testing.T) {
	c, m, bank, ints := newHarness()
	m.Write(0, 0x06) // MVI B, 0x42
	m.Write(1, 0x42)
	m.Write(2, 0x48) // MOV C,B
	_, err := c.Step(m, bank, ints)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x42), c.B)

	_, err = c.Step(m, bank, ints)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x42), c.C)
}

func TestADIUpdatesCarryAuxCarryAndParity(t *testing.T) {
	c, m, bank, ints := newHarness()
	c.A = 0x3d
	m.Write(c.PC, 0xc6) // ADI
	m.Write(c.PC+1, 0xc3)
	cycles, err := c.Step(m, bank, ints)
	assert.NoError(t, err)
	assert.Equal(t, byte(7), cycles)
	assert.Equal(t, byte(0x00), c.A) // 0x3d + 0xc3 = 0x100, wraps to 0x00
	assert.True(t, c.Flags.CY)
	assert.True(t, c.Flags.AC)
	assert.True(t, c.Flags.Z)
	assert.True(t, c.Flags.P) // zero has even (zero) parity
}

func TestCALLPushesReturnAddress(t *testing.T) {
	c, m, bank, ints := newHarness()
	c.PC = 0x1000
	c.SP = 0x2400
	m.Write(0x1000, 0xcd) // CALL 0x3000
	m.Write(0x1001, 0x00)
	m.Write(0x1002, 0x30)

	cycles, err := c.Step(m, bank, ints)
	assert.NoError(t, err)
	assert.Equal(t, byte(17), cycles)
	assert.Equal(t, uint16(0x3000), c.PC)
	assert.Equal(t, uint16(0x23fe), c.SP)
	assert.Equal(t, byte(0x10), m.Read(0x23ff)) // return address high byte
	assert.Equal(t, byte(0xcd), m.Read(0x1000)) // sanity: opcode untouched (not a write target)
}

func TestFailedConditionalCallUsesShortCycleCount(t *testing.T) {
	c, m, bank, ints := newHarness()
	c.Flags.Z = false
	m.Write(c.PC, 0xcc) // CZ - condition fails (Z clear)
	m.Write(c.PC+1, 0x00)
	m.Write(c.PC+2, 0x30)

	cycles, err := c.Step(m, bank, ints)
	assert.NoError(t, err)
	assert.Equal(t, byte(failedConditionalCallCycles), cycles)
	assert.Equal(t, uint16(3), c.PC) // call not taken, PC just advanced past the instruction
}

func TestDADSetsCarryOnOverflow(t *testing.T) {
	c, m, bank, ints := newHarness()
	c.H, c.L = 0xff, 0xff // HL = 0xffff
	c.B, c.C = 0x00, 0x01 // BC = 1
	m.Write(c.PC, 0x09)   // DAD B

	_, err := c.Step(m, bank, ints)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x00), c.H)
	assert.Equal(t, byte(0x00), c.L)
	assert.True(t, c.Flags.CY)
}

func TestShiftRegisterRoundTripThroughPorts(t *testing.T) {
	c, m, bank, ints := newHarness()
	c.A = 0x12
	m.Write(0, 0xd3) // OUT 4
	m.Write(1, 0x04)
	m.Write(2, 0xd3) // OUT 4 (contents now 0x1212)
	m.Write(3, 0x04)
	m.Write(4, 0xd3) // OUT 2 (offset = 7)
	m.Write(5, 0x02)
	m.Write(6, 0xdb) // IN 3
	m.Write(7, 0x03)

	c.A = 0x12
	_, _ = c.Step(m, bank, ints)
	c.A = 0x12
	_, _ = c.Step(m, bank, ints)
	c.A = 0x07
	_, _ = c.Step(m, bank, ints)
	_, err := c.Step(m, bank, ints)

	assert.NoError(t, err)
	assert.Equal(t, byte(0x09), c.A) // (0x1212 >> (8-7)) & 0xff
}

func TestInterruptInjectionRST2(t *testing.T) {
	c, m, bank, ints := newHarness()
	c.PC = 0x1234
	c.SP = 0x2400

	ints.TriggerVBlank()
	assert.True(t, ints.Waiting())

	var buf [3]byte
	ints.LoadInterruptInstruction(&buf)
	ints.Disable()
	c.StageInterrupt(buf)
	ints.Clear()

	cycles, err := c.Step(m, bank, ints)
	assert.NoError(t, err)
	assert.Equal(t, byte(11), cycles)
	assert.Equal(t, uint16(0x0010), c.PC) // RST 2 -> 0x0010
	assert.Equal(t, uint16(0x23fe), c.SP)
}

func TestDAAAdjustsBCD(t *testing.T) {
	c, m, bank, ints := newHarness()
	c.A = 0x9b
	m.Write(c.PC, 0x27) // DAA
	_, err := c.Step(m, bank, ints)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x01), c.A)
	assert.True(t, c.Flags.CY)
	assert.True(t, c.Flags.AC)
}

func TestHaltedCPUBurnsNOPCyclesAndDoesNotAdvancePC(t *testing.T) {
	c, m, bank, ints := newHarness()
	c.Halted = true
	c.PC = 0x55
	cycles, err := c.Step(m, bank, ints)
	assert.NoError(t, err)
	assert.Equal(t, byte(4), cycles)
	assert.Equal(t, uint16(0x55), c.PC)
}

func TestPushPopPSWRoundTrip(t *testing.T) {
	c, m, bank, ints := newHarness()
	c.A = 0x3f
	c.Flags = Flags{Z: true, S: false, P: true, CY: true, AC: false}
	c.SP = 0x2400

	m.Write(c.PC, 0xf5) // PUSH PSW
	_, err := c.Step(m, bank, ints)
	assert.NoError(t, err)

	c.A = 0
	c.Flags = Flags{}
	m.Write(c.PC, 0xf1) // POP PSW
	_, err = c.Step(m, bank, ints)
	assert.NoError(t, err)

	assert.Equal(t, byte(0x3f), c.A)
	assert.Equal(t, Flags{Z: true, S: false, P: true, CY: true, AC: false}, c.Flags)
}

func TestUnusedOpcodeBehavesAsNOP(t *testing.T) {
	c, m, bank, ints := newHarness()
	m.Write(0, 0xdd) // unused on the 8080
	cycles, err := c.Step(m, bank, ints)
	assert.NoError(t, err)
	assert.Equal(t, byte(4), cycles)
	assert.Equal(t, uint16(1), c.PC)
}

func TestRIMIsRejectedAsUnimplemented(t *testing.T) {
	c, m, bank, ints := newHarness()
	m.Write(0, 0x20)
	_, err := c.Step(m, bank, ints)
	assert.Error(t, err)
}
