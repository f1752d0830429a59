package driver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ScottAndre/spinv-emulator/controls"
	"github.com/ScottAndre/spinv-emulator/cpu"
	"github.com/ScottAndre/spinv-emulator/interrupt"
	"github.com/ScottAndre/spinv-emulator/mem"
	"github.com/ScottAndre/spinv-emulator/ports"
)

func newHarness() *Driver {
	c := cpu.New()
	m := mem.New()
	bank := ports.New(controls.New(), nil)
	ints := interrupt.New()
	return New(c, m, bank, ints, nil)
}

func TestRunReturnsImmediatelyOnCancelledContext(t *testing.T) {
	d := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Run(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0), d.Cpu.PC) // never stepped
}

func TestRunInvokesOnFatalForUnimplementedOpcode(t *testing.T) {
	d := newHarness()
	d.Mem.Write(0, 0x20) // RIM, 8085-only

	var caught error
	d.OnFatal = func(err error) { caught = err }

	err := d.Run(context.Background())
	assert.NoError(t, err)
	assert.Error(t, caught)
}

func TestRunReturnsErrorWhenNoFatalHookConfigured(t *testing.T) {
	d := newHarness()
	d.Mem.Write(0, 0x30) // SIM, 8085-only

	err := d.Run(context.Background())
	assert.Error(t, err)
}

func TestServiceInterruptStagesHighestPriorityRequest(t *testing.T) {
	d := newHarness()
	d.Cpu.PC = 0x1234
	d.Cpu.SP = 0x2400

	d.Interrupts.TriggerHBlank()
	d.serviceInterrupt()

	assert.False(t, d.Interrupts.Enabled())
	assert.False(t, d.Interrupts.Waiting())

	cycles, err := d.Cpu.Step(d.Mem, d.Bank, d.Interrupts)
	assert.NoError(t, err)
	assert.Equal(t, byte(11), cycles)
	assert.Equal(t, uint16(0x0008), d.Cpu.PC) // RST 1
}

func TestServiceInterruptIsNoOpWhenDisabled(t *testing.T) {
	d := newHarness()
	d.Interrupts.Disable()
	d.Interrupts.TriggerVBlank() // latched only while enabled, so this is a no-op too

	d.serviceInterrupt()
	assert.False(t, d.Interrupts.Waiting())
}

func TestServiceInterruptClearsHaltedCpu(t *testing.T) {
	d := newHarness()
	d.Cpu.Halted = true
	d.Interrupts.TriggerVBlank()

	d.serviceInterrupt()
	assert.False(t, d.Cpu.Halted)
}

func TestPumpInterruptsAlternatesRequests(t *testing.T) {
	ints := interrupt.New()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	go PumpInterrupts(ctx, ints)

	time.Sleep(30 * time.Millisecond)
	assert.True(t, ints.Waiting())
	<-ctx.Done()
}
