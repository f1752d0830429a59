// Package driver ties the CPU, memory, port bank and interrupt latch
// together into a real-time-paced run loop: fetch-execute one instruction,
// service a pending interrupt if one is latched and enabled, and pace
// wall-clock time against the 2 MHz clock the original board ran at. See
// original_source/emulator.c (emulate_cpu) and hejops-gone/cpu/cpu.go
// (tick/loop), which this generalizes from a fixed NES clock rate to a
// cycle count that varies instruction to instruction.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ScottAndre/spinv-emulator/cpu"
	"github.com/ScottAndre/spinv-emulator/disasm"
	"github.com/ScottAndre/spinv-emulator/interrupt"
	"github.com/ScottAndre/spinv-emulator/mem"
	"github.com/ScottAndre/spinv-emulator/ports"
)

// cyclePeriod is the wall-clock duration of one 8080 clock cycle on the
// original board's 2 MHz crystal.
const cyclePeriod = 500 * time.Nanosecond

// A Driver owns the CPU and its collaborators and runs the fetch-execute
// loop against a real-time clock, injecting RST 1/RST 2 whenever the
// display collaborator has latched a request and interrupts are enabled.
// It does not own a goroutine itself; the caller decides whether Run
// executes on its own goroutine or the caller's.
type Driver struct {
	Cpu        *cpu.Cpu
	Mem        *mem.Memory
	Bank       *ports.Bank
	Interrupts *interrupt.Latch

	// Trace, when set, logs a disassembled line for every retired
	// instruction at slog.LevelDebug.
	Trace bool

	// OnFatal, if set, is called instead of Run returning an error when
	// Step reports an unimplemented or 8085-only opcode. cmd/spinvemu
	// wires this to a process exit; tests wire it to a function that
	// records the error.
	OnFatal func(error)

	log              *slog.Logger
	lastOversleepLog time.Time
}

// New returns a Driver wired to the given collaborators. A nil logger
// falls back to slog.Default().
func New(c *cpu.Cpu, m *mem.Memory, bank *ports.Bank, interrupts *interrupt.Latch, log *slog.Logger) *Driver {
	if log == nil {
		log = slog.Default()
	}
	return &Driver{Cpu: c, Mem: m, Bank: bank, Interrupts: interrupts, log: log}
}

// Run executes instructions until ctx is cancelled or Step reports an
// error. A cancelled context is the normal way to stop the loop.
func (d *Driver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		d.serviceInterrupt()

		start := time.Now()
		traceLine, shouldTrace := d.beforeTrace()

		cycles, err := d.Cpu.Step(d.Mem, d.Bank, d.Interrupts)
		if err != nil {
			d.log.Error("cpu cannot execute opcode", "error", err)
			if d.OnFatal != nil {
				d.OnFatal(err)
				return nil
			}
			return err
		}

		if shouldTrace {
			d.log.Debug("retired instruction", "line", traceLine, "cycles", cycles)
		}

		d.pace(start, cycles)
	}
}

// serviceInterrupt stages the highest-priority pending interrupt if one is
// latched and INTE is set, clearing the request and INTE in the same
// fashion original_source/emulator.c's main loop does before calling
// emulate() with the synthesized RST.
func (d *Driver) serviceInterrupt() {
	if !d.Interrupts.Waiting() || !d.Interrupts.Enabled() {
		return
	}
	var buf [3]byte
	d.Interrupts.LoadInterruptInstruction(&buf)
	d.Interrupts.Disable()
	d.Cpu.StageInterrupt(buf)
	d.Interrupts.Clear()
	d.Cpu.Halted = false
}

func (d *Driver) beforeTrace() (string, bool) {
	if !d.Trace {
		return "", false
	}
	var op [3]byte
	pc := d.Cpu.PC
	op[0] = d.Mem.Read(pc)
	op[1] = d.Mem.Read(pc + 1)
	op[2] = d.Mem.Read(pc + 2)
	return fmt.Sprintf("%04x: %s", pc, disasm.Disassemble(op)), true
}

// pace sleeps off whatever's left of the instruction's cycle budget after
// start, or logs a rate-limited warning if execution (plus Go scheduling
// jitter) already blew through it.
func (d *Driver) pace(start time.Time, cycles byte) {
	budget := cyclePeriod * time.Duration(cycles)
	elapsed := time.Since(start)
	if elapsed < budget {
		time.Sleep(budget - elapsed)
		return
	}
	d.logOversleep(elapsed - budget)
}

func (d *Driver) logOversleep(over time.Duration) {
	now := time.Now()
	if now.Sub(d.lastOversleepLog) < time.Second {
		return
	}
	d.lastOversleepLog = now
	d.log.Warn("instruction pacing fell behind the 2 MHz clock", "over", over)
}

// PumpInterrupts alternates HBlank/VBlank triggers at 120 Hz (twice the 60
// Hz field rate), standing in for the display collaborator when running
// headless with no real VRAM consumer to drive the latch.
func PumpInterrupts(ctx context.Context, interrupts *interrupt.Latch) {
	ticker := time.NewTicker(time.Second / 120)
	defer ticker.Stop()
	hblank := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if hblank {
				interrupts.TriggerHBlank()
			} else {
				interrupts.TriggerVBlank()
			}
			hblank = !hblank
		}
	}
}
