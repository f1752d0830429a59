// Command spinvemu runs the Intel 8080 / Space Invaders emulator core
// against a ROM image, either with the interactive terminal front end or
// headless for scripted smoke-testing. See original_source/emulator.c for
// the process this replaces (argv parsing, ROM load, thread start).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ScottAndre/spinv-emulator/controls"
	"github.com/ScottAndre/spinv-emulator/cpu"
	"github.com/ScottAndre/spinv-emulator/driver"
	"github.com/ScottAndre/spinv-emulator/interrupt"
	"github.com/ScottAndre/spinv-emulator/mem"
	"github.com/ScottAndre/spinv-emulator/ports"
	"github.com/ScottAndre/spinv-emulator/tui"
)

const (
	exitOK      = 0
	exitStartup = 1
	exitIOError = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var trace bool
	var headless bool
	var debug bool

	exitCode := exitOK

	cmd := &cobra.Command{
		Use:           "spinvemu <rom-file>",
		Short:         "Intel 8080 emulator for the 1978 Space Invaders arcade board",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			code, err := runEmulator(args[0], trace, headless, debug)
			exitCode = code
			return err
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "log a disassembled line for every retired instruction")
	cmd.Flags().BoolVar(&headless, "headless", false, "run without the terminal front end, paced by an internal 120 Hz ticker")
	cmd.Flags().BoolVar(&debug, "debug", false, "run the interactive single-step debugger instead of the real-time driver loop")
	cmd.MarkFlagsMutuallyExclusive("debug", "headless")
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		if exitCode == exitOK {
			exitCode = exitStartup
		}
		fmt.Fprintln(os.Stderr, err)
	}
	return exitCode
}

// runEmulator loads romPath into a fresh Memory and wires every
// collaborator together, then runs until the front end (or, headless, the
// driver loop itself) exits.
func runEmulator(romPath string, trace, headless, debug bool) (int, error) {
	level := slog.LevelInfo
	if trace {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	rom, err := os.ReadFile(romPath)
	if err != nil {
		log.Error("failed to read rom file", "path", romPath, "error", err)
		return exitIOError, err
	}

	m := mem.New()
	if truncated := m.LoadROM(rom); truncated {
		log.Warn("rom file larger than the ROM region, truncated", "path", romPath)
	}
	if len(rom) < mem.ROMEnd-mem.ROMStart+1 {
		log.Warn("rom file shorter than the ROM region, remainder left zeroed", "path", romPath, "bytes", len(rom))
	}

	panel := controls.New()
	bank := ports.New(panel, log)
	ints := interrupt.New()
	c := cpu.New()

	if debug {
		if err := cpu.Debug(c, m, bank, ints); err != nil {
			return exitStartup, err
		}
		return exitOK, nil
	}

	d := driver.New(c, m, bank, ints, log)
	d.Trace = trace
	d.OnFatal = func(err error) {
		log.Error("cpu cannot continue, stopping", "error", err)
		os.Exit(exitStartup)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driverDone := make(chan struct{})
	go func() {
		defer close(driverDone)
		if err := d.Run(ctx); err != nil {
			log.Error("driver loop exited with error", "error", err)
		}
	}()

	if headless {
		go driver.PumpInterrupts(ctx, ints)
		<-driverDone
		return exitOK, nil
	}

	if err := tui.Run(m, panel, ints); err != nil {
		return exitStartup, err
	}
	return exitOK, nil
}
