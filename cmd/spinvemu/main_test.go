package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunEmulatorReportsIOErrorOnMissingROM(t *testing.T) {
	code, err := runEmulator(filepath.Join(t.TempDir(), "does-not-exist.rom"), false, true, false)
	assert.Error(t, err)
	assert.Equal(t, exitIOError, code)
}

func TestRunExitsNonZeroWithoutRequiredArgument(t *testing.T) {
	code := run(nil)
	assert.Equal(t, exitStartup, code)
}

// runEmulator's CPU-fatal path calls os.Exit directly (matching the
// process-exit fatal hook described for cmd/spinvemu), so it is exercised
// end-to-end only manually; driver.OnFatal's dispatch itself is covered by
// the driver package's own tests.
