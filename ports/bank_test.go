package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ScottAndre/spinv-emulator/controls"
)

func TestInput1ReflectsPanel(t *testing.T) {
	panel := controls.New()
	b := New(panel, nil)

	assert.Equal(t, byte(0x08), b.Read(1))

	panel.SetCredit(true)
	panel.SetP1Fire(true)
	assert.Equal(t, byte(0x08|0x01|0x10), b.Read(1))
}

func TestInput2ReflectsPlayer2Only(t *testing.T) {
	panel := controls.New()
	b := New(panel, nil)

	panel.SetP1Left(true) // should not leak into input 2
	panel.SetP2Right(true)
	assert.Equal(t, byte(0x40), b.Read(2))
}

func TestUnmappedReadPortReturnsZero(t *testing.T) {
	b := New(controls.New(), nil)
	assert.Equal(t, byte(0), b.Read(7))
}

func TestShiftRegisterWriteThenRead(t *testing.T) {
	b := New(controls.New(), nil)

	b.Write(4, 0x12) // contents = 0x1200
	b.Write(4, 0x34) // contents = (0x1200>>8)|0x3400 = 0x3412
	b.Write(2, 0)
	assert.Equal(t, byte(0x34), b.Read(3))

	b.Write(2, 7)
	assert.Equal(t, byte(0x09), b.Read(3)) // (0x3412 >> (8-7)) & 0xff
}

func TestUnmappedWritePortIsIgnored(t *testing.T) {
	b := New(controls.New(), nil)
	assert.NotPanics(t, func() { b.Write(9, 0xff) })
}

func TestSoundAndWatchdogWritesAreAccepted(t *testing.T) {
	b := New(controls.New(), nil)
	assert.NotPanics(t, func() {
		b.Write(3, 0xff)
		b.Write(5, 0xff)
		b.Write(6, 0xff)
	})
}
