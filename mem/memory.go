// Package mem implements the 16 KiB byte-addressable memory map shared by
// the CPU thread and the display thread.
//
// There is no mirroring of the 64 KiB address space onto the underlying 16
// KiB array beyond a simple `addr & 0x3fff` mask — real Space Invaders
// hardware never addresses past 0x3fff, and ROMs that do are a bug in the
// caller, not a case this package needs to handle gracefully.
package mem

const (
	// Size is the width of the emulated address space actually backed by
	// storage. Addresses outside [0, Size) are masked down into it.
	Size = 0x4000

	// ROMStart and ROMEnd bound the read-only program region (inclusive).
	ROMStart = 0x0000
	ROMEnd   = 0x1fff

	// RAMStart and RAMEnd bound scratch RAM (inclusive).
	RAMStart = 0x2000
	RAMEnd   = 0x23ff

	// VRAMStart and VRAMEnd bound the framebuffer (inclusive). See
	// spec.md §6 for the on-screen layout of this region.
	VRAMStart = 0x2400
	VRAMEnd   = 0x3fff
)

// A Memory is the linear 16 KiB store backing ROM, RAM and VRAM. The zero
// value is a fully zeroed 16 KiB array, ready to use.
//
// Memory is shared between the CPU thread (read/write) and the display
// thread (read-only, VRAM only). Torn reads of VRAM during a CPU write are
// tolerated — the hardware being emulated has no double buffering either,
// so a frame of visual noise is faithful, not a bug. No lock guards access.
type Memory struct {
	bytes [Size]byte
}

// New returns a freshly zeroed Memory.
func New() *Memory {
	return &Memory{}
}

func mask(addr uint16) uint16 {
	return addr & (Size - 1)
}

// Read returns the byte at addr, wrapping addr modulo Size.
func (m *Memory) Read(addr uint16) byte {
	return m.bytes[mask(addr)]
}

// Write stores data at addr, wrapping addr modulo Size.
//
// Writes into the ROM region are not rejected — the original hardware has
// no write protection on the bus, and a faithful emulator must not crash a
// ROM that (incorrectly, or for a copy-protection check) writes there. The
// write simply lands in the backing array like any other.
func (m *Memory) Write(addr uint16, data byte) {
	m.bytes[mask(addr)] = data
}

// VRAM returns a live view (not a copy) over the framebuffer region, for
// the display collaborator to read. Mutating the returned slice mutates
// Memory directly, mirroring how the original hardware exposes no
// indirection between VRAM and the rest of the address space.
func (m *Memory) VRAM() []byte {
	return m.bytes[VRAMStart : VRAMEnd+1]
}

// LoadROM copies program into the ROM region starting at address 0. It
// reports whether program was larger than the ROM region and was truncated
// to fit — the caller is expected to log a warning in that case. A program
// shorter than the region leaves the rest of it zeroed; neither case is a
// hard error, since trailing zeros are an explicitly allowed ROM shape
// (spec.md §6).
func (m *Memory) LoadROM(program []byte) (truncated bool) {
	n := copy(m.bytes[ROMStart:ROMEnd+1], program)
	return n < len(program)
}
