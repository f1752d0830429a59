// Package interrupt implements the thread-safe interrupt latch that
// couples the video refresh (display thread) to instruction execution (CPU
// thread). See spec.md §4.2 and original_source/interrupts.c.
package interrupt

import "sync"

// Kind identifies which of the two video-driven interrupt sources
// requested service.
type Kind int

const (
	// None means no interrupt is pending.
	None Kind = iota
	// HBlank is the mid-frame refresh interrupt (RST 1).
	HBlank
	// VBlank is the end-of-frame refresh interrupt (RST 2).
	VBlank
)

// HBlankInstruction and VBlankInstruction are the three-byte synthetic
// instructions the CPU stages when injecting an interrupt: RST 1 jumps to
// 0x0008, RST 2 jumps to 0x0010.
var (
	HBlankInstruction = [3]byte{0xcf, 0x00, 0x00}
	VBlankInstruction = [3]byte{0xd7, 0x00, 0x00}
)

// A Latch holds the two pending-interrupt request bits and the interrupt
// enable bit (INTE). Requests and the enable bit are guarded by separate
// mutexes; holding both at once is never required and never attempted, so
// there is no lock-ordering hazard to reason about.
//
// The zero value has interrupts disabled and no request pending. Callers
// that want the 8080's power-on convention of interrupts enabled should
// call Enable explicitly.
type Latch struct {
	requestsMu sync.Mutex
	hblank     bool
	vblank     bool

	enableMu sync.Mutex
	enabled  bool
}

// New returns a Latch with interrupts enabled and no request pending,
// matching original_source/interrupts.c's initialize_interrupts.
func New() *Latch {
	l := &Latch{}
	l.Enable()
	return l
}

// Enable sets INTE, allowing subsequent TriggerHBlank/TriggerVBlank calls
// to latch a request.
func (l *Latch) Enable() {
	l.enableMu.Lock()
	defer l.enableMu.Unlock()
	l.enabled = true
}

// Disable clears INTE. TriggerHBlank/TriggerVBlank become no-ops until the
// next Enable.
func (l *Latch) Disable() {
	l.enableMu.Lock()
	defer l.enableMu.Unlock()
	l.enabled = false
}

// Enabled reports the current state of INTE.
func (l *Latch) Enabled() bool {
	l.enableMu.Lock()
	defer l.enableMu.Unlock()
	return l.enabled
}

// TriggerHBlank latches an HBLANK request, unless interrupts are disabled.
func (l *Latch) TriggerHBlank() { l.trigger(&l.hblank) }

// TriggerVBlank latches a VBLANK request, unless interrupts are disabled.
func (l *Latch) TriggerVBlank() { l.trigger(&l.vblank) }

func (l *Latch) trigger(bit *bool) {
	if !l.Enabled() {
		return
	}
	l.requestsMu.Lock()
	defer l.requestsMu.Unlock()
	*bit = true
}

// Waiting reports whether any interrupt request is latched.
func (l *Latch) Waiting() bool {
	l.requestsMu.Lock()
	defer l.requestsMu.Unlock()
	return l.hblank || l.vblank
}

// Pending returns the highest-priority latched request, or None if
// nothing is pending. HBLANK takes priority over VBLANK when both are set.
func (l *Latch) Pending() Kind {
	l.requestsMu.Lock()
	defer l.requestsMu.Unlock()
	switch {
	case l.hblank:
		return HBlank
	case l.vblank:
		return VBlank
	default:
		return None
	}
}

// LoadInterruptInstruction writes the three-byte synthetic instruction for
// the highest-priority pending request into dest. If nothing is pending,
// dest is left as all zeros (NOP NOP NOP), which is harmless but indicates
// caller error — LoadInterruptInstruction should only be called after
// Waiting reports true.
func (l *Latch) LoadInterruptInstruction(dest *[3]byte) {
	switch l.Pending() {
	case HBlank:
		*dest = HBlankInstruction
	case VBlank:
		*dest = VBlankInstruction
	default:
		*dest = [3]byte{}
	}
}

// Clear clears both request bits without touching INTE.
func (l *Latch) Clear() {
	l.requestsMu.Lock()
	defer l.requestsMu.Unlock()
	l.hblank = false
	l.vblank = false
}
