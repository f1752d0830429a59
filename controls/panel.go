// Package controls holds the cabinet's bit-packed button state: two
// players' start/fire/left/right and a shared credit flag.
//
// A Panel is written by the keyboard collaborator and read by the port
// bank (ports.Bank); never the other way around. See
// original_source/controls.c for the hardware this models.
package controls

import "sync"

// Player holds the instantaneous pressed/released state of one player's
// controls.
type Player struct {
	Start bool
	Fire  bool
	Left  bool
	Right bool
}

// Panel is the shared control-panel state. The zero value is a Panel with
// no credits and all buttons released, ready to use.
type Panel struct {
	mu      sync.RWMutex
	credit  bool
	player1 Player
	player2 Player
}

// New returns an empty Panel.
func New() *Panel {
	return &Panel{}
}

// SetCredit sets whether a credit has been inserted.
func (p *Panel) SetCredit(pressed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.credit = pressed
}

// Credit reports whether a credit is currently registered.
func (p *Panel) Credit() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.credit
}

// SetP1Start, SetP1Fire, SetP1Left and SetP1Right toggle player 1's
// buttons.
func (p *Panel) SetP1Start(pressed bool) { p.set(&p.player1.Start, pressed) }
func (p *Panel) SetP1Fire(pressed bool)  { p.set(&p.player1.Fire, pressed) }
func (p *Panel) SetP1Left(pressed bool)  { p.set(&p.player1.Left, pressed) }
func (p *Panel) SetP1Right(pressed bool) { p.set(&p.player1.Right, pressed) }

// SetP2Start, SetP2Fire, SetP2Left and SetP2Right toggle player 2's
// buttons.
func (p *Panel) SetP2Start(pressed bool) { p.set(&p.player2.Start, pressed) }
func (p *Panel) SetP2Fire(pressed bool)  { p.set(&p.player2.Fire, pressed) }
func (p *Panel) SetP2Left(pressed bool)  { p.set(&p.player2.Left, pressed) }
func (p *Panel) SetP2Right(pressed bool) { p.set(&p.player2.Right, pressed) }

func (p *Panel) set(field *bool, pressed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	*field = pressed
}

// Player1 and Player2 return a snapshot of each player's control state.
func (p *Panel) Player1() Player { return p.snapshot(&p.player1) }
func (p *Panel) Player2() Player { return p.snapshot(&p.player2) }

func (p *Panel) snapshot(player *Player) Player {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return *player
}
