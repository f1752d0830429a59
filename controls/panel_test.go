package controls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreditToggle(t *testing.T) {
	p := New()
	assert.False(t, p.Credit())
	p.SetCredit(true)
	assert.True(t, p.Credit())
	p.SetCredit(false)
	assert.False(t, p.Credit())
}

func TestPlayer1Independent(t *testing.T) {
	p := New()
	p.SetP1Start(true)
	p.SetP1Fire(true)

	got := p.Player1()
	assert.True(t, got.Start)
	assert.True(t, got.Fire)
	assert.False(t, got.Left)
	assert.False(t, got.Right)

	// player 2 untouched
	assert.Equal(t, Player{}, p.Player2())
}

func TestPlayersAreIndependentBlocks(t *testing.T) {
	p := New()
	p.SetP1Left(true)
	p.SetP2Right(true)

	assert.True(t, p.Player1().Left)
	assert.False(t, p.Player1().Right)
	assert.False(t, p.Player2().Left)
	assert.True(t, p.Player2().Right)
}
