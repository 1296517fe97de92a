package game

import "github.com/lox/holdem-engine/internal/deck"

// PlayerStatus describes whether a player can still act in the hand
type PlayerStatus int

const (
	StatusActive PlayerStatus = iota
	StatusFolded
	StatusAllIn
	StatusOut
)

func (s PlayerStatus) String() string {
	return [...]string{"active", "folded", "allin", "out"}[s]
}

// Player represents a player within a hand. Part of derived state, never
// persisted directly.
type Player struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Position     int          `json:"position"`
	Chips        int          `json:"chips"`
	CurrentBet   int          `json:"currentBet"`
	TotalBet     int          `json:"totalBet"`
	HoleCards    []deck.Card  `json:"holeCards,omitempty"`
	Status       PlayerStatus `json:"status"`
	IsDealer     bool         `json:"isDealer"`
	IsSmallBlind bool         `json:"isSmallBlind"`
	IsBigBlind   bool         `json:"isBigBlind"`
	LastAction   *Action      `json:"lastAction,omitempty"`

	// Revealed is set when the player shows their hole cards at showdown.
	// Per-viewer redaction of unrevealed cards is a broadcast concern,
	// not handled here.
	Revealed bool `json:"revealed,omitempty"`
}

// CanAct returns true if the player may still take betting actions
func (p *Player) CanAct() bool {
	return p.Status == StatusActive
}

// InHand returns true if the player is still eligible to win the pot
func (p *Player) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// contribute moves up to amount chips into the player's street bet, capped
// at their stack. A player left with zero chips transitions to all-in.
func (p *Player) contribute(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.CurrentBet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.Status = StatusAllIn
	}
	return amount
}
