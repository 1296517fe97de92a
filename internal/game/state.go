package game

import (
	"github.com/lox/holdem-engine/internal/deck"
	"github.com/lox/holdem-engine/internal/pot"
)

// GameStatus describes the lifecycle of a game
type GameStatus string

const (
	GameStatusWaiting      GameStatus = "waiting"
	GameStatusInHand       GameStatus = "in_hand"
	GameStatusHandComplete GameStatus = "hand_complete"
	GameStatusComplete     GameStatus = "completed"
)

// GameState is the full state of a game, derived from the event log. It is
// never the source of truth: folding the ordered event sequence for a game
// always reproduces it exactly.
type GameState struct {
	GameID                string      `json:"gameId"`
	Status                GameStatus  `json:"status"`
	Config                Config      `json:"config"`
	Round                 Street      `json:"round"`
	Players               []*Player   `json:"players"`
	DealerPosition        int         `json:"dealerPosition"`
	CurrentPlayerPosition int         `json:"currentPlayerPosition"` // -1 when nobody can act
	Pot                   int         `json:"pot"`
	Pots                  []pot.Pot   `json:"pots,omitempty"`
	CurrentBet            int         `json:"currentBet"`
	LastRaise             int         `json:"lastRaise"`
	CommunityCards        []deck.Card `json:"communityCards"`
	RemainingDeck         []deck.Card `json:"remainingDeck,omitempty"`
	HandNumber            int         `json:"handNumber"`
	Winners               []int       `json:"winners,omitempty"`
	TotalChips            int         `json:"totalChips"`

	// Tracks who has acted since the last bet or raise increased the
	// current bet; indexed by position. Reset when the bet goes up.
	ActedSinceRaise []bool `json:"-"`
}

// NewGameState creates the empty state of a freshly created game
func NewGameState(gameID string, cfg Config) *GameState {
	return &GameState{
		GameID:                gameID,
		Status:                GameStatusWaiting,
		Config:                cfg,
		CurrentPlayerPosition: -1,
	}
}

// PlayerAt returns the player at a seat position, or nil
func (g *GameState) PlayerAt(position int) *Player {
	for _, p := range g.Players {
		if p.Position == position {
			return p
		}
	}
	return nil
}

// PlayerByID returns the player with the given id, or nil
func (g *GameState) PlayerByID(id int) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// NonFoldedCount returns how many players are still eligible to win
func (g *GameState) NonFoldedCount() int {
	n := 0
	for _, p := range g.Players {
		if p.InHand() {
			n++
		}
	}
	return n
}

// ActiveCount returns how many players can still take betting actions
func (g *GameState) ActiveCount() int {
	n := 0
	for _, p := range g.Players {
		if p.CanAct() {
			n++
		}
	}
	return n
}

// NextToAct returns the first position at or after from (cycling seat
// order) whose player can act, or -1 when no one can.
func (g *GameState) NextToAct(from int) int {
	n := len(g.Players)
	if n == 0 {
		return -1
	}
	for i := 0; i < n; i++ {
		position := ((from + i) % n + n) % n
		if p := g.PlayerAt(position); p != nil && p.CanAct() {
			return position
		}
	}
	return -1
}

// Contributions returns each player's cumulative contribution this hand,
// in the shape the pot engine consumes.
func (g *GameState) Contributions() []pot.Contribution {
	contribs := make([]pot.Contribution, 0, len(g.Players))
	for _, p := range g.Players {
		if p.TotalBet > 0 {
			contribs = append(contribs, pot.Contribution{
				Position: p.Position,
				Amount:   p.TotalBet,
				Folded:   !p.InHand(),
			})
		}
	}
	return contribs
}

// TotalPot returns the collected pot plus live street bets, the number a
// player would call "the pot".
func (g *GameState) TotalPot() int {
	total := g.Pot
	for _, p := range g.Players {
		total += p.CurrentBet
	}
	return total
}

// CheckConservation verifies the chip conservation invariant: stacks plus
// collected pots plus live street bets always equal the chips in play.
func (g *GameState) CheckConservation() error {
	total := g.Pot
	for _, p := range g.Players {
		if p.Chips < 0 {
			return consistencyErrorf(g.GameID, g.HandNumber, "player %d has negative chips %d", p.ID, p.Chips)
		}
		total += p.Chips + p.CurrentBet
	}
	if total != g.TotalChips {
		return consistencyErrorf(g.GameID, g.HandNumber, "chip conservation violated: %d in play, expected %d", total, g.TotalChips)
	}
	return nil
}

// collectBets sweeps the current street bets into the pot
func (g *GameState) collectBets() {
	for _, p := range g.Players {
		g.Pot += p.CurrentBet
		p.CurrentBet = 0
	}
}

// resetActed clears the acted flags, optionally keeping one position set.
// Called when a bet or raise reopens the action.
func (g *GameState) resetActed(keep int) {
	if len(g.ActedSinceRaise) != len(g.Players) {
		g.ActedSinceRaise = make([]bool, len(g.Players))
	}
	for i := range g.ActedSinceRaise {
		g.ActedSinceRaise[i] = i == keep
	}
}
