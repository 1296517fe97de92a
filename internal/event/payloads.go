package event

import (
	"github.com/lox/holdem-engine/internal/deck"
	"github.com/lox/holdem-engine/internal/game"
)

// GameCreated records the validated configuration a game was created with
type GameCreated struct {
	Config game.Config `json:"config"`
	Seed   string      `json:"seed,omitempty"`
}

// PlayerJoined records a player taking a seat
type PlayerJoined struct {
	Name          string `json:"name"`
	Position      int    `json:"position"`
	StartingChips int    `json:"startingChips"`
}

// HandStart captures everything random about a hand: the full shuffled
// deck order and each player's hole cards, keyed by position. Derivation
// has no RNG of its own.
type HandStart struct {
	DealerPosition     int                 `json:"dealerPosition"`
	SmallBlindPosition int                 `json:"smallBlindPosition"`
	BigBlindPosition   int                 `json:"bigBlindPosition"`
	Deck               []deck.Card         `json:"deck"`
	HoleCards          map[int][]deck.Card `json:"holeCards"`
}

// PostBlind records a forced blind
type PostBlind struct {
	BlindType string `json:"blindType"` // game.BlindSmall or game.BlindBig
	Amount    int    `json:"amount"`
	IsAllIn   bool   `json:"isAllIn"`
}

// PlayerAction is the payload for CHECK/BET/CALL/RAISE/ALL_IN/FOLD. Amount
// is the player's resulting total bet on the street (the bet-to or
// raise-to amount); zero for fold and check.
type PlayerAction struct {
	Amount int `json:"amount"`
}

// DealCommunity records a street's community cards
type DealCommunity struct {
	Round          string      `json:"round"`
	CommunityCards []deck.Card `json:"communityCards"`
}

// ShowdownReached records the final board when the hand reaches showdown
type ShowdownReached struct {
	CommunityCards []deck.Card `json:"communityCards"`
}

// RevealCards records a player showing their hole cards at showdown
type RevealCards struct {
	Cards []deck.Card `json:"cards"`
}

// AwardPot records the settlement: who won, what each winner was paid,
// and the pot total drained.
type AwardPot struct {
	Winners     []int       `json:"winners"`
	Payouts     map[int]int `json:"payouts"`
	PotTotal    int         `json:"potTotal"`
	WinningHand string      `json:"winningHandName,omitempty"`
}

// HandComplete closes out a hand
type HandComplete struct {
	Winners []int `json:"winners"`
}
