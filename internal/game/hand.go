package game

import (
	"github.com/lox/holdem-engine/internal/deck"
	"github.com/lox/holdem-engine/internal/evaluator"
	"github.com/lox/holdem-engine/internal/pot"
)

// Blind type names carried in PostBlind payloads
const (
	BlindSmall = "small"
	BlindBig   = "big"
)

// WonByFold is the recorded winning-hand name when a hand ends with every
// other player folding. No hands are evaluated in that case.
const WonByFold = "won by fold"

// AddPlayer seats a new player. Their buy-in joins the chips in play.
func (g *GameState) AddPlayer(id int, name string, position, chips int) {
	g.Players = append(g.Players, &Player{
		ID:       id,
		Name:     name,
		Position: position,
		Chips:    chips,
		Status:   StatusActive,
	})
	g.TotalChips += chips
}

// BeginHand resets per-hand state: seats and blinds assignments, the
// shuffled deck, and each surviving player's hole cards. holeCards is
// keyed by position; players with no chips sit out as Out.
func (g *GameState) BeginHand(handNumber, dealerPos, sbPos, bbPos int, deckCards []deck.Card, holeCards map[int][]deck.Card) {
	g.Status = GameStatusInHand
	g.Round = Preflop
	g.HandNumber = handNumber
	g.DealerPosition = dealerPos
	g.CurrentPlayerPosition = -1
	g.Pot = 0
	g.Pots = nil
	g.Winners = nil
	g.CurrentBet = 0
	g.LastRaise = g.Config.BigBlind
	g.CommunityCards = nil
	g.resetActed(-1)

	dealt := 0
	for _, p := range g.Players {
		p.CurrentBet = 0
		p.TotalBet = 0
		p.LastAction = nil
		p.HoleCards = nil
		p.IsDealer = p.Position == dealerPos
		p.IsSmallBlind = p.Position == sbPos
		p.IsBigBlind = p.Position == bbPos

		if p.Chips > 0 {
			p.Status = StatusActive
			p.HoleCards = holeCards[p.Position]
			dealt += len(p.HoleCards)
		} else {
			p.Status = StatusOut
		}
	}

	// The payload records the full shuffled deck; the hole cards above
	// came off the front of it.
	g.RemainingDeck = append([]deck.Card(nil), deckCards[dealt:]...)
}

// PostBlind posts a forced blind for the player at the position. Posting
// the big blind fixes the preflop first-to-act seat.
func (g *GameState) PostBlind(position int, blindType string, amount int) {
	p := g.PlayerAt(position)
	if p == nil {
		return
	}

	p.contribute(amount)
	if p.CurrentBet > g.CurrentBet {
		g.CurrentBet = p.CurrentBet
	}

	if blindType == BlindBig {
		// Players owe the full big blind even when the poster was short.
		if g.Config.BigBlind > g.CurrentBet {
			g.CurrentBet = g.Config.BigBlind
		}
		g.CurrentPlayerPosition = g.NextToAct(position + 1)
	}
}

// DealStreet advances to the next street: sweeps bets into the pot, burns
// a card, deals the street's community cards, resets per-street betting
// state and recomputes the first seat to act after the dealer.
func (g *GameState) DealStreet(street Street, cards []deck.Card) error {
	g.collectBets()
	g.Round = street
	g.CurrentBet = 0
	g.LastRaise = 0
	g.resetActed(-1)
	for _, p := range g.Players {
		p.LastAction = nil
	}

	if len(g.RemainingDeck) < len(cards)+1 {
		return consistencyErrorf(g.GameID, g.HandNumber, "deck exhausted dealing %s", street)
	}
	g.RemainingDeck = g.RemainingDeck[1:] // burn
	for i, c := range cards {
		if g.RemainingDeck[i] != c {
			return consistencyErrorf(g.GameID, g.HandNumber, "dealt card %s does not match deck order %s", c, g.RemainingDeck[i])
		}
	}
	g.RemainingDeck = g.RemainingDeck[len(cards):]
	g.CommunityCards = append(g.CommunityCards, cards...)

	g.CurrentPlayerPosition = g.NextToAct(g.DealerPosition + 1)
	if g.RoundComplete() {
		g.CurrentPlayerPosition = -1
	}
	return nil
}

// BeginShowdown sweeps the final bets, builds the pots from contributions
// and determines each pot's winners. With a single contender the whole pot
// goes to them as a win by fold, with no hand evaluation.
func (g *GameState) BeginShowdown() {
	g.collectBets()
	g.Round = Showdown
	g.CurrentPlayerPosition = -1
	g.Pots = pot.Calculate(g.Contributions())

	if g.NonFoldedCount() == 1 {
		var lone int
		for _, p := range g.Players {
			if p.InHand() {
				lone = p.Position
			}
		}
		for i := range g.Pots {
			g.Pots[i].Winners = []int{lone}
			g.Pots[i].WinningHand = WonByFold
		}
		return
	}

	hands := make(map[int]evaluator.HandRank)
	for _, p := range g.Players {
		if p.InHand() {
			hands[p.Position] = evaluator.Evaluate(append(append([]deck.Card(nil), p.HoleCards...), g.CommunityCards...))
		}
	}
	pot.Distribute(g.Pots, hands)
}

// RevealCards marks a player's hole cards as shown at showdown
func (g *GameState) RevealCards(position int) {
	if p := g.PlayerAt(position); p != nil {
		p.Revealed = true
	}
}

// ApplyPayouts settles the pots: winners receive their shares and the pot
// empties. The recorded total must match the chips in the pot.
func (g *GameState) ApplyPayouts(potTotal int, winners []int) error {
	if potTotal != g.Pot {
		return consistencyErrorf(g.GameID, g.HandNumber, "award pot total %d does not match pot %d", potTotal, g.Pot)
	}

	payouts := pot.Award(g.Pots)
	paid := 0
	for position, amount := range payouts {
		if p := g.PlayerAt(position); p != nil {
			p.Chips += amount
		}
		paid += amount
	}
	if paid != g.Pot {
		return consistencyErrorf(g.GameID, g.HandNumber, "payouts %d do not drain pot %d", paid, g.Pot)
	}

	g.Pot = 0
	g.Winners = winners
	return nil
}

// CompleteHand closes the hand: busted players are out, and the game is
// complete once a single player holds every chip.
func (g *GameState) CompleteHand(winners []int) {
	g.Status = GameStatusHandComplete
	g.Winners = winners
	g.CurrentPlayerPosition = -1

	stillIn := 0
	for _, p := range g.Players {
		if p.Chips == 0 {
			p.Status = StatusOut
		}
		if p.Chips > 0 {
			stillIn++
		}
	}
	if stillIn <= 1 {
		g.Status = GameStatusComplete
	}
}

// Payouts computes the pot payouts without mutating state, for building
// the award record.
func (g *GameState) Payouts() (map[int]int, []int) {
	pots := make([]pot.Pot, len(g.Pots))
	copy(pots, g.Pots)
	payouts := pot.Award(pots)

	seen := make(map[int]bool)
	var winners []int
	for _, pt := range pots {
		for _, w := range pt.Winners {
			if !seen[w] {
				seen[w] = true
				winners = append(winners, w)
			}
		}
	}
	return payouts, winners
}
