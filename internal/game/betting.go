package game

import "fmt"

// ValidateAction checks whether a player at the given position may take
// the action. Illegal actions are rejected with a specific reason and
// produce no event; the caller may retry with a corrected action.
func (g *GameState) ValidateAction(position int, action Action, amount int) error {
	if g.Status != GameStatusInHand || g.Round >= Showdown {
		return validationErrorf("no hand in progress")
	}

	p := g.PlayerAt(position)
	if p == nil {
		return validationErrorf("no player at position %d", position)
	}
	if position != g.CurrentPlayerPosition {
		return validationErrorf("not your turn")
	}

	switch p.Status {
	case StatusFolded:
		return validationErrorf("player has folded")
	case StatusAllIn:
		return validationErrorf("player is all-in")
	case StatusOut:
		return validationErrorf("player is out of the game")
	}

	switch action {
	case Fold:
		return nil

	case Check:
		if g.CurrentBet != p.CurrentBet {
			return validationErrorf("cannot check, must call %d", g.CurrentBet-p.CurrentBet)
		}
		return nil

	case Call:
		if g.CurrentBet <= p.CurrentBet {
			return validationErrorf("nothing to call")
		}
		if p.Chips <= 0 {
			return validationErrorf("no chips to call with")
		}
		return nil

	case Bet:
		if g.CurrentBet != 0 {
			return validationErrorf("cannot bet, there is already a bet of %d", g.CurrentBet)
		}
		if amount > p.Chips+p.CurrentBet {
			return validationErrorf("insufficient chips")
		}
		if amount < g.Config.BigBlind && amount < p.Chips+p.CurrentBet {
			return validationErrorf("minimum bet is %d", g.Config.BigBlind)
		}
		return nil

	case Raise:
		if g.CurrentBet == 0 {
			return validationErrorf("cannot raise, no bet to raise")
		}
		if amount > p.Chips+p.CurrentBet {
			return validationErrorf("insufficient chips")
		}
		if amount <= g.CurrentBet {
			return validationErrorf("raise must exceed the current bet of %d", g.CurrentBet)
		}
		minRaise := g.CurrentBet + g.LastRaise
		// A raise below the minimum is only legal as an all-in.
		if amount < minRaise && amount < p.Chips+p.CurrentBet {
			return validationErrorf("minimum raise is %d", minRaise)
		}
		return nil

	case AllIn:
		if p.Chips <= 0 {
			return validationErrorf("no chips to wager")
		}
		return nil

	default:
		return validationErrorf("unknown action %d", int(action))
	}
}

// ApplyAction mutates state for an already-validated action: the acting
// player's chips and bets, the table's current bet and min-raise, the
// acted flags, and the next player to act.
func (g *GameState) ApplyAction(position int, action Action, amount int) {
	p := g.PlayerAt(position)
	if p == nil {
		return
	}

	if len(g.ActedSinceRaise) != len(g.Players) {
		g.ActedSinceRaise = make([]bool, len(g.Players))
	}
	g.ActedSinceRaise[position] = true
	last := action
	p.LastAction = &last

	switch action {
	case Fold:
		p.Status = StatusFolded

	case Check:
		// No chips move.

	case Call:
		p.contribute(g.CurrentBet - p.CurrentBet)

	case Bet:
		p.contribute(amount - p.CurrentBet)
		g.LastRaise = p.CurrentBet
		g.CurrentBet = p.CurrentBet
		g.resetActed(position)

	case Raise:
		p.contribute(amount - p.CurrentBet)
		g.LastRaise = p.CurrentBet - g.CurrentBet
		g.CurrentBet = p.CurrentBet
		g.resetActed(position)

	case AllIn:
		p.contribute(p.Chips)
		if p.CurrentBet > g.CurrentBet {
			g.LastRaise = p.CurrentBet - g.CurrentBet
			g.CurrentBet = p.CurrentBet
			g.resetActed(position)
		}

	default:
		panic(fmt.Sprintf("unhandled action %d", int(action)))
	}

	if g.RoundComplete() {
		g.CurrentPlayerPosition = -1
	} else {
		g.CurrentPlayerPosition = g.NextToAct(position + 1)
	}
}

// RoundComplete reports whether the current betting round is finished:
// either at most one player can still contest the pot, or everyone able to
// act has matched the current bet and acted since it was last raised.
func (g *GameState) RoundComplete() bool {
	if g.NonFoldedCount() <= 1 {
		return true
	}

	active := g.ActiveCount()
	if active == 0 {
		return true
	}
	if active == 1 {
		// A lone player who can act has nobody left to bet against once
		// they have matched the table.
		for _, p := range g.Players {
			if p.CanAct() {
				return p.CurrentBet == g.CurrentBet
			}
		}
	}

	for _, p := range g.Players {
		if !p.CanAct() {
			continue
		}
		if p.CurrentBet != g.CurrentBet {
			return false
		}
		if p.Position >= len(g.ActedSinceRaise) || !g.ActedSinceRaise[p.Position] {
			return false
		}
	}
	return true
}

// ShouldAutoAdvance reports whether the next street should be dealt
// without waiting for action: more than one player contests the pot but at
// most one of them can still act, so no further betting is possible. The
// caller spaces the resulting card reveals; the pacing is presentation,
// not correctness.
func (g *GameState) ShouldAutoAdvance() bool {
	return g.Status == GameStatusInHand &&
		g.Round < Showdown &&
		g.NonFoldedCount() > 1 &&
		g.ActiveCount() <= 1 &&
		g.RoundComplete()
}
