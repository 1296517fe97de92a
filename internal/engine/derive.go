package engine

import (
	"fmt"

	"github.com/lox/holdem-engine/internal/event"
	"github.com/lox/holdem-engine/internal/game"
)

// Derive folds an ordered event sequence into the game state it describes.
// It is a pure function: identical events always produce identical state,
// with no clock or RNG dependence. All randomness arrives as HAND_START
// payload. Any invariant violation aborts derivation with a
// ConsistencyError; nothing is silently corrected.
func Derive(events []event.Event) (*game.GameState, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("cannot derive state from an empty event log")
	}
	if events[0].Type != event.TypeGameCreated {
		return nil, fmt.Errorf("event log must begin with %s, got %s", event.TypeGameCreated, events[0].Type)
	}

	var state *game.GameState
	lastHand := 0
	lastSeq := 0

	for _, e := range events {
		// Sequences are gapless and monotonic within a hand; hands only
		// move forward.
		switch {
		case e.HandNumber < lastHand:
			return nil, &game.ConsistencyError{GameID: e.GameID, HandNumber: e.HandNumber,
				Detail: fmt.Sprintf("hand number went backwards after %d", lastHand)}
		case e.HandNumber > lastHand:
			lastHand = e.HandNumber
			lastSeq = 0
		}
		if e.SequenceNumber != lastSeq+1 {
			return nil, &game.ConsistencyError{GameID: e.GameID, HandNumber: e.HandNumber,
				Detail: fmt.Sprintf("sequence gap: expected %d, got %d", lastSeq+1, e.SequenceNumber)}
		}
		lastSeq = e.SequenceNumber

		next, err := apply(state, e)
		if err != nil {
			return nil, err
		}
		state = next

		if err := state.CheckConservation(); err != nil {
			return nil, err
		}
	}

	return state, nil
}

// apply folds a single event into the state
func apply(state *game.GameState, e event.Event) (*game.GameState, error) {
	if state == nil && e.Type != event.TypeGameCreated {
		return nil, fmt.Errorf("event %s before %s", e.Type, event.TypeGameCreated)
	}

	switch e.Type {
	case event.TypeGameCreated:
		payload, err := event.Decode[event.GameCreated](e)
		if err != nil {
			return nil, err
		}
		if err := payload.Config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid game config: %w", err)
		}
		return game.NewGameState(e.GameID, payload.Config), nil

	case event.TypePlayerJoined:
		payload, err := event.Decode[event.PlayerJoined](e)
		if err != nil {
			return nil, err
		}
		if e.PlayerID == nil {
			return nil, consistencyError(e, "%s without player id", e.Type)
		}
		state.AddPlayer(*e.PlayerID, payload.Name, payload.Position, payload.StartingChips)
		return state, nil

	case event.TypeHandStart:
		payload, err := event.Decode[event.HandStart](e)
		if err != nil {
			return nil, err
		}
		state.BeginHand(e.HandNumber, payload.DealerPosition, payload.SmallBlindPosition,
			payload.BigBlindPosition, payload.Deck, payload.HoleCards)
		return state, nil

	case event.TypePostBlind:
		payload, err := event.Decode[event.PostBlind](e)
		if err != nil {
			return nil, err
		}
		position, err := positionOf(state, e)
		if err != nil {
			return nil, err
		}
		state.PostBlind(position, payload.BlindType, payload.Amount)
		return state, nil

	case event.TypeFold, event.TypeCheck, event.TypeBet, event.TypeCall, event.TypeRaise, event.TypeAllIn:
		payload, err := event.Decode[event.PlayerAction](e)
		if err != nil {
			return nil, err
		}
		position, err := positionOf(state, e)
		if err != nil {
			return nil, err
		}
		action, err := actionFor(e.Type)
		if err != nil {
			return nil, err
		}
		// Re-validate on replay: an accepted event that no longer
		// validates means the log is corrupt.
		if err := state.ValidateAction(position, action, payload.Amount); err != nil {
			return nil, consistencyError(e, "recorded %s is not legal on replay: %v", e.Type, err)
		}
		state.ApplyAction(position, action, payload.Amount)
		return state, nil

	case event.TypeDealCommunity:
		payload, err := event.Decode[event.DealCommunity](e)
		if err != nil {
			return nil, err
		}
		street, err := parseStreet(payload.Round)
		if err != nil {
			return nil, consistencyError(e, "%v", err)
		}
		if len(payload.CommunityCards) != street.CommunityCardCount() {
			return nil, consistencyError(e, "%s deals %d cards, got %d",
				street, street.CommunityCardCount(), len(payload.CommunityCards))
		}
		if err := state.DealStreet(street, payload.CommunityCards); err != nil {
			return nil, err
		}
		return state, nil

	case event.TypeShowdown:
		payload, err := event.Decode[event.ShowdownReached](e)
		if err != nil {
			return nil, err
		}
		if len(payload.CommunityCards) != len(state.CommunityCards) {
			return nil, consistencyError(e, "showdown board has %d cards, state has %d",
				len(payload.CommunityCards), len(state.CommunityCards))
		}
		state.BeginShowdown()
		return state, nil

	case event.TypeRevealCards:
		position, err := positionOf(state, e)
		if err != nil {
			return nil, err
		}
		state.RevealCards(position)
		return state, nil

	case event.TypeAwardPot:
		payload, err := event.Decode[event.AwardPot](e)
		if err != nil {
			return nil, err
		}
		if err := state.ApplyPayouts(payload.PotTotal, payload.Winners); err != nil {
			return nil, err
		}
		return state, nil

	case event.TypeHandComplete:
		payload, err := event.Decode[event.HandComplete](e)
		if err != nil {
			return nil, err
		}
		state.CompleteHand(payload.Winners)
		return state, nil

	default:
		return nil, consistencyError(e, "unknown event type %s", e.Type)
	}
}

func positionOf(state *game.GameState, e event.Event) (int, error) {
	if e.PlayerID == nil {
		return 0, consistencyError(e, "%s without player id", e.Type)
	}
	p := state.PlayerByID(*e.PlayerID)
	if p == nil {
		return 0, consistencyError(e, "%s references unknown player %d", e.Type, *e.PlayerID)
	}
	return p.Position, nil
}

func actionFor(t event.Type) (game.Action, error) {
	switch t {
	case event.TypeFold:
		return game.Fold, nil
	case event.TypeCheck:
		return game.Check, nil
	case event.TypeBet:
		return game.Bet, nil
	case event.TypeCall:
		return game.Call, nil
	case event.TypeRaise:
		return game.Raise, nil
	case event.TypeAllIn:
		return game.AllIn, nil
	default:
		return 0, fmt.Errorf("event type %s is not a player action", t)
	}
}

func parseStreet(name string) (game.Street, error) {
	for s := game.Preflop; s <= game.Showdown; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown street %q", name)
}

func consistencyError(e event.Event, format string, args ...any) *game.ConsistencyError {
	return &game.ConsistencyError{
		GameID:     e.GameID,
		HandNumber: e.HandNumber,
		Detail:     fmt.Sprintf(format, args...),
	}
}
