// Package event defines the append-only record of everything that happens
// in a game. Events are the only source of truth: game state is always
// reproducible by folding a game's ordered event sequence, so the schema
// here must stay stable for replay compatibility.
package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type discriminates events on the wire
type Type string

const (
	TypeGameCreated   Type = "GAME_CREATED"
	TypePlayerJoined  Type = "PLAYER_JOINED"
	TypeHandStart     Type = "HAND_START"
	TypePostBlind     Type = "POST_BLIND"
	TypeFold          Type = "FOLD"
	TypeCheck         Type = "CHECK"
	TypeBet           Type = "BET"
	TypeCall          Type = "CALL"
	TypeRaise         Type = "RAISE"
	TypeAllIn         Type = "ALL_IN"
	TypeDealCommunity Type = "DEAL_COMMUNITY"
	TypeShowdown      Type = "SHOWDOWN"
	TypeRevealCards   Type = "REVEAL_CARDS"
	TypeAwardPot      Type = "AWARD_POT"
	TypeHandComplete  Type = "HAND_COMPLETE"
)

func (t Type) String() string {
	return string(t)
}

// Event is a single immutable entry in a game's log. SequenceNumber is
// monotonic and gapless within a (game, hand); it is assigned by the Log
// on append and never reused.
//
// The gameId field is an opaque string (the engine issues UUIDs), not a
// numeric id. Consumers keying games by integers in external storage
// must map the string at their own boundary; the logged form is the
// contract.
type Event struct {
	GameID         string          `json:"gameId"`
	HandNumber     int             `json:"handNumber"`
	SequenceNumber int             `json:"sequenceNumber"`
	Type           Type            `json:"eventType"`
	PlayerID       *int            `json:"playerId,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// New builds an event with a marshalled payload. Sequence numbers are left
// for the Log to assign.
func New(gameID string, handNumber int, typ Type, playerID *int, payload any) (Event, error) {
	e := Event{
		GameID:     gameID,
		HandNumber: handNumber,
		Type:       typ,
		PlayerID:   playerID,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("marshal %s payload: %w", typ, err)
		}
		e.Payload = data
	}
	return e, nil
}

// Decode unmarshals an event's payload into the given payload type
func Decode[T any](e Event) (T, error) {
	var payload T
	if len(e.Payload) == 0 {
		return payload, fmt.Errorf("event %s has no payload", e.Type)
	}
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return payload, fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return payload, nil
}

// IsPlayerAction reports whether the type is one of the betting actions
func (t Type) IsPlayerAction() bool {
	switch t {
	case TypeFold, TypeCheck, TypeBet, TypeCall, TypeRaise, TypeAllIn:
		return true
	default:
		return false
	}
}
