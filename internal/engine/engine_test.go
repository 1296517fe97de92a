package engine

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/internal/event"
	"github.com/lox/holdem-engine/internal/game"
)

var testConfig = game.Config{SmallBlind: 10, BigBlind: 20, StartingChips: 1000}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	eventLog := event.NewLog(event.NewMemoryStore(), nil)
	opts = append([]Option{WithSeed("engine-test")}, opts...)
	e, err := New(testConfig, eventLog, opts...)
	require.NoError(t, err)
	return e
}

// startHeadsUp seats two players and starts the first hand. Player 1 sits
// at position 0 and deals (small blind); player 2 posts the big blind.
func startHeadsUp(t *testing.T, e *Engine) (int, int) {
	t.Helper()
	p1, err := e.AddPlayer("alice")
	require.NoError(t, err)
	p2, err := e.AddPlayer("bob")
	require.NoError(t, err)
	require.NoError(t, e.StartHand())
	return p1, p2
}

func eventTypes(t *testing.T, e *Engine) []event.Type {
	t.Helper()
	events, err := e.Events()
	require.NoError(t, err)
	types := make([]event.Type, len(events))
	for i, evt := range events {
		types[i] = evt.Type
	}
	return types
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()
	eventLog := event.NewLog(event.NewMemoryStore(), nil)
	_, err := New(game.Config{SmallBlind: 20, BigBlind: 10, StartingChips: 1000}, eventLog)
	require.Error(t, err)
}

func TestStartHandPostsBlindsAndDeals(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	startHeadsUp(t, e)

	state, err := e.State()
	require.NoError(t, err)
	assert.Equal(t, game.GameStatusInHand, state.Status)
	assert.Equal(t, 1, state.HandNumber)
	assert.Equal(t, 0, state.DealerPosition)
	assert.Equal(t, 10, state.PlayerAt(0).CurrentBet, "dealer posts the small blind heads-up")
	assert.Equal(t, 20, state.PlayerAt(1).CurrentBet)
	assert.Equal(t, 20, state.CurrentBet)
	assert.Equal(t, 0, state.CurrentPlayerPosition, "dealer acts first preflop heads-up")
	assert.Len(t, state.PlayerAt(0).HoleCards, 2)
	assert.Len(t, state.PlayerAt(1).HoleCards, 2)
	require.NoError(t, state.CheckConservation())
}

func TestWinByFold(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	p1, p2 := startHeadsUp(t, e)

	require.NoError(t, e.SubmitAction(p1, game.Fold, 0))

	state, err := e.State()
	require.NoError(t, err)
	assert.Equal(t, game.GameStatusHandComplete, state.Status)
	assert.Equal(t, 990, state.PlayerByID(p1).Chips)
	assert.Equal(t, 1010, state.PlayerByID(p2).Chips, "whole pot to the last player standing")
	assert.Equal(t, 0, state.Pot)
	require.NoError(t, state.CheckConservation())

	events, err := e.Events()
	require.NoError(t, err)
	var award event.AwardPot
	found := false
	for _, evt := range events {
		require.NotEqual(t, event.TypeRevealCards, evt.Type, "no cards shown on a fold win")
		if evt.Type == event.TypeAwardPot {
			award, err = event.Decode[event.AwardPot](evt)
			require.NoError(t, err)
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, game.WonByFold, award.WinningHand)
	assert.Equal(t, 30, award.PotTotal)
}

func TestHeadsUpCheckAdvancesToFlop(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	p1, p2 := startHeadsUp(t, e)

	require.NoError(t, e.SubmitAction(p1, game.Call, 0))
	require.NoError(t, e.SubmitAction(p2, game.Check, 0))

	state, err := e.State()
	require.NoError(t, err)
	assert.Equal(t, game.Flop, state.Round)
	assert.Len(t, state.CommunityCards, 3)
	assert.Equal(t, 40, state.Pot)
	assert.Equal(t, 1, state.CurrentPlayerPosition, "big blind leads postflop heads-up")
}

func TestCheckedDownHandReachesShowdown(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	p1, p2 := startHeadsUp(t, e)

	require.NoError(t, e.SubmitAction(p1, game.Call, 0))
	require.NoError(t, e.SubmitAction(p2, game.Check, 0))
	for range 3 {
		require.NoError(t, e.SubmitAction(p2, game.Check, 0))
		require.NoError(t, e.SubmitAction(p1, game.Check, 0))
	}

	state, err := e.State()
	require.NoError(t, err)
	assert.Equal(t, game.GameStatusHandComplete, state.Status)
	assert.Len(t, state.CommunityCards, 5)
	assert.Equal(t, 0, state.Pot)
	assert.Equal(t, 2000, state.PlayerAt(0).Chips+state.PlayerAt(1).Chips)
	require.NoError(t, state.CheckConservation())

	types := eventTypes(t, e)
	assert.Contains(t, types, event.TypeShowdown)
	assert.Contains(t, types, event.TypeRevealCards, "contested showdowns show cards")
	assert.Contains(t, types, event.TypeAwardPot)
	assert.Contains(t, types, event.TypeHandComplete)
}

func TestAllInTriggersBoardRunout(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	p1, p2 := startHeadsUp(t, e)

	require.NoError(t, e.SubmitAction(p1, game.AllIn, 0))
	require.NoError(t, e.SubmitAction(p2, game.Call, 0))

	state, err := e.State()
	require.NoError(t, err)
	assert.NotEqual(t, game.GameStatusInHand, state.Status)
	assert.Len(t, state.CommunityCards, 5, "board runs out with no one able to act")
	assert.Equal(t, 2000, state.PlayerAt(0).Chips+state.PlayerAt(1).Chips)
	require.NoError(t, state.CheckConservation())

	deals := 0
	for _, typ := range eventTypes(t, e) {
		if typ == event.TypeDealCommunity {
			deals++
		}
	}
	assert.Equal(t, 3, deals)
}

func TestRunoutPacing(t *testing.T) {
	t.Parallel()
	mock := quartz.NewMock(t)
	trap := mock.Trap().NewTimer()
	defer trap.Close()

	e := newTestEngine(t, WithClock(mock), WithPacing(time.Second))
	p1, p2 := startHeadsUp(t, e)

	require.NoError(t, e.SubmitAction(p1, game.AllIn, 0))

	done := make(chan error, 1)
	go func() {
		done <- e.SubmitAction(p2, game.Call, 0)
	}()

	// The flop comes immediately; the turn and river each wait out a
	// pacing interval.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for i := range 2 {
		call := trap.MustWait(ctx)
		if i == 0 {
			// The engine releases its lock while pacing, so state
			// stays readable mid-runout.
			paused, err := e.State()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(paused.CommunityCards), 3)
		}
		call.Release()
		mock.Advance(time.Second).MustWait(ctx)
	}
	require.NoError(t, <-done)

	state, err := e.State()
	require.NoError(t, err)
	assert.Len(t, state.CommunityCards, 5)
}

func TestRejectedActionAppendsNothing(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	_, p2 := startHeadsUp(t, e)

	before := len(eventTypes(t, e))

	err := e.SubmitAction(p2, game.Call, 0)
	require.Error(t, err)
	var verr *game.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "not your turn")

	assert.Len(t, eventTypes(t, e), before, "rejected actions leave no trace in the log")
}

func TestDealerRotatesBetweenHands(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	p1, _ := startHeadsUp(t, e)

	require.NoError(t, e.SubmitAction(p1, game.Fold, 0))
	require.NoError(t, e.StartHand())

	state, err := e.State()
	require.NoError(t, err)
	assert.Equal(t, 2, state.HandNumber)
	assert.Equal(t, 1, state.DealerPosition, "button moves to the next seat")
	assert.Equal(t, 1, state.CurrentPlayerPosition, "new dealer acts first preflop")
}

func TestCannotJoinOrRestartMidHand(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	startHeadsUp(t, e)

	_, err := e.AddPlayer("carol")
	require.Error(t, err)
	var verr *game.ValidationError
	assert.ErrorAs(t, err, &verr)

	err = e.StartHand()
	require.Error(t, err)
	assert.ErrorAs(t, err, &verr)
}

func TestStartHandNeedsTwoFundedPlayers(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	_, err := e.AddPlayer("alice")
	require.NoError(t, err)

	err = e.StartHand()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two players")
}

func TestSameSeedSameShuffle(t *testing.T) {
	t.Parallel()
	handStart := func(t *testing.T) event.HandStart {
		e := newTestEngine(t)
		startHeadsUp(t, e)
		events, err := e.Events()
		require.NoError(t, err)
		for _, evt := range events {
			if evt.Type == event.TypeHandStart {
				payload, err := event.Decode[event.HandStart](evt)
				require.NoError(t, err)
				return payload
			}
		}
		t.Fatal("no HAND_START event")
		return event.HandStart{}
	}

	first := handStart(t)
	second := handStart(t)
	assert.Equal(t, first.Deck, second.Deck, "seeded shuffles are reproducible")
	assert.Equal(t, first.HoleCards, second.HoleCards)
}

func TestThreeHandedBlindPositions(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := e.AddPlayer(name)
		require.NoError(t, err)
	}
	require.NoError(t, e.StartHand())

	state, err := e.State()
	require.NoError(t, err)
	assert.Equal(t, 0, state.DealerPosition)
	assert.True(t, state.PlayerAt(1).IsSmallBlind)
	assert.True(t, state.PlayerAt(2).IsBigBlind)
	assert.Equal(t, 0, state.CurrentPlayerPosition, "under the gun is left of the big blind")
}

func TestMultiwayAllInRunsOutAndSettles(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := e.AddPlayer(name)
		require.NoError(t, err)
	}
	require.NoError(t, e.StartHand())

	// Everyone all in preflop: equal stacks, single pot, but the board
	// still runs out and settles by evaluation.
	require.NoError(t, e.SubmitAction(1, game.AllIn, 0))
	require.NoError(t, e.SubmitAction(2, game.Call, 0))
	require.NoError(t, e.SubmitAction(3, game.Call, 0))

	state, err := e.State()
	require.NoError(t, err)
	assert.Len(t, state.CommunityCards, 5)
	assert.Equal(t, 0, state.Pot)
	total := 0
	for _, p := range state.Players {
		total += p.Chips
	}
	assert.Equal(t, 3000, total)
	require.NoError(t, state.CheckConservation())
}
