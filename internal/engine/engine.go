package engine

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/holdem-engine/internal/deck"
	"github.com/lox/holdem-engine/internal/event"
	"github.com/lox/holdem-engine/internal/game"
)

// Engine drives a single game. The event log is the source of truth:
// every command validates against state derived from the log, appends
// the resulting events, and derives again. Engine itself holds no game
// state between calls.
type Engine struct {
	mu     sync.Mutex
	gameID string
	config game.Config
	events *event.Log
	logger *log.Logger
	clock  quartz.Clock
	pacing time.Duration
	seed   string

	nextPlayerID int
}

type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock substitutes the clock used to pace all-in runouts
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithPacing sets the delay between community cards revealed during an
// all-in runout. Zero disables pacing.
func WithPacing(d time.Duration) Option {
	return func(e *Engine) { e.pacing = d }
}

// WithSeed sets a base seed for deck shuffles. Each hand derives its own
// seed from the base and the hand number, so two engines created with the
// same seed and fed the same commands produce identical logs.
func WithSeed(seed string) Option {
	return func(e *Engine) { e.seed = seed }
}

// New creates a game and appends its GAME_CREATED event
func New(config game.Config, eventLog *event.Log, opts ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if eventLog == nil {
		return nil, fmt.Errorf("event log is required")
	}

	e := &Engine{
		gameID:       uuid.New().String(),
		config:       config,
		events:       eventLog,
		logger:       log.New(io.Discard),
		clock:        quartz.NewReal(),
		nextPlayerID: 1,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.append(0, event.TypeGameCreated, nil, event.GameCreated{
		Config: config,
		Seed:   e.seed,
	}); err != nil {
		return nil, err
	}

	e.logger.Info("game created", "gameId", e.gameID,
		"smallBlind", config.SmallBlind, "bigBlind", config.BigBlind)
	return e, nil
}

// GameID returns the identifier assigned at creation
func (e *Engine) GameID() string {
	return e.gameID
}

// State derives the current state from the event log
func (e *Engine) State() (*game.GameState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.derive()
}

// Events returns the game's events in log order
func (e *Engine) Events() ([]event.Event, error) {
	return e.events.Events(e.gameID)
}

// AddPlayer seats a player at the next free position. Players can only
// join between hands.
func (e *Engine) AddPlayer(name string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.derive()
	if err != nil {
		return 0, err
	}
	if state.Status == game.GameStatusInHand {
		return 0, &game.ValidationError{Reason: "cannot join while a hand is in progress"}
	}
	if state.Status == game.GameStatusComplete {
		return 0, &game.ValidationError{Reason: "game is complete"}
	}

	id := e.nextPlayerID
	e.nextPlayerID++
	position := len(state.Players)

	if err := e.append(state.HandNumber, event.TypePlayerJoined, &id, event.PlayerJoined{
		Name:          name,
		Position:      position,
		StartingChips: e.config.StartingChips,
	}); err != nil {
		return 0, err
	}

	e.logger.Info("player joined", "gameId", e.gameID, "playerId", id,
		"name", name, "position", position)
	return id, nil
}

// StartHand shuffles, deals hole cards and posts blinds. The full deck
// order and every player's hole cards are captured in the HAND_START
// payload; nothing after this point draws on the RNG.
func (e *Engine) StartHand() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.derive()
	if err != nil {
		return err
	}
	if state.Status == game.GameStatusInHand {
		return &game.ValidationError{Reason: "hand already in progress"}
	}
	if state.Status == game.GameStatusComplete {
		return &game.ValidationError{Reason: "game is complete"}
	}

	funded := fundedPositions(state)
	if len(funded) < 2 {
		return &game.ValidationError{Reason: "need at least two players with chips"}
	}

	handNumber := state.HandNumber + 1
	dealer := nextFunded(state, state.DealerPosition+1)
	if state.HandNumber == 0 {
		dealer = funded[0]
	}

	// Heads-up the dealer posts the small blind
	var sb, bb int
	if len(funded) == 2 {
		sb = dealer
		bb = nextFunded(state, sb+1)
	} else {
		sb = nextFunded(state, dealer+1)
		bb = nextFunded(state, sb+1)
	}

	d := e.newDeck(handNumber)
	d.Shuffle()
	fullDeck := d.Cards()

	order := dealOrder(state, sb)
	hands := d.DealHoleCards(len(order))
	holeCards := make(map[int][]deck.Card, len(order))
	for i, position := range order {
		holeCards[position] = hands[i]
	}

	start, err := event.New(e.gameID, handNumber, event.TypeHandStart, nil, event.HandStart{
		DealerPosition:     dealer,
		SmallBlindPosition: sb,
		BigBlindPosition:   bb,
		Deck:               fullDeck,
		HoleCards:          holeCards,
	})
	if err != nil {
		return err
	}

	sbPlayer := state.PlayerAt(sb)
	bbPlayer := state.PlayerAt(bb)
	sbAmount := min(e.config.SmallBlind, sbPlayer.Chips)
	bbAmount := min(e.config.BigBlind, bbPlayer.Chips)

	sbEvent, err := event.New(e.gameID, handNumber, event.TypePostBlind, &sbPlayer.ID, event.PostBlind{
		BlindType: game.BlindSmall,
		Amount:    sbAmount,
		IsAllIn:   sbAmount == sbPlayer.Chips,
	})
	if err != nil {
		return err
	}
	bbEvent, err := event.New(e.gameID, handNumber, event.TypePostBlind, &bbPlayer.ID, event.PostBlind{
		BlindType: game.BlindBig,
		Amount:    bbAmount,
		IsAllIn:   bbAmount == bbPlayer.Chips,
	})
	if err != nil {
		return err
	}

	if _, err := e.events.Append(start, sbEvent, bbEvent); err != nil {
		return err
	}

	e.logger.Info("hand started", "gameId", e.gameID, "handNumber", handNumber,
		"dealer", dealer, "smallBlind", sb, "bigBlind", bb)

	// Blinds can put a short stack all in before any action
	return e.advance()
}

// SubmitAction validates and records a player action, then advances the
// hand through any automatic transitions it triggers.
func (e *Engine) SubmitAction(playerID int, action game.Action, amount int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.derive()
	if err != nil {
		return err
	}
	player := state.PlayerByID(playerID)
	if player == nil {
		return &game.ValidationError{Reason: fmt.Sprintf("unknown player %d", playerID)}
	}
	if err := state.ValidateAction(player.Position, action, amount); err != nil {
		return err
	}

	typ, payloadAmount := actionEvent(state, player, action, amount)
	if err := e.append(state.HandNumber, typ, &playerID, event.PlayerAction{
		Amount: payloadAmount,
	}); err != nil {
		return err
	}

	e.logger.Debug("action", "gameId", e.gameID, "handNumber", state.HandNumber,
		"playerId", playerID, "action", action.String(), "amount", payloadAmount)

	return e.advance()
}

// RevealCards records a voluntary card reveal
func (e *Engine) RevealCards(playerID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.derive()
	if err != nil {
		return err
	}
	player := state.PlayerByID(playerID)
	if player == nil {
		return &game.ValidationError{Reason: fmt.Sprintf("unknown player %d", playerID)}
	}
	if len(player.HoleCards) == 0 {
		return &game.ValidationError{Reason: "player has no cards to reveal"}
	}

	return e.append(state.HandNumber, event.TypeRevealCards, &playerID, event.RevealCards{
		Cards: player.HoleCards,
	})
}

// advance appends every automatic transition the current state implies:
// street deals when a round completes, the showdown sequence when the
// hand is decided. Must be called with the mutex held.
func (e *Engine) advance() error {
	paced := false
	for {
		state, err := e.derive()
		if err != nil {
			return err
		}
		if state.Status != game.GameStatusInHand || !state.RoundComplete() {
			return nil
		}

		// One contender left, or the river is done: settle the hand
		if state.NonFoldedCount() <= 1 || state.Round >= game.River {
			return e.settle(state)
		}

		// Pace card reveals when nobody can act
		auto := state.ShouldAutoAdvance()
		if auto && e.pacing > 0 {
			if paced {
				e.wait()
			}
			paced = true
		}

		if err := e.dealNextStreet(state); err != nil {
			return err
		}
		if !auto {
			return nil
		}
	}
}

func (e *Engine) dealNextStreet(state *game.GameState) error {
	street := state.Round.Next()
	n := street.CommunityCardCount()

	// The burn card sits at the front of the remaining deck
	if len(state.RemainingDeck) < n+1 {
		return consistencyErrorf(e.gameID, state.HandNumber, "deck exhausted dealing %s", street)
	}
	cards := state.RemainingDeck[1 : n+1]

	if err := e.append(state.HandNumber, event.TypeDealCommunity, nil, event.DealCommunity{
		Round:          street.String(),
		CommunityCards: cards,
	}); err != nil {
		return err
	}

	e.logger.Debug("community cards dealt", "gameId", e.gameID,
		"handNumber", state.HandNumber, "round", street.String())
	return nil
}

// settle appends the showdown sequence: SHOWDOWN, card reveals when the
// hand is contested, AWARD_POT and HAND_COMPLETE.
func (e *Engine) settle(state *game.GameState) error {
	contested := state.NonFoldedCount() > 1

	if err := e.append(state.HandNumber, event.TypeShowdown, nil, event.ShowdownReached{
		CommunityCards: state.CommunityCards,
	}); err != nil {
		return err
	}

	if contested {
		for _, p := range state.Players {
			if !p.InHand() {
				continue
			}
			playerID := p.ID
			if err := e.append(state.HandNumber, event.TypeRevealCards, &playerID, event.RevealCards{
				Cards: p.HoleCards,
			}); err != nil {
				return err
			}
		}
	}

	settled, err := e.derive()
	if err != nil {
		return err
	}
	payouts, winners := settled.Payouts()
	winningHand := ""
	if len(settled.Pots) > 0 {
		winningHand = settled.Pots[0].WinningHand
	}

	award, err := event.New(e.gameID, state.HandNumber, event.TypeAwardPot, nil, event.AwardPot{
		Winners:     winners,
		Payouts:     payouts,
		PotTotal:    settled.Pot,
		WinningHand: winningHand,
	})
	if err != nil {
		return err
	}
	complete, err := event.New(e.gameID, state.HandNumber, event.TypeHandComplete, nil, event.HandComplete{
		Winners: winners,
	})
	if err != nil {
		return err
	}
	if _, err := e.events.Append(award, complete); err != nil {
		return err
	}

	e.logger.Info("hand complete", "gameId", e.gameID, "handNumber", state.HandNumber,
		"winners", winners, "pot", settled.Pot, "winningHand", winningHand)
	return nil
}

// append builds a single event and appends it to the log
func (e *Engine) append(handNumber int, typ event.Type, playerID *int, payload any) error {
	evt, err := event.New(e.gameID, handNumber, typ, playerID, payload)
	if err != nil {
		return err
	}
	_, err = e.events.Append(evt)
	return err
}

// wait sleeps for the pacing interval with the engine lock released so
// reads are not blocked during a runout. No seat is to-act between
// automatic streets, so no action can be appended while unlocked.
func (e *Engine) wait() {
	e.mu.Unlock()
	defer e.mu.Lock()
	timer := e.clock.NewTimer(e.pacing)
	<-timer.C
}

func (e *Engine) derive() (*game.GameState, error) {
	events, err := e.events.Events(e.gameID)
	if err != nil {
		return nil, err
	}
	return Derive(events)
}

func (e *Engine) newDeck(handNumber int) *deck.Deck {
	if e.seed == "" {
		return deck.New()
	}
	return deck.NewSeeded(fmt.Sprintf("%s/%d", e.seed, handNumber))
}

// actionEvent maps a validated action to its event type and recorded
// amount. Bet and raise amounts are the resulting street total; calls
// record the matched bet; a call or raise for a player's whole stack is
// recorded as ALL_IN.
func actionEvent(state *game.GameState, player *game.Player, action game.Action, amount int) (event.Type, int) {
	switch action {
	case game.Fold:
		return event.TypeFold, 0
	case game.Check:
		return event.TypeCheck, 0
	case game.Call:
		callTo := min(state.CurrentBet, player.CurrentBet+player.Chips)
		if callTo == player.CurrentBet+player.Chips {
			return event.TypeAllIn, callTo
		}
		return event.TypeCall, callTo
	case game.Bet:
		if amount == player.CurrentBet+player.Chips {
			return event.TypeAllIn, amount
		}
		return event.TypeBet, amount
	case game.Raise:
		if amount == player.CurrentBet+player.Chips {
			return event.TypeAllIn, amount
		}
		return event.TypeRaise, amount
	case game.AllIn:
		return event.TypeAllIn, player.CurrentBet + player.Chips
	default:
		panic(fmt.Sprintf("unhandled action %v", action))
	}
}

func fundedPositions(state *game.GameState) []int {
	var positions []int
	for _, p := range state.Players {
		if p.Chips > 0 {
			positions = append(positions, p.Position)
		}
	}
	return positions
}

func nextFunded(state *game.GameState, from int) int {
	n := len(state.Players)
	for i := 0; i < n; i++ {
		position := (from + i) % n
		if p := state.PlayerAt(position); p != nil && p.Chips > 0 {
			return position
		}
	}
	return from % n
}

// dealOrder returns funded positions starting from the small blind,
// matching the order hole cards come off the deck.
func dealOrder(state *game.GameState, sb int) []int {
	n := len(state.Players)
	var order []int
	for i := 0; i < n; i++ {
		position := (sb + i) % n
		if p := state.PlayerAt(position); p != nil && p.Chips > 0 {
			order = append(order, position)
		}
	}
	return order
}

func consistencyErrorf(gameID string, handNumber int, format string, args ...any) *game.ConsistencyError {
	return &game.ConsistencyError{GameID: gameID, HandNumber: handNumber, Detail: fmt.Sprintf(format, args...)}
}
