// Package sim plays games against itself through the engine. It exists to
// soak-test the state machine: every hand it plays exercises validation,
// derivation and settlement, and any invariant violation surfaces as an
// error from the engine.
package sim

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-engine/internal/engine"
	"github.com/lox/holdem-engine/internal/event"
	"github.com/lox/holdem-engine/internal/game"
)

// Result summarises one simulated game
type Result struct {
	GameID     string
	HandsDealt int
	Events     []event.Event
	FinalChips map[string]int
}

// Runner drives self-play games
type Runner struct {
	config   game.Config
	players  []string
	maxHands int
	seed     string
	logger   *log.Logger
}

// Options configures a Runner
type Options struct {
	Config   game.Config
	Players  []string
	MaxHands int
	Seed     string
	Logger   *log.Logger
}

// NewRunner creates a runner. Games are deterministic for a given seed and
// player list.
func NewRunner(opts Options) (*Runner, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Players) < 2 {
		return nil, fmt.Errorf("need at least two players, got %d", len(opts.Players))
	}
	if opts.MaxHands <= 0 {
		opts.MaxHands = 100
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Runner{
		config:   opts.Config,
		players:  opts.Players,
		maxHands: opts.MaxHands,
		seed:     opts.Seed,
		logger:   opts.Logger,
	}, nil
}

// Run plays n games concurrently and returns their results in game order
func (r *Runner) Run(ctx context.Context, n, parallelism int) ([]*Result, error) {
	if parallelism <= 0 {
		parallelism = 1
	}

	results := make([]*Result, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i := 0; i < n; i++ {
		g.Go(func() error {
			result, err := r.RunGame(ctx, fmt.Sprintf("%s/%d", r.seed, i))
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunGame plays a single game to completion or the hand limit
func (r *Runner) RunGame(ctx context.Context, seed string) (*Result, error) {
	eventLog := event.NewLog(event.NewMemoryStore(), nil)
	eng, err := engine.New(r.config, eventLog,
		engine.WithSeed(seed),
		engine.WithLogger(r.logger))
	if err != nil {
		return nil, err
	}

	ids := make(map[int]string, len(r.players))
	for _, name := range r.players {
		id, err := eng.AddPlayer(name)
		if err != nil {
			return nil, err
		}
		ids[id] = name
	}

	rng := rand.New(rand.NewSource(seedSource(seed)))
	hands := 0
	for hands < r.maxHands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		state, err := eng.State()
		if err != nil {
			return nil, err
		}
		if state.Status == game.GameStatusComplete {
			break
		}

		if err := eng.StartHand(); err != nil {
			return nil, err
		}
		hands++

		if err := r.playHand(eng, rng); err != nil {
			return nil, err
		}
	}

	state, err := eng.State()
	if err != nil {
		return nil, err
	}
	chips := make(map[string]int, len(state.Players))
	for _, p := range state.Players {
		chips[ids[p.ID]] = p.Chips
	}
	events, err := eng.Events()
	if err != nil {
		return nil, err
	}

	r.logger.Info("game finished", "gameId", eng.GameID(), "hands", hands)
	return &Result{
		GameID:     eng.GameID(),
		HandsDealt: hands,
		Events:     events,
		FinalChips: chips,
	}, nil
}

func (r *Runner) playHand(eng *engine.Engine, rng *rand.Rand) error {
	for {
		state, err := eng.State()
		if err != nil {
			return err
		}
		if state.Status != game.GameStatusInHand || state.CurrentPlayerPosition < 0 {
			return nil
		}

		player := state.PlayerAt(state.CurrentPlayerPosition)
		action, amount := choose(state, player, rng)
		if err := eng.SubmitAction(player.ID, action, amount); err != nil {
			return fmt.Errorf("player %d %s %d: %w", player.ID, action, amount, err)
		}
	}
}

// choose picks a legal action with a loose-passive bias: mostly check or
// call, occasionally bet, raise or fold. The preference order is walked
// until a legal action is found, so the policy never stalls a game.
func choose(state *game.GameState, player *game.Player, rng *rand.Rand) (game.Action, int) {
	type candidate struct {
		action game.Action
		amount int
	}

	minBet := state.Config.BigBlind
	minRaise := state.CurrentBet + state.LastRaise

	var prefs []candidate
	switch roll := rng.Intn(10); {
	case roll < 5:
		prefs = []candidate{{game.Check, 0}, {game.Call, 0}}
	case roll < 7:
		prefs = []candidate{{game.Bet, minBet}, {game.Raise, minRaise}, {game.Call, 0}, {game.Check, 0}}
	case roll < 9:
		prefs = []candidate{{game.Call, 0}, {game.Check, 0}}
	default:
		prefs = []candidate{{game.Fold, 0}, {game.Check, 0}}
	}
	prefs = append(prefs, candidate{game.AllIn, 0}, candidate{game.Fold, 0})

	for _, c := range prefs {
		if state.ValidateAction(player.Position, c.action, c.amount) == nil {
			return c.action, c.amount
		}
	}
	return game.Fold, 0
}

func seedSource(seed string) int64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return int64(h.Sum64())
}
