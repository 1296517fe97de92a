package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/engine"
	"github.com/lox/holdem-engine/internal/event"
	"github.com/lox/holdem-engine/internal/sim"
)

// SimulateCmd plays deterministic self-play games and reports the results
type SimulateCmd struct {
	Config      string   `short:"c" default:"holdem-engine.hcl" help:"Path to HCL configuration file"`
	Games       int      `short:"g" default:"1" help:"Number of games to play"`
	Hands       int      `default:"100" help:"Maximum hands per game"`
	Players     []string `short:"p" default:"alice,bob,carol" help:"Player names"`
	Seed        string   `short:"s" help:"Base seed for deterministic play (overrides config)"`
	Parallelism int      `help:"Concurrent games (0 for one per CPU)"`
	Out         string   `short:"o" help:"Write the first game's event log to a JSON file"`
	Debug       bool     `help:"Enable debug logging"`
}

func (c *SimulateCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg, err := engine.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	seed := cfg.Game.Seed
	if c.Seed != "" {
		seed = c.Seed
	}
	if seed == "" {
		seed = fmt.Sprintf("%d", time.Now().UnixNano())
		logger.Info("using random seed", "seed", seed)
	}

	runner, err := sim.NewRunner(sim.Options{
		Config:   cfg.GameConfig(),
		Players:  c.Players,
		MaxHands: c.Hands,
		Seed:     seed,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	parallelism := c.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	start := time.Now()
	results, err := runner.Run(context.Background(), c.Games, parallelism)
	if err != nil {
		return err
	}

	totalHands := 0
	totalEvents := 0
	for _, result := range results {
		totalHands += result.HandsDealt
		totalEvents += len(result.Events)
	}
	logger.Info("simulation complete",
		"games", len(results),
		"hands", totalHands,
		"events", totalEvents,
		"elapsed", time.Since(start).Round(time.Millisecond))

	printStandings(results)

	if c.Out != "" && len(results) > 0 {
		if err := event.SaveFile(c.Out, results[0].Events); err != nil {
			return err
		}
		logger.Info("event log written", "path", c.Out, "gameId", results[0].GameID)
	}
	return nil
}

func printStandings(results []*sim.Result) {
	totals := make(map[string]int)
	for _, result := range results {
		for name, chips := range result.FinalChips {
			totals[name] += chips
		}
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return totals[names[i]] > totals[names[j]] })

	fmt.Println()
	fmt.Println("Final chips across all games:")
	for _, name := range names {
		fmt.Printf("  %-12s %d\n", name, totals[name])
	}
}

func setupLogger(debug bool) *log.Logger {
	opts := log.Options{Level: log.InfoLevel}
	if debug {
		opts.Level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, opts)
}
