package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lox/holdem-engine/internal/engine"
	"github.com/lox/holdem-engine/internal/event"
)

// ReplayCmd folds an event log file back into game state. Replaying
// re-validates every recorded action, so it doubles as a log integrity
// check.
type ReplayCmd struct {
	Path  string `arg:"" help:"Path to a JSON event log"`
	JSON  bool   `help:"Print the full derived state as JSON"`
	Debug bool   `help:"Enable debug logging"`
}

func (c *ReplayCmd) Run() error {
	logger := setupLogger(c.Debug)

	events, err := event.LoadFile(c.Path)
	if err != nil {
		return err
	}
	logger.Debug("event log loaded", "path", c.Path, "events", len(events))

	state, err := engine.Derive(events)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	fmt.Printf("Game %s\n", state.GameID)
	fmt.Printf("  status:  %s\n", state.Status)
	fmt.Printf("  hand:    %d (%s)\n", state.HandNumber, state.Round)
	fmt.Printf("  pot:     %d\n", state.TotalPot())
	fmt.Printf("  board:   %v\n", state.CommunityCards)
	fmt.Println("  players:")
	for _, p := range state.Players {
		marker := " "
		if p.Position == state.CurrentPlayerPosition {
			marker = "*"
		}
		fmt.Printf("  %s %-12s seat %d  chips %-6d bet %-5d %s\n",
			marker, p.Name, p.Position, p.Chips, p.CurrentBet, p.Status)
	}
	if len(state.Winners) > 0 {
		fmt.Printf("  winners: %v\n", state.Winners)
	}
	return nil
}
