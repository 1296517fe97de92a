package game

import "fmt"

// Config holds the fixed parameters of a game. Validated once at game
// creation; malformed configs never reach the reducer.
type Config struct {
	SmallBlind    int `json:"smallBlind" hcl:"small_blind"`
	BigBlind      int `json:"bigBlind" hcl:"big_blind"`
	StartingChips int `json:"startingChips" hcl:"starting_chips"`
}

// Validate rejects malformed game configuration
func (c Config) Validate() error {
	if c.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", c.SmallBlind)
	}
	if c.BigBlind <= c.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind, got %d/%d", c.SmallBlind, c.BigBlind)
	}
	if c.StartingChips < c.BigBlind {
		return fmt.Errorf("starting chips must cover the big blind, got %d", c.StartingChips)
	}
	return nil
}
