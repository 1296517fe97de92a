package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-engine/internal/game"
)

// FileConfig is the on-disk engine configuration
type FileConfig struct {
	Game    GameSettings   `hcl:"game,block"`
	Players []PlayerConfig `hcl:"player,block"`
}

// GameSettings configures the table stakes and engine behaviour
type GameSettings struct {
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	Seed          string `hcl:"seed,optional"`
	PacingMs      int    `hcl:"pacing_ms,optional"`
	LogLevel      string `hcl:"log_level,optional"`
}

// PlayerConfig seats a named player at game start
type PlayerConfig struct {
	Name string `hcl:"name,label"`
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() *FileConfig {
	return &FileConfig{
		Game: GameSettings{
			SmallBlind:    10,
			BigBlind:      20,
			StartingChips: 1000,
			PacingMs:      600,
			LogLevel:      "info",
		},
	}
}

// LoadConfig loads engine configuration from an HCL file; a missing file
// yields the defaults.
func LoadConfig(filename string) (*FileConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config FileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Game.SmallBlind == 0 {
		config.Game.SmallBlind = defaults.Game.SmallBlind
	}
	if config.Game.BigBlind == 0 {
		config.Game.BigBlind = defaults.Game.BigBlind
	}
	if config.Game.StartingChips == 0 {
		config.Game.StartingChips = defaults.Game.StartingChips
	}
	if config.Game.PacingMs == 0 {
		config.Game.PacingMs = defaults.Game.PacingMs
	}
	if config.Game.LogLevel == "" {
		config.Game.LogLevel = defaults.Game.LogLevel
	}
	return &config, nil
}

// GameConfig returns the table stakes as the engine consumes them
func (c *FileConfig) GameConfig() game.Config {
	return game.Config{
		SmallBlind:    c.Game.SmallBlind,
		BigBlind:      c.Game.BigBlind,
		StartingChips: c.Game.StartingChips,
	}
}

// Pacing returns the configured runout pacing interval
func (c *FileConfig) Pacing() time.Duration {
	return time.Duration(c.Game.PacingMs) * time.Millisecond
}
