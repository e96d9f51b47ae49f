package engine

import (
	"fmt"
	"strings"
)

// PlayerSpec describes one seat of a table config.
type PlayerSpec struct {
	Name     string         `json:"name" yaml:"name"`
	Strategy string         `json:"strategy" yaml:"strategy"`
	Params   map[string]int `json:"params,omitempty" yaml:"params,omitempty"`
}

// TableConfig is a named line-up of divers loaded from the configs directory.
type TableConfig struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Seed        *int64       `json:"seed,omitempty" yaml:"seed,omitempty"`
	Players     []PlayerSpec `json:"players" yaml:"players"`
}

// ValidateTableConfig checks a table config for structural correctness.
// Strategy names and parameters are checked by the strategy package.
func ValidateTableConfig(config *TableConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if len(config.Players) < 1 || len(config.Players) > MaxPlayers {
		return fmt.Errorf("config validation: players must have between 1 and %d entries, got %d",
			MaxPlayers, len(config.Players))
	}

	seen := make(map[string]bool, len(config.Players))
	for i, p := range config.Players {
		if strings.TrimSpace(p.Strategy) == "" {
			return fmt.Errorf("config validation: players[%d].strategy is required", i)
		}
		for k, v := range p.Params {
			if v < 0 {
				return fmt.Errorf("config validation: players[%d].params.%s must not be negative, got %d", i, k, v)
			}
		}
		if p.Name == "" {
			continue
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return fmt.Errorf("config validation: duplicate player name '%s'", p.Name)
		}
		seen[key] = true
	}

	return nil
}

// DefaultTableConfig is the six-seat line-up used when no config is found.
func DefaultTableConfig() *TableConfig {
	return &TableConfig{
		Name:        "classic",
		Description: "Six reference divers: two grabbers, two divers, a greedy and a random player",
		Players: []PlayerSpec{
			{Name: "Grabber-1", Strategy: "grabber", Params: map[string]int{"n": 1}},
			{Name: "Diver-16", Strategy: "diver", Params: map[string]int{"depth": 16, "n": 1}},
			{Name: "Greedy", Strategy: "greedy"},
			{Name: "Randy", Strategy: "random"},
			{Name: "Grabber-2", Strategy: "grabber", Params: map[string]int{"n": 2}},
			{Name: "Diver-8", Strategy: "diver", Params: map[string]int{"depth": 8, "n": 2}},
		},
	}
}
