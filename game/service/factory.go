package service

import (
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/deepsea/game/engine"
	"github.com/wricardo/mcp-training/deepsea/game/strategy"
)

// ResolveSeed picks the seed for a new episode: an explicit request wins,
// then the table config's seed, then the clock.
func ResolveSeed(requested *int64, config *engine.TableConfig) int64 {
	if requested != nil {
		return *requested
	}
	if config != nil && config.Seed != nil {
		return *config.Seed
	}
	return time.Now().UnixNano()
}

// BuildEngine seats the table's strategies on a fresh engine and deals
// the first episode.
func BuildEngine(config *engine.TableConfig, seed int64) (*engine.GameEngine, error) {
	if err := engine.ValidateTableConfig(config); err != nil {
		return nil, err
	}

	providers, err := strategy.BuildTable(config, seed)
	if err != nil {
		return nil, err
	}

	eng := engine.NewEngineWithSeed(seed)
	for i, p := range providers {
		if _, err := eng.AddPlayer(config.Players[i].Name, p); err != nil {
			return nil, fmt.Errorf("seat %d: %w", i, err)
		}
	}

	if err := eng.Reset(); err != nil {
		return nil, err
	}
	return eng, nil
}

// SummarizeEpisode builds the result record of a finished episode.
func SummarizeEpisode(sessionID, configName string, config *engine.TableConfig, eng *engine.GameEngine) *EpisodeResult {
	state := eng.GetState()
	scores := eng.Scores()

	seats := make([]SeatResult, len(state.Players))
	for i, p := range state.Players {
		seats[i] = SeatResult{Seat: i, Name: p.Name, Score: scores[i]}
		if config != nil && i < len(config.Players) {
			seats[i].Strategy = strategy.Describe(config.Players[i])
		}
	}

	return &EpisodeResult{
		SessionID:  sessionID,
		ConfigName: configName,
		Seed:       state.Seed,
		Steps:      state.TotalSteps,
		Seats:      seats,
		Winners:    engine.Leaders(scores),
		FinishedAt: time.Now(),
	}
}
