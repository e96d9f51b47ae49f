package main

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/deepsea/game/engine"
	"github.com/wricardo/mcp-training/deepsea/game/strategy"
)

// Attempt is the outcome of one seeded episode.
type Attempt struct {
	Seed   int64
	Scores []int
	Steps  int
}

// playSeed resets the session with seed and plays the episode out.
func playSeed(ctx context.Context, c *Client, seed int64) (*Attempt, error) {
	if _, err := c.Reset(ctx, seed); err != nil {
		return nil, err
	}

	steps := 0
	for {
		res, err := c.Run(ctx, 0)
		if err != nil {
			return nil, err
		}
		steps += res.StepsExecuted
		if res.Done {
			scores := make([]int, len(res.GameState.Players))
			for i, p := range res.GameState.Players {
				scores[i] = p.Score
			}
			return &Attempt{Seed: seed, Scores: scores, Steps: steps}, nil
		}
		if res.StepsExecuted == 0 {
			return nil, fmt.Errorf("seed %d: run made no progress (%s)", seed, res.StopReasonCode)
		}
	}
}

// seedSearch tries seeds first, first+1, ... until seat scores at least
// target or attempts run out. It returns the best attempt for seat and
// whether the target was reached.
func seedSearch(ctx context.Context, c *Client, seat int, first int64, attempts, target int) (*Attempt, bool, error) {
	var best *Attempt
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return best, false, err
		}

		attempt, err := playSeed(ctx, c, first+int64(i))
		if err != nil {
			return best, false, err
		}
		if seat >= len(attempt.Scores) {
			return best, false, fmt.Errorf("seat %d not at the table (%d seats)", seat, len(attempt.Scores))
		}

		log.Debugf("Attempt %d: seed=%d steps=%d scores=%v", i+1, attempt.Seed, attempt.Steps, attempt.Scores)

		if best == nil || attempt.Scores[seat] > best.Scores[seat] {
			best = attempt
			log.Infof("New best for seat %d: %d points with seed %d", seat, attempt.Scores[seat], attempt.Seed)
		}
		if target > 0 && attempt.Scores[seat] >= target {
			return best, true, nil
		}
	}
	return best, false, nil
}

// Candidate is one parameter setting tried for the swept seat.
type Candidate struct {
	Spec    engine.PlayerSpec
	Total   int
	Wins    int
	Episode int
}

func (c Candidate) Average() float64 {
	if c.Episode == 0 {
		return 0
	}
	return float64(c.Total) / float64(c.Episode)
}

// candidates enumerates the scripted strategies over a coarse grid of
// their parameters.
func candidates() []engine.PlayerSpec {
	var specs []engine.PlayerSpec
	for n := 1; n <= engine.MaxCarry; n++ {
		specs = append(specs, engine.PlayerSpec{Strategy: "grabber", Params: map[string]int{"n": n}})
	}
	for depth := 8; depth <= 28; depth += 4 {
		for n := 1; n <= 3; n++ {
			specs = append(specs, engine.PlayerSpec{Strategy: "diver", Params: map[string]int{"depth": depth, "n": n}})
		}
	}
	for depth := 12; depth <= 28; depth += 4 {
		specs = append(specs, engine.PlayerSpec{Strategy: "greedy", Params: map[string]int{"depth": depth}})
	}
	return specs
}

// sweep seats every candidate in turn at seat of base, plays the same
// seeds with each and ranks them by average score. Every candidate table
// is saved on the server as sweepName.
func sweep(ctx context.Context, c *Client, base *engine.TableConfig, sweepName string, seat int, specs []engine.PlayerSpec, seeds []int64) ([]Candidate, error) {
	if seat < 0 || seat >= len(base.Players) {
		return nil, fmt.Errorf("seat %d not at the table (%d seats)", seat, len(base.Players))
	}

	results := make([]Candidate, 0, len(specs))
	for _, spec := range specs {
		table := *base
		table.Name = sweepName
		table.Seed = nil
		table.Players = append([]engine.PlayerSpec(nil), base.Players...)
		spec.Name = base.Players[seat].Name
		table.Players[seat] = spec

		if err := c.SaveConfig(ctx, &table); err != nil {
			return nil, err
		}
		if _, err := c.CreateSession(ctx, sweepName, nil); err != nil {
			return nil, err
		}

		cand := Candidate{Spec: spec}
		for _, seed := range seeds {
			attempt, err := playSeed(ctx, c, seed)
			if err != nil {
				c.DeleteSession(ctx)
				return nil, err
			}
			cand.Episode++
			cand.Total += attempt.Scores[seat]
			for _, w := range engine.Leaders(attempt.Scores) {
				if w == seat {
					cand.Wins++
				}
			}
		}
		if err := c.DeleteSession(ctx); err != nil {
			log.Warnf("Failed to delete sweep session: %v", err)
		}

		log.Debugf("%s: avg %.2f over %d seeds", strategy.Describe(spec), cand.Average(), cand.Episode)
		results = append(results, cand)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Average() > results[j].Average()
	})
	return results, nil
}
