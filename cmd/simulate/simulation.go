package main

import (
	"context"
	"fmt"
	"io"

	"github.com/wricardo/mcp-training/deepsea/game/engine"
	"github.com/wricardo/mcp-training/deepsea/game/results"
	"github.com/wricardo/mcp-training/deepsea/game/service"
	"github.com/wricardo/mcp-training/deepsea/game/trace"
)

// simulation plays episodes of one table, optionally rendering, tracing
// and recording them.
type simulation struct {
	name   string
	table  *engine.TableConfig
	out    io.Writer
	render bool
	trace  *trace.Writer
	store  *results.Store
}

// episode plays one full episode with seed.
func (s *simulation) episode(ctx context.Context, index int, seed int64) (*service.EpisodeResult, error) {
	eng, err := service.BuildEngine(s.table, seed)
	if err != nil {
		return nil, err
	}

	if s.render {
		renderState(s.out, eng.GetState(), index)
	}

	for step := 1; !eng.IsGameOver(); step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := eng.Step()
		if err != nil {
			return nil, fmt.Errorf("episode %d step %d: %w", index, step, err)
		}

		if s.trace != nil {
			if err := s.trace.Write(trace.NewRecord(index, seed, step, res)); err != nil {
				return nil, fmt.Errorf("write trace: %w", err)
			}
		}
		if s.render {
			renderState(s.out, eng.GetState(), index)
		}
	}

	result := service.SummarizeEpisode(fmt.Sprintf("sim-%d", index), s.name, s.table, eng)
	if s.store != nil {
		if err := s.store.RecordEpisode(ctx, result); err != nil {
			return nil, fmt.Errorf("record episode: %w", err)
		}
	}
	return result, nil
}

// standings accumulates episode results per seat.
type standings struct {
	Episodes int
	Seats    []service.SeatResult
	Totals   []int
	Wins     []int
	Best     []int
	Zeroes   []int
}

func newStandings(table *engine.TableConfig) *standings {
	n := len(table.Players)
	return &standings{
		Totals: make([]int, n),
		Wins:   make([]int, n),
		Best:   make([]int, n),
		Zeroes: make([]int, n),
	}
}

func (st *standings) add(res *service.EpisodeResult) {
	if st.Seats == nil {
		st.Seats = res.Seats
	}
	st.Episodes++
	for _, seat := range res.Seats {
		st.Totals[seat.Seat] += seat.Score
		st.Best[seat.Seat] = max(st.Best[seat.Seat], seat.Score)
		if seat.Score == 0 {
			st.Zeroes[seat.Seat]++
		}
	}
	for _, w := range res.Winners {
		st.Wins[w]++
	}
}

// Average is seat's mean score over the recorded episodes.
func (st *standings) Average(seat int) float64 {
	if st.Episodes == 0 {
		return 0
	}
	return float64(st.Totals[seat]) / float64(st.Episodes)
}

// run plays episodes seeded seed, seed+1, ... and returns the standings.
func (s *simulation) run(ctx context.Context, episodes int, seed int64) (*standings, error) {
	st := newStandings(s.table)
	for i := 1; i <= episodes; i++ {
		res, err := s.episode(ctx, i, seed+int64(i-1))
		if err != nil {
			return st, err
		}
		st.add(res)
	}
	return st, nil
}
