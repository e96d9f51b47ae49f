package engine

import (
	"errors"
	"testing"
)

// funcProvider answers queries with plain functions.
type funcProvider struct {
	forward, pick, drop func(Observation) int
}

func (p funcProvider) Forward(o Observation) int { return p.forward(o) }
func (p funcProvider) Pick(o Observation) int    { return p.pick(o) }
func (p funcProvider) Drop(o Observation) int    { return p.drop(o) }

func constProvider(forward, pick, drop int) funcProvider {
	return funcProvider{
		forward: func(Observation) int { return forward },
		pick:    func(Observation) int { return pick },
		drop:    func(Observation) int { return drop },
	}
}

// grabProvider turns around once it carries n treasures and picks everything.
func grabProvider(n int) funcProvider {
	return funcProvider{
		forward: func(o Observation) int {
			if o.Weight() >= n {
				return 0
			}
			return 1
		},
		pick: func(Observation) int { return 1 },
		drop: func(Observation) int { return 0 },
	}
}

func newTestEngine(t *testing.T, seed int64, providers ...DecisionProvider) *GameEngine {
	t.Helper()
	e := NewEngineWithSeed(seed)
	for _, p := range providers {
		if _, err := e.AddPlayer("", p); err != nil {
			t.Fatalf("Failed to add player: %v", err)
		}
	}
	if err := e.Reset(); err != nil {
		t.Fatalf("Failed to reset: %v", err)
	}
	return e
}

func playToEnd(t *testing.T, e *GameEngine) {
	t.Helper()
	for steps := 0; !e.IsGameOver(); steps++ {
		if steps > 10000 {
			t.Fatal("Episode did not terminate")
		}
		if _, err := e.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}
}

func TestEngine_LifecycleErrors(t *testing.T) {
	t.Run("step before reset", func(t *testing.T) {
		e := NewEngineWithSeed(1)
		e.AddPlayer("a", constProvider(1, 0, 0))
		_, err := e.Step()
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("Expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("reset without players", func(t *testing.T) {
		e := NewEngineWithSeed(1)
		var stateErr *StateError
		if err := e.Reset(); !errors.As(err, &stateErr) {
			t.Errorf("Expected StateError, got %v", err)
		}
	})

	t.Run("add player after reset", func(t *testing.T) {
		e := newTestEngine(t, 1, constProvider(1, 0, 0))
		if _, err := e.AddPlayer("late", constProvider(1, 0, 0)); !errors.Is(err, ErrInvalidState) {
			t.Errorf("Expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("seventh seat", func(t *testing.T) {
		e := NewEngineWithSeed(1)
		for i := 0; i < MaxPlayers; i++ {
			if _, err := e.AddPlayer("", constProvider(1, 0, 0)); err != nil {
				t.Fatalf("Seat %d: %v", i, err)
			}
		}
		if _, err := e.AddPlayer("", constProvider(1, 0, 0)); !errors.Is(err, ErrInvalidState) {
			t.Errorf("Expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("nil provider", func(t *testing.T) {
		e := NewEngineWithSeed(1)
		if _, err := e.AddPlayer("nobody", nil); err == nil {
			t.Error("Expected error for nil provider")
		}
	})

	t.Run("observation of unknown seat", func(t *testing.T) {
		e := NewEngineWithSeed(1)
		e.AddPlayer("a", constProvider(1, 0, 0))
		if _, err := e.Observation(0); !errors.Is(err, ErrInvalidState) {
			t.Errorf("Expected ErrInvalidState before reset, got %v", err)
		}
		e.Reset()
		if _, err := e.Observation(3); !errors.Is(err, ErrInvalidState) {
			t.Errorf("Expected ErrInvalidState for seat 3, got %v", err)
		}
		if _, err := e.Observation(0); err != nil {
			t.Errorf("Unexpected error for seat 0: %v", err)
		}
	})

	t.Run("step after game over", func(t *testing.T) {
		e := newTestEngine(t, 1, constProvider(1, 0, 0))
		playToEnd(t, e)
		if _, err := e.Step(); !errors.Is(err, ErrInvalidState) {
			t.Errorf("Expected ErrInvalidState, got %v", err)
		}
	})
}

func TestEngine_DefaultNames(t *testing.T) {
	e := NewEngineWithSeed(1)
	e.AddPlayer("", constProvider(1, 0, 0))
	e.AddPlayer("Bob", constProvider(1, 0, 0))

	names := e.PlayerNames()
	if names[0] != "Player 1" || names[1] != "Bob" {
		t.Errorf("Unexpected names: %v", names)
	}
}

func TestEngine_InvalidDecision(t *testing.T) {
	e := newTestEngine(t, 3, constProvider(1, 2, 0))

	_, err := e.Step()
	var decErr *DecisionError
	if !errors.As(err, &decErr) {
		t.Fatalf("Expected DecisionError, got %v", err)
	}
	if !errors.Is(err, ErrInvalidDecision) {
		t.Error("Expected DecisionError to wrap ErrInvalidDecision")
	}
	if decErr.Query != "pick" || decErr.Value != 2 || decErr.PlayerID != 0 {
		t.Errorf("Unexpected error details: %+v", decErr)
	}
	if len(e.GetHistory()) != 0 {
		t.Error("A failed step must not be recorded")
	}
}

func TestEngine_InvalidDecisionHaltsUntilReset(t *testing.T) {
	e := newTestEngine(t, 3, constProvider(1, 2, 0), constProvider(1, 2, 0))

	current := e.CurrentPlayer()
	if _, err := e.Step(); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("Expected ErrInvalidDecision, got %v", err)
	}
	oxygen := e.Oxygen()
	position := e.GetState().Players[current].Position

	for i := 0; i < 3; i++ {
		_, err := e.Step()
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("Step %d after an invalid decision: expected ErrInvalidState, got %v", i, err)
		}
		if errors.Is(err, ErrInvalidDecision) {
			t.Fatal("The turn must not be replayed")
		}
	}
	if e.Oxygen() != oxygen || e.CurrentPlayer() != current {
		t.Errorf("Refused steps changed the table: oxygen %d->%d, current %d->%d",
			oxygen, e.Oxygen(), current, e.CurrentPlayer())
	}
	if got := e.GetState().Players[current].Position; got != position {
		t.Errorf("Refused steps moved the diver from %d to %d", position, got)
	}

	if err := e.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := e.Step(); !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("Expected the fresh episode to reach the decision again, got %v", err)
	}
}

func TestEngine_Reset(t *testing.T) {
	e := newTestEngine(t, 9, grabProvider(1), grabProvider(2), grabProvider(3))

	state := e.GetState()
	if !state.Started || state.GameOver {
		t.Errorf("Unexpected flags after reset: started=%v over=%v", state.Started, state.GameOver)
	}
	if state.Oxygen != StartingOxygen || state.Round != 0 {
		t.Errorf("Expected oxygen %d round 0, got %d/%d", StartingOxygen, state.Oxygen, state.Round)
	}
	if len(state.Path) != PathLength {
		t.Errorf("Expected %d tiles, got %d", PathLength, len(state.Path))
	}
	if len(state.TurnOrder) != 3 || state.CurrentPlayer != state.TurnOrder[0] {
		t.Errorf("Unexpected turn order %v with current %d", state.TurnOrder, state.CurrentPlayer)
	}
	for _, p := range state.Players {
		if p.Position != Submarine || p.Weight != 0 || p.Direction != "forward" || p.Finished || p.Score != 0 {
			t.Errorf("Unexpected player after reset: %+v", p)
		}
	}

	playToEnd(t, e)
	if err := e.Reset(); err != nil {
		t.Fatalf("Second reset failed: %v", err)
	}
	if e.IsGameOver() || e.Round() != 0 || len(e.GetHistory()) != 0 {
		t.Error("Reset must start a fresh episode")
	}
	for i, s := range e.Scores() {
		if s != 0 {
			t.Errorf("Seat %d kept score %d across episodes", i, s)
		}
	}
}

func TestEngine_Determinism(t *testing.T) {
	run := func() *GameEngine {
		e := newTestEngine(t, 1234, grabProvider(1), grabProvider(2), constProvider(1, 0, 0))
		playToEnd(t, e)
		return e
	}

	a, b := run(), run()
	ha, hb := a.GetHistory(), b.GetHistory()
	if len(ha) != len(hb) {
		t.Fatalf("History lengths differ: %d vs %d", len(ha), len(hb))
	}
	for i := range ha {
		if ha[i].Info != hb[i].Info || ha[i].Reward != hb[i].Reward || ha[i].Oxygen != hb[i].Oxygen {
			t.Fatalf("Step %d differs: %+v vs %+v", i+1, ha[i], hb[i])
		}
	}
	for i, s := range a.Scores() {
		if b.Scores()[i] != s {
			t.Errorf("Scores differ: %v vs %v", a.Scores(), b.Scores())
		}
	}
}

func TestEngine_Invariants(t *testing.T) {
	dropper := funcProvider{
		forward: func(o Observation) int {
			if o.Weight() >= 2 {
				return 0
			}
			return 1
		},
		pick: func(Observation) int { return 1 },
		drop: func(Observation) int { return 1 },
	}

	for seed := int64(1); seed <= 10; seed++ {
		e := newTestEngine(t, seed, grabProvider(1), grabProvider(2), dropper, constProvider(1, 0, 0))

		for steps := 0; !e.IsGameOver(); steps++ {
			if steps > 10000 {
				t.Fatalf("seed %d: episode did not terminate", seed)
			}
			before := e.GetState()

			res, err := e.Step()
			if err != nil {
				t.Fatalf("seed %d: step failed: %v", seed, err)
			}
			after := e.GetState()
			rec := e.GetLastStep()

			roundEnded := after.Round != before.Round
			if roundEnded {
				allBack := true
				for _, p := range before.Players {
					actorBanked := p.ID == res.Info.PlayerID && !res.Info.Skipped && res.Info.To == Submarine
					if !p.Finished && !actorBanked {
						allBack = false
					}
				}
				if rec.Oxygen != 0 && !allBack {
					t.Fatalf("seed %d step %d: round ended with oxygen %d and divers still out",
						seed, rec.StepNumber, rec.Oxygen)
				}
				continue
			}

			if after.Oxygen > before.Oxygen {
				t.Fatalf("seed %d step %d: oxygen rose from %d to %d within a round",
					seed, rec.StepNumber, before.Oxygen, after.Oxygen)
			}

			occupied := make(map[int]int)
			for i, p := range after.Players {
				if p.Weight != len(p.CarriedDots) || p.Weight > MaxCarry {
					t.Fatalf("seed %d step %d: bad weight %+v", seed, rec.StepNumber, p)
				}
				if before.Players[i].Direction == "backward" && p.Direction == "forward" {
					t.Fatalf("seed %d step %d: player %d turned back to forward", seed, rec.StepNumber, i)
				}
				if p.Position == Submarine {
					continue
				}
				if other, ok := occupied[p.Position]; ok {
					t.Fatalf("seed %d step %d: players %d and %d share tile %d",
						seed, rec.StepNumber, other, i, p.Position)
				}
				occupied[p.Position] = i
				if after.Path[p.Position-1].Removed {
					t.Fatalf("seed %d step %d: player %d stands on removed tile %d",
						seed, rec.StepNumber, i, p.Position)
				}
			}
		}

		if e.Round() != RoundsPerGame {
			t.Errorf("seed %d: expected %d rounds, got %d", seed, RoundsPerGame, e.Round())
		}
		if last := e.GetLastStep(); last == nil || !last.Done {
			t.Errorf("seed %d: last step should be done", seed)
		}
	}
}

func TestEngine_PickTakesTile(t *testing.T) {
	e := newTestEngine(t, 5, constProvider(1, 1, 0))

	res, err := e.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if res.Info.Forward != NotQueried {
		t.Errorf("Forward must not be asked at the submarine, got %d", res.Info.Forward)
	}
	if res.Info.Pick != 1 || res.Info.Drop != NotQueried {
		t.Errorf("Expected pick=1 drop=-1, got %+v", res.Info)
	}
	if res.Observation.Weight() != 1 {
		t.Errorf("Expected weight 1, got %d", res.Observation.Weight())
	}
	if dots := res.Observation.Dots(res.Info.To); dots != 0 {
		t.Errorf("Expected emptied tile %d, got %d dots", res.Info.To, dots)
	}
	if e.Oxygen() != StartingOxygen {
		t.Errorf("Oxygen is spent before picking, expected %d, got %d", StartingOxygen, e.Oxygen())
	}
}

func TestEngine_DropLightest(t *testing.T) {
	e := newTestEngine(t, 11, constProvider(1, 0, 1))
	p := e.players[0]
	for pos := 1; pos <= 5; pos++ {
		e.path.Take(pos)
	}
	p.Position = 5
	p.Direction = Backward
	p.take(Treasure{Dots: 3, HiddenValue: 9})
	p.take(Treasure{Dots: 1, HiddenValue: 2})

	res, err := e.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if res.Info.Drop != 1 || res.Info.Pick != NotQueried {
		t.Fatalf("Expected a drop query answered 1, got %+v", res.Info)
	}
	if p.Weight != 1 || p.Carried[0].Dots != 3 {
		t.Errorf("Expected to keep the 3-dot treasure, got %+v", p.Carried)
	}
	if tile := e.path.Tile(res.Info.To); tile.Dots != 1 || tile.HiddenValue != 2 {
		t.Errorf("Expected the 1-dot treasure on tile %d, got %+v", res.Info.To, tile)
	}
	if e.Oxygen() != StartingOxygen-2 {
		t.Errorf("Expected oxygen %d, got %d", StartingOxygen-2, e.Oxygen())
	}
}

func TestEngine_FullHandsSkipPick(t *testing.T) {
	e := newTestEngine(t, 2, constProvider(1, 1, 1))
	p := e.players[0]
	p.Position = 10
	p.Direction = Backward
	for i := 0; i < MaxCarry; i++ {
		p.take(Treasure{Dots: 1})
	}

	res, err := e.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if res.Info.Roll != 0 || res.Info.To != 10 {
		t.Errorf("Expected a zero roll staying on 10, got %+v", res.Info)
	}
	if res.Info.Pick != NotQueried || res.Info.Drop != NotQueried {
		t.Errorf("No pick or drop expected at full capacity, got %+v", res.Info)
	}
	if e.Oxygen() != StartingOxygen-MaxCarry {
		t.Errorf("Expected oxygen %d, got %d", StartingOxygen-MaxCarry, e.Oxygen())
	}
}

func TestEngine_BankOnReturn(t *testing.T) {
	e := newTestEngine(t, 4, constProvider(1, 0, 0), constProvider(1, 0, 0))
	e.scheduler.StartRoundWith(0)
	p := e.players[0]
	p.Position = 1
	p.Direction = Backward
	p.take(Treasure{Dots: 2, HiddenValue: 6})

	res, err := e.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if res.Info.To != Submarine || res.Reward != 6 || res.Done {
		t.Errorf("Expected to bank 6 at the submarine, got reward %d info %+v", res.Reward, res.Info)
	}
	if got := e.Scores(); got[0] != 6 || got[1] != 0 {
		t.Errorf("Expected scores [6 0], got %v", got)
	}
	if got := e.FinishOrder(); len(got) != 1 || got[0] != 0 {
		t.Errorf("Expected finish order [0], got %v", got)
	}
	if e.Round() != 0 || res.Info.NextPlayer != 1 {
		t.Errorf("Round should continue with seat 1, got round %d next %d", e.Round(), res.Info.NextPlayer)
	}
}

func TestEngine_FinishedSeatIsSkipped(t *testing.T) {
	e := newTestEngine(t, 4, constProvider(1, 0, 0), constProvider(1, 0, 0))
	e.scheduler.StartRoundWith(0)
	e.players[0].Finished = true
	e.players[1].Position = 3

	res, err := e.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if !res.Info.Skipped || res.Reward != 0 || res.Info.NextPlayer != 1 {
		t.Errorf("Expected a skipped turn handing over to seat 1, got %+v", res.Info)
	}
	if e.Oxygen() != StartingOxygen || res.Info.Forward != NotQueried {
		t.Errorf("A skipped turn must not touch oxygen or ask anything, got %+v", res.Info)
	}
}

func TestEngine_SoloDiverNeverPicks(t *testing.T) {
	e := newTestEngine(t, 21, constProvider(1, 0, 0))

	first, err := e.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if first.Info.Forward != NotQueried {
		t.Errorf("Expected no forward query on the first step, got %d", first.Info.Forward)
	}
	playToEnd(t, e)

	forced := 0
	for _, rec := range e.GetHistory() {
		if rec.Info.ForcedTurn {
			forced++
		}
		if rec.Oxygen != StartingOxygen {
			t.Errorf("Step %d: empty-handed diver spent oxygen, left %d", rec.StepNumber, rec.Oxygen)
		}
	}
	if forced != RoundsPerGame {
		t.Errorf("Expected %d forced turns at the bottom, got %d", RoundsPerGame, forced)
	}
	if e.Scores()[0] != 0 || e.Round() != RoundsPerGame {
		t.Errorf("Expected score 0 after %d rounds, got %v round %d", RoundsPerGame, e.Scores(), e.Round())
	}
}

func TestEngine_OxygenRunsOut(t *testing.T) {
	e := newTestEngine(t, 8, constProvider(1, 0, 0), constProvider(1, 0, 0))
	e.scheduler.StartRoundWith(0)

	p0, p1 := e.players[0], e.players[1]
	p1.Finished = true
	p1.Score = 7
	p0.Position = 10
	p0.Direction = Backward
	p0.take(e.path.Take(10))
	p0.take(e.path.Take(11))
	e.oxygen = 2

	res, err := e.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if res.Reward != 0 || res.Done {
		t.Errorf("Drowned diver must bank nothing, got reward %d done %v", res.Reward, res.Done)
	}
	if res.Info.Round != 0 || e.Round() != 1 {
		t.Errorf("Expected round 0 to end, step round %d engine round %d", res.Info.Round, e.Round())
	}
	if res.Info.NextPlayer != 0 {
		t.Errorf("The diver left deepest in turn order starts next, got %d", res.Info.NextPlayer)
	}
	if got := e.Scores(); got[0] != 0 || got[1] != 7 {
		t.Errorf("Expected scores [0 7], got %v", got)
	}
	if e.Oxygen() != StartingOxygen || p0.Position != Submarine || p0.Weight != 0 {
		t.Errorf("Round reset expected, oxygen %d p0 %+v", e.Oxygen(), p0)
	}
	for _, pos := range []int{10, 11} {
		if !e.path.Removed(pos) {
			t.Errorf("Tile %d should be removed", pos)
		}
	}

	playToEnd(t, e)
	for _, pos := range []int{10, 11} {
		if !e.path.Removed(pos) {
			t.Errorf("Tile %d came back", pos)
		}
	}
	if got := e.Scores(); got[0] != 0 || got[1] != 7 {
		t.Errorf("Expected final scores [0 7], got %v", got)
	}
}

func TestEngine_BulkStep(t *testing.T) {
	e := newTestEngine(t, 17, grabProvider(1), grabProvider(2))

	results, err := e.BulkStep(5)
	if err != nil {
		t.Fatalf("BulkStep failed: %v", err)
	}
	if len(results) != 5 || len(e.GetHistory()) != 5 {
		t.Errorf("Expected 5 steps, got %d results and %d records", len(results), len(e.GetHistory()))
	}

	results, err = e.BulkStep(100000)
	if err != nil {
		t.Fatalf("BulkStep failed: %v", err)
	}
	if !e.IsGameOver() || !results[len(results)-1].Done {
		t.Error("Expected BulkStep to stop at the end of the episode")
	}
	if more, _ := e.BulkStep(3); len(more) != 0 {
		t.Errorf("Expected no steps after game over, got %d", len(more))
	}
}
