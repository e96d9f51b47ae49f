package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	log "github.com/sirupsen/logrus"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Table setup
	AddPlayer(name string, provider DecisionProvider) (int, error)
	Seed(seed int64) int64
	Reset() error

	// Turn processing
	Step() (*StepResult, error)
	BulkStep(limit int) ([]*StepResult, error)

	// Observation and state
	Observation(playerID int) (Observation, error)
	GetState() *GameState
	IsGameOver() bool
	IsStarted() bool
	Round() int
	Oxygen() int
	CurrentPlayer() int
	PlayerCount() int
	Scores() []int
	FinishOrder() []int

	// History
	GetHistory() []StepRecord
	GetLastStep() *StepRecord
}

// GameEngine implements the Engine interface. It is not safe for
// concurrent use; callers serialize access per game.
type GameEngine struct {
	seed      int64
	rng       *rand.Rand
	resolver  *MovementResolver
	scheduler *TurnScheduler
	path      *TreasurePath
	players   []*PlayerState

	oxygen      int
	round       int
	started     bool
	gameOver    bool
	aborted     error
	finishOrder []int
	history     []StepRecord
}

// NewEngine creates an engine seeded from the clock.
func NewEngine() *GameEngine {
	return NewEngineWithSeed(time.Now().UnixNano())
}

// NewEngineWithSeed creates an engine with a deterministic random source.
func NewEngineWithSeed(seed int64) *GameEngine {
	e := &GameEngine{}
	e.Seed(seed)
	return e
}

// Seed reseeds the engine's random source and returns the seed.
func (e *GameEngine) Seed(seed int64) int64 {
	e.seed = seed
	e.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	e.resolver = NewMovementResolver(e.rng)
	return seed
}

// AddPlayer seats a new diver. Seats can only be added before the first Reset.
func (e *GameEngine) AddPlayer(name string, provider DecisionProvider) (int, error) {
	if e.started {
		return 0, &StateError{Op: "add player", Reason: "episode already started"}
	}
	if len(e.players) >= MaxPlayers {
		return 0, &StateError{Op: "add player", Reason: fmt.Sprintf("table is full (%d seats)", MaxPlayers)}
	}
	if provider == nil {
		return 0, fmt.Errorf("add player: decision provider cannot be nil")
	}

	id := len(e.players)
	if name == "" {
		name = fmt.Sprintf("Player %d", id+1)
	}
	e.players = append(e.players, newPlayerState(id, name, provider))
	return id, nil
}

// Reset deals a fresh path and starts a new episode.
func (e *GameEngine) Reset() error {
	if len(e.players) == 0 {
		return &StateError{Op: "reset", Reason: "no players registered"}
	}

	for _, p := range e.players {
		p.resetRound()
		p.Score = 0
	}

	e.path = NewTreasurePath(e.rng)
	e.scheduler = NewTurnScheduler(len(e.players), e.rng)
	e.oxygen = StartingOxygen
	e.round = 0
	e.started = true
	e.gameOver = false
	e.aborted = nil
	e.finishOrder = nil
	e.history = nil

	return nil
}

// Step plays the current diver's turn.
//
// A DecisionError aborts the turn midway: oxygen, direction and position
// keep whatever the turn already changed. The engine then refuses to step
// until Reset.
func (e *GameEngine) Step() (*StepResult, error) {
	if !e.started {
		return nil, &StateError{Op: "step", Reason: "episode not started, call Reset first"}
	}
	if e.gameOver {
		return nil, &StateError{Op: "step", Reason: "episode is over"}
	}
	if e.aborted != nil {
		return nil, &StateError{Op: "step", Reason: fmt.Sprintf("turn aborted (%v), call Reset first", e.aborted)}
	}

	pid := e.scheduler.Current()
	p := e.players[pid]
	info := StepInfo{
		PlayerID: pid,
		Forward:  NotQueried,
		Pick:     NotQueried,
		Drop:     NotQueried,
		Round:    e.round,
		From:     p.Position,
		To:       p.Position,
	}
	reward := 0

	if p.Finished {
		info.Skipped = true
	} else {
		var err error
		if reward, err = e.playTurn(p, &info); err != nil {
			e.aborted = err
			return nil, err
		}
	}

	obs := e.observe(pid)
	oxygen := e.oxygen
	done := e.endTurn()
	info.NextPlayer = e.scheduler.Current()

	e.history = append(e.history, StepRecord{
		StepNumber: len(e.history) + 1,
		Info:       info,
		Reward:     reward,
		Oxygen:     oxygen,
		Done:       done,
		Timestamp:  time.Now().Unix(),
	})

	return &StepResult{Observation: obs, Reward: reward, Done: done, Info: info}, nil
}

// playTurn runs the oxygen, forward, move, and pick/drop phases for an
// active diver and returns the banked reward.
func (e *GameEngine) playTurn(p *PlayerState, info *StepInfo) (int, error) {
	e.oxygen = max(0, e.oxygen-p.Weight)

	if p.Direction == Forward && p.Position != Submarine {
		ans, err := e.ask(p.ID, "forward", p.provider.Forward)
		if err != nil {
			return 0, err
		}
		info.Forward = ans
		if ans == 0 {
			p.turnAround()
		}
	}

	skip := e.observe(p.ID).SkipMask()
	move := e.resolver.Resolve(p.Position, p.Direction, skip, e.resolver.Roll(p.Weight))
	if move.ForcedTurn {
		p.turnAround()
	}
	p.Position = move.To
	info.Roll = move.Roll
	info.To = move.To
	info.ForcedTurn = move.ForcedTurn

	if p.Position == Submarine {
		reward := p.bank()
		e.finishOrder = append(e.finishOrder, p.ID)
		return reward, nil
	}

	tile := e.path.Tile(p.Position)
	switch {
	case tile.Dots == 0 && p.Weight > 0:
		ans, err := e.ask(p.ID, "drop", p.provider.Drop)
		if err != nil {
			return 0, err
		}
		info.Drop = ans
		if ans == 1 {
			e.path.Place(p.Position, p.release(p.lightestIndex()))
		}

	case tile.Dots > 0 && p.Weight < MaxCarry:
		ans, err := e.ask(p.ID, "pick", p.provider.Pick)
		if err != nil {
			return 0, err
		}
		info.Pick = ans
		if ans == 1 {
			p.take(e.path.Take(p.Position))
		}
	}

	return 0, nil
}

// ask queries a decision with a fresh observation and checks the answer.
func (e *GameEngine) ask(pid int, query string, decide func(Observation) int) (int, error) {
	ans := decide(e.observe(pid))
	if ans != 0 && ans != 1 {
		return 0, &DecisionError{PlayerID: pid, Query: query, Value: ans}
	}
	return ans, nil
}

// endTurn closes the round when oxygen runs out or everyone is back,
// otherwise hands the turn to the next seat. It reports episode end.
func (e *GameEngine) endTurn() bool {
	if e.oxygen > 0 && !e.allFinished() {
		e.scheduler.Advance()
		return false
	}

	e.round++
	if e.round >= RoundsPerGame {
		e.gameOver = true
		log.Debugf("episode over after %d rounds, scores=%v", e.round, e.Scores())
		return true
	}

	e.endRound()
	return false
}

// endRound picks the next starter, sinks emptied tiles, and sends every
// diver back to the submarine with a fresh oxygen supply.
func (e *GameEngine) endRound() {
	starter := e.scheduler.NextRoundStarter(e.players)
	e.scheduler.StartRoundWith(starter)

	removed := e.path.RemoveEmptied()
	for _, p := range e.players {
		p.resetRound()
	}
	e.oxygen = StartingOxygen
	e.finishOrder = nil

	log.Debugf("round %d starts with player %d, %d tiles removed", e.round, starter, removed)
}

func (e *GameEngine) allFinished() bool {
	for _, p := range e.players {
		if !p.Finished {
			return false
		}
	}
	return true
}

func (e *GameEngine) observe(pid int) Observation {
	return EncodeObservation(pid, e.oxygen, e.players, e.path)
}

// BulkStep executes up to limit steps, stopping early when the episode ends.
func (e *GameEngine) BulkStep(limit int) ([]*StepResult, error) {
	results := make([]*StepResult, 0, max(limit, 0))

	for i := 0; i < limit; i++ {
		if e.gameOver {
			break
		}
		res, err := e.Step()
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	return results, nil
}

// Observation returns the table as seen from playerID's seat.
func (e *GameEngine) Observation(playerID int) (Observation, error) {
	if !e.started {
		return Observation{}, &StateError{Op: "observation", Reason: "episode not started, call Reset first"}
	}
	if playerID < 0 || playerID >= len(e.players) {
		return Observation{}, &StateError{Op: "observation", Reason: fmt.Sprintf("unknown player %d", playerID)}
	}
	return e.observe(playerID), nil
}

// GetState returns a snapshot of the table
func (e *GameEngine) GetState() *GameState {
	state := &GameState{
		Oxygen:      e.oxygen,
		Round:       e.round,
		Players:     make([]PlayerView, len(e.players)),
		Path:        []TileView{},
		FinishOrder: append([]int{}, e.finishOrder...),
		GameOver:    e.gameOver,
		Started:     e.started,
		Seed:        e.seed,
		TotalSteps:  len(e.history),
	}

	for i, p := range e.players {
		state.Players[i] = p.view()
	}

	if e.started {
		state.CurrentPlayer = e.scheduler.Current()
		state.TurnOrder = e.scheduler.Order()
		for i, t := range e.path.Tiles() {
			state.Path = append(state.Path, TileView{Position: i + 1, Dots: t.Dots, Removed: t.Removed})
		}
	}

	return state
}

// IsGameOver returns whether the third round has ended
func (e *GameEngine) IsGameOver() bool {
	return e.gameOver
}

// IsStarted returns whether Reset has been called
func (e *GameEngine) IsStarted() bool {
	return e.started
}

// Round returns the zero-based round counter
func (e *GameEngine) Round() int {
	return e.round
}

// Oxygen returns the shared oxygen left this round
func (e *GameEngine) Oxygen() int {
	return e.oxygen
}

// CurrentPlayer returns the seat whose turn is next
func (e *GameEngine) CurrentPlayer() int {
	if !e.started {
		return 0
	}
	return e.scheduler.Current()
}

// PlayerCount returns the number of seated divers
func (e *GameEngine) PlayerCount() int {
	return len(e.players)
}

// Scores returns the cumulative score of every seat
func (e *GameEngine) Scores() []int {
	scores := make([]int, len(e.players))
	for i, p := range e.players {
		scores[i] = p.Score
	}
	return scores
}

// FinishOrder returns the seats that made it back this round, in order
func (e *GameEngine) FinishOrder() []int {
	return append([]int{}, e.finishOrder...)
}

// PlayerNames returns the display name of every seat
func (e *GameEngine) PlayerNames() []string {
	names := make([]string, len(e.players))
	for i, p := range e.players {
		names[i] = p.Name
	}
	return names
}

// GetHistory returns every step of the current episode
func (e *GameEngine) GetHistory() []StepRecord {
	return e.history
}

// GetLastStep returns the last step taken, or nil if none
func (e *GameEngine) GetLastStep() *StepRecord {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}
