package engine

// Direction is the way a diver is currently swimming along the path.
type Direction int

const (
	Backward Direction = 0
	Forward  Direction = 1
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

const (
	// Rule constants
	PathLength     = 32
	TierCount      = 4
	TilesPerTier   = 8
	StartingOxygen = 25
	RoundsPerGame  = 3
	MaxPlayers     = 6
	MaxCarry       = 6
	DieFaces       = 3
	Submarine      = 0

	// NotQueried marks a decision that was not asked for during a turn.
	NotQueried = -1
)

// tierBase is the value offset of each tier, indexed by dots-1.
var tierBase = [TierCount]int{0, 4, 8, 12}

// DecisionProvider supplies the three yes/no choices a diver makes.
// Every method must return 0 or 1.
type DecisionProvider interface {
	// Forward returns 0 to turn around or 1 to keep diving.
	Forward(obs Observation) int
	// Pick returns 0 to ignore the treasure under the diver or 1 to take it.
	Pick(obs Observation) int
	// Drop returns 0 to keep everything or 1 to drop the lightest treasure.
	Drop(obs Observation) int
}

// Treasure is a single chip on the path or in a diver's hands.
type Treasure struct {
	Dots        int  `json:"dots"`
	HiddenValue int  `json:"-"`
	Removed     bool `json:"removed,omitempty"`
}

// StepInfo describes what happened during one call to Step.
type StepInfo struct {
	PlayerID   int  `json:"player_id"`
	Forward    int  `json:"forward"`
	Pick       int  `json:"pick"`
	Drop       int  `json:"drop"`
	Round      int  `json:"round"`
	Roll       int  `json:"roll"`
	From       int  `json:"from"`
	To         int  `json:"to"`
	ForcedTurn bool `json:"forced_turn,omitempty"`
	Skipped    bool `json:"skipped,omitempty"` // actor had already returned
	NextPlayer int  `json:"next_player"`
}

// StepResult is the observation/reward/done/info tuple returned by Step.
type StepResult struct {
	Observation Observation `json:"observation"`
	Reward      int         `json:"reward"`
	Done        bool        `json:"done"`
	Info        StepInfo    `json:"info"`
}

// StepRecord is a single entry in the step history of an episode.
type StepRecord struct {
	StepNumber int      `json:"step_number"`
	Info       StepInfo `json:"info"`
	Reward     int      `json:"reward"`
	Oxygen     int      `json:"oxygen"`
	Done       bool     `json:"done"`
	Timestamp  int64    `json:"timestamp"`
}

// PlayerView is the public part of a diver's record.
type PlayerView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Position    int    `json:"position"`
	Weight      int    `json:"weight"`
	CarriedDots []int  `json:"carried_dots"`
	Direction   string `json:"direction"`
	Finished    bool   `json:"finished"`
	Score       int    `json:"score"`
}

// TileView is the public part of a path tile. Values stay hidden.
type TileView struct {
	Position int  `json:"position"`
	Dots     int  `json:"dots"`
	Removed  bool `json:"removed,omitempty"`
}

// GameState is a JSON-friendly snapshot of a running episode.
type GameState struct {
	Oxygen        int          `json:"oxygen"`
	Round         int          `json:"round"`
	CurrentPlayer int          `json:"current_player"`
	TurnOrder     []int        `json:"turn_order"`
	Players       []PlayerView `json:"players"`
	Path          []TileView   `json:"path"`
	FinishOrder   []int        `json:"finish_order"`
	GameOver      bool         `json:"game_over"`
	Started       bool         `json:"started"`
	Seed          int64        `json:"seed"`
	TotalSteps    int          `json:"total_steps"`
}
