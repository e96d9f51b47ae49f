package service

import (
	"time"

	"github.com/wricardo/mcp-training/deepsea/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	Seed           int64               `json:"seed"`
	Episode        int                 `json:"episode"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *engine.GameState   `json:"game_state"`
	TableConfig    *engine.TableConfig `json:"table_config"`
}

// StepResult contains the result of a single step
type StepResult struct {
	SessionID  string            `json:"session_id"`
	PlayerName string            `json:"player_name"`
	Reward     int               `json:"reward"`
	Done       bool              `json:"done"`
	Info       engine.StepInfo   `json:"info"`
	Vector     []int             `json:"observation"`
	GameState  *engine.GameState `json:"game_state"`
	Message    string            `json:"message"`
	Events     []GameEvent       `json:"events,omitempty"`
}

// RunResult contains the result of running several steps in one call
type RunResult struct {
	StepsExecuted  int               `json:"steps_executed"`
	RequestedSteps int               `json:"requested_steps"`
	Done           bool              `json:"done"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // episode_over|limit|cancelled
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Per-seat reward banked during this call
	Rewards []int `json:"rewards"`

	// Per-step compact trace (only for this call)
	Steps []engine.StepInfo `json:"steps,omitempty"`
}

// ObservationInfo is a seat's observation with the main fields decoded
type ObservationInfo struct {
	PlayerID  int    `json:"player_id"`
	Name      string `json:"name"`
	Vector    []int  `json:"observation"`
	Oxygen    int    `json:"oxygen"`
	Position  int    `json:"position"`
	Weight    int    `json:"weight"`
	Direction string `json:"direction"`
	Dots      []int  `json:"dots"`
	Skip      []int  `json:"skip"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "step", "bank", "forced_turn", "round_end", "episode_over", "reset"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  int       `json:"player_id"`
	Position  int       `json:"position"`
}

// HistoryOptions configures step history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated step history
type HistoryResponse struct {
	Steps       []engine.StepRecord `json:"steps"`
	TotalSteps  int                 `json:"total_steps"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a table configuration
type ConfigInfo struct {
	Filename    string   `json:"filename"`
	ConfigID    string   `json:"config_id"` // The identifier to use for session creation
	Name        string   `json:"name"`      // Display name
	Description string   `json:"description"`
	Players     int      `json:"players"`
	Strategies  []string `json:"strategies"`
}

// SeatResult is one seat's outcome in a finished episode
type SeatResult struct {
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
	Strategy string `json:"strategy"`
	Score    int    `json:"score"`
}

// EpisodeResult summarizes a finished episode
type EpisodeResult struct {
	SessionID  string       `json:"session_id"`
	ConfigName string       `json:"config_name"`
	Seed       int64        `json:"seed"`
	Steps      int          `json:"steps"`
	Seats      []SeatResult `json:"seats"`
	Winners    []int        `json:"winners"`
	FinishedAt time.Time    `json:"finished_at"`
}
