package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/deepsea/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, seed *int64) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Step(ctx context.Context, sessionID string) (*StepResult, error)
	Run(ctx context.Context, sessionID string, maxSteps int) (*RunResult, error)
	Reset(ctx context.Context, sessionID string, seed *int64) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetObservation(ctx context.Context, sessionID string, playerID int) (*ObservationInfo, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.TableConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.TableConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.TableConfig, seed int64) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles table configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.TableConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.TableConfig
	SaveConfig(name string, config *engine.TableConfig) error
}

// EpisodeRecorder receives every episode that runs to completion
type EpisodeRecorder interface {
	RecordEpisode(ctx context.Context, result *EpisodeResult) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.TableConfig
	ConfigID       string
	Seed           int64
	Episode        int
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
