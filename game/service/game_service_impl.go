package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/deepsea/game/engine"
)

// MaxRunSteps caps how many steps a single Run call executes.
const MaxRunSteps = 5000

var (
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrSessionNotFound = errors.New("session not found")
)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithRecorder hands every finished episode to r.
func WithRecorder(r EpisodeRecorder) Option {
	return func(s *gameServiceImpl) {
		s.recorder = r
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	recorder EpisodeRecorder
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed *int64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.TableConfig
	var err error
	configID := configName
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				return nil, s.configNotFound(configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.getConfigID(config.Name)
	}

	sess, err := s.sessions.Create("", config, ResolveSeed(seed, config))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.ConfigID = configID

	log.WithFields(log.Fields{"session": sess.ID, "config": configID, "seed": sess.Seed}).Info("session created")
	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Step plays the current seat's turn
func (s *gameServiceImpl) Step(ctx context.Context, sessionID string) (*StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	res, err := sess.Engine.Step()
	if err != nil {
		return nil, err
	}

	state := sess.Engine.GetState()
	events := stepEvents(res, state)
	if res.Done {
		s.record(ctx, sess)
	}

	return &StepResult{
		SessionID:  sess.ID,
		PlayerName: state.Players[res.Info.PlayerID].Name,
		Reward:     res.Reward,
		Done:       res.Done,
		Info:       res.Info,
		Vector:     res.Observation[:],
		GameState:  state,
		Message:    events[0].Message,
		Events:     events,
	}, nil
}

// Run steps the session until the episode ends, maxSteps is reached or ctx is done
func (s *gameServiceImpl) Run(ctx context.Context, sessionID string, maxSteps int) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := &RunResult{
		RequestedSteps: maxSteps,
		Events:         []GameEvent{},
		Rewards:        make([]int, sess.Engine.PlayerCount()),
	}

	limit := maxSteps
	if limit <= 0 || limit > MaxRunSteps {
		limit = MaxRunSteps
		result.Truncated = maxSteps > MaxRunSteps
		result.Limit = MaxRunSteps
	}

	for result.StepsExecuted < limit {
		if sess.Engine.IsGameOver() {
			break
		}
		if err := ctx.Err(); err != nil {
			result.StopReasonCode = "cancelled"
			result.StoppedReason = fmt.Sprintf("stopped after %d steps: %v", result.StepsExecuted, err)
			break
		}

		res, err := sess.Engine.Step()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", result.StepsExecuted+1, err)
		}
		result.StepsExecuted++
		result.Steps = append(result.Steps, res.Info)
		result.Rewards[res.Info.PlayerID] += res.Reward

		state := sess.Engine.GetState()
		for _, ev := range stepEvents(res, state) {
			if ev.Type != "step" {
				result.Events = append(result.Events, ev)
			}
		}

		if res.Done {
			s.record(ctx, sess)
		}
	}

	result.GameState = sess.Engine.GetState()
	result.Done = sess.Engine.IsGameOver()
	if result.StopReasonCode == "" {
		if result.Done {
			result.StopReasonCode = "episode_over"
			result.StoppedReason = fmt.Sprintf("episode over, scores %v", sess.Engine.Scores())
		} else {
			result.StopReasonCode = "limit"
			result.StoppedReason = fmt.Sprintf("executed %d of %d steps", result.StepsExecuted, limit)
		}
	}

	return result, nil
}

// Reset deals a new episode, reseeding the table when seed is given
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string, seed *int64) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if seed != nil {
		// Strategies carry their own seeded state, so a new seed means a new table.
		eng, err := BuildEngine(sess.Config, *seed)
		if err != nil {
			return nil, err
		}
		sess.Engine = eng
		sess.Seed = *seed
	} else if err := sess.Engine.Reset(); err != nil {
		return nil, err
	}
	sess.Episode++

	log.WithFields(log.Fields{"session": sess.ID, "episode": sess.Episode}).Info("session reset")
	return sess.Engine.GetState(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetObservation returns the table as seen from one seat
func (s *gameServiceImpl) GetObservation(ctx context.Context, sessionID string, playerID int) (*ObservationInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	obs, err := sess.Engine.Observation(playerID)
	if err != nil {
		return nil, err
	}

	info := &ObservationInfo{
		PlayerID:  playerID,
		Name:      sess.Engine.PlayerNames()[playerID],
		Vector:    obs[:],
		Oxygen:    obs.Oxygen(),
		Position:  obs.Position(),
		Weight:    obs.Weight(),
		Direction: engine.Backward.String(),
		Dots:      make([]int, engine.PathLength),
		Skip:      make([]int, engine.PathLength),
	}
	if obs.Forward() {
		info.Direction = engine.Forward.String()
	}
	for pos := 1; pos <= engine.PathLength; pos++ {
		info.Dots[pos-1] = obs.Dots(pos)
		if obs.Skipped(pos) {
			info.Skip[pos-1] = 1
		}
	}
	return info, nil
}

// GetHistory returns paginated step history
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	history := sess.Engine.GetHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	steps := []engine.StepRecord{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			steps = append(steps, history[i])
		}
	} else if start < total {
		steps = append(steps, history[start:end]...)
	}

	return &HistoryResponse{
		Steps:       steps,
		TotalSteps:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available table configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific table configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.TableConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a table configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.TableConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func (s *gameServiceImpl) record(ctx context.Context, sess *Session) {
	result := SummarizeEpisode(sess.ID, sess.ConfigID, sess.Config, sess.Engine)
	log.WithFields(log.Fields{"session": sess.ID, "winners": result.Winners}).Info("episode finished")

	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordEpisode(ctx, result); err != nil {
		log.WithError(err).Warnf("failed to record episode of session %s", sess.ID)
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	configID := sess.ConfigID
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		Seed:           sess.Seed,
		Episode:        sess.Episode,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		TableConfig:    sess.Config,
	}
}

// getConfigID returns the config_id for a given display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) configNotFound(configName string) error {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil && len(availableConfigs) > 0 {
		configIDs := make([]string, 0, len(availableConfigs))
		for _, cfg := range availableConfigs {
			configIDs = append(configIDs, cfg.ConfigID)
		}
		return fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, ErrConfigNotFound)
	}
	return fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, ErrConfigNotFound)
}

// stepEvents describes a step as events; the first one is always the step itself.
func stepEvents(res *engine.StepResult, state *engine.GameState) []GameEvent {
	now := time.Now()
	info := res.Info
	name := state.Players[info.PlayerID].Name

	base := GameEvent{Type: "step", Timestamp: now, PlayerID: info.PlayerID, Position: info.To}
	switch {
	case info.Skipped:
		base.Message = fmt.Sprintf("%s is back on the submarine, turn skipped", name)
	case info.Pick == 1:
		base.Message = fmt.Sprintf("%s rolled %d, moved %d -> %d and picked up a treasure", name, info.Roll, info.From, info.To)
	case info.Drop == 1:
		base.Message = fmt.Sprintf("%s rolled %d, moved %d -> %d and dropped a treasure", name, info.Roll, info.From, info.To)
	default:
		base.Message = fmt.Sprintf("%s rolled %d, moved %d -> %d", name, info.Roll, info.From, info.To)
	}
	events := []GameEvent{base}

	if info.ForcedTurn {
		ev := base
		ev.Type = "forced_turn"
		ev.Message = fmt.Sprintf("%s hit the bottom and had to turn around", name)
		events = append(events, ev)
	}
	if !info.Skipped && info.To == engine.Submarine {
		ev := base
		ev.Type = "bank"
		ev.Message = fmt.Sprintf("%s made it back and banked %d points", name, res.Reward)
		events = append(events, ev)
	}
	if res.Done {
		ev := base
		ev.Type = "episode_over"
		ev.Message = fmt.Sprintf("Episode over, final scores %v", scoresOf(state))
		events = append(events, ev)
	} else if state.Round != info.Round {
		ev := base
		ev.Type = "round_end"
		ev.Message = fmt.Sprintf("Round %d ended, player %d starts round %d", info.Round+1, info.NextPlayer, state.Round+1)
		events = append(events, ev)
	}
	return events
}

func scoresOf(state *engine.GameState) []int {
	scores := make([]int, len(state.Players))
	for i, p := range state.Players {
		scores[i] = p.Score
	}
	return scores
}
