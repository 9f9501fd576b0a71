package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/tileconnect/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.BoardConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Prefer the requested identifier, otherwise look up the config_id by display name
	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		BoardState:     session.Engine.GetState().Clone(),
		BoardConfig:    session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		BoardState:     session.Engine.GetState().Clone(),
		BoardConfig:    session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			BoardState:     sess.Engine.GetState().Clone(),
			BoardConfig:    sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// session looks up a session and marks it accessed. Callers hold s.mu.
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// Select applies a tile click for a session
func (s *gameServiceImpl) Select(ctx context.Context, sessionID string, pos engine.Position) (*SelectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	selection := sess.Engine.Select(pos)
	state := sess.Engine.GetState().Clone()

	result := &SelectResult{
		Selected:   selection.Selected,
		BoardState: state,
		Message:    state.Message,
		Events:     []GameEvent{},
	}

	if selection.Match != nil {
		result.Match = s.buildMatchResult(sess, selection.Match)
		result.Events = append(result.Events, result.Match.Events...)
		return result, nil
	}

	if selection.Selected != nil && *selection.Selected == pos {
		selected := pos
		symbol := sess.Engine.Board().Cell(selected).Symbol
		result.Events = append(result.Events, newEvent(EventSelect,
			fmt.Sprintf("Selected %s at (%d,%d)", symbol, selected.X, selected.Y), &selected))
	}

	return result, nil
}

// Match attempts to remove a pair of tiles for a session
func (s *gameServiceImpl) Match(ctx context.Context, sessionID string, from, to engine.Position) (*MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	return s.buildMatchResult(sess, sess.Engine.Match(from, to)), nil
}

// buildMatchResult wraps an engine match result with state and events
func (s *gameServiceImpl) buildMatchResult(sess *Session, res *engine.MatchResult) *MatchResult {
	state := sess.Engine.GetState().Clone()

	result := &MatchResult{
		Success:       res.Success(),
		Outcome:       res.Outcome,
		From:          res.From,
		To:            res.To,
		Symbol:        res.Symbol,
		Route:         res.Route,
		Waypoints:     res.Waypoints,
		Corners:       res.Route.Corners(),
		BoardState:    state,
		Message:       state.Message,
		Events:        s.extractMatchEvents(res, state),
		Cleared:       res.Cleared,
		LevelAdvanced: res.LevelAdvanced,
		Shuffled:      res.Shuffled,
	}
	result.HasMoves, _ = sess.Engine.HasMoves()

	return result
}

// extractMatchEvents generates events from a match attempt
func (s *gameServiceImpl) extractMatchEvents(res *engine.MatchResult, state *engine.BoardState) []GameEvent {
	events := []GameEvent{}
	from := res.From

	switch res.Outcome {
	case engine.MatchOK:
		events = append(events, newEvent(EventMatch,
			fmt.Sprintf("Matched %s at (%d,%d) and (%d,%d) with %d corner(s)",
				res.Symbol, res.From.X, res.From.Y, res.To.X, res.To.Y, res.Route.Corners()), &from))
	case engine.MatchSymbolMismatch:
		events = append(events, newEvent(EventMismatch,
			fmt.Sprintf("Tiles at (%d,%d) and (%d,%d) carry different symbols",
				res.From.X, res.From.Y, res.To.X, res.To.Y), &from))
	case engine.MatchNoRoute:
		events = append(events, newEvent(EventNoRoute,
			fmt.Sprintf("No route with at most two corners between (%d,%d) and (%d,%d)",
				res.From.X, res.From.Y, res.To.X, res.To.Y), &from))
	case engine.MatchSearchLimit:
		events = append(events, newEvent(EventSearchLimit,
			fmt.Sprintf("Route search between (%d,%d) and (%d,%d) hit the node limit",
				res.From.X, res.From.Y, res.To.X, res.To.Y), &from))
	default:
		return events
	}

	if res.Cleared {
		level := state.Level
		if res.LevelAdvanced {
			level--
		}
		events = append(events, newEvent(EventLevelCleared, fmt.Sprintf("Level %d cleared", level), nil))
	}
	if res.LevelAdvanced {
		events = append(events, newEvent(EventLevelUp,
			fmt.Sprintf("Level %d: %dx%d board", state.Level, state.Width, state.Height), nil))
	}
	if res.Shuffled {
		events = append(events, newEvent(EventShuffle, state.Message, nil))
	}

	return events
}

// Hint returns a pair that can currently be matched
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string) (*HintResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	hint, ok, err := sess.Engine.Hint()
	if errors.Is(err, engine.ErrSearchLimit) {
		return &HintResult{
			Found:         false,
			SearchLimited: true,
			Message:       "The search node limit was reached before a pair was found",
		}, nil
	}
	if !ok {
		return &HintResult{
			Found:   false,
			Message: "No pair can be matched right now; shuffle the board",
		}, nil
	}

	return &HintResult{
		Found:     true,
		Hint:      hint,
		Waypoints: hint.Route.Waypoints(),
		Message: fmt.Sprintf("Match %s at (%d,%d) with (%d,%d)",
			hint.Symbol, hint.From.X, hint.From.Y, hint.To.X, hint.To.Y),
	}, nil
}

// Shuffle rearranges the remaining tiles of a session
func (s *gameServiceImpl) Shuffle(ctx context.Context, sessionID string) (*ShuffleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	shuffleErr := sess.Engine.Shuffle()
	state := sess.Engine.GetState().Clone()

	return &ShuffleResult{
		Success:    shuffleErr == nil,
		BoardState: state,
		Message:    state.Message,
		Events:     []GameEvent{newEvent(EventShuffle, state.Message, nil)},
	}, nil
}

// Reset resets a game session to level 1
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	return sess.Engine.Reset().Clone(), nil
}

// Route answers a route query between two board cells without changing the board
func (s *gameServiceImpl) Route(ctx context.Context, sessionID string, from, to engine.Position) (*RouteResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	result := &RouteResult{From: from, To: to}

	route, err := sess.Engine.FindRoute(from, to)
	switch {
	case err == nil:
		result.Found = true
		result.Route = route
		result.Waypoints = route.Waypoints()
		result.Corners = route.Corners()
	case errors.Is(err, engine.ErrOutOfRange):
		result.Reason = ReasonOutOfRange
	case errors.Is(err, engine.ErrSearchLimit):
		result.Reason = ReasonSearchLimit
	case errors.Is(err, engine.ErrNoRoute):
		result.Reason = ReasonNoRoute
	default:
		return nil, fmt.Errorf("route query failed: %w", err)
	}

	return result, nil
}

// GetBoardState returns the current board state
func (s *gameServiceImpl) GetBoardState(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	return sess.Engine.GetState().Clone(), nil
}

// GetMatchHistory returns paginated match history
func (s *gameServiceImpl) GetMatchHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMatchHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultHistoryLimit
	}
	if opts.Limit > MaxHistoryLimit {
		opts.Limit = MaxHistoryLimit
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	// Get the slice of matches
	var matches []engine.MatchHistoryEntry
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			matches = append(matches, history[i])
		}
	} else {
		// Normal chronological order
		if start < total {
			matches = history[start:end]
		}
	}

	// Ensure matches is not nil
	if matches == nil {
		matches = []engine.MatchHistoryEntry{}
	}

	return &HistoryResponse{
		Matches:      matches,
		TotalMatches: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns available board configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific board configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a board configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	return s.configs.SaveConfig(configName, config)
}
