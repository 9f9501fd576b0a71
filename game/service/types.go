package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/tileconnect/game/engine"
)

// History pagination limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Event types carried in GameEvent.Type
const (
	EventSelect       = "select"
	EventMatch        = "match"
	EventMismatch     = "mismatch"
	EventNoRoute      = "no_route"
	EventSearchLimit  = "search_limit"
	EventShuffle      = "shuffle"
	EventLevelCleared = "level_cleared"
	EventLevelUp      = "level_up"
	EventReset        = "reset"
)

// Route failure reasons carried in RouteResult.Reason
const (
	ReasonOutOfRange  = "out_of_range"
	ReasonNoRoute     = "no_route"
	ReasonSearchLimit = "search_limit"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	BoardState     *engine.BoardState  `json:"board_state"`
	BoardConfig    *engine.BoardConfig `json:"board_config"`
}

// MatchResult contains the result of a match attempt
type MatchResult struct {
	Success    bool                `json:"success"`
	Outcome    engine.MatchOutcome `json:"outcome"`
	From       engine.Position     `json:"from"`
	To         engine.Position     `json:"to"`
	Symbol     string              `json:"symbol,omitempty"`
	Route      []engine.Position   `json:"route,omitempty"`
	Waypoints  []engine.Position   `json:"waypoints,omitempty"`
	Corners    int                 `json:"corners"`
	BoardState *engine.BoardState  `json:"board_state"`
	Message    string              `json:"message"`
	Events     []GameEvent         `json:"events,omitempty"`

	// Final status aids
	Cleared       bool `json:"cleared,omitempty"`
	LevelAdvanced bool `json:"level_advanced,omitempty"`
	Shuffled      bool `json:"shuffled,omitempty"`
	HasMoves      bool `json:"has_moves"`
}

// SelectResult contains the result of a tile click
type SelectResult struct {
	Selected   *engine.Position   `json:"selected,omitempty"`
	Match      *MatchResult       `json:"match,omitempty"`
	BoardState *engine.BoardState `json:"board_state"`
	Message    string             `json:"message"`
	Events     []GameEvent        `json:"events,omitempty"`
}

// HintResult contains a currently matchable pair, if any
type HintResult struct {
	Found         bool              `json:"found"`
	SearchLimited bool              `json:"search_limited,omitempty"`
	Hint          *engine.Hint      `json:"hint,omitempty"`
	Waypoints     []engine.Position `json:"waypoints,omitempty"`
	Message       string            `json:"message"`
}

// ShuffleResult contains the result of a manual shuffle
type ShuffleResult struct {
	Success    bool               `json:"success"`
	BoardState *engine.BoardState `json:"board_state"`
	Message    string             `json:"message"`
	Events     []GameEvent        `json:"events,omitempty"`
}

// RouteResult answers a route query without changing the board
type RouteResult struct {
	Found     bool              `json:"found"`
	From      engine.Position   `json:"from"`
	To        engine.Position   `json:"to"`
	Route     []engine.Position `json:"route,omitempty"`
	Waypoints []engine.Position `json:"waypoints,omitempty"`
	Corners   int               `json:"corners"`
	Reason    string            `json:"reason,omitempty"` // out_of_range|no_route|search_limit
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	ID        string           `json:"id"`
	Type      string           `json:"type"` // "select", "match", "mismatch", "no_route", "search_limit", "shuffle", "level_cleared", "level_up", "reset"
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Position  *engine.Position `json:"position,omitempty"`
}

// newEvent stamps an event with a fresh ID and the current time
func newEvent(eventType, message string, pos *engine.Position) GameEvent {
	return GameEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
		Position:  pos,
	}
}

// HistoryOptions configures match history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated match history
type HistoryResponse struct {
	Matches      []engine.MatchHistoryEntry `json:"matches"`
	TotalMatches int                        `json:"total_matches"`
	Page         int                        `json:"page"`
	PageSize     int                        `json:"page_size"`
	TotalPages   int                        `json:"total_pages"`
	HasNext      bool                       `json:"has_next"`
	HasPrevious  bool                       `json:"has_previous"`
}

// ConfigInfo provides information about a board configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Symbols     int    `json:"symbols"`
	FixedLayout bool   `json:"fixed_layout"`
}
