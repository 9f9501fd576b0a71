package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var ErrLevelNotCleared = errors.New("level not cleared")

const searchLimitMessage = "The search node limit was reached before a move was found"

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *BoardState
	Reset() *BoardState
	IsCleared() bool
	GetScore() int
	GetLevel() int
	GetRemainingTiles() int

	// Play
	Select(pos Position) *SelectResult
	Match(from, to Position) *MatchResult
	Shuffle() error
	NextLevel() error

	// Queries
	FindRoute(from, to Position) (Route, error)
	Hint() (*Hint, bool, error)
	HasMoves() (bool, error)

	// Configuration
	GetConfig() *BoardConfig
	SetConfig(config *BoardConfig) error

	// History
	GetMatchHistory() []MatchHistoryEntry
	GetLastMatch() *MatchHistoryEntry
}

// SelectResult reports the selection after a click and, when the click
// completed a pair, the match attempt it triggered
type SelectResult struct {
	Selected *Position    `json:"selected,omitempty"`
	Match    *MatchResult `json:"match,omitempty"`
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state    *BoardState
	config   *BoardConfig
	board    *Board
	messages BoardMessages
	rng      *rand.Rand
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *BoardConfig) (*GameEngine, error) {
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{}
	if err := e.init(config); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the built-in configuration
func NewEngineWithDefaults() *GameEngine {
	e := &GameEngine{}
	if err := e.init(DefaultBoardConfig()); err != nil {
		panic(fmt.Sprintf("built-in board config: %v", err))
	}
	return e
}

// init wires config, RNG and a fresh first level
func (e *GameEngine) init(config *BoardConfig) error {
	e.config = config
	e.messages = config.Messages.withDefaults()

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e.rng = rand.New(rand.NewSource(seed))

	board, err := e.buildLevel(1, config.Width, config.Height)
	if err != nil {
		return err
	}
	e.board = board

	e.state = &BoardState{
		Level:        1,
		Message:      e.messages.Welcome,
		ConfigName:   config.Name,
		MatchHistory: []MatchHistoryEntry{},
	}
	e.settle()
	e.sync()
	if msg := e.blockedMessage(); msg != "" {
		e.state.Message = msg
	}
	return nil
}

// buildLevel creates the board for a level. Level 1 of a config with a fixed
// layout uses that layout; every other level is generated and shuffled.
func (e *GameEngine) buildLevel(level, width, height int) (*Board, error) {
	board := NewBoard(width, height)
	board.SetSearchLimit(e.config.SearchNodeLimit)

	if level == 1 && len(e.config.Layout) > 0 {
		if err := board.LoadLayout(e.config.Layout); err != nil {
			return nil, err
		}
		return board, nil
	}

	if err := board.Generate(e.config.Symbols); err != nil {
		return nil, err
	}
	// A failed shuffle leaves a playable-looking board; settle reports it as stuck
	_ = board.Shuffle(e.rng, e.config.MaxShuffleAttempts)
	return board, nil
}

// settle shuffles when tiles remain but none can be matched. A move check cut
// short by the search node limit leaves the board alone.
// It returns true when a shuffle happened.
func (e *GameEngine) settle() bool {
	e.state.Stuck = false
	e.state.SearchLimited = false
	if e.board.Remaining() == 0 {
		return false
	}

	ok, err := e.board.HasMoves()
	if ok {
		return false
	}
	if errors.Is(err, ErrSearchLimit) {
		e.state.SearchLimited = true
		return false
	}

	e.state.Shuffles++
	e.recordShuffle(e.board.Shuffle(e.rng, e.config.MaxShuffleAttempts))
	return true
}

// recordShuffle sets the stuck flags from a board shuffle error
func (e *GameEngine) recordShuffle(err error) {
	e.state.Stuck = errors.Is(err, ErrNoSolvableShuffle)
	e.state.SearchLimited = errors.Is(err, ErrSearchLimit)
}

// blockedMessage returns the message for a board that cannot be played on,
// or "" when it can
func (e *GameEngine) blockedMessage() string {
	switch {
	case e.state.Stuck:
		return e.messages.NoMoves
	case e.state.SearchLimited:
		return searchLimitMessage
	}
	return ""
}

// sync copies the board into the serializable state
func (e *GameEngine) sync() {
	e.state.Grid = e.board.Snapshot()
	e.state.Width = e.board.Width()
	e.state.Height = e.board.Height()
	e.state.Remaining = e.board.Remaining()
	e.state.Cleared = e.state.Remaining == 0
}

// GetState returns the current game state
func (e *GameEngine) GetState() *BoardState {
	return e.state
}

// Board returns the live board
func (e *GameEngine) Board() *Board {
	return e.board
}

// Reset restarts the game from level 1
func (e *GameEngine) Reset() *BoardState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.MatchHistory
	prevTotal := e.state.TotalMatches

	if err := e.init(e.config); err != nil {
		// The config was validated on the way in; keep the current board
		e.state.Message = err.Error()
		return e.state
	}

	e.state.MatchHistory = prevHistory
	e.state.TotalMatches = prevTotal
	return e.state
}

// IsCleared returns whether every tile has been removed
func (e *GameEngine) IsCleared() bool {
	return e.state.Cleared
}

// GetScore returns the number of pairs removed
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetLevel returns the current level
func (e *GameEngine) GetLevel() int {
	return e.state.Level
}

// GetRemainingTiles returns the number of tiles left on the board
func (e *GameEngine) GetRemainingTiles() int {
	return e.state.Remaining
}

// Select applies a click on pos. The first tile becomes the selection; a
// second tile attempts a match, and a failed match moves the selection to it.
func (e *GameEngine) Select(pos Position) *SelectResult {
	if e.board.Cell(pos).Empty() {
		return &SelectResult{Selected: e.state.Selected}
	}

	if e.state.Selected == nil || *e.state.Selected == pos {
		e.state.Selected = &pos
		e.state.Message = e.messages.Selected
		return &SelectResult{Selected: e.state.Selected}
	}

	result := e.Match(*e.state.Selected, pos)
	if !result.Success() {
		e.state.Selected = &pos
	}
	return &SelectResult{Selected: e.state.Selected, Match: result}
}

// Match attempts to remove the tiles at from and to
func (e *GameEngine) Match(from, to Position) *MatchResult {
	symbol := e.board.Cell(from).Symbol
	route, outcome := e.board.Match(from, to)

	result := &MatchResult{
		Outcome: outcome,
		From:    from,
		To:      to,
		Symbol:  symbol,
		Route:   route,
	}

	entry := MatchHistoryEntry{
		From:    from,
		To:      to,
		Symbol:  symbol,
		Outcome: outcome,
		Success: outcome == MatchOK,
		Level:   e.state.Level,
	}

	switch outcome {
	case MatchOK:
		result.Waypoints = route.Waypoints()
		entry.Corners = route.Corners()

		e.state.Score++
		e.state.Selected = nil
		e.state.LastRoute = result.Waypoints
		e.state.Message = fmt.Sprintf(e.messages.Matched, e.state.Score)

		if e.board.Remaining() == 0 {
			result.Cleared = true
			e.state.Message = fmt.Sprintf(e.messages.LevelCleared, e.state.Level)
			if e.config.AutoAdvance {
				if err := e.NextLevel(); err == nil {
					result.LevelAdvanced = true
				}
			}
		} else if e.settle() {
			result.Shuffled = true
			e.state.Message = e.messages.Shuffled
			if msg := e.blockedMessage(); msg != "" {
				e.state.Message = msg
			}
		}

	case MatchSymbolMismatch:
		e.state.Message = e.messages.SymbolMismatch
	case MatchNoRoute:
		e.state.Message = e.messages.NoRoute
	case MatchSearchLimit:
		e.state.Message = searchLimitMessage
	default:
		e.state.Message = "Select two tiles on the board"
	}

	e.addMatchToHistory(entry)
	e.sync()
	return result
}

// Shuffle rearranges the remaining tiles until a move exists
func (e *GameEngine) Shuffle() error {
	e.state.Selected = nil
	e.state.Shuffles++

	err := e.board.Shuffle(e.rng, e.config.MaxShuffleAttempts)
	e.recordShuffle(err)
	e.state.Message = e.messages.Shuffled
	if msg := e.blockedMessage(); msg != "" {
		e.state.Message = msg
	}

	e.sync()
	return err
}

// NextLevel grows the board and deals a fresh level. The current board must
// be cleared. Width stays even so generated boards always hold pairs.
func (e *GameEngine) NextLevel() error {
	if e.board.Remaining() > 0 {
		return ErrLevelNotCleared
	}

	width := e.board.Width() + 1
	if width%2 != 0 {
		width++
	}
	height := e.board.Height() + 1
	if width > MaxBoardSize {
		width = MaxBoardSize
	}
	if height > MaxBoardSize {
		height = MaxBoardSize
	}

	board, err := e.buildLevel(e.state.Level+1, width, height)
	if err != nil {
		return err
	}

	e.board = board
	e.state.Level++
	e.state.Selected = nil
	e.state.LastRoute = nil
	e.settle()
	e.sync()
	if msg := e.blockedMessage(); msg != "" {
		e.state.Message = msg
	}
	return nil
}

// FindRoute returns the route between two board cells without changing the board
func (e *GameEngine) FindRoute(from, to Position) (Route, error) {
	return e.board.Route(from, to)
}

// Hint returns a pair that can currently be matched
func (e *GameEngine) Hint() (*Hint, bool, error) {
	return e.board.FindPair()
}

// HasMoves reports whether any pair can currently be matched. ErrSearchLimit
// means the search node limit cut the check short.
func (e *GameEngine) HasMoves() (bool, error) {
	return e.board.HasMoves()
}

// GetConfig returns the current board configuration
func (e *GameEngine) GetConfig() *BoardConfig {
	return e.config
}

// SetConfig sets a new board configuration and restarts the game
func (e *GameEngine) SetConfig(config *BoardConfig) error {
	if err := ValidateBoardConfig(config); err != nil {
		return err
	}
	return e.init(config)
}

// GetMatchHistory returns the complete match history
func (e *GameEngine) GetMatchHistory() []MatchHistoryEntry {
	return e.state.MatchHistory
}

// GetLastMatch returns the last match attempt, or nil if none
func (e *GameEngine) GetLastMatch() *MatchHistoryEntry {
	if len(e.state.MatchHistory) == 0 {
		return nil
	}
	return &e.state.MatchHistory[len(e.state.MatchHistory)-1]
}

// addMatchToHistory appends an attempt to the cumulative history
func (e *GameEngine) addMatchToHistory(entry MatchHistoryEntry) {
	entry.Timestamp = time.Now().Unix()
	entry.MatchNumber = e.state.TotalMatches + 1
	e.state.MatchHistory = append(e.state.MatchHistory, entry)
	e.state.TotalMatches++
}
