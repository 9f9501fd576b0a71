package engine

const (
	// Validation constants
	MinBoardSize              = 2
	MaxBoardSize              = 16
	MinSymbols                = 1
	MaxSymbols                = 26
	DefaultMaxShuffleAttempts = 100
	MaxSearchNodeLimit        = 1_000_000

	// EmptyCell marks an empty cell in layouts and renderings
	EmptyCell = '.'
)

// MatchOutcome classifies the result of a match attempt
type MatchOutcome string

const (
	MatchOK             MatchOutcome = "matched"
	MatchSymbolMismatch MatchOutcome = "symbol_mismatch"
	MatchNoRoute        MatchOutcome = "no_route"
	MatchSearchLimit    MatchOutcome = "search_limit"
	MatchInvalid        MatchOutcome = "invalid"
)

// Cell represents a single board cell. An empty symbol means no tile.
type Cell struct {
	Symbol string `json:"symbol,omitempty"`
	TileID int    `json:"tile_id,omitempty"`
}

// Empty reports whether the cell holds no tile
func (c Cell) Empty() bool {
	return c.Symbol == ""
}

// BoardState represents the complete game state
type BoardState struct {
	Grid       [][]Cell  `json:"grid"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Level      int       `json:"level"`
	Score      int       `json:"score"` // pairs removed across all levels
	Remaining  int       `json:"remaining"`
	Selected   *Position `json:"selected,omitempty"`
	Message    string    `json:"message"`
	Cleared    bool      `json:"cleared"`
	Stuck      bool      `json:"stuck"` // no legal move and shuffling failed
	Shuffles   int       `json:"shuffles"`
	ConfigName string    `json:"config_name"`

	// SearchLimited is set when the search node limit cut off the move
	// check, so the board is neither confirmed playable nor stuck.
	SearchLimited bool `json:"search_limited,omitempty"`

	MatchHistory []MatchHistoryEntry `json:"match_history"`
	TotalMatches int                 `json:"total_matches"`

	// LastRoute holds the waypoints of the most recent successful match,
	// for drawing the connecting line.
	LastRoute []Position `json:"last_route,omitempty"`
}

// Clone returns a deep copy of the state that shares nothing with the engine
func (s *BoardState) Clone() *BoardState {
	if s == nil {
		return nil
	}

	clone := *s
	if s.Grid != nil {
		clone.Grid = make([][]Cell, len(s.Grid))
		for y, row := range s.Grid {
			clone.Grid[y] = append([]Cell(nil), row...)
		}
	}
	if s.Selected != nil {
		selected := *s.Selected
		clone.Selected = &selected
	}
	if s.MatchHistory != nil {
		clone.MatchHistory = append([]MatchHistoryEntry{}, s.MatchHistory...)
	}
	if s.LastRoute != nil {
		clone.LastRoute = append([]Position(nil), s.LastRoute...)
	}
	return &clone
}

// MatchHistoryEntry represents a single match attempt in the game history
type MatchHistoryEntry struct {
	From        Position     `json:"from"`
	To          Position     `json:"to"`
	Symbol      string       `json:"symbol,omitempty"`
	Outcome     MatchOutcome `json:"outcome"`
	Success     bool         `json:"success"`
	Corners     int          `json:"corners,omitempty"`
	Level       int          `json:"level"`
	Timestamp   int64        `json:"timestamp"`
	MatchNumber int          `json:"match_number"`
}

// MatchResult describes what a single match attempt did to the board
type MatchResult struct {
	Outcome       MatchOutcome `json:"outcome"`
	From          Position     `json:"from"`
	To            Position     `json:"to"`
	Symbol        string       `json:"symbol,omitempty"`
	Route         Route        `json:"route,omitempty"`
	Waypoints     []Position   `json:"waypoints,omitempty"`
	Cleared       bool         `json:"cleared,omitempty"`
	LevelAdvanced bool         `json:"level_advanced,omitempty"`
	Shuffled      bool         `json:"shuffled,omitempty"`
}

// Success reports whether the pair was removed
func (r *MatchResult) Success() bool {
	return r != nil && r.Outcome == MatchOK
}

// Hint is a pair of tiles that can currently be matched
type Hint struct {
	From   Position `json:"from"`
	To     Position `json:"to"`
	Symbol string   `json:"symbol"`
	Route  Route    `json:"route"`
}
