package engine

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// BoardMessages holds the texts shown for board events
type BoardMessages struct {
	Welcome        string `json:"welcome"`
	Selected       string `json:"selected"`
	Matched        string `json:"matched"`
	SymbolMismatch string `json:"symbol_mismatch"`
	NoRoute        string `json:"no_route"`
	Shuffled       string `json:"shuffled"`
	LevelCleared   string `json:"level_cleared"`
	NoMoves        string `json:"no_moves"`
}

// BoardConfig represents the board configuration from JSON
type BoardConfig struct {
	Name               string        `json:"name"`
	Description        string        `json:"description"`
	Width              int           `json:"width"`
	Height             int           `json:"height"`
	Symbols            int           `json:"symbols"`
	Layout             []string      `json:"layout,omitempty"`
	Seed               int64         `json:"seed,omitempty"`
	AutoAdvance        bool          `json:"auto_advance"`
	MaxShuffleAttempts int           `json:"max_shuffle_attempts,omitempty"`
	SearchNodeLimit    int           `json:"search_node_limit,omitempty"`
	Messages           BoardMessages `json:"messages"`
}

// ValidateBoardConfig validates a board configuration for correctness and playability
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate board size
	if config.Width < MinBoardSize || config.Width > MaxBoardSize {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.Width)
	}
	if config.Height < MinBoardSize || config.Height > MaxBoardSize {
		return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.Height)
	}
	if config.Symbols < MinSymbols || config.Symbols > MaxSymbols {
		return fmt.Errorf("config validation: symbols must be between %d and %d, got %d", MinSymbols, MaxSymbols, config.Symbols)
	}

	// Validate tuning knobs
	if config.MaxShuffleAttempts < 0 {
		return fmt.Errorf("config validation: max_shuffle_attempts cannot be negative, got %d", config.MaxShuffleAttempts)
	}
	if config.SearchNodeLimit < 0 || config.SearchNodeLimit > MaxSearchNodeLimit {
		return fmt.Errorf("config validation: search_node_limit must be between 0 and %d, got %d", MaxSearchNodeLimit, config.SearchNodeLimit)
	}

	// Validate layout
	if len(config.Layout) == 0 {
		if (config.Width*config.Height)%2 != 0 {
			return fmt.Errorf("config validation: width x height must be even to hold pairs, got %dx%d", config.Width, config.Height)
		}
	} else if err := validateLayout(config); err != nil {
		return err
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Matched != "" && !strings.Contains(config.Messages.Matched, "%d") {
		return fmt.Errorf("config validation: messages.matched must contain %%d for score")
	}
	if config.Messages.LevelCleared != "" && !strings.Contains(config.Messages.LevelCleared, "%d") {
		return fmt.Errorf("config validation: messages.level_cleared must contain %%d for level")
	}

	return nil
}

// validateLayout checks layout shape, characters and that every symbol pairs up
func validateLayout(config *BoardConfig) error {
	if len(config.Layout) != config.Height {
		return fmt.Errorf("config validation: layout must have %d rows to match height, got %d",
			config.Height, len(config.Layout))
	}

	counts := make(map[byte]int)
	tiles := 0
	for i, row := range config.Layout {
		if len(row) != config.Width {
			return fmt.Errorf("config validation: row %d must have %d characters to match width, got %d",
				i+1, config.Width, len(row))
		}
		for j := 0; j < len(row); j++ {
			char := row[j]
			switch {
			case char == EmptyCell:
			case char >= 'A' && char <= 'Z':
				counts[char]++
				tiles++
			default:
				return fmt.Errorf("config validation: invalid character '%c' at row %d, col %d", char, i+1, j+1)
			}
		}
	}

	if tiles == 0 {
		return fmt.Errorf("config validation: layout must contain at least one tile")
	}
	for symbol, count := range counts {
		if count%2 != 0 {
			return fmt.Errorf("config validation: symbol '%c' appears %d times, must be even", symbol, count)
		}
	}

	return nil
}

// LoadBoardConfig loads a board configuration from a JSON file
func LoadBoardConfig(filename string) (*BoardConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config BoardConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateBoardConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a board configuration by name from the configs directory
func LoadConfigByName(configName string) (*BoardConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join("configs", configName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	config, err := LoadBoardConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %v", configName, err)
	}

	return config, nil
}

// NewBoardFromConfig builds the opening board of a configuration: its fixed
// layout, or generated pairs shuffled until a move exists. A generated board
// whose shuffles all fail is returned together with ErrNoSolvableShuffle.
func NewBoardFromConfig(config *BoardConfig, rng *rand.Rand) (*Board, error) {
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}

	board := NewBoard(config.Width, config.Height)
	board.SetSearchLimit(config.SearchNodeLimit)

	if len(config.Layout) > 0 {
		if err := board.LoadLayout(config.Layout); err != nil {
			return nil, err
		}
		return board, nil
	}

	if err := board.Generate(config.Symbols); err != nil {
		return nil, err
	}
	return board, board.Shuffle(rng, config.MaxShuffleAttempts)
}

// DefaultBoardConfig returns the built-in 6x4 board
func DefaultBoardConfig() *BoardConfig {
	config := &BoardConfig{
		Name:        "default",
		Description: "Built-in 6x4 board",
		Width:       6,
		Height:      4,
		Symbols:     8,
		AutoAdvance: true,
	}
	config.Messages = defaultMessages()
	return config
}

// defaultMessages returns the message set used when a config leaves one empty
func defaultMessages() BoardMessages {
	return BoardMessages{
		Welcome:        "Match pairs of identical tiles connected by at most two corners.",
		Selected:       "Tile selected",
		Matched:        "Pair removed! Score: %d",
		SymbolMismatch: "Those tiles do not match",
		NoRoute:        "No path with at most two corners connects those tiles",
		Shuffled:       "No moves left, tiles shuffled",
		LevelCleared:   "Board cleared! Level %d",
		NoMoves:        "No moves left and no shuffle could fix it",
	}
}

// withDefaults fills empty messages from the built-in set
func (m BoardMessages) withDefaults() BoardMessages {
	d := defaultMessages()
	if m.Welcome == "" {
		m.Welcome = d.Welcome
	}
	if m.Selected == "" {
		m.Selected = d.Selected
	}
	if m.Matched == "" {
		m.Matched = d.Matched
	}
	if m.SymbolMismatch == "" {
		m.SymbolMismatch = d.SymbolMismatch
	}
	if m.NoRoute == "" {
		m.NoRoute = d.NoRoute
	}
	if m.Shuffled == "" {
		m.Shuffled = d.Shuffled
	}
	if m.LevelCleared == "" {
		m.LevelCleared = d.LevelCleared
	}
	if m.NoMoves == "" {
		m.NoMoves = d.NoMoves
	}
	return m
}
