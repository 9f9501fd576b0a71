// Command analyze inspects Tile Connect board configurations. It summarizes
// presets, validates them, prints routes between tiles and plays boards
// through greedily to check that they can be cleared.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/tileconnect/game/config"
	"github.com/wricardo/mcp-training/tileconnect/game/engine"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the analyze command tree writing its reports to out
func newApp(out io.Writer) *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "configuration name inside the config directory",
	}

	return &cli.Command{
		Name:  "analyze",
		Usage: "inspect Tile Connect board configurations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing board configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "summary",
				Usage:     "print dimensions, symbol counts and opening moves per preset",
				ArgsUsage: "[config...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runSummary(out, cmd.String("config-dir"), cmd.Args().Slice())
				},
			},
			{
				Name:      "validate",
				Usage:     "validate configuration files and check the opening board has a move",
				ArgsUsage: "[file.json...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runValidate(out, cmd.String("config-dir"), cmd.Args().Slice())
				},
			},
			{
				Name:      "route",
				Usage:     "print the route between two tiles",
				ArgsUsage: "FROM_X FROM_Y TO_X TO_Y",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:  "layout",
						Usage: "comma separated layout rows, e.g. A.B,...,B.A",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					coords, err := parseCoordinates(cmd.Args().Slice())
					if err != nil {
						return err
					}
					board, err := loadBoard(cmd.String("config-dir"), cmd.String("config"), cmd.String("layout"))
					if err != nil {
						return err
					}
					return runRoute(out, board, coords[0], coords[1])
				},
			},
			{
				Name:  "autoplay",
				Usage: "play a configuration greedily using hints and shuffles",
				Flags: []cli.Flag{
					configFlag,
					&cli.IntFlag{
						Name:  "levels",
						Value: 1,
						Usage: "number of levels to play",
					},
					&cli.IntFlag{
						Name:  "seed",
						Usage: "override the configuration seed (0 keeps it)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					boardConfig, err := loadConfig(cmd.String("config-dir"), cmd.String("config"))
					if err != nil {
						return err
					}
					if seed := int64(cmd.Int("seed")); seed != 0 {
						boardConfig.Seed = seed
					}
					_, err = runAutoplay(out, boardConfig, int(cmd.Int("levels")))
					return err
				},
			},
		},
	}
}

// runSummary prints one block per configuration
func runSummary(out io.Writer, configDir string, names []string) error {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		infos, err := manager.ListConfigs()
		if err != nil {
			return err
		}
		for _, info := range infos {
			names = append(names, info.ConfigID)
		}
	}

	for _, name := range names {
		boardConfig, err := manager.LoadConfig(name)
		if err != nil {
			fmt.Fprintf(out, "\n=== %s ===\nError: %v\n", name, err)
			continue
		}
		fmt.Fprintf(out, "\n=== %s ===\n", name)
		summarize(out, boardConfig)
	}
	return nil
}

func summarize(out io.Writer, boardConfig *engine.BoardConfig) {
	eng, err := engine.NewEngine(boardConfig)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	board := eng.Board()
	counts := engine.CountSymbols(board.Snapshot())

	fmt.Fprintf(out, "Name: %s\n", boardConfig.Name)
	fmt.Fprintf(out, "Board: %d x %d\n", board.Width(), board.Height())
	fmt.Fprintf(out, "Tiles: %d\n", board.Remaining())
	fmt.Fprintf(out, "Symbols: %d distinct (config allows %d)\n", len(counts), boardConfig.Symbols)
	fmt.Fprintf(out, "Fixed layout: %v\n", len(boardConfig.Layout) > 0)
	fmt.Fprintf(out, "Auto advance: %v\n", boardConfig.AutoAdvance)
	fmt.Fprintf(out, "Opening moves: %d\n", board.CountMoves())

	symbols := make([]string, 0, len(counts))
	for symbol := range counts {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	parts := make([]string, len(symbols))
	for i, symbol := range symbols {
		parts[i] = fmt.Sprintf("%s:%d", symbol, counts[symbol])
	}
	fmt.Fprintf(out, "Symbol counts: %s\n", strings.Join(parts, " "))

	if eng.GetState().Stuck {
		fmt.Fprintf(out, "⚠️  WARNING: no move exists and shuffling failed\n")
	}
	if eng.GetState().SearchLimited {
		fmt.Fprintf(out, "⚠️  WARNING: search_node_limit %d stopped the opening move check\n", boardConfig.SearchNodeLimit)
	}
}

// ValidationResult captures the outcome of validating a single file
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateFile loads a configuration through the engine validator and
// checks that the opening board offers a move
func validateFile(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path), Valid: true}

	boardConfig, err := engine.LoadBoardConfig(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	eng, err := engine.NewEngine(boardConfig)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	ok, err := eng.HasMoves()
	switch {
	case errors.Is(err, engine.ErrSearchLimit):
		result.Valid = false
		result.Errors = append(result.Errors, "search_node_limit is too small to confirm an opening move")
	case eng.GetState().Stuck || !ok:
		result.Valid = false
		result.Errors = append(result.Errors, "opening board has no legal move")
	}
	return result
}

// runValidate validates files, or every *.json in configDir when none are given
func runValidate(out io.Writer, configDir string, files []string) error {
	if len(files) == 0 {
		matches, err := filepath.Glob(filepath.Join(configDir, "*.json"))
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("no configuration files found in %s", configDir)
		}
		files = matches
	}

	failed := 0
	for _, file := range files {
		result := validateFile(file)
		if result.Valid {
			fmt.Fprintf(out, "✓ %s\n", result.File)
			continue
		}
		failed++
		fmt.Fprintf(out, "✗ %s\n", result.File)
		for _, msg := range result.Errors {
			fmt.Fprintf(out, "    %s\n", msg)
		}
	}

	fmt.Fprintf(out, "\n%d/%d configurations valid\n", len(files)-failed, len(files))
	if failed > 0 {
		return fmt.Errorf("%d configuration(s) failed validation", failed)
	}
	return nil
}

// loadConfig returns a private copy of the named configuration
func loadConfig(configDir, name string) (*engine.BoardConfig, error) {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return nil, err
	}

	boardConfig := manager.GetDefault()
	if name != "" {
		if boardConfig, err = manager.LoadConfig(name); err != nil {
			return nil, fmt.Errorf("config %q: %w", name, err)
		}
	}

	copied := *boardConfig
	return &copied, nil
}

// loadBoard builds a board from inline layout rows or from a configuration
func loadBoard(configDir, name, layout string) (*engine.Board, error) {
	if layout != "" {
		rows := strings.Split(layout, ",")
		board := engine.NewBoard(len(rows[0]), len(rows))
		if err := board.LoadLayout(rows); err != nil {
			return nil, err
		}
		return board, nil
	}

	boardConfig, err := loadConfig(configDir, name)
	if err != nil {
		return nil, err
	}
	board, err := engine.NewBoardFromConfig(boardConfig, rand.New(rand.NewSource(boardConfig.Seed)))
	if err != nil && !errors.Is(err, engine.ErrNoSolvableShuffle) {
		return nil, err
	}
	return board, nil
}

func parseCoordinates(args []string) ([2]engine.Position, error) {
	var coords [2]engine.Position
	if len(args) != 4 {
		return coords, fmt.Errorf("expected FROM_X FROM_Y TO_X TO_Y, got %d argument(s)", len(args))
	}

	values := make([]int, 4)
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return coords, fmt.Errorf("coordinate %q is not an integer", arg)
		}
		values[i] = v
	}

	coords[0] = engine.Position{X: values[0], Y: values[1]}
	coords[1] = engine.Position{X: values[2], Y: values[3]}
	return coords, nil
}

// runRoute prints the route between from and to over the board
func runRoute(out io.Writer, board *engine.Board, from, to engine.Position) error {
	route, err := board.Route(from, to)
	if err != nil {
		fmt.Fprint(out, renderBoard(board, nil))
		return fmt.Errorf("no route from %v to %v: %w", from, to, err)
	}

	fmt.Fprintf(out, "Route %v -> %v: %d cells, %d corner(s)\n", from, to, route.Len(), route.Corners())
	fmt.Fprintf(out, "Waypoints: %v\n\n", route.Waypoints())
	fmt.Fprint(out, renderBoard(board, route))
	return nil
}

// renderBoard draws the board with its free border, marking route cells '*'
// and corners '+'
func renderBoard(board *engine.Board, route engine.Route) string {
	marks := make(map[engine.Position]byte, len(route))
	for _, p := range route {
		marks[p] = '*'
	}
	waypoints := route.Waypoints()
	for i := 1; i < len(waypoints)-1; i++ {
		marks[waypoints[i]] = '+'
	}

	var b strings.Builder
	for y := -1; y <= board.Height(); y++ {
		for x := -1; x <= board.Width(); x++ {
			pos := engine.Position{X: x, Y: y}
			cell := board.Cell(pos)
			switch {
			case !cell.Empty():
				b.WriteString(cell.Symbol)
			case marks[pos] != 0:
				b.WriteByte(marks[pos])
			case board.InBounds(pos):
				b.WriteByte(engine.EmptyCell)
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// AutoplayReport summarizes a greedy play-through
type AutoplayReport struct {
	LevelsCleared int
	Matches       int
	Shuffles      int
	Stuck         bool
	SearchLimited bool
}

var (
	errStuck         = errors.New("board stuck: no move and no playable shuffle")
	errSearchLimited = errors.New("search node limit reached before a move was found")
)

// runAutoplay removes hinted pairs until the requested levels are cleared or
// the board gets stuck or the search node limit blocks the hint
func runAutoplay(out io.Writer, boardConfig *engine.BoardConfig, levels int) (*AutoplayReport, error) {
	if levels < 1 {
		levels = 1
	}

	eng, err := engine.NewEngine(boardConfig)
	if err != nil {
		return nil, err
	}

	report := &AutoplayReport{}
	for report.LevelsCleared < levels {
		state := eng.GetState()
		fmt.Fprintf(out, "Level %d: %dx%d, %d tiles\n", state.Level, state.Width, state.Height, state.Remaining)

		cleared, err := playLevel(eng, report)
		if err != nil {
			report.Stuck = errors.Is(err, errStuck)
			report.SearchLimited = errors.Is(err, errSearchLimited)
			fmt.Fprintf(out, "  stopped after %d matches: %v\n", report.Matches, err)
			return report, err
		}
		report.LevelsCleared++
		fmt.Fprintf(out, "  cleared (total matches %d, shuffles %d)\n", report.Matches, report.Shuffles)

		if report.LevelsCleared < levels && !cleared {
			if err := eng.NextLevel(); err != nil {
				return report, err
			}
		}
	}

	fmt.Fprintf(out, "Cleared %d level(s) with %d matches and %d shuffles\n",
		report.LevelsCleared, report.Matches, report.Shuffles)
	return report, nil
}

// playLevel clears the current level. It returns true when the engine
// advanced to the next level on its own.
func playLevel(eng *engine.GameEngine, report *AutoplayReport) (bool, error) {
	for {
		if eng.GetState().Stuck {
			return false, errStuck
		}

		hint, ok, err := eng.Hint()
		if errors.Is(err, engine.ErrSearchLimit) {
			return false, errSearchLimited
		}
		if !ok {
			report.Shuffles++
			if err := eng.Shuffle(); errors.Is(err, engine.ErrSearchLimit) {
				return false, errSearchLimited
			} else if err != nil {
				return false, errStuck
			}
			continue
		}

		result := eng.Match(hint.From, hint.To)
		if result.Outcome != engine.MatchOK {
			return false, fmt.Errorf("hinted pair %v-%v failed: %s", hint.From, hint.To, result.Outcome)
		}
		report.Matches++
		if result.Shuffled {
			report.Shuffles++
		}
		if result.Cleared {
			return result.LevelAdvanced, nil
		}
	}
}
