package engine

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrNoSolvableShuffle = errors.New("no shuffle with a legal move found")
	ErrInvalidLayout     = errors.New("invalid layout")
)

// Board is the tile table layered on top of an OccupancyGrid. Board
// coordinates are 0-based; the grid adds a one-cell border so a board cell
// (x, y) lives at grid cell (x+1, y+1).
type Board struct {
	width  int
	height int
	cells  [][]Cell
	grid   *OccupancyGrid
	nextID int
	search SearchOptions
}

// NewBoard creates an empty width by height board
func NewBoard(width, height int) *Board {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
	}

	grid := NewOccupancyGrid(width, height)
	// A fresh grid has its whole interior blocked; an empty board has no tiles.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grid.SetBlocked(Position{X: x + 1, Y: y + 1}, false)
		}
	}

	return &Board{
		width:  width,
		height: height,
		cells:  cells,
		grid:   grid,
		nextID: 1,
		search: SearchOptions{TurnBudget: DefaultTurnBudget},
	}
}

// SetSearchLimit caps the number of nodes a single route query may visit.
// Zero removes the cap.
func (b *Board) SetSearchLimit(nodes int) {
	b.search.NodeLimit = nodes
}

// Width returns the board width
func (b *Board) Width() int {
	return b.width
}

// Height returns the board height
func (b *Board) Height() int {
	return b.height
}

// Occupancy returns the board's occupancy grid. Callers must not mutate it.
func (b *Board) Occupancy() *OccupancyGrid {
	return b.grid
}

// InBounds reports whether pos is a board cell
func (b *Board) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X < b.width && pos.Y >= 0 && pos.Y < b.height
}

// Cell returns the cell at pos, or an empty cell when out of bounds
func (b *Board) Cell(pos Position) Cell {
	if !b.InBounds(pos) {
		return Cell{}
	}
	return b.cells[pos.Y][pos.X]
}

// Place puts a new tile with the given symbol at pos and returns its ID.
// Out-of-bounds positions are ignored and return 0.
func (b *Board) Place(pos Position, symbol string) int {
	if !b.InBounds(pos) || symbol == "" {
		return 0
	}
	id := b.nextID
	b.nextID++
	b.cells[pos.Y][pos.X] = Cell{Symbol: symbol, TileID: id}
	b.grid.SetBlocked(gridPos(pos), true)
	return id
}

// Clear removes the tile at pos, if any
func (b *Board) Clear(pos Position) {
	if !b.InBounds(pos) {
		return
	}
	b.cells[pos.Y][pos.X] = Cell{}
	b.grid.SetBlocked(gridPos(pos), false)
}

// Remaining returns the number of tiles on the board
func (b *Board) Remaining() int {
	return CountTiles(b.cells)
}

// Tiles returns the positions of all tiles in row-major order
func (b *Board) Tiles() []Position {
	var tiles []Position
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if !b.cells[y][x].Empty() {
				tiles = append(tiles, Position{X: x, Y: y})
			}
		}
	}
	return tiles
}

// Snapshot returns a copy of the cell table
func (b *Board) Snapshot() [][]Cell {
	out := make([][]Cell, b.height)
	for y := range b.cells {
		out[y] = append([]Cell(nil), b.cells[y]...)
	}
	return out
}

// Rows renders the board as layout strings
func (b *Board) Rows() []string {
	return RenderRows(b.cells)
}

// Generate fills the board with pairs of symbols laid out consecutively in
// row-major order. The board should be shuffled afterwards.
func (b *Board) Generate(symbols int) error {
	count := b.width * b.height
	if count == 0 || count%2 != 0 {
		return fmt.Errorf("%w: %dx%d board cannot be filled with pairs", ErrInvalidLayout, b.width, b.height)
	}
	if symbols < MinSymbols || symbols > MaxSymbols {
		return fmt.Errorf("%w: symbol count %d outside %d..%d", ErrInvalidLayout, symbols, MinSymbols, MaxSymbols)
	}

	distinct := symbols
	if pairs := count / 2; pairs < distinct {
		distinct = pairs
	}

	for k := 0; k < count; k++ {
		pos := Position{X: k % b.width, Y: k / b.width}
		b.Place(pos, SymbolName((k/2)%distinct))
	}
	return nil
}

// LoadLayout replaces the board contents with a fixed layout. Letters A-Z are
// symbols, '.' is an empty cell.
func (b *Board) LoadLayout(rows []string) error {
	if len(rows) != b.height {
		return fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidLayout, b.height, len(rows))
	}
	for y, row := range rows {
		if len(row) != b.width {
			return fmt.Errorf("%w: row %d must have %d characters, got %d", ErrInvalidLayout, y+1, b.width, len(row))
		}
		for x := 0; x < len(row); x++ {
			if row[x] != EmptyCell && (row[x] < 'A' || row[x] > 'Z') {
				return fmt.Errorf("%w: invalid character '%c' at row %d, col %d", ErrInvalidLayout, row[x], y+1, x+1)
			}
		}
	}

	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			pos := Position{X: x, Y: y}
			if row[x] == EmptyCell {
				b.Clear(pos)
			} else {
				b.Place(pos, string(row[x]))
			}
		}
	}
	return nil
}

// Route finds a route between two board cells. The returned route is in
// board coordinates, so border cells appear as x=-1, x=width, y=-1 or y=height.
func (b *Board) Route(from, to Position) (Route, error) {
	if !b.InBounds(from) || !b.InBounds(to) {
		return nil, ErrOutOfRange
	}
	route, err := b.grid.Search(gridPos(from), gridPos(to), b.search)
	if err != nil {
		return nil, err
	}
	return route.Translate(-1, -1), nil
}

// Match removes the tiles at from and to when they carry the same symbol and
// can be connected. The route is returned on success.
func (b *Board) Match(from, to Position) (Route, MatchOutcome) {
	if !b.InBounds(from) || !b.InBounds(to) || from == to {
		return nil, MatchInvalid
	}

	first, second := b.Cell(from), b.Cell(to)
	if first.Empty() || second.Empty() {
		return nil, MatchInvalid
	}
	if first.Symbol != second.Symbol {
		return nil, MatchSymbolMismatch
	}

	route, err := b.Route(from, to)
	if errors.Is(err, ErrSearchLimit) {
		return nil, MatchSearchLimit
	}
	if err != nil {
		return nil, MatchNoRoute
	}

	b.Clear(from)
	b.Clear(to)
	return route, MatchOK
}

// FindPair returns the first pair of same-symbol tiles that can be connected.
// When no pair connects but at least one query hit the search node limit, it
// returns ErrSearchLimit: the board may still hold a move.
func (b *Board) FindPair() (*Hint, bool, error) {
	bySymbol := make(map[string][]Position)
	var order []string
	for _, pos := range b.Tiles() {
		symbol := b.Cell(pos).Symbol
		if _, seen := bySymbol[symbol]; !seen {
			order = append(order, symbol)
		}
		bySymbol[symbol] = append(bySymbol[symbol], pos)
	}

	limited := false
	for _, symbol := range order {
		tiles := bySymbol[symbol]
		for i := 0; i < len(tiles); i++ {
			for j := i + 1; j < len(tiles); j++ {
				route, err := b.Route(tiles[i], tiles[j])
				if errors.Is(err, ErrSearchLimit) {
					limited = true
					continue
				}
				if err != nil {
					continue
				}
				return &Hint{From: tiles[i], To: tiles[j], Symbol: symbol, Route: route}, true, nil
			}
		}
	}

	if limited {
		return nil, false, ErrSearchLimit
	}
	return nil, false, nil
}

// HasMoves reports whether any pair on the board can currently be matched.
// ErrSearchLimit means the answer is unknown.
func (b *Board) HasMoves() (bool, error) {
	_, ok, err := b.FindPair()
	return ok, err
}

// CountMoves returns the number of pairs that can currently be matched
func (b *Board) CountMoves() int {
	tiles := b.Tiles()
	moves := 0
	for i := 0; i < len(tiles); i++ {
		for j := i + 1; j < len(tiles); j++ {
			if b.Cell(tiles[i]).Symbol != b.Cell(tiles[j]).Symbol {
				continue
			}
			if _, err := b.Route(tiles[i], tiles[j]); err == nil {
				moves++
			}
		}
	}
	return moves
}

// Shuffle permutes the remaining tiles over the occupied cells until at least
// one legal move exists. It gives up after attempts tries, leaving the last
// permutation in place. The error is ErrSearchLimit rather than
// ErrNoSolvableShuffle when some permutation could not be checked in full.
func (b *Board) Shuffle(rng *rand.Rand, attempts int) error {
	tiles := b.Tiles()
	if len(tiles) == 0 {
		return nil
	}
	if attempts <= 0 {
		attempts = DefaultMaxShuffleAttempts
	}

	contents := make([]Cell, len(tiles))
	for i, pos := range tiles {
		contents[i] = b.Cell(pos)
	}

	limited := false
	for attempt := 0; attempt < attempts; attempt++ {
		rng.Shuffle(len(contents), func(i, j int) {
			contents[i], contents[j] = contents[j], contents[i]
		})
		for i, pos := range tiles {
			b.cells[pos.Y][pos.X] = contents[i]
		}
		ok, err := b.HasMoves()
		if ok {
			return nil
		}
		if errors.Is(err, ErrSearchLimit) {
			limited = true
		}
	}

	if limited {
		return ErrSearchLimit
	}
	return ErrNoSolvableShuffle
}

// gridPos converts a board position to its grid position
func gridPos(pos Position) Position {
	return pos.Offset(1, 1)
}
