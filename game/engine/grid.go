package engine

import "strings"

// OccupancyGrid is a blocked/free bitmap over the playfield plus a one-cell
// border ring. The ring is always free so routes can wrap around the outside
// of the board. Interior cells start blocked.
//
// The grid is single-writer: SetBlocked must not run concurrently with
// FindRoute on the same instance.
type OccupancyGrid struct {
	width  int
	height int
	cells  []bool
}

// NewOccupancyGrid creates a grid for an xExtent by yExtent playfield.
// The allocated grid is (xExtent+2) by (yExtent+2).
func NewOccupancyGrid(xExtent, yExtent int) *OccupancyGrid {
	if xExtent < 0 {
		xExtent = 0
	}
	if yExtent < 0 {
		yExtent = 0
	}

	g := &OccupancyGrid{
		width:  xExtent + 2,
		height: yExtent + 2,
	}
	g.cells = make([]bool, g.width*g.height)

	for y := 1; y <= yExtent; y++ {
		for x := 1; x <= xExtent; x++ {
			g.cells[y*g.width+x] = true
		}
	}

	return g
}

// Width returns the bordered width
func (g *OccupancyGrid) Width() int {
	return g.width
}

// Height returns the bordered height
func (g *OccupancyGrid) Height() int {
	return g.height
}

// InRange reports whether pos lies inside the bordered rectangle
func (g *OccupancyGrid) InRange(pos Position) bool {
	return pos.X >= 0 && pos.X < g.width && pos.Y >= 0 && pos.Y < g.height
}

// IsBlocked reports whether pos is occupied. Out-of-range positions are
// reported as blocked.
func (g *OccupancyGrid) IsBlocked(pos Position) bool {
	if !g.InRange(pos) {
		return true
	}
	return g.cells[pos.Y*g.width+pos.X]
}

// SetBlocked sets the occupancy flag at pos. Out-of-range positions are
// silently ignored.
func (g *OccupancyGrid) SetBlocked(pos Position, blocked bool) {
	if !g.InRange(pos) {
		return
	}
	g.cells[pos.Y*g.width+pos.X] = blocked
}

// Clone returns an independent copy of the grid
func (g *OccupancyGrid) Clone() *OccupancyGrid {
	cells := make([]bool, len(g.cells))
	copy(cells, g.cells)
	return &OccupancyGrid{
		width:  g.width,
		height: g.height,
		cells:  cells,
	}
}

// BlockedCount returns the number of blocked cells
func (g *OccupancyGrid) BlockedCount() int {
	count := 0
	for _, blocked := range g.cells {
		if blocked {
			count++
		}
	}
	return count
}

// FindRoute searches for a route from src to dest using at most
// DefaultTurnBudget straight segments. The destination cell is treated as
// free for this query only. Out-of-range endpoints report no route.
func (g *OccupancyGrid) FindRoute(src, dest Position) (Route, bool) {
	route, err := g.Search(src, dest, SearchOptions{TurnBudget: DefaultTurnBudget})
	if err != nil {
		return nil, false
	}
	return route, true
}

// String renders the grid with '#' for blocked cells and '.' for free cells
func (g *OccupancyGrid) String() string {
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y*g.width+x] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		if y < g.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
