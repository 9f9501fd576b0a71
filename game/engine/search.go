package engine

import (
	"errors"
	"sort"
)

// DefaultTurnBudget is the number of heading changes a route may spend,
// counting the first move away from the source. Three units allow three
// straight segments, i.e. two corners.
const DefaultTurnBudget = 3

var (
	ErrOutOfRange  = errors.New("position out of range")
	ErrNoRoute     = errors.New("no route")
	ErrSearchLimit = errors.New("search node limit exhausted")
)

// SearchOptions configures a single route query
type SearchOptions struct {
	// TurnBudget is the number of heading changes allowed. Zero means DefaultTurnBudget.
	TurnBudget int
	// NodeLimit caps the number of visited search nodes. Zero means unlimited.
	NodeLimit int
}

// Search runs the backtracking route search from src to dest.
//
// It returns ErrOutOfRange when either endpoint is outside the grid,
// ErrNoRoute when no route fits the turn budget (or src equals dest), and
// ErrSearchLimit when NodeLimit was reached before the search finished.
// The receiver is never modified.
func (g *OccupancyGrid) Search(src, dest Position, opts SearchOptions) (Route, error) {
	if !g.InRange(src) || !g.InRange(dest) {
		return nil, ErrOutOfRange
	}
	if src == dest {
		return nil, ErrNoRoute
	}

	budget := opts.TurnBudget
	if budget <= 0 {
		budget = DefaultTurnBudget
	}

	work := g.Clone()
	work.SetBlocked(dest, false)

	s := &routeSearch{
		grid:      work,
		dest:      dest,
		nodeLimit: opts.NodeLimit,
	}

	found, err := s.walk(searchAgent{pos: src, heading: None, turns: budget})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoRoute
	}
	return s.route, nil
}

// searchAgent is one branch's position, heading and remaining turn budget.
// It is copied at every branch and never shared.
type searchAgent struct {
	pos     Position
	heading Direction
	turns   int
}

// canMove reports whether the agent may step in d on the working grid
func (a searchAgent) canMove(grid *OccupancyGrid, d Direction) bool {
	if d != a.heading && a.turns == 0 {
		return false
	}
	next := a.pos.Step(d)
	return grid.InRange(next) && !grid.IsBlocked(next)
}

// advance marks the cell the agent leaves as blocked on grid and returns the
// agent after one step in d. A heading change spends one turn.
// d must already be legal for a.
func advance(a searchAgent, grid *OccupancyGrid, d Direction) searchAgent {
	grid.SetBlocked(a.pos, true)

	next := searchAgent{
		pos:     a.pos.Step(d),
		heading: a.heading,
		turns:   a.turns,
	}
	if d != a.heading {
		next.heading = d
		next.turns--
	}
	return next
}

// routeSearch holds the state shared by one query's call tree: a single
// working grid (marked on descent and restored on backtrack) and the route
// accumulated so far.
type routeSearch struct {
	grid      *OccupancyGrid
	dest      Position
	route     Route
	visited   int
	nodeLimit int
}

// movableDirections returns the legal directions for a, nearest-to-dest first
func (s *routeSearch) movableDirections(a searchAgent) []Direction {
	dirs := make([]Direction, 0, len(moveDirections))
	for _, d := range moveDirections {
		if a.canMove(s.grid, d) {
			dirs = append(dirs, d)
		}
	}

	sort.SliceStable(dirs, func(i, j int) bool {
		di := a.pos.Step(dirs[i]).SquaredDistance(s.dest)
		dj := a.pos.Step(dirs[j]).SquaredDistance(s.dest)
		return di < dj
	})

	return dirs
}

// walk appends a's position and tries each legal direction in heuristic
// order. On failure the caller removes the position walk appended.
func (s *routeSearch) walk(a searchAgent) (bool, error) {
	s.visited++
	if s.nodeLimit > 0 && s.visited > s.nodeLimit {
		return false, ErrSearchLimit
	}

	s.route = append(s.route, a.pos)

	dirs := s.movableDirections(a)
	if len(dirs) == 0 {
		return false, nil
	}

	for _, d := range dirs {
		wasBlocked := s.grid.IsBlocked(a.pos)
		child := advance(a, s.grid, d)

		if child.pos == s.dest {
			s.route = append(s.route, s.dest)
			return true, nil
		}

		found, err := s.walk(child)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}

		s.route = s.route[:len(s.route)-1]
		s.grid.SetBlocked(a.pos, wasBlocked)
	}

	return false, nil
}
