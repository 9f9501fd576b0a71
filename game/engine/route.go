package engine

// Route is an ordered, non-repeating sequence of cells from source to
// destination, both inclusive.
type Route []Position

// Len returns the number of cells in the route
func (r Route) Len() int {
	return len(r)
}

// Source returns the first cell of the route
func (r Route) Source() (Position, bool) {
	if len(r) == 0 {
		return Position{}, false
	}
	return r[0], true
}

// Destination returns the last cell of the route
func (r Route) Destination() (Position, bool) {
	if len(r) == 0 {
		return Position{}, false
	}
	return r[len(r)-1], true
}

// Waypoints returns the endpoints and every corner cell of the route.
// A straight route yields 2 waypoints, a single-corner route 3.
func (r Route) Waypoints() []Position {
	if len(r) < 2 {
		return append([]Position(nil), r...)
	}

	points := []Position{r[0]}
	heading := directionBetween(r[0], r[1])
	for i := 1; i < len(r)-1; i++ {
		next := directionBetween(r[i], r[i+1])
		if next != heading {
			points = append(points, r[i])
			heading = next
		}
	}
	return append(points, r[len(r)-1])
}

// Segments returns the number of maximal straight runs in the route
func (r Route) Segments() int {
	if len(r) < 2 {
		return 0
	}
	return len(r.Waypoints()) - 1
}

// Corners returns the number of heading changes in the route
func (r Route) Corners() int {
	if segments := r.Segments(); segments > 0 {
		return segments - 1
	}
	return 0
}

// Contains reports whether the route passes through pos
func (r Route) Contains(pos Position) bool {
	for _, p := range r {
		if p == pos {
			return true
		}
	}
	return false
}

// Translate returns a copy of the route shifted by dx, dy
func (r Route) Translate(dx, dy int) Route {
	if r == nil {
		return nil
	}
	out := make(Route, len(r))
	for i, p := range r {
		out[i] = p.Offset(dx, dy)
	}
	return out
}

// directionBetween returns the heading from a to an orthogonally adjacent b
func directionBetween(a, b Position) Direction {
	switch {
	case b.X < a.X:
		return Left
	case b.X > a.X:
		return Right
	case b.Y < a.Y:
		return Top
	case b.Y > a.Y:
		return Bottom
	default:
		return None
	}
}
