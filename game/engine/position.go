package engine

import "fmt"

// Direction is an axis-aligned heading on the occupancy grid
type Direction int

const (
	// None is only valid as the initial heading of a search, never as a move
	None Direction = iota
	Left
	Right
	Top
	Bottom
)

// moveDirections lists the real headings in enumeration order.
// Heuristic ties keep this order.
var moveDirections = [...]Direction{Left, Right, Top, Bottom}

// String returns the lower-case name of the direction
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return "none"
	}
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String renders the position as (x,y)
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Step returns the position one cell away in the given direction
func (p Position) Step(d Direction) Position {
	switch d {
	case Left:
		p.X--
	case Right:
		p.X++
	case Top:
		p.Y--
	case Bottom:
		p.Y++
	}
	return p
}

// SquaredDistance returns the squared euclidean distance between two positions
func (p Position) SquaredDistance(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Offset translates the position by dx, dy
func (p Position) Offset(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}
