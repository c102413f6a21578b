package maze

import "fmt"

// Direction names the side of a cell a wall sits on.
type Direction string

const (
	North Direction = "North"
	South Direction = "South"
	East  Direction = "East"
	West  Direction = "West"
)

// Wall is the edge shared by two adjacent cells.
// A is always the smaller cell (by X, then Z), so a wall has one identity
// no matter which side it was opened from.
type Wall struct {
	A Cell `json:"a"`
	B Cell `json:"b"`
}

// NewWall returns the wall between a and b.
func NewWall(a, b Cell) (Wall, error) {
	if !a.adjacent(b) {
		return Wall{}, fmt.Errorf("%w: %s and %s", ErrNotAdjacent, a, b)
	}
	if b.less(a) {
		a, b = b, a
	}
	return Wall{A: a, B: b}, nil
}

// Midpoint returns the position of the wall in cell units.
func (w Wall) Midpoint() (x, z float64) {
	return float64(w.A.X+w.B.X) / 2, float64(w.A.Z+w.B.Z) / 2
}

// Direction returns the side of A the wall sits on: East or South.
func (w Wall) Direction() Direction {
	if w.A.X != w.B.X {
		return East
	}
	return South
}

func (w Wall) String() string {
	return fmt.Sprintf("%s|%s", w.A, w.B)
}
