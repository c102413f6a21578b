package maze

import (
	"fmt"
	"strings"
)

// Layout records opened walls as per-cell wall flags.
// It implements WallRemovalObserver, so it can be handed to NewGenerator directly.
type Layout struct {
	size   int
	grid   [][]CellWalls // indexed [z][x]
	opened []Wall
	index  map[Wall]struct{}
}

// NewLayout returns a size×size layout with every wall closed.
func NewLayout(size int) (*Layout, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	grid := make([][]CellWalls, size)
	for z := range grid {
		grid[z] = make([]CellWalls, size)
		for x := range grid[z] {
			grid[z][x] = closedWalls()
		}
	}

	return &Layout{
		size:  size,
		grid:  grid,
		index: make(map[Wall]struct{}),
	}, nil
}

// OnWallOpened opens the wall between from and to. Out-of-range, non-adjacent
// and already open walls are ignored.
func (l *Layout) OnWallOpened(from, to Cell) {
	_ = l.openWall(from, to)
}

// openWall removes the wall between two adjacent cells.
func (l *Layout) openWall(from, to Cell) error {
	if !l.inBound(from) || !l.inBound(to) {
		return fmt.Errorf("%w: %s or %s", ErrOutOfBounds, from, to)
	}
	w, err := NewWall(from, to)
	if err != nil {
		return err
	}
	if _, ok := l.index[w]; ok {
		return nil
	}

	a, b := &l.grid[w.A.Z][w.A.X], &l.grid[w.B.Z][w.B.X]
	switch w.Direction() {
	case East:
		a.EastWall = false
		b.WestWall = false
	case South:
		a.SouthWall = false
		b.NorthWall = false
	}

	l.index[w] = struct{}{}
	l.opened = append(l.opened, w)
	return nil
}

// IsOpen reports whether the wall between a and b has been opened.
func (l *Layout) IsOpen(a, b Cell) bool {
	w, err := NewWall(a, b)
	if err != nil {
		return false
	}
	_, ok := l.index[w]
	return ok
}

// OpenedWalls returns the opened walls in the order they were opened.
func (l *Layout) OpenedWalls() []Wall {
	walls := make([]Wall, len(l.opened))
	copy(walls, l.opened)
	return walls
}

// CellAt returns the wall configuration around (x, z).
func (l *Layout) CellAt(x, z int) (CellWalls, error) {
	if !l.inBound(Cell{X: x, Z: z}) {
		return CellWalls{}, fmt.Errorf("%w: (%d,%d) not in [0,%d)", ErrOutOfBounds, x, z, l.size)
	}
	return l.grid[z][x], nil
}

// Size returns the side length of the layout.
func (l *Layout) Size() int {
	return l.size
}

func (l *Layout) inBound(c Cell) bool {
	return c.X >= 0 && c.X < l.size && c.Z >= 0 && c.Z < l.size
}

// String provides a textual representation of the layout, north at the top.
func (l *Layout) String() string {
	var sb strings.Builder

	// Top boundary
	sb.WriteString("+" + strings.Repeat("---+", l.size) + "\n")

	for z := 0; z < l.size; z++ {
		// Cell rows
		sb.WriteString("|")
		for x := 0; x < l.size; x++ {
			if l.grid[z][x].EastWall {
				sb.WriteString("   |")
			} else {
				sb.WriteString("    ")
			}
		}
		sb.WriteString("\n")

		// Wall rows
		sb.WriteString("+")
		for x := 0; x < l.size; x++ {
			if l.grid[z][x].SouthWall {
				sb.WriteString("---+")
			} else {
				sb.WriteString("   +")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
