package maze

import "fmt"

// Cell is a single position in the maze grid.
// X grows eastward and Z grows southward; (0,0) is the north-west corner.
type Cell struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// String returns the cell as "(x,z)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// adjacent reports whether c and o share an edge.
func (c Cell) adjacent(o Cell) bool {
	dx, dz := c.X-o.X, c.Z-o.Z
	return dx*dx+dz*dz == 1
}

// less orders cells by X, then Z.
func (c Cell) less(o Cell) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Z < o.Z
}

// CellWalls holds the wall configuration around a single cell.
type CellWalls struct {
	NorthWall bool `json:"north"` // NorthWall indicates whether there is a wall on the north side of the cell.
	SouthWall bool `json:"south"` // SouthWall indicates whether there is a wall on the south side of the cell.
	EastWall  bool `json:"east"`  // EastWall indicates whether there is a wall on the east side of the cell.
	WestWall  bool `json:"west"`  // WestWall indicates whether there is a wall on the west side of the cell.
}

// closedWalls returns a cell with every wall standing.
func closedWalls() CellWalls {
	return CellWalls{
		NorthWall: true,
		SouthWall: true,
		EastWall:  true,
		WestWall:  true,
	}
}
