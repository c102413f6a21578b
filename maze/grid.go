package maze

import "fmt"

// Grid tracks which cells of a size×size maze have been visited.
// The start cell (0,0) is visited from construction, and a visited cell never reverts.
type Grid struct {
	size    int
	visited [][]bool
	count   int
}

// neighborOffsets lists candidate neighbours in the order west, east, north, south.
// Generation only stays reproducible under a seeded source if this order never changes.
var neighborOffsets = [4]Cell{
	{X: -1, Z: 0},
	{X: 1, Z: 0},
	{X: 0, Z: -1},
	{X: 0, Z: 1},
}

// NewGrid creates a size×size grid with only (0,0) visited.
func NewGrid(size int) (*Grid, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	visited := make([][]bool, size)
	for x := range visited {
		visited[x] = make([]bool, size)
	}
	visited[0][0] = true

	return &Grid{
		size:    size,
		visited: visited,
		count:   1,
	}, nil
}

// Size returns the number of cells along each side of the grid.
func (g *Grid) Size() int {
	return g.size
}

// InBound reports whether (x, z) lies inside the grid.
func (g *Grid) InBound(x, z int) bool {
	return x >= 0 && x < g.size && z >= 0 && z < g.size
}

// IsVisited reports whether the cell at (x, z) has been visited.
func (g *Grid) IsVisited(x, z int) (bool, error) {
	if !g.InBound(x, z) {
		return false, g.outOfBounds(x, z)
	}
	return g.visited[x][z], nil
}

// MarkVisited marks the cell at (x, z) as visited. Marking a visited cell again is a no-op.
func (g *Grid) MarkVisited(x, z int) error {
	if !g.InBound(x, z) {
		return g.outOfBounds(x, z)
	}
	if !g.visited[x][z] {
		g.visited[x][z] = true
		g.count++
	}
	return nil
}

// VisitedCount returns how many cells have been visited so far.
func (g *Grid) VisitedCount() int {
	return g.count
}

// UnvisitedNeighbors returns the in-bound, unvisited cells sharing an edge with (x, z),
// ordered west, east, north, south.
func (g *Grid) UnvisitedNeighbors(x, z int) ([]Cell, error) {
	if !g.InBound(x, z) {
		return nil, g.outOfBounds(x, z)
	}

	neighbors := make([]Cell, 0, len(neighborOffsets))
	for _, d := range neighborOffsets {
		nx, nz := x+d.X, z+d.Z
		if g.InBound(nx, nz) && !g.visited[nx][nz] {
			neighbors = append(neighbors, Cell{X: nx, Z: nz})
		}
	}
	return neighbors, nil
}

func (g *Grid) outOfBounds(x, z int) error {
	return fmt.Errorf("%w: (%d,%d) not in [0,%d)", ErrOutOfBounds, x, z, g.size)
}
