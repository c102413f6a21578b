package maze

import "errors"

var (
	// ErrInvalidSize is returned when a maze is constructed with a non-positive size.
	ErrInvalidSize = errors.New("maze size must be positive")
	// ErrOutOfBounds is returned when a cell outside the grid is queried.
	ErrOutOfBounds = errors.New("cell is out of the maze")
	// ErrNotAdjacent is returned when a wall is requested between cells that do not share an edge.
	ErrNotAdjacent = errors.New("cells are not adjacent")
)
