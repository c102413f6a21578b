/*
Package maze generates perfect rectangular mazes with a randomized depth-first search.

Generation is exposed one step at a time through Generator.Step, so a caller can pace,
animate or abort it between steps. Each step either advances into an unvisited neighbour,
opening the wall between the two cells, backtracks to the previous cell, or reports that
the maze is done. Opened walls are reported to a WallRemovalObserver; the package itself
never draws anything.

Randomness is always injected: the same Rand output sequence and size produce the same maze.
*/
package maze

import "fmt"

// Rand is the source used to choose among candidate neighbours.
// *math/rand.Rand satisfies it.
type Rand interface {
	// Intn returns a uniform value in [0, n).
	Intn(n int) int
}

// State is the lifecycle state of a Generator.
type State int

const (
	Running State = iota
	Complete
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StepKind tells what a single call to Step did.
type StepKind int

const (
	Advanced StepKind = iota
	Backtracked
	Done
)

func (k StepKind) String() string {
	switch k {
	case Advanced:
		return "advanced"
	case Backtracked:
		return "backtracked"
	case Done:
		return "done"
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// StepResult is the outcome of one Step. Cell is the new current cell;
// it is the zero Cell when Kind is Done.
type StepResult struct {
	Kind StepKind
	Cell Cell
}

// Generator is the depth-first search state machine.
// It is not safe for concurrent use; callers must serialize calls to Step.
type Generator struct {
	grid     *Grid
	stack    []Cell
	current  Cell
	state    State
	observer WallRemovalObserver
	steps    int
}

// NewGenerator creates a generator for a size×size maze starting at (0,0).
// observer may be nil.
func NewGenerator(size int, observer WallRemovalObserver) (*Generator, error) {
	grid, err := NewGrid(size)
	if err != nil {
		return nil, err
	}

	return &Generator{
		grid:     grid,
		stack:    make([]Cell, 0, size*size),
		current:  Cell{X: 0, Z: 0},
		state:    Running,
		observer: observer,
	}, nil
}

// Step advances generation by exactly one transition.
// Once the generator is Complete every call returns Done and changes nothing.
func (g *Generator) Step(rng Rand) StepResult {
	if g.state == Complete {
		return StepResult{Kind: Done}
	}

	// current is always in bounds, so the error is unreachable.
	neighbors, _ := g.grid.UnvisitedNeighbors(g.current.X, g.current.Z)
	g.steps++

	if len(neighbors) > 0 {
		chosen := neighbors[rng.Intn(len(neighbors))]

		// The wall is defined by (current, chosen), so observers hear about it
		// before chosen becomes current.
		if g.observer != nil {
			g.observer.OnWallOpened(g.current, chosen)
		}

		// chosen came from UnvisitedNeighbors, so it is in bounds.
		_ = g.grid.MarkVisited(chosen.X, chosen.Z)
		g.stack = append(g.stack, g.current)
		g.current = chosen
		return StepResult{Kind: Advanced, Cell: g.current}
	}

	if len(g.stack) == 0 {
		g.state = Complete
		return StepResult{Kind: Done}
	}

	g.current = g.pop()
	return StepResult{Kind: Backtracked, Cell: g.current}
}

// pop removes and returns the top of the backtrack stack.
func (g *Generator) pop() Cell {
	last := len(g.stack) - 1
	popped := g.stack[last]
	g.stack = g.stack[:last]
	return popped
}

// State returns the generator's lifecycle state.
func (g *Generator) State() State {
	return g.state
}

// Current returns the active exploration cell.
func (g *Generator) Current() Cell {
	return g.current
}

// Size returns the side length of the maze.
func (g *Generator) Size() int {
	return g.grid.Size()
}

// StackDepth returns the number of cells waiting on the backtrack stack.
func (g *Generator) StackDepth() int {
	return len(g.stack)
}

// Steps returns how many transitions have been taken, including the final one into Complete.
func (g *Generator) Steps() int {
	return g.steps
}

// IsVisited reports whether the cell at (x, z) has been visited.
func (g *Generator) IsVisited(x, z int) (bool, error) {
	return g.grid.IsVisited(x, z)
}

// VisitedCount returns how many cells have been visited.
func (g *Generator) VisitedCount() int {
	return g.grid.VisitedCount()
}
