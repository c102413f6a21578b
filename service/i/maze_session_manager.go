package i

import (
	"context"
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/google/uuid"
)

// StepOutcome is the result of a single generation step of a session.
type StepOutcome struct {
	Result maze.StepResult
	Walls  []maze.Wall // walls opened by this step; at most one
	State  maze.State
}

// Snapshot is a point-in-time view of a maze session.
type Snapshot struct {
	ID           uuid.UUID
	Size         int
	Seed         int64
	State        maze.State
	Current      maze.Cell
	VisitedCount int
	StackDepth   int
	Steps        int
	Walls        []maze.Wall
	ASCII        string
}

// MazeSessionManager owns in-progress maze generations.
type MazeSessionManager interface {
	Create(size int, seed int64) (uuid.UUID, error)
	Step(id uuid.UUID) (StepOutcome, error)
	Drive(ctx context.Context, id uuid.UUID, interval time.Duration, onStep func(StepOutcome)) error
	Snapshot(id uuid.UUID) (Snapshot, error)
	Remove(id uuid.UUID) error
}
