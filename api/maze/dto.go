// Package mazeapi exposes maze generation sessions over HTTP and websockets.
package mazeapi

import (
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

// CreateMazeRequest represents a request to start generating a maze.
// Omitted fields fall back to the configured size and a time-based seed.
type CreateMazeRequest struct {
	Size *int   `json:"size"`
	Seed *int64 `json:"seed"`
}

// CreateMazeResponse carries the new session and the token that drives it.
type CreateMazeResponse struct {
	ID    uuid.UUID `json:"id"`
	Size  int       `json:"size"`
	Seed  int64     `json:"seed"`
	Token string    `json:"token"`
}

// WallResponse is one opened wall.
type WallResponse struct {
	A        maze.Cell  `json:"a"`
	B        maze.Cell  `json:"b"`
	Midpoint [2]float64 `json:"midpoint"`
}

// StepResponse is the outcome of one generation step.
type StepResponse struct {
	Kind  string         `json:"kind"`
	Cell  *maze.Cell     `json:"cell,omitempty"`
	Walls []WallResponse `json:"walls"`
	State string         `json:"state"`
}

// MazeResponse is a snapshot of a maze session.
type MazeResponse struct {
	ID         uuid.UUID      `json:"id"`
	Size       int            `json:"size"`
	Seed       int64          `json:"seed"`
	State      string         `json:"state"`
	Current    maze.Cell      `json:"current"`
	Visited    int            `json:"visited"`
	StackDepth int            `json:"stack_depth"`
	Steps      int            `json:"steps"`
	Walls      []WallResponse `json:"walls"`
	ASCII      string         `json:"ascii"`
}

func toWallResponses(walls []maze.Wall) []WallResponse {
	resp := make([]WallResponse, 0, len(walls))
	for _, w := range walls {
		x, z := w.Midpoint()
		resp = append(resp, WallResponse{A: w.A, B: w.B, Midpoint: [2]float64{x, z}})
	}
	return resp
}

func toStepResponse(out i.StepOutcome) StepResponse {
	resp := StepResponse{
		Kind:  out.Result.Kind.String(),
		Walls: toWallResponses(out.Walls),
		State: out.State.String(),
	}
	if out.Result.Kind != maze.Done {
		cell := out.Result.Cell
		resp.Cell = &cell
	}
	return resp
}

func toMazeResponse(s i.Snapshot) MazeResponse {
	return MazeResponse{
		ID:         s.ID,
		Size:       s.Size,
		Seed:       s.Seed,
		State:      s.State.String(),
		Current:    s.Current,
		Visited:    s.VisitedCount,
		StackDepth: s.StackDepth,
		Steps:      s.Steps,
		Walls:      toWallResponses(s.Walls),
		ASCII:      s.ASCII,
	}
}
