package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/google/uuid"
)

// WallEvent describes one opened wall of a maze session.
type WallEvent struct {
	SessionID uuid.UUID  `json:"session_id"`
	Seq       int        `json:"seq"` // 1-based position of the wall in open order
	From      maze.Cell  `json:"from"`
	To        maze.Cell  `json:"to"`
	Midpoint  [2]float64 `json:"midpoint"`
}

// WallPublisher forwards wall events to out-of-process consumers such as renderers.
type WallPublisher interface {
	Publish(ctx context.Context, event WallEvent) error
}
