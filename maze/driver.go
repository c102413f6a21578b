package maze

import (
	"context"
	"time"
)

// Stepper advances generation one transition at a time. *Generator is a Stepper.
type Stepper interface {
	Step(rng Rand) StepResult
}

// Generate builds a complete size×size maze, reporting every opened wall to observer.
func Generate(size int, rng Rand, observer WallRemovalObserver) (*Generator, error) {
	g, err := NewGenerator(size, observer)
	if err != nil {
		return nil, err
	}

	for g.Step(rng).Kind != Done {
	}
	return g, nil
}

// Drive calls s.Step once per interval until the maze is done or ctx is cancelled.
// A non-positive interval runs the steps back to back, still checking ctx between them.
// onStep, when non-nil, receives every result including the final Done.
func Drive(ctx context.Context, s Stepper, rng Rand, interval time.Duration, onStep func(StepResult)) error {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		res := s.Step(rng)
		if onStep != nil {
			onStep(res)
		}
		if res.Kind == Done {
			return nil
		}
	}
}
