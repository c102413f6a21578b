package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *memLogger) Debug(string) {}
func (l *memLogger) Info(string)  {}
func (l *memLogger) Error(string) {}
func (l *memLogger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, msg)
}

type memPublisher struct {
	events []i.WallEvent
	err    error
}

func (p *memPublisher) Publish(_ context.Context, e i.WallEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func newManager(t *testing.T, pub i.WallPublisher) (*MazeSessionManager, *memLogger) {
	t.Helper()
	log := &memLogger{}
	m, err := NewMazeSessionManager(&Config{
		Publisher: pub,
		Logger:    log,
		MaxSize:   20,
	})
	require.NoError(t, err)
	return m, log
}

func stepAll(t *testing.T, m *MazeSessionManager, id uuid.UUID) []i.StepOutcome {
	t.Helper()
	var outcomes []i.StepOutcome
	for n := 0; n < 1000; n++ {
		out, err := m.Step(id)
		require.NoError(t, err)
		outcomes = append(outcomes, out)
		if out.Result.Kind == maze.Done {
			return outcomes
		}
	}
	t.Fatal("session never completed")
	return nil
}

func TestNewMazeSessionManager(t *testing.T) {
	_, err := NewMazeSessionManager(nil)
	assert.Error(t, err)

	_, err = NewMazeSessionManager(&Config{})
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	m, _ := newManager(t, nil)

	t.Run("Invalid sizes", func(t *testing.T) {
		_, err := m.Create(0, 1)
		assert.ErrorIs(t, err, maze.ErrInvalidSize)

		_, err = m.Create(-3, 1)
		assert.ErrorIs(t, err, maze.ErrInvalidSize)

		_, err = m.Create(21, 1)
		assert.ErrorIs(t, err, ErrSizeTooLarge)
		assert.Zero(t, m.Count())
	})

	t.Run("Fresh session", func(t *testing.T) {
		id, err := m.Create(5, 1)
		require.NoError(t, err)

		snap, err := m.Snapshot(id)
		require.NoError(t, err)
		assert.Equal(t, id, snap.ID)
		assert.Equal(t, 5, snap.Size)
		assert.Equal(t, int64(1), snap.Seed)
		assert.Equal(t, maze.Running, snap.State)
		assert.Equal(t, 1, snap.VisitedCount)
		assert.Empty(t, snap.Walls)
	})
}

func TestStep(t *testing.T) {
	t.Run("Runs to completion and publishes every wall", func(t *testing.T) {
		pub := &memPublisher{}
		m, _ := newManager(t, pub)
		id, err := m.Create(6, 99)
		require.NoError(t, err)

		outcomes := stepAll(t, m, id)

		var walls []maze.Wall
		for _, out := range outcomes {
			if out.Result.Kind == maze.Advanced {
				require.Len(t, out.Walls, 1)
			} else {
				assert.Empty(t, out.Walls)
			}
			walls = append(walls, out.Walls...)
		}
		assert.Len(t, walls, 35)
		assert.Equal(t, maze.Complete, outcomes[len(outcomes)-1].State)

		require.Len(t, pub.events, 35)
		for n, e := range pub.events {
			assert.Equal(t, id, e.SessionID)
			assert.Equal(t, n+1, e.Seq)
			w, err := maze.NewWall(e.From, e.To)
			require.NoError(t, err)
			assert.Equal(t, walls[n], w)
			x, z := w.Midpoint()
			assert.Equal(t, [2]float64{x, z}, e.Midpoint)
		}

		snap, err := m.Snapshot(id)
		require.NoError(t, err)
		assert.Equal(t, maze.Complete, snap.State)
		assert.Equal(t, 36, snap.VisitedCount)
		assert.Equal(t, walls, snap.Walls)
		assert.NotEmpty(t, snap.ASCII)

		out, err := m.Step(id)
		require.NoError(t, err)
		assert.Equal(t, maze.Done, out.Result.Kind)
	})

	t.Run("Same seed gives the same maze", func(t *testing.T) {
		m, _ := newManager(t, nil)
		first, err := m.Create(8, 7)
		require.NoError(t, err)
		second, err := m.Create(8, 7)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)

		stepAll(t, m, first)
		stepAll(t, m, second)

		a, err := m.Snapshot(first)
		require.NoError(t, err)
		b, err := m.Snapshot(second)
		require.NoError(t, err)
		assert.Equal(t, a.Walls, b.Walls)
		assert.Equal(t, a.ASCII, b.ASCII)
	})

	t.Run("Publisher failures are logged only", func(t *testing.T) {
		pub := &memPublisher{err: errors.New("redis down")}
		m, log := newManager(t, pub)
		id, err := m.Create(2, 1)
		require.NoError(t, err)

		out, err := m.Step(id)
		require.NoError(t, err)
		assert.Equal(t, maze.Advanced, out.Result.Kind)
		assert.Len(t, log.warnings, 1)
	})

	t.Run("Unknown session", func(t *testing.T) {
		m, _ := newManager(t, nil)
		_, err := m.Step(uuid.New())
		assert.ErrorIs(t, err, ErrSessionNotFound)
		_, err = m.Snapshot(uuid.New())
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestDrive(t *testing.T) {
	t.Run("Drives to completion and blocks manual steps", func(t *testing.T) {
		m, _ := newManager(t, nil)
		id, err := m.Create(4, 3)
		require.NoError(t, err)

		var outcomes []i.StepOutcome
		var busyErr error
		err = m.Drive(context.Background(), id, 0, func(out i.StepOutcome) {
			outcomes = append(outcomes, out)
			if busyErr == nil {
				_, busyErr = m.Step(id)
			}
		})
		require.NoError(t, err)
		assert.ErrorIs(t, busyErr, ErrSessionBusy)
		assert.Equal(t, maze.Done, outcomes[len(outcomes)-1].Result.Kind)

		advanced := 0
		for _, out := range outcomes {
			if out.Result.Kind == maze.Advanced {
				advanced++
			}
		}
		assert.Equal(t, 15, advanced)

		// Manual stepping works again once the driver has finished.
		out, err := m.Step(id)
		require.NoError(t, err)
		assert.Equal(t, maze.Done, out.Result.Kind)
	})

	t.Run("Second driver is rejected", func(t *testing.T) {
		m, _ := newManager(t, nil)
		id, err := m.Create(4, 3)
		require.NoError(t, err)

		var nestedErr error
		err = m.Drive(context.Background(), id, 0, func(i.StepOutcome) {
			if nestedErr == nil {
				nestedErr = m.Drive(context.Background(), id, 0, nil)
			}
		})
		require.NoError(t, err)
		assert.ErrorIs(t, nestedErr, ErrSessionBusy)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		m, _ := newManager(t, nil)
		id, err := m.Create(10, 3)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = m.Drive(ctx, id, 0, nil)
		assert.ErrorIs(t, err, context.Canceled)

		snap, err := m.Snapshot(id)
		require.NoError(t, err)
		assert.Equal(t, maze.Running, snap.State)
	})

	t.Run("Remove stops the driver", func(t *testing.T) {
		pub := &memPublisher{}
		m, _ := newManager(t, pub)
		id, err := m.Create(5, 3)
		require.NoError(t, err)

		steps := 0
		done := make(chan error, 1)
		go func() {
			done <- m.Drive(context.Background(), id, time.Millisecond, func(i.StepOutcome) {
				steps++
				if steps == 1 {
					assert.NoError(t, m.Remove(id))
				}
			})
		}()

		select {
		case err = <-done:
		case <-time.After(time.Second):
			t.Fatal("Drive kept running after Remove")
		}
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.Equal(t, 1, steps)
		assert.Len(t, pub.events, 1)
		assert.Zero(t, m.Count())

		_, err = m.Step(id)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("Unknown session", func(t *testing.T) {
		m, _ := newManager(t, nil)
		assert.ErrorIs(t, m.Drive(context.Background(), uuid.New(), 0, nil), ErrSessionNotFound)
	})
}

func TestRemoveAndEvict(t *testing.T) {
	m, _ := newManager(t, nil)
	now := time.Now()
	m.now = func() time.Time { return now }

	stale, err := m.Create(3, 1)
	require.NoError(t, err)

	now = now.Add(defaultSessionTTL + time.Minute)
	fresh, err := m.Create(3, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, m.EvictIdle())
	assert.Equal(t, 1, m.Count())
	_, err = m.Snapshot(stale)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, m.Remove(fresh))
	assert.ErrorIs(t, m.Remove(fresh), ErrSessionNotFound)
	assert.Zero(t, m.Count())
	assert.ErrorIs(t, m.Drive(context.Background(), fresh, 0, nil), ErrSessionNotFound)
}
