package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

const (
	defaultMaxMazeSize    = 100
	defaultSessionTTL     = 30 * time.Minute
	defaultPublishTimeout = 100 * time.Millisecond
)

var (
	ErrSessionNotFound = errors.New("maze session not found")
	ErrSessionBusy     = errors.New("maze session is already being driven")
	ErrSizeTooLarge    = errors.New("maze size exceeds the configured maximum")
)

// session is one in-progress maze generation. Its mutex serializes every generator access.
type session struct {
	id        uuid.UUID
	seed      int64
	rng       maze.Rand
	generator *maze.Generator
	layout    *maze.Layout
	pending   []maze.Wall
	driving   bool
	stop      context.CancelFunc // cancels the active Drive, if any
	removed   bool
	lastUsed  time.Time
	now       func() time.Time
	sync.Mutex
}

// discard marks the session removed and stops its driver. Once discarded a session
// never steps or publishes again.
func (s *session) discard() {
	s.Lock()
	defer s.Unlock()
	s.removed = true
	if s.stop != nil {
		s.stop()
	}
}

// stepLocked advances the generator; the caller holds the session lock.
func (s *session) stepLocked(rng maze.Rand) i.StepOutcome {
	s.pending = s.pending[:0]
	res := s.generator.Step(rng)
	s.lastUsed = s.now()

	walls := make([]maze.Wall, len(s.pending))
	copy(walls, s.pending)
	return i.StepOutcome{
		Result: res,
		Walls:  walls,
		State:  s.generator.State(),
	}
}

// MazeSessionManager keeps maze generations in memory, keyed by session ID.
type MazeSessionManager struct {
	sessions    map[uuid.UUID]*session
	publisher   i.WallPublisher
	logger      i.Logger
	maxSize     int
	ttl         time.Duration
	randFactory func(seed int64) maze.Rand
	now         func() time.Time
	sync.RWMutex
}

// Config holds the dependencies of a MazeSessionManager.
type Config struct {
	Publisher   i.WallPublisher            // Optional sink for wall events
	Logger      i.Logger                   // Required
	MaxSize     int                        // Largest accepted maze size
	SessionTTL  time.Duration              // Idle time before eviction
	RandFactory func(seed int64) maze.Rand // Source of per-session randomness
}

// NewMazeSessionManager creates a session manager.
func NewMazeSessionManager(c *Config) (*MazeSessionManager, error) {
	if c == nil || c.Logger == nil {
		return nil, errors.New("session manager requires a logger")
	}

	msm := &MazeSessionManager{
		sessions:    make(map[uuid.UUID]*session),
		publisher:   c.Publisher,
		logger:      c.Logger,
		maxSize:     c.MaxSize,
		ttl:         c.SessionTTL,
		randFactory: c.RandFactory,
		now:         time.Now,
	}

	if msm.maxSize <= 0 {
		msm.maxSize = defaultMaxMazeSize
	}
	if msm.ttl <= 0 {
		msm.ttl = defaultSessionTTL
	}
	if msm.randFactory == nil {
		msm.randFactory = func(seed int64) maze.Rand {
			return rand.New(rand.NewSource(seed))
		}
	}
	return msm, nil
}

// Create starts a new maze generation and returns its session ID.
func (m *MazeSessionManager) Create(size int, seed int64) (uuid.UUID, error) {
	if size > m.maxSize {
		return uuid.Nil, fmt.Errorf("%w: %d > %d", ErrSizeTooLarge, size, m.maxSize)
	}

	layout, err := maze.NewLayout(size)
	if err != nil {
		return uuid.Nil, err
	}

	s := &session{
		seed:     seed,
		rng:      m.randFactory(seed),
		layout:   layout,
		lastUsed: m.now(),
		now:      m.now,
	}

	m.Lock()
	defer m.Unlock()

	s.id = uuid.New()
	for {
		if _, ok := m.sessions[s.id]; !ok {
			break
		}
		s.id = uuid.New()
	}

	observers := maze.Observers{layout, maze.ObserverFunc(s.collect)}
	if m.publisher != nil {
		observers = append(observers, m.forwarder(s.id))
	}

	s.generator, err = maze.NewGenerator(size, observers)
	if err != nil {
		return uuid.Nil, err
	}

	m.sessions[s.id] = s
	m.logger.Info(fmt.Sprintf("created maze session: ID=%s Size=%d Seed=%d", s.id, size, seed))
	return s.id, nil
}

// collect records walls opened during the step in progress.
func (s *session) collect(from, to maze.Cell) {
	if w, err := maze.NewWall(from, to); err == nil {
		s.pending = append(s.pending, w)
	}
}

// forwarder publishes each opened wall. Publishing failures are logged and never reach the generator.
func (m *MazeSessionManager) forwarder(id uuid.UUID) maze.WallRemovalObserver {
	seq := 0
	return maze.ObserverFunc(func(from, to maze.Cell) {
		seq++
		event := i.WallEvent{SessionID: id, Seq: seq, From: from, To: to}
		if w, err := maze.NewWall(from, to); err == nil {
			event.Midpoint[0], event.Midpoint[1] = w.Midpoint()
		}

		ctx, cancel := context.WithTimeout(context.Background(), defaultPublishTimeout)
		defer cancel()
		if err := m.publisher.Publish(ctx, event); err != nil {
			m.logger.Warning(fmt.Sprintf("publishing wall %s-%s for session %s: %s", from, to, id, err))
		}
	})
}

// Step advances the session's generation by one step.
func (m *MazeSessionManager) Step(id uuid.UUID) (i.StepOutcome, error) {
	s, err := m.session(id)
	if err != nil {
		return i.StepOutcome{}, err
	}

	s.Lock()
	switch {
	case s.removed:
		s.Unlock()
		return i.StepOutcome{}, ErrSessionNotFound
	case s.driving:
		s.Unlock()
		return i.StepOutcome{}, ErrSessionBusy
	}
	out := s.stepLocked(s.rng)
	s.Unlock()

	if out.Result.Kind == maze.Done {
		m.logger.Debug(fmt.Sprintf("maze session complete: ID=%s", id))
	}
	return out, nil
}

// Drive steps the session once per interval until it is complete or ctx is cancelled.
// Only one Drive may run per session; manual Step calls are rejected meanwhile.
// Removing the session stops the drive with ErrSessionNotFound.
func (m *MazeSessionManager) Drive(ctx context.Context, id uuid.UUID, interval time.Duration, onStep func(i.StepOutcome)) error {
	s, err := m.session(id)
	if err != nil {
		return err
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	s.Lock()
	switch {
	case s.removed:
		s.Unlock()
		return ErrSessionNotFound
	case s.driving:
		s.Unlock()
		return ErrSessionBusy
	}
	s.driving = true
	s.stop = stop
	s.Unlock()

	defer func() {
		s.Lock()
		s.driving = false
		s.stop = nil
		s.Unlock()
	}()

	m.logger.Info(fmt.Sprintf("driving maze session: ID=%s Interval=%s", id, interval))
	stepper := stepperFunc(func(rng maze.Rand) maze.StepResult {
		s.Lock()
		if s.removed {
			s.Unlock()
			return maze.StepResult{Kind: maze.Done}
		}
		out := s.stepLocked(rng)
		s.Unlock()

		if onStep != nil {
			onStep(out)
		}
		return out.Result
	})

	err = maze.Drive(ctx, stepper, s.rng, interval, nil)

	s.Lock()
	removed := s.removed
	s.Unlock()
	if removed {
		m.logger.Info(fmt.Sprintf("stopped driving removed maze session: ID=%s", id))
		return ErrSessionNotFound
	}
	if err != nil {
		m.logger.Info(fmt.Sprintf("stopped driving maze session %s: %s", id, err))
		return err
	}
	return nil
}

type stepperFunc func(maze.Rand) maze.StepResult

func (f stepperFunc) Step(rng maze.Rand) maze.StepResult { return f(rng) }

// Snapshot returns the current state of a session.
func (m *MazeSessionManager) Snapshot(id uuid.UUID) (i.Snapshot, error) {
	s, err := m.session(id)
	if err != nil {
		return i.Snapshot{}, err
	}

	s.Lock()
	defer s.Unlock()
	return i.Snapshot{
		ID:           s.id,
		Size:         s.generator.Size(),
		Seed:         s.seed,
		State:        s.generator.State(),
		Current:      s.generator.Current(),
		VisitedCount: s.generator.VisitedCount(),
		StackDepth:   s.generator.StackDepth(),
		Steps:        s.generator.Steps(),
		Walls:        s.layout.OpenedWalls(),
		ASCII:        s.layout.String(),
	}, nil
}

// Remove discards a session and stops any Drive running on it.
func (m *MazeSessionManager) Remove(id uuid.UUID) error {
	m.Lock()
	defer m.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	s.discard()
	m.logger.Info(fmt.Sprintf("removed maze session: ID=%s", id))
	return nil
}

// Count returns the number of live sessions.
func (m *MazeSessionManager) Count() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.sessions)
}

// EvictIdle removes sessions that have not been used for longer than the session TTL
// and are not being driven. It returns how many were removed.
func (m *MazeSessionManager) EvictIdle() int {
	cutoff := m.now().Add(-m.ttl)

	m.Lock()
	defer m.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		s.Lock()
		idle := !s.driving && s.lastUsed.Before(cutoff)
		s.Unlock()
		if idle {
			delete(m.sessions, id)
			s.discard()
			evicted++
		}
	}
	if evicted > 0 {
		m.logger.Info(fmt.Sprintf("evicted %d idle maze sessions", evicted))
	}
	return evicted
}

// RunJanitor evicts idle sessions every interval until ctx is cancelled.
func (m *MazeSessionManager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle()
		}
	}
}

func (m *MazeSessionManager) session(id uuid.UUID) (*session, error) {
	m.RLock()
	defer m.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}
