package maze

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWall(t *testing.T) {
	t.Run("Normalizes order", func(t *testing.T) {
		w1, err := NewWall(Cell{1, 0}, Cell{0, 0})
		require.NoError(t, err)
		w2, err := NewWall(Cell{0, 0}, Cell{1, 0})
		require.NoError(t, err)
		assert.Equal(t, w1, w2)
		assert.Equal(t, Cell{0, 0}, w1.A)
		assert.Equal(t, East, w1.Direction())
	})

	t.Run("Midpoint", func(t *testing.T) {
		w, err := NewWall(Cell{2, 3}, Cell{2, 2})
		require.NoError(t, err)
		x, z := w.Midpoint()
		assert.Equal(t, 2.0, x)
		assert.Equal(t, 2.5, z)
		assert.Equal(t, South, w.Direction())
	})

	t.Run("Rejects non adjacent cells", func(t *testing.T) {
		for _, pair := range [][2]Cell{{{0, 0}, {1, 1}}, {{0, 0}, {0, 0}}, {{0, 0}, {2, 0}}} {
			_, err := NewWall(pair[0], pair[1])
			assert.ErrorIs(t, err, ErrNotAdjacent)
		}
	})
}

func TestLayout(t *testing.T) {
	t.Run("Invalid size", func(t *testing.T) {
		_, err := NewLayout(0)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})

	t.Run("Records the size two maze", func(t *testing.T) {
		layout, err := NewLayout(2)
		require.NoError(t, err)
		g, err := NewGenerator(2, layout)
		require.NoError(t, err)
		runToCompletion(t, g, firstRand{})

		assert.True(t, layout.IsOpen(Cell{1, 0}, Cell{0, 0}))
		assert.True(t, layout.IsOpen(Cell{1, 0}, Cell{1, 1}))
		assert.True(t, layout.IsOpen(Cell{0, 1}, Cell{1, 1}))
		assert.False(t, layout.IsOpen(Cell{0, 0}, Cell{0, 1}))
		assert.Len(t, layout.OpenedWalls(), 3)

		cell, err := layout.CellAt(1, 0)
		require.NoError(t, err)
		assert.Equal(t, CellWalls{NorthWall: true, SouthWall: false, EastWall: true, WestWall: false}, cell)

		expected := "+---+---+\n" +
			"|       |\n" +
			"+---+   +\n" +
			"|       |\n" +
			"+---+---+\n"
		assert.Equal(t, expected, layout.String())
	})

	t.Run("Ignores repeated and invalid walls", func(t *testing.T) {
		layout, err := NewLayout(3)
		require.NoError(t, err)

		layout.OnWallOpened(Cell{0, 0}, Cell{0, 1})
		layout.OnWallOpened(Cell{0, 1}, Cell{0, 0})
		layout.OnWallOpened(Cell{0, 0}, Cell{2, 2})
		layout.OnWallOpened(Cell{2, 2}, Cell{3, 2})
		assert.Len(t, layout.OpenedWalls(), 1)

		_, err = layout.CellAt(3, 0)
		assert.ErrorIs(t, err, ErrOutOfBounds)
	})

	t.Run("Matches the generator events", func(t *testing.T) {
		layout, err := NewLayout(6)
		require.NoError(t, err)
		var events []wallEvent
		g, err := NewGenerator(6, Observers{layout, collect(&events)})
		require.NoError(t, err)
		runToCompletion(t, g, rand.New(rand.NewSource(5)))

		walls := layout.OpenedWalls()
		require.Len(t, walls, len(events))
		for i, e := range events {
			w, err := NewWall(e.from, e.to)
			require.NoError(t, err)
			assert.Equal(t, w, walls[i])
		}
	})
}

func TestObserversSkipNil(t *testing.T) {
	calls := 0
	obs := Observers{nil, ObserverFunc(func(Cell, Cell) { calls++ }), nil}
	obs.OnWallOpened(Cell{0, 0}, Cell{1, 0})
	assert.Equal(t, 1, calls)
}
