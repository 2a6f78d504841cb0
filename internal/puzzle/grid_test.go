package puzzle

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid(GridSpec{Columns: 2, Rows: 2, CellSize: 2, Origin: V(-2, -3)}, nil)
	require.NoError(t, err)
	return g
}

func TestNewGridRejectsBadCellSize(t *testing.T) {
	for _, size := range []float64{0, -1} {
		_, err := NewGrid(GridSpec{Columns: 2, Rows: 2, CellSize: size}, nil)
		assert.ErrorIs(t, err, ErrBadCellSize)
	}
}

func TestNewGridClampsDimensions(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	g, err := NewGrid(GridSpec{Columns: 0, Rows: -3, CellSize: 1}, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Columns())
	assert.Equal(t, 1, g.Rows())
	assert.Equal(t, 1, g.Len())
	assert.Contains(t, buf.String(), "grid dimensions raised")
}

func TestCellIndex(t *testing.T) {
	g := scenarioGrid(t)

	tests := []struct {
		name string
		pos  Vec2
		want int
	}{
		{"cell 0 center", V(-2, -3), 0},
		{"cell 1 center", V(0, -3), 1},
		{"cell 2 center", V(-2, -1), 2},
		{"cell 3 center", V(0, -1), 3},
		{"near cell 3", V(0.4, -0.7), 3},
		{"clamped high", V(100, 100), 3},
		{"clamped low", V(-100, -100), 0},
		{"clamped column only", V(50, -3), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.CellIndex(tt.pos))
		})
	}
}

func TestNearestCellRoundsHalfToEven(t *testing.T) {
	g, err := NewGrid(GridSpec{Columns: 4, Rows: 1, CellSize: 1}, nil)
	require.NoError(t, err)

	assert.Equal(t, V(0, 0), g.NearestCell(V(0.5, 0)))
	assert.Equal(t, V(2, 0), g.NearestCell(V(1.5, 0)))
	assert.Equal(t, V(2, 0), g.NearestCell(V(2.5, 0)))
	assert.Equal(t, V(3, 0), g.NearestCell(V(2.6, 0)))
}

func TestCellCenter(t *testing.T) {
	g := scenarioGrid(t)

	c, ok := g.CellCenter(3)
	require.True(t, ok)
	assert.Equal(t, V(0, -1), c)
	assert.Equal(t, 3, g.CellIndex(c))

	_, ok = g.CellCenter(4)
	assert.False(t, ok)
}

func TestOccupyAndFree(t *testing.T) {
	g := scenarioGrid(t)
	a := NewPiece(PieceSpec{ID: 1}, g, nil, nil)
	b := NewPiece(PieceSpec{ID: 2}, g, nil, nil)

	assert.True(t, g.Occupy(0, a))
	assert.True(t, g.Occupy(0, a), "re-occupying with the same piece succeeds")
	assert.False(t, g.Occupy(0, b))
	assert.Same(t, a, g.TileAt(0))
	assert.True(t, g.IsOccupied(0))

	g.Free(0)
	assert.False(t, g.IsOccupied(0))
	assert.Nil(t, g.TileAt(0))
	assert.True(t, g.Occupy(0, b))
	assert.Equal(t, 1, g.OccupiedCount())

	g.ResetAll()
	assert.Equal(t, 0, g.OccupiedCount())
}

func TestInvalidIndexIsLoggedNotFatal(t *testing.T) {
	var buf bytes.Buffer
	g, err := NewGrid(GridSpec{Columns: 2, Rows: 2, CellSize: 1}, log.New(&buf))
	require.NoError(t, err)
	p := NewPiece(PieceSpec{ID: 1}, g, nil, nil)

	assert.False(t, g.IsOccupied(-1))
	assert.False(t, g.IsOccupied(4))
	assert.False(t, g.Occupy(9, p))
	assert.Nil(t, g.TileAt(9))
	g.Free(9)

	assert.Contains(t, buf.String(), "invalid cell index")
	assert.Equal(t, 0, g.OccupiedCount())
}

// Random occupy/free traffic never leaves two pieces on one cell, and the
// grid agrees with every piece about where it sits.
func TestOccupancyExclusivity(t *testing.T) {
	g, err := NewGrid(GridSpec{Columns: 3, Rows: 3, CellSize: 1}, nil)
	require.NoError(t, err)

	pieces := make([]*Piece, 6)
	for i := range pieces {
		pieces[i] = NewPiece(PieceSpec{ID: PieceID(i + 1), Home: V(-5, -5)}, g, nil, nil)
	}

	rng := rand.New(rand.NewPCG(7, 11))
	for step := 0; step < 2000; step++ {
		p := pieces[rng.IntN(len(pieces))]
		switch rng.IntN(4) {
		case 0:
			p.Lift()
		case 1:
			idx := rng.IntN(g.Len())
			if g.TileAt(idx) == p {
				g.Free(idx)
				p.Lift()
			}
		default:
			p.MoveTo(V(rng.Float64()*3-0.5, rng.Float64()*3-0.5))
		}

		placed := 0
		seen := make(map[int]PieceID)
		for _, q := range pieces {
			if !q.Placed() {
				continue
			}
			placed++
			holder, dup := seen[q.Cell()]
			require.Falsef(t, dup, "step %d: cell %d held by %d and %d", step, q.Cell(), holder, q.ID())
			seen[q.Cell()] = q.ID()
			require.Same(t, q, g.TileAt(q.Cell()))
		}
		require.Equal(t, placed, g.OccupiedCount(), "step %d", step)
	}
}
