package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder counts placement notifications and can re-enter the piece.
type recorder struct {
	calls   []PieceID
	reenter func(p *Piece)
}

func (r *recorder) OnPlacementChanged(p *Piece) {
	r.calls = append(r.calls, p.ID())
	if r.reenter != nil {
		r.reenter(p)
	}
}

func TestRotationCycles(t *testing.T) {
	g := scenarioGrid(t)
	p := NewPiece(PieceSpec{ID: 1}, g, nil, nil)

	want := []Rotation{Rot90, Rot180, Rot270, Rot0}
	for _, r := range want {
		require.True(t, p.Rotate())
		assert.Equal(t, r, p.Rotation())
	}
}

func TestNewPieceNormalizesRotation(t *testing.T) {
	p := NewPiece(PieceSpec{ID: 1, Rotation: 45}, nil, nil, nil)
	assert.Equal(t, Rot0, p.Rotation())
}

func TestFlipTogglesVisibleFace(t *testing.T) {
	p := NewPiece(PieceSpec{ID: 1, Front: 3, Back: 8}, nil, nil, nil)
	assert.Equal(t, FaceID(3), p.VisibleFace())
	p.Flip()
	assert.True(t, p.Flipped())
	assert.Equal(t, FaceID(8), p.VisibleFace())
	p.Flip()
	assert.Equal(t, FaceID(3), p.VisibleFace())
}

func TestRotateAndFlipNotifyOnlyWhenPlaced(t *testing.T) {
	g := scenarioGrid(t)
	rec := &recorder{}
	p := NewPiece(PieceSpec{ID: 1}, g, rec, nil)

	p.Rotate()
	p.Flip()
	assert.Empty(t, rec.calls)

	require.True(t, p.MoveTo(V(-2, -3)))
	p.Rotate()
	p.Flip()
	assert.Equal(t, []PieceID{1, 1, 1}, rec.calls)
}

func TestMoveToPlacesAndSnaps(t *testing.T) {
	g := scenarioGrid(t)
	p := NewPiece(PieceSpec{ID: 1, Home: V(5, 5)}, g, nil, nil)
	assert.False(t, p.Placed())
	assert.Equal(t, NoCell, p.Cell())

	require.True(t, p.MoveTo(V(0.3, -1.2)))
	assert.Equal(t, 3, p.Cell())
	assert.Equal(t, V(0, -1), p.Position())
	assert.Same(t, p, g.TileAt(3))

	require.True(t, p.MoveTo(V(-2, -3)))
	assert.Equal(t, 0, p.Cell())
	assert.Nil(t, g.TileAt(3), "previous cell is freed")
	assert.Same(t, p, g.TileAt(0))
}

func TestMoveToSameCellOnlySnaps(t *testing.T) {
	g := scenarioGrid(t)
	rec := &recorder{}
	p := NewPiece(PieceSpec{ID: 1}, g, rec, nil)
	require.True(t, p.MoveTo(V(-2, -3)))
	require.Len(t, rec.calls, 1)

	require.True(t, p.MoveTo(V(-2.4, -2.8)))
	assert.Equal(t, 0, p.Cell())
	assert.Equal(t, V(-2, -3), p.Position())
	assert.Len(t, rec.calls, 1, "no re-validation for a same-cell drop")
	assert.Equal(t, 1, g.OccupiedCount())
}

func TestMoveToOccupiedCellReverts(t *testing.T) {
	g := scenarioGrid(t)
	rec := &recorder{}
	a := NewPiece(PieceSpec{ID: 1}, g, rec, nil)
	b := NewPiece(PieceSpec{ID: 2, Home: V(9, 9)}, g, rec, nil)
	require.True(t, a.MoveTo(V(-2, -3)))
	require.True(t, b.MoveTo(V(0, -3)))
	rec.calls = nil

	b.Drag(V(-1.8, -2.9))
	assert.False(t, b.MoveTo(V(-1.8, -2.9)))
	assert.Equal(t, 1, b.Cell())
	assert.Equal(t, V(0, -3), b.Position(), "reverted to last valid position")
	assert.Same(t, a, g.TileAt(0))
	assert.Same(t, b, g.TileAt(1))
	assert.Empty(t, rec.calls)

	c := NewPiece(PieceSpec{ID: 3, Home: V(9, 9)}, g, rec, nil)
	assert.False(t, c.MoveTo(V(0, -3)))
	assert.False(t, c.Placed())
	assert.Equal(t, V(9, 9), c.Position())
}

func TestMoveRejectsReentry(t *testing.T) {
	g := scenarioGrid(t)
	var nested, rotated bool
	rec := &recorder{}
	p := NewPiece(PieceSpec{ID: 1}, g, rec, nil)
	rec.reenter = func(p *Piece) {
		rec.reenter = nil
		nested = p.MoveTo(V(0, -1))
		rotated = p.Rotate()
	}

	require.True(t, p.MoveTo(V(-2, -3)))
	assert.False(t, nested)
	assert.False(t, rotated)
	assert.Equal(t, 0, p.Cell())
	assert.Equal(t, Rot0, p.Rotation())
	assert.False(t, p.Moving())
}

func TestLiftReturnsHome(t *testing.T) {
	g := scenarioGrid(t)
	p := NewPiece(PieceSpec{ID: 1, Home: V(4, 0)}, g, nil, nil)
	require.True(t, p.MoveTo(V(0, -1)))

	require.True(t, p.Lift())
	assert.False(t, p.Placed())
	assert.Equal(t, V(4, 0), p.Position())
	assert.Equal(t, 0, g.OccupiedCount())
}

func TestReleaseFreesOwnCellOnly(t *testing.T) {
	g := scenarioGrid(t)
	a := NewPiece(PieceSpec{ID: 1}, g, nil, nil)
	b := NewPiece(PieceSpec{ID: 2}, g, nil, nil)
	require.True(t, a.MoveTo(V(-2, -3)))

	// Out-of-band takeover: a still believes it holds cell 0.
	g.Free(0)
	require.True(t, g.Occupy(0, b))

	a.Release()
	assert.False(t, a.Placed())
	assert.Same(t, b, g.TileAt(0))
}

func TestCancelDrag(t *testing.T) {
	g := scenarioGrid(t)
	p := NewPiece(PieceSpec{ID: 1}, g, nil, nil)
	require.True(t, p.MoveTo(V(0, -3)))

	p.Drag(V(3.3, 7.1))
	assert.Equal(t, V(3.3, 7.1), p.Position())
	assert.Equal(t, 1, p.Cell(), "dragging does not touch the grid")
	p.CancelDrag()
	assert.Equal(t, V(0, -3), p.Position())
}
