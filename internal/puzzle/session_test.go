package puzzle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	score   int
	level   int
	saves   int
	loadErr error
	saveErr error
	savedAt []int // Level recorded at each save
}

func (m *memStore) LoadScore() (int, error) {
	if m.loadErr != nil {
		return 0, m.loadErr
	}
	return m.score, nil
}

func (m *memStore) SaveScore(score int) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.score = score
	m.savedAt = append(m.savedAt, m.level)
	return nil
}

func twoLevels() []Level {
	return []Level{
		{ID: "one", Slots: []ExpectedSlot{{Face: 5, Cell: 0}, {Face: 6, Cell: 3}}},
		{ID: "two", Slots: []ExpectedSlot{{Face: 5, Cell: 1, Rotation: Rot90}}},
	}
}

func newSession(t *testing.T, levels []Level, opts ...Option) *Session {
	t.Helper()
	g := scenarioGrid(t)
	sol, err := NewSolution(g, nil)
	require.NoError(t, err)
	s, err := NewSession(g, sol, levels, opts...)
	require.NoError(t, err)
	require.NoError(t, s.Initialize(0))
	return s
}

func spawn(t *testing.T, s *Session, spec PieceSpec) *Piece {
	t.Helper()
	p, err := s.Spawn(spec)
	require.NoError(t, err)
	return p
}

func TestNewSessionRequiresCollaborators(t *testing.T) {
	g := scenarioGrid(t)
	sol, err := NewSolution(g, nil)
	require.NoError(t, err)

	_, err = NewSession(nil, sol, twoLevels())
	assert.ErrorIs(t, err, ErrMissingGrid)
	_, err = NewSession(g, nil, twoLevels())
	assert.ErrorIs(t, err, ErrMissingSolution)
	_, err = NewSession(g, sol, nil)
	assert.ErrorIs(t, err, ErrNoLevels)
}

func TestScenarioSingleSlot(t *testing.T) {
	s := newSession(t, []Level{{ID: "a", Slots: []ExpectedSlot{{Face: 5, Cell: 0}}}})
	p := spawn(t, s, PieceSpec{ID: 1, Front: 5, Back: 5, TracksUsage: true, Home: V(4, 0)})

	require.True(t, p.MoveTo(V(-2, -3)))
	assert.True(t, s.Check(p).OK())
	assert.True(t, s.Complete())
	assert.Equal(t, 10+10, s.Score(), "correct placement plus completion bonus")

	require.True(t, p.MoveTo(V(0, -1)))
	require.True(t, p.MoveTo(V(-2, -3)))
	assert.Equal(t, 20, s.Score(), "away and back does not re-score")
}

func TestCorrectPlacementScoresOnce(t *testing.T) {
	s := newSession(t, twoLevels())
	p := spawn(t, s, PieceSpec{ID: 1, Front: 5, Back: 5, TracksUsage: true})

	require.True(t, p.MoveTo(V(-2, -3)))
	assert.Equal(t, 10, s.Score())
	assert.True(t, s.HasScored(p))

	// Same-cell drop and re-validation through rotation.
	require.True(t, p.MoveTo(V(-2.2, -3.1)))
	for range 4 {
		p.Rotate()
	}
	assert.Equal(t, 10, s.Score())

	require.True(t, p.MoveTo(V(0, -3)))
	require.True(t, p.MoveTo(V(-2, -3)))
	assert.Equal(t, 10, s.Score())
	assert.Equal(t, 1, s.Solution().UsedFaces().Len())
}

func TestWrongPlacementDoesNotScore(t *testing.T) {
	s := newSession(t, twoLevels())
	p := spawn(t, s, PieceSpec{ID: 1, Front: 5, Back: 9, TracksUsage: true})

	p.Flip()
	require.True(t, p.MoveTo(V(-2, -3)))
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 0, s.Solution().UsedFaces().Len())

	p.Flip()
	assert.Equal(t, 10, s.Score(), "fixing the flip in place scores")
}

func TestRejectedMoveLeavesStateUntouched(t *testing.T) {
	s := newSession(t, twoLevels())
	a := spawn(t, s, PieceSpec{ID: 1, Front: 5, TracksUsage: true})
	b := spawn(t, s, PieceSpec{ID: 2, Front: 6, TracksUsage: true})
	require.True(t, a.MoveTo(V(-2, -3)))
	require.True(t, b.MoveTo(V(0, -3)))
	score := s.Score()

	assert.False(t, b.MoveTo(V(-2, -3)))
	assert.Equal(t, 1, b.Cell())
	assert.Same(t, a, s.Grid().TileAt(0))
	assert.Same(t, b, s.Grid().TileAt(1))
	assert.Equal(t, score, s.Score())
}

func TestDuplicateFaceRejectedAcrossSlots(t *testing.T) {
	levels := []Level{{ID: "dup", Slots: []ExpectedSlot{{Face: 4, Cell: 0}, {Face: 4, Cell: 3}}}}
	s := newSession(t, levels)
	a := spawn(t, s, PieceSpec{ID: 1, Front: 4, TracksUsage: true})
	b := spawn(t, s, PieceSpec{ID: 2, Front: 4, TracksUsage: true})

	require.True(t, a.MoveTo(V(-2, -3)))
	require.True(t, b.MoveTo(V(0, -1)))
	assert.Equal(t, 10, s.Score())
	assert.True(t, s.Check(b).Fails(CheckDuplicate))
	assert.False(t, s.Complete())
}

func TestCompletionAdvancesAfterDelay(t *testing.T) {
	var loaded []int
	s := newSession(t, twoLevels(), WithLevelLoaded(func(i int) { loaded = append(loaded, i) }))
	a := spawn(t, s, PieceSpec{ID: 1, Front: 5, TracksUsage: true})
	b := spawn(t, s, PieceSpec{ID: 2, Front: 6, TracksUsage: true})

	require.True(t, a.MoveTo(V(-2, -3)))
	require.True(t, b.MoveTo(V(0, -1)))
	assert.Equal(t, 10+10+20, s.Score())
	assert.True(t, s.AdvancePending())

	solved, total := s.Progress()
	assert.Equal(t, 2, solved)
	assert.Equal(t, 2, total)

	s.Step(time.Second)
	assert.Equal(t, 0, s.Level())
	assert.Equal(t, time.Second, s.AdvanceRemaining())

	s.Step(time.Second)
	assert.Equal(t, 1, s.Level())
	assert.False(t, s.AdvancePending())
	assert.Equal(t, []int{0, 1}, loaded)

	assert.False(t, a.Placed())
	assert.False(t, b.Placed())
	assert.Equal(t, 0, s.Grid().OccupiedCount())
	assert.Equal(t, 0, s.Solution().UsedFaces().Len())
	assert.Equal(t, 40, s.Score(), "score carries across levels")
}

func TestCompletionBonusOncePerAttempt(t *testing.T) {
	s := newSession(t, twoLevels())
	a := spawn(t, s, PieceSpec{ID: 1, Front: 5, TracksUsage: true})
	b := spawn(t, s, PieceSpec{ID: 2, Front: 6, TracksUsage: true})
	require.True(t, a.MoveTo(V(-2, -3)))
	require.True(t, b.MoveTo(V(0, -1)))
	require.Equal(t, 40, s.Score())

	require.True(t, a.Lift())
	assert.False(t, s.Complete())
	require.True(t, a.MoveTo(V(-2, -3)))
	assert.True(t, s.Complete())
	assert.Equal(t, 40, s.Score())
}

func TestNestedCompletionCheckIgnored(t *testing.T) {
	s := newSession(t, []Level{{ID: "a", Slots: []ExpectedSlot{{Face: 5, Cell: 0}}}})
	p := spawn(t, s, PieceSpec{ID: 1, Front: 5})

	s.checking = true
	require.True(t, p.MoveTo(V(-2, -3)))
	assert.Equal(t, 10, s.Score(), "no bonus while a check is in flight")
	assert.False(t, s.AdvancePending())

	s.checking = false
	p.Rotate()
	p.Rotate()
	p.Rotate()
	p.Rotate()
	assert.Equal(t, 20, s.Score())
}

func TestFinishedAfterLastLevel(t *testing.T) {
	s := newSession(t, twoLevels())
	require.NoError(t, s.LoadLevel(1))
	p := spawn(t, s, PieceSpec{ID: 1, Front: 5, Rotation: Rot90})

	require.True(t, p.MoveTo(V(0, -3)))
	require.True(t, s.AdvancePending())
	s.Step(3 * time.Second)

	assert.True(t, s.Finished())
	assert.Equal(t, 1, s.Level())
	assert.Equal(t, 20, s.Score())
}

func TestLoadLevelCancelsAdvance(t *testing.T) {
	s := newSession(t, []Level{
		{ID: "a", Slots: []ExpectedSlot{{Face: 5, Cell: 0}}},
		{ID: "b", Slots: []ExpectedSlot{{Face: 5, Cell: 1}}},
	})
	p := spawn(t, s, PieceSpec{ID: 1, Front: 5})
	require.True(t, p.MoveTo(V(-2, -3)))
	require.True(t, s.AdvancePending())

	require.NoError(t, s.LoadLevel(0))
	assert.False(t, s.AdvancePending())
	s.Step(10 * time.Second)
	assert.Equal(t, 0, s.Level())

	require.True(t, p.MoveTo(V(-2, -3)))
	assert.Equal(t, 40, s.Score(), "ledger and completion reset on reload")
}

func TestLoadLevelOutOfRange(t *testing.T) {
	s := newSession(t, twoLevels())
	assert.ErrorIs(t, s.LoadLevel(2), ErrLevelOutOfRange)
	assert.ErrorIs(t, s.LoadLevel(-1), ErrLevelOutOfRange)
	assert.Equal(t, 0, s.Level())
}

func TestLoadLevelRejectsBadSlots(t *testing.T) {
	g := scenarioGrid(t)
	sol, err := NewSolution(g, nil)
	require.NoError(t, err)
	s, err := NewSession(g, sol, []Level{{ID: "bad", Slots: []ExpectedSlot{{Cell: 12}}}})
	require.NoError(t, err)

	err = s.Initialize(0)
	assert.ErrorIs(t, err, ErrSlotOutOfRange)
}

func TestLevelPiecesAreRespawned(t *testing.T) {
	levels := []Level{
		{
			ID:     "one",
			Slots:  []ExpectedSlot{{Face: 1, Cell: 0}},
			Pieces: []PieceSpec{{ID: 1, Front: 1}, {ID: 2, Front: 2}},
		},
		{
			ID:     "two",
			Slots:  []ExpectedSlot{{Face: 3, Cell: 0}},
			Pieces: []PieceSpec{{ID: 7, Front: 3}},
		},
	}
	s := newSession(t, levels)
	require.Len(t, s.Pieces(), 2)
	assert.Equal(t, PieceID(1), s.Pieces()[0].ID())

	p, ok := s.Piece(1)
	require.True(t, ok)
	require.True(t, p.MoveTo(V(-2, -3)))

	require.NoError(t, s.LoadLevel(1))
	pieces := s.Pieces()
	require.Len(t, pieces, 1)
	assert.Equal(t, PieceID(7), pieces[0].ID())
	assert.False(t, pieces[0].Placed())
	assert.Equal(t, 0, s.Grid().OccupiedCount())
}

func TestSpawnAndRemove(t *testing.T) {
	s := newSession(t, twoLevels())
	p := spawn(t, s, PieceSpec{ID: 1, Front: 5})
	_, err := s.Spawn(PieceSpec{ID: 1})
	assert.ErrorIs(t, err, ErrDuplicatePiece)

	require.True(t, p.MoveTo(V(-2, -3)))
	assert.True(t, s.Remove(1))
	assert.False(t, s.Remove(1))
	assert.Nil(t, s.Grid().TileAt(0))
	_, ok := s.Piece(1)
	assert.False(t, ok)
}

func TestForeignPieceIgnored(t *testing.T) {
	s := newSession(t, twoLevels())
	stray := NewPiece(PieceSpec{ID: 99, Front: 5}, s.Grid(), s, nil)

	require.True(t, stray.MoveTo(V(-2, -3)))
	assert.Equal(t, 0, s.Score())
}

func TestResetGame(t *testing.T) {
	store := &memStore{}
	s := newSession(t, twoLevels(), WithStore(store))
	a := spawn(t, s, PieceSpec{ID: 1, Front: 5, TracksUsage: true})
	require.True(t, a.MoveTo(V(-2, -3)))
	require.Equal(t, 10, s.Score())

	s.ResetGame()
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 0, store.score)
	assert.False(t, a.Placed())
	assert.Equal(t, 0, s.Grid().OccupiedCount())
	assert.Equal(t, 0, s.Solution().UsedFaces().Len())

	require.True(t, a.MoveTo(V(-2, -3)))
	assert.Equal(t, 10, s.Score())
}

func TestResetScoreOnLoad(t *testing.T) {
	sc := DefaultScoring()
	sc.ResetScoreOnLoad = true
	s := newSession(t, twoLevels(), WithScoring(sc))
	a := spawn(t, s, PieceSpec{ID: 1, Front: 5})
	require.True(t, a.MoveTo(V(-2, -3)))
	require.Equal(t, 10, s.Score())

	require.NoError(t, s.LoadLevel(1))
	assert.Equal(t, 0, s.Score())
}

func TestCustomScoring(t *testing.T) {
	s := newSession(t, []Level{{ID: "a", Slots: []ExpectedSlot{{Face: 5, Cell: 0}}}},
		WithScoring(Scoring{PerCorrect: 3, AdvanceDelay: 500 * time.Millisecond}))
	p := spawn(t, s, PieceSpec{ID: 1, Front: 5})
	require.True(t, p.MoveTo(V(-2, -3)))
	assert.Equal(t, 6, s.Score())
	assert.Equal(t, 500*time.Millisecond, s.AdvanceRemaining())
}

func TestScorePersistence(t *testing.T) {
	store := &memStore{score: 50}
	s := newSession(t, twoLevels(), WithStore(store))
	assert.Equal(t, 50, s.Score())

	p := spawn(t, s, PieceSpec{ID: 1, Front: 5})
	require.True(t, p.MoveTo(V(-2, -3)))
	require.NoError(t, s.Teardown())
	assert.Equal(t, 60, store.score)
}

func TestScoreStoreFailures(t *testing.T) {
	store := &memStore{loadErr: errors.New("disk gone"), saveErr: errors.New("read-only")}
	s := newSession(t, twoLevels(), WithStore(store))
	assert.Equal(t, 0, s.Score())
	assert.Error(t, s.Teardown())
	assert.Positive(t, store.saves)
}

func TestLevelHookRunsBeforeSave(t *testing.T) {
	store := &memStore{}
	record := func(index int) { store.level = index }
	s := newSession(t, twoLevels(), WithStore(store), WithLevelLoaded(record))

	require.NoError(t, s.LoadLevel(1))
	require.NotEmpty(t, store.savedAt)
	assert.Equal(t, 1, store.savedAt[len(store.savedAt)-1], "save sees the new level")
}

func TestNonTrackingPieceScoresOncePerCell(t *testing.T) {
	s := newSession(t, []Level{{ID: "pair", Slots: []ExpectedSlot{
		{Face: 5, Cell: 0},
		{Face: 5, Cell: 3, AllowDuplicate: true},
	}}})
	p := spawn(t, s, PieceSpec{ID: 1, Front: 5, Back: 5, Home: V(4, 0)})

	at := func(cell int) Vec2 {
		pos, ok := s.Grid().CellCenter(cell)
		require.True(t, ok)
		return pos
	}

	require.True(t, p.MoveTo(at(0)))
	assert.Equal(t, 10, s.Score())

	// Leaving through a cell without a slot does not re-arm cell 0.
	require.True(t, p.MoveTo(at(1)))
	require.True(t, p.MoveTo(at(0)))
	assert.Equal(t, 10, s.Score(), "cell 0 pays once per piece")

	require.True(t, p.MoveTo(at(3)))
	assert.Equal(t, 20, s.Score(), "a new cell pays")

	require.True(t, p.MoveTo(at(0)))
	assert.Equal(t, 20, s.Score())
	assert.False(t, s.Complete())
	assert.Zero(t, s.Solution().UsedFaces().Len(), "non-tracking pieces never claim")
}
