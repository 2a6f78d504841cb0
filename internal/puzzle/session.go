package puzzle

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// Level is one puzzle: the expected slots plus the pieces to spawn for it.
// A level without pieces keeps the pieces already in play.
type Level struct {
	ID     string
	Name   string
	Slots  []ExpectedSlot
	Pieces []PieceSpec
}

// Scoring holds the point values and timings of a session.
type Scoring struct {
	PerCorrect       int           // Points per correct placement
	AdvanceDelay     time.Duration // Delay between completion and the next level
	ResetScoreOnLoad bool          // Zero the score whenever a level loads
}

// DefaultScoring returns the scoring used by the campaign.
func DefaultScoring() Scoring {
	return Scoring{
		PerCorrect:   10,
		AdvanceDelay: 2 * time.Second,
	}
}

// ScoreStore persists the single integer score between sessions.
type ScoreStore interface {
	LoadScore() (int, error)
	SaveScore(score int) error
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScoring overrides the default scoring.
func WithScoring(sc Scoring) Option {
	return func(s *Session) { s.scoring = sc }
}

// WithStore sets where the score is loaded from and written back to.
func WithStore(store ScoreStore) Option {
	return func(s *Session) { s.store = store }
}

// WithLevelLoaded registers a hook called after every successful level load,
// before the score is written back.
func WithLevelLoaded(fn func(index int)) Option {
	return func(s *Session) { s.onLevelLoaded = fn }
}

// Session owns score accumulation and level transitions, and re-validates
// placements reported by its pieces. It is driven explicitly through
// Initialize, Step and Teardown; nothing happens between calls.
type Session struct {
	grid     *Grid
	solution *Solution
	levels   []Level
	scoring  Scoring
	store    ScoreStore
	logger   *log.Logger

	pieces  map[PieceID]*Piece
	awarded map[PieceID]map[int]bool // cells each piece already scored in

	level     int
	score     int
	checking  bool // Completion check in flight
	completed bool // Completion bonus awarded for this attempt
	finished  bool // Every level cleared
	advance   deferred

	onLevelLoaded func(index int)
}

// NewSession wires a session to its grid and solution. Both are required, as
// is at least one level.
func NewSession(grid *Grid, solution *Solution, levels []Level, opts ...Option) (*Session, error) {
	if grid == nil {
		return nil, ErrMissingGrid
	}
	if solution == nil {
		return nil, ErrMissingSolution
	}
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}

	s := &Session{
		grid:     grid,
		solution: solution,
		levels:   levels,
		scoring:  DefaultScoring(),
		logger:   discardLogger(),
		pieces:   make(map[PieceID]*Piece),
		awarded:  make(map[PieceID]map[int]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Initialize restores the persisted score and loads the starting level.
func (s *Session) Initialize(start int) error {
	if s.store != nil {
		score, err := s.store.LoadScore()
		if err != nil {
			s.logger.Warn("could not load score", "error", err)
		} else {
			s.score = score
		}
	}
	if err := s.LoadLevel(start); err != nil {
		return err
	}
	s.logger.Info("session started", "level", s.level, "score", s.score)
	return nil
}

// Step advances the session clock. It only drives the pending level advance.
func (s *Session) Step(dt time.Duration) {
	s.advance.Step(dt)
}

// Teardown cancels pending work and writes the score back.
func (s *Session) Teardown() error {
	s.advance.Cancel()
	s.logger.Info("session ended", "level", s.level, "score", s.score)
	return s.persist()
}

// Spawn creates a piece bound to this session.
func (s *Session) Spawn(spec PieceSpec) (*Piece, error) {
	if _, exists := s.pieces[spec.ID]; exists {
		return nil, fmt.Errorf("%w: %d", ErrDuplicatePiece, spec.ID)
	}
	p := NewPiece(spec, s.grid, s, s.logger)
	s.pieces[spec.ID] = p
	return p, nil
}

// Remove destroys a piece, releasing its cell.
func (s *Session) Remove(id PieceID) bool {
	p, ok := s.pieces[id]
	if !ok {
		return false
	}
	p.Release()
	delete(s.pieces, id)
	delete(s.awarded, id)
	return true
}

// Piece returns the live piece with the given id.
func (s *Session) Piece(id PieceID) (*Piece, bool) {
	p, ok := s.pieces[id]
	return p, ok
}

// Pieces returns the live pieces ordered by id.
func (s *Session) Pieces() []*Piece {
	out := make([]*Piece, 0, len(s.pieces))
	for _, p := range s.pieces {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID() < out[j].ID()
	})
	return out
}

// OnPlacementChanged validates a placed piece, awards points once per cell
// and checks for completion.
func (s *Session) OnPlacementChanged(p *Piece) {
	if p == nil || !p.Placed() {
		return
	}
	if s.pieces[p.ID()] != p {
		s.logger.Warn("placement reported by unknown piece", "piece", p.ID())
		return
	}

	v := s.solution.Validate(p)
	s.logger.Debug("placement validated", "piece", p.ID(), "cell", p.Cell(), "verdict", v.String())

	if v.OK() && !s.HasScored(p) {
		s.markScored(p)
		s.score += s.scoring.PerCorrect
		s.logger.Info("correct placement", "piece", p.ID(), "cell", p.Cell(), "score", s.score)
	}

	s.checkCompletion()
}

// HasScored reports whether p already earned points in its current cell
// during this level attempt.
func (s *Session) HasScored(p *Piece) bool {
	return s.awarded[p.ID()][p.Cell()]
}

func (s *Session) markScored(p *Piece) {
	cells, ok := s.awarded[p.ID()]
	if !ok {
		cells = make(map[int]bool)
		s.awarded[p.ID()] = cells
	}
	cells[p.Cell()] = true
}

// checkCompletion awards the bonus once per attempt. Nested calls are ignored.
func (s *Session) checkCompletion() {
	if s.checking {
		s.logger.Warn("completion check already running")
		return
	}
	if s.completed {
		return
	}
	s.checking = true
	defer func() { s.checking = false }()

	if s.solution.IsPuzzleComplete() {
		s.onPuzzleComplete()
	}
}

func (s *Session) onPuzzleComplete() {
	s.completed = true
	bonus := s.scoring.PerCorrect * s.solution.SlotCount()
	s.score += bonus
	s.logger.Info("puzzle complete", "level", s.level, "bonus", bonus, "score", s.score)
	s.advance.Schedule(s.scoring.AdvanceDelay, s.NextLevel)
}

// NextLevel loads the level after the current one, or marks the session
// finished when there is none.
func (s *Session) NextLevel() {
	next := s.level + 1
	if next >= len(s.levels) {
		s.advance.Cancel()
		s.finished = true
		s.logger.Info("all levels cleared", "score", s.score)
		//nolint:errcheck // persist logs its own failure
		s.persist()
		return
	}
	if err := s.LoadLevel(next); err != nil {
		s.logger.Error("could not load next level", "level", next, "error", err)
	}
}

// LoadLevel installs the expected slots of level index and clears the board.
// Placed pieces are taken off the grid (or replaced by the level's own
// pieces), the duplicate registry and scoring ledger are reset, and the
// score is written back.
func (s *Session) LoadLevel(index int) error {
	if index < 0 || index >= len(s.levels) {
		return fmt.Errorf("%w: %d of %d", ErrLevelOutOfRange, index, len(s.levels))
	}
	lvl := s.levels[index]
	if err := s.solution.SetSlots(lvl.Slots); err != nil {
		return fmt.Errorf("level %q: %w", lvl.ID, err)
	}

	s.advance.Cancel()
	s.level = index
	s.completed = false
	s.finished = false
	s.solution.ResetUsedFaces()
	s.grid.ResetAll()
	clear(s.awarded)

	if len(lvl.Pieces) > 0 {
		for id := range s.pieces {
			s.Remove(id)
		}
		for _, spec := range lvl.Pieces {
			if _, err := s.Spawn(spec); err != nil {
				return fmt.Errorf("level %q: %w", lvl.ID, err)
			}
		}
	} else {
		for _, p := range s.pieces {
			p.unplace()
		}
	}

	if s.scoring.ResetScoreOnLoad {
		s.score = 0
	}

	s.logger.Info("level loaded", "level", index, "id", lvl.ID, "slots", len(lvl.Slots), "pieces", len(s.pieces))
	// The hook runs before the save so stores that track the level see it.
	if s.onLevelLoaded != nil {
		s.onLevelLoaded(index)
	}
	//nolint:errcheck // persist logs its own failure
	s.persist()
	return nil
}

// ResetGame zeroes the score and clears the board for a fresh attempt.
func (s *Session) ResetGame() {
	s.advance.Cancel()
	s.score = 0
	s.completed = false
	s.finished = false
	s.solution.ResetUsedFaces()
	s.grid.ResetAll()
	clear(s.awarded)
	for _, p := range s.pieces {
		p.unplace()
	}
	//nolint:errcheck // persist logs its own failure
	s.persist()
	s.logger.Info("game reset")
}

func (s *Session) persist() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveScore(s.score); err != nil {
		s.logger.Warn("could not save score", "error", err)
		return err
	}
	return nil
}

// Score returns the accumulated score.
func (s *Session) Score() int { return s.score }

// Level returns the current level index.
func (s *Session) Level() int { return s.level }

// LevelCount returns the number of configured levels.
func (s *Session) LevelCount() int { return len(s.levels) }

// CurrentLevel returns the active level definition.
func (s *Session) CurrentLevel() Level { return s.levels[s.level] }

// Complete reports whether the active puzzle is currently solved.
func (s *Session) Complete() bool { return s.solution.IsPuzzleComplete() }

// Finished reports whether every level has been cleared.
func (s *Session) Finished() bool { return s.finished }

// AdvancePending reports whether a level advance is scheduled.
func (s *Session) AdvancePending() bool { return s.advance.Pending() }

// AdvanceRemaining returns the time left before the scheduled advance.
func (s *Session) AdvanceRemaining() time.Duration { return s.advance.Remaining() }

// Check evaluates p without touching the duplicate registry.
func (s *Session) Check(p *Piece) Verdict { return s.solution.Check(p) }

// Progress returns solved and total expected slots for the active level.
func (s *Session) Progress() (solved, total int) {
	return s.solution.SolvedCount(), s.solution.SlotCount()
}

// Grid returns the session grid.
func (s *Session) Grid() *Grid { return s.grid }

// Solution returns the session solution.
func (s *Session) Solution() *Solution { return s.solution }
