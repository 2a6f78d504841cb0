package puzzle

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// ExpectedSlot is one entry of a level's solution: the state a piece must be
// in when it occupies Cell.
type ExpectedSlot struct {
	Face           FaceID
	Cell           int
	Rotation       Rotation
	Flipped        bool
	IgnoreFlip     bool
	AllowDuplicate bool
}

// UsedFaces records which face identities already satisfied a slot in the
// current level attempt, and which piece claimed each one.
type UsedFaces struct {
	claims map[FaceID]PieceID
}

// NewUsedFaces creates an empty registry.
func NewUsedFaces() *UsedFaces {
	return &UsedFaces{claims: make(map[FaceID]PieceID)}
}

// Claim registers face for piece. Registering an already-claimed face is a no-op.
func (u *UsedFaces) Claim(face FaceID, piece PieceID) bool {
	if _, ok := u.claims[face]; ok {
		return false
	}
	u.claims[face] = piece
	return true
}

// ClaimedBy returns the piece that claimed face, if any.
func (u *UsedFaces) ClaimedBy(face FaceID) (PieceID, bool) {
	id, ok := u.claims[face]
	return id, ok
}

// Used reports whether face has been claimed.
func (u *UsedFaces) Used(face FaceID) bool {
	_, ok := u.claims[face]
	return ok
}

// Len returns the number of claimed faces.
func (u *UsedFaces) Len() int {
	return len(u.claims)
}

// Reset forgets every claim.
func (u *UsedFaces) Reset() {
	clear(u.claims)
}

// Solution holds the expected slots of the active level and validates pieces
// against them.
type Solution struct {
	grid   *Grid
	slots  []ExpectedSlot
	byCell map[int]int // cell index -> position in slots
	used   *UsedFaces
	logger *log.Logger
}

// NewSolution creates a solution with no slots, bound to grid.
func NewSolution(grid *Grid, logger *log.Logger) (*Solution, error) {
	if grid == nil {
		return nil, ErrMissingGrid
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Solution{
		grid:   grid,
		byCell: make(map[int]int),
		used:   NewUsedFaces(),
		logger: logger,
	}, nil
}

// SetSlots replaces the expected slots. The set must be non-empty, target
// distinct in-range cells and use quarter-turn rotations; on error the
// previous slots are kept.
func (s *Solution) SetSlots(slots []ExpectedSlot) error {
	if len(slots) == 0 {
		return ErrNoSlots
	}
	byCell := make(map[int]int, len(slots))
	for i, slot := range slots {
		if !s.grid.InBounds(slot.Cell) {
			return fmt.Errorf("%w: cell %d", ErrSlotOutOfRange, slot.Cell)
		}
		if !slot.Rotation.Valid() {
			return fmt.Errorf("%w: slot for cell %d has %d", ErrBadRotation, slot.Cell, slot.Rotation)
		}
		if _, dup := byCell[slot.Cell]; dup {
			return fmt.Errorf("%w: cell %d", ErrDuplicateSlot, slot.Cell)
		}
		byCell[slot.Cell] = i
	}

	s.slots = append([]ExpectedSlot(nil), slots...)
	s.byCell = byCell
	for _, slot := range s.slots {
		s.logger.Debug("expected slot",
			"cell", slot.Cell, "face", int(slot.Face), "rotation", int(slot.Rotation),
			"flipped", slot.Flipped, "allow_duplicate", slot.AllowDuplicate)
	}
	return nil
}

// Slots returns a copy of the expected slots.
func (s *Solution) Slots() []ExpectedSlot {
	return append([]ExpectedSlot(nil), s.slots...)
}

// SlotCount returns the number of expected slots.
func (s *Solution) SlotCount() int {
	return len(s.slots)
}

// UsedFaces exposes the duplicate registry.
func (s *Solution) UsedFaces() *UsedFaces {
	return s.used
}

// ExpectedSlotFor returns the slot targeting cell. Absent means the cell is
// expected to stay empty.
func (s *Solution) ExpectedSlotFor(cell int) (ExpectedSlot, bool) {
	i, ok := s.byCell[cell]
	if !ok {
		return ExpectedSlot{}, false
	}
	return s.slots[i], true
}

// Check evaluates every predicate for p against the slot expected at its
// current cell. It has no side effects.
func (s *Solution) Check(p *Piece) Verdict {
	if p == nil {
		return Verdict{Failed: CheckSlot}
	}
	slot, ok := s.ExpectedSlotFor(p.Cell())
	if !ok {
		return Verdict{Failed: CheckSlot}
	}

	v := Verdict{Slot: slot, HasSlot: true}
	face := p.VisibleFace()

	if p.Cell() != slot.Cell {
		v.Failed |= CheckCell
	}
	if p.Rotation() != slot.Rotation {
		v.Failed |= CheckRotation
	}
	if !slot.IgnoreFlip && !p.Symmetric() && p.Flipped() != slot.Flipped {
		v.Failed |= CheckFlip
	}
	if face != slot.Face {
		v.Failed |= CheckFace
	}
	if !slot.AllowDuplicate && p.TracksUsage() {
		if holder, claimed := s.used.ClaimedBy(face); claimed && holder != p.ID() {
			v.Failed |= CheckDuplicate
		}
	}
	return v
}

// Validate checks p and, on success, claims its visible face when the piece
// tracks usage, whatever the slot's duplicate policy. Claiming is idempotent,
// so the first piece to validate a face keeps it.
func (s *Solution) Validate(p *Piece) Verdict {
	v := s.Check(p)
	if !v.HasSlot {
		if p != nil {
			s.logger.Debug("no slot expected for cell", "piece", p.ID(), "cell", p.Cell())
		}
		return v
	}
	if v.OK() && p.TracksUsage() {
		if s.used.Claim(p.VisibleFace(), p.ID()) {
			s.logger.Debug("face claimed", "face", int(p.VisibleFace()), "piece", p.ID())
		}
	}
	return v
}

// IsPuzzleComplete reports whether every expected slot holds a piece that
// currently passes validation. State is read live from the grid.
func (s *Solution) IsPuzzleComplete() bool {
	if len(s.slots) == 0 {
		return false
	}
	for _, slot := range s.slots {
		p := s.grid.TileAt(slot.Cell)
		if p == nil || !s.Check(p).OK() {
			return false
		}
	}
	return true
}

// SolvedCount returns how many expected slots currently hold a valid piece.
func (s *Solution) SolvedCount() int {
	count := 0
	for _, slot := range s.slots {
		if p := s.grid.TileAt(slot.Cell); p != nil && s.Check(p).OK() {
			count++
		}
	}
	return count
}

// ResetUsedFaces clears the duplicate registry.
func (s *Solution) ResetUsedFaces() {
	s.used.Reset()
	s.logger.Debug("used faces reset")
}
