package levels

import (
	"fmt"

	"github.com/vovakirdan/tilematch/internal/puzzle"
)

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks that the level is playable on a grid with the given
// number of cells.
// Checks:
//   - at least one slot, each on a distinct in-range cell
//   - slot and piece rotations are quarter turns
//   - piece IDs are unique and there are enough pieces for the slots
//   - every slot face can be shown by some piece
//
// Piece checks only apply to levels that bring their own pieces.
func (l *Level) Validate(cells int) error {
	if err := validateSlots(l.Slots, cells); err != nil {
		return err
	}
	if len(l.Pieces) == 0 {
		return nil
	}
	if err := validatePieces(l.Pieces, len(l.Slots)); err != nil {
		return err
	}
	return validateFaces(l.Slots, l.Pieces)
}

func validateSlots(slots []puzzle.ExpectedSlot, cells int) error {
	if len(slots) == 0 {
		return ValidationError{Code: "NO_SLOTS", Message: "level has no expected slots"}
	}

	seen := make(map[int]bool, len(slots))
	for _, s := range slots {
		if s.Cell < 0 || s.Cell >= cells {
			return ValidationError{
				Code:    "CELL_OUT_OF_RANGE",
				Message: fmt.Sprintf("slot cell %d outside grid of %d cells", s.Cell, cells),
			}
		}
		if seen[s.Cell] {
			return ValidationError{
				Code:    "DUPLICATE_CELL",
				Message: fmt.Sprintf("more than one slot targets cell %d", s.Cell),
			}
		}
		seen[s.Cell] = true
		if !s.Rotation.Valid() {
			return ValidationError{
				Code:    "BAD_ROTATION",
				Message: fmt.Sprintf("slot on cell %d has rotation %d", s.Cell, s.Rotation),
			}
		}
	}
	return nil
}

func validatePieces(pieces []puzzle.PieceSpec, slots int) error {
	if len(pieces) < slots {
		return ValidationError{
			Code:    "NOT_ENOUGH_PIECES",
			Message: fmt.Sprintf("%d pieces for %d slots", len(pieces), slots),
		}
	}

	seen := make(map[puzzle.PieceID]bool, len(pieces))
	for _, p := range pieces {
		if seen[p.ID] {
			return ValidationError{
				Code:    "DUPLICATE_PIECE",
				Message: fmt.Sprintf("piece id %d used more than once", p.ID),
			}
		}
		seen[p.ID] = true
		if !p.Rotation.Valid() {
			return ValidationError{
				Code:    "BAD_ROTATION",
				Message: fmt.Sprintf("piece %d has rotation %d", p.ID, p.Rotation),
			}
		}
	}
	return nil
}

func validateFaces(slots []puzzle.ExpectedSlot, pieces []puzzle.PieceSpec) error {
	faces := make(map[puzzle.FaceID]bool)
	for _, p := range pieces {
		faces[p.Front] = true
		faces[p.Back] = true
	}
	for _, s := range slots {
		if !faces[s.Face] {
			return ValidationError{
				Code:    "MISSING_FACE",
				Message: fmt.Sprintf("no piece shows face %d required on cell %d", s.Face, s.Cell),
			}
		}
	}
	return nil
}
