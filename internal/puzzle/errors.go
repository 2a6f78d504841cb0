package puzzle

import "errors"

// Configuration errors. They are fatal to the feature being initialized.
var (
	ErrMissingGrid     = errors.New("puzzle: grid is required")
	ErrMissingSolution = errors.New("puzzle: solution is required")
	ErrNoLevels        = errors.New("puzzle: no levels configured")
	ErrNoSlots         = errors.New("puzzle: expected slot set is empty")
	ErrDuplicateSlot   = errors.New("puzzle: more than one slot targets the same cell")
	ErrSlotOutOfRange  = errors.New("puzzle: slot targets a cell outside the grid")
	ErrBadRotation     = errors.New("puzzle: rotation must be 0, 90, 180 or 270")
	ErrBadCellSize     = errors.New("puzzle: cell size must be positive")
	ErrLevelOutOfRange = errors.New("puzzle: level index out of range")
	ErrDuplicatePiece  = errors.New("puzzle: piece id already spawned")
)
