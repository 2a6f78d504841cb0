package puzzle

import "strings"

// Check names one of the predicates a placement is validated against.
type Check uint8

const (
	CheckSlot      Check = 1 << iota // An expected slot exists for the cell
	CheckCell                        // Piece cell equals the slot target cell
	CheckRotation                    // Rotation matches
	CheckFlip                        // Flip state matches (or is ignored)
	CheckFace                        // Visible face matches
	CheckDuplicate                   // Face not already claimed by another piece
)

var checkNames = []struct {
	c    Check
	name string
}{
	{CheckSlot, "slot"},
	{CheckCell, "cell"},
	{CheckRotation, "rotation"},
	{CheckFlip, "flip"},
	{CheckFace, "face"},
	{CheckDuplicate, "duplicate"},
}

// String returns the predicate name.
func (c Check) String() string {
	for _, n := range checkNames {
		if n.c == c {
			return n.name
		}
	}
	return "unknown"
}

// Verdict is the outcome of validating a piece against its expected slot.
// It lists every predicate that failed, not just the first.
type Verdict struct {
	Failed  Check
	Slot    ExpectedSlot
	HasSlot bool
}

// OK reports whether every predicate held.
func (v Verdict) OK() bool {
	return v.HasSlot && v.Failed == 0
}

// Fails reports whether the given predicate failed.
func (v Verdict) Fails(c Check) bool {
	return v.Failed&c != 0
}

// Failures returns the failed predicates in evaluation order.
func (v Verdict) Failures() []Check {
	var out []Check
	for _, n := range checkNames {
		if v.Failed&n.c != 0 {
			out = append(out, n.c)
		}
	}
	return out
}

// String returns "ok" or the comma-separated failed predicates.
func (v Verdict) String() string {
	if v.OK() {
		return "ok"
	}
	failures := v.Failures()
	names := make([]string, len(failures))
	for i, c := range failures {
		names[i] = c.String()
	}
	return "failed: " + strings.Join(names, ",")
}
