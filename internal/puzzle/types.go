// Package puzzle implements the placement validation and grid-occupancy engine
// for the tile matching puzzle. It is UI-agnostic and fully deterministic:
// everything runs synchronously inside the caller's frame step.
package puzzle

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Vec2 is a position in world space. X grows to the right, Y grows upwards.
type Vec2 struct {
	X float64
	Y float64
}

// V is a convenience constructor for Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// String returns a string representation of the position.
func (v Vec2) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", v.X, v.Y)
}

// FaceID identifies one printed side of a piece.
type FaceID int

// PieceID is the stable identity of a piece within a session.
type PieceID int

// Rotation is a clockwise rotation in degrees: 0, 90, 180 or 270.
type Rotation int

const (
	Rot0   Rotation = 0
	Rot90  Rotation = 90
	Rot180 Rotation = 180
	Rot270 Rotation = 270
)

// Next returns the rotation advanced by a quarter turn.
func (r Rotation) Next() Rotation {
	return (r + 90) % 360
}

// Valid reports whether r is one of the four quarter turns.
func (r Rotation) Valid() bool {
	return r == Rot0 || r == Rot90 || r == Rot180 || r == Rot270
}

// Arrow returns a glyph pointing in the rotated "up" direction.
func (r Rotation) Arrow() rune {
	switch r {
	case Rot90:
		return '→'
	case Rot180:
		return '↓'
	case Rot270:
		return '←'
	default:
		return '↑'
	}
}

// NoCell marks a piece that is not on the grid.
const NoCell = -1

// discardLogger is used when no logger is injected.
func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
