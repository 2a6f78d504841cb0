package puzzle

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
)

// GridSpec describes the board geometry in world units.
type GridSpec struct {
	Columns  int
	Rows     int
	CellSize float64
	Origin   Vec2 // World position of the center of cell 0 (bottom-left)
}

// Grid is the fixed board of cells. Cells are stored in row-major order:
// index = row*Columns + col, with row 0 at the bottom.
// The grid holds non-owning references to the pieces occupying its cells.
type Grid struct {
	columns  int
	rows     int
	cellSize float64
	origin   Vec2
	cells    []*Piece
	logger   *log.Logger
}

// NewGrid creates an empty grid. Non-positive dimensions are raised to 1;
// a non-positive cell size is a configuration error.
func NewGrid(spec GridSpec, logger *log.Logger) (*Grid, error) {
	if logger == nil {
		logger = discardLogger()
	}
	if spec.CellSize <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrBadCellSize, spec.CellSize)
	}
	if spec.Columns <= 0 || spec.Rows <= 0 {
		spec.Columns = max(1, spec.Columns)
		spec.Rows = max(1, spec.Rows)
		logger.Warn("grid dimensions raised to minimum", "columns", spec.Columns, "rows", spec.Rows)
	}

	g := &Grid{
		columns:  spec.Columns,
		rows:     spec.Rows,
		cellSize: spec.CellSize,
		origin:   spec.Origin,
		cells:    make([]*Piece, spec.Columns*spec.Rows),
		logger:   logger,
	}
	logger.Debug("grid ready", "cells", len(g.cells), "columns", g.columns, "rows", g.rows)
	return g, nil
}

// Columns returns the number of columns.
func (g *Grid) Columns() int { return g.columns }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// CellSize returns the edge length of a cell in world units.
func (g *Grid) CellSize() float64 { return g.cellSize }

// Origin returns the world position of the center of cell 0.
func (g *Grid) Origin() Vec2 { return g.origin }

// Len returns the total number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// InBounds reports whether index addresses a cell.
func (g *Grid) InBounds(index int) bool {
	return index >= 0 && index < len(g.cells)
}

// snap converts a world position into clamped column and row.
// Halfway positions round to even, matching the engine the levels were authored in.
func (g *Grid) snap(pos Vec2) (col, row int) {
	col = int(math.RoundToEven((pos.X - g.origin.X) / g.cellSize))
	row = int(math.RoundToEven((pos.Y - g.origin.Y) / g.cellSize))
	col = clamp(col, 0, g.columns-1)
	row = clamp(row, 0, g.rows-1)
	return col, row
}

// NearestCell returns the world center of the cell closest to pos.
func (g *Grid) NearestCell(pos Vec2) Vec2 {
	col, row := g.snap(pos)
	return g.center(col, row)
}

// CellIndex returns the index of the cell closest to pos.
func (g *Grid) CellIndex(pos Vec2) int {
	col, row := g.snap(pos)
	return row*g.columns + col
}

// CellCenter returns the world center of the cell at index.
func (g *Grid) CellCenter(index int) (Vec2, bool) {
	if !g.InBounds(index) {
		return Vec2{}, false
	}
	return g.center(index%g.columns, index/g.columns), true
}

func (g *Grid) center(col, row int) Vec2 {
	return Vec2{
		X: g.origin.X + float64(col)*g.cellSize,
		Y: g.origin.Y + float64(row)*g.cellSize,
	}
}

// IsOccupied reports whether a piece holds the cell.
// An invalid index is logged and treated as free.
func (g *Grid) IsOccupied(index int) bool {
	if !g.InBounds(index) {
		g.logger.Error("invalid cell index", "op", "is_occupied", "index", index)
		return false
	}
	return g.cells[index] != nil
}

// Occupy records p as the occupant of the cell. It succeeds when the cell is
// empty or already held by p, and fails when another piece holds it.
func (g *Grid) Occupy(index int, p *Piece) bool {
	if !g.InBounds(index) {
		g.logger.Error("invalid cell index", "op", "occupy", "index", index)
		return false
	}
	if p == nil {
		return false
	}
	if cur := g.cells[index]; cur != nil && cur != p {
		g.logger.Debug("cell already occupied", "index", index, "holder", cur.ID(), "piece", p.ID())
		return false
	}
	g.cells[index] = p
	g.logger.Debug("cell occupied", "index", index, "piece", p.ID())
	return true
}

// Free clears the cell. An invalid index is reported and ignored.
func (g *Grid) Free(index int) {
	if !g.InBounds(index) {
		g.logger.Warn("invalid cell index", "op", "free", "index", index)
		return
	}
	if cur := g.cells[index]; cur != nil {
		g.logger.Debug("cell freed", "index", index, "piece", cur.ID())
	}
	g.cells[index] = nil
}

// TileAt returns the piece holding the cell, or nil.
func (g *Grid) TileAt(index int) *Piece {
	if !g.InBounds(index) {
		g.logger.Warn("invalid cell index", "op", "tile_at", "index", index)
		return nil
	}
	return g.cells[index]
}

// ResetAll frees every cell.
func (g *Grid) ResetAll() {
	for i := range g.cells {
		g.cells[i] = nil
	}
	g.logger.Debug("grid reset", "cells", len(g.cells))
}

// OccupiedCount returns the number of occupied cells.
func (g *Grid) OccupiedCount() int {
	count := 0
	for _, p := range g.cells {
		if p != nil {
			count++
		}
	}
	return count
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
