package tilematch

import (
	"github.com/vovakirdan/tilematch/internal/core"
	"github.com/vovakirdan/tilematch/internal/puzzle"
)

const (
	hudHeight    = 4
	footerHeight = 1
)

// cellSizes are the box sizes tried from largest to smallest.
var cellSizes = []struct{ w, h int }{
	{9, 5},
	{7, 4},
	{5, 3},
}

// layout holds the screen placement of the board and the tray.
type layout struct {
	cellW, cellH int
	gridX, gridY int
	trayLabelY   int
	trayX, trayY int
	trayCols     int
	trayRows     int
}

// boardDims returns the board size in cells.
func (g *Game) boardDims() (cols, rows int) {
	if g.session != nil {
		return g.session.Grid().Columns(), g.session.Grid().Rows()
	}
	return max(1, g.cfg.Grid.Columns), max(1, g.cfg.Grid.Rows)
}

// calculateLayout picks the largest cell size where the board, the tray and
// the HUD fit on screen.
func (g *Game) calculateLayout() {
	cols, rows := g.boardDims()
	n := max(1, len(g.tray))
	availW := g.screenW - 2

	for _, size := range cellSizes {
		trayCols := min(n, availW/size.w)
		if trayCols < 1 {
			continue
		}
		trayRows := (n + trayCols - 1) / trayCols

		neededW := cols * size.w
		neededH := hudHeight + rows*size.h + 1 + trayRows*size.h + footerHeight
		if neededW > availW || neededH > g.screenH {
			continue
		}

		g.lay = layout{
			cellW:    size.w,
			cellH:    size.h,
			gridX:    (g.screenW - cols*size.w) / 2,
			gridY:    hudHeight,
			trayCols: trayCols,
			trayRows: trayRows,
		}
		g.lay.trayLabelY = g.lay.gridY + rows*size.h
		g.lay.trayY = g.lay.trayLabelY + 1
		g.lay.trayX = (g.screenW - trayCols*size.w) / 2
		g.tooSmall = false
		return
	}
	g.tooSmall = true
}

// cellRect returns the screen box of board cell (col, row).
func (g *Game) cellRect(col, row int) core.Rect {
	_, rows := g.boardDims()
	return core.NewRect(
		g.lay.gridX+col*g.lay.cellW,
		g.lay.gridY+(rows-1-row)*g.lay.cellH,
		g.lay.cellW,
		g.lay.cellH,
	)
}

// trayRect returns the screen box of tray slot i.
func (g *Game) trayRect(i int) core.Rect {
	return core.NewRect(
		g.lay.trayX+(i%g.lay.trayCols)*g.lay.cellW,
		g.lay.trayY+(i/g.lay.trayCols)*g.lay.cellH,
		g.lay.cellW,
		g.lay.cellH,
	)
}

// screenToWorld converts a screen cell to a world position. Points inside a
// board cell map strictly inside that cell's snapping range; points outside
// the board map beyond its edge and clamp when snapped.
func (g *Game) screenToWorld(sx, sy int) puzzle.Vec2 {
	grid := g.session.Grid()
	cs := grid.CellSize()
	o := grid.Origin()
	rows := float64(grid.Rows())

	fx := (float64(sx-g.lay.gridX) + 0.5) / float64(g.lay.cellW)
	fy := (float64(sy-g.lay.gridY) + 0.5) / float64(g.lay.cellH)
	return puzzle.V(o.X+(fx-0.5)*cs, o.Y+(rows-0.5-fy)*cs)
}

// cellIndex returns the grid index of board cell (col, row).
func (g *Game) cellIndex(col, row int) int {
	cols, _ := g.boardDims()
	return row*cols + col
}

// cellWorld returns the world center of board cell (col, row).
func (g *Game) cellWorld(col, row int) puzzle.Vec2 {
	pos, _ := g.session.Grid().CellCenter(g.cellIndex(col, row))
	return pos
}

// boardCellAt returns the board cell under a screen position.
func (g *Game) boardCellAt(sx, sy int) (col, row int, ok bool) {
	cols, rows := g.boardDims()
	board := core.NewRect(g.lay.gridX, g.lay.gridY, cols*g.lay.cellW, rows*g.lay.cellH)
	if !board.Contains(sx, sy) {
		return 0, 0, false
	}
	col = (sx - g.lay.gridX) / g.lay.cellW
	row = rows - 1 - (sy-g.lay.gridY)/g.lay.cellH
	return col, row, true
}

// traySlotAt returns the tray slot under a screen position.
func (g *Game) traySlotAt(sx, sy int) (int, bool) {
	for i := range g.tray {
		if g.trayRect(i).Contains(sx, sy) {
			return i, true
		}
	}
	return 0, false
}

// inTrayArea reports whether a screen position is below the board.
func (g *Game) inTrayArea(sy int) bool {
	return sy >= g.lay.trayLabelY
}

// trayPiece returns the unplaced piece in tray slot i.
func (g *Game) trayPiece(i int) *puzzle.Piece {
	if i < 0 || i >= len(g.tray) {
		return nil
	}
	p, ok := g.session.Piece(g.tray[i])
	if !ok || p.Placed() {
		return nil
	}
	return p
}

// hovered returns the piece under the keyboard cursor.
func (g *Game) hovered() *puzzle.Piece {
	if g.focus == FocusTray {
		return g.trayPiece(g.traySel)
	}
	return g.session.Grid().TileAt(g.cellIndex(g.cursorCol, g.cursorRow))
}
