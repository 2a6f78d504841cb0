package tilematch

import (
	"github.com/vovakirdan/tilematch/internal/core"
	"github.com/vovakirdan/tilematch/internal/puzzle"
)

// handleKeys applies cursor movement and piece actions from the keyboard.
func (g *Game) handleKeys(in core.InputFrame) {
	cols, rows := g.boardDims()

	switch {
	case in.Has(core.ActionUp):
		if g.focus == FocusTray {
			g.focus = FocusBoard
			g.cursorRow = 0
		} else if g.cursorRow < rows-1 {
			g.cursorRow++
		}
	case in.Has(core.ActionDown):
		if g.focus == FocusBoard {
			if g.cursorRow > 0 {
				g.cursorRow--
			} else {
				g.focus = FocusTray
			}
		}
	}

	switch {
	case in.Has(core.ActionLeft):
		if g.focus == FocusTray {
			if g.traySel > 0 {
				g.traySel--
			}
		} else if g.cursorCol > 0 {
			g.cursorCol--
		}
	case in.Has(core.ActionRight):
		if g.focus == FocusTray {
			if g.traySel < len(g.tray)-1 {
				g.traySel++
			}
		} else if g.cursorCol < cols-1 {
			g.cursorCol++
		}
	}

	if in.Has(core.ActionBack) && g.held != nil {
		g.held.CancelDrag()
		g.held = nil
		g.dragging = false
	}

	if in.Has(core.ActionGrab) || in.Has(core.ActionConfirm) {
		g.grab()
	}
	if in.Has(core.ActionRotate) {
		if p := g.target(); p != nil {
			p.Rotate()
		}
	}
	if in.Has(core.ActionFlip) {
		if p := g.target(); p != nil {
			p.Flip()
		}
	}
}

// target is the piece that rotate and flip act on.
func (g *Game) target() *puzzle.Piece {
	if g.held != nil {
		return g.held
	}
	return g.hovered()
}

// grab picks up the hovered piece, or drops the held one at the cursor.
func (g *Game) grab() {
	if g.held == nil {
		g.held = g.hovered()
		g.dragging = false
		return
	}

	p := g.held
	g.held = nil
	if g.focus == FocusTray {
		p.Lift()
		return
	}
	g.drop(p, g.cellWorld(g.cursorCol, g.cursorRow))
}

// drop places p at a world position and reports a rejected move.
func (g *Game) drop(p *puzzle.Piece, pos puzzle.Vec2) {
	if !p.MoveTo(pos) {
		g.notify("That cell is taken", core.ColorRed)
		return
	}
	if v := g.session.Check(p); v.OK() {
		g.notify("Correct!", core.ColorGreen)
	}
}

// handlePointer maps a mouse event onto the board: left button drags,
// right button rotates, middle button flips.
func (g *Game) handlePointer(ev core.PointerEvent) {
	g.pointerX, g.pointerY = ev.X, ev.Y
	g.hover(ev.X, ev.Y)

	switch ev.Kind {
	case core.PointerPress:
		p := g.pieceAt(ev.X, ev.Y)
		switch ev.Button {
		case core.ButtonLeft:
			if p != nil {
				g.held = p
				g.dragging = true
				p.Drag(g.screenToWorld(ev.X, ev.Y))
			}
		case core.ButtonRight:
			if p != nil {
				p.Rotate()
			}
		case core.ButtonMiddle:
			if p != nil {
				p.Flip()
			}
		}

	case core.PointerMotion:
		if g.dragging && g.held != nil {
			g.held.Drag(g.screenToWorld(ev.X, ev.Y))
		}

	case core.PointerRelease:
		if !g.dragging || g.held == nil {
			return
		}
		p := g.held
		g.held = nil
		g.dragging = false
		if g.inTrayArea(ev.Y) {
			p.Lift()
			return
		}
		g.drop(p, g.screenToWorld(ev.X, ev.Y))
	}
}

// hover moves the keyboard cursor to whatever the pointer is over.
func (g *Game) hover(sx, sy int) {
	if col, row, ok := g.boardCellAt(sx, sy); ok {
		g.focus = FocusBoard
		g.cursorCol, g.cursorRow = col, row
		return
	}
	if i, ok := g.traySlotAt(sx, sy); ok {
		g.focus = FocusTray
		g.traySel = i
	}
}

// pieceAt returns the piece drawn at a screen position.
func (g *Game) pieceAt(sx, sy int) *puzzle.Piece {
	if col, row, ok := g.boardCellAt(sx, sy); ok {
		return g.session.Grid().TileAt(g.cellIndex(col, row))
	}
	if i, ok := g.traySlotAt(sx, sy); ok {
		return g.trayPiece(i)
	}
	return nil
}
