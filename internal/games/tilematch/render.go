package tilematch

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/vovakirdan/tilematch/internal/core"
	"github.com/vovakirdan/tilematch/internal/puzzle"
)

// Render draws the current game state.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	switch {
	case g.tooSmall:
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	case g.session == nil:
		g.renderOverlay(dst, "No levels found", "Check the levels directory")
		return
	}

	g.renderBoard(dst)
	g.renderTray(dst)
	g.renderDragged(dst)
	g.renderFooter(dst)

	switch {
	case g.won:
		g.renderOverlay(dst, "All levels cleared!", "Score: "+itoa(g.session.Score())+"  Press R to play again")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	hud := " " + g.title
	if g.session != nil && !g.won {
		lvl := g.levels[g.session.Level()]
		solved, total := g.session.Progress()
		hud += " | Level " + itoa(g.session.Level()+1) + "/" + itoa(g.session.LevelCount()) + ": " + lvl.Name +
			" | Score: " + itoa(g.session.Score()) +
			" | Solved: " + itoa(solved) + "/" + itoa(total)
	}
	dst.DrawTextWithColor(0, 0, hud, core.ColorCyan)

	dst.DrawHLine(0, 1, dst.Width(), '─', core.ColorGray)

	controls := " ←↑↓→: Move | Space: Grab/Drop | E: Rotate | F: Flip | Esc: Cancel | R: Clear | P: Pause"
	if g.held != nil {
		controls = " [HOLDING] Move to a cell and press Space | Down to the tray to put it back | Esc: Cancel"
	}
	dst.DrawTextWithColor(0, 2, controls, core.ColorGray)

	dst.DrawHLine(0, 3, dst.Width(), '─', core.ColorGray)
}

// renderBoard draws every cell with its piece or, when empty, the slot it
// expects.
func (g *Game) renderBoard(dst *core.Screen) {
	cols, rows := g.boardDims()
	grid := g.session.Grid()
	solution := g.session.Solution()

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			r := g.cellRect(col, row)
			idx := g.cellIndex(col, row)
			cursor := g.focus == FocusBoard && col == g.cursorCol && row == g.cursorRow

			if p := grid.TileAt(idx); p != nil {
				g.drawPiece(dst, r, p, cursor)
				continue
			}

			frame := core.ColorGray
			if cursor {
				frame = core.ColorBrightYellow
			}
			slot, ok := solution.ExpectedSlotFor(idx)
			if !ok {
				dst.DrawBoxWithColor(r, frame)
				continue
			}
			if slot.Flipped && !slot.IgnoreFlip {
				dst.DrawDoubleBoxWithColor(r, frame)
			} else {
				dst.DrawBoxWithColor(r, frame)
			}
			drawLabel(dst, r, itoa(int(slot.Face)), string(slot.Rotation.Arrow()), core.ColorGray)
		}
	}
}

// renderTray draws the pieces waiting to be placed.
func (g *Game) renderTray(dst *core.Screen) {
	label := "┄┄ Tray ┄┄"
	dst.DrawTextWithColor((dst.Width()-utf8.RuneCountInString(label))/2, g.lay.trayLabelY, label, core.ColorGray)

	for i := range g.tray {
		r := g.trayRect(i)
		cursor := g.focus == FocusTray && i == g.traySel
		if p := g.trayPiece(i); p != nil {
			g.drawPiece(dst, r, p, cursor)
			continue
		}
		if cursor {
			dst.DrawBoxWithColor(r, core.ColorBrightYellow)
		}
	}
}

// renderDragged draws the piece held by the mouse under the pointer.
func (g *Game) renderDragged(dst *core.Screen) {
	if !g.dragging || g.held == nil {
		return
	}
	r := core.NewRect(g.pointerX-g.lay.cellW/2, g.pointerY-g.lay.cellH/2, g.lay.cellW, g.lay.cellH)
	dst.DrawRectWithColor(r, ' ', core.ColorDefault)
	g.drawPieceColored(dst, r, g.held, core.ColorBrightYellow, core.ColorBrightWhite)
}

// renderFooter draws the status line: a recent message, the level
// transition, the verdict of the hovered piece or the level hint.
func (g *Game) renderFooter(dst *core.Screen) {
	y := dst.Height() - 1
	text, color := g.footer()
	dst.DrawTextWithColor(1, y, text, color)
}

func (g *Game) footer() (string, core.Color) {
	if g.msgTicks > 0 && g.message != "" {
		return g.message, g.msgColor
	}
	if g.session.AdvancePending() {
		secs := g.session.AdvanceRemaining().Seconds()
		return fmt.Sprintf("Level complete! Next level in %.1fs", secs), core.ColorBrightGreen
	}
	if p := g.hovered(); p != nil && p.Placed() {
		v := g.session.Check(p)
		switch {
		case v.OK():
			return "Piece " + itoa(int(p.ID())) + ": correct", core.ColorGreen
		case v.HasSlot:
			return "Piece " + itoa(int(p.ID())) + ": " + v.String(), core.ColorRed
		}
	}
	if hint := g.levels[g.session.Level()].Metadata["hint"]; hint != "" {
		return hint, core.ColorGray
	}
	return "", core.ColorDefault
}

// drawPiece draws a piece coloured by how well it fits where it lies.
func (g *Game) drawPiece(dst *core.Screen, r core.Rect, p *puzzle.Piece, cursor bool) {
	content := core.ColorWhite
	if p.Placed() {
		v := g.session.Check(p)
		switch {
		case v.OK():
			content = core.ColorGreen
		case v.HasSlot:
			content = core.ColorRed
		}
	}

	frame := content
	switch {
	case p == g.held && g.dragging:
		frame, content = core.ColorGray, core.ColorGray
	case p == g.held:
		frame = core.ColorMagenta
	case cursor:
		frame = core.ColorBrightYellow
	}
	g.drawPieceColored(dst, r, p, frame, content)
}

// drawPieceColored draws a piece box. Flipped pieces get a double border.
func (g *Game) drawPieceColored(dst *core.Screen, r core.Rect, p *puzzle.Piece, frame, content core.Color) {
	if p.Flipped() {
		dst.DrawDoubleBoxWithColor(r, frame)
	} else {
		dst.DrawBoxWithColor(r, frame)
	}
	drawLabel(dst, r, itoa(int(p.VisibleFace())), string(p.Rotation().Arrow()), content)
}

// drawLabel centres a face number and an arrow inside a box, on two lines
// when there is room.
func drawLabel(dst *core.Screen, r core.Rect, face, arrow string, c core.Color) {
	inner := r.H - 2
	switch {
	case inner >= 3:
		centerIn(dst, r, r.Y+1, face, c)
		centerIn(dst, r, r.Y+3, arrow, c)
	case inner == 2:
		centerIn(dst, r, r.Y+1, face, c)
		centerIn(dst, r, r.Y+2, arrow, c)
	case inner == 1:
		centerIn(dst, r, r.Y+1, face+arrow, c)
	}
}

func centerIn(dst *core.Screen, r core.Rect, y int, text string, c core.Color) {
	cx, _ := r.Center()
	dst.DrawTextWithColor(cx-utf8.RuneCountInString(text)/2, y, text, c)
}

// renderOverlay draws a centered overlay message.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	w := dst.Width()
	h := dst.Height()

	maxLen := max(utf8.RuneCountInString(line1), utf8.RuneCountInString(line2))
	boxW := maxLen + 4
	boxH := 5
	box := core.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.DrawRectWithColor(box, ' ', core.ColorDefault)
	dst.DrawBoxWithColor(box, core.ColorBrightWhite)
	dst.DrawTextCenteredWithColor(box.Y+1, line1, core.ColorBrightYellow)
	dst.DrawTextCenteredWithColor(box.Y+3, line2, core.ColorWhite)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
