package core

import (
	"strings"
	"unicode/utf8"
)

// Cell is one character position of the screen: a rune and its foreground colour.
type Cell struct {
	Rune  rune
	Color Color
}

var blank = Cell{Rune: ' ', Color: ColorDefault}

// Screen is a 2D character buffer for rendering game graphics.
// It decouples game rendering from the terminal, allowing games to draw
// using simple rune operations while the platform handles actual display.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  width,
		height: height,
	}
	s.allocate()
	s.Clear()
	return s
}

// allocate creates the underlying cell storage.
func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// Resize changes the screen dimensions, preserving content where possible.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}

	oldCells := s.cells
	oldW, oldH := s.width, s.height

	s.width = width
	s.height = height
	s.allocate()
	s.Clear()

	copyW := min(oldW, width)
	copyH := min(oldH, height)
	for y := 0; y < copyH; y++ {
		copy(s.cells[y][:copyW], oldCells[y][:copyW])
	}
}

// Clear fills the entire screen with uncoloured spaces.
func (s *Screen) Clear() {
	s.FillWithColor(' ', ColorDefault)
}

// FillWithColor fills the entire screen with the given rune and colour.
func (s *Screen) FillWithColor(r rune, c Color) {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = Cell{Rune: r, Color: c}
		}
	}
}

func (s *Screen) inBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Set places a rune at the given position with the default colour.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune) {
	s.SetWithColor(x, y, r, ColorDefault)
}

// SetWithColor places a coloured rune at the given position.
func (s *Screen) SetWithColor(x, y int, r rune, c Color) {
	if !s.inBounds(x, y) {
		return
	}
	s.cells[y][x] = Cell{Rune: r, Color: c}
}

// Get returns the rune at the given position.
// Returns space for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at the given position.
// Returns an uncoloured space for out-of-bounds coordinates.
func (s *Screen) GetCell(x, y int) Cell {
	if !s.inBounds(x, y) {
		return blank
	}
	return s.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y).
// Characters that extend beyond screen bounds are clipped.
func (s *Screen) DrawText(x, y int, text string) {
	s.DrawTextWithColor(x, y, text, ColorDefault)
}

// DrawTextWithColor writes a coloured string horizontally starting at (x, y).
func (s *Screen) DrawTextWithColor(x, y int, text string, c Color) {
	i := 0
	for _, r := range text {
		s.SetWithColor(x+i, y, r, c)
		i++
	}
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (s *Screen) DrawTextCentered(y int, text string) {
	s.DrawTextCenteredWithColor(y, text, ColorDefault)
}

// DrawTextCenteredWithColor draws coloured text centered horizontally.
func (s *Screen) DrawTextCenteredWithColor(y int, text string, c Color) {
	x := (s.width - utf8.RuneCountInString(text)) / 2
	s.DrawTextWithColor(x, y, text, c)
}

// DrawRectWithColor fills a rectangular area with a coloured rune.
func (s *Screen) DrawRectWithColor(r Rect, fill rune, c Color) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			s.SetWithColor(x, y, fill, c)
		}
	}
}

// DrawBox draws a box outline using box-drawing characters.
func (s *Screen) DrawBox(r Rect) {
	s.DrawBoxWithColor(r, ColorDefault)
}

// DrawBoxWithColor draws a coloured box outline.
func (s *Screen) DrawBoxWithColor(r Rect, c Color) {
	s.drawFrame(r, c, '┌', '┐', '└', '┘', '─', '│')
}

// DrawDoubleBoxWithColor draws a coloured box outline with double lines.
func (s *Screen) DrawDoubleBoxWithColor(r Rect, c Color) {
	s.drawFrame(r, c, '╔', '╗', '╚', '╝', '═', '║')
}

func (s *Screen) drawFrame(r Rect, c Color, tl, tr, bl, br, h, v rune) {
	s.SetWithColor(r.X, r.Y, tl, c)
	s.SetWithColor(r.Right()-1, r.Y, tr, c)
	s.SetWithColor(r.X, r.Bottom()-1, bl, c)
	s.SetWithColor(r.Right()-1, r.Bottom()-1, br, c)

	for x := r.X + 1; x < r.Right()-1; x++ {
		s.SetWithColor(x, r.Y, h, c)
		s.SetWithColor(x, r.Bottom()-1, h, c)
	}

	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		s.SetWithColor(r.X, y, v, c)
		s.SetWithColor(r.Right()-1, y, v, c)
	}
}

// DrawHLine draws a coloured horizontal line from (x, y), clipped to the screen.
func (s *Screen) DrawHLine(x, y, length int, r rune, c Color) {
	for i := range length {
		s.SetWithColor(x+i, y, r, c)
	}
}

// String converts the screen buffer to a plain string, dropping colours.
// Each row is joined with newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns a copy of the specified row as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}
