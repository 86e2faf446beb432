package display

import (
	"strings"
)

// Buffer is an in-memory Surface of fixed rows and width. Writes past the
// right edge or below the last row are clipped; a newline moves to the start
// of the next row.
type Buffer struct {
	rows   int
	width  int
	cells  [][]rune
	col    int
	row    int
	glyphs map[int][8]byte

	CursorVisible bool
	CursorBlink   bool
	Powered       bool
	Clears        int
}

// NewBuffer creates a blank buffer of rows x width characters.
func NewBuffer(rows, width int) *Buffer {
	b := &Buffer{
		rows:   rows,
		width:  width,
		glyphs: make(map[int][8]byte),
	}
	b.cells = make([][]rune, rows)
	for r := range b.cells {
		b.cells[r] = make([]rune, width)
	}
	b.blank()
	return b
}

func (b *Buffer) blank() {
	for r := range b.cells {
		for c := range b.cells[r] {
			b.cells[r][c] = ' '
		}
	}
	b.col, b.row = 0, 0
}

func (b *Buffer) Clear() {
	b.blank()
	b.Clears++
}

func (b *Buffer) MoveTo(column, row int) {
	b.col, b.row = column, row
}

func (b *Buffer) Write(text string) {
	for _, r := range text {
		if r == '\n' {
			b.col = 0
			b.row++
			continue
		}
		if b.row >= 0 && b.row < b.rows && b.col >= 0 && b.col < b.width {
			b.cells[b.row][b.col] = r
		}
		b.col++
	}
}

func (b *Buffer) DefineGlyph(index int, bitmap [8]byte) {
	b.glyphs[index] = bitmap
}

func (b *Buffer) SetCursorVisible(on bool) { b.CursorVisible = on }
func (b *Buffer) SetCursorBlink(on bool)   { b.CursorBlink = on }
func (b *Buffer) Power(on bool)            { b.Powered = on }

// Glyph returns the bitmap registered at index.
func (b *Buffer) Glyph(index int) ([8]byte, bool) {
	g, ok := b.glyphs[index]
	return g, ok
}

// Lines returns the current content, one string per row, right padded.
func (b *Buffer) Lines() []string {
	lines := make([]string, b.rows)
	for r, row := range b.cells {
		lines[r] = string(row)
	}
	return lines
}

// Blank reports whether nothing but spaces is shown.
func (b *Buffer) Blank() bool {
	for _, l := range b.Lines() {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}
