package display

import (
	"github.com/mini-rodalies-3d/stopboard/internal/format"
)

// Surface is a character display. Positions are zero-based; text written
// past the right edge is the surface's to clip.
type Surface interface {
	Clear()
	MoveTo(column, row int)
	Write(text string)
	DefineGlyph(index int, bitmap [8]byte)
	SetCursorVisible(on bool)
	SetCursorBlink(on bool)
	Power(on bool)
}

// Flusher is implemented by surfaces that buffer writes and present them in
// one go, such as the terminal emulation.
type Flusher interface {
	Flush()
}

// Glyph is a custom 5x8 character bound to a glyph-table slot. Char is the
// byte a formatted string uses to reference it.
type Glyph struct {
	Index  int
	Char   rune
	Bitmap [8]byte
}

var (
	// BusIcon is shown in front of every line label.
	BusIcon = Glyph{
		Index:  0,
		Char:   format.IconGlyph,
		Bitmap: [8]byte{0x00, 0x0E, 0x11, 0x1F, 0x11, 0x0E, 0x00, 0x00},
	}

	// Ellipsis marks truncated text.
	Ellipsis = Glyph{
		Index:  1,
		Char:   format.MarkerGlyph,
		Bitmap: [8]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x15, 0x00},
	}

	// CustomGlyphs lists every glyph registered at startup.
	CustomGlyphs = []Glyph{BusIcon, Ellipsis}
)

// RegisterGlyphs uploads CustomGlyphs to the surface.
func RegisterGlyphs(s Surface) {
	for _, g := range CustomGlyphs {
		s.DefineGlyph(g.Index, g.Bitmap)
	}
}

// Flush presents buffered output if the surface buffers at all.
func Flush(s Surface) {
	if f, ok := s.(Flusher); ok {
		f.Flush()
	}
}
