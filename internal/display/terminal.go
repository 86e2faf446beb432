package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// DefaultGlyphText is how the terminal shows custom glyphs.
var DefaultGlyphText = map[rune]string{
	BusIcon.Char:  "●",
	Ellipsis.Char: "…",
}

// Terminal emulates a character LCD on a text stream. Writes land in a
// Buffer and the whole frame is printed on Flush.
type Terminal struct {
	*Buffer
	mu        sync.Mutex
	out       io.Writer
	glyphText map[rune]string
}

// NewTerminal creates a terminal surface of rows x width characters.
func NewTerminal(out io.Writer, rows, width int) *Terminal {
	return &Terminal{
		Buffer:    NewBuffer(rows, width),
		out:       out,
		glyphText: DefaultGlyphText,
	}
}

// Flush prints the current frame, or nothing while powered off.
func (t *Terminal) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.Powered {
		return
	}
	fmt.Fprint(t.out, t.Render())
}

// Render returns the framed content with glyphs substituted.
func (t *Terminal) Render() string {
	var sb strings.Builder
	border := "+" + strings.Repeat("-", t.width) + "+\n"

	sb.WriteString(border)
	for _, line := range t.Lines() {
		sb.WriteString("|")
		for _, r := range line {
			if s, ok := t.glyphText[r]; ok {
				sb.WriteString(s)
				continue
			}
			sb.WriteRune(r)
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	return sb.String()
}
