// Package format turns arrivals into fixed-width strings for a character
// display. Widths are counted in characters (runes). The two custom glyph
// characters below occupy a single cell each.
package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mini-rodalies-3d/stopboard/internal/arrivals"
)

const (
	// IconGlyph is the character bound to custom glyph slot 0 (status icon).
	IconGlyph = '\x00'
	// MarkerGlyph is the character bound to custom glyph slot 1 (overflow marker).
	MarkerGlyph = '\x01'

	// iconSlot is the width reserved for the icon in a single-arrival line.
	iconSlot = 2
)

// TruncateWithMarker fits text into exactly maxLen characters. Short text is
// right-padded with spaces; long text keeps its first maxLen-1 characters and
// ends with MarkerGlyph. A maxLen of zero or less yields the empty string.
func TruncateWithMarker(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	n := utf8.RuneCountInString(text)
	if n <= maxLen {
		return text + strings.Repeat(" ", maxLen-n)
	}

	runes := []rune(text)
	return string(runes[:maxLen-1]) + string(MarkerGlyph)
}

// FormatMinutes renders whole minutes, always rounding down so a rider is
// never told a bus is closer than it is.
func FormatMinutes(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm", seconds/60)
}

// FormatMinutesSeconds renders "<M>m<S>s", or "<S>s" under a minute.
func FormatMinutesSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	seconds = seconds % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// DestinationBudget is the number of characters left for the destination in
// a single-arrival line of maxWidth, never negative.
func DestinationBudget(category, eta string, maxWidth int) int {
	overhead := iconSlot + utf8.RuneCountInString(category) + 1 + utf8.RuneCountInString(eta) + 1
	budget := maxWidth - overhead
	if budget < 0 {
		return 0
	}
	return budget
}

// FormatSingleArrival renders "<icon><category> <destination> <eta>".
//
// When there is no room for the destination, the destination and its
// separator are dropped; anything still too wide is cut with the marker.
func FormatSingleArrival(a arrivals.Arrival, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	eta := FormatMinutes(a.SecondsToArrival)
	budget := DestinationBudget(a.Category, eta, maxWidth)
	head := string(IconGlyph) + a.Category

	if budget > 0 {
		return head + " " + TruncateWithMarker(a.Destination, budget) + " " + eta
	}

	line := head + " " + eta
	if utf8.RuneCountInString(line) > maxWidth {
		return TruncateWithMarker(line, maxWidth)
	}
	return line
}

// FormatArrivalGroup renders "<icon><category> <eta1> <eta2> ...", appending
// ETAs in the given order while they fit and stopping at the first that
// would overflow. Arrivals are expected to be sorted already.
func FormatArrivalGroup(category string, as []arrivals.Arrival, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	txt := string(IconGlyph) + category
	width := utf8.RuneCountInString(txt)
	if width > maxWidth {
		return TruncateWithMarker(txt, maxWidth)
	}

	for _, a := range as {
		eta := " " + FormatMinutes(a.SecondsToArrival)
		w := utf8.RuneCountInString(eta)
		if width+w > maxWidth {
			break
		}
		txt += eta
		width += w
	}
	return txt
}
