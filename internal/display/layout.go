package display

// Grid describes how cells are arranged on the display.
type Grid struct {
	Rows        int
	Columns     int
	ColumnWidth int
}

// Capacity is the number of cells the grid can show.
func (g Grid) Capacity() int {
	if g.Rows <= 0 || g.Columns <= 0 {
		return 0
	}
	return g.Rows * g.Columns
}

// Cell is one formatted string placed on the grid. Offset is the character
// column the text starts at, with a one-character gutter between columns.
type Cell struct {
	Row    int
	Column int
	Offset int
	Text   string
}

// Layout places items row by row, left to right. Items beyond the grid's
// capacity are dropped since the display cannot scroll.
func Layout(items []string, g Grid) []Cell {
	n := len(items)
	if c := g.Capacity(); n > c {
		n = c
	}

	cells := make([]Cell, 0, n)
	for i := 0; i < n; i++ {
		column := i % g.Columns
		cells = append(cells, Cell{
			Row:    i / g.Columns,
			Column: column,
			Offset: column * (g.ColumnWidth + 1),
			Text:   items[i],
		})
	}
	return cells
}

// Draw clears the surface and writes each cell at its position.
func Draw(s Surface, cells []Cell) {
	s.Clear()
	for _, c := range cells {
		s.MoveTo(c.Offset, c.Row)
		s.Write(c.Text)
	}
}
