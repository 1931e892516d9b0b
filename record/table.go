package record

import "strings"

// TableCell is one cell of a Table, reconstructed from a LIST_HEADER
// record nested inside a TABLE record's span.
type TableCell struct {
	Col     uint16
	Row     uint16
	ColSpan uint16
	RowSpan uint16
	Text    string
}

// Table is the reconstruction of a TABLE record and its nested cells.
// ColSpan and RowSpan are never less than 1; a cell whose extent runs past
// RowCount/ColCount is kept as parsed and only clamped when rendered.
type Table struct {
	RowCount uint16
	ColCount uint16
	Cells    []TableCell
}

// Render draws Table as a fixed-width box-drawn grid. Column widths are
// the per-column maximum text length with a floor of 3; a spanned cell
// contributes at least floor(len(text)/col_span) to each column it
// spans. Cells whose span runs past the grid are clamped to fit before
// measurement and drawing.
func (t *Table) Render() string {
	if t.RowCount == 0 || t.ColCount == 0 {
		return ""
	}
	cols := int(t.ColCount)
	rows := int(t.RowCount)

	grid := make([][]*TableCell, rows)
	for r := range grid {
		grid[r] = make([]*TableCell, cols)
	}
	widths := make([]int, cols)
	for i := range widths {
		widths[i] = 3
	}

	for i := range t.Cells {
		c := &t.Cells[i]
		colSpan, rowSpan := int(c.ColSpan), int(c.RowSpan)
		if colSpan < 1 {
			colSpan = 1
		}
		if rowSpan < 1 {
			rowSpan = 1
		}
		col, row := int(c.Col), int(c.Row)
		if col < 0 || col >= cols || row < 0 || row >= rows {
			continue
		}
		if col+colSpan > cols {
			colSpan = cols - col
		}
		if row+rowSpan > rows {
			rowSpan = rows - row
		}

		perCol := len([]rune(c.Text)) / colSpan
		for cc := col; cc < col+colSpan; cc++ {
			if perCol > widths[cc] {
				widths[cc] = perCol
			}
		}
		for rr := row; rr < row+rowSpan; rr++ {
			for cc := col; cc < col+colSpan; cc++ {
				grid[rr][cc] = c
			}
		}
	}

	var b strings.Builder
	writeSeparator(&b, widths, '┌', '┬', '┐')
	for r := 0; r < rows; r++ {
		writeRow(&b, grid[r], widths, r)
		if r < rows-1 {
			writeSeparator(&b, widths, '├', '┼', '┤')
		}
	}
	writeSeparator(&b, widths, '└', '┴', '┘')
	return b.String()
}

func writeSeparator(b *strings.Builder, widths []int, left, mid, right rune) {
	b.WriteRune(left)
	for i, w := range widths {
		b.WriteString(strings.Repeat("─", w+2))
		if i < len(widths)-1 {
			b.WriteRune(mid)
		}
	}
	b.WriteRune(right)
	b.WriteByte('\n')
}

func writeRow(b *strings.Builder, row []*TableCell, widths []int, r int) {
	b.WriteRune('│')
	for i, w := range widths {
		cell := row[i]
		text := ""
		// An interior cell belonging to a span renders blank; only the
		// cell's anchor position (its own Col and Row) prints the text.
		if cell != nil && int(cell.Col) == i && int(cell.Row) == r {
			text = cell.Text
		}
		b.WriteByte(' ')
		b.WriteString(padRight(text, w))
		b.WriteByte(' ')
		b.WriteRune('│')
	}
	b.WriteByte('\n')
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
