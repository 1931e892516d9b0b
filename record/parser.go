// Package record parses an HWP 5.x section's tagged record stream into
// paragraph text and tables. A section body is a sequence of variable
// length records arranged as an implicit tree: a record's children are
// the records that immediately follow it in the stream at level+1, until
// a sibling or ancestor (level <= the parent's level) is reached.
package record

// Parse decompresses (if necessary) and parses a section stream's raw
// bytes, returning paragraphs and tables in record order. compressed
// should come from the document's FileHeader flags; Parse still falls
// back to the raw bytes if decompression fails or was never attempted
// successfully, since some files carry the flag without actually
// compressing the body.
func Parse(sectionData []byte, compressed bool) ([]string, []*Table) {
	data := sectionData
	if compressed {
		data = decompress(sectionData)
	}
	records := readRecords(data)

	var paragraphs []string
	var tables []*Table

	i := 0
	for i < len(records) {
		rec := records[i]
		switch rec.Tag {
		case tagParaText:
			for _, raw := range chunkText(rec.Payload) {
				cleaned := cleanText(decodeUTF16LE(raw), ModeBody)
				if cleaned != "" {
					paragraphs = append(paragraphs, cleaned)
				}
			}
			i++
		case tagTable:
			table, next := parseTable(records, i)
			if table != nil {
				tables = append(tables, table)
			}
			i = next
		default:
			i++
		}
	}
	return paragraphs, tables
}

// parseTable reads a TABLE record's row/col counts and scans the records
// that follow it (at level+1 and deeper) for LIST_HEADER children, each
// denoting one cell. It returns nil when the table declares zero rows or
// columns, or ends up with zero cells.
func parseTable(records []Record, idx int) (*Table, int) {
	rec := records[idx]
	level := rec.Level
	if len(rec.Payload) < 10 {
		return nil, idx + 1
	}
	rowCount := le16(rec.Payload[4:6])
	colCount := le16(rec.Payload[8:10])

	table := &Table{RowCount: rowCount, ColCount: colCount}

	i := idx + 1
	for i < len(records) && records[i].Level > level {
		if records[i].Level == level+1 && records[i].Tag == tagListHeader {
			cell, next := parseCell(records, i)
			if cell != nil {
				table.Cells = append(table.Cells, *cell)
			}
			i = next
			continue
		}
		i++
	}

	if table.RowCount == 0 || table.ColCount == 0 || len(table.Cells) == 0 {
		return nil, i
	}
	return table, i
}

// parseCell reads a LIST_HEADER record's (col, row, col_span, row_span)
// header and collects the cleaned text of every PARA_TEXT record nested
// beneath it, joined with single spaces.
func parseCell(records []Record, idx int) (*TableCell, int) {
	rec := records[idx]
	level := rec.Level
	if len(rec.Payload) < 8 {
		return nil, idx + 1
	}
	cell := &TableCell{
		Col:     le16(rec.Payload[0:2]),
		Row:     le16(rec.Payload[2:4]),
		ColSpan: le16(rec.Payload[4:6]),
		RowSpan: le16(rec.Payload[6:8]),
	}
	if cell.ColSpan < 1 {
		cell.ColSpan = 1
	}
	if cell.RowSpan < 1 {
		cell.RowSpan = 1
	}

	var parts []string
	i := idx + 1
	for i < len(records) && records[i].Level > level {
		if records[i].Tag == tagParaText {
			for _, raw := range chunkText(records[i].Payload) {
				cleaned := cleanText(decodeUTF16LE(raw), ModeTable)
				if cleaned != "" {
					parts = append(parts, cleaned)
				}
			}
		}
		i++
	}
	cell.Text = joinSpace(parts)
	return cell, i
}

func joinSpace(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	total := len(parts) - 1
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for i, p := range parts {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, p...)
	}
	return string(out)
}

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
