package record

import (
	"strings"
	"testing"
)

func TestTableRenderColumnWidthFloor(t *testing.T) {
	tbl := &Table{
		RowCount: 1,
		ColCount: 2,
		Cells: []TableCell{
			{Col: 0, Row: 0, ColSpan: 1, RowSpan: 1, Text: "ab"},
			{Col: 1, Row: 0, ColSpan: 1, RowSpan: 1, Text: "right"},
		},
	}
	out := tbl.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Render() produced %d lines, want 3 (top, row, bottom)", len(lines))
	}
	if !strings.Contains(lines[1], "ab ") {
		t.Errorf("row line = %q, want it to pad the 2-char cell to the 3-wide floor", lines[1])
	}
	if !strings.Contains(lines[1], "right") {
		t.Errorf("row line = %q, missing right cell text", lines[1])
	}
}

func TestTableRenderSpanDistributesWidth(t *testing.T) {
	tbl := &Table{
		RowCount: 1,
		ColCount: 2,
		Cells: []TableCell{
			{Col: 0, Row: 0, ColSpan: 2, RowSpan: 1, Text: "0123456789"},
		},
	}
	out := tbl.Render()
	if !strings.Contains(out, "0123456789") {
		t.Errorf("Render() = %q, missing spanned cell text", out)
	}
	// 10 characters over 2 columns gives each column width 5 (above the
	// floor of 3), i.e. 7 border dashes per column.
	top := strings.SplitN(out, "\n", 2)[0]
	if want := "┌───────┬───────┐"; top != want {
		t.Errorf("top border = %q, want %q", top, want)
	}
}

func TestTableRenderEmptyDimensions(t *testing.T) {
	tbl := &Table{RowCount: 0, ColCount: 2}
	if out := tbl.Render(); out != "" {
		t.Errorf("Render() = %q, want empty for zero rows", out)
	}
}
