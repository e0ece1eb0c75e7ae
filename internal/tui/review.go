package tui

import (
	"fmt"
	"strings"

	"github.com/f3rmion/custseg/internal/record"
	"github.com/mattn/go-runewidth"
)

// ReviewTable renders the record transposed into a two-column (field, value)
// table in schema order.
func ReviewTable(r record.Record) string {
	cols := r.Columns()

	width := runewidth.StringWidth("Field")
	for _, c := range cols {
		if w := runewidth.StringWidth(c.Name); w > width {
			width = w
		}
	}

	var b strings.Builder
	b.WriteString(runewidth.FillRight("Field", width))
	b.WriteString("  Value\n")
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("  ")
	b.WriteString(strings.Repeat("─", 10))
	for _, c := range cols {
		b.WriteString("\n")
		b.WriteString(runewidth.FillRight(c.Name, width))
		b.WriteString("  ")
		b.WriteString(fmt.Sprint(c.Value))
	}
	return b.String()
}
