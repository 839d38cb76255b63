package output

import (
	"fmt"
	"strings"

	"github.com/rootsektor/ripe-api-query-tool/internal/ripedb"
)

// renderTable lays the records out as an ASCII table: a header row,
// a dash rule, then one row per record. Each column is as wide as its
// widest cell (header included); columns are joined with " | " and
// the rule's dash runs with "-+-", no edge markers.
func renderTable(records []ripedb.ProjectedRecord) string {
	if len(records) == 0 {
		return ""
	}

	// All records in one run share the same field order.
	headers := records[0].Fields
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	rows := make([][]string, len(records))
	for ri, rec := range records {
		cells := rec.Cells("\n")
		for i, cell := range cells {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
		rows[ri] = cells
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		padded := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			padded[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		b.WriteString(strings.Join(padded, " | "))
		b.WriteByte('\n')
	}

	writeRow(headers)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	b.WriteString(strings.Join(rule, "-+-"))
	b.WriteByte('\n')
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}
