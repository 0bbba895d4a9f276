package export

// Dataset is a table whose rows are grouped under labelled sections.
type Dataset struct {
	Title       string
	GroupHeader string
	Headers     []string
	Groups      []Group
}

// Group is one labelled block of rows, e.g. a weekday.
type Group struct {
	Label string
	Rows  [][]string
}

// RowCount sums rows across groups.
func (d Dataset) RowCount() int {
	total := 0
	for _, g := range d.Groups {
		total += len(g.Rows)
	}
	return total
}

// cell returns row[i] or an empty string when the row is short.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
