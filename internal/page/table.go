package page

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Cell is one th or td element.
type Cell struct {
	Text    string
	Header  bool
	Colspan int
}

// Row holds a table row. Cells are the row's own elements; Grid is the row
// laid out on the table's column grid with colspan and rowspan expanded, so
// Grid[i] lines up with Table.Header[i].
type Row struct {
	Cells []Cell
	Grid  []Cell
}

// At returns the grid cell in column i.
func (r Row) At(i int) (Cell, bool) {
	if i < 0 || i >= len(r.Grid) {
		return Cell{}, false
	}
	return r.Grid[i], true
}

// AllHeader reports whether every cell in the row is a header cell.
func (r Row) AllHeader() bool {
	if len(r.Cells) == 0 {
		return false
	}
	for _, c := range r.Cells {
		if !c.Header {
			return false
		}
	}
	return true
}

// Table is a parsed table. Header merges the first row holding header cells
// with any multi-cell all-header rows directly below it; Rows are the rows
// after that.
type Table struct {
	Header []string
	Rows   []Row
}

// Column returns the index of the first header that contains any of terms,
// compared lower-case, or -1.
func (t *Table) Column(terms ...string) int {
	for i, h := range t.Header {
		lh := strings.ToLower(h)
		for _, term := range terms {
			if strings.Contains(lh, term) {
				return i
			}
		}
	}
	return -1
}

func parseTables(sel *goquery.Selection) []*Table {
	var out []*Table
	sel.Each(func(_ int, t *goquery.Selection) {
		out = append(out, parseTable(t))
	})
	return out
}

type span struct {
	cell Cell
	left int
}

func parseTable(t *goquery.Selection) *Table {
	var rows []Row
	pending := map[int]*span{}
	t.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if !tr.Closest("table").IsSelection(t) {
			return
		}
		var row Row
		col := 0
		fill := func() {
			for {
				sp, ok := pending[col]
				if !ok {
					return
				}
				row.Grid = append(row.Grid, sp.cell)
				if sp.left--; sp.left == 0 {
					delete(pending, col)
				}
				col++
			}
		}
		tr.ChildrenFiltered("th, td").Each(func(_ int, c *goquery.Selection) {
			cell := Cell{Text: Text(c), Header: goquery.NodeName(c) == "th", Colspan: intAttr(c, "colspan")}
			row.Cells = append(row.Cells, cell)
			rowspan := intAttr(c, "rowspan")
			for i := 0; i < cell.Colspan; i++ {
				fill()
				row.Grid = append(row.Grid, cell)
				if rowspan > 1 {
					pending[col] = &span{cell: cell, left: rowspan - 1}
				}
				col++
			}
		})
		fill()
		rows = append(rows, row)
	})

	table := &Table{}
	start := -1
	for i, r := range rows {
		for _, c := range r.Cells {
			if c.Header {
				start = i
				break
			}
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		table.Rows = rows
		return table
	}
	end := start + 1
	for end < len(rows) && len(rows[end].Cells) > 1 && rows[end].AllHeader() {
		end++
	}
	table.Header = mergeHeader(rows[start:end])
	table.Rows = rows[end:]
	return table
}

// mergeHeader joins the distinct texts stacked in each column of the header
// rows, top to bottom.
func mergeHeader(rows []Row) []string {
	width := 0
	for _, r := range rows {
		if len(r.Grid) > width {
			width = len(r.Grid)
		}
	}
	out := make([]string, width)
	for i := 0; i < width; i++ {
		var parts []string
		for _, r := range rows {
			c, ok := r.At(i)
			if !ok || c.Text == "" {
				continue
			}
			if len(parts) > 0 && parts[len(parts)-1] == c.Text {
				continue
			}
			parts = append(parts, c.Text)
		}
		out[i] = strings.Join(parts, " ")
	}
	return out
}

func intAttr(s *goquery.Selection, name string) int {
	v, ok := s.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	if n > 100 {
		return 100
	}
	return n
}
