package report

import (
	"strconv"

	"convocation/internal/domain/application"
	"convocation/internal/domain/export"
)

// Tabular layout metrics.
const (
	cellFontSize   = 7.0
	cellLineHeight = 3.5
	cellPadding    = 1.0
)

// Column is one fixed-width table column.
type Column struct {
	Title string
	Width float64
	Value func(index int, r application.Record) string
}

// Columns are declared once for the whole table so rows line up across pages.
// The widths add up to the usable width of an A4 landscape page.
var Columns = []Column{
	{"#", 8, func(i int, _ application.Record) string { return strconv.Itoa(i + 1) }},
	{"Name", 28, func(_ int, r application.Record) string { return joinName(r) }},
	{"Email", 34, func(_ int, r application.Record) string { return r.Email }},
	{"Phone", 22, func(_ int, r application.Record) string { return r.Phone }},
	{"Gender", 14, func(_ int, r application.Record) string { return r.Gender }},
	{"Church", 24, func(_ int, r application.Record) string { return r.Church }},
	{"Zone", 16, func(_ int, r application.Record) string { return r.Zone }},
	{"Current Position", 26, func(_ int, r application.Record) string { return r.OfficeNow }},
	{"Achievements", 32, func(_ int, r application.Record) string { return r.Achievements }},
	{"Office Applied For", 26, func(_ int, r application.Record) string { return r.OfficeApply }},
	{"Reasons", 47, func(_ int, r application.Record) string { return r.ReasonsApply }},
}

// Tabular renders all records as rows of one continuing table. The header row
// is repeated at the top of every page and absent values are empty cells.
// A row taller than a page continues on the next one.
type Tabular struct{}

func (Tabular) Layout() string      { return export.LayoutTabular }
func (Tabular) Orientation() string { return Landscape }

func (t Tabular) Render(f *Flow, c Canvas, records []application.Record) error {
	header := wrapCells(c, StyleBold, func(col Column) string { return col.Title })
	headerHeight := rowHeight(maxLines(header))

	t.drawHeader(f, c, header, headerHeight)
	f.OnNewPage(func() { t.drawHeader(f, c, header, headerHeight) })
	defer f.OnNewPage(nil)

	for i, r := range records {
		cells := wrapCells(c, StyleRegular, func(col Column) string { return col.Value(i, r) })
		t.drawRow(f, c, cells, i, headerHeight)
		if err := c.Err(); err != nil {
			return err
		}
	}
	return nil
}

// drawRow writes one record. A row that fits on a fresh page is moved there
// whole when needed; a taller one fills the rest of the current page and
// continues on the next.
func (t Tabular) drawRow(f *Flow, c Canvas, cells [][]string, index int, headerHeight float64) {
	firstRowY := f.Top() + headerHeight
	capacity := f.Limit() - firstRowY
	total := maxLines(cells)
	for start := 0; start < total; {
		if h := rowHeight(total - start); h <= capacity {
			f.EnsureSpace(h)
			t.drawChunk(f, c, cells, index, start, total)
			return
		}
		fit := int((f.Remaining() - 2*cellPadding) / cellLineHeight)
		if fit < 1 && f.Y() > firstRowY {
			f.Break()
			continue
		}
		end := min(start+max(fit, 1), total)
		t.drawChunk(f, c, cells, index, start, end)
		start = end
		if start < total {
			f.Break()
		}
	}
}

func (Tabular) drawChunk(f *Flow, c Canvas, cells [][]string, index, start, end int) {
	y := f.Y()
	h := rowHeight(end - start)
	if index%2 == 1 {
		c.SetFillColor(245, 245, 245)
		c.FillRect(marginLeft, y, tableWidth(), h)
	}
	c.SetFont(StyleRegular, cellFontSize)
	c.SetTextColor(0, 0, 0)
	writeCells(c, cells, y, start, end)
	f.Advance(h)
}

func (Tabular) drawHeader(f *Flow, c Canvas, header [][]string, h float64) {
	y := f.Y()
	c.SetFillColor(41, 128, 185)
	c.FillRect(marginLeft, y, tableWidth(), h)
	c.SetFont(StyleBold, cellFontSize)
	c.SetTextColor(255, 255, 255)
	writeCells(c, header, y, 0, maxLines(header))
	c.SetTextColor(0, 0, 0)
	c.SetFont(StyleRegular, cellFontSize)
	f.Advance(h)
}

// writeCells draws lines [start,end) of each cell in a band starting at y.
func writeCells(c Canvas, cells [][]string, y float64, start, end int) {
	x := marginLeft
	for i, col := range Columns {
		for n := start; n < end && n < len(cells[i]); n++ {
			baseline := y + cellPadding + float64(n-start)*cellLineHeight + cellLineHeight*0.75
			c.Text(x+cellPadding, baseline, cells[i][n])
		}
		x += col.Width
	}
}

func wrapCells(c Canvas, style string, text func(Column) string) [][]string {
	c.SetFont(style, cellFontSize)
	cells := make([][]string, len(Columns))
	for i, col := range Columns {
		cells[i] = WrapText(text(col), col.Width-2*cellPadding, c.StringWidth)
	}
	return cells
}

func maxLines(cells [][]string) int {
	n := 1
	for _, cell := range cells {
		n = max(n, len(cell))
	}
	return n
}

func rowHeight(lines int) float64 {
	return float64(lines)*cellLineHeight + 2*cellPadding
}

func tableWidth() float64 {
	var w float64
	for _, col := range Columns {
		w += col.Width
	}
	return w
}

func joinName(r application.Record) string {
	if r.FirstName == "" || r.LastName == "" {
		return r.FirstName + r.LastName
	}
	return r.FirstName + " " + r.LastName
}
