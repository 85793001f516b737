package report

import (
	"convocation/internal/domain/application"
	"convocation/internal/domain/export"
)

// Page geometry shared by both layouts, in millimetres.
const (
	marginLeft   = 10.0
	marginRight  = 10.0
	topMargin    = 20.0
	bottomMargin = 20.0
)

// Detailed layout metrics.
const (
	lineHeight      = 5.0
	sectionSpacing  = 8.0
	bandHeight      = 8.0
	headerAdvance   = 15.0
	textIndent      = 5.0
	recordReserve   = 50.0
	sectionReserve  = 20.0
	separatorGap    = 10.0
	separatorMargin = 5.0
)

// Renderer writes the body of a report below the title block.
type Renderer interface {
	Layout() string
	Orientation() string
	// Render writes every record, in order, and returns the first canvas error.
	Render(f *Flow, c Canvas, records []application.Record) error
}

// RendererFor returns the renderer for a layout name.
func RendererFor(layout string) (Renderer, error) {
	switch layout {
	case export.LayoutDetailed:
		return Detailed{}, nil
	case export.LayoutTabular:
		return Tabular{}, nil
	}
	return nil, export.ErrUnknownLayout
}

// Detailed renders each record as its own titled block: a shaded header band,
// personal information, then labelled free-text sections. Optional sections
// with no value are skipped; a record may break across pages mid-section.
type Detailed struct{}

func (Detailed) Layout() string      { return export.LayoutDetailed }
func (Detailed) Orientation() string { return Portrait }

func (d Detailed) Render(f *Flow, c Canvas, records []application.Record) error {
	for _, r := range records {
		d.renderRecord(f, c, r)
		if err := c.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (d Detailed) renderRecord(f *Flow, c Canvas, r application.Record) {
	width := usableWidth(c)
	f.EnsureSpace(recordReserve)

	y := f.Y()
	c.SetFillColor(240, 240, 240)
	c.FillRect(marginLeft, y, width, bandHeight)
	c.SetFont(StyleBold, 12)
	c.SetTextColor(0, 0, 0)
	c.Text(marginLeft+2, y+6, r.FullName())
	c.SetFont(StyleRegular, 8)
	c.Text(marginLeft+2, y+12, "Submitted: "+application.FormatSubmitted(r.SubmittedAt))
	f.Advance(headerAdvance)

	d.heading(f, c, "Personal Information:")
	for _, info := range []string{
		"Email: " + application.OrPlaceholder(r.Email),
		"Phone: " + application.OrPlaceholder(r.Phone),
		"Address: " + application.OrPlaceholder(r.Address),
		"Gender: " + application.OrPlaceholder(r.Gender),
		"Church: " + application.OrPlaceholder(r.Church),
		"Zone: " + application.OrPlaceholder(r.Zone),
	} {
		d.lines(f, c, info, width)
	}
	f.Advance(sectionSpacing)

	if r.HoldsOffice() {
		d.section(f, c, "Current Position:", r.OfficeNow, width)
		f.Advance(sectionSpacing)
	}
	if r.HasAchievements() {
		d.section(f, c, "Achievements:", r.Achievements, width)
		f.Advance(sectionSpacing)
	}
	d.section(f, c, "Office Applying For:", application.OrPlaceholder(r.OfficeApply), width)
	f.Advance(sectionSpacing)
	d.section(f, c, "Reasons for Applying:", application.OrPlaceholder(r.ReasonsApply), width)

	f.Advance(separatorGap)
	f.EnsureSpace(separatorMargin)
	c.SetDrawColor(200, 200, 200)
	c.Line(marginLeft, f.Y(), marginLeft+width, f.Y())
	f.Advance(separatorGap)
}

func (d Detailed) section(f *Flow, c Canvas, title, text string, width float64) {
	f.EnsureSpace(sectionReserve)
	d.heading(f, c, title)
	d.lines(f, c, text, width)
}

func (Detailed) heading(f *Flow, c Canvas, title string) {
	c.SetFont(StyleBold, 10)
	c.Text(marginLeft, f.Y(), title)
	f.Advance(lineHeight + 2)
	c.SetFont(StyleRegular, 8)
}

// lines wraps text to the indented column and writes it one line at a time,
// checking for space before each line.
func (Detailed) lines(f *Flow, c Canvas, text string, width float64) {
	for _, line := range WrapText(text, width-2*textIndent, c.StringWidth) {
		f.EnsureSpace(lineHeight + 2)
		c.Text(marginLeft+textIndent, f.Y(), line)
		f.Advance(lineHeight)
	}
}

func usableWidth(c Canvas) float64 {
	w, _ := c.PageSize()
	return w - marginLeft - marginRight
}
