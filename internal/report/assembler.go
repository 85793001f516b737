package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"convocation/internal/domain/application"
	"convocation/internal/domain/export"
)

// DefaultTitle heads every report unless configured otherwise.
const DefaultTitle = "TLBC Leadership Position Applications Report"

// Assembler writes the title block, hands the records to one renderer and
// serializes the result. It holds no per-export state, so one Assembler can
// serve concurrent exports.
type Assembler struct {
	title     string
	renderer  Renderer
	newCanvas CanvasFactory
}

// NewAssembler returns an Assembler producing PDFs in the given layout.
func NewAssembler(title, layout string) (*Assembler, error) {
	r, err := RendererFor(layout)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = DefaultTitle
	}
	return &Assembler{title: title, renderer: r, newCanvas: NewPDFCanvas}, nil
}

// WithCanvas replaces the drawing backend.
func (a *Assembler) WithCanvas(factory CanvasFactory) *Assembler {
	cp := *a
	cp.newCanvas = factory
	return &cp
}

// WithLayout returns a copy rendering layout instead, keeping title and backend.
func (a *Assembler) WithLayout(layout string) (*Assembler, error) {
	r, err := RendererFor(layout)
	if err != nil {
		return nil, err
	}
	cp := *a
	cp.renderer = r
	return &cp, nil
}

// Layout returns the layout this Assembler renders.
func (a *Assembler) Layout() string { return a.renderer.Layout() }

// Build renders records, in the given order, into one report.
// PRE: records are already sorted as they should appear
// POST: Returns a complete artifact, or an error and no artifact
// INVARIANT: records are not modified; the title date and filename share the UTC day of now
func (a *Assembler) Build(records []application.Record, now time.Time) (export.Artifact, error) {
	now = now.UTC()
	c := a.newCanvas(a.renderer.Orientation(), a.title, now)
	f := NewFlow(c, topMargin, bottomMargin)

	a.writeTitle(f, c, len(records), now)
	if len(records) > 0 {
		if err := a.renderer.Render(f, c, records); err != nil {
			return export.Artifact{}, fmt.Errorf("render %s report: %w", a.renderer.Layout(), err)
		}
	}

	var buf bytes.Buffer
	if err := c.Output(&buf); err != nil {
		return export.Artifact{}, fmt.Errorf("write report: %w", err)
	}

	return export.Artifact{
		Filename:    export.Filename(now),
		ContentType: export.ContentTypePDF,
		Data:        buf.Bytes(),
		Pages:       f.Pages(),
		Metadata: export.Metadata{
			ExportDate:  now,
			Layout:      a.renderer.Layout(),
			Version:     export.Version,
			RecordCount: len(records),
		},
	}, nil
}

func (a *Assembler) writeTitle(f *Flow, c Canvas, count int, now time.Time) {
	c.SetTextColor(0, 0, 0)
	c.SetFont(StyleBold, 18)
	c.Text(marginLeft, f.Y(), a.title)
	f.Advance(15)

	c.SetFont(StyleRegular, 12)
	c.Text(marginLeft, f.Y(), "Generated on: "+now.Format("January 2, 2006"))
	c.Text(marginLeft, f.Y()+8, "Total Applications: "+strconv.Itoa(count))
	f.Advance(25)

	if count > 0 && a.renderer.Layout() == export.LayoutDetailed {
		c.SetFont(StyleBold, 14)
		c.Text(marginLeft, f.Y(), "Applications Details:")
		f.Advance(15)
	}
}
