package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// Font styles understood by every Canvas.
const (
	StyleRegular = ""
	StyleBold    = "B"
)

// Page orientations.
const (
	Portrait  = "P"
	Landscape = "L"
)

// Canvas is the drawing surface a report is written to. Coordinates are in
// millimetres from the top-left corner of the current page; Text places the
// baseline of s at y.
type Canvas interface {
	AddPage()
	PageSize() (width, height float64)
	SetFont(style string, size float64)
	SetTextColor(r, g, b int)
	SetFillColor(r, g, b int)
	SetDrawColor(r, g, b int)
	Text(x, y float64, s string)
	FillRect(x, y, w, h float64)
	Line(x1, y1, x2, y2 float64)
	StringWidth(s string) float64
	// Err returns the first drawing error, if any.
	Err() error
	Output(w io.Writer) error
}

// CanvasFactory creates a fresh canvas for one export.
type CanvasFactory func(orientation, title string, now time.Time) Canvas

const fontFamily = "Helvetica"

// PDFCanvas draws onto an A4 PDF document using the core Helvetica fonts.
type PDFCanvas struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NewPDFCanvas creates an empty A4 document. The creation date is fixed to
// now so two exports of the same records on the same instant are identical.
func NewPDFCanvas(orientation, title string, now time.Time) Canvas {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(title, true)
	pdf.SetCreator("convocation", true)
	pdf.SetFont(fontFamily, StyleRegular, 10)
	return &PDFCanvas{
		pdf: pdf,
		// Core fonts are cp1252; anything outside it is replaced rather than garbled.
		tr: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *PDFCanvas) AddPage() { c.pdf.AddPage() }

func (c *PDFCanvas) PageSize() (float64, float64) { return c.pdf.GetPageSize() }

func (c *PDFCanvas) SetFont(style string, size float64) { c.pdf.SetFont(fontFamily, style, size) }

func (c *PDFCanvas) SetTextColor(r, g, b int) { c.pdf.SetTextColor(r, g, b) }

func (c *PDFCanvas) SetFillColor(r, g, b int) { c.pdf.SetFillColor(r, g, b) }

func (c *PDFCanvas) SetDrawColor(r, g, b int) { c.pdf.SetDrawColor(r, g, b) }

func (c *PDFCanvas) Text(x, y float64, s string) { c.pdf.Text(x, y, c.tr(s)) }

func (c *PDFCanvas) FillRect(x, y, w, h float64) { c.pdf.Rect(x, y, w, h, "F") }

func (c *PDFCanvas) Line(x1, y1, x2, y2 float64) { c.pdf.Line(x1, y1, x2, y2) }

func (c *PDFCanvas) StringWidth(s string) float64 { return c.pdf.GetStringWidth(c.tr(s)) }

func (c *PDFCanvas) Err() error {
	if c.pdf.Err() {
		return fmt.Errorf("pdf: %w", c.pdf.Error())
	}
	return nil
}

func (c *PDFCanvas) Output(w io.Writer) error {
	if err := c.Err(); err != nil {
		return err
	}
	return c.pdf.Output(w)
}
