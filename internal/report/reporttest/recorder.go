// Package reporttest provides an in-memory report.Canvas for deterministic
// layout tests.
package reporttest

import (
	"fmt"
	"io"
	"time"

	"github.com/mattn/go-runewidth"

	"convocation/internal/report"
)

// Op kinds recorded by a Recorder.
const (
	OpPage = "page"
	OpText = "text"
	OpRect = "rect"
	OpLine = "line"
)

// ptToMM converts a font size in points to millimetres.
const ptToMM = 25.4 / 72

// Op is one recorded drawing call.
type Op struct {
	Kind  string
	Page  int
	X, Y  float64
	W, H  float64
	Text  string
	Style string
	Size  float64
	Color [3]int
}

// Recorder is a report.Canvas that keeps every drawing call in memory instead of
// producing a PDF. Glyph widths are approximated as half an em per terminal
// cell, so measurements are stable across machines.
type Recorder struct {
	Orientation string
	Ops         []Op
	// Fail, when set, is returned from Err and Output.
	Fail error

	page  int
	style string
	size  float64
	text  [3]int
	fill  [3]int
	draw  [3]int
}

// NewRecorder returns an empty Recorder with the given orientation.
func NewRecorder(orientation string) *Recorder {
	return &Recorder{Orientation: orientation, size: 10}
}

// Ensure Recorder implements report.Canvas.
var _ report.Canvas = (*Recorder)(nil)

// RecorderFactory returns a CanvasFactory that hands out fresh Recorders and
// remembers the last one created.
func RecorderFactory(last **Recorder) report.CanvasFactory {
	return func(orientation, _ string, _ time.Time) report.Canvas {
		r := NewRecorder(orientation)
		if last != nil {
			*last = r
		}
		return r
	}
}

func (r *Recorder) AddPage() {
	r.page++
	r.Ops = append(r.Ops, Op{Kind: OpPage, Page: r.page})
}

func (r *Recorder) PageSize() (float64, float64) {
	if r.Orientation == report.Landscape {
		return 297, 210
	}
	return 210, 297
}

func (r *Recorder) SetFont(style string, size float64) {
	r.style = style
	r.size = size
}

func (r *Recorder) SetTextColor(red, g, b int) { r.text = [3]int{red, g, b} }

func (r *Recorder) SetFillColor(red, g, b int) { r.fill = [3]int{red, g, b} }

func (r *Recorder) SetDrawColor(red, g, b int) { r.draw = [3]int{red, g, b} }

func (r *Recorder) Text(x, y float64, s string) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Page: r.page, X: x, Y: y, Text: s, Style: r.style, Size: r.size, Color: r.text})
}

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.Ops = append(r.Ops, Op{Kind: OpRect, Page: r.page, X: x, Y: y, W: w, H: h, Color: r.fill})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Page: r.page, X: x1, Y: y1, W: x2 - x1, H: y2 - y1, Color: r.draw})
}

func (r *Recorder) StringWidth(s string) float64 {
	return float64(runewidth.StringWidth(s)) * r.size * ptToMM * 0.5
}

func (r *Recorder) Err() error { return r.Fail }

// Output writes one line per recorded op.
func (r *Recorder) Output(w io.Writer) error {
	if r.Fail != nil {
		return r.Fail
	}
	for _, op := range r.Ops {
		if _, err := fmt.Fprintf(w, "%s %d %.2f %.2f %.2f %.2f %q %s %.1f %v\n",
			op.Kind, op.Page, op.X, op.Y, op.W, op.H, op.Text, op.Style, op.Size, op.Color); err != nil {
			return err
		}
	}
	return nil
}

// Pages returns the number of pages added.
func (r *Recorder) Pages() int { return r.page }

// Texts returns the text ops, in drawing order.
func (r *Recorder) Texts() []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op)
		}
	}
	return out
}

// CountText returns how many times s was drawn on each page, keyed by page.
func (r *Recorder) CountText(s string) map[int]int {
	counts := make(map[int]int)
	for _, op := range r.Ops {
		if op.Kind == OpText && op.Text == s {
			counts[op.Page]++
		}
	}
	return counts
}
