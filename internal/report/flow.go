package report

// Flow tracks the vertical write position on the current page and starts a
// new page when the next block would not fit above the bottom margin.
// INVARIANT: top <= y; y only decreases when a page starts
type Flow struct {
	canvas    Canvas
	y         float64
	top       float64
	bottom    float64
	height    float64
	pages     int
	onNewPage func()
}

// NewFlow starts the first page of c and places the cursor at the top margin.
func NewFlow(c Canvas, topMargin, bottomMargin float64) *Flow {
	_, h := c.PageSize()
	f := &Flow{canvas: c, top: topMargin, bottom: bottomMargin, height: h}
	c.AddPage()
	f.pages = 1
	f.y = topMargin
	return f
}

// OnNewPage registers fn to run after every page break, with the cursor at
// the top margin. Passing nil removes the hook.
func (f *Flow) OnNewPage(fn func()) {
	f.onNewPage = fn
}

// EnsureSpace starts a new page if a block of height h does not fit on the
// current one, and reports whether it did. A page with nothing written on it
// is never abandoned, so a block taller than a whole page is written at the
// top of the page it starts on.
func (f *Flow) EnsureSpace(h float64) bool {
	if f.y+h <= f.Limit() {
		return false
	}
	if f.y <= f.top {
		return false
	}
	f.Break()
	return true
}

// Break starts a new page unconditionally.
func (f *Flow) Break() {
	f.canvas.AddPage()
	f.pages++
	f.y = f.top
	if f.onNewPage != nil {
		f.onNewPage()
	}
}

// Advance moves the cursor down by h. Negative heights are ignored.
func (f *Flow) Advance(h float64) {
	if h > 0 {
		f.y += h
	}
}

// Y returns the cursor position.
func (f *Flow) Y() float64 { return f.y }

// Top returns the top margin.
func (f *Flow) Top() float64 { return f.top }

// Limit returns the lowest y a block may reach on any page.
func (f *Flow) Limit() float64 { return f.height - f.bottom }

// Remaining returns the space left above the bottom margin.
func (f *Flow) Remaining() float64 { return f.Limit() - f.y }

// Pages returns the number of pages started so far.
func (f *Flow) Pages() int { return f.pages }
