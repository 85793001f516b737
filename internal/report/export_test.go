package report

// Layout internals shared with the external report_test package.
var (
	MarginLeft   = marginLeft
	MarginRight  = marginRight
	TopMargin    = topMargin
	BottomMargin = bottomMargin
	TextIndent   = textIndent
	CellPadding  = cellPadding
	CellFontSize = cellFontSize
	TableWidth   = tableWidth
	WrapCells    = wrapCells
	RowHeight    = rowHeight
	MaxLines     = maxLines
)
