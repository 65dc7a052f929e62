package tui

import "github.com/muesli/reflow/wordwrap"

const (
	defaultWidth   = 80
	defaultHeight  = 24
	wideListWidth  = 28
	minListWidth   = 16
	minEditorWidth = 20
	minBodyHeight  = 3
	paneGap        = 3
)

// pageLayout splits the terminal between the script list, the editor and
// the chrome rows. The display uses every row but the status bar.
type pageLayout struct {
	width       int
	height      int
	listWidth   int
	editorWidth int
	bodyHeight  int
	displayRows int
}

func newPageLayout() pageLayout {
	l := pageLayout{}
	l.Update(defaultWidth, defaultHeight)
	return l
}

func (l *pageLayout) Update(width, height int) {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	l.width = width
	l.height = height

	l.listWidth = wideListWidth
	if width < 80 {
		l.listWidth = max(width/3, minListWidth)
	}
	l.editorWidth = max(width-l.listWidth-paneGap, minEditorWidth)

	// header, gap, title input, gap, status, help
	const chrome = 6
	l.bodyHeight = max(height-chrome, minBodyHeight)
	l.displayRows = max(height-1, 1)
}

// viewportPixels maps the display area onto the pixel model.
func (l pageLayout) viewportPixels(cellWidth, cellHeight int) (int, int) {
	return l.width * cellWidth, l.displayRows * cellHeight
}

func wrapMessage(text string, width int) string {
	if width < minEditorWidth {
		width = minEditorWidth
	}
	return wordwrap.String(text, width)
}
