package layout

import (
	"math"
	"sort"
)

// Measurer reports the rendered height, in pixels, of content laid out at a
// font level inside a view of the given pixel width.
type Measurer interface {
	Measure(content string, fontLevel, width int) (int, error)
}

// MeasurerFunc adapts a plain function to the Measurer interface.
type MeasurerFunc func(content string, fontLevel, width int) (int, error)

func (f MeasurerFunc) Measure(content string, fontLevel, width int) (int, error) {
	return f(content, fontLevel, width)
}

// BlockKind identifies the markdown block a laid-out line came from.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading
	KindListItem
	KindCode
	KindQuote
	KindRule
	KindTable
)

// Line is one wrapped line of text positioned in pixel space.
type Line struct {
	Text string
	Kind BlockKind
	// HeadingLevel is 1..6 for headings, 0 otherwise.
	HeadingLevel int
	// FontLevel is the effective 1..14 size level used for this line.
	FontLevel int
	Indent    int
	Y         int
	Height    int
}

// Document is the typeset form of a script.
type Document struct {
	Lines  []Line
	Height int
	Width  int
	// Left is the x offset of the centered content column.
	Left      int
	FontLevel int
}

// LineAt returns the index of the first line still visible when the view is
// scrolled to offset y. It returns len(Lines) when nothing is visible.
func (d Document) LineAt(y float64) int {
	return sort.Search(len(d.Lines), func(i int) bool {
		line := d.Lines[i]
		return float64(line.Y+line.Height) > y
	})
}

// VisibleLines returns the lines intersecting [offset, offset+height).
func (d Document) VisibleLines(offset float64, height int) []Line {
	start := d.LineAt(offset)
	bottom := offset + float64(height)
	end := start
	for end < len(d.Lines) && float64(d.Lines[end].Y) < bottom {
		end++
	}
	return d.Lines[start:end]
}

// Metrics holds the geometry rules shared by every layout.
type Metrics struct {
	Padding         int
	MaxContentWidth int
	LineHeightRatio float64
	GlyphRatio      float64
	ListIndent      int
	QuoteIndent     int
}

// DefaultMetrics mirrors the display styling: 32px padding, a 896px reading
// column, relaxed 1.625 leading and half-em glyph advances.
func DefaultMetrics() Metrics {
	return Metrics{
		Padding:         32,
		MaxContentWidth: 896,
		LineHeightRatio: 1.625,
		GlyphRatio:      0.5,
		ListIndent:      32,
		QuoteIndent:     16,
	}
}

var fontSizes = [...]int{8, 10, 12, 14, 16, 18, 20, 24, 30, 36, 48, 60, 72, 96}

const (
	minLevel = 1
	maxLevel = len(fontSizes)
)

// FontPixels returns the font size in pixels for a 1..14 level.
func FontPixels(level int) int {
	return fontSizes[clampLevel(level)-1]
}

func clampLevel(level int) int {
	if level < minLevel {
		return minLevel
	}
	if level > maxLevel {
		return maxLevel
	}
	return level
}

// HeadingLevel returns the font level used for a heading of the given depth
// when body text uses base.
func HeadingLevel(base, depth int) int {
	switch depth {
	case 1:
		return clampLevel(base + 2)
	case 3:
		return clampLevel(base - 1)
	default:
		return clampLevel(base)
	}
}

func (m Metrics) lineHeight(level int) int {
	return int(math.Round(float64(FontPixels(level)) * m.LineHeightRatio))
}

func (m Metrics) columns(widthPx, level int) int {
	advance := float64(FontPixels(level)) * m.GlyphRatio
	cols := int(math.Floor(float64(widthPx) / advance))
	if cols < 1 {
		return 1
	}
	return cols
}

func (m Metrics) contentWidth(viewWidth int) int {
	width := viewWidth - 2*m.Padding
	if width > m.MaxContentWidth {
		width = m.MaxContentWidth
	}
	if width < 1 {
		width = 1
	}
	return width
}

const (
	marginH1    = 32
	marginH2    = 24
	marginMinor = 16
	marginBlock = 24
)

func headingMargin(depth int) int {
	switch depth {
	case 1:
		return marginH1
	case 2:
		return marginH2
	default:
		return marginMinor
	}
}
