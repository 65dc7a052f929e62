package scroll

import "math"

// Pane is a scrollable region: content taller than the view can be moved
// between 0 and MaxOffset.
type Pane struct {
	contentHeight float64
	viewHeight    float64
	offset        float64
}

func NewPane(contentHeight, viewHeight float64) *Pane {
	return &Pane{contentHeight: contentHeight, viewHeight: viewHeight}
}

// Resize updates both heights and re-clamps the offset. The offset is
// otherwise kept across reflow.
func (p *Pane) Resize(contentHeight, viewHeight float64) {
	p.contentHeight = contentHeight
	p.viewHeight = viewHeight
	p.offset = p.clamp(p.offset)
}

func (p *Pane) ContentHeight() float64 {
	return p.contentHeight
}

func (p *Pane) ViewHeight() float64 {
	return p.viewHeight
}

// MaxOffset is the scrollable distance: content height minus view height.
func (p *Pane) MaxOffset() float64 {
	return math.Max(0, p.contentHeight-p.viewHeight)
}

func (p *Pane) Offset() float64 {
	return p.offset
}

func (p *Pane) SetOffset(offset float64) {
	p.offset = p.clamp(offset)
}

func (p *Pane) ScrollBy(delta float64) {
	p.offset = p.clamp(p.offset + delta)
}

// AtEnd reports whether the pane has scrolled to its last position.
func (p *Pane) AtEnd() bool {
	return math.Ceil(p.offset) >= p.MaxOffset()
}

func (p *Pane) clamp(offset float64) float64 {
	if offset < 0 || math.IsNaN(offset) {
		return 0
	}
	if max := p.MaxOffset(); offset > max {
		return max
	}
	return offset
}
