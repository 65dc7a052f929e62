package scroll

import "testing"

func TestPaneClampsOffset(t *testing.T) {
	t.Parallel()

	pane := NewPane(600, 200)
	if pane.MaxOffset() != 400 {
		t.Fatalf("MaxOffset() = %v", pane.MaxOffset())
	}
	pane.ScrollBy(-50)
	if pane.Offset() != 0 {
		t.Fatalf("offset should clamp at 0, got %v", pane.Offset())
	}
	pane.ScrollBy(1000)
	if pane.Offset() != 400 || !pane.AtEnd() {
		t.Fatalf("offset should clamp at max, got %v", pane.Offset())
	}
}

func TestPaneResizeKeepsOffsetWhenPossible(t *testing.T) {
	t.Parallel()

	pane := NewPane(1000, 200)
	pane.SetOffset(300)
	pane.Resize(1200, 300)
	if pane.Offset() != 300 {
		t.Fatalf("resize should keep offset, got %v", pane.Offset())
	}
	pane.Resize(400, 300)
	if pane.Offset() != 100 {
		t.Fatalf("resize should clamp offset to the new max, got %v", pane.Offset())
	}
}

func TestPaneShortContentNeverScrolls(t *testing.T) {
	t.Parallel()

	pane := NewPane(100, 200)
	pane.ScrollBy(10)
	if pane.Offset() != 0 || pane.MaxOffset() != 0 || !pane.AtEnd() {
		t.Fatalf("short content: offset %v max %v", pane.Offset(), pane.MaxOffset())
	}
}
