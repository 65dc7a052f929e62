package tui

import "testing"

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name        string
		width       int
		height      int
		listWidth   int
		editorWidth int
		bodyHeight  int
		displayRows int
	}{
		{name: "standard", width: 80, height: 24, listWidth: 28, editorWidth: 49, bodyHeight: 18, displayRows: 23},
		{name: "narrow", width: 60, height: 10, listWidth: 20, editorWidth: 37, bodyHeight: 4, displayRows: 9},
		{name: "tiny", width: 30, height: 5, listWidth: 16, editorWidth: 20, bodyHeight: 3, displayRows: 4},
		{name: "unsized", width: 0, height: 0, listWidth: 28, editorWidth: 49, bodyHeight: 18, displayRows: 23},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.listWidth != tc.listWidth {
				t.Fatalf("list width mismatch: got %d want %d", layout.listWidth, tc.listWidth)
			}
			if layout.editorWidth != tc.editorWidth {
				t.Fatalf("editor width mismatch: got %d want %d", layout.editorWidth, tc.editorWidth)
			}
			if layout.bodyHeight != tc.bodyHeight {
				t.Fatalf("body height mismatch: got %d want %d", layout.bodyHeight, tc.bodyHeight)
			}
			if layout.displayRows != tc.displayRows {
				t.Fatalf("display rows mismatch: got %d want %d", layout.displayRows, tc.displayRows)
			}
		})
	}
}

func TestViewportPixels(t *testing.T) {
	layout := newPageLayout()
	layout.Update(100, 31)
	w, h := layout.viewportPixels(8, 16)
	if w != 800 || h != 480 {
		t.Fatalf("viewport = %dx%d, want 800x480", w, h)
	}
}
