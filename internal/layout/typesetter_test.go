package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mattn/go-runewidth"
)

func newTestTypesetter() *Typesetter {
	return NewTypesetter(DefaultMetrics())
}

func TestLayoutEmptyContentIsOnlyPadding(t *testing.T) {
	t.Parallel()

	doc := newTestTypesetter().Layout("", 7, 400)
	if len(doc.Lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(doc.Lines))
	}
	if doc.Height != 64 {
		t.Fatalf("expected padding-only height 64, got %d", doc.Height)
	}
}

func TestLayoutSingleParagraph(t *testing.T) {
	t.Parallel()

	doc := newTestTypesetter().Layout("Hello world", 7, 400)
	want := []Line{{Text: "Hello world", Kind: KindParagraph, FontLevel: 7, Y: 32, Height: 33}}
	if diff := cmp.Diff(want, doc.Lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	// padding + line + paragraph margin + padding
	if doc.Height != 32+33+24+32 {
		t.Fatalf("unexpected height %d", doc.Height)
	}
}

func TestLayoutHeadingSizes(t *testing.T) {
	t.Parallel()

	doc := newTestTypesetter().Layout("# One\n\n## Two\n\n### Three\n", 7, 800)
	if len(doc.Lines) != 3 {
		t.Fatalf("expected three heading lines, got %d", len(doc.Lines))
	}
	levels := []int{doc.Lines[0].FontLevel, doc.Lines[1].FontLevel, doc.Lines[2].FontLevel}
	if diff := cmp.Diff([]int{9, 7, 6}, levels); diff != "" {
		t.Fatalf("heading levels mismatch (-want +got):\n%s", diff)
	}
	// h1 at 30px has a 49px line and a 32px margin below it.
	if doc.Lines[1].Y != 32+49+32 {
		t.Fatalf("second heading at %d", doc.Lines[1].Y)
	}
}

func TestHeadingLevelClamps(t *testing.T) {
	t.Parallel()

	if got := HeadingLevel(14, 1); got != 14 {
		t.Fatalf("h1 at max base should clamp to 14, got %d", got)
	}
	if got := HeadingLevel(1, 3); got != 1 {
		t.Fatalf("h3 at min base should clamp to 1, got %d", got)
	}
}

func TestLayoutWrapsToColumns(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("teleprompter ", 30)
	doc := newTestTypesetter().Layout(body, 7, 400)
	if len(doc.Lines) < 2 {
		t.Fatalf("expected wrapped paragraph, got %d lines", len(doc.Lines))
	}
	// 336px content width at 10px per glyph.
	for _, line := range doc.Lines {
		if w := runewidth.StringWidth(line.Text); w > 33 {
			t.Fatalf("line %q is %d columns wide", line.Text, w)
		}
	}
	for i := 1; i < len(doc.Lines); i++ {
		if doc.Lines[i].Y != doc.Lines[i-1].Y+doc.Lines[i-1].Height {
			t.Fatalf("lines %d and %d are not stacked", i-1, i)
		}
	}
}

func TestLayoutListMarkers(t *testing.T) {
	t.Parallel()

	doc := newTestTypesetter().Layout("- alpha\n- beta\n\n1. first\n2. second\n", 7, 800)
	var texts []string
	for _, line := range doc.Lines {
		texts = append(texts, line.Text)
		if line.Kind != KindListItem {
			t.Fatalf("line %q has kind %v", line.Text, line.Kind)
		}
		if line.Indent != 32 {
			t.Fatalf("line %q indent %d", line.Text, line.Indent)
		}
	}
	want := []string{"• alpha", "• beta", "1. first", "2. second"}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Fatalf("list lines mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutCodeAndRule(t *testing.T) {
	t.Parallel()

	doc := newTestTypesetter().Layout("```\nline one\nline two\n```\n\n---\n", 7, 400)
	if len(doc.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(doc.Lines))
	}
	if doc.Lines[0].Kind != KindCode || doc.Lines[0].Text != "line one" {
		t.Fatalf("unexpected first line %+v", doc.Lines[0])
	}
	if doc.Lines[2].Kind != KindRule {
		t.Fatalf("expected rule, got %+v", doc.Lines[2])
	}
}

func TestLineAtAndVisibleLines(t *testing.T) {
	t.Parallel()

	doc := Document{Lines: []Line{
		{Text: "a", Y: 0, Height: 10},
		{Text: "b", Y: 10, Height: 10},
		{Text: "c", Y: 20, Height: 10},
	}}
	cases := map[float64]int{0: 0, 9.5: 0, 10: 1, 25: 2, 30: 3}
	for y, want := range cases {
		if got := doc.LineAt(y); got != want {
			t.Fatalf("LineAt(%v) = %d, want %d", y, got, want)
		}
	}
	visible := doc.VisibleLines(5, 10)
	if len(visible) != 2 || visible[0].Text != "a" || visible[1].Text != "b" {
		t.Fatalf("unexpected visible lines %+v", visible)
	}
}

func TestMeasureMatchesLayout(t *testing.T) {
	t.Parallel()

	ts := newTestTypesetter()
	content := "# Title\n\nSome words here.\n"
	height, err := ts.Measure(content, 5, 500)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if height != ts.Layout(content, 5, 500).Height {
		t.Fatal("Measure should report the layout height")
	}
}

func TestLayoutCentersWideColumns(t *testing.T) {
	t.Parallel()

	ts := NewTypesetter(DefaultMetrics())
	if got := ts.Layout("text", 7, 400).Left; got != 32 {
		t.Fatalf("narrow view left = %d, want padding", got)
	}
	if got := ts.Layout("text", 7, 1200).Left; got != (1200-896)/2 {
		t.Fatalf("wide view left = %d, want %d", got, (1200-896)/2)
	}
}
