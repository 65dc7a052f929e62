package session

import (
	"testing"
	"time"

	"github.com/csheth/teleprompter/internal/display"
	"github.com/csheth/teleprompter/internal/ipc"
	"github.com/csheth/teleprompter/internal/layout"
	"github.com/csheth/teleprompter/internal/settings"
	"github.com/csheth/teleprompter/internal/store"
)

type tallRenderer struct{}

func (tallRenderer) Layout(content string, fontLevel, width int) layout.Document {
	return layout.Document{Height: 100 * len(content), Width: width, FontLevel: fontLevel}
}

func newManager(t *testing.T) (*Manager, *settings.Store) {
	t.Helper()
	st := settings.NewStore(store.NewMemory())
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	m := NewManager(Options{
		Settings: st,
		Renderer: tallRenderer{},
		Now:      func() time.Time { return now },
	})
	return m, st
}

func mustDispatch(t *testing.T, m *Manager, msg ipc.Message) Outcome {
	t.Helper()
	out, err := m.Dispatch(msg)
	if err != nil {
		t.Fatalf("Dispatch(%s) error = %v", msg.Kind, err)
	}
	return out
}

func TestOpenDisplayMountsController(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)
	if m.Active() != RoleEditor {
		t.Fatalf("initial role = %s", m.Active())
	}
	out := mustDispatch(t, m, ipc.Message{Kind: ipc.KindOpenDisplay, Content: "abcdef"})
	if out.Active != RoleDisplay {
		t.Fatalf("active = %s, want display", out.Active)
	}
	if len(out.Arm) != 1 || out.Arm[0].Kind != display.TimerClock {
		t.Fatalf("opening should arm the clock, got %+v", out.Arm)
	}
	ctrl, ok := m.Display()
	if !ok || !ctrl.Mounted() {
		t.Fatal("display controller not mounted")
	}
	if ctrl.MaxOffset() != 600-settings.DefaultWindowHeight {
		t.Fatalf("controller should use the persisted window size, max = %v", ctrl.MaxOffset())
	}

	// A second open updates the text in place.
	mustDispatch(t, m, ipc.Message{Kind: ipc.KindScroll, Direction: ipc.DirectionDown})
	again := mustDispatch(t, m, ipc.Message{Kind: ipc.KindOpenDisplay, Content: "abcdefgh"})
	same, _ := m.Display()
	if same != ctrl || len(again.Arm) != 0 {
		t.Fatal("reopening should reuse the existing session")
	}
	if ctrl.Content() != "abcdefgh" || ctrl.Offset() != 100 {
		t.Fatalf("reopen should set text without resetting position: %q at %v", ctrl.Content(), ctrl.Offset())
	}
}

func TestRemoteCommandsReachDisplay(t *testing.T) {
	t.Parallel()

	m, st := newManager(t)
	mustDispatch(t, m, ipc.Message{Kind: ipc.KindOpenDisplay, Content: "abcdef"})

	out := mustDispatch(t, m, ipc.Message{Kind: ipc.KindToggleScroll})
	if len(out.Arm) != 2 {
		t.Fatalf("toggle should arm scroll and recompute timers, got %+v", out.Arm)
	}
	mustDispatch(t, m, ipc.Message{Kind: ipc.KindAdjustSpeed, Delta: 0.5})
	mustDispatch(t, m, ipc.Message{Kind: ipc.KindAdjustFont, Delta: 2})
	mustDispatch(t, m, ipc.Message{Kind: ipc.KindInvertColors})

	ctrl, _ := m.Display()
	if ctrl.State() != display.Scrolling || !ctrl.Inverted() {
		t.Fatalf("state %s inverted %v", ctrl.State(), ctrl.Inverted())
	}
	saved := st.Load()
	if saved.Speed != 1.5 || saved.FontSize != settings.DefaultFontSize+2 {
		t.Fatalf("adjustments not persisted: %+v", saved)
	}

	tag := out.Arm[0]
	if next := m.Fire(tag, time.Date(2024, 5, 1, 9, 0, 1, 0, time.UTC)); len(next) != 1 {
		t.Fatalf("live tag should re-arm, got %+v", next)
	}
}

func TestGoBackTearsDownDisplay(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)
	open := mustDispatch(t, m, ipc.Message{Kind: ipc.KindOpenDisplay, Content: "abcdef"})
	start := mustDispatch(t, m, ipc.Message{Kind: ipc.KindToggleScroll})
	ctrl, _ := m.Display()

	out := mustDispatch(t, m, ipc.Message{Kind: ipc.KindGoBack})
	if out.Active != RoleEditor {
		t.Fatalf("active = %s, want editor", out.Active)
	}
	if _, ok := m.Display(); ok {
		t.Fatal("display session should be gone")
	}
	for _, kind := range []display.TimerKind{display.TimerScroll, display.TimerRemaining, display.TimerClock} {
		if ctrl.Armed(kind) {
			t.Fatalf("%s timer survived go-back", kind)
		}
	}
	for _, tag := range append(open.Arm, start.Arm...) {
		if next := m.Fire(tag, time.Now()); next != nil {
			t.Fatalf("timer %s fired after teardown", tag.Kind)
		}
	}
}

func TestRemoteWithoutDisplayIsNoop(t *testing.T) {
	t.Parallel()

	m, st := newManager(t)
	out := mustDispatch(t, m, ipc.Message{Kind: ipc.KindAdjustSpeed, Delta: 1})
	if out.Active != RoleEditor || len(out.Arm) != 0 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if st.Load().Speed != settings.DefaultSpeed {
		t.Fatal("speed changed without a display")
	}
}

func TestPreviewAndSetTextRouting(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)
	mustDispatch(t, m, ipc.Message{Kind: ipc.KindOpenPreview, Content: "draft"})
	if m.Active() != RolePreview {
		t.Fatalf("active = %s", m.Active())
	}
	mustDispatch(t, m, ipc.Message{Kind: ipc.KindSetText, Content: "revised"})
	preview, _ := m.Session(RolePreview)
	if preview.Content != "revised" {
		t.Fatalf("preview content = %q", preview.Content)
	}

	mustDispatch(t, m, ipc.Message{Kind: ipc.KindOpenDisplay, Content: "abc"})
	if _, ok := m.Session(RolePreview); ok {
		t.Fatal("opening the display should close the preview")
	}
	mustDispatch(t, m, ipc.Message{Kind: ipc.KindSetText, Content: "abcd"})
	ctrl, _ := m.Display()
	if ctrl.Content() != "abcd" {
		t.Fatalf("set-text should prefer the display, got %q", ctrl.Content())
	}

	mustDispatch(t, m, ipc.Message{Kind: ipc.KindOpenEditor})
	if m.Active() != RoleEditor {
		t.Fatalf("active = %s", m.Active())
	}
	if _, ok := m.Session(RoleEditor); !ok {
		t.Fatal("editor session must always exist")
	}
}

func TestUpdateWindowSizePersistsAndResizes(t *testing.T) {
	t.Parallel()

	m, st := newManager(t)
	mustDispatch(t, m, ipc.Message{Kind: ipc.KindOpenDisplay, Content: "abcdef"})
	mustDispatch(t, m, ipc.Message{Kind: ipc.KindUpdateWindowSize, Width: 800, Height: 500})

	saved := st.Load()
	if saved.WindowWidth != 800 || saved.WindowHeight != 500 {
		t.Fatalf("window size not persisted: %+v", saved)
	}
	ctrl, _ := m.Display()
	if ctrl.MaxOffset() != 100 {
		t.Fatalf("display not resized, max = %v", ctrl.MaxOffset())
	}
	if w, h := m.Viewport(); w != 800 || h != 500 {
		t.Fatalf("viewport = %dx%d", w, h)
	}
}

func TestDispatchRejectsInvalidMessages(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)
	if _, err := m.Dispatch(ipc.Message{Kind: ipc.KindUpdateWindowSize}); err == nil {
		t.Fatal("expected validation error")
	}
}
