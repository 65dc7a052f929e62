package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/teleprompter/internal/ipc"
	"github.com/csheth/teleprompter/internal/session"
)

func (m *model) handlePreviewKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.previewKeys.Back) {
		cmd, _ := m.dispatch(ipc.Message{Kind: ipc.KindOpenEditor})
		return cmd
	}
	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return cmd
}

// renderPreview refreshes the viewport when the previewed text or the
// width changed.
func (m *model) renderPreview() {
	s, ok := m.config.Sessions.Session(session.RolePreview)
	if !ok {
		return
	}
	width := max(m.layout.width-2, minEditorWidth)
	if s.Content == m.previewSource && width == m.previewWidth {
		return
	}
	rendered, err := renderMarkdown(s.Content, width, m.config.PreviewStyle)
	if err != nil {
		m.errorMessage = "Preview failed: " + err.Error()
		rendered = wordwrap.String(s.Content, width)
	}
	if s.Content != m.previewSource {
		m.preview.GotoTop()
	}
	m.preview.SetContent(rendered)
	m.previewSource = s.Content
	m.previewWidth = width
}

func renderMarkdown(raw string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
	}
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	case "dark", "light", "notty":
		opts = append(opts, glamour.WithStandardStyle(strings.ToLower(strings.TrimSpace(style))))
	default:
		if _, err := os.Stat(style); err == nil {
			opts = append(opts, glamour.WithStylesFromJSONFile(style))
		} else {
			opts = append(opts, glamour.WithAutoStyle())
		}
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(raw)
}

func (m *model) previewView() string {
	header := joinNonEmpty("  ",
		titleStyle.Render("Preview"),
		helperStyle.Render("est. "+m.estimateLabel(m.previewSource)),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.preview.View(),
		m.help.View(m.previewKeys),
	)
}
