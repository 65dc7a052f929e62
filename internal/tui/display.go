package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/csheth/teleprompter/internal/display"
	"github.com/csheth/teleprompter/internal/estimate"
	"github.com/csheth/teleprompter/internal/ipc"
	"github.com/csheth/teleprompter/internal/layout"
)

// displayMessage maps a key on the prompter onto the remote-control
// message that does the same thing.
func (m *model) displayMessage(msg tea.KeyMsg) (ipc.Message, bool) {
	keys := m.displayKeys
	switch {
	case key.Matches(msg, keys.Toggle):
		return ipc.Message{Kind: ipc.KindToggleScroll}, true
	case key.Matches(msg, keys.Slower):
		return ipc.Message{Kind: ipc.KindAdjustSpeed, Delta: -0.1}, true
	case key.Matches(msg, keys.Faster):
		return ipc.Message{Kind: ipc.KindAdjustSpeed, Delta: 0.1}, true
	case key.Matches(msg, keys.MuchSlower):
		return ipc.Message{Kind: ipc.KindAdjustSpeed, Delta: -0.5}, true
	case key.Matches(msg, keys.MuchFaster):
		return ipc.Message{Kind: ipc.KindAdjustSpeed, Delta: 0.5}, true
	case key.Matches(msg, keys.ScrollUp):
		return ipc.Message{Kind: ipc.KindScroll, Direction: ipc.DirectionUp}, true
	case key.Matches(msg, keys.ScrollDown):
		return ipc.Message{Kind: ipc.KindScroll, Direction: ipc.DirectionDown}, true
	case key.Matches(msg, keys.Larger):
		return ipc.Message{Kind: ipc.KindAdjustFont, Delta: 1}, true
	case key.Matches(msg, keys.Smaller):
		return ipc.Message{Kind: ipc.KindAdjustFont, Delta: -1}, true
	case key.Matches(msg, keys.MuchLarger):
		return ipc.Message{Kind: ipc.KindAdjustFont, Delta: 2}, true
	case key.Matches(msg, keys.MuchSmall):
		return ipc.Message{Kind: ipc.KindAdjustFont, Delta: -2}, true
	case key.Matches(msg, keys.Invert):
		return ipc.Message{Kind: ipc.KindInvertColors}, true
	case key.Matches(msg, keys.Back):
		return ipc.Message{Kind: ipc.KindGoBack}, true
	}
	return ipc.Message{}, false
}

func (m *model) handleDisplayKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.displayKeys.Help) {
		m.helpVisible = !m.helpVisible
		m.help.ShowAll = m.helpVisible
		return nil
	}
	out, ok := m.displayMessage(msg)
	if !ok {
		return nil
	}
	cmd, _ := m.dispatch(out)
	return cmd
}

func (m *model) displayView() string {
	ctrl, ok := m.config.Sessions.Display()
	if !ok {
		return ""
	}
	tel := ctrl.Telemetry()
	rows := m.displayRows(ctrl.Document(), ctrl.VisibleLines(), ctrl.Offset())
	if m.helpVisible {
		help := strings.Split(m.help.View(m.displayKeys), "\n")
		start := max(len(rows)-len(help), 0)
		for i, line := range help {
			if start+i < len(rows) {
				rows[start+i] = line
			}
		}
	}

	style := promptStyle
	if tel.Inverted {
		style = invertedStyle
	}
	body := style.
		Width(m.layout.width).
		Height(m.layout.displayRows).
		Render(strings.Join(rows, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, m.statusBar(tel), body)
}

// displayRows projects typeset lines onto terminal rows. Lines that land on
// an occupied row move down one row so none are lost to rounding.
func (m *model) displayRows(doc layout.Document, lines []layout.Line, offset float64) []string {
	rows := make([]string, m.layout.displayRows)
	cellW, cellH := m.config.CellWidth, m.config.CellHeight
	next := 0
	for _, line := range lines {
		row := int(math.Floor((float64(line.Y) - offset) / float64(cellH)))
		if row < next {
			row = next
		}
		if row >= len(rows) {
			break
		}
		col := (doc.Left + line.Indent) / cellW
		if col >= m.layout.width {
			continue
		}
		text := runewidth.Truncate(line.Text, m.layout.width-col, "")
		rows[row] = strings.Repeat(" ", col) + lineStyle(line).Render(text)
		next = row + 1
	}
	return rows
}

func lineStyle(line layout.Line) lipgloss.Style {
	switch line.Kind {
	case layout.KindHeading:
		return headingLine
	case layout.KindCode:
		return codeLine
	case layout.KindQuote:
		return quoteLine
	}
	return lipgloss.NewStyle()
}

func (m *model) statusBar(tel display.Telemetry) string {
	state := "❚❚ paused"
	if tel.State == display.Scrolling {
		state = "▶ scrolling"
	}
	remaining := statusValueStyle.Render(tel.Remaining.String())
	if tel.Remaining.Kind == display.RemainingFinished {
		remaining = finishedMarker.Render(tel.Remaining.String())
	}
	total := "--:--"
	if tel.TotalKnown {
		total = estimate.FormatDuration(tel.Total)
	}
	// Most important first: narrow terminals drop the tail.
	fields := []string{
		statusValueStyle.Render(state),
		statusField("Speed", fmt.Sprintf("%.1f", tel.Speed)),
		statusField("Font", fmt.Sprintf("%d", tel.FontSize)),
		statusKeyStyle.Render("Remaining ") + remaining,
		statusField("Finish", formatClock(tel.Finish)),
		statusField("Time", formatClock(tel.Clock)),
		statusField("Elapsed", estimate.FormatDuration(int(tel.Elapsed/time.Second))),
		statusField("Total", total),
	}
	return statusBarStyle.Width(m.layout.width).MaxHeight(1).Render(strings.Join(fields, statusKeyStyle.Render("  ")))
}

func statusField(label, value string) string {
	return statusKeyStyle.Render(label+" ") + statusValueStyle.Render(value)
}

func formatClock(t time.Time) string {
	if t.IsZero() {
		return "--:--:--"
	}
	return t.Format("15:04:05")
}
