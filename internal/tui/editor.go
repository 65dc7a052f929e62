package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"

	"github.com/csheth/teleprompter/internal/estimate"
	"github.com/csheth/teleprompter/internal/ipc"
	"github.com/csheth/teleprompter/internal/scripts"
)

func (m *model) handleEditorKey(msg tea.KeyMsg) tea.Cmd {
	keys := m.editorKeys
	switch {
	case key.Matches(msg, keys.OpenDisplay):
		return m.openWindow(ipc.KindOpenDisplay)
	case key.Matches(msg, keys.OpenPreview):
		return m.openWindow(ipc.KindOpenPreview)
	case key.Matches(msg, keys.Next):
		m.setFocus((m.focus + 1) % focusCount)
		return nil
	case key.Matches(msg, keys.Prev):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return nil
	case key.Matches(msg, keys.New):
		m.clearEditor()
		m.setFocus(focusTitle)
		return nil
	case key.Matches(msg, keys.Save):
		return m.saveNow()
	case key.Matches(msg, keys.Paste):
		m.errorMessage = ""
		m.infoMessage = "Reading clipboard…"
		return m.runJob(jobKindImport, clipboardJob(m.config.Importer))
	case key.Matches(msg, keys.Leave):
		m.setFocus(focusList)
		return nil
	}

	switch m.focus {
	case focusList:
		return m.handleListKey(msg)
	case focusTitle:
		before := m.titleInput.Value()
		var cmd tea.Cmd
		m.titleInput, cmd = m.titleInput.Update(msg)
		if m.titleInput.Value() != before {
			return tea.Batch(cmd, m.markDirty())
		}
		return cmd
	default:
		before := m.body.Value()
		var cmd tea.Cmd
		m.body, cmd = m.body.Update(msg)
		if m.body.Value() != before {
			return tea.Batch(cmd, m.markDirty())
		}
		return cmd
	}
}

func (m *model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	keys := m.editorKeys
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.scripts)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Load):
		m.loadSelected()
	case key.Matches(msg, keys.Delete):
		if len(m.scripts) == 0 {
			return nil
		}
		target := m.scripts[m.cursor]
		m.infoMessage = fmt.Sprintf("Deleting %q…", truncateTitle(target.Title))
		return m.runJob(jobKindDelete, deleteScriptJob(m.config.Scripts, target.ID))
	case key.Matches(msg, keys.Help):
		m.helpVisible = !m.helpVisible
		m.help.ShowAll = m.helpVisible
	}
	return nil
}

func (m *model) openWindow(kind ipc.Kind) tea.Cmd {
	content := m.body.Value()
	if strings.TrimSpace(content) == "" {
		m.errorMessage = "Write or import a script first."
		return nil
	}
	m.errorMessage = ""
	cmd, _ := m.dispatch(ipc.Message{Kind: kind, Content: content})
	return cmd
}

func (m *model) setFocus(f focus) {
	m.focus = f
	m.titleInput.Blur()
	m.body.Blur()
	switch f {
	case focusTitle:
		m.titleInput.Focus()
	case focusBody:
		m.body.Focus()
	}
}

func (m *model) draft() scripts.Script {
	return scripts.Script{
		ID:      m.current,
		Title:   strings.TrimSpace(m.titleInput.Value()),
		Content: m.body.Value(),
	}
}

// markDirty arms the debounced autosave for the current edit.
func (m *model) markDirty() tea.Cmd {
	m.generation++
	generation := m.generation
	return tea.Tick(m.config.AutoSaveDelay, func(time.Time) tea.Msg {
		return autosaveMsg{generation: generation}
	})
}

func (m *model) autosave(generation int) tea.Cmd {
	if generation != m.generation || generation == m.saved {
		return nil
	}
	script := m.draft()
	if !scripts.Ready(script) {
		return nil
	}
	return m.save(script)
}

func (m *model) saveNow() tea.Cmd {
	script := m.draft()
	if !scripts.Ready(script) {
		m.errorMessage = "Add a title and some text before saving."
		return nil
	}
	return m.save(script)
}

func (m *model) save(script scripts.Script) tea.Cmd {
	// New drafts get their id up front so overlapping saves update one
	// record.
	if script.ID == "" {
		script.ID = uuid.NewString()
		m.current = script.ID
	}
	m.saved = m.generation
	return m.runJob(jobKindSave, saveScriptJob(m.config.Scripts, script))
}

func (m *model) applySave(msg saveResultMsg) {
	if msg.err != nil {
		m.errorMessage = "Save failed: " + msg.err.Error()
		return
	}
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Saved %q.", truncateTitle(msg.script.Title))
	m.refreshScripts()
	for i, s := range m.scripts {
		if s.ID == msg.script.ID {
			m.cursor = i
		}
	}
}

func (m *model) applyDelete(msg deleteResultMsg) {
	if msg.err != nil {
		m.errorMessage = "Delete failed: " + msg.err.Error()
		return
	}
	m.infoMessage = "Script deleted."
	if msg.id == m.current {
		m.clearEditor()
	}
	m.refreshScripts()
}

func (m *model) applyImport(msg importResultMsg) {
	if msg.err != nil {
		m.infoMessage = ""
		m.errorMessage = "Import failed: " + msg.err.Error()
		return
	}
	m.clearEditor()
	m.titleInput.SetValue(msg.script.Title)
	m.body.SetValue(msg.script.Content)
	m.setFocus(focusBody)
	m.errorMessage = ""
	m.infoMessage = "Imported from " + msg.script.Source + "."
}

func (m *model) loadSelected() {
	if len(m.scripts) == 0 {
		return
	}
	script := m.scripts[m.cursor]
	m.current = script.ID
	m.titleInput.SetValue(script.Title)
	m.body.SetValue(script.Content)
	m.generation++
	m.saved = m.generation
	m.setFocus(focusBody)
	m.infoMessage = fmt.Sprintf("Opened %q.", truncateTitle(script.Title))
}

func (m *model) clearEditor() {
	m.current = ""
	m.titleInput.SetValue("")
	m.body.SetValue("")
	m.generation++
	m.saved = m.generation
}

func (m *model) refreshScripts() {
	list, err := m.config.Scripts.List()
	if err != nil {
		m.errorMessage = "Could not load scripts: " + err.Error()
		return
	}
	m.scripts = list
	if m.cursor >= len(list) {
		m.cursor = max(len(list)-1, 0)
	}
}

// estimateLabel formats the scroll time of content under the saved
// settings.
func (m *model) estimateLabel(content string) string {
	if strings.TrimSpace(content) == "" {
		return "--:--"
	}
	s := m.settings
	seconds, ok := m.config.Estimator.Estimate(content, s.FontSize, s.Speed, s.WindowWidth, s.WindowHeight)
	if !ok {
		return "--:--"
	}
	return estimate.FormatDuration(seconds)
}

func (m *model) editorView() string {
	header := joinNonEmpty("  ",
		titleStyle.Render("Teleprompter"),
		helperStyle.Render(fmt.Sprintf("speed %.1f · font %d · est. %s",
			m.settings.Speed, m.settings.FontSize, m.estimateLabel(m.body.Value()))),
	)

	listPane := lipgloss.NewStyle().
		Width(m.layout.listWidth).
		Height(m.layout.bodyHeight + 2).
		Render(m.listView())
	editorPane := lipgloss.JoinVertical(lipgloss.Left,
		m.titleInput.View(),
		"",
		m.body.View(),
	)
	panes := lipgloss.JoinHorizontal(lipgloss.Top, listPane, strings.Repeat(" ", paneGap), editorPane)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		panes,
		m.statusLine(),
		m.help.View(m.editorKeys),
	)
}

func (m *model) listView() string {
	heading := helperStyle.Render("Scripts")
	if m.focus == focusList {
		heading = focusedPaneStyle.Render("Scripts")
	}
	if len(m.scripts) == 0 {
		return heading + "\n" + helperStyle.Render(wrapMessage(emptyListHint, m.layout.listWidth))
	}
	rows := []string{heading}
	for i, s := range m.scripts {
		marker := "  "
		if i == m.cursor {
			marker = "▸ "
		}
		title := runewidth.FillRight(truncateTitle(s.Title), titleLimit+1)
		row := runewidth.Truncate(marker+title+" "+m.estimateLabel(s.Content), m.layout.listWidth, "")
		switch {
		case i == m.cursor && m.focus == focusList:
			row = selectedStyle.Render(row)
		case s.ID == m.current:
			row = badgeStyle.Render(row)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m *model) statusLine() string {
	var prefix string
	if m.jobs.busy() {
		prefix = m.spinner.View()
	}
	switch {
	case m.errorMessage != "":
		return joinNonEmpty(" ", prefix, errorStyle.Render(m.errorMessage))
	case m.infoMessage != "":
		return joinNonEmpty(" ", prefix, infoStyle.Render(m.infoMessage))
	}
	return prefix
}
