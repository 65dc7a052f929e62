package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/csheth/teleprompter/internal/importer"
	"github.com/csheth/teleprompter/internal/scripts"
)

func importJob(imp *importer.Importer, source string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 35*time.Second)
		defer cancel()
		script, err := imp.Load(ctx, source)
		return importResultMsg{script: script, err: err}, err
	}
}

func clipboardJob(imp *importer.Importer) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		script, err := imp.FromClipboard()
		return importResultMsg{script: script, err: err}, err
	}
}

func saveScriptJob(store *scripts.Store, script scripts.Script) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		saved, err := store.Save(script)
		return saveResultMsg{script: saved, err: err}, err
	}
}

func deleteScriptJob(store *scripts.Store, id string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		err := store.Delete(id)
		return deleteResultMsg{id: id, err: err}, err
	}
}

// truncateTitle shortens a title for the script list.
func truncateTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Untitled"
	}
	return runewidth.Truncate(title, titleLimit+1, "…")
}
