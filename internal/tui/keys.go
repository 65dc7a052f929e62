package tui

import "github.com/charmbracelet/bubbles/key"

type editorKeyMap struct {
	Next        key.Binding
	Prev        key.Binding
	OpenDisplay key.Binding
	OpenPreview key.Binding
	New         key.Binding
	Save        key.Binding
	Paste       key.Binding
	Up          key.Binding
	Down        key.Binding
	Load        key.Binding
	Delete      key.Binding
	Leave       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func newEditorKeyMap() editorKeyMap {
	return editorKeyMap{
		Next:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:        key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		OpenDisplay: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "prompt")),
		OpenPreview: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "preview")),
		New:         key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new script")),
		Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Paste:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "import clipboard")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Load:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open script")),
		Delete:      key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete script")),
		Leave:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to list")),
		Help:        key.NewBinding(key.WithKeys("f1", "?"), key.WithHelp("?/f1", "help")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.OpenDisplay, k.OpenPreview, k.Next, k.Save, k.Help, k.Quit}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Load, k.Delete},
		{k.Next, k.Prev, k.Leave, k.New},
		{k.Save, k.Paste, k.OpenDisplay, k.OpenPreview},
		{k.Help, k.Quit},
	}
}

type displayKeyMap struct {
	Toggle     key.Binding
	Slower     key.Binding
	Faster     key.Binding
	MuchSlower key.Binding
	MuchFaster key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Larger     key.Binding
	Smaller    key.Binding
	MuchLarger key.Binding
	MuchSmall  key.Binding
	Invert     key.Binding
	Back       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newDisplayKeyMap() displayKeyMap {
	return displayKeyMap{
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Slower:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "slower")),
		Faster:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "faster")),
		MuchSlower: key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "slower ×5")),
		MuchFaster: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "faster ×5")),
		ScrollUp:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "scroll down")),
		Larger:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "larger")),
		Smaller:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "smaller")),
		MuchLarger: key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "larger ×2")),
		MuchSmall:  key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "smaller ×2")),
		Invert:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invert")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k displayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Slower, k.Faster, k.Larger, k.Smaller, k.Back}
}

func (k displayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.ScrollUp, k.ScrollDown},
		{k.Slower, k.Faster, k.MuchSlower, k.MuchFaster},
		{k.Larger, k.Smaller, k.MuchLarger, k.MuchSmall},
		{k.Invert, k.Back, k.Help, k.Quit},
	}
}

type previewKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

func newPreviewKeyMap() previewKeyMap {
	return previewKeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k", "pgup"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j", "pgdown"), key.WithHelp("↓/j", "down")),
		Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to editor")),
		Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k previewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

func (k previewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
