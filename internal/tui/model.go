package tui

import (
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/teleprompter/internal/display"
	"github.com/csheth/teleprompter/internal/estimate"
	"github.com/csheth/teleprompter/internal/importer"
	"github.com/csheth/teleprompter/internal/ipc"
	"github.com/csheth/teleprompter/internal/layout"
	"github.com/csheth/teleprompter/internal/scripts"
	"github.com/csheth/teleprompter/internal/session"
	"github.com/csheth/teleprompter/internal/settings"
	"github.com/csheth/teleprompter/internal/store"
)

// Config wires the terminal front end.
type Config struct {
	Scripts    *scripts.Store
	Settings   *settings.Store
	Sessions   *session.Manager
	Typesetter *layout.Typesetter
	Estimator  *estimate.Estimator
	Importer   *importer.Importer

	// Cell size in pixels; the terminal is mapped onto the pixel model
	// with it.
	CellWidth  int
	CellHeight int

	PreviewStyle  string
	AutoSaveDelay time.Duration

	// InitialSource is a file path or URL imported into the editor at start.
	InitialSource string
}

// Defaults fills the zero fields of cfg with in-memory collaborators.
func (cfg Config) Defaults() Config {
	if cfg.Settings == nil {
		cfg.Settings = settings.NewStore(store.NewMemory())
	}
	if cfg.Scripts == nil {
		cfg.Scripts = scripts.NewStore(store.NewMemory())
	}
	if cfg.Typesetter == nil {
		cfg.Typesetter = layout.NewTypesetter(layout.DefaultMetrics())
	}
	if cfg.Estimator == nil {
		cfg.Estimator = estimate.New(cfg.Typesetter)
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewManager(session.Options{
			Settings:  cfg.Settings,
			Renderer:  cfg.Typesetter,
			Estimator: cfg.Estimator,
			Now:       time.Now,
		})
	}
	if cfg.Importer == nil {
		cfg.Importer = importer.New(importer.Options{})
	}
	if cfg.CellWidth <= 0 {
		cfg.CellWidth = 8
	}
	if cfg.CellHeight <= 0 {
		cfg.CellHeight = 16
	}
	if cfg.AutoSaveDelay <= 0 {
		cfg.AutoSaveDelay = defaultAutoSaveDelay
	}
	if cfg.PreviewStyle == "" {
		cfg.PreviewStyle = "auto"
	}
	return cfg
}

type model struct {
	config Config
	layout pageLayout
	jobs   *jobQueue

	editorKeys  editorKeyMap
	displayKeys displayKeyMap
	previewKeys previewKeyMap
	help        help.Model
	spinner     spinner.Model
	titleInput  textinput.Model
	body        textarea.Model
	preview     viewport.Model

	focus    focus
	scripts  []scripts.Script
	cursor   int
	current  string
	settings settings.Settings

	// generation increases on every edit; only the autosave armed for the
	// latest edit writes.
	generation int
	saved      int

	previewSource string
	previewWidth  int

	infoMessage  string
	errorMessage string
	helpVisible  bool
}

// New builds the root model.
func New(cfg Config) tea.Model {
	return newModel(cfg)
}

func newModel(cfg Config) *model {
	cfg = cfg.Defaults()

	title := textinput.New()
	title.Placeholder = titlePlaceholder
	title.Prompt = "Title: "
	title.CharLimit = 120

	body := textarea.New()
	body.Placeholder = bodyPlaceholder
	body.ShowLineNumbers = false
	body.CharLimit = 0
	body.MaxHeight = 0

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := &model{
		config:      cfg,
		layout:      newPageLayout(),
		jobs:        newJobQueue(),
		editorKeys:  newEditorKeyMap(),
		displayKeys: newDisplayKeyMap(),
		previewKeys: newPreviewKeyMap(),
		help:        help.New(),
		spinner:     spin,
		titleInput:  title,
		body:        body,
		preview:     viewport.New(defaultWidth, defaultHeight-2),
		focus:       focusBody,
		settings:    cfg.Settings.Load(),
	}
	m.body.Focus()
	m.refreshScripts()
	m.applyLayout()
	return m
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if source := strings.TrimSpace(m.config.InitialSource); source != "" {
		m.infoMessage = "Importing " + source + "…"
		cmds = append(cmds, m.runJob(jobKindImport, importJob(m.config.Importer, source)))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if key.Matches(msg, m.editorKeys.Quit) {
			m.config.Sessions.Close()
			return m, tea.Quit
		}
		switch m.config.Sessions.Active() {
		case session.RoleDisplay:
			return m, m.handleDisplayKey(msg)
		case session.RolePreview:
			return m, m.handlePreviewKey(msg)
		default:
			return m, m.handleEditorKey(msg)
		}
	case tea.MouseMsg:
		if m.config.Sessions.Active() == session.RolePreview {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}
		return m, nil
	case timerMsg:
		return m, m.schedule(m.config.Sessions.Fire(msg.tag, msg.at))
	case remoteMsg:
		cmd, err := m.dispatch(msg.msg)
		if msg.reply != nil {
			msg.reply <- err
		}
		return m, cmd
	case autosaveMsg:
		return m, m.autosave(msg.generation)
	case jobDoneMsg:
		m.jobs.finish(msg.id)
		if msg.result == nil {
			return m, nil
		}
		return m.Update(msg.result)
	case importResultMsg:
		m.applyImport(msg)
		if msg.err != nil {
			return m, nil
		}
		return m, m.markDirty()
	case saveResultMsg:
		m.applySave(msg)
		return m, nil
	case deleteResultMsg:
		m.applyDelete(msg)
		return m, nil
	case spinner.TickMsg:
		if !m.jobs.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) resize(width, height int) tea.Cmd {
	m.layout.Update(width, height)
	m.applyLayout()
	w, h := m.layout.viewportPixels(m.config.CellWidth, m.config.CellHeight)
	if w <= 0 || h <= 0 {
		return nil
	}
	cmd, err := m.dispatch(ipc.Message{Kind: ipc.KindUpdateWindowSize, Width: w, Height: h})
	if err != nil {
		log.Printf("[tui] resize: %v", err)
	}
	return cmd
}

func (m *model) applyLayout() {
	m.titleInput.Width = max(m.layout.editorWidth-len(m.titleInput.Prompt)-1, 1)
	m.body.SetWidth(m.layout.editorWidth)
	m.body.SetHeight(m.layout.bodyHeight)
	m.help.Width = m.layout.width
	m.preview.Width = m.layout.width
	m.preview.Height = max(m.layout.height-2, 1)
	if m.config.Sessions.Active() == session.RolePreview {
		m.renderPreview()
	}
}

// dispatch routes msg through the session manager, the single path shared
// by keys and the remote socket.
func (m *model) dispatch(msg ipc.Message) (tea.Cmd, error) {
	before := m.config.Sessions.Active()
	out, err := m.config.Sessions.Dispatch(msg)
	if err != nil {
		m.errorMessage = err.Error()
		return nil, err
	}
	if out.Active != before {
		m.helpVisible = false
		m.help.ShowAll = false
	}
	switch out.Active {
	case session.RoleEditor:
		if before != session.RoleEditor {
			m.settings = m.config.Settings.Load()
		}
	case session.RolePreview:
		m.renderPreview()
	}
	if msg.Kind == ipc.KindUpdateWindowSize {
		m.settings = m.config.Settings.Load()
	}
	return m.schedule(out.Arm), nil
}

// schedule turns armed display timers into ticks.
func (m *model) schedule(tags []display.TimerTag) tea.Cmd {
	if len(tags) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(tags))
	for _, tag := range tags {
		tag := tag
		cmds = append(cmds, tea.Tick(tag.Kind.Interval(), func(at time.Time) tea.Msg {
			return timerMsg{tag: tag, at: at}
		}))
	}
	return tea.Batch(cmds...)
}

func (m *model) View() string {
	switch m.config.Sessions.Active() {
	case session.RoleDisplay:
		return m.displayView()
	case session.RolePreview:
		return m.previewView()
	}
	return m.editorView()
}
