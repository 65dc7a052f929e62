package session

import (
	"fmt"
	"log"
	"time"

	"github.com/csheth/teleprompter/internal/display"
	"github.com/csheth/teleprompter/internal/estimate"
	"github.com/csheth/teleprompter/internal/ipc"
	"github.com/csheth/teleprompter/internal/settings"
)

// Role names one of the three windows of the app.
type Role int

const (
	RoleEditor Role = iota
	RoleDisplay
	RolePreview
)

func (r Role) String() string {
	switch r {
	case RoleEditor:
		return "editor"
	case RoleDisplay:
		return "display"
	case RolePreview:
		return "preview"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Session is the state owned by one role. Controller is set only for the
// display role.
type Session struct {
	Role       Role
	Content    string
	Controller *display.Controller
}

// Options wires a Manager.
type Options struct {
	Settings  *settings.Store
	Renderer  display.Renderer
	Estimator *estimate.Estimator
	Now       func() time.Time
}

// Outcome reports the effect of a dispatched message on the host.
type Outcome struct {
	Active Role
	// Arm lists display timers the host must schedule.
	Arm []display.TimerTag
}

// Manager owns one session per role and routes messages to them. Like the
// controller it is driven from a single goroutine.
type Manager struct {
	settings  *settings.Store
	renderer  display.Renderer
	estimator *estimate.Estimator
	now       func() time.Time

	sessions map[Role]*Session
	active   Role
	width    int
	height   int
}

func NewManager(opts Options) *Manager {
	m := &Manager{
		settings:  opts.Settings,
		renderer:  opts.Renderer,
		estimator: opts.Estimator,
		now:       opts.Now,
		sessions:  map[Role]*Session{RoleEditor: {Role: RoleEditor}},
		active:    RoleEditor,
	}
	current := opts.Settings.Load()
	m.width, m.height = current.WindowWidth, current.WindowHeight
	return m
}

// Session looks up the session for role.
func (m *Manager) Session(role Role) (*Session, bool) {
	s, ok := m.sessions[role]
	return s, ok
}

// Active is the role currently shown.
func (m *Manager) Active() Role {
	return m.active
}

// Display returns the live display controller, if any.
func (m *Manager) Display() (*display.Controller, bool) {
	s, ok := m.sessions[RoleDisplay]
	if !ok {
		return nil, false
	}
	return s.Controller, true
}

// Viewport is the last reported window size in pixels.
func (m *Manager) Viewport() (int, int) {
	return m.width, m.height
}

// Dispatch applies msg. Remote-control messages without a display are
// ignored.
func (m *Manager) Dispatch(msg ipc.Message) (Outcome, error) {
	if err := msg.Validate(); err != nil {
		return m.outcome(nil), err
	}
	switch msg.Kind {
	case ipc.KindOpenDisplay:
		return m.outcome(m.openDisplay(msg.Content)), nil
	case ipc.KindOpenPreview:
		m.openPreview(msg.Content)
		return m.outcome(nil), nil
	case ipc.KindOpenEditor:
		m.closeWindows()
		return m.outcome(nil), nil
	case ipc.KindUpdateWindowSize:
		return m.outcome(m.resize(msg.Width, msg.Height)), nil
	case ipc.KindSetText:
		return m.outcome(m.setText(msg.Content)), nil
	}

	ctrl, ok := m.Display()
	if !ok {
		if msg.Kind == ipc.KindGoBack {
			m.closeWindows()
		}
		log.Printf("[session] %s ignored: no display open", msg.Kind)
		return m.outcome(nil), nil
	}
	cmd, ok := display.FromMessage(msg)
	if !ok {
		return m.outcome(nil), fmt.Errorf("session: %s is not a display command", msg.Kind)
	}
	res := ctrl.Handle(cmd)
	if res.Back {
		m.closeWindows()
	}
	return m.outcome(res.Arm), nil
}

// Fire forwards an expired display timer.
func (m *Manager) Fire(tag display.TimerTag, now time.Time) []display.TimerTag {
	ctrl, ok := m.Display()
	if !ok {
		return nil
	}
	return ctrl.Fire(tag, now).Arm
}

// Close tears down every window session.
func (m *Manager) Close() {
	m.closeWindows()
}

func (m *Manager) openDisplay(content string) []display.TimerTag {
	delete(m.sessions, RolePreview)
	m.active = RoleDisplay
	if s, ok := m.sessions[RoleDisplay]; ok {
		s.Content = content
		s.Controller.Handle(display.SetText{Content: content})
		return nil
	}
	ctrl := display.New(display.Config{
		Settings:  m.settings.Load(),
		Content:   content,
		Renderer:  m.renderer,
		Estimator: m.estimator,
		Saver:     m.settings,
		Now:       m.now,
	})
	m.sessions[RoleDisplay] = &Session{Role: RoleDisplay, Content: content, Controller: ctrl}
	return ctrl.Mount(m.width, m.height).Arm
}

func (m *Manager) openPreview(content string) {
	m.teardownDisplay()
	m.active = RolePreview
	if s, ok := m.sessions[RolePreview]; ok {
		s.Content = content
		return
	}
	m.sessions[RolePreview] = &Session{Role: RolePreview, Content: content}
}

func (m *Manager) setText(content string) []display.TimerTag {
	if s, ok := m.sessions[RoleDisplay]; ok {
		s.Content = content
		return s.Controller.Handle(display.SetText{Content: content}).Arm
	}
	if s, ok := m.sessions[RolePreview]; ok {
		s.Content = content
	}
	return nil
}

func (m *Manager) resize(width, height int) []display.TimerTag {
	m.width, m.height = width, height
	if _, err := m.settings.Update(func(s *settings.Settings) {
		s.WindowWidth, s.WindowHeight = width, height
	}); err != nil {
		log.Printf("[session] save window size: %v", err)
	}
	if ctrl, ok := m.Display(); ok {
		return ctrl.Handle(display.Resize{Width: width, Height: height}).Arm
	}
	return nil
}

func (m *Manager) closeWindows() {
	m.teardownDisplay()
	delete(m.sessions, RolePreview)
	m.active = RoleEditor
}

func (m *Manager) teardownDisplay() {
	if s, ok := m.sessions[RoleDisplay]; ok {
		s.Controller.Teardown()
		delete(m.sessions, RoleDisplay)
	}
}

func (m *Manager) outcome(arm []display.TimerTag) Outcome {
	return Outcome{Active: m.active, Arm: arm}
}
