package display

import (
	"log"
	"math"
	"time"

	"github.com/csheth/teleprompter/internal/estimate"
	"github.com/csheth/teleprompter/internal/layout"
	"github.com/csheth/teleprompter/internal/scroll"
	"github.com/csheth/teleprompter/internal/settings"
)

// State is the controller's scroll state.
type State int

const (
	Paused State = iota
	Scrolling
)

func (s State) String() string {
	if s == Scrolling {
		return "scrolling"
	}
	return "paused"
}

// Renderer lays a script out for a view width in pixels.
type Renderer interface {
	Layout(content string, fontLevel, width int) layout.Document
}

// SettingsSaver persists adjustments. Update must only touch the fields
// fn changes so concurrent writers of other fields are not clobbered.
type SettingsSaver interface {
	Update(fn func(*settings.Settings)) (settings.Settings, error)
}

// Config wires a Controller. Estimator, Saver and Now are optional.
type Config struct {
	Settings  settings.Settings
	Content   string
	Renderer  Renderer
	Estimator *estimate.Estimator
	Saver     SettingsSaver
	Now       func() time.Time
}

// Result tells the host what to do after a command or timer.
type Result struct {
	// Arm lists timers the host must schedule, each after Kind.Interval().
	Arm []TimerTag
	// Back asks the host to close the display and return to the editor.
	Back bool
}

// Controller is the display state machine. It is not safe for concurrent
// use; the host serializes commands and timer firings.
type Controller struct {
	renderer  Renderer
	estimator *estimate.Estimator
	saver     SettingsSaver
	now       func() time.Time

	settings settings.Settings
	content  string
	state    State
	inverted bool

	mounted bool
	width   int
	height  int
	doc     layout.Document
	pane    *scroll.Pane
	engine  *scroll.Engine
	timers  timerSet

	remaining  Remaining
	total      int
	totalKnown bool

	clock          time.Time
	lastTick       time.Time
	scrollingSince time.Time
	elapsed        time.Duration
}

func New(cfg Config) *Controller {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	current := cfg.Settings.Normalized()
	return &Controller{
		renderer:  cfg.Renderer,
		estimator: cfg.Estimator,
		saver:     cfg.Saver,
		now:       now,
		settings:  current,
		content:   cfg.Content,
		pane:      scroll.NewPane(0, 0),
		engine:    scroll.NewEngine(current.Speed),
	}
}

// Mount binds the controller to a viewport of width x height pixels and
// starts the wall clock. Mounting an already mounted controller resizes it.
func (c *Controller) Mount(width, height int) Result {
	if c.mounted {
		return c.Handle(Resize{Width: width, Height: height})
	}
	c.mounted = true
	c.width, c.height = width, height
	c.relayout()
	c.engine.Bind(c.pane)
	c.clock = c.now().Truncate(time.Second)
	c.refreshTotal()
	c.recompute()
	return Result{Arm: []TimerTag{c.timers.arm(TimerClock)}}
}

// Handle applies one command.
func (c *Controller) Handle(cmd Command) Result {
	switch cmd := cmd.(type) {
	case ToggleScroll:
		if !c.mounted {
			return Result{}
		}
		if c.state == Paused {
			return c.start()
		}
		c.pause()
	case AdjustSpeed:
		speed := settings.ClampSpeed(c.settings.Speed + cmd.Delta)
		c.settings.Speed = speed
		c.engine.SetSpeed(speed)
		c.persist(func(s *settings.Settings) { s.Speed = speed })
		c.refreshTotal()
		c.recompute()
	case AdjustFontSize:
		level := settings.ClampFontSize(c.settings.FontSize + cmd.Delta)
		if level != c.settings.FontSize {
			c.settings.FontSize = level
			c.relayout()
			c.persist(func(s *settings.Settings) { s.FontSize = level })
			c.refreshTotal()
		}
		c.recompute()
	case ManualScroll:
		c.engine.ManualScroll(float64(cmd.Direction) * ManualScrollStep)
		c.recompute()
	case InvertColors:
		c.inverted = !c.inverted
	case SetText:
		c.content = cmd.Content
		c.relayout()
		c.refreshTotal()
		c.recompute()
	case Back:
		c.Teardown()
		return Result{Back: true}
	case Resize:
		if cmd.Width <= 0 || cmd.Height <= 0 {
			return Result{}
		}
		c.width, c.height = cmd.Width, cmd.Height
		c.relayout()
		c.refreshTotal()
		c.recompute()
	}
	return Result{}
}

func (c *Controller) start() Result {
	now := c.now()
	c.state = Scrolling
	c.engine.Start()
	c.lastTick = now
	c.scrollingSince = now
	c.recompute()
	return Result{Arm: []TimerTag{c.timers.arm(TimerScroll), c.timers.arm(TimerRemaining)}}
}

func (c *Controller) pause() {
	c.engine.Stop()
	c.timers.cancel(TimerScroll, TimerRemaining)
	if c.state == Scrolling {
		c.elapsed += c.now().Sub(c.scrollingSince)
	}
	c.state = Paused
	c.recompute()
}

// Fire handles an expired timer. Stale tags are ignored.
func (c *Controller) Fire(tag TimerTag, now time.Time) Result {
	if !c.timers.live(tag) {
		return Result{}
	}
	switch tag.Kind {
	case TimerScroll:
		c.engine.Tick(now.Sub(c.lastTick))
		c.lastTick = now
	case TimerRemaining:
		c.recompute()
	case TimerClock:
		c.clock = now.Truncate(time.Second)
	}
	return Result{Arm: []TimerTag{c.timers.arm(tag.Kind)}}
}

// Teardown cancels every timer and releases the viewport. Position, speed
// and content are kept so the controller can be mounted again.
func (c *Controller) Teardown() {
	if c.state == Scrolling {
		c.pause()
	}
	c.timers.cancel(TimerScroll, TimerRemaining, TimerClock)
	c.engine.Stop()
	c.engine.Unbind()
	c.mounted = false
	c.remaining = Remaining{}
}

// Armed reports whether a timer of kind is currently scheduled.
func (c *Controller) Armed(kind TimerKind) bool {
	return c.timers.isArmed(kind)
}

func (c *Controller) State() State                { return c.state }
func (c *Controller) Mounted() bool               { return c.mounted }
func (c *Controller) Content() string             { return c.content }
func (c *Controller) Inverted() bool              { return c.inverted }
func (c *Controller) Settings() settings.Settings { return c.settings }
func (c *Controller) Document() layout.Document   { return c.doc }
func (c *Controller) Offset() float64             { return c.pane.Offset() }
func (c *Controller) MaxOffset() float64          { return c.pane.MaxOffset() }

// VisibleLines returns the typeset lines inside the viewport.
func (c *Controller) VisibleLines() []layout.Line {
	if !c.mounted {
		return nil
	}
	return c.doc.VisibleLines(c.pane.Offset(), c.height)
}

func (c *Controller) relayout() {
	if !c.mounted || c.renderer == nil {
		return
	}
	c.doc = c.renderer.Layout(c.content, c.settings.FontSize, c.width)
	c.pane.Resize(float64(c.doc.Height), float64(c.height))
}

// recompute refreshes the remaining time from the live layout.
func (c *Controller) recompute() {
	if !c.mounted {
		c.remaining = Remaining{}
		return
	}
	maxOffset := c.pane.MaxOffset()
	position := c.pane.Offset()
	if c.state == Scrolling && math.Ceil(position) >= maxOffset {
		c.remaining = Remaining{Kind: RemainingFinished}
		return
	}
	seconds, ok := estimate.Seconds(maxOffset-position, c.settings.Speed)
	if !ok {
		c.remaining = Remaining{}
		return
	}
	c.remaining = Remaining{Kind: RemainingSeconds, Seconds: seconds}
}

// refreshTotal re-runs the estimator projection for the whole script.
func (c *Controller) refreshTotal() {
	if c.estimator == nil || !c.mounted {
		c.total, c.totalKnown = 0, false
		return
	}
	c.total, c.totalKnown = c.estimator.Estimate(c.content, c.settings.FontSize, c.settings.Speed, c.width, c.height)
}

func (c *Controller) persist(fn func(*settings.Settings)) {
	if c.saver == nil {
		return
	}
	if _, err := c.saver.Update(fn); err != nil {
		log.Printf("[display] save settings: %v", err)
	}
}
