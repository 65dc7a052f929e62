package display

import (
	"time"

	"github.com/csheth/teleprompter/internal/estimate"
)

// RemainingKind distinguishes "no estimate yet" from a number of seconds
// and from having reached the end.
type RemainingKind int

const (
	RemainingUnknown RemainingKind = iota
	RemainingSeconds
	RemainingFinished
)

// Remaining is the live time-left readout.
type Remaining struct {
	Kind    RemainingKind
	Seconds int
}

func (r Remaining) String() string {
	switch r.Kind {
	case RemainingSeconds:
		return estimate.FormatDuration(r.Seconds)
	case RemainingFinished:
		return "Finished"
	}
	return "--:--"
}

// Telemetry is everything the status bar shows.
type Telemetry struct {
	State     State
	Clock     time.Time
	Finish    time.Time
	Remaining Remaining
	Elapsed   time.Duration

	Total      int
	TotalKnown bool

	Speed     float64
	FontSize  int
	Inverted  bool
	Position  float64
	MaxOffset float64
}

// Telemetry snapshots the controller. Finish is zero unless Remaining holds
// a number of seconds.
func (c *Controller) Telemetry() Telemetry {
	t := Telemetry{
		State:      c.state,
		Clock:      c.clock,
		Remaining:  c.remaining,
		Elapsed:    c.elapsed,
		Total:      c.total,
		TotalKnown: c.totalKnown,
		Speed:      c.settings.Speed,
		FontSize:   c.settings.FontSize,
		Inverted:   c.inverted,
		Position:   c.pane.Offset(),
		MaxOffset:  c.pane.MaxOffset(),
	}
	if c.state == Scrolling {
		t.Elapsed += c.now().Sub(c.scrollingSince)
	}
	if c.remaining.Kind == RemainingSeconds && !c.clock.IsZero() {
		t.Finish = c.clock.Add(time.Duration(c.remaining.Seconds) * time.Second)
	}
	return t
}
