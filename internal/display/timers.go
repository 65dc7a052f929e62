package display

import (
	"time"

	"github.com/csheth/teleprompter/internal/scroll"
)

// TimerKind identifies one of the controller's periodic activities.
type TimerKind int

const (
	TimerScroll TimerKind = iota
	TimerRemaining
	TimerClock
	timerKinds
)

func (k TimerKind) String() string {
	switch k {
	case TimerScroll:
		return "scroll"
	case TimerRemaining:
		return "remaining"
	case TimerClock:
		return "clock"
	}
	return "unknown"
}

// Interval is how long the host waits before firing a timer of kind k.
func (k TimerKind) Interval() time.Duration {
	if k == TimerScroll {
		return scroll.TickPeriod
	}
	return time.Second
}

// TimerTag is handed to the host when a timer is armed and handed back when
// it fires. Tags from a cancelled or re-armed timer are stale.
type TimerTag struct {
	Kind       TimerKind
	Generation uint64
}

type timerSet struct {
	generation [timerKinds]uint64
	armed      [timerKinds]bool
}

func (s *timerSet) arm(kind TimerKind) TimerTag {
	s.generation[kind]++
	s.armed[kind] = true
	return TimerTag{Kind: kind, Generation: s.generation[kind]}
}

func (s *timerSet) cancel(kinds ...TimerKind) {
	for _, kind := range kinds {
		s.generation[kind]++
		s.armed[kind] = false
	}
}

func (s *timerSet) live(tag TimerTag) bool {
	if tag.Kind < 0 || tag.Kind >= timerKinds {
		return false
	}
	return s.armed[tag.Kind] && s.generation[tag.Kind] == tag.Generation
}

func (s *timerSet) isArmed(kind TimerKind) bool {
	return s.armed[kind]
}
