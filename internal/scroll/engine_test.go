package scroll

import (
	"math"
	"testing"
	"time"
)

func TestEngineAverageRateMatchesSpeed(t *testing.T) {
	t.Parallel()

	speeds := []float64{0.1, 0.3, 0.5, 1.0, 1.7, 2.0, 3.3, 5.0}
	ticks := []int{1, 2, 3, 10, 59, 600, 3601}
	for _, speed := range speeds {
		for _, n := range ticks {
			pane := NewPane(1e9, 100)
			engine := NewEngine(speed)
			engine.Bind(pane)
			engine.Start()
			for i := 0; i < n; i++ {
				engine.Tick(TickPeriod)
				if acc := engine.Accumulator(); acc < 0 || acc >= 1 {
					t.Fatalf("speed %v tick %d: accumulator %v out of [0,1)", speed, i, acc)
				}
			}
			want := speed * float64(n)
			if diff := math.Abs(pane.Offset() - want); diff > 1 {
				t.Fatalf("speed %v after %d ticks: offset %v, want within 1px of %v", speed, n, pane.Offset(), want)
			}
		}
	}
}

func TestEngineFractionalSpeedAdvancesEveryFewTicks(t *testing.T) {
	t.Parallel()

	pane := NewPane(1000, 100)
	engine := NewEngine(0.3)
	engine.Bind(pane)
	engine.Start()

	var moved []int
	for i := 0; i < 11; i++ {
		moved = append(moved, engine.Tick(TickPeriod))
	}
	total := 0
	for _, px := range moved {
		if px > 1 {
			t.Fatalf("speed 0.3 should never jump more than 1px per tick: %v", moved)
		}
		total += px
	}
	if total != 3 {
		t.Fatalf("expected 3px after 11 ticks at 0.3, got %d (%v)", total, moved)
	}
}

func TestEngineStopResetsAccumulatorKeepsPosition(t *testing.T) {
	t.Parallel()

	pane := NewPane(1000, 100)
	engine := NewEngine(0.6)
	engine.Bind(pane)
	engine.Start()
	engine.Tick(TickPeriod)
	engine.Tick(TickPeriod)
	position := pane.Offset()
	if engine.Accumulator() == 0 {
		t.Fatal("expected pending fractional progress before stop")
	}

	engine.Stop()
	if engine.Accumulator() != 0 {
		t.Fatalf("Stop should reset accumulator, got %v", engine.Accumulator())
	}
	if pane.Offset() != position {
		t.Fatalf("Stop moved the viewport from %v to %v", position, pane.Offset())
	}
	if px := engine.Tick(TickPeriod); px != 0 {
		t.Fatalf("stopped engine moved %dpx", px)
	}
}

func TestEngineSetSpeedKeepsAccumulator(t *testing.T) {
	t.Parallel()

	pane := NewPane(1000, 100)
	engine := NewEngine(0.4)
	engine.Bind(pane)
	engine.Start()
	engine.Tick(TickPeriod)
	before := engine.Accumulator()

	engine.SetSpeed(0.5)
	if engine.Accumulator() != before {
		t.Fatalf("SetSpeed changed accumulator from %v to %v", before, engine.Accumulator())
	}
	engine.Tick(TickPeriod)
	if pane.Offset() != 0 || math.Abs(engine.Accumulator()-0.9) > 1e-9 {
		t.Fatalf("new speed not applied on next tick: offset %v acc %v", pane.Offset(), engine.Accumulator())
	}
}

func TestEngineTickWithoutViewportIsNoop(t *testing.T) {
	t.Parallel()

	engine := NewEngine(2)
	engine.Start()
	if px := engine.Tick(TickPeriod); px != 0 {
		t.Fatalf("unbound tick moved %dpx", px)
	}
	engine.ManualScroll(100)

	pane := NewPane(1000, 100)
	engine.Bind(pane)
	engine.Unbind()
	engine.Tick(TickPeriod)
	if pane.Offset() != 0 {
		t.Fatalf("unbound engine moved the pane to %v", pane.Offset())
	}
}

func TestEngineManualScrollIgnoresRunningState(t *testing.T) {
	t.Parallel()

	pane := NewPane(1000, 100)
	engine := NewEngine(1)
	engine.Bind(pane)

	engine.ManualScroll(100)
	if pane.Offset() != 100 {
		t.Fatalf("manual scroll while stopped: offset %v", pane.Offset())
	}
	engine.Start()
	engine.ManualScroll(-40)
	if pane.Offset() != 60 {
		t.Fatalf("manual scroll while running: offset %v", pane.Offset())
	}
	if engine.Accumulator() != 0 {
		t.Fatalf("manual scroll touched the accumulator: %v", engine.Accumulator())
	}
}

func TestEngineElapsedScalesAdvance(t *testing.T) {
	t.Parallel()

	pane := NewPane(1e6, 100)
	engine := NewEngine(1)
	engine.Bind(pane)
	engine.Start()

	engine.Tick(3 * TickPeriod)
	if pane.Offset() != 3 {
		t.Fatalf("three periods at speed 1 should move 3px, got %v", pane.Offset())
	}
	engine.Tick(time.Hour)
	if pane.Offset() != 3+maxCatchUp {
		t.Fatalf("catch-up should be capped, got %v", pane.Offset())
	}
	engine.Tick(0)
	if pane.Offset() != 4+maxCatchUp {
		t.Fatalf("zero elapsed counts as one period, got %v", pane.Offset())
	}
}
