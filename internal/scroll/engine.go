package scroll

import (
	"math"
	"time"
)

// TickPeriod is the nominal interval between engine ticks (60 Hz).
const TickPeriod = time.Second / 60

// maxCatchUp bounds how many periods a single late tick may cover so a
// suspended terminal does not jump the script forward on resume.
const maxCatchUp = 8

// Viewport is anything the engine can move.
type Viewport interface {
	Offset() float64
	ScrollBy(delta float64)
}

// Engine advances a viewport at speed pixels per tick period. Fractional
// progress is carried between ticks so slow speeds keep their average rate.
type Engine struct {
	viewport    Viewport
	speed       float64
	accumulator float64
	running     bool
}

func NewEngine(speed float64) *Engine {
	return &Engine{speed: speed}
}

// Bind attaches the viewport the engine drives.
func (e *Engine) Bind(v Viewport) {
	e.viewport = v
}

// Unbind detaches the viewport; later ticks become no-ops.
func (e *Engine) Unbind() {
	e.viewport = nil
}

func (e *Engine) Start() {
	e.running = true
}

// Stop halts the engine and discards fractional progress so resuming does
// not catch up on it. The viewport position is left alone.
func (e *Engine) Stop() {
	e.running = false
	e.accumulator = 0
}

func (e *Engine) Running() bool {
	return e.running
}

// SetSpeed changes the rate from the next tick on. The accumulator is kept.
func (e *Engine) SetSpeed(speed float64) {
	e.speed = speed
}

func (e *Engine) Speed() float64 {
	return e.speed
}

// Accumulator reports the pending fractional pixel budget, always in [0, 1)
// between ticks.
func (e *Engine) Accumulator() float64 {
	return e.accumulator
}

// Tick advances the engine by elapsed wall time and returns the whole pixels
// applied to the viewport. A non-positive elapsed counts as one period.
func (e *Engine) Tick(elapsed time.Duration) int {
	if !e.running || e.viewport == nil || e.speed <= 0 {
		return 0
	}
	periods := 1.0
	if elapsed > 0 {
		periods = math.Min(float64(elapsed)/float64(TickPeriod), maxCatchUp)
	}
	e.accumulator += e.speed * periods
	if e.accumulator < 1 {
		return 0
	}
	pixels := math.Floor(e.accumulator)
	e.viewport.ScrollBy(pixels)
	e.accumulator -= pixels
	return int(pixels)
}

// ManualScroll moves the viewport directly, bypassing the accumulator. It
// works whether or not the engine is running.
func (e *Engine) ManualScroll(delta float64) {
	if e.viewport == nil {
		return
	}
	e.viewport.ScrollBy(delta)
}
