package estimate

import (
	"fmt"
	"log"
	"math"
	"strings"
	"sync"

	"github.com/csheth/teleprompter/internal/layout"
)

// PixelsPerSecondPerSpeed converts a speed setting into scroll velocity:
// speed 1.0 moves the content 60 pixels every second.
const PixelsPerSecondPerSpeed = 60

const defaultCacheSize = 128

// Seconds converts a scroll distance into whole seconds at speed. It reports
// false for a non-positive speed.
func Seconds(distance, speed float64) (int, bool) {
	if speed <= 0 || math.IsNaN(speed) {
		return 0, false
	}
	if distance < 0 {
		distance = 0
	}
	return int(math.Round(distance / (speed * PixelsPerSecondPerSpeed))), true
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

type cacheKey struct {
	content   string
	fontLevel int
	width     int
}

// Estimator predicts how long a script takes to scroll through.
type Estimator struct {
	measurer layout.Measurer
	limit    int

	mu    sync.Mutex
	cache map[cacheKey]int
}

// New builds an Estimator around measurer. Heights are memoized per
// (content, font level, width) since layout ignores speed and view height.
func New(measurer layout.Measurer) *Estimator {
	return &Estimator{
		measurer: measurer,
		limit:    defaultCacheSize,
		cache:    map[cacheKey]int{},
	}
}

// Estimate returns the scroll duration in seconds. ok is false when no
// estimate is available: empty content, a non-positive speed, or a failed
// measurement.
func (e *Estimator) Estimate(content string, fontLevel int, speed float64, viewportWidth, viewportHeight int) (seconds int, ok bool) {
	if strings.TrimSpace(content) == "" || speed <= 0 {
		return 0, false
	}
	height, err := e.measure(content, fontLevel, viewportWidth)
	if err != nil {
		log.Printf("[estimate] measure failed: %v", err)
		return 0, false
	}
	return Seconds(float64(height-viewportHeight), speed)
}

func (e *Estimator) measure(content string, fontLevel, width int) (int, error) {
	key := cacheKey{content: content, fontLevel: fontLevel, width: width}
	e.mu.Lock()
	if height, ok := e.cache[key]; ok {
		e.mu.Unlock()
		return height, nil
	}
	e.mu.Unlock()

	height, err := e.measurer.Measure(content, fontLevel, width)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	if len(e.cache) >= e.limit {
		e.cache = map[cacheKey]int{}
	}
	e.cache[key] = height
	e.mu.Unlock()
	return height, nil
}

// Reset drops every memoized measurement.
func (e *Estimator) Reset() {
	e.mu.Lock()
	e.cache = map[cacheKey]int{}
	e.mu.Unlock()
}
