package settings

import (
	"bytes"
	"encoding/json"
	"log"
	"math"
	"strconv"

	"github.com/csheth/teleprompter/internal/store"
)

// Key is the store entry holding the display settings record.
const Key = "teleprompterSettings"

const (
	MinSpeed     = 0.1
	MaxSpeed     = 5.0
	DefaultSpeed = 1.0

	MinFontSize     = 1
	MaxFontSize     = 14
	DefaultFontSize = 7

	DefaultWindowWidth  = 400
	DefaultWindowHeight = 200
)

// Settings are the user's display preferences.
type Settings struct {
	FontSize     int     `json:"fontSize"`
	Speed        float64 `json:"speed"`
	WindowWidth  int     `json:"windowWidth"`
	WindowHeight int     `json:"windowHeight"`
}

// Default returns the settings used when nothing has been persisted.
func Default() Settings {
	return Settings{
		FontSize:     DefaultFontSize,
		Speed:        DefaultSpeed,
		WindowWidth:  DefaultWindowWidth,
		WindowHeight: DefaultWindowHeight,
	}
}

// ClampSpeed bounds speed to [MinSpeed, MaxSpeed] and rounds it to one
// decimal place.
func ClampSpeed(speed float64) float64 {
	if math.IsNaN(speed) {
		return DefaultSpeed
	}
	speed = math.Max(MinSpeed, math.Min(MaxSpeed, speed))
	return math.Round(speed*10) / 10
}

// ClampFontSize bounds a font level to [MinFontSize, MaxFontSize].
func ClampFontSize(level int) int {
	if level < MinFontSize {
		return MinFontSize
	}
	if level > MaxFontSize {
		return MaxFontSize
	}
	return level
}

// Normalized returns a copy with every field forced into its valid range.
func (s Settings) Normalized() Settings {
	s.Speed = ClampSpeed(s.Speed)
	s.FontSize = ClampFontSize(s.FontSize)
	if s.WindowWidth <= 0 {
		s.WindowWidth = DefaultWindowWidth
	}
	if s.WindowHeight <= 0 {
		s.WindowHeight = DefaultWindowHeight
	}
	return s
}

// record mirrors Settings on the wire. Pointers tell missing fields apart
// from zero values; fontSize accepts both 7 and "7".
type record struct {
	FontSize     *fontLevel `json:"fontSize"`
	Speed        *float64   `json:"speed"`
	WindowWidth  *int       `json:"windowWidth"`
	WindowHeight *int       `json:"windowHeight"`
}

type fontLevel int

func (l *fontLevel) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return err
		}
		*l = fontLevel(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*l = fontLevel(n)
	return nil
}

// Decode parses a persisted record. Missing fields keep their defaults; a
// malformed record yields the defaults and the decode error.
func Decode(raw []byte) (Settings, error) {
	result := Default()
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return result, err
	}
	if rec.FontSize != nil {
		result.FontSize = int(*rec.FontSize)
	}
	if rec.Speed != nil {
		result.Speed = *rec.Speed
	}
	if rec.WindowWidth != nil {
		result.WindowWidth = *rec.WindowWidth
	}
	if rec.WindowHeight != nil {
		result.WindowHeight = *rec.WindowHeight
	}
	return result.Normalized(), nil
}

// Store loads and saves the settings record in a key-value store.
type Store struct {
	kv store.Store
}

func NewStore(kv store.Store) *Store {
	return &Store{kv: kv}
}

// Load never fails: anything unreadable falls back to Default.
func (s *Store) Load() Settings {
	raw, ok, err := s.kv.Get(Key)
	if err != nil {
		log.Printf("[settings] load failed, using defaults: %v", err)
		return Default()
	}
	if !ok {
		return Default()
	}
	loaded, err := Decode(raw)
	if err != nil {
		log.Printf("[settings] malformed record, using defaults: %v", err)
		return Default()
	}
	return loaded
}

// Save persists the normalized form of value.
func (s *Store) Save(value Settings) error {
	data, err := json.Marshal(value.Normalized())
	if err != nil {
		return err
	}
	return s.kv.Set(Key, data)
}

// Update loads the current record, applies fn and saves the result.
func (s *Store) Update(fn func(*Settings)) (Settings, error) {
	current := s.Load()
	fn(&current)
	current = current.Normalized()
	return current, s.Save(current)
}
