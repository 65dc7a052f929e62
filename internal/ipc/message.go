package ipc

import (
	"errors"
	"fmt"
	"math"
)

// Kind names a command exchanged between the editor host and its windows.
type Kind int

const (
	KindOpenDisplay Kind = iota + 1
	KindOpenPreview
	KindOpenEditor
	KindUpdateWindowSize
	KindSetText
	KindToggleScroll
	KindAdjustSpeed
	KindAdjustFont
	KindScroll
	KindGoBack
	KindInvertColors
)

var kindNames = map[Kind]string{
	KindOpenDisplay:      "open-display",
	KindOpenPreview:      "open-preview",
	KindOpenEditor:       "open-editor",
	KindUpdateWindowSize: "update-window-size",
	KindSetText:          "set-text",
	KindToggleScroll:     "toggle-scroll",
	KindAdjustSpeed:      "adjust-speed",
	KindAdjustFont:       "adjust-font",
	KindScroll:           "scroll",
	KindGoBack:           "go-back",
	KindInvertColors:     "invert-colors",
}

// ErrUnknownKind is returned when a wire name or value matches no Kind.
var ErrUnknownKind = errors.New("ipc: unknown message kind")

// Kinds lists every valid kind in wire order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := KindOpenDisplay; k <= KindInvertColors; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind maps a wire name back to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(name), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Remote reports whether the kind is a display remote-control command.
func (k Kind) Remote() bool {
	switch k {
	case KindToggleScroll, KindAdjustSpeed, KindAdjustFont, KindScroll, KindGoBack, KindInvertColors:
		return true
	}
	return false
}

// Scroll directions carried by KindScroll.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// Message is one command. Only the fields relevant to Kind are set.
type Message struct {
	Kind      Kind    `json:"kind"`
	Content   string  `json:"content,omitempty"`
	Delta     float64 `json:"delta,omitempty"`
	Direction string  `json:"direction,omitempty"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
}

// Validate checks that the fields required by the message kind are present.
func (m Message) Validate() error {
	if _, ok := kindNames[m.Kind]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(m.Kind))
	}
	switch m.Kind {
	case KindAdjustSpeed, KindAdjustFont:
		if m.Delta == 0 || math.IsNaN(m.Delta) || math.IsInf(m.Delta, 0) {
			return fmt.Errorf("ipc: %s requires a finite non-zero delta", m.Kind)
		}
	case KindScroll:
		if m.Direction != DirectionUp && m.Direction != DirectionDown {
			return fmt.Errorf("ipc: scroll direction must be %q or %q, got %q", DirectionUp, DirectionDown, m.Direction)
		}
	case KindUpdateWindowSize:
		if m.Width <= 0 || m.Height <= 0 {
			return fmt.Errorf("ipc: window size must be positive, got %dx%d", m.Width, m.Height)
		}
	}
	return nil
}
