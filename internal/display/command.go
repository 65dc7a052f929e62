package display

import (
	"math"

	"github.com/csheth/teleprompter/internal/ipc"
)

// ManualScrollStep is the distance in pixels of one manual scroll.
const ManualScrollStep = 100

// Direction of a manual scroll.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// Command is an input to the controller.
type Command interface {
	isCommand()
}

type (
	ToggleScroll   struct{}
	AdjustSpeed    struct{ Delta float64 }
	AdjustFontSize struct{ Delta int }
	ManualScroll   struct{ Direction Direction }
	InvertColors   struct{}
	SetText        struct{ Content string }
	Back           struct{}
	// Resize reports new viewport geometry in pixels.
	Resize struct{ Width, Height int }
)

func (ToggleScroll) isCommand()   {}
func (AdjustSpeed) isCommand()    {}
func (AdjustFontSize) isCommand() {}
func (ManualScroll) isCommand()   {}
func (InvertColors) isCommand()   {}
func (SetText) isCommand()        {}
func (Back) isCommand()           {}
func (Resize) isCommand()         {}

// FromMessage maps a remote-control message onto a controller command.
func FromMessage(msg ipc.Message) (Command, bool) {
	switch msg.Kind {
	case ipc.KindToggleScroll:
		return ToggleScroll{}, true
	case ipc.KindAdjustSpeed:
		return AdjustSpeed{Delta: msg.Delta}, true
	case ipc.KindAdjustFont:
		return AdjustFontSize{Delta: int(math.Round(msg.Delta))}, true
	case ipc.KindScroll:
		if msg.Direction == ipc.DirectionUp {
			return ManualScroll{Direction: Up}, true
		}
		return ManualScroll{Direction: Down}, true
	case ipc.KindInvertColors:
		return InvertColors{}, true
	case ipc.KindSetText:
		return SetText{Content: msg.Content}, true
	case ipc.KindGoBack:
		return Back{}, true
	}
	return nil, false
}
