package tuitest

import (
	"regexp"
	"strings"
)

// Frame is one screen repaint as raw bytes and as plain text.
type Frame struct {
	Index int
	ANSI  string
	Plain string
}

var (
	// Erase-display and cursor-home both start a new repaint.
	repaintBoundary = regexp.MustCompile(`\x1b\[[0-9;]*J|\x1b\[H`)
	csiSequence     = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	oscSequence     = regexp.MustCompile(`\x1b\][^\x07]*(\x07|\x1b\\)`)
	shiftControls   = strings.NewReplacer("\x0e", "", "\x0f", "", "\x00", "")
)

func parseFrames(raw []byte) []Frame {
	stream := strings.ReplaceAll(string(raw), "\r", "")
	var frames []Frame
	for _, chunk := range repaintBoundary.Split(stream, -1) {
		plain := plainText(chunk)
		if plain == "" {
			continue
		}
		frames = append(frames, Frame{Index: len(frames), ANSI: chunk, Plain: plain})
	}
	if len(frames) == 0 && strings.TrimSpace(stream) != "" {
		frames = append(frames, Frame{ANSI: stream, Plain: plainText(stream)})
	}
	return frames
}

// plainText strips escape sequences, trailing blanks on each line and
// trailing empty lines.
func plainText(s string) string {
	s = oscSequence.ReplaceAllString(s, "")
	s = csiSequence.ReplaceAllString(s, "")
	s = shiftControls.Replace(s)
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// FinalFrame returns the last repaint, or false when nothing was drawn.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// Contains reports whether any frame shows text once ANSI codes are
// stripped.
func (r *Recording) Contains(text string) bool {
	if r == nil {
		return false
	}
	for _, frame := range r.Frames {
		if strings.Contains(frame.Plain, text) {
			return true
		}
	}
	return false
}
