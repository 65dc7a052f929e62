package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 120
	defaultHeight  = 32
	defaultTimeout = 5 * time.Second
)

// Step is one scripted keystroke sequence. A zero Delay writes the input
// immediately.
type Step struct {
	Delay time.Duration
	Input []byte
}

// Config describes the program to spawn and the keys to feed it.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

// Recording contains the raw terminal stream plus parsed frames.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// Run starts the command inside a PTY of Width x Height cells, replays the
// steps and records everything the program draws.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	cfg = withDefaults(cfg)
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(cfg.Height), Cols: uint16(cfg.Width)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	var output bytes.Buffer
	drained := make(chan struct{})
	go record(ptmx, &output, drained)

	start := time.Now()
	if err := replay(ctx, ptmx, cfg.Steps); err != nil {
		return nil, err
	}
	if err := waitExit(ctx, cmd, cfg); err != nil {
		return nil, err
	}

	// Closing the PTY ends the reader once the buffer is drained.
	_ = ptmx.Close()
	<-drained

	raw := output.Bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

func withDefaults(cfg Config) Config {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg
}

// record copies the PTY into out and answers terminal queries on the way.
func record(ptmx io.ReadWriter, out *bytes.Buffer, done chan<- struct{}) {
	defer close(done)
	responder := newTerminalResponder(ptmx)
	buf := make([]byte, 4096)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			responder.Process(buf[:n])
			_, _ = out.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func replay(ctx context.Context, w io.Writer, steps []Step) error {
	for _, step := range steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("tuitest: context cancelled before script finished: %w", ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if len(step.Input) == 0 {
			continue
		}
		if _, err := w.Write(step.Input); err != nil {
			return fmt.Errorf("tuitest: write input: %w", err)
		}
	}
	return nil
}

func waitExit(ctx context.Context, cmd *exec.Cmd, cfg Config) error {
	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		return fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	case err := <-exited:
		if err == nil {
			return nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && slices.Contains(cfg.AllowedExitCodes, exitErr.ExitCode()) {
			return nil
		}
		if cfg.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt") {
			return nil
		}
		return fmt.Errorf("tuitest: program exited with error: %w", err)
	}
}

func buildEnv(extra []string) []string {
	env := os.Environ()
	env = append(env, extra...)
	termSet := false
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			termSet = true
			break
		}
	}
	if !termSet {
		env = append(env, "TERM=xterm-256color")
	}
	return env
}

// Keys understood by the teleprompter front end.
var (
	KeyEnter    = []byte{'\r'}
	KeyCtrlC    = []byte{3}
	KeyEsc      = []byte{27}
	KeyTab      = []byte{'\t'}
	KeySpace    = []byte{' '}
	KeyCtrlO    = []byte{15}
	KeyCtrlP    = []byte{16}
	KeyCtrlS    = []byte{19}
	KeyUp       = []byte("\x1b[A")
	KeyDown     = []byte("\x1b[B")
	KeyRight    = []byte("\x1b[C")
	KeyLeft     = []byte("\x1b[D")
	KeyFontUp   = []byte{']'}
	KeyFontDown = []byte{'['}
)

// Type returns one step per rune of text, spaced by delay.
func Type(text string, delay time.Duration) []Step {
	steps := make([]Step, 0, len(text))
	for _, r := range text {
		steps = append(steps, Step{Delay: delay, Input: []byte(string(r))})
	}
	return steps
}

// Press wraps keys into steps that each wait delay first.
func Press(delay time.Duration, keys ...[]byte) []Step {
	steps := make([]Step, 0, len(keys))
	for _, k := range keys {
		steps = append(steps, Step{Delay: delay, Input: k})
	}
	return steps
}
