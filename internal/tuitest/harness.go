// Package tuitest drives a built TUI binary inside a pseudo terminal and
// records what it draws.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 120
	defaultHeight  = 40
	defaultTimeout = 10 * time.Second
	pollInterval   = 25 * time.Millisecond
)

// Step is one scripted interaction. The harness waits Delay, then, when
// WaitFor is set, until the plain-text output contains it, and finally
// writes Input.
type Step struct {
	Delay   time.Duration
	WaitFor string
	Input   []byte
}

// Type returns a step writing text as typed characters.
func Type(text string) Step {
	return Step{Input: []byte(text)}
}

// Press returns a step writing a key sequence.
func Press(key []byte) Step {
	return Step{Input: key}
}

// WaitFor returns a step that blocks until text is on screen.
func WaitFor(text string) Step {
	return Step{WaitFor: text}
}

// Config describes the program to spawn and the script to play against it.
// Zero Width, Height and Timeout fall back to package defaults.
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

func (c Config) size() *pty.Winsize {
	width, height := c.Width, c.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return &pty.Winsize{Rows: uint16(height), Cols: uint16(width)}
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// exitAccepted reports whether the program's exit error is one the script
// expects.
func (c Config) exitAccepted(err error) bool {
	if err == nil {
		return true
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		for _, code := range c.AllowedExitCodes {
			if exitErr.ExitCode() == code {
				return true
			}
		}
	}
	return c.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt")
}

// Recording contains the raw terminal stream plus parsed frames.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

type screenBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *screenBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *screenBuffer) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.buf.Bytes()...)
}

func (s *screenBuffer) containsPlain(text string) bool {
	return strings.Contains(stripANSI(string(s.Bytes())), text)
}

// session is one running program attached to a PTY.
type session struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	output *screenBuffer
	done   chan struct{}
}

func startSession(ctx context.Context, cfg Config) (*session, error) {
	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	ptmx, err := pty.StartWithSize(cmd, cfg.size())
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	s := &session{cmd: cmd, ptmx: ptmx, output: &screenBuffer{}, done: make(chan struct{})}
	go s.capture()
	return s, nil
}

// capture copies terminal output into the buffer, answering any terminal
// queries on the way, until the PTY closes.
func (s *session) capture() {
	defer close(s.done)
	responder := newTerminalResponder(s.ptmx)
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			responder.Process(buf[:n])
			_, _ = s.output.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func (s *session) play(ctx context.Context, steps []Step) error {
	for _, step := range steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("tuitest: context cancelled before script finished: %w", ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if step.WaitFor != "" {
			if err := waitForText(ctx, s.output, step.WaitFor); err != nil {
				return err
			}
		}
		if len(step.Input) > 0 {
			if _, err := s.ptmx.Write(step.Input); err != nil {
				return fmt.Errorf("tuitest: write input: %w", err)
			}
		}
	}
	return nil
}

func (s *session) wait(ctx context.Context, cfg Config) error {
	exited := make(chan error, 1)
	go func() { exited <- s.cmd.Wait() }()

	select {
	case err := <-exited:
		if !cfg.exitAccepted(err) {
			return fmt.Errorf("tuitest: program exited with error: %w", err)
		}
	case <-ctx.Done():
		return fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}
	// Closing the PTY lets capture finish draining.
	_ = s.ptmx.Close()
	<-s.done
	return nil
}

// Run executes the configured command inside a PTY, plays the scripted
// steps, waits for the program to exit and returns everything it drew.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	s, err := startSession(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.ptmx.Close() }()

	start := time.Now()
	if err := s.play(ctx, cfg.Steps); err != nil {
		return nil, err
	}
	if err := s.wait(ctx, cfg); err != nil {
		return nil, err
	}

	raw := s.output.Bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

func waitForText(ctx context.Context, output *screenBuffer, text string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for !output.containsPlain(text) {
		select {
		case <-ctx.Done():
			return fmt.Errorf("tuitest: %q never appeared: %w", text, ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}

// buildEnv layers extra over the current environment and makes sure TERM is
// set so the program renders colour.
func buildEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

var (
	// KeyEnter sends a carriage return to the PTY.
	KeyEnter = []byte{'\r'}
	// KeyAltEnter is ESC followed by a carriage return.
	KeyAltEnter = []byte{27, '\r'}
	// KeyCtrlJ sends a line feed.
	KeyCtrlJ = []byte{'\n'}
	// KeyCtrlS submits from anywhere in the form.
	KeyCtrlS = []byte{19}
	// KeyTab moves focus forward.
	KeyTab = []byte{'\t'}
	// KeyCtrlC requests the program to terminate.
	KeyCtrlC = []byte{3}
	// KeyEsc returns focus to the input.
	KeyEsc = []byte{27}
	// KeyF1 is the xterm sequence for the first function key.
	KeyF1 = []byte("\x1bOP")
)
