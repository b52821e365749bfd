package tuitest

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"
)

func TestParseFramesSplitsOnClear(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[H\x1b[1mNutriScout\x1b[0m   \r\n\r\n\x1b[2Jresult: \x1b[32mExcellent\x1b[0m\r\n")
	frames := parseFrames(raw)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d: %+v", len(frames), frames)
	}
	if frames[0].Plain != "NutriScout" {
		t.Fatalf("unexpected first frame %q", frames[0].Plain)
	}
	rec := &Recording{Frames: frames}
	final, ok := rec.FinalFrame()
	if !ok || final.Plain != "result: Excellent" {
		t.Fatalf("unexpected final frame %q", final.Plain)
	}
	if !rec.Contains("NutriScout") || rec.Contains("Poor") {
		t.Fatal("Contains mismatch")
	}
	if frame, ok := rec.LastFrameContaining("NutriScout"); !ok || frame.Index != 0 {
		t.Fatalf("unexpected frame %+v", frame)
	}
}

func TestParseFramesWithoutClearKeepsStream(t *testing.T) {
	frames := parseFrames([]byte("\x1b]11;?\x07plain output\r\n"))
	if len(frames) != 1 || frames[0].Plain != "plain output" {
		t.Fatalf("unexpected frames %+v", frames)
	}
}

func TestNilRecording(t *testing.T) {
	var rec *Recording
	if _, ok := rec.FinalFrame(); ok {
		t.Fatal("nil recording has no frames")
	}
	if rec.Contains("x") {
		t.Fatal("nil recording contains nothing")
	}
}

func TestTerminalResponderAnswersQueries(t *testing.T) {
	var out bytes.Buffer
	tr := newTerminalResponder(&out)
	tr.Process([]byte("hello\x1b[6"))
	tr.Process([]byte("n world \x1b]11;?\x07"))
	want := "\x1b[1;1R\x1b]11;rgb:0000/0000/0000\x07"
	if out.String() != want {
		t.Fatalf("unexpected responses %q", out.String())
	}
}

func TestTerminalResponderKeepsQueryOrder(t *testing.T) {
	var out bytes.Buffer
	tr := newTerminalResponder(&out)
	tr.Process([]byte("\x1b]11;?\x1b\\\x1b[c\x1b[6n"))
	want := "\x1b]11;rgb:0000/0000/0000\x1b\\\x1b[?62;22c\x1b[1;1R"
	if out.String() != want {
		t.Fatalf("unexpected responses %q", out.String())
	}
	out.Reset()
	tr.Process([]byte("\x1b[6n"))
	if out.String() != "\x1b[1;1R" {
		t.Fatalf("answered queries must not repeat, got %q", out.String())
	}
}

func TestTerminalResponderBoundsPendingBytes(t *testing.T) {
	tr := newTerminalResponder(io.Discard)
	tr.Process(bytes.Repeat([]byte("x"), 4*pendingLimit))
	if len(tr.pending) != pendingKeep {
		t.Fatalf("expected %d pending bytes, got %d", pendingKeep, len(tr.pending))
	}
}

func TestScreenBufferContainsPlain(t *testing.T) {
	var buf screenBuffer
	_, _ = buf.Write([]byte("\x1b[1mHealth\x1b[0m Rating"))
	if !buf.containsPlain("Health Rating") {
		t.Fatal("styled text should match once stripped")
	}
}

func TestStepHelpers(t *testing.T) {
	if got := Type("kale"); string(got.Input) != "kale" {
		t.Fatalf("unexpected step %+v", got)
	}
	if got := Press(KeyEnter); !bytes.Equal(got.Input, KeyEnter) {
		t.Fatalf("unexpected step %+v", got)
	}
	if got := WaitFor("Ready"); got.WaitFor != "Ready" || got.Input != nil {
		t.Fatalf("unexpected step %+v", got)
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	if size := cfg.size(); size.Cols != defaultWidth || size.Rows != defaultHeight {
		t.Fatalf("unexpected default size %+v", size)
	}
	if cfg.timeout() != defaultTimeout {
		t.Fatalf("unexpected default timeout %s", cfg.timeout())
	}
	cfg = Config{Width: 80, Height: 24}
	if size := cfg.size(); size.Cols != 80 || size.Rows != 24 {
		t.Fatalf("unexpected size %+v", size)
	}
}

func TestExitAccepted(t *testing.T) {
	if !(Config{}).exitAccepted(nil) {
		t.Fatal("clean exit must be accepted")
	}
	interrupted := errors.New("signal: interrupt")
	if (Config{}).exitAccepted(interrupted) {
		t.Fatal("interrupt needs AllowInterrupt")
	}
	if !(Config{AllowInterrupt: true}).exitAccepted(interrupted) {
		t.Fatal("interrupt should be accepted")
	}
}

func TestBuildEnvSetsTerm(t *testing.T) {
	t.Setenv("TERM", "")
	os.Unsetenv("TERM")
	env := buildEnv([]string{"HOME=/tmp/x"})
	if !containsEntry(env, "TERM=xterm-256color") || !containsEntry(env, "HOME=/tmp/x") {
		t.Fatalf("unexpected env %v", env)
	}
	env = buildEnv([]string{"TERM=dumb"})
	if containsEntry(env, "TERM=xterm-256color") {
		t.Fatalf("explicit TERM must be kept: %v", env)
	}
}

func containsEntry(env []string, entry string) bool {
	for _, e := range env {
		if e == entry {
			return true
		}
	}
	return false
}
