package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/csheth/nutriscout/internal/tuitest"
)

func TestNutriScoutRatesTypedIngredients(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(string(body), "apple, spinach, water") {
			_, _ = io.WriteString(w, `{"rating": 9, "level": "Excellent", "color": "#22c55e"}`)
			return
		}
		_, _ = io.WriteString(w, `{"rating": 2, "level": "Very Poor", "color": "#ef4444"}`)
	}))
	defer srv.Close()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "--no-alt-screen", "--endpoint", srv.URL},
		Dir:     t.TempDir(),
		Env:     []string{"HOME=" + t.TempDir()},
		Width:   100,
		Height:  40,
		Steps: []tuitest.Step{
			tuitest.WaitFor("Ingredients"),
			tuitest.Type("apple, spinach, water"),
			// Typed text arrives in one burst; a pause keeps Enter from reading as pasted.
			{Delay: 200 * time.Millisecond, Input: tuitest.KeyEnter},
			tuitest.WaitFor("Excellent"),
			tuitest.Press(tuitest.KeyCtrlC),
		},
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	for _, want := range []string{"Excellent", "9 / 10", "Ingredients analyzed"} {
		if !rec.Contains(want) {
			frame, _ := rec.FinalFrame()
			t.Errorf("expected %q on screen, final frame:\n%s", want, frame.Plain)
		}
	}
}

func TestNutriScoutVersion(t *testing.T) {
	t.Parallel()

	binary := buildBinary(t, moduleDir(t))
	out, err := exec.Command(binary, "version").CombinedOutput()
	if err != nil {
		t.Fatalf("version: %v\n%s", err, out)
	}
	if !strings.HasPrefix(string(out), "NutriScout development (local-build)") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	tmp := t.TempDir()
	name := "nutriscout-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
