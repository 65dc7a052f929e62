package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/csheth/teleprompter/internal/tuitest"
)

func TestPrompterSessionInPTY(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and drives the binary")
	}
	cmdDir := moduleDir(t)
	cfgPath, dir := writeConfig(t)
	script := filepath.Join(dir, "welcome.md")
	body := "# Welcome\n\nThanks for joining the quarterly review.\n"
	if err := os.WriteFile(script, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	binary := buildBinary(t, cmdDir)
	steps := []tuitest.Step{{Delay: time.Second}}
	steps = append(steps, tuitest.Press(300*time.Millisecond,
		tuitest.KeyCtrlO,
		tuitest.KeyFontUp,
		tuitest.KeySpace,
	)...)
	steps = append(steps, tuitest.Press(time.Second, tuitest.KeySpace, tuitest.KeyEsc, tuitest.KeyCtrlC)...)

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command:        []string{binary, "--no-alt-screen", "--config", cfgPath, script},
		Dir:            cmdDir,
		Width:          100,
		Height:         30,
		Steps:          steps,
		Timeout:        10 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}
	for _, want := range []string{"Teleprompter", "Welcome", "Speed", "Font 8"} {
		if !rec.Contains(want) {
			frame, _ := rec.FinalFrame()
			t.Fatalf("no frame contains %q; final frame:\n%s", want, frame.Plain)
		}
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
	name := "teleprompter-integration"
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
