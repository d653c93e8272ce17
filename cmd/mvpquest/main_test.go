package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points config and logging at a temp dir and returns the log path.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	logFile := filepath.Join(dir, "mvpquest.log")
	t.Setenv("HOME", dir)
	t.Setenv("MVPQUEST_CONFIG", "")
	t.Setenv("MVPQUEST_CONTENT", "")
	t.Setenv("MVPQUEST_AUDIO", "off")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_FILE", logFile)
	return logFile
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	return string(data)
}

func TestRun_BadContentIsLogged(t *testing.T) {
	logFile := isolate(t)

	err := run(options{contentDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected an error for a directory without .lua files")
	}
	if !strings.Contains(err.Error(), "loading game") {
		t.Errorf("error = %v", err)
	}
	if log := readLog(t, logFile); !strings.Contains(log, "loading game failed") {
		t.Errorf("log file missing the failure:\n%s", log)
	}
}

func TestRun_MissingScript(t *testing.T) {
	isolate(t)

	err := run(options{scriptFile: filepath.Join(t.TempDir(), "nope.txt")})
	if err == nil || !strings.Contains(err.Error(), "opening script") {
		t.Errorf("err = %v, want an opening script error", err)
	}
}

func TestRun_Script(t *testing.T) {
	logFile := isolate(t)
	script := filepath.Join(t.TempDir(), "play.txt")
	if err := os.WriteFile(script, []byte("space\n/quit\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run(options{scriptFile: script}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if log := readLog(t, logFile); !strings.Contains(log, "game started") {
		t.Errorf("log file missing the session start:\n%s", log)
	}
}
