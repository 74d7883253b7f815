package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestLogger(t *testing.T, level string) (*Logger, string) {
	t.Helper()
	tmpDir := t.TempDir()
	logger, err := New(Config{
		Level:    level,
		Dir:      tmpDir,
		Filename: "atlas.log",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() {
		_ = logger.Close()
	})
	return logger, filepath.Join(tmpDir, "atlas.log")
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	time.Sleep(10 * time.Millisecond)
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestLoggerWritesJSONFile(t *testing.T) {
	logger, path := newTestLogger(t, "info")

	logger.Info("catalog loaded")

	content := readLog(t, path)
	if !strings.Contains(content, "catalog loaded") {
		t.Fatalf("log file missing message, got: %s", content)
	}
	if !strings.Contains(content, `"level":"INFO"`) {
		t.Fatalf("expected JSON-encoded level in file output, got: %s", content)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, path := newTestLogger(t, "error")

	logger.Info("should be filtered")
	logger.Error("should appear")

	content := readLog(t, path)
	if strings.Contains(content, "should be filtered") {
		t.Fatalf("info message leaked past error level: %s", content)
	}
	if !strings.Contains(content, "should appear") {
		t.Fatalf("error message missing: %s", content)
	}
}

func TestLoggerFormatMode(t *testing.T) {
	logger, path := newTestLogger(t, "info")

	logger.Info("player %s reached level %d", "tester", 30)

	content := readLog(t, path)
	if !strings.Contains(content, "player tester reached level 30") {
		t.Fatalf("printf-style formatting not applied: %s", content)
	}
}

func TestLoggerStructuredFields(t *testing.T) {
	logger, path := newTestLogger(t, "info")

	logger.Info("session stored", map[string]interface{}{
		"user_id": "u-1",
		"ttl":     604800,
	})

	content := readLog(t, path)
	if !strings.Contains(content, "user_id") || !strings.Contains(content, "u-1") {
		t.Fatalf("structured fields missing: %s", content)
	}
}

func TestFormatTag(t *testing.T) {
	if got := FormatTag("BACKEND", "login ok"); got != "[BACKEND] login ok" {
		t.Fatalf("unexpected tag format: %q", got)
	}
	// Already-tagged messages pass through untouched.
	if got := FormatTag("HTTP", "[HTTP] route registered"); got != "[HTTP] route registered" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestTaggedHelpersReachFile(t *testing.T) {
	logger, path := newTestLogger(t, "debug")

	logger.InfoTag("SESSION", "store ready")
	logger.ErrorTag("BACKEND", "rpc failed with status %d", 401)

	content := readLog(t, path)
	if !strings.Contains(content, "[SESSION] store ready") {
		t.Fatalf("tagged info missing: %s", content)
	}
	if !strings.Contains(content, "[BACKEND] rpc failed with status 401") {
		t.Fatalf("tagged error missing: %s", content)
	}
}
