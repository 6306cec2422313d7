package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rui.log")

	logger, closer := New("[push] ", Options{Path: path})
	logger.Printf("uploaded %s", "Button")
	if err := closer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "[push] ") || !strings.Contains(line, "uploaded Button") {
		t.Errorf("unexpected log line: %q", line)
	}
}

func TestDefaultPath(t *testing.T) {
	got := DefaultPath("/work")
	want := filepath.Join("/work", ".revolutionary-ui", "logs", "rui.log")
	if got != want {
		t.Errorf("DefaultPath = %q, want %q", got, want)
	}
}
