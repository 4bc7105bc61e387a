package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "player.log")

	logger, err := New("info", path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("hidden")
	logger.Info("stream loaded", zap.String("path", "/media/a.mp3"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"stream loaded"`) {
		t.Errorf("log output missing message: %s", out)
	}
	if !strings.Contains(out, `"path":"/media/a.mp3"`) {
		t.Errorf("log output missing field: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
}

func TestNew_DebugLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.log")

	logger, err := New("debug", path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("state changed")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "state changed") {
		t.Errorf("debug entry missing: %s", data)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("chatty", filepath.Join(t.TempDir(), "player.log"))
	if err == nil {
		t.Error("New() expected error for invalid level, got nil")
	}
}
