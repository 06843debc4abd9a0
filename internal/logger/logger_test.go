package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{
			level:    "error",
			expected: []string{"ERROR"},
			excluded: []string{"WARN", "INFO", "DEBUG"},
		},
		{
			level:    "warn",
			expected: []string{"ERROR", "WARN"},
			excluded: []string{"INFO", "DEBUG"},
		},
		{
			level:    "info",
			expected: []string{"ERROR", "WARN", "INFO"},
			excluded: []string{"DEBUG"},
		},
		{
			level:    "debug",
			expected: []string{"ERROR", "WARN", "INFO", "DEBUG"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")

			cfg := FileConfig{
				Path:       logFile,
				MaxSizeMB:  10,
				MaxBackups: 1,
				MaxAgeDays: 1,
			}
			if err := InitWithOptions(Options{Level: tt.level, File: cfg}); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			logContent := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestJSONFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "frames.log")
	cfg := DefaultFileConfig(logFile)
	cfg.Compress = false
	cfg.JSON = true

	if err := InitWithOptions(Options{Level: "info", File: cfg}); err != nil {
		t.Fatalf("init: %v", err)
	}
	Named("playback").Info("beat reached", zap.Int("beat", 3))
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, content)
	}
	if entry["component"] != "playback" {
		t.Errorf("component = %v, want playback", entry["component"])
	}
	if entry["beat"] != float64(3) {
		t.Errorf("beat = %v, want 3", entry["beat"])
	}
}

func TestConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithOptions(Options{Level: "debug", Console: &buf}); err != nil {
		t.Fatalf("init: %v", err)
	}
	Debug("hello console")
	Sync()
	if !strings.Contains(buf.String(), "hello console") {
		t.Errorf("console output missing message: %q", buf.String())
	}
}

func TestNoOutputIsNop(t *testing.T) {
	if err := InitWithOptions(Options{Level: "info"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	// Must not panic without any sink.
	Info("dropped")
}

func TestSetForTest(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	restore := SetForTest(zap.New(core))

	Warn("captured")
	Info("below level")
	restore()

	if logs.Len() != 1 || logs.All()[0].Message != "captured" {
		t.Errorf("observed %d entries: %+v", logs.Len(), logs.All())
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/test.log")

	if cfg.Path != "/tmp/test.log" {
		t.Errorf("expected path /tmp/test.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 {
		t.Errorf("expected MaxSizeMB 20, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}

func TestValidLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		if !ValidLevel(lvl) {
			t.Errorf("ValidLevel(%q) = false", lvl)
		}
	}
	if ValidLevel("verbose") {
		t.Error("ValidLevel(verbose) = true")
	}
}
