package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newTestLogger(t *testing.T, format Format, level Level) (*FileLogger, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "nested", "foldercompare.log")
	logger, err := NewFileLogger(FileLoggerConfig{
		Path:   logPath,
		Format: format,
		Level:  level,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	return logger, logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestNewFileLogger(t *testing.T) {
	logger, logPath := newTestLogger(t, FormatText, InfoLevel)
	defer logger.Close()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file and its directory should be created")
	}
}

func TestFileLogger_StreamOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewFileLogger(FileLoggerConfig{
		Writer:  &buf,
		Format:  FormatText,
		Level:   InfoLevel,
		MaxSize: 10,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	logger.Warn(context.Background(), "root inferred", Fields{"root": "/data"})
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if !strings.Contains(buf.String(), "[WARN] root inferred root=/data") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestFileLogger_LogLevels(t *testing.T) {
	logger, logPath := newTestLogger(t, FormatText, InfoLevel)
	ctx := context.Background()

	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", nil, nil)
	logger.Close()

	content := readLog(t, logPath)
	if strings.Contains(content, "debug message") {
		t.Error("Debug message should be filtered at INFO level")
	}
	for _, want := range []string{"info message", "warn message", "error message"} {
		if !strings.Contains(content, want) {
			t.Errorf("%q should be present", want)
		}
	}
}

func TestFileLogger_DebugLevel(t *testing.T) {
	logger, logPath := newTestLogger(t, FormatText, DebugLevel)
	logger.Debug(context.Background(), "hashed file", Fields{"path": "a.txt"})
	logger.Close()

	if !strings.Contains(readLog(t, logPath), "[DEBUG] hashed file path=a.txt") {
		t.Error("Debug message should be present at DEBUG level")
	}
}

func TestFileLogger_TextFieldOrder(t *testing.T) {
	logger, logPath := newTestLogger(t, FormatText, InfoLevel)
	logger.Info(context.Background(), "comparison completed", Fields{"status": "different", "algorithm": "md5", "files": 3})
	logger.Close()

	if !strings.Contains(readLog(t, logPath), "comparison completed algorithm=md5 files=3 status=different") {
		t.Errorf("fields should be written in key order: %q", readLog(t, logPath))
	}
}

func TestFileLogger_JSONFormat(t *testing.T) {
	logger, logPath := newTestLogger(t, FormatJSON, InfoLevel)
	logger.Info(context.Background(), "tree hashed", Fields{"side": "left", "files": 42})
	logger.Close()

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(readLog(t, logPath)), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if entry["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", entry["level"])
	}
	if entry["message"] != "tree hashed" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["side"] != "left" {
		t.Errorf("side = %v, want left", entry["side"])
	}
	if entry["timestamp"] == nil {
		t.Error("timestamp should be present")
	}
}

func TestFileLogger_ErrorWithErr(t *testing.T) {
	logger, logPath := newTestLogger(t, FormatJSON, InfoLevel)
	logger.Error(context.Background(), "comparison failed", errors.New("permission denied"), nil)
	logger.Close()

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(readLog(t, logPath)), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if entry["error"] != "permission denied" {
		t.Errorf("error = %v, want 'permission denied'", entry["error"])
	}
}

func TestFileLogger_WithFields(t *testing.T) {
	logger, logPath := newTestLogger(t, FormatJSON, InfoLevel)

	child := logger.WithFields(Fields{"component": "engine"})
	child.Info(context.Background(), "test", Fields{"side": "right"})
	logger.Close()

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(readLog(t, logPath)), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if entry["component"] != "engine" || entry["side"] != "right" {
		t.Errorf("entry = %v, want base and call fields", entry)
	}
}

func TestFileLogger_Rotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rotate.log")
	logger, err := NewFileLogger(FileLoggerConfig{
		Path:       logPath,
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSize:    100,
		MaxBackups: 2,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	for i := 0; i < 20; i++ {
		logger.Info(context.Background(), "a message long enough to push the file past its size limit", nil)
	}
	logger.Close()

	if _, err := os.Stat(logPath + ".1"); os.IsNotExist(err) {
		t.Error("Backup file .1 should exist after rotation")
	}
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("Backups beyond MaxBackups should be removed")
	}
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Main log file should still exist")
	}
}

func TestFileLogger_ConcurrentWrites(t *testing.T) {
	logger, logPath := newTestLogger(t, FormatText, InfoLevel)
	child := logger.WithFields(Fields{"component": "worker"})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if j%2 == 0 {
					logger.Info(context.Background(), "concurrent message", Fields{"goroutine": id})
				} else {
					child.Info(context.Background(), "concurrent message", Fields{"goroutine": id})
				}
			}
		}(i)
	}
	wg.Wait()
	logger.Close()

	lines := strings.Split(strings.TrimSpace(readLog(t, logPath)), "\n")
	if len(lines) != 1000 {
		t.Errorf("got %d lines, want 1000", len(lines))
	}
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "debug", nil)
	logger.Info(ctx, "info", nil)
	logger.Warn(ctx, "warn", nil)
	logger.Error(ctx, "error", nil, nil)

	if logger.WithFields(Fields{"key": "value"}) == nil {
		t.Error("WithFields should return a logger")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"Warning", WarnLevel},
		{"error", ErrorLevel},
		{"unknown", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := LevelString(tt.level); got != tt.expected {
				t.Errorf("LevelString(%v) = %q, want %q", tt.level, got, tt.expected)
			}
		})
	}
}

func TestOrNull(t *testing.T) {
	if _, ok := OrNull(nil).(*NullLogger); !ok {
		t.Error("OrNull(nil) should return a NullLogger")
	}
	var buf bytes.Buffer
	l, _ := NewFileLogger(FileLoggerConfig{Writer: &buf})
	if OrNull(l) != Logger(l) {
		t.Error("OrNull should return a non-nil logger unchanged")
	}
	if WarnLevel.String() != "WARN" {
		t.Errorf("WarnLevel.String() = %s", WarnLevel.String())
	}
}
