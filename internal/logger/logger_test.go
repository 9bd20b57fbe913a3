package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    Level
		expected zapcore.Level
	}{
		{DebugLevel, zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{ErrorLevel, zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, test := range tests {
		if got := ParseLevel(test.input); got != test.expected {
			t.Errorf("ParseLevel(%q) = %v; expected %v", test.input, got, test.expected)
		}
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tracklist.log")

	log, err := New(Config{Level: InfoLevel, OutputPath: path})
	if err != nil {
		t.Fatalf("Ошибка создания логгера: %v", err)
	}

	log.Debug("не должно попасть в журнал")
	log.Info("трек загружен", zap.Int("index", 2))
	_ = log.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Ошибка чтения журнала: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 1 {
		t.Fatalf("Ожидалась одна запись, получено %d: %s", len(lines), raw)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Запись журнала не является JSON: %v", err)
	}
	if entry["msg"] != "трек загружен" || entry["level"] != "info" || entry["index"] != float64(2) {
		t.Errorf("Неожиданная запись журнала: %v", entry)
	}
}

func TestNewWithoutOutputsIsNop(t *testing.T) {
	log, err := New(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("Логгер без выходов должен быть no-op")
	}
}
