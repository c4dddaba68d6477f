package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logLevel string
	}{
		{
			name:     "Valid debug level",
			level:    "debug",
			logLevel: "DEBUG",
		},
		{
			name:     "Valid info level",
			level:    "info",
			logLevel: "INFO",
		},
		{
			name:     "Valid warn level",
			level:    "warn",
			logLevel: "WARN",
		},
		{
			name:     "Valid error level",
			level:    "error",
			logLevel: "ERROR",
		},
		{
			name:     "Invalid level defaults to info",
			level:    "invalid",
			logLevel: "INFO",
		},
		{
			name:     "Empty level defaults to info",
			level:    "",
			logLevel: "INFO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.level).String(); got != tt.logLevel {
				t.Errorf("parseLevel(%q) = %q, want %q", tt.level, got, tt.logLevel)
			}
		})
	}
}

func parseLogEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	return logEntry
}

func TestLogger_WithModule(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithModule("test_module").Info("test message")

	logEntry := parseLogEntry(t, &buf)
	if module, ok := logEntry["module"].(string); !ok || module != "test_module" {
		t.Errorf("WithModule() module = %v, want %q", logEntry["module"], "test_module")
	}
}

func TestLogger_WithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithRequestID("req-123").Info("test message")

	logEntry := parseLogEntry(t, &buf)
	if requestID, ok := logEntry["request_id"].(string); !ok || requestID != "req-123" {
		t.Errorf("WithRequestID() request_id = %v, want %q", logEntry["request_id"], "req-123")
	}
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithError(errors.New("test error message")).Error("operation failed")

	logEntry := parseLogEntry(t, &buf)
	if errField, ok := logEntry["error"].(string); !ok || errField != "test error message" {
		t.Errorf("WithError() error = %v, want %q", logEntry["error"], "test error message")
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithFields(map[string]any{"stage": "exact", "count": 3}).Info("resolved")

	logEntry := parseLogEntry(t, &buf)
	if logEntry["stage"] != "exact" {
		t.Errorf("WithFields() stage = %v, want %q", logEntry["stage"], "exact")
	}
	if logEntry["count"] != float64(3) {
		t.Errorf("WithFields() count = %v, want 3", logEntry["count"])
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Info("test message")

	logEntry := parseLogEntry(t, &buf)

	requiredFields := []string{"timestamp", "level", "message"}
	for _, field := range requiredFields {
		if _, ok := logEntry[field]; !ok {
			t.Errorf("JSON log missing required field %q", field)
		}
	}

	if logEntry["message"] != "test message" {
		t.Errorf("message = %v, want %q", logEntry["message"], "test message")
	}
	if logEntry["level"] != "info" {
		t.Errorf("level = %v, want %q", logEntry["level"], "info")
	}
}

func TestLogger_WarnLevelRenamed(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)

	log.Warn("careful")

	logEntry := parseLogEntry(t, &buf)
	if logEntry["level"] != "warning" {
		t.Errorf("level = %v, want %q", logEntry["level"], "warning")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("error", &buf)

	log.Info("should be dropped")
	if buf.Len() != 0 {
		t.Errorf("info record written at error level: %s", buf.String())
	}

	log.Error("should be written")
	if buf.Len() == 0 {
		t.Error("error record not written at error level")
	}
}
