package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"acadtrack/backend/config"
)

func TestNewLogger_JSON(t *testing.T) {
	l, err := NewLogger(&config.LogConfig{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "loud", Format: "console"}); err == nil {
		t.Error("unknown level should fail")
	}
}
