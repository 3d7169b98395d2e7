package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New("debug")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}

	if _, err := New("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
