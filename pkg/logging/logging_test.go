package logging_test

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-parsejson/pkg/logging"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	logger, err := logging.New("warn", "json")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("error should be enabled at warn level")
	}
}

func TestNewRejectsUnknownInput(t *testing.T) {
	t.Parallel()

	if _, err := logging.New("loud", "console"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := logging.New("info", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
