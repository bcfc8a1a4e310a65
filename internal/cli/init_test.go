package cli

import (
	"context"
	"log/slog"
	"testing"
)

func TestSetupLoggerLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	logger := SetupLogger("test")
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be enabled")
	}

	t.Setenv("LOG_LEVEL", "loud")
	logger = SetupLogger("test")
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("an invalid level should fall back to info")
	}
	if logger.Component() != "test" {
		t.Errorf("component = %q", logger.Component())
	}
}

func TestShutdownContextCancel(t *testing.T) {
	ctx, cancel := ShutdownContext(SetupLogger("test"))
	cancel()
	<-ctx.Done()
}
