package protolog

import (
	"context"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger. Useful for development and
// for operators who want events in their usual console/journal output.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates an adapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes event at Warn level for failures and Info level otherwise.
func (a *SlogAdapter) Log(event Event) {
	level := slog.LevelInfo
	if event.Outcome == OutcomeFailure {
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("component", event.Component.String()),
		slog.String("operation", event.Operation),
		slog.String("outcome", event.Outcome.String()),
	}
	if event.DeviceID != "" {
		attrs = append(attrs, slog.String("device_id", event.DeviceID))
	}
	if event.Detail != "" {
		attrs = append(attrs, slog.String("detail", event.Detail))
	}
	if event.Err != "" {
		attrs = append(attrs, slog.String("error", event.Err))
	}

	a.logger.LogAttrs(context.Background(), level, "bridge event", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
