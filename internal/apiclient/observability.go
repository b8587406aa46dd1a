package apiclient

import (
	"context"
	"log/slog"
)

// CallEvent records metadata about a single API call, retries included.
type CallEvent struct {
	Method    string
	Path      string
	Status    int
	Attempts  int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about API calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events as structured records.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	o.logger.LogAttrs(context.Background(), level, "api_call",
		slog.String("method", event.Method),
		slog.String("path", event.Path),
		slog.Int("status", event.Status),
		slog.Int("attempts", event.Attempts),
		slog.Int64("latency_ms", event.LatencyMs),
		slog.Bool("success", event.Success),
		slog.String("error_code", event.ErrorCode),
	)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
