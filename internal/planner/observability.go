package planner

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// SyncEvent describes one remote mirror attempt.
type SyncEvent struct {
	Name      string
	TaskID    string
	Duration  time.Duration
	Success   bool
	Err       error
	StartedAt time.Time
}

// SyncObserver receives remote sync events.
type SyncObserver interface {
	ObserveSync(ctx context.Context, event SyncEvent)
}

// NoopSyncObserver ignores all events.
type NoopSyncObserver struct{}

func (NoopSyncObserver) ObserveSync(context.Context, SyncEvent) {}

type logSyncObserver struct {
	logger *slog.Logger
}

// NewLogSyncObserver writes sync events to w as structured text.
func NewLogSyncObserver(w io.Writer) SyncObserver {
	if w == nil {
		return NoopSyncObserver{}
	}
	return &logSyncObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logSyncObserver) ObserveSync(ctx context.Context, event SyncEvent) {
	attrs := []any{
		"mutation", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	}
	if event.TaskID != "" {
		attrs = append(attrs, "task_id", event.TaskID)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "planner_sync", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "planner_sync", attrs...)
}
