package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/weekplan/internal/app"
)

const (
	// StorageKey is where the envelope lives in the blob store.
	StorageKey = "weekly-planner:snapshot:v1"
	// Version is the envelope schema version this build reads and writes.
	Version = 1
)

type envelope struct {
	Version  int       `json:"version"`
	Snapshot *Snapshot `json:"snapshot"`
}

// Adapter persists snapshots as a versioned JSON envelope in a BlobStore.
type Adapter struct {
	store  app.BlobStore
	logger *slog.Logger
}

// NewAdapter wraps store. A nil logger discards diagnostics.
func NewAdapter(store app.BlobStore, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{store: store, logger: logger}
}

// Load returns the stored snapshot, or nil when there is none. Unreadable,
// corrupt, or foreign-version data also yields nil: the caller falls back to
// seed content rather than failing. Only context cancellation is an error.
func (a *Adapter) Load(ctx context.Context) (*Snapshot, error) {
	raw, err := a.store.GetBlob(ctx, StorageKey)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, app.ErrBlobNotFound) {
			a.logger.WarnContext(ctx, "snapshot_unreadable", "error", err.Error())
		}
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		a.logger.WarnContext(ctx, "snapshot_corrupt", "error", err.Error())
		return nil, nil
	}
	if env.Version != Version || env.Snapshot == nil {
		a.logger.WarnContext(ctx, "snapshot_version_mismatch", "version", env.Version)
		return nil, nil
	}
	if err := env.Snapshot.Validate(); err != nil {
		a.logger.WarnContext(ctx, "snapshot_invalid", "error", err.Error())
		return nil, nil
	}
	return env.Snapshot, nil
}

// Save writes snap. Failures are returned so callers can report unsaved changes.
func (a *Adapter) Save(ctx context.Context, snap Snapshot) error {
	raw, err := json.Marshal(envelope{Version: Version, Snapshot: &snap})
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := a.store.PutBlob(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Clear removes the stored snapshot. A missing snapshot is not an error.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.store.DeleteBlob(ctx, StorageKey); err != nil && !errors.Is(err, app.ErrBlobNotFound) {
		return fmt.Errorf("clearing snapshot: %w", err)
	}
	return nil
}
