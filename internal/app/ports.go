package app

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/weekplan/internal/domain"
)

// TaskFilter narrows a task listing. Unassigned selects backlog tasks only
// and takes precedence over DayID.
type TaskFilter struct {
	DayID      string
	Swimlane   domain.SwimlaneKey
	Unassigned bool
}

// CreateWeekRequest asks the backend for a new week; the backend generates its days.
type CreateWeekRequest struct {
	Start time.Time
	End   time.Time
	Theme string
}

// RemoteTasks is the task half of the backend the planner mirrors to.
type RemoteTasks interface {
	CreateTask(ctx context.Context, fields domain.TaskFields) (*domain.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	AssignTask(ctx context.Context, id string, a domain.Assignment) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// RemoteWeeks is the week/day half of the backend. CurrentWeek returns an
// error wrapping domain.ErrWeekNotFound when no week contains the date.
type RemoteWeeks interface {
	CreateWeek(ctx context.Context, req CreateWeekRequest) (*domain.Week, error)
	CurrentWeek(ctx context.Context, at time.Time) (*domain.Week, error)
	GetWeek(ctx context.Context, id string) (*domain.Week, error)
	UpdateWeek(ctx context.Context, id string, patch domain.WeekPatch) (*domain.Week, error)
	UpdateDay(ctx context.Context, dayID string, patch domain.DayPatch) (*domain.Day, error)
}

// Remote is the full backend surface, scoped to the signed-in user.
type Remote interface {
	RemoteTasks
	RemoteWeeks
}

// AuthStatus reports whether a signed-in session exists. Consumers wait for
// initialization before trusting IsAuthenticated.
type AuthStatus interface {
	IsInitialized() bool
	IsAuthenticated() bool
	WaitInitialized(ctx context.Context) error
	Subscribe(fn func(authenticated bool)) (unsubscribe func())
}

// Notifier surfaces user-visible messages (failed syncs, failed loads).
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// ErrBlobNotFound is returned by BlobStore.GetBlob for a missing key.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is a key-value store of opaque byte blobs.
type BlobStore interface {
	GetBlob(ctx context.Context, key string) ([]byte, error)
	PutBlob(ctx context.Context, key string, data []byte) error
	DeleteBlob(ctx context.Context, key string) error
}
