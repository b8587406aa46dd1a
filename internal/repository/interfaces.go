package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a unique constraint violation.
	ErrConflict = errors.New("conflict")
)

// Group identifies a placement group in storage. An empty DayID is the backlog.
type Group struct {
	DayID    string
	Swimlane domain.SwimlaneKey
}

// GroupOf returns the group t belongs to.
func GroupOf(t domain.Task) Group {
	return Group{DayID: t.DayID, Swimlane: t.Swimlane}
}

// Every task, week, and session query is scoped to the owning user.
type TaskRepo interface {
	Create(ctx context.Context, userID string, t *domain.Task) error
	GetByID(ctx context.Context, userID, id string) (*domain.Task, error)
	List(ctx context.Context, userID string, filter app.TaskFilter) ([]domain.Task, error)
	ListByWeek(ctx context.Context, userID, weekID string) ([]domain.Task, error)
	Update(ctx context.Context, userID string, t *domain.Task) error
	Delete(ctx context.Context, userID, id string) error
	CountInGroup(ctx context.Context, userID string, g Group) (int, error)
	// ShiftGroup adds delta to the position of every task in g at or after
	// from, except excludeID.
	ShiftGroup(ctx context.Context, userID string, g Group, from, delta int, excludeID string) error
}

type WeekRepo interface {
	Create(ctx context.Context, userID string, w *domain.Week) error
	GetByID(ctx context.Context, userID, id string) (*domain.Week, error)
	GetContaining(ctx context.Context, userID string, date time.Time) (*domain.Week, error)
	List(ctx context.Context, userID string) ([]domain.Week, error)
	ListInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Week, error)
	Update(ctx context.Context, userID string, w *domain.Week) error
	Delete(ctx context.Context, userID, id string) error
	// GetDay returns a day and the ID of the week holding it.
	GetDay(ctx context.Context, userID, dayID string) (*domain.Day, string, error)
	UpdateDay(ctx context.Context, userID string, d *domain.Day) error
	// DayOwner returns the user owning the week that holds dayID, across all users.
	DayOwner(ctx context.Context, dayID string) (string, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type AuthSessionRepo interface {
	Create(ctx context.Context, s *domain.AuthSession) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.AuthSession, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
