package service

import (
	"context"
	"time"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/domain"
)

// Every operation is scoped to the calling user; resources owned by someone
// else read as not found.

type TaskService interface {
	Create(ctx context.Context, userID string, fields domain.TaskFields) (*domain.Task, error)
	List(ctx context.Context, userID string, filter app.TaskFilter) ([]domain.Task, error)
	Get(ctx context.Context, userID, id string) (*domain.Task, error)
	Update(ctx context.Context, userID, id string, patch domain.TaskPatch) (*domain.Task, error)
	Assign(ctx context.Context, userID, id string, a domain.Assignment) (*domain.Task, error)
	Reorder(ctx context.Context, userID, id string, position int) (*domain.Task, error)
	Delete(ctx context.Context, userID, id string) error
	Statistics(ctx context.Context, userID string, filter app.TaskFilter) (domain.TaskStatistics, error)
}

type WeekService interface {
	Create(ctx context.Context, userID string, req app.CreateWeekRequest) (*domain.Week, error)
	List(ctx context.Context, userID string) ([]domain.Week, error)
	ListInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Week, error)
	Current(ctx context.Context, userID string, at time.Time) (*domain.Week, error)
	Get(ctx context.Context, userID, id string) (*domain.Week, error)
	GetWithStats(ctx context.Context, userID, id string) (*domain.WeekWithStats, error)
	Update(ctx context.Context, userID, id string, patch domain.WeekPatch) (*domain.Week, error)
	Delete(ctx context.Context, userID, id string) error
	GetDay(ctx context.Context, userID, dayID string) (*domain.Day, error)
	UpdateDay(ctx context.Context, userID, dayID string, patch domain.DayPatch) (*domain.Day, error)
}

// AuthResult is a freshly issued bearer session. Token is only ever returned
// here; storage keeps its hash.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, reg domain.Registration) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Authenticate resolves a bearer token to its user, or ErrUnauthorized.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error)
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}
