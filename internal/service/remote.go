package service

import (
	"context"
	"time"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/domain"
)

// Remote binds the services to one user, giving an in-process app.Remote.
type Remote struct {
	tasks  TaskService
	weeks  WeekService
	userID string
}

var _ app.Remote = (*Remote)(nil)

func NewRemote(tasks TaskService, weeks WeekService, userID string) *Remote {
	return &Remote{tasks: tasks, weeks: weeks, userID: userID}
}

func (r *Remote) CreateTask(ctx context.Context, fields domain.TaskFields) (*domain.Task, error) {
	return r.tasks.Create(ctx, r.userID, fields)
}

func (r *Remote) ListTasks(ctx context.Context, filter app.TaskFilter) ([]domain.Task, error) {
	return r.tasks.List(ctx, r.userID, filter)
}

func (r *Remote) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	return r.tasks.Update(ctx, r.userID, id, patch)
}

func (r *Remote) AssignTask(ctx context.Context, id string, a domain.Assignment) (*domain.Task, error) {
	return r.tasks.Assign(ctx, r.userID, id, a)
}

func (r *Remote) DeleteTask(ctx context.Context, id string) error {
	return r.tasks.Delete(ctx, r.userID, id)
}

func (r *Remote) CreateWeek(ctx context.Context, req app.CreateWeekRequest) (*domain.Week, error) {
	return r.weeks.Create(ctx, r.userID, req)
}

func (r *Remote) CurrentWeek(ctx context.Context, at time.Time) (*domain.Week, error) {
	return r.weeks.Current(ctx, r.userID, at)
}

func (r *Remote) GetWeek(ctx context.Context, id string) (*domain.Week, error) {
	return r.weeks.Get(ctx, r.userID, id)
}

func (r *Remote) UpdateWeek(ctx context.Context, id string, patch domain.WeekPatch) (*domain.Week, error) {
	return r.weeks.Update(ctx, r.userID, id, patch)
}

func (r *Remote) UpdateDay(ctx context.Context, dayID string, patch domain.DayPatch) (*domain.Day, error) {
	return r.weeks.UpdateDay(ctx, r.userID, dayID, patch)
}
