package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/db"
	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/repository"
	"github.com/google/uuid"
)

type weekService struct {
	weeks    repository.WeekRepo
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewWeekService(weeks repository.WeekRepo, tasks repository.TaskRepo, uow db.UnitOfWork, observers ...UseCaseObserver) WeekService {
	return &weekService{
		weeks:    weeks,
		tasks:    tasks,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create stores a seven-day week starting at req.Start with generated days.
func (s *weekService) Create(ctx context.Context, userID string, req app.CreateWeekRequest) (week *domain.Week, err error) {
	defer observe(ctx, s.observer, "create-week", userID, map[string]any{"start": req.Start.Format(domain.DateLayout)})(&err)

	var start, end time.Time
	if start, end, err = domain.WeekRange(req.Start, req.End); err != nil {
		return nil, err
	}
	patch := domain.WeekPatch{Theme: &req.Theme}
	if err = patch.Validate(); err != nil {
		return nil, err
	}

	w := domain.Week{
		ID:         uuid.New().String(),
		WeekNumber: domain.WeekNumber(start),
		Start:      start,
		End:        end,
		Theme:      req.Theme,
		Days:       domain.GenerateDays(start, func(string) string { return uuid.New().String() }),
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteWeekRepo(tx).Create(ctx, userID, &w)
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, fmt.Errorf("%w: %s", ErrWeekExists, start.Format(domain.DateLayout))
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *weekService) List(ctx context.Context, userID string) ([]domain.Week, error) {
	return s.weeks.List(ctx, userID)
}

func (s *weekService) ListInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Week, error) {
	if end.Before(start) {
		return nil, &domain.ValidationError{Field: "endDate", Message: "must not be before start date"}
	}
	return s.weeks.ListInRange(ctx, userID, start, end)
}

// Current returns the week containing at, wrapping domain.ErrWeekNotFound
// when there is none.
func (s *weekService) Current(ctx context.Context, userID string, at time.Time) (*domain.Week, error) {
	w, err := s.weeks.GetContaining(ctx, userID, at)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: containing %s", domain.ErrWeekNotFound, at.Format(domain.DateLayout))
	}
	return w, err
}

func (s *weekService) Get(ctx context.Context, userID, id string) (*domain.Week, error) {
	w, err := s.weeks.GetByID(ctx, userID, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrWeekNotFound, id)
	}
	return w, nil
}

func (s *weekService) GetWithStats(ctx context.Context, userID, id string) (*domain.WeekWithStats, error) {
	var out domain.WeekWithStats
	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		w, err := repository.NewSQLiteWeekRepo(tx).GetByID(ctx, userID, id)
		if err != nil {
			return notFoundAs(err, domain.ErrWeekNotFound, id)
		}
		tasks, err := repository.NewSQLiteTaskRepo(tx).ListByWeek(ctx, userID, id)
		if err != nil {
			return err
		}
		out = domain.WeekWithStats{Week: *w, Statistics: domain.ComputeStatistics(tasks)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *weekService) Update(ctx context.Context, userID, id string, patch domain.WeekPatch) (*domain.Week, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	w, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if patch.Theme != nil {
		w.Theme = *patch.Theme
	}
	if err := s.weeks.Update(ctx, userID, w); err != nil {
		return nil, notFoundAs(err, domain.ErrWeekNotFound, id)
	}
	return w, nil
}

// Delete removes the week and its days. Tasks scheduled into it are appended
// to the end of the backlog in day and lane order.
func (s *weekService) Delete(ctx context.Context, userID, id string) (err error) {
	defer observe(ctx, s.observer, "delete-week", userID, map[string]any{"week_id": id})(&err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWeeks := repository.NewSQLiteWeekRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		if _, err := txWeeks.GetByID(ctx, userID, id); err != nil {
			return notFoundAs(err, domain.ErrWeekNotFound, id)
		}
		scheduled, err := txTasks.ListByWeek(ctx, userID, id)
		if err != nil {
			return err
		}
		n, err := txTasks.CountInGroup(ctx, userID, repository.Group{})
		if err != nil {
			return err
		}
		for i := range scheduled {
			t := &scheduled[i]
			t.Unschedule()
			t.Order = n + i
			if err := txTasks.Update(ctx, userID, t); err != nil {
				return err
			}
		}
		return txWeeks.Delete(ctx, userID, id)
	})
}

func (s *weekService) GetDay(ctx context.Context, userID, dayID string) (*domain.Day, error) {
	d, _, err := s.weeks.GetDay(ctx, userID, dayID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrDayNotFound, dayID)
	}
	return d, nil
}

func (s *weekService) UpdateDay(ctx context.Context, userID, dayID string, patch domain.DayPatch) (*domain.Day, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	d, err := s.GetDay(ctx, userID, dayID)
	if err != nil {
		return nil, err
	}
	patch.Apply(d)
	if err := s.weeks.UpdateDay(ctx, userID, d); err != nil {
		return nil, notFoundAs(err, domain.ErrDayNotFound, dayID)
	}
	return d, nil
}
