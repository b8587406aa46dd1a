package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/db"
	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/repository"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskRepo
	weeks    repository.WeekRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, weeks repository.WeekRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{
		tasks:    tasks,
		weeks:    weeks,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create appends the task to the end of its group.
func (s *taskService) Create(ctx context.Context, userID string, fields domain.TaskFields) (task *domain.Task, err error) {
	defer observe(ctx, s.observer, "create-task", userID, nil)(&err)

	f := fields.Normalize()
	if err = f.Validate(); err != nil {
		return nil, err
	}
	if f.DayID != "" {
		if err = s.checkDay(ctx, userID, f.DayID); err != nil {
			return nil, err
		}
	}

	t := f.NewTask(uuid.New().String(), time.Now().UTC())
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		n, err := txTasks.CountInGroup(ctx, userID, repository.GroupOf(t))
		if err != nil {
			return err
		}
		t.Order = n
		return txTasks.Create(ctx, userID, &t)
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *taskService) List(ctx context.Context, userID string, filter app.TaskFilter) ([]domain.Task, error) {
	if filter.Swimlane != "" && !filter.Swimlane.Valid() {
		return nil, &domain.ValidationError{Field: "swimlane", Message: fmt.Sprintf("unknown swimlane %q", filter.Swimlane)}
	}
	return s.tasks.List(ctx, userID, filter)
}

func (s *taskService) Get(ctx context.Context, userID, id string) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, userID, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrTaskNotFound, id)
	}
	return t, nil
}

// Update applies a field patch. Placement is changed through Assign only.
func (s *taskService) Update(ctx context.Context, userID, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return t, nil
	}
	patch.Apply(t, time.Now().UTC())
	if err := s.tasks.Update(ctx, userID, t); err != nil {
		return nil, notFoundAs(err, domain.ErrTaskNotFound, id)
	}
	return t, nil
}

// Assign moves a task into a group at a.Order, clamped to the group's end.
// Both the source and the target group stay dense.
func (s *taskService) Assign(ctx context.Context, userID, id string, a domain.Assignment) (task *domain.Task, err error) {
	defer observe(ctx, s.observer, "assign-task", userID, map[string]any{"task_id": id, "day_id": a.DayID})(&err)

	if err = a.Validate(); err != nil {
		return nil, err
	}
	if a.DayID != "" {
		if err = s.checkDay(ctx, userID, a.DayID); err != nil {
			return nil, err
		}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		task, err = placeTask(ctx, repository.NewSQLiteTaskRepo(tx), userID, id, repository.Group{DayID: a.DayID, Swimlane: a.Swimlane}, a.Order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Reorder moves a task within its current group.
func (s *taskService) Reorder(ctx context.Context, userID, id string, position int) (task *domain.Task, err error) {
	if position < 0 {
		return nil, &domain.ValidationError{Field: "position", Message: "must not be negative"}
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		current, err := txTasks.GetByID(ctx, userID, id)
		if err != nil {
			return notFoundAs(err, domain.ErrTaskNotFound, id)
		}
		task, err = placeTask(ctx, txTasks, userID, id, repository.GroupOf(*current), position)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task and closes the gap it leaves.
func (s *taskService) Delete(ctx context.Context, userID, id string) (err error) {
	defer observe(ctx, s.observer, "delete-task", userID, map[string]any{"task_id": id})(&err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		t, err := txTasks.GetByID(ctx, userID, id)
		if err != nil {
			return notFoundAs(err, domain.ErrTaskNotFound, id)
		}
		if err := txTasks.Delete(ctx, userID, id); err != nil {
			return err
		}
		return txTasks.ShiftGroup(ctx, userID, repository.GroupOf(*t), t.Order+1, -1, id)
	})
}

func (s *taskService) Statistics(ctx context.Context, userID string, filter app.TaskFilter) (domain.TaskStatistics, error) {
	tasks, err := s.List(ctx, userID, filter)
	if err != nil {
		return domain.TaskStatistics{}, err
	}
	return domain.ComputeStatistics(tasks), nil
}

// checkDay distinguishes a missing day from one owned by another user.
func (s *taskService) checkDay(ctx context.Context, userID, dayID string) error {
	owner, err := s.weeks.DayOwner(ctx, dayID)
	if err != nil {
		return notFoundAs(err, domain.ErrDayNotFound, dayID)
	}
	if owner != userID {
		return fmt.Errorf("%w: day %s", ErrForbidden, dayID)
	}
	return nil
}

// placeTask takes the task out of its group, opens a slot at order in the
// target group, and writes the new placement. tasks must be bound to a tx.
func placeTask(ctx context.Context, tasks *repository.SQLiteTaskRepo, userID, id string, target repository.Group, order int) (*domain.Task, error) {
	t, err := tasks.GetByID(ctx, userID, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrTaskNotFound, id)
	}
	source := repository.GroupOf(*t)
	if err := tasks.ShiftGroup(ctx, userID, source, t.Order+1, -1, id); err != nil {
		return nil, err
	}

	n, err := tasks.CountInGroup(ctx, userID, target)
	if err != nil {
		return nil, err
	}
	if source == target {
		n--
	}
	order = min(order, n)
	if err := tasks.ShiftGroup(ctx, userID, target, order, 1, id); err != nil {
		return nil, err
	}

	t.DayID, t.Swimlane, t.Order = target.DayID, target.Swimlane, order
	if err := tasks.Update(ctx, userID, t); err != nil {
		return nil, notFoundAs(err, domain.ErrTaskNotFound, id)
	}
	return t, nil
}
