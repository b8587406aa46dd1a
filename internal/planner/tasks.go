package planner

import (
	"context"
	"fmt"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/domain"
)

// CreateTask validates fields, then adds the task at the head of the backlog,
// or at the end of its lane when a placement is given. Validation failures
// return an error and change nothing.
func (s *Store) CreateTask(fields domain.TaskFields) (domain.Task, *Op, error) {
	f := fields.Normalize()
	if err := f.Validate(); err != nil {
		return domain.Task{}, nil, err
	}
	task := f.NewTask(s.newID(), s.clock())
	localID := task.ID
	var serverID string

	sc := scopeFloating
	if task.Scheduled() {
		sc = scopeTasks
	}

	op := s.dispatch(command{
		name:  "create task",
		scope: sc,
		apply: func(st *State) error {
			if !task.Scheduled() {
				st.Floating, _ = insertAt(st.Floating, task, FloatingLane, 0)
				return nil
			}
			if _, ok := st.Week.Day(task.DayID); !ok {
				return fmt.Errorf("%w: %s", domain.ErrDayNotFound, task.DayID)
			}
			key := PlacementKey(task)
			st.Tasks, _ = insertAt(st.Tasks, task, key, IndexFor(st.Tasks).Len(key))
			return nil
		},
		remote: func(ctx context.Context, r app.Remote, _ string) (func(*State), error) {
			created, err := r.CreateTask(ctx, f)
			if err != nil {
				return nil, err
			}
			serverID = created.ID
			return func(st *State) {
				s.aliases[localID] = serverID
				renameTask(st, localID, serverID)
			}, nil
		},
		onRemote: func() {
			s.pending[localID] = &pendingCreate{done: make(chan struct{})}
		},
		settle: func(err error) {
			s.mu.Lock()
			p := s.pending[localID]
			s.mu.Unlock()
			p.serverID, p.err = serverID, err
			close(p.done)
		},
	})

	// Apply failures (a day outside the active week) settle immediately and
	// are reported like validation errors.
	if err := op.Err(); err != nil {
		return domain.Task{}, nil, err
	}
	return task, op, nil
}

// UpdateTask applies a field patch to a task in either collection.
func (s *Store) UpdateTask(taskID string, patch domain.TaskPatch) (*Op, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	now := s.clock()
	return s.dispatch(command{
		name:   "update task",
		taskID: taskID,
		scope:  scopeTasks | scopeFloating,
		apply: func(st *State) error {
			return editTask(st, taskID, func(t *domain.Task) { patch.Apply(t, now) })
		},
		remote: func(ctx context.Context, r app.Remote, id string) (func(*State), error) {
			_, err := r.UpdateTask(ctx, id, patch)
			return nil, err
		},
	}), nil
}

// MoveTask relocates a scheduled task to another slot.
func (s *Store) MoveTask(req MoveRequest) *Op {
	var order int
	return s.dispatch(command{
		name:   "move task",
		taskID: req.TaskID,
		scope:  scopeTasks,
		apply: func(st *State) error {
			if err := req.validate(); err != nil {
				return err
			}
			rest, task, ok := take(st.Tasks, req.TaskID)
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, req.TaskID)
			}
			task.DayID, task.Swimlane = req.DayID, req.Swimlane
			st.Tasks, order = insertAt(rest, task, req.lane(), req.Index)
			return nil
		},
		remote: func(ctx context.Context, r app.Remote, id string) (func(*State), error) {
			_, err := r.AssignTask(ctx, id, domain.Assignment{DayID: req.DayID, Swimlane: req.Swimlane, Order: order})
			return nil, err
		},
	})
}

// ScheduleFloatingTask moves a backlog task into a slot.
func (s *Store) ScheduleFloatingTask(req MoveRequest) *Op {
	var order int
	return s.dispatch(command{
		name:   "schedule task",
		taskID: req.TaskID,
		scope:  scopeTasks | scopeFloating,
		apply: func(st *State) error {
			if err := req.validate(); err != nil {
				return err
			}
			rest, task, ok := take(st.Floating, req.TaskID)
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, req.TaskID)
			}
			task.DayID, task.Swimlane = req.DayID, req.Swimlane
			st.Floating = rest
			st.Tasks, order = insertAt(st.Tasks, task, req.lane(), req.Index)
			return nil
		},
		remote: func(ctx context.Context, r app.Remote, id string) (func(*State), error) {
			_, err := r.AssignTask(ctx, id, domain.Assignment{DayID: req.DayID, Swimlane: req.Swimlane, Order: order})
			return nil, err
		},
	})
}

// UnscheduleTask sends a scheduled task back to the backlog.
func (s *Store) UnscheduleTask(req UnscheduleRequest) *Op {
	var order int
	return s.dispatch(command{
		name:   "unschedule task",
		taskID: req.TaskID,
		scope:  scopeTasks | scopeFloating,
		apply: func(st *State) error {
			rest, task, ok := take(st.Tasks, req.TaskID)
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, req.TaskID)
			}
			task.Unschedule()
			index := len(st.Floating)
			if req.Index != nil {
				index = *req.Index
			}
			st.Tasks = rest
			st.Floating, order = insertAt(st.Floating, task, FloatingLane, index)
			return nil
		},
		remote: func(ctx context.Context, r app.Remote, id string) (func(*State), error) {
			_, err := r.AssignTask(ctx, id, domain.Assignment{Order: order})
			return nil, err
		},
	})
}

// ReorderFloatingTask moves a task within the backlog.
func (s *Store) ReorderFloatingTask(taskID string, index int) *Op {
	var order int
	return s.dispatch(command{
		name:   "reorder task",
		taskID: taskID,
		scope:  scopeFloating,
		apply: func(st *State) error {
			rest, task, ok := take(st.Floating, taskID)
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
			}
			st.Floating, order = insertAt(rest, task, FloatingLane, index)
			return nil
		},
		remote: func(ctx context.Context, r app.Remote, id string) (func(*State), error) {
			_, err := r.AssignTask(ctx, id, domain.Assignment{Order: order})
			return nil, err
		},
	})
}

// UpdateTaskStatus transitions a task, maintaining its completion timestamp.
func (s *Store) UpdateTaskStatus(taskID string, status domain.Status) *Op {
	if !status.Valid() {
		return settledOp(&domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)})
	}
	now := s.clock()
	return s.dispatch(command{
		name:   "update task status",
		taskID: taskID,
		scope:  scopeTasks | scopeFloating,
		apply: func(st *State) error {
			return editTask(st, taskID, func(t *domain.Task) { t.SetStatus(status, now) })
		},
		remote: func(ctx context.Context, r app.Remote, id string) (func(*State), error) {
			_, err := r.UpdateTask(ctx, id, domain.TaskPatch{Status: &status})
			return nil, err
		},
	})
}

// DeleteTask removes a task from whichever collection holds it. Deleting a
// task that is already gone is a no-op.
func (s *Store) DeleteTask(taskID string) *Op {
	return s.dispatch(command{
		name:   "delete task",
		taskID: taskID,
		scope:  scopeTasks | scopeFloating,
		apply: func(st *State) error {
			if _, ok := st.Task(taskID); !ok {
				return errNoChange
			}
			purgeTask(st, taskID)
			return nil
		},
		remote: func(ctx context.Context, r app.Remote, id string) (func(*State), error) {
			return nil, r.DeleteTask(ctx, id)
		},
	})
}

func editTask(st *State, taskID string, fn func(*domain.Task)) error {
	if i := findTask(st.Tasks, taskID); i >= 0 {
		fn(&st.Tasks[i])
		return nil
	}
	if i := findTask(st.Floating, taskID); i >= 0 {
		fn(&st.Floating[i])
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
}
