package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/domain"
)

// FakeRemote is an in-memory app.Remote with failure injection and a gate
// that can hold calls in flight.
type FakeRemote struct {
	mu    sync.Mutex
	tasks map[string]domain.Task
	weeks []domain.Week
	seq   int
	fail  map[string]error
	calls []string
	gate  chan struct{}
}

var _ app.Remote = (*FakeRemote)(nil)

func NewFakeRemote() *FakeRemote {
	return &FakeRemote{tasks: make(map[string]domain.Task), fail: make(map[string]error)}
}

// FailOn makes every call to method return err until cleared.
func (f *FakeRemote) FailOn(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method] = err
}

func (f *FakeRemote) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = make(map[string]error)
}

// Hold blocks every subsequent call until release is invoked.
func (f *FakeRemote) Hold() (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gate = gate
	f.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.gate = nil
			f.mu.Unlock()
			close(gate)
		})
	}
}

func (f *FakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeRemote) CallCount(method string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == method {
			n++
		}
	}
	return n
}

// Task returns the backend copy of a task.
func (f *FakeRemote) Task(id string) (domain.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	return t, ok
}

// PutTask stores t as if the backend had it already.
func (f *FakeRemote) PutTask(t domain.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[t.ID] = t
}

// PutWeek stores a backend week built around anchor and returns it.
func (f *FakeRemote) PutWeek(anchor time.Time) domain.Week {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.newWeekLocked(domain.StartOfWeek(anchor), "")
}

func (f *FakeRemote) enter(ctx context.Context, method string) error {
	f.mu.Lock()
	f.calls = append(f.calls, method)
	gate := f.gate
	err := f.fail[method]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *FakeRemote) newWeekLocked(start time.Time, theme string) domain.Week {
	f.seq++
	w := domain.Week{
		ID:         fmt.Sprintf("week-%d", f.seq),
		WeekNumber: domain.WeekNumber(start),
		Start:      start,
		End:        start.AddDate(0, 0, domain.DaysPerWeek-1),
		Theme:      theme,
		Days:       domain.GenerateDays(start, func(date string) string { return "day-" + date }),
	}
	f.weeks = append(f.weeks, w)
	return w.Clone()
}

func (f *FakeRemote) CreateTask(ctx context.Context, fields domain.TaskFields) (*domain.Task, error) {
	if err := f.enter(ctx, "CreateTask"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	t := fields.NewTask(fmt.Sprintf("srv-%d", f.seq), FixedNow)
	for _, other := range f.tasks {
		if other.DayID == t.DayID && other.Swimlane == t.Swimlane {
			t.Order++
		}
	}
	f.tasks[t.ID] = t
	return &t, nil
}

func (f *FakeRemote) ListTasks(ctx context.Context, filter app.TaskFilter) ([]domain.Task, error) {
	if err := f.enter(ctx, "ListTasks"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Task
	for _, t := range f.tasks {
		switch {
		case filter.Unassigned && t.DayID != "":
			continue
		case !filter.Unassigned && filter.DayID != "" && t.DayID != filter.DayID:
			continue
		case filter.Swimlane != "" && t.Swimlane != filter.Swimlane:
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeRemote) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := f.enter(ctx, "UpdateTask"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	patch.Apply(&t, FixedNow)
	f.tasks[id] = t
	return &t, nil
}

func (f *FakeRemote) AssignTask(ctx context.Context, id string, a domain.Assignment) (*domain.Task, error) {
	if err := f.enter(ctx, "AssignTask"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	t.DayID, t.Swimlane, t.Order = a.DayID, a.Swimlane, a.Order
	f.tasks[id] = t
	return &t, nil
}

func (f *FakeRemote) DeleteTask(ctx context.Context, id string) error {
	if err := f.enter(ctx, "DeleteTask"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	delete(f.tasks, id)
	return nil
}

func (f *FakeRemote) CreateWeek(ctx context.Context, req app.CreateWeekRequest) (*domain.Week, error) {
	if err := f.enter(ctx, "CreateWeek"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.newWeekLocked(domain.StartOfDay(req.Start), req.Theme)
	return &w, nil
}

func (f *FakeRemote) CurrentWeek(ctx context.Context, at time.Time) (*domain.Week, error) {
	if err := f.enter(ctx, "CurrentWeek"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.weeks {
		if w.Contains(at) {
			c := w.Clone()
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: containing %s", domain.ErrWeekNotFound, at.Format(domain.DateLayout))
}

func (f *FakeRemote) GetWeek(ctx context.Context, id string) (*domain.Week, error) {
	if err := f.enter(ctx, "GetWeek"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.weeks {
		if w.ID == id {
			c := w.Clone()
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrWeekNotFound, id)
}

func (f *FakeRemote) UpdateWeek(ctx context.Context, id string, patch domain.WeekPatch) (*domain.Week, error) {
	if err := f.enter(ctx, "UpdateWeek"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.weeks {
		if f.weeks[i].ID == id {
			if patch.Theme != nil {
				f.weeks[i].Theme = *patch.Theme
			}
			c := f.weeks[i].Clone()
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrWeekNotFound, id)
}

func (f *FakeRemote) UpdateDay(ctx context.Context, dayID string, patch domain.DayPatch) (*domain.Day, error) {
	if err := f.enter(ctx, "UpdateDay"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.weeks {
		if j := f.weeks[i].DayIndex(dayID); j >= 0 {
			patch.Apply(&f.weeks[i].Days[j])
			d := f.weeks[i].Days[j]
			return &d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrDayNotFound, dayID)
}
