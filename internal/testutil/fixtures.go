package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/weekplan/internal/domain"
)

var testTaskCounter atomic.Int64

// FixedNow is the clock reading used across tests: Wednesday of ISO week 42, 2026.
var FixedNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

// FixedClock returns a clock that always reads now.
func FixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskID(id string) TaskOption {
	return func(t *domain.Task) { t.ID = id }
}

// WithPlacement schedules the task into a (day, swimlane) slot.
func WithPlacement(dayID string, lane domain.SwimlaneKey) TaskOption {
	return func(t *domain.Task) {
		t.DayID = dayID
		t.Swimlane = lane
	}
}

func WithOrder(order int) TaskOption {
	return func(t *domain.Task) { t.Order = order }
}

func WithStatus(s domain.Status) TaskOption {
	return func(t *domain.Task) { t.Status = s }
}

func WithCategory(c domain.Category) TaskOption {
	return func(t *domain.Task) { t.Category = c }
}

func WithDuration(minutes int) TaskOption {
	return func(t *domain.Task) { t.DurationMinutes = minutes }
}

// NewTestTask builds a valid planned backlog task.
func NewTestTask(title string, opts ...TaskOption) domain.Task {
	n := testTaskCounter.Add(1)
	t := domain.Task{
		ID:              fmt.Sprintf("test-task-%d", n),
		Title:           title,
		Category:        domain.CategoryWork,
		Energy:          domain.EnergyMedium,
		Status:          domain.StatusPlanned,
		DurationMinutes: 30,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// NewTestFields builds valid creation input.
func NewTestFields(title string) domain.TaskFields {
	return domain.TaskFields{
		Title:           title,
		Category:        domain.CategoryWork,
		Energy:          domain.EnergyHigh,
		DurationMinutes: 60,
	}
}

// NewTestWeek returns the local skeleton of the week containing FixedNow.
func NewTestWeek() domain.Week {
	return domain.BuildWeek(FixedNow)
}
