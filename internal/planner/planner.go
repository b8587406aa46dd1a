package planner

import (
	"context"
	"time"

	"github.com/alexanderramin/weekplan/internal/domain"
)

// Planner is the mutation and query surface the UI drives. Every mutation
// applies to memory before returning; the Op settles once the change is
// confirmed remotely or rolled back.
type Planner interface {
	State() State
	Index() LaneIndex
	Mode() Mode
	Subscribe(fn func(State)) (unsubscribe func())

	CreateTask(fields domain.TaskFields) (domain.Task, *Op, error)
	UpdateTask(taskID string, patch domain.TaskPatch) (*Op, error)
	MoveTask(req MoveRequest) *Op
	ScheduleFloatingTask(req MoveRequest) *Op
	UnscheduleTask(req UnscheduleRequest) *Op
	ReorderFloatingTask(taskID string, index int) *Op
	UpdateTaskStatus(taskID string, status domain.Status) *Op
	DeleteTask(taskID string) *Op

	SetTheme(dayID, theme string) *Op
	SetFocusMetric(dayID, text string) *Op
	SetViewMode(mode ViewMode)

	GoToPreviousWeek() *Op
	GoToNextWeek() *Op
	ResetToCurrentWeek() *Op
	HydrateFromDate(date time.Time) *Op

	LoadInitialSnapshot(ctx context.Context) error
	PersistSnapshot(ctx context.Context) error
	Flush(ctx context.Context) error
}

// MoveRequest targets a (day, swimlane) slot. Index is clamped to the lane.
type MoveRequest struct {
	TaskID   string
	DayID    string
	Swimlane domain.SwimlaneKey
	Index    int
}

func (r MoveRequest) lane() LaneKey {
	return LaneKey{DayID: r.DayID, Swimlane: r.Swimlane}
}

func (r MoveRequest) validate() error {
	if r.DayID == "" || r.Swimlane == "" {
		return domain.ErrInvalidPlacement
	}
	return domain.ValidatePlacement(r.DayID, r.Swimlane)
}

// UnscheduleRequest returns a task to the backlog. A nil Index appends.
type UnscheduleRequest struct {
	TaskID string
	Index  *int
}
