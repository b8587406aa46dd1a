package planner

import (
	"time"

	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/snapshot"
)

// Hydration tracks whether the store has been populated from a real source.
type Hydration string

const (
	HydrationCold      Hydration = "cold"
	HydrationHydrating Hydration = "hydrating"
	HydrationHydrated  Hydration = "hydrated"
)

// ViewMode is the board presentation the user last picked.
type ViewMode string

const (
	ViewWeekly ViewMode = "weekly"
	ViewList   ViewMode = "list"
)

// State is a read-only copy of the planner's live data.
type State struct {
	Week        domain.Week
	Tasks       []domain.Task
	Floating    []domain.Task
	Hydration   Hydration
	Saving      bool
	LastSavedAt *time.Time
	Source      snapshot.Provenance
	Mode        ViewMode
}

func (s State) clone() State {
	out := s
	out.Week = s.Week.Clone()
	out.Tasks = cloneTasks(s.Tasks)
	out.Floating = cloneTasks(s.Floating)
	if s.LastSavedAt != nil {
		t := *s.LastSavedAt
		out.LastSavedAt = &t
	}
	return out
}

// Task looks a task up in either collection.
func (s State) Task(id string) (domain.Task, bool) {
	if i := findTask(s.Tasks, id); i >= 0 {
		return s.Tasks[i], true
	}
	if i := findTask(s.Floating, id); i >= 0 {
		return s.Floating[i], true
	}
	return domain.Task{}, false
}

func cloneTasks(tasks []domain.Task) []domain.Task {
	if tasks == nil {
		return nil
	}
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	return out
}

// scope selects which collections a command touches and must restore.
type scope uint8

const (
	scopeTasks scope = 1 << iota
	scopeFloating
	scopeWeek
)

// restorePoint is the captured pre-mutation slice of state.
type restorePoint struct {
	scope    scope
	tasks    []domain.Task
	floating []domain.Task
	week     domain.Week
}

func capture(s State, sc scope) restorePoint {
	rp := restorePoint{scope: sc}
	if sc&scopeTasks != 0 {
		rp.tasks = cloneTasks(s.Tasks)
	}
	if sc&scopeFloating != 0 {
		rp.floating = cloneTasks(s.Floating)
	}
	if sc&scopeWeek != 0 {
		rp.week = s.Week.Clone()
	}
	return rp
}

// restore puts every captured collection back wholesale.
func (rp restorePoint) restore(s *State) {
	if rp.scope&scopeTasks != 0 {
		s.Tasks = cloneTasks(rp.tasks)
	}
	if rp.scope&scopeFloating != 0 {
		s.Floating = cloneTasks(rp.floating)
	}
	if rp.scope&scopeWeek != 0 {
		s.Week = rp.week.Clone()
	}
}

// renameTask swaps a task's ID in place, keeping its placement and order.
func renameTask(s *State, from, to string) {
	if i := findTask(s.Tasks, from); i >= 0 {
		s.Tasks[i].ID = to
	}
	if i := findTask(s.Floating, from); i >= 0 {
		s.Floating[i].ID = to
	}
}

// purgeTask drops a task from both collections.
func purgeTask(s *State, id string) {
	if rest, _, ok := take(s.Tasks, id); ok {
		s.Tasks = rest
	}
	if rest, _, ok := take(s.Floating, id); ok {
		s.Floating = rest
	}
}
