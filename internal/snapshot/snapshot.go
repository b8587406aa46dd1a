package snapshot

import (
	"fmt"
	"time"

	"github.com/alexanderramin/weekplan/internal/domain"
)

// Provenance records where a snapshot's content came from.
type Provenance string

const (
	SourceSeed   Provenance = "seed-data"
	SourceLocal  Provenance = "local-store"
	SourceRemote Provenance = "remote-backend"
)

// Snapshot is a full capture of the planning state at one instant.
type Snapshot struct {
	ID         string        `json:"id"`
	CapturedAt time.Time     `json:"capturedAt"`
	Week       domain.Week   `json:"activeWeek"`
	Tasks      []domain.Task `json:"tasks"`
	Floating   []domain.Task `json:"floatingTasks"`
	Source     Provenance    `json:"source"`
}

// Validate rejects snapshots that could not have been produced by the
// planner: a short week, misplaced tasks, or duplicate IDs.
func (s Snapshot) Validate() error {
	if len(s.Week.Days) != domain.DaysPerWeek {
		return fmt.Errorf("week has %d days", len(s.Week.Days))
	}
	seen := make(map[string]bool, len(s.Tasks)+len(s.Floating))
	check := func(t domain.Task, wantScheduled bool) error {
		if t.ID == "" {
			return fmt.Errorf("task without id")
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate task %s", t.ID)
		}
		seen[t.ID] = true
		if t.Scheduled() != wantScheduled {
			return fmt.Errorf("task %s is in the wrong collection", t.ID)
		}
		if err := domain.ValidatePlacement(t.DayID, t.Swimlane); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
		return nil
	}
	for _, t := range s.Tasks {
		if err := check(t, true); err != nil {
			return err
		}
	}
	for _, t := range s.Floating {
		if err := check(t, false); err != nil {
			return err
		}
	}
	return nil
}
