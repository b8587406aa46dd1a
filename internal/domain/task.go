package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits shared by the planner and the backend so both reject the same input.
const (
	MaxTitleLen          = 200
	MinDurationMinutes   = 5
	MaxDurationMinutes   = 480
	MaxNotesLen          = 1000
	MinTargetOccurrences = 1
	MaxTargetOccurrences = 21
)

// Task is a unit of plannable work. A task with an empty DayID lives in the
// floating backlog; a scheduled task always carries both DayID and Swimlane.
// Order is dense and zero-based within the task's placement group.
type Task struct {
	ID                       string      `json:"id"`
	Title                    string      `json:"title"`
	Category                 Category    `json:"category"`
	Energy                   Energy      `json:"energy"`
	Status                   Status      `json:"status"`
	DurationMinutes          int         `json:"durationMinutes"`
	Order                    int         `json:"order"`
	DayID                    string      `json:"assignedDayId,omitempty"`
	Swimlane                 SwimlaneKey `json:"swimlaneId,omitempty"`
	TargetOccurrencesPerWeek *int        `json:"targetOccurrencesPerWeek,omitempty"`
	Notes                    string      `json:"notes,omitempty"`
	CompletedAt              *time.Time  `json:"completedAt,omitempty"`
}

func (t Task) Scheduled() bool {
	return t.DayID != ""
}

// SetStatus moves the task to s. Entering completed from any other status
// stamps CompletedAt; leaving completed clears it.
func (t *Task) SetStatus(s Status, now time.Time) {
	switch {
	case s == StatusCompleted && t.Status != StatusCompleted:
		ts := now.UTC()
		t.CompletedAt = &ts
	case s != StatusCompleted:
		t.CompletedAt = nil
	}
	t.Status = s
}

// Unschedule clears the placement, returning the task to the backlog.
func (t *Task) Unschedule() {
	t.DayID = ""
	t.Swimlane = ""
}

// TaskFields is the input for creating a task.
type TaskFields struct {
	Title                    string
	Category                 Category
	Energy                   Energy
	DurationMinutes          int
	Status                   Status
	Notes                    string
	TargetOccurrencesPerWeek *int

	// Optional placement at creation. Both or neither.
	DayID    string
	Swimlane SwimlaneKey
}

// Normalize trims the title and fills the default status.
func (f TaskFields) Normalize() TaskFields {
	f.Title = strings.TrimSpace(f.Title)
	if f.Status == "" {
		f.Status = StatusPlanned
	}
	return f
}

// Validate checks the fields against the task invariants. Call Normalize first.
func (f TaskFields) Validate() error {
	if err := validateTitle(f.Title); err != nil {
		return err
	}
	if !f.Category.Valid() {
		return invalid("category", "unknown category %q", f.Category)
	}
	if !f.Energy.Valid() {
		return invalid("energy", "unknown energy %q", f.Energy)
	}
	if !f.Status.Valid() {
		return invalid("status", "unknown status %q", f.Status)
	}
	if err := validateDuration(f.DurationMinutes); err != nil {
		return err
	}
	if err := validateNotes(f.Notes); err != nil {
		return err
	}
	if err := validateOccurrences(f.TargetOccurrencesPerWeek); err != nil {
		return err
	}
	return ValidatePlacement(f.DayID, f.Swimlane)
}

// NewTask builds a task from validated fields.
func (f TaskFields) NewTask(id string, now time.Time) Task {
	t := Task{
		ID:                       id,
		Title:                    f.Title,
		Category:                 f.Category,
		Energy:                   f.Energy,
		Status:                   StatusPlanned,
		DurationMinutes:          f.DurationMinutes,
		DayID:                    f.DayID,
		Swimlane:                 f.Swimlane,
		Notes:                    f.Notes,
		TargetOccurrencesPerWeek: copyInt(f.TargetOccurrencesPerWeek),
	}
	t.SetStatus(f.Status, now)
	return t
}

// TaskPatch is a partial field update. Nil pointers leave the field untouched.
// A TargetOccurrencesPerWeek of 0 clears the target.
type TaskPatch struct {
	Title                    *string
	Category                 *Category
	Energy                   *Energy
	Status                   *Status
	DurationMinutes          *int
	Notes                    *string
	TargetOccurrencesPerWeek *int
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Category == nil && p.Energy == nil && p.Status == nil &&
		p.DurationMinutes == nil && p.Notes == nil && p.TargetOccurrencesPerWeek == nil
}

func (p TaskPatch) Validate() error {
	if p.Title != nil {
		if err := validateTitle(strings.TrimSpace(*p.Title)); err != nil {
			return err
		}
	}
	if p.Category != nil && !p.Category.Valid() {
		return invalid("category", "unknown category %q", *p.Category)
	}
	if p.Energy != nil && !p.Energy.Valid() {
		return invalid("energy", "unknown energy %q", *p.Energy)
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalid("status", "unknown status %q", *p.Status)
	}
	if p.DurationMinutes != nil {
		if err := validateDuration(*p.DurationMinutes); err != nil {
			return err
		}
	}
	if p.Notes != nil {
		if err := validateNotes(*p.Notes); err != nil {
			return err
		}
	}
	if p.TargetOccurrencesPerWeek != nil && *p.TargetOccurrencesPerWeek != 0 {
		return validateOccurrences(p.TargetOccurrencesPerWeek)
	}
	return nil
}

// Apply writes the patch onto t. The patch must already be valid.
func (p TaskPatch) Apply(t *Task, now time.Time) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Energy != nil {
		t.Energy = *p.Energy
	}
	if p.DurationMinutes != nil {
		t.DurationMinutes = *p.DurationMinutes
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.TargetOccurrencesPerWeek != nil {
		if *p.TargetOccurrencesPerWeek == 0 {
			t.TargetOccurrencesPerWeek = nil
		} else {
			t.TargetOccurrencesPerWeek = copyInt(p.TargetOccurrencesPerWeek)
		}
	}
	if p.Status != nil {
		t.SetStatus(*p.Status, now)
	}
}

// Assignment places a task into a (day, swimlane) slot at Order. An empty
// DayID sends the task back to the floating backlog.
type Assignment struct {
	DayID    string
	Swimlane SwimlaneKey
	Order    int
}

func (a Assignment) Validate() error {
	if a.Order < 0 {
		return invalid("order", "must not be negative")
	}
	return ValidatePlacement(a.DayID, a.Swimlane)
}

// ValidatePlacement enforces that a day and a swimlane are set together.
func ValidatePlacement(dayID string, lane SwimlaneKey) error {
	if (dayID == "") != (lane == "") {
		return ErrInvalidPlacement
	}
	if lane != "" && !lane.Valid() {
		return invalid("swimlane", "unknown swimlane %q", lane)
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return invalid("title", "must not be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return invalid("title", "must be at most %d characters", MaxTitleLen)
	}
	return nil
}

func validateDuration(minutes int) error {
	if minutes < MinDurationMinutes || minutes > MaxDurationMinutes {
		return invalid("durationMinutes", "must be between %d and %d", MinDurationMinutes, MaxDurationMinutes)
	}
	return nil
}

func validateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > MaxNotesLen {
		return invalid("notes", "must be at most %d characters", MaxNotesLen)
	}
	return nil
}

func validateOccurrences(n *int) error {
	if n == nil {
		return nil
	}
	if *n < MinTargetOccurrences || *n > MaxTargetOccurrences {
		return invalid("targetOccurrencesPerWeek", "must be between %d and %d", MinTargetOccurrences, MaxTargetOccurrences)
	}
	return nil
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
