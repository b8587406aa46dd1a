package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func validFields() TaskFields {
	return TaskFields{
		Title:           "Write docs",
		Category:        CategoryWork,
		Energy:          EnergyHigh,
		DurationMinutes: 60,
	}.Normalize()
}

func TestSetStatus_CompletionTimestampLaw(t *testing.T) {
	task := Task{Status: StatusPlanned}

	task.SetStatus(StatusCompleted, testNow)
	assert.Equal(t, StatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, testNow, *task.CompletedAt)

	task.SetStatus(StatusPlanned, testNow.Add(time.Hour))
	assert.Equal(t, StatusPlanned, task.Status)
	assert.Nil(t, task.CompletedAt)

	task.SetStatus(StatusInProgress, testNow)
	assert.Nil(t, task.CompletedAt, "moving between non-completed statuses leaves it null")
}

func TestSetStatus_CompletedToCompletedKeepsTimestamp(t *testing.T) {
	earlier := testNow.Add(-time.Hour)
	task := Task{Status: StatusCompleted, CompletedAt: &earlier}

	task.SetStatus(StatusCompleted, testNow)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, earlier, *task.CompletedAt)
}

func TestTaskFields_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*TaskFields)
		field  string
	}{
		{"empty title", func(f *TaskFields) { f.Title = "" }, "title"},
		{"long title", func(f *TaskFields) { f.Title = strings.Repeat("x", MaxTitleLen+1) }, "title"},
		{"unknown category", func(f *TaskFields) { f.Category = "chores" }, "category"},
		{"unknown energy", func(f *TaskFields) { f.Energy = "extreme" }, "energy"},
		{"short duration", func(f *TaskFields) { f.DurationMinutes = 4 }, "durationMinutes"},
		{"long duration", func(f *TaskFields) { f.DurationMinutes = 481 }, "durationMinutes"},
		{"long notes", func(f *TaskFields) { f.Notes = strings.Repeat("n", MaxNotesLen+1) }, "notes"},
		{"zero occurrences", func(f *TaskFields) { f.TargetOccurrencesPerWeek = IntPtr(0) }, "targetOccurrencesPerWeek"},
		{"too many occurrences", func(f *TaskFields) { f.TargetOccurrencesPerWeek = IntPtr(22) }, "targetOccurrencesPerWeek"},
		{"unknown lane", func(f *TaskFields) { f.DayID = "2026-10-12"; f.Swimlane = "errands" }, "swimlane"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validFields()
			tc.mutate(&f)
			err := f.Validate()
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestTaskFields_ValidateAcceptsBoundaries(t *testing.T) {
	f := validFields()
	f.Title = strings.Repeat("x", MaxTitleLen)
	f.DurationMinutes = MinDurationMinutes
	f.TargetOccurrencesPerWeek = IntPtr(MaxTargetOccurrences)
	assert.NoError(t, f.Validate())

	f.DurationMinutes = MaxDurationMinutes
	assert.NoError(t, f.Validate())
}

func TestTaskFields_PlacementRequiresBoth(t *testing.T) {
	f := validFields()
	f.DayID = "2026-10-12"
	assert.ErrorIs(t, f.Validate(), ErrInvalidPlacement)

	f.DayID = ""
	f.Swimlane = SwimlaneFocus
	assert.ErrorIs(t, f.Validate(), ErrInvalidPlacement)

	f.DayID = "2026-10-12"
	assert.NoError(t, f.Validate())
}

func TestTaskFields_NormalizeTrimsAndDefaultsStatus(t *testing.T) {
	f := TaskFields{Title: "  Write docs  "}.Normalize()
	assert.Equal(t, "Write docs", f.Title)
	assert.Equal(t, StatusPlanned, f.Status)
}

func TestTaskFields_NewTaskCompletedAtCreation(t *testing.T) {
	f := validFields()
	f.Status = StatusCompleted
	task := f.NewTask("t1", testNow)
	assert.Equal(t, StatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
}

func TestTaskPatch_ApplyClearsOccurrencesAndTrims(t *testing.T) {
	task := Task{Title: "Old", TargetOccurrencesPerWeek: IntPtr(3), Status: StatusPlanned}
	done := StatusCompleted
	p := TaskPatch{Title: StrPtr("  New  "), TargetOccurrencesPerWeek: IntPtr(0), Status: &done}
	require.NoError(t, p.Validate())

	p.Apply(&task, testNow)
	assert.Equal(t, "New", task.Title)
	assert.Nil(t, task.TargetOccurrencesPerWeek)
	require.NotNil(t, task.CompletedAt)
}

func TestTaskPatch_ValidateRejectsBadDuration(t *testing.T) {
	p := TaskPatch{DurationMinutes: IntPtr(1000)}
	assert.True(t, IsValidation(p.Validate()))
	assert.True(t, TaskPatch{}.Empty())
}

func TestAssignment_Validate(t *testing.T) {
	assert.NoError(t, Assignment{}.Validate(), "empty assignment means backlog")
	assert.Error(t, Assignment{DayID: "d", Swimlane: SwimlaneFocus, Order: -1}.Validate())
	assert.ErrorIs(t, Assignment{DayID: "d"}.Validate(), ErrInvalidPlacement)
}

func TestQuickAddResult_FieldsDefaults(t *testing.T) {
	f := QuickAddResult{Title: " stretch "}.Fields()
	assert.Equal(t, "stretch", f.Title)
	assert.Equal(t, CategoryPersonal, f.Category)
	assert.Equal(t, EnergyMedium, f.Energy)
	assert.Equal(t, 30, f.DurationMinutes)
	assert.NoError(t, f.Validate())
}
