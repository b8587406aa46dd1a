package domain

import "math"

// TaskStatistics summarizes a set of tasks by status.
type TaskStatistics struct {
	Total                int
	Completed            int
	InProgress           int
	Planned              int
	Skipped              int
	TotalDurationMinutes int
	// CompletionRate is the completed share as a percentage, rounded to two decimals.
	CompletionRate float64
}

// ComputeStatistics tallies tasks.
func ComputeStatistics(tasks []Task) TaskStatistics {
	var s TaskStatistics
	for _, t := range tasks {
		s.Total++
		s.TotalDurationMinutes += t.DurationMinutes
		switch t.Status {
		case StatusCompleted:
			s.Completed++
		case StatusInProgress:
			s.InProgress++
		case StatusPlanned:
			s.Planned++
		case StatusSkipped:
			s.Skipped++
		}
	}
	if s.Total > 0 {
		rate := float64(s.Completed) / float64(s.Total) * 100
		s.CompletionRate = math.Round(rate*100) / 100
	}
	return s
}

// WeekWithStats pairs a week with statistics over the tasks scheduled in it.
type WeekWithStats struct {
	Week       Week
	Statistics TaskStatistics
}
