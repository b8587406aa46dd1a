package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/planner"
)

// WeekTitle renders "2026-W42 · Oct 12 – Oct 18".
func WeekTitle(w domain.Week) string {
	return fmt.Sprintf("%d-W%02d · %s – %s", w.WeekNumber/100, w.WeekNumber%100,
		w.Start.Format("Jan 2"), w.End.Format("Jan 2"))
}

// TaskLine renders one task as it appears inside a lane or the backlog.
func TaskLine(t domain.Task) string {
	return fmt.Sprintf("%2d. %s %s %s %s",
		t.Order+1, StatusMark(t.Status), t.Title, TruncID(t.ID), Dim(FormatMinutes(t.DurationMinutes)))
}

// FormatBoard renders the week day by day, lane by lane, then the backlog.
func FormatBoard(st planner.State, ix planner.LaneIndex, mode planner.Mode, now time.Time) string {
	var b strings.Builder

	title := WeekTitle(st.Week)
	if st.Week.Theme != "" {
		title += " · " + st.Week.Theme
	}
	b.WriteString(Header(title) + "\n")

	for _, day := range st.Week.Days {
		b.WriteString("\n" + dayHeading(day) + "\n")
		empty := true
		for _, sl := range domain.Swimlanes() {
			lane := ix.Lane(planner.LaneKey{DayID: day.ID, Swimlane: sl.Key})
			if len(lane) == 0 {
				continue
			}
			empty = false
			b.WriteString("  " + LaneLabel(sl.Key) + "\n")
			for _, t := range lane {
				b.WriteString("    " + TaskLine(t) + "\n")
			}
		}
		if empty {
			b.WriteString("  " + Dim("(nothing planned)") + "\n")
		}
	}

	b.WriteString("\n" + Header("Backlog") + "\n")
	floating := ix.Lane(planner.LaneKey{})
	if len(floating) == 0 {
		b.WriteString(Dim("  (empty)") + "\n")
	}
	for _, t := range floating {
		b.WriteString("  " + TaskLine(t) + "\n")
	}

	b.WriteString("\n" + StatusLine(st, mode, now) + "\n")
	return b.String()
}

func dayHeading(d domain.Day) string {
	parts := []string{Bold(d.Label)}
	if d.Theme != "" {
		parts = append(parts, StyleHeader.Render(d.Theme))
	}
	if d.FocusMetric != "" {
		parts = append(parts, Dim("focus: ")+d.FocusMetric)
	}
	return strings.Join(parts, Dim(" · "))
}

// StatusLine summarizes mode, provenance and save state.
func StatusLine(st planner.State, mode planner.Mode, now time.Time) string {
	parts := []string{string(mode), string(st.Source)}
	if mode == planner.ModeGuest {
		parts = append(parts, SavedAgo(st.LastSavedAt, now))
	}
	if st.Saving {
		parts = append(parts, "saving…")
	}
	return Dim(strings.Join(parts, " · "))
}

// FormatTaskList renders every task as a single table, scheduled first in
// day and lane order, then the backlog.
func FormatTaskList(st planner.State, ix planner.LaneIndex) string {
	var rows [][]string
	for _, day := range st.Week.Days {
		for _, sl := range domain.Swimlanes() {
			for _, t := range ix.Lane(planner.LaneKey{DayID: day.ID, Swimlane: sl.Key}) {
				rows = append(rows, taskRow(t, day.Label, LaneLabel(sl.Key)))
			}
		}
	}
	for _, t := range ix.Lane(planner.LaneKey{}) {
		rows = append(rows, taskRow(t, Dim("backlog"), Dim("--")))
	}
	if len(rows) == 0 {
		return Dim("No tasks.") + "\n"
	}
	return RenderTable([]string{"ID", "TITLE", "DAY", "LANE", "STATUS", "TIME"}, rows)
}

func taskRow(t domain.Task, day, lane string) []string {
	return []string{TruncID(t.ID), t.Title, day, lane, StatusPill(t.Status), FormatMinutes(t.DurationMinutes)}
}
