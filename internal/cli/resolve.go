package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/planner"
)

// resolveTask resolves a task reference which can be:
//   - A full task ID
//   - A unique ID prefix (as printed by the board)
func resolveTask(st planner.State, ref string) (domain.Task, error) {
	if t, ok := st.Task(ref); ok {
		return t, nil
	}
	var matches []domain.Task
	for _, list := range [][]domain.Task{st.Tasks, st.Floating} {
		for _, t := range list {
			if strings.HasPrefix(t.ID, ref) {
				matches = append(matches, t)
			}
		}
	}
	switch len(matches) {
	case 0:
		return domain.Task{}, fmt.Errorf("%w: %q", domain.ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	}
	ids := make([]string, len(matches))
	for i, t := range matches {
		ids[i] = t.ID
	}
	return domain.Task{}, fmt.Errorf("task %q is ambiguous: %s", ref, strings.Join(ids, ", "))
}

var weekdayNames = map[string]int{
	"mon": 0, "monday": 0,
	"tue": 1, "tuesday": 1,
	"wed": 2, "wednesday": 2,
	"thu": 3, "thursday": 3,
	"fri": 4, "friday": 4,
	"sat": 5, "saturday": 5,
	"sun": 6, "sunday": 6,
}

// resolveDay resolves a day reference within week: a weekday name ("mon",
// "tuesday"), "today", a YYYY-MM-DD date, or a day ID.
func resolveDay(week domain.Week, ref string, now time.Time) (domain.Day, error) {
	lower := strings.ToLower(strings.TrimSpace(ref))
	if lower == "today" {
		lower = now.Format(domain.DateLayout)
	}
	if i, ok := weekdayNames[lower]; ok && i < len(week.Days) {
		return week.Days[i], nil
	}
	if d, ok := week.DayByDate(lower); ok {
		return d, nil
	}
	if d, ok := week.Day(ref); ok {
		return d, nil
	}
	return domain.Day{}, fmt.Errorf("%w: %q is not in the week of %s", domain.ErrDayNotFound, ref, week.Start.Format(domain.DateLayout))
}

// resolveLane accepts a swimlane key or its label ("deep-work", "Self Care").
func resolveLane(ref string) (domain.SwimlaneKey, error) {
	key := domain.SwimlaneKey(strings.ToLower(ref))
	if key.Valid() {
		return key, nil
	}
	norm := strings.ReplaceAll(strings.ToLower(ref), "-", " ")
	for _, sl := range domain.Swimlanes() {
		if strings.ToLower(sl.Label) == norm {
			return sl.Key, nil
		}
	}
	return "", fmt.Errorf("unknown swimlane %q (want one of %s)", ref, joinKeys(domain.SwimlaneKeys))
}

var statusAliases = map[string]domain.Status{
	"done":    domain.StatusCompleted,
	"todo":    domain.StatusPlanned,
	"started": domain.StatusInProgress,
	"skip":    domain.StatusSkipped,
}

func resolveStatus(ref string) (domain.Status, error) {
	s := domain.Status(strings.ToLower(ref))
	if s.Valid() {
		return s, nil
	}
	if alias, ok := statusAliases[string(s)]; ok {
		return alias, nil
	}
	return "", fmt.Errorf("unknown status %q (want one of %s)", ref, joinKeys(domain.Statuses))
}

// resolvePosition converts a 1-based position flag into a lane index. Zero
// means the end of a lane of size n.
func resolvePosition(pos, n int) (int, error) {
	switch {
	case pos < 0:
		return 0, fmt.Errorf("position must be positive, got %d", pos)
	case pos == 0:
		return n, nil
	}
	return pos - 1, nil
}

func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("position must be a number from 1, got %q", arg)
	}
	return n, nil
}

func joinKeys[T ~string](keys []T) string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return strings.Join(out, ", ")
}
