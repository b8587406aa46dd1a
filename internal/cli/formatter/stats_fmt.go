package formatter

import (
	"fmt"

	"github.com/alexanderramin/weekplan/internal/domain"
)

func FormatStatistics(title string, s domain.TaskStatistics) string {
	rows := [][]string{
		{StatusPill(domain.StatusPlanned), fmt.Sprint(s.Planned)},
		{StatusPill(domain.StatusInProgress), fmt.Sprint(s.InProgress)},
		{StatusPill(domain.StatusCompleted), fmt.Sprint(s.Completed)},
		{StatusPill(domain.StatusSkipped), fmt.Sprint(s.Skipped)},
	}
	body := RenderTable([]string{"STATUS", "TASKS"}, rows) +
		fmt.Sprintf("\n%s  %d tasks · %s planned\n", Bold("TOTAL"), s.Total, FormatMinutes(s.TotalDurationMinutes)) +
		RenderProgress(s.CompletionRate, 20)
	return RenderBox(title, body)
}
