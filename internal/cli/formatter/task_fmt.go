package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/weekplan/internal/domain"
)

// FormatTaskDetail renders a task card. Notes are rendered as markdown.
func FormatTaskDetail(t domain.Task, week domain.Week, width int) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render(fmt.Sprintf("%-10s", label)), value)
	}

	field("ID", t.ID)
	field("STATUS", StatusPill(t.Status))
	field("CATEGORY", CategoryBadge(t.Category))
	field("ENERGY", EnergyBadge(t.Energy))
	field("DURATION", FormatMinutes(t.DurationMinutes))
	field("PLACED", placement(t, week))
	if t.TargetOccurrencesPerWeek != nil {
		field("TARGET", fmt.Sprintf("%dx per week", *t.TargetOccurrencesPerWeek))
	}
	if t.CompletedAt != nil {
		field("COMPLETED", t.CompletedAt.Local().Format("Mon Jan 2 15:04"))
	}
	if notes := RenderMarkdown(t.Notes, width-4); notes != "" {
		b.WriteString("\n" + notes + "\n")
	}
	return RenderBox(t.Title, strings.TrimRight(b.String(), "\n"))
}

func placement(t domain.Task, week domain.Week) string {
	if !t.Scheduled() {
		return Dim("backlog") + fmt.Sprintf(" #%d", t.Order+1)
	}
	label := t.DayID
	if d, ok := week.Day(t.DayID); ok {
		label = d.Label
	}
	return fmt.Sprintf("%s · %s #%d", label, LaneLabel(t.Swimlane), t.Order+1)
}
