package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(0, 1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n" + content)
	}
	return boxStyle.Render(content)
}

// SavedAgo describes when the local snapshot was last written.
func SavedAgo(t *time.Time, now time.Time) string {
	if t == nil {
		return "never saved"
	}
	diff := now.Sub(*t)
	switch {
	case diff < time.Minute:
		return "saved just now"
	case diff < time.Hour:
		return fmt.Sprintf("saved %dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("saved %dh ago", int(diff.Hours()))
	default:
		return "saved " + t.Local().Format("Jan 2 15:04")
	}
}

// ShortID trims long server IDs for display. Local day-style IDs pass through.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// TruncID returns ShortID dimmed.
func TruncID(id string) string {
	return StyleDim.Render(ShortID(id))
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
