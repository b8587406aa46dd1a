package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/alexanderramin/weekplan/internal/app"
)

// Notifier prints planner notices, one per line, colored by level.
type Notifier struct {
	mu    sync.Mutex
	w     io.Writer
	marks map[app.NoticeLevel]string
}

var _ app.Notifier = (*Notifier)(nil)

func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{
		w: w,
		marks: map[app.NoticeLevel]string{
			app.NoticeInfo:    color.New(color.FgCyan).Sprint("i"),
			app.NoticeSuccess: color.New(color.FgGreen).Sprint("✓"),
			app.NoticeError:   color.New(color.FgRed, color.Bold).Sprint("✗"),
		},
	}
}

func (n *Notifier) Notify(_ context.Context, notice app.Notice) {
	mark, ok := n.marks[notice.Level]
	if !ok {
		mark = "-"
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "%s %s\n", mark, notice.Message)
}
