package board

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// ItemDelegate renders one task per line.
type ItemDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	fmt.Fprint(w, d.renderRow(ti.Task, index == m.Index()))
}

func (d ItemDelegate) renderRow(task model.Task, selected bool) string {
	prefix := "○"
	switch task.Status {
	case model.StatusInProgress:
		prefix = "◐"
	case model.StatusCompleted:
		prefix = "✓"
	}

	statusBadge := theme.StatusStyle(task.Status).Render(statusLabel(task.Status))
	priBadge := theme.PriorityStyle(task.Priority).Render(priorityLabel(task.Priority))

	due := theme.DueDateStyle.Render(" due " + task.DueDate.Format("Jan 02"))
	if d.now != nil && task.IsOverdue(d.now()) {
		due = theme.OverdueStyle.Render(" OVERDUE " + task.DueDate.Format("Jan 02"))
	}

	line := fmt.Sprintf("%s %s %s %s%s", prefix, statusBadge, priBadge, task.Title, due)

	if task.Status == model.StatusCompleted {
		line = theme.DimmedStyle.Render(line)
	}
	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// statusLabel is the fixed-width badge text for a status.
func statusLabel(s model.Status) string {
	switch s {
	case model.StatusPending:
		return "TODO"
	case model.StatusInProgress:
		return "WIP "
	case model.StatusCompleted:
		return "DONE"
	default:
		return "????"
	}
}

// priorityLabel returns a short label for the given priority.
func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "H"
	case model.PriorityMedium:
		return "M"
	case model.PriorityLow:
		return "L"
	default:
		return "?"
	}
}
