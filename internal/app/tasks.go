package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskboard/internal/client"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/ui/detail"
)

// taskSavedMsg is sent after a create, update or status change returns.
type taskSavedMsg struct {
	task   *model.Task
	notice string
	err    error
}

// taskDeletedMsg is sent after a delete returns.
type taskDeletedMsg struct {
	id  string
	err error
}

func (m Model) createTask(req client.CreateRequest) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		task, err := api.Create(context.Background(), req)
		return taskSavedMsg{task: task, notice: "Task created", err: err}
	}
}

func (m Model) updateTask(id string, req client.UpdateRequest) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		task, err := api.Update(context.Background(), id, req)
		return taskSavedMsg{task: task, notice: "Task updated", err: err}
	}
}

func (m Model) changeStatus(id string, status model.Status) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		task, err := api.ChangeStatus(context.Background(), id, status)
		return taskSavedMsg{task: task, notice: "Marked " + status.Label(), err: err}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		return taskDeletedMsg{id: id, err: api.Delete(context.Background(), id)}
	}
}

// loadTaskDetail refetches a task so the detail view is never stale.
func (m Model) loadTaskDetail(id string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		task, err := api.Get(context.Background(), id)
		return detail.DetailLoadedMsg{Task: task, Err: err}
	}
}
