package app

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskboard/internal/client"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/tasks"
	"github.com/nhle/taskboard/internal/ui"
	"github.com/nhle/taskboard/internal/ui/board"
	"github.com/nhle/taskboard/internal/ui/detail"
	helpview "github.com/nhle/taskboard/internal/ui/help"
	"github.com/nhle/taskboard/internal/ui/taskform"
)

// TaskAPI is the subset of the REST client the board drives.
type TaskAPI interface {
	board.Lister
	Get(ctx context.Context, id string) (*model.Task, error)
	Create(ctx context.Context, req client.CreateRequest) (*model.Task, error)
	Update(ctx context.Context, id string, req client.UpdateRequest) (*model.Task, error)
	ChangeStatus(ctx context.Context, id string, status model.Status) (*model.Task, error)
	Delete(ctx context.Context, id string) error
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewHelp
	ViewForm
)

// Model is the root Bubble Tea model that manages view routing and layout
// and issues API calls on behalf of the sub-views.
type Model struct {
	currentView   ViewState
	previousView  ViewState
	layout        ui.Layout
	api           TaskAPI
	keys          *keys.KeyMap
	board         board.Model
	detail        detail.Model
	helpView      helpview.Model
	form          taskform.Model
	confirmDelete *model.Task
	errMsg        string
	notice        string
	ready         bool
}

// New creates the root model over the given API.
func New(api TaskAPI) Model {
	km := keys.DefaultKeyMap()
	return Model{
		currentView: ViewList,
		layout:      ui.NewLayout(80, 24),
		api:         api,
		keys:        km,
		board:       board.New(api, km, 80, 22),
		detail:      detail.New(km, 80, 22),
		helpView:    helpview.New(km, 80, 22),
		form:        taskform.New(80, 22),
	}
}

// Init loads the first page of tasks.
func (m Model) Init() tea.Cmd {
	return m.board.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.board.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.form.SetSize(w, h)
		// Forward to the active view so huh forms can lay out.
		return m.updateActiveView(msg)

	case board.TasksLoadedMsg:
		if msg.Err != nil {
			m.errMsg = "loading tasks: " + msg.Err.Error()
		}
		var cmd tea.Cmd
		m.board, cmd = m.board.Update(msg)
		return m, cmd

	case board.SelectedTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		task := msg.Task
		m.detail.SetTask(&task)
		return m, m.loadTaskDetail(task.ID)

	case detail.DetailLoadedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case taskform.CreateSubmittedMsg:
		m.currentView = m.previousView
		return m, m.createTask(msg.Request)

	case taskform.UpdateSubmittedMsg:
		m.currentView = m.previousView
		return m, m.updateTask(msg.ID, msg.Request)

	case taskform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case taskSavedMsg:
		return m.handleSaved(msg)

	case taskDeletedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.notice = "Task deleted"
		if m.currentView == ViewDetail {
			m.currentView = ViewList
		}
		return m, m.board.LoadTasks()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.currentView == ViewForm {
			return m.updateActiveView(msg)
		}
		m.errMsg = ""
		m.notice = ""
		if m.confirmDelete != nil {
			return m.handleConfirmKeys(msg)
		}
		if m.currentView == ViewHelp {
			if key.Matches(msg, m.keys.Help, m.keys.Back) {
				m.currentView = m.previousView
			}
			return m, nil
		}
		if handled, next, cmd := m.handleGlobalKeys(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys handles the keys shared by the list and detail views.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.currentView == ViewList {
			return true, m, tea.Quit
		}

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.currentView == ViewDetail {
			if task := m.detail.Task(); task != nil {
				return true, m, m.loadTaskDetail(task.ID)
			}
		}
		return true, m, m.board.LoadTasks()

	case key.Matches(msg, m.keys.Create):
		m.previousView = m.currentView
		m.currentView = ViewForm
		return true, m, m.form.StartCreate()

	case key.Matches(msg, m.keys.Edit):
		if task, ok := m.currentTask(); ok {
			m.previousView = m.currentView
			m.currentView = ViewForm
			return true, m, m.form.StartEdit(task)
		}
		return true, m, nil

	case key.Matches(msg, m.keys.ToggleDone):
		if task, ok := m.currentTask(); ok {
			next := model.StatusCompleted
			if task.Status == model.StatusCompleted {
				next = model.StatusPending
			}
			updated, cmd := m.requestStatus(task, next)
			return true, updated, cmd
		}
		return true, m, nil

	case key.Matches(msg, m.keys.Start):
		if task, ok := m.currentTask(); ok {
			updated, cmd := m.requestStatus(task, model.StatusInProgress)
			return true, updated, cmd
		}
		return true, m, nil

	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.currentTask(); ok {
			m.confirmDelete = &task
		}
		return true, m, nil
	}
	return false, m, nil
}

// requestStatus sends a status change unless the workflow already rules
// it out for the task as last loaded. The server still has the final say.
func (m Model) requestStatus(task model.Task, next model.Status) (Model, tea.Cmd) {
	if !slices.Contains(tasks.NextStatuses(task.Status), next) {
		m.errMsg = fmt.Sprintf("cannot move a %s task to %s", task.Status.Label(), next.Label())
		return m, nil
	}
	return m, m.changeStatus(task.ID, next)
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id := m.confirmDelete.ID
		m.confirmDelete = nil
		return m, m.deleteTask(id)
	case key.Matches(msg, m.keys.Cancel):
		m.confirmDelete = nil
	}
	return m, nil
}

func (m Model) handleSaved(msg taskSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errMsg = msg.err.Error()
		return m, nil
	}
	m.notice = msg.notice
	if m.currentView == ViewDetail {
		if shown := m.detail.Task(); shown != nil && shown.ID == msg.task.ID {
			m.detail.SetTask(msg.task)
		}
	}
	return m, m.board.LoadTasks()
}

// currentTask is the task under the cursor in the list, or the one shown
// in the detail view.
func (m Model) currentTask() (model.Task, bool) {
	if m.currentView == ViewDetail {
		if t := m.detail.Task(); t != nil {
			return *t, true
		}
		return model.Task{}, false
	}
	return m.board.SelectedTask()
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.board, cmd = m.board.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewForm:
		m.form, cmd = m.form.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Taskboard", m.board.Summary())
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.errMsg)

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.board.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewForm:
		return m.form.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.confirmDelete != nil {
		return fmt.Sprintf("Delete %q? y confirm | n cancel", m.confirmDelete.Title)
	}
	if m.notice != "" {
		return m.notice
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewDetail:
		return "esc back | space done | s start | e edit | d delete | j/k scroll"
	case ViewForm:
		return "enter next | esc cancel"
	default:
		return "q quit | ? help | c new | space done | 1-6 filter | tab sort | [ ] page"
	}
}
