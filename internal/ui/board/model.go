package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/client"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// Lister fetches one page of tasks.
type Lister interface {
	List(ctx context.Context, params client.ListParams) (*client.Page, error)
}

// TasksLoadedMsg is sent when a page of tasks has been fetched.
type TasksLoadedMsg struct {
	Page *client.Page
	Err  error
}

// SelectedTaskMsg is sent when the user opens a task.
type SelectedTaskMsg struct {
	Task model.Task
}

// sortModes are cycled by Tab.
var sortModes = []string{"due_date", "priority", "created_at"}

// DefaultPageSize is the number of rows requested per page.
const DefaultPageSize = 10

// Model is the task board list view.
type Model struct {
	list       list.Model
	api        Lister
	keys       *keys.KeyMap
	statuses   map[model.Status]bool
	priorities map[model.Priority]bool
	sortIndex  int
	desc       bool
	page       int
	pageSize   int
	pagination client.Pagination
	loaded     bool
	width      int
	height     int
}

// New creates a board showing open tasks sorted by due date.
func New(api Lister, km *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{now: time.Now}, width, max(height-1, 0))
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// The root model owns quitting; the list would otherwise quit on esc.
	l.KeyMap.Quit.SetEnabled(false)

	return Model{
		list: l,
		api:  api,
		keys: km,
		statuses: map[model.Status]bool{
			model.StatusPending:    true,
			model.StatusInProgress: true,
		},
		priorities: map[model.Priority]bool{},
		page:       1,
		pageSize:   DefaultPageSize,
		width:      width,
		height:     height,
	}
}

// Init returns a command that loads the first page.
func (m Model) Init() tea.Cmd {
	return m.LoadTasks()
}

// Update handles messages for the board.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		if msg.Err != nil || msg.Page == nil {
			return m, nil
		}
		m.loaded = true
		m.pagination = msg.Page.Pagination
		// A delete can empty the last page; step back to the new last one.
		if len(msg.Page.Tasks) == 0 && m.page > 1 && m.pagination.TotalPages > 0 {
			m.page = m.pagination.TotalPages
			return m, m.LoadTasks()
		}
		items := make([]list.Item, len(msg.Page.Tasks))
		for i, task := range msg.Page.Tasks {
			items[i] = TaskItem{Task: task}
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		task, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return SelectedTaskMsg{Task: task} }

	case key.Matches(msg, m.keys.FilterPending):
		return m.toggleStatus(model.StatusPending)
	case key.Matches(msg, m.keys.FilterInProgress):
		return m.toggleStatus(model.StatusInProgress)
	case key.Matches(msg, m.keys.FilterCompleted):
		return m.toggleStatus(model.StatusCompleted)

	case key.Matches(msg, m.keys.FilterLow):
		return m.togglePriority(model.PriorityLow)
	case key.Matches(msg, m.keys.FilterMedium):
		return m.togglePriority(model.PriorityMedium)
	case key.Matches(msg, m.keys.FilterHigh):
		return m.togglePriority(model.PriorityHigh)

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		m.page = 1
		return m, m.LoadTasks()

	case key.Matches(msg, m.keys.ToggleOrder):
		m.desc = !m.desc
		m.page = 1
		return m, m.LoadTasks()

	case key.Matches(msg, m.keys.NextPage):
		if m.page >= m.pagination.TotalPages {
			return m, nil
		}
		m.page++
		return m, m.LoadTasks()

	case key.Matches(msg, m.keys.PrevPage):
		if m.page <= 1 {
			return m, nil
		}
		m.page--
		return m, m.LoadTasks()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// toggleStatus flips one status filter. The last active status cannot be
// switched off, since an empty set would fall back to the server default.
func (m Model) toggleStatus(s model.Status) (Model, tea.Cmd) {
	if m.statuses[s] && len(m.activeStatuses()) == 1 {
		return m, nil
	}
	m.statuses[s] = !m.statuses[s]
	m.page = 1
	return m, m.LoadTasks()
}

func (m Model) togglePriority(p model.Priority) (Model, tea.Cmd) {
	m.priorities[p] = !m.priorities[p]
	m.page = 1
	return m, m.LoadTasks()
}

func (m Model) activeStatuses() []model.Status {
	var out []model.Status
	for _, s := range model.Statuses() {
		if m.statuses[s] {
			out = append(out, s)
		}
	}
	return out
}

func (m Model) activePriorities() []model.Priority {
	var out []model.Priority
	for _, p := range model.Priorities() {
		if m.priorities[p] {
			out = append(out, p)
		}
	}
	return out
}

// Params returns the list request for the current filters, sort and page.
func (m Model) Params() client.ListParams {
	order := "asc"
	if m.desc {
		order = "desc"
	}
	return client.ListParams{
		Statuses:   m.activeStatuses(),
		Priorities: m.activePriorities(),
		SortBy:     sortModes[m.sortIndex],
		SortOrder:  order,
		Page:       m.page,
		PageSize:   m.pageSize,
	}
}

// LoadTasks returns a command that fetches the current page.
func (m Model) LoadTasks() tea.Cmd {
	params := m.Params()
	api := m.api
	return func() tea.Msg {
		page, err := api.List(context.Background(), params)
		return TasksLoadedMsg{Page: page, Err: err}
	}
}

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// Summary describes the active filters, sort and page for the header.
func (m Model) Summary() string {
	var chips []string
	for _, s := range model.Statuses() {
		chips = append(chips, chip(statusLabel(s), m.statuses[s]))
	}
	for _, p := range model.Priorities() {
		chips = append(chips, chip(priorityLabel(p), m.priorities[p]))
	}

	order := "↑"
	if m.desc {
		order = "↓"
	}
	total := max(m.pagination.TotalPages, 1)
	return fmt.Sprintf("%s  %s%s  %d/%d (%d)",
		strings.Join(chips, " "), sortModes[m.sortIndex], order,
		m.page, total, m.pagination.Total)
}

func chip(label string, on bool) string {
	if on {
		return theme.FilterOnStyle.Render(strings.TrimSpace(label))
	}
	return theme.FilterOffStyle.Render(strings.TrimSpace(label))
}

// View renders the board.
func (m Model) View() string {
	if m.loaded && len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.pagination.Total > 0 {
		return style.Render("Nothing on this page.")
	}
	return style.Render("No matching tasks.\n\nPress c to create one, or 1-6 to adjust filters.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(height-1, 0))
}
