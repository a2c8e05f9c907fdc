package taskform

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/client"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// Title length bounds enforced by the API, mirrored here for early feedback.
const (
	TitleMinLength = 3
	TitleMaxLength = 150
)

const dateLayout = "2006-01-02"

// CreateSubmittedMsg carries a completed create form.
type CreateSubmittedMsg struct {
	Request client.CreateRequest
}

// UpdateSubmittedMsg carries a completed edit form. Only changed fields are
// set on Request.
type UpdateSubmittedMsg struct {
	ID      string
	Request client.UpdateRequest
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	priority    model.Priority
	dueDate     string
}

// Model is the create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	original *model.Task
	now      func() time.Time
	width    int
	height   int
}

// New creates an idle form.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		now:    time.Now,
		width:  width,
		height: height,
	}
}

// StartCreate resets the form for a new task due today.
func (m *Model) StartCreate() tea.Cmd {
	m.original = nil
	*m.fb = formBindings{
		priority: model.PriorityMedium,
		dueDate:  m.now().Format(dateLayout),
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit fills the form from an existing task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	orig := task.Clone()
	m.original = &orig
	*m.fb = formBindings{
		title:    task.Title,
		priority: task.Priority,
		dueDate:  task.DueDate.Format(dateLayout),
	}
	if task.Description != nil {
		m.fb.description = *task.Description
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Editing reports whether the form edits an existing task.
func (m Model) Editing() bool {
	return m.original != nil
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.submit()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	heading := "New Task"
	if m.Editing() {
		heading = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(titleStyle.Render(heading) + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth()).WithHeight(m.formHeight())
	}
}

func (m *Model) buildForm() *huh.Form {
	priorities := make([]huh.Option[model.Priority], 0, 3)
	for _, p := range model.Priorities() {
		priorities = append(priorities, huh.NewOption(p.Label(), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What needs to be done?").
				Value(&m.fb.title).
				Validate(ValidateTitle),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details, markdown welcome").
				Value(&m.fb.description),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(priorities...).
				Value(&m.fb.priority),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.dueDate).
				Validate(m.validateDueDate),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) submit() tea.Cmd {
	if m.original == nil {
		req := m.createRequest()
		return func() tea.Msg { return CreateSubmittedMsg{Request: req} }
	}
	id := m.original.ID
	req := m.updateRequest()
	return func() tea.Msg { return UpdateSubmittedMsg{ID: id, Request: req} }
}

func (m Model) createRequest() client.CreateRequest {
	req := client.CreateRequest{
		Title:    strings.TrimSpace(m.fb.title),
		DueDate:  strings.TrimSpace(m.fb.dueDate),
		Priority: m.fb.priority,
	}
	if d := strings.TrimSpace(m.fb.description); d != "" {
		req.Description = &d
	}
	return req
}

// updateRequest diffs the bindings against the task being edited. An
// emptied description is sent as an explicit clear.
func (m Model) updateRequest() client.UpdateRequest {
	var req client.UpdateRequest
	orig := m.original

	if title := strings.TrimSpace(m.fb.title); title != orig.Title {
		req.Title = &title
	}

	desc := strings.TrimSpace(m.fb.description)
	switch {
	case desc == "" && orig.Description != nil:
		req.ClearDescription = true
	case desc != "" && (orig.Description == nil || *orig.Description != desc):
		req.Description = &desc
	}

	if due := strings.TrimSpace(m.fb.dueDate); due != orig.DueDate.Format(dateLayout) {
		req.DueDate = &due
	}

	if m.fb.priority != orig.Priority {
		p := m.fb.priority
		req.Priority = &p
	}
	return req
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

// ValidateTitle checks the trimmed title length in characters.
func ValidateTitle(s string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	switch {
	case n == 0:
		return errors.New("title is required")
	case n < TitleMinLength:
		return errors.New("title must be at least 3 characters")
	case n > TitleMaxLength:
		return errors.New("title must be at most 150 characters")
	}
	return nil
}

// validateDueDate requires a YYYY-MM-DD date no earlier than today. An
// unchanged due date on an edit is accepted even if it has passed.
func (m Model) validateDueDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("due date is required")
	}
	if m.original != nil && s == m.original.DueDate.Format(dateLayout) {
		return nil
	}
	return ValidateDueDate(s, m.now())
}

// ValidateDueDate parses s as YYYY-MM-DD and rejects days before now's
// UTC day.
func ValidateDueDate(s string, now time.Time) error {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}
	if d.Before(model.StartOfDay(now)) {
		return errors.New("due date cannot be in the past")
	}
	return nil
}
