package detail

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// BackMsg signals the parent to navigate back to the board.
type BackMsg struct{}

// DetailLoadedMsg carries a freshly fetched task, or the error that
// prevented fetching it.
type DetailLoadedMsg struct {
	Task *model.Task
	Err  error
}

// Model is the task detail view component.
type Model struct {
	task     *model.Task
	viewport viewport.Model
	keys     *keys.KeyMap
	now      func() time.Time
	width    int
	height   int
	loading  bool
}

// New creates a new detail view model.
func New(km *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, max(height-2, 0))
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     km,
		now:      time.Now,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the detail view. Action keys (toggle, start,
// edit, delete) are handled by the parent, which knows the API.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		m.loading = false
		if msg.Err == nil {
			m.SetTask(msg.Task)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg { return BackMsg{} }
		}
	}

	// Delegate to viewport for scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	placeholder := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.loading {
		return placeholder.Render("Loading task...")
	}
	if m.task == nil {
		return placeholder.Render("No task selected")
	}
	return m.viewport.View()
}

// Task returns the displayed task, if any.
func (m Model) Task() *model.Task {
	return m.task
}

// SetTask updates the task being displayed and re-renders the content.
func (m *Model) SetTask(task *model.Task) {
	m.task = task
	m.loading = false
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 0)
	if m.task != nil {
		m.viewport.SetContent(m.renderContent())
	}
}

func (m Model) renderContent() string {
	task := m.task
	if task == nil {
		return ""
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))

	badges := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.StatusStyle(task.Status).Render(task.Status.Label()),
		"  ",
		theme.PriorityStyle(task.Priority).Render(task.Priority.Label()),
	)
	sections = append(sections, badges, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(10)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(label, value string) string {
		return metaStyle.Render(label) + valStyle.Render(value)
	}

	due := task.DueDate.Format("2006-01-02")
	if task.IsOverdue(m.now()) {
		due += " " + theme.OverdueStyle.Render("OVERDUE")
	}
	sections = append(sections,
		row("Due:", due),
		row("Created:", task.CreatedAt.Local().Format("2006-01-02 15:04")),
		row("Updated:", task.UpdatedAt.Local().Format("2006-01-02 15:04")),
		row("ID:", task.ID),
	)

	separator := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	sections = append(sections, "", separator, "")

	sections = append(sections, lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render("Description"))

	if task.Description == nil || strings.TrimSpace(*task.Description) == "" {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description"))
	} else {
		sections = append(sections, renderMarkdown(*task.Description, m.width-4))
	}

	if next := nextHint(task.Status); next != "" {
		sections = append(sections, "", theme.HelpStyle.Render(next))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// nextHint names the status moves available from s.
func nextHint(s model.Status) string {
	switch s {
	case model.StatusPending:
		return "s: start  space: complete"
	case model.StatusInProgress:
		return "space: complete"
	case model.StatusCompleted:
		return "space: reopen"
	}
	return ""
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]*glamour.TermRenderer{}
)

// renderMarkdown formats a description for the terminal, falling back to
// the raw text when no renderer is available.
func renderMarkdown(text string, width int) string {
	width = max(width, 20)
	r := markdownRenderer(width)
	if r == nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func markdownRenderer(width int) *glamour.TermRenderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.DarkStyleConfig),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = r
	return r
}
