package detail

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
)

func TestRenderContent(t *testing.T) {
	desc := "Call the **bank** before noon"
	task := &model.Task{
		ID:          "t1",
		Title:       "Pay rent",
		Description: &desc,
		DueDate:     time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Priority:    model.PriorityHigh,
		Status:      model.StatusPending,
	}

	m := New(keys.DefaultKeyMap(), 80, 30)
	m.now = func() time.Time { return time.Date(2030, 1, 3, 0, 0, 0, 0, time.UTC) }
	m.SetTask(task)

	out := m.renderContent()
	assert.Contains(t, out, "Pay rent")
	assert.Contains(t, out, "2030-01-01")
	assert.Contains(t, out, "OVERDUE")
	assert.Contains(t, out, "bank")
	assert.Contains(t, out, "s: start")
}

func TestRenderWithoutDescription(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.SetTask(&model.Task{ID: "t1", Title: "Pay rent", Status: model.StatusCompleted})

	out := m.renderContent()
	assert.Contains(t, out, "No description")
	assert.Contains(t, out, "space: reopen")
	assert.NotContains(t, out, "OVERDUE")
}

func TestBackKey(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(BackMsg)
	assert.True(t, ok)
}

func TestLoadErrorKeepsTask(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.SetTask(&model.Task{ID: "t1", Title: "Pay rent"})

	m, _ = m.Update(DetailLoadedMsg{Err: assert.AnError})
	require.NotNil(t, m.Task())
	assert.Equal(t, "t1", m.Task().ID)
}
