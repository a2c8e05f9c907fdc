package tasks_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/tasks"
)

func TestValidateTransition(t *testing.T) {
	pending, inProgress, completed := model.StatusPending, model.StatusInProgress, model.StatusCompleted

	tests := []struct {
		from, to model.Status
		allowed  bool
	}{
		{pending, pending, true},
		{pending, inProgress, true},
		{pending, completed, true},
		{inProgress, pending, true},
		{inProgress, inProgress, true},
		{inProgress, completed, true},
		{completed, pending, true},
		{completed, inProgress, false},
		{completed, completed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := tasks.ValidateTransition(tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tasks.ErrInvalidTransition)

			var terr *tasks.Error
			require.True(t, errors.As(err, &terr))
			assert.Equal(t, tt.from, terr.From)
			assert.Equal(t, tt.to, terr.To)
			assert.Equal(t, http.StatusBadRequest, terr.HTTPStatus())
			assert.Contains(t, terr.Error(), string(tt.from))
			assert.Contains(t, terr.Error(), string(tt.to))
		})
	}
}

func TestNextStatuses(t *testing.T) {
	all := model.Statuses()

	assert.Equal(t, all, tasks.NextStatuses(model.StatusPending))
	assert.Equal(t, all, tasks.NextStatuses(model.StatusInProgress))
	assert.Equal(t,
		[]model.Status{model.StatusPending, model.StatusCompleted},
		tasks.NextStatuses(model.StatusCompleted),
	)
}

func TestErrorKinds(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, tasks.ErrNotFound.HTTPStatus())
	assert.NotErrorIs(t, tasks.ErrNotFound, tasks.ErrInvalidTransition)
	assert.False(t, tasks.CanTransition("archived", "archived"))
}
