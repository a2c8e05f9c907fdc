package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
	"github.com/nhle/taskboard/tests/testutil"
)

var baseTime = time.Date(2030, time.March, 1, 9, 30, 0, 0, time.UTC)

func newTask(owner, title string, offset time.Duration) model.Task {
	ts := baseTime.Add(offset)
	return model.Task{
		ID:        uuid.New().String(),
		UserID:    owner,
		Title:     title,
		DueDate:   model.StartOfDay(ts).Add(48 * time.Hour),
		Priority:  model.PriorityMedium,
		Status:    model.StatusPending,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// runConformance exercises the TaskStore contract against any driver.
// owner scopes user ids to the running test so drivers backed by a shared
// database do not see each other's rows.
func owner(t *testing.T, name string) string {
	return t.Name() + "/" + name
}

func runConformance(t *testing.T, open func(t *testing.T) store.TaskStore) {
	t.Run("append and find", func(t *testing.T) {
		s := open(t)
		alice := owner(t, "alice")
		ctx := context.Background()

		desc := "write the quarterly report"
		task := newTask(alice, "Report", 0)
		task.Description = &desc
		require.NoError(t, s.Append(ctx, task))

		got, err := s.FindByIDAndOwner(ctx, task.ID, alice)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
		assert.Equal(t, "Report", got.Title)
		require.NotNil(t, got.Description)
		assert.Equal(t, desc, *got.Description)
		assert.True(t, task.DueDate.Equal(got.DueDate))
		assert.True(t, task.CreatedAt.Equal(got.CreatedAt))
		assert.Equal(t, model.PriorityMedium, got.Priority)
		assert.Equal(t, model.StatusPending, got.Status)
		assert.Nil(t, got.DeletedAt)
	})

	t.Run("find hides foreign tasks", func(t *testing.T) {
		s := open(t)
		alice, bob := owner(t, "alice"), owner(t, "bob")
		ctx := context.Background()

		task := newTask(alice, "Private", 0)
		require.NoError(t, s.Append(ctx, task))

		_, err := s.FindByIDAndOwner(ctx, task.ID, bob)
		assert.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.FindByIDAndOwner(ctx, "missing", alice)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list keeps insertion order per owner", func(t *testing.T) {
		s := open(t)
		alice, bob := owner(t, "alice"), owner(t, "bob")
		ctx := context.Background()

		var want []string
		for i, title := range []string{"first", "second", "third"} {
			task := newTask(alice, title, time.Duration(i)*time.Minute)
			require.NoError(t, s.Append(ctx, task))
			want = append(want, task.ID)
			require.NoError(t, s.Append(ctx, newTask(bob, title, 0)))
		}

		tasks, err := s.ListByOwner(ctx, alice)
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		for i, task := range tasks {
			assert.Equal(t, want[i], task.ID)
			assert.Equal(t, alice, task.UserID)
		}

		empty, err := s.ListByOwner(ctx, owner(t, "carol"))
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("replace updates in place", func(t *testing.T) {
		s := open(t)
		alice := owner(t, "alice")
		ctx := context.Background()

		a := newTask(alice, "a", 0)
		b := newTask(alice, "b", time.Minute)
		require.NoError(t, s.Append(ctx, a))
		require.NoError(t, s.Append(ctx, b))

		a.Title = "a renamed"
		a.Status = model.StatusInProgress
		a.Priority = model.PriorityHigh
		a.UpdatedAt = baseTime.Add(time.Hour)
		require.NoError(t, s.Replace(ctx, a))

		tasks, err := s.ListByOwner(ctx, alice)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, a.ID, tasks[0].ID)
		assert.Equal(t, "a renamed", tasks[0].Title)
		assert.Equal(t, model.StatusInProgress, tasks[0].Status)
		assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
		assert.True(t, a.UpdatedAt.Equal(tasks[0].UpdatedAt))
	})

	t.Run("replace of unknown task", func(t *testing.T) {
		s := open(t)
		alice := owner(t, "alice")
		err := s.Replace(context.Background(), newTask(alice, "ghost", 0))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("soft deleted tasks are invisible", func(t *testing.T) {
		s := open(t)
		alice := owner(t, "alice")
		ctx := context.Background()

		task := newTask(alice, "gone", 0)
		require.NoError(t, s.Append(ctx, task))

		deletedAt := baseTime.Add(2 * time.Hour)
		task.DeletedAt = &deletedAt
		require.NoError(t, s.Replace(ctx, task))

		_, err := s.FindByIDAndOwner(ctx, task.ID, alice)
		assert.ErrorIs(t, err, store.ErrNotFound)

		tasks, err := s.ListByOwner(ctx, alice)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})
}

func TestMemoryStore(t *testing.T) {
	runConformance(t, func(t *testing.T) store.TaskStore {
		return testutil.NewMemoryStore(t)
	})
}

func TestSQLiteStore(t *testing.T) {
	runConformance(t, func(t *testing.T) store.TaskStore {
		return testutil.NewTestStore(t)
	})
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	runConformance(t, func(t *testing.T) store.TaskStore {
		s, err := store.NewPostgresStore(url)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	desc := "original"
	task := newTask("alice", "alias", 0)
	task.Description = &desc
	require.NoError(t, s.Append(ctx, task))

	desc = "mutated by caller"

	got, err := s.FindByIDAndOwner(ctx, task.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "original", *got.Description)

	*got.Description = "mutated copy"
	again, err := s.FindByIDAndOwner(ctx, task.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "original", *again.Description)
}

func TestMemoryStoreSnapshotIncludesDeleted(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	task := newTask("alice", "kept", 0)
	require.NoError(t, s.Append(ctx, task))
	now := baseTime
	task.DeletedAt = &now
	require.NoError(t, s.Replace(ctx, task))

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.True(t, snap[0].IsDeleted())
}

func TestSQLiteStoreReopensWithoutRemigrating(t *testing.T) {
	path := t.TempDir() + "/tasks.db"
	ctx := context.Background()

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	task := newTask("alice", "persisted", 0)
	require.NoError(t, s.Append(ctx, task))
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.FindByIDAndOwner(ctx, task.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Title)
}

func TestOpen(t *testing.T) {
	s, err := store.Open(model.StoreConfig{})
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, s)

	s, err = store.Open(model.StoreConfig{Driver: model.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &store.SQLStore{}, s)
	require.NoError(t, s.Close())

	_, err = store.Open(model.StoreConfig{Driver: "oracle"})
	assert.Error(t, err)
}
