package testutil

import (
	"testing"

	"github.com/nhle/taskboard/internal/store"
)

// NewTestStore creates an in-memory SQLStore backed by SQLite with all
// migrations applied. It automatically closes the store when the test
// completes.
func NewTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewMemoryStore creates an empty process-local store.
func NewMemoryStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	return store.NewMemoryStore()
}
