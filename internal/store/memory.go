package store

import (
	"context"
	"sync"

	"github.com/nhle/taskboard/internal/model"
)

// MemoryStore keeps every task in a process-local slice. Contents are lost
// when the process exits.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks []model.Task
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds a copy of task to the end of the sequence.
func (s *MemoryStore) Append(_ context.Context, task model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, task.Clone())
	return nil
}

// FindByIDAndOwner returns a copy of the matching active task.
func (s *MemoryStore) FindByIDAndOwner(
	_ context.Context,
	id, ownerID string,
) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	t := s.tasks[i]
	if t.UserID != ownerID || t.IsDeleted() {
		return nil, ErrNotFound
	}
	c := t.Clone()
	return &c, nil
}

// ListByOwner returns copies of the owner's active tasks in insertion order.
func (s *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Task
	for _, t := range s.tasks {
		if t.UserID == ownerID && !t.IsDeleted() {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

// Replace overwrites the stored task in place, keeping its position.
func (s *MemoryStore) Replace(_ context.Context, task model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(task.ID)
	if i < 0 {
		return ErrNotFound
	}
	s.tasks[i] = task.Clone()
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// Snapshot returns copies of every stored task, soft-deleted ones included.
// It bypasses owner scoping and exists for inspection in tests and tooling.
func (s *MemoryStore) Snapshot() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *MemoryStore) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
