package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/taskboard/internal/model"
)

// ErrNotFound is returned when no active task matches the lookup.
// Absent, soft-deleted and foreign-owned tasks are indistinguishable.
var ErrNotFound = errors.New("task not found")

// TaskStore is the persistence interface for tasks. Implementations never
// remove records; soft deletion is expressed through Task.DeletedAt and
// Replace.
type TaskStore interface {
	// Append inserts a new task at the end of the sequence.
	Append(ctx context.Context, task model.Task) error

	// FindByIDAndOwner returns the active task with the given id owned by
	// ownerID, or ErrNotFound.
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Task, error)

	// ListByOwner returns every active task owned by ownerID in insertion
	// order.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error)

	// Replace overwrites the stored task with the same id, or returns
	// ErrNotFound.
	Replace(ctx context.Context, task model.Task) error

	// Close releases any underlying resources.
	Close() error
}

// Open constructs the TaskStore selected by cfg.Driver.
func Open(cfg model.StoreConfig) (TaskStore, error) {
	switch cfg.Driver {
	case "", model.DriverMemory:
		return NewMemoryStore(), nil
	case model.DriverSQLite:
		s, err := NewSQLiteStore(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case model.DriverPostgres:
		s, err := NewPostgresStore(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
