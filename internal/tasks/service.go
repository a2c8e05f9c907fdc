package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// CreateInput carries the already-validated fields of a new task.
type CreateInput struct {
	Title       string
	Description *string
	DueDate     time.Time
	// Priority defaults to medium when empty.
	Priority model.Priority
}

// UpdateInput is a partial update: nil fields keep their stored value.
// Description is replaced whenever DescriptionSet is true, so a nil
// Description with DescriptionSet clears it.
type UpdateInput struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	DueDate        *time.Time
	Priority       *model.Priority
}

// IsEmpty reports whether the update changes no field.
func (in UpdateInput) IsEmpty() bool {
	return in.Title == nil && !in.DescriptionSet && in.DueDate == nil && in.Priority == nil
}

// Service implements the owner-scoped task operations on top of a
// TaskStore. A single RWMutex serializes writers against each other and
// against readers for the whole store.
type Service struct {
	mu    sync.RWMutex
	store store.TaskStore
	now   func() time.Time
	newID func() string
	log   logrus.FieldLogger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides task identifier allocation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithLogger sets the logger used for mutation events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) { s.log = log }
}

// NewService creates a Service backed by st.
func NewService(st store.TaskStore, opts ...Option) *Service {
	s := &Service{
		store: st,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock reading. Input validation uses it so
// "not in the past" agrees with the timestamps the service writes.
func (s *Service) Now() time.Time {
	return s.now()
}

// Create stores a new pending task for ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	now := s.now()
	task := model.Task{
		ID:        s.newID(),
		UserID:    ownerID,
		Title:     in.Title,
		DueDate:   in.DueDate,
		Priority:  priority,
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Description != nil && *in.Description != "" {
		d := *in.Description
		task.Description = &d
	}

	if err := s.store.Append(ctx, task); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.log.WithFields(logrus.Fields{"task_id": task.ID, "user_id": ownerID}).Debug("task created")
	return &task, nil
}

// List returns one page of ownerID's tasks matching q.
func (s *Service) List(ctx context.Context, ownerID string, q Query) (*ListResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	result := applyQuery(all, q)
	return &result, nil
}

// Get returns a single active task owned by ownerID.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.find(ctx, ownerID, id)
}

// Update applies the fields present in in and refreshes UpdatedAt.
func (s *Service) Update(ctx context.Context, ownerID, id string, in UpdateInput) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.find(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.DescriptionSet {
		task.Description = nil
		if in.Description != nil {
			d := *in.Description
			task.Description = &d
		}
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	task.UpdatedAt = s.stamp(task.UpdatedAt)

	if err := s.replace(ctx, *task); err != nil {
		return nil, err
	}

	s.log.WithField("task_id", id).Debug("task updated")
	return task, nil
}

// Delete soft-deletes the task. The record stays in the store but is
// invisible to every later operation.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.find(ctx, ownerID, id)
	if err != nil {
		return err
	}

	now := s.stamp(task.UpdatedAt)
	task.DeletedAt = &now
	task.UpdatedAt = now

	if err := s.replace(ctx, *task); err != nil {
		return err
	}

	s.log.WithField("task_id", id).Debug("task deleted")
	return nil
}

// ChangeStatus moves the task to status when the transition is permitted.
// A rejected transition leaves the task untouched.
func (s *Service) ChangeStatus(
	ctx context.Context,
	ownerID, id string,
	status model.Status,
) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.find(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(task.Status, status); err != nil {
		return nil, err
	}

	from := task.Status
	task.Status = status
	task.UpdatedAt = s.stamp(task.UpdatedAt)

	if err := s.replace(ctx, *task); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"task_id": id,
		"from":    from,
		"to":      status,
	}).Debug("task status changed")
	return task, nil
}

func (s *Service) find(ctx context.Context, ownerID, id string) (*model.Task, error) {
	task, err := s.store.FindByIDAndOwner(ctx, id, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("finding task %s: %w", id, err)
	}
	return task, nil
}

func (s *Service) replace(ctx context.Context, task model.Task) error {
	err := s.store.Replace(ctx, task)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(task.ID)
	}
	if err != nil {
		return fmt.Errorf("saving task %s: %w", task.ID, err)
	}
	return nil
}

// stamp returns the current time, or prev when the clock reads earlier,
// so UpdatedAt never moves backwards.
func (s *Service) stamp(prev time.Time) time.Time {
	now := s.now()
	if now.Before(prev) {
		return prev
	}
	return now
}
