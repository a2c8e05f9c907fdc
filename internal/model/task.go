package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the workflow state of a task.
type Status string

// Task status constants.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Priority is the importance of a task. Priorities are ordered
// Low < Medium < High (see Rank).
type Priority string

// Task priority constants.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Statuses returns all valid status values in workflow order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// Priorities returns all valid priority values in ascending order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Label returns the human-readable name of the status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	return p.Rank() > 0
}

// Rank maps the priority onto its ordinal: Low=1, Medium=2, High=3.
// Unknown priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

// Label returns the human-readable name of the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return string(p)
	}
}

// ParseStatus accepts a wire name ("in_progress") or a label ("In Progress"),
// case-insensitively.
func ParseStatus(s string) (Status, error) {
	key := normalizeEnum(s)
	for _, st := range Statuses() {
		if key == string(st) || key == normalizeEnum(st.Label()) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// ParsePriority accepts a wire name ("high") or a label ("High"),
// case-insensitively.
func ParsePriority(s string) (Priority, error) {
	key := normalizeEnum(s)
	for _, p := range Priorities() {
		if key == string(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// Task is a single work item owned by exactly one user.
type Task struct {
	// ID is the server-generated identifier. Never reused.
	ID string `json:"id" db:"id"`

	// UserID identifies the owner. Only the owner can see or mutate the task.
	UserID string `json:"user_id" db:"user_id"`

	Title string `json:"title" db:"title"`

	// Description is optional; nil means no description was given.
	Description *string `json:"description" db:"description"`

	DueDate  time.Time `json:"due_date" db:"due_date"`
	Priority Priority  `json:"priority" db:"priority"`
	Status   Status    `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// DeletedAt marks a soft-deleted task. Once set it is never cleared and
	// the task is excluded from every read.
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsDeleted reports whether the task has been soft-deleted.
func (t Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

// IsOverdue reports whether the task is still open and its due date lies
// before the day containing now.
func (t Task) IsOverdue(now time.Time) bool {
	return t.Status != StatusCompleted && t.DueDate.Before(StartOfDay(now))
}

// StartOfDay truncates t to midnight UTC of the same UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Clone returns a deep copy so callers never alias stored records.
func (t Task) Clone() Task {
	c := t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.DeletedAt != nil {
		d := *t.DeletedAt
		c.DeletedAt = &d
	}
	return c
}
