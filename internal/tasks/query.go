package tasks

import (
	"fmt"
	"slices"
	"sort"

	"github.com/nhle/taskboard/internal/model"
)

// SortField names the attribute a task list is ordered by.
type SortField string

// Sortable fields.
const (
	SortByDueDate   SortField = "due_date"
	SortByPriority  SortField = "priority"
	SortByCreatedAt SortField = "created_at"
)

// SortOrder is the direction of a sort.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Query defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// DefaultStatuses is the status filter applied when a query names none.
// Completed tasks never appear in an unfiltered list.
func DefaultStatuses() []model.Status {
	return []model.Status{model.StatusPending, model.StatusInProgress}
}

// ParseSortField accepts the wire name or its camelCase form.
func ParseSortField(s string) (SortField, error) {
	switch s {
	case "due_date", "dueDate":
		return SortByDueDate, nil
	case "priority":
		return SortByPriority, nil
	case "created_at", "createdAt":
		return SortByCreatedAt, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// ParseSortOrder accepts "asc" or "desc".
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortAsc, SortDesc:
		return SortOrder(s), nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Query holds the filter, sort and pagination options of a list call.
// Zero values select the defaults.
type Query struct {
	Statuses   []model.Status
	Priorities []model.Priority
	SortBy     SortField
	SortOrder  SortOrder
	Page       int
	PageSize   int
}

// normalized returns a copy of q with defaults filled in.
func (q Query) normalized() Query {
	if len(q.Statuses) == 0 {
		q.Statuses = DefaultStatuses()
	}
	if q.SortBy == "" {
		q.SortBy = SortByDueDate
	}
	if q.SortOrder == "" {
		q.SortOrder = SortAsc
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	return q
}

// ListResult is one page of a task list plus its pagination metadata.
type ListResult struct {
	Tasks      []model.Task `json:"tasks"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// applyQuery filters, sorts and paginates tasks, which must already be
// restricted to a single owner's active tasks in insertion order. The
// input slice is not modified.
func applyQuery(all []model.Task, q Query) ListResult {
	q = q.normalized()

	matched := make([]model.Task, 0, len(all))
	for _, t := range all {
		if !slices.Contains(q.Statuses, t.Status) {
			continue
		}
		if len(q.Priorities) > 0 && !slices.Contains(q.Priorities, t.Priority) {
			continue
		}
		matched = append(matched, t)
	}

	less := lessFunc(q.SortBy)
	sort.SliceStable(matched, func(i, j int) bool {
		if q.SortOrder == SortDesc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	total := len(matched)
	start := total
	if q.Page-1 <= total/q.PageSize {
		start = min((q.Page-1)*q.PageSize, total)
	}
	end := start + min(q.PageSize, total-start)

	totalPages := total / q.PageSize
	if total%q.PageSize != 0 {
		totalPages++
	}

	return ListResult{
		Tasks:      matched[start:end],
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}
}

func lessFunc(field SortField) func(a, b model.Task) bool {
	switch field {
	case SortByPriority:
		return func(a, b model.Task) bool { return a.Priority.Rank() < b.Priority.Rank() }
	case SortByCreatedAt:
		return func(a, b model.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return func(a, b model.Task) bool { return a.DueDate.Before(b.DueDate) }
	}
}
