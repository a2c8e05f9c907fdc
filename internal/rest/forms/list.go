package forms

import (
	"slices"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/rest/response"
	"github.com/nhle/taskboard/internal/tasks"
)

// ListTasksForm holds validated list query parameters.
type ListTasksForm struct {
	Query tasks.Query
}

// NewListTasksForm returns an empty form.
func NewListTasksForm() *ListTasksForm {
	return &ListTasksForm{}
}

// ParseAndValidate reads the query string. status and priority may be
// repeated or comma separated; both camelCase and snake_case names are
// accepted for the sort and page size parameters.
func (f *ListTasksForm) ParseAndValidate(c *fiber.Ctx) (*ListTasksForm, response.Error) {
	ve := response.NewValidationError()

	for _, v := range multiQuery(c, "status") {
		st, err := model.ParseStatus(v)
		if err != nil {
			ve.SetError("status", response.InvalidValue, "status must be one of pending, in_progress, completed")
			break
		}
		if !slices.Contains(f.Query.Statuses, st) {
			f.Query.Statuses = append(f.Query.Statuses, st)
		}
	}

	for _, v := range multiQuery(c, "priority") {
		p, err := model.ParsePriority(v)
		if err != nil {
			ve.SetError("priority", response.InvalidValue, "priority must be one of low, medium, high")
			break
		}
		if !slices.Contains(f.Query.Priorities, p) {
			f.Query.Priorities = append(f.Query.Priorities, p)
		}
	}

	if v, field := firstQuery(c, "sortBy", "sort_by"); v != "" {
		sortBy, err := tasks.ParseSortField(v)
		if err != nil {
			ve.SetError(field, response.InvalidValue, "sortBy must be one of due_date, priority, created_at")
		}
		f.Query.SortBy = sortBy
	}

	if v, field := firstQuery(c, "sortOrder", "sort_order"); v != "" {
		order, err := tasks.ParseSortOrder(strings.ToLower(v))
		if err != nil {
			ve.SetError(field, response.InvalidValue, "sortOrder must be asc or desc")
		}
		f.Query.SortOrder = order
	}

	if v, field := firstQuery(c, "page"); v != "" {
		f.Query.Page = positiveInt(v, field, ve)
	}

	if v, field := firstQuery(c, "pageSize", "page_size"); v != "" {
		f.Query.PageSize = positiveInt(v, field, ve)
	}

	if ve.HasErrors() {
		return nil, ve
	}
	return f, nil
}

// multiQuery collects every value of a repeatable parameter, splitting
// comma-separated lists and dropping blanks.
func multiQuery(c *fiber.Ctx, name string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(name) {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func firstQuery(c *fiber.Ctx, names ...string) (string, string) {
	for _, n := range names {
		if v := strings.TrimSpace(c.Query(n)); v != "" {
			return v, n
		}
	}
	return "", names[0]
}

func positiveInt(v, field string, ve *response.ValidationError) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		ve.SetError(field, response.InvalidValue, field+" must be a positive integer")
		return 0
	}
	return n
}
