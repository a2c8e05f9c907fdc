package forms

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/rest/response"
	"github.com/nhle/taskboard/internal/tasks"
)

// CreateTaskForm holds a validated create request.
type CreateTaskForm struct {
	Title       string
	Description *string
	DueDate     time.Time
	Priority    model.Priority
}

// NewCreateTaskForm returns an empty form.
func NewCreateTaskForm() *CreateTaskForm {
	return &CreateTaskForm{}
}

// ParseAndValidate reads the request body. now anchors the "not in the
// past" rule for the due date.
func (f *CreateTaskForm) ParseAndValidate(c *fiber.Ctx, now time.Time) (*CreateTaskForm, response.Error) {
	b, rerr := decodeBody(c.Body())
	if rerr != nil {
		return nil, rerr
	}

	ve := response.NewValidationError()

	if raw, field, ok := b.lookup("title"); !ok {
		ve.SetError(field, response.MissedValue, "missed value")
	} else if title, ok := parseTitle(raw, field, ve); ok {
		f.Title = title
	}

	if raw, field, ok := b.lookup("description"); ok {
		if desc, ok := parseDescription(raw, field, ve); ok {
			f.Description = desc
		}
	}

	if raw, field, ok := b.lookup("due_date", "dueDate"); !ok {
		ve.SetError(field, response.MissedValue, "missed value")
	} else if due, ok := parseDueDate(raw, field, now, ve); ok {
		f.DueDate = due
	}

	if raw, field, ok := b.lookup("priority"); ok {
		if p, ok := parsePriority(raw, field, ve); ok {
			f.Priority = p
		}
	}

	if ve.HasErrors() {
		return nil, ve
	}
	return f, nil
}

// Input converts the form into service input.
func (f *CreateTaskForm) Input() tasks.CreateInput {
	return tasks.CreateInput{
		Title:       f.Title,
		Description: f.Description,
		DueDate:     f.DueDate,
		Priority:    f.Priority,
	}
}

// UpdateTaskForm holds a validated partial update. Only fields present in
// the body are set.
type UpdateTaskForm struct {
	input tasks.UpdateInput
}

// NewUpdateTaskForm returns an empty form.
func NewUpdateTaskForm() *UpdateTaskForm {
	return &UpdateTaskForm{}
}

// ParseAndValidate reads the request body. An explicit null description
// clears it; null is rejected for every other field.
func (f *UpdateTaskForm) ParseAndValidate(c *fiber.Ctx, now time.Time) (*UpdateTaskForm, response.Error) {
	b, rerr := decodeBody(c.Body())
	if rerr != nil {
		return nil, rerr
	}

	ve := response.NewValidationError()

	if raw, field, ok := b.lookup("title"); ok {
		if title, ok := parseTitle(raw, field, ve); ok {
			f.input.Title = &title
		}
	}

	if raw, field, ok := b.lookup("description"); ok {
		if desc, ok := parseDescription(raw, field, ve); ok {
			f.input.Description = desc
			f.input.DescriptionSet = true
		}
	}

	if raw, field, ok := b.lookup("due_date", "dueDate"); ok {
		if due, ok := parseDueDate(raw, field, now, ve); ok {
			f.input.DueDate = &due
		}
	}

	if raw, field, ok := b.lookup("priority"); ok {
		if p, ok := parsePriority(raw, field, ve); ok {
			f.input.Priority = &p
		}
	}

	if ve.HasErrors() {
		return nil, ve
	}
	return f, nil
}

// Input returns the partial update.
func (f *UpdateTaskForm) Input() tasks.UpdateInput {
	return f.input
}

// ChangeStatusForm holds a validated status change.
type ChangeStatusForm struct {
	Status model.Status
}

// NewChangeStatusForm returns an empty form.
func NewChangeStatusForm() *ChangeStatusForm {
	return &ChangeStatusForm{}
}

// ParseAndValidate reads the request body.
func (f *ChangeStatusForm) ParseAndValidate(c *fiber.Ctx) (*ChangeStatusForm, response.Error) {
	b, rerr := decodeBody(c.Body())
	if rerr != nil {
		return nil, rerr
	}

	ve := response.NewValidationError()
	if raw, field, ok := b.lookup("status"); !ok {
		ve.SetError(field, response.MissedValue, "missed value")
	} else if st, ok := parseStatus(raw, field, ve); ok {
		f.Status = st
	}

	if ve.HasErrors() {
		return nil, ve
	}
	return f, nil
}
