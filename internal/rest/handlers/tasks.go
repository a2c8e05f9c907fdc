package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/nhle/taskboard/internal/rest/forms"
	"github.com/nhle/taskboard/internal/rest/middleware"
	"github.com/nhle/taskboard/internal/rest/response"
	"github.com/nhle/taskboard/internal/tasks"
)

// Task serves the /tasks resource.
type Task struct {
	log logrus.FieldLogger
	svc *tasks.Service
}

// NewTaskHandler creates a Task handler.
func NewTaskHandler(svc *tasks.Service, log logrus.FieldLogger) *Task {
	return &Task{
		log: log,
		svc: svc,
	}
}

// EnrichRoutes registers the task endpoints under router.
func (h *Task) EnrichRoutes(router fiber.Router) {
	taskRoutes := router.Group("/tasks")
	taskRoutes.Get("/", h.listTasksAction)
	taskRoutes.Post("/", h.createTaskAction)
	taskRoutes.Get("/:id", h.getTaskAction)
	taskRoutes.Put("/:id", h.updateTaskAction)
	taskRoutes.Delete("/:id", h.deleteTaskAction)
	taskRoutes.Patch("/:id/status", h.changeTaskStatusAction)
}

func (h *Task) listTasksAction(c *fiber.Ctx) error {
	const op = "handlers.Task.listTasksAction"
	log := h.log.WithField("operation", op)

	form, verr := forms.NewListTasksForm().ParseAndValidate(c)
	if verr != nil {
		log.WithField("details", verr.Details()).Debug("invalid list query")
		return response.HandleError(c, verr)
	}

	id := middleware.Identity(c)
	result, err := h.svc.List(c.UserContext(), id.UserID, form.Query)
	if err != nil {
		log.WithError(err).Error("unable to list tasks")
		return response.HandleError(c, err)
	}

	return response.OK(c, result.Tasks, response.ListMetadata{
		Pagination: response.Pagination{
			Total:      result.Total,
			Page:       result.Page,
			PageSize:   result.PageSize,
			TotalPages: result.TotalPages,
		},
	})
}

func (h *Task) createTaskAction(c *fiber.Ctx) error {
	const op = "handlers.Task.createTaskAction"
	log := h.log.WithField("operation", op)

	form, verr := forms.NewCreateTaskForm().ParseAndValidate(c, h.svc.Now())
	if verr != nil {
		log.WithField("details", verr.Details()).Debug("invalid create request")
		return response.HandleError(c, verr)
	}

	id := middleware.Identity(c)
	task, err := h.svc.Create(c.UserContext(), id.UserID, form.Input())
	if err != nil {
		log.WithError(err).Error("unable to create task")
		return response.HandleError(c, err)
	}

	log.WithField("task_id", task.ID).Info("task created")
	return response.Created(c, task)
}

func (h *Task) getTaskAction(c *fiber.Ctx) error {
	const op = "handlers.Task.getTaskAction"
	log := h.log.WithField("operation", op)

	id := middleware.Identity(c)
	task, err := h.svc.Get(c.UserContext(), id.UserID, c.Params("id"))
	if err != nil {
		logFailure(log, err, "unable to get task")
		return response.HandleError(c, err)
	}

	return response.OK(c, task, nil)
}

func (h *Task) updateTaskAction(c *fiber.Ctx) error {
	const op = "handlers.Task.updateTaskAction"
	log := h.log.WithField("operation", op)

	form, verr := forms.NewUpdateTaskForm().ParseAndValidate(c, h.svc.Now())
	if verr != nil {
		log.WithField("details", verr.Details()).Debug("invalid update request")
		return response.HandleError(c, verr)
	}

	id := middleware.Identity(c)
	task, err := h.svc.Update(c.UserContext(), id.UserID, c.Params("id"), form.Input())
	if err != nil {
		logFailure(log, err, "unable to update task")
		return response.HandleError(c, err)
	}

	return response.OK(c, task, nil)
}

func (h *Task) deleteTaskAction(c *fiber.Ctx) error {
	const op = "handlers.Task.deleteTaskAction"
	log := h.log.WithField("operation", op)

	id := middleware.Identity(c)
	if err := h.svc.Delete(c.UserContext(), id.UserID, c.Params("id")); err != nil {
		logFailure(log, err, "unable to delete task")
		return response.HandleError(c, err)
	}

	return response.OK(c, nil, response.MessageMetadata{Message: "Task deleted successfully"})
}

func (h *Task) changeTaskStatusAction(c *fiber.Ctx) error {
	const op = "handlers.Task.changeTaskStatusAction"
	log := h.log.WithField("operation", op)

	form, verr := forms.NewChangeStatusForm().ParseAndValidate(c)
	if verr != nil {
		log.WithField("details", verr.Details()).Debug("invalid status request")
		return response.HandleError(c, verr)
	}

	id := middleware.Identity(c)
	task, err := h.svc.ChangeStatus(c.UserContext(), id.UserID, c.Params("id"), form.Status)
	if err != nil {
		logFailure(log, err, "unable to change task status")
		return response.HandleError(c, err)
	}

	return response.OK(c, task, nil)
}

// logFailure logs expected domain failures at info and everything else at
// error.
func logFailure(log logrus.FieldLogger, err error, msg string) {
	var te *tasks.Error
	if errors.As(err, &te) {
		log.WithError(err).Info(msg)
		return
	}
	log.WithError(err).Error(msg)
}
