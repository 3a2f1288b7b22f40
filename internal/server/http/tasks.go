package http

import (
	"errors"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

const (
	msgTextRequired = "Task text is required."
	msgTaskNotFound = "Task not found."
	msgTasksFailed  = "Failed to process tasks."
)

// createTaskRequest accepts "task" as an alias of "text" for older clients.
type createTaskRequest struct {
	Text      *string `json:"text"`
	Task      *string `json:"task"`
	Completed *bool   `json:"completed"`
}

type updateTaskRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

func (s *Server) listTasks(c *fiber.Ctx) error {
	items, err := s.tasks.List(c.UserContext(), identityFrom(c))
	if err != nil {
		return s.taskError(c, err)
	}
	return c.JSON(items)
}

func (s *Server) createTask(c *fiber.Ctx) error {
	var body createTaskRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgInvalidBody)
	}

	text := ""
	switch {
	case body.Text != nil:
		text = *body.Text
	case body.Task != nil:
		text = *body.Task
	}

	task, err := s.tasks.Create(c.UserContext(), identityFrom(c), text, body.Completed)
	if err != nil {
		return s.taskError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	var body updateTaskRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgInvalidBody)
	}

	patch := models.TaskPatch{Text: body.Text, Completed: body.Completed}
	task, err := s.tasks.Update(c.UserContext(), identityFrom(c), c.Params("id"), patch)
	if err != nil {
		return s.taskError(c, err)
	}
	return c.JSON(task)
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	if err := s.tasks.Delete(c.UserContext(), identityFrom(c), c.Params("id")); err != nil {
		return s.taskError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) taskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return fiber.NewError(fiber.StatusBadRequest, msgTextRequired)
	case errors.Is(err, common.ErrorNotFound):
		return fiber.NewError(fiber.StatusNotFound, msgTaskNotFound)
	case errors.Is(err, common.ErrorUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, msgTokenInvalid)
	default:
		s.logger.Error(c.UserContext(), "task operation failed", "method", c.Method(), "req_id", requestID(c), "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, msgTasksFailed)
	}
}
