package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkruglov/go-task-api/internal/models"
	"github.com/mkruglov/go-task-api/internal/services"
)

// taskOwnerResponse is the outward projection of a task's owner. The
// type carries only the displayable fields, so the password hash and
// the active/admin flags structurally cannot leak.
type taskOwnerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type taskResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Owner       taskOwnerResponse `json:"owner"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Owner: taskOwnerResponse{
			ID:    task.Owner.ID,
			Email: task.Owner.Email,
		},
	}
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty" binding:"omitempty,oneof=none low medium high"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	identity, exists := identityFromContext(c)
	if !exists {
		h.logger.Error().Msg("no identity found in context")
		abort(c, newUnauthorizedError(errInvalidAuthToken.Error()))
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.CreateTaskParams{Title: req.Title}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.Priority != nil {
		params.Priority = *req.Priority
	}

	task, err := h.tasks.CreateTask(c, identity, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	identity, exists := identityFromContext(c)
	if !exists {
		h.logger.Error().Msg("no identity found in context")
		abort(c, newUnauthorizedError(errInvalidAuthToken.Error()))
		return
	}

	tasks, err := h.tasks.ListTasks(c, identity)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" binding:"omitempty,oneof=not_started in_progress done"`
	Priority    *string `json:"priority,omitempty" binding:"omitempty,oneof=none low medium high"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	identity, exists := identityFromContext(c)
	if !exists {
		h.logger.Error().Msg("no identity found in context")
		abort(c, newUnauthorizedError(errInvalidAuthToken.Error()))
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError("task id is required"))
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c, identity, services.UpdateTaskParams{
		ID:          taskID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to update task")
		abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	identity, exists := identityFromContext(c)
	if !exists {
		h.logger.Error().Msg("no identity found in context")
		abort(c, newUnauthorizedError(errInvalidAuthToken.Error()))
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError("task id is required"))
		return
	}

	err := h.tasks.DeleteTask(c, identity, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("task with id %s has been removed", taskID),
	})
}

func abortTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
	case errors.Is(err, services.ErrTaskAccessDenied):
		abort(c, newForbiddenError(services.ErrTaskAccessDenied.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
