package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mkruglov/go-task-api/internal/auth"
	"github.com/mkruglov/go-task-api/internal/models"
	"github.com/mkruglov/go-task-api/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.TaskStore
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskStore,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasks,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, identity auth.Identity, params CreateTaskParams) (*models.Task, error) {
	now := time.Now()
	task := models.Task{
		Title:       params.Title,
		Description: params.Description,
		Status:      models.StatusNotStarted,
		Priority:    params.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		Owner:       models.User{ID: identity.ID},
	}
	if task.Priority == "" {
		task.Priority = models.PriorityNone
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	err = s.tasks.CreateTask(ctx, &task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create task")
		return nil, err
	}

	// Re-read to resolve the owner so create, update and list all
	// return the same task shape.
	created, err := s.tasks.GetTaskByID(ctx, task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to select created task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", created.ID).
		Str("owner_id", identity.ID).
		Msg("created task")
	return created, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, identity auth.Identity) ([]*models.Task, error) {
	var (
		tasks []*models.Task
		err   error
	)
	if identity.IsAdmin {
		tasks, err = s.tasks.ListTasks(ctx)
	} else {
		tasks, err = s.tasks.ListTasksByOwner(ctx, identity.ID)
	}
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", identity.ID).
			Msg("failed to list tasks")
		return nil, err
	}

	s.logger.Info().
		Int("count", len(tasks)).
		Str("user_id", identity.ID).
		Bool("is_admin", identity.IsAdmin).
		Msg("listed tasks")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, identity auth.Identity, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.resolveOwnedTask(ctx, identity, params.ID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	task.UpdatedAt = time.Now()

	err = s.tasks.UpdateTask(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	updated, err := s.tasks.GetTaskByID(ctx, task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to select updated task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", updated.ID).
		Str("user_id", identity.ID).
		Msg("updated task")
	return updated, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, identity auth.Identity, taskID string) error {
	task, err := s.resolveOwnedTask(ctx, identity, taskID)
	if err != nil {
		return err
	}

	err = s.tasks.DeleteTask(ctx, task.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", identity.ID).
		Msg("deleted task")
	return nil
}

// resolveOwnedTask loads the task and applies the owner-or-admin rule:
// a missing task is ErrTaskNotFound, a task owned by someone else is
// ErrTaskAccessDenied unless the caller is an admin.
func (s *taskServiceImpl) resolveOwnedTask(ctx context.Context, identity auth.Identity, taskID string) (*models.Task, error) {
	task, err := s.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task by id")
		return nil, err
	}

	if task.Owner.ID != identity.ID && !identity.IsAdmin {
		s.logger.Error().
			Str("task_id", taskID).
			Str("owner_id", task.Owner.ID).
			Str("user_id", identity.ID).
			Msg("task owned by another user")
		return nil, ErrTaskAccessDenied
	}
	return task, nil
}
