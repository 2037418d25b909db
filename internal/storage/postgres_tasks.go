package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mkruglov/go-task-api/internal/models"
)

type postgresTaskStore struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewPostgresTaskStore(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskStore {
	return &postgresTaskStore{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *postgresTaskStore) CreateTask(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   owner_id,
                   title,
                   description,
                   status,
                   priority,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := s.pgPool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.Owner.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")
	return nil
}

func (s *postgresTaskStore) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	task := &models.Task{ID: id}

	const selectTaskByIDQuery = `
SELECT t.title,
       t.description,
       t.status,
       t.priority,
       t.created_at,
       t.updated_at,
       u.id,
       u.email,
       u.is_admin
FROM tasks t
         JOIN users u ON u.id = t.owner_id
WHERE t.id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectTaskByIDQuery,
		task.ID,
	).Scan(
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.Owner.ID,
		&task.Owner.Email,
		&task.Owner.IsAdmin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Str("task_id", id).
				Msg("task not found")
			return nil, ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select task by id")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("selected task by id")
	return task, nil
}

func (s *postgresTaskStore) ListTasks(ctx context.Context) ([]*models.Task, error) {
	const selectTasksQuery = `
SELECT t.id,
       t.title,
       t.description,
       t.status,
       t.priority,
       t.created_at,
       t.updated_at,
       u.id,
       u.email,
       u.is_admin
FROM tasks t
         JOIN users u ON u.id = t.owner_id
ORDER BY t.created_at DESC
`
	rows, err := s.pgPool.Query(ctx, selectTasksQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks, err := s.scanTasks(rows)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected tasks")
	return tasks, nil
}

func (s *postgresTaskStore) ListTasksByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	const selectTasksByOwnerQuery = `
SELECT t.id,
       t.title,
       t.description,
       t.status,
       t.priority,
       t.created_at,
       t.updated_at,
       u.id,
       u.email,
       u.is_admin
FROM tasks t
         JOIN users u ON u.id = t.owner_id
WHERE t.owner_id = $1
ORDER BY t.created_at DESC
`
	rows, err := s.pgPool.Query(
		ctx,
		selectTasksByOwnerQuery,
		ownerID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks by owner")
		return nil, err
	}
	defer rows.Close()

	tasks, err := s.scanTasks(rows)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("owner_id", ownerID).
		Msg("selected tasks by owner")
	return tasks, nil
}

func (s *postgresTaskStore) UpdateTask(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title       = $1,
    description = $2,
    status      = $3,
    priority    = $4,
    updated_at  = $5
WHERE id = $6
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Debug().
			Str("task_id", task.ID).
			Msg("task not found")
		return ErrNotFound
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")
	return nil
}

func (s *postgresTaskStore) DeleteTask(ctx context.Context, id string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		id,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Debug().
			Str("task_id", id).
			Msg("task not found")
		return ErrNotFound
	}
	s.logger.Debug().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

func (s *postgresTaskStore) scanTasks(rows pgx.Rows) ([]*models.Task, error) {
	var tasks []*models.Task
	for rows.Next() {
		task := new(models.Task)
		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Priority,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.Owner.ID,
			&task.Owner.Email,
			&task.Owner.IsAdmin,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err := rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return tasks, nil
}
