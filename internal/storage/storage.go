package storage

import (
	"context"
	"errors"

	"github.com/mkruglov/go-task-api/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

type UserStore interface {
	// CreateUser persists the user. It returns ErrAlreadyExists
	// if a user with the same email is already stored.
	CreateUser(ctx context.Context, user *models.User) error

	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type TaskStore interface {
	CreateTask(ctx context.Context, task *models.Task) error

	// GetTaskByID loads the task together with its owner.
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)

	// ListTasks returns every stored task. Reserved for admin callers.
	ListTasks(ctx context.Context) ([]*models.Task, error)

	// ListTasksByOwner scopes the query to a single owner. The filter
	// is applied by the store, not by the caller after a full read.
	ListTasksByOwner(ctx context.Context, ownerID string) ([]*models.Task, error)

	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error
}
