package services

import (
	"context"
	"errors"
	"time"

	"github.com/mkruglov/go-task-api/internal/auth"
	"github.com/mkruglov/go-task-api/internal/models"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. The two cases must stay indistinguishable to the caller
	// so accounts cannot be enumerated through the login endpoint.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskAccessDenied = errors.New("no permission to access this task")
)

type AuthService interface {
	// Signup hashes the password and persists a new user with
	// active=true and admin=false. It returns ErrUserAlreadyExists
	// if the email is taken. Signup never issues a token; that is
	// Login's job.
	Signup(ctx context.Context, params SignupParams) error

	// Login verifies the credentials and issues a signed token
	// carrying the user's id and email. It returns
	// ErrInvalidCredentials on both unknown email and wrong password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)
}

type TaskService interface {
	// CreateTask persists a task owned by the caller and returns it
	// with the owner resolved.
	CreateTask(ctx context.Context, identity auth.Identity, params CreateTaskParams) (*models.Task, error)

	// ListTasks returns all tasks for admin callers and only the
	// caller's own tasks otherwise.
	ListTasks(ctx context.Context, identity auth.Identity) ([]*models.Task, error)

	// UpdateTask merges the non-nil fields onto the task and persists
	// it. It returns ErrTaskNotFound if the task does not exist and
	// ErrTaskAccessDenied if the caller is neither owner nor admin.
	UpdateTask(ctx context.Context, identity auth.Identity, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask removes the task under the same owner-or-admin rule
	// as UpdateTask.
	DeleteTask(ctx context.Context, identity auth.Identity, taskID string) error
}

type SignupParams struct {
	Email    string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type LoginResult struct {
	UserID         string
	Token          string
	TokenExpiresAt time.Time
}

type CreateTaskParams struct {
	Title       string
	Description string
	Priority    string
}

type UpdateTaskParams struct {
	ID          string
	Title       *string
	Description *string
	Status      *string
	Priority    *string
}
