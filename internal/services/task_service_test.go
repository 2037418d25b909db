package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkruglov/go-task-api/internal/auth"
	"github.com/mkruglov/go-task-api/internal/models"
	"github.com/mkruglov/go-task-api/internal/storage/storagetest"
)

var (
	ownerIdentity = auth.Identity{ID: "user-a", Email: "a@example.com"}
	otherIdentity = auth.Identity{ID: "user-b", Email: "b@example.com"}
	adminIdentity = auth.Identity{ID: "user-c", Email: "c@example.com", IsAdmin: true}
)

func newTaskServiceForTest(t *testing.T) (TaskService, *storagetest.MemoryTaskStore) {
	t.Helper()

	users := storagetest.NewMemoryUserStore()
	for _, identity := range []auth.Identity{ownerIdentity, otherIdentity, adminIdentity} {
		err := users.CreateUser(context.Background(), &models.User{
			ID:       identity.ID,
			Email:    identity.Email,
			IsActive: true,
			IsAdmin:  identity.IsAdmin,
		})
		require.NoError(t, err)
	}

	tasks := storagetest.NewMemoryTaskStore(users)
	service := NewTaskService(zerolog.Nop(), tasks)
	return service, tasks
}

func TestTaskService_CreateTask(t *testing.T) {
	t.Parallel()

	service, _ := newTaskServiceForTest(t)
	ctx := context.Background()

	task, err := service.CreateTask(ctx, ownerIdentity, CreateTaskParams{
		Title:       "buy groceries",
		Description: "milk, bread, eggs",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, models.StatusNotStarted, task.Status)
	assert.Equal(t, models.PriorityNone, task.Priority)
	// The returned task carries the resolved owner, not just the id
	// the task was stored with.
	assert.Equal(t, ownerIdentity.ID, task.Owner.ID)
	assert.Equal(t, ownerIdentity.Email, task.Owner.Email)
}

func TestTaskService_ListTasksScoping(t *testing.T) {
	t.Parallel()

	service, _ := newTaskServiceForTest(t)
	ctx := context.Background()

	_, err := service.CreateTask(ctx, ownerIdentity, CreateTaskParams{Title: "a1"})
	require.NoError(t, err)
	_, err = service.CreateTask(ctx, ownerIdentity, CreateTaskParams{Title: "a2"})
	require.NoError(t, err)
	_, err = service.CreateTask(ctx, otherIdentity, CreateTaskParams{Title: "b1"})
	require.NoError(t, err)

	ownTasks, err := service.ListTasks(ctx, ownerIdentity)
	require.NoError(t, err)
	require.Len(t, ownTasks, 2)
	for _, task := range ownTasks {
		assert.Equal(t, ownerIdentity.ID, task.Owner.ID)
	}

	allTasks, err := service.ListTasks(ctx, adminIdentity)
	require.NoError(t, err)
	assert.Len(t, allTasks, 3)
}

func TestTaskService_UpdateTaskMergesFields(t *testing.T) {
	t.Parallel()

	service, _ := newTaskServiceForTest(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, ownerIdentity, CreateTaskParams{
		Title:       "original title",
		Description: "original description",
		Priority:    models.PriorityLow,
	})
	require.NoError(t, err)

	status := models.StatusDone
	title := "new title"
	updated, err := service.UpdateTask(ctx, ownerIdentity, UpdateTaskParams{
		ID:     created.ID,
		Title:  &title,
		Status: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, models.StatusDone, updated.Status)
	// Untouched fields survive the merge.
	assert.Equal(t, "original description", updated.Description)
	assert.Equal(t, models.PriorityLow, updated.Priority)
}

func TestTaskService_OwnershipRule(t *testing.T) {
	t.Parallel()

	service, _ := newTaskServiceForTest(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, ownerIdentity, CreateTaskParams{Title: "guarded"})
	require.NoError(t, err)

	title := "hijacked"
	_, err = service.UpdateTask(ctx, otherIdentity, UpdateTaskParams{ID: created.ID, Title: &title})
	assert.ErrorIs(t, err, ErrTaskAccessDenied)

	err = service.DeleteTask(ctx, otherIdentity, created.ID)
	assert.ErrorIs(t, err, ErrTaskAccessDenied)

	// The owner and an admin both pass the predicate.
	_, err = service.UpdateTask(ctx, ownerIdentity, UpdateTaskParams{ID: created.ID, Title: &title})
	require.NoError(t, err)

	err = service.DeleteTask(ctx, adminIdentity, created.ID)
	require.NoError(t, err)

	_, err = service.UpdateTask(ctx, ownerIdentity, UpdateTaskParams{ID: created.ID})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_DeleteScenario(t *testing.T) {
	t.Parallel()

	service, _ := newTaskServiceForTest(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, ownerIdentity, CreateTaskParams{Title: "victim"})
	require.NoError(t, err)

	// A non-owner is rejected and the task survives.
	err = service.DeleteTask(ctx, otherIdentity, created.ID)
	require.ErrorIs(t, err, ErrTaskAccessDenied)

	remaining, err := service.ListTasks(ctx, ownerIdentity)
	require.NoError(t, err)
	require.Len(t, remaining, 1)

	// An admin may delete it regardless of ownership.
	require.NoError(t, service.DeleteTask(ctx, adminIdentity, created.ID))

	remaining, err = service.ListTasks(ctx, ownerIdentity)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestTaskService_NotFound(t *testing.T) {
	t.Parallel()

	service, _ := newTaskServiceForTest(t)
	ctx := context.Background()

	_, err := service.UpdateTask(ctx, ownerIdentity, UpdateTaskParams{ID: "missing"})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = service.DeleteTask(ctx, adminIdentity, "missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
