// Package storagetest provides in-memory implementations of the
// storage interfaces for tests, keeping them out of the shipped
// binary. They enforce the same rules as the Postgres stores: unique
// emails and task owners resolved on every read.
package storagetest

import (
	"context"
	"sort"
	"sync"

	"github.com/mkruglov/go-task-api/internal/models"
	"github.com/mkruglov/go-task-api/internal/storage"
)

type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[string]*models.User),
	}
}

func (s *MemoryUserStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return storage.ErrAlreadyExists
		}
	}

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *MemoryUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *MemoryUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

// SetAdmin flips the admin flag on a stored user. Tests use it to
// model live privilege changes after token issuance.
func (s *MemoryUserStore) SetAdmin(id string, isAdmin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		u.IsAdmin = isAdmin
	}
}

// CountByEmail reports how many stored users carry the email. The
// unique constraint keeps it at most one; tests assert that a failed
// duplicate signup did not slip a second record in.
func (s *MemoryUserStore) CountByEmail(email string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, u := range s.users {
		if u.Email == email {
			count++
		}
	}
	return count
}

// MemoryTaskStore is the in-memory TaskStore counterpart. It holds a
// reference to the user store and resolves each task's owner on read,
// mirroring the Postgres store's join against the users table.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	users *MemoryUserStore
	tasks map[string]*models.Task
}

func NewMemoryTaskStore(users *MemoryUserStore) *MemoryTaskStore {
	return &MemoryTaskStore{
		users: users,
		tasks: make(map[string]*models.Task),
	}
}

func (s *MemoryTaskStore) CreateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *task
	s.tasks[task.ID] = &clone
	return nil
}

func (s *MemoryTaskStore) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *t
	s.resolveOwner(ctx, &clone)
	return &clone, nil
}

func (s *MemoryTaskStore) ListTasks(ctx context.Context) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		clone := *t
		s.resolveOwner(ctx, &clone)
		tasks = append(tasks, &clone)
	}
	sortTasks(tasks)
	return tasks, nil
}

func (s *MemoryTaskStore) ListTasksByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*models.Task
	for _, t := range s.tasks {
		if t.Owner.ID == ownerID {
			clone := *t
			s.resolveOwner(ctx, &clone)
			tasks = append(tasks, &clone)
		}
	}
	sortTasks(tasks)
	return tasks, nil
}

func (s *MemoryTaskStore) UpdateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tasks[task.ID]
	if !ok {
		return storage.ErrNotFound
	}

	stored.Title = task.Title
	stored.Description = task.Description
	stored.Status = task.Status
	stored.Priority = task.Priority
	stored.UpdatedAt = task.UpdatedAt
	return nil
}

func (s *MemoryTaskStore) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// resolveOwner fills the displayable owner fields from the user store.
// The Postgres store selects id, email and the admin flag for a task's
// owner; the same projection applies here.
func (s *MemoryTaskStore) resolveOwner(ctx context.Context, task *models.Task) {
	user, err := s.users.GetUserByID(ctx, task.Owner.ID)
	if err != nil {
		return
	}
	task.Owner = models.User{
		ID:      user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}
}

func sortTasks(tasks []*models.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}
