package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/user-service/internal/domain"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

// NewMemoryUserRepository returns a process-local implementation with the
// same version-check contract as the Postgres one. Stored rows are copied
// in and out, so callers never share memory with the store.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[uuid.UUID]domain.User)}
}

func (r *memoryUserRepository) ExistsByEmailIgnoreCase(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emailTaken(email, uuid.Nil), nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) FindAll(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	users := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if !users[i].RegistrationDate.Equal(users[j].RegistrationDate) {
			return users[i].RegistrationDate.Before(users[j].RegistrationDate)
		}
		return strings.Compare(users[i].ID.String(), users[j].ID.String()) < 0
	})
	return users, nil
}

func (r *memoryUserRepository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.users[user.ID]
	if user.Version == 0 {
		if exists {
			return nil, &domain.ConcurrentModificationError{UserID: user.ID}
		}
		if r.emailTaken(user.Email, uuid.Nil) {
			return nil, &domain.DuplicateEmailError{Email: user.Email}
		}
		row := *user
		row.Version = 1
		r.users[row.ID] = row
		return &row, nil
	}

	if !exists || stored.Version != user.Version {
		return nil, &domain.ConcurrentModificationError{UserID: user.ID}
	}
	if r.emailTaken(user.Email, user.ID) {
		return nil, &domain.DuplicateEmailError{Email: user.Email}
	}
	row := stored
	row.FirstName = user.FirstName
	row.LastName = user.LastName
	row.Email = user.Email
	row.State = user.State
	row.Version = stored.Version + 1
	r.users[row.ID] = row
	return &row, nil
}

// emailTaken must be called with r.mu held.
func (r *memoryUserRepository) emailTaken(email string, except uuid.UUID) bool {
	for id, user := range r.users {
		if id != except && domain.SameEmail(user.Email, email) {
			return true
		}
	}
	return false
}
