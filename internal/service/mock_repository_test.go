package service_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/user-service/internal/domain"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) ExistsByEmailIgnoreCase(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *mockUserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	saved, _ := args.Get(0).(*domain.User)
	return saved, args.Error(1)
}

func strPtr(s string) *string { return &s }

func statePtr(s domain.UserState) *domain.UserState { return &s }
