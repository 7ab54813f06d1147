package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/service"
)

func TestEmailGuard_SkipsUnchangedEmail(t *testing.T) {
	repo := &mockUserRepository{}
	guard := service.NewEmailGuard(repo)

	require.NoError(t, guard.EnsureEmailAvailable(context.Background(), nil, "john@mail.com"))
	require.NoError(t, guard.EnsureEmailAvailable(context.Background(), strPtr("John@Mail.com"), "john@mail.com"))

	repo.AssertNotCalled(t, "ExistsByEmailIgnoreCase", mock.Anything, mock.Anything)
}

func TestEmailGuard_RejectsTakenEmail(t *testing.T) {
	repo := &mockUserRepository{}
	repo.On("ExistsByEmailIgnoreCase", mock.Anything, "JOHN@MAIL.COM").Return(true, nil).Once()
	guard := service.NewEmailGuard(repo)

	err := guard.EnsureEmailAvailable(context.Background(), strPtr("JOHN@MAIL.COM"), "jack@mail.com")

	var dup *domain.DuplicateEmailError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "JOHN@MAIL.COM", dup.Email)
	repo.AssertExpectations(t)
}

func TestEmailGuard_AlwaysChecksOnCreate(t *testing.T) {
	repo := &mockUserRepository{}
	repo.On("ExistsByEmailIgnoreCase", mock.Anything, "new@mail.com").Return(false, nil).Once()
	guard := service.NewEmailGuard(repo)

	require.NoError(t, guard.EnsureEmailAvailable(context.Background(), strPtr("new@mail.com"), ""))
	repo.AssertExpectations(t)
}

func TestEmailGuard_PropagatesLookupFailure(t *testing.T) {
	boom := errors.New("db down")
	repo := &mockUserRepository{}
	repo.On("ExistsByEmailIgnoreCase", mock.Anything, "new@mail.com").Return(false, boom)
	guard := service.NewEmailGuard(repo)

	err := guard.EnsureEmailAvailable(context.Background(), strPtr("new@mail.com"), "old@mail.com")

	assert.ErrorIs(t, err, boom)
}
