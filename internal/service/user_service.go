package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/events"
	"github.com/spec-kit/user-service/internal/repository"
)

// UserService coordinates the user lifecycle: creation, patching and soft
// deletion. It holds no per-request state; each call works on its own copy
// of the user and leaves conflict detection to the repository's version
// check. Errors are never retried here.
type UserService struct {
	users      repository.UserRepository
	lifecycle  *Lifecycle
	patcher    *Patcher
	guard      *EmailGuard
	clock      Clock
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Clock      Clock
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	clock := deps.Clock
	if clock == nil {
		clock = NewSystemClock(nil)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      deps.UserRepo,
		lifecycle:  NewLifecycle(clock),
		patcher:    NewPatcher(),
		guard:      NewEmailGuard(deps.UserRepo),
		clock:      clock,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// AddUser registers a new user. The email is always checked for uniqueness,
// then the user is activated, stamped and saved.
func (s *UserService) AddUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user required")
	}
	if err := s.guard.EnsureEmailAvailable(ctx, &user.Email, ""); err != nil {
		return nil, err
	}
	if user.ID == uuid.Nil {
		user.ID = domain.NewUserID()
	}
	user.Version = 0
	s.lifecycle.Initialize(user)

	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return nil, mapSaveError(err)
	}
	s.publishEvent(ctx, events.EventUserAdded, saved.ID, events.UserSnapshotPayload{User: *saved})
	return saved, nil
}

// FindAllUsers lists every user, deleted ones included.
func (s *UserService) FindAllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUserByID fetches a user or fails with *domain.UserNotFoundError.
func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.UserNotFoundError{UserID: id}
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateUser applies patch to the user it names. A patch that changes
// nothing skips the write and returns the stored user unchanged.
func (s *UserService) UpdateUser(ctx context.Context, patch domain.UserPatch) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, patch.ID)
	if err != nil {
		return nil, err
	}
	if err := s.lifecycle.CheckPatch(user, patch); err != nil {
		return nil, err
	}
	if err := s.guard.EnsureEmailAvailable(ctx, patch.Email, user.Email); err != nil {
		return nil, err
	}
	if !s.patcher.ApplyPatch(patch, user) {
		s.publishEvent(ctx, events.EventUserUpdateSkipped, user.ID, events.UserUpdateSkippedPayload{Patch: patch})
		return user, nil
	}

	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return nil, mapSaveError(err)
	}
	s.publishEvent(ctx, events.EventUserUpdated, saved.ID, events.UserSnapshotPayload{User: *saved})
	return saved, nil
}

// DeleteUserByID marks the user deleted. Deleting twice is not an error:
// the second call returns the already deleted user without writing.
func (s *UserService) DeleteUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.lifecycle.MarkDeleted(user) {
		s.publishEvent(ctx, events.EventUserDeleteSkipped, user.ID, events.UserSnapshotPayload{User: *user})
		return user, nil
	}

	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return nil, mapSaveError(err)
	}
	s.publishEvent(ctx, events.EventUserDeleted, saved.ID, events.UserSnapshotPayload{User: *saved})
	return saved, nil
}

// mapSaveError passes domain errors through and wraps everything else.
func mapSaveError(err error) error {
	var (
		conflict  *domain.ConcurrentModificationError
		duplicate *domain.DuplicateEmailError
	)
	if errors.As(err, &conflict) || errors.As(err, &duplicate) {
		return err
	}
	return fmt.Errorf("save user: %w", err)
}

func (s *UserService) publishEvent(ctx context.Context, eventType events.EventType, userID uuid.UUID, payload any) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: s.clock.Now(),
		Payload:   payload,
	})
	if err != nil {
		// observers never fail the operation that triggered them
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(eventType)),
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}
