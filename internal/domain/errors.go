package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// UserNotFoundError reports a reference to a user id that has no row.
type UserNotFoundError struct {
	UserID uuid.UUID
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %s does not exist", e.UserID)
}

// DuplicateEmailError reports an email already registered by some user,
// deleted ones included.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("user with email %s already registered", e.Email)
}

// UserDeletedError reports an attempt to modify a deleted user.
type UserDeletedError struct {
	UserID uuid.UUID
}

func (e *UserDeletedError) Error() string {
	return fmt.Sprintf("cannot update user %s: user deleted", e.UserID)
}

// ConcurrentModificationError reports a version stamp mismatch on write.
// Callers have to reload the user and retry explicitly.
type ConcurrentModificationError struct {
	UserID uuid.UUID
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("user %s was modified concurrently: reload and retry", e.UserID)
}

// InvalidStateTransitionError reports a state change a patch may not make.
type InvalidStateTransitionError struct {
	From UserState
	To   UserState
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot change user state from %s to %s", e.From, e.To)
}
