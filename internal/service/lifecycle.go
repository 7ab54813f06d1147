package service

import (
	"github.com/spec-kit/user-service/internal/domain"
)

// Lifecycle decides which operations a user's state allows and performs
// the two irreversible transitions: activation at creation and deletion.
type Lifecycle struct {
	clock Clock
}

// NewLifecycle builds a lifecycle manager stamping times from clock.
func NewLifecycle(clock Clock) *Lifecycle {
	return &Lifecycle{clock: clock}
}

// patchTransitions lists the states a patch may move a user into.
var patchTransitions = map[domain.UserState][]domain.UserState{
	domain.UserStateActive:  {domain.UserStateActive, domain.UserStateBlocked},
	domain.UserStateBlocked: {domain.UserStateActive, domain.UserStateBlocked},
	domain.UserStateDeleted: {},
}

// Initialize makes user a freshly registered, active account.
func (l *Lifecycle) Initialize(user *domain.User) {
	user.State = domain.UserStateActive
	user.RegistrationDate = l.clock.Now()
}

// MarkDeleted moves user to DELETED and reports whether anything changed.
// Deleting an already deleted user is a no-op, not an error.
func (l *Lifecycle) MarkDeleted(user *domain.User) bool {
	if user.State == domain.UserStateDeleted {
		return false
	}
	user.State = domain.UserStateDeleted
	return true
}

// CheckPatch reports whether patch may be applied to user at all.
func (l *Lifecycle) CheckPatch(user *domain.User, patch domain.UserPatch) error {
	if user.IsDeleted() {
		return &domain.UserDeletedError{UserID: user.ID}
	}
	if patch.State == nil {
		return nil
	}
	for _, allowed := range patchTransitions[user.State] {
		if allowed == *patch.State {
			return nil
		}
	}
	return &domain.InvalidStateTransitionError{From: user.State, To: *patch.State}
}
