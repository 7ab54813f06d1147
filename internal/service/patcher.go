package service

import (
	"github.com/spec-kit/user-service/internal/domain"
)

// Patcher merges partial updates into users.
type Patcher struct{}

// NewPatcher returns a patch merger.
func NewPatcher() *Patcher {
	return &Patcher{}
}

// ApplyPatch copies every field present in patch and different from the
// target's current value onto target, and reports whether any field changed.
// Email is compared ignoring letter case, the same rule the uniqueness check
// uses. ID, RegistrationDate and Version are never touched. No uniqueness
// check or persistence happens here.
func (p *Patcher) ApplyPatch(patch domain.UserPatch, target *domain.User) bool {
	changed := false
	if patch.FirstName != nil && *patch.FirstName != target.FirstName {
		target.FirstName = *patch.FirstName
		changed = true
	}
	if patch.LastName != nil && *patch.LastName != target.LastName {
		target.LastName = *patch.LastName
		changed = true
	}
	if patch.Email != nil && !domain.SameEmail(*patch.Email, target.Email) {
		target.Email = *patch.Email
		changed = true
	}
	if patch.State != nil && *patch.State != target.State {
		target.State = *patch.State
		changed = true
	}
	return changed
}
