package service

import (
	"context"
	"fmt"

	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/repository"
)

// EmailGuard keeps emails unique across all users, deleted ones included,
// comparing without regard to letter case.
type EmailGuard struct {
	users repository.UserRepository
}

// NewEmailGuard builds a guard backed by users.
func NewEmailGuard(users repository.UserRepository) *EmailGuard {
	return &EmailGuard{users: users}
}

// EnsureEmailAvailable fails with *domain.DuplicateEmailError when candidate
// is already registered. A nil candidate, or one equal to current ignoring
// case, is not checked: the caller is not changing the address. Pass an
// empty current on creation so the check always runs.
func (g *EmailGuard) EnsureEmailAvailable(ctx context.Context, candidate *string, current string) error {
	if candidate == nil {
		return nil
	}
	if current != "" && domain.SameEmail(*candidate, current) {
		return nil
	}
	exists, err := g.users.ExistsByEmailIgnoreCase(ctx, *candidate)
	if err != nil {
		return fmt.Errorf("check email availability: %w", err)
	}
	if exists {
		return &domain.DuplicateEmailError{Email: *candidate}
	}
	return nil
}
