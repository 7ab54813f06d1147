package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/user-service/internal/domain"
)

// CreateUserRequest payload for new users.
type CreateUserRequest struct {
	FirstName string `json:"firstName" validate:"required,notblank,max=50"`
	LastName  string `json:"lastName" validate:"required,notblank,max=50"`
	Email     string `json:"email" validate:"required,notblank,max=320,email"`
}

// UpdateUserRequest payload for partial updates. Omitted fields stay as they
// are; present ones must be valid.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitnil,notblank,max=50"`
	LastName  *string `json:"lastName" validate:"omitnil,notblank,max=50"`
	Email     *string `json:"email" validate:"omitnil,notblank,max=320,email"`
	State     *string `json:"state" validate:"omitnil,oneof=ACTIVE BLOCKED"`
}

// UserResponse is the wire shape of a user.
type UserResponse struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	State            string    `json:"state"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// ToUser maps a create request onto an unsaved user.
func (r CreateUserRequest) ToUser() *domain.User {
	return domain.NewUser(r.FirstName, r.LastName, r.Email)
}

// ToPatch maps an update request onto a patch for user id.
func (r UpdateUserRequest) ToPatch(id uuid.UUID) domain.UserPatch {
	patch := domain.UserPatch{
		ID:        id,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
	if r.State != nil {
		state := domain.UserState(*r.State)
		patch.State = &state
	}
	return patch
}

// NewUserResponse maps a user onto its wire shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:               user.ID.String(),
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Email:            user.Email,
		State:            string(user.State),
		RegistrationDate: user.RegistrationDate,
	}
}

// NewUserListResponse maps users onto their wire shape.
func NewUserListResponse(users []domain.User) []UserResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, NewUserResponse(&users[i]))
	}
	return items
}
