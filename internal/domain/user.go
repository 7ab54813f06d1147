package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserState represents lifecycle states for a user account.
type UserState string

const (
	UserStateActive  UserState = "ACTIVE"
	UserStateBlocked UserState = "BLOCKED"
	UserStateDeleted UserState = "DELETED"
)

// Valid reports whether s is one of the known states.
func (s UserState) Valid() bool {
	switch s {
	case UserStateActive, UserStateBlocked, UserStateDeleted:
		return true
	}
	return false
}

// User is the domain model for a user account.
//
// Version is owned by the repository: zero means the row has never been
// persisted, any other value is the stamp read together with the row.
type User struct {
	ID               uuid.UUID
	FirstName        string
	LastName         string
	Email            string
	State            UserState
	RegistrationDate time.Time
	Version          int64
}

// NewUser builds an unsaved user with a freshly generated time-ordered id.
func NewUser(firstName, lastName, email string) *User {
	return &User{
		ID:        NewUserID(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	}
}

// NewUserID returns a UUIDv7, falling back to a random id if the clock
// source fails.
func NewUserID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Equal reports whether u and other denote the same user.
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return false
	}
	return u.ID == other.ID
}

// IsDeleted reports whether the user reached the terminal state.
func (u *User) IsDeleted() bool {
	return u.State == UserStateDeleted
}

// Clone returns a copy that shares no memory with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

// UserPatch carries the fields a caller wants to change on user ID.
// A nil field means "leave unchanged".
type UserPatch struct {
	ID        uuid.UUID
	FirstName *string
	LastName  *string
	Email     *string
	State     *UserState
}

// IsEmpty reports whether the patch carries no field at all.
func (p UserPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.State == nil
}

// SameEmail compares two addresses ignoring letter case.
func SameEmail(a, b string) bool {
	return strings.EqualFold(a, b)
}
