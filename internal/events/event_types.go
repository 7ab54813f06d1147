package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/user-service/internal/domain"
)

// EventType enumerates user lifecycle events.
type EventType string

const (
	EventUserAdded         EventType = "user_added"
	EventUserUpdated       EventType = "user_updated"
	EventUserUpdateSkipped EventType = "user_update_skipped"
	EventUserDeleted       EventType = "user_deleted"
	EventUserDeleteSkipped EventType = "user_delete_skipped"
)

// Event is emitted by the user service after each lifecycle step.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	UserID    uuid.UUID `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// UserSnapshotPayload carries the user as it stands after the step.
type UserSnapshotPayload struct {
	User domain.User `json:"user"`
}

// UserUpdateSkippedPayload carries a patch that changed nothing.
type UserUpdateSkippedPayload struct {
	Patch domain.UserPatch `json:"patch"`
}
