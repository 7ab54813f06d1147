package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/events"
)

// AuditService writes user lifecycle events to the structured log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserAdded, a.handle("new user added"))
	a.dispatcher.Subscribe(events.EventUserUpdated, a.handle("user updated"))
	a.dispatcher.Subscribe(events.EventUserUpdateSkipped, a.handle("no new data for user"))
	a.dispatcher.Subscribe(events.EventUserDeleted, a.handle("user marked deleted"))
	a.dispatcher.Subscribe(events.EventUserDeleteSkipped, a.handle("user already deleted"))
}

func (a *AuditService) handle(message string) events.EventHandler {
	return func(_ context.Context, event events.Event) error {
		a.logger.Info(message, zap.String("user_id", event.UserID.String()))
		a.logger.Debug(message,
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Any("payload", event.Payload))
		return nil
	}
}
