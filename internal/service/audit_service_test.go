package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/events"
	"github.com/spec-kit/user-service/internal/repository"
	"github.com/spec-kit/user-service/internal/service"
)

func TestAuditService_LogsLifecycleEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, zap.New(core)).RegisterHandlers()
	userID := uuid.New()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventUserAdded, UserID: userID}))
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventUserDeleteSkipped, UserID: userID}))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "new user added", entries[0].Message)
	assert.Equal(t, userID.String(), entries[0].ContextMap()["user_id"])
	assert.Equal(t, "user already deleted", entries[1].Message)
}

func TestAuditService_WithoutDispatcher(t *testing.T) {
	assert.NotPanics(t, func() {
		service.NewAuditService(nil, zap.NewNop()).RegisterHandlers()
	})
}

func TestUserService_LogsFailingObserver(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sinkDown := errors.New("audit sink down")
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventUserAdded, func(context.Context, events.Event) error { return sinkDown })
	svc := service.NewUserService(service.UserDependencies{
		UserRepo:   repository.NewMemoryUserRepository(),
		Clock:      service.FixedClock(fixedNow),
		Dispatcher: dispatcher,
		Logger:     zap.New(core),
	})

	user, err := svc.AddUser(context.Background(), &domain.User{FirstName: "John", LastName: "Smith", Email: "john@mail.com"})
	require.NoError(t, err)

	entries := logs.FilterMessage("event handler failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, string(events.EventUserAdded), fields["event_type"])
	assert.Equal(t, user.ID.String(), fields["user_id"])
	assert.Equal(t, sinkDown.Error(), fields["error"])
}
