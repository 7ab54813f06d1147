package http

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/domain"
	apperrors "github.com/spec-kit/user-service/pkg/util/errorutil"
)

const concurrentModificationMessage = "someone updated data in parallel, reload and try again"

// translateError converts service and framework errors into the DomainError
// rendered to clients. Anything unrecognized becomes an internal error.
func translateError(err error) *apperrors.DomainError {
	var (
		domainErr  *apperrors.DomainError
		notFound   *domain.UserNotFoundError
		duplicate  *domain.DuplicateEmailError
		deleted    *domain.UserDeletedError
		conflict   *domain.ConcurrentModificationError
		transition *domain.InvalidStateTransitionError
		fiberErr   *fiber.Error
	)

	switch {
	case errors.As(err, &domainErr):
		return domainErr
	case errors.As(err, &notFound):
		return apperrors.NewDomainError("NOT_FOUND", notFound.Error(), http.StatusNotFound,
			map[string]any{"userId": notFound.UserID.String()})
	case errors.As(err, &duplicate):
		return apperrors.NewConflict("DUPLICATE_EMAIL", duplicate.Error(),
			map[string]any{"email": duplicate.Email})
	case errors.As(err, &deleted):
		return apperrors.NewConflict("USER_DELETED", deleted.Error(),
			map[string]any{"userId": deleted.UserID.String()})
	case errors.As(err, &conflict):
		return apperrors.NewConflict("CONCURRENT_MODIFICATION", concurrentModificationMessage,
			map[string]any{"userId": conflict.UserID.String()})
	case errors.As(err, &transition):
		return apperrors.NewConflict("INVALID_STATE_TRANSITION", transition.Error(),
			map[string]any{"from": string(transition.From), "to": string(transition.To)})
	case errors.As(err, &fiberErr):
		return apperrors.NewDomainError(fiberErrorCode(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
	default:
		return apperrors.ToDomainError(err)
	}
}

func fiberErrorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusRequestTimeout:
		return "TIMEOUT"
	}
	if status >= http.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return "BAD_REQUEST"
}
