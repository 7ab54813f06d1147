package errorutil_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/user-service/pkg/util/errorutil"
)

func TestToDomainError_Nil(t *testing.T) {
	assert.Nil(t, errorutil.ToDomainError(nil))
}

func TestToDomainError_FindsWrappedDomainError(t *testing.T) {
	inner := errorutil.NewConflict("DUPLICATE_EMAIL", "taken", map[string]any{"email": "a@b.c"})
	wrapped := fmt.Errorf("create: %w", inner)

	got := errorutil.ToDomainError(wrapped)

	require.NotNil(t, got)
	assert.Same(t, inner, got)
	assert.Equal(t, http.StatusConflict, got.HTTPStatus)
}

func TestToDomainError_UnknownBecomesInternal(t *testing.T) {
	cause := errors.New("connection reset")

	got := errorutil.ToDomainError(cause)

	assert.Equal(t, "INTERNAL_ERROR", got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	assert.ErrorIs(t, got, cause)
	assert.Equal(t, "internal server error: connection reset", got.Error())
}

func TestConstructors(t *testing.T) {
	nf := errorutil.NewNotFound("user", nil)
	assert.Equal(t, "user not found", nf.Message)
	assert.NotNil(t, nf.Details)
	assert.Equal(t, http.StatusNotFound, nf.HTTPStatus)

	v := errorutil.NewValidationError("bad", nil)
	assert.Equal(t, "VALIDATION_FAILED", v.Code)
	assert.Equal(t, http.StatusBadRequest, v.HTTPStatus)

	c := errorutil.NewConflict("", "clash", nil)
	assert.Equal(t, "CONFLICT", c.Code)
}
