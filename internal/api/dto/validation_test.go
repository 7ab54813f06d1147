package dto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/user-service/internal/api/dto"
)

func ptr(s string) *string { return &s }

func TestValidator_CreateUserRequest(t *testing.T) {
	v := dto.NewValidator()

	t.Run("valid", func(t *testing.T) {
		err := v.Struct(&dto.CreateUserRequest{FirstName: "John", LastName: "Smith", Email: "john@mail.com"})
		assert.NoError(t, err)
	})

	t.Run("missing and malformed fields", func(t *testing.T) {
		err := v.Struct(&dto.CreateUserRequest{FirstName: "", LastName: "   ", Email: "not-an-email"})

		var fields dto.FieldErrors
		require.ErrorAs(t, err, &fields)
		assert.Equal(t, dto.FieldErrors{
			"firstName": {"must not be null"},
			"lastName":  {"must not be blank"},
			"email":     {"must be a well-formed email address"},
		}, fields)
	})

	t.Run("name too long", func(t *testing.T) {
		long := "abcdefghijabcdefghijabcdefghijabcdefghijabcdefghijX"
		err := v.Struct(&dto.CreateUserRequest{FirstName: long, LastName: "Smith", Email: "john@mail.com"})

		var fields dto.FieldErrors
		require.ErrorAs(t, err, &fields)
		assert.Equal(t, []string{"size must be between 0 and 50"}, fields["firstName"])
	})
}

func TestValidator_UpdateUserRequest(t *testing.T) {
	v := dto.NewValidator()

	assert.NoError(t, v.Struct(&dto.UpdateUserRequest{}))
	assert.NoError(t, v.Struct(&dto.UpdateUserRequest{State: ptr("BLOCKED"), Email: ptr("a@b.co")}))

	err := v.Struct(&dto.UpdateUserRequest{FirstName: ptr(" "), State: ptr("DELETED")})

	var fields dto.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, []string{"must not be blank"}, fields["firstName"])
	assert.Equal(t, []string{"must be one of [ACTIVE, BLOCKED]"}, fields["state"])
	assert.Contains(t, err.Error(), "firstName: must not be blank")
}

func TestValidator_EmailLongerThanColumn(t *testing.T) {
	v := dto.NewValidator()
	tooLong := strings.Repeat("a", 421) + "@mail.com"

	err := v.Struct(&dto.CreateUserRequest{FirstName: "John", LastName: "Smith", Email: tooLong})
	var fields dto.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, []string{"size must be between 0 and 320"}, fields["email"])

	err = v.Struct(&dto.UpdateUserRequest{Email: &tooLong})
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, []string{"size must be between 0 and 320"}, fields["email"])
}
