package dto

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks request payloads against their validate tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a validator that reports fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Validator{validate: v}
}

// Struct validates payload. Field failures are returned as
// FieldErrors; any other failure is returned as is.
func (v *Validator) Struct(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := FieldErrors{}
	for _, fe := range verrs {
		fields.add(fe.Field(), fieldMessage(fe))
	}
	return fields
}

// FieldErrors maps a JSON field name to its validation messages.
type FieldErrors map[string][]string

func (f FieldErrors) Error() string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(f[name], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add keeps each field's messages sorted and unique.
func (f FieldErrors) add(field, message string) {
	for _, existing := range f[field] {
		if existing == message {
			return
		}
	}
	f[field] = append(f[field], message)
	sort.Strings(f[field])
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be null"
	case "notblank":
		return "must not be blank"
	case "max":
		return fmt.Sprintf("size must be between 0 and %s", fe.Param())
	case "email":
		return "must be a well-formed email address"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
