// Package validation checks request bodies with struct tags and reports
// failures as domain.ValidationError keyed by JSON field name.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/mkrupp/recipe-api/internal/domain"
)

//nolint:gochecknoglobals
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}

			return name
		})
	})

	return validate
}

// Struct validates the `validate` tags of req.
func Struct(req any) error {
	return translate("", get().Struct(req))
}

// Var validates a single value against tag and reports failures under field.
func Var(field string, value any, tag string) error {
	return translate(field, get().Var(value, tag))
}

func translate(field string, err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &domain.ValidationError{}

	for _, fe := range fieldErrs {
		name := fe.Field()
		if name == "" {
			name = field
		}

		verr.Add(name, Message(fe.Tag(), fe.Param()))
	}

	return verr
}

// Message renders the client-facing text for a failed validation tag.
func Message(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return "Ensure this field has at least " + param + " characters."
	case "max":
		return "Ensure this field has no more than " + param + " characters."
	default:
		return "Invalid value."
	}
}
