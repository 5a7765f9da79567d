package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/recipe-api/internal/domain"
	"github.com/mkrupp/recipe-api/internal/infra/validation"
)

type request struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=5"`
	Note  string `json:"-" validate:"max=1"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	require.NoError(t, validation.Struct(request{Email: "a@x.com", Name: "Bob"}))

	err := validation.Struct(request{Email: "nope", Name: "Too long name"})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []string{"Enter a valid email address."}, verr.Fields["email"])
	assert.Equal(t, []string{"Ensure this field has no more than 5 characters."}, verr.Fields["name"])
}

func TestVar(t *testing.T) {
	t.Parallel()

	require.NoError(t, validation.Var("email", "a@x.com", "required,email"))

	err := validation.Var("email", "", "required,email")

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"This field is required."}, verr.Fields["email"])
}
