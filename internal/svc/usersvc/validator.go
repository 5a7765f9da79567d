package usersvc

import (
	"strconv"
	"unicode/utf8"

	"github.com/mkrupp/recipe-api/internal/domain"
	"github.com/mkrupp/recipe-api/internal/infra/validation"
)

// MaxPasswordLength is the bcrypt input limit in bytes.
const MaxPasswordLength = 72

// ValidateEmail checks an already normalized email address.
func ValidateEmail(email string) error {
	//nolint:wrapcheck
	return validation.Var("email", email, "required,email")
}

// ValidatePassword checks password against minLen characters and the bcrypt
// limit of MaxPasswordLength bytes.
func ValidatePassword(password string, minLen int) error {
	switch {
	case password == "":
		return domain.NewValidationError("password", validation.Message("required", ""))
	case utf8.RuneCountInString(password) < minLen:
		return domain.NewValidationError("password", validation.Message("min", strconv.Itoa(minLen)))
	case len(password) > MaxPasswordLength:
		return domain.NewValidationError("password", validation.Message("max", strconv.Itoa(MaxPasswordLength)))
	default:
		return nil
	}
}
