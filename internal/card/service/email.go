package service

import (
	"strings"

	"github.com/allisson/cardtoken/internal/card/domain"
	customValidation "github.com/allisson/cardtoken/internal/validation"
)

// ValidateEmail trims raw and checks it is a well-formed address.
func ValidateEmail(raw string) domain.FieldInput[string] {
	email := strings.TrimSpace(raw)
	if email == "" {
		return domain.InvalidField[string](raw, domain.ErrKindNoEmail, true)
	}

	if err := customValidation.Email.Validate(email); err != nil {
		return domain.InvalidField[string](raw, domain.ErrKindInvalidEmail, false)
	}

	return domain.ValidField(raw, email)
}
