package service

import (
	"strings"

	"github.com/allisson/cardtoken/internal/card/domain"
	customValidation "github.com/allisson/cardtoken/internal/validation"
)

// ValidateHolderName trims raw and checks its length and alphabet.
func ValidateHolderName(raw string) domain.FieldInput[string] {
	name := strings.TrimSpace(raw)
	if name == "" {
		return domain.InvalidField[string](raw, domain.ErrKindNoHolderName, true)
	}

	if err := customValidation.HolderNameLength.Validate(name); err != nil {
		return domain.InvalidField[string](raw, domain.ErrKindInvalidHolderNameLength, false)
	}

	if err := customValidation.HolderNameCharacters.Validate(name); err != nil {
		return domain.InvalidField[string](raw, domain.ErrKindInvalidHolderName, false)
	}

	return domain.ValidField(raw, name)
}
