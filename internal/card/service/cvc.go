package service

import (
	"github.com/allisson/cardtoken/internal/card/domain"
)

// ValidateCVC checks raw against the CVC length of brand, which callers pass from the
// most recent card number validation.
func ValidateCVC(raw string, brand domain.Brand) domain.FieldInput[string] {
	digits := domain.DigitsOnly(raw)
	if digits == "" {
		return domain.InvalidField[string](raw, domain.ErrKindNoCVC, raw == "")
	}

	expected := brand.CVCLength()
	if len(digits) != expected {
		return domain.InvalidField[string](raw, domain.ErrKindInvalidCVC, len(digits) < expected)
	}

	return domain.ValidField(raw, digits)
}
