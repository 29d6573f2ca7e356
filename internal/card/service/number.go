// Package service implements the card form field validators. Each validator is a pure
// function from raw operator input (plus read-only context such as the detected brand,
// accepted brands, current time or phone region) to a domain.FieldInput.
package service

import (
	"slices"

	"github.com/allisson/cardtoken/internal/card/domain"
)

type lengthStatus int

const (
	lengthTooShort lengthStatus = iota
	lengthMatch
	lengthTooLong
)

func classifyLength(length, expected int) lengthStatus {
	switch {
	case length < expected:
		return lengthTooShort
	case length > expected:
		return lengthTooLong
	default:
		return lengthMatch
	}
}

// ValidateCardNumber strips non-digits from raw, detects the brand and checks length,
// Luhn checksum and brand acceptance, in that order. A nil acceptedBrands accepts
// every known brand.
func ValidateCardNumber(raw string, acceptedBrands []domain.Brand) domain.CardNumberInput {
	digits := domain.DigitsOnly(raw)
	brand := domain.DetectBrand(digits)

	result := domain.CardNumberInput{Brand: brand}

	if digits == "" {
		result.FieldInput = domain.InvalidField[string](raw, domain.ErrKindNoNumber, raw == "")
		return result
	}

	switch classifyLength(len(digits), brand.NumberLength()) {
	case lengthTooLong:
		result.FieldInput = domain.InvalidField[string](raw, domain.ErrKindInvalidNumber, true)
		return result
	case lengthTooShort:
		result.FieldInput = domain.InvalidField[string](raw, domain.ErrKindInvalidNumber, false)
		return result
	}

	if !domain.IsValidLuhn(digits) {
		result.FieldInput = domain.InvalidField[string](raw, domain.ErrKindInvalidNumber, true)
		return result
	}

	if !brand.IsKnown() {
		// Only a digit count that no real brand uses makes the unknown brand definitive.
		result.FieldInput = domain.InvalidField[string](
			raw,
			domain.ErrKindInvalidBrand,
			!matchesKnownBrandLength(len(digits)),
		)
		return result
	}

	if acceptedBrands != nil && !slices.Contains(acceptedBrands, brand) {
		result.FieldInput = domain.InvalidField[string](raw, domain.ErrKindInvalidBrand, true)
		return result
	}

	result.FieldInput = domain.ValidField(raw, digits)
	return result
}

func matchesKnownBrandLength(length int) bool {
	for _, brand := range domain.KnownBrands() {
		if brand.NumberLength() == length {
			return true
		}
	}
	return false
}
