// Package validation holds the jellydator/validation rules shared by the card field
// validators and the HTTP request DTOs.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/cardtoken/internal/errors"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	holderNameRegex = regexp.MustCompile(`^[A-Za-z0-9 .\-]+$`)
	// gateway object ids: tok_..., tds_..., car_...
	identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)
)

// Holder name length bounds, counted in runes.
const (
	HolderNameMinLength = 2
	HolderNameMaxLength = 45
)

// WrapValidationError turns a rule failure into ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

func stringRule(pattern *regexp.Regexp, code, message string) validation.StringRule {
	return validation.NewStringRuleWithError(pattern.MatchString, validation.NewError(code, message))
}

// Email accepts a pragmatic subset of addresses: local part, "@", dotted domain.
var Email = stringRule(emailRegex, "validation_email_format", "must be a valid email address")

var HolderNameLength = validation.RuneLength(HolderNameMinLength, HolderNameMaxLength).
	ErrorObject(validation.NewError("validation_holder_name_length", "must be between 2 and 45 characters"))

// HolderNameCharacters restricts names to what card networks emboss.
var HolderNameCharacters = stringRule(
	holderNameRegex,
	"validation_holder_name_characters",
	"must contain only letters, digits, spaces, hyphens and periods",
)

// Identifier guards path parameters that are forwarded to the gateway.
var Identifier = stringRule(
	identifierRegex,
	"validation_identifier",
	"must contain only letters, digits, underscores and hyphens",
)

// NotBlank rejects strings made only of whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
