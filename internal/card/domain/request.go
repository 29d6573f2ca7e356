package domain

import (
	"errors"
)

// TokenizationRequest is the normalized card payload submitted to the gateway.
// It can only be built from fully valid field inputs.
type TokenizationRequest struct {
	Number     string
	Expiration Expiration
	CVC        string
	HolderName string
	TenantID   string
	// Email and Phone are optional 3-D Secure risk attributes.
	Email string
	Phone string
}

// Last4 returns the last four PAN digits, safe for logging.
func (r *TokenizationRequest) Last4() string {
	if len(r.Number) <= 4 {
		return r.Number
	}
	return r.Number[len(r.Number)-4:]
}

// Brand returns the brand detected from the PAN.
func (r *TokenizationRequest) Brand() Brand {
	return DetectBrand(r.Number)
}

// HasThreeDSecureAttributes reports whether email or phone were supplied.
func (r *TokenizationRequest) HasThreeDSecureAttributes() bool {
	return r.Email != "" || r.Phone != ""
}

// Validate checks the structural invariants of a request built outside the form.
func (r *TokenizationRequest) Validate() error {
	if r.Number == "" || !IsValidLuhn(r.Number) {
		return ErrRequestInvalidNumber
	}
	if r.Expiration.IsZero() {
		return ErrRequestMissingExpiration
	}
	if r.CVC == "" || DigitsOnly(r.CVC) != r.CVC {
		return ErrRequestInvalidCVC
	}
	return nil
}

// Request construction errors.
var (
	ErrRequestInvalidNumber     = errors.New("card number is missing or fails the Luhn check")
	ErrRequestMissingExpiration = errors.New("card expiration is missing")
	ErrRequestInvalidCVC        = errors.New("card cvc is missing or not numeric")
)
