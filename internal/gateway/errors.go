package gateway

import (
	"fmt"
	"net/http"

	apperrors "github.com/allisson/cardtoken/internal/errors"
	"github.com/allisson/cardtoken/internal/threeds"
)

// ErrorClass groups gateway errors by who has to act on them.
type ErrorClass string

const (
	ClassAuth   ErrorClass = "auth"
	ClassCard   ErrorClass = "card"
	ClassClient ErrorClass = "client"
	ClassServer ErrorClass = "server"
)

// APIError is an error response returned by the gateway. Body holds the raw
// response body for diagnostics.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Param      string
	Type       string
	Body       []byte
}

// Class derives the error class from the HTTP status.
func (e *APIError) Class() ErrorClass {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ClassAuth
	case e.StatusCode == http.StatusPaymentRequired:
		return ClassCard
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return ClassClient
	default:
		return ClassServer
	}
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway %s error (%d %s): %s", e.Class(), e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("gateway %s error (%d): %s", e.Class(), e.StatusCode, e.Message)
}

// Unwrap maps the error onto the shared domain errors so handlers can translate it.
func (e *APIError) Unwrap() error {
	switch e.Class() {
	case ClassAuth:
		return apperrors.ErrUnauthorized
	case ClassCard:
		return apperrors.ErrPaymentRequired
	case ClassClient:
		if e.StatusCode == http.StatusNotFound {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrInvalidInput
	default:
		return apperrors.ErrUpstream
	}
}

// ThreeDSecureRequiredError is returned by token creation when the gateway answered
// with a 3-D Secure continuation instead of a token.
type ThreeDSecureRequiredError struct {
	Token threeds.Token
}

func (e *ThreeDSecureRequiredError) Error() string {
	return "3-D Secure required: " + e.Token.ID
}
