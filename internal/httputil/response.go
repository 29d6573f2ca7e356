// Package httputil translates domain and gateway errors into JSON responses for the
// local checkout API.
package httputil

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/cardtoken/internal/errors"
	"github.com/allisson/cardtoken/internal/gateway"
)

// ErrorResponse represents a structured error response. Code and Param echo the
// gateway's error when the holder can act on it.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}

type errorMapping struct {
	targets []error
	status  int
	body    ErrorResponse
}

// errorMappings is evaluated in order; the first matching entry wins.
// An empty body message shows the error text itself.
var errorMappings = []errorMapping{
	{
		targets: []error{apperrors.ErrNotFound},
		status:  http.StatusNotFound,
		body:    ErrorResponse{Error: "not_found", Message: "The requested resource was not found"},
	},
	{
		targets: []error{apperrors.ErrConflict},
		status:  http.StatusConflict,
		body:    ErrorResponse{Error: "conflict", Message: "A conflict occurred with existing data"},
	},
	{
		targets: []error{apperrors.ErrPaymentRequired},
		status:  http.StatusPaymentRequired,
		body:    ErrorResponse{Error: "card_declined", Message: "The card was declined"},
	},
	{
		targets: []error{apperrors.ErrInvalidInput},
		status:  http.StatusUnprocessableEntity,
		body:    ErrorResponse{Error: "invalid_input"},
	},
	{
		// The checkout caller is never authenticated; this is our own gateway key.
		targets: []error{apperrors.ErrUnauthorized},
		status:  http.StatusBadGateway,
		body: ErrorResponse{
			Error:   "gateway_unauthorized",
			Message: "The payment gateway rejected the configured credentials",
		},
	},
	{
		targets: []error{apperrors.ErrUpstream, apperrors.ErrTransport, apperrors.ErrUnknownResponse},
		status:  http.StatusBadGateway,
		body:    ErrorResponse{Error: "gateway_error", Message: "The payment gateway is unavailable"},
	},
	{
		targets: []error{context.DeadlineExceeded},
		status:  http.StatusGatewayTimeout,
		body:    ErrorResponse{Error: "timeout", Message: "The request timed out"},
	},
}

var internalError = ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}

func mapError(err error) (int, ErrorResponse) {
	for _, m := range errorMappings {
		for _, target := range m.targets {
			if !apperrors.Is(err, target) {
				continue
			}
			body := m.body
			if body.Message == "" {
				body.Message = err.Error()
			}
			return m.status, body
		}
	}
	return http.StatusInternalServerError, internalError
}

// HandleErrorGin writes the JSON error matching err. Unknown errors become a 500 without
// details; card and client errors from the gateway keep its code and param so forms can
// point at the offending field.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, body := mapError(err)

	var apiErr *gateway.APIError
	if apperrors.As(err, &apiErr) {
		switch apiErr.Class() {
		case gateway.ClassCard, gateway.ClassClient:
			body.Code = apiErr.Code
			body.Param = apiErr.Param
			if apiErr.Message != "" {
				body.Message = apiErr.Message
			}
		}
	}

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", body.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, body)
}

// HandleBadRequestGin writes a 400 for a body or parameter that could not be decoded.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: err.Error()})
}

// HandleValidationErrorGin writes a 422 for a request that decoded but failed validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation_error", Message: err.Error()})
}
