// Package http provides HTTP handlers for card validation and tokenization.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	"github.com/allisson/cardtoken/internal/card/http/dto"
	"github.com/allisson/cardtoken/internal/card/usecase"
	apperrors "github.com/allisson/cardtoken/internal/errors"
	"github.com/allisson/cardtoken/internal/httputil"
	customValidation "github.com/allisson/cardtoken/internal/validation"
)

// TokenizationHandler handles card form validation and token requests.
type TokenizationHandler struct {
	useCase usecase.TokenizationUseCase
	logger  *slog.Logger
}

// NewTokenizationHandler creates a new tokenization handler.
func NewTokenizationHandler(useCase usecase.TokenizationUseCase, logger *slog.Logger) *TokenizationHandler {
	return &TokenizationHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// ValidateHandler validates a card form without contacting the card network.
// POST /v1/card/validate - Returns 200 OK with per-field errors, even for invalid forms.
func (h *TokenizationHandler) ValidateHandler(c *gin.Context) {
	var req dto.CardFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	state, err := h.useCase.Validate(c.Request.Context(), req.ToFormInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFormStateToResponse(state))
}

// CreateTokenHandler tokenizes a card.
// POST /v1/tokens - Returns 201 Created with the token, or 202 Accepted with the
// 3-D Secure URLs when the card must complete a challenge first. An invalid form
// yields 422 with per-field errors.
func (h *TokenizationHandler) CreateTokenHandler(c *gin.Context) {
	var req dto.CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.useCase.CreateToken(c.Request.Context(), req.ToFormInput())
	if err != nil {
		var formErr *usecase.FormError
		if apperrors.As(err, &formErr) {
			c.JSON(http.StatusUnprocessableEntity, dto.MapFormErrorToResponse(formErr))
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.writeTokenResult(c, result)
}

// CreateTokenFromThreeDSecureHandler exchanges a completed challenge for a token.
// POST /v1/tokens/tds - Returns 201 Created.
func (h *TokenizationHandler) CreateTokenFromThreeDSecureHandler(c *gin.Context) {
	var req dto.CreateTokenFromThreeDSecureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.useCase.CreateTokenFromThreeDSecure(c.Request.Context(), req.ThreeDSecureToken)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.writeTokenResult(c, result)
}

// FinishThreeDSecureHandler finalizes the challenge of a token.
// POST /v1/tokens/:id/tds_finish - Returns 200 OK with the updated token.
func (h *TokenizationHandler) FinishThreeDSecureHandler(c *gin.Context) {
	tokenID, ok := h.tokenIDParam(c)
	if !ok {
		return
	}

	token, err := h.useCase.FinishThreeDSecure(c.Request.Context(), tokenID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenToResponse(token, nil))
}

// GetTokenHandler fetches a token.
// GET /v1/tokens/:id - Returns 200 OK.
func (h *TokenizationHandler) GetTokenHandler(c *gin.Context) {
	tokenID, ok := h.tokenIDParam(c)
	if !ok {
		return
	}

	token, err := h.useCase.GetToken(c.Request.Context(), tokenID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenToResponse(token, nil))
}

// AcceptedBrandsHandler lists accepted brands.
// GET /v1/brands?tenant=... - The configured tenant is used when the query is absent.
func (h *TokenizationHandler) AcceptedBrandsHandler(c *gin.Context) {
	brands, err := h.useCase.AcceptedBrands(c.Request.Context(), c.Query("tenant"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBrandsToResponse(brands))
}

func (h *TokenizationHandler) writeTokenResult(c *gin.Context, result *usecase.TokenResult) {
	if result.ThreeDSecure != nil {
		c.JSON(http.StatusAccepted, dto.MapChallengeToResponse(result.ThreeDSecure))
		return
	}
	c.JSON(http.StatusCreated, dto.MapTokenToResponse(result.Token, result.HandlerStatus))
}

func (h *TokenizationHandler) tokenIDParam(c *gin.Context) (string, bool) {
	tokenID := c.Param("id")
	if err := validation.Validate(tokenID, dto.TokenIDRules()...); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return "", false
	}
	return tokenID, true
}
