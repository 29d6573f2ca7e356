// Package usecase composes card field validation with the gateway calls that turn a
// card form into a token.
package usecase

import (
	"context"

	"github.com/allisson/cardtoken/internal/card/domain"
	"github.com/allisson/cardtoken/internal/threeds"
	"github.com/allisson/cardtoken/internal/tokenhandler"
)

// Gateway defines the remote tokenization API.
type Gateway interface {
	// CreateToken returns a *gateway.ThreeDSecureRequiredError when the card has to go
	// through a 3-D Secure challenge first.
	CreateToken(ctx context.Context, req domain.TokenizationRequest) (*domain.Token, error)
	CreateTokenFromThreeDSecure(ctx context.Context, tdsTokenID string) (*domain.Token, error)
	FinishTokenThreeDSecure(ctx context.Context, tokenID string) (*domain.Token, error)
	GetToken(ctx context.Context, tokenID string) (*domain.Token, error)
	GetAcceptedBrands(ctx context.Context, tenantID string) ([]domain.Brand, error)
}

// ThreeDSecureChallenge is the continuation returned when a token needs 3-D Secure.
type ThreeDSecureChallenge struct {
	Token     threeds.Token
	StartURL  string
	FinishURL string
}

// TokenResult is the outcome of a token creation. Exactly one of Token and
// ThreeDSecure is set. HandlerStatus is set when a token handler is configured.
type TokenResult struct {
	Token         *domain.Token
	ThreeDSecure  *ThreeDSecureChallenge
	HandlerStatus *tokenhandler.Status
}

// TokenizationUseCase defines the card tokenization operations.
type TokenizationUseCase interface {
	// Validate checks every field of input against the accepted brands and current date.
	Validate(ctx context.Context, input FormInput) (*FormState, error)

	// CreateToken validates input and tokenizes the card. Returns a *FormError when the
	// form is not submittable.
	CreateToken(ctx context.Context, input FormInput) (*TokenResult, error)

	// CreateTokenFromThreeDSecure exchanges a completed 3-D Secure token for a card token.
	CreateTokenFromThreeDSecure(ctx context.Context, tdsTokenID string) (*TokenResult, error)

	// FinishThreeDSecure finalizes a token whose card went through a challenge.
	FinishThreeDSecure(ctx context.Context, tokenID string) (*domain.Token, error)

	GetToken(ctx context.Context, tokenID string) (*domain.Token, error)

	// AcceptedBrands returns the brands accepted for tenantID (the configured tenant when empty).
	AcceptedBrands(ctx context.Context, tenantID string) ([]domain.Brand, error)
}
