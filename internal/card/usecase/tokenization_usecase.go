package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/cardtoken/internal/card/domain"
	"github.com/allisson/cardtoken/internal/card/service"
	apperrors "github.com/allisson/cardtoken/internal/errors"
	"github.com/allisson/cardtoken/internal/gateway"
	"github.com/allisson/cardtoken/internal/task"
	"github.com/allisson/cardtoken/internal/threeds"
	"github.com/allisson/cardtoken/internal/tokenhandler"
)

// Config holds the form and 3-D Secure settings of the tokenization use case.
type Config struct {
	TenantID    string
	PhoneRegion string
	Delimiter   string
	HolderName  FieldMode
	Email       FieldMode
	Phone       FieldMode
	// EnforceAcceptedBrands restricts numbers to the brands the gateway reports.
	EnforceAcceptedBrands bool
	ThreeDSecure          threeds.URLConfig
}

// tokenizationUseCase implements TokenizationUseCase.
type tokenizationUseCase struct {
	cfg        Config
	gateway    Gateway
	normalizer service.PhoneNumberNormalizer
	handler    tokenhandler.Handler
	logger     *slog.Logger
	now        func() time.Time
}

// NewTokenizationUseCase creates the tokenization use case. handler may be nil.
func NewTokenizationUseCase(
	cfg Config,
	gw Gateway,
	normalizer service.PhoneNumberNormalizer,
	handler tokenhandler.Handler,
	logger *slog.Logger,
) TokenizationUseCase {
	return &tokenizationUseCase{
		cfg:        cfg,
		gateway:    gw,
		normalizer: normalizer,
		handler:    handler,
		logger:     logger,
		now:        time.Now,
	}
}

func (t *tokenizationUseCase) validationContext(ctx context.Context) (ValidationContext, error) {
	vc := ValidationContext{
		Now:         t.now(),
		PhoneRegion: t.cfg.PhoneRegion,
		Delimiter:   t.cfg.Delimiter,
		HolderName:  t.cfg.HolderName,
		Email:       t.cfg.Email,
		Phone:       t.cfg.Phone,
		TenantID:    t.cfg.TenantID,
	}

	if t.cfg.EnforceAcceptedBrands {
		brands, err := t.gateway.GetAcceptedBrands(ctx, t.cfg.TenantID)
		if err != nil {
			return ValidationContext{}, apperrors.Wrap(err, "failed to load accepted brands")
		}
		if brands == nil {
			brands = []domain.Brand{}
		}
		vc.AcceptedBrands = brands
	}

	return vc, nil
}

// Validate checks every field of input.
func (t *tokenizationUseCase) Validate(ctx context.Context, input FormInput) (*FormState, error) {
	vc, err := t.validationContext(ctx)
	if err != nil {
		return nil, err
	}
	return ValidateForm(input, vc, t.normalizer), nil
}

// CreateToken validates input, creates the token and runs the token handler.
func (t *tokenizationUseCase) CreateToken(ctx context.Context, input FormInput) (*TokenResult, error) {
	state, err := t.Validate(ctx, input)
	if err != nil {
		return nil, err
	}
	if !state.IsSubmittable() {
		return nil, &FormError{Fields: state.Errors()}
	}

	req, err := state.BuildRequest()
	if err != nil {
		return nil, err
	}

	token, err := await(ctx, task.New(func(ctx context.Context) (*domain.Token, error) {
		return t.gateway.CreateToken(ctx, req)
	}, task.WithName("create_token"), task.WithLogger(t.logger)))

	var tdsErr *gateway.ThreeDSecureRequiredError
	if apperrors.As(err, &tdsErr) {
		return t.challenge(tdsErr.Token)
	}
	if err != nil {
		return nil, err
	}

	t.logger.Info("card tokenized",
		slog.String("token_id", token.ID),
		slog.String("brand", string(req.Brand())),
		slog.String("last4", req.Last4()),
	)

	return t.finishResult(ctx, token)
}

// CreateTokenFromThreeDSecure creates a token from a completed challenge.
func (t *tokenizationUseCase) CreateTokenFromThreeDSecure(
	ctx context.Context,
	tdsTokenID string,
) (*TokenResult, error) {
	if tdsTokenID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "3-D Secure token id is required")
	}

	token, err := await(ctx, task.New(func(ctx context.Context) (*domain.Token, error) {
		return t.gateway.CreateTokenFromThreeDSecure(ctx, tdsTokenID)
	}, task.WithName("create_token_tds"), task.WithLogger(t.logger)))
	if err != nil {
		return nil, err
	}

	return t.finishResult(ctx, token)
}

// FinishThreeDSecure finalizes the 3-D Secure flow of tokenID.
func (t *tokenizationUseCase) FinishThreeDSecure(ctx context.Context, tokenID string) (*domain.Token, error) {
	if tokenID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token id is required")
	}
	return t.gateway.FinishTokenThreeDSecure(ctx, tokenID)
}

// GetToken fetches a token.
func (t *tokenizationUseCase) GetToken(ctx context.Context, tokenID string) (*domain.Token, error) {
	if tokenID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token id is required")
	}
	return t.gateway.GetToken(ctx, tokenID)
}

// AcceptedBrands returns the accepted brands for tenantID.
func (t *tokenizationUseCase) AcceptedBrands(ctx context.Context, tenantID string) ([]domain.Brand, error) {
	if tenantID == "" {
		tenantID = t.cfg.TenantID
	}
	return t.gateway.GetAcceptedBrands(ctx, tenantID)
}

func (t *tokenizationUseCase) challenge(tdsToken threeds.Token) (*TokenResult, error) {
	startURL, err := tdsToken.StartURL(t.cfg.ThreeDSecure)
	if err != nil {
		return nil, err
	}
	finishURL, err := tdsToken.FinishURL(t.cfg.ThreeDSecure.BaseURL)
	if err != nil {
		return nil, err
	}

	t.logger.Info("3-D Secure challenge issued", slog.String("tds_token", tdsToken.ID))

	return &TokenResult{
		ThreeDSecure: &ThreeDSecureChallenge{
			Token:     tdsToken,
			StartURL:  startURL,
			FinishURL: finishURL,
		},
	}, nil
}

// finishResult runs the token handler, when configured, and waits for its status.
func (t *tokenizationUseCase) finishResult(ctx context.Context, token *domain.Token) (*TokenResult, error) {
	result := &TokenResult{Token: token}
	if t.handler == nil {
		return result, nil
	}

	executor := tokenhandler.NewExecutor(t.handler, tokenhandler.WithLogger(t.logger))
	statusCh := make(chan tokenhandler.Status, 1)
	executor.Post(token, task.NewGoExecutor(), func(status tokenhandler.Status) {
		statusCh <- status
	})

	select {
	case status := <-statusCh:
		result.HandlerStatus = &status
		return result, nil
	case <-ctx.Done():
		executor.Cancel()
		return nil, ctx.Err()
	}
}

// await enqueues tk and blocks until it delivers or ctx is done, canceling it then.
func await[T any](ctx context.Context, tk *task.Task[T]) (T, error) {
	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)

	var zero T
	if err := tk.EnqueueContext(ctx, task.CallbackFuncs[T]{
		Success: func(value T) { done <- outcome{value: value} },
		Error:   func(err error) { done <- outcome{err: err} },
	}); err != nil {
		return zero, err
	}

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		tk.Cancel()
		return zero, ctx.Err()
	}
}
