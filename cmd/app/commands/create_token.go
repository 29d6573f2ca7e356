package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/cardtoken/internal/card/http/dto"
	"github.com/allisson/cardtoken/internal/card/usecase"
)

// RunCreateToken tokenizes a card through the gateway. When the card has to go through
// 3-D Secure, the challenge URLs are printed instead of a token.
func RunCreateToken(
	ctx context.Context,
	tokenizationUseCase usecase.TokenizationUseCase,
	logger *slog.Logger,
	input usecase.FormInput,
	format string,
	writer io.Writer,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	result, err := tokenizationUseCase.CreateToken(ctx, input)
	if err != nil {
		var formErr *usecase.FormError
		if errors.As(err, &formErr) && format == "json" {
			_ = writeJSON(writer, dto.MapFormErrorToResponse(formErr))
		}
		return fmt.Errorf("failed to create token: %w", err)
	}

	return outputTokenResult(result, logger, format, writer)
}

// RunCreateTokenFromThreeDSecure exchanges a completed 3-D Secure token for a card token.
func RunCreateTokenFromThreeDSecure(
	ctx context.Context,
	tokenizationUseCase usecase.TokenizationUseCase,
	logger *slog.Logger,
	tdsTokenID string,
	format string,
	writer io.Writer,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	result, err := tokenizationUseCase.CreateTokenFromThreeDSecure(ctx, tdsTokenID)
	if err != nil {
		return fmt.Errorf("failed to create token from 3-D Secure: %w", err)
	}

	return outputTokenResult(result, logger, format, writer)
}

func outputTokenResult(result *usecase.TokenResult, logger *slog.Logger, format string, writer io.Writer) error {
	if result.ThreeDSecure != nil {
		logger.Info("3-D Secure challenge required",
			slog.String("three_d_secure_token", result.ThreeDSecure.Token.ID),
		)
		response := dto.MapChallengeToResponse(result.ThreeDSecure)
		if format == "json" {
			return writeJSON(writer, response)
		}
		_, _ = fmt.Fprintln(writer, "3-D Secure verification required")
		_, _ = fmt.Fprintf(writer, "3-D Secure token: %s\n", response.ThreeDSecureToken)
		_, _ = fmt.Fprintf(writer, "Open in a browser: %s\n", response.StartURL)
		_, _ = fmt.Fprintf(writer, "Finished when redirected to: %s\n", response.FinishURL)
		return nil
	}

	logger.Info("token created",
		slog.String("token_id", result.Token.ID),
		slog.String("last4", result.Token.Card.Last4),
	)
	response := dto.MapTokenToResponse(result.Token, result.HandlerStatus)
	if format == "json" {
		return writeJSON(writer, response)
	}
	outputTokenText(response, writer)
	return nil
}

// outputTokenText outputs a token in human-readable text format.
func outputTokenText(response dto.TokenResponse, writer io.Writer) {
	_, _ = fmt.Fprintf(writer, "Token: %s\n", response.ID)
	_, _ = fmt.Fprintf(writer, "Card: %s ending in %s, expires %02d/%d\n",
		response.Card.Brand, response.Card.Last4, response.Card.ExpMonth, response.Card.ExpYear)
	if response.Card.ThreeDSecureStatus != nil {
		_, _ = fmt.Fprintf(writer, "3-D Secure: %s\n", *response.Card.ThreeDSecureStatus)
	}
	if response.HandlerStatus != nil {
		_, _ = fmt.Fprintf(writer, "Handler: %s", response.HandlerStatus.Status)
		if response.HandlerStatus.Message != "" {
			_, _ = fmt.Fprintf(writer, " (%s)", response.HandlerStatus.Message)
		}
		_, _ = fmt.Fprintln(writer)
	}
}
