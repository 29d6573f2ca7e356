package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cardtoken/internal/card/domain"
	"github.com/allisson/cardtoken/internal/card/http/dto"
	"github.com/allisson/cardtoken/internal/card/http/mocks"
	"github.com/allisson/cardtoken/internal/card/usecase"
	apperrors "github.com/allisson/cardtoken/internal/errors"
	"github.com/allisson/cardtoken/internal/threeds"
	"github.com/allisson/cardtoken/internal/tokenhandler"
)

var testNow = time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)

var validInput = usecase.FormInput{
	Number:     "4242 4242 4242 4242",
	Expiration: "12/30",
	CVC:        "123",
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testValidationContext() usecase.ValidationContext {
	return usecase.ValidationContext{
		Now:        testNow,
		Delimiter:  "/",
		HolderName: usecase.FieldHidden,
		Email:      usecase.FieldHidden,
		Phone:      usecase.FieldHidden,
	}
}

func testToken() *domain.Token {
	status := domain.ThreeDSecureVerified
	return &domain.Token{
		ID: "tok_76e202b409f3da51a0706605ac81",
		Card: domain.Card{
			ID:                 "car_1",
			Brand:              domain.BrandVisa,
			Last4:              "4242",
			ExpMonth:           12,
			ExpYear:            2030,
			ThreeDSecureStatus: &status,
			CreatedAt:          testNow,
		},
		CreatedAt: testNow,
	}
}

func TestRunValidateCard(t *testing.T) {
	t.Run("Success_ValidText", func(t *testing.T) {
		var out bytes.Buffer

		err := RunValidateCard(validInput, testValidationContext(), nil, "text", &out)

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Brand: VISA")
		assert.Contains(t, out.String(), "Number: 4242 4242 4242 4242")
		assert.Contains(t, out.String(), "ready to tokenize")
	})

	t.Run("Success_InvalidText", func(t *testing.T) {
		var out bytes.Buffer
		input := usecase.FormInput{Number: "4242424242424241", Expiration: "12/30", CVC: "12"}

		err := RunValidateCard(input, testValidationContext(), nil, "text", &out)

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Card is not valid")
		assert.Contains(t, out.String(), "number: invalid_number (invalid)")
		assert.Contains(t, out.String(), "cvc: invalid_cvc (invalid)")
	})

	t.Run("Success_JSON", func(t *testing.T) {
		var out bytes.Buffer
		input := usecase.FormInput{Number: "4242424242424241", Expiration: "12/30", CVC: "123"}

		err := RunValidateCard(input, testValidationContext(), nil, "json", &out)

		require.NoError(t, err)
		var response dto.FormStateResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &response))
		assert.False(t, response.Submittable)
		assert.Equal(t, "VISA", response.Brand)
		require.Contains(t, response.Errors, "number")
		assert.Equal(t, "invalid_number", response.Errors["number"].Kind)
		assert.True(t, response.Errors["number"].Actionable)
	})

	t.Run("Error_InvalidFormat", func(t *testing.T) {
		var out bytes.Buffer

		err := RunValidateCard(validInput, testValidationContext(), nil, "yaml", &out)

		require.Error(t, err)
		assert.Empty(t, out.String())
	})
}

func TestRunCreateToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_TokenText", func(t *testing.T) {
		mockUseCase := &mocks.MockTokenizationUseCase{}
		status := tokenhandler.Failure("card not allowed")
		mockUseCase.On("CreateToken", ctx, validInput).
			Return(&usecase.TokenResult{Token: testToken(), HandlerStatus: &status}, nil).Once()
		var out bytes.Buffer

		err := RunCreateToken(ctx, mockUseCase, discardLogger(), validInput, "text", &out)

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Token: tok_76e202b409f3da51a0706605ac81")
		assert.Contains(t, out.String(), "VISA ending in 4242, expires 12/2030")
		assert.Contains(t, out.String(), "3-D Secure: verified")
		assert.Contains(t, out.String(), "Handler: failure (card not allowed)")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_TokenJSON", func(t *testing.T) {
		mockUseCase := &mocks.MockTokenizationUseCase{}
		mockUseCase.On("CreateToken", ctx, validInput).
			Return(&usecase.TokenResult{Token: testToken()}, nil).Once()
		var out bytes.Buffer

		err := RunCreateToken(ctx, mockUseCase, discardLogger(), validInput, "json", &out)

		require.NoError(t, err)
		var response dto.TokenResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &response))
		assert.Equal(t, "tok_76e202b409f3da51a0706605ac81", response.ID)
		assert.Equal(t, "4242", response.Card.Last4)
		assert.Nil(t, response.HandlerStatus)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_ThreeDSecureChallenge", func(t *testing.T) {
		mockUseCase := &mocks.MockTokenizationUseCase{}
		challenge := &usecase.ThreeDSecureChallenge{
			Token:     threeds.Token{ID: "tds_1"},
			StartURL:  "https://api.example.com/v1/tds/tds_1/start?publickey=pk_test",
			FinishURL: "https://api.example.com/v1/tds/tds_1/finish",
		}
		mockUseCase.On("CreateToken", ctx, validInput).
			Return(&usecase.TokenResult{ThreeDSecure: challenge}, nil).Once()
		var out bytes.Buffer

		err := RunCreateToken(ctx, mockUseCase, discardLogger(), validInput, "text", &out)

		require.NoError(t, err)
		assert.Contains(t, out.String(), "3-D Secure verification required")
		assert.Contains(t, out.String(), challenge.StartURL)
		assert.Contains(t, out.String(), challenge.FinishURL)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidFormJSON", func(t *testing.T) {
		mockUseCase := &mocks.MockTokenizationUseCase{}
		formErr := &usecase.FormError{Fields: map[string]*domain.FieldError{
			"cvc": {Kind: domain.ErrKindNoCVC, Actionable: true},
		}}
		mockUseCase.On("CreateToken", ctx, validInput).Return(nil, formErr).Once()
		var out bytes.Buffer

		err := RunCreateToken(ctx, mockUseCase, discardLogger(), validInput, "json", &out)

		require.Error(t, err)
		assert.ErrorIs(t, err, usecase.ErrFormNotSubmittable)
		var response dto.InvalidFormResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &response))
		assert.Equal(t, "invalid_card", response.Error)
		assert.Equal(t, "no_cvc", response.Errors["cvc"].Kind)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_Gateway", func(t *testing.T) {
		mockUseCase := &mocks.MockTokenizationUseCase{}
		mockUseCase.On("CreateToken", ctx, validInput).Return(nil, apperrors.ErrUpstream).Once()
		var out bytes.Buffer

		err := RunCreateToken(ctx, mockUseCase, discardLogger(), validInput, "text", &out)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
		assert.Empty(t, out.String())
		mockUseCase.AssertExpectations(t)
	})
}

func TestRunCreateTokenFromThreeDSecure(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockUseCase := &mocks.MockTokenizationUseCase{}
		mockUseCase.On("CreateTokenFromThreeDSecure", ctx, "tds_1").
			Return(&usecase.TokenResult{Token: testToken()}, nil).Once()
		var out bytes.Buffer

		err := RunCreateTokenFromThreeDSecure(ctx, mockUseCase, discardLogger(), "tds_1", "text", &out)

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Token: tok_76e202b409f3da51a0706605ac81")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_UseCase", func(t *testing.T) {
		mockUseCase := &mocks.MockTokenizationUseCase{}
		mockUseCase.On("CreateTokenFromThreeDSecure", ctx, "tds_1").
			Return(nil, errors.New("boom")).Once()

		err := RunCreateTokenFromThreeDSecure(ctx, mockUseCase, discardLogger(), "tds_1", "text", io.Discard)

		require.Error(t, err)
		mockUseCase.AssertExpectations(t)
	})
}

func TestRunAcceptedBrands(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		brands   []domain.Brand
		format   string
		expected string
	}{
		{
			name:     "Success_Text",
			brands:   []domain.Brand{domain.BrandVisa, domain.BrandJCB},
			format:   "text",
			expected: "Accepted brands: VISA, JCB\n",
		},
		{
			name:     "Success_Empty",
			brands:   nil,
			format:   "text",
			expected: "No accepted brands\n",
		},
		{
			name:     "Success_JSON",
			brands:   nil,
			format:   "json",
			expected: "{\n  \"brands\": []\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUseCase := &mocks.MockTokenizationUseCase{}
			mockUseCase.On("AcceptedBrands", ctx, "ten_1").Return(tt.brands, nil).Once()
			var out bytes.Buffer

			err := RunAcceptedBrands(ctx, mockUseCase, "ten_1", tt.format, &out)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.String())
			mockUseCase.AssertExpectations(t)
		})
	}

	t.Run("Error_UseCase", func(t *testing.T) {
		mockUseCase := &mocks.MockTokenizationUseCase{}
		mockUseCase.On("AcceptedBrands", ctx, "").Return(nil, apperrors.ErrUpstream).Once()

		err := RunAcceptedBrands(ctx, mockUseCase, "", "text", io.Discard)

		assert.ErrorIs(t, err, apperrors.ErrUpstream)
		mockUseCase.AssertExpectations(t)
	})
}

func TestRunTDSURL(t *testing.T) {
	cfg := threeds.URLConfig{
		BaseURL:      "https://api.example.com/v1/",
		PublicKey:    "pk_test_1",
		RedirectName: "shop",
	}

	t.Run("Success_Text", func(t *testing.T) {
		var out bytes.Buffer

		err := RunTDSURL("tds_abc", cfg, "text", &out)

		require.NoError(t, err)
		assert.Equal(t,
			"Start URL: https://api.example.com/v1/tds/tds_abc/start?back=shop&publickey=pk_test_1\n"+
				"Finish URL: https://api.example.com/v1/tds/tds_abc/finish\n",
			out.String(),
		)
	})

	t.Run("Success_JSON", func(t *testing.T) {
		var out bytes.Buffer

		err := RunTDSURL("tds_abc", cfg, "json", &out)

		require.NoError(t, err)
		var response dto.ThreeDSecureResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &response))
		assert.Equal(t, "tds_abc", response.ThreeDSecureToken)
		assert.Equal(t, "https://api.example.com/v1/tds/tds_abc/finish", response.FinishURL)
	})

	t.Run("Error_MissingPublicKey", func(t *testing.T) {
		err := RunTDSURL("tds_abc", threeds.URLConfig{BaseURL: cfg.BaseURL}, "text", io.Discard)
		assert.ErrorIs(t, err, threeds.ErrInvalidURLConfig)
	})

	t.Run("Error_MissingID", func(t *testing.T) {
		err := RunTDSURL("", cfg, "text", io.Discard)
		assert.Error(t, err)
	})
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, validateFormat("text"))
	assert.NoError(t, validateFormat("json"))
	assert.Error(t, validateFormat("xml"))
}
