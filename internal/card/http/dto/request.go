// Package dto provides data transfer objects for the card HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/cardtoken/internal/card/usecase"
	customValidation "github.com/allisson/cardtoken/internal/validation"
)

// Upper bounds on raw field input. Field semantics are checked by the card validators;
// these only reject payloads no card form could produce.
const (
	maxNumberInput     = 32
	maxExpirationInput = 16
	maxCVCInput        = 8
	maxTextInput       = 255
	maxTokenIDLength   = 128
)

// CardFormRequest is the raw card form as typed by the user.
type CardFormRequest struct {
	Number     string `json:"number"`
	Expiration string `json:"expiration"`
	CVC        string `json:"cvc"`
	HolderName string `json:"holder_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// Validate checks input sizes. Incomplete values are allowed.
func (r *CardFormRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Number, validation.Length(0, maxNumberInput)),
		validation.Field(&r.Expiration, validation.Length(0, maxExpirationInput)),
		validation.Field(&r.CVC, validation.Length(0, maxCVCInput)),
		validation.Field(&r.HolderName, validation.RuneLength(0, maxTextInput)),
		validation.Field(&r.Email, validation.Length(0, maxTextInput)),
		validation.Field(&r.Phone, validation.Length(0, maxTextInput)),
	)
}

// ToFormInput converts the request into the use case input.
func (r *CardFormRequest) ToFormInput() usecase.FormInput {
	return usecase.FormInput{
		Number:     r.Number,
		Expiration: r.Expiration,
		CVC:        r.CVC,
		HolderName: r.HolderName,
		Email:      r.Email,
		Phone:      r.Phone,
	}
}

// CreateTokenRequest is the card form submitted for tokenization.
type CreateTokenRequest struct {
	CardFormRequest
}

// Validate requires the fields every card needs on top of the size checks.
func (r *CreateTokenRequest) Validate() error {
	if err := r.CardFormRequest.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&r.CardFormRequest,
		validation.Field(&r.Number, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Expiration, validation.Required, customValidation.NotBlank),
		validation.Field(&r.CVC, validation.Required, customValidation.NotBlank),
	)
}

// CreateTokenFromThreeDSecureRequest carries a completed 3-D Secure token id.
type CreateTokenFromThreeDSecureRequest struct {
	ThreeDSecureToken string `json:"three_d_secure_token"`
}

// Validate checks the token id.
func (r *CreateTokenFromThreeDSecureRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ThreeDSecureToken, TokenIDRules()...),
	)
}

// TokenIDRules are the rules applied to every token id taken from a request.
func TokenIDRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		customValidation.Identifier,
		validation.Length(1, maxTokenIDLength),
	}
}
