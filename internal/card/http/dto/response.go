package dto

import (
	"time"

	"github.com/allisson/cardtoken/internal/card/domain"
	"github.com/allisson/cardtoken/internal/card/usecase"
	"github.com/allisson/cardtoken/internal/tokenhandler"
)

// FieldErrorResponse describes why a field is not usable. Actionable errors should
// be shown to the user right away.
type FieldErrorResponse struct {
	Kind       string `json:"kind"`
	Actionable bool   `json:"actionable"`
}

// FormStateResponse is the validation result of a card form.
type FormStateResponse struct {
	Submittable     bool                          `json:"submittable"`
	Brand           string                        `json:"brand"`
	FormattedNumber string                        `json:"formatted_number,omitempty"`
	Errors          map[string]FieldErrorResponse `json:"errors"`
}

// InvalidFormResponse is returned with 422 when a token is requested for an invalid form.
type InvalidFormResponse struct {
	Error   string                        `json:"error"`
	Message string                        `json:"message"`
	Errors  map[string]FieldErrorResponse `json:"errors"`
}

// CardResponse is the non-sensitive card view.
type CardResponse struct {
	ID                 string    `json:"id"`
	Brand              string    `json:"brand"`
	Last4              string    `json:"last4"`
	ExpMonth           int       `json:"exp_month"`
	ExpYear            int       `json:"exp_year"`
	Name               string    `json:"name,omitempty"`
	Fingerprint        string    `json:"fingerprint,omitempty"`
	ThreeDSecureStatus *string   `json:"three_d_secure_status"`
	CreatedAt          time.Time `json:"created_at"`
}

// HandlerStatusResponse is the outcome reported by the token handler.
type HandlerStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// TokenResponse is a created or fetched token.
type TokenResponse struct {
	ID            string                 `json:"id"`
	Livemode      bool                   `json:"livemode"`
	Used          bool                   `json:"used"`
	Card          CardResponse           `json:"card"`
	CreatedAt     time.Time              `json:"created_at"`
	HandlerStatus *HandlerStatusResponse `json:"handler_status,omitempty"`
}

// ThreeDSecureResponse is returned with 202 when the card must complete a challenge.
type ThreeDSecureResponse struct {
	ThreeDSecureToken string `json:"three_d_secure_token"`
	StartURL          string `json:"start_url"`
	FinishURL         string `json:"finish_url"`
}

// AcceptedBrandsResponse lists the brands a tenant accepts.
type AcceptedBrandsResponse struct {
	Brands []string `json:"brands"`
}

// MapFieldErrors converts field errors keyed by field name.
func MapFieldErrors(fields map[string]*domain.FieldError) map[string]FieldErrorResponse {
	out := make(map[string]FieldErrorResponse, len(fields))
	for name, fieldErr := range fields {
		out[name] = FieldErrorResponse{Kind: string(fieldErr.Kind), Actionable: fieldErr.Actionable}
	}
	return out
}

// MapFormStateToResponse converts a form validation result.
func MapFormStateToResponse(state *usecase.FormState) FormStateResponse {
	errs := state.Errors()
	return FormStateResponse{
		Submittable:     len(errs) == 0,
		Brand:           state.Brand().String(),
		FormattedNumber: state.FormattedNumber(),
		Errors:          MapFieldErrors(errs),
	}
}

// MapFormErrorToResponse converts the error returned for an unsubmittable form.
func MapFormErrorToResponse(formErr *usecase.FormError) InvalidFormResponse {
	return InvalidFormResponse{
		Error:   "invalid_card",
		Message: formErr.Error(),
		Errors:  MapFieldErrors(formErr.Fields),
	}
}

// MapTokenToResponse converts a token. status may be nil.
func MapTokenToResponse(token *domain.Token, status *tokenhandler.Status) TokenResponse {
	var tdsStatus *string
	if token.Card.ThreeDSecureStatus != nil {
		s := string(*token.Card.ThreeDSecureStatus)
		tdsStatus = &s
	}

	resp := TokenResponse{
		ID:       token.ID,
		Livemode: token.Livemode,
		Used:     token.Used,
		Card: CardResponse{
			ID:                 token.Card.ID,
			Brand:              token.Card.Brand.String(),
			Last4:              token.Card.Last4,
			ExpMonth:           token.Card.ExpMonth,
			ExpYear:            token.Card.ExpYear,
			Name:               token.Card.Name,
			Fingerprint:        token.Card.Fingerprint,
			ThreeDSecureStatus: tdsStatus,
			CreatedAt:          token.Card.CreatedAt,
		},
		CreatedAt: token.CreatedAt,
	}
	if status != nil {
		resp.HandlerStatus = &HandlerStatusResponse{Status: string(status.Kind), Message: status.Message}
	}
	return resp
}

// MapChallengeToResponse converts a 3-D Secure continuation.
func MapChallengeToResponse(challenge *usecase.ThreeDSecureChallenge) ThreeDSecureResponse {
	return ThreeDSecureResponse{
		ThreeDSecureToken: challenge.Token.ID,
		StartURL:          challenge.StartURL,
		FinishURL:         challenge.FinishURL,
	}
}

// MapBrandsToResponse converts accepted brands. A nil list becomes an empty array.
func MapBrandsToResponse(brands []domain.Brand) AcceptedBrandsResponse {
	names := make([]string, 0, len(brands))
	for _, brand := range brands {
		names = append(names, brand.String())
	}
	return AcceptedBrandsResponse{Brands: names}
}
