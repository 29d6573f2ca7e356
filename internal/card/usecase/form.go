package usecase

import (
	"strings"
	"time"

	"github.com/allisson/cardtoken/internal/card/domain"
	"github.com/allisson/cardtoken/internal/card/service"
	apperrors "github.com/allisson/cardtoken/internal/errors"
)

// FieldMode controls whether an optional form field is collected.
type FieldMode string

const (
	FieldHidden   FieldMode = "hidden"
	FieldOptional FieldMode = "optional"
	FieldRequired FieldMode = "required"
)

// Form field names used in validation results.
const (
	FieldNumber     = "number"
	FieldExpiration = "expiration"
	FieldCVC        = "cvc"
	FieldHolderName = "holder_name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
)

// ErrFormNotSubmittable indicates a tokenization request was built from a form with
// invalid fields.
var ErrFormNotSubmittable = apperrors.Wrap(apperrors.ErrInvalidInput, "card form is not submittable")

// FormInput is the raw text of every card form field.
type FormInput struct {
	Number     string
	Expiration string
	CVC        string
	HolderName string
	Email      string
	Phone      string
}

// ValidationContext is the read-only context the fields are validated against.
type ValidationContext struct {
	Now time.Time
	// AcceptedBrands restricts card numbers; nil accepts every known brand.
	AcceptedBrands []domain.Brand
	PhoneRegion    string
	Delimiter      string
	HolderName     FieldMode
	Email          FieldMode
	Phone          FieldMode
	TenantID       string
}

// FormState is the validation result of a whole card form.
// Hidden fields, and optional fields left blank, are nil.
type FormState struct {
	Number     domain.CardNumberInput
	Expiration domain.FieldInput[domain.Expiration]
	CVC        domain.FieldInput[string]
	HolderName *domain.FieldInput[string]
	Email      *domain.FieldInput[string]
	Phone      *domain.FieldInput[string]

	tenantID string
}

// ValidateForm runs every field validator. Fields are independent of each other except
// the CVC, which is checked against the brand detected from the number.
func ValidateForm(
	input FormInput,
	vc ValidationContext,
	normalizer service.PhoneNumberNormalizer,
) *FormState {
	number := service.ValidateCardNumber(input.Number, vc.AcceptedBrands)

	state := &FormState{
		Number:     number,
		Expiration: service.ValidateExpiration(input.Expiration, vc.Delimiter, vc.Now),
		CVC:        service.ValidateCVC(input.CVC, number.Brand),
		tenantID:   vc.TenantID,
	}

	state.HolderName = validateOptional(vc.HolderName, input.HolderName, service.ValidateHolderName)
	state.Email = validateOptional(vc.Email, input.Email, service.ValidateEmail)
	state.Phone = validateOptional(vc.Phone, input.Phone, func(raw string) domain.FieldInput[string] {
		return service.ValidatePhoneNumber(raw, vc.PhoneRegion, normalizer)
	})

	return state
}

func validateOptional(
	mode FieldMode,
	raw string,
	validate func(string) domain.FieldInput[string],
) *domain.FieldInput[string] {
	switch mode {
	case FieldRequired:
	case FieldOptional:
		if strings.TrimSpace(raw) == "" {
			return nil
		}
	default:
		return nil
	}

	result := validate(raw)
	return &result
}

// IsSubmittable reports whether every collected field holds a valid value.
func (s *FormState) IsSubmittable() bool {
	return len(s.Errors()) == 0
}

// Errors returns the error of every invalid field keyed by field name.
func (s *FormState) Errors() map[string]*domain.FieldError {
	errs := make(map[string]*domain.FieldError)
	if s.Number.Err != nil {
		errs[FieldNumber] = s.Number.Err
	}
	if s.Expiration.Err != nil {
		errs[FieldExpiration] = s.Expiration.Err
	}
	if s.CVC.Err != nil {
		errs[FieldCVC] = s.CVC.Err
	}
	for name, field := range map[string]*domain.FieldInput[string]{
		FieldHolderName: s.HolderName,
		FieldEmail:      s.Email,
		FieldPhone:      s.Phone,
	} {
		if field != nil && field.Err != nil {
			errs[name] = field.Err
		}
	}
	return errs
}

// Brand returns the brand detected from the number field.
func (s *FormState) Brand() domain.Brand {
	return s.Number.Brand
}

// FormattedNumber returns the number grouped for display.
func (s *FormState) FormattedNumber() string {
	return s.Number.Brand.Format(s.Number.Raw)
}

// BuildRequest assembles the tokenization request from the normalized field values.
func (s *FormState) BuildRequest() (domain.TokenizationRequest, error) {
	if !s.IsSubmittable() {
		return domain.TokenizationRequest{}, ErrFormNotSubmittable
	}

	req := domain.TokenizationRequest{
		Number:     s.Number.Get(),
		Expiration: s.Expiration.Get(),
		CVC:        s.CVC.Get(),
		TenantID:   s.tenantID,
	}
	if s.HolderName != nil {
		req.HolderName = s.HolderName.Get()
	}
	if s.Email != nil {
		req.Email = s.Email.Get()
	}
	if s.Phone != nil {
		req.Phone = s.Phone.Get()
	}

	if err := req.Validate(); err != nil {
		return domain.TokenizationRequest{}, apperrors.Wrap(ErrFormNotSubmittable, err.Error())
	}
	return req, nil
}

// FormError carries the field errors of a form that could not be submitted.
type FormError struct {
	Fields map[string]*domain.FieldError
}

func (e *FormError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, name := range sortedFieldNames(e.Fields) {
		names = append(names, name+"="+string(e.Fields[name].Kind))
	}
	return "invalid card form (" + strings.Join(names, ", ") + ")"
}

// Unwrap returns ErrFormNotSubmittable.
func (e *FormError) Unwrap() error {
	return ErrFormNotSubmittable
}

var fieldOrder = []string{FieldNumber, FieldExpiration, FieldCVC, FieldHolderName, FieldEmail, FieldPhone}

func sortedFieldNames(fields map[string]*domain.FieldError) []string {
	names := make([]string, 0, len(fields))
	for _, name := range fieldOrder {
		if _, ok := fields[name]; ok {
			names = append(names, name)
		}
	}
	return names
}
