package domain

// FieldErrorKind names why a form field is not usable yet.
type FieldErrorKind string

const (
	ErrKindNoNumber                FieldErrorKind = "no_number"
	ErrKindInvalidNumber           FieldErrorKind = "invalid_number"
	ErrKindInvalidBrand            FieldErrorKind = "invalid_brand"
	ErrKindNoExpiration            FieldErrorKind = "no_expiration"
	ErrKindInvalidExpiration       FieldErrorKind = "invalid_expiration"
	ErrKindNoCVC                   FieldErrorKind = "no_cvc"
	ErrKindInvalidCVC              FieldErrorKind = "invalid_cvc"
	ErrKindNoHolderName            FieldErrorKind = "no_holder_name"
	ErrKindInvalidHolderNameLength FieldErrorKind = "invalid_holder_name_length"
	ErrKindInvalidHolderName       FieldErrorKind = "invalid_holder_name"
	ErrKindNoEmail                 FieldErrorKind = "no_email"
	ErrKindInvalidEmail            FieldErrorKind = "invalid_email"
	ErrKindNoPhoneNumber           FieldErrorKind = "no_phone_number"
	ErrKindInvalidPhoneNumber      FieldErrorKind = "invalid_phone_number"
)

// FieldError describes a field validation failure. Actionable is true when the
// error is definitive and should be shown now; false while the input may simply be
// incomplete.
type FieldError struct {
	Kind       FieldErrorKind
	Actionable bool
}

// FieldInput is the outcome of validating one raw form input.
// Exactly one of Value and Err is non-nil.
type FieldInput[T any] struct {
	Raw   string
	Value *T
	Err   *FieldError
}

// ValidField returns a FieldInput carrying a normalized value.
func ValidField[T any](raw string, value T) FieldInput[T] {
	return FieldInput[T]{Raw: raw, Value: &value}
}

// InvalidField returns a FieldInput carrying an error descriptor.
func InvalidField[T any](raw string, kind FieldErrorKind, actionable bool) FieldInput[T] {
	return FieldInput[T]{Raw: raw, Err: &FieldError{Kind: kind, Actionable: actionable}}
}

// Valid reports whether the field holds a normalized value.
func (f FieldInput[T]) Valid() bool {
	return f.Value != nil && f.Err == nil
}

// Get returns the normalized value or the zero value when invalid.
func (f FieldInput[T]) Get() T {
	var zero T
	if f.Value == nil {
		return zero
	}
	return *f.Value
}

// CardNumberInput is the card number field plus the brand detected from it.
// The brand is needed to validate the CVC.
type CardNumberInput struct {
	FieldInput[string]
	Brand Brand
}
