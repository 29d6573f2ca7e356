package service

import (
	"strings"

	"github.com/allisson/cardtoken/internal/card/domain"
)

// DefaultPhoneRegion is used when no region has been preset.
const DefaultPhoneRegion = "JP"

// ValidatePhoneNumber trims raw and normalizes it to E.164 for region.
// An empty region falls back to DefaultPhoneRegion.
func ValidatePhoneNumber(
	raw, region string,
	normalizer PhoneNumberNormalizer,
) domain.FieldInput[string] {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return domain.InvalidField[string](raw, domain.ErrKindNoPhoneNumber, true)
	}

	if region == "" {
		region = DefaultPhoneRegion
	}

	e164, ok := normalizer.NormalizeE164(phone, region)
	if !ok {
		// Input longer than the region's example number is the wrong shape, not unfinished.
		longerThanExample := len(domain.DigitsOnly(phone)) > normalizer.ExampleNumberLength(region)
		return domain.InvalidField[string](raw, domain.ErrKindInvalidPhoneNumber, !longerThanExample)
	}

	return domain.ValidField(raw, e164)
}
