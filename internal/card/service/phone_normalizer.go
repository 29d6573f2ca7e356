package service

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/allisson/cardtoken/internal/card/domain"
)

type libPhoneNumberNormalizer struct{}

// NewPhoneNumberNormalizer creates a PhoneNumberNormalizer backed by libphonenumber metadata.
func NewPhoneNumberNormalizer() PhoneNumberNormalizer {
	return &libPhoneNumberNormalizer{}
}

// NormalizeE164 parses raw for region and formats it as E.164 when it is a valid number.
func (n *libPhoneNumberNormalizer) NormalizeE164(raw, region string) (string, bool) {
	region = strings.ToUpper(region)
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumber(number) {
		return "", false
	}
	return phonenumbers.Format(number, phonenumbers.E164), true
}

// ExampleNumberLength returns the digit count of the national-format example number.
func (n *libPhoneNumberNormalizer) ExampleNumberLength(region string) int {
	example := phonenumbers.GetExampleNumber(strings.ToUpper(region))
	if example == nil {
		return 0
	}
	return len(domain.DigitsOnly(phonenumbers.Format(example, phonenumbers.NATIONAL)))
}
