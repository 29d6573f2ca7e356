package service

// PhoneNumberNormalizer parses phone numbers for a region and formats them as E.164.
type PhoneNumberNormalizer interface {
	// NormalizeE164 returns the E.164 form of raw interpreted in region, or false when
	// raw is not a valid number there.
	NormalizeE164(raw, region string) (string, bool)

	// ExampleNumberLength returns the digit count of the region's example number in
	// national format, or 0 when the region is unknown.
	ExampleNumberLength(region string) int
}
