// Package domain defines the card tokenization domain model: card brands, the Luhn
// checksum, validated expirations, per-field validation results and the request and
// token types exchanged with the gateway.
package domain

import (
	"strings"
)

// Brand identifies the card network inferred from the PAN prefix.
type Brand string

const (
	BrandVisa       Brand = "VISA"
	BrandMastercard Brand = "MASTERCARD"
	BrandJCB        Brand = "JCB"
	BrandAmex       Brand = "AMEX"
	BrandDinersClub Brand = "DINERS_CLUB"
	BrandDiscover   Brand = "DISCOVER"
	BrandUnknown    Brand = "UNKNOWN"
)

// Card geometry shared by most brands.
const (
	DefaultNumberLength = 16
	DefaultCVCLength    = 3
)

// prefixRange matches digit strings whose leading len(lo) digits fall in [lo, hi].
// lo and hi always have the same length so a string comparison is numeric.
type prefixRange struct {
	lo, hi string
}

func (r prefixRange) match(digits string) bool {
	if len(digits) < len(r.lo) {
		return false
	}
	head := digits[:len(r.lo)]
	return head >= r.lo && head <= r.hi
}

type brandSpec struct {
	brand        Brand
	wireName     string
	prefixes     []prefixRange
	numberLength int
	cvcLength    int
	groups       []int
}

var (
	groups4444 = []int{4, 4, 4, 4}
	groups465  = []int{4, 6, 5}
	groups464  = []int{4, 6, 4}
)

// knownBrands is evaluated in order; the prefix rules are disjoint.
var knownBrands = []brandSpec{
	{
		brand:        BrandVisa,
		wireName:     "Visa",
		prefixes:     []prefixRange{{"4", "4"}},
		numberLength: 16,
		cvcLength:    3,
		groups:       groups4444,
	},
	{
		brand:        BrandMastercard,
		wireName:     "MasterCard",
		prefixes:     []prefixRange{{"51", "55"}, {"22", "27"}},
		numberLength: 16,
		cvcLength:    3,
		groups:       groups4444,
	},
	{
		brand:        BrandJCB,
		wireName:     "JCB",
		prefixes:     []prefixRange{{"3528", "3589"}},
		numberLength: 16,
		cvcLength:    3,
		groups:       groups4444,
	},
	{
		brand:        BrandAmex,
		wireName:     "American Express",
		prefixes:     []prefixRange{{"34", "34"}, {"37", "37"}},
		numberLength: 15,
		cvcLength:    4,
		groups:       groups465,
	},
	{
		brand:        BrandDinersClub,
		wireName:     "Diners Club",
		prefixes:     []prefixRange{{"300", "305"}, {"36", "36"}, {"38", "38"}},
		numberLength: 14,
		cvcLength:    3,
		groups:       groups464,
	},
	{
		brand:        BrandDiscover,
		wireName:     "Discover",
		prefixes:     []prefixRange{{"6011", "6011"}, {"65", "65"}},
		numberLength: 16,
		cvcLength:    3,
		groups:       groups4444,
	},
}

var unknownSpec = brandSpec{
	brand:        BrandUnknown,
	wireName:     "Unknown",
	numberLength: DefaultNumberLength,
	cvcLength:    DefaultCVCLength,
	groups:       groups4444,
}

// KnownBrands returns every brand except BrandUnknown in detection order.
func KnownBrands() []Brand {
	brands := make([]Brand, 0, len(knownBrands))
	for _, spec := range knownBrands {
		brands = append(brands, spec.brand)
	}
	return brands
}

func (b Brand) spec() brandSpec {
	for _, spec := range knownBrands {
		if spec.brand == b {
			return spec
		}
	}
	return unknownSpec
}

// IsKnown reports whether b is one of the concrete card networks.
func (b Brand) IsKnown() bool {
	return b.spec().brand != BrandUnknown
}

// NumberLength returns the expected PAN digit count.
func (b Brand) NumberLength() int {
	return b.spec().numberLength
}

// CVCLength returns the expected CVC digit count.
func (b Brand) CVCLength() int {
	return b.spec().cvcLength
}

// WireName returns the brand name used by the gateway API ("Visa", "American Express", ...).
func (b Brand) WireName() string {
	return b.spec().wireName
}

// String returns the string representation of the brand.
func (b Brand) String() string {
	return string(b)
}

// Format groups digits for display, e.g. "4242 4242 4242 4242" or "3782 822463 10005".
// Digits beyond the brand's grouping are appended as a trailing group.
func (b Brand) Format(digits string) string {
	digits = DigitsOnly(digits)
	var parts []string
	rest := digits
	for _, size := range b.spec().groups {
		if rest == "" {
			break
		}
		if len(rest) <= size {
			parts = append(parts, rest)
			rest = ""
			break
		}
		parts = append(parts, rest[:size])
		rest = rest[size:]
	}
	if rest != "" {
		parts = append(parts, rest)
	}
	return strings.Join(parts, " ")
}

// ParseBrandName maps a gateway wire name (or the enum name itself) to a Brand.
func ParseBrandName(name string) (Brand, bool) {
	for _, spec := range knownBrands {
		if strings.EqualFold(spec.wireName, name) || strings.EqualFold(string(spec.brand), name) {
			return spec.brand, true
		}
	}
	return BrandUnknown, false
}

// DetectBrand strips non-digits from input and returns the first brand whose prefix
// rule matches. Empty or unmatched input yields BrandUnknown.
func DetectBrand(input string) Brand {
	digits := DigitsOnly(input)
	if digits == "" {
		return BrandUnknown
	}
	for _, spec := range knownBrands {
		for _, prefix := range spec.prefixes {
			if prefix.match(digits) {
				return spec.brand
			}
		}
	}
	return BrandUnknown
}

// DigitsOnly drops every character that is not an ASCII digit.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
