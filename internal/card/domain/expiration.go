package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultExpirationDelimiter separates month and year in "MM/YY" input.
const DefaultExpirationDelimiter = "/"

// Century window thresholds for two-digit years.
const (
	centuryRollForwardAfter = 80
	centuryRollBackBefore   = 20
)

// Expiration is a validated, not-yet-expired card expiration.
// It is immutable and can only be obtained from BuildExpiration.
type Expiration struct {
	month string
	year  string
}

// Month returns the two-digit month ("01" through "12").
func (e Expiration) Month() string {
	return e.month
}

// Year returns the four-digit year (e.g., "2030").
func (e Expiration) Year() string {
	return e.year
}

// IsZero reports whether e was never built.
func (e Expiration) IsZero() bool {
	return e.month == "" && e.year == ""
}

// String returns the "MM/YYYY" representation.
func (e Expiration) String() string {
	return e.month + "/" + e.year
}

// MonthYear is the raw result of parsing expiration input.
// HasYear is false when the user has not typed the year segment yet.
type MonthYear struct {
	Month   string
	Year    string
	HasYear bool
}

// ParseExpiration splits raw around delimiter. The month segment must contain exactly
// two digits. A year segment with digits must contain exactly two; a missing or empty
// year segment yields HasYear=false. Returns false when the input is malformed.
func ParseExpiration(raw, delimiter string) (MonthYear, bool) {
	if delimiter == "" {
		delimiter = DefaultExpirationDelimiter
	}

	segments := strings.Split(raw, delimiter)
	if len(segments) > 2 {
		return MonthYear{}, false
	}

	month := DigitsOnly(segments[0])
	if len(month) != 2 {
		return MonthYear{}, false
	}

	result := MonthYear{Month: month}
	if len(segments) == 1 {
		return result, true
	}

	year := DigitsOnly(segments[1])
	switch len(year) {
	case 0:
		return result, true
	case 2:
		result.Year = year
		result.HasYear = true
		return result, true
	default:
		return MonthYear{}, false
	}
}

// ValidateMonth reports whether month parses to a value in [1, 12].
func ValidateMonth(month string) bool {
	value, err := strconv.Atoi(month)
	if err != nil {
		return false
	}
	return value >= 1 && value <= 12
}

// ExpandYear converts a two-digit year into a four-digit year using a sliding window
// around now: late in a century small years roll into the next one, early in a
// century large years roll back into the previous one.
func ExpandYear(twoDigitYear int, now time.Time) int {
	century := now.Year() / 100
	yearInCentury := now.Year() % 100

	if yearInCentury > centuryRollForwardAfter && twoDigitYear < centuryRollBackBefore {
		century++
	} else if yearInCentury < centuryRollBackBefore && twoDigitYear > centuryRollForwardAfter {
		century--
	}

	return century*100 + twoDigitYear
}

// IsExpired reports whether month/fullYear lies strictly before the current month.
// The current month itself is not expired.
func IsExpired(month, fullYear int, now time.Time) bool {
	if fullYear < now.Year() {
		return true
	}
	return fullYear == now.Year() && month < int(now.Month())
}

// BuildExpiration validates month and a two-digit year against now and returns the
// immutable Expiration. Returns false for an invalid month, a year outside [0, 99],
// or an expiration already in the past.
func BuildExpiration(month string, twoDigitYear int, now time.Time) (Expiration, bool) {
	if !ValidateMonth(month) {
		return Expiration{}, false
	}
	if twoDigitYear < 0 || twoDigitYear > 99 {
		return Expiration{}, false
	}

	monthValue, _ := strconv.Atoi(month)
	fullYear := ExpandYear(twoDigitYear, now)
	if IsExpired(monthValue, fullYear, now) {
		return Expiration{}, false
	}

	return Expiration{
		month: fmt.Sprintf("%02d", monthValue),
		year:  fmt.Sprintf("%04d", fullYear),
	}, true
}
