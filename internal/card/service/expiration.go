package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/allisson/cardtoken/internal/card/domain"
)

// ValidateExpiration parses "MM<delimiter>YY" input and builds an Expiration valid at now.
func ValidateExpiration(raw, delimiter string, now time.Time) domain.FieldInput[domain.Expiration] {
	if strings.TrimSpace(raw) == "" {
		return domain.InvalidField[domain.Expiration](raw, domain.ErrKindNoExpiration, true)
	}

	monthYear, ok := domain.ParseExpiration(raw, delimiter)
	if !ok {
		return domain.InvalidField[domain.Expiration](raw, domain.ErrKindInvalidExpiration, true)
	}

	if !domain.ValidateMonth(monthYear.Month) {
		return domain.InvalidField[domain.Expiration](raw, domain.ErrKindInvalidExpiration, false)
	}

	if !monthYear.HasYear {
		return domain.InvalidField[domain.Expiration](raw, domain.ErrKindInvalidExpiration, true)
	}

	year, err := strconv.Atoi(monthYear.Year)
	if err != nil {
		return domain.InvalidField[domain.Expiration](raw, domain.ErrKindInvalidExpiration, true)
	}

	expiration, ok := domain.BuildExpiration(monthYear.Month, year, now)
	if !ok {
		month, _ := strconv.Atoi(monthYear.Month)
		expired := domain.IsExpired(month, domain.ExpandYear(year, now), now)
		return domain.InvalidField[domain.Expiration](raw, domain.ErrKindInvalidExpiration, expired)
	}

	return domain.ValidField(raw, expiration)
}
