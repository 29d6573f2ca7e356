package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month) time.Time {
	return time.Date(year, month, 15, 12, 0, 0, 0, time.UTC)
}

func TestParseExpiration(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected MonthYear
		ok       bool
	}{
		{name: "Success_MonthAndYear", raw: "12/30", expected: MonthYear{Month: "12", Year: "30", HasYear: true}, ok: true},
		{name: "Success_MonthOnly", raw: "12", expected: MonthYear{Month: "12"}, ok: true},
		{name: "Success_MonthAndDelimiter", raw: "12/", expected: MonthYear{Month: "12"}, ok: true},
		{name: "Success_SpacesIgnored", raw: " 01 / 29 ", expected: MonthYear{Month: "01", Year: "29", HasYear: true}, ok: true},
		{name: "Error_SingleDigitMonth", raw: "1", ok: false},
		{name: "Error_ThreeDigitMonth", raw: "123/30", ok: false},
		{name: "Error_OneDigitYear", raw: "12/3", ok: false},
		{name: "Error_FourDigitYear", raw: "12/2030", ok: false},
		{name: "Error_TooManySegments", raw: "12/30/1", ok: false},
		{name: "Error_Empty", raw: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ParseExpiration(tt.raw, "/")
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestValidateMonth(t *testing.T) {
	assert.True(t, ValidateMonth("01"))
	assert.True(t, ValidateMonth("12"))
	assert.False(t, ValidateMonth("00"))
	assert.False(t, ValidateMonth("13"))
	assert.False(t, ValidateMonth("ab"))
}

func TestExpandYear(t *testing.T) {
	tests := []struct {
		name         string
		nowYear      int
		twoDigitYear int
		expected     int
	}{
		{name: "EarlyCentury_LargeYearRollsBack", nowYear: 2019, twoDigitYear: 81, expected: 1981},
		{name: "EarlyCentury_ThresholdStays", nowYear: 2019, twoDigitYear: 80, expected: 2080},
		{name: "LateCentury_SmallYearRollsForward", nowYear: 2081, twoDigitYear: 19, expected: 2119},
		{name: "LateCentury_ThresholdStays", nowYear: 2081, twoDigitYear: 20, expected: 2020},
		{name: "MidCentury_NoChange", nowYear: 2079, twoDigitYear: 19, expected: 2019},
		{name: "NowYearAtEighty_NoRoll", nowYear: 2080, twoDigitYear: 5, expected: 2005},
		{name: "Typical", nowYear: 2024, twoDigitYear: 30, expected: 2030},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandYear(tt.twoDigitYear, date(tt.nowYear, time.June)))
		})
	}
}

func TestBuildExpiration(t *testing.T) {
	now := date(2024, time.May)

	t.Run("Success_CurrentMonthIsNotExpired", func(t *testing.T) {
		exp, ok := BuildExpiration("05", 24, now)
		assert.True(t, ok)
		assert.Equal(t, "05", exp.Month())
		assert.Equal(t, "2024", exp.Year())
		assert.Equal(t, "05/2024", exp.String())
	})

	t.Run("Success_FutureYear", func(t *testing.T) {
		exp, ok := BuildExpiration("12", 30, now)
		assert.True(t, ok)
		assert.Equal(t, "12", exp.Month())
		assert.Equal(t, "2030", exp.Year())
		assert.False(t, exp.IsZero())
	})

	t.Run("Error_PreviousMonthSameYear", func(t *testing.T) {
		exp, ok := BuildExpiration("04", 24, now)
		assert.False(t, ok)
		assert.True(t, exp.IsZero())
	})

	t.Run("Error_PreviousYear", func(t *testing.T) {
		_, ok := BuildExpiration("12", 23, now)
		assert.False(t, ok)
	})

	t.Run("Error_InvalidMonth", func(t *testing.T) {
		_, ok := BuildExpiration("13", 30, now)
		assert.False(t, ok)
	})

	t.Run("Error_YearOutOfRange", func(t *testing.T) {
		_, ok := BuildExpiration("12", 100, now)
		assert.False(t, ok)
		_, ok = BuildExpiration("12", -1, now)
		assert.False(t, ok)
	})
}

func TestIsExpired(t *testing.T) {
	now := date(2024, time.January)

	assert.False(t, IsExpired(1, 2024, now))
	assert.True(t, IsExpired(12, 2023, now))
	assert.False(t, IsExpired(2, 2024, now))
	assert.True(t, IsExpired(1, 2023, now))
}
