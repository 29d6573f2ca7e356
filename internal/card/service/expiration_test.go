package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/allisson/cardtoken/internal/card/domain"
)

func TestValidateExpiration(t *testing.T) {
	now := time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		raw            string
		expectedMonth  string
		expectedYear   string
		expectedKind   domain.FieldErrorKind
		expectedAction bool
	}{
		{name: "Success_Future", raw: "12/30", expectedMonth: "12", expectedYear: "2030"},
		{name: "Success_CurrentMonth", raw: "05/24", expectedMonth: "05", expectedYear: "2024"},
		{
			name:           "Error_Empty",
			raw:            "",
			expectedKind:   domain.ErrKindNoExpiration,
			expectedAction: true,
		},
		{
			name:           "Error_WhitespaceOnly",
			raw:            "   ",
			expectedKind:   domain.ErrKindNoExpiration,
			expectedAction: true,
		},
		{
			name:           "Error_ParseFailure",
			raw:            "1/2/3",
			expectedKind:   domain.ErrKindInvalidExpiration,
			expectedAction: true,
		},
		{
			name:           "Error_MonthOutOfRange",
			raw:            "13/30",
			expectedKind:   domain.ErrKindInvalidExpiration,
			expectedAction: false,
		},
		{
			name:           "Error_MonthZero",
			raw:            "00/30",
			expectedKind:   domain.ErrKindInvalidExpiration,
			expectedAction: false,
		},
		{
			name:           "Error_YearMissing",
			raw:            "12/",
			expectedKind:   domain.ErrKindInvalidExpiration,
			expectedAction: true,
		},
		{
			name:           "Error_PreviousMonth",
			raw:            "04/24",
			expectedKind:   domain.ErrKindInvalidExpiration,
			expectedAction: true,
		},
		{
			name:           "Error_PastYear",
			raw:            "12/20",
			expectedKind:   domain.ErrKindInvalidExpiration,
			expectedAction: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateExpiration(tt.raw, "/", now)

			if tt.expectedKind == "" {
				if assert.True(t, result.Valid()) {
					assert.Equal(t, tt.expectedMonth, result.Value.Month())
					assert.Equal(t, tt.expectedYear, result.Value.Year())
				}
				return
			}

			assert.Nil(t, result.Value)
			if assert.NotNil(t, result.Err) {
				assert.Equal(t, tt.expectedKind, result.Err.Kind)
				assert.Equal(t, tt.expectedAction, result.Err.Actionable)
			}
		})
	}
}

func TestValidateExpiration_CustomDelimiter(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	result := ValidateExpiration("12-30", "-", now)
	assert.True(t, result.Valid())
	assert.Equal(t, "2030", result.Value.Year())
}
