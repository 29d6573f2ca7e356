package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allisson/cardtoken/internal/card/domain"
	"github.com/allisson/cardtoken/internal/card/service/mocks"
)

func TestValidatePhoneNumber(t *testing.T) {
	t.Run("Success_NormalizedToE164", func(t *testing.T) {
		normalizer := &mocks.MockPhoneNumberNormalizer{}
		normalizer.On("NormalizeE164", "090-1234-5678", "JP").Return("+819012345678", true).Once()

		result := ValidatePhoneNumber(" 090-1234-5678 ", "JP", normalizer)

		assert.True(t, result.Valid())
		assert.Equal(t, "+819012345678", result.Get())
		normalizer.AssertExpectations(t)
	})

	t.Run("Success_DefaultRegion", func(t *testing.T) {
		normalizer := &mocks.MockPhoneNumberNormalizer{}
		normalizer.On("NormalizeE164", "09012345678", DefaultPhoneRegion).Return("+819012345678", true).Once()

		result := ValidatePhoneNumber("09012345678", "", normalizer)

		assert.True(t, result.Valid())
		normalizer.AssertExpectations(t)
	})

	t.Run("Error_Empty", func(t *testing.T) {
		normalizer := &mocks.MockPhoneNumberNormalizer{}

		result := ValidatePhoneNumber("  ", "JP", normalizer)

		assert.Nil(t, result.Value)
		assert.Equal(t, domain.ErrKindNoPhoneNumber, result.Err.Kind)
		assert.True(t, result.Err.Actionable)
		normalizer.AssertNotCalled(t, "NormalizeE164")
	})

	t.Run("Error_ShorterThanExampleIsActionable", func(t *testing.T) {
		normalizer := &mocks.MockPhoneNumberNormalizer{}
		normalizer.On("NormalizeE164", "0901", "JP").Return("", false).Once()
		normalizer.On("ExampleNumberLength", "JP").Return(10).Once()

		result := ValidatePhoneNumber("0901", "JP", normalizer)

		assert.Nil(t, result.Value)
		assert.Equal(t, domain.ErrKindInvalidPhoneNumber, result.Err.Kind)
		assert.True(t, result.Err.Actionable)
		normalizer.AssertExpectations(t)
	})

	t.Run("Error_LongerThanExampleIsNotActionable", func(t *testing.T) {
		normalizer := &mocks.MockPhoneNumberNormalizer{}
		normalizer.On("NormalizeE164", "0901234567890", "JP").Return("", false).Once()
		normalizer.On("ExampleNumberLength", "JP").Return(10).Once()

		result := ValidatePhoneNumber("0901234567890", "JP", normalizer)

		assert.Nil(t, result.Value)
		assert.Equal(t, domain.ErrKindInvalidPhoneNumber, result.Err.Kind)
		assert.False(t, result.Err.Actionable)
		normalizer.AssertExpectations(t)
	})
}

func TestPhoneNumberNormalizer(t *testing.T) {
	normalizer := NewPhoneNumberNormalizer()

	t.Run("Success_JapaneseMobile", func(t *testing.T) {
		e164, ok := normalizer.NormalizeE164("090-1234-5678", "JP")
		assert.True(t, ok)
		assert.Equal(t, "+819012345678", e164)
	})

	t.Run("Success_LowercaseRegion", func(t *testing.T) {
		e164, ok := normalizer.NormalizeE164("090-1234-5678", "jp")
		assert.True(t, ok)
		assert.Equal(t, "+819012345678", e164)
	})

	t.Run("Error_Garbage", func(t *testing.T) {
		_, ok := normalizer.NormalizeE164("hello", "JP")
		assert.False(t, ok)
	})

	t.Run("ExampleNumberLength", func(t *testing.T) {
		assert.Greater(t, normalizer.ExampleNumberLength("JP"), 0)
		assert.Equal(t, 0, normalizer.ExampleNumberLength("ZZ"))
	})
}
