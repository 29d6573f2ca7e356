package threeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_StartURL(t *testing.T) {
	token := Token{ID: "tds_foo"}

	t.Run("Success_WithoutRedirect", func(t *testing.T) {
		got, err := token.StartURL(URLConfig{BaseURL: testBaseURL, PublicKey: "pk_test_123"})

		require.NoError(t, err)
		assert.Equal(t, "https://api.pay.jp/v1/tds/tds_foo/start?publickey=pk_test_123", got)
	})

	t.Run("Success_WithRedirect", func(t *testing.T) {
		got, err := token.StartURL(URLConfig{
			BaseURL:      "https://api.pay.jp/v1",
			PublicKey:    "pk_test_123",
			RedirectName: "shop",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://api.pay.jp/v1/tds/tds_foo/start?back=shop&publickey=pk_test_123", got)
	})

	t.Run("Error_MissingPublicKey", func(t *testing.T) {
		_, err := token.StartURL(URLConfig{BaseURL: testBaseURL})
		assert.ErrorIs(t, err, ErrInvalidURLConfig)
	})

	t.Run("Error_RelativeBase", func(t *testing.T) {
		_, err := token.StartURL(URLConfig{BaseURL: "/v1/", PublicKey: "pk"})
		assert.ErrorIs(t, err, ErrInvalidURLConfig)
	})
}

func TestToken_FinishURL(t *testing.T) {
	token := Token{ID: "tds_foo"}

	got, err := token.FinishURL(testBaseURL)
	require.NoError(t, err)
	assert.Equal(t, "https://api.pay.jp/v1/tds/tds_foo/finish", got)

	_, err = token.FinishURL("")
	assert.ErrorIs(t, err, ErrInvalidURLConfig)
}

func TestToken_IsFinishURL(t *testing.T) {
	token := Token{ID: "tds_foo"}

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "Success_Exact", raw: "https://api.pay.jp/v1/tds/tds_foo/finish", want: true},
		{name: "Success_WithQuery", raw: "https://api.pay.jp/v1/tds/tds_foo/finish?status=ok#top", want: true},
		{name: "Error_OtherToken", raw: "https://api.pay.jp/v1/tds/tds_bar/finish"},
		{name: "Error_StartPage", raw: "https://api.pay.jp/v1/tds/tds_foo/start"},
		{name: "Error_OtherHost", raw: "https://evil.example/v1/tds/tds_foo/finish"},
		{name: "Error_Garbage", raw: "::"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, token.IsFinishURL(tt.raw, testBaseURL))
		})
	}
}

func TestTokenFromStartURL(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantID string
		wantOK bool
	}{
		{name: "Success_Bare", raw: "https://api.pay.jp/v1/tds/tds_foo/start", wantID: "tds_foo", wantOK: true},
		{name: "Success_WithQuery", raw: "https://api.pay.jp/v1/tds/tds_foo/start?publickey=pk&back=shop", wantID: "tds_foo", wantOK: true},
		{name: "Success_HostCaseInsensitive", raw: "https://API.PAY.JP/v1/tds/tds_foo/start", wantID: "tds_foo", wantOK: true},
		{name: "Error_FinishPage", raw: "https://api.pay.jp/v1/tds/tds_foo/finish"},
		{name: "Error_UnknownHost", raw: "https://example.com/v1/tds/tds_foo/start"},
		{name: "Error_OtherScheme", raw: "http://api.pay.jp/v1/tds/tds_foo/start"},
		{name: "Error_MissingID", raw: "https://api.pay.jp/v1/tds//start"},
		{name: "Error_ExtraSegments", raw: "https://api.pay.jp/v1/tds/tds_foo/start/again"},
		{name: "Error_OutsideBasePath", raw: "https://api.pay.jp/tds/tds_foo/start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := TokenFromStartURL(tt.raw, testBaseURL)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.NotNil(t, token)
				assert.Equal(t, tt.wantID, token.ID)
			} else {
				assert.Nil(t, token)
			}
		})
	}
}
