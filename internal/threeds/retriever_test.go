package threeds

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/cardtoken/internal/errors"
)

const testBaseURL = "https://api.pay.jp/v1/"

func newResponse(method, url string, status int, body string) *http.Response {
	req := httptest.NewRequest(method, url, nil)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func TestRetriever_Retrieve(t *testing.T) {
	retriever := NewRetriever(testBaseURL)
	tokensURL := testBaseURL + "tokens"
	tdsBody := `{"object":"three_d_secure_token","id":"tds_foo"}`

	tests := []struct {
		name      string
		method    string
		url       string
		status    int
		body      string
		wantToken *Token
		wantErr   bool
	}{
		{
			name:      "Success_ThreeDSecureToken",
			method:    http.MethodPost,
			url:       tokensURL,
			status:    http.StatusOK,
			body:      tdsBody,
			wantToken: &Token{ID: "tds_foo"},
		},
		{
			name:      "Success_Created",
			method:    http.MethodPost,
			url:       tokensURL,
			status:    http.StatusCreated,
			body:      `{"object":"three_d_secure_token","id":"tds_bar","status":"unverified"}`,
			wantToken: &Token{ID: "tds_bar"},
		},
		{name: "Success_GetIsIgnored", method: http.MethodGet, url: tokensURL, status: http.StatusOK, body: tdsBody},
		{name: "Success_RedirectStatusIsIgnored", method: http.MethodPost, url: tokensURL, status: http.StatusSeeOther, body: tdsBody},
		{name: "Success_ErrorStatusIsIgnored", method: http.MethodPost, url: tokensURL, status: http.StatusBadRequest, body: tdsBody},
		{name: "Success_OtherPathIsIgnored", method: http.MethodPost, url: testBaseURL + "charges", status: http.StatusOK, body: tdsBody},
		{name: "Success_SubPathIsIgnored", method: http.MethodPost, url: tokensURL + "/tok_1/tds_finish", status: http.StatusOK, body: tdsBody},
		{
			name:   "Success_RegularToken",
			method: http.MethodPost,
			url:    tokensURL,
			status: http.StatusOK,
			body:   `{"object":"token","id":"tok_123","card":{"brand":"Visa"}}`,
		},
		{name: "Success_NotJSON", method: http.MethodPost, url: tokensURL, status: http.StatusOK, body: "<html></html>"},
		{name: "Success_JSONArray", method: http.MethodPost, url: tokensURL, status: http.StatusOK, body: `[1,2]`},
		{name: "Success_JSONNull", method: http.MethodPost, url: tokensURL, status: http.StatusOK, body: `null`},
		{
			name:    "Error_UnknownObject",
			method:  http.MethodPost,
			url:     tokensURL,
			status:  http.StatusOK,
			body:    `{"object":"charge","id":"ch_1"}`,
			wantErr: true,
		},
		{
			name:    "Error_MissingObject",
			method:  http.MethodPost,
			url:     tokensURL,
			status:  http.StatusOK,
			body:    `{"id":"tds_foo"}`,
			wantErr: true,
		},
		{
			name:    "Error_ThreeDSecureTokenWithoutID",
			method:  http.MethodPost,
			url:     tokensURL,
			status:  http.StatusOK,
			body:    `{"object":"three_d_secure_token"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := newResponse(tt.method, tt.url, tt.status, tt.body)

			token, err := retriever.Retrieve(resp)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnrecognizedResource)
				assert.True(t, apperrors.Is(err, apperrors.ErrUnknownResponse))
				assert.Nil(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}

			// The body must still be fully readable by the regular response handling.
			rest, readErr := io.ReadAll(resp.Body)
			require.NoError(t, readErr)
			assert.Equal(t, tt.body, string(rest))
			assert.NoError(t, resp.Body.Close())
		})
	}

	t.Run("Success_NilResponse", func(t *testing.T) {
		token, err := retriever.Retrieve(nil)
		assert.NoError(t, err)
		assert.Nil(t, token)
	})

	t.Run("Success_OversizedBodyIsRestored", func(t *testing.T) {
		body := `{"object":"three_d_secure_token","id":"tds_big","pad":"` + strings.Repeat("x", MaxPeekBytes) + `"}`
		resp := newResponse(http.MethodPost, tokensURL, http.StatusOK, body)

		token, err := retriever.Retrieve(resp)

		require.NoError(t, err)
		assert.Nil(t, token)
		rest, readErr := io.ReadAll(resp.Body)
		require.NoError(t, readErr)
		assert.Equal(t, len(body), len(rest))
	})

	t.Run("Success_BaseWithoutTrailingSlash", func(t *testing.T) {
		r := NewRetriever("https://api.pay.jp/v1")
		resp := newResponse(http.MethodPost, tokensURL, http.StatusOK, tdsBody)

		token, err := r.Retrieve(resp)

		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, "tds_foo", token.ID)
		assert.Equal(t, tokensURL, r.TokensURL())
	})
}
