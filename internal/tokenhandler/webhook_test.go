package tokenhandler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cardtoken/internal/card/domain"
)

func TestWebhookHandler_HandleToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verified := domain.ThreeDSecureVerified
	token := &domain.Token{
		ID: "tok_abc",
		Card: domain.Card{
			Brand:              domain.BrandVisa,
			Last4:              "4242",
			ThreeDSecureStatus: &verified,
		},
	}

	tests := []struct {
		name        string
		status      int
		body        string
		wantSuccess bool
		wantMessage string
	}{
		{name: "Success_2xx", status: http.StatusOK, wantSuccess: true},
		{name: "Success_204", status: http.StatusNoContent, wantSuccess: true},
		{
			name:        "Error_MessageFromBody",
			status:      http.StatusUnprocessableEntity,
			body:        `{"message":"order already paid"}`,
			wantMessage: "order already paid",
		},
		{
			name:        "Error_DefaultMessage",
			status:      http.StatusInternalServerError,
			body:        "oops",
			wantMessage: defaultFailureMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var payload webhookRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				assert.Equal(t, "tok_abc", payload.TokenID)
				assert.Equal(t, "Visa", payload.Brand)
				assert.Equal(t, "4242", payload.Last4)
				assert.Equal(t, "verified", payload.ThreeDSecureStatus)

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			handler := NewWebhookHandler(server.Client(), server.URL, logger)
			status := handler.HandleToken(context.Background(), token)

			assert.Equal(t, tt.wantSuccess, status.IsSuccess())
			assert.Equal(t, tt.wantMessage, status.Message)
		})
	}

	t.Run("Error_Unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		handler := NewWebhookHandler(nil, url, logger)
		status := handler.HandleToken(context.Background(), token)

		assert.Equal(t, Failure(defaultFailureMessage), status)
	})
}
