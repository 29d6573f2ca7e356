package tokenhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/allisson/cardtoken/internal/card/domain"
)

const (
	maxWebhookResponseBytes = 64 << 10
	defaultFailureMessage   = "token was rejected"
)

type webhookRequest struct {
	TokenID            string `json:"token_id"`
	Brand              string `json:"brand"`
	Last4              string `json:"last4"`
	ThreeDSecureStatus string `json:"three_d_secure_status,omitempty"`
	Livemode           bool   `json:"livemode"`
}

type webhookResponse struct {
	Message string `json:"message"`
}

// WebhookHandler forwards token ids to a merchant endpoint. A 2xx answer is a success;
// anything else is a failure whose message is taken from the JSON body when present.
type WebhookHandler struct {
	client   *http.Client
	endpoint string
	logger   *slog.Logger
}

// NewWebhookHandler creates a handler posting to endpoint. A nil client uses a
// client with a 10s timeout.
func NewWebhookHandler(client *http.Client, endpoint string, logger *slog.Logger) *WebhookHandler {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookHandler{client: client, endpoint: endpoint, logger: logger}
}

// HandleToken implements Handler.
func (h *WebhookHandler) HandleToken(ctx context.Context, token *domain.Token) Status {
	payload := webhookRequest{
		TokenID:  token.ID,
		Brand:    token.Card.Brand.WireName(),
		Last4:    token.Card.Last4,
		Livemode: token.Livemode,
	}
	if token.Card.ThreeDSecureStatus != nil {
		payload.ThreeDSecureStatus = string(*token.Card.ThreeDSecureStatus)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Failure(defaultFailureMessage)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		h.logger.Error("failed to build token webhook request", slog.Any("error", err))
		return Failure(defaultFailureMessage)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warn("token webhook request failed",
			slog.String("token_id", token.ID),
			slog.Any("error", err),
		)
		return Failure(defaultFailureMessage)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Success()
	}

	var decoded webhookResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxWebhookResponseBytes))
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded.Message == "" {
		return Failure(defaultFailureMessage)
	}
	return Failure(decoded.Message)
}
