// Package gateway is the HTTP client for the remote tokenization API.
package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/allisson/cardtoken/internal/card/domain"
	apperrors "github.com/allisson/cardtoken/internal/errors"
	"github.com/allisson/cardtoken/internal/metrics"
	"github.com/allisson/cardtoken/internal/threeds"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api.pay.jp/v1/"

	defaultUserAgent = "cardtoken/1.0"
	maxResponseBytes = 1 << 20
)

// Endpoint labels for request metrics.
const (
	endpointCreateToken    = "create_token"
	endpointCreateTokenTDS = "create_token_tds"
	endpointFinishTDS      = "finish_token_tds"
	endpointGetToken       = "get_token"
	endpointAcceptedBrands = "accepted_brands"
)

// Config holds the gateway client settings.
type Config struct {
	BaseURL   string
	PublicKey string
	// TenantID selects a platform tenant; empty for regular accounts.
	TenantID  string
	Timeout   time.Duration
	UserAgent string
	// RateLimit is the maximum requests per second; zero disables throttling.
	RateLimit      float64
	RateLimitBurst int
	// AcceptedBrandsTTL is how long accepted brands are cached; zero disables the cache.
	AcceptedBrandsTTL time.Duration
}

type requestIDKey struct{}

// WithRequestID returns a context whose gateway calls carry id as X-Request-Id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type cachedBrands struct {
	brands    []domain.Brand
	expiresAt time.Time
}

// Client calls the tokenization API.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retriever  *threeds.Retriever
	logger     *slog.Logger
	metrics    metrics.GatewayMetrics
	now        func() time.Time

	brandsGroup singleflight.Group
	brandsMu    sync.Mutex
	brandsCache map[string]cachedBrands
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithMetrics records outbound request metrics.
func WithMetrics(m metrics.GatewayMetrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithClock replaces the clock used for cache expiry.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config, logger *slog.Logger, opts ...ClientOption) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		cfg:         cfg,
		baseURL:     cfg.BaseURL,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		limiter:     rate.NewLimiter(limit, burst),
		retriever:   threeds.NewRetriever(cfg.BaseURL),
		logger:      logger,
		metrics:     metrics.NewNoOpGatewayMetrics(),
		now:         time.Now,
		brandsCache: make(map[string]cachedBrands),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateToken tokenizes a validated card. When the gateway answers with a 3-D Secure
// continuation the returned error is a *ThreeDSecureRequiredError.
func (c *Client) CreateToken(ctx context.Context, req domain.TokenizationRequest) (*domain.Token, error) {
	form := url.Values{}
	form.Set("card[number]", req.Number)
	form.Set("card[cvc]", req.CVC)
	form.Set("card[exp_month]", req.Expiration.Month())
	form.Set("card[exp_year]", req.Expiration.Year())
	if req.HolderName != "" {
		form.Set("card[name]", req.HolderName)
	}
	tenant := req.TenantID
	if tenant == "" {
		tenant = c.cfg.TenantID
	}
	if tenant != "" {
		form.Set("tenant", tenant)
	}
	if req.Email != "" {
		form.Set("card[email]", req.Email)
	}
	if req.Phone != "" {
		form.Set("card[phone]", req.Phone)
	}
	if req.HasThreeDSecureAttributes() {
		form.Set("three_d_secure", "true")
	}

	resp, err := c.do(ctx, endpointCreateToken, http.MethodPost, "tokens", form)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	tdsToken, err := c.retriever.Retrieve(resp)
	if err != nil {
		return nil, err
	}
	if tdsToken != nil {
		c.logger.Info("3-D Secure required",
			slog.String("tds_token", tdsToken.ID),
			slog.String("last4", req.Last4()),
		)
		return nil, &ThreeDSecureRequiredError{Token: *tdsToken}
	}

	return c.decodeToken(resp)
}

// CreateTokenFromThreeDSecure exchanges a completed 3-D Secure token for a card token.
func (c *Client) CreateTokenFromThreeDSecure(ctx context.Context, tdsTokenID string) (*domain.Token, error) {
	form := url.Values{}
	form.Set("three_d_secure_token", tdsTokenID)
	if c.cfg.TenantID != "" {
		form.Set("tenant", c.cfg.TenantID)
	}

	resp, err := c.do(ctx, endpointCreateTokenTDS, http.MethodPost, "tokens", form)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	return c.decodeToken(resp)
}

// FinishTokenThreeDSecure finalizes the 3-D Secure flow of a token.
func (c *Client) FinishTokenThreeDSecure(ctx context.Context, tokenID string) (*domain.Token, error) {
	resp, err := c.do(ctx, endpointFinishTDS, http.MethodPost, "tokens/"+url.PathEscape(tokenID)+"/tds_finish", url.Values{})
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	return c.decodeToken(resp)
}

// GetToken fetches a token by id.
func (c *Client) GetToken(ctx context.Context, tokenID string) (*domain.Token, error) {
	resp, err := c.do(ctx, endpointGetToken, http.MethodGet, "tokens/"+url.PathEscape(tokenID), nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	return c.decodeToken(resp)
}

// GetAcceptedBrands returns the brands the account (or tenant) accepts. Concurrent
// calls for the same tenant share one request and results are cached for
// AcceptedBrandsTTL.
func (c *Client) GetAcceptedBrands(ctx context.Context, tenantID string) ([]domain.Brand, error) {
	if tenantID == "" {
		tenantID = c.cfg.TenantID
	}

	if brands, ok := c.cachedBrands(tenantID); ok {
		return brands, nil
	}

	// The shared fetch outlives any single caller; each caller only stops waiting.
	ch := c.brandsGroup.DoChan(tenantID, func() (any, error) {
		fetchCtx, cancel := c.detachedContext(ctx)
		defer cancel()

		brands, err := c.fetchAcceptedBrands(fetchCtx, tenantID)
		if err != nil {
			return nil, err
		}
		c.storeBrands(tenantID, brands)
		return brands, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		brands := res.Val.([]domain.Brand)
		return append([]domain.Brand(nil), brands...), nil
	}
}

// detachedContext keeps the values of ctx (such as the request id) but not its
// cancellation, bounded by the client timeout when one is set.
func (c *Client) detachedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if c.cfg.Timeout > 0 {
		return context.WithTimeout(detached, c.cfg.Timeout)
	}
	return context.WithCancel(detached)
}

func (c *Client) fetchAcceptedBrands(ctx context.Context, tenantID string) ([]domain.Brand, error) {
	path := "accounts/brands"
	if tenantID != "" {
		path += "?" + url.Values{"tenant": {tenantID}}.Encode()
	}

	resp, err := c.do(ctx, endpointAcceptedBrands, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var decoded acceptedBrandsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnknownResponse, "failed to decode accepted brands")
	}

	brands := make([]domain.Brand, 0, len(decoded.CardTypesSupported))
	for _, name := range decoded.CardTypesSupported {
		brand, ok := domain.ParseBrandName(name)
		if !ok {
			c.logger.Warn("ignoring unknown brand", slog.String("brand", name))
			continue
		}
		brands = append(brands, brand)
	}
	return brands, nil
}

func (c *Client) cachedBrands(tenantID string) ([]domain.Brand, bool) {
	if c.cfg.AcceptedBrandsTTL <= 0 {
		return nil, false
	}

	c.brandsMu.Lock()
	defer c.brandsMu.Unlock()

	entry, ok := c.brandsCache[tenantID]
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, false
	}
	return append([]domain.Brand(nil), entry.brands...), true
}

func (c *Client) storeBrands(tenantID string, brands []domain.Brand) {
	if c.cfg.AcceptedBrandsTTL <= 0 {
		return
	}

	c.brandsMu.Lock()
	defer c.brandsMu.Unlock()

	c.brandsCache[tenantID] = cachedBrands{
		brands:    brands,
		expiresAt: c.now().Add(c.cfg.AcceptedBrandsTTL),
	}
}

// do sends a request. form is sent url-encoded for POST and ignored otherwise.
// endpoint is the low-cardinality label used for metrics.
func (c *Client) do(ctx context.Context, endpoint, method, path string, form url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrTransport, err.Error())
	}

	var body io.Reader
	if method == http.MethodPost {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrTransport, err.Error())
	}
	req.SetBasicAuth(c.cfg.PublicKey, "")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Idempotency-Key", uuid.Must(uuid.NewV7()).String())
	}
	if id := RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("gateway request failed",
			slog.String("method", method),
			slog.String("path", req.URL.Path),
			slog.Any("error", err),
		)
		c.metrics.RecordRequest(ctx, endpoint, 0, c.now().Sub(start))
		return nil, apperrors.Wrap(apperrors.ErrTransport, err.Error())
	}

	c.metrics.RecordRequest(ctx, endpoint, resp.StatusCode, c.now().Sub(start))
	c.logger.Debug("gateway request",
		slog.String("method", method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", c.now().Sub(start)),
	)
	return resp, nil
}

func (c *Client) decodeToken(resp *http.Response) (*domain.Token, error) {
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var decoded tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnknownResponse, "failed to decode token")
	}
	if decoded.ID == "" {
		return nil, apperrors.Wrap(apperrors.ErrUnknownResponse, "token without id")
	}
	return decoded.toDomain(), nil
}

// checkStatus turns non-2xx responses into *APIError, or ErrUnknownResponse when the
// error body cannot be parsed.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	var decoded errorResponse
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded.Error == nil {
		return apperrors.Wrapf(apperrors.ErrUnknownResponse, "status %s", strconv.Itoa(resp.StatusCode))
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       decoded.Error.Code,
		Message:    decoded.Error.Message,
		Param:      decoded.Error.Param,
		Type:       decoded.Error.Type,
		Body:       raw,
	}
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
}
