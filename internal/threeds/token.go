// Package threeds recovers 3-D Secure continuation tokens from gateway traffic and
// builds the URLs that drive the challenge.
package threeds

import (
	"net/url"
	"strings"

	apperrors "github.com/allisson/cardtoken/internal/errors"
)

const (
	startSegment  = "start"
	finishSegment = "finish"
	tdsSegment    = "tds"
)

// ErrInvalidURLConfig indicates the base URL or public key needed to build a challenge
// URL is missing or malformed.
var ErrInvalidURLConfig = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid 3-D Secure url configuration")

// Token is an opaque 3-D Secure continuation token ("tds_...").
type Token struct {
	ID string
}

// URLConfig holds what the challenge URLs are derived from.
type URLConfig struct {
	// BaseURL is the gateway API root, e.g. "https://api.pay.jp/v1/".
	BaseURL string
	// PublicKey authenticates the browser-side start request.
	PublicKey string
	// RedirectName is the registered redirect the gateway returns to, if any.
	RedirectName string
}

func (c URLConfig) base() (*url.URL, error) {
	if c.BaseURL == "" {
		return nil, ErrInvalidURLConfig
	}
	u, err := url.Parse(ensureTrailingSlash(c.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, ErrInvalidURLConfig
	}
	return u, nil
}

// StartURL returns "{base}tds/{id}/start?publickey=...[&back=...]".
func (t Token) StartURL(cfg URLConfig) (string, error) {
	if cfg.PublicKey == "" {
		return "", ErrInvalidURLConfig
	}
	base, err := cfg.base()
	if err != nil {
		return "", err
	}

	u := base.JoinPath(tdsSegment, t.ID, startSegment)
	query := url.Values{}
	query.Set("publickey", cfg.PublicKey)
	if cfg.RedirectName != "" {
		query.Set("back", cfg.RedirectName)
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// FinishURL returns "{base}tds/{id}/finish", the page the gateway navigates to when
// the challenge is over.
func (t Token) FinishURL(baseURL string) (string, error) {
	base, err := URLConfig{BaseURL: baseURL}.base()
	if err != nil {
		return "", err
	}
	return base.JoinPath(tdsSegment, t.ID, finishSegment).String(), nil
}

// IsFinishURL reports whether raw points at this token's finish page. Query and
// fragment are ignored.
func (t Token) IsFinishURL(raw, baseURL string) bool {
	finish, err := t.FinishURL(baseURL)
	if err != nil {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String() == finish
}

// TokenFromStartURL extracts the token id from a navigation to
// "{base}tds/{id}/start". The host must match baseURL; no body is needed.
func TokenFromStartURL(raw, baseURL string) (*Token, bool) {
	base, err := URLConfig{BaseURL: baseURL}.base()
	if err != nil {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil || !strings.EqualFold(u.Host, base.Host) || u.Scheme != base.Scheme {
		return nil, false
	}

	rest, ok := strings.CutPrefix(u.Path, base.Path)
	if !ok {
		return nil, false
	}
	segments := strings.Split(strings.Trim(rest, "/"), "/")
	if len(segments) != 3 || segments[0] != tdsSegment || segments[2] != startSegment || segments[1] == "" {
		return nil, false
	}
	return &Token{ID: segments[1]}, true
}

func ensureTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
