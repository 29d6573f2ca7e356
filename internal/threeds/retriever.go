package threeds

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	apperrors "github.com/allisson/cardtoken/internal/errors"
)

// MaxPeekBytes bounds how much of a response body the Retriever buffers.
const MaxPeekBytes = 1 << 20

// Resource names the gateway uses in the "object" field of a response envelope.
const (
	ObjectThreeDSecureToken = "three_d_secure_token"
	ObjectToken             = "token"
)

// ErrUnrecognizedResource indicates a success response shaped like a resource envelope
// whose object name is missing or unknown.
var ErrUnrecognizedResource = apperrors.Wrap(apperrors.ErrUnknownResponse, "unrecognized resource object")

type envelope struct {
	Object string `json:"object"`
	ID     string `json:"id"`
}

// Retriever inspects token creation responses for an embedded 3-D Secure token.
type Retriever struct {
	tokensURL string
}

// NewRetriever creates a Retriever for the gateway rooted at baseURL.
func NewRetriever(baseURL string) *Retriever {
	return &Retriever{tokensURL: ensureTrailingSlash(baseURL) + "tokens"}
}

// TokensURL returns the token creation endpoint the Retriever matches.
func (r *Retriever) TokensURL() string {
	return r.tokensURL
}

// Retrieve returns the 3-D Secure token carried by resp, or nil when the response is
// not a successful POST to the token endpoint or does not carry one. The response body
// is left readable from the start. An error is returned only for a JSON object with a
// missing or unknown "object" name.
func (r *Retriever) Retrieve(resp *http.Response) (*Token, error) {
	if resp == nil || resp.Request == nil || resp.Request.URL == nil {
		return nil, nil
	}
	if resp.Request.Method != http.MethodPost || resp.Request.URL.String() != r.tokensURL {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || resp.Body == nil {
		return nil, nil
	}

	prefix, err := peekBody(resp, MaxPeekBytes)
	if err != nil {
		return nil, nil
	}

	// Only a JSON object counts as an envelope; anything else is simply not ours.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(prefix, &fields); err != nil || fields == nil {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(prefix, &env); err != nil {
		return nil, apperrors.Wrap(ErrUnrecognizedResource, err.Error())
	}

	switch env.Object {
	case ObjectThreeDSecureToken:
		if env.ID == "" {
			return nil, apperrors.Wrap(ErrUnrecognizedResource, "three_d_secure_token without id")
		}
		return &Token{ID: env.ID}, nil
	case ObjectToken:
		return nil, nil
	case "":
		return nil, ErrUnrecognizedResource
	default:
		return nil, apperrors.Wrapf(ErrUnrecognizedResource, "object %q", env.Object)
	}
}

// peekBody reads up to limit bytes and puts them back in front of the remaining body.
func peekBody(resp *http.Response, limit int64) ([]byte, error) {
	original := resp.Body
	prefix, err := io.ReadAll(io.LimitReader(original, limit))
	resp.Body = &replayBody{
		Reader: io.MultiReader(bytes.NewReader(prefix), original),
		closer: original,
	}
	if err != nil {
		return nil, err
	}
	return prefix, nil
}

type replayBody struct {
	io.Reader
	closer io.Closer
}

func (b *replayBody) Close() error {
	return b.closer.Close()
}
