// Package zenapi is a client for the ZenMoney-style personal finance sync
// API: a bidirectional diff endpoint exchanging local and server changes,
// and a suggest endpoint answering categorization hints for payees.
package zenapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/finbridge/zenapi/pkg/httpext"
	"github.com/finbridge/zenapi/pkg/oauth"
	"github.com/finbridge/zenapi/pkg/ratelimit"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.zenmoney.ru/v8"

// ErrRateLimited is returned when the client-side limiter rejects a call
// before it reaches the server.
var ErrRateLimited = errors.New("client-side rate limit exceeded")

// Client exposes the two domain endpoints with transparent
// refresh-and-retry on authorization failures.
type Client struct {
	auth      *oauth.Client
	transport *httpext.Transport
	baseURL   string
	limiter   *ratelimit.Limiter
	validate  bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root, typically an
// httptest server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.transport = httpext.NewTransport(hc)
	}
}

// WithRateLimiter installs a client-side throttle checked per endpoint
// before each call. When the limiter rejects, the call fails fast with
// ErrRateLimited instead of burning a server-side quota hit.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithoutValidation disables schema validation of decoded responses.
func WithoutValidation() Option {
	return func(c *Client) {
		c.validate = false
	}
}

// NewClient builds a client on top of an authorized oauth.Client.
func NewClient(auth *oauth.Client, opts ...Option) *Client {
	c := &Client{
		auth:      auth,
		transport: httpext.NewTransport(nil),
		baseURL:   DefaultBaseURL,
		validate:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateWithToken builds a client pre-seeded with a token pair persisted
// from a previous session.
func CreateWithToken(cfg oauth.Config, token *oauth.Token, opts ...Option) *Client {
	return NewClient(oauth.NewClientWithToken(cfg, token), opts...)
}

// Token returns a snapshot of the current token pair so the caller can
// persist a rotation performed during a call.
func (c *Client) Token() *oauth.Token {
	return c.auth.Token()
}

// GetDiff posts local changes and returns the server's changes. A nil
// payload requests a full pull: the request carries only the client
// timestamp. Resubmitting already-acknowledged local changes is not
// idempotent server-side; callers must track the returned
// ServerTimestamp before resending.
func (c *Client) GetDiff(ctx context.Context, local *Diff) (*Diff, error) {
	payload := local
	if payload == nil {
		payload = &Diff{CurrentClientTimestamp: time.Now().Unix()}
	} else if payload.CurrentClientTimestamp == 0 {
		cp := *payload
		cp.CurrentClientTimestamp = time.Now().Unix()
		payload = &cp
	}

	var out Diff
	if err := c.do(ctx, c.baseURL+"/diff/", payload, &out); err != nil {
		return nil, err
	}
	if c.validate {
		if err := validateDiff(&out); err != nil {
			return nil, err
		}
	}
	log.Debug().
		Int64("server_timestamp", out.ServerTimestamp).
		Int("transactions", len(out.Transaction)).
		Int("accounts", len(out.Account)).
		Msg("Diff sync completed")
	return &out, nil
}

// do executes one authenticated POST with the refresh-and-retry policy:
// attempt, classify, and on an authorization failure refresh the token
// once and retry once. A second authorization failure surfaces to the
// caller; there is never a third attempt.
func (c *Client) do(ctx context.Context, endpoint string, in, out any) error {
	if c.limiter != nil && !c.limiter.Allow(endpoint) {
		return fmt.Errorf("%w: %s", ErrRateLimited, endpoint)
	}

	err := c.transport.DoJSON(ctx, http.MethodPost, endpoint, in, out, c.auth.AccessToken())
	var authErr *httpext.AuthError
	if !errors.As(err, &authErr) {
		return err
	}

	log.Debug().
		Str("endpoint", endpoint).
		Int("status", authErr.StatusCode).
		Msg("Authorization rejected, refreshing token for a single retry")

	if _, refreshErr := c.auth.RefreshToken(ctx); refreshErr != nil {
		return refreshErr
	}
	return c.transport.DoJSON(ctx, http.MethodPost, endpoint, in, out, c.auth.AccessToken())
}
