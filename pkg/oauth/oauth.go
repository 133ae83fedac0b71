// Package oauth implements the three-legged OAuth2 flow against the
// ZenMoney authorization and token endpoints: building the authorization
// URL, exchanging an authorization code for a token pair, and refreshing
// an expired token.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/finbridge/zenapi/pkg/httpext"
)

const (
	// DefaultAuthURL is the ZenMoney authorization endpoint.
	DefaultAuthURL = "https://api.zenmoney.ru/oauth2/authorize/"
	// DefaultTokenURL is the ZenMoney token endpoint.
	DefaultTokenURL = "https://api.zenmoney.ru/oauth2/token/"
)

// Config holds the OAuth2 application registration. It is immutable after
// client construction. Endpoint URLs default to the ZenMoney pair.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
}

func (c Config) withDefaults() Config {
	if c.AuthURL == "" {
		c.AuthURL = DefaultAuthURL
	}
	if c.TokenURL == "" {
		c.TokenURL = DefaultTokenURL
	}
	return c
}

// Token is an access/refresh token pair. The library never persists it;
// persistence across process restarts is the caller's responsibility.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the access token is missing or expires within
// the given leeway. Tokens without a known expiry never report expired.
func (t *Token) Expired(leeway time.Duration) bool {
	if t == nil || t.AccessToken == "" {
		return true
	}
	if t.ExpiresAt.IsZero() {
		return false
	}
	return time.Until(t.ExpiresAt) < leeway
}

// Client manages a single token pair against one endpoint configuration.
// It is safe for concurrent use; concurrent refresh attempts are coalesced
// into a single request to the token endpoint.
type Client struct {
	cfg       Config
	transport *httpext.Transport

	mu      sync.RWMutex
	token   *Token
	refresh singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client, typically to set a
// custom timeout or proxy.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.transport = httpext.NewTransport(hc)
	}
}

// NewClient creates an unauthenticated client. The caller must run the
// authorization-code flow (AuthorizationURL then FetchToken) before any
// authenticated request can succeed.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:       cfg.withDefaults(),
		transport: httpext.NewTransport(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientWithToken creates a client pre-seeded with a token pair obtained
// in a previous session, skipping the authorization-code step.
func NewClientWithToken(cfg Config, token *Token, opts ...Option) *Client {
	c := NewClient(cfg, opts...)
	c.SetToken(token)
	return c
}

// AuthorizationURL builds the URL the end user must visit to authorize the
// application. Pure function of the configuration; no network call.
func (c *Client) AuthorizationURL(state string) string {
	u, err := url.Parse(c.cfg.AuthURL)
	if err != nil {
		// Config endpoints are fixed per deployment; a broken one is a
		// programming error discovered on first use.
		log.Error().Err(err).Str("auth_url", c.cfg.AuthURL).Msg("Invalid authorization endpoint")
		return ""
	}
	q := u.Query()
	q.Set("client_id", c.cfg.ClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", c.cfg.RedirectURI)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchToken exchanges an authorization code for a token pair and stores it
// on the client. A rejected code surfaces as *httpext.AuthError and leaves
// any previously stored token untouched.
func (c *Client) FetchToken(ctx context.Context, code string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURI)

	tok, err := c.requestToken(ctx, form)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()

	log.Debug().Time("expires_at", tok.ExpiresAt).Msg("Obtained token pair from authorization code")
	return snapshot(tok), nil
}

// RefreshToken mints a new token pair from the stored refresh token and
// replaces the stored pair atomically. The server may rotate the refresh
// token; when it omits one, the previous refresh token is kept. Concurrent
// callers share one in-flight refresh, so a burst of expired requests
// produces exactly one call to the token endpoint.
func (c *Client) RefreshToken(ctx context.Context) (*Token, error) {
	v, err, _ := c.refresh.Do("refresh", func() (any, error) {
		c.mu.RLock()
		var current string
		if c.token != nil {
			current = c.token.RefreshToken
		}
		c.mu.RUnlock()

		if current == "" {
			return nil, &httpext.AuthError{
				Endpoint:    c.cfg.TokenURL,
				Description: "no refresh token held",
			}
		}

		form := url.Values{}
		form.Set("grant_type", "refresh_token")
		form.Set("refresh_token", current)

		tok, err := c.requestToken(ctx, form)
		if err != nil {
			return nil, err
		}
		if tok.RefreshToken == "" {
			tok.RefreshToken = current
		}

		c.mu.Lock()
		c.token = tok
		c.mu.Unlock()

		log.Debug().Time("expires_at", tok.ExpiresAt).Msg("Refreshed token pair")
		return tok, nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot(v.(*Token)), nil
}

// Token returns a snapshot of the stored token pair, or nil when
// unauthenticated. Readers never observe a partially updated pair.
func (c *Client) Token() *Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return snapshot(c.token)
}

// SetToken replaces the stored token pair, e.g. with one reloaded from the
// caller's persistence.
func (c *Client) SetToken(token *Token) {
	c.mu.Lock()
	c.token = snapshot(token)
	c.mu.Unlock()
}

// AccessToken returns the current bearer credential, or the empty string
// when unauthenticated.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == nil {
		return ""
	}
	return c.token.AccessToken
}

// requestToken performs one POST to the token endpoint. Any 4xx answer is
// an authorization failure regardless of the exact status the server chose.
func (c *Client) requestToken(ctx context.Context, form url.Values) (*Token, error) {
	var tok Token
	err := c.transport.DoForm(ctx, c.cfg.TokenURL, form, c.cfg.ClientID, c.cfg.ClientSecret, &tok)
	if err != nil {
		var apiErr *httpext.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			var oauthErr httpext.ErrorResponse
			parseErrorBody(apiErr.Body, &oauthErr)
			return nil, &httpext.AuthError{
				Endpoint:    apiErr.Endpoint,
				StatusCode:  apiErr.StatusCode,
				Code:        oauthErr.Error,
				Description: oauthErr.ErrorDescription,
				Body:        apiErr.Body,
			}
		}
		return nil, err
	}

	if tok.AccessToken == "" {
		return nil, &httpext.AuthError{
			Endpoint:    c.cfg.TokenURL,
			Description: "token endpoint returned no access_token",
		}
	}
	if tok.TokenType == "" {
		tok.TokenType = "Bearer"
	}
	if tok.ExpiresIn > 0 {
		tok.ExpiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return &tok, nil
}

// parseErrorBody best-effort decodes an RFC 6749 error body; a body in any
// other shape just leaves out zeroed.
func parseErrorBody(body string, out *httpext.ErrorResponse) {
	_ = json.Unmarshal([]byte(body), out)
}

func snapshot(t *Token) *Token {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
