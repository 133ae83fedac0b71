package httpext

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultTimeout = 30 * time.Second

// Transport executes single HTTP requests with JSON encoding and bearer
// authentication. Retry policy is the caller's concern, never this layer's.
type Transport struct {
	client *http.Client
}

// NewTransport wraps an http.Client. A nil client gets a default with a
// 30 second timeout.
func NewTransport(client *http.Client) *Transport {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Transport{client: client}
}

// DoJSON sends a single request with an optional JSON body and decodes a 2xx
// response into out. A non-empty accessToken is sent as a bearer credential.
// Non-2xx responses are classified into *AuthError (401/403) or *APIError;
// network and codec failures become *TransportError.
func (t *Transport) DoJSON(ctx context.Context, method, endpoint string, in, out any, accessToken string) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("encoding request body: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	return t.send(req, endpoint, out)
}

// DoForm sends a single application/x-www-form-urlencoded POST with HTTP
// Basic client authentication and decodes a 2xx response into out. Token
// endpoints expect this shape rather than JSON.
func (t *Transport) DoForm(ctx context.Context, endpoint string, form url.Values, username, password string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(username, password)

	return t.send(req, endpoint, out)
}

func (t *Transport) send(req *http.Request, endpoint string, out any) error {
	resp, err := t.client.Do(req)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classify(endpoint, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// classify turns a non-2xx response into a typed error carrying the status
// and raw body.
func classify(endpoint string, resp *http.Response) error {
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		log.Debug().Err(readErr).Str("endpoint", endpoint).Msg("Failed to read error response body")
	}

	var oauthErr ErrorResponse
	_ = json.Unmarshal(body, &oauthErr)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		log.Debug().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Msg("Request rejected as unauthorized")
		return &AuthError{
			Endpoint:    endpoint,
			StatusCode:  resp.StatusCode,
			Code:        oauthErr.Error,
			Description: oauthErr.ErrorDescription,
			Body:        string(body),
		}
	default:
		return &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
}
