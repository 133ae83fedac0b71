package zenapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/finbridge/zenapi/pkg/httpext"
)

// Suggestion is a free-form transaction sketch sent to or returned by the
// suggest endpoint. The only field the server insists on is "payee"; the
// response mirrors the request with categorization fields filled in.
type Suggestion map[string]any

// SuggestOne asks for a categorization hint for a single payee sketch.
// Some server builds answer a single object with a one-element list; both
// shapes are accepted.
func (c *Client) SuggestOne(ctx context.Context, tx Suggestion) (Suggestion, error) {
	var raw json.RawMessage
	if err := c.do(ctx, c.suggestURL(), tx, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []Suggestion
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, &httpext.TransportError{Endpoint: c.suggestURL(), Err: err}
		}
		if len(list) == 0 {
			return nil, &ValidationError{Kind: "suggest", Err: errors.New("empty suggestion list for a single request")}
		}
		return list[0], nil
	}

	var one Suggestion
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, &httpext.TransportError{Endpoint: c.suggestURL(), Err: err}
	}
	return one, nil
}

// Suggest asks for categorization hints for an ordered sequence of payee
// sketches; the response is a parallel sequence of the same length and
// order.
func (c *Client) Suggest(ctx context.Context, txs []Suggestion) ([]Suggestion, error) {
	var out []Suggestion
	if err := c.do(ctx, c.suggestURL(), txs, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) suggestURL() string {
	return c.baseURL + "/suggest/"
}
