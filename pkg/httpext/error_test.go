package httpext

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantAuth   bool
		wantAPI    bool
		wantCode   string
		wantInBody string
	}{
		{
			name:     "unauthorized with oauth body",
			status:   http.StatusUnauthorized,
			body:     `{"error":"invalid_token","error_description":"expired"}`,
			wantAuth: true,
			wantCode: "invalid_token",
		},
		{
			name:     "forbidden",
			status:   http.StatusForbidden,
			body:     `{"error":"insufficient_scope"}`,
			wantAuth: true,
			wantCode: "insufficient_scope",
		},
		{
			name:       "bad request is an api error",
			status:     http.StatusBadRequest,
			body:       `{"message":"malformed diff"}`,
			wantAPI:    true,
			wantInBody: "malformed diff",
		},
		{
			name:       "server error is an api error",
			status:     http.StatusInternalServerError,
			body:       "upstream exploded",
			wantAPI:    true,
			wantInBody: "upstream exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if _, err := w.Write([]byte(tt.body)); err != nil {
					t.Errorf("writing response: %v", err)
				}
			}))
			defer srv.Close()

			tr := NewTransport(nil)
			err := tr.DoJSON(context.Background(), http.MethodPost, srv.URL+"/diff/", map[string]any{}, nil, "tok")
			if err == nil {
				t.Fatal("expected an error")
			}

			var authErr *AuthError
			if got := errors.As(err, &authErr); got != tt.wantAuth {
				t.Errorf("errors.As AuthError = %v, want %v (err: %v)", got, tt.wantAuth, err)
			}
			if tt.wantAuth {
				if authErr.StatusCode != tt.status {
					t.Errorf("StatusCode = %d, want %d", authErr.StatusCode, tt.status)
				}
				if authErr.Code != tt.wantCode {
					t.Errorf("Code = %q, want %q", authErr.Code, tt.wantCode)
				}
			}

			var apiErr *APIError
			if got := errors.As(err, &apiErr); got != tt.wantAPI {
				t.Errorf("errors.As APIError = %v, want %v (err: %v)", got, tt.wantAPI, err)
			}
			if tt.wantAPI {
				if apiErr.StatusCode != tt.status {
					t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
				}
				if !strings.Contains(apiErr.Body, tt.wantInBody) {
					t.Errorf("Body = %q, want it to contain %q", apiErr.Body, tt.wantInBody)
				}
			}
		})
	}
}

func TestConnectionFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	tr := NewTransport(nil)
	err := tr.DoJSON(context.Background(), http.MethodGet, srv.URL, nil, nil, "")
	if err == nil {
		t.Fatal("expected an error")
	}

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if transportErr.Unwrap() == nil {
		t.Error("expected a wrapped cause")
	}
}

func TestMalformedResponseIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("not json at all")); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	var out map[string]any
	tr := NewTransport(nil)
	err := tr.DoJSON(context.Background(), http.MethodGet, srv.URL, nil, &out, "")

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
}
