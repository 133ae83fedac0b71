package httpext

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestDoJSONHeaders(t *testing.T) {
	var gotAuth, gotContentType, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		if _, err := w.Write([]byte(`{"ok":true}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	tr := NewTransport(nil)
	if err := tr.DoJSON(context.Background(), http.MethodPost, srv.URL, map[string]string{"a": "b"}, &out, "secret-token"); err != nil {
		t.Fatalf("DoJSON() error = %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret-token")
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
	if !out.OK {
		t.Error("response was not decoded")
	}
}

func TestDoJSONWithoutTokenOmitsAuthorization(t *testing.T) {
	var sawAuthHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuthHeader = r.Header["Authorization"]
		if _, err := w.Write([]byte(`{}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	tr := NewTransport(nil)
	if err := tr.DoJSON(context.Background(), http.MethodGet, srv.URL, nil, nil, ""); err != nil {
		t.Fatalf("DoJSON() error = %v", err)
	}
	if sawAuthHeader {
		t.Error("Authorization header was sent for an unauthenticated request")
	}
}

func TestDoFormBasicAuthAndBody(t *testing.T) {
	var gotUser, gotPass string
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		gotForm = r.PostForm
		if _, err := w.Write([]byte(`{"access_token":"abc"}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", "the-code")

	var out struct {
		AccessToken string `json:"access_token"`
	}
	tr := NewTransport(nil)
	if err := tr.DoForm(context.Background(), srv.URL, form, "client-id", "client-secret", &out); err != nil {
		t.Fatalf("DoForm() error = %v", err)
	}

	if gotUser != "client-id" || gotPass != "client-secret" {
		t.Errorf("basic auth = %q/%q, want client-id/client-secret", gotUser, gotPass)
	}
	if gotForm.Get("grant_type") != "authorization_code" {
		t.Errorf("grant_type = %q", gotForm.Get("grant_type"))
	}
	if gotForm.Get("code") != "the-code" {
		t.Errorf("code = %q", gotForm.Get("code"))
	}
	if out.AccessToken != "abc" {
		t.Errorf("access_token = %q, want abc", out.AccessToken)
	}
}
