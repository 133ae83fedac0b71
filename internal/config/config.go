// Package config reads the client's deployment configuration from the
// environment. Endpoints are fixed per deployment, not per call.
package config

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/finbridge/zenapi/pkg/oauth"
	"github.com/finbridge/zenapi/pkg/zenapi"
)

// GetClientID returns the registered OAuth2 client ID.
func GetClientID() string {
	return GetEnvOrDefault("ZENAPI_CLIENT_ID", "")
}

// GetClientSecret returns the registered OAuth2 client secret.
func GetClientSecret() string {
	return GetEnvOrDefault("ZENAPI_CLIENT_SECRET", "")
}

// GetRedirectURI returns the registered OAuth2 redirect URI.
func GetRedirectURI() string {
	return GetEnvOrDefault("ZENAPI_REDIRECT_URI", "http://localhost:8080/callback")
}

// GetAuthURL returns the authorization endpoint.
func GetAuthURL() string {
	return GetEnvOrDefault("ZENAPI_AUTH_URL", oauth.DefaultAuthURL)
}

// GetTokenURL returns the token endpoint.
func GetTokenURL() string {
	return GetEnvOrDefault("ZENAPI_TOKEN_URL", oauth.DefaultTokenURL)
}

// GetAPIBaseURL returns the sync API root.
func GetAPIBaseURL() string {
	return GetEnvOrDefault("ZENAPI_API_URL", zenapi.DefaultBaseURL)
}

// GetTokenFile returns the path where the CLI persists the token pair, or
// an empty string to use the per-user default.
func GetTokenFile() string {
	return GetEnvOrDefault("ZENAPI_TOKEN_FILE", "")
}

// OAuthConfig assembles the oauth client configuration from the
// environment.
func OAuthConfig() oauth.Config {
	return oauth.Config{
		ClientID:     GetClientID(),
		ClientSecret: GetClientSecret(),
		RedirectURI:  GetRedirectURI(),
		AuthURL:      GetAuthURL(),
		TokenURL:     GetTokenURL(),
	}
}

// LogLevel maps the LOG_LEVEL environment variable onto a zerolog level,
// defaulting to info.
func LogLevel() zerolog.Level {
	switch strings.ToUpper(GetEnvOrDefault("LOG_LEVEL", "INFO")) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
