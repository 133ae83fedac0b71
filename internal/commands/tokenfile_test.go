package commands

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbridge/zenapi/pkg/oauth"
)

func TestTokenFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	tok := &oauth.Token{
		AccessToken:  "at",
		RefreshToken: "rt",
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}

	require.NoError(t, saveToken(path, tok))

	got, err := loadToken(path)
	require.NoError(t, err)
	assert.Equal(t, tok.AccessToken, got.AccessToken)
	assert.Equal(t, tok.RefreshToken, got.RefreshToken)
	assert.Equal(t, tok.TokenType, got.TokenType)
	assert.True(t, got.ExpiresAt.Equal(tok.ExpiresAt))
}

func TestTokenFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, saveToken(path, &oauth.Token{AccessToken: "at"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadTokenMissingFile(t *testing.T) {
	_, err := loadToken(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadTokenMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := loadToken(path)
	require.Error(t, err)
}

func TestTokenPathPrefersEnv(t *testing.T) {
	t.Setenv("ZENAPI_TOKEN_FILE", "/tmp/custom-token.json")

	path, err := tokenPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-token.json", path)
}
