package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/finbridge/zenapi/internal/config"
	"github.com/finbridge/zenapi/pkg/oauth"
)

// The library never touches disk; the CLI persists the token pair across
// runs as a mode-0600 JSON file.

func tokenPath() (string, error) {
	if p := config.GetTokenFile(); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".zenapi", "token.json"), nil
}

func loadToken(path string) (*oauth.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parsing token file %s: %w", path, err)
	}
	return &tok, nil
}

func saveToken(path string, tok *oauth.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}
