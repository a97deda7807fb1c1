package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// TokenCache persists an OAuth token between runs so the browser flow only
// happens on the first invocation. Tokens are stored as plain JSON in the
// user config directory.
type TokenCache struct {
	path string
}

// NewTokenCache returns a cache rooted at the user config directory. A
// non-empty path overrides the default location.
func NewTokenCache(path string) (*TokenCache, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config directory: %w", err)
		}

		path = filepath.Join(dir, "monthlify", "token.json")
	}

	return &TokenCache{path: path}, nil
}

// Path returns the location of the cached token file.
func (c *TokenCache) Path() string {
	return c.path
}

// Load reads the cached token. A missing file is not an error; both return
// values are nil.
func (c *TokenCache) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading token cache: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parsing token cache %s: %w", c.path, err)
	}

	return &token, nil
}

// Save writes the token with owner-only permissions.
func (c *TokenCache) Save(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating token cache directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing token cache: %w", err)
	}

	return nil
}

// Delete removes the cached token. Deleting a cache that does not exist is
// not an error.
func (c *TokenCache) Delete() error {
	err := os.Remove(c.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token cache: %w", err)
	}

	return nil
}
