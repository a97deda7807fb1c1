package services

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenCache(t *testing.T) {
	newCache := func(t *testing.T) *TokenCache {
		t.Helper()
		cache, err := NewTokenCache(filepath.Join(t.TempDir(), "token.json"))
		if err != nil {
			t.Fatalf("NewTokenCache() error: %v", err)
		}
		return cache
	}

	t.Run("missing file loads as nil without error", func(t *testing.T) {
		cache := newCache(t)

		token, err := cache.Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if token != nil {
			t.Errorf("Load() = %+v, want nil", token)
		}
	})

	t.Run("round trips a token", func(t *testing.T) {
		cache := newCache(t)

		saved := &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
			Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
		}
		if err := cache.Save(saved); err != nil {
			t.Fatalf("Save() error: %v", err)
		}

		loaded, err := cache.Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if loaded == nil {
			t.Fatal("Load() = nil after Save")
		}
		if loaded.AccessToken != saved.AccessToken || loaded.RefreshToken != saved.RefreshToken {
			t.Errorf("loaded token differs: %+v", loaded)
		}
	})

	t.Run("save creates parent directories", func(t *testing.T) {
		cache, err := NewTokenCache(filepath.Join(t.TempDir(), "nested", "dir", "token.json"))
		if err != nil {
			t.Fatalf("NewTokenCache() error: %v", err)
		}
		if err := cache.Save(&oauth2.Token{AccessToken: "x"}); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	})

	t.Run("tokens are stored owner-only", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("file modes are not meaningful on windows")
		}
		cache := newCache(t)
		if err := cache.Save(&oauth2.Token{AccessToken: "x"}); err != nil {
			t.Fatalf("Save() error: %v", err)
		}

		info, err := os.Stat(cache.Path())
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("token file mode = %o, want 600", perm)
		}
	})

	t.Run("delete removes the token", func(t *testing.T) {
		cache := newCache(t)
		if err := cache.Save(&oauth2.Token{AccessToken: "x"}); err != nil {
			t.Fatalf("Save() error: %v", err)
		}

		if err := cache.Delete(); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		token, err := cache.Load()
		if err != nil || token != nil {
			t.Errorf("Load() after Delete = %v, %v", token, err)
		}
	})

	t.Run("deleting a missing token is fine", func(t *testing.T) {
		cache := newCache(t)
		if err := cache.Delete(); err != nil {
			t.Errorf("Delete() error: %v", err)
		}
	})
}
