package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Spotify.RedirectURI != "http://127.0.0.1:8080/callback" {
		t.Errorf("RedirectURI = %q", config.Spotify.RedirectURI)
	}
	if config.Sync.PlaylistFormat != "[%Y] %B" {
		t.Errorf("PlaylistFormat = %q", config.Sync.PlaylistFormat)
	}
	if config.Sync.Public {
		t.Error("new playlists should default to private")
	}
	if config.Server.Host != "127.0.0.1" || config.Server.Port != 8080 {
		t.Errorf("Server = %+v", config.Server)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("parses a valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[spotify]
client_id = "abc"
client_secret = "def"
redirect_uri = "http://localhost:9999/cb"

[sync]
playlist_format = "%B %Y"
public = true
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error: %v", err)
		}
		if config.Spotify.ClientID != "abc" {
			t.Errorf("ClientID = %q", config.Spotify.ClientID)
		}
		if config.Sync.PlaylistFormat != "%B %Y" {
			t.Errorf("PlaylistFormat = %q", config.Sync.PlaylistFormat)
		}
		if !config.Sync.Public {
			t.Error("public flag not read")
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("malformed toml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[spotify\nbroken"), 0644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error")
		}
	})
}

func TestApplyEnv(t *testing.T) {
	config := DefaultConfig()
	config.Spotify.ClientID = "from-file"

	t.Setenv(EnvClientID, "from-env")
	t.Setenv(EnvClientSecret, "secret-env")
	t.Setenv(EnvRedirectURI, "")

	config.ApplyEnv()

	if config.Spotify.ClientID != "from-env" {
		t.Errorf("environment should win over file, got %q", config.Spotify.ClientID)
	}
	if config.Spotify.ClientSecret != "secret-env" {
		t.Errorf("ClientSecret = %q", config.Spotify.ClientSecret)
	}
	if config.Spotify.RedirectURI == "" {
		t.Error("unset env var should not clear the file value")
	}
}

func TestSpotifyConfigValidate(t *testing.T) {
	t.Run("complete credentials pass", func(t *testing.T) {
		s := SpotifyConfig{ClientID: "a", ClientSecret: "b", RedirectURI: "c"}
		if err := s.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("missing credentials are all named", func(t *testing.T) {
		s := SpotifyConfig{RedirectURI: "c"}
		err := s.Validate()
		if err == nil {
			t.Fatal("expected error")
		}
		if !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("error should wrap ErrMissingCredentials, got %v", err)
		}
		for _, name := range []string{EnvClientID, EnvClientSecret} {
			if !strings.Contains(err.Error(), name) {
				t.Errorf("error %q should name %s", err, name)
			}
		}
		if strings.Contains(err.Error(), EnvRedirectURI) {
			t.Errorf("error %q names a variable that is set", err)
		}
	})
}

func TestHistoryPath(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		config := DefaultConfig()
		config.History.Path = "/tmp/custom.db"

		path, err := config.HistoryPath()
		if err != nil {
			t.Fatalf("HistoryPath() error: %v", err)
		}
		if path != "/tmp/custom.db" {
			t.Errorf("path = %q", path)
		}
	})

	t.Run("defaults under the user config dir", func(t *testing.T) {
		config := DefaultConfig()

		path, err := config.HistoryPath()
		if err != nil {
			t.Fatalf("HistoryPath() error: %v", err)
		}
		if !strings.HasSuffix(path, filepath.Join("monthlify", "history.db")) {
			t.Errorf("path = %q", path)
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile() error: %v", err)
	}

	if _, err := LoadConfig(path); err != nil {
		t.Errorf("created file should load back: %v", err)
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("overwriting an existing config should fail")
	}
}
