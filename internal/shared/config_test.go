package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}

		if config.Playlist.Name != "AI Generated Playlist" {
			t.Errorf("expected playlist name 'AI Generated Playlist', got %s", config.Playlist.Name)
		}

		if !config.Playlist.Public {
			t.Error("expected generated playlists to be public by default")
		}

		if config.Spotify.LikedLimit != 100 {
			t.Errorf("expected liked limit 100, got %d", config.Spotify.LikedLimit)
		}

		if config.Completion.Count != 5 {
			t.Errorf("expected completion count 5, got %d", config.Completion.Count)
		}

		if config.Completion.MalformedLines != "keep" {
			t.Errorf("expected malformed_lines keep, got %s", config.Completion.MalformedLines)
		}

		if config.Server.Timeout().Seconds() != 30 {
			t.Errorf("expected 30s timeout, got %v", config.Server.Timeout())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Spotify.APIURL != DefaultConfig().Spotify.APIURL {
			t.Errorf("created config api url doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig TOML", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[server]
port = 8080

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[playlist]
search_workers = 1
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Playlist.SearchWorkers != 1 {
			t.Errorf("expected 1 search worker, got %d", config.Playlist.SearchWorkers)
		}
		if config.Playlist.Name != "AI Generated Playlist" {
			t.Errorf("expected unset keys to keep defaults, got playlist name %q", config.Playlist.Name)
		}
	})

	t.Run("LoadConfig YAML", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")

		testConfig := `server:
  port: 9090
completion:
  model: gpt-4o-mini
  malformed_lines: discard
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Port != 9090 {
			t.Errorf("expected server port 9090, got %d", config.Server.Port)
		}
		if config.Completion.Model != "gpt-4o-mini" {
			t.Errorf("expected model gpt-4o-mini, got %s", config.Completion.Model)
		}
		if config.Completion.MalformedLines != "discard" {
			t.Errorf("expected malformed_lines discard, got %s", config.Completion.MalformedLines)
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")
		if err := os.WriteFile(configPath, []byte("[server\nport = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SPOTIFY_CLIENT_ID":     "env_id",
		"SPOTIFY_CLIENT_SECRET": "env_secret",
		"OPENAI_API_KEY":        "sk-env",
		"PORT":                  "7000",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	t.Run("Overrides", func(t *testing.T) {
		config := DefaultConfig()
		if err := config.ApplyEnv(lookup); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "env_id" {
			t.Errorf("expected env_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.OpenAI.APIKey != "sk-env" {
			t.Errorf("expected sk-env, got %s", config.Credentials.OpenAI.APIKey)
		}
		if config.Server.Port != 7000 {
			t.Errorf("expected port 7000, got %d", config.Server.Port)
		}
		if config.Completion.Model != "gpt-4" {
			t.Errorf("expected unset OPENAI_MODEL to keep default, got %s", config.Completion.Model)
		}
	})

	t.Run("Invalid Port", func(t *testing.T) {
		config := DefaultConfig()
		err := config.ApplyEnv(func(key string) (string, bool) {
			if key == "PORT" {
				return "abc", true
			}
			return "", false
		})
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("Missing File", func(t *testing.T) {
		if err := LoadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("expected missing .env to be ignored, got %v", err)
		}
	})

	t.Run("Loads Values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("TASTEMAKER_TEST_VALUE=from-dotenv\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("TASTEMAKER_TEST_VALUE") })

		if err := LoadEnvFile(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := os.Getenv("TASTEMAKER_TEST_VALUE"); got != "from-dotenv" {
			t.Errorf("expected from-dotenv, got %q", got)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := DefaultConfig()
		c.Credentials.Spotify.ClientID = "id"
		c.Credentials.Spotify.ClientSecret = "secret"
		c.Credentials.OpenAI.APIKey = "sk"
		return c
	}

	tc := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "valid", mutate: func(*Config) {}, want: nil},
		{name: "missing client id", mutate: func(c *Config) { c.Credentials.Spotify.ClientID = "" }, want: ErrMissingCredentials},
		{name: "missing api key", mutate: func(c *Config) { c.Credentials.OpenAI.APIKey = "" }, want: ErrMissingCredentials},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, want: ErrInvalidConfig},
		{name: "bad malformed mode", mutate: func(c *Config) { c.Completion.MalformedLines = "explode" }, want: ErrInvalidConfig},
		{name: "bad match score", mutate: func(c *Config) { c.Playlist.MinMatchScore = 1.5 }, want: ErrInvalidConfig},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
