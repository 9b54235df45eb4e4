package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML or YAML file.
//
// It is built once at startup and handed to constructors by pointer; nothing mutates it afterwards.
type Config struct {
	LogLevel    string            `toml:"log_level" yaml:"log_level"`
	Credentials CredentialsConfig `toml:"credentials" yaml:"credentials"`
	Server      ServerConfig      `toml:"server" yaml:"server"`
	Spotify     SpotifyAPIConfig  `toml:"spotify" yaml:"spotify"`
	Completion  CompletionConfig  `toml:"completion" yaml:"completion"`
	Playlist    PlaylistConfig    `toml:"playlist" yaml:"playlist"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify" yaml:"spotify"`
	OpenAI  OpenAIConfig  `toml:"openai" yaml:"openai"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id" yaml:"client_id"`
	ClientSecret string `toml:"client_secret" yaml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri" yaml:"redirect_uri"`
}

// OpenAIConfig contains the completion API key.
type OpenAIConfig struct {
	APIKey string `toml:"api_key" yaml:"api_key"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host           string   `toml:"host" yaml:"host"`
	Port           int      `toml:"port" yaml:"port"`
	FrontendURL    string   `toml:"frontend_url" yaml:"frontend_url"`
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
	TimeoutSeconds int      `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// SpotifyAPIConfig contains Spotify endpoints and request defaults.
type SpotifyAPIConfig struct {
	APIURL     string   `toml:"api_url" yaml:"api_url"`
	AuthURL    string   `toml:"auth_url" yaml:"auth_url"`
	TokenURL   string   `toml:"token_url" yaml:"token_url"`
	Scopes     []string `toml:"scopes" yaml:"scopes"`
	LikedLimit int      `toml:"liked_limit" yaml:"liked_limit"`
}

// CompletionConfig contains settings for the text-completion API.
type CompletionConfig struct {
	BaseURL        string `toml:"base_url" yaml:"base_url"`
	Model          string `toml:"model" yaml:"model"`
	Count          int    `toml:"count" yaml:"count"`
	MalformedLines string `toml:"malformed_lines" yaml:"malformed_lines"`
}

// PlaylistConfig controls how generated playlists are created and populated.
type PlaylistConfig struct {
	Name              string  `toml:"name" yaml:"name"`
	Description       string  `toml:"description" yaml:"description"`
	Public            bool    `toml:"public" yaml:"public"`
	SearchWorkers     int     `toml:"search_workers" yaml:"search_workers"`
	SearchRate        float64 `toml:"search_rate" yaml:"search_rate"`
	MinMatchScore     float64 `toml:"min_match_score" yaml:"min_match_score"`
	RollbackOnFailure bool    `toml:"rollback_on_failure" yaml:"rollback_on_failure"`
}

// Timeout returns the outbound request timeout as a [time.Duration].
func (s ServerConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads a configuration file from the specified path on top of [DefaultConfig].
//
// Files ending in .yaml or .yml are parsed as YAML, everything else as TOML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = toml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFile loads variables from a dotenv file into the process environment.
//
// A missing file is not an error; existing environment variables are never overwritten.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides file values with environment variables, using lookup to read them.
//
// Pass [os.LookupEnv] in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SPOTIFY_CLIENT_ID":     &c.Credentials.Spotify.ClientID,
		"SPOTIFY_CLIENT_SECRET": &c.Credentials.Spotify.ClientSecret,
		"SPOTIFY_REDIRECT_URI":  &c.Credentials.Spotify.RedirectURI,
		"OPENAI_API_KEY":        &c.Credentials.OpenAI.APIKey,
		"OPENAI_MODEL":          &c.Completion.Model,
		"FRONTEND_URL":          &c.Server.FrontendURL,
		"LOG_LEVEL":             &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT must be a number, got %q", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}

	return nil
}

// Validate reports missing credentials or out-of-range settings.
func (c *Config) Validate() error {
	var missing []string
	if c.Credentials.Spotify.ClientID == "" {
		missing = append(missing, "credentials.spotify.client_id")
	}
	if c.Credentials.Spotify.ClientSecret == "" {
		missing = append(missing, "credentials.spotify.client_secret")
	}
	if c.Credentials.OpenAI.APIKey == "" {
		missing = append(missing, "credentials.openai.api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	switch c.Completion.MalformedLines {
	case "", "keep", "discard":
	default:
		return fmt.Errorf("%w: completion.malformed_lines must be keep or discard", ErrInvalidConfig)
	}

	if c.Playlist.MinMatchScore < 0 || c.Playlist.MinMatchScore > 1 {
		return fmt.Errorf("%w: playlist.min_match_score must be within [0, 1]", ErrInvalidConfig)
	}

	return nil
}
