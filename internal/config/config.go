// Package config handles the configuration directory, the config file and
// the paths of the files stored next to it.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	// AppName is the application directory name.
	AppName = "tasksync"

	// ConfigFile is the TOML configuration filename.
	ConfigFile = "config.toml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// LogFile is the diagnostics log filename.
	LogFile = "tasksync.log"

	// EnvEndpoint overrides the endpoint from the config file.
	EnvEndpoint = "TASKSYNC_ENDPOINT"
)

// Auth modes.
const (
	AuthOAuth = "oauth"
	AuthNone  = "none"
)

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ErrNoEndpoint is returned when no task store endpoint is configured.
var ErrNoEndpoint = errors.New("no endpoint configured")

// ErrInvalid wraps every other Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Endpoint is the task store URL every request is posted to.
	Endpoint string

	// Theme selects the terminal UI palette.
	Theme string

	// Auth selects the session provider: "oauth" or "none".
	Auth string

	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// fileConfig is the on-disk shape of config.toml.
type fileConfig struct {
	Endpoint string `toml:"endpoint"`
	Theme    string `toml:"theme"`
	Auth     string `toml:"auth"`
	Timeout  string `toml:"timeout"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasksync or $HOME/.config/tasksync.
// The config file is read when present; TASKSYNC_ENDPOINT overrides its endpoint.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:   dir,
		Theme: ThemeDark,
		Auth:  AuthOAuth,
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	if env := strings.TrimSpace(os.Getenv(EnvEndpoint)); env != "" {
		cfg.Endpoint = env
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) load() error {
	data, err := os.ReadFile(c.ConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", ConfigFile, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if fc.Endpoint != "" {
		c.Endpoint = strings.TrimSpace(fc.Endpoint)
	}
	if fc.Theme != "" {
		c.Theme = fc.Theme
	}
	if fc.Auth != "" {
		c.Auth = fc.Auth
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", fc.Timeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks the settings needed to talk to the task store.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrNoEndpoint
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: endpoint %s", ErrInvalid, c.Endpoint)
	}
	switch c.Auth {
	case AuthOAuth, AuthNone:
	default:
		return fmt.Errorf("%w: auth mode %s", ErrInvalid, c.Auth)
	}
	switch c.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("%w: theme %s", ErrInvalid, c.Theme)
	}
	return nil
}

// Save writes the current endpoint, theme, auth and timeout to config.toml.
func (c *Config) Save() error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	fc := fileConfig{
		Endpoint: c.Endpoint,
		Theme:    c.Theme,
		Auth:     c.Auth,
	}
	if c.Timeout > 0 {
		fc.Timeout = c.Timeout.String()
	}
	data, err := toml.Marshal(fc)
	if err != nil {
		return err
	}
	return os.WriteFile(c.ConfigPath(), data, 0600)
}

// Log returns the configured logger, or one that discards everything.
func (c *Config) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// ConfigPath returns the path to config.toml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// LogPath returns the path to the diagnostics log.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}
