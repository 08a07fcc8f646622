// Package config handles the XDG configuration directory, file paths and
// layered settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "quill"

	// ConfigFile is the optional YAML settings file.
	ConfigFile = "config.yaml"

	// EnvFile is the optional dotenv file read after ConfigFile.
	EnvFile = ".env"

	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "QUILL_"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Backends.
const (
	BackendHTTP        = "http"
	BackendGoogleTasks = "googletasks"
)

// Defaults.
const (
	DefaultServerURL        = "http://127.0.0.1:5000"
	DefaultStorage          = "file"
	DefaultAutosaveInterval = 5 * time.Second
	DefaultReminderInterval = 30 * time.Second
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`

	// Backend selects the remote service implementation.
	Backend string `yaml:"backend" validate:"oneof=http googletasks"`

	// ServerURL is the base URL of the http backend.
	ServerURL string `yaml:"server_url" validate:"omitempty,url"`

	// Storage selects the local key/value driver.
	Storage string `yaml:"storage" validate:"oneof=file sqlite memory"`

	// AutosaveInterval is the draft autosave period while composing.
	AutosaveInterval time.Duration `yaml:"autosave_interval" validate:"gt=0"`

	// ReminderInterval is the reminder polling period.
	ReminderInterval time.Duration `yaml:"reminder_interval" validate:"gt=0"`

	// Editor is the command used by compose. Empty means $VISUAL, $EDITOR, vi.
	Editor string `yaml:"editor"`
}

// Default returns a Config with default settings rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Dir:              dir,
		Backend:          BackendHTTP,
		ServerURL:        DefaultServerURL,
		Storage:          DefaultStorage,
		AutosaveInterval: DefaultAutosaveInterval,
		ReminderInterval: DefaultReminderInterval,
	}
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/quill or $HOME/.config/quill.
// Settings are layered: defaults, config.yaml, .env, then QUILL_*
// environment variables. Missing files are skipped.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := Default(dir)

	if err := cfg.loadYAML(); err != nil {
		return nil, err
	}

	dotenv, err := godotenv.Read(filepath.Join(dir, EnvFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("invalid %s: %w", EnvFile, err)
	}
	if err := cfg.apply(func(key string) (string, bool) {
		v, ok := dotenv[key]
		return v, ok
	}); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvFile, err)
	}

	if err := cfg.apply(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
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

var validate = validator.New()

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.Backend == BackendHTTP && strings.TrimSpace(c.ServerURL) == "" {
		return errors.New("invalid server_url: required for the http backend")
	}
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("invalid %s: %v", yamlKey(fe.StructField()), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func (c *Config) loadYAML() error {
	data, err := os.ReadFile(filepath.Join(c.Dir, ConfigFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return nil
}

// apply overrides settings from QUILL_* variables found by lookup.
func (c *Config) apply(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("BACKEND", &c.Backend)
	str("SERVER_URL", &c.ServerURL)
	str("STORAGE", &c.Storage)
	str("EDITOR", &c.Editor)
	if err := dur("AUTOSAVE_INTERVAL", &c.AutosaveInterval); err != nil {
		return err
	}
	return dur("REMINDER_INTERVAL", &c.ReminderInterval)
}

func yamlKey(field string) string {
	switch field {
	case "ServerURL":
		return "server_url"
	case "AutosaveInterval":
		return "autosave_interval"
	case "ReminderInterval":
		return "reminder_interval"
	default:
		return strings.ToLower(field)
	}
}

// EditorCommand returns the editor to launch for compose.
func (c *Config) EditorCommand() string {
	for _, e := range []string{c.Editor, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if e = strings.TrimSpace(e); e != "" {
			return e
		}
	}
	return "vi"
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
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

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
