// Package config provides layered configuration loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the backend origin used when nothing else is configured.
const DefaultBaseURL = "http://localhost:8000"

// DefaultTimeout bounds every API request.
const DefaultTimeout = 10 * time.Second

// Config holds the resolved configuration.
type Config struct {
	// API settings
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	WithCredentials bool          `yaml:"with_credentials"`

	// Output settings
	Format string `yaml:"format"`

	// Logging
	LogLevel string `yaml:"log_level"`
	DevMode  bool   `yaml:"dev_mode"`

	// ConfigDir holds credentials.json when the keyring is unavailable.
	ConfigDir string `yaml:"-"`

	// Sources tracks where each value came from (for debugging).
	Sources map[string]string `yaml:"-"`
}

// fileConfig mirrors Config with pointers so absent keys can be told apart
// from zero values.
type fileConfig struct {
	BaseURL         *string `yaml:"base_url"`
	Timeout         *string `yaml:"timeout"`
	WithCredentials *bool   `yaml:"with_credentials"`
	Format          *string `yaml:"format"`
	LogLevel        *string `yaml:"log_level"`
	DevMode         *bool   `yaml:"dev_mode"`
}

// Source indicates where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceSystem  Source = "system"
	SourceGlobal  Source = "global"
	SourceDotEnv  Source = "dotenv"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// FlagOverrides holds command-line flag values.
type FlagOverrides struct {
	BaseURL string
	Timeout time.Duration
	Format  string
}

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{
		BaseURL:         DefaultBaseURL,
		Timeout:         DefaultTimeout,
		WithCredentials: true,
		Format:          "auto",
		LogLevel:        "warn",
		ConfigDir:       GlobalConfigDir(),
		Sources:         make(map[string]string),
	}
	for _, key := range []string{"base_url", "timeout", "with_credentials", "format", "log_level", "dev_mode"} {
		cfg.Sources[key] = string(SourceDefault)
	}
	return cfg
}

// Load loads configuration from all sources with proper precedence.
// Precedence: flags > env > .env > global > system > defaults
func Load(overrides FlagOverrides) (*Config, error) {
	cfg := Default()

	loadFromFile(cfg, systemConfigPath(), SourceSystem)
	loadFromFile(cfg, globalConfigPath(), SourceGlobal)

	if err := LoadDotEnv(cfg, os.Getwd); err != nil {
		return nil, fmt.Errorf("reading .env: %w", err)
	}
	LoadFromEnv(cfg, os.Getenv, SourceEnv)
	ApplyOverrides(cfg, overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string, source Source) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is from trusted config locations
	if err != nil {
		return // File doesn't exist, skip
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		fmt.Fprintf(os.Stderr, "warning: skipping malformed config at %s: %v\n", path, err)
		return
	}

	if fc.BaseURL != nil && *fc.BaseURL != "" {
		cfg.BaseURL = *fc.BaseURL
		cfg.Sources["base_url"] = string(source)
	}
	if fc.Timeout != nil && *fc.Timeout != "" {
		if d, err := parseTimeout(*fc.Timeout); err == nil {
			cfg.Timeout = d
			cfg.Sources["timeout"] = string(source)
		} else {
			fmt.Fprintf(os.Stderr, "warning: ignoring timeout %q in %s: %v\n", *fc.Timeout, path, err)
		}
	}
	if fc.WithCredentials != nil {
		cfg.WithCredentials = *fc.WithCredentials
		cfg.Sources["with_credentials"] = string(source)
	}
	if fc.Format != nil && *fc.Format != "" {
		cfg.Format = *fc.Format
		cfg.Sources["format"] = string(source)
	}
	if fc.LogLevel != nil && *fc.LogLevel != "" {
		cfg.LogLevel = *fc.LogLevel
		cfg.Sources["log_level"] = string(source)
	}
	if fc.DevMode != nil {
		cfg.DevMode = *fc.DevMode
		cfg.Sources["dev_mode"] = string(source)
	}
}

// LoadDotEnv applies a .env file from the working directory, if present.
// Values from the process environment are applied afterwards and win.
func LoadDotEnv(cfg *Config, getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))
	switch {
	case err == nil:
		LoadFromEnv(cfg, func(key string) string { return envMap[key] }, SourceDotEnv)
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

// LoadFromEnv loads configuration from environment variables.
// The NEXT_PUBLIC_* names are accepted so a web frontend's .env can be reused.
func LoadFromEnv(cfg *Config, getenv func(string) string, source Source) {
	set := func(key string, apply func(string) bool) {
		if v := strings.TrimSpace(getenv(key)); v != "" && apply(v) {
			cfg.Sources[configKeyFor(key)] = string(source)
		}
	}

	setBaseURL := func(v string) bool { cfg.BaseURL = v; return true }
	setDevMode := func(v string) bool {
		b, ok := parseEnvBool(v)
		if ok {
			cfg.DevMode = b
		}
		return ok
	}

	// Fallback names first so the native names override them.
	set("NEXT_PUBLIC_API_BASE_URL", setBaseURL)
	set("NEXT_PUBLIC_DEV_MODE", setDevMode)

	set("GLOBALPRINT_API_BASE_URL", setBaseURL)
	set("GLOBALPRINT_DEV_MODE", setDevMode)
	set("GLOBALPRINT_TIMEOUT", func(v string) bool {
		d, err := parseTimeout(v)
		if err != nil {
			return false
		}
		cfg.Timeout = d
		return true
	})
	set("GLOBALPRINT_WITH_CREDENTIALS", func(v string) bool {
		b, ok := parseEnvBool(v)
		if ok {
			cfg.WithCredentials = b
		}
		return ok
	})
	set("GLOBALPRINT_FORMAT", func(v string) bool { cfg.Format = v; return true })
	set("GLOBALPRINT_LOG_LEVEL", func(v string) bool { cfg.LogLevel = strings.ToLower(v); return true })
}

func configKeyFor(envKey string) string {
	switch envKey {
	case "NEXT_PUBLIC_API_BASE_URL", "GLOBALPRINT_API_BASE_URL":
		return "base_url"
	case "NEXT_PUBLIC_DEV_MODE", "GLOBALPRINT_DEV_MODE":
		return "dev_mode"
	default:
		return strings.ToLower(strings.TrimPrefix(envKey, "GLOBALPRINT_"))
	}
}

// parseEnvBool parses a boolean environment variable strictly.
// Returns (value, true) for recognized values, (false, false) for unrecognized.
func parseEnvBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// parseTimeout accepts Go durations ("15s") or a bare number of milliseconds.
func parseTimeout(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("timeout must be positive")
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}
	return d, nil
}

// ApplyOverrides applies non-empty flag overrides to cfg.
func ApplyOverrides(cfg *Config, o FlagOverrides) {
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
		cfg.Sources["base_url"] = string(SourceFlag)
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
		cfg.Sources["timeout"] = string(SourceFlag)
	}
	if o.Format != "" {
		cfg.Format = o.Format
		cfg.Sources["format"] = string(SourceFlag)
	}
}

// Validate normalizes the base URL and rejects unusable values.
func (cfg *Config) Validate() error {
	normalized, err := NormalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return err
	}
	if err := RequireSecureURL(normalized, cfg.DevMode); err != nil {
		return err
	}
	cfg.BaseURL = normalized

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	case "warning":
		cfg.LogLevel = "warn"
	default:
		return fmt.Errorf("invalid log_level %q (want debug, info, warn or error)", cfg.LogLevel)
	}
	return nil
}

// Origin returns the key credentials are stored under for this config.
func (cfg *Config) Origin() string {
	return strings.TrimSuffix(cfg.BaseURL, "/")
}

// Path helpers

func systemConfigPath() string {
	return "/etc/globalprint/config.yaml"
}

func globalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}

// GlobalConfigPath returns the path of the user's config file.
func GlobalConfigPath() string {
	return globalConfigPath()
}

// GlobalConfigDir returns the global config directory path.
func GlobalConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "globalprint")
}
