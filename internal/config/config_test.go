package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable LoadFromEnv reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NEXT_PUBLIC_API_BASE_URL", "NEXT_PUBLIC_DEV_MODE",
		"GLOBALPRINT_API_BASE_URL", "GLOBALPRINT_DEV_MODE", "GLOBALPRINT_TIMEOUT",
		"GLOBALPRINT_WITH_CREDENTIALS", "GLOBALPRINT_FORMAT", "GLOBALPRINT_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.True(t, cfg.WithCredentials)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "default", cfg.Sources["base_url"])
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `base_url: https://shop.example.com
timeout: 15s
with_credentials: false
format: json
log_level: debug
dev_mode: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := Default()
	loadFromFile(cfg, path, SourceGlobal)

	assert.Equal(t, "https://shop.example.com", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.False(t, cfg.WithCredentials)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "global", cfg.Sources["base_url"])
	assert.Equal(t, "global", cfg.Sources["with_credentials"])
}

func TestLoadFromFilePartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: quiet\n"), 0o644))

	cfg := Default()
	loadFromFile(cfg, path, SourceSystem)

	assert.Equal(t, "quiet", cfg.Format)
	assert.Equal(t, "system", cfg.Sources["format"])
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.True(t, cfg.WithCredentials, "absent key must not reset the default")
	assert.Equal(t, "default", cfg.Sources["with_credentials"])
}

func TestLoadFromFileSkipsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: [unterminated"), 0o644))

	cfg := Default()
	loadFromFile(cfg, path, SourceGlobal)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
}

func TestLoadFromFileSkipsMissingFile(t *testing.T) {
	cfg := Default()
	loadFromFile(cfg, "/nonexistent/path/config.yaml", SourceGlobal)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
}

func TestLoadFromEnv(t *testing.T) {
	env := map[string]string{
		"GLOBALPRINT_API_BASE_URL":     "https://api.example.com",
		"GLOBALPRINT_TIMEOUT":          "2500",
		"GLOBALPRINT_WITH_CREDENTIALS": "false",
		"GLOBALPRINT_FORMAT":           "json",
		"GLOBALPRINT_LOG_LEVEL":        "DEBUG",
		"GLOBALPRINT_DEV_MODE":         "1",
	}

	cfg := Default()
	LoadFromEnv(cfg, func(k string) string { return env[k] }, SourceEnv)

	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.False(t, cfg.WithCredentials)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "env", cfg.Sources["base_url"])
	assert.Equal(t, "env", cfg.Sources["timeout"])
	assert.Equal(t, "env", cfg.Sources["dev_mode"])
}

func TestLoadFromEnvFrontendNames(t *testing.T) {
	t.Run("fallback used alone", func(t *testing.T) {
		env := map[string]string{"NEXT_PUBLIC_API_BASE_URL": "http://127.0.0.1:9000"}
		cfg := Default()
		LoadFromEnv(cfg, func(k string) string { return env[k] }, SourceEnv)
		assert.Equal(t, "http://127.0.0.1:9000", cfg.BaseURL)
	})

	t.Run("native name wins", func(t *testing.T) {
		env := map[string]string{
			"NEXT_PUBLIC_API_BASE_URL": "http://127.0.0.1:9000",
			"GLOBALPRINT_API_BASE_URL": "https://api.example.com",
		}
		cfg := Default()
		LoadFromEnv(cfg, func(k string) string { return env[k] }, SourceEnv)
		assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	})
}

func TestLoadFromEnvIgnoresUnparseable(t *testing.T) {
	env := map[string]string{
		"GLOBALPRINT_TIMEOUT":          "soon",
		"GLOBALPRINT_WITH_CREDENTIALS": "maybe",
	}
	cfg := Default()
	LoadFromEnv(cfg, func(k string) string { return env[k] }, SourceEnv)

	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.True(t, cfg.WithCredentials)
	assert.Equal(t, "default", cfg.Sources["timeout"])
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("NEXT_PUBLIC_API_BASE_URL=http://localhost:8080\nGLOBALPRINT_FORMAT=md\n"), 0o644))

	cfg := Default()
	require.NoError(t, LoadDotEnv(cfg, func() (string, error) { return dir, nil }))

	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "md", cfg.Format)
	assert.Equal(t, "dotenv", cfg.Sources["base_url"])
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	cfg := Default()
	require.NoError(t, LoadDotEnv(cfg, func() (string, error) { return t.TempDir(), nil }))
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	ApplyOverrides(cfg, FlagOverrides{
		BaseURL: "https://flag.example.com",
		Timeout: 3 * time.Second,
		Format:  "json",
	})

	assert.Equal(t, "https://flag.example.com", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "flag", cfg.Sources["base_url"])
}

func TestApplyOverridesSkipsEmpty(t *testing.T) {
	cfg := Default()
	ApplyOverrides(cfg, FlagOverrides{})

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "default", cfg.Sources["base_url"])
}

func TestFullLayeringPrecedence(t *testing.T) {
	clearEnv(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "globalprint"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "globalprint", "config.yaml"),
		[]byte("base_url: https://global.example.com\nformat: md\nlog_level: info\ntimeout: 20s\n"), 0o644))

	wd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(wd, ".env"),
		[]byte("GLOBALPRINT_FORMAT=quiet\nGLOBALPRINT_LOG_LEVEL=error\n"), 0o644))
	t.Chdir(wd)

	t.Setenv("GLOBALPRINT_LOG_LEVEL", "debug")

	cfg, err := Load(FlagOverrides{BaseURL: "https://flag.example.com/"})
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example.com", cfg.BaseURL, "flag beats global, trailing slash trimmed")
	assert.Equal(t, "quiet", cfg.Format, ".env beats global")
	assert.Equal(t, "debug", cfg.LogLevel, "env beats .env")
	assert.Equal(t, 20*time.Second, cfg.Timeout, "global beats default")
	assert.Equal(t, filepath.Join(xdg, "globalprint"), cfg.ConfigDir)

	assert.Equal(t, "flag", cfg.Sources["base_url"])
	assert.Equal(t, "dotenv", cfg.Sources["format"])
	assert.Equal(t, "env", cfg.Sources["log_level"])
	assert.Equal(t, "global", cfg.Sources["timeout"])
}

func TestLoadRejectsInsecureRemote(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	_, err := Load(FlagOverrides{BaseURL: "http://shop.example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure")

	t.Setenv("GLOBALPRINT_DEV_MODE", "true")
	cfg, err := Load(FlagOverrides{BaseURL: "http://shop.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "http://shop.example.com", cfg.BaseURL)
}

func TestValidateLogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warning"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "warn", cfg.LogLevel)

	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())
}

func TestOrigin(t *testing.T) {
	cfg := &Config{BaseURL: "https://api.example.com/"}
	assert.Equal(t, "https://api.example.com", cfg.Origin())
}

func TestGlobalConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/globalprint", GlobalConfigDir())
	assert.Equal(t, "/custom/config/globalprint/config.yaml", GlobalConfigPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "globalprint"), GlobalConfigDir())
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"10000", 10 * time.Second, false},
		{"1500ms", 1500 * time.Millisecond, false},
		{"1m", time.Minute, false},
		{"0", 0, true},
		{"-5s", 0, true},
		{"later", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTimeout(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globalprint", "config.yaml")

	require.NoError(t, SetValue(path, "base_url", "shop.example.com"))
	require.NoError(t, SetValue(path, "dev_mode", "yes"))
	require.NoError(t, SetValue(path, "format", "json"))

	cfg := Default()
	loadFromFile(cfg, path, SourceGlobal)
	assert.Equal(t, "https://shop.example.com", cfg.BaseURL)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "json", cfg.Format)

	require.NoError(t, SetValue(path, "format", ""))
	cfg = Default()
	loadFromFile(cfg, path, SourceGlobal)
	assert.Equal(t, "auto", cfg.Format)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSetValueRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	assert.Error(t, SetValue(path, "account_id", "1"))
	assert.Error(t, SetValue(path, "dev_mode", "sometimes"))
	assert.Error(t, SetValue(path, "timeout", "never"))
	assert.Error(t, SetValue(path, "base_url", "ftp://files.example.com"))
}
