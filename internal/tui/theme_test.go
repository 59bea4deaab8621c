package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "valid colors",
			input: `accent: "#89b4fa"
foreground: "#cdd6f4"
background: "#1e1e2e"`,
			want: map[string]string{
				"accent":     "#89b4fa",
				"foreground": "#cdd6f4",
				"background": "#1e1e2e",
			},
		},
		{
			name: "with comments and empty lines",
			input: `# Storefront palette
accent: "#89b4fa"

# Text
foreground: '#cdd6f4'
`,
			want: map[string]string{
				"accent":     "#89b4fa",
				"foreground": "#cdd6f4",
			},
		},
		{
			name: "invalid hex colors skipped",
			input: `accent: "#89b4fa"
bad_color: "not-a-color"
invalid_hex: "#gggggg"
foreground: "#cdd6f4"`,
			want: map[string]string{
				"accent":     "#89b4fa",
				"foreground": "#cdd6f4",
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  map[string]string{},
		},
		{
			name: "short hex colors and mixed case keys",
			input: `Color1: "#fff"
accent: "#abc"`,
			want: map[string]string{
				"color1": "#fff",
				"accent": "#abc",
			},
		},
		{
			name:  "unquoted values are comments",
			input: `accent: #89b4fa`,
			want:  map[string]string{},
		},
		{
			name:    "not a mapping",
			input:   "- one\n- two\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseColors([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidHexColor(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"#fff", true},
		{"#FFF", true},
		{"#ffffff", true},
		{"#89b4fa", true},
		{"#ABC123", true},
		{"fff", false},        // missing #
		{"#gg0000", false},    // invalid hex chars
		{"#12345", false},     // wrong length (5)
		{"#1234567", false},   // wrong length (7)
		{"", false},           // empty
		{"#", false},          // just hash
		{"red", false},        // color name
		{"rgb(0,0,0)", false}, // rgb format
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, isValidHexColor(tt.input))
		})
	}
}

func TestMapColorsToTheme(t *testing.T) {
	t.Run("full color set", func(t *testing.T) {
		colors := map[string]string{
			"accent":     "#89b4fa",
			"foreground": "#cdd6f4",
			"background": "#1e1e2e",
			"color1":     "#f38ba8",
			"color2":     "#a6e3a1",
			"color3":     "#f9e2af",
			"color7":     "#bac2de",
			"color8":     "#585b70",
		}

		theme := mapColorsToTheme(colors)

		assert.Equal(t, "#89b4fa", theme.Primary.Dark)
		assert.Equal(t, "#f38ba8", theme.Error.Dark)
		assert.Equal(t, "#a6e3a1", theme.Success.Dark)
		assert.Equal(t, "#f9e2af", theme.Warning.Dark)
		assert.Equal(t, "#bac2de", theme.Secondary.Dark)
		assert.Equal(t, "#585b70", theme.Muted.Dark)
		assert.Equal(t, "#585b70", theme.Border.Dark)
		assert.Equal(t, "#cdd6f4", theme.Foreground.Dark)
		assert.Equal(t, "#1e1e2e", theme.Background.Dark)
	})

	t.Run("partial color set uses defaults", func(t *testing.T) {
		theme := mapColorsToTheme(map[string]string{"accent": "#89b4fa"})
		defaults := DefaultTheme()

		assert.Equal(t, "#89b4fa", theme.Primary.Dark)
		assert.Equal(t, defaults.Primary.Light, theme.Primary.Light)
		assert.Equal(t, defaults.Error.Dark, theme.Error.Dark)
		assert.Equal(t, defaults.Success.Dark, theme.Success.Dark)
	})

	t.Run("color4 fallback for primary", func(t *testing.T) {
		theme := mapColorsToTheme(map[string]string{"color4": "#0000ff"})
		assert.Equal(t, "#0000ff", theme.Primary.Dark)
	})
}

func writeTheme(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "colors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadThemeFromFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeTheme(t, t.TempDir(), "accent: \"#89b4fa\"\ncolor1: \"#f38ba8\"\n")

		theme, err := LoadThemeFromFile(path)
		require.NoError(t, err)

		assert.Equal(t, "#89b4fa", theme.Primary.Dark)
		assert.Equal(t, "#f38ba8", theme.Error.Dark)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadThemeFromFile("/nonexistent/path/colors.yaml")
		assert.Error(t, err)
	})
}

func TestNoColorTheme(t *testing.T) {
	theme := NoColorTheme()

	assert.Empty(t, theme.Primary.Light)
	assert.Empty(t, theme.Primary.Dark)
	assert.Empty(t, theme.Error.Dark)
	assert.Empty(t, theme.Foreground.Dark)
}

func unsetenvForTest(t *testing.T, key string) {
	t.Helper()
	prev, existed := os.LookupEnv(key)
	os.Unsetenv(key)
	if existed {
		t.Cleanup(func() { os.Setenv(key, prev) })
	}
}

func TestResolveTheme(t *testing.T) {
	t.Run("NO_COLOR returns empty theme", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		t.Setenv(ThemeEnv, writeTheme(t, t.TempDir(), "accent: \"#ff0000\"\n"))

		theme := ResolveTheme()

		assert.Empty(t, theme.Primary.Dark)
	})

	t.Run("env var loads custom file", func(t *testing.T) {
		unsetenvForTest(t, "NO_COLOR")
		t.Setenv(ThemeEnv, writeTheme(t, t.TempDir(), "accent: \"#ff0000\"\n"))

		assert.Equal(t, "#ff0000", ResolveTheme().Primary.Dark)
	})

	t.Run("user theme from config dir", func(t *testing.T) {
		unsetenvForTest(t, "NO_COLOR")
		unsetenvForTest(t, ThemeEnv)
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)
		writeTheme(t, filepath.Join(xdg, "globalprint", "theme"), "accent: \"#00ff00\"\n")

		assert.Equal(t, "#00ff00", ResolveTheme().Primary.Dark)
	})

	t.Run("invalid env file falls back to default", func(t *testing.T) {
		unsetenvForTest(t, "NO_COLOR")
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv(ThemeEnv, "/nonexistent/theme.yaml")

		assert.Equal(t, DefaultTheme(), ResolveTheme())
	})
}

func TestGetOrDefault(t *testing.T) {
	assert.Equal(t, "#ff0000", getOrDefault("#ff0000", "#0000ff"))
	assert.Equal(t, "#0000ff", getOrDefault("", "#0000ff"))
	assert.Equal(t, "", getOrDefault("", ""))
}
