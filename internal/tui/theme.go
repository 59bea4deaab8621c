// Package tui provides terminal user interface components.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/config"
)

// ThemeEnv names a colors.yaml file that overrides the user theme.
const ThemeEnv = "GLOBALPRINT_THEME"

// ResolveTheme loads a theme with the following precedence:
//  1. NO_COLOR env var set → returns NoColorTheme
//  2. GLOBALPRINT_THEME env var → parse that colors.yaml file
//  3. User theme from ~/.config/globalprint/theme/colors.yaml
//  4. Default storefront theme
func ResolveTheme() Theme {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return NoColorTheme()
	}

	if path := os.Getenv(ThemeEnv); path != "" {
		if theme, err := LoadThemeFromFile(path); err == nil {
			return theme
		}
	}

	if theme, err := LoadUserTheme(); err == nil {
		return theme
	}

	return DefaultTheme()
}

// NoColorTheme returns a theme with empty colors (honors NO_COLOR standard).
// Lipgloss treats empty strings as "no color", resulting in plain text output.
func NoColorTheme() Theme {
	empty := lipgloss.AdaptiveColor{Light: "", Dark: ""}
	return Theme{
		Primary:    empty,
		Secondary:  empty,
		Success:    empty,
		Warning:    empty,
		Error:      empty,
		Muted:      empty,
		Background: empty,
		Foreground: empty,
		Border:     empty,
	}
}

// LoadUserTheme loads theme/colors.yaml from the global config directory.
// The theme directory can be a symlink to another theme system.
func LoadUserTheme() (Theme, error) {
	return LoadThemeFromFile(filepath.Join(config.GlobalConfigDir(), "theme", "colors.yaml"))
}

// LoadThemeFromFile parses a colors.yaml file and returns a Theme.
func LoadThemeFromFile(path string) (Theme, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path from trusted config
	if err != nil {
		return Theme{}, err
	}

	colors, err := parseColors(data)
	if err != nil {
		return Theme{}, err
	}

	return mapColorsToTheme(colors), nil
}

// parseColors decodes a flat key: "#hex" mapping. Entries that are not
// valid hex colors are dropped.
func parseColors(data []byte) (map[string]string, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse theme: %w", err)
	}

	result := make(map[string]string, len(raw))
	for key, value := range raw {
		value = strings.TrimSpace(value)
		if !isValidHexColor(value) {
			continue
		}
		result[strings.ToLower(strings.TrimSpace(key))] = value
	}
	return result, nil
}

// isValidHexColor checks if a string is a valid hex color (#RGB or #RRGGBB).
func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	for _, c := range hex {
		isDigit := c >= '0' && c <= '9'
		isLower := c >= 'a' && c <= 'f'
		isUpper := c >= 'A' && c <= 'F'
		if !isDigit && !isLower && !isUpper {
			return false
		}
	}
	return true
}

// mapColorsToTheme maps terminal palette names to Theme roles.
//
//	accent, color4   → Primary
//	foreground       → Foreground
//	background       → Background
//	color1           → Error (red)
//	color2           → Success (green)
//	color3           → Warning (yellow)
//	color7           → Secondary
//	color8, color0   → Muted, Border
func mapColorsToTheme(colors map[string]string) Theme {
	defaults := DefaultTheme()

	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := colors[k]; ok {
				return v
			}
		}
		return ""
	}

	// Terminal themes are typically dark, so only Dark variants are overridden.
	dark := func(base lipgloss.AdaptiveColor, keys ...string) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: base.Light, Dark: getOrDefault(get(keys...), base.Dark)}
	}

	return Theme{
		Primary:    dark(defaults.Primary, "accent", "color4"),
		Secondary:  dark(defaults.Secondary, "color7"),
		Success:    dark(defaults.Success, "color2"),
		Warning:    dark(defaults.Warning, "color3"),
		Error:      dark(defaults.Error, "color1"),
		Muted:      dark(defaults.Muted, "color8", "color0"),
		Background: dark(defaults.Background, "background"),
		Foreground: dark(defaults.Foreground, "foreground"),
		Border:     dark(defaults.Border, "color8", "color0"),
	}
}

func getOrDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}
