package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Keys lists the settings that can be persisted with SetValue.
var Keys = []string{"base_url", "timeout", "with_credentials", "format", "log_level", "dev_mode"}

// SetValue writes key=value into the YAML config file at path, keeping
// other keys intact. An empty value removes the key.
func SetValue(path, key, value string) error {
	if !isKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}

	values := map[string]any{}
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is from trusted config locations
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		if values == nil {
			values = map[string]any{}
		}
	case os.IsNotExist(err):
	default:
		return err
	}

	if value == "" {
		delete(values, key)
	} else {
		typed, err := typedValue(key, value)
		if err != nil {
			return err
		}
		values[key] = typed
	}

	out, err := yaml.Marshal(values)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

func typedValue(key, value string) (any, error) {
	switch key {
	case "with_credentials", "dev_mode":
		b, ok := parseEnvBool(value)
		if !ok {
			return nil, fmt.Errorf("%s must be true or false", key)
		}
		return b, nil
	case "timeout":
		if _, err := parseTimeout(value); err != nil {
			return nil, fmt.Errorf("invalid timeout: %w", err)
		}
		return value, nil
	case "base_url":
		return NormalizeBaseURL(value)
	default:
		return value, nil
	}
}

func isKnownKey(key string) bool {
	return slices.Contains(Keys, key)
}
