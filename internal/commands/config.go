package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/config"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
)

// NewConfigCmd creates the config command for managing configuration.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage globalprint configuration.

Configuration is loaded from multiple sources with the following precedence:
  flags > env > .env > global > system > defaults

Config locations:
  - System: /etc/globalprint/config.yaml
  - Global: ~/.config/globalprint/config.yaml
  - .env:   ./.env (GLOBALPRINT_* or NEXT_PUBLIC_* variables)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetCmd(),
		newConfigUnsetCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  "Display the current effective configuration with source information.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}
}

func runConfigShow(cmd *cobra.Command) error {
	app, err := appFrom(cmd)
	if err != nil {
		return err
	}
	cfg := app.Config

	values := map[string]string{
		"base_url":         cfg.BaseURL,
		"timeout":          cfg.Timeout.String(),
		"with_credentials": strconv.FormatBool(cfg.WithCredentials),
		"format":           cfg.Format,
		"log_level":        cfg.LogLevel,
		"dev_mode":         strconv.FormatBool(cfg.DevMode),
	}

	configData := make(map[string]any, len(values)+1)
	for _, key := range config.Keys {
		source := cfg.Sources[key]
		if source == "" {
			source = string(config.SourceDefault)
		}
		configData[key] = map[string]string{
			"value":  values[key],
			"source": source,
		}
	}
	configData["credentials"] = map[string]string{
		"value":  app.Store.BackendName(),
		"source": cfg.ConfigDir,
	}

	return app.OK(configData,
		output.WithSummary("Effective configuration"),
		output.WithBreadcrumbs(
			output.Breadcrumb{
				Action:      "set",
				Cmd:         "globalprint config set <key> <value>",
				Description: "Set config value",
			},
		),
	)
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf(`Write a value to the global config file.

Keys: %s`, strings.Join(config.Keys, ", ")),
		Example: `  globalprint config set base_url https://api.globalprint.com.br
  globalprint config set timeout 30s`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			key, value := args[0], args[1]
			if value == "" {
				return output.ErrUsageHint("Value required", "Use: globalprint config unset "+key)
			}

			path := config.GlobalConfigPath()
			if err := config.SetValue(path, key, value); err != nil {
				return output.ErrUsageHint(err.Error(), "Keys: "+strings.Join(config.Keys, ", "))
			}

			return app.OK(map[string]string{
				"key":   key,
				"value": value,
				"path":  path,
			}, output.WithSummary(fmt.Sprintf("Set %s in %s", key, path)))
		},
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			path := config.GlobalConfigPath()
			if err := config.SetValue(path, args[0], ""); err != nil {
				return output.ErrUsageHint(err.Error(), "Keys: "+strings.Join(config.Keys, ", "))
			}

			return app.OK(map[string]string{
				"key":  args[0],
				"path": path,
			}, output.WithSummary(fmt.Sprintf("Removed %s from %s", args[0], path)))
		},
	}
}
