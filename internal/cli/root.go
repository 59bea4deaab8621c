// Package cli wires the root command, global flags and subcommands.
package cli

import (
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/appctx"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/auth"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/commands"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/config"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/version"
)

var (
	shorthandFlagRe  = regexp.MustCompile(`unknown shorthand flag: '.' in (-\w)`)
	requiredFlagRe   = regexp.MustCompile(`required flag\(s\) "([\w-]+)"`)
	skipSetupCommand = map[string]bool{"help": true, "version": true, "completion": true}
)

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	var flags appctx.GlobalFlags

	cmd := &cobra.Command{
		Use:           "globalprint",
		Short:         "Command-line client for the GlobalPrint storefront",
		Long:          "globalprint talks to the GlobalPrint storefront API: browse the catalog, manage your cart, place and track orders.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip setup for help, version and shell completion
			if skipSetupCommand[cmd.Name()] || (cmd.HasParent() && cmd.Parent().Name() == "completion") {
				return nil
			}

			cfg, err := config.Load(config.FlagOverrides{
				BaseURL: flags.BaseURL,
				Timeout: flags.Timeout,
			})
			if err != nil {
				return output.ErrUsage(err.Error())
			}

			opts := []appctx.Option{appctx.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())}
			if flags.NoKeyring {
				opts = append(opts, appctx.WithBackend(auth.NewFileBackend(cfg.ConfigDir)))
			}

			// Create app and store in context
			app, err := appctx.NewApp(cfg, opts...)
			if err != nil {
				return output.ErrUsage(err.Error())
			}
			app.Flags = flags
			if err := app.ApplyFlags(); err != nil {
				return err
			}

			cmd.SetContext(appctx.WithApp(cmd.Context(), app))
			return nil
		},
	}

	// Allow flags anywhere in the command line
	cmd.Flags().SetInterspersed(true)
	cmd.PersistentFlags().SetInterspersed(true)

	// Output format flags
	cmd.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Output as JSON")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Output data only, no envelope")
	cmd.PersistentFlags().BoolVarP(&flags.MD, "md", "m", false, "Output as Markdown (portable)")
	cmd.PersistentFlags().BoolVar(&flags.MD, "markdown", false, "Output as Markdown (portable)")
	cmd.PersistentFlags().BoolVar(&flags.Styled, "styled", false, "Force styled output (ANSI colors)")
	cmd.PersistentFlags().BoolVar(&flags.IDsOnly, "ids-only", false, "Output only IDs")
	cmd.PersistentFlags().BoolVar(&flags.Count, "count", false, "Output only count")
	cmd.PersistentFlags().StringVar(&flags.JQ, "jq", "", "Filter the data with a jq expression")

	// Connection flags
	cmd.PersistentFlags().StringVar(&flags.BaseURL, "base-url", "", "Storefront API origin (e.g., http://localhost:8000)")
	cmd.PersistentFlags().DurationVar(&flags.Timeout, "timeout", 0, "Request timeout (default 10s)")

	// Behavior flags
	cmd.PersistentFlags().CountVarP(&flags.Verbose, "verbose", "v", "Verbose output (-v for ops, -vv for requests)")
	cmd.PersistentFlags().BoolVar(&flags.Stats, "stats", false, "Show session statistics")
	cmd.PersistentFlags().BoolVar(&flags.NoKeyring, "no-keyring", false, "Store credentials in a file instead of the system keyring")

	addCommands(cmd)

	return cmd
}

func addCommands(cmd *cobra.Command) {
	cmd.AddCommand(
		commands.NewAuthCmd(),
		commands.NewProductsCmd(),
		commands.NewCartCmd(),
		commands.NewOrdersCmd(),
		commands.NewCustomOrdersCmd(),
		commands.NewPaymentsCmd(),
		commands.NewReviewsCmd(),
		commands.NewNotificationsCmd(),
		commands.NewSearchCmd(),
		commands.NewDashboardCmd(),
		commands.NewAddressesCmd(),
		commands.NewUploadCmd(),
		commands.NewAPICmd(),
		commands.NewConfigCmd(),
		commands.NewVersionCmd(),
	)
}

// Execute runs the root command and exits with the error's exit code.
func Execute() {
	if code := run(NewRootCmd(), os.Args[1:], os.Stdout); code != output.ExitOK {
		os.Exit(code)
	}
}

// run executes cmd with args and renders any error. It returns the exit
// code.
func run(cmd *cobra.Command, args []string, stdout io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)

	// Use ExecuteC to get the executed command (for correct context access)
	executedCmd, err := cmd.ExecuteC()
	if err == nil {
		return output.ExitOK
	}

	err = transformCobraError(err)

	// Convert error to structured output
	apiErr := output.AsError(err)

	// Try to use app.Err() if app is available (for --stats support)
	if executedCmd != nil {
		if app := appctx.FromContext(executedCmd.Context()); app != nil {
			_ = app.Err(err)
			return apiErr.ExitCode()
		}
	}

	// Fallback: output error directly (app not available, e.g., during setup)
	writer := output.New(output.Options{
		Format: fallbackFormat(cmd),
		Writer: stdout,
	})
	_ = writer.Err(err)

	return apiErr.ExitCode()
}

// fallbackFormat reads the output flags straight from the command line,
// for errors raised before the app exists.
func fallbackFormat(cmd *cobra.Command) output.Format {
	pf := cmd.PersistentFlags()
	quiet, _ := pf.GetBool("quiet")
	idsOnly, _ := pf.GetBool("ids-only")
	count, _ := pf.GetBool("count")
	styled, _ := pf.GetBool("styled")
	md, _ := pf.GetBool("md")
	jsonFlag, _ := pf.GetBool("json")

	switch {
	case quiet:
		return output.FormatQuiet
	case idsOnly:
		return output.FormatIDs
	case count:
		return output.FormatCount
	case jsonFlag:
		return output.FormatJSON
	case styled:
		return output.FormatStyled
	case md:
		return output.FormatMarkdown
	}
	// Auto: TTY → styled, non-TTY → JSON
	return output.FormatAuto
}

// transformCobraError rewrites Cobra's argument and flag errors as usage
// errors with friendlier messages.
func transformCobraError(err error) error {
	msg := err.Error()

	// Transform "flag needs an argument: --FLAG" → "--FLAG requires a value"
	if strings.HasPrefix(msg, "flag needs an argument: ") {
		flag := strings.TrimPrefix(msg, "flag needs an argument: ")
		return output.ErrUsage(flag + " requires a value")
	}

	// Transform "unknown flag: --FLAG" → "Unknown option: --FLAG"
	if strings.HasPrefix(msg, "unknown flag: ") {
		flag := strings.TrimPrefix(msg, "unknown flag: ")
		return output.ErrUsage("Unknown option: " + flag)
	}

	// Transform "unknown shorthand flag: 'X' in -X" → "Unknown option: -X"
	if strings.HasPrefix(msg, "unknown shorthand flag: ") {
		if matches := shorthandFlagRe.FindStringSubmatch(msg); len(matches) > 1 {
			return output.ErrUsage("Unknown option: " + matches[1])
		}
	}

	if strings.HasPrefix(msg, "unknown command ") {
		return output.ErrUsageHint(msg, "Run: globalprint --help")
	}

	// Transform "invalid argument" errors to usage errors
	if strings.Contains(msg, "invalid argument") {
		return output.ErrUsage(msg)
	}

	// Transform "accepts N arg(s), received 0" → "Argument required"
	if strings.Contains(msg, "arg(s), received 0") || strings.Contains(msg, "requires at least 1 arg(s)") {
		return output.ErrUsage("Argument required")
	}
	if strings.Contains(msg, "arg(s), received") {
		return output.ErrUsage(msg)
	}

	// Transform `required flag(s) "X" not set` → "--X required"
	if strings.HasPrefix(msg, "required flag(s) ") {
		if matches := requiredFlagRe.FindStringSubmatch(msg); len(matches) > 1 {
			return output.ErrUsage("--" + matches[1] + " required")
		}
	}

	return err
}
