// Package appctx provides application context helpers.
package appctx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/auth"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/config"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/observability"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/shop"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/version"
)

// DebugEnv raises verbosity like -v: "1", "2", or "true" (treated as 2).
const DebugEnv = "GLOBALPRINT_DEBUG"

// contextKey is a private type for context keys.
type contextKey string

const appKey contextKey = "app"

// App holds the shared application context for all commands.
type App struct {
	Config *config.Config
	Store  *auth.Store
	Client *api.Client
	Shop   *shop.Storefront
	Output *output.Writer
	Logger *slog.Logger

	// Observability
	Collector *observability.SessionCollector
	Hooks     *observability.CLIHooks

	// Flags holds the global flag values
	Flags GlobalFlags

	logLevel    *slog.LevelVar
	stdout      io.Writer
	stderr      io.Writer
	authFailure error
}

// GlobalFlags holds values for global CLI flags.
type GlobalFlags struct {
	// Output format flags
	JSON    bool
	Quiet   bool
	MD      bool // Literal Markdown syntax output
	Styled  bool // Force ANSI styled output (even when piped)
	IDsOnly bool
	Count   bool
	JQ      string

	// Connection flags
	BaseURL string
	Timeout time.Duration

	// Behavior flags
	Verbose   int // 0=off, 1=operations, 2=operations+requests (stacks with -v -v or -vv)
	Stats     bool
	NoKeyring bool
}

// Option customizes NewApp.
type Option func(*appOptions)

type appOptions struct {
	backend   auth.Backend
	transport http.RoundTripper
	stdout    io.Writer
	stderr    io.Writer
}

// WithBackend sets the credential backend instead of probing the keyring.
func WithBackend(b auth.Backend) Option {
	return func(o *appOptions) { o.backend = b }
}

// WithTransport sets the HTTP transport of the API client.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *appOptions) { o.transport = rt }
}

// WithOutput redirects command output and diagnostics.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *appOptions) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

// NewApp wires the credential store, API client, observability hooks and
// storefront services for cfg.
func NewApp(cfg *config.Config, opts ...Option) (*App, error) {
	o := appOptions{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(cfg.LogLevel))
	if cfg.DevMode {
		levelVar.Set(slog.LevelDebug)
	}
	logger := slog.New(slog.NewTextHandler(o.stderr, &slog.HandlerOptions{Level: levelVar}))

	backend := o.backend
	if backend == nil {
		backend = auth.NewDefaultBackend(cfg.ConfigDir, logger)
	}
	store := auth.NewStore(backend, cfg.Origin(), logger)

	// Collector always runs to gather stats; hooks control output verbosity.
	// Level 0 initially; ApplyFlags sets the actual level from -v flags.
	collector := observability.NewSessionCollector()
	hooks := observability.NewCLIHooks(0, collector, observability.NewTraceWriterTo(o.stderr))

	app := &App{
		Config:    cfg,
		Store:     store,
		Logger:    logger,
		Collector: collector,
		Hooks:     hooks,
		logLevel:  levelVar,
		stdout:    o.stdout,
		stderr:    o.stderr,
	}

	clientOpts := []api.Option{
		api.WithHooks(hooks),
		api.WithLogger(logger),
		api.WithAuthFailureHandler(app.handleAuthFailure),
	}
	if o.transport != nil {
		clientOpts = append(clientOpts, api.WithTransport(o.transport))
	}
	client, err := api.NewClient(api.Options{
		BaseURL:         cfg.BaseURL,
		Timeout:         cfg.Timeout,
		WithCredentials: cfg.WithCredentials,
		UserAgent:       version.UserAgent(),
	}, store, clientOpts...)
	if err != nil {
		return nil, err
	}

	app.Client = client
	app.Shop = shop.New(client, store, shop.WithLogger(logger))
	app.Output = output.New(output.Options{
		Format: formatFromConfig(cfg.Format),
		Writer: o.stdout,
	})
	return app, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func formatFromConfig(format string) output.Format {
	switch format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	case "styled":
		return output.FormatStyled
	case "quiet":
		return output.FormatQuiet
	default:
		return output.FormatAuto
	}
}

// handleAuthFailure runs once the client has cleared credentials after a
// failed refresh. The command's own error carries the login hint.
func (a *App) handleAuthFailure(err error) {
	a.authFailure = err
	a.Logger.Warn("session expired, credentials cleared", "origin", a.Store.Origin(), "error", err)
}

// AuthFailure returns the refresh error that ended the session, if any.
func (a *App) AuthFailure() error {
	return a.authFailure
}

// ApplyFlags applies global flag values to the app configuration.
func (a *App) ApplyFlags() error {
	format := a.Output.Format()

	// Order matters: specific modes first
	switch {
	case a.Flags.IDsOnly:
		format = output.FormatIDs
	case a.Flags.Count:
		format = output.FormatCount
	case a.Flags.Quiet:
		format = output.FormatQuiet
	case a.Flags.JSON:
		format = output.FormatJSON
	case a.Flags.Styled:
		// Force ANSI styled output (even when piped)
		format = output.FormatStyled
	case a.Flags.MD:
		// Literal Markdown syntax (portable, pipeable to glow/bat)
		format = output.FormatMarkdown
	}

	var filter *output.Filter
	if a.Flags.JQ != "" {
		f, err := output.CompileFilter(a.Flags.JQ)
		if err != nil {
			return err
		}
		filter = f
	}

	a.Output = output.New(output.Options{
		Format:  format,
		Writer:  a.stdout,
		Verbose: a.Flags.Verbose > 0,
		Filter:  filter,
	})

	verboseLevel := a.Flags.Verbose
	if debugEnv := os.Getenv(DebugEnv); debugEnv != "" {
		if level, err := strconv.Atoi(debugEnv); err == nil {
			if level > verboseLevel {
				verboseLevel = level
			}
		} else if debugEnv == "true" {
			verboseLevel = 2 // Full debug output
		}
	}

	if a.Hooks != nil {
		a.Hooks.SetLevel(verboseLevel)
	}

	// Verbose mode enables debug logging
	if verboseLevel > 0 {
		a.logLevel.Set(slog.LevelDebug)
	}
	return nil
}

// Track runs fn as a named operation so -v traces and --stats count it.
func (a *App) Track(ctx context.Context, op observability.OperationInfo, fn func(context.Context) error) error {
	if a.Hooks == nil {
		return fn(ctx)
	}
	start := time.Now()
	ctx = a.Hooks.OnOperationStart(ctx, op)
	err := fn(ctx)
	a.Hooks.OnOperationEnd(ctx, op, err, time.Since(start))
	return err
}

// OK outputs a success response, automatically including stats if --stats flag is set.
func (a *App) OK(data any, opts ...output.ResponseOption) error {
	if a.Flags.Stats && a.Collector != nil {
		stats := a.Collector.Summary()
		opts = append(opts, output.WithStats(&stats))
	}
	return a.Output.OK(data, opts...)
}

// Err outputs an error response, printing stats to stderr if --stats flag is set.
func (a *App) Err(err error) error {
	if outputErr := a.Output.Err(err); outputErr != nil {
		return outputErr
	}

	// Machine-consumable modes never get the stats line
	if a.Flags.Stats && a.Collector != nil && !a.isMachineOutput() {
		stats := a.Collector.Summary()
		a.printStatsToStderr(&stats)
	}
	return nil
}

// isMachineOutput returns true if the output mode is intended for programmatic consumption.
// Checks both flags and config-driven format settings.
func (a *App) isMachineOutput() bool {
	if a.Flags.Quiet || a.Flags.IDsOnly || a.Flags.Count || a.Flags.JQ != "" {
		return true
	}
	if a.Config != nil && a.Config.Format == "quiet" {
		return true
	}
	return false
}

// printStatsToStderr outputs a compact stats line to stderr.
func (a *App) printStatsToStderr(stats *observability.SessionMetrics) {
	if stats == nil {
		return
	}
	if parts := stats.FormatParts(); len(parts) > 0 {
		fmt.Fprintf(a.stderr, "\nStats: %s\n", strings.Join(parts, " | "))
	}
}

// IsInteractive reports whether prompts can be shown: no machine output
// mode is set and both stdin and stdout are terminals.
func (a *App) IsInteractive() bool {
	if a.Flags.JSON || a.Flags.Quiet || a.Flags.IDsOnly || a.Flags.Count || a.Flags.JQ != "" {
		return false
	}
	out, ok := a.stdout.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(out.Fd())
}

// Stderr returns the diagnostics writer.
func (a *App) Stderr() io.Writer {
	return a.stderr
}

// WithApp stores the app in the context.
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey, app)
}

// FromContext retrieves the app from the context.
func FromContext(ctx context.Context) *App {
	app, _ := ctx.Value(appKey).(*App)
	return app
}
