package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/appctx"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/auth"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/tui"
)

// NewAuthCmd creates the auth command group.
func NewAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
		Long:  "Log in to the storefront, inspect the stored session, and log out.",
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthRegisterCmd(),
		newAuthLogoutCmd(),
		newAuthStatusCmd(),
		newAuthRefreshCmd(),
		newAuthTokenCmd(),
		newAuthWhoamiCmd(),
	)

	return cmd
}

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// readPasswordStdin reads the first line of standard input.
func readPasswordStdin() (string, error) {
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newAuthLoginCmd() *cobra.Command {
	var req models.LoginRequest
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Long: `Exchange email and password for an access and refresh token pair.

Missing fields are prompted for when running in a terminal.`,
		Example: `  globalprint auth login --email ana@example.com
  echo "$PASSWORD" | globalprint auth login --email ana@example.com --password-stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			if passwordStdin {
				if req.Password, err = readPasswordStdin(); err != nil {
					return err
				}
			}
			if req.Email == "" || req.Password == "" {
				if !app.IsInteractive() {
					return output.ErrUsageHint("Email and password required", "Pass --email and --password-stdin")
				}
				if err := tui.LoginForm(&req); err != nil {
					return err
				}
			}

			var resp *models.AuthResponse
			err = track(cmd.Context(), app, "Auth", "Login", func(ctx context.Context) error {
				resp, err = app.Shop.Login(ctx, req)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(resp.User,
				output.WithSummary("Logged in as "+resp.User.FullName()),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "products", Cmd: "globalprint products list", Description: "Browse the catalog"},
					output.Breadcrumb{Action: "cart", Cmd: "globalprint cart show", Description: "Show your cart"},
				),
			)
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Account password (prefer --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from standard input")

	return cmd
}

func newAuthRegisterCmd() *cobra.Command {
	var req models.RegisterRequest
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  "Create a storefront account and log in with it. Missing fields are prompted for when running in a terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			if passwordStdin {
				if req.Password, err = readPasswordStdin(); err != nil {
					return err
				}
			}
			if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
				if !app.IsInteractive() {
					return output.ErrUsageHint("Email, password, first and last name required",
						"Pass --email, --password-stdin, --first-name and --last-name")
				}
				if err := tui.RegisterForm(&req); err != nil {
					return err
				}
			}

			var resp *models.AuthResponse
			err = track(cmd.Context(), app, "Auth", "Register", func(ctx context.Context) error {
				resp, err = app.Shop.Register(ctx, req)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(resp.User, output.WithSummary("Account created for "+resp.User.Email))
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Account password (prefer --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from standard input")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Long:  "Revoke the refresh token on the server and remove the stored credentials for the current origin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			err = track(cmd.Context(), app, "Auth", "Logout", app.Shop.Logout)
			if err != nil {
				return err
			}

			return app.OK(map[string]string{
				"status": "logged_out",
				"origin": app.Store.Origin(),
			}, output.WithSummary("Successfully logged out"))
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long:  "Display the stored session for the current origin. Makes no network call.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			status, summary := authStatus(app, time.Now())
			return app.OK(status, output.WithSummary(summary))
		},
	}
}

// authStatus describes the stored session. Token claims are decoded
// without verification and are informational only.
func authStatus(app *appctx.App, now time.Time) (map[string]any, string) {
	rec := app.Store.Snapshot()
	status := map[string]any{
		"authenticated": rec.AccessToken != "",
		"origin":        app.Store.Origin(),
		"backend":       app.Store.BackendName(),
		"refreshable":   rec.RefreshToken != "",
	}
	if rec.AccessToken == "" {
		return status, "Not authenticated"
	}

	summary := "Authenticated"
	if user, ok := app.Shop.CurrentUser(); ok {
		status["email"] = user.Email
		status["name"] = user.FullName()
		summary += " as " + user.Email
	}

	if claims, err := auth.ParseClaims(rec.AccessToken); err == nil {
		if claims.UserID != "" {
			status["user_id"] = claims.UserID
		}
		if !claims.ExpiresAt.IsZero() {
			expiresIn := claims.ExpiresAt.Sub(now)
			status["expires_in"] = expiresIn.Round(time.Second).String()
			status["expired"] = claims.Expired(now)
			if claims.Expired(now) {
				summary += " (access token expired, refreshes on next request)"
			}
		}
	}
	return status, summary
}

func newAuthRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the access token",
		Long:  "Exchange the stored refresh token for a new access token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			err = track(cmd.Context(), app, "Auth", "Refresh", func(ctx context.Context) error {
				_, err := app.Shop.RefreshToken(ctx)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(map[string]string{
				"status": "refreshed",
			}, output.WithSummary("Access token refreshed"))
		},
	}
}

func newAuthTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print the access token",
		Long:  "Print the stored access token, for use in scripts (e.g. curl -H \"Authorization: Bearer $(globalprint auth token)\").",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			token, ok := app.Store.AccessToken()
			if !ok {
				return output.ErrAuth("Not authenticated")
			}

			// Raw token for piping
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
}

func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Long:  "Fetch the current user's profile from the server and refresh the cached copy.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}

			var user *models.User
			err = track(cmd.Context(), app, "Auth", "Me", func(ctx context.Context) error {
				user, err = app.Shop.Me(ctx)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(user, output.WithSummary(user.FullName()))
		},
	}
}
