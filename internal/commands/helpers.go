// Package commands implements the CLI commands.
package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/appctx"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/observability"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/tui"
)

// appFrom returns the app stored on the command's context.
func appFrom(cmd *cobra.Command) (*appctx.App, error) {
	app := appctx.FromContext(cmd.Context())
	if app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return app, nil
}

// requireAuth fails fast when no access token is stored, so commands that
// need a session never reach the network.
func requireAuth(app *appctx.App) error {
	if !app.Store.IsAuthenticated() {
		return output.ErrAuth("Not authenticated")
	}
	return nil
}

// track runs fn as a traced storefront operation.
func track(ctx context.Context, app *appctx.App, service, operation string, fn func(context.Context) error) error {
	op := observability.OperationInfo{
		Service:    service,
		Operation:  operation,
		IsMutation: isMutation(operation),
	}
	return app.Track(ctx, op, fn)
}

func isMutation(operation string) bool {
	switch operation {
	case "List", "Get", "Search", "Stats", "Me", "Reviews":
		return false
	}
	return true
}

// parseID parses a positional numeric identifier.
func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, output.ErrUsage(fmt.Sprintf("Invalid %s ID: %s", what, arg))
	}
	return id, nil
}

// parseMoney parses a decimal amount such as 39.90. Commas are accepted as
// the decimal separator.
func parseMoney(flag, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(value), ",", "."))
	if err != nil {
		return decimal.Zero, output.ErrUsage(fmt.Sprintf("--%s must be a number, got %q", flag, value))
	}
	return d, nil
}

// optionalMoney parses value when the flag was set.
func optionalMoney(cmd *cobra.Command, flag, value string) (*decimal.Decimal, error) {
	if !cmd.Flags().Changed(flag) {
		return nil, nil
	}
	d, err := parseMoney(flag, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// addListFlags registers the pagination flags shared by list commands.
func addListFlags(cmd *cobra.Command, opts *models.ListOptions) {
	cmd.Flags().IntVar(&opts.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "Results per page")
	cmd.Flags().StringVar(&opts.Ordering, "order", "", "Ordering field (prefix with - for descending)")
}

// pageSummary describes a page of results, e.g. "3 of 41 orders".
func pageSummary[T any](page *api.Page[T], noun string) string {
	n := len(page.Results)
	if page.Count > n {
		return fmt.Sprintf("%d of %d %s", n, page.Count, noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// nextPageBreadcrumb suggests the next page when there is one.
func nextPageBreadcrumb[T any](page *api.Page[T], base string, current int) []output.Breadcrumb {
	if !page.HasNext() {
		return nil
	}
	if current < 1 {
		current = 1
	}
	return []output.Breadcrumb{{
		Action:      "next",
		Cmd:         fmt.Sprintf("%s --page %d", base, current+1),
		Description: "Next page",
	}}
}

// confirmDestructive asks before irreversible actions. --force skips the
// prompt; without a terminal the action is refused.
func confirmDestructive(app *appctx.App, force bool, message string) error {
	if force {
		return nil
	}
	if !app.IsInteractive() {
		return output.ErrUsageHint(message+" needs confirmation", "Pass --force to skip the prompt")
	}
	ok, err := tui.ConfirmDangerous(message + "?")
	if err != nil {
		return err
	}
	if !ok {
		return output.ErrUsage("Canceled")
	}
	return nil
}

// stringFlag returns a pointer to value when the flag was set, for partial
// updates.
func stringFlag(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func intFlag(cmd *cobra.Command, name string, value int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func boolFlag(cmd *cobra.Command, name string, value bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

// paymentMethods are the methods checkout accepts.
var paymentMethods = []string{"pix", "credit"}

// enumValue is a string flag restricted to a fixed set of values.
type enumValue struct {
	value   *string
	allowed []string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnumValue(p *string, allowed []string) *enumValue {
	return &enumValue{value: p, allowed: allowed}
}

func (e *enumValue) String() string { return *e.value }

func (e *enumValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range e.allowed {
		if s == a {
			*e.value = s
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(e.allowed, ", "))
}

func (e *enumValue) Type() string { return "string" }
