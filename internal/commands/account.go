package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	var params models.SearchParams
	var minPrice, maxPrice string

	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "Search the catalog",
		Args:    cobra.MinimumNArgs(1),
		Example: `  globalprint search caneca --category canecas --max-price 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			params.Query = strings.Join(args, " ")
			if params.MinPrice, err = optionalMoney(cmd, "min-price", minPrice); err != nil {
				return err
			}
			if params.MaxPrice, err = optionalMoney(cmd, "max-price", maxPrice); err != nil {
				return err
			}

			var result *models.SearchResult
			err = track(cmd.Context(), app, "Search", "Search", func(ctx context.Context) error {
				result, err = app.Shop.SearchProducts(ctx, &params)
				return err
			})
			if err != nil {
				return err
			}

			summary := fmt.Sprintf("%d results for %q", result.TotalCount, params.Query)
			var breadcrumbs []output.Breadcrumb
			for _, s := range result.Suggestions {
				breadcrumbs = append(breadcrumbs, output.Breadcrumb{
					Action: "suggestion", Cmd: fmt.Sprintf("globalprint search %q", s), Description: "Did you mean " + s + "?",
				})
			}

			return app.OK(result.Products,
				output.WithSummary(summary),
				output.WithBreadcrumbs(breadcrumbs...),
			)
		},
	}

	cmd.Flags().StringVar(&params.Category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&minPrice, "min-price", "", "Minimum price")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "Maximum price")
	cmd.Flags().StringVar(&params.Ordering, "order", "", "Ordering field")
	cmd.Flags().IntVar(&params.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&params.PageSize, "page-size", 0, "Results per page")

	return cmd
}

// NewDashboardCmd creates the dashboard command.
func NewDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show store statistics",
		Long:  "Show order, revenue, product, and customer totals. Requires an admin account.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}

			var stats *models.DashboardStats
			err = track(cmd.Context(), app, "Dashboard", "Stats", func(ctx context.Context) error {
				stats, err = app.Shop.GetDashboardStats(ctx)
				return err
			})
			if err != nil {
				return err
			}

			summary := fmt.Sprintf("%d orders (%d pending), revenue %s",
				stats.TotalOrders, stats.PendingOrders, output.FormatMoney(stats.TotalRevenue.StringFixed(2)))
			return app.OK(stats, output.WithSummary(summary))
		},
	}
}

// NewAddressesCmd creates the addresses command group.
func NewAddressesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "addresses",
		Aliases: []string{"address"},
		Short:   "Manage shipping addresses",
	}

	cmd.AddCommand(
		newAddressesListCmd(),
		newAddressesCreateCmd(),
		newAddressesUpdateCmd(),
		newAddressesDeleteCmd(),
	)

	return cmd
}

func formatAddress(a *models.Address) string {
	line := a.Street + ", " + a.Number
	if a.Complement != "" {
		line += " " + a.Complement
	}
	return fmt.Sprintf("%s - %s, %s/%s %s", line, a.Neighborhood, a.City, a.State, a.ZipCode)
}

func newAddressesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}

			var addresses []models.Address
			err = track(cmd.Context(), app, "Addresses", "List", func(ctx context.Context) error {
				addresses, err = app.Shop.GetAddresses(ctx)
				return err
			})
			if err != nil {
				return err
			}

			summary := fmt.Sprintf("%d addresses", len(addresses))
			for i := range addresses {
				if addresses[i].IsDefault {
					summary += ", default: " + formatAddress(&addresses[i])
					break
				}
			}

			return app.OK(addresses, output.WithSummary(summary))
		},
	}
}

func newAddressesCreateCmd() *cobra.Command {
	var req models.CreateAddressRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an address",
		Example: `  globalprint addresses create --street "Rua das Flores" --number 100 --neighborhood Centro \
    --city Curitiba --state PR --zip 80010-000 --default`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			req.State = strings.ToUpper(req.State)

			var a *models.Address
			err = track(cmd.Context(), app, "Addresses", "Create", func(ctx context.Context) error {
				a, err = app.Shop.CreateAddress(ctx, req)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(a, output.WithSummary(fmt.Sprintf("Added address #%d: %s", a.ID, formatAddress(a))))
		},
	}

	cmd.Flags().StringVar(&req.Street, "street", "", "Street (required)")
	cmd.Flags().StringVar(&req.Number, "number", "", "Number (required)")
	cmd.Flags().StringVar(&req.Complement, "complement", "", "Complement")
	cmd.Flags().StringVar(&req.Neighborhood, "neighborhood", "", "Neighborhood (required)")
	cmd.Flags().StringVar(&req.City, "city", "", "City (required)")
	cmd.Flags().StringVar(&req.State, "state", "", "Two-letter state code (required)")
	cmd.Flags().StringVar(&req.ZipCode, "zip", "", "Postal code (required)")
	cmd.Flags().StringVar(&req.Country, "country", "Brasil", "Country")
	cmd.Flags().BoolVar(&req.IsDefault, "default", false, "Use as the default address")

	return cmd
}

func newAddressesUpdateCmd() *cobra.Command {
	var street, number, complement, neighborhood, city, state, zip, country string
	var isDefault bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			id, err := parseID(args[0], "address")
			if err != nil {
				return err
			}

			in := models.AddressUpdate{
				Street:       stringFlag(cmd, "street", street),
				Number:       stringFlag(cmd, "number", number),
				Complement:   stringFlag(cmd, "complement", complement),
				Neighborhood: stringFlag(cmd, "neighborhood", neighborhood),
				City:         stringFlag(cmd, "city", city),
				State:        stringFlag(cmd, "state", strings.ToUpper(state)),
				ZipCode:      stringFlag(cmd, "zip", zip),
				Country:      stringFlag(cmd, "country", country),
				IsDefault:    boolFlag(cmd, "default", isDefault),
			}
			if in == (models.AddressUpdate{}) {
				return output.ErrUsage("Nothing to update")
			}

			var a *models.Address
			err = track(cmd.Context(), app, "Addresses", "Update", func(ctx context.Context) error {
				a, err = app.Shop.UpdateAddress(ctx, id, in)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(a, output.WithSummary("Updated address: "+formatAddress(a)))
		},
	}

	cmd.Flags().StringVar(&street, "street", "", "Street")
	cmd.Flags().StringVar(&number, "number", "", "Number")
	cmd.Flags().StringVar(&complement, "complement", "", "Complement")
	cmd.Flags().StringVar(&neighborhood, "neighborhood", "", "Neighborhood")
	cmd.Flags().StringVar(&city, "city", "", "City")
	cmd.Flags().StringVar(&state, "state", "", "Two-letter state code")
	cmd.Flags().StringVar(&zip, "zip", "", "Postal code")
	cmd.Flags().StringVar(&country, "country", "", "Country")
	cmd.Flags().BoolVar(&isDefault, "default", false, "Use as the default address")

	return cmd
}

func newAddressesDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			id, err := parseID(args[0], "address")
			if err != nil {
				return err
			}
			if err := confirmDestructive(app, force, fmt.Sprintf("Delete address #%d", id)); err != nil {
				return err
			}

			err = track(cmd.Context(), app, "Addresses", "Delete", func(ctx context.Context) error {
				return app.Shop.DeleteAddress(ctx, id)
			})
			if err != nil {
				return err
			}

			return app.OK(map[string]any{"id": id, "deleted": true},
				output.WithSummary(fmt.Sprintf("Deleted address #%d", id)))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}
