package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/dateparse"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
)

// NewCustomOrdersCmd creates the custom-orders command group.
func NewCustomOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "custom-orders",
		Aliases: []string{"custom-order", "quotes"},
		Short:   "Request custom print jobs",
		Long:    "Request a quote for a custom print job, with optional artwork attachments, and follow its status.",
	}

	cmd.AddCommand(
		newCustomOrdersListCmd(),
		newCustomOrdersShowCmd(),
		newCustomOrdersCreateCmd(),
	)

	return cmd
}

func newCustomOrdersListCmd() *cobra.Command {
	var opts models.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your custom order requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}

			var page *api.Page[models.CustomOrder]
			err = track(cmd.Context(), app, "CustomOrders", "List", func(ctx context.Context) error {
				page, err = app.Shop.GetCustomOrders(ctx, &opts)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(page.Results,
				output.WithSummary(pageSummary(page, "custom orders")),
				output.WithBreadcrumbs(nextPageBreadcrumb(page, "globalprint custom-orders list", opts.Page)...),
			)
		},
	}

	addListFlags(cmd, &opts)

	return cmd
}

func newCustomOrdersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a custom order request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			id, err := parseID(args[0], "custom order")
			if err != nil {
				return err
			}

			var co *models.CustomOrder
			err = track(cmd.Context(), app, "CustomOrders", "Get", func(ctx context.Context) error {
				co, err = app.Shop.GetCustomOrder(ctx, id)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(co, output.WithSummary(fmt.Sprintf("%s (%s)", co.Title, co.Status)))
		},
	}
}

func newCustomOrdersCreateCmd() *cobra.Command {
	var req models.CreateCustomOrderRequest
	var budgetMin, budgetMax, deadline string
	var attach []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Request a custom print job",
		Example: `  globalprint custom-orders create --title "Banner 3x1m" --description "Lona fosca" \
    --budget-min 150 --budget-max 300 --deadline 2026-11-30 --attach arte.pdf
  globalprint custom-orders create --title "Convites" --description "200 unidades" --deadline "sexta que vem"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}

			if deadline != "" {
				if req.Deadline, err = dateparse.Future(deadline, time.Now()); err != nil {
					return output.ErrUsageHint("Invalid --deadline: "+err.Error(), "Use YYYY-MM-DD, DD/MM/YYYY, or +N days")
				}
			}
			if req.BudgetMin, err = parseMoney("budget-min", budgetMin); err != nil {
				return err
			}
			if req.BudgetMax, err = parseMoney("budget-max", budgetMax); err != nil {
				return err
			}

			for _, path := range attach {
				file, f, err := openAttachment(path)
				if err != nil {
					return err
				}
				defer f.Close()
				req.Attachments = append(req.Attachments, file)
			}

			var co *models.CustomOrder
			err = track(cmd.Context(), app, "CustomOrders", "Create", func(ctx context.Context) error {
				co, err = app.Shop.CreateCustomOrder(ctx, req)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(co,
				output.WithSummary(fmt.Sprintf("Requested custom order #%d: %s", co.ID, co.Title)),
				output.WithBreadcrumbs(output.Breadcrumb{
					Action: "show", Cmd: fmt.Sprintf("globalprint custom-orders show %d", co.ID), Description: "Follow this request",
				}),
			)
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "Title (required)")
	cmd.Flags().StringVar(&req.Description, "description", "", "What should be printed (required)")
	cmd.Flags().StringVar(&budgetMin, "budget-min", "0", "Minimum budget")
	cmd.Flags().StringVar(&budgetMax, "budget-max", "0", "Maximum budget")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline: YYYY-MM-DD, DD/MM/YYYY, tomorrow, +N (required)")
	cmd.Flags().StringArrayVar(&attach, "attach", nil, "Attach a file (repeatable)")

	return cmd
}
