package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
)

// NewPaymentsCmd creates the payments command group.
func NewPaymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payments",
		Aliases: []string{"payment"},
		Short:   "Record and inspect payments",
	}

	cmd.AddCommand(
		newPaymentsListCmd(),
		newPaymentsShowCmd(),
		newPaymentsCreateCmd(),
	)

	return cmd
}

func newPaymentsListCmd() *cobra.Command {
	var opts models.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}

			var page *api.Page[models.Payment]
			err = track(cmd.Context(), app, "Payments", "List", func(ctx context.Context) error {
				page, err = app.Shop.GetPayments(ctx, &opts)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(page.Results,
				output.WithSummary(pageSummary(page, "payments")),
				output.WithBreadcrumbs(nextPageBreadcrumb(page, "globalprint payments list", opts.Page)...),
			)
		},
	}

	addListFlags(cmd, &opts)

	return cmd
}

func newPaymentsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			id, err := parseID(args[0], "payment")
			if err != nil {
				return err
			}

			var p *models.Payment
			err = track(cmd.Context(), app, "Payments", "Get", func(ctx context.Context) error {
				p, err = app.Shop.GetPayment(ctx, id)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(p,
				output.WithSummary(paymentSummary(p)),
				output.WithBreadcrumbs(output.Breadcrumb{
					Action: "order", Cmd: fmt.Sprintf("globalprint orders show %d", p.Order), Description: "Show the order",
				}),
			)
		},
	}
}

func paymentSummary(p *models.Payment) string {
	return fmt.Sprintf("Payment #%d for order #%d: %s, %s", p.ID, p.Order, output.FormatMoney(p.Amount.StringFixed(2)), p.Status)
}

func newPaymentsCreateCmd() *cobra.Command {
	var method, amount string

	cmd := &cobra.Command{
		Use:     "create <order-id>",
		Short:   "Record a payment for an order",
		Args:    cobra.ExactArgs(1),
		Example: "  globalprint payments create 42 --method pix --amount 119.70",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			orderID, err := parseID(args[0], "order")
			if err != nil {
				return err
			}

			req := models.PaymentRequest{OrderID: orderID, PaymentMethod: method}
			if req.Amount, err = parseMoney("amount", amount); err != nil {
				return err
			}

			var p *models.Payment
			err = track(cmd.Context(), app, "Payments", "Create", func(ctx context.Context) error {
				p, err = app.Shop.CreatePayment(ctx, req)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(p, output.WithSummary(paymentSummary(p)))
		},
	}

	cmd.Flags().Var(newEnumValue(&method, paymentMethods), "method", "Payment method: "+strings.Join(paymentMethods, ", ")+" (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount (required)")
	_ = cmd.MarkFlagRequired("method")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
