package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
)

// NewOrdersCmd creates the orders command group.
func NewOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "Place and track orders",
		Long:    "List your orders, place a new one, and cancel orders that have not shipped.",
	}

	cmd.AddCommand(
		newOrdersListCmd(),
		newOrdersShowCmd(),
		newOrdersCreateCmd(),
		newOrdersCancelCmd(),
	)

	return cmd
}

func newOrdersListCmd() *cobra.Command {
	var opts models.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}

			var page *api.Page[models.Order]
			err = track(cmd.Context(), app, "Orders", "List", func(ctx context.Context) error {
				page, err = app.Shop.GetOrders(ctx, &opts)
				return err
			})
			if err != nil {
				return err
			}

			breadcrumbs := []output.Breadcrumb{
				{Action: "show", Cmd: "globalprint orders show <id>", Description: "Show order details"},
			}
			breadcrumbs = append(breadcrumbs, nextPageBreadcrumb(page, "globalprint orders list", opts.Page)...)

			return app.OK(page.Results,
				output.WithSummary(pageSummary(page, "orders")),
				output.WithBreadcrumbs(breadcrumbs...),
			)
		},
	}

	addListFlags(cmd, &opts)

	return cmd
}

func newOrdersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show order details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			id, err := parseID(args[0], "order")
			if err != nil {
				return err
			}

			var order *models.Order
			err = track(cmd.Context(), app, "Orders", "Get", func(ctx context.Context) error {
				order, err = app.Shop.GetOrder(ctx, id)
				return err
			})
			if err != nil {
				return err
			}

			var breadcrumbs []output.Breadcrumb
			if order.Status.Cancellable() {
				breadcrumbs = append(breadcrumbs, output.Breadcrumb{
					Action: "cancel", Cmd: fmt.Sprintf("globalprint orders cancel %d", id), Description: "Cancel this order",
				})
			}
			if order.Status == models.OrderStatusPending {
				breadcrumbs = append(breadcrumbs, output.Breadcrumb{
					Action:      "pay",
					Cmd:         fmt.Sprintf("globalprint payments create %d --method <method> --amount %s", id, order.TotalAmount.StringFixed(2)),
					Description: "Pay for this order",
				})
			}

			return app.OK(order,
				output.WithSummary(orderSummary(order)),
				output.WithBreadcrumbs(breadcrumbs...),
			)
		},
	}
}

func orderSummary(o *models.Order) string {
	return fmt.Sprintf("Order #%d: %s, %s", o.ID, o.Status, output.FormatMoney(o.TotalAmount.StringFixed(2)))
}

// parseOrderLines parses "product:quantity" pairs. A bare product ID means
// quantity 1.
func parseOrderLines(items []string) ([]models.OrderLine, error) {
	lines := make([]models.OrderLine, 0, len(items))
	for _, item := range items {
		idPart, qtyPart, hasQty := strings.Cut(item, ":")
		id, err := parseID(idPart, "product")
		if err != nil {
			return nil, err
		}
		qty := 1
		if hasQty {
			qty, err = strconv.Atoi(qtyPart)
			if err != nil || qty < 1 {
				return nil, output.ErrUsage(fmt.Sprintf("Invalid quantity in %q", item))
			}
		}
		lines = append(lines, models.OrderLine{ProductID: id, Quantity: qty})
	}
	return lines, nil
}

func newOrdersCreateCmd() *cobra.Command {
	var item []string
	var address, payment string
	var fromCart bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Place an order",
		Long: `Place an order for the given items, or for the contents of the cart
with --from-cart.`,
		Example: `  globalprint orders create --item 12:2 --item 7 --address "Rua A, 100" --payment pix
  globalprint orders create --from-cart --address "Rua A, 100" --payment credit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			if fromCart == (len(item) > 0) {
				return output.ErrUsage("Pass either --item or --from-cart")
			}

			req := models.CreateOrderRequest{ShippingAddress: address, PaymentMethod: payment}
			if fromCart {
				var cart *models.Cart
				err = track(cmd.Context(), app, "Cart", "Get", func(ctx context.Context) error {
					cart, err = app.Shop.GetCart(ctx)
					return err
				})
				if err != nil {
					return err
				}
				if len(cart.Items) == 0 {
					return output.ErrUsage("Cart is empty")
				}
				for _, ci := range cart.Items {
					req.Items = append(req.Items, models.OrderLine{ProductID: ci.Product.ID, Quantity: ci.Quantity})
				}
			} else if req.Items, err = parseOrderLines(item); err != nil {
				return err
			}

			var order *models.Order
			err = track(cmd.Context(), app, "Orders", "Create", func(ctx context.Context) error {
				order, err = app.Shop.CreateOrder(ctx, req)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(order,
				output.WithSummary("Placed "+orderSummary(order)),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "show", Cmd: fmt.Sprintf("globalprint orders show %d", order.ID), Description: "Track this order"},
				),
			)
		},
	}

	cmd.Flags().StringArrayVar(&item, "item", nil, "Item as product-id[:quantity] (repeatable)")
	cmd.Flags().BoolVar(&fromCart, "from-cart", false, "Order the contents of the cart")
	cmd.Flags().StringVar(&address, "address", "", "Shipping address (required)")
	cmd.Flags().Var(newEnumValue(&payment, paymentMethods), "payment", "Payment method: "+strings.Join(paymentMethods, ", ")+" (required)")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("payment")

	return cmd
}

func newOrdersCancelCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an order",
		Long:  "Cancel an order that is still pending or confirmed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			id, err := parseID(args[0], "order")
			if err != nil {
				return err
			}
			if err := confirmDestructive(app, force, fmt.Sprintf("Cancel order #%d", id)); err != nil {
				return err
			}

			var order *models.Order
			err = track(cmd.Context(), app, "Orders", "Cancel", func(ctx context.Context) error {
				order, err = app.Shop.CancelOrder(ctx, id)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(order, output.WithSummary(orderSummary(order)))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}
