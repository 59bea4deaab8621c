package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/appctx"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
)

// NewCartCmd creates the cart command group.
func NewCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage your shopping cart",
		Long:  "Show the cart, add and remove products, and change quantities.",
	}

	cmd.AddCommand(
		newCartShowCmd(),
		newCartAddCmd(),
		newCartUpdateCmd(),
		newCartRemoveCmd(),
		newCartClearCmd(),
	)

	return cmd
}

// cartSummary describes a cart, e.g. "3 items, R$ 119,70".
func cartSummary(cart *models.Cart) string {
	if len(cart.Items) == 0 {
		return "Cart is empty"
	}
	items := "items"
	if cart.TotalItems == 1 {
		items = "item"
	}
	return fmt.Sprintf("%d %s, total %s", cart.TotalItems, items, output.FormatMoney(cart.TotalPrice.StringFixed(2)))
}

func cartBreadcrumbs(cart *models.Cart) []output.Breadcrumb {
	if len(cart.Items) == 0 {
		return []output.Breadcrumb{
			{Action: "browse", Cmd: "globalprint products list", Description: "Browse the catalog"},
		}
	}
	return []output.Breadcrumb{
		{Action: "checkout", Cmd: "globalprint orders create --address <address> --payment <method>", Description: "Place an order"},
		{Action: "update", Cmd: "globalprint cart update <item-id> --quantity <n>", Description: "Change a quantity"},
	}
}

// cartOK renders a cart returned by a cart operation.
func cartOK(app *appctx.App, cart *models.Cart, summary string) error {
	if summary == "" {
		summary = cartSummary(cart)
	} else {
		summary += " (" + cartSummary(cart) + ")"
	}
	return app.OK(cart, output.WithSummary(summary), output.WithBreadcrumbs(cartBreadcrumbs(cart)...))
}

func newCartShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}

			var cart *models.Cart
			err = track(cmd.Context(), app, "Cart", "Get", func(ctx context.Context) error {
				cart, err = app.Shop.GetCart(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return cartOK(app, cart, "")
		},
	}
}

func newCartAddCmd() *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:     "add <product-id>",
		Short:   "Add a product to the cart",
		Args:    cobra.ExactArgs(1),
		Example: "  globalprint cart add 12 --quantity 3",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			productID, err := parseID(args[0], "product")
			if err != nil {
				return err
			}

			var cart *models.Cart
			err = track(cmd.Context(), app, "Cart", "Add", func(ctx context.Context) error {
				cart, err = app.Shop.AddToCart(ctx, models.AddToCartRequest{ProductID: productID, Quantity: quantity})
				return err
			})
			if err != nil {
				return err
			}
			return cartOK(app, cart, fmt.Sprintf("Added %d × product #%d", quantity, productID))
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "n", 1, "Quantity")

	return cmd
}

func newCartUpdateCmd() *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Change the quantity of a cart item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			itemID, err := parseID(args[0], "cart item")
			if err != nil {
				return err
			}

			var cart *models.Cart
			err = track(cmd.Context(), app, "Cart", "Update", func(ctx context.Context) error {
				cart, err = app.Shop.UpdateCartItem(ctx, itemID, models.UpdateCartItemRequest{Quantity: quantity})
				return err
			})
			if err != nil {
				return err
			}
			return cartOK(app, cart, fmt.Sprintf("Item #%d set to %d", itemID, quantity))
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "n", 0, "New quantity (required)")
	_ = cmd.MarkFlagRequired("quantity")

	return cmd
}

func newCartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <item-id>",
		Aliases: []string{"rm"},
		Short:   "Remove an item from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			itemID, err := parseID(args[0], "cart item")
			if err != nil {
				return err
			}

			var cart *models.Cart
			err = track(cmd.Context(), app, "Cart", "Remove", func(ctx context.Context) error {
				cart, err = app.Shop.RemoveFromCart(ctx, itemID)
				return err
			})
			if err != nil {
				return err
			}
			return cartOK(app, cart, fmt.Sprintf("Removed item #%d", itemID))
		},
	}
}

func newCartClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			if err := confirmDestructive(app, force, "Empty the cart"); err != nil {
				return err
			}

			err = track(cmd.Context(), app, "Cart", "Clear", app.Shop.ClearCart)
			if err != nil {
				return err
			}

			return app.OK(map[string]any{"cleared": true}, output.WithSummary("Cart emptied"))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}
