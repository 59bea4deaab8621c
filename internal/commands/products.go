package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
)

// NewProductsCmd creates the products command group.
func NewProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "catalog"},
		Short:   "Browse and manage the catalog",
		Long:    "List, show, create, update, and delete catalog products.",
	}

	cmd.AddCommand(
		newProductsListCmd(),
		newProductsShowCmd(),
		newProductsCreateCmd(),
		newProductsUpdateCmd(),
		newProductsDeleteCmd(),
		newProductsReviewsCmd(),
	)

	return cmd
}

func newProductsListCmd() *cobra.Command {
	var filter models.ProductFilter
	var minPrice, maxPrice string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Example: `  globalprint products list --category canecas
  globalprint products list --min-price 10 --max-price 50 --order -price`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			if filter.MinPrice, err = optionalMoney(cmd, "min-price", minPrice); err != nil {
				return err
			}
			if filter.MaxPrice, err = optionalMoney(cmd, "max-price", maxPrice); err != nil {
				return err
			}

			var page *api.Page[models.Product]
			err = track(cmd.Context(), app, "Products", "List", func(ctx context.Context) error {
				page, err = app.Shop.GetProducts(ctx, &filter)
				return err
			})
			if err != nil {
				return err
			}

			breadcrumbs := []output.Breadcrumb{
				{Action: "show", Cmd: "globalprint products show <id>", Description: "Show product details"},
				{Action: "add", Cmd: "globalprint cart add <id>", Description: "Add to cart"},
			}
			breadcrumbs = append(breadcrumbs, nextPageBreadcrumb(page, "globalprint products list", filter.Page)...)

			return app.OK(page.Results,
				output.WithSummary(pageSummary(page, "products")),
				output.WithBreadcrumbs(breadcrumbs...),
			)
		},
	}

	cmd.Flags().StringVar(&filter.Category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&filter.Search, "search", "", "Filter by text")
	cmd.Flags().StringVar(&minPrice, "min-price", "", "Minimum price")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "Maximum price")
	cmd.Flags().StringVar(&filter.Ordering, "order", "", "Ordering field, e.g. price or -created_at")
	cmd.Flags().IntVar(&filter.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&filter.PageSize, "page-size", 0, "Results per page")

	return cmd
}

func newProductsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show product details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "product")
			if err != nil {
				return err
			}

			var product *models.Product
			err = track(cmd.Context(), app, "Products", "Get", func(ctx context.Context) error {
				product, err = app.Shop.GetProduct(ctx, id)
				return err
			})
			if err != nil {
				return err
			}

			summary := product.Name
			if !product.InStock() {
				summary += " (out of stock)"
			}

			return app.OK(product,
				output.WithSummary(summary),
				output.WithBreadcrumbs(
					output.Breadcrumb{Action: "add", Cmd: fmt.Sprintf("globalprint cart add %d", id), Description: "Add to cart"},
					output.Breadcrumb{Action: "reviews", Cmd: fmt.Sprintf("globalprint products reviews %d", id), Description: "Read reviews"},
				),
			)
		},
	}
}

func newProductsCreateCmd() *cobra.Command {
	var in models.ProductInput
	var price string
	var weight float64

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a product",
		Long:    "Create a catalog product. Requires an admin account.",
		Example: `  globalprint products create --name "Caneca 325ml" --price 39.90 --category canecas --stock 120`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}

			if in.Price, err = parseMoney("price", price); err != nil {
				return err
			}
			if cmd.Flags().Changed("weight") {
				in.Weight = &weight
			}

			var product *models.Product
			err = track(cmd.Context(), app, "Products", "Create", func(ctx context.Context) error {
				product, err = app.Shop.CreateProduct(ctx, in)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(product,
				output.WithSummary(fmt.Sprintf("Created product #%d: %s", product.ID, product.Name)),
				output.WithBreadcrumbs(output.Breadcrumb{
					Action: "show", Cmd: fmt.Sprintf("globalprint products show %d", product.ID), Description: "Show product",
				}),
			)
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Product name (required)")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description (HTML or Markdown)")
	cmd.Flags().StringVar(&price, "price", "", "Unit price (required)")
	cmd.Flags().StringVar(&in.Category, "category", "", "Category (required)")
	cmd.Flags().IntVar(&in.StockQuantity, "stock", 0, "Stock quantity")
	cmd.Flags().StringVar(&in.ImageURL, "image-url", "", "Image URL")
	cmd.Flags().BoolVar(&in.IsActive, "active", true, "List the product in the storefront")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Weight in kg")
	cmd.Flags().StringVar(&in.Dimensions, "dimensions", "", "Dimensions, e.g. 10x8x8cm")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func newProductsUpdateCmd() *cobra.Command {
	var name, description, category, imageURL, price string
	var stock int
	var active bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product",
		Long:  "Change the given fields of a product. Fields not passed are left as they are.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			id, err := parseID(args[0], "product")
			if err != nil {
				return err
			}

			in := models.ProductUpdate{
				Name:          stringFlag(cmd, "name", name),
				Description:   stringFlag(cmd, "description", description),
				Category:      stringFlag(cmd, "category", category),
				ImageURL:      stringFlag(cmd, "image-url", imageURL),
				StockQuantity: intFlag(cmd, "stock", stock),
				IsActive:      boolFlag(cmd, "active", active),
			}
			if in.Price, err = optionalMoney(cmd, "price", price); err != nil {
				return err
			}
			if in == (models.ProductUpdate{}) {
				return output.ErrUsage("Nothing to update")
			}

			var product *models.Product
			err = track(cmd.Context(), app, "Products", "Update", func(ctx context.Context) error {
				product, err = app.Shop.UpdateProduct(ctx, id, in)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(product, output.WithSummary(fmt.Sprintf("Updated product #%d", product.ID)))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&price, "price", "", "Unit price")
	cmd.Flags().StringVar(&category, "category", "", "Category")
	cmd.Flags().IntVar(&stock, "stock", 0, "Stock quantity")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "Image URL")
	cmd.Flags().BoolVar(&active, "active", true, "List the product in the storefront")

	return cmd
}

func newProductsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			id, err := parseID(args[0], "product")
			if err != nil {
				return err
			}
			if err := confirmDestructive(app, force, fmt.Sprintf("Delete product #%d", id)); err != nil {
				return err
			}

			err = track(cmd.Context(), app, "Products", "Delete", func(ctx context.Context) error {
				return app.Shop.DeleteProduct(ctx, id)
			})
			if err != nil {
				return err
			}

			return app.OK(map[string]any{"id": id, "deleted": true},
				output.WithSummary(fmt.Sprintf("Deleted product #%d", id)))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}

func newProductsReviewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reviews <id>",
		Short: "List a product's reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "product")
			if err != nil {
				return err
			}

			var page *api.Page[models.Review]
			err = track(cmd.Context(), app, "Products", "Reviews", func(ctx context.Context) error {
				page, err = app.Shop.GetProductReviews(ctx, id)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(page.Results,
				output.WithSummary(pageSummary(page, "reviews")),
				output.WithBreadcrumbs(output.Breadcrumb{
					Action: "review", Cmd: fmt.Sprintf("globalprint reviews create %d --rating 5 --comment <text>", id), Description: "Write a review",
				}),
			)
		},
	}
}
