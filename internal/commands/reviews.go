package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
)

// NewReviewsCmd creates the reviews command group.
func NewReviewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reviews",
		Aliases: []string{"review"},
		Short:   "Write product reviews",
		Long:    "Write, edit, and delete your product reviews. To read reviews use: globalprint products reviews <id>",
	}

	cmd.AddCommand(
		newReviewsCreateCmd(),
		newReviewsUpdateCmd(),
		newReviewsDeleteCmd(),
	)

	return cmd
}

func newReviewsCreateCmd() *cobra.Command {
	var req models.CreateReviewRequest

	cmd := &cobra.Command{
		Use:     "create <product-id>",
		Short:   "Review a product",
		Args:    cobra.ExactArgs(1),
		Example: `  globalprint reviews create 12 --rating 5 --comment "Impressão impecável"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			if req.ProductID, err = parseID(args[0], "product"); err != nil {
				return err
			}

			var review *models.Review
			err = track(cmd.Context(), app, "Reviews", "Create", func(ctx context.Context) error {
				review, err = app.Shop.CreateReview(ctx, req)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(review,
				output.WithSummary(fmt.Sprintf("Reviewed product #%d: %d/5", req.ProductID, review.Rating)),
				output.WithBreadcrumbs(output.Breadcrumb{
					Action: "reviews", Cmd: fmt.Sprintf("globalprint products reviews %d", req.ProductID), Description: "Read all reviews",
				}),
			)
		},
	}

	cmd.Flags().IntVar(&req.Rating, "rating", 0, "Rating from 1 to 5 (required)")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "Review text (required)")

	return cmd
}

func newReviewsUpdateCmd() *cobra.Command {
	var rating int
	var comment string

	cmd := &cobra.Command{
		Use:   "update <review-id>",
		Short: "Edit a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			id, err := parseID(args[0], "review")
			if err != nil {
				return err
			}

			in := models.ReviewUpdate{
				Rating:  intFlag(cmd, "rating", rating),
				Comment: stringFlag(cmd, "comment", comment),
			}
			if in == (models.ReviewUpdate{}) {
				return output.ErrUsage("Nothing to update")
			}

			var review *models.Review
			err = track(cmd.Context(), app, "Reviews", "Update", func(ctx context.Context) error {
				review, err = app.Shop.UpdateReview(ctx, id, in)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(review, output.WithSummary(fmt.Sprintf("Updated review #%d", review.ID)))
		},
	}

	cmd.Flags().IntVar(&rating, "rating", 0, "Rating from 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "Review text")

	return cmd
}

func newReviewsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <review-id>",
		Short: "Delete a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			id, err := parseID(args[0], "review")
			if err != nil {
				return err
			}
			if err := confirmDestructive(app, force, fmt.Sprintf("Delete review #%d", id)); err != nil {
				return err
			}

			err = track(cmd.Context(), app, "Reviews", "Delete", func(ctx context.Context) error {
				return app.Shop.DeleteReview(ctx, id)
			})
			if err != nil {
				return err
			}

			return app.OK(map[string]any{"id": id, "deleted": true},
				output.WithSummary(fmt.Sprintf("Deleted review #%d", id)))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}
