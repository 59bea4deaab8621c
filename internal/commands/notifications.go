package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
)

// NewNotificationsCmd creates the notifications command group.
func NewNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"inbox"},
		Short:   "Read your notifications",
	}

	cmd.AddCommand(
		newNotificationsListCmd(),
		newNotificationsReadCmd(),
		newNotificationsReadAllCmd(),
	)

	return cmd
}

func newNotificationsListCmd() *cobra.Command {
	var opts models.ListOptions
	var unread bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}

			var page *api.Page[models.Notification]
			err = track(cmd.Context(), app, "Notifications", "List", func(ctx context.Context) error {
				page, err = app.Shop.GetNotifications(ctx, &opts)
				return err
			})
			if err != nil {
				return err
			}

			items := page.Results
			unreadCount := 0
			for _, n := range page.Results {
				if !n.IsRead {
					unreadCount++
				}
			}
			if unread {
				items = make([]models.Notification, 0, unreadCount)
				for _, n := range page.Results {
					if !n.IsRead {
						items = append(items, n)
					}
				}
			}

			var breadcrumbs []output.Breadcrumb
			if unreadCount > 0 {
				breadcrumbs = append(breadcrumbs,
					output.Breadcrumb{Action: "read", Cmd: "globalprint notifications read <id>", Description: "Mark one as read"},
					output.Breadcrumb{Action: "read-all", Cmd: "globalprint notifications read-all", Description: "Mark all as read"},
				)
			}

			return app.OK(items,
				output.WithSummary(fmt.Sprintf("%s, %d unread", pageSummary(page, "notifications"), unreadCount)),
				output.WithBreadcrumbs(breadcrumbs...),
			)
		},
	}

	addListFlags(cmd, &opts)
	cmd.Flags().BoolVar(&unread, "unread", false, "Only show unread notifications")

	return cmd
}

func newNotificationsReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}
			id, err := parseID(args[0], "notification")
			if err != nil {
				return err
			}

			var n *models.Notification
			err = track(cmd.Context(), app, "Notifications", "MarkRead", func(ctx context.Context) error {
				n, err = app.Shop.MarkNotificationAsRead(ctx, id)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(n, output.WithSummary(fmt.Sprintf("Marked #%d as read", id)))
		},
	}
}

func newNotificationsReadAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}

			err = track(cmd.Context(), app, "Notifications", "MarkAllRead", app.Shop.MarkAllNotificationsAsRead)
			if err != nil {
				return err
			}

			return app.OK(map[string]any{"read_all": true}, output.WithSummary("All notifications marked as read"))
		},
	}
}
