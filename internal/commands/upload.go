package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/richtext"
)

// openAttachment validates and opens a local file for upload. The caller
// closes the returned file.
func openAttachment(path string) (models.Attachment, *os.File, error) {
	if err := richtext.ValidateFile(path); err != nil {
		return models.Attachment{}, nil, output.ErrUsage(err.Error())
	}
	f, err := os.Open(path) //nolint:gosec // G304: user-selected upload
	if err != nil {
		return models.Attachment{}, nil, output.ErrUsage(fmt.Sprintf("cannot open %s: %v", filepath.Base(path), err))
	}
	return models.Attachment{
		Filename:    filepath.Base(path),
		ContentType: richtext.DetectMIME(path),
		Content:     f,
	}, f, nil
}

// NewUploadCmd creates the upload command.
func NewUploadCmd() *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file",
		Long: fmt.Sprintf(`Upload artwork or a reference file and print its URL.

Files up to %dMB are accepted.`, richtext.MaxFileSize>>20),
		Example: "  globalprint upload logo.pdf --path artwork/",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(app); err != nil {
				return err
			}

			file, f, err := openAttachment(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var result *models.UploadResult
			err = track(cmd.Context(), app, "Uploads", "Upload", func(ctx context.Context) error {
				result, err = app.Shop.UploadFile(ctx, file, dest)
				return err
			})
			if err != nil {
				return err
			}

			return app.OK(result, output.WithSummary(fmt.Sprintf("Uploaded %s (%s)", file.Filename, file.ContentType)))
		},
	}

	cmd.Flags().StringVar(&dest, "path", "", "Destination folder on the server")

	return cmd
}
