package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/output"
)

// NewAPICmd creates the api command for raw API access.
func NewAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api <verb> <path>",
		Short: "Raw API access",
		Long: `Make raw requests to any storefront endpoint. Requests go through the
same pipeline as every other command: bearer token, refresh on 401, and
error normalization.

Paths are relative to /api/v1/ (e.g. "products/12/"). Full URLs on the
configured origin are accepted too.`,
	}

	cmd.AddCommand(
		newAPIGetCmd(),
		newAPIBodyCmd(http.MethodPost),
		newAPIBodyCmd(http.MethodPatch),
		newAPIBodyCmd(http.MethodPut),
		newAPIDeleteCmd(),
	)

	return cmd
}

func newAPIGetCmd() *cobra.Command {
	var query []string

	cmd := &cobra.Command{
		Use:     "get <path>",
		Short:   "GET request to API",
		Args:    cobra.ExactArgs(1),
		Example: `  globalprint api get products/ -Q category=canecas -Q page=2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseQuery(query)
			if err != nil {
				return err
			}
			return runAPI(cmd, &api.Request{Method: http.MethodGet, Path: args[0], Query: q})
		},
	}

	cmd.Flags().StringArrayVarP(&query, "query", "Q", nil, "Query parameter as key=value (repeatable)")

	return cmd
}

func newAPIBodyCmd(method string) *cobra.Command {
	var data string
	verb := strings.ToLower(method)

	cmd := &cobra.Command{
		Use:   verb + " <path>",
		Short: method + " request to API",
		Long: fmt.Sprintf(`Make a raw %s request. --data takes inline JSON, @file to read a
file, or - to read standard input.`, method),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if data == "" {
				return output.ErrUsage("--data is required")
			}
			body, err := readJSONData(data, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runAPI(cmd, &api.Request{Method: method, Path: args[0], Body: body})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body (required)")
	_ = cmd.MarkFlagRequired("data") // Error only if flag doesn't exist

	return cmd
}

func newAPIDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <path>",
		Short: "DELETE request to API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := confirmDestructive(app, force, "DELETE "+args[0]); err != nil {
				return err
			}
			return runAPI(cmd, &api.Request{Method: http.MethodDelete, Path: args[0]})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}

func runAPI(cmd *cobra.Command, req *api.Request) error {
	app, err := appFrom(cmd)
	if err != nil {
		return err
	}

	var raw json.RawMessage
	err = track(cmd.Context(), app, "API", strings.ToUpper(req.Method[:1])+strings.ToLower(req.Method[1:]), func(ctx context.Context) error {
		return app.Client.Do(ctx, req, &raw)
	})
	if err != nil {
		return err
	}

	// Empty response (204 No Content)
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	summary := apiSummary(raw)
	if req.Method != http.MethodGet {
		summary = fmt.Sprintf("%s %s: %s", req.Method, req.Path, summary)
	}
	return app.OK(raw, output.WithSummary(summary))
}

// parseQuery turns key=value pairs into query values.
func parseQuery(pairs []string) (url.Values, error) {
	q := url.Values{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, output.ErrUsage(fmt.Sprintf("Invalid query %q, want key=value", p))
		}
		q.Add(k, v)
	}
	return q, nil
}

// readJSONData parses inline JSON, @file, or - for stdin.
func readJSONData(data string, stdin io.Reader) (json.RawMessage, error) {
	var raw []byte
	switch {
	case data == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		raw = b
	case strings.HasPrefix(data, "@"):
		b, err := os.ReadFile(strings.TrimPrefix(data, "@"))
		if err != nil {
			return nil, output.ErrUsage(err.Error())
		}
		raw = b
	default:
		raw = []byte(data)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, output.ErrUsageHint("Invalid JSON data", fmt.Sprintf("JSON parse error: %v", err))
	}
	return json.RawMessage(raw), nil
}

// apiSummary generates a summary from the API response.
func apiSummary(data []byte) string {
	var arr []any
	if err := json.Unmarshal(data, &arr); err == nil {
		return fmt.Sprintf("%d items", len(arr))
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return "API response"
	}

	// Paginated listing
	if results, ok := obj["results"].([]any); ok {
		if count, ok := obj["count"].(float64); ok {
			return fmt.Sprintf("%d of %d items", len(results), int(count))
		}
		return fmt.Sprintf("%d items", len(results))
	}

	for _, key := range []string{"name", "title", "email"} {
		if v, ok := obj[key].(string); ok && v != "" {
			// Truncate title if too long
			if r := []rune(v); len(r) > 50 {
				v = string(r[:47]) + "..."
			}
			return v
		}
	}
	if id, ok := obj["id"].(float64); ok {
		return fmt.Sprintf("#%d", int64(id))
	}
	return "API response"
}
