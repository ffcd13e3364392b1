package user

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/output"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/resolve"
	"github.com/wazo-platform/wazo-auth-cli/pkg/sdk"
)

var showFormat string

var showCmd = &cobra.Command{
	Use:   "show <identifier>",
	Short: "Show a user",
	Long: `Shows a user along with its policies, tenants and groups.

The identifier is a username or a UUID.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(showFormat, output.DocumentFormats)
		if err != nil {
			return err
		}
		return runShow(cmd.Context(), sdkClient(cmd.Context()), args[0], format, cmd.OutOrStdout())
	},
}

func runShow(ctx context.Context, client userAPI, identifier string, format output.Format, w io.Writer) error {
	uuid, err := resolve.UserUUID(ctx, client, identifier)
	if err != nil {
		return err
	}

	user, err := client.GetUser(ctx, uuid)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		user = sdk.Object{}
	}

	relations := []struct {
		key   string
		fetch func(context.Context, string) (*sdk.ListResult, error)
	}{
		{"policies", client.GetUserPolicies},
		{"tenants", client.GetUserTenants},
		{"groups", client.GetUserGroups},
	}
	for _, rel := range relations {
		result, err := rel.fetch(ctx, uuid)
		if err != nil {
			return fmt.Errorf("failed to get user %s: %w", rel.key, err)
		}
		user[rel.key] = result.Items
	}

	return output.RenderDocument(w, user, format)
}

func init() {
	showCmd.Flags().StringVarP(&showFormat, "format", "f", string(output.FormatJSON), "Output format: json, yaml")
}
