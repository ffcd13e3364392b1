package user

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/logging"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/resolve"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <identifier>",
	Short: "Delete a user",
	Long:  `Deletes the user identified by its username or UUID.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDelete(cmd.Context(), sdkClient(cmd.Context()), args[0])
	},
}

func runDelete(ctx context.Context, client userAPI, identifier string) error {
	uuid, err := resolve.UserUUID(ctx, client, identifier)
	if err != nil {
		return err
	}

	logging.Debug.Printfln("deleting user %s", uuid)
	if err := client.DeleteUser(ctx, uuid); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
