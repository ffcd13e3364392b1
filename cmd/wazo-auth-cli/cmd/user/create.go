package user

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/logging"
	"github.com/wazo-platform/wazo-auth-cli/pkg/sdk"
)

var (
	createUUID      string
	createPassword  string
	createEmail     string
	createFirstname string
	createLastname  string
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a user",
	Long: `Creates a user with the given username and prints its UUID.

Only the optional fields given on the command line are sent; the server
validates everything.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := sdk.CreateUserInput{
			UUID:      createUUID,
			Username:  args[0],
			Password:  createPassword,
			Email:     createEmail,
			Firstname: createFirstname,
			Lastname:  createLastname,
		}
		return runCreate(cmd.Context(), sdkClient(cmd.Context()), input, cmd.OutOrStdout())
	},
}

func runCreate(ctx context.Context, client userAPI, input sdk.CreateUserInput, w io.Writer) error {
	logging.Debug.Printfln("creating user %q", input.Username)

	user, err := client.CreateUser(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	_, err = fmt.Fprintln(w, user.UUID())
	return err
}

func init() {
	createCmd.Flags().StringVar(&createUUID, "uuid", "", "The user's UUID when matching a PBX user")
	createCmd.Flags().StringVar(&createPassword, "password", "", "The user's password")
	createCmd.Flags().StringVar(&createEmail, "email", "", "The user's main email address")
	createCmd.Flags().StringVar(&createFirstname, "firstname", "", "The user's firstname")
	createCmd.Flags().StringVar(&createLastname, "lastname", "", "The user's lastname")
	_ = createCmd.MarkFlagRequired("password")
}
