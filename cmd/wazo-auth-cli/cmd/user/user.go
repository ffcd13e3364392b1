package user

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/config"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/resolve"
	"github.com/wazo-platform/wazo-auth-cli/pkg/sdk"
)

// UserCmd is the parent command for user operations
var UserCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage wazo-auth users",
	Long:  `Commands for creating, deleting, listing and inspecting users and their policies.`,
}

func init() {
	UserCmd.AddCommand(addCmd)
	UserCmd.AddCommand(createCmd)
	UserCmd.AddCommand(deleteCmd)
	UserCmd.AddCommand(listCmd)
	UserCmd.AddCommand(removeCmd)
	UserCmd.AddCommand(showCmd)
}

// userAPI is the part of the wazo-auth API the user commands call.
type userAPI interface {
	resolve.UserFinder
	resolve.PolicyFinder
	CreateUser(ctx context.Context, input sdk.CreateUserInput) (sdk.Object, error)
	DeleteUser(ctx context.Context, uuid string) error
	GetUser(ctx context.Context, uuid string) (sdk.Object, error)
	GetUserPolicies(ctx context.Context, uuid string) (*sdk.ListResult, error)
	GetUserTenants(ctx context.Context, uuid string) (*sdk.ListResult, error)
	GetUserGroups(ctx context.Context, uuid string) (*sdk.ListResult, error)
	AddUserPolicy(ctx context.Context, userUUID, policyUUID string) error
	RemoveUserPolicy(ctx context.Context, userUUID, policyUUID string) error
}

var _ userAPI = (*sdk.Client)(nil)

func sdkClient(ctx context.Context) userAPI {
	cfg := config.MustFromContext(ctx)
	return cfg.Session.Client()
}
