package user

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/logging"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/resolve"
)

// relationFlags are the targets a user can be associated to. Exactly one is
// given per invocation.
var relationFlags = []string{"policy"}

// relationOp applies or removes one user association.
type relationOp struct {
	verb   string
	policy func(ctx context.Context, userUUID, policyUUID string) error
}

func addRelationFlags(cmd *cobra.Command, policy *string, help string) {
	cmd.Flags().StringVar(policy, "policy", "", help)
	cmd.MarkFlagsOneRequired(relationFlags...)
	cmd.MarkFlagsMutuallyExclusive(relationFlags...)
}

func runRelation(ctx context.Context, client userAPI, op relationOp, identifier, policy string) error {
	uuid, err := resolve.UserUUID(ctx, client, identifier)
	if err != nil {
		return err
	}

	if policy != "" {
		policyUUID, err := resolve.PolicyUUID(ctx, client, policy)
		if err != nil {
			return err
		}

		logging.Debug.Printfln("%s policy %s for user %s", op.verb, policyUUID, uuid)
		if err := op.policy(ctx, uuid, policyUUID); err != nil {
			return fmt.Errorf("failed to %s policy: %w", op.verb, err)
		}
	}
	return nil
}
