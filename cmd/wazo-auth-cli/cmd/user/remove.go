package user

import (
	"github.com/spf13/cobra"
)

var removePolicy string

var removeCmd = &cobra.Command{
	Use:   "remove <identifier> --policy <policy>",
	Short: "Dissociate a user from a policy",
	Long: `Removes a policy from a user. Both the user and the policy may be given
by name or UUID.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := sdkClient(cmd.Context())
		op := relationOp{verb: "remove", policy: client.RemoveUserPolicy}
		return runRelation(cmd.Context(), client, op, args[0], removePolicy)
	},
}

func init() {
	addRelationFlags(removeCmd, &removePolicy, "The name or UUID of the policy to remove from this user")
}
