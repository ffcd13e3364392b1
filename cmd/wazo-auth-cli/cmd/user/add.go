package user

import (
	"github.com/spf13/cobra"
)

var addPolicy string

var addCmd = &cobra.Command{
	Use:   "add <identifier> --policy <policy>",
	Short: "Associate a user to a policy",
	Long: `Adds a policy to a user. Both the user and the policy may be given by
name or UUID.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := sdkClient(cmd.Context())
		op := relationOp{verb: "add", policy: client.AddUserPolicy}
		return runRelation(cmd.Context(), client, op, args[0], addPolicy)
	},
}

func init() {
	addRelationFlags(addCmd, &addPolicy, "The name or UUID of the policy to add to this user")
}
