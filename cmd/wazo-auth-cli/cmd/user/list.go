package user

import (
	"context"
	"fmt"
	"io"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/output"
	"github.com/wazo-platform/wazo-auth-cli/pkg/sdk"
)

var (
	listFormat         string
	listSearch         string
	listColumnNames    []string
	listSortColumns    []string
	listSortAscending  bool
	listSortDescending bool
)

// listOptions shape the rendering of the user list.
type listOptions struct {
	Search      string
	Format      output.Format
	Columns     []string
	SortColumns []string
	Descending  bool
}

// listColumns puts the identifying columns first and hides the raw email
// collection, which is summarized in the "email" column.
var listColumns = output.Columns{
	Preferred: []string{"uuid", "username", "email"},
	Removed:   []string{"emails"},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Long: `Lists all users. The email column shows the main email address, or the
first one when none is marked as main.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(listFormat, output.ListFormats)
		if err != nil {
			return err
		}
		opts := listOptions{
			Search:      listSearch,
			Format:      format,
			Columns:     listColumnNames,
			SortColumns: listSortColumns,
			Descending:  listSortDescending,
		}
		return runList(cmd.Context(), sdkClient(cmd.Context()), opts, cmd.OutOrStdout())
	},
}

func runList(ctx context.Context, client userAPI, opts listOptions, w io.Writer) error {
	result, err := client.ListUsers(ctx, sdk.ListUsersInput{Search: opts.Search})
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	table, err := usersTable(result.Items)
	if err != nil {
		return err
	}
	table.Sort(opts.SortColumns, opts.Descending)
	if err := table.Select(opts.Columns); err != nil {
		return err
	}
	return output.RenderTable(w, table, opts.Format)
}

// usersTable adds the derived email column to every user and tabulates them.
func usersTable(users []sdk.Object) (*output.Table, error) {
	items := make([]map[string]any, 0, len(users))
	for _, user := range users {
		emails, err := decodeEmails(user["emails"])
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", user.UUID(), err)
		}

		item := make(map[string]any, len(user)+1)
		for k, v := range user {
			item[k] = v
		}
		item["email"] = displayEmail(emails)
		items = append(items, item)
	}
	return output.FromItems(items, listColumns), nil
}

func decodeEmails(raw any) ([]sdk.Email, error) {
	if raw == nil {
		return nil, nil
	}
	var emails []sdk.Email
	if err := mapstructure.Decode(raw, &emails); err != nil {
		return nil, fmt.Errorf("invalid emails: %w", err)
	}
	return emails, nil
}

// displayEmail picks the main address, then the first one, then "".
func displayEmail(emails []sdk.Email) string {
	if main := mainEmail(emails); main != "" {
		return main
	}
	if len(emails) > 0 {
		return emails[0].Address
	}
	return ""
}

func mainEmail(emails []sdk.Email) string {
	for _, email := range emails {
		if email.Main {
			return email.Address
		}
	}
	return ""
}

func init() {
	listCmd.Flags().StringVarP(&listFormat, "format", "f", string(output.FormatTable), "Output format: table, json, yaml, csv, value")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Only list users matching this search term")
	listCmd.Flags().StringArrayVarP(&listColumnNames, "column", "c", nil, "Column to include, can be repeated")
	listCmd.Flags().StringArrayVar(&listSortColumns, "sort-column", nil, "Column to sort by, can be repeated")
	listCmd.Flags().BoolVar(&listSortAscending, "sort-ascending", false, "Sort in ascending order (default)")
	listCmd.Flags().BoolVar(&listSortDescending, "sort-descending", false, "Sort in descending order")
	listCmd.MarkFlagsMutuallyExclusive("sort-ascending", "sort-descending")
}
