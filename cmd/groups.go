package cmd

import (
	"context"

	"github.com/jmurray2011/cwlogs/internal/cloudwatch"
	"github.com/jmurray2011/cwlogs/internal/output"

	"github.com/spf13/cobra"
)

var (
	groupsPrefix string
	groupsLimit  int
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List available log groups",
	Long: `List CloudWatch log groups in the account.

Examples:
  # List all log groups
  cwlogs groups

  # Filter by prefix
  cwlogs groups --prefix "/aws/lambda"

  # Output as JSON
  cwlogs groups -o json`,
	Args: cobra.NoArgs,
	RunE: runGroups,
}

func init() {
	rootCmd.AddCommand(groupsCmd)

	groupsCmd.Flags().StringVar(&groupsPrefix, "prefix", "", "Filter log groups by prefix")
	groupsCmd.Flags().IntVarP(&groupsLimit, "limit", "l", 50, "Max log groups to return")
}

func runGroups(cmd *cobra.Command, args []string) error {
	app := GetApp(cmd)
	return app.runGroups(cmd.Context(), groupsPrefix, groupsLimit)
}

func (a *App) runGroups(ctx context.Context, prefix string, limit int) error {
	format, err := output.ParseFormat(a.GetOutputFormat())
	if err != nil {
		return err
	}
	loc, err := a.Location()
	if err != nil {
		return err
	}

	client, err := a.NewClient(ctx, a.Credentials())
	if err != nil {
		return err
	}

	a.Debugf("Listing log groups (prefix %q, limit %d)", prefix, limit)
	groups, err := cloudwatch.NewClient(client).ListLogGroups(ctx, prefix, limit)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(string(format), a.Stdout).
		WithLocation(loc).
		WithNoColor(a.Config.NoColor)
	return formatter.FormatLogGroups(groups)
}

// completeLogGroups offers log group names for --group and the streams argument.
func completeLogGroups(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	app := GetApp(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := app.NewClient(ctx, app.Credentials())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	groups, err := cloudwatch.NewClient(client).ListLogGroups(ctx, toComplete, 50)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
