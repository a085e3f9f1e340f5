package cmd

import (
	"context"

	"github.com/jmurray2011/cwlogs/internal/cloudwatch"
	"github.com/jmurray2011/cwlogs/internal/output"

	"github.com/spf13/cobra"
)

var (
	streamsPrefix  string
	streamsLimit   int
	streamsOrderBy string
)

var streamsCmd = &cobra.Command{
	Use:   "streams <group>",
	Short: "List log streams in a log group",
	Long: `List log streams in a CloudWatch log group, most recently written first.

Use it to find the --stream value for 'cwlogs get'.

Examples:
  # List streams in a log group
  cwlogs streams /app/api

  # Streams whose name starts with "web-"
  cwlogs streams /app/api --prefix web-

  # Limit results
  cwlogs streams /app/api -l 50`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeLogGroups,
	RunE:              runStreams,
}

func init() {
	rootCmd.AddCommand(streamsCmd)

	streamsCmd.Flags().StringVar(&streamsPrefix, "prefix", "", "Filter streams by name prefix (sorts by name)")
	streamsCmd.Flags().IntVarP(&streamsLimit, "limit", "l", 20, "Max streams to return")
	streamsCmd.Flags().StringVar(&streamsOrderBy, "order-by", "LastEventTime", "Sort order: LastEventTime or LogStreamName")
}

func runStreams(cmd *cobra.Command, args []string) error {
	app := GetApp(cmd)
	return app.runStreams(cmd.Context(), args[0], streamsPrefix, streamsLimit, streamsOrderBy)
}

func (a *App) runStreams(ctx context.Context, group, prefix string, limit int, orderBy string) error {
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

	a.Render.Status("Listing streams in %s...", group)
	streams, err := cloudwatch.NewClient(client).ListStreams(ctx, group, prefix, limit, orderBy)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(string(format), a.Stdout).
		WithLocation(loc).
		WithNoColor(a.Config.NoColor)
	return formatter.FormatStreams(streams)
}
