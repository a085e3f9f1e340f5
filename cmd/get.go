package cmd

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/jmurray2011/cwlogs/internal/cloudwatch"
	cwerrors "github.com/jmurray2011/cwlogs/internal/errors"
	"github.com/jmurray2011/cwlogs/internal/logs"
	"github.com/jmurray2011/cwlogs/internal/output"
	"github.com/jmurray2011/cwlogs/pkg/timeutil"

	"github.com/spf13/cobra"
)

// getFlags holds the raw flag values of one get invocation.
type getFlags struct {
	group         string
	streams       []string
	filterPattern string
	startTime     string
	endTime       string
	query         string
	watch         bool
	noPrefix      bool
}

// getPlan is a validated get invocation, ready to run.
type getPlan struct {
	options logs.Options
	prefix  bool
	sink    logs.Sink
}

var getOpts getFlags

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch log events from a log group",
	Long: `Fetch log events and write them to stdout, one line per event.

Without --filter-pattern exactly one --stream is read in order with
GetLogEvents. With --filter-pattern the whole group is searched with
FilterLogEvents; --stream may then be repeated to narrow the search.

Each line is prefixed with the event time in the display zone
(display_offset, +09:00 unless configured) unless --no-prefix is given.

Time formats for --start-time and --end-time:
  "2024-01-15 10:30:00"   wall clock in the display zone
  2024-01-15T01:30:00Z    RFC3339
  30m, 2h, 7d             relative to now

Examples:
  # Read one stream from the beginning
  cwlogs get -g /app/api -s web-1

  # Search every stream for errors since this morning
  cwlogs get -g /app/api -f ERROR --start-time "2024-01-15 09:00:00"

  # Search two streams, messages only
  cwlogs get -g /app/api -s web-1 -s web-2 -f '{ $.status = 500 }' --no-prefix

  # Print only the request path of JSON events
  cwlogs get -g /app/api -f '{ $.status = 500 }' -q 'request.path'`,
	Args: cobra.NoArgs,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getOpts.group, "group", "g", "", "Log group name (required)")
	getCmd.Flags().StringArrayVarP(&getOpts.streams, "stream", "s", nil, "Log stream name (repeatable with --filter-pattern)")
	getCmd.Flags().StringVarP(&getOpts.filterPattern, "filter-pattern", "f", "", "CloudWatch Logs filter pattern")
	getCmd.Flags().StringVar(&getOpts.startTime, "start-time", "", "Only events at or after this time")
	getCmd.Flags().StringVar(&getOpts.endTime, "end-time", "", "Only events at or before this time")
	getCmd.Flags().StringVarP(&getOpts.query, "query", "q", "", "JMESPath expression applied to each JSON message")
	getCmd.Flags().BoolVarP(&getOpts.watch, "watch", "w", false, "Not supported")
	getCmd.Flags().BoolVar(&getOpts.noPrefix, "no-prefix", false, "Print messages without the time prefix")

	_ = getCmd.RegisterFlagCompletionFunc("group", completeLogGroups)
}

func runGet(cmd *cobra.Command, args []string) error {
	app := GetApp(cmd)
	return app.runGet(cmd.Context(), getOpts)
}

// planGet validates the flags without touching AWS.
func (a *App) planGet(f getFlags) (*getPlan, error) {
	if f.watch {
		return nil, cwerrors.WatchUnsupportedError()
	}
	if strings.TrimSpace(f.group) == "" {
		return nil, cwerrors.MissingFlagError("--group", "the log group to read", []string{
			"cwlogs get -g /app/api -s web-1",
			"cwlogs groups                     - List log groups",
		})
	}

	loc, err := a.Location()
	if err != nil {
		return nil, err
	}

	req := logs.PageRequest{GroupName: f.group}
	if req.StartTime, err = parseTimeFlag(f.startTime, loc); err != nil {
		return nil, err
	}
	if req.EndTime, err = parseTimeFlag(f.endTime, loc); err != nil {
		return nil, err
	}

	opts := logs.Options{
		Request:       req,
		Streams:       f.streams,
		FilterPattern: f.filterPattern,
	}
	if err := opts.Validate(); err != nil {
		if len(f.streams) == 0 {
			return nil, cwerrors.MissingStreamError(f.group, err)
		}
		return nil, err
	}

	plan := &getPlan{options: opts, prefix: !f.noPrefix}
	plan.sink = output.NewSink(a.Stdout, output.SinkOptions{
		Prefix:   plan.prefix,
		Location: loc,
		NoColor:  a.Config.NoColor,
	})
	if f.query != "" {
		if plan.sink, err = output.NewProjectingSink(plan.sink, f.query); err != nil {
			return nil, err
		}
	}

	return plan, nil
}

// parseTimeFlag parses an optional time flag; empty means unbounded.
func parseTimeFlag(value string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := timeutil.Parse(value, loc)
	if err != nil {
		return nil, cwerrors.InvalidTimeError(value, err)
	}
	return &t, nil
}

func (a *App) runGet(ctx context.Context, f getFlags) error {
	plan, err := a.planGet(f)
	if err != nil {
		return err
	}

	for _, w := range timeutil.ValidateTimeRange(plan.options.Request.StartTime, plan.options.Request.EndTime) {
		a.Render.Warning("%s", w.Message)
	}

	client, err := a.NewClient(ctx, a.Credentials())
	if err != nil {
		return err
	}

	reader, err := logs.NewReader(client, plan.options)
	if err != nil {
		return err
	}

	switch r := reader.(type) {
	case *logs.SequentialReader:
		a.Render.Status("Reading %s/%s...", f.group, r.Stream())
	case *logs.FilteredReader:
		a.Render.Status("Searching %s for %q...", f.group, r.Pattern())
	}

	if err := logs.RunSync(ctx, logs.NewStream(reader), plan.sink); err != nil {
		return a.explainGetError(ctx, client, plan.options, err)
	}
	return nil
}

// explainGetError adds stream suggestions when a sequential read names a
// stream the group does not have.
func (a *App) explainGetError(ctx context.Context, client cloudwatch.DescribeAPI, opts logs.Options, err error) error {
	var notFound *types.ResourceNotFoundException
	if opts.FilterPattern != "" || len(opts.Streams) != 1 || !errors.As(err, &notFound) {
		return err
	}

	streams, listErr := cloudwatch.NewClient(client).ListStreams(ctx, opts.Request.GroupName, "", 50, "LogStreamName")
	if listErr != nil {
		a.Debugf("Failed to list streams for suggestions: %v", listErr)
		return err
	}

	names := make([]string, len(streams))
	for i, s := range streams {
		names[i] = s.Name
	}
	return cwerrors.StreamNotFoundError(opts.Request.GroupName, opts.Streams[0], names, err)
}
