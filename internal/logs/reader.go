package logs

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// LogsAPI is the subset of the CloudWatch Logs API the readers use.
// *cloudwatchlogs.Client satisfies it.
type LogsAPI interface {
	GetLogEvents(ctx context.Context, params *cloudwatchlogs.GetLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetLogEventsOutput, error)
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// Reader fetches one page at a time. The only implementations are
// SequentialReader and FilteredReader.
type Reader interface {
	// FetchPage requests the page that starts at token; nil means the first page.
	FetchPage(ctx context.Context, token *string) (Page, error)

	isReader()
}

// Options selects and configures a reader for one run.
type Options struct {
	Request       PageRequest
	Streams       []string
	FilterPattern string
}

// Validate reports whether opts can build a reader, without contacting
// CloudWatch. Every failure is KindInsufficientArguments.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Request.GroupName) == "" {
		return newError(KindInsufficientArguments, "a log group is required")
	}
	if o.FilterPattern != "" {
		return nil
	}

	switch len(o.Streams) {
	case 0:
		return newError(KindInsufficientArguments, "need to specify '--stream' when omitting '--filter-pattern'")
	case 1:
		return nil
	default:
		return newError(KindInsufficientArguments, "only one '--stream' can be read without '--filter-pattern' (got %d)", len(o.Streams))
	}
}

// NewReader picks the reader for opts. A filter pattern always selects
// FilterLogEvents; without one, exactly one stream is required.
func NewReader(api LogsAPI, opts Options) (Reader, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if opts.FilterPattern != "" {
		return &FilteredReader{
			api:     api,
			request: opts.Request,
			streams: append([]string(nil), opts.Streams...),
			pattern: opts.FilterPattern,
		}, nil
	}

	return &SequentialReader{
		api:     api,
		request: opts.Request,
		stream:  opts.Streams[0],
	}, nil
}

// SequentialReader walks a single stream forward with GetLogEvents.
type SequentialReader struct {
	api     LogsAPI
	request PageRequest
	stream  string
}

func (*SequentialReader) isReader() {}

// Stream returns the stream being read.
func (r *SequentialReader) Stream() string {
	return r.stream
}

// FetchPage issues one GetLogEvents call and tags every record with the
// reader's stream.
func (r *SequentialReader) FetchPage(ctx context.Context, token *string) (Page, error) {
	input := &cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  aws.String(r.request.GroupName),
		LogStreamName: aws.String(r.stream),
		StartTime:     r.request.startMillis(),
		EndTime:       r.request.endMillis(true),
		StartFromHead: aws.Bool(true),
		NextToken:     token,
	}

	out, err := r.api.GetLogEvents(ctx, input)
	if err != nil {
		return Page{}, classify("get log events", err)
	}

	events := make([]LogEvent, 0, len(out.Events))
	for _, e := range out.Events {
		ev, err := eventFromOutput(e, r.stream)
		if err != nil {
			return Page{}, err
		}
		events = append(events, ev)
	}

	return Page{Events: events, NextToken: out.NextForwardToken}, nil
}

// FilteredReader searches a group with FilterLogEvents, optionally narrowed
// to a set of streams.
type FilteredReader struct {
	api     LogsAPI
	request PageRequest
	streams []string
	pattern string
}

func (*FilteredReader) isReader() {}

// Pattern returns the filter pattern evaluated by CloudWatch.
func (r *FilteredReader) Pattern() string {
	return r.pattern
}

// FetchPage issues one FilterLogEvents call.
func (r *FilteredReader) FetchPage(ctx context.Context, token *string) (Page, error) {
	input := &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName:  aws.String(r.request.GroupName),
		FilterPattern: aws.String(r.pattern),
		StartTime:     r.request.startMillis(),
		EndTime:       r.request.endMillis(false),
		NextToken:     token,
	}
	if len(r.streams) > 0 {
		input.LogStreamNames = r.streams
	}

	out, err := r.api.FilterLogEvents(ctx, input)
	if err != nil {
		return Page{}, classify("filter log events", err)
	}

	events := make([]LogEvent, 0, len(out.Events))
	for _, e := range out.Events {
		ev, err := eventFromFiltered(e)
		if err != nil {
			return Page{}, err
		}
		events = append(events, ev)
	}

	return Page{Events: events, NextToken: out.NextToken}, nil
}
