package cloudwatch

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// DescribeAPI is the subset of the CloudWatch Logs API used for discovery.
type DescribeAPI interface {
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	DescribeLogStreams(ctx context.Context, params *cloudwatchlogs.DescribeLogStreamsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogStreamsOutput, error)
}

// Client wraps the CloudWatch Logs discovery calls.
type Client struct {
	client DescribeAPI
}

// NewClient creates a new Client wrapper from an SDK client.
func NewClient(client DescribeAPI) *Client {
	return &Client{client: client}
}

// StreamInfo represents information about a log stream.
type StreamInfo struct {
	Name           string
	LastEventTime  time.Time
	FirstEventTime time.Time
}

// LogGroupInfo represents information about a log group.
type LogGroupInfo struct {
	Name          string
	StoredBytes   int64
	CreationTime  time.Time
	RetentionDays int
}

// ListLogGroups returns up to limit log groups, optionally filtered by prefix.
func (c *Client) ListLogGroups(ctx context.Context, prefix string, limit int) ([]LogGroupInfo, error) {
	input := &cloudwatchlogs.DescribeLogGroupsInput{
		Limit: aws.Int32(int32(min(limit, 50))),
	}

	if prefix != "" {
		input.LogGroupNamePrefix = &prefix
	}

	var groups []LogGroupInfo

	paginator := cloudwatchlogs.NewDescribeLogGroupsPaginator(c.client, input)
	for paginator.HasMorePages() && len(groups) < limit {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe log groups: %w", err)
		}

		for _, g := range page.LogGroups {
			if len(groups) >= limit {
				break
			}
			groups = append(groups, toLogGroupInfo(g))
		}
	}

	return groups, nil
}

func toLogGroupInfo(g types.LogGroup) LogGroupInfo {
	group := LogGroupInfo{
		Name: aws.ToString(g.LogGroupName),
	}
	if g.StoredBytes != nil {
		group.StoredBytes = *g.StoredBytes
	}
	if g.CreationTime != nil {
		group.CreationTime = time.UnixMilli(*g.CreationTime).UTC()
	}
	if g.RetentionInDays != nil {
		group.RetentionDays = int(*g.RetentionInDays)
	}
	return group
}

// ListStreams returns up to limit streams of a log group, most recently
// written first unless orderBy is "LogStreamName".
func (c *Client) ListStreams(ctx context.Context, logGroup, prefix string, limit int, orderBy string) ([]StreamInfo, error) {
	input := &cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName: &logGroup,
		Limit:        aws.Int32(int32(min(limit, 50))),
		Descending:   aws.Bool(true),
	}

	switch orderBy {
	case "LogStreamName":
		input.OrderBy = types.OrderByLogStreamName
	default:
		input.OrderBy = types.OrderByLastEventTime
	}

	// CloudWatch rejects a stream prefix combined with LastEventTime ordering.
	if prefix != "" {
		input.LogStreamNamePrefix = &prefix
		input.OrderBy = types.OrderByLogStreamName
	}

	var streams []StreamInfo

	paginator := cloudwatchlogs.NewDescribeLogStreamsPaginator(c.client, input)
	for paginator.HasMorePages() && len(streams) < limit {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe log streams: %w", err)
		}

		for _, s := range page.LogStreams {
			if len(streams) >= limit {
				break
			}
			stream := StreamInfo{
				Name: aws.ToString(s.LogStreamName),
			}
			if s.LastEventTimestamp != nil {
				stream.LastEventTime = time.UnixMilli(*s.LastEventTimestamp).UTC()
			}
			if s.FirstEventTimestamp != nil {
				stream.FirstEventTime = time.UnixMilli(*s.FirstEventTimestamp).UTC()
			}
			streams = append(streams, stream)
		}
	}

	return streams, nil
}
