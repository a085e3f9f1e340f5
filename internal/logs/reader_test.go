package logs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

func TestNewReader_ModeSelection(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantKind Kind
		wantType string
	}{
		{
			name:     "filter selects filtered reader",
			opts:     Options{Request: PageRequest{GroupName: "/app"}, FilterPattern: "ERROR"},
			wantType: "filtered",
		},
		{
			name:     "filter wins over a stream name",
			opts:     Options{Request: PageRequest{GroupName: "/app"}, FilterPattern: "ERROR", Streams: []string{"web-1"}},
			wantType: "filtered",
		},
		{
			name:     "stream without filter selects sequential reader",
			opts:     Options{Request: PageRequest{GroupName: "/app"}, Streams: []string{"web-1"}},
			wantType: "sequential",
		},
		{
			name:     "no filter and no stream",
			opts:     Options{Request: PageRequest{GroupName: "/app"}},
			wantKind: KindInsufficientArguments,
		},
		{
			name:     "no filter and two streams",
			opts:     Options{Request: PageRequest{GroupName: "/app"}, Streams: []string{"a", "b"}},
			wantKind: KindInsufficientArguments,
		},
		{
			name:     "missing group",
			opts:     Options{Streams: []string{"web-1"}},
			wantKind: KindInsufficientArguments,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeLogsAPI()
			reader, err := NewReader(api, tt.opts)

			if verr := tt.opts.Validate(); (verr != nil) != (tt.wantKind != 0) {
				t.Errorf("Validate() = %v, disagrees with NewReader", verr)
			}

			if tt.wantKind != 0 {
				if !errors.Is(err, tt.wantKind) {
					t.Fatalf("NewReader() error = %v, want kind %v", err, tt.wantKind)
				}
				if api.calls() != 0 {
					t.Errorf("configuration error issued %d remote calls", api.calls())
				}
				return
			}
			if err != nil {
				t.Fatalf("NewReader() unexpected error: %v", err)
			}

			switch tt.wantType {
			case "filtered":
				if _, ok := reader.(*FilteredReader); !ok {
					t.Errorf("NewReader() = %T, want *FilteredReader", reader)
				}
			case "sequential":
				if _, ok := reader.(*SequentialReader); !ok {
					t.Errorf("NewReader() = %T, want *SequentialReader", reader)
				}
			}
		})
	}
}

func TestSequentialReader_FetchPage(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	api := newFakeLogsAPI()
	api.getOutputs = []*cloudwatchlogs.GetLogEventsOutput{
		getPage(aws.String("f/2"), outputEvent(1672531200123, "hello"), outputEvent(1672531200456, "world")),
	}

	reader, err := NewReader(api, Options{
		Request: PageRequest{GroupName: "/app/api", StartTime: &start, EndTime: &end},
		Streams: []string{"web-1"},
	})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	page, err := reader.FetchPage(context.Background(), aws.String("f/1"))
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}

	in := api.getInputs[0]
	if aws.ToString(in.LogGroupName) != "/app/api" || aws.ToString(in.LogStreamName) != "web-1" {
		t.Errorf("request targets %s/%s", aws.ToString(in.LogGroupName), aws.ToString(in.LogStreamName))
	}
	if aws.ToInt64(in.StartTime) != start.UnixMilli() {
		t.Errorf("StartTime = %d, want %d", aws.ToInt64(in.StartTime), start.UnixMilli())
	}
	// GetLogEvents excludes endTime itself.
	if aws.ToInt64(in.EndTime) != end.UnixMilli()+1 {
		t.Errorf("EndTime = %d, want %d", aws.ToInt64(in.EndTime), end.UnixMilli()+1)
	}
	if !aws.ToBool(in.StartFromHead) {
		t.Error("expected StartFromHead")
	}
	if aws.ToString(in.NextToken) != "f/1" {
		t.Errorf("NextToken = %q, want f/1", aws.ToString(in.NextToken))
	}

	if len(page.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(page.Events))
	}
	for _, e := range page.Events {
		if e.Stream() != "web-1" {
			t.Errorf("event stream = %q, want web-1", e.Stream())
		}
	}
	if got := page.Events[0].Timestamp; got.UnixMilli() != 1672531200123 || got.Location() != time.UTC {
		t.Errorf("timestamp = %v", got)
	}
	if aws.ToString(page.NextToken) != "f/2" {
		t.Errorf("NextToken = %q, want f/2", aws.ToString(page.NextToken))
	}
}

func TestSequentialReader_UnboundedRequest(t *testing.T) {
	api := newFakeLogsAPI()
	api.getOutputs = []*cloudwatchlogs.GetLogEventsOutput{getPage(nil)}

	reader, _ := NewReader(api, sequentialOptions())
	if _, err := reader.FetchPage(context.Background(), nil); err != nil {
		t.Fatalf("FetchPage: %v", err)
	}

	in := api.getInputs[0]
	if in.StartTime != nil || in.EndTime != nil || in.NextToken != nil {
		t.Errorf("unbounded first request carried start=%v end=%v token=%v", in.StartTime, in.EndTime, in.NextToken)
	}
}

func TestFilteredReader_FetchPage(t *testing.T) {
	end := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

	api := newFakeLogsAPI()
	api.filterOutputs = []*cloudwatchlogs.FilterLogEventsOutput{
		{
			Events: []types.FilteredLogEvent{
				{Timestamp: aws.Int64(10), Message: aws.String("ERROR a"), LogStreamName: aws.String("web-1")},
				{Timestamp: aws.Int64(20), Message: aws.String("ERROR b")},
			},
			NextToken: aws.String("n1"),
		},
	}

	reader, err := NewReader(api, Options{
		Request:       PageRequest{GroupName: "/app/api", EndTime: &end},
		Streams:       []string{"web-1", "web-2"},
		FilterPattern: "ERROR",
	})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	page, err := reader.FetchPage(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}

	in := api.filterInputs[0]
	if aws.ToString(in.FilterPattern) != "ERROR" {
		t.Errorf("FilterPattern = %q", aws.ToString(in.FilterPattern))
	}
	if len(in.LogStreamNames) != 2 || in.LogStreamNames[1] != "web-2" {
		t.Errorf("LogStreamNames = %v", in.LogStreamNames)
	}
	if in.StartTime != nil {
		t.Errorf("StartTime = %v, want nil", in.StartTime)
	}
	if aws.ToInt64(in.EndTime) != end.UnixMilli() {
		t.Errorf("EndTime = %d, want %d", aws.ToInt64(in.EndTime), end.UnixMilli())
	}

	if page.Events[0].Stream() != "web-1" {
		t.Errorf("first event stream = %q, want web-1", page.Events[0].Stream())
	}
	if page.Events[1].SourceStream != nil {
		t.Errorf("second event stream = %q, want absent", page.Events[1].Stream())
	}
	if aws.ToString(page.NextToken) != "n1" {
		t.Errorf("NextToken = %q, want n1", aws.ToString(page.NextToken))
	}
}

func TestFilteredReader_AllStreams(t *testing.T) {
	api := newFakeLogsAPI()
	api.filterOutputs = []*cloudwatchlogs.FilterLogEventsOutput{{}}

	reader, _ := NewReader(api, Options{
		Request:       PageRequest{GroupName: "/app/api"},
		FilterPattern: "timeout",
	})
	if _, err := reader.FetchPage(context.Background(), nil); err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if api.filterInputs[0].LogStreamNames != nil {
		t.Errorf("LogStreamNames = %v, want nil", api.filterInputs[0].LogStreamNames)
	}
}

func TestReader_ErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"api error", apiError("InvalidParameterException"), KindBackendRejected},
		{"resource not found", &types.ResourceNotFoundException{Message: aws.String("no such group")}, KindBackendRejected},
		{"network error", errors.New("dial tcp: i/o timeout"), KindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeLogsAPI()
			api.errAt = 0
			api.err = tt.err

			reader, _ := NewReader(api, sequentialOptions())
			_, err := reader.FetchPage(context.Background(), nil)
			if KindOf(err) != tt.want {
				t.Errorf("KindOf(%v) = %v, want %v", err, KindOf(err), tt.want)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("error %v does not wrap the cause", err)
			}
		})
	}
}

func TestReader_MalformedRecordAbortsPage(t *testing.T) {
	api := newFakeLogsAPI()
	api.getOutputs = []*cloudwatchlogs.GetLogEventsOutput{
		getPage(aws.String("A"), outputEvent(1, "ok"), types.OutputLogEvent{Timestamp: aws.Int64(2)}),
	}

	reader, _ := NewReader(api, sequentialOptions())
	page, err := reader.FetchPage(context.Background(), nil)
	if !errors.Is(err, KindMalformedRecord) {
		t.Fatalf("error = %v, want malformed record", err)
	}
	if len(page.Events) != 0 {
		t.Errorf("malformed page returned %d events", len(page.Events))
	}
}
