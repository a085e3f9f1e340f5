package logs

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

func TestRun_EchoedTokenScenario(t *testing.T) {
	// Tokens None -> "A" -> "A": the second page echoes the token it was sent.
	api := newFakeLogsAPI()
	api.getOutputs = []*cloudwatchlogs.GetLogEventsOutput{
		getPage(aws.String("A"), outputEvent(1, "first")),
		getPage(aws.String("A"), outputEvent(2, "second")),
		getPage(nil, outputEvent(3, "never")),
	}

	reader, err := NewReader(api, sequentialOptions())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	sink := &recordingSink{}

	if err := Run(context.Background(), NewStream(reader), sink); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(sink.writes) != 2 {
		t.Fatalf("sink got %d writes, want 2", len(sink.writes))
	}
	if sink.writes[1][0].Message != "second" {
		t.Errorf("second write = %q", sink.writes[1][0].Message)
	}
	if api.calls() != 2 {
		t.Errorf("issued %d requests, want 2", api.calls())
	}
}

func TestRun_ErrorShortCircuits(t *testing.T) {
	api := newFakeLogsAPI()
	api.getOutputs = []*cloudwatchlogs.GetLogEventsOutput{
		getPage(aws.String("A"), outputEvent(1, "first")),
		getPage(aws.String("B"), outputEvent(2, "unreached")),
	}
	api.errAt = 1
	api.err = errors.New("connection refused")

	reader, _ := NewReader(api, sequentialOptions())
	sink := &recordingSink{}

	err := Run(context.Background(), NewStream(reader), sink)
	if !errors.Is(err, KindTransport) {
		t.Fatalf("Run() error = %v, want transport", err)
	}
	if !errors.Is(err, api.err) {
		t.Errorf("Run() error %v lost its cause", err)
	}
	if len(sink.writes) != 1 {
		t.Errorf("sink got %d writes, want 1", len(sink.writes))
	}
}

func TestRun_EmptyPagesStillForwarded(t *testing.T) {
	api := newFakeLogsAPI()
	api.getOutputs = []*cloudwatchlogs.GetLogEventsOutput{
		getPage(aws.String("A")),
		getPage(aws.String("A")),
	}

	reader, _ := NewReader(api, sequentialOptions())
	sink := &recordingSink{}

	if err := Run(context.Background(), NewStream(reader), sink); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(sink.writes) != 2 {
		t.Errorf("sink got %d writes, want 2", len(sink.writes))
	}
	for i, w := range sink.writes {
		if len(w) != 0 {
			t.Errorf("write %d has %d events", i, len(w))
		}
	}
}

func TestRun_WritesBeforeNextRequest(t *testing.T) {
	api := newFakeLogsAPI()
	api.getOutputs = []*cloudwatchlogs.GetLogEventsOutput{
		getPage(aws.String("A"), outputEvent(1, "first")),
		getPage(nil, outputEvent(2, "second")),
	}

	reader, _ := NewReader(api, sequentialOptions())
	sink := &orderingSink{api: api}

	if err := Run(context.Background(), NewStream(reader), sink); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []int{1, 2}
	for i, calls := range sink.callsAtWrite {
		if calls != want[i] {
			t.Errorf("write %d happened after %d requests, want %d", i, calls, want[i])
		}
	}
}

// orderingSink records how many requests had been issued at each write.
type orderingSink struct {
	api          *fakeLogsAPI
	callsAtWrite []int
}

func (s *orderingSink) Write(events []LogEvent) {
	s.callsAtWrite = append(s.callsAtWrite, s.api.calls())
}
