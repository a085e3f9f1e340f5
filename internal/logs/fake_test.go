package logs

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/smithy-go"
)

// fakeLogsAPI replays scripted responses and records every request.
type fakeLogsAPI struct {
	getOutputs    []*cloudwatchlogs.GetLogEventsOutput
	filterOutputs []*cloudwatchlogs.FilterLogEventsOutput
	// errAt fails the call with that index (0-based) with err.
	errAt int
	err   error

	getInputs    []*cloudwatchlogs.GetLogEventsInput
	filterInputs []*cloudwatchlogs.FilterLogEventsInput
}

func newFakeLogsAPI() *fakeLogsAPI {
	return &fakeLogsAPI{errAt: -1}
}

func (f *fakeLogsAPI) calls() int {
	return len(f.getInputs) + len(f.filterInputs)
}

func (f *fakeLogsAPI) GetLogEvents(ctx context.Context, params *cloudwatchlogs.GetLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetLogEventsOutput, error) {
	call := f.calls()
	f.getInputs = append(f.getInputs, params)
	if call == f.errAt {
		return nil, f.err
	}
	if call < len(f.getOutputs) {
		return f.getOutputs[call], nil
	}
	return nil, errors.New("fake: no more GetLogEvents responses")
}

func (f *fakeLogsAPI) FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error) {
	call := f.calls()
	f.filterInputs = append(f.filterInputs, params)
	if call == f.errAt {
		return nil, f.err
	}
	if call < len(f.filterOutputs) {
		return f.filterOutputs[call], nil
	}
	return nil, errors.New("fake: no more FilterLogEvents responses")
}

func outputEvent(ms int64, msg string) types.OutputLogEvent {
	return types.OutputLogEvent{Timestamp: aws.Int64(ms), Message: aws.String(msg)}
}

func getPage(token *string, events ...types.OutputLogEvent) *cloudwatchlogs.GetLogEventsOutput {
	return &cloudwatchlogs.GetLogEventsOutput{Events: events, NextForwardToken: token}
}

// recordingSink keeps every batch it was given.
type recordingSink struct {
	writes [][]LogEvent
}

func (s *recordingSink) Write(events []LogEvent) {
	s.writes = append(s.writes, events)
}

func sequentialOptions() Options {
	return Options{
		Request: PageRequest{GroupName: "/app/api"},
		Streams: []string{"web-1"},
	}
}

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "rejected"}
}
