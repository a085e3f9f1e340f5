// Package logs retrieves CloudWatch Logs events page by page.
//
// A Reader issues one page request against either GetLogEvents or
// FilterLogEvents, a Stream drives the reader until the continuation token
// says there is nothing left, and Run drains the stream into a Sink. Execute
// runs all of that on a background goroutine and hands back one outcome.
package logs

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// LogEvent is one log record.
type LogEvent struct {
	Message   string
	Timestamp time.Time // UTC, millisecond precision
	// SourceStream is nil when the backend did not say which stream emitted
	// the event.
	SourceStream *string
}

// Stream returns the source stream name or "" when unknown.
func (e LogEvent) Stream() string {
	return aws.ToString(e.SourceStream)
}

// Page is one response from a reader.
type Page struct {
	Events    []LogEvent
	NextToken *string
}

// PageRequest holds the query bounds shared by every page of a run.
// Both bounds are inclusive; nil means unbounded.
type PageRequest struct {
	GroupName string
	StartTime *time.Time
	EndTime   *time.Time
}

func (r PageRequest) startMillis() *int64 {
	if r.StartTime == nil {
		return nil
	}
	return aws.Int64(r.StartTime.UnixMilli())
}

// endMillis returns the end bound. GetLogEvents excludes events at endTime,
// so exclusive callers get one extra millisecond to keep the bound inclusive.
func (r PageRequest) endMillis(exclusive bool) *int64 {
	if r.EndTime == nil {
		return nil
	}
	ms := r.EndTime.UnixMilli()
	if exclusive {
		ms++
	}
	return aws.Int64(ms)
}

func fromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// eventFromOutput converts a GetLogEvents record. That API does not echo the
// stream per record, so the reader supplies it.
func eventFromOutput(e types.OutputLogEvent, stream string) (LogEvent, error) {
	if e.Message == nil {
		return LogEvent{}, newError(KindMalformedRecord, "event in stream %q has no message", stream)
	}
	if e.Timestamp == nil {
		return LogEvent{}, newError(KindMalformedRecord, "event in stream %q has no timestamp", stream)
	}
	return LogEvent{
		Message:      *e.Message,
		Timestamp:    fromEpochMillis(*e.Timestamp),
		SourceStream: aws.String(stream),
	}, nil
}

// eventFromFiltered converts a FilterLogEvents record.
func eventFromFiltered(e types.FilteredLogEvent) (LogEvent, error) {
	if e.Message == nil {
		return LogEvent{}, newError(KindMalformedRecord, "filtered event %s has no message", aws.ToString(e.EventId))
	}
	if e.Timestamp == nil {
		return LogEvent{}, newError(KindMalformedRecord, "filtered event %s has no timestamp", aws.ToString(e.EventId))
	}
	var stream *string
	if e.LogStreamName != nil {
		stream = aws.String(*e.LogStreamName)
	}
	return LogEvent{
		Message:      *e.Message,
		Timestamp:    fromEpochMillis(*e.Timestamp),
		SourceStream: stream,
	}, nil
}
