package logs

import (
	"context"
	"fmt"

	"github.com/jmurray2011/cwlogs/internal/logging"
)

// outcome is the single message the background run hands to the caller.
type outcome struct {
	err error
}

// Execute runs fn on a background goroutine and blocks until it reports
// its outcome. If fn panics, nothing is sent and Execute returns a
// KindSyncChannel error instead.
func Execute(ctx context.Context, fn func(context.Context) error) error {
	handoff := make(chan outcome, 1)
	var panicked any

	go func() {
		defer close(handoff)
		defer func() {
			if r := recover(); r != nil {
				panicked = r
				logging.Error("background run panicked: %v", r)
			}
		}()
		handoff <- outcome{err: fn(ctx)}
	}()

	res, ok := <-handoff
	if !ok {
		// close happens after panicked is set, so reading it here is safe.
		return &Error{Kind: KindSyncChannel, Err: fmt.Errorf("background run ended without a result: %v", panicked)}
	}
	return res.err
}

// RunSync drains stream into sink on a background goroutine and returns the
// run's outcome to the calling goroutine.
func RunSync(ctx context.Context, stream *Stream, sink Sink) error {
	return Execute(ctx, func(ctx context.Context) error {
		return Run(ctx, stream, sink)
	})
}
