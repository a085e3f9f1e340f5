package logs

import (
	"context"

	"github.com/jmurray2011/cwlogs/internal/logging"
)

// Sink renders batches of events. Write has no error result: an output
// failure is fatal to the process, not something the run can recover from.
type Sink interface {
	Write(events []LogEvent)
}

// Run drains stream into sink in order, writing each page before the next
// one is requested. It returns the first retrieval error, or nil once the
// stream is exhausted.
func Run(ctx context.Context, stream *Stream, sink Sink) error {
	log := logging.Default().WithField("component", "runner")
	log.Debug("iterating log event pages")

	var pages, events int
	for page, err := range stream.All(ctx) {
		if err != nil {
			log.Debug("stopping after %d pages: %v", pages, err)
			return err
		}
		sink.Write(page.Events)
		pages++
		events += len(page.Events)
	}

	log.WithFields(map[string]interface{}{"pages": pages, "events": events}).Debug("stream exhausted")
	return nil
}
