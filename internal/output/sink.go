package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/jmurray2011/cwlogs/internal/logs"
	"github.com/jmurray2011/cwlogs/internal/ui"
)

// PrefixTimeLayout is the layout of the timestamp in a prefixed line.
const PrefixTimeLayout = "2006-01-02 15:04:05"

// DefaultDisplayZone is the zone prefixed lines are shown in unless configured otherwise.
var DefaultDisplayZone = time.FixedZone("UTC+9", 9*60*60)

// SinkOptions selects and configures a sink.
type SinkOptions struct {
	// Prefix selects the prefixed sink; false selects the bare sink.
	Prefix bool
	// Location is the display zone for prefixes. Nil means DefaultDisplayZone.
	Location *time.Location
	// NoColor disables prefix styling even on a terminal.
	NoColor bool
}

// NewSink returns the sink chosen by opts. Color is only used when w is a
// terminal.
func NewSink(w io.Writer, opts SinkOptions) logs.Sink {
	if !opts.Prefix {
		return NewBareSink(w)
	}
	return NewPrefixedSink(w, opts.Location, !opts.NoColor && isTerminal(w))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// puts writes text as one line, without doubling a trailing newline.
func puts(w io.Writer, text string) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := io.WriteString(w, text); err != nil {
		// Output failures end the process; the execution bridge turns this
		// panic into a failed run.
		panic(fmt.Errorf("write log event: %w", err))
	}
}

// BareSink writes only each event's message.
type BareSink struct {
	w io.Writer
}

// NewBareSink creates a sink that writes messages to w.
func NewBareSink(w io.Writer) *BareSink {
	return &BareSink{w: w}
}

// Write writes one line per event.
func (s *BareSink) Write(events []logs.LogEvent) {
	for _, e := range events {
		puts(s.w, e.Message)
	}
}

// PrefixedSink writes each message behind a "[YYYY-MM-DD HH:MM:SS]" prefix
// in a fixed display zone.
type PrefixedSink struct {
	w     io.Writer
	loc   *time.Location
	color bool
}

// NewPrefixedSink creates a prefixed sink. A nil loc uses DefaultDisplayZone.
func NewPrefixedSink(w io.Writer, loc *time.Location, color bool) *PrefixedSink {
	if loc == nil {
		loc = DefaultDisplayZone
	}
	return &PrefixedSink{w: w, loc: loc, color: color}
}

// Write writes one prefixed line per event.
func (s *PrefixedSink) Write(events []logs.LogEvent) {
	for _, e := range events {
		puts(s.w, s.prefix(e.Timestamp)+" "+e.Message)
	}
}

func (s *PrefixedSink) prefix(ts time.Time) string {
	p := "[" + ts.In(s.loc).Format(PrefixTimeLayout) + "]"
	if s.color {
		return ui.PrefixStyle.Render(p)
	}
	return p
}
