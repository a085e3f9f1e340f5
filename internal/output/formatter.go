package output

import (
	"fmt"
	"io"
	"time"

	"github.com/jmurray2011/cwlogs/internal/ui"
)

// Format specifies the output format type.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a --output value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text, json or csv)", s)
	}
}

// Formatter renders discovery results (log groups and streams) in one of
// the supported formats. Log events are written by a Sink instead.
type Formatter struct {
	format   Format
	writer   io.Writer
	location *time.Location
	renderer *ui.Renderer
}

// NewFormatter creates a new formatter with the specified format.
func NewFormatter(format string, writer io.Writer) *Formatter {
	return &Formatter{
		format:   Format(format),
		writer:   writer,
		location: DefaultDisplayZone,
		renderer: ui.NewRendererWithOptions(ui.WithOutput(writer)),
	}
}

// WithLocation sets the zone used for times in text output. Machine formats
// always use UTC.
func (f *Formatter) WithLocation(loc *time.Location) *Formatter {
	if loc != nil {
		f.location = loc
	}
	return f
}

// WithNoColor disables styling in text output.
func (f *Formatter) WithNoColor(noColor bool) *Formatter {
	f.renderer = ui.NewRendererWithOptions(ui.WithOutput(f.writer), ui.WithNoColor(noColor))
	return f
}

// displayTime formats t for text output, or "-" if t is unknown.
func (f *Formatter) displayTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(f.location).Format(PrefixTimeLayout)
}

// machineTime formats t for JSON and CSV, or "" if t is unknown.
func machineTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
