package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jmurray2011/cwlogs/internal/cloudwatch"
	"github.com/jmurray2011/cwlogs/internal/ui"
	"github.com/jmurray2011/cwlogs/pkg/timeutil"
)

// FormatLogGroups outputs CloudWatch log group information in the configured format.
func (f *Formatter) FormatLogGroups(groups []cloudwatch.LogGroupInfo) error {
	switch f.format {
	case FormatJSON:
		return f.formatGroupsJSON(groups)
	case FormatCSV:
		return f.formatGroupsCSV(groups)
	default:
		return f.formatGroupsText(groups)
	}
}

func (f *Formatter) formatGroupsText(groups []cloudwatch.LogGroupInfo) error {
	if len(groups) == 0 {
		f.renderer.NoResults("log groups")
		return nil
	}

	for _, g := range groups {
		_, _ = fmt.Fprintln(f.writer, f.renderer.Style(ui.SuccessStyle, g.Name))

		_, _ = fmt.Fprint(f.writer, f.renderer.Style(ui.MutedStyle, "  Size: "))
		_, _ = fmt.Fprint(f.writer, timeutil.FormatBytes(g.StoredBytes))

		if g.RetentionDays > 0 {
			_, _ = fmt.Fprintf(f.writer, "  |  Retention: %d days", g.RetentionDays)
		} else {
			_, _ = fmt.Fprint(f.writer, "  |  Retention: Never expire")
		}

		if !g.CreationTime.IsZero() {
			_, _ = fmt.Fprintf(f.writer, "  |  Created: %s", g.CreationTime.In(f.location).Format("2006-01-02"))
		}

		_, _ = fmt.Fprintln(f.writer)
	}

	return nil
}

func (f *Formatter) formatGroupsJSON(groups []cloudwatch.LogGroupInfo) error {
	type jsonGroup struct {
		Name          string `json:"name"`
		StoredBytes   int64  `json:"storedBytes"`
		RetentionDays int    `json:"retentionDays,omitempty"`
		CreationTime  string `json:"creationTime,omitempty"`
	}

	jsonGroups := make([]jsonGroup, len(groups))
	for i, g := range groups {
		jsonGroups[i] = jsonGroup{
			Name:          g.Name,
			StoredBytes:   g.StoredBytes,
			RetentionDays: g.RetentionDays,
			CreationTime:  machineTime(g.CreationTime),
		}
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonGroups)
}

func (f *Formatter) formatGroupsCSV(groups []cloudwatch.LogGroupInfo) error {
	writer := csv.NewWriter(f.writer)

	if err := writer.Write([]string{"name", "storedBytes", "retentionDays", "creationTime"}); err != nil {
		return err
	}

	for _, g := range groups {
		record := []string{
			g.Name,
			strconv.FormatInt(g.StoredBytes, 10),
			strconv.Itoa(g.RetentionDays),
			machineTime(g.CreationTime),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// FormatStreams outputs the streams of a log group in the configured format.
func (f *Formatter) FormatStreams(streams []cloudwatch.StreamInfo) error {
	switch f.format {
	case FormatJSON:
		return f.formatStreamsJSON(streams)
	case FormatCSV:
		return f.formatStreamsCSV(streams)
	default:
		return f.formatStreamsText(streams)
	}
}

func (f *Formatter) formatStreamsText(streams []cloudwatch.StreamInfo) error {
	if len(streams) == 0 {
		f.renderer.NoResults("log streams")
		return nil
	}

	rows := make([][]string, len(streams))
	for i, s := range streams {
		rows[i] = []string{s.Name, f.displayTime(s.FirstEventTime), f.displayTime(s.LastEventTime)}
	}
	f.renderer.Table([]string{"STREAM", "FIRST EVENT", "LAST EVENT"}, rows)
	return nil
}

func (f *Formatter) formatStreamsJSON(streams []cloudwatch.StreamInfo) error {
	type jsonStream struct {
		Name           string `json:"name"`
		FirstEventTime string `json:"firstEventTime,omitempty"`
		LastEventTime  string `json:"lastEventTime,omitempty"`
	}

	jsonStreams := make([]jsonStream, len(streams))
	for i, s := range streams {
		jsonStreams[i] = jsonStream{
			Name:           s.Name,
			FirstEventTime: machineTime(s.FirstEventTime),
			LastEventTime:  machineTime(s.LastEventTime),
		}
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonStreams)
}

func (f *Formatter) formatStreamsCSV(streams []cloudwatch.StreamInfo) error {
	writer := csv.NewWriter(f.writer)

	if err := writer.Write([]string{"name", "firstEventTime", "lastEventTime"}); err != nil {
		return err
	}

	for _, s := range streams {
		if err := writer.Write([]string{s.Name, machineTime(s.FirstEventTime), machineTime(s.LastEventTime)}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
