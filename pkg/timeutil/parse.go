// Package timeutil provides shared time parsing utilities.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// LocalLayout is the wall-clock layout accepted for --start-time/--end-time,
// interpreted in the display zone.
const LocalLayout = "2006-01-02 15:04:05"

// Pre-compiled regexes for relative times ("2h", "30m", "7d") and zone offsets ("+09:00", "-5")
var (
	relativeTimeRe = regexp.MustCompile(`^(\d+)([mhd])$`)
	offsetRe       = regexp.MustCompile(`^([+-]?)(\d{1,2})(?::?(\d{2}))?$`)
)

// Parse parses a time flag and returns it in UTC. Accepted forms:
//   - "now" or "" -> current time
//   - "2h", "30m", "7d" -> that long ago
//   - "2025-12-02T06:00:00Z" -> RFC3339
//   - "2025-12-02 15:00:00" -> wall-clock time in loc
func Parse(input string, loc *time.Location) (time.Time, error) {
	return parseAt(input, loc, time.Now())
}

func parseAt(input string, loc *time.Location, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" || input == "now" {
		return now.UTC(), nil
	}

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UTC(), nil
	}

	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(LocalLayout, input, loc); err == nil {
		return t.UTC(), nil
	}

	matches := relativeTimeRe.FindStringSubmatch(input)
	if matches != nil {
		value, _ := strconv.Atoi(matches[1])
		var duration time.Duration
		switch matches[2] {
		case "m":
			duration = time.Duration(value) * time.Minute
		case "h":
			duration = time.Duration(value) * time.Hour
		case "d":
			duration = time.Duration(value) * 24 * time.Hour
		}
		return now.UTC().Add(-duration), nil
	}

	return time.Time{}, fmt.Errorf("invalid time format: %s - use \"2006-01-02 15:04:05\", RFC3339 (2025-12-02T06:00:00Z) or relative (2h, 30m, 7d)", input)
}

// ParseOffset parses a display zone such as "+09:00", "-0530", "9" or "UTC"
// into a fixed zone.
func ParseOffset(input string) (*time.Location, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "UTC") || input == "Z" {
		return time.UTC, nil
	}

	m := offsetRe.FindStringSubmatch(input)
	if m == nil {
		return nil, fmt.Errorf("invalid display offset %q - use +HH:MM (e.g. +09:00)", input)
	}

	hours, _ := strconv.Atoi(m[2])
	minutes := 0
	if m[3] != "" {
		minutes, _ = strconv.Atoi(m[3])
	}
	if hours > 14 || minutes > 59 {
		return nil, fmt.Errorf("display offset %q is out of range", input)
	}

	seconds := hours*3600 + minutes*60
	sign := "+"
	if m[1] == "-" {
		seconds = -seconds
		sign = "-"
	}

	name := fmt.Sprintf("UTC%s%d", sign, hours)
	if minutes != 0 {
		name = fmt.Sprintf("UTC%s%d:%02d", sign, hours, minutes)
	}
	return time.FixedZone(name, seconds), nil
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%.1fh", d.Hours())
	}
	return fmt.Sprintf("%.1fd", d.Hours()/24)
}

// TimeRangeWarning represents a validation warning for a time range.
type TimeRangeWarning struct {
	Message string
	Level   string // "warning" or "info"
}

// ValidateTimeRange checks optional bounds for likely mistakes. It never
// blocks a run; the caller decides how to show the warnings.
func ValidateTimeRange(start, end *time.Time) []TimeRangeWarning {
	var warnings []TimeRangeWarning
	now := time.Now()

	if end != nil && end.After(now.Add(time.Minute)) {
		warnings = append(warnings, TimeRangeWarning{
			Message: fmt.Sprintf("end time is %s in the future - is this intentional?", FormatDuration(end.Sub(now))),
			Level:   "warning",
		})
	}

	if start != nil && start.After(now.Add(time.Minute)) {
		warnings = append(warnings, TimeRangeWarning{
			Message: "start time is in the future - no events will be returned",
			Level:   "warning",
		})
	}

	if start != nil && end != nil && end.Before(*start) {
		warnings = append(warnings, TimeRangeWarning{
			Message: "end time is before start time - no events will be returned",
			Level:   "warning",
		})
	}

	return warnings
}

// FormatBytes converts bytes to human-readable format (e.g., "1.5 MB").
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
