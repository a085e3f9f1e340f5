// Package errors provides enhanced error messages with suggestions.
package errors

import (
	"fmt"
	"sort"
	"strings"
)

// SuggestiveError is an error that includes suggestions for fixing the problem.
type SuggestiveError struct {
	Message     string
	Suggestions []string
	HelpCommand string
	Err         error // Optional underlying cause
}

func (e *SuggestiveError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nDid you mean one of these?\n")
		for _, s := range e.Suggestions {
			b.WriteString("  ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}

	if e.HelpCommand != "" {
		b.WriteString("\nRun '")
		b.WriteString(e.HelpCommand)
		b.WriteString("' for more information.")
	}

	return b.String()
}

func (e *SuggestiveError) Unwrap() error {
	return e.Err
}

// StreamNotFoundError creates an error for a stream missing from its group,
// suggesting the closest existing stream names.
func StreamNotFoundError(group, stream string, available []string, cause error) error {
	return &SuggestiveError{
		Message:     fmt.Sprintf("log stream %q not found in %s", stream, group),
		Suggestions: findSimilar(stream, available, 3),
		HelpCommand: "cwlogs streams " + group,
		Err:         cause,
	}
}

// MissingStreamError explains how to fix a get without a stream or filter.
func MissingStreamError(group string, cause error) error {
	return &SuggestiveError{
		Message: "nothing to read",
		Suggestions: []string{
			fmt.Sprintf("cwlogs get -g %s -s <stream>           - Read one stream in order", group),
			fmt.Sprintf("cwlogs get -g %s -f '<pattern>'        - Search every stream", group),
			fmt.Sprintf("cwlogs get -g %s -s a -s b -f '<pattern>' - Search some streams", group),
		},
		HelpCommand: "cwlogs streams " + group,
		Err:         cause,
	}
}

// WatchUnsupportedError creates an error for the --watch flag.
func WatchUnsupportedError() error {
	return &SuggestiveError{
		Message: "watch mode is not supported",
		Suggestions: []string{
			"cwlogs get -g <group> -s <stream> --start-time 10m  - Read the last ten minutes",
		},
	}
}

// InvalidTimeError creates an error for invalid time format.
func InvalidTimeError(input string, cause error) error {
	return &SuggestiveError{
		Message: fmt.Sprintf("invalid time format %q", input),
		Suggestions: []string{
			"Local: \"2024-01-15 10:30:00\" (in the display zone)",
			"Absolute: 2024-01-15T10:30:00Z (RFC3339)",
			"Relative: 1h, 30m, 2d (hours, minutes, days ago)",
		},
		Err: cause,
	}
}

// MissingFlagError creates an error for a missing required flag.
func MissingFlagError(flag, description string, examples []string) error {
	return &SuggestiveError{
		Message:     fmt.Sprintf("%s is required (%s)", flag, description),
		Suggestions: examples,
	}
}

// findSimilar finds strings similar to target using Levenshtein distance.
func findSimilar(target string, candidates []string, maxDistance int) []string {
	type match struct {
		value    string
		distance int
	}

	var matches []match
	targetLower := strings.ToLower(target)

	for _, c := range candidates {
		cLower := strings.ToLower(c)
		d := levenshtein(targetLower, cLower)
		if d <= maxDistance {
			matches = append(matches, match{value: c, distance: d})
		}
	}

	// Sort by distance (closest first)
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	// Return top 3
	var result []string
	for i := 0; i < len(matches) && i < 3; i++ {
		result = append(result, matches[i].value)
	}

	return result
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Create matrix
	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	// Initialize first column
	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}

	// Initialize first row
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	// Fill matrix
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

func min(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
