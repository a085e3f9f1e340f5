package output

import (
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"

	"github.com/jmurray2011/cwlogs/internal/logs"
)

// ProjectingSink replaces each message with the result of a JMESPath
// expression before passing the batch on. Messages that are not JSON are
// queried as {"message": raw}. Events whose result is empty are dropped.
type ProjectingSink struct {
	next logs.Sink
	expr *jmespath.JMESPath
}

// NewProjectingSink compiles expression and wraps next.
func NewProjectingSink(next logs.Sink, expression string) (*ProjectingSink, error) {
	expr, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression %q: %w", expression, err)
	}
	return &ProjectingSink{next: next, expr: expr}, nil
}

// Write projects every event and writes the survivors in order.
func (s *ProjectingSink) Write(events []logs.LogEvent) {
	projected := make([]logs.LogEvent, 0, len(events))
	for _, e := range events {
		msg, ok := s.project(e.Message)
		if !ok {
			continue
		}
		e.Message = msg
		projected = append(projected, e)
	}
	s.next.Write(projected)
}

func (s *ProjectingSink) project(raw string) (string, bool) {
	var input any
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		input = map[string]any{"message": raw}
	}

	res, err := s.expr.Search(input)
	if err != nil || res == nil {
		return "", false
	}

	if v, ok := res.(string); ok {
		return v, v != ""
	}

	b, err := json.Marshal(res)
	if err != nil {
		return "", false
	}
	switch string(b) {
	case "null", "[]", "{}":
		return "", false
	}
	return string(b), true
}
