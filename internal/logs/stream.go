package logs

import (
	"context"
	"iter"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/jmurray2011/cwlogs/internal/logging"
)

// Phase is the position of a Stream in its pagination.
type Phase int

const (
	PhaseInitial Phase = iota
	PhaseActive
	PhaseExhausted
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseActive:
		return "active"
	case PhaseExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// PaginationState is the state of a Stream. Token is only meaningful in
// PhaseActive. Once exhausted, a state never changes again.
type PaginationState struct {
	Phase Phase
	Token *string
}

// request returns the token to send next, or false when no request should
// be issued.
func (s PaginationState) request() (*string, bool) {
	switch s.Phase {
	case PhaseInitial:
		return nil, true
	case PhaseActive:
		if s.Token == nil {
			return nil, false
		}
		return s.Token, true
	default:
		return nil, false
	}
}

// advance returns the state after a page fetched with sent. CloudWatch
// signals the end of the data by handing back the token it was given, so an
// echoed token exhausts the stream just like a missing one.
func advance(sent *string, page Page) PaginationState {
	next := page.NextToken
	if next == nil || *next == "" {
		return PaginationState{Phase: PhaseExhausted}
	}
	if sent != nil && *next == *sent {
		return PaginationState{Phase: PhaseExhausted}
	}
	return PaginationState{Phase: PhaseActive, Token: aws.String(*next)}
}

// Stream turns a Reader into a lazy, one-shot sequence of pages.
type Stream struct {
	reader Reader
	state  PaginationState
	pages  int
	log    logging.Logger
}

// NewStream wraps reader. A fresh reader and stream are needed for each run.
func NewStream(reader Reader) *Stream {
	return &Stream{
		reader: reader,
		log:    logging.Default().WithField("component", "stream"),
	}
}

// State returns the current pagination state.
func (s *Stream) State() PaginationState {
	return s.state
}

// Next fetches the next page. It returns false once the stream is
// exhausted. A fetch error is returned once and exhausts the stream.
func (s *Stream) Next(ctx context.Context) (Page, bool, error) {
	token, ok := s.state.request()
	if !ok {
		s.state = PaginationState{Phase: PhaseExhausted}
		return Page{}, false, nil
	}

	s.log.Debug("fetching page %d (token=%q)", s.pages+1, aws.ToString(token))
	page, err := s.reader.FetchPage(ctx, token)
	if err != nil {
		s.state = PaginationState{Phase: PhaseExhausted}
		return Page{}, false, err
	}

	s.pages++
	s.state = advance(token, page)
	s.log.Debug("page %d: %d events, next state %s", s.pages, len(page.Events), s.state.Phase)
	return page, true, nil
}

// All returns the remaining pages as an iterator. Iteration stops after the
// first error is yielded.
func (s *Stream) All(ctx context.Context) iter.Seq2[Page, error] {
	return func(yield func(Page, error) bool) {
		for {
			page, ok, err := s.Next(ctx)
			if err != nil {
				yield(Page{}, err)
				return
			}
			if !ok {
				return
			}
			if !yield(page, nil) {
				return
			}
		}
	}
}
