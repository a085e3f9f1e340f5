package logs

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Kind classifies a retrieval failure.
type Kind int

const (
	// KindInsufficientArguments means the options cannot build a reader.
	// It is always detected before any remote call.
	KindInsufficientArguments Kind = iota + 1
	// KindMalformedRecord means CloudWatch returned a record missing its
	// message or timestamp.
	KindMalformedRecord
	// KindTransport means the remote call could not complete.
	KindTransport
	// KindBackendRejected means CloudWatch returned a structured error.
	KindBackendRejected
	// KindSyncChannel means the background run ended without handing back
	// an outcome.
	KindSyncChannel
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInsufficientArguments:
		return "insufficient arguments"
	case KindMalformedRecord:
		return "malformed record"
	case KindTransport:
		return "transport error"
	case KindBackendRejected:
		return "rejected by CloudWatch Logs"
	case KindSyncChannel:
		return "sync channel error"
	default:
		return "unknown error"
	}
}

// Error makes a Kind usable as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// Error is the single error type returned by the retrieval engine.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of err, or 0 if err did not come from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// classify wraps an SDK error as BackendRejected when CloudWatch answered
// with an API error, and as Transport otherwise.
func classify(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: KindBackendRejected, Err: fmt.Errorf("%s: %w", op, err)}
	}
	return &Error{Kind: KindTransport, Err: fmt.Errorf("%s: %w", op, err)}
}
