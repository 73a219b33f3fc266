package apicall

import (
	"errors"
	"fmt"
)

// Kind classifies an adapter failure. Kinds are part of the caller-visible
// contract: host-facing envelopes name the kind, and retry policy dispatches
// on it (transport and decode failures retry, the rest are terminal).
type Kind string

const (
	KindInvalidArgument  Kind = "invalid_argument"
	KindTransport        Kind = "transport_error"
	KindHTTPStatus       Kind = "http_status_error"
	KindDecode           Kind = "decode_error"
	KindRetriesExhausted Kind = "retries_exhausted"
)

// Error is the tagged failure value returned by Client.Invoke.
type Error struct {
	Kind Kind
	// Status carries the HTTP status code for KindHTTPStatus, 0 otherwise.
	Status int

	msg string
	err error
}

func (e *Error) Error() string {
	if e.err != nil && e.msg == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

// Is lets errors.Is match on kind via the exported sentinel values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks against Invoke results.
var (
	ErrInvalidArgument  = &Error{Kind: KindInvalidArgument}
	ErrTransport        = &Error{Kind: KindTransport}
	ErrHTTPStatus       = &Error{Kind: KindHTTPStatus}
	ErrDecode           = &Error{Kind: KindDecode}
	ErrRetriesExhausted = &Error{Kind: KindRetriesExhausted}
)

// InvalidArgumentf builds a caller-error value for validation failures that
// happen before any request is assembled (bad dates, conflicting parameters).
func InvalidArgumentf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, msg: fmt.Sprintf(format, args...)}
}

func invalidArgumentf(format string, args ...any) *Error {
	return InvalidArgumentf(format, args...)
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, err: err}
}

func httpStatusError(code int) *Error {
	return &Error{Kind: KindHTTPStatus, Status: code, msg: fmt.Sprintf("HTTP error: %d", code)}
}

func decodeError(err error) *Error {
	return &Error{Kind: KindDecode, err: err}
}

// KindOf extracts the failure kind from any error returned by Invoke.
// Non-adapter errors report KindTransport as the most conservative class.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransport
}
