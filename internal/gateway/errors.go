package gateway

import (
	"context"
	"errors"
	"net"
	"strconv"
)

// Kind classifies gateway failures.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidRequest
	KindTimeout
	KindUnreachable
	KindBackendRejected
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindTimeout:
		return "timeout"
	case KindUnreachable:
		return "unreachable"
	case KindBackendRejected:
		return "backend_rejected"
	default:
		return "internal"
	}
}

// Error is the classified failure returned by every gateway operation.
type Error struct {
	Kind Kind
	// Op is the gateway operation that failed (list, generate, chat).
	Op string
	// Status and Body are the backend's answer for KindBackendRejected.
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidRequest:
		return e.Err.Error()
	case KindTimeout:
		return "upstream timeout: " + e.Op + ": " + e.Err.Error()
	case KindUnreachable:
		return "upstream unreachable: " + e.Err.Error()
	case KindBackendRejected:
		return "backend error (status " + strconv.Itoa(e.Status) + "): " + e.Body
	default:
		return "internal error: " + e.Op + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// StatusError is returned by transports when the backend answered with a
// non-success status. Body is kept verbatim.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return "backend status " + strconv.Itoa(e.Code) + ": " + e.Body
}

// ConnError is returned by transports when the backend could not be reached.
type ConnError struct{ Err error }

func (e *ConnError) Error() string { return e.Err.Error() }

func (e *ConnError) Unwrap() error { return e.Err }

func invalid(op, msg string) *Error {
	return &Error{Kind: KindInvalidRequest, Op: op, Err: errors.New(msg)}
}

// classify maps a transport error onto the failure taxonomy. Timeouts win over
// connection errors so a dial that hits the deadline is reported as a timeout.
func classify(op string, err error) *Error {
	var ge *Error
	if errors.As(err, &ge) {
		return ge
	}
	var se *StatusError
	if errors.As(err, &se) {
		return &Error{Kind: KindBackendRejected, Op: op, Status: se.Code, Body: se.Body, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Op: op, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Error{Kind: KindTimeout, Op: op, Err: err}
	}
	var ce *ConnError
	if errors.As(err, &ce) {
		return &Error{Kind: KindUnreachable, Op: op, Err: err}
	}
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

// KindOf returns the classification of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindInternal
}

// IsInvalidRequest reports whether err was rejected before any outbound call.
func IsInvalidRequest(err error) bool { return err != nil && KindOf(err) == KindInvalidRequest }

// IsTimeout reports whether the outbound call exceeded its deadline.
func IsTimeout(err error) bool { return err != nil && KindOf(err) == KindTimeout }

// IsUnreachable reports whether the backend could not be reached.
func IsUnreachable(err error) bool { return err != nil && KindOf(err) == KindUnreachable }

// IsBackendRejected reports whether the backend answered with a non-success status.
func IsBackendRejected(err error) bool { return err != nil && KindOf(err) == KindBackendRejected }
