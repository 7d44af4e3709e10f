// Package social implements the social graph: the relationship ledger
// (typed-edge mutations with cross-type invariants), the traversal engine
// (bounded 1-2 hop reads) and the service facade the HTTP layer calls.
package social

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies every error the service surfaces to callers.
type ErrorKind string

const (
	// KindNotFound means a referenced node or edge is absent
	KindNotFound ErrorKind = "not_found"
	// KindConflict means the mutation would violate an invariant (duplicate membership, duplicate request)
	KindConflict ErrorKind = "conflict"
	// KindInvalidState means the operation is not meaningful for the current relationship state
	KindInvalidState ErrorKind = "invalid_state"
	// KindForbidden means the actor lacks the required relationship (e.g. non-member sending a message)
	KindForbidden ErrorKind = "forbidden"
	// KindUnavailable means the graph store was unreachable at the startup probe
	KindUnavailable ErrorKind = "unavailable"
	// KindTimeout means the operation exceeded its query timeout
	KindTimeout ErrorKind = "timeout"
	// KindInternal is anything else; surfaced as a 500
	KindInternal ErrorKind = "internal"
)

// Error is the taxonomy error returned by every Service operation.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// StatusCode maps the error kind to its HTTP-equivalent status.
// NotFound->404, Conflict/InvalidState->400, Forbidden->403,
// Unavailable/Timeout->503. The HTTP boundary preserves this exactly.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidState:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable, KindTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidStatef(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Unavailablef(format string, args ...any) *Error {
	return &Error{Kind: KindUnavailable, Message: fmt.Sprintf(format, args...)}
}

func Timeoutf(format string, args ...any) *Error {
	return &Error{Kind: KindTimeout, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected store or driver error.
func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, cause: cause}
}

// KindOf returns the taxonomy kind for err, or KindInternal for
// anything that is not a *social.Error.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool     { return KindOf(err) == KindConflict }
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }
func IsForbidden(err error) bool    { return KindOf(err) == KindForbidden }
func IsUnavailable(err error) bool  { return KindOf(err) == KindUnavailable }
func IsTimeout(err error) bool      { return KindOf(err) == KindTimeout }
