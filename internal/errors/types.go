// Package errors provides the error taxonomy shared by the SDK.
// Every failure that crosses the transport boundary is classified into a
// Kind before callers see it, so calling code never inspects raw HTTP
// status codes.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is the machine-readable classification of a failure.
type Kind int

const (
	// KindUnknown covers anything the classifier could not place.
	KindUnknown Kind = iota

	// KindNetwork means no usable response was received (DNS, connect,
	// timeout). Always retryable.
	KindNetwork

	// KindAuthExpired means credentials are invalid and the refresh
	// exchange also failed; the caller must force a re-login.
	KindAuthExpired

	// KindValidation carries per-field messages from a 400/422 response.
	KindValidation

	// KindPermission maps 403.
	KindPermission

	// KindNotFound maps 404/410.
	KindNotFound

	// KindRateLimited maps 429 and 408. Retryable.
	KindRateLimited

	// KindServer maps 5xx. Retryable.
	KindServer

	// KindAlreadyLogged is raised by the daily ledger when a meal slot is
	// already taken for the current day.
	KindAlreadyLogged

	// KindOverLimit is raised by the water accumulator when an add would
	// exceed the safety ceiling.
	KindOverLimit
)

// String returns the stable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuthExpired:
		return "auth_expired"
	case KindValidation:
		return "validation"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindServer:
		return "server"
	case KindAlreadyLogged:
		return "already_logged"
	case KindOverLimit:
		return "over_limit"
	default:
		return "unknown"
	}
}

// Error wraps a failure with its classification. Message is safe to show
// to an end user; Underlying preserves the original error chain.
type Error struct {
	Kind       Kind
	StatusCode int                 // 0 for non-HTTP failures
	Message    string              // human-readable, user-facing
	Fields     map[string][]string // populated for KindValidation
	Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As compatibility.
func (e *Error) Unwrap() error { return e.Underlying }

// Retryable reports whether retrying the operation could succeed.
// Network failures, timeouts, rate limiting and server errors qualify;
// everything else fails fast.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindRateLimited, KindServer:
		return true
	default:
		return false
	}
}

// New constructs an Error with the given kind and user-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the Kind from err, or KindUnknown if err is not a
// classified error.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether err is a classified, retryable failure.
// Unclassified errors are not retried.
func IsRetryable(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Retryable()
	}
	return false
}
