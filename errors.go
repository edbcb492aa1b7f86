package vivasync

import (
	stderrors "errors"

	apierrors "github.com/aminat2005/viva-sync/internal/errors"
	"github.com/aminat2005/viva-sync/internal/syncqueue"
)

// Error is the classified failure every SDK operation returns. Callers
// branch on Kind, never on HTTP status codes.
type Error = apierrors.Error

// ErrorKind is the machine-readable failure classification.
type ErrorKind = apierrors.Kind

// Re-exported kinds so callers only import this package.
const (
	KindUnknown       = apierrors.KindUnknown
	KindNetwork       = apierrors.KindNetwork
	KindAuthExpired   = apierrors.KindAuthExpired
	KindValidation    = apierrors.KindValidation
	KindPermission    = apierrors.KindPermission
	KindNotFound      = apierrors.KindNotFound
	KindRateLimited   = apierrors.KindRateLimited
	KindServer        = apierrors.KindServer
	KindAlreadyLogged = apierrors.KindAlreadyLogged
	KindOverLimit     = apierrors.KindOverLimit
)

// ErrBackPressure is returned when the background sync queue is full.
var ErrBackPressure = syncqueue.ErrQueueFull

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return stderrors.Is(err, ErrBackPressure) }

// KindOf extracts the ErrorKind from err, or KindUnknown for
// unclassified errors.
func KindOf(err error) ErrorKind { return apierrors.KindOf(err) }

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool { return apierrors.IsRetryable(err) }

// FieldErrors returns the per-field validation messages carried by a
// KindValidation error, or nil.
func FieldErrors(err error) map[string][]string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// UserMessage returns err's user-facing message, falling back to a
// generic one for unclassified errors.
func UserMessage(err error) string {
	var e *Error
	if stderrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Something went wrong. Please try again."
}
