package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// classification is one row of the status table.
type classification struct {
	kind    Kind
	message string
}

// statusTable maps exact HTTP status codes to their classification.
// Ranges (4xx, 5xx) are handled in Classify after the exact lookup.
var statusTable = map[int]classification{
	http.StatusBadRequest:          {KindValidation, "Some of the submitted values were rejected. Please review and try again."},
	http.StatusUnprocessableEntity: {KindValidation, "Some of the submitted values were rejected. Please review and try again."},
	http.StatusUnauthorized:        {KindAuthExpired, "Your session has expired. Please sign in again."},
	http.StatusForbidden:           {KindPermission, "You don't have permission to do that."},
	http.StatusNotFound:            {KindNotFound, "The requested record could not be found."},
	http.StatusGone:                {KindNotFound, "The requested record could not be found."},
	http.StatusRequestTimeout:      {KindRateLimited, "The server took too long to respond. Please try again."},
	http.StatusTooManyRequests:     {KindRateLimited, "Too many requests. Please wait a moment and try again."},
}

// Classify maps a non-2xx HTTP outcome to a classified Error. body may be
// nil; when the status indicates a validation failure the body is parsed
// for per-field messages.
func Classify(statusCode int, body []byte, underlying error) *Error {
	if underlying == nil {
		underlying = fmt.Errorf("HTTP %d", statusCode)
	}

	if c, ok := statusTable[statusCode]; ok {
		e := &Error{Kind: c.kind, StatusCode: statusCode, Message: c.message, Underlying: underlying}
		if c.kind == KindValidation {
			e.Fields = parseFieldErrors(body)
		}
		return e
	}

	switch {
	case statusCode >= 500:
		return &Error{Kind: KindServer, StatusCode: statusCode, Message: "Something went wrong on the server. Please try again shortly.", Underlying: underlying}
	case statusCode >= 400:
		return &Error{Kind: KindUnknown, StatusCode: statusCode, Message: "The request could not be completed.", Underlying: underlying}
	default:
		return &Error{Kind: KindUnknown, StatusCode: statusCode, Message: "Unexpected response from the server.", Underlying: underlying}
	}
}

// FromNetwork wraps a transport-level failure (no response received).
func FromNetwork(operation string, err error) *Error {
	return &Error{
		Kind:       KindNetwork,
		Message:    "Could not reach the server. Check your connection and try again.",
		Underlying: fmt.Errorf("%s: %w", operation, err),
	}
}

// parseFieldErrors pulls {"field": ["msg", ...]} shapes out of a DRF-style
// error body. Scalar values and nested strings are coerced to a single
// message; anything unparseable yields nil.
func parseFieldErrors(body []byte) map[string][]string {
	if len(body) == 0 {
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}
	fields := make(map[string][]string, len(raw))
	for name, v := range raw {
		switch val := v.(type) {
		case string:
			fields[name] = []string{val}
		case []any:
			for _, item := range val {
				if s, ok := item.(string); ok {
					fields[name] = append(fields[name], s)
				}
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
