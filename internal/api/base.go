// Package api holds one function per backend operation. Every function
// validates its inputs, goes through the resilient transport, and returns
// canonical records — the loosely-shaped server payloads never leak past
// this package.
package api

import "context"

// Caller is the slice of the resilient transport this package needs.
// Injected so tests can fake the wire.
type Caller interface {
	Call(ctx context.Context, method, path string, in any) ([]byte, error)
}
