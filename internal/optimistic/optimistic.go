// Package optimistic generalizes the apply-then-maybe-rollback pattern:
// a local state change is applied before the network call resolves, and
// deterministically inverted from its pre-image when the call fails.
// Components with local-authoritative semantics (the water accumulator)
// simply don't use it.
package optimistic

import "context"

// Mutation describes one optimistic state change over a state snapshot
// of type S.
type Mutation[S any] struct {
	// Snapshot captures the pre-image before anything changes.
	Snapshot func() S
	// Apply performs the local change. An error here aborts the whole
	// mutation before any network traffic.
	Apply func() error
	// Restore reinstates the pre-image after a failed network call.
	Restore func(S)
}

// Do runs m.Apply, then op. If op fails, the pre-image captured before
// Apply is restored and op's error returned unchanged.
func Do[S any](ctx context.Context, m Mutation[S], op func(context.Context) error) error {
	pre := m.Snapshot()
	if err := m.Apply(); err != nil {
		return err
	}
	if err := op(ctx); err != nil {
		m.Restore(pre)
		return err
	}
	return nil
}
