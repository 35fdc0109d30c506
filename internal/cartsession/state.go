package cartsession

import "github.com/jaylife/storefront-api/internal/cart"

// State is the request lifecycle tag. Exactly one value holds at a time.
type State string

const (
	// StateIdle means no request is in flight.
	StateIdle State = "idle"
	// StateLoading means a read-only fetch is in flight.
	StateLoading State = "loading"
	// StateSubmitting means a mutation is in flight.
	StateSubmitting State = "submitting"
)

// Result is delivered on the channel returned by each operation once its
// backend round trip completes. Err is nil for successes and for silently
// recovered stale sessions. Stale marks a response that arrived after a
// newer request was issued or after a local clear; it was not reconciled
// into the session state.
type Result struct {
	Cart  *cart.Cart
	Err   error
	Stale bool
}
