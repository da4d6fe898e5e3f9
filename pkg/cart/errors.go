package cart

import "errors"

var (
	// ErrLineNotFound indicates a mutation referenced a product that is not
	// in the local cart.
	ErrLineNotFound = errors.New("cart: line not found")

	// ErrInvalidDelta indicates an ApplyDelta call that cannot create or
	// adjust a line, such as inserting with a non-positive quantity.
	ErrInvalidDelta = errors.New("cart: invalid quantity delta")
)

// errReconciliationRequired marks a failure whose local-state outcome could
// not be resolved by rollback alone; the engine refetched the authoritative
// cart before surfacing it. Internal: callers see it only as wrapping text.
var errReconciliationRequired = errors.New("cart: reconciliation required")
