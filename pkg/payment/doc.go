// Package payment starts the checkout handoff. The payment provider itself
// is an opaque collaborator: one call with the delivery address yields a
// redirect URL, and everything past that redirect belongs to the provider.
package payment
