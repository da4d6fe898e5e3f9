// Package tokenrefresh transparently renews an expired storefront credential.
//
// Coordinator wraps an apiclient.Caller. Calls that succeed, or fail for any
// reason other than authentication, pass through untouched. When a call comes
// back with an authentication failure the coordinator runs a two-state
// machine:
//
//   - Idle: the first authentication failure flips the coordinator to
//     Refreshing, queues the failed call as a waiter, and issues exactly one
//     credential renewal call.
//   - Refreshing: calls attempted in this state are not sent; they join the
//     waiter queue and share the in-flight renewal. Concurrent calls racing
//     into an expired-session condition therefore collapse to a single
//     renewal attempt (single-flight).
//
// On renewal success every waiter's original call is replayed once, in
// arrival order, and each replay's result is handed back to its original
// caller. A replay that fails authentication again is not retried; it
// surfaces as ErrSessionExpired. On renewal failure all waiters are rejected
// with ErrSessionExpired and the OnSessionExpired hook fires once, letting
// the session store reset itself without the coordinator knowing about it.
// Navigation to a sign-in flow is the caller's responsibility.
//
// The state machine replaces the recursive retry-on-401 pattern: there is no
// unbounded recursion, and the single-flight guarantee is a property of the
// two named states rather than an accident of call ordering.
package tokenrefresh
