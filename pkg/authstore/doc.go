// Package authstore caches the current storefront identity.
//
// Store is the single owner of the Session value. It starts Unknown, resolves
// to Authenticated or Anonymous by asking the API "who am I" exactly once
// (concurrent Resolve calls share one in-flight identity query), and resets
// to Anonymous on sign-out or when credential renewal fails for good.
//
// Dependents observe changes through Subscribe rather than polling: the cart
// engine, for example, clears its local snapshot when the session becomes
// Anonymous, without the auth layer knowing the cart exists. Change delivery
// is non-blocking; a subscriber that stops draining its channel loses
// messages instead of stalling the store.
package authstore
