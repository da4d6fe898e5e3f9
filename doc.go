// Package shopkit assembles a complete storefront API client from the
// building blocks under pkg/.
//
// An App wires a resilient HTTP gateway, a single-flight session renewal
// coordinator, an authentication state store, an optimistic cart engine and
// the account, catalog, orders and payment services into one dependency
// graph. Callers that want individual pieces can use the pkg/ packages
// directly; App exists for binaries that want the whole storefront with the
// standard wiring:
//
//	app, err := shopkit.New(shopkit.Config{
//	    API: apiclient.Config{BaseURL: "https://shop.example.com"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Close()
//
//	sync := app.Cart.ApplyDelta(ctx, 42, 1)
//	if err := sync.Wait(ctx); err != nil {
//	    // local cart already rolled back
//	}
//
// The wiring encodes two cross-component rules. Every authenticated request
// flows through the renewal coordinator, so a mid-flight session expiry
// triggers exactly one renewal no matter how many calls are waiting. And a
// failed renewal cascades: the coordinator clears the auth store, the store
// broadcasts the anonymous transition, and the App resets the cart so no
// stale authenticated state survives.
package shopkit
