// Package apiclient is the low-level authenticated call primitive for the
// storefront API.
//
// A Client performs exactly one HTTP round trip per call and classifies the
// outcome into a typed result. It attaches the browser-style credential
// (an opaque cookie held in the client's cookie jar) to every request and an
// anti-forgery token header to state-changing requests, serializes structured
// bodies to JSON, and decodes JSON responses. It never retries, never mutates
// shared state, and holds no session logic; resilience layers such as
// tokenrefresh.Coordinator compose on top of it.
//
// # Outcome classification
//
// Every call resolves to exactly one of:
//
//   - success: the decoded JSON body is returned
//   - *AuthError: 401, or a 403 whose body marks the credential as
//     expired or invalid (a 403 for an unrelated authorization reason is
//     reported as *APIError instead)
//   - *APIError: any other non-2xx status, carrying status and body
//   - *TransportError: the request produced no response at all
//     (DNS, connection, timeout)
//
// # Usage
//
//	client, err := apiclient.New("https://shop.example.com",
//	    apiclient.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//
//	raw, err := client.Do(ctx, apiclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/cart/add",
//	    Body:   map[string]any{"product_id": 7, "quantity": 1},
//	})
//
// Each call applies a bounded timeout on top of the caller's context;
// exceeding it surfaces as *TransportError.
package apiclient
