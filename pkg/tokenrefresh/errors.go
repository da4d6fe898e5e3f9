package tokenrefresh

import "errors"

var (
	// ErrSessionExpired indicates credential renewal failed, or a replayed
	// call was rejected again after a successful renewal. The session is no
	// longer usable and the user must re-authenticate.
	ErrSessionExpired = errors.New("tokenrefresh: session expired")

	// ErrNoGateway indicates the coordinator was constructed without a gateway.
	ErrNoGateway = errors.New("tokenrefresh: gateway is required")
)
