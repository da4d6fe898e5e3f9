// Package account performs the credential-issuing operations: sign-in,
// sign-out and the password reset flow.
//
// Service talks to the API through two callers. Credential-issuing endpoints
// (sign-in, password reset) go through the bare gateway: a 401 there means
// "wrong password", and routing it through the refresh coordinator would
// misread it as an expired session and burn a pointless renewal attempt.
// Already-authenticated operations (sign-out) go through the coordinator
// like everything else.
//
// On successful sign-in the server sets the credential cookies itself; the
// service's only bookkeeping is pushing the confirmed identity into the auth
// session store.
package account
