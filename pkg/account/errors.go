package account

import "errors"

var (
	// ErrInvalidCredentials indicates the email/password pair was rejected.
	ErrInvalidCredentials = errors.New("account: invalid credentials")

	// ErrResetRejected indicates the password reset link is expired or malformed.
	ErrResetRejected = errors.New("account: password reset rejected")
)
