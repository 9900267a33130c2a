package auth

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailNotConfirmed means the account exists but has not
	// completed the confirmation handshake yet.
	ErrEmailNotConfirmed        = errors.New("email not confirmed")
	ErrInvalidRefreshToken      = errors.New("invalid refresh token")
	ErrInvalidConfirmationToken = errors.New("invalid confirmation token")
	ErrAccountExists            = errors.New("account already exists")

	// Codec-level failures. The session and confirmation flows normalize
	// these into the Invalid*Token errors above before they reach callers.
	ErrMalformedToken = errors.New("malformed token")
	ErrWrongTokenKind = errors.New("wrong token kind")
	ErrTokenExpired   = errors.New("token expired")

	// ErrBadDigest means the stored password digest is not a valid bcrypt
	// string. This is a data integrity problem, not a failed login.
	ErrBadDigest = errors.New("malformed password digest")
)
