package spotify

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for provider response classification
var (
	// ErrRateLimited maps HTTP 429: transient, never a credential problem
	ErrRateLimited = goerr.New("spotify rate limited")

	// ErrUnauthorized maps HTTP 401: access token expired, refresh and retry once
	ErrUnauthorized = goerr.New("spotify access token rejected")

	// ErrInvalidGrant maps a refresh failing with invalid_grant: the credential
	// is permanently dead and the user record must be deleted
	ErrInvalidGrant = goerr.New("spotify refresh token revoked")
)
