package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrUserNotFound    = goerr.New("user not found")
	ErrTargetNotLinked = goerr.New("target user has not linked Spotify")

	// Command errors
	ErrTargetNotListening  = goerr.New("target user is not playing anything")
	ErrNoGenreData         = goerr.New("no genre data for the current artist")
	ErrGenresAlreadyMapped = goerr.New("all genres already have an emoji")

	// Linking errors
	ErrLinkExpired = goerr.New("account link expired or unknown")

	// Credential errors
	ErrRecordRevoked = goerr.New("user credentials revoked")
)
