package spotify

import (
	"context"

	"github.com/songify-io/songify/pkg/domain/model"
)

// Service provides the interface to the Spotify Web API.
//
// The error taxonomy of CurrentlyPlaying, Enqueue and Refresh is load-bearing
// for the reconciliation engine's retry logic: callers classify results with
// errors.Is against ErrRateLimited, ErrUnauthorized and ErrInvalidGrant.
type Service interface {
	// CurrentlyPlaying fetches the user's player snapshot. Returns (nil, nil)
	// when nothing is active (no device, no track, or a 204 response).
	CurrentlyPlaying(ctx context.Context, accessToken string) (*model.Playback, error)

	// ArtistGenres fetches the genre tag set of an artist
	ArtistGenres(ctx context.Context, accessToken, artistID string) ([]string, error)

	// Enqueue adds a track URI to the user's playback queue
	Enqueue(ctx context.Context, accessToken, trackURI string) error

	// Refresh exchanges a refresh token for new credentials. RefreshToken in
	// the result is empty unless the provider rotated it.
	Refresh(ctx context.Context, refreshToken string) (*Credentials, error)

	// AuthURL returns the authorization-code URL for account linking
	AuthURL(state string) string

	// Exchange completes the authorization-code flow during account linking
	Exchange(ctx context.Context, code string) (*Credentials, error)
}

// Credentials is a pair of Spotify OAuth tokens.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}
