package slack

import "context"

// Service provides the interface to the Slack API. Status operations act on
// behalf of individual users and take the user's OAuth token rather than a
// workspace bot token.
type Service interface {
	// SetStatus sets the custom status of the token's user
	SetStatus(ctx context.Context, token, text, emoji string) error

	// GetProfile retrieves the current profile of the token's user
	GetProfile(ctx context.Context, token string) (*Profile, error)

	// AuthorizeURL returns the OAuth v2 authorization URL for account linking
	AuthorizeURL(state string) string

	// ExchangeOAuth completes the OAuth v2 flow and returns the authed user
	ExchangeOAuth(ctx context.Context, code string) (*Authorization, error)
}

// Profile is the status-relevant slice of a Slack user profile
type Profile struct {
	StatusText  string
	StatusEmoji string
}

// Authorization is the result of a completed OAuth v2 exchange
type Authorization struct {
	UserID      string
	TeamID      string
	AccessToken string
}
