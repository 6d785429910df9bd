package slack

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

const (
	defaultAuthorizeURL = "https://slack.com/oauth/v2/authorize"

	defaultTimeout = 10 * time.Second
)

// userScopes are the user-token scopes required for status publishing
var userScopes = []string{
	"users.profile:read",
	"users.profile:write",
}

// client implements Service interface
type client struct {
	clientID     string
	clientSecret string
	redirectURI  string
	authorizeURL string
	httpClient   *http.Client

	// newAPI builds a per-user API client; replaceable in tests
	newAPI func(token string) API
}

// API is the slice of slack.Client used by the service
type API interface {
	SetUserCustomStatusContext(ctx context.Context, statusText, statusEmoji string, statusExpiration int64) error
	GetUserProfileContext(ctx context.Context, params *slack.GetUserProfileParameters) (*slack.UserProfile, error)
}

// Option is a functional option for client configuration
type Option func(*client)

// WithHTTPClient overrides the HTTP client used for OAuth exchange (used by tests)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithAPI overrides the per-user API client factory (used by tests)
func WithAPI(factory func(token string) API) Option {
	return func(c *client) {
		c.newAPI = factory
	}
}

// New creates a new Slack service with the provided OAuth app credentials
func New(clientID, clientSecret, redirectURI string, opts ...Option) (Service, error) {
	if clientID == "" || clientSecret == "" {
		return nil, goerr.New("Slack client ID and secret are required")
	}

	c := &client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		authorizeURL: defaultAuthorizeURL,
		httpClient:   &http.Client{Timeout: defaultTimeout},
	}
	c.newAPI = func(token string) API {
		return slack.New(token, slack.OptionHTTPClient(c.httpClient))
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SetStatus sets the custom status of the token's user
func (c *client) SetStatus(ctx context.Context, token, text, emoji string) error {
	if err := c.newAPI(token).SetUserCustomStatusContext(ctx, text, emoji, 0); err != nil {
		return goerr.Wrap(err, "failed to set user status")
	}
	return nil
}

// GetProfile retrieves the current profile of the token's user
func (c *client) GetProfile(ctx context.Context, token string) (*Profile, error) {
	profile, err := c.newAPI(token).GetUserProfileContext(ctx, &slack.GetUserProfileParameters{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user profile")
	}

	return &Profile{
		StatusText:  profile.StatusText,
		StatusEmoji: profile.StatusEmoji,
	}, nil
}

// AuthorizeURL returns the OAuth v2 authorization URL for account linking
func (c *client) AuthorizeURL(state string) string {
	q := url.Values{
		"client_id":    {c.clientID},
		"user_scope":   {strings.Join(userScopes, ",")},
		"redirect_uri": {c.redirectURI},
		"state":        {state},
	}
	return c.authorizeURL + "?" + q.Encode()
}

// ExchangeOAuth completes the OAuth v2 flow and returns the authed user
func (c *client) ExchangeOAuth(ctx context.Context, code string) (*Authorization, error) {
	resp, err := slack.GetOAuthV2ResponseContext(ctx, c.httpClient, c.clientID, c.clientSecret, code, c.redirectURI)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange OAuth code")
	}

	if resp.AuthedUser.ID == "" || resp.AuthedUser.AccessToken == "" {
		return nil, goerr.New("OAuth response missing authed user",
			goerr.V("team_id", resp.Team.ID))
	}

	return &Authorization{
		UserID:      resp.AuthedUser.ID,
		TeamID:      resp.Team.ID,
		AccessToken: resp.AuthedUser.AccessToken,
	}, nil
}
