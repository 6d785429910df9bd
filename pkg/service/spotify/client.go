package spotify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/songify-io/songify/pkg/domain/model"
	"golang.org/x/oauth2"
)

const (
	defaultAuthURL  = "https://accounts.spotify.com/authorize"
	defaultTokenURL = "https://accounts.spotify.com/api/token"
	defaultAPIURL   = "https://api.spotify.com/v1"

	defaultTimeout = 10 * time.Second
)

// client implements Service interface
type client struct {
	oauth      *oauth2.Config
	apiURL     string
	tokenURL   string
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithHTTPClient overrides the HTTP client (used by tests)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithAPIURL overrides the Web API base URL (used by tests)
func WithAPIURL(u string) Option {
	return func(c *client) {
		c.apiURL = u
	}
}

// WithTokenURL overrides the token endpoint (used by tests)
func WithTokenURL(u string) Option {
	return func(c *client) {
		c.tokenURL = u
		c.oauth.Endpoint.TokenURL = u
	}
}

// New creates a new Spotify service with the provided OAuth credentials
func New(clientID, clientSecret, redirectURI string, opts ...Option) (Service, error) {
	if clientID == "" || clientSecret == "" {
		return nil, goerr.New("spotify client ID and secret are required")
	}

	c := &client{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes: []string{
				"user-read-currently-playing",
				"user-modify-playback-state",
			},
			Endpoint: oauth2.Endpoint{
				AuthURL:  defaultAuthURL,
				TokenURL: defaultTokenURL,
			},
		},
		apiURL:     defaultAPIURL,
		tokenURL:   defaultTokenURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// currentlyPlayingResponse mirrors GET /v1/me/player/currently-playing
type currentlyPlayingResponse struct {
	IsPlaying bool `json:"is_playing"`
	Item      *struct {
		Name    string `json:"name"`
		URI     string `json:"uri"`
		Artists []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"artists"`
	} `json:"item"`
}

// artistResponse mirrors GET /v1/artists/{id}
type artistResponse struct {
	Genres []string `json:"genres"`
}

// tokenResponse mirrors POST /api/token
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Error        string `json:"error"`
}

// CurrentlyPlaying fetches the user's player snapshot
func (c *client) CurrentlyPlaying(ctx context.Context, accessToken string) (*model.Playback, error) {
	resp, err := c.get(ctx, accessToken, "/me/player/currently-playing")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// 204: no active device / nothing playing
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	var body currentlyPlayingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, goerr.Wrap(err, "failed to decode currently-playing response")
	}

	if body.Item == nil {
		return nil, nil
	}

	pb := &model.Playback{
		IsPlaying: body.IsPlaying,
		Track:     body.Item.Name,
		TrackURI:  body.Item.URI,
	}
	for _, a := range body.Item.Artists {
		pb.Artists = append(pb.Artists, model.Artist{ID: a.ID, Name: a.Name})
	}

	return pb, nil
}

// ArtistGenres fetches the genre tag set of an artist
func (c *client) ArtistGenres(ctx context.Context, accessToken, artistID string) ([]string, error) {
	resp, err := c.get(ctx, accessToken, "/artists/"+url.PathEscape(artistID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	var body artistResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, goerr.Wrap(err, "failed to decode artist response", goerr.V("artist_id", artistID))
	}

	return body.Genres, nil
}

// Enqueue adds a track URI to the user's playback queue
func (c *client) Enqueue(ctx context.Context, accessToken, trackURI string) error {
	endpoint := c.apiURL + "/me/player/queue?uri=" + url.QueryEscape(trackURI)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create enqueue request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "enqueue request failed")
	}
	defer resp.Body.Close()

	return classifyStatus(resp)
}

// Refresh exchanges a refresh token for new credentials.
//
// Hand-rolled rather than delegated to oauth2.TokenSource: the reconciliation
// engine needs to distinguish 429 from 401 from a terminal invalid_grant, and
// oauth2 folds those into one opaque RetrieveError.
func (c *client) Refresh(ctx context.Context, refreshToken string) (*Credentials, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {c.oauth.ClientID},
		"client_secret": {c.oauth.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create refresh request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "refresh request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read refresh response")
	}

	var body tokenResponse
	// Tolerate undecodable bodies; status classification below still applies
	_ = json.Unmarshal(raw, &body)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, goerr.Wrap(ErrRateLimited, "token endpoint rate limited")
	case resp.StatusCode == http.StatusBadRequest && body.Error == "invalid_grant":
		return nil, goerr.Wrap(ErrInvalidGrant, "refresh rejected",
			goerr.V("body", string(raw)))
	case resp.StatusCode != http.StatusOK:
		return nil, goerr.New("token refresh failed",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(raw)))
	}

	if body.AccessToken == "" {
		return nil, goerr.New("token refresh returned no access token")
	}

	return &Credentials{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
	}, nil
}

// AuthURL returns the authorization-code URL for account linking
func (c *client) AuthURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange completes the authorization-code flow during account linking
func (c *client) Exchange(ctx context.Context, code string) (*Credentials, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange authorization code")
	}

	return &Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, nil
}

func (c *client) get(ctx context.Context, accessToken, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("path", path))
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "request failed", goerr.V("path", path))
	}
	return resp, nil
}

// classifyStatus maps provider response codes onto the sentinel taxonomy.
// Success codes return nil. The body is drained into the error for logging.
func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return goerr.Wrap(ErrUnauthorized, "provider returned 401")
	case resp.StatusCode == http.StatusTooManyRequests:
		return goerr.Wrap(ErrRateLimited, "provider returned 429",
			goerr.V("retry_after", resp.Header.Get("Retry-After")))
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("provider error",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(raw)))
	}
}
