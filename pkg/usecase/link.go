package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/songify-io/songify/pkg/domain/interfaces"
	"github.com/songify-io/songify/pkg/domain/model"
	"github.com/songify-io/songify/pkg/domain/types"
	"github.com/songify-io/songify/pkg/service/slack"
	"github.com/songify-io/songify/pkg/utils/logging"
)

// linkTTL bounds how long a half-finished account link stays claimable
const linkTTL = 10 * time.Minute

// linkStore holds pending account links between the Slack and Spotify OAuth
// callbacks, keyed by a one-time state token. Process-local: a restart drops
// pending links and the user simply starts over.
type linkStore struct {
	mu      sync.Mutex
	pending map[string]pendingLink
}

type pendingLink struct {
	auth      *slack.Authorization
	expiresAt time.Time
}

func newLinkStore() *linkStore {
	return &linkStore{pending: make(map[string]pendingLink)}
}

// put stores an authorization and returns its one-time state token
func (s *linkStore) put(auth *slack.Authorization) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for state, link := range s.pending {
		if link.expiresAt.Before(now) {
			delete(s.pending, state)
		}
	}

	state := uuid.NewString()
	s.pending[state] = pendingLink{auth: auth, expiresAt: now.Add(linkTTL)}
	return state
}

// take claims and removes a pending link. Returns nil when unknown or expired.
func (s *linkStore) take(state string) *slack.Authorization {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.pending[state]
	if !ok {
		return nil
	}
	delete(s.pending, state)
	if link.expiresAt.Before(time.Now()) {
		return nil
	}
	return link.auth
}

// SlackAuthorizeURL returns the URL starting the account link flow.
func (uc *UseCases) SlackAuthorizeURL() string {
	return uc.slack.AuthorizeURL("")
}

// CompleteSlackLink exchanges the Slack OAuth code and opens a pending link.
// Returns the Spotify authorization URL that continues the flow.
func (uc *UseCases) CompleteSlackLink(ctx context.Context, code string) (string, error) {
	auth, err := uc.slack.ExchangeOAuth(ctx, code)
	if err != nil {
		return "", goerr.Wrap(err, "Slack OAuth exchange failed")
	}

	state := uc.links.put(auth)
	return uc.spotify.AuthURL(state), nil
}

// CompleteSpotifyLink finishes account linking: claims the pending link,
// exchanges the Spotify authorization code, captures the current Slack status
// as the restore fallback, and upserts the user record.
func (uc *UseCases) CompleteSpotifyLink(ctx context.Context, state, code string) (*model.User, error) {
	auth := uc.links.take(state)
	if auth == nil {
		return nil, goerr.Wrap(ErrLinkExpired, "no pending link for state")
	}

	creds, err := uc.spotify.Exchange(ctx, code)
	if err != nil {
		return nil, goerr.Wrap(err, "Spotify code exchange failed")
	}

	userID := types.UserID(auth.UserID)
	user, err := uc.repo.User().Get(ctx, userID)
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		user = &model.User{
			ID:     userID,
			TeamID: types.TeamID(auth.TeamID),
		}
		// The status in place right now is what playback-stop restores
		if profile, profErr := uc.slack.GetProfile(ctx, auth.AccessToken); profErr != nil {
			logging.From(ctx).Warn("could not capture original status", "user_id", userID, "error", profErr)
		} else {
			user.OriginalStatus = profile.StatusText
			user.OriginalEmoji = profile.StatusEmoji
		}
	case err != nil:
		return nil, goerr.Wrap(err, "failed to load user", goerr.V("user_id", userID))
	}

	user.SlackToken = auth.AccessToken
	user.SpotifyToken = creds.AccessToken
	user.SpotifyRefresh = creds.RefreshToken

	if err := uc.repo.User().Put(ctx, user); err != nil {
		return nil, goerr.Wrap(err, "failed to persist linked user", goerr.V("user_id", userID))
	}
	uc.logActivity(ctx, "link_account", "songify", "", userID, false)

	return user, nil
}
