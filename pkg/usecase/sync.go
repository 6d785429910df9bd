package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/songify-io/songify/pkg/domain/interfaces"
	"github.com/songify-io/songify/pkg/domain/model"
	"github.com/songify-io/songify/pkg/domain/types"
	"github.com/songify-io/songify/pkg/service/spotify"
	"github.com/songify-io/songify/pkg/utils/async"
	"github.com/songify-io/songify/pkg/utils/logging"
)

// SyncAll runs one reconciliation tick over every user record. Per-user work
// is dispatched to background goroutines; a user whose previous tick is still
// running is skipped so slow reconciliations never pile up.
func (uc *UseCases) SyncAll(ctx context.Context) error {
	users, err := uc.repo.User().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list users")
	}

	for _, user := range users {
		if user.Paused || !user.Linked() {
			continue
		}

		sem := uc.guard(string(user.ID))
		if !sem.TryAcquire(1) {
			logging.From(ctx).Debug("previous sync still in flight, skipping tick",
				"user_id", user.ID)
			continue
		}

		id := user.ID
		async.Dispatch(ctx, func(ctx context.Context) error {
			defer sem.Release(1)
			return uc.SyncUser(ctx, id)
		})
	}

	return nil
}

// SyncUser reconciles a single user's Slack status with their playback state.
// Transient provider failures are logged and left for the next tick.
func (uc *UseCases) SyncUser(ctx context.Context, id types.UserID) error {
	user, err := uc.repo.User().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrUserNotFound, "sync target missing", goerr.V("user_id", id))
		}
		return goerr.Wrap(err, "failed to load user", goerr.V("user_id", id))
	}
	if user.Paused || !user.Linked() {
		return nil
	}

	playback, err := uc.fetchPlayback(ctx, user)
	switch {
	case errors.Is(err, spotify.ErrRateLimited):
		logging.From(ctx).Info("provider rate limited, abandoning tick", "user_id", user.ID)
		return nil
	case errors.Is(err, ErrRecordRevoked):
		logging.From(ctx).Warn("refresh token revoked, user record deleted", "user_id", user.ID)
		return nil
	case err != nil:
		return goerr.Wrap(err, "playback fetch failed", goerr.V("user_id", user.ID))
	}

	return uc.reconcile(ctx, user, playback)
}

// fetchPlayback retrieves the playback snapshot through the token-refresh
// protocol: at most one refresh and one retried fetch. A 429 is never treated
// as a credential problem.
func (uc *UseCases) fetchPlayback(ctx context.Context, user *model.User) (*model.Playback, error) {
	playback, err := uc.spotify.CurrentlyPlaying(ctx, user.SpotifyToken)
	if err == nil {
		return playback, nil
	}
	if errors.Is(err, spotify.ErrRateLimited) || user.SpotifyRefresh == "" {
		return nil, err
	}

	if err := uc.refreshCredentials(ctx, user); err != nil {
		return nil, err
	}

	playback, err = uc.spotify.CurrentlyPlaying(ctx, user.SpotifyToken)
	if err != nil {
		return nil, goerr.Wrap(err, "playback fetch failed after refresh")
	}
	return playback, nil
}

// refreshCredentials refreshes the user's Spotify access token and persists
// the result, keeping a rotated refresh token when the provider returns one.
// An invalid_grant rejection is terminal: the record is deleted and
// ErrRecordRevoked returned so callers never retry.
func (uc *UseCases) refreshCredentials(ctx context.Context, user *model.User) error {
	creds, err := uc.spotify.Refresh(ctx, user.SpotifyRefresh)
	if err != nil {
		if errors.Is(err, spotify.ErrInvalidGrant) {
			if delErr := uc.repo.User().Delete(ctx, user.ID); delErr != nil {
				return goerr.Wrap(delErr, "failed to delete revoked user record",
					goerr.V("user_id", user.ID))
			}
			uc.logActivity(ctx, "delete_user", "spotify", "refresh token revoked", user.ID, true)
			return goerr.Wrap(ErrRecordRevoked, "refresh rejected", goerr.V("user_id", user.ID))
		}
		uc.logActivity(ctx, "refresh_token", "spotify", err.Error(), user.ID, true)
		return goerr.Wrap(err, "token refresh failed", goerr.V("user_id", user.ID))
	}

	user.SpotifyToken = creds.AccessToken
	if creds.RefreshToken != "" {
		user.SpotifyRefresh = creds.RefreshToken
	}
	if err := uc.repo.User().Put(ctx, user); err != nil {
		return goerr.Wrap(err, "failed to persist refreshed credentials")
	}
	uc.logActivity(ctx, "refresh_token", "spotify", "", user.ID, false)

	return nil
}

// reconcile compares the desired status against the last-pushed state and
// publishes only on change.
func (uc *UseCases) reconcile(ctx context.Context, user *model.User, playback *model.Playback) error {
	if !playback.HasTrack() {
		return uc.restoreOriginal(ctx, user)
	}

	candidate := playback.StatusLine()
	if candidate == user.Status && playback.IsPlaying == user.Playing {
		return nil
	}

	var emoji string
	if playback.IsPlaying {
		emoji = uc.resolveEmoji(ctx, user, playback)
	} else {
		emoji = uc.pausedEmoji
	}

	if err := uc.publishStatus(ctx, user, candidate, emoji); err != nil {
		return err
	}

	user.Status = candidate
	user.Playing = playback.IsPlaying
	user.Emoji = emoji
	if err := uc.repo.User().Put(ctx, user); err != nil {
		return goerr.Wrap(err, "failed to persist sync state", goerr.V("user_id", user.ID))
	}

	return nil
}

// restoreOriginal puts the pre-link Slack status back once playback stops.
// Subsequent no-track ticks publish nothing.
func (uc *UseCases) restoreOriginal(ctx context.Context, user *model.User) error {
	if user.Status == "" || user.Status == user.OriginalStatus {
		return nil
	}

	if err := uc.publishStatus(ctx, user, user.OriginalStatus, user.OriginalEmoji); err != nil {
		return err
	}

	user.Status = user.OriginalStatus
	user.Playing = false
	user.Emoji = user.OriginalEmoji
	if err := uc.repo.User().Put(ctx, user); err != nil {
		return goerr.Wrap(err, "failed to persist restored state", goerr.V("user_id", user.ID))
	}

	return nil
}

// resolveEmoji looks up a genre emoji for the first artist of the track.
// Best effort: any failure resolves to absent so the text update is never
// blocked on genre data.
func (uc *UseCases) resolveEmoji(ctx context.Context, user *model.User, playback *model.Playback) string {
	if len(playback.Artists) == 0 {
		return ""
	}

	genres, err := uc.spotify.ArtistGenres(ctx, user.SpotifyToken, playback.Artists[0].ID)
	if err != nil {
		logging.From(ctx).Debug("genre lookup failed", "user_id", user.ID, "error", err)
		return ""
	}
	if len(genres) == 0 {
		return ""
	}

	mappings, err := uc.repo.Genre().FindMatching(ctx, user.TeamID, genres)
	if err != nil {
		logging.From(ctx).Debug("genre mapping lookup failed", "user_id", user.ID, "error", err)
		return ""
	}
	if len(mappings) == 0 {
		return ""
	}

	return mappings[0].Emoji
}

// publishStatus pushes a status to Slack. Truncation and the default emoji
// are applied at the edge so the stored de-dup key keeps the full values.
func (uc *UseCases) publishStatus(ctx context.Context, user *model.User, text, emoji string) error {
	if emoji == "" && text != "" {
		emoji = uc.defaultEmoji
	}

	if err := uc.slack.SetStatus(ctx, user.SlackToken, model.TruncateStatus(text), emoji); err != nil {
		uc.logActivity(ctx, "set_user_status", "slack", err.Error(), user.ID, true)
		return goerr.Wrap(err, "failed to push status", goerr.V("user_id", user.ID))
	}
	uc.logActivity(ctx, "set_user_status", "slack", text, user.ID, false)

	return nil
}
