package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/songify-io/songify/pkg/domain/interfaces"
	"github.com/songify-io/songify/pkg/domain/model"
	"github.com/songify-io/songify/pkg/domain/types"
	"github.com/songify-io/songify/pkg/service/spotify"
)

// EnqueueFromPeer queues the target user's currently playing track on the
// invoker's player. Returns the track's status line for the command response.
func (uc *UseCases) EnqueueFromPeer(ctx context.Context, invokerID, targetID types.UserID) (string, error) {
	invoker, err := uc.repo.User().Get(ctx, invokerID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return "", goerr.Wrap(ErrUserNotFound, "invoker is not linked", goerr.V("user_id", invokerID))
		}
		return "", goerr.Wrap(err, "failed to load invoker", goerr.V("user_id", invokerID))
	}

	target, err := uc.repo.User().Get(ctx, targetID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return "", goerr.Wrap(ErrTargetNotLinked, "target has no record", goerr.V("user_id", targetID))
		}
		return "", goerr.Wrap(err, "failed to load target", goerr.V("user_id", targetID))
	}
	if !target.Linked() {
		return "", goerr.Wrap(ErrTargetNotLinked, "target link incomplete", goerr.V("user_id", targetID))
	}

	playback, err := uc.fetchPlayback(ctx, target)
	if err != nil {
		return "", goerr.Wrap(err, "failed to fetch target playback", goerr.V("user_id", targetID))
	}
	if !playback.HasTrack() || playback.TrackURI == "" {
		return "", goerr.Wrap(ErrTargetNotListening, "nothing to enqueue", goerr.V("user_id", targetID))
	}

	if err := uc.enqueueTrack(ctx, invoker, playback.TrackURI); err != nil {
		uc.logActivity(ctx, "enqueue_track", "spotify", err.Error(), invokerID, true)
		return "", goerr.Wrap(err, "failed to enqueue track", goerr.V("uri", playback.TrackURI))
	}
	uc.logActivity(ctx, "enqueue_track", "spotify", playback.StatusLine(), invokerID, false)

	return playback.StatusLine(), nil
}

// enqueueTrack pushes a track URI to the invoker's queue through the
// token-refresh protocol: a 401 triggers one refresh and one retry.
func (uc *UseCases) enqueueTrack(ctx context.Context, invoker *model.User, uri string) error {
	err := uc.spotify.Enqueue(ctx, invoker.SpotifyToken, uri)
	if err == nil {
		return nil
	}
	if !errors.Is(err, spotify.ErrUnauthorized) || invoker.SpotifyRefresh == "" {
		return err
	}

	if err := uc.refreshCredentials(ctx, invoker); err != nil {
		return err
	}

	return uc.spotify.Enqueue(ctx, invoker.SpotifyToken, uri)
}
