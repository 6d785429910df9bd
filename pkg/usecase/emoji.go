package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/songify-io/songify/pkg/domain/interfaces"
	"github.com/songify-io/songify/pkg/domain/model"
	"github.com/songify-io/songify/pkg/domain/types"
	"github.com/songify-io/songify/pkg/utils/logging"
)

// RegisterGenreEmoji maps the unmapped genres of the invoker's current artist
// to the given emoji, then republishes the invoker's status with it. Returns
// the newly mapped genres for the command response.
func (uc *UseCases) RegisterGenreEmoji(ctx context.Context, userID types.UserID, emoji string) ([]string, error) {
	user, err := uc.repo.User().Get(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrUserNotFound, "invoker is not linked", goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to load user", goerr.V("user_id", userID))
	}

	playback, err := uc.fetchPlayback(ctx, user)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch playback", goerr.V("user_id", userID))
	}
	if !playback.HasTrack() {
		return nil, goerr.Wrap(ErrTargetNotListening, "no current track to take genres from")
	}

	genres, err := uc.spotify.ArtistGenres(ctx, user.SpotifyToken, playback.Artists[0].ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch artist genres")
	}
	if len(genres) == 0 {
		return nil, goerr.Wrap(ErrNoGenreData, "artist has no genre tags",
			goerr.V("artist", playback.Artists[0].Name))
	}

	mapped, err := uc.repo.Genre().FindMatching(ctx, user.TeamID, genres)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up existing mappings")
	}

	newGenres := model.NewGenres(genres, mapped)
	if len(newGenres) == 0 {
		return nil, goerr.Wrap(ErrGenresAlreadyMapped, "nothing to register",
			goerr.V("genres", strings.Join(genres, ", ")))
	}

	now := time.Now()
	mappings := make([]*model.GenreMapping, 0, len(newGenres))
	for _, g := range newGenres {
		mappings = append(mappings, &model.GenreMapping{
			TeamID:    user.TeamID,
			Genre:     g,
			Emoji:     emoji,
			CreatedAt: now,
		})
	}
	if err := uc.repo.Genre().InsertMany(ctx, mappings); err != nil {
		return nil, goerr.Wrap(err, "failed to insert genre mappings")
	}
	uc.logActivity(ctx, "register_genre_emoji", "songify", strings.Join(newGenres, ", "), userID, false)

	// Show the fresh emoji immediately instead of waiting for a track change
	if playback.IsPlaying {
		if err := uc.publishStatus(ctx, user, playback.StatusLine(), emoji); err != nil {
			logging.From(ctx).Warn("failed to republish status with new emoji",
				"user_id", userID, "error", err)
		} else {
			user.Status = playback.StatusLine()
			user.Playing = true
			user.Emoji = emoji
			if putErr := uc.repo.User().Put(ctx, user); putErr != nil {
				return nil, goerr.Wrap(putErr, "failed to persist sync state")
			}
		}
	}

	return newGenres, nil
}
