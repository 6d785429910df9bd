package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/songify-io/songify/pkg/domain/interfaces"
	"github.com/songify-io/songify/pkg/domain/model"
	"github.com/songify-io/songify/pkg/service/spotify"
)

func playingTrack() *model.Playback {
	return &model.Playback{
		IsPlaying: true,
		Track:     "Bleed",
		TrackURI:  "spotify:track:123",
		Artists:   []model.Artist{{ID: "a1", Name: "Meshuggah"}},
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSyncUser_PublishOnChange(t *testing.T) {
	uc, repo, spotifyMock, slackMock := newTestUseCases(t)
	ctx := context.Background()

	user := testUser()
	gt.NoError(t, repo.User().Put(ctx, user)).Required()
	spotifyMock.playback = playingTrack()

	gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()
	gt.Value(t, slackMock.pushCount()).Equal(1)

	push := slackMock.lastPush()
	gt.Value(t, push.text).Equal("Meshuggah - Bleed")
	gt.Value(t, push.emoji).Equal(":notes:")
	gt.Value(t, push.token).Equal("xoxp-token")

	stored, err := repo.User().Get(ctx, user.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, stored.Status).Equal("Meshuggah - Bleed")
	gt.Bool(t, stored.Playing).True()

	// Unchanged playback on the next tick publishes nothing
	gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()
	gt.Value(t, slackMock.pushCount()).Equal(1)
}

func TestSyncUser_PausedPlayerMarker(t *testing.T) {
	uc, repo, spotifyMock, slackMock := newTestUseCases(t)
	ctx := context.Background()

	user := testUser()
	gt.NoError(t, repo.User().Put(ctx, user)).Required()

	pb := playingTrack()
	pb.IsPlaying = false
	spotifyMock.playback = pb

	gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()
	gt.Value(t, slackMock.lastPush().emoji).Equal(":double_vertical_bar:")

	stored, err := repo.User().Get(ctx, user.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, stored.Playing).False()
}

func TestSyncUser_Truncation(t *testing.T) {
	uc, repo, spotifyMock, slackMock := newTestUseCases(t)
	ctx := context.Background()

	user := testUser()
	gt.NoError(t, repo.User().Put(ctx, user)).Required()

	pb := playingTrack()
	pb.Track = strings.Repeat("b", 150)
	spotifyMock.playback = pb

	gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()

	push := slackMock.lastPush()
	gt.Value(t, len(push.text)).Equal(100)
	gt.Bool(t, strings.HasSuffix(push.text, "...")).True()

	// The stored de-dup key keeps the full text
	stored, err := repo.User().Get(ctx, user.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, stored.Status).Equal(pb.StatusLine())
	gt.Value(t, len(stored.Status) > 100).Equal(true)
}

func TestSyncUser_RestoreOriginal(t *testing.T) {
	t.Run("restores once then stays quiet", func(t *testing.T) {
		uc, repo, _, slackMock := newTestUseCases(t)
		ctx := context.Background()

		user := testUser()
		user.Status = "Meshuggah - Bleed"
		user.Playing = true
		user.OriginalStatus = "Back to work"
		user.OriginalEmoji = ":coffee:"
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()
		gt.Value(t, slackMock.pushCount()).Equal(1)

		push := slackMock.lastPush()
		gt.Value(t, push.text).Equal("Back to work")
		gt.Value(t, push.emoji).Equal(":coffee:")

		gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()
		gt.Value(t, slackMock.pushCount()).Equal(1)
	})

	t.Run("empty original clears without default emoji", func(t *testing.T) {
		uc, repo, _, slackMock := newTestUseCases(t)
		ctx := context.Background()

		user := testUser()
		user.Status = "Meshuggah - Bleed"
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()

		push := slackMock.lastPush()
		gt.Value(t, push.text).Equal("")
		gt.Value(t, push.emoji).Equal("")
	})
}

func TestSyncUser_RefreshThenRetry(t *testing.T) {
	t.Run("refreshes once and retries once", func(t *testing.T) {
		uc, repo, spotifyMock, slackMock := newTestUseCases(t)
		ctx := context.Background()

		user := testUser()
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		spotifyMock.playbackQueue = []playbackResult{{err: spotify.ErrUnauthorized}}
		spotifyMock.playback = playingTrack()

		gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()
		gt.Value(t, spotifyMock.calls()).Equal(2)
		gt.Value(t, spotifyMock.refreshCalls).Equal(1)
		gt.Value(t, spotifyMock.playbackTokens[1]).Equal("refreshed-token")
		gt.Value(t, slackMock.pushCount()).Equal(1)

		stored, err := repo.User().Get(ctx, user.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.SpotifyToken).Equal("refreshed-token")
	})

	t.Run("keeps rotated refresh token", func(t *testing.T) {
		uc, repo, spotifyMock, _ := newTestUseCases(t)
		ctx := context.Background()

		user := testUser()
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		spotifyMock.playbackQueue = []playbackResult{{err: spotify.ErrUnauthorized}}
		spotifyMock.playback = playingTrack()
		spotifyMock.refreshCreds = &spotify.Credentials{AccessToken: "new-access", RefreshToken: "rotated"}

		gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()

		stored, err := repo.User().Get(ctx, user.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.SpotifyToken).Equal("new-access")
		gt.Value(t, stored.SpotifyRefresh).Equal("rotated")
	})

	t.Run("invalid_grant deletes the record with zero retries", func(t *testing.T) {
		uc, repo, spotifyMock, slackMock := newTestUseCases(t)
		ctx := context.Background()

		user := testUser()
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		spotifyMock.playbackQueue = []playbackResult{{err: spotify.ErrUnauthorized}}
		spotifyMock.refreshErr = spotify.ErrInvalidGrant

		gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()
		gt.Value(t, spotifyMock.calls()).Equal(1)
		gt.Value(t, slackMock.pushCount()).Equal(0)

		_, err := repo.User().Get(ctx, user.ID)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("rate limit abandons the tick without refreshing", func(t *testing.T) {
		uc, repo, spotifyMock, slackMock := newTestUseCases(t)
		ctx := context.Background()

		user := testUser()
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		spotifyMock.playbackQueue = []playbackResult{{err: spotify.ErrRateLimited}}

		gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()
		gt.Value(t, spotifyMock.calls()).Equal(1)
		gt.Value(t, spotifyMock.refreshCalls).Equal(0)
		gt.Value(t, slackMock.pushCount()).Equal(0)
	})

	t.Run("no refresh token means no retry", func(t *testing.T) {
		uc, repo, spotifyMock, _ := newTestUseCases(t)
		ctx := context.Background()

		user := testUser()
		user.SpotifyRefresh = ""
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		spotifyMock.playbackQueue = []playbackResult{{err: spotify.ErrUnauthorized}}

		gt.Error(t, uc.SyncUser(ctx, user.ID))
		gt.Value(t, spotifyMock.calls()).Equal(1)
		gt.Value(t, spotifyMock.refreshCalls).Equal(0)
	})
}

func TestSyncUser_GenreEmoji(t *testing.T) {
	t.Run("mapped genre resolves its emoji", func(t *testing.T) {
		uc, repo, spotifyMock, slackMock := newTestUseCases(t)
		ctx := context.Background()

		user := testUser()
		gt.NoError(t, repo.User().Put(ctx, user)).Required()
		gt.NoError(t, repo.Genre().InsertMany(ctx, []*model.GenreMapping{
			{TeamID: user.TeamID, Genre: "deathcore", Emoji: ":punch:"},
		})).Required()

		spotifyMock.playback = playingTrack()
		spotifyMock.genres = []string{"deathcore", "djent"}

		gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()
		gt.Value(t, slackMock.lastPush().emoji).Equal(":punch:")

		stored, err := repo.User().Get(ctx, user.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.Emoji).Equal(":punch:")
	})

	t.Run("unmapped genre falls back to the default", func(t *testing.T) {
		uc, repo, spotifyMock, slackMock := newTestUseCases(t)
		ctx := context.Background()

		user := testUser()
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		spotifyMock.playback = playingTrack()
		spotifyMock.genres = []string{"mathcore"}

		gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()
		gt.Value(t, slackMock.lastPush().emoji).Equal(":notes:")
	})
}

func TestSyncUser_Paused(t *testing.T) {
	uc, repo, spotifyMock, slackMock := newTestUseCases(t)
	ctx := context.Background()

	user := testUser()
	user.Paused = true
	gt.NoError(t, repo.User().Put(ctx, user)).Required()
	spotifyMock.playback = playingTrack()

	gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()
	gt.Value(t, spotifyMock.calls()).Equal(0)
	gt.Value(t, slackMock.pushCount()).Equal(0)
}

func TestSyncAll_InFlightGuard(t *testing.T) {
	uc, repo, spotifyMock, slackMock := newTestUseCases(t)
	ctx := context.Background()

	user := testUser()
	gt.NoError(t, repo.User().Put(ctx, user)).Required()

	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	spotifyMock.playback = playingTrack()
	spotifyMock.playbackHook = func() {
		once.Do(func() { close(started) })
		<-release
	}

	gt.NoError(t, uc.SyncAll(ctx)).Required()
	<-started

	// The first tick is still in flight: this one must skip the user
	gt.NoError(t, uc.SyncAll(ctx)).Required()
	gt.Value(t, spotifyMock.calls()).Equal(1)

	close(release)
	waitFor(t, func() bool { return slackMock.pushCount() == 1 })
}
