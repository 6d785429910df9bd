package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/songify-io/songify/pkg/usecase"
)

func TestSetPaused(t *testing.T) {
	t.Run("pause and resume round trip", func(t *testing.T) {
		uc, repo, spotifyMock, _ := newTestUseCases(t)
		ctx := context.Background()

		user := testUser()
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		gt.NoError(t, uc.SetPaused(ctx, user.ID, true)).Required()
		stored, err := repo.User().Get(ctx, user.ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, stored.Paused).True()

		// A paused record is invisible to the sync loop
		spotifyMock.playback = playingTrack()
		gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()
		gt.Value(t, spotifyMock.calls()).Equal(0)

		gt.NoError(t, uc.SetPaused(ctx, user.ID, false)).Required()
		stored, err = repo.User().Get(ctx, user.ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, stored.Paused).False()

		gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()
		gt.Value(t, spotifyMock.calls()).Equal(1)
	})

	t.Run("setting the same state is a no-op", func(t *testing.T) {
		uc, repo, _, _ := newTestUseCases(t)
		ctx := context.Background()

		user := testUser()
		gt.NoError(t, repo.User().Put(ctx, user)).Required()
		gt.NoError(t, uc.SetPaused(ctx, user.ID, false))
	})

	t.Run("unknown user", func(t *testing.T) {
		uc, _, _, _ := newTestUseCases(t)

		err := uc.SetPaused(context.Background(), "U0NOBODY", true)
		gt.Bool(t, errors.Is(err, usecase.ErrUserNotFound)).True()
	})
}

func TestSetOriginalStatus(t *testing.T) {
	uc, repo, _, slackMock := newTestUseCases(t)
	ctx := context.Background()

	user := testUser()
	user.Status = "Meshuggah - Bleed"
	user.Playing = true
	gt.NoError(t, repo.User().Put(ctx, user)).Required()

	gt.NoError(t, uc.SetOriginalStatus(ctx, user.ID, "Focus time", ":brain:")).Required()

	stored, err := repo.User().Get(ctx, user.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, stored.OriginalStatus).Equal("Focus time")
	gt.Value(t, stored.OriginalEmoji).Equal(":brain:")

	// The new fallback is what a stopped player restores
	gt.NoError(t, uc.SyncUser(ctx, user.ID)).Required()
	gt.Value(t, slackMock.lastPush().text).Equal("Focus time")
	gt.Value(t, slackMock.lastPush().emoji).Equal(":brain:")
}
