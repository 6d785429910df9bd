package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/songify-io/songify/pkg/domain/interfaces"
	"github.com/songify-io/songify/pkg/domain/model"
	"github.com/songify-io/songify/pkg/domain/types"
)

// SetPaused suspends or resumes status sync for a user. Commands keep working
// while paused; only the polling loop skips the record.
func (uc *UseCases) SetPaused(ctx context.Context, userID types.UserID, paused bool) error {
	user, err := uc.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.Paused == paused {
		return nil
	}

	user.Paused = paused
	if err := uc.repo.User().Put(ctx, user); err != nil {
		return goerr.Wrap(err, "failed to persist pause state", goerr.V("user_id", userID))
	}

	action := "resume_sync"
	if paused {
		action = "pause_sync"
	}
	uc.logActivity(ctx, action, "songify", "", userID, false)

	return nil
}

// SetOriginalStatus updates the fallback status restored when playback stops.
func (uc *UseCases) SetOriginalStatus(ctx context.Context, userID types.UserID, text, emoji string) error {
	user, err := uc.getUser(ctx, userID)
	if err != nil {
		return err
	}

	user.OriginalStatus = text
	user.OriginalEmoji = emoji
	if err := uc.repo.User().Put(ctx, user); err != nil {
		return goerr.Wrap(err, "failed to persist fallback status", goerr.V("user_id", userID))
	}
	uc.logActivity(ctx, "set_original_status", "songify", text, userID, false)

	return nil
}

func (uc *UseCases) getUser(ctx context.Context, userID types.UserID) (*model.User, error) {
	user, err := uc.repo.User().Get(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrUserNotFound, "no linked account", goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to load user", goerr.V("user_id", userID))
	}
	return user, nil
}
