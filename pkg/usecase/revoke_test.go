package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/songify-io/songify/pkg/domain/interfaces"
	"github.com/songify-io/songify/pkg/domain/types"
)

func TestRevokeUsers(t *testing.T) {
	t.Run("deletes matching records", func(t *testing.T) {
		uc, repo, _, _ := newTestUseCases(t)
		ctx := context.Background()

		first := testUser()
		second := targetUser()
		gt.NoError(t, repo.User().Put(ctx, first)).Required()
		gt.NoError(t, repo.User().Put(ctx, second)).Required()

		gt.NoError(t, uc.RevokeUsers(ctx, []types.UserID{first.ID})).Required()

		_, err := repo.User().Get(ctx, first.ID)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()

		_, err = repo.User().Get(ctx, second.ID)
		gt.NoError(t, err)
	})

	t.Run("unknown IDs are not an error", func(t *testing.T) {
		uc, _, _, _ := newTestUseCases(t)

		gt.NoError(t, uc.RevokeUsers(context.Background(), []types.UserID{"U0NOBODY"}))
	})
}
