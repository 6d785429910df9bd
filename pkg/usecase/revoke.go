package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/songify-io/songify/pkg/domain/types"
	"github.com/songify-io/songify/pkg/utils/logging"
)

// RevokeUsers deletes the records of users whose Slack tokens were revoked.
// Unknown IDs are skipped; a failed delete does not stop the rest.
func (uc *UseCases) RevokeUsers(ctx context.Context, userIDs []types.UserID) error {
	var failed []types.UserID
	for _, id := range userIDs {
		if err := uc.repo.User().Delete(ctx, id); err != nil {
			logging.From(ctx).Error("failed to delete revoked user", "user_id", id, "error", err)
			failed = append(failed, id)
			continue
		}
		uc.logActivity(ctx, "delete_user", "slack", "tokens revoked", id, false)
	}

	if len(failed) > 0 {
		return goerr.New("some revoked users were not deleted", goerr.V("user_ids", failed))
	}
	return nil
}
