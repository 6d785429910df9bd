package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/songify-io/songify/pkg/domain/model"
	"github.com/songify-io/songify/pkg/domain/types"
	"github.com/songify-io/songify/pkg/utils/logging"
)

// logActivity records a best-effort audit entry. Insert failures are logged
// and never propagated.
func (uc *UseCases) logActivity(ctx context.Context, action, service, message string, userID types.UserID, isErr bool) {
	entry := model.NewActivity(action, service, message, userID, isErr)
	if err := uc.repo.Activity().Insert(ctx, entry); err != nil {
		logging.From(ctx).Warn("failed to record activity", "action", action, "error", err)
	}
}

// RecentActivities returns the newest audit entries up to limit.
func (uc *UseCases) RecentActivities(ctx context.Context, limit int) ([]*model.Activity, error) {
	entries, err := uc.repo.Activity().ListRecent(ctx, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list activities")
	}
	return entries, nil
}
