package interfaces

import (
	"context"

	"github.com/songify-io/songify/pkg/domain/model"
)

// ActivityRepository stores best-effort audit entries.
type ActivityRepository interface {
	Insert(ctx context.Context, activity *model.Activity) error

	// ListRecent returns up to limit entries, newest first
	ListRecent(ctx context.Context, limit int) ([]*model.Activity, error)
}
