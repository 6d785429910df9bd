package memory

import (
	"context"
	"sync"

	"github.com/songify-io/songify/pkg/domain/interfaces"
	"github.com/songify-io/songify/pkg/domain/model"
)

type activityRepository struct {
	mu      sync.RWMutex
	entries []*model.Activity
}

var _ interfaces.ActivityRepository = &activityRepository{}

func newActivityRepository() *activityRepository {
	return &activityRepository{}
}

func (r *activityRepository) Insert(ctx context.Context, activity *model.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entryCopy := *activity
	r.entries = append(r.entries, &entryCopy)
	return nil
}

// ListRecent returns up to limit entries, newest first
func (r *activityRepository) ListRecent(ctx context.Context, limit int) ([]*model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.entries)
	if limit > n {
		limit = n
	}

	result := make([]*model.Activity, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		entryCopy := *r.entries[i]
		result = append(result, &entryCopy)
	}

	return result, nil
}
