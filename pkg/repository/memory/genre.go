package memory

import (
	"context"
	"sync"
	"time"

	"github.com/songify-io/songify/pkg/domain/interfaces"
	"github.com/songify-io/songify/pkg/domain/model"
	"github.com/songify-io/songify/pkg/domain/types"
)

type genreRepository struct {
	mu sync.RWMutex
	// Insertion order is the store-defined result order of FindMatching
	mappings []*model.GenreMapping
}

var _ interfaces.GenreRepository = &genreRepository{}

func newGenreRepository() *genreRepository {
	return &genreRepository{}
}

// FindMatching returns the team's mappings whose genre is in the given set,
// in insertion order (first result wins at the call site).
func (r *genreRepository) FindMatching(ctx context.Context, teamID types.TeamID, genres []string) ([]*model.GenreMapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		wanted[g] = struct{}{}
	}

	var result []*model.GenreMapping
	for _, m := range r.mappings {
		if m.TeamID != teamID {
			continue
		}
		if _, ok := wanted[m.Genre]; !ok {
			continue
		}
		mappingCopy := *m
		result = append(result, &mappingCopy)
	}

	return result, nil
}

// InsertMany inserts new mappings
func (r *genreRepository) InsertMany(ctx context.Context, mappings []*model.GenreMapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, m := range mappings {
		mappingCopy := *m
		if mappingCopy.CreatedAt.IsZero() {
			mappingCopy.CreatedAt = now
		}
		r.mappings = append(r.mappings, &mappingCopy)
	}

	return nil
}
