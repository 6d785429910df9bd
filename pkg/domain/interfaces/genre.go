package interfaces

import (
	"context"

	"github.com/songify-io/songify/pkg/domain/model"
	"github.com/songify-io/songify/pkg/domain/types"
)

// GenreRepository provides persistence for genre-emoji mappings.
// Mappings are insert-only.
type GenreRepository interface {
	// FindMatching returns mappings of the team whose genre is in the given
	// set, in store-defined order. The caller takes the first result; the
	// ordering tie-break is an accepted nondeterminism of emoji resolution.
	FindMatching(ctx context.Context, teamID types.TeamID, genres []string) ([]*model.GenreMapping, error)

	// InsertMany inserts new mappings
	InsertMany(ctx context.Context, mappings []*model.GenreMapping) error
}
