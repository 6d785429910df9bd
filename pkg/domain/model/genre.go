package model

import (
	"time"

	"github.com/songify-io/songify/pkg/domain/types"
)

// GenreMapping maps a Spotify genre tag to an emoji for one workspace.
// Mappings are insert-only: created by the emoji command, never mutated.
type GenreMapping struct {
	TeamID    types.TeamID
	Genre     string
	Emoji     string
	CreatedAt time.Time
}

// NewGenres returns the provider genres that have no mapping yet
// (set difference: provider - mapped). Order of the provider list is kept.
func NewGenres(provider []string, mapped []*GenreMapping) []string {
	known := make(map[string]struct{}, len(mapped))
	for _, m := range mapped {
		known[m.Genre] = struct{}{}
	}

	var result []string
	for _, g := range provider {
		if _, ok := known[g]; !ok {
			result = append(result, g)
		}
	}
	return result
}
