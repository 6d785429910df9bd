package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/songify-io/songify/pkg/domain/interfaces"
	"github.com/songify-io/songify/pkg/domain/model"
	"github.com/songify-io/songify/pkg/domain/types"
	"google.golang.org/api/iterator"
)

const (
	genresCollection = "genres"

	// Firestore "in" query value limit
	firestoreInQueryLimit = 10
)

type genreRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.GenreRepository = &genreRepository{}

func newGenreRepository(client *firestore.Client) *genreRepository {
	return &genreRepository{
		client: client,
	}
}

// genreDoc is the Firestore persistence model
type genreDoc struct {
	TeamID    string    `firestore:"team_id"`
	Genre     string    `firestore:"genre"`
	Emoji     string    `firestore:"emoji"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (r *genreRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + genresCollection)
	}
	return r.client.Collection(genresCollection)
}

// FindMatching returns the team's mappings whose genre is in the given set.
// Splits into "in" queries of firestoreInQueryLimit values each; result order
// within the store is unspecified, which is the documented tie-break.
func (r *genreRepository) FindMatching(ctx context.Context, teamID types.TeamID, genres []string) ([]*model.GenreMapping, error) {
	if len(genres) == 0 {
		return nil, nil
	}

	var result []*model.GenreMapping

	for i := 0; i < len(genres); i += firestoreInQueryLimit {
		end := i + firestoreInQueryLimit
		if end > len(genres) {
			end = len(genres)
		}
		chunk := genres[i:end]

		iter := r.collection().
			Where("team_id", "==", string(teamID)).
			Where("genre", "in", chunk).
			Documents(ctx)

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, goerr.Wrap(err, "failed to query genre mappings", goerr.V("team_id", teamID))
			}

			var d genreDoc
			if err := doc.DataTo(&d); err != nil {
				iter.Stop()
				return nil, goerr.Wrap(err, "failed to unmarshal genre mapping", goerr.V("docID", doc.Ref.ID))
			}

			result = append(result, &model.GenreMapping{
				TeamID:    types.TeamID(d.TeamID),
				Genre:     d.Genre,
				Emoji:     d.Emoji,
				CreatedAt: d.CreatedAt,
			})
		}
		iter.Stop()
	}

	return result, nil
}

// InsertMany inserts new mappings via BulkWriter
func (r *genreRepository) InsertMany(ctx context.Context, mappings []*model.GenreMapping) error {
	if len(mappings) == 0 {
		return nil
	}

	bulkWriter := r.client.BulkWriter(ctx)
	defer bulkWriter.End()

	now := time.Now()
	for _, m := range mappings {
		createdAt := m.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}

		docRef := r.collection().NewDoc()
		doc := &genreDoc{
			TeamID:    string(m.TeamID),
			Genre:     m.Genre,
			Emoji:     m.Emoji,
			CreatedAt: createdAt,
		}
		if _, err := bulkWriter.Create(docRef, doc); err != nil {
			return goerr.Wrap(err, "failed to add Create operation to bulk writer",
				goerr.V("team_id", m.TeamID), goerr.V("genre", m.Genre))
		}
	}

	bulkWriter.Flush()

	return nil
}
