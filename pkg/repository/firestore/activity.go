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

const activitiesCollection = "activities"

type activityRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.ActivityRepository = &activityRepository{}

func newActivityRepository(client *firestore.Client) *activityRepository {
	return &activityRepository{
		client: client,
	}
}

type activityDoc struct {
	ID        string    `firestore:"id"`
	Action    string    `firestore:"action"`
	Service   string    `firestore:"service"`
	Message   string    `firestore:"message"`
	UserID    string    `firestore:"user_id"`
	Error     bool      `firestore:"error"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (r *activityRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + activitiesCollection)
	}
	return r.client.Collection(activitiesCollection)
}

func (r *activityRepository) Insert(ctx context.Context, activity *model.Activity) error {
	doc := &activityDoc{
		ID:        activity.ID,
		Action:    activity.Action,
		Service:   activity.Service,
		Message:   activity.Message,
		UserID:    string(activity.UserID),
		Error:     activity.Error,
		CreatedAt: activity.CreatedAt,
	}

	if _, err := r.collection().Doc(activity.ID).Create(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to insert activity", goerr.V("id", activity.ID))
	}
	return nil
}

// ListRecent returns up to limit entries, newest first
func (r *activityRepository) ListRecent(ctx context.Context, limit int) ([]*model.Activity, error) {
	iter := r.collection().
		OrderBy("created_at", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Activity
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate activities")
		}

		var d activityDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal activity", goerr.V("docID", doc.Ref.ID))
		}

		result = append(result, &model.Activity{
			ID:        d.ID,
			Action:    d.Action,
			Service:   d.Service,
			Message:   d.Message,
			UserID:    types.UserID(d.UserID),
			Error:     d.Error,
			CreatedAt: d.CreatedAt,
		})
	}

	return result, nil
}
