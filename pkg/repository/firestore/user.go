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
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.UserRepository = &userRepository{}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{
		client: client,
	}
}

// userDoc is the Firestore persistence model
type userDoc struct {
	ID             string    `firestore:"id"`
	TeamID         string    `firestore:"team_id"`
	SlackToken     string    `firestore:"slack_token"`
	SpotifyToken   string    `firestore:"spotify_token"`
	SpotifyRefresh string    `firestore:"spotify_refresh"`
	Status         string    `firestore:"status"`
	Playing        bool      `firestore:"playing"`
	Emoji          string    `firestore:"emoji"`
	OriginalStatus string    `firestore:"original_status"`
	OriginalEmoji  string    `firestore:"original_emoji"`
	Paused         bool      `firestore:"paused"`
	CreatedAt      time.Time `firestore:"created_at"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

func (r *userRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + usersCollection)
	}
	return r.client.Collection(usersCollection)
}

func (r *userRepository) toDoc(user *model.User) *userDoc {
	return &userDoc{
		ID:             string(user.ID),
		TeamID:         string(user.TeamID),
		SlackToken:     user.SlackToken,
		SpotifyToken:   user.SpotifyToken,
		SpotifyRefresh: user.SpotifyRefresh,
		Status:         user.Status,
		Playing:        user.Playing,
		Emoji:          user.Emoji,
		OriginalStatus: user.OriginalStatus,
		OriginalEmoji:  user.OriginalEmoji,
		Paused:         user.Paused,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func (r *userRepository) fromDoc(doc *userDoc) *model.User {
	return &model.User{
		ID:             types.UserID(doc.ID),
		TeamID:         types.TeamID(doc.TeamID),
		SlackToken:     doc.SlackToken,
		SpotifyToken:   doc.SpotifyToken,
		SpotifyRefresh: doc.SpotifyRefresh,
		Status:         doc.Status,
		Playing:        doc.Playing,
		Emoji:          doc.Emoji,
		OriginalStatus: doc.OriginalStatus,
		OriginalEmoji:  doc.OriginalEmoji,
		Paused:         doc.Paused,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}

// Get retrieves a single user record
func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var d userDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("id", id))
	}

	return r.fromDoc(&d), nil
}

// List retrieves all user records
func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var d userDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("docID", doc.Ref.ID))
		}

		users = append(users, r.fromDoc(&d))
	}

	return users, nil
}

// Put upserts a user record keyed by its ID
func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	if err := user.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user ID")
	}

	doc := r.toDoc(user)
	doc.UpdatedAt = time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = doc.UpdatedAt
	}

	if _, err := r.collection().Doc(string(user.ID)).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put user", goerr.V("id", user.ID))
	}
	return nil
}

// Delete removes a user record. Deleting an absent record is not an error.
func (r *userRepository) Delete(ctx context.Context, id types.UserID) error {
	if _, err := r.collection().Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete user", goerr.V("id", id))
	}
	return nil
}
