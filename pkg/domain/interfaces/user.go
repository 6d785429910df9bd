package interfaces

import (
	"context"

	"github.com/songify-io/songify/pkg/domain/model"
	"github.com/songify-io/songify/pkg/domain/types"
)

// UserRepository provides persistence for linked user records.
//
// All writes are single-document upserts keyed by user ID; no operation spans
// more than one record, so no multi-document transactions are needed.
type UserRepository interface {
	// Get retrieves a single user record. Returns ErrNotFound when absent.
	Get(ctx context.Context, id types.UserID) (*model.User, error)

	// List retrieves all user records (scanned once per polling tick)
	List(ctx context.Context) ([]*model.User, error)

	// Put upserts a user record keyed by its ID
	Put(ctx context.Context, user *model.User) error

	// Delete removes a user record. Deleting an absent record is not an error.
	Delete(ctx context.Context, id types.UserID) error
}
