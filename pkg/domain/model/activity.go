package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/songify-io/songify/pkg/domain/types"
)

// Activity is a best-effort audit entry for sync and command operations.
// Insert failures are logged, never propagated to the caller.
type Activity struct {
	ID        string
	Action    string
	Service   string
	Message   string
	UserID    types.UserID
	Error     bool
	CreatedAt time.Time
}

// NewActivity builds an Activity with a fresh ID and timestamp.
func NewActivity(action, service, message string, userID types.UserID, isError bool) *Activity {
	return &Activity{
		ID:        uuid.NewString(),
		Action:    action,
		Service:   service,
		Message:   message,
		UserID:    userID,
		Error:     isError,
		CreatedAt: time.Now(),
	}
}
