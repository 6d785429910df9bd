package model

import (
	"time"

	"github.com/songify-io/songify/pkg/domain/types"
)

// User is the stored linkage between a Slack identity and a Spotify account,
// plus the sync state of the reconciliation loop.
//
// Status, Playing and Emoji always reflect exactly what was last pushed to
// Slack for this user. They are the de-duplication key of the sync loop, not
// a cache of Spotify truth: a tick publishes only when the desired status
// differs from these fields, and they are updated together with every push.
type User struct {
	ID     types.UserID
	TeamID types.TeamID

	// SlackToken is the user OAuth token used to write the Slack status
	SlackToken string
	// SpotifyToken and SpotifyRefresh are empty until account linking completes
	SpotifyToken   string
	SpotifyRefresh string

	// Last-pushed state (de-duplication key)
	Status  string
	Playing bool
	Emoji   string

	// Slack status captured at link time, restored when playback stops.
	// Mutable via the "status" subcommand.
	OriginalStatus string
	OriginalEmoji  string

	// Paused suspends the sync loop for this record. Commands still work.
	Paused bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Linked reports whether the Spotify side of the account link is complete.
func (u *User) Linked() bool {
	return u.SpotifyToken != ""
}
