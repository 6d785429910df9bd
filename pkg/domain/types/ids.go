package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// UserID represents a Slack user ID (e.g. "U024BE7LH")
type UserID string

// TeamID represents a Slack workspace ID (e.g. "T024BE7LD")
type TeamID string

var slackIDPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// Validate checks if the UserID is valid
func (u UserID) Validate() error {
	if u == "" {
		return goerr.New("user ID cannot be empty")
	}
	if !slackIDPattern.MatchString(string(u)) {
		return goerr.New("user ID must be uppercase alphanumeric", goerr.V("id", u))
	}
	return nil
}

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}

// Validate checks if the TeamID is valid
func (t TeamID) Validate() error {
	if t == "" {
		return goerr.New("team ID cannot be empty")
	}
	if !slackIDPattern.MatchString(string(t)) {
		return goerr.New("team ID must be uppercase alphanumeric", goerr.V("id", t))
	}
	return nil
}

// String returns the string representation of TeamID
func (t TeamID) String() string {
	return string(t)
}
