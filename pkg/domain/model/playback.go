package model

import "strings"

const (
	// maxStatusLength is the Slack status text display limit
	maxStatusLength = 100
	truncateMarker  = "..."
)

// Artist identifies one performer of the current track.
type Artist struct {
	ID   string
	Name string
}

// Playback is a snapshot of a user's Spotify player. A nil Playback (or one
// without a track) means nothing is active.
type Playback struct {
	IsPlaying bool
	Track     string
	TrackURI  string
	Artists   []Artist
}

// HasTrack reports whether the snapshot carries an actual track.
func (p *Playback) HasTrack() bool {
	return p != nil && p.Track != "" && len(p.Artists) > 0
}

// StatusLine composes the candidate status text: "artist1,artist2 - Title".
func (p *Playback) StatusLine() string {
	names := make([]string, len(p.Artists))
	for i, a := range p.Artists {
		names[i] = a.Name
	}
	return strings.Join(names, ",") + " - " + p.Track
}

// TruncateStatus enforces the Slack display limit: text longer than 100
// characters is cut to 97 characters plus "...". Applied at publish time only;
// the stored de-duplication key keeps the full text. The limit counts runes,
// not bytes, so multibyte artist and track names are never cut mid-character.
func TruncateStatus(s string) string {
	runes := []rune(s)
	if len(runes) <= maxStatusLength {
		return s
	}
	return string(runes[:maxStatusLength-len(truncateMarker)]) + truncateMarker
}
