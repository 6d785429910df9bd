package usecase

import (
	"sync"

	"github.com/songify-io/songify/pkg/domain/interfaces"
	"github.com/songify-io/songify/pkg/service/slack"
	"github.com/songify-io/songify/pkg/service/spotify"
	"golang.org/x/sync/semaphore"
)

const (
	// defaultEmoji tags a status that has text but no genre mapping
	defaultEmoji = ":notes:"

	// pausedEmoji marks a track that is loaded but not playing
	pausedEmoji = ":double_vertical_bar:"
)

type UseCases struct {
	repo    interfaces.Repository
	spotify spotify.Service
	slack   slack.Service

	defaultEmoji string
	pausedEmoji  string

	// inFlight holds one semaphore per user so a slow reconciliation
	// never overlaps with the next tick for the same user
	mu       sync.Mutex
	inFlight map[string]*semaphore.Weighted

	links *linkStore
}

type Option func(*UseCases)

// WithDefaultEmoji overrides the emoji used when no genre mapping matches
func WithDefaultEmoji(emoji string) Option {
	return func(uc *UseCases) {
		uc.defaultEmoji = emoji
	}
}

// WithPausedEmoji overrides the emoji used when the player is paused
func WithPausedEmoji(emoji string) Option {
	return func(uc *UseCases) {
		uc.pausedEmoji = emoji
	}
}

func New(repo interfaces.Repository, spotifySvc spotify.Service, slackSvc slack.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:         repo,
		spotify:      spotifySvc,
		slack:        slackSvc,
		defaultEmoji: defaultEmoji,
		pausedEmoji:  pausedEmoji,
		inFlight:     make(map[string]*semaphore.Weighted),
		links:        newLinkStore(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// guard returns the per-user in-flight semaphore, creating it on first use
func (uc *UseCases) guard(userID string) *semaphore.Weighted {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	sem, ok := uc.inFlight[userID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		uc.inFlight[userID] = sem
	}
	return sem
}
